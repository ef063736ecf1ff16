package report

// markdown.go — plain-text rendering of the report.
//
// Layout:
//   frontmatter          — partner, id, generated_at, tags
//   # <partner>          — one "## <sheet>" section per sheet, in order
//   tables               — pipe tables; rating-colored cells end with the
//                          color as a code span
//   charts               — one bullet per chart with its series

import (
	"fmt"
	"strings"
	"time"

	"aimaturity/internal/frontmatter"
)

// Markdown renders the report as a single markdown note.
type Markdown struct{}

func (Markdown) Name() string      { return "markdown" }
func (Markdown) Extension() string { return "md" }

type markdownMeta struct {
	Partner     string   `yaml:"partner"`
	ID          string   `yaml:"id"`
	AssessedBy  string   `yaml:"assessed_by"`
	GeneratedAt string   `yaml:"generated_at"`
	Tags        []string `yaml:"tags"`
}

func (Markdown) Render(rep *Report) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# AI Maturity Assessment: %s\n", rep.Partner)
	for _, sh := range rep.Sheets {
		fmt.Fprintf(&b, "\n## %s\n", sh.Name)
		for _, t := range sh.Tables {
			b.WriteString("\n")
			writeMarkdownTable(&b, t)
		}
		if len(sh.Charts) > 0 {
			b.WriteString("\n")
		}
		for _, c := range sh.Charts {
			writeMarkdownChart(&b, c)
		}
	}

	meta := markdownMeta{
		Partner:     rep.Partner,
		ID:          rep.ID,
		AssessedBy:  rep.AssessedBy,
		GeneratedAt: rep.GeneratedAt.Format(time.RFC3339),
		Tags:        []string{"ai-maturity", "assessment"},
	}
	out, err := frontmatter.Write(meta, b.String())
	if err != nil {
		return nil, err
	}
	return out, nil
}

func writeMarkdownTable(b *strings.Builder, t Table) {
	width := len(t.Header)
	for _, row := range t.Rows {
		width = max(width, len(row))
	}
	if width == 0 {
		return
	}

	header := make([]string, width)
	for i := range header {
		if i < len(t.Header) {
			header[i] = markdownCell(t.Header[i])
		}
	}
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat("---|", width) + "\n")

	for _, row := range t.Rows {
		cells := make([]string, width)
		for i := range cells {
			if i < len(row) {
				cells[i] = markdownCell(row[i])
			}
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
}

// markdownCell formats a cell value for a pipe table. Floats keep two
// decimals; pipes and newlines are escaped.
func markdownCell(c Cell) string {
	var s string
	switch v := c.Value.(type) {
	case nil:
		s = ""
	case float64:
		s = fmt.Sprintf("%.2f", v)
	default:
		s = fmt.Sprint(v)
	}
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\n", "<br>")
	if c.Style.Fill != "" && c.Value != nil && !isHeaderFill(c.Style.Fill) {
		s += " `" + c.Style.Fill + "`"
	}
	return s
}

// isHeaderFill reports whether fill is one of the fixed header colors, which
// carry no rating information.
func isHeaderFill(fill string) bool {
	switch fill {
	case navy, lightGray, blue:
		return true
	}
	return false
}

func writeMarkdownChart(b *strings.Builder, c Chart) {
	names := make([]string, 0, len(c.Series))
	for _, s := range c.Series {
		names = append(names, fmt.Sprintf("%s@%s", refLabel(s.Name), s.Color))
	}
	fmt.Fprintf(b, "- **%s** (%s chart; series %s)\n", c.Title, c.Kind, strings.Join(names, ", "))
}

// refLabel renders r as R1C1-style text, which needs no column letters.
func refLabel(r Ref) string {
	return fmt.Sprintf("R%dC%d", r.Row, r.Col)
}

package report

import (
	"fmt"

	"aimaturity/internal/assessment"
	"aimaturity/internal/maturity"
)

// Fixed presentation colors.
const (
	navy      = "#003366"
	white     = "#FFFFFF"
	black     = "#000000"
	lightGray = "#D9D9D9"
	blue      = "#4472C4"
	orange    = "#ED7D31"
	gray      = "#A5A5A5"
)

// seriesColors gives each phase its bar/line color, in maturity.Phases order.
var seriesColors = []string{blue, orange, gray}

var (
	navyHeader    = Style{Fill: navy, FontColor: white, FontSize: 11, Bold: true, Border: true, Wrap: true, Align: "center"}
	boxedCell     = Style{FontSize: 11, Border: true, Wrap: true, Align: "center"}
	heatmapHeader = Style{Fill: lightGray, FontSize: 11, Bold: true, Align: "center"}
	chartsHeader  = Style{Fill: blue, FontColor: white, FontSize: 11, Bold: true, Border: true, Align: "center"}
	partnerLabel  = Style{FontColor: navy, FontSize: 12, Bold: true, Align: "left"}
	partnerValue  = Style{FontSize: 11, Align: "left"}
	plainCell     = Style{FontSize: 11}
	bulletCell    = Style{FontSize: 11, Border: true, Wrap: true}
)

// builder carries what every section needs.
type builder struct {
	model     *maturity.Model
	records   []assessment.Record // taxonomy order
	summaries []assessment.CategorySummary
	names     map[string]string
}

func (b *builder) sheet(base string) Sheet {
	return Sheet{Name: b.names[base], Base: base}
}

func text(v string, s Style) Cell { return Cell{Value: v, Style: s} }

func headerRow(s Style, labels ...string) []Cell {
	out := make([]Cell, len(labels))
	for i, l := range labels {
		out[i] = text(l, s)
	}
	return out
}

func phaseLabels(first string) []string {
	labels := []string{first}
	for _, p := range maturity.Phases {
		labels = append(labels, string(p))
	}
	return labels
}

// ---------------------------------------------------------------------------
// Partner Details
// ---------------------------------------------------------------------------

func (b *builder) partnerSheet(partner string, opts Options) Sheet {
	s := b.sheet(SheetPartner)
	s.Columns = []Column{{From: 1, To: 2, Width: 30}}

	details := [][2]string{
		{"Partner Name", partner},
		{"Assessment Date", opts.Now.Format("02-01-2006")},
		{"Assessment Time", opts.Now.Format("03:04 PM MST")},
		{"Assessed By", opts.AssessedBy},
	}
	t := Table{Row: 1, Col: 1}
	for _, d := range details {
		t.Rows = append(t.Rows, []Cell{text(d[0], partnerLabel), text(d[1], partnerValue)})
	}
	s.Tables = []Table{t}
	return s
}

// ---------------------------------------------------------------------------
// Ratings
// ---------------------------------------------------------------------------

// ratingsSheet lists every (category, domain, phase) triple. Records are
// already in taxonomy order, which groups them by category.
func (b *builder) ratingsSheet() Sheet {
	s := b.sheet(SheetRatings)
	s.Columns = []Column{{From: 1, To: 5, Width: 25}}

	t := Table{
		Row:    1,
		Col:    1,
		Header: headerRow(navyHeader, "Category", "Domain", "Phase", "Rating", "Summary"),
		Rows:   [][]Cell{},
	}
	for _, rec := range b.records {
		cat, _ := b.model.CategoryOf(rec.Domain)
		for _, phase := range maturity.Phases {
			r := rec.Phases[phase].Rating
			rated := ratingCell(b.model, boxedCell, r)
			t.Rows = append(t.Rows, []Cell{
				text(cat, boxedCell),
				text(rec.Domain, boxedCell),
				text(string(phase), boxedCell),
				rated,
				{Value: b.model.LevelName(r), Style: rated.Style},
			})
		}
	}
	s.Tables = []Table{t}
	return s
}

// ratingCell holds v filled with the color of its rating.
func ratingCell(m *maturity.Model, base Style, v any) Cell {
	base.Fill = m.ColorFor(v)
	base.Wrap = false
	return Cell{Value: v, Style: base}
}

// ---------------------------------------------------------------------------
// Heatmap
// ---------------------------------------------------------------------------

// Rows reserved below a table for its bar chart.
const chartRows = 22

func (b *builder) heatmapSheet() Sheet {
	s := b.sheet(SheetHeatmap)
	s.Columns = []Column{{From: 1, To: 1, Width: 30}, {From: 2, To: 4, Width: 15}}

	heat := Style{FontSize: 10, Align: "center"}

	domains := Table{Row: 1, Col: 1, Header: headerRow(heatmapHeader, phaseLabels("Domain")...), Rows: [][]Cell{}}
	for _, rec := range b.records {
		row := []Cell{{Value: rec.Domain, Style: heat}}
		for _, phase := range maturity.Phases {
			row = append(row, ratingCell(b.model, heat, rec.Phases[phase].Rating))
		}
		domains.Rows = append(domains.Rows, row)
	}
	s.Tables = append(s.Tables, domains)

	next := domains.LastRow() + 3
	if len(domains.Rows) > 0 {
		s.Charts = append(s.Charts, barChart(s.Name, domains, next, "Domain Level Maturity Ratings", "Domains"))
		next += chartRows
	}

	categories := Table{Row: next, Col: 1, Header: headerRow(heatmapHeader, phaseLabels("Category")...), Rows: [][]Cell{}}
	for _, sum := range b.summaries {
		if sum.Domains == 0 {
			continue
		}
		row := []Cell{{Value: sum.Category, Style: heat}}
		for _, phase := range maturity.Phases {
			row = append(row, ratingCell(b.model, heat, sum.Average(phase)))
		}
		categories.Rows = append(categories.Rows, row)
	}
	s.Tables = append(s.Tables, categories)

	if len(categories.Rows) > 0 {
		s.Charts = append(s.Charts, barChart(s.Name, categories, categories.LastRow()+3, "Category Level Maturity Ratings", "Categories"))
	}
	return s
}

// ---------------------------------------------------------------------------
// Comments
// ---------------------------------------------------------------------------

func (b *builder) commentsSheet() Sheet {
	s := b.sheet(SheetComments)
	s.Columns = []Column{{From: 1, To: 5, Width: 30}}

	t := Table{
		Row:    1,
		Col:    1,
		Header: headerRow(navyHeader, "Domain", "Phase", "Rating", "Selected Points", "Partner Specific Details"),
		Rows:   [][]Cell{},
	}
	for _, rec := range b.records {
		for _, phase := range maturity.Phases {
			p := rec.Phases[phase]
			t.Rows = append(t.Rows, []Cell{
				text(rec.Domain, boxedCell),
				text(string(phase), boxedCell),
				{Value: p.Rating, Style: boxedCell},
				text(b.model.Comments(p.Rating), boxedCell),
				text(p.Note(), boxedCell),
			})
		}
	}
	s.Tables = []Table{t}
	return s
}

// ---------------------------------------------------------------------------
// Definitions
// ---------------------------------------------------------------------------

// definitionsSheet puts each level in its own column: a header in the level
// color over the level's bullets. It does not depend on the records.
func (b *builder) definitionsSheet() Sheet {
	s := b.sheet(SheetDefinitions)

	t := Table{Row: 1, Col: 1, Rows: [][]Cell{}}
	depth := 0
	for r := maturity.MinRating; r <= maturity.MaxRating; r++ {
		l, _ := b.model.Level(r)
		t.Header = append(t.Header, text(fmt.Sprintf("%d = %s", r, l.Name), Style{
			Fill: l.Color, FontColor: black, FontSize: 11, Bold: true, Border: true, Wrap: true, Align: "center",
		}))
		depth = max(depth, len(l.Description))
	}
	for i := 0; i < depth; i++ {
		row := make([]Cell, 0, maturity.MaxRating)
		for r := maturity.MinRating; r <= maturity.MaxRating; r++ {
			l, _ := b.model.Level(r)
			if i < len(l.Description) {
				row = append(row, text(l.Description[i], bulletCell))
			} else {
				row = append(row, Cell{})
			}
		}
		t.Rows = append(t.Rows, row)
	}
	s.Columns = []Column{{From: 1, To: len(t.Header), Width: 40}}
	s.Tables = []Table{t}
	return s
}

// ---------------------------------------------------------------------------
// Charts
// ---------------------------------------------------------------------------

func (b *builder) chartsSheet() Sheet {
	s := b.sheet(SheetCharts)
	s.Columns = []Column{{From: 1, To: 4, Width: 15}}

	t := Table{Row: 1, Col: 1, Header: headerRow(chartsHeader, phaseLabels("Domain")...), Rows: [][]Cell{}}
	cell := Style{FontSize: 11, Border: true, Align: "center"}
	for _, rec := range b.records {
		row := []Cell{text(rec.Domain, plainCell)}
		for _, phase := range maturity.Phases {
			row = append(row, ratingCell(b.model, cell, rec.Phases[phase].Rating))
		}
		t.Rows = append(t.Rows, row)
	}
	s.Tables = []Table{t}

	if len(t.Rows) > 0 {
		s.Charts = []Chart{
			radarChart(s.Name, t, Ref{Sheet: s.Name, Row: 2, Col: 6}),
			scatterChart(s.Name, t, Ref{Sheet: s.Name, Row: 20, Col: 6}),
		}
	}
	return s
}

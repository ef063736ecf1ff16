package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"aimaturity/internal/maturity"
	"aimaturity/internal/session"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4472C4"))
	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F08080")).Bold(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90"))
	focusStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ED7D31"))
	domainCell   = lipgloss.NewStyle().Width(40)
	helpBar      = lipgloss.NewStyle().Reverse(true).Padding(0, 1)
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("AI Maturity Assessment"))
	b.WriteString("\n\n")

	var help string
	switch m.sess.Stage() {
	case session.StagePartner:
		b.WriteString(m.partnerView())
		help = "[enter] start  [esc] quit"
	case session.StageCollecting:
		b.WriteString(m.domainView())
		help = "[tab] next field  [←/→ 1-5] rating  [enter] save & continue  [f] save & finish  [esc] previous  [q] quit"
	case session.StageResults:
		if m.details {
			b.WriteString(m.detailsView())
			help = "[d] summary  [w] write report  [r] revise  [q] quit"
		} else {
			b.WriteString(m.resultsView())
			help = "[d] detailed ratings  [w] write report  [r] revise  [q] quit"
		}
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n" + helpBar.Render(help))
	return b.String()
}

func (m Model) partnerView() string {
	return headingStyle.Render("Partner") + "\n" + m.partner.View() + "\n"
}

func (m Model) domainView() string {
	model := m.sess.Model()
	domain := m.sess.Domain()
	category, _ := model.CategoryOf(domain)

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", mutedStyle.Render(fmt.Sprintf("%s · %d/%d", m.sess.Partner(), m.sess.Index()+1, m.sess.Total())), mutedStyle.Render(category))
	b.WriteString(headingStyle.Render(domain) + "\n")

	for i, phase := range maturity.Phases {
		label := string(phase)
		if m.focus/2 == i {
			label = focusStyle.Render("▸ " + label)
		} else {
			label = "  " + label
		}
		r := m.ratings[i]
		b.WriteString("\n" + label + "\n")

		scale := ratingScale(model, r)
		if m.focus == 2*i {
			scale = focusStyle.Render("›") + " " + scale
		} else {
			scale = "  " + scale
		}
		b.WriteString(scale + "\n")

		if l, ok := model.Level(r); ok {
			for _, d := range l.Description {
				b.WriteString(mutedStyle.Render("    - "+d) + "\n")
			}
		}
		b.WriteString("  " + m.notes[i].View() + "\n")
	}
	return b.String()
}

// ratingScale shows 1..5 with the chosen rating in its level color.
func ratingScale(model *maturity.Model, rating int) string {
	parts := make([]string, 0, maturity.MaxRating)
	for r := maturity.MinRating; r <= maturity.MaxRating; r++ {
		if r == rating {
			parts = append(parts, chip(model.ColorFor(r), fmt.Sprintf("%d %s", r, model.LevelName(r))))
		} else {
			parts = append(parts, mutedStyle.Render(fmt.Sprintf(" %d ", r)))
		}
	}
	return strings.Join(parts, " ")
}

func chip(color, text string) string {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(color)).
		Foreground(lipgloss.Color("#000000")).
		Padding(0, 1).
		Render(text)
}

func (m Model) resultsView() string {
	model := m.sess.Model()
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", headingStyle.Render("Results for "+m.sess.Partner()))

	header := domainCell.Render("Domain")
	for _, phase := range maturity.Phases {
		header += " " + lipgloss.NewStyle().Width(19).Render(string(phase))
	}
	b.WriteString(headingStyle.Render(header) + "\n")
	for _, rec := range m.sess.Records() {
		row := domainCell.Render(rec.Domain)
		for _, phase := range maturity.Phases {
			r := rec.Phases[phase].Rating
			row += " " + lipgloss.NewStyle().Width(19).Render(chip(model.ColorFor(r), fmt.Sprint(r)))
		}
		b.WriteString(row + "\n")
	}

	sums, err := m.sess.Summaries()
	if err != nil {
		return b.String() + errorStyle.Render(err.Error()) + "\n"
	}
	if len(sums) > 0 {
		b.WriteString("\n" + headingStyle.Render("Category averages") + "\n")
	}
	for _, s := range sums {
		row := domainCell.Render(s.Category)
		for _, phase := range maturity.Phases {
			avg := s.Average(phase)
			row += " " + lipgloss.NewStyle().Width(19).Render(chip(model.ColorFor(avg), fmt.Sprintf("%.2f", avg)))
		}
		b.WriteString(row + "\n")
	}
	return b.String()
}

// detailsView lists, per domain and phase, the rating with its level bullets
// and the partner note.
func (m Model) detailsView() string {
	model := m.sess.Model()
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headingStyle.Render("Detailed ratings for "+m.sess.Partner()))
	for _, rec := range m.sess.Records() {
		b.WriteString("\n" + headingStyle.Render(rec.Domain) + "\n")
		for _, phase := range maturity.Phases {
			p := rec.Phases[phase]
			fmt.Fprintf(&b, "  %s %s\n", chip(model.ColorFor(p.Rating), fmt.Sprintf("%d %s", p.Rating, model.LevelName(p.Rating))), string(phase))
			for _, line := range strings.Split(p.Comments, "\n") {
				b.WriteString(mutedStyle.Render("    "+line) + "\n")
			}
			if note := p.Note(); note != "" {
				b.WriteString("    Partner details: " + note + "\n")
			}
		}
	}
	return b.String()
}

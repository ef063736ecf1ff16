// Package tui is the interactive assessment wizard.
package tui

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"aimaturity/internal/assessment"
	"aimaturity/internal/maturity"
	"aimaturity/internal/session"
)

// WriteFunc generates and stores the report for the finished assessment and
// returns where it went.
type WriteFunc func(partner string, records []assessment.Record) (string, error)

// Model is the bubbletea model of the wizard. The session it drives is
// shared between copies of the model.
type Model struct {
	sess  *session.Session
	write WriteFunc

	partner textinput.Model
	ratings []int
	notes   []textinput.Model
	// focus walks rating and note of each phase in turn: 2*phase for the
	// rating, 2*phase+1 for the note.
	focus int

	// details switches the results view to per-phase level bullets and
	// partner notes.
	details bool

	status      string
	err         error
	windowWidth int
	quitting    bool
}

// New returns the wizard over sess. write is called on "w" in the results
// view.
func New(sess *session.Session, write WriteFunc) Model {
	partner := textinput.New()
	partner.Placeholder = "Partner name"
	partner.CharLimit = 128
	partner.Focus()

	notes := make([]textinput.Model, len(maturity.Phases))
	for i := range notes {
		ti := textinput.New()
		ti.Placeholder = "Partner specific details (optional)"
		ti.CharLimit = 512
		notes[i] = ti
	}
	return Model{
		sess:    sess,
		write:   write,
		partner: partner,
		ratings: make([]int, len(maturity.Phases)),
		notes:   notes,
	}
}

// Run starts the wizard on the alternate screen and blocks until it quits.
func Run(sess *session.Session, write WriteFunc) error {
	_, err := tea.NewProgram(New(sess, write), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.sess.Stage() {
		case session.StagePartner:
			return m.updatePartner(msg)
		case session.StageCollecting:
			return m.updateCollecting(msg)
		case session.StageResults:
			return m.updateResults(msg)
		}
	}
	return m, nil
}

func (m Model) updatePartner(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEnter:
		if err := m.sess.SetPartner(m.partner.Value()); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.partner.Blur()
		m = m.loadDraft()
		return m, nil
	}
	var cmd tea.Cmd
	m.partner, cmd = m.partner.Update(msg)
	return m, cmd
}

func (m Model) updateCollecting(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		return m.moveFocus(1), nil
	case "shift+tab":
		return m.moveFocus(-1), nil
	case "enter":
		if err := m.sess.Advance(m.record()); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		if m.sess.Stage() == session.StageCollecting {
			m = m.loadDraft()
		}
		return m, nil
	case "esc":
		if err := m.sess.Back(m.record()); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		if m.sess.Stage() == session.StagePartner {
			m.blurNotes()
			m.partner.SetValue("")
			m.partner.Focus()
			return m, textinput.Blink
		}
		m = m.loadDraft()
		return m, nil
	}

	phase := m.focus / 2
	if m.focus%2 == 1 {
		var cmd tea.Cmd
		m.notes[phase], cmd = m.notes[phase].Update(msg)
		return m, cmd
	}
	switch key := msg.String(); key {
	case "f":
		if err := m.sess.Finish(m.record()); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
	case "left", "h":
		m.ratings[phase] = max(m.ratings[phase]-1, maturity.MinRating)
	case "right", "l":
		m.ratings[phase] = min(m.ratings[phase]+1, maturity.MaxRating)
	case "1", "2", "3", "4", "5":
		m.ratings[phase] = int(key[0] - '0')
	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "r":
		if err := m.sess.Restart(); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.status = ""
		m.details = false
		m = m.loadDraft()
	case "d":
		m.details = !m.details
	case "w":
		if m.write == nil {
			m.err = errors.New("no report writer configured")
			return m, nil
		}
		path, err := m.write(m.sess.Partner(), m.sess.Records())
		if err != nil {
			slog.Error("write report", "session_id", m.sess.ID, "err", err)
			m.err = err
			return m, nil
		}
		m.err = nil
		m.status = "Report written to " + path
	}
	return m, nil
}

func (m Model) moveFocus(delta int) Model {
	n := 2 * len(maturity.Phases)
	m.focus = ((m.focus+delta)%n + n) % n
	m.blurNotes()
	if m.focus%2 == 1 {
		m.notes[m.focus/2].Focus()
	}
	return m
}

func (m *Model) blurNotes() {
	for i := range m.notes {
		m.notes[i].Blur()
	}
}

// loadDraft fills the form from the session's draft of the current domain.
func (m Model) loadDraft() Model {
	draft := m.sess.Draft(m.sess.Domain())
	for i, phase := range maturity.Phases {
		p, ok := draft.Phases[phase]
		if !ok || p.Rating < maturity.MinRating {
			p.Rating = maturity.MinRating
		}
		m.ratings[i] = p.Rating
		m.notes[i].SetValue(p.Note())
	}
	m.focus = 0
	m.blurNotes()
	return m
}

// record builds the current domain's record from the form.
func (m Model) record() assessment.Record {
	rec := assessment.NewRecord(m.sess.Domain())
	for i, phase := range maturity.Phases {
		p := assessment.PhaseRating{Rating: m.ratings[i]}
		if note := strings.TrimSpace(m.notes[i].Value()); note != "" {
			p.PartnerDetails = &note
		}
		rec.Phases[phase] = p
	}
	return rec
}

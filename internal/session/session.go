// Package session drives one assessment from partner entry through the
// domain forms to the results view.
//
// A Session is an explicit state machine:
//
//	Partner ──SetPartner──▶ Collecting(0) ──Advance──▶ … ──Advance/Finish──▶ Results
//	   ▲                         │                                             │
//	   └──────────Back───────────┘◀─────────────Restart────────────────────────┘
//
// It owns the result set; the report pipeline only ever sees the snapshot
// returned by Records.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"aimaturity/internal/assessment"
	"aimaturity/internal/maturity"
)

// Stage is the state of a session.
type Stage int

const (
	StagePartner Stage = iota
	StageCollecting
	StageResults
)

func (s Stage) String() string {
	switch s {
	case StagePartner:
		return "partner"
	case StageCollecting:
		return "collecting"
	case StageResults:
		return "results"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

var (
	ErrPartnerRequired = errors.New("partner name is required")
	ErrNotFinished     = errors.New("assessment not finished")
	ErrWrongStage      = errors.New("event not valid in current stage")
	ErrWrongDomain     = errors.New("record is not for the current domain")
)

// Session is one in-memory assessment. It is not safe for concurrent use.
type Session struct {
	ID string

	model   *maturity.Model
	domains []string
	partner string
	stage   Stage
	index   int
	drafts  map[string]assessment.Record
	results *assessment.ResultSet
	log     *slog.Logger
}

// New starts a session at partner entry over the domains of m.
func New(m *maturity.Model) *Session {
	id := uuid.NewString()
	return &Session{
		ID:      id,
		model:   m,
		domains: m.Domains(),
		drafts:  make(map[string]assessment.Record),
		results: assessment.NewResultSet(m),
		log:     slog.Default().With("session_id", id),
	}
}

func (s *Session) Model() *maturity.Model { return s.model }
func (s *Session) Partner() string        { return s.partner }
func (s *Session) Stage() Stage           { return s.stage }
func (s *Session) Index() int             { return s.index }
func (s *Session) Total() int             { return len(s.domains) }
func (s *Session) Completed() int         { return s.results.Len() }

// Domain returns the domain being collected, or "" outside StageCollecting.
func (s *Session) Domain() string {
	if s.stage != StageCollecting {
		return ""
	}
	return s.domains[s.index]
}

// SetPartner records the partner name and opens the first domain form.
func (s *Session) SetPartner(name string) error {
	if s.stage != StagePartner {
		return fmt.Errorf("%w: set partner in %s", ErrWrongStage, s.stage)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrPartnerRequired
	}
	s.partner = name
	s.log.Info("partner set", "partner", name)
	if len(s.domains) == 0 {
		s.stage = StageResults
		return nil
	}
	s.stage = StageCollecting
	s.index = 0
	return nil
}

// Advance saves rec for the current domain and moves to the next one, or to
// the results after the last domain. An invalid rec leaves the session
// where it was.
func (s *Session) Advance(rec assessment.Record) error {
	if err := s.current(rec); err != nil {
		return err
	}
	if err := s.results.Put(rec); err != nil {
		return err
	}
	s.drafts[rec.Domain] = rec.Clone()
	s.log.Debug("domain saved", "domain", rec.Domain, "index", s.index)

	if s.index+1 < len(s.domains) {
		s.index++
		return nil
	}
	s.stage = StageResults
	s.log.Info("assessment complete", "partner", s.partner, "domains", s.results.Len())
	return nil
}

// Back keeps rec as the current domain's draft, unvalidated, and returns to
// the previous domain. From the first domain it returns to partner entry
// and clears the partner name.
func (s *Session) Back(rec assessment.Record) error {
	if err := s.current(rec); err != nil {
		return err
	}
	s.drafts[rec.Domain] = rec.Clone()
	if s.index == 0 {
		s.stage = StagePartner
		s.partner = ""
		return nil
	}
	s.index--
	return nil
}

// Finish saves rec for the current domain and goes straight to the results
// when every domain has a record, skipping the forms after it. With domains
// still unrated the record is kept and the session stays where it was.
func (s *Session) Finish(rec assessment.Record) error {
	if err := s.current(rec); err != nil {
		return err
	}
	if err := s.results.Put(rec); err != nil {
		return err
	}
	s.drafts[rec.Domain] = rec.Clone()
	if !s.results.Complete() {
		missing := s.results.Missing()
		return fmt.Errorf("%w: %d domains left: %s", ErrNotFinished, len(missing), strings.Join(missing, ", "))
	}
	s.stage = StageResults
	s.log.Info("assessment complete", "partner", s.partner, "domains", s.results.Len())
	return nil
}

// Restart reopens the first domain form, keeping every saved record.
func (s *Session) Restart() error {
	if s.stage != StageResults {
		return fmt.Errorf("%w: restart in %s", ErrWrongStage, s.stage)
	}
	if len(s.domains) == 0 {
		return nil
	}
	s.stage = StageCollecting
	s.index = 0
	return nil
}

// Draft returns the form state for domain: the last draft, else the saved
// record, else every phase at the lowest rating.
func (s *Session) Draft(domain string) assessment.Record {
	if rec, ok := s.drafts[domain]; ok {
		return rec.Clone()
	}
	if rec, ok := s.results.Get(domain); ok {
		return rec
	}
	rec := assessment.NewRecord(domain)
	for _, phase := range maturity.Phases {
		rec.Phases[phase] = assessment.PhaseRating{Rating: maturity.MinRating}
	}
	return rec
}

// Records returns a copy of the saved records in taxonomy order, with the
// level bullets filled in as comments.
func (s *Session) Records() []assessment.Record {
	recs := s.results.Records()
	for i, r := range recs {
		recs[i] = assessment.FillComments(s.model, r)
	}
	return recs
}

// Summaries aggregates the saved records by category.
func (s *Session) Summaries() ([]assessment.CategorySummary, error) {
	return assessment.Aggregate(s.model, s.Records())
}

func (s *Session) current(rec assessment.Record) error {
	if s.stage != StageCollecting {
		return fmt.Errorf("%w: %s", ErrWrongStage, s.stage)
	}
	if rec.Domain != s.domains[s.index] {
		return fmt.Errorf("%w: got %q, collecting %q", ErrWrongDomain, rec.Domain, s.domains[s.index])
	}
	return nil
}

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aimaturity/internal/assessment"
	"aimaturity/internal/maturity"
)

func ratedAll(domain string, r int) assessment.Record {
	rec := assessment.NewRecord(domain)
	for _, phase := range maturity.Phases {
		rec.Phases[phase] = assessment.PhaseRating{Rating: r}
	}
	return rec
}

// started returns a session past partner entry.
func started(t *testing.T) *Session {
	t.Helper()
	s := New(maturity.Default())
	require.NoError(t, s.SetPartner("  Acme  "))
	return s
}

func TestNewSession(t *testing.T) {
	s := New(maturity.Default())
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, StagePartner, s.Stage())
	assert.Equal(t, 10, s.Total())
	assert.Equal(t, "", s.Domain())
	assert.Empty(t, s.Records())
}

func TestSetPartner(t *testing.T) {
	s := New(maturity.Default())
	assert.ErrorIs(t, s.SetPartner("   "), ErrPartnerRequired)
	assert.Equal(t, StagePartner, s.Stage())

	require.NoError(t, s.SetPartner(" Acme "))
	assert.Equal(t, "Acme", s.Partner())
	assert.Equal(t, StageCollecting, s.Stage())
	assert.Equal(t, "AI Discovery & Use Case Development", s.Domain())

	assert.ErrorIs(t, s.SetPartner("Other"), ErrWrongStage)
}

func TestAdvanceThroughAllDomains(t *testing.T) {
	s := started(t)
	domains := s.Model().Domains()
	for i, d := range domains {
		assert.Equal(t, i, s.Index())
		require.NoError(t, s.Advance(ratedAll(d, 3)))
	}
	assert.Equal(t, StageResults, s.Stage())
	assert.Equal(t, len(domains), s.Completed())
	assert.ErrorIs(t, s.Finish(ratedAll(domains[0], 3)), ErrWrongStage)

	recs := s.Records()
	require.Len(t, recs, len(domains))
	assert.Equal(t, domains[0], recs[0].Domain)
	assert.Equal(t, s.Model().Comments(3), recs[0].Phases[maturity.Implement].Comments)

	sums, err := s.Summaries()
	require.NoError(t, err)
	require.Len(t, sums, 3)
	assert.Equal(t, 3.0, sums[0].Average(maturity.PlanDesign))
}

func TestAdvanceRejectsInvalidRecord(t *testing.T) {
	s := started(t)
	rec := ratedAll(s.Domain(), 2)
	delete(rec.Phases, maturity.OperateImprove)

	assert.ErrorIs(t, s.Advance(rec), assessment.ErrIncompleteRecord)
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, 0, s.Completed())

	assert.ErrorIs(t, s.Advance(ratedAll(s.Domain(), 6)), assessment.ErrInvalidRating)
	assert.ErrorIs(t, s.Advance(ratedAll("AI Deployment & MLOps", 2)), ErrWrongDomain)
}

func TestBackKeepsDraft(t *testing.T) {
	s := started(t)
	first := s.Domain()
	require.NoError(t, s.Advance(ratedAll(first, 4)))

	second := s.Domain()
	draft := ratedAll(second, 2)
	delete(draft.Phases, maturity.Implement)
	require.NoError(t, s.Back(draft))
	assert.Equal(t, first, s.Domain())

	// The unvalidated draft comes back as-is; nothing was saved for it.
	got := s.Draft(second)
	assert.Len(t, got.Phases, 2)
	assert.Equal(t, 1, s.Completed())
	assert.Equal(t, 4, s.Draft(first).Phases[maturity.PlanDesign].Rating)
}

func TestBackFromFirstDomainClearsPartner(t *testing.T) {
	s := started(t)
	require.NoError(t, s.Back(s.Draft(s.Domain())))
	assert.Equal(t, StagePartner, s.Stage())
	assert.Equal(t, "", s.Partner())
	assert.ErrorIs(t, s.Back(ratedAll("AI Strategy & Governance", 1)), ErrWrongStage)
}

func TestDraftDefaults(t *testing.T) {
	s := New(maturity.Default())
	d := s.Draft("AI Deployment & MLOps")
	require.Len(t, d.Phases, 3)
	for _, phase := range maturity.Phases {
		assert.Equal(t, maturity.MinRating, d.Phases[phase].Rating)
	}
}

func TestFinishReportsMissingDomains(t *testing.T) {
	s := started(t)
	require.NoError(t, s.Advance(ratedAll(s.Domain(), 2)))
	second := s.Domain()

	err := s.Finish(ratedAll(second, 4))
	assert.ErrorIs(t, err, ErrNotFinished)
	assert.ErrorContains(t, err, "8 domains left")
	assert.NotContains(t, err.Error(), second)
	assert.Equal(t, StageCollecting, s.Stage())
	assert.Equal(t, 1, s.Index())

	// The record was saved even though the session did not move.
	assert.Equal(t, 2, s.Completed())
	assert.Equal(t, 4, s.Draft(second).Phases[maturity.Implement].Rating)
}

func TestFinishRejectsInvalidRecord(t *testing.T) {
	s := started(t)
	rec := ratedAll(s.Domain(), 3)
	delete(rec.Phases, maturity.Implement)
	assert.ErrorIs(t, s.Finish(rec), assessment.ErrIncompleteRecord)
	assert.Equal(t, 0, s.Completed())
}

func TestFinishOnlyWhileCollecting(t *testing.T) {
	s := started(t)
	domains := s.Model().Domains()
	for _, d := range domains {
		require.NoError(t, s.Advance(ratedAll(d, 2)))
	}
	require.NoError(t, s.Restart())

	// Every domain is saved; leaving through partner entry must not reach
	// the results with the partner name cleared.
	require.NoError(t, s.Back(s.Draft(s.Domain())))
	require.Equal(t, StagePartner, s.Stage())
	err := s.Finish(ratedAll(domains[0], 2))
	assert.ErrorIs(t, err, ErrWrongStage)
	assert.Equal(t, StagePartner, s.Stage())
	assert.Equal(t, "", s.Partner())
}

func TestRestartKeepsResults(t *testing.T) {
	s := started(t)
	assert.ErrorIs(t, s.Restart(), ErrWrongStage)
	for _, d := range s.Model().Domains() {
		require.NoError(t, s.Advance(ratedAll(d, 2)))
	}
	require.NoError(t, s.Restart())
	assert.Equal(t, StageCollecting, s.Stage())
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, 10, s.Completed())

	// Revising one domain replaces its record.
	require.NoError(t, s.Advance(ratedAll(s.Domain(), 5)))
	recs := s.Records()
	assert.Len(t, recs, 10)
	assert.Equal(t, 5, recs[0].Phases[maturity.PlanDesign].Rating)

	// Every other domain is still saved, so Finish skips their forms.
	require.NoError(t, s.Finish(ratedAll(s.Domain(), 4)))
	assert.Equal(t, StageResults, s.Stage())
	assert.Equal(t, 4, s.Records()[1].Phases[maturity.PlanDesign].Rating)
}

func TestRecordsIsSnapshot(t *testing.T) {
	s := started(t)
	require.NoError(t, s.Advance(ratedAll(s.Domain(), 3)))

	recs := s.Records()
	recs[0].Phases[maturity.PlanDesign] = assessment.PhaseRating{Rating: 5}
	assert.Equal(t, 3, s.Records()[0].Phases[maturity.PlanDesign].Rating)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "partner", StagePartner.String())
	assert.Equal(t, "results", StageResults.String())
	assert.Equal(t, "Stage(7)", Stage(7).String())
}

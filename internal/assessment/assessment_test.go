package assessment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aimaturity/internal/maturity"
)

// rated builds a complete record with the given plan/implement/operate
// ratings.
func rated(domain string, plan, impl, op int) Record {
	rec := NewRecord(domain)
	rec.Phases[maturity.PlanDesign] = PhaseRating{Rating: plan}
	rec.Phases[maturity.Implement] = PhaseRating{Rating: impl}
	rec.Phases[maturity.OperateImprove] = PhaseRating{Rating: op}
	return rec
}

const (
	discovery = "AI Discovery & Use Case Development"
	strategy  = "AI Strategy & Governance"
	infra     = "AI Infrastructure & Compute"
	perf      = "AI Performance Optimization"
)

// ---------------------------------------------------------------------------
// Validate
// ---------------------------------------------------------------------------

func TestValidate(t *testing.T) {
	m := maturity.Default()

	require.NoError(t, Validate(m, rated(strategy, 1, 3, 5)))

	partial := rated(strategy, 2, 3, 4)
	delete(partial.Phases, maturity.OperateImprove)
	assert.ErrorIs(t, Validate(m, partial), ErrIncompleteRecord)

	assert.ErrorIs(t, Validate(m, rated(strategy, 0, 3, 3)), ErrInvalidRating)
	assert.ErrorIs(t, Validate(m, rated(strategy, 3, 6, 3)), ErrInvalidRating)
	assert.ErrorIs(t, Validate(m, rated("Astrology", 3, 3, 3)), ErrUnknownDomain)
	assert.ErrorIs(t, Validate(m, Record{Domain: strategy}), ErrIncompleteRecord)
}

func TestValidateAllRejectsDuplicates(t *testing.T) {
	m := maturity.Default()
	err := ValidateAll(m, []Record{rated(strategy, 1, 1, 1), rated(strategy, 2, 2, 2)})
	assert.ErrorIs(t, err, ErrDuplicateDomain)
}

func TestFillComments(t *testing.T) {
	m := maturity.Default()
	rec := FillComments(m, rated(strategy, 1, 2, 3))
	assert.Equal(t, m.Comments(1), rec.Phases[maturity.PlanDesign].Comments)
	assert.Equal(t, m.Comments(3), rec.Phases[maturity.OperateImprove].Comments)
}

func TestCloneCopiesNotes(t *testing.T) {
	note := "pilot only"
	rec := rated(strategy, 1, 1, 1)
	p := rec.Phases[maturity.PlanDesign]
	p.PartnerDetails = &note
	rec.Phases[maturity.PlanDesign] = p

	c := rec.Clone()
	*rec.Phases[maturity.PlanDesign].PartnerDetails = "changed"
	assert.Equal(t, "pilot only", c.Phases[maturity.PlanDesign].Note())
	assert.Equal(t, "", c.Phases[maturity.Implement].Note())
}

// ---------------------------------------------------------------------------
// ResultSet
// ---------------------------------------------------------------------------

func TestResultSetReplacesByDomain(t *testing.T) {
	m := maturity.Default()
	s := NewResultSet(m)

	require.NoError(t, s.Put(rated(infra, 1, 1, 1)))
	require.NoError(t, s.Put(rated(discovery, 2, 2, 2)))
	require.NoError(t, s.Put(rated(infra, 4, 4, 4)))

	assert.Equal(t, 2, s.Len())
	got, ok := s.Get(infra)
	require.True(t, ok)
	r, _ := got.Rating(maturity.Implement)
	assert.Equal(t, 4, r)

	// Taxonomy order, not insertion order.
	recs := s.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, discovery, recs[0].Domain)
	assert.Equal(t, infra, recs[1].Domain)

	assert.False(t, s.Complete())
	assert.Len(t, s.Missing(), 8)

	// A second record for a domain replaces the first.
	require.NoError(t, s.Put(rated(infra, 1, 1, 1)))
	assert.Equal(t, 2, s.Len())
	got, _ = s.Get(infra)
	r, _ = got.Rating(maturity.Implement)
	assert.Equal(t, 1, r)
}

func TestResultSetRejectsInvalid(t *testing.T) {
	s := NewResultSet(maturity.Default())
	err := s.Put(rated(infra, 1, 9, 1))
	assert.ErrorIs(t, err, ErrInvalidRating)
	assert.Equal(t, 0, s.Len())
}

func TestResultSetComplete(t *testing.T) {
	m := maturity.Default()
	s := NewResultSet(m)
	for _, d := range m.Domains() {
		require.NoError(t, s.Put(rated(d, 3, 3, 3)))
	}
	assert.True(t, s.Complete())
	assert.Empty(t, s.Missing())
}

// ---------------------------------------------------------------------------
// Aggregate
// ---------------------------------------------------------------------------

func TestAggregateEmpty(t *testing.T) {
	got, err := Aggregate(maturity.Default(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAggregateSameCategory(t *testing.T) {
	m := maturity.Default()
	got, err := Aggregate(m, []Record{
		rated(discovery, 2, 3, 4),
		rated(strategy, 4, 3, 2),
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Business", got[0].Category)
	assert.Equal(t, 2, got[0].Domains)
	assert.Equal(t, 3.0, got[0].Average(maturity.PlanDesign))
	assert.Equal(t, 3.0, got[0].Average(maturity.Implement))
	assert.Equal(t, 3.0, got[0].Average(maturity.OperateImprove))
}

func TestAggregateOrderFollowsTaxonomy(t *testing.T) {
	m := maturity.Default()
	records := []Record{
		rated(perf, 5, 5, 5),
		rated(infra, 1, 2, 3),
		rated(strategy, 2, 2, 2),
	}
	got, err := Aggregate(m, records)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Business", got[0].Category)
	assert.Equal(t, "Process", got[1].Category)
	assert.Equal(t, "Tools", got[2].Category)

	// Reversing the input changes nothing.
	reversed := []Record{records[2], records[1], records[0]}
	again, err := Aggregate(m, reversed)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestAggregateOmitsEmptyCategories(t *testing.T) {
	got, err := Aggregate(maturity.Default(), []Record{rated(infra, 1, 1, 1)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Process", got[0].Category)
}

func TestAggregateRejectsIncomplete(t *testing.T) {
	partial := rated(strategy, 2, 3, 4)
	delete(partial.Phases, maturity.Implement)
	_, err := Aggregate(maturity.Default(), []Record{rated(discovery, 1, 1, 1), partial})
	assert.ErrorIs(t, err, ErrIncompleteRecord)
}

func TestAggregateRejectsInvalidRating(t *testing.T) {
	_, err := Aggregate(maturity.Default(), []Record{rated(discovery, 1, 0, 1)})
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestRound2(t *testing.T) {
	tests := []struct {
		sum, count int
		want       float64
	}{
		{6, 2, 3.0},
		{5, 2, 2.5},
		{10, 3, 3.33},
		{5, 3, 1.67},
		{2, 3, 0.67},
		// 1/8 = 0.125 ties up.
		{1, 8, 0.13},
		{3, 8, 0.38},
		{0, 0, 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Round2(tc.sum, tc.count), "Round2(%d, %d)", tc.sum, tc.count)
	}
}

// ---------------------------------------------------------------------------
// Answers file
// ---------------------------------------------------------------------------

func TestLoadAnswers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.yaml")
	doc := `partner: Acme
records:
  - domain: AI Strategy & Governance
    phases:
      Plan & Design: {rating: 3, partner_details: "roadmap approved"}
      Implement: {rating: 2}
      Operate & Improve: {rating: 1, partner_details: ""}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	a, err := LoadAnswers(path)
	require.NoError(t, err)
	assert.Equal(t, "Acme", a.Partner)
	require.Len(t, a.Records, 1)

	rec := a.Records[0]
	require.NoError(t, Validate(maturity.Default(), rec))
	assert.Equal(t, "roadmap approved", rec.Phases[maturity.PlanDesign].Note())
	assert.Nil(t, rec.Phases[maturity.Implement].PartnerDetails)
	require.NotNil(t, rec.Phases[maturity.OperateImprove].PartnerDetails)
	assert.Equal(t, "", *rec.Phases[maturity.OperateImprove].PartnerDetails)
}

func TestLoadAnswersPhaseWithoutRating(t *testing.T) {
	m := maturity.Default()
	for name, phase := range map[string]string{
		"details only": `{partner_details: "x"}`,
		"empty entry":  `{}`,
		"null entry":   `~`,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "answers.yaml")
			doc := "partner: Acme\nrecords:\n  - domain: AI Strategy & Governance\n    phases:\n" +
				"      Plan & Design: " + phase + "\n" +
				"      Implement: {rating: 2}\n" +
				"      Operate & Improve: {rating: 2}\n"
			require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

			a, err := LoadAnswers(path)
			require.NoError(t, err)
			_, ok := a.Records[0].Rating(maturity.PlanDesign)
			assert.False(t, ok)

			_, err = Aggregate(m, a.Records)
			assert.ErrorIs(t, err, ErrIncompleteRecord)
			assert.NotErrorIs(t, err, ErrInvalidRating)
		})
	}
}

func TestLoadAnswersZeroRatingIsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.yaml")
	doc := `partner: Acme
records:
  - domain: AI Strategy & Governance
    phases:
      Plan & Design: {rating: 0}
      Implement: {rating: 2}
      Operate & Improve: {rating: 2}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	a, err := LoadAnswers(path)
	require.NoError(t, err)
	assert.ErrorIs(t, Validate(maturity.Default(), a.Records[0]), ErrInvalidRating)
}

func TestLoadAnswersIgnoresComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.yaml")
	doc := `partner: Acme
records:
  - domain: AI Strategy & Governance
    phases:
      Plan & Design: {rating: 4, comments: "- hand written"}
      Implement: {rating: 2}
      Operate & Improve: {rating: 2}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	a, err := LoadAnswers(path)
	require.NoError(t, err)
	assert.Empty(t, a.Records[0].Phases[maturity.PlanDesign].Comments)

	m := maturity.Default()
	filled := FillComments(m, a.Records[0])
	assert.Equal(t, m.Comments(4), filled.Phases[maturity.PlanDesign].Comments)

	data, err := a.Marshal()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "comments")
}

func TestLoadAnswersMarkdownNote(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acme.md")
	doc := `---
partner: Acme
records:
  - domain: AI Strategy & Governance
    phases:
      Plan & Design: {rating: 3}
      Implement: {rating: 2}
      Operate & Improve: {rating: 1}
---

Workshop notes, not part of the answers.
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	a, err := LoadAnswers(path)
	require.NoError(t, err)
	assert.Equal(t, "Acme", a.Partner)
	require.Len(t, a.Records, 1)
	require.NoError(t, Validate(maturity.Default(), a.Records[0]))

	bad := filepath.Join(t.TempDir(), "bad.md")
	require.NoError(t, os.WriteFile(bad, []byte("partner: Acme\n"), 0o644))
	_, err = LoadAnswers(bad)
	assert.Error(t, err)
}

func TestLoadAnswersErrors(t *testing.T) {
	_, err := LoadAnswers(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("records: {rating: [}"), 0o644))
	_, err = LoadAnswers(path)
	assert.Error(t, err)
}

func TestTemplateRoundTrip(t *testing.T) {
	m := maturity.Default()
	tmpl := Template(m, "Acme")
	require.Len(t, tmpl.Records, len(m.Domains()))
	require.NoError(t, ValidateAll(m, tmpl.Records))

	data, err := tmpl.Marshal()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "answers.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	back, err := LoadAnswers(path)
	require.NoError(t, err)
	assert.Equal(t, tmpl.Partner, back.Partner)
	assert.Equal(t, m.Domains()[0], back.Records[0].Domain)
	require.NoError(t, ValidateAll(m, back.Records))
}

package assessment

import "aimaturity/internal/maturity"

// CategorySummary is the per-phase mean rating of the domains in one
// category. It is always derived from records, never stored.
type CategorySummary struct {
	Category string                     `yaml:"category"`
	Domains  int                        `yaml:"domains"`
	Averages map[maturity.Phase]float64 `yaml:"averages"`
}

// Average returns the rounded mean for phase.
func (c CategorySummary) Average(phase maturity.Phase) float64 {
	return c.Averages[phase]
}

// Aggregate computes category averages over records. Every record is
// validated first; the first invalid one aborts the whole computation.
//
// Categories come out in taxonomy order and only when at least one record
// contributes to them. The input order of records does not matter.
func Aggregate(m *maturity.Model, records []Record) ([]CategorySummary, error) {
	if err := ValidateAll(m, records); err != nil {
		return nil, err
	}

	type tally struct {
		count int
		sums  map[maturity.Phase]int
	}
	tallies := make(map[string]*tally)
	for _, rec := range records {
		cat, _ := m.CategoryOf(rec.Domain)
		t, ok := tallies[cat]
		if !ok {
			t = &tally{sums: make(map[maturity.Phase]int, len(maturity.Phases))}
			tallies[cat] = t
		}
		t.count++
		for _, phase := range maturity.Phases {
			t.sums[phase] += rec.Phases[phase].Rating
		}
	}

	out := make([]CategorySummary, 0, len(tallies))
	for _, c := range m.Categories {
		t, ok := tallies[c.Name]
		if !ok {
			continue
		}
		s := CategorySummary{
			Category: c.Name,
			Domains:  t.count,
			Averages: make(map[maturity.Phase]float64, len(maturity.Phases)),
		}
		for _, phase := range maturity.Phases {
			s.Averages[phase] = Round2(t.sums[phase], t.count)
		}
		out = append(out, s)
	}
	return out, nil
}

// Round2 returns sum/count rounded half-up to two decimals. The rounding is
// done on integer hundredths, so x.xx5 ties always go up.
func Round2(sum, count int) float64 {
	if count <= 0 {
		return 0
	}
	// floor(100*sum/count + 1/2) for non-negative sums.
	hundredths := (200*sum + count) / (2 * count)
	return float64(hundredths) / 100
}

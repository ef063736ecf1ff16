package maturity

import (
	"math"

	"github.com/spf13/cast"
)

// NoColor is returned for ratings that do not map to a level.
const NoColor = "#FFFFFF"

// ColorFor maps a rating to the default palette. See Model.ColorFor.
func ColorFor(rating any) string {
	return Default().ColorFor(rating)
}

// ColorFor maps a rating to its level color. The rating may be an integer,
// an aggregated average or anything spf13/cast can read as a number; it is
// rounded half-up before lookup. Non-numeric or out-of-range input yields
// NoColor.
func (m *Model) ColorFor(rating any) string {
	r, ok := RoundRating(rating)
	if !ok {
		return NoColor
	}
	l, ok := m.levels[r]
	if !ok {
		return NoColor
	}
	return l.Color
}

// RoundRating coerces v to a number and rounds it half-up to an integer.
// It reports false for nil, booleans, non-numeric, NaN and infinite values.
func RoundRating(v any) (int, bool) {
	switch v.(type) {
	case nil, bool:
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	// Keeps the int conversion in range.
	if f < -1e9 || f > 1e9 {
		return 0, false
	}
	return int(math.Floor(f + 0.5)), true
}

// Package assessment holds the per-domain assessment records, the result set
// the wizard fills in, and the category aggregation over it.
package assessment

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"aimaturity/internal/maturity"
)

var (
	// ErrIncompleteRecord means a record lacks a rating for some phase.
	ErrIncompleteRecord = errors.New("incomplete assessment record")
	// ErrInvalidRating means a rating lies outside 1..5.
	ErrInvalidRating = errors.New("invalid rating")
	// ErrUnknownDomain means a record names a domain outside the taxonomy.
	ErrUnknownDomain = errors.New("unknown domain")
	// ErrDuplicateDomain means two records in one input share a domain.
	ErrDuplicateDomain = errors.New("duplicate domain")
)

// PhaseRating is the answer for one (domain, phase) pair.
type PhaseRating struct {
	Rating int `yaml:"rating"`
	// Comments is the bullet text of the chosen level. It is never read from
	// input; FillComments derives it from Rating.
	Comments string `yaml:"-"`
	// PartnerDetails is the optional free-text note. Nil means no note was
	// given, which is distinct from an empty note.
	PartnerDetails *string `yaml:"partner_details,omitempty"`

	// unrated marks a phase decoded without a rating key.
	unrated bool
}

// Note returns the partner note, or "" when absent.
func (p PhaseRating) Note() string {
	if p.PartnerDetails == nil {
		return ""
	}
	return *p.PartnerDetails
}

// Record is the assessment of one domain across all phases.
type Record struct {
	Domain string                         `yaml:"domain"`
	Phases map[maturity.Phase]PhaseRating `yaml:"phases"`
}

// NewRecord returns a record for domain with no phases rated.
func NewRecord(domain string) Record {
	return Record{Domain: domain, Phases: make(map[maturity.Phase]PhaseRating, len(maturity.Phases))}
}

// Rating returns the rating for phase and whether it is present.
func (r Record) Rating(phase maturity.Phase) (int, bool) {
	p, ok := r.Phases[phase]
	return p.Rating, ok && !p.unrated
}

// phaseFields is the decoded form of a phase entry. Rating stays nil when the
// key is absent or the entry is empty.
type phaseFields struct {
	Rating         *int    `yaml:"rating"`
	PartnerDetails *string `yaml:"partner_details"`
}

// UnmarshalYAML decodes a record, keeping phases listed without a rating
// apart from phases rated 0.
func (r *Record) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Domain string                          `yaml:"domain"`
		Phases map[maturity.Phase]*phaseFields `yaml:"phases"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*r = Record{Domain: raw.Domain}
	if raw.Phases == nil {
		return nil
	}
	r.Phases = make(map[maturity.Phase]PhaseRating, len(raw.Phases))
	for phase, f := range raw.Phases {
		var p PhaseRating
		if f == nil || f.Rating == nil {
			p.unrated = true
		} else {
			p.Rating = *f.Rating
		}
		if f != nil {
			p.PartnerDetails = f.PartnerDetails
		}
		r.Phases[phase] = p
	}
	return nil
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	out := Record{Domain: r.Domain}
	if r.Phases != nil {
		out.Phases = make(map[maturity.Phase]PhaseRating, len(r.Phases))
		for k, v := range r.Phases {
			if v.PartnerDetails != nil {
				note := *v.PartnerDetails
				v.PartnerDetails = &note
			}
			out.Phases[k] = v
		}
	}
	return out
}

// Validate checks that rec names a known domain and carries a rating in
// range for every phase. A missing phase is never treated as zero.
func Validate(m *maturity.Model, rec Record) error {
	if !m.HasDomain(rec.Domain) {
		return fmt.Errorf("%w: %q", ErrUnknownDomain, rec.Domain)
	}
	for _, phase := range maturity.Phases {
		p, ok := rec.Phases[phase]
		if !ok || p.unrated {
			return fmt.Errorf("%w: %s has no %s rating", ErrIncompleteRecord, rec.Domain, phase)
		}
		if p.Rating < maturity.MinRating || p.Rating > maturity.MaxRating {
			return fmt.Errorf("%w: %s %s rating %d not in %d..%d",
				ErrInvalidRating, rec.Domain, phase, p.Rating, maturity.MinRating, maturity.MaxRating)
		}
	}
	return nil
}

// ValidateAll validates every record and rejects repeated domains.
func ValidateAll(m *maturity.Model, records []Record) error {
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if err := Validate(m, rec); err != nil {
			return err
		}
		if seen[rec.Domain] {
			return fmt.Errorf("%w: %q", ErrDuplicateDomain, rec.Domain)
		}
		seen[rec.Domain] = true
	}
	return nil
}

// FillComments sets each phase's Comments to the bullet text of its rating.
func FillComments(m *maturity.Model, rec Record) Record {
	out := rec.Clone()
	for phase, p := range out.Phases {
		p.Comments = m.Comments(p.Rating)
		out.Phases[phase] = p
	}
	return out
}

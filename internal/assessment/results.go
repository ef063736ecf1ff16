package assessment

import "aimaturity/internal/maturity"

// ResultSet collects one record per domain. Putting a record for a domain
// that already has one replaces it.
type ResultSet struct {
	model   *maturity.Model
	records map[string]Record
}

// NewResultSet returns an empty result set over the taxonomy of m.
func NewResultSet(m *maturity.Model) *ResultSet {
	return &ResultSet{model: m, records: make(map[string]Record)}
}

// Put validates rec and stores a copy, replacing any earlier record for the
// same domain.
func (s *ResultSet) Put(rec Record) error {
	if err := Validate(s.model, rec); err != nil {
		return err
	}
	s.records[rec.Domain] = rec.Clone()
	return nil
}

// Get returns a copy of the record for domain.
func (s *ResultSet) Get(domain string) (Record, bool) {
	rec, ok := s.records[domain]
	if !ok {
		return Record{}, false
	}
	return rec.Clone(), true
}

// Len returns the number of domains with a record.
func (s *ResultSet) Len() int {
	return len(s.records)
}

// Records returns copies of every record in taxonomy order.
func (s *ResultSet) Records() []Record {
	out := make([]Record, 0, len(s.records))
	for _, d := range s.model.Domains() {
		if rec, ok := s.records[d]; ok {
			out = append(out, rec.Clone())
		}
	}
	return out
}

// Missing returns the domains without a record, in taxonomy order.
func (s *ResultSet) Missing() []string {
	var out []string
	for _, d := range s.model.Domains() {
		if _, ok := s.records[d]; !ok {
			out = append(out, d)
		}
	}
	return out
}

// Complete reports whether every domain has a record.
func (s *ResultSet) Complete() bool {
	return len(s.Missing()) == 0
}

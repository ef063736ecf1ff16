// Package report turns assessment records into a structured, multi-sheet
// report and renders it (xlsx, markdown, yaml).
//
// Build is pure: it lays out every table and chart from the records and the
// category summaries without touching the filesystem. Renderers serialize
// the result in one shot. Generate wraps both behind a single failure
// boundary.
//
// Sheet order is fixed: Partner Details, Ratings, Heatmap, Comments,
// Definitions, Charts.
package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"aimaturity/internal/assessment"
	"aimaturity/internal/maturity"
)

// Base sheet names, before any prefix.
const (
	SheetPartner     = "Partner Details"
	SheetRatings     = "Ratings"
	SheetHeatmap     = "Heatmap"
	SheetComments    = "Comments"
	SheetDefinitions = "Definitions"
	SheetCharts      = "Charts"
)

// DefaultAssessedBy fills the "Assessed By" row when options leave it empty.
const DefaultAssessedBy = "ISSI"

var (
	// ErrGeneration marks every failure surfaced by Generate.
	ErrGeneration = errors.New("report generation failed")
	// ErrStaleSummary means the category summaries passed to Build do not
	// match the records they should have been derived from.
	ErrStaleSummary = errors.New("category summaries do not match records")
)

// Report is the whole artifact.
type Report struct {
	ID          string    `yaml:"id"`
	Partner     string    `yaml:"partner"`
	AssessedBy  string    `yaml:"assessed_by"`
	GeneratedAt time.Time `yaml:"generated_at"`
	Sheets      []Sheet   `yaml:"sheets"`
}

// Sheet returns the sheet whose base name is base.
func (r *Report) Sheet(base string) (Sheet, bool) {
	for _, s := range r.Sheets {
		if s.Base == base {
			return s, true
		}
	}
	return Sheet{}, false
}

// Sheet is one named section of the report.
type Sheet struct {
	// Name is the addressable sheet name (prefixed and sanitized).
	Name string `yaml:"name"`
	// Base is the fixed section name the sheet was built from.
	Base    string   `yaml:"base"`
	Columns []Column `yaml:"columns,omitempty"`
	Tables  []Table  `yaml:"tables,omitempty"`
	Charts  []Chart  `yaml:"charts,omitempty"`
}

// Column sets the width of the 1-based columns From..To.
type Column struct {
	From  int     `yaml:"from"`
	To    int     `yaml:"to"`
	Width float64 `yaml:"width"`
}

// Table is a block of cells anchored at Row/Col (1-based). When Header is
// non-empty it occupies the anchor row and data starts one row below.
type Table struct {
	Title  string   `yaml:"title,omitempty"`
	Row    int      `yaml:"row"`
	Col    int      `yaml:"col"`
	Header []Cell   `yaml:"header,omitempty"`
	Rows   [][]Cell `yaml:"rows"`
}

// FirstDataRow is the sheet row of Rows[0].
func (t Table) FirstDataRow() int {
	if len(t.Header) > 0 {
		return t.Row + 1
	}
	return t.Row
}

// LastRow is the last sheet row the table occupies.
func (t Table) LastRow() int {
	return t.FirstDataRow() + len(t.Rows) - 1
}

// Cell is a value plus its presentation. Value is a string, int or float64.
type Cell struct {
	Value any   `yaml:"value"`
	Style Style `yaml:"style"`
}

// Style is the presentation of a cell. It is comparable so renderers can
// cache per-style resources.
type Style struct {
	Fill      string  `yaml:"fill,omitempty"`
	FontColor string  `yaml:"font_color,omitempty"`
	FontSize  float64 `yaml:"font_size,omitempty"`
	Bold      bool    `yaml:"bold,omitempty"`
	Border    bool    `yaml:"border,omitempty"`
	Wrap      bool    `yaml:"wrap,omitempty"`
	Align     string  `yaml:"align,omitempty"`
}

// Options carries the inputs of Build that do not come from the assessment.
type Options struct {
	// ID identifies the artifact; a random UUID is used when empty.
	ID string
	// Now is the generation time; time.Now when zero.
	Now time.Time
	// Location renders the date and time; Now's own location when nil.
	Location *time.Location
	// AssessedBy fills the fixed "Assessed By" row.
	AssessedBy string
	// SheetPrefix is prepended to every sheet name.
	SheetPrefix string
}

// Build lays out the report for records. summaries must be the category
// summaries of records (see assessment.Aggregate); a mismatch is rejected
// with ErrStaleSummary. Records must be complete. An empty record list
// still yields all six sheets.
func Build(m *maturity.Model, records []assessment.Record, summaries []assessment.CategorySummary, partner string, opts Options) (*Report, error) {
	if err := assessment.ValidateAll(m, records); err != nil {
		return nil, err
	}
	if err := checkSummaries(m, records, summaries); err != nil {
		return nil, err
	}

	opts = opts.withDefaults()
	rep := &Report{
		ID:          opts.ID,
		Partner:     partner,
		AssessedBy:  opts.AssessedBy,
		GeneratedAt: opts.Now,
	}

	b := &builder{
		model:     m,
		records:   inTaxonomyOrder(m, records),
		summaries: summaries,
		names:     sheetNames(opts.SheetPrefix),
	}
	rep.Sheets = []Sheet{
		b.partnerSheet(partner, opts),
		b.ratingsSheet(),
		b.heatmapSheet(),
		b.commentsSheet(),
		b.definitionsSheet(),
		b.chartsSheet(),
	}
	return rep, nil
}

func (o Options) withDefaults() Options {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.Location != nil {
		o.Now = o.Now.In(o.Location)
	}
	if o.AssessedBy == "" {
		o.AssessedBy = DefaultAssessedBy
	}
	return o
}

// checkSummaries recomputes the category view and compares it with the one
// supplied by the caller.
func checkSummaries(m *maturity.Model, records []assessment.Record, summaries []assessment.CategorySummary) error {
	want, err := assessment.Aggregate(m, records)
	if err != nil {
		return err
	}
	if len(want) != len(summaries) {
		return fmt.Errorf("%w: %d categories, want %d", ErrStaleSummary, len(summaries), len(want))
	}
	for i, w := range want {
		got := summaries[i]
		if got.Category != w.Category {
			return fmt.Errorf("%w: category %d is %q, want %q", ErrStaleSummary, i, got.Category, w.Category)
		}
		for _, phase := range maturity.Phases {
			if got.Average(phase) != w.Average(phase) {
				return fmt.Errorf("%w: %s %s average %.2f, want %.2f",
					ErrStaleSummary, w.Category, phase, got.Average(phase), w.Average(phase))
			}
		}
	}
	return nil
}

// inTaxonomyOrder sorts records by the position of their domain in m.
func inTaxonomyOrder(m *maturity.Model, records []assessment.Record) []assessment.Record {
	byDomain := make(map[string]assessment.Record, len(records))
	for _, r := range records {
		byDomain[r.Domain] = r
	}
	out := make([]assessment.Record, 0, len(records))
	for _, d := range m.Domains() {
		if r, ok := byDomain[d]; ok {
			out = append(out, r)
		}
	}
	return out
}

func sheetNames(prefix string) map[string]string {
	names := make(map[string]string)
	for _, base := range []string{SheetPartner, SheetRatings, SheetHeatmap, SheetComments, SheetDefinitions, SheetCharts} {
		names[base] = SheetName(prefix, base)
	}
	return names
}

package report

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"aimaturity/internal/assessment"
	"aimaturity/internal/maturity"
)

// Renderer serializes a built report into a single byte sequence.
type Renderer interface {
	// Name returns the format's short identifier (e.g. "xlsx").
	Name() string

	// Extension returns the file extension for the output, without a dot.
	Extension() string

	// Render encodes the whole report. It must not return partial output
	// alongside an error.
	Render(rep *Report) ([]byte, error)
}

// renderers is the registry of output formats.
var renderers = map[string]Renderer{
	"xlsx":     XLSX{},
	"markdown": Markdown{},
	"yaml":     YAML{},
}

// Lookup returns the renderer registered under name.
func Lookup(name string) (Renderer, error) {
	r, ok := renderers[name]
	if !ok {
		return nil, fmt.Errorf("unknown report format %q (have %v)", name, Formats())
	}
	return r, nil
}

// Formats lists the registered format names, sorted.
func Formats() []string {
	names := make([]string, 0, len(renderers))
	for n := range renderers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Generate aggregates records, builds the report and renders it. Every
// failure, including a panic in a renderer, comes back as one error that
// wraps ErrGeneration and its cause; the returned bytes are nil then.
func Generate(m *maturity.Model, records []assessment.Record, partner string, r Renderer, opts Options) (out []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = fmt.Errorf("%w: %v", ErrGeneration, p)
		}
	}()

	summaries, err := assessment.Aggregate(m, records)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	rep, err := Build(m, records, summaries, partner, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	data, err := r.Render(rep)
	if err != nil {
		return nil, fmt.Errorf("%w: render %s: %w", ErrGeneration, r.Name(), err)
	}
	return data, nil
}

// YAML dumps the report structure, mostly for inspection and diffing.
type YAML struct{}

func (YAML) Name() string      { return "yaml" }
func (YAML) Extension() string { return "yaml" }

func (YAML) Render(rep *Report) ([]byte, error) {
	data, err := yaml.Marshal(rep)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return data, nil
}

// Package maturity holds the static maturity framework: the five rating
// levels with their names, colors and descriptions, the three lifecycle
// phases, and the category → domain taxonomy.
//
// A Model is loaded once at startup and never mutated afterwards.
package maturity

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrConfigurationMissing is returned when the framework cannot be read or
// does not describe a usable model.
var ErrConfigurationMissing = errors.New("maturity framework configuration missing or malformed")

// MinRating and MaxRating bound every rating value.
const (
	MinRating = 1
	MaxRating = 5
)

// Phase is one lifecycle stage rated per domain.
type Phase string

const (
	PlanDesign     Phase = "Plan & Design"
	Implement      Phase = "Implement"
	OperateImprove Phase = "Operate & Improve"
)

// Phases lists the phases in their fixed display order.
var Phases = []Phase{PlanDesign, Implement, OperateImprove}

// Level describes one rung of the maturity scale.
type Level struct {
	Level       int      `yaml:"level"`
	Name        string   `yaml:"name"`
	Color       string   `yaml:"color"`
	Description []string `yaml:"description"`
}

// Category groups an ordered list of domains.
type Category struct {
	Name    string   `yaml:"name"`
	Domains []string `yaml:"domains"`
}

// Model is the loaded framework. Levels are indexed 1..5; categories keep
// their file order, which is the canonical taxonomy order.
type Model struct {
	Levels     []Level    `yaml:"levels"`
	Categories []Category `yaml:"categories"`

	levels   map[int]Level
	category map[string]string
}

//go:embed framework.yaml
var defaultFramework []byte

var (
	defaultOnce  sync.Once
	defaultModel *Model
)

// Default returns the built-in framework. The embedded file is validated by
// tests, so a parse failure here is a programming error.
func Default() *Model {
	defaultOnce.Do(func() {
		m, err := Parse(defaultFramework)
		if err != nil {
			panic(fmt.Sprintf("maturity: embedded framework: %v", err))
		}
		defaultModel = m
	})
	return defaultModel
}

// Load reads a framework file. An empty path returns the built-in framework.
func Load(path string) (*Model, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrConfigurationMissing, path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates a framework document.
func Parse(data []byte) (*Model, error) {
	var m Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigurationMissing, err)
	}
	if err := m.index(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigurationMissing, err)
	}
	return &m, nil
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// index validates the decoded document and builds the lookup tables.
func (m *Model) index() error {
	m.levels = make(map[int]Level, len(m.Levels))
	for _, l := range m.Levels {
		if l.Level < MinRating || l.Level > MaxRating {
			return fmt.Errorf("level %d out of range", l.Level)
		}
		if _, dup := m.levels[l.Level]; dup {
			return fmt.Errorf("level %d defined twice", l.Level)
		}
		if strings.TrimSpace(l.Name) == "" {
			return fmt.Errorf("level %d has no name", l.Level)
		}
		if !hexColor.MatchString(l.Color) {
			return fmt.Errorf("level %d color %q is not #RRGGBB", l.Level, l.Color)
		}
		if len(l.Description) == 0 {
			return fmt.Errorf("level %d has no description", l.Level)
		}
		l.Color = strings.ToUpper(l.Color)
		m.levels[l.Level] = l
	}
	for r := MinRating; r <= MaxRating; r++ {
		if _, ok := m.levels[r]; !ok {
			return fmt.Errorf("level %d missing", r)
		}
	}

	if len(m.Categories) == 0 {
		return fmt.Errorf("no categories")
	}
	m.category = make(map[string]string)
	for _, c := range m.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("category with empty name")
		}
		if len(c.Domains) == 0 {
			return fmt.Errorf("category %q has no domains", c.Name)
		}
		for _, d := range c.Domains {
			if strings.TrimSpace(d) == "" {
				return fmt.Errorf("category %q has an empty domain", c.Name)
			}
			if prev, dup := m.category[d]; dup {
				return fmt.Errorf("domain %q listed under both %q and %q", d, prev, c.Name)
			}
			m.category[d] = c.Name
		}
	}
	return nil
}

// Level returns the level definition for rating r.
func (m *Model) Level(r int) (Level, bool) {
	l, ok := m.levels[r]
	return l, ok
}

// LevelName returns the level name for rating r, or "" when r is out of range.
func (m *Model) LevelName(r int) string {
	return m.levels[r].Name
}

// Comments renders the bullet list of rating r as "- a\n- b".
func (m *Model) Comments(r int) string {
	l, ok := m.levels[r]
	if !ok {
		return ""
	}
	lines := make([]string, len(l.Description))
	for i, d := range l.Description {
		lines[i] = "- " + d
	}
	return strings.Join(lines, "\n")
}

// CategoryOf returns the category that owns domain.
func (m *Model) CategoryOf(domain string) (string, bool) {
	c, ok := m.category[domain]
	return c, ok
}

// HasDomain reports whether domain belongs to the taxonomy.
func (m *Model) HasDomain(domain string) bool {
	_, ok := m.category[domain]
	return ok
}

// Domains returns every domain in taxonomy order.
func (m *Model) Domains() []string {
	var out []string
	for _, c := range m.Categories {
		out = append(out, c.Domains...)
	}
	return out
}

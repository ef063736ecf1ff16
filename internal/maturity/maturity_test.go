package maturity

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFramework(t *testing.T) {
	m := Default()

	names := []string{"Adhoc", "Repeatable", "Defined", "Optimized", "Innovative"}
	for i, want := range names {
		assert.Equal(t, want, m.LevelName(i+1))
	}

	require.Len(t, m.Categories, 3)
	assert.Equal(t, "Business", m.Categories[0].Name)
	assert.Equal(t, "Process", m.Categories[1].Name)
	assert.Equal(t, "Tools", m.Categories[2].Name)
	assert.Len(t, m.Domains(), 10)
	assert.Equal(t, "AI Discovery & Use Case Development", m.Domains()[0])

	cat, ok := m.CategoryOf("AI Deployment & MLOps")
	require.True(t, ok)
	assert.Equal(t, "Process", cat)

	_, ok = m.CategoryOf("Quantum Readiness")
	assert.False(t, ok)
}

func TestPhasesOrder(t *testing.T) {
	assert.Equal(t, []Phase{"Plan & Design", "Implement", "Operate & Improve"}, Phases)
}

func TestComments(t *testing.T) {
	m := Default()
	got := m.Comments(1)
	assert.Contains(t, got, "- AI implementation is experimental with no structured approach.\n- ")
	assert.Equal(t, "", m.Comments(0))
}

func TestColorFor(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{1, "#F08080"},
		{2, "#F4A460"},
		{3, "#FFFF99"},
		{4, "#90EE90"},
		{5, "#98FB98"},
		// Averages round half-up before lookup.
		{3.5, "#90EE90"},
		{2.49, "#F4A460"},
		{4.5, "#98FB98"},
		{0.5, "#F08080"},
		{"3", "#FFFF99"},
		// Off the scale.
		{0, NoColor},
		{6, NoColor},
		{5.5, NoColor},
		{-2, NoColor},
		// Not a number.
		{"high", NoColor},
		{nil, NoColor},
		{true, NoColor},
		{math.NaN(), NoColor},
		{math.Inf(1), NoColor},
		{1e300, NoColor},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ColorFor(tc.in), "ColorFor(%v)", tc.in)
	}
}

func TestColorForIsStable(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t, "#FFFF99", ColorFor(3))
	}
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	m, err := Load("")
	require.NoError(t, err)
	assert.Same(t, Default(), m)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigurationMissing))
}

func TestLoadCustomFramework(t *testing.T) {
	path := filepath.Join(t.TempDir(), "framework.yaml")
	doc := `
levels:
  - {level: 1, name: One, color: "#111111", description: [a]}
  - {level: 2, name: Two, color: "#222222", description: [b]}
  - {level: 3, name: Three, color: "#333333", description: [c]}
  - {level: 4, name: Four, color: "#444444", description: [d]}
  - {level: 5, name: Five, color: "#aaaaaa", description: [e, f]}
categories:
  - name: Only
    domains: [Alpha, Beta]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Beta"}, m.Domains())
	assert.Equal(t, "#AAAAAA", m.ColorFor(5))
	assert.Equal(t, "- e\n- f", m.Comments(5))
}

func TestParseRejectsMalformedFrameworks(t *testing.T) {
	levels := `
levels:
  - {level: 1, name: One, color: "#111111", description: [a]}
  - {level: 2, name: Two, color: "#222222", description: [b]}
  - {level: 3, name: Three, color: "#333333", description: [c]}
  - {level: 4, name: Four, color: "#444444", description: [d]}
  - {level: 5, name: Five, color: "#555555", description: [e]}
`
	tests := map[string]string{
		"not yaml":        "levels: [",
		"missing level":   "levels:\n  - {level: 1, name: One, color: \"#111111\", description: [a]}\ncategories:\n  - {name: C, domains: [D]}\n",
		"bad color":       "levels:\n  - {level: 1, name: One, color: red, description: [a]}\n",
		"no categories":   levels,
		"repeated domain": levels + "categories:\n  - {name: A, domains: [X]}\n  - {name: B, domains: [X]}\n",
		"empty category":  levels + "categories:\n  - {name: A, domains: []}\n",
		"unnamed domain":  levels + "categories:\n  - {name: A, domains: [\"\"]}\n",
		"level too large": "levels:\n  - {level: 6, name: Six, color: \"#111111\", description: [a]}\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfigurationMissing)
		})
	}
}

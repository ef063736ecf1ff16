package assessment

// answers.go — the answers file used for non-interactive report runs.
//
//	partner: Acme
//	records:
//	  - domain: AI Strategy & Governance
//	    phases:
//	      Plan & Design: {rating: 3, partner_details: "roadmap approved"}
//	      Implement: {rating: 2}
//	      Operate & Improve: {rating: 2}
//
// A .md answers file holds the same document as its frontmatter block; the
// body is free-form notes and is ignored.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"aimaturity/internal/frontmatter"
	"aimaturity/internal/maturity"
)

// Answers is a partner name plus the records collected for it.
type Answers struct {
	Partner string   `yaml:"partner"`
	Records []Record `yaml:"records"`
}

// LoadAnswers reads and parses an answers file. Records are not validated
// here; Aggregate and the report builder reject bad ones.
func LoadAnswers(path string) (*Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers %s: %w", path, err)
	}
	var a Answers
	if strings.EqualFold(filepath.Ext(path), ".md") {
		_, err = frontmatter.Decode(data, &a)
	} else {
		err = yaml.Unmarshal(data, &a)
	}
	if err != nil {
		return nil, fmt.Errorf("parse answers %s: %w", path, err)
	}
	return &a, nil
}

// Marshal encodes a as yaml.
func (a *Answers) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal answers: %w", err)
	}
	return data, nil
}

// Template returns answers covering every domain of m with each phase at the
// lowest rating, ready to be edited by hand.
func Template(m *maturity.Model, partner string) *Answers {
	a := &Answers{Partner: partner}
	for _, d := range m.Domains() {
		rec := NewRecord(d)
		for _, phase := range maturity.Phases {
			rec.Phases[phase] = PhaseRating{Rating: maturity.MinRating}
		}
		a.Records = append(a.Records, rec)
	}
	return a
}

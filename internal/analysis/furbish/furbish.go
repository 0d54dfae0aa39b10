// Package furbish checks corpus phrases against the authentic 1998 Furbish
// vocabulary and suggests replacements for invented ones.
package furbish

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zhouzirui/furby-therapist/internal/model/category"
)

//go:embed vocabulary.yaml
var vocabularyYAML []byte

// Vocabulary is the reference dictionary.
type Vocabulary struct {
	Authentic         map[string]string `yaml:"authentic"`
	Therapeutic       map[string]string `yaml:"therapeutic"`
	Corrections       map[string]string `yaml:"corrections"`
	Alternatives      map[string]string `yaml:"alternatives"`
	DefaultSuggestion string            `yaml:"default_suggestion"`

	components map[string]struct{}
}

// ParseVocabulary decodes a YAML vocabulary document.
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	v := &Vocabulary{}
	if err := yaml.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("parse furbish vocabulary: %w", err)
	}
	if len(v.Authentic) == 0 {
		return nil, fmt.Errorf("parse furbish vocabulary: no authentic words")
	}

	v.components = make(map[string]struct{}, len(v.Authentic)*2)
	for word := range v.Authentic {
		v.components[word] = struct{}{}
		for _, part := range strings.Split(word, "-") {
			v.components[part] = struct{}{}
		}
	}
	return v, nil
}

// DefaultVocabulary returns the embedded dictionary.
func DefaultVocabulary() *Vocabulary {
	v, err := ParseVocabulary(vocabularyYAML)
	if err != nil {
		panic(err)
	}
	return v
}

// Verdict is the outcome of checking one phrase.
type Verdict struct {
	Valid      bool
	Normalized string
	Suggestion string
	Reason     string
}

// Check validates one phrase. Spaces count as hyphens and case is ignored.
func (v *Vocabulary) Check(phrase string) Verdict {
	normalized := Normalize(phrase)

	if _, ok := v.Authentic[normalized]; ok {
		return Verdict{Valid: true, Normalized: normalized, Suggestion: normalized, Reason: "authentic phrase"}
	}
	if _, ok := v.Therapeutic[normalized]; ok {
		return Verdict{Valid: true, Normalized: normalized, Suggestion: normalized, Reason: "authentic therapeutic phrase"}
	}
	if corrected, ok := v.Corrections[normalized]; ok {
		return Verdict{Normalized: normalized, Suggestion: corrected, Reason: "known invented phrase"}
	}

	var invalid []string
	for _, part := range strings.Split(normalized, "-") {
		if _, ok := v.components[part]; !ok {
			invalid = append(invalid, part)
		}
	}
	if len(invalid) == 0 && normalized != "" {
		return Verdict{Valid: true, Normalized: normalized, Suggestion: normalized, Reason: "authentic word components"}
	}

	return Verdict{
		Normalized: normalized,
		Suggestion: v.suggest(normalized),
		Reason:     "non-authentic words: " + strings.Join(invalid, ", "),
	}
}

// Translate looks a phrase up in the dictionaries.
func (v *Vocabulary) Translate(phrase string) (string, bool) {
	normalized := Normalize(phrase)
	if t, ok := v.Authentic[normalized]; ok {
		return t, true
	}
	t, ok := v.Therapeutic[normalized]
	return t, ok
}

func (v *Vocabulary) suggest(normalized string) string {
	if alt, ok := v.Alternatives[normalized]; ok {
		return alt
	}
	return v.DefaultSuggestion
}

// Normalize lowercases and joins words with hyphens.
func Normalize(phrase string) string {
	return strings.Join(strings.Fields(strings.ToLower(phrase)), "-")
}

// Finding reports one non-authentic phrase in the corpus. SuggestionMeaning
// is the dictionary translation of Suggestion, when it has one.
type Finding struct {
	Category          string `json:"category"`
	Furbish           string `json:"furbish"`
	Translation       string `json:"translation"`
	Suggestion        string `json:"suggestion"`
	SuggestionMeaning string `json:"suggestion_meaning,omitempty"`
	Reason            string `json:"reason"`
}

// Audit checks every phrase of every category. Findings are ordered by
// category in table order, then by phrase.
func Audit(table *category.Table, vocab *Vocabulary) []Finding {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}

	var findings []Finding
	for _, c := range table.All() {
		var local []Finding
		for _, p := range c.Phrases {
			verdict := vocab.Check(p.Furbish)
			if verdict.Valid {
				continue
			}
			meaning, _ := vocab.Translate(verdict.Suggestion)
			local = append(local, Finding{
				Category:          c.Name,
				Furbish:           p.Furbish,
				Translation:       p.Translation,
				Suggestion:        verdict.Suggestion,
				SuggestionMeaning: meaning,
				Reason:            verdict.Reason,
			})
		}
		sort.SliceStable(local, func(i, j int) bool { return local[i].Furbish < local[j].Furbish })
		findings = append(findings, local...)
	}
	return findings
}

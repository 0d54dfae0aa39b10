// Package matcher scores user keywords against the category table and picks
// the best category with a heuristic confidence.
package matcher

import (
	"strings"

	"go.uber.org/zap"

	"github.com/zhouzirui/furby-therapist/internal/model/category"
)

// FallbackConfidence is returned whenever nothing real matched.
const FallbackConfidence = 0.1

// Weights are the tuning knobs of the scorer.
type Weights struct {
	Exact   float64 `yaml:"exact"`
	Partial float64 `yaml:"partial"`
	Fuzzy   float64 `yaml:"fuzzy"`

	// MinContainment is the shortest length either side may have for a
	// containment or stem match.
	MinContainment int `yaml:"min_containment"`
	// MaxFuzzyLength disables fuzzy matching for longer keywords.
	MaxFuzzyLength int `yaml:"max_fuzzy_length"`
	// MaxKeywordLength marks longer keywords invalid.
	MaxKeywordLength int `yaml:"max_keyword_length"`
	// MaxKeywords bounds how many keywords are scored.
	MaxKeywords int `yaml:"max_keywords"`
}

// DefaultWeights returns the documented scorer constants.
func DefaultWeights() Weights {
	return Weights{
		Exact:            1.0,
		Partial:          0.7,
		Fuzzy:            0.5,
		MinContainment:   3,
		MaxFuzzyLength:   50,
		MaxKeywordLength: 100,
		MaxKeywords:      20,
	}
}

func (w Weights) withDefaults() Weights {
	d := DefaultWeights()
	if w.Exact <= 0 {
		w.Exact = d.Exact
	}
	if w.Partial <= 0 {
		w.Partial = d.Partial
	}
	if w.Fuzzy <= 0 {
		w.Fuzzy = d.Fuzzy
	}
	if w.MinContainment <= 0 {
		w.MinContainment = d.MinContainment
	}
	if w.MaxFuzzyLength <= 0 {
		w.MaxFuzzyLength = d.MaxFuzzyLength
	}
	if w.MaxKeywordLength <= 0 {
		w.MaxKeywordLength = d.MaxKeywordLength
	}
	if w.MaxKeywords <= 0 {
		w.MaxKeywords = d.MaxKeywords
	}
	return w
}

// Matcher scores keywords against every non-fallback category.
type Matcher struct {
	categories []category.Category
	weights    Weights
	log        *zap.Logger
}

// New builds a matcher over table. The fallback category never competes.
func New(table *category.Table, weights Weights, log *zap.Logger) *Matcher {
	if log == nil {
		log = zap.NewNop()
	}

	var candidates []category.Category
	for _, c := range table.All() {
		if c.Name == category.FallbackName {
			continue
		}
		candidates = append(candidates, c)
	}

	return &Matcher{categories: candidates, weights: weights.withDefaults(), log: log}
}

// Match returns the best category for keywords and a confidence in [0,1].
// Empty, nil or all-invalid input, and input nothing scores on, yields
// (fallback, 0.1).
func (m *Matcher) Match(keywords []string) (name string, confidence float64) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("match panicked, using fallback", zap.Any("panic", r))
			name, confidence = category.FallbackName, FallbackConfidence
		}
	}()

	valid := m.validKeywords(keywords)
	if len(valid) == 0 {
		m.log.Debug("no valid keywords, using fallback")
		return category.FallbackName, FallbackConfidence
	}

	bestName := ""
	bestScore := 0.0
	for _, c := range m.categories {
		score := m.Score(valid, c.Keywords)
		// strictly greater keeps the earliest category on ties
		if score > bestScore {
			bestName, bestScore = c.Name, score
		}
	}

	if bestName == "" {
		m.log.Debug("no category matched, using fallback", zap.Strings("keywords", valid))
		return category.FallbackName, FallbackConfidence
	}

	confidence = bestScore / float64(len(valid))
	if confidence > 1 {
		confidence = 1
	}

	m.log.Debug("matched category",
		zap.String("category", bestName),
		zap.Float64("score", bestScore),
		zap.Float64("confidence", confidence))
	return bestName, confidence
}

// Score accumulates pairwise weights of user keywords against one category's
// keywords. A user keyword may contribute several times.
func (m *Matcher) Score(userKeywords, categoryKeywords []string) float64 {
	score := 0.0
	for _, u := range userKeywords {
		for _, c := range categoryKeywords {
			score += m.pairWeight(u, c)
		}
	}
	return score
}

func (m *Matcher) pairWeight(u, c string) float64 {
	switch {
	case u == c:
		return m.weights.Exact
	case m.contains(u, c):
		return m.weights.Partial
	case m.fuzzy(u, c):
		return m.weights.Fuzzy
	default:
		return 0
	}
}

func (m *Matcher) contains(a, b string) bool {
	if len(a) < m.weights.MinContainment || len(b) < m.weights.MinContainment {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// suffixes are stripped in order; "ies" must come before "s".
var suffixes = []struct {
	suffix      string
	replacement string
}{
	{"ies", "y"},
	{"ing", ""},
	{"ed", ""},
	{"er", ""},
	{"ly", ""},
	{"s", ""},
}

func (m *Matcher) fuzzy(a, b string) bool {
	if len(a) < m.weights.MinContainment || len(b) < m.weights.MinContainment {
		return false
	}
	if len(a) > m.weights.MaxFuzzyLength || len(b) > m.weights.MaxFuzzyLength {
		return false
	}
	return m.stemMatches(a, b) || m.stemMatches(b, a)
}

func (m *Matcher) stemMatches(word, other string) bool {
	for _, s := range suffixes {
		if !strings.HasSuffix(word, s.suffix) || len(word) <= len(s.suffix) {
			continue
		}
		stem := word[:len(word)-len(s.suffix)] + s.replacement
		if len(stem) < m.weights.MinContainment {
			continue
		}
		if stem == other || strings.Contains(other, stem) || strings.Contains(stem, other) {
			return true
		}
	}
	return false
}

func (m *Matcher) validKeywords(keywords []string) []string {
	valid := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw == "" || len(kw) >= m.weights.MaxKeywordLength {
			continue
		}
		valid = append(valid, kw)
	}
	if len(valid) > m.weights.MaxKeywords {
		m.log.Warn("too many keywords, truncating",
			zap.Int("keywords", len(valid)), zap.Int("limit", m.weights.MaxKeywords))
		valid = valid[:m.weights.MaxKeywords]
	}
	return valid
}

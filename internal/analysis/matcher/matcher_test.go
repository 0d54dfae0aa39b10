package matcher

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/furby-therapist/internal/analysis/text"
	"github.com/zhouzirui/furby-therapist/internal/model/category"
)

func testTable(t *testing.T) *category.Table {
	t.Helper()
	table, err := category.NewTable("1.0", []category.Category{
		{Name: "sadness", Keywords: []string{"sad", "lonely", "cry"}, Responses: []string{"there there"}},
		{Name: "anxiety", Keywords: []string{"worried", "panic"}, Responses: []string{"breathe"}},
		{Name: "twin", Keywords: []string{"worried", "panic"}, Responses: []string{"same keywords"}},
		{Name: "cycling", Keywords: []string{"cycle", "bike"}, Responses: []string{"ride on"}},
		{Name: category.FallbackName, Keywords: []string{"sad"}, Responses: []string{"tell me more"}},
	})
	require.NoError(t, err)
	return table
}

func approx(t *testing.T, want, got float64) {
	t.Helper()
	if math.Abs(want-got) > 1e-9 {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestMatchEmptyInputFallsBack(t *testing.T) {
	m := New(testTable(t), DefaultWeights(), nil)

	for _, kws := range [][]string{nil, {}, {""}, {strings.Repeat("x", 150)}} {
		name, conf := m.Match(kws)
		assert.Equal(t, category.FallbackName, name)
		assert.Equal(t, FallbackConfidence, conf)
	}
}

func TestMatchExactKeywordsGiveFullConfidence(t *testing.T) {
	m := New(testTable(t), DefaultWeights(), nil)

	name, conf := m.Match([]string{"sad", "lonely", "cry"})
	assert.Equal(t, "sadness", name)
	approx(t, 1.0, conf)
}

func TestMatchPartialAndFuzzyWeights(t *testing.T) {
	m := New(testTable(t), DefaultWeights(), nil)

	approx(t, 1.0, m.Score([]string{"sad"}, []string{"sad"}))
	// containment both ways, both sides at least 3 long
	approx(t, 0.7, m.Score([]string{"sadness"}, []string{"sad"}))
	approx(t, 0.7, m.Score([]string{"bike"}, []string{"biker"}))
	// stem match: cycling -> cycl, contained in cycle
	approx(t, 0.5, m.Score([]string{"cycling"}, []string{"cycle"}))
	// ies -> y
	approx(t, 0.5, m.Score([]string{"worries"}, []string{"worry"}))
	approx(t, 0, m.Score([]string{"xyz"}, []string{"sad"}))
}

func TestMatchShortAndLongKeywordsNeverFuzzyMatch(t *testing.T) {
	m := New(testTable(t), DefaultWeights(), nil)

	approx(t, 0, m.Score([]string{"as"}, []string{"sad"}))
	long := strings.Repeat("a", 51) + "ing"
	approx(t, 0, m.Score([]string{long}, []string{strings.Repeat("a", 40) + "x"}))
}

func TestMatchScoresAccumulateAcrossPairs(t *testing.T) {
	m := New(testTable(t), DefaultWeights(), nil)

	// "sad" exact (1.0) + "sadly" vs "sad" containment (0.7)
	approx(t, 1.7, m.Score([]string{"sad", "sadly"}, []string{"sad", "lonely", "cry"}))

	name, conf := m.Match([]string{"sad", "sadly", "unrelated", "words"})
	assert.Equal(t, "sadness", name)
	approx(t, 1.7/4, conf)
}

func TestMatchTieKeepsTableOrder(t *testing.T) {
	m := New(testTable(t), DefaultWeights(), nil)

	name, _ := m.Match([]string{"panic"})
	assert.Equal(t, "anxiety", name)
}

func TestMatchNeverPicksFallbackByScore(t *testing.T) {
	table, err := category.NewTable("1.0", []category.Category{
		{Name: "happiness", Keywords: []string{"happy"}, Responses: []string{"yay"}},
		{Name: category.FallbackName, Keywords: []string{"nonsense"}, Responses: []string{"hmm"}},
	})
	require.NoError(t, err)

	name, conf := New(table, DefaultWeights(), nil).Match([]string{"nonsense"})
	assert.Equal(t, category.FallbackName, name)
	assert.Equal(t, FallbackConfidence, conf)
}

func TestMatchTruncatesKeywordList(t *testing.T) {
	w := DefaultWeights()
	w.MaxKeywords = 2
	m := New(testTable(t), w, nil)

	// only "sad" and "filler" are scored
	name, conf := m.Match([]string{"sad", "filler", "panic", "panic2"})
	assert.Equal(t, "sadness", name)
	approx(t, 0.5, conf)
}

func TestMatchAgainstDefaultCorpus(t *testing.T) {
	table, err := category.LoadDefault(false)
	require.NoError(t, err)
	m := New(table, DefaultWeights(), nil)
	ex := text.NewExtractor(text.DefaultLimits(), nil)

	cases := []struct {
		input string
		want  string
	}{
		{"I'm feeling really sad and lonely today", "sadness"},
		{"I am so worried and stressed about my exam", "anxiety"},
		{"I'm so angry at my boss", "anger"},
		{"I am happy", "happiness"},
		{"thank you so much", "gratitude"},
		{"I'm confused and can't decide", "confusion"},
		{"xyz random nonsense", category.FallbackName},
	}

	for _, tc := range cases {
		keywords := ex.Extract(text.Normalize(tc.input))
		name, conf := m.Match(keywords)
		assert.Equal(t, tc.want, name, tc.input)
		if tc.want == category.FallbackName {
			assert.Equal(t, FallbackConfidence, conf, tc.input)
		} else {
			assert.Greater(t, conf, 0.0, tc.input)
			assert.LessOrEqual(t, conf, 1.0, tc.input)
		}
	}
}

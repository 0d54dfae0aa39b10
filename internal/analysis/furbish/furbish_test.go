package furbish

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/furby-therapist/internal/model/category"
)

func TestCheck(t *testing.T) {
	vocab := DefaultVocabulary()

	cases := []struct {
		phrase     string
		valid      bool
		suggestion string
	}{
		{"kah-may-may-u-nye", true, "kah-may-may-u-nye"},
		{"Koh-Koh May-May", true, "koh-koh-may-may"},
		{"u-nye-dee-doh", true, "u-nye-dee-doh"},
		{"dah a-loh u-nye", false, "kah-may-may-u-nye"},
		{"kah pedal-may", false, "kah-way-way"},
		{"loo-loo-spoke-way", false, "loo-loo-way-way"},
		{"zorp-blat", false, "kah-may-may-u-nye"},
	}

	for _, tc := range cases {
		verdict := vocab.Check(tc.phrase)
		assert.Equal(t, tc.valid, verdict.Valid, tc.phrase)
		assert.Equal(t, tc.suggestion, verdict.Suggestion, tc.phrase)
	}
}

func TestCheckReportsInvalidComponents(t *testing.T) {
	verdict := DefaultVocabulary().Check("kah-zorp")
	assert.False(t, verdict.Valid)
	assert.Contains(t, verdict.Reason, "zorp")
}

func TestTranslate(t *testing.T) {
	vocab := DefaultVocabulary()

	got, ok := vocab.Translate("u-nye noo-loo")
	require.True(t, ok)
	assert.Equal(t, "you happy", got)

	_, ok = vocab.Translate("zorp")
	assert.False(t, ok)
}

func TestParseVocabularyRejectsEmpty(t *testing.T) {
	_, err := ParseVocabulary([]byte("authentic: {}\n"))
	assert.Error(t, err)

	_, err = ParseVocabulary([]byte("authentic: [oops"))
	assert.Error(t, err)
}

func TestAuditFlagsInventedPhrases(t *testing.T) {
	table, err := category.NewTable("1.0", []category.Category{
		{
			Name:      "happiness",
			Responses: []string{"yay"},
			Phrases: []category.Phrase{
				{Furbish: "u-nye-noo-loo", Translation: "you happy"},
				{Furbish: "dah wheel-loh", Translation: "yes wheel"},
			},
		},
		{
			Name:      category.FallbackName,
			Responses: []string{"hmm"},
			Phrases:   []category.Phrase{{Furbish: "bloop", Translation: "?"}},
		},
	})
	require.NoError(t, err)

	findings := Audit(table, nil)
	require.Len(t, findings, 2)
	assert.Equal(t, "happiness", findings[0].Category)
	assert.Equal(t, "way-way-dee-doh", findings[0].Suggestion)
	assert.Equal(t, "play big", findings[0].SuggestionMeaning)
	assert.Equal(t, category.FallbackName, findings[1].Category)
	assert.Equal(t, "kah-may-may-u-nye", findings[1].Suggestion)
	assert.Equal(t, "me love you", findings[1].SuggestionMeaning)
}

func TestDefaultCorporaAreAuthentic(t *testing.T) {
	vocab := DefaultVocabulary()
	for _, bikes := range []bool{false, true} {
		table, err := category.LoadDefault(bikes)
		require.NoError(t, err)
		assert.Empty(t, Audit(table, vocab), "bikes=%v", bikes)
	}
}

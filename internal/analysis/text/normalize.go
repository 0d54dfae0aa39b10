// Package text holds the pure text stages of the pipeline: normalization,
// keyword extraction, repeat-request detection and input validation.
package text

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxInputRunes bounds how much of a message is ever looked at.
const MaxInputRunes = 1000

// Normalize lowercases s, folds accents, turns punctuation into spaces,
// deletes apostrophes so contractions fuse ("can't" -> "cant") and collapses
// whitespace. The result only contains [a-z0-9 ] and is idempotent.
//
// Normalize never panics; any internal failure yields "".
func Normalize(s string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = ""
		}
	}()

	if strings.TrimSpace(s) == "" {
		return ""
	}

	s = truncateRunes(s, MaxInputRunes)

	// transform.Chain keeps state, build one per call.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '\'' || r == '’':
			// dropped so contractions fuse
		default:
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}

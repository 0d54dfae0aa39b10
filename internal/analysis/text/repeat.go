package text

import "strings"

// maxRepeatWords keeps long sentences that merely contain "again" from being
// treated as a repeat request.
const maxRepeatWords = 4

var repeatKeywords = toSet(
	"repeat", "again", "pardon", "huh", "eh", "reiterate", "repeating",
)

var repeatPhrases = []string{
	"say again", "what did you say", "repeat that", "come again",
	"didnt hear", "didnt understand", "didnt catch", "say that again",
	"what was that", "pardon me", "excuse me", "sorry what", "one more time",
}

// IsRepeatRequest reports whether raw asks to hear the previous answer again.
func IsRepeatRequest(raw string) bool {
	normalized := Normalize(raw)
	if normalized == "" {
		return false
	}

	padded := " " + normalized + " "
	for _, phrase := range repeatPhrases {
		if strings.Contains(padded, " "+phrase+" ") {
			return true
		}
	}

	words := strings.Fields(normalized)
	if len(words) > maxRepeatWords {
		return false
	}
	for _, w := range words {
		if _, ok := repeatKeywords[w]; ok {
			return true
		}
	}
	return false
}

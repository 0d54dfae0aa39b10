package response

import (
	"regexp"
	"strings"
)

var (
	soundMarker      = regexp.MustCompile(`\*[^*]*\*`)
	spaceBeforePunct = regexp.MustCompile(`\s+([!?.,;:])`)
)

// cleanFallbackText is used when a message was nothing but sound effects.
const cleanFallbackText = "Furby is here for you."

// Clean strips *sound* markers and tidies the spacing left behind, then makes
// sure the sentence ends with punctuation. The result is never empty and
// never contains "*".
func Clean(message string) string {
	clean := soundMarker.ReplaceAllString(message, " ")
	clean = strings.ReplaceAll(clean, "*", "")
	clean = strings.Join(strings.Fields(clean), " ")
	clean = spaceBeforePunct.ReplaceAllString(clean, "$1")
	clean = strings.TrimLeft(clean, "!?.,;: ")
	clean = strings.TrimSpace(clean)

	if clean == "" {
		return cleanFallbackText
	}
	if !strings.HasSuffix(clean, ".") && !strings.HasSuffix(clean, "!") && !strings.HasSuffix(clean, "?") {
		clean += "."
	}
	return clean
}

// SoundEffects lists the *sound* markers present in message, in order.
func SoundEffects(message string) []string {
	return soundMarker.FindAllString(message, -1)
}

package query

import "github.com/zhouzirui/furby-therapist/internal/model/category"

// Analysis is the per-message result of the text and matching stages.
type Analysis struct {
	OriginalText    string   `json:"originalText"`
	NormalizedText  string   `json:"normalizedText"`
	Keywords        []string `json:"keywords"`
	DetectedEmotion string   `json:"detectedEmotion"`
	Confidence      float64  `json:"confidence"`
	Category        string   `json:"category"`
}

// Kind tags which path produced a Response.
type Kind string

const (
	KindCategory        Kind = "category"
	KindRepeat          Kind = "repeat"
	KindNothingToRepeat Kind = "nothing_to_repeat"
	KindEmptyInput      Kind = "empty_input"
	KindInvalidInput    Kind = "invalid_input"
	KindEmergency       Kind = "emergency"
)

// Response is what the user sees. DecoratedOutput may carry sound effects and
// a Furbish phrase; CleanOutput never contains "*" markers.
type Response struct {
	Kind            Kind             `json:"kind"`
	Category        string           `json:"category,omitempty"`
	BaseMessage     string           `json:"baseMessage"`
	SoundEffects    []string         `json:"soundEffects,omitempty"`
	Phrase          *category.Phrase `json:"phrase,omitempty"`
	DecoratedOutput string           `json:"decoratedOutput"`
	CleanOutput     string           `json:"cleanOutput"`
}

// Text is the rendering shown to the user.
func (r Response) Text() string {
	if r.DecoratedOutput != "" {
		return r.DecoratedOutput
	}
	return r.CleanOutput
}

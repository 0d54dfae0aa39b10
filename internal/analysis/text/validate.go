package text

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrInputTooLong = errors.New("input too long")
	ErrCodeLike     = errors.New("input looks like code")
	ErrInvalidUTF8  = errors.New("input is not valid text")
)

var codePatterns = []string{"<script", "<?php", "javascript:", "data:"}

// ValidationError rejects a message before it reaches the pipeline. Message
// is safe to show to the user as-is.
type ValidationError struct {
	Err     error
	Message string
}

func (e *ValidationError) Error() string { return e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate checks raw user input. Empty input is valid; callers treat it as a
// separate, expected case.
func Validate(raw string, maxRunes int) error {
	if maxRunes <= 0 {
		maxRunes = MaxInputRunes
	}

	if !utf8.ValidString(raw) {
		return &ValidationError{
			Err:     ErrInvalidUTF8,
			Message: "*confused chirp* Ooh! That doesn't look like text to Furby! *helpful beep*",
		}
	}

	if n := utf8.RuneCountInString(raw); n > maxRunes {
		return &ValidationError{
			Err: fmt.Errorf("%w: %d > %d runes", ErrInputTooLong, n, maxRunes),
			Message: fmt.Sprintf(
				"*overwhelmed beep* Whoa! That's a lot of text! Furby can handle up to %d characters! *gentle purr*",
				maxRunes),
		}
	}

	lower := strings.ToLower(raw)
	for _, pattern := range codePatterns {
		if strings.Contains(lower, pattern) {
			return &ValidationError{
				Err:     ErrCodeLike,
				Message: "*protective beep* Ooh! That looks like computer code! Furby only understands feelings and thoughts! *caring chirp*",
			}
		}
	}
	return nil
}

package utils

import (
	"encoding/json"
	"io"
)

// WriteJSON writes payload as indented JSON followed by a newline.
func WriteJSON(w io.Writer, payload any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(payload)
}

// WriteError writes {"error": message} as JSON.
func WriteError(w io.Writer, message string) error {
	return WriteJSON(w, map[string]string{"error": message})
}

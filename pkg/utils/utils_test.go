package utils

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, map[string]string{"text": "<3 Furby & you"}); err != nil {
		t.Fatalf("WriteJSON err: %v", err)
	}
	if !strings.Contains(buf.String(), "<3 Furby & you") {
		t.Fatalf("expected unescaped text, got %s", buf.String())
	}

	buf.Reset()
	if err := WriteError(&buf, "boom"); err != nil {
		t.Fatalf("WriteError err: %v", err)
	}
	var payload map[string]string
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload["error"] != "boom" {
		t.Fatalf("unexpected payload %v", payload)
	}
}

func TestConsoleFurby(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	var buf bytes.Buffer
	NewConsole(&buf).Furby("hello friend")

	if got := buf.String(); got != "\n💜 Furby says: hello friend\n\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

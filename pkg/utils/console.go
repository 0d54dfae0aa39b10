package utils

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Console prints coloured, Furby-flavoured output to a terminal. Colours are
// dropped automatically when the output is not a TTY.
type Console struct {
	out    io.Writer
	furby  *color.Color
	accent *color.Color
	muted  *color.Color
	warn   *color.Color
}

// NewConsole wraps out.
func NewConsole(out io.Writer) *Console {
	return &Console{
		out:    out,
		furby:  color.New(color.FgMagenta, color.Bold),
		accent: color.New(color.FgCyan),
		muted:  color.New(color.FgHiBlack),
		warn:   color.New(color.FgYellow),
	}
}

// Furby prints a reply in the "Furby says" frame.
func (c *Console) Furby(text string) {
	fmt.Fprint(c.out, "\n")
	c.furby.Fprint(c.out, "💜 Furby says: ")
	fmt.Fprintf(c.out, "%s\n\n", text)
}

func (c *Console) Title(text string) {
	c.furby.Fprintln(c.out, text)
}

func (c *Console) Info(text string) {
	c.accent.Fprintln(c.out, text)
}

func (c *Console) Plain(text string) {
	fmt.Fprintln(c.out, text)
}

func (c *Console) Hint(text string) {
	c.muted.Fprintln(c.out, text)
}

func (c *Console) Warn(text string) {
	c.warn.Fprintln(c.out, text)
}

// Prompt prints the input prompt without a newline.
func (c *Console) Prompt() {
	c.accent.Fprint(c.out, "> ")
}

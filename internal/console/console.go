// Package console renders the user-facing lines of the CLI: banner, stage
// markers, warnings and success notes. Structured diagnostics go to slog.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// Printer writes styled lines. Colors are dropped when the writer is not a terminal.
type Printer struct {
	out *termenv.Output
}

// New returns a printer that detects color support on w.
func New(w io.Writer) *Printer {
	return &Printer{out: termenv.NewOutput(w)}
}

// NewPlain returns a printer that never emits escape sequences.
func NewPlain(w io.Writer) *Printer {
	return &Printer{out: termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))}
}

func (p *Printer) styled(color, s string) string {
	return p.out.String(s).Foreground(p.out.Color(color)).String()
}

// Out prints lines unstyled.
func (p *Printer) Out(lines ...string) {
	for _, l := range lines {
		_, _ = fmt.Fprintln(p.out, l)
	}
}

// Info prints a cyan informational line.
func (p *Printer) Info(msg string) {
	_, _ = fmt.Fprintln(p.out, p.styled("6", msg))
}

// Warn prints a yellow "[!]" warning line.
func (p *Printer) Warn(msg string) {
	_, _ = fmt.Fprintln(p.out, p.styled("3", "[!] "+msg))
}

// Success prints a green line.
func (p *Printer) Success(msg string) {
	_, _ = fmt.Fprintln(p.out, p.styled("2", msg))
}

// Begin prints the delimiter that opens a preset's output.
func (p *Printer) Begin(preset string) {
	_, _ = fmt.Fprintln(p.out, "\n"+p.styled("6", marker("BEGIN", preset))+"\n")
}

// End prints the delimiter that closes a preset's output.
func (p *Printer) End(preset string) {
	_, _ = fmt.Fprintln(p.out, "\n"+p.styled("6", marker("END", preset))+"\n")
}

func marker(kind, preset string) string {
	bar := strings.Repeat("=", 24)
	return bar + kind + " " + preset + bar
}

// Banner prints the boxed program name and version.
func (p *Printer) Banner(version string) {
	if len(version) > 9 {
		version = version[:9]
	}
	pad := 9 - len(version)
	left := pad / 2
	p.Out(
		"|-----------|",
		"|---Bodot---|",
		"|-"+strings.Repeat("-", left)+version+strings.Repeat("-", pad-left)+"-|",
		"|-----------|",
		"",
	)
}

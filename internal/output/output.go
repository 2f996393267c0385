// Package output renders CLI results to a terminal.
package output

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

// Printer writes styled lines to w.
type Printer struct {
	w      io.Writer
	green  *color.Color
	yellow *color.Color
	blue   *color.Color
	red    *color.Color
	bold   *color.Color
}

// New returns a printer for w. With colors off, every style prints plain
// text; with colors on, color's own terminal detection still applies.
func New(w io.Writer, colors bool) *Printer {
	p := &Printer{
		w:      w,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow, color.Bold),
		blue:   color.New(color.FgBlue),
		red:    color.New(color.FgRed),
		bold:   color.New(color.Bold),
	}
	if !colors {
		for _, c := range []*color.Color{p.green, p.yellow, p.blue, p.red, p.bold} {
			c.DisableColor()
		}
	}
	return p
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer { return p.w }

// Header prints a title underlined to its width.
func (p *Printer) Header(text string) {
	p.bold.Fprintln(p.w, text)
	p.bold.Fprintln(p.w, strings.Repeat("=", len(text)))
}

// Line prints an unstyled line.
func (p *Printer) Line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Success prints a success message.
func (p *Printer) Success(text string) {
	p.green.Fprintf(p.w, "  → %s\n", text)
}

// Warning prints a warning message.
func (p *Printer) Warning(text string) {
	p.yellow.Fprintf(p.w, "  ⚠ %s\n", text)
}

// Error prints an error message.
func (p *Printer) Error(text string) {
	p.red.Fprintf(p.w, "Error: %s\n", text)
}

// Muted prints secondary information.
func (p *Printer) Muted(text string) {
	p.blue.Fprintln(p.w, text)
}

// Amount renders a signed amount, red when negative.
func (p *Printer) Amount(s string, amount decimal.Decimal) string {
	if amount.IsNegative() {
		return p.red.Sprint(s)
	}
	return s
}

// Indent returns label prefixed by two spaces per depth level.
func Indent(label string, depth int) string {
	return strings.Repeat("  ", depth) + label
}

// NewLogger returns a text logger writing to w at level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

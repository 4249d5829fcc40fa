// Package output renders command results for humans or machines. A Printer
// is constructed once per invocation and passed to handlers explicitly;
// there is no global output mode.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Printer writes command output. In JSON mode the human-oriented helpers
// (Success, Error, tables) are silent and handlers emit a single JSON
// document instead.
type Printer struct {
	JSON   bool
	Out    io.Writer
	ErrOut io.Writer

	color bool
}

// New builds a Printer for stdout/stderr, with color when stdout is a
// terminal and JSON mode is off.
func New(jsonMode bool) *Printer {
	return &Printer{
		JSON:   jsonMode,
		Out:    os.Stdout,
		ErrOut: os.Stderr,
		color:  !jsonMode && term.IsTerminal(int(os.Stdout.Fd())),
	}
}

func (p *Printer) paint(code, s string) string {
	if !p.color {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

// Success prints a confirmation line. Silent in JSON mode.
func (p *Printer) Success(format string, args ...any) {
	if p.JSON {
		return
	}
	fmt.Fprintf(p.Out, "%s %s\n", p.paint("32", "✓"), fmt.Sprintf(format, args...))
}

// Error prints an error line with optional detail lines. Silent in JSON
// mode; use JSONError there.
func (p *Printer) Error(message string, details ...string) {
	if p.JSON {
		return
	}
	fmt.Fprintf(p.ErrOut, "%s %s %s\n", p.paint("31", "✗"), p.paint("1", "Error:"), message)
	for _, d := range details {
		fmt.Fprintf(p.ErrOut, "  %s\n", d)
	}
}

// Tip prints a dimmed hint below an error. Silent in JSON mode.
func (p *Printer) Tip(format string, args ...any) {
	if p.JSON {
		return
	}
	fmt.Fprintf(p.ErrOut, "\n  %s\n", p.paint("2", "Tip: "+fmt.Sprintf(format, args...)))
}

// Warning prints a warning line. Silent in JSON mode.
func (p *Printer) Warning(format string, args ...any) {
	if p.JSON {
		return
	}
	fmt.Fprintf(p.Out, "%s %s\n", p.paint("33", "!"), fmt.Sprintf(format, args...))
}

// Info prints an informational line. Silent in JSON mode.
func (p *Printer) Info(format string, args ...any) {
	if p.JSON {
		return
	}
	fmt.Fprintf(p.Out, "%s %s\n", p.paint("34", "ℹ"), fmt.Sprintf(format, args...))
}

// Plain prints an unadorned line. Silent in JSON mode.
func (p *Printer) Plain(format string, args ...any) {
	if p.JSON {
		return
	}
	fmt.Fprintf(p.Out, format+"\n", args...)
}

// Dim prints a de-emphasized line. Silent in JSON mode.
func (p *Printer) Dim(format string, args ...any) {
	if p.JSON {
		return
	}
	fmt.Fprintln(p.Out, p.paint("2", fmt.Sprintf(format, args...)))
}

// PrintJSON writes v as indented JSON.
func (p *Printer) PrintJSON(v any) error {
	enc := json.NewEncoder(p.Out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// JSONError writes a machine-readable error document.
func (p *Printer) JSONError(code, message string, details ...string) {
	doc := map[string]any{
		"error":   true,
		"code":    code,
		"message": message,
	}
	if len(details) > 0 {
		doc["details"] = details[0]
	}
	_ = p.PrintJSON(doc)
}

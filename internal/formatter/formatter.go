// Package formatter renders a diagnostic.Diagnostic as a code-frame string.
// It is a pure function of {message, location, annotation} triples over the
// original source text; it performs no compilation of its own and is a
// small, well-defined collaborator that the CLI wires up.
package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mood-lang/mood/internal/diagnostic"
	"github.com/mood-lang/mood/internal/location"
)

// Format renders d against source, using filename in the "-->" line.
func Format(source, filename string, d *diagnostic.Diagnostic) string {
	f := &formatter{lines: splitLines(source)}
	return f.formatDiagnostic(filename, d)
}

type formatter struct {
	sb    strings.Builder
	lines []string
}

func splitLines(source string) []string {
	return strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")
}

func (f *formatter) emit(s string) { f.sb.WriteString(s) }

func (f *formatter) formatDiagnostic(filename string, d *diagnostic.Diagnostic) string {
	label := "Error"
	if d.Severity == diagnostic.Warning {
		label = "Warning"
	}
	f.emit(fmt.Sprintf("%s: %s:\n", label, d.Message))
	f.emit(fmt.Sprintf(" --> %s:%d:%d\n", filename, d.Primary.Span.Start.Line, d.Primary.Span.Start.Column))
	f.emit("\n")
	f.formatAnnotation(d.Primary)
	for _, related := range d.Related {
		f.emit("\n")
		f.formatAnnotation(related)
	}
	return f.sb.String()
}

// formatAnnotation renders one caret window: the line before, the faulting
// line with its underline, and the line after (when present).
func (f *formatter) formatAnnotation(a diagnostic.Annotation) {
	gutterWidth := len(strconv.Itoa(a.Span.End.Line))
	if gutterWidth < 1 {
		gutterWidth = 1
	}
	blankGutter := strings.Repeat(" ", gutterWidth)

	lineIdx := a.Span.Start.Line - 1
	if prev := lineIdx - 1; prev >= 0 && prev < len(f.lines) {
		f.emit(fmt.Sprintf("%s | %s\n", blankGutter, f.lines[prev]))
	}

	if lineIdx >= 0 && lineIdx < len(f.lines) {
		lineText := f.lines[lineIdx]
		f.emit(fmt.Sprintf("%*d | %s\n", gutterWidth, a.Span.Start.Line, lineText))

		startCol := a.Span.Start.Column
		width := a.Span.End.Column - a.Span.Start.Column + 1
		if width < 1 {
			width = 1
		}
		underline := strings.Repeat(" ", startCol-1) + strings.Repeat("^", width)
		f.emit(fmt.Sprintf("%s | %s %s\n", blankGutter, underline, a.Text))
	}

	if next := lineIdx + 1; next >= 0 && next < len(f.lines) {
		f.emit(fmt.Sprintf("%s | %s\n", blankGutter, f.lines[next]))
	}
}

// FormatLocation renders a bare "file:line:col" reference without a code
// frame.
func FormatLocation(filename string, pos location.Position) string {
	return fmt.Sprintf("%s:%d:%d", filename, pos.Line, pos.Column)
}

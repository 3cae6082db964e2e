// Package diagnostic models compiler errors as values. The parser and
// checker produce Diagnostics; the emitter never does, because the checker
// is contractually responsible for rejecting anything the emitter can't
// lower (see internal/emitter).
package diagnostic

import "github.com/mood-lang/mood/internal/location"

// Severity distinguishes a hard error from advisory output. Mood's compiler
// has no recovery, so today every Diagnostic that reaches a caller is an
// Error; the field exists because internal/formatter also renders warnings
// for other out-of-scope collaborators such as a future lint pass.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Annotation is a single caret-range with its message, used for both the
// primary complaint and any related spans (e.g. "previous definition here").
type Annotation struct {
	Span location.Span
	Text string
}

// Diagnostic is a single compiler error. The public compile entry point
// returns at most one: the first error aborts the compile.
type Diagnostic struct {
	Severity Severity
	Message  string
	Primary  Annotation
	Related  []Annotation
}

// New builds an error-severity Diagnostic with only a primary annotation.
func New(message string, span location.Span, annotation string) *Diagnostic {
	return &Diagnostic{
		Severity: Error,
		Message:  message,
		Primary:  Annotation{Span: span, Text: annotation},
	}
}

// WithRelated returns a copy of d with an additional related annotation.
func (d *Diagnostic) WithRelated(span location.Span, text string) *Diagnostic {
	related := append(append([]Annotation{}, d.Related...), Annotation{Span: span, Text: text})
	return &Diagnostic{Severity: d.Severity, Message: d.Message, Primary: d.Primary, Related: related}
}

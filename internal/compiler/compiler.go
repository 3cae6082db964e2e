// Package compiler wires the lexer/parser/checker/layout/emitter pipeline
// into the two entry points callers use: Compile and Check.
package compiler

import (
	"github.com/mood-lang/mood/internal/checker"
	"github.com/mood-lang/mood/internal/diagnostic"
	"github.com/mood-lang/mood/internal/emitter"
	"github.com/mood-lang/mood/internal/layout"
	"github.com/mood-lang/mood/internal/parser"
)

// Compile runs the full pipeline: parse, check, lay out the shadow stack,
// and emit a Wasm binary. The first Diagnostic produced by any stage aborts
// the compile; there is no partial output on failure.
func Compile(source string) ([]byte, *diagnostic.Diagnostic) {
	prog, parseDiag := parser.New(source).Parse()
	if parseDiag != nil {
		return nil, parseDiag
	}

	table, checkDiag := checker.Check(prog)
	if checkDiag != nil {
		return nil, checkDiag
	}

	sizes := layout.Plan(prog, table)
	return emitter.Emit(prog, table, sizes), nil
}

// Check runs parse and type-check only, for callers that want diagnostics
// without paying for codegen (e.g. an editor integration or `moodc check`).
func Check(source string) *diagnostic.Diagnostic {
	prog, parseDiag := parser.New(source).Parse()
	if parseDiag != nil {
		return parseDiag
	}
	_, checkDiag := checker.Check(prog)
	return checkDiag
}

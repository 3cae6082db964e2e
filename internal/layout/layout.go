// Package layout implements Mood's memory-layout pass: the third stage of
// the pipeline, run after type checking and before Wasm emission. It walks
// each function body and sums the byte size of every aggregate-typed value
// that the emitter will have to carve out of the shadow stack rather than
// hold in a Wasm value-slot.
package layout

import (
	"github.com/mood-lang/mood/internal/ast"
	"github.com/mood-lang/mood/internal/checker"
	"github.com/mood-lang/mood/internal/types"
)

// StackSizes maps a function declaration to the number of bytes its shadow
// stack frame must reserve for aggregate locals and temporaries. Functions
// with no aggregate values anywhere in their body map to 0.
type StackSizes struct {
	sizes map[*ast.FunctionDeclaration]int
}

// Get returns the frame size computed for fn: 0 for a function with no
// aggregate values, and also 0 if fn was not part of the planned program.
func (s *StackSizes) Get(fn *ast.FunctionDeclaration) int {
	return s.sizes[fn]
}

// Plan walks every function declaration in prog and computes its frame size
// from table, the TypeTable produced by checker.Check.
func Plan(prog *ast.Program, table *checker.TypeTable) *StackSizes {
	p := &planner{table: table, sizes: make(map[*ast.FunctionDeclaration]int)}
	for _, def := range prog.Definitions {
		if fn, ok := def.(*ast.FunctionDeclaration); ok {
			p.sizes[fn] = p.walk(fn.Body)
		}
	}
	return &StackSizes{sizes: p.sizes}
}

type planner struct {
	table *checker.TypeTable
	sizes map[*ast.FunctionDeclaration]int
}

// contribution returns sizeOf(resolved_type) for e when that type is an
// aggregate (struct or enum), and 0 for any scalar or untyped node.
func (p *planner) contribution(e ast.Expr) int {
	t := p.table.TypeOf(e)
	if t != nil && t.IsAggregate() {
		return types.SizeOf(t)
	}
	return 0
}

// walk sums e's own contribution (if any) with the contributions of every
// nested sub-expression that could itself hold an aggregate value.
func (p *planner) walk(e ast.Expr) int {
	switch n := e.(type) {
	case *ast.Literal, *ast.Identifier, *ast.Parameter:
		return p.contribution(e)

	case *ast.BinaryExpression:
		return p.walk(n.Left) + p.walk(n.Right)

	case *ast.CallExpression:
		total := p.contribution(n)
		for _, arg := range n.Args {
			total += p.walk(arg)
		}
		return total

	case *ast.ExpressionPath:
		total := p.contribution(n)
		for _, arg := range n.Args {
			total += p.walk(arg)
		}
		return total

	case *ast.BlockExpression:
		total := 0
		for _, child := range n.Children {
			total += p.walk(child)
		}
		return total

	case *ast.VariableDeclaration:
		return p.contribution(n) + p.walk(n.Value)

	case *ast.StructConstruction:
		total := p.contribution(n)
		for _, field := range n.Fields {
			total += p.walk(field.Value)
		}
		return total

	case *ast.MemberExpression:
		return p.contribution(n) + p.walk(n.Head)

	default:
		return 0
	}
}

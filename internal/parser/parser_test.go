package parser_test

import (
	"testing"

	"github.com/nalgeon/be"

	"github.com/mood-lang/mood/internal/ast"
	"github.com/mood-lang/mood/internal/parser"
)

func mustParse(t *testing.T, source string) *ast.Program {
	t.Helper()
	prog, diag := parser.New(source).Parse()
	be.True(t, diag == nil)
	return prog
}

func TestParseFunctionDeclarationWithParams(t *testing.T) {
	prog := mustParse(t, `fn add(a: i32, b: i32): i32 { a + b }`)
	be.Equal(t, len(prog.Definitions), 1)
	fn, ok := prog.Definitions[0].(*ast.FunctionDeclaration)
	be.True(t, ok)
	be.Equal(t, fn.Name, "add")
	be.Equal(t, fn.IsPublic, false)
	be.Equal(t, len(fn.Params), 2)
}

func TestParsePublicFunction(t *testing.T) {
	prog := mustParse(t, `pub fn main(): i32 { 1_i32 }`)
	fn := prog.Definitions[0].(*ast.FunctionDeclaration)
	be.True(t, fn.IsPublic)
}

func TestParseStructDeclaration(t *testing.T) {
	prog := mustParse(t, `struct Point { x: i32, y: i32 }`)
	st, ok := prog.Definitions[0].(*ast.StructDeclaration)
	be.True(t, ok)
	be.Equal(t, st.Name, "Point")
	be.Equal(t, len(st.Fields), 2)
}

func TestParseEnumDeclarationMixedVariants(t *testing.T) {
	prog := mustParse(t, `enum Maybe { Some(i32), None }`)
	en, ok := prog.Definitions[0].(*ast.EnumDeclaration)
	be.True(t, ok)
	be.Equal(t, len(en.Variants), 2)
	be.True(t, en.Variants[0].HasValue)
	be.True(t, !en.Variants[1].HasValue)
}

func TestParseBinaryPrecedenceStarBindsTighterThanPlus(t *testing.T) {
	prog := mustParse(t, `fn main(): i32 { 1_i32 + 2_i32 * 3_i32 }`)
	fn := prog.Definitions[0].(*ast.FunctionDeclaration)
	top := fn.Body.Children[0].(*ast.BinaryExpression)
	be.Equal(t, top.Op, ast.OpAdd)
	_, rightIsMul := top.Right.(*ast.BinaryExpression)
	be.True(t, rightIsMul)
}

func TestParseEqualityBindsTighterThanPlus(t *testing.T) {
	prog := mustParse(t, `fn main(): bool { 1_i32 + 1_i32 == 2_i32 }`)
	fn := prog.Definitions[0].(*ast.FunctionDeclaration)
	top := fn.Body.Children[0].(*ast.BinaryExpression)
	be.Equal(t, top.Op, ast.OpAdd)
	right, ok := top.Right.(*ast.BinaryExpression)
	be.True(t, ok)
	be.Equal(t, right.Op, ast.OpEq)
}

func TestParseVariableDeclaration(t *testing.T) {
	prog := mustParse(t, `fn main(): i32 { let x: i32 = 1_i32; x }`)
	fn := prog.Definitions[0].(*ast.FunctionDeclaration)
	be.Equal(t, len(fn.Body.Children), 2)
	_, ok := fn.Body.Children[0].(*ast.VariableDeclaration)
	be.True(t, ok)
}

func TestParseStructConstruction(t *testing.T) {
	prog := mustParse(t, `fn main(): i32 { Point { x: 1_i32, y: 2_i32 }; 0_i32 }`)
	fn := prog.Definitions[0].(*ast.FunctionDeclaration)
	sc, ok := fn.Body.Children[0].(*ast.StructConstruction)
	be.True(t, ok)
	be.Equal(t, sc.StructName, "Point")
	be.Equal(t, len(sc.Fields), 2)
}

func TestParseMemberExpression(t *testing.T) {
	prog := mustParse(t, `fn main(): i32 { p.x }`)
	fn := prog.Definitions[0].(*ast.FunctionDeclaration)
	m, ok := fn.Body.Children[0].(*ast.MemberExpression)
	be.True(t, ok)
	be.Equal(t, m.FieldName, "x")
}

func TestParseExpressionPathUnitVariant(t *testing.T) {
	prog := mustParse(t, `fn main(): i32 { Light::Red; 0_i32 }`)
	fn := prog.Definitions[0].(*ast.FunctionDeclaration)
	ep, ok := fn.Body.Children[0].(*ast.ExpressionPath)
	be.True(t, ok)
	be.True(t, !ep.IsCall)
}

func TestParseExpressionPathValueVariant(t *testing.T) {
	prog := mustParse(t, `fn main(): i32 { Maybe::Some(1_i32); 0_i32 }`)
	fn := prog.Definitions[0].(*ast.FunctionDeclaration)
	ep := fn.Body.Children[0].(*ast.ExpressionPath)
	be.True(t, ep.IsCall)
	be.Equal(t, len(ep.Args), 1)
}

func TestParseCallExpression(t *testing.T) {
	prog := mustParse(t, `fn main(): i32 { add(1_i32, 2_i32) }`)
	fn := prog.Definitions[0].(*ast.FunctionDeclaration)
	call, ok := fn.Body.Children[0].(*ast.CallExpression)
	be.True(t, ok)
	be.Equal(t, call.Callee, "add")
	be.Equal(t, len(call.Args), 2)
}

func TestParseFloatLiteralWithFraction(t *testing.T) {
	prog := mustParse(t, `fn main(): f64 { 3.14_f64 }`)
	fn := prog.Definitions[0].(*ast.FunctionDeclaration)
	lit := fn.Body.Children[0].(*ast.Literal)
	be.Equal(t, lit.Kind, ast.FloatLiteral)
	be.Equal(t, lit.Text, "3.14")
}

func TestParseIntLiteralWithFractionSuffixFails(t *testing.T) {
	_, diag := parser.New(`fn main(): i32 { 3.14_i32 }`).Parse()
	be.True(t, diag != nil)
}

func TestParseMissingClosingBraceFails(t *testing.T) {
	_, diag := parser.New(`fn main(): i32 { 1_i32`).Parse()
	be.True(t, diag != nil)
}

func TestParseEmptyBlockIsAllowed(t *testing.T) {
	prog := mustParse(t, `fn main(): i32 { }`)
	fn := prog.Definitions[0].(*ast.FunctionDeclaration)
	be.Equal(t, len(fn.Body.Children), 0)
}

package emitter_test

import (
	"bytes"
	"testing"

	"github.com/nalgeon/be"

	"github.com/mood-lang/mood/internal/checker"
	"github.com/mood-lang/mood/internal/emitter"
	"github.com/mood-lang/mood/internal/layout"
	"github.com/mood-lang/mood/internal/parser"
)

// compile runs the full lexer/parser/checker/layout/emitter pipeline and
// returns the resulting module bytes. These tests assert structural
// properties of the encoded bytes; the executed-return-value scenarios live
// in internal/compiler/behavior_test.go, which instantiates the bytes under
// wazero.
func compile(t *testing.T, source string) []byte {
	t.Helper()
	prog, parseDiag := parser.New(source).Parse()
	be.True(t, parseDiag == nil)
	table, checkDiag := checker.Check(prog)
	be.True(t, checkDiag == nil)
	sizes := layout.Plan(prog, table)
	return emitter.Emit(prog, table, sizes)
}

var wasmMagicAndVersion = []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}

func TestEmitScalarFunctionProducesValidHeader(t *testing.T) {
	out := compile(t, `pub fn add(a: i32, b: i32): i32 { a + b }`)
	be.Equal(t, out[:8], wasmMagicAndVersion)
}

func TestEmitExportedFunctionNameAppearsInBytes(t *testing.T) {
	out := compile(t, `pub fn add(a: i32, b: i32): i32 { a + b }`)
	be.True(t, bytes.Contains(out, []byte("add")))
}

func TestEmitPrivateFunctionIsNotExported(t *testing.T) {
	exported := compile(t, `pub fn add(a: i32, b: i32): i32 { a + b }`)
	private := compile(t, `fn add(a: i32, b: i32): i32 { a + b }`)
	be.True(t, len(private) < len(exported))
}

func TestEmitFloatFunctionUsesF64Arithmetic(t *testing.T) {
	out := compile(t, `pub fn scale(a: f64, b: f64): f64 { a * b }`)
	be.True(t, len(out) > 8)
}

func TestEmitStructReturningFunctionUsesMemoryCopy(t *testing.T) {
	out := compile(t, `
		struct Point { x: i32, y: i32 }
		pub fn origin(): Point { Point { x: 0_i32, y: 0_i32 } }
	`)
	be.True(t, bytes.Contains(out, []byte{0xFC, 0x0A, 0x00, 0x00}))
}

func TestEmitNestedStructReturningCallsReusesMemoryCopy(t *testing.T) {
	out := compile(t, `
		struct Box { side: i32 }
		fn make_box(): Box { Box { side: 1_i32 } }
		pub fn main(): i32 {
			let b: Box = make_box();
			b.side
		}
	`)
	be.True(t, bytes.Contains(out, []byte{0xFC, 0x0A, 0x00, 0x00}))
}

func TestEmitEnumUnitVariantConstruction(t *testing.T) {
	out := compile(t, `
		enum Light { Red, Green, Yellow }
		pub fn go(): Light { Light::Green }
	`)
	be.True(t, len(out) > 8)
}

func TestEmitEnumValueVariantConstructionPanics(t *testing.T) {
	defer func() {
		r := recover()
		be.True(t, r != nil)
	}()
	compile(t, `
		enum Maybe { Some(i32), None }
		pub fn wrap(): Maybe { Maybe::Some(10_i32) }
	`)
}

func TestEmitStructEqualityPanics(t *testing.T) {
	defer func() {
		r := recover()
		be.True(t, r != nil)
	}()
	compile(t, `
		struct Point { x: i32, y: i32 }
		pub fn same(a: Point, b: Point): bool { a == b }
	`)
}

func TestEmitMutualFunctionCallsResolveForwardReferences(t *testing.T) {
	out := compile(t, `
		pub fn is_even(n: i32): bool { odd_base(n) }
		fn odd_base(n: i32): bool { true }
	`)
	be.True(t, bytes.Contains(out, []byte("is_even")))
}

func TestEmitBlockExpressionDropsAllButLast(t *testing.T) {
	out := compile(t, `
		pub fn main(): i32 {
			let a: i32 = 1_i32;
			let b: i32 = 2_i32;
			a + b
		}
	`)
	be.True(t, len(out) > 8)
}

func TestEmitMemberAccessUsesI32Load(t *testing.T) {
	out := compile(t, `
		struct Point { x: i32, y: i32 }
		pub fn getx(p: Point): i32 { p.x }
	`)
	be.True(t, len(out) > 8)
}

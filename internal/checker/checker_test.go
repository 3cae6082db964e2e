package checker_test

import (
	"testing"

	"github.com/nalgeon/be"

	"github.com/mood-lang/mood/internal/checker"
	"github.com/mood-lang/mood/internal/parser"
	"github.com/mood-lang/mood/internal/types"
)

func mustCheck(t *testing.T, source string) *checker.TypeTable {
	t.Helper()
	prog, parseDiag := parser.New(source).Parse()
	be.True(t, parseDiag == nil)
	table, diag := checker.Check(prog)
	be.True(t, diag == nil)
	return table
}

func mustFail(t *testing.T, source string) string {
	t.Helper()
	prog, parseDiag := parser.New(source).Parse()
	be.True(t, parseDiag == nil)
	_, diag := checker.Check(prog)
	be.True(t, diag != nil)
	return diag.Message
}

func TestCheckLiteralsAndArithmetic(t *testing.T) {
	table := mustCheck(t, `fn main(): i32 { 1_i32 + 2_i32 }`)
	be.True(t, table != nil)
}

func TestCheckBinaryMismatchedOperandTypes(t *testing.T) {
	msg := mustFail(t, `fn main(): i32 { 1_i32 + 2.0_f64 }`)
	be.True(t, len(msg) > 0)
}

func TestCheckBinaryNonNumericOperand(t *testing.T) {
	mustFail(t, `fn main(): bool { true + false }`)
}

func TestCheckEqualityOnI32YieldsBool(t *testing.T) {
	mustCheck(t, `fn main(): bool { 1_i32 == 2_i32 }`)
}

func TestCheckUndefinedName(t *testing.T) {
	mustFail(t, `fn main(): i32 { missing }`)
}

func TestCheckMutualFunctionCalls(t *testing.T) {
	mustCheck(t, `
		fn is_even(n: i32): bool { odd_base(n) }
		fn odd_base(n: i32): bool { true }
	`)
}

func TestCheckSelfRecursionRejected(t *testing.T) {
	mustFail(t, `fn loopy(n: i32): i32 { loopy(n) }`)
}

func TestCheckArityMismatch(t *testing.T) {
	mustFail(t, `
		fn add(a: i32, b: i32): i32 { a + b }
		fn main(): i32 { add(1_i32) }
	`)
}

func TestCheckNotCallable(t *testing.T) {
	mustFail(t, `
		fn main(): i32 {
			let x: i32 = 1_i32;
			x(2_i32)
		}
	`)
}

func TestCheckStructConstructionAndMember(t *testing.T) {
	table := mustCheck(t, `
		struct Point { x: i32, y: i32 }
		fn origin(): i32 {
			let p: Point = Point { x: 0_i32, y: 0_i32 };
			p.x
		}
	`)
	be.True(t, table != nil)
}

func TestCheckStructMissingField(t *testing.T) {
	mustFail(t, `
		struct Point { x: i32, y: i32 }
		fn origin(): i32 {
			let p: Point = Point { x: 0_i32 };
			p.x
		}
	`)
}

func TestCheckStructUnknownField(t *testing.T) {
	mustFail(t, `
		struct Point { x: i32, y: i32 }
		fn origin(): i32 {
			let p: Point = Point { x: 0_i32, y: 0_i32, z: 0_i32 };
			p.x
		}
	`)
}

func TestCheckUnknownMemberField(t *testing.T) {
	mustFail(t, `
		struct Point { x: i32, y: i32 }
		fn origin(): i32 {
			let p: Point = Point { x: 0_i32, y: 0_i32 };
			p.z
		}
	`)
}

func TestCheckEnumUnitVariant(t *testing.T) {
	mustCheck(t, `
		enum Signal { Go, Stop }
		fn main(): Signal { Signal::Go }
	`)
}

func TestCheckEnumValueVariant(t *testing.T) {
	mustCheck(t, `
		enum Maybe { Some(i32), None }
		fn main(): Maybe { Maybe::Some(10_i32) }
	`)
}

func TestCheckEnumVariantRequiresValue(t *testing.T) {
	mustFail(t, `
		enum Maybe { Some(i32), None }
		fn main(): Maybe { Maybe::Some() }
	`)
}

func TestCheckEnumVariantExcessArgs(t *testing.T) {
	msg := mustFail(t, `
		enum Maybe { Some(i32), None }
		fn main(): Maybe { Maybe::Some(10_i32, 20_i32, 30_i32) }
	`)
	be.Equal(t, msg, `Variant "Some" is not a unit variant. Expected a single value argument, but got 3.`)
}

func TestCheckEnumUnitVariantReceivedArg(t *testing.T) {
	mustFail(t, `
		enum Signal { Go, Stop }
		fn main(): Signal { Signal::Go(1_i32) }
	`)
}

func TestCheckEnumUnknownVariant(t *testing.T) {
	mustFail(t, `
		enum Signal { Go, Stop }
		fn main(): Signal { Signal::Slow }
	`)
}

func TestCheckVariableDeclarationTypeMismatch(t *testing.T) {
	mustFail(t, `fn main(): i32 { let x: i32 = true; x }`)
}

func TestCheckReturnTypeMismatchReportsAgainstLastBlockExpr(t *testing.T) {
	msg := mustFail(t, `fn main(): i32 { 1_i32; true }`)
	be.True(t, len(msg) > 0)
}

func TestCheckFunctionReturningStruct(t *testing.T) {
	table := mustCheck(t, `
		struct Box { side: i32 }
		fn unit_box(): Box { Box { side: 1_i32 } }
	`)
	be.True(t, table != nil)
}

func TestScopeBuiltinsPreDefined(t *testing.T) {
	root := checker.NewBuiltinScope()
	be.Equal(t, root.Lookup("i32"), types.I32Type)
	be.Equal(t, root.Lookup("f64"), types.F64Type)
	be.Equal(t, root.Lookup("bool"), types.BoolType)
	be.Equal(t, root.Lookup("true"), types.BoolType)
	be.True(t, root.Lookup("unknown") == nil)
}

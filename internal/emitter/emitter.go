// Package emitter walks Mood's typed AST and drives the Wasm ModuleBuilder
// (internal/wasm) to produce a binary module. The type checker is
// contractually responsible for rejecting anything this package cannot
// lower; anything that reaches here and still can't be emitted is an
// internal invariant failure, not a user-visible error, and panics.
package emitter

import (
	"fmt"
	"strconv"

	"github.com/mood-lang/mood/internal/ast"
	"github.com/mood-lang/mood/internal/checker"
	"github.com/mood-lang/mood/internal/layout"
	"github.com/mood-lang/mood/internal/types"
	"github.com/mood-lang/mood/internal/wasm"
)

// frameBase is the shadow-stack's starting frame pointer value: the top of
// the single 64KiB page this package always reserves. The stack grows down
// from here; MemoryLayout's per-function sizes are the only thing bounding
// how far.
const frameBase = 65536

// Emitter threads the ModuleBuilder, the checker's TypeTable, and the
// layout pass's StackSizes through AST emission. Nothing here is global
// mutable state: a fresh Emitter owns everything for exactly one compile.
type Emitter struct {
	module *wasm.Module
	table  *checker.TypeTable
	sizes  *layout.StackSizes
	fp     wasm.GlobalIndex

	funcIndex     map[string]wasm.FuncIndex
	returnsStruct map[string]bool
	resultType    map[string]*types.SymbolType
}

// frame holds one function's emission-time state: its instruction sink, its
// local-name bindings, and the bump offset for shadow-stack allocations
// made while emitting that function's body.
type frame struct {
	ctx         *wasm.FunctionContext
	locals      map[string]wasm.LocalIndex
	stackOffset int
}

// Emit lowers a fully type-checked, laid-out program to a Wasm binary.
func Emit(prog *ast.Program, table *checker.TypeTable, sizes *layout.StackSizes) []byte {
	e := &Emitter{
		module:        wasm.NewModule(),
		table:         table,
		sizes:         sizes,
		funcIndex:     make(map[string]wasm.FuncIndex),
		returnsStruct: make(map[string]bool),
		resultType:    make(map[string]*types.SymbolType),
	}

	if _, err := e.module.DefineMemory(wasm.Limits{Min: 1}); err != nil {
		panic(err)
	}
	e.fp = e.module.DeclareGlobal(wasm.I32, true, func(ec *wasm.ExpressionContext) {
		ec.I32Const(frameBase)
	})

	var funcs []*ast.FunctionDeclaration
	var ctxs []*wasm.FunctionContext

	for _, def := range prog.Definitions {
		fn, ok := def.(*ast.FunctionDeclaration)
		if !ok {
			continue
		}
		sig := e.table.Lookup(fn.Name)
		if sig == nil || sig.Kind != types.Function {
			panic(fmt.Sprintf("emitter: no resolved signature for function %q", fn.Name))
		}
		returnsStruct := sig.Result.Kind == types.Struct

		wasmParams := make([]wasm.ValType, 0, len(sig.Params)+1)
		if returnsStruct {
			wasmParams = append(wasmParams, wasm.I32)
		}
		for _, pt := range sig.Params {
			wasmParams = append(wasmParams, wasmType(pt))
		}

		var wasmResults []wasm.ValType
		if returnsStruct {
			wasmResults = []wasm.ValType{wasm.I32}
		} else {
			wasmResults = []wasm.ValType{wasmType(sig.Result)}
		}

		idx, ctx := e.module.DeclareFunction(wasmParams, wasmResults)
		e.funcIndex[fn.Name] = idx
		e.returnsStruct[fn.Name] = returnsStruct
		e.resultType[fn.Name] = sig.Result
		if fn.IsPublic {
			e.module.ExportFunction(fn.Name, idx)
		}

		funcs = append(funcs, fn)
		ctxs = append(ctxs, ctx)
	}

	for i, fn := range funcs {
		e.emitFunction(fn, ctxs[i])
	}

	return e.module.Compile()
}

func wasmType(t *types.SymbolType) wasm.ValType {
	switch t.Kind {
	case types.F64:
		return wasm.F64
	case types.I32, types.Bool, types.Struct, types.Enum:
		return wasm.I32
	default:
		panic("emitter: type " + t.String() + " has no Wasm value representation")
	}
}

func (e *Emitter) emitFunction(fn *ast.FunctionDeclaration, ctx *wasm.FunctionContext) {
	returnsStruct := e.returnsStruct[fn.Name]
	f := &frame{ctx: ctx, locals: make(map[string]wasm.LocalIndex)}

	paramStart := 0
	if returnsStruct {
		paramStart = 1 // local 0 is the caller-provided destination address
	}
	for i, p := range fn.Params {
		f.locals[p.Name] = wasm.LocalIndex(paramStart + i)
	}

	frameSize := int32(e.sizes.Get(fn))
	code := ctx.Code()

	code.GlobalGet(e.fp)
	code.I32Const(frameSize)
	code.I32Sub()
	code.GlobalSet(e.fp)

	e.emitExpr(f, fn.Body)

	if returnsStruct {
		structSize := int32(types.SizeOf(e.resultType[fn.Name]))
		tmp := ctx.DeclareLocal(wasm.I32)
		code.LocalSet(tmp)

		code.LocalGet(wasm.LocalIndex(0))
		code.LocalGet(tmp)
		code.I32Const(structSize)
		code.MemoryCopy()

		code.GlobalGet(e.fp)
		code.I32Const(frameSize)
		code.I32Add()
		code.GlobalSet(e.fp)

		code.LocalGet(wasm.LocalIndex(0))
		return
	}

	resultWt := wasmType(e.resultType[fn.Name])
	tmp := ctx.DeclareLocal(resultWt)
	code.LocalSet(tmp)

	code.GlobalGet(e.fp)
	code.I32Const(frameSize)
	code.I32Add()
	code.GlobalSet(e.fp)

	code.LocalGet(tmp)
}

// emitExpr appends the instructions that leave expr's value on top of the
// Wasm operand stack.
func (e *Emitter) emitExpr(f *frame, expr ast.Expr) {
	switch n := expr.(type) {
	case *ast.Literal:
		e.emitLiteral(f, n)
	case *ast.Identifier:
		f.ctx.Code().LocalGet(f.locals[n.Name])
	case *ast.BinaryExpression:
		e.emitBinary(f, n)
	case *ast.VariableDeclaration:
		e.emitVariableDeclaration(f, n)
	case *ast.BlockExpression:
		e.emitBlock(f, n)
	case *ast.CallExpression:
		e.emitCall(f, n)
	case *ast.StructConstruction:
		e.emitStructConstruction(f, n)
	case *ast.MemberExpression:
		e.emitMember(f, n)
	case *ast.ExpressionPath:
		e.emitExpressionPath(f, n)
	default:
		panic(fmt.Sprintf("emitter: cannot emit %T", expr))
	}
}

func (e *Emitter) emitLiteral(f *frame, n *ast.Literal) {
	code := f.ctx.Code()
	switch n.Kind {
	case ast.BoolLiteral:
		if n.BoolValue {
			code.I32Const(1)
		} else {
			code.I32Const(0)
		}
	case ast.FloatLiteral:
		v, err := strconv.ParseFloat(n.Text, 64)
		if err != nil {
			panic("emitter: malformed float literal " + n.Text)
		}
		code.F64Const(v)
	default: // IntLiteral
		v, err := strconv.ParseInt(n.Text, 10, 32)
		if err != nil {
			panic("emitter: malformed int literal " + n.Text)
		}
		code.I32Const(int32(v))
	}
}

func (e *Emitter) emitBinary(f *frame, n *ast.BinaryExpression) {
	operandType := e.table.TypeOf(n.Left)
	e.emitExpr(f, n.Left)
	e.emitExpr(f, n.Right)

	code := f.ctx.Code()
	switch n.Op {
	case ast.OpAdd:
		if operandType.Kind == types.F64 {
			code.F64Add()
		} else {
			code.I32Add()
		}
	case ast.OpMul:
		if operandType.Kind == types.F64 {
			code.F64Mul()
		} else {
			code.I32Mul()
		}
	case ast.OpEq:
		switch operandType.Kind {
		case types.F64:
			code.F64Eq()
		case types.I32, types.Bool:
			code.I32Eq()
		default:
			panic("emitter: struct/enum equality is not implemented")
		}
	}
}

func (e *Emitter) emitVariableDeclaration(f *frame, n *ast.VariableDeclaration) {
	declared := e.table.TypeOf(n)
	idx := f.ctx.DeclareLocal(wasmType(declared))
	e.emitExpr(f, n.Value)
	f.ctx.Code().LocalTee(idx)
	f.locals[n.Name] = idx
}

func (e *Emitter) emitBlock(f *frame, n *ast.BlockExpression) {
	code := f.ctx.Code()
	for i, child := range n.Children {
		e.emitExpr(f, child)
		if i != len(n.Children)-1 {
			code.Drop()
		}
	}
}

func (e *Emitter) emitDestAddr(f *frame, offset int) {
	code := f.ctx.Code()
	code.GlobalGet(e.fp)
	code.I32Const(int32(offset))
	code.I32Add()
}

func (e *Emitter) emitCall(f *frame, n *ast.CallExpression) {
	code := f.ctx.Code()
	calleeIdx := e.funcIndex[n.Callee]

	if !e.returnsStruct[n.Callee] {
		for _, arg := range n.Args {
			e.emitExpr(f, arg)
		}
		code.Call(calleeIdx)
		return
	}

	size := int32(types.SizeOf(e.resultType[n.Callee]))
	offset := f.stackOffset
	f.stackOffset += int(size)

	e.emitDestAddr(f, offset)
	for _, arg := range n.Args {
		e.emitExpr(f, arg)
	}
	code.Call(calleeIdx)

	tmp := f.ctx.DeclareLocal(wasm.I32)
	code.LocalSet(tmp)

	e.emitDestAddr(f, offset)
	code.LocalGet(tmp)
	code.I32Const(size)
	code.MemoryCopy()

	e.emitDestAddr(f, offset)
}

func (e *Emitter) emitStructConstruction(f *frame, n *ast.StructConstruction) {
	st := e.table.TypeOf(n)
	size := int32(types.SizeOf(st))
	offset := f.stackOffset
	f.stackOffset += int(size)

	values := make(map[string]ast.Expr, len(n.Fields))
	for _, fi := range n.Fields {
		values[fi.Name] = fi.Value
	}

	code := f.ctx.Code()
	for _, field := range st.Fields {
		e.emitDestAddr(f, offset)
		e.emitExpr(f, values[field.Name])
		code.I32Store(0, uint32(field.ByteOffset))
	}

	e.emitDestAddr(f, offset)
}

func (e *Emitter) emitMember(f *frame, n *ast.MemberExpression) {
	headType := e.table.TypeOf(n.Head)
	field, ok := headType.Field(n.FieldName)
	if !ok {
		panic(fmt.Sprintf("emitter: struct %q has no field %q", headType.StructName, n.FieldName))
	}
	e.emitExpr(f, n.Head)
	f.ctx.Code().I32Load(0, uint32(field.ByteOffset))
}

func (e *Emitter) emitExpressionPath(f *frame, n *ast.ExpressionPath) {
	enumType := e.table.TypeOf(n)
	variant, ok := enumType.Variant(n.VariantName)
	if !ok {
		panic(fmt.Sprintf("emitter: enum %q has no variant %q", enumType.EnumName, n.VariantName))
	}
	if variant.ValueType != nil {
		panic("emitter: value-bearing enum variant construction is not implemented")
	}
	f.ctx.Code().I32Const(int32(enumType.VariantIndex(n.VariantName)))
}

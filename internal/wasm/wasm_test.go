package wasm

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestEncodeLEB128UnsignedSmall(t *testing.T) {
	be.Equal(t, encodeLEB128U(0), []byte{0x00})
	be.Equal(t, encodeLEB128U(127), []byte{0x7F})
	be.Equal(t, encodeLEB128U(128), []byte{0x80, 0x01})
	be.Equal(t, encodeLEB128U(624485), []byte{0xE5, 0x8E, 0x26})
}

func TestEncodeLEB128SignedNegative(t *testing.T) {
	be.Equal(t, encodeLEB128S(-1), []byte{0x7F})
	be.Equal(t, encodeLEB128S(-123456), []byte{0xC0, 0xBB, 0x78})
	be.Equal(t, encodeLEB128S(42), []byte{0x2A})
}

func TestEncodeF64LittleEndian(t *testing.T) {
	got := encodeF64(1.0)
	be.Equal(t, got, []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xF0, 0x3F})
}

func TestModuleCompileHasMagicAndVersion(t *testing.T) {
	m := NewModule()
	out := m.Compile()
	be.Equal(t, out[:8], []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00})
}

func TestModuleFunctionTypeDeduplication(t *testing.T) {
	m := NewModule()
	idx1, _ := m.DeclareFunction([]ValType{I32, I32}, []ValType{I32})
	idx2, _ := m.DeclareFunction([]ValType{I32, I32}, []ValType{I32})
	be.True(t, idx1 != idx2)
	be.Equal(t, len(m.types), 1)
}

func TestModuleExportedFunctionAppearsOnce(t *testing.T) {
	m := NewModule()
	idx, ctx := m.DeclareFunction(nil, []ValType{I32})
	ctx.Code().I32Const(7)
	m.ExportFunction("test", idx)
	be.Equal(t, len(m.exports), 1)
	be.Equal(t, m.exports[0].name, "test")
	be.Equal(t, m.exports[0].kind, exportKindFunc)
}

func TestModuleDefineMemoryRejectsSecondCall(t *testing.T) {
	m := NewModule()
	_, err := m.DefineMemory(Limits{Min: 1})
	be.True(t, err == nil)
	_, err = m.DefineMemory(Limits{Min: 1})
	be.True(t, err != nil)
}

func TestModuleDeclareGlobalRecordsConstantInit(t *testing.T) {
	m := NewModule()
	idx := m.DeclareGlobal(I32, true, func(ec *ExpressionContext) { ec.I32Const(65536) })
	be.Equal(t, idx, GlobalIndex(0))
	be.Equal(t, len(m.globals), 1)
	be.Equal(t, m.globals[0].mutable, true)
}

func TestFunctionContextDeclareLocalIndicesFollowParams(t *testing.T) {
	_, ctx := NewModule().DeclareFunction([]ValType{I32, F64}, nil)
	a := ctx.DeclareLocal(I32)
	b := ctx.DeclareLocal(I32)
	be.Equal(t, a, LocalIndex(2))
	be.Equal(t, b, LocalIndex(3))
}

func TestCompactLocalsGroupsConsecutiveRuns(t *testing.T) {
	groups := compactLocals([]ValType{I32, I32, F64, F64, F64, I32})
	be.Equal(t, len(groups), 3)
	be.Equal(t, groups[0], localGroup{count: 2, vtype: I32})
	be.Equal(t, groups[1], localGroup{count: 3, vtype: F64})
	be.Equal(t, groups[2], localGroup{count: 1, vtype: I32})
}

func TestMemoryCopyEncodesBulkMemoryOpcode(t *testing.T) {
	ec := &ExpressionContext{}
	ec.MemoryCopy()
	be.Equal(t, ec.buf, []byte{0xFC, 0x0A, 0x00, 0x00})
}

func TestBlockEmitsOpeningClosingAndCallback(t *testing.T) {
	ec := &ExpressionContext{}
	ec.Block(nil, func(inner *ExpressionContext) {
		inner.I32Const(1)
		inner.Drop()
	})
	be.Equal(t, ec.buf, []byte{opBlock, blockTypeEmpty, opI32Const, 0x01, opDrop, opEnd})
}

func TestIfWithoutElse(t *testing.T) {
	ec := &ExpressionContext{}
	i32 := I32
	ec.If(&i32, func(inner *ExpressionContext) { inner.I32Const(1) }, nil)
	be.Equal(t, ec.buf, []byte{opIf, byte(I32), opI32Const, 0x01, opEnd})
}

func TestCallEncodesFunctionIndex(t *testing.T) {
	ec := &ExpressionContext{}
	ec.Call(FuncIndex(3))
	be.Equal(t, ec.buf, []byte{opCall, 0x03})
}

func TestModuleCompileEndToEndAddFunction(t *testing.T) {
	m := NewModule()
	idx, ctx := m.DeclareFunction([]ValType{I32, I32}, []ValType{I32})
	ctx.Code().LocalGet(0)
	ctx.Code().LocalGet(1)
	ctx.Code().I32Add()
	m.ExportFunction("add", idx)

	out := m.Compile()
	be.Equal(t, out[:8], []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00})
	be.True(t, len(out) > 8)
}

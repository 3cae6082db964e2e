package wasm

import "fmt"

// FuncIndex, GlobalIndex, MemIndex, and LocalIndex are the four index
// spaces a Module hands back to its caller; each is a distinct type so a
// mistaken swap (e.g. passing a GlobalIndex where a FuncIndex is expected)
// is a compile error rather than a runtime one.
type FuncIndex uint32
type GlobalIndex uint32
type MemIndex uint32
type LocalIndex uint32

// Limits describes a memory's page-count bounds (Wasm pages are 64KiB).
type Limits struct {
	Min uint32
	Max *uint32 // nil means unbounded
}

type funcType struct {
	params  []ValType
	results []ValType
}

func (t funcType) key() string {
	b := make([]byte, 0, len(t.params)+len(t.results)+1)
	for _, p := range t.params {
		b = append(b, byte(p))
	}
	b = append(b, '|')
	for _, r := range t.results {
		b = append(b, byte(r))
	}
	return string(b)
}

type function struct {
	typeIndex int
	ctx       *FunctionContext
}

type global struct {
	valType ValType
	mutable bool
	init    *ExpressionContext
}

type export struct {
	name  string
	kind  byte
	index uint32
}

// Module accumulates a Wasm module's sections and finalizes them into a
// binary once, via Compile. It is not safe for concurrent declaration.
type Module struct {
	types     []funcType
	typeCache map[string]int
	funcs     []function
	globals   []global
	mem       *Limits
	exports   []export
}

// NewModule returns an empty module ready for declarations.
func NewModule() *Module {
	return &Module{typeCache: make(map[string]int)}
}

func (m *Module) internType(params, results []ValType) int {
	t := funcType{params: params, results: results}
	key := t.key()
	if idx, ok := m.typeCache[key]; ok {
		return idx
	}
	idx := len(m.types)
	m.types = append(m.types, t)
	m.typeCache[key] = idx
	return idx
}

// DeclareFunction interns the function's (params, results) type, appends a
// fresh FunctionContext for its body, and returns both the function's index
// in the eventual module and the context used to emit its code.
func (m *Module) DeclareFunction(params, results []ValType) (FuncIndex, *FunctionContext) {
	tidx := m.internType(params, results)
	ctx := &FunctionContext{code: &ExpressionContext{}, paramCount: len(params)}
	idx := FuncIndex(len(m.funcs))
	m.funcs = append(m.funcs, function{typeIndex: tidx, ctx: ctx})
	return idx, ctx
}

// ExportFunction records idx as exported under name.
func (m *Module) ExportFunction(name string, idx FuncIndex) {
	m.exports = append(m.exports, export{name: name, kind: exportKindFunc, index: uint32(idx)})
}

// DeclareGlobal records a new global. init is invoked once with a private
// ExpressionContext, into which it must emit exactly one constant
// instruction — the global's initializer expression.
func (m *Module) DeclareGlobal(valueType ValType, mutable bool, init func(*ExpressionContext)) GlobalIndex {
	ec := &ExpressionContext{}
	init(ec)
	idx := GlobalIndex(len(m.globals))
	m.globals = append(m.globals, global{valType: valueType, mutable: mutable, init: ec})
	return idx
}

// DefineMemory declares the module's single memory. A second call is a
// programmer error: the current Wasm core only allows one memory.
func (m *Module) DefineMemory(limits Limits) (MemIndex, error) {
	if m.mem != nil {
		return 0, fmt.Errorf("wasm: module already defines a memory")
	}
	m.mem = &limits
	return 0, nil
}

// Compile finalizes every declared section into a Wasm binary, in the
// canonical section order. The Module must not be used afterward.
func (m *Module) Compile() []byte {
	out := append([]byte{}, wasmMagic...)
	out = append(out, wasmVersion...)

	out = append(out, m.emitTypeSection()...)
	out = append(out, m.emitFunctionSection()...)
	if m.mem != nil {
		out = append(out, m.emitMemorySection()...)
	}
	if len(m.globals) > 0 {
		out = append(out, m.emitGlobalSection()...)
	}
	if len(m.exports) > 0 {
		out = append(out, m.emitExportSection()...)
	}
	out = append(out, m.emitCodeSection()...)
	return out
}

func (m *Module) emitTypeSection() []byte {
	var contents []byte
	for _, t := range m.types {
		contents = append(contents, funcTypeTag)
		contents = append(contents, encodeLEB128U(uint64(len(t.params)))...)
		for _, p := range t.params {
			contents = append(contents, byte(p))
		}
		contents = append(contents, encodeLEB128U(uint64(len(t.results)))...)
		for _, r := range t.results {
			contents = append(contents, byte(r))
		}
	}
	return encodeSection(sectionType, encodeVector(len(m.types), contents))
}

func (m *Module) emitFunctionSection() []byte {
	var contents []byte
	for _, f := range m.funcs {
		contents = append(contents, encodeLEB128U(uint64(f.typeIndex))...)
	}
	return encodeSection(sectionFunction, encodeVector(len(m.funcs), contents))
}

func (m *Module) emitMemorySection() []byte {
	var contents []byte
	if m.mem.Max == nil {
		contents = append(contents, 0x00)
		contents = append(contents, encodeLEB128U(uint64(m.mem.Min))...)
	} else {
		contents = append(contents, 0x01)
		contents = append(contents, encodeLEB128U(uint64(m.mem.Min))...)
		contents = append(contents, encodeLEB128U(uint64(*m.mem.Max))...)
	}
	return encodeSection(sectionMemory, encodeVector(1, contents))
}

func (m *Module) emitGlobalSection() []byte {
	var contents []byte
	for _, g := range m.globals {
		contents = append(contents, byte(g.valType))
		if g.mutable {
			contents = append(contents, 0x01)
		} else {
			contents = append(contents, 0x00)
		}
		contents = append(contents, g.init.buf...)
		contents = append(contents, opEnd)
	}
	return encodeSection(sectionGlobal, encodeVector(len(m.globals), contents))
}

func (m *Module) emitExportSection() []byte {
	var contents []byte
	for _, e := range m.exports {
		contents = append(contents, encodeString(e.name)...)
		contents = append(contents, e.kind)
		contents = append(contents, encodeLEB128U(uint64(e.index))...)
	}
	return encodeSection(sectionExport, encodeVector(len(m.exports), contents))
}

func (m *Module) emitCodeSection() []byte {
	var contents []byte
	for _, f := range m.funcs {
		body := f.ctx.encode()
		contents = append(contents, encodeLEB128U(uint64(len(body)))...)
		contents = append(contents, body...)
	}
	return encodeSection(sectionCode, encodeVector(len(m.funcs), contents))
}

// FunctionContext holds one function's locals and instruction stream while
// its enclosing Module is still being built.
type FunctionContext struct {
	code       *ExpressionContext
	paramCount int
	localTypes []ValType
}

// Code returns the ExpressionContext the emitter should append this
// function's body instructions to.
func (fc *FunctionContext) Code() *ExpressionContext { return fc.code }

// DeclareLocal appends a local of the given type beyond the function's
// parameters and returns its absolute local index.
func (fc *FunctionContext) DeclareLocal(t ValType) LocalIndex {
	idx := LocalIndex(fc.paramCount + len(fc.localTypes))
	fc.localTypes = append(fc.localTypes, t)
	return idx
}

type localGroup struct {
	count uint64
	vtype ValType
}

func compactLocals(types []ValType) []localGroup {
	if len(types) == 0 {
		return nil
	}
	groups := []localGroup{{count: 1, vtype: types[0]}}
	for _, t := range types[1:] {
		last := &groups[len(groups)-1]
		if last.vtype == t {
			last.count++
		} else {
			groups = append(groups, localGroup{count: 1, vtype: t})
		}
	}
	return groups
}

// encode produces this function's entry in the code section: its local
// declarations followed by its instruction stream and a closing end byte.
func (fc *FunctionContext) encode() []byte {
	groups := compactLocals(fc.localTypes)
	locals := encodeLEB128U(uint64(len(groups)))
	for _, g := range groups {
		locals = append(locals, encodeLEB128U(g.count)...)
		locals = append(locals, byte(g.vtype))
	}
	body := append(locals, fc.code.buf...)
	return append(body, opEnd)
}

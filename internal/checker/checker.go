// Package checker implements Mood's two-pass type checker: a first pass
// that builds the top-level SymbolTable (struct/enum layouts and function
// signatures, in source order; since no body is checked until the second
// pass, every function signature is visible to every function body
// regardless of declaration order), and a second pass
// that walks each function body populating the TypeTable.
package checker

import (
	"fmt"
	"strings"

	"github.com/mood-lang/mood/internal/ast"
	"github.com/mood-lang/mood/internal/diagnostic"
	"github.com/mood-lang/mood/internal/location"
	"github.com/mood-lang/mood/internal/types"
)

type checker struct {
	table *TypeTable
}

type abort struct{ diag *diagnostic.Diagnostic }

func (c *checker) fail(message string, span location.Span, annotation string) {
	panic(abort{diagnostic.New(message, span, annotation)})
}

// Check type-checks an entire program, returning the populated TypeTable or
// the first Diagnostic encountered. There is no error recovery.
func Check(prog *ast.Program) (table *TypeTable, diag *diagnostic.Diagnostic) {
	c := &checker{table: newTypeTable()}

	defer func() {
		if r := recover(); r != nil {
			if a, ok := r.(abort); ok {
				table, diag = nil, a.diag
				return
			}
			panic(r)
		}
	}()

	topScope := NewScope(NewBuiltinScope())

	var funcs []*ast.FunctionDeclaration
	var funcTypes []*types.SymbolType

	// Pass 1: build the symbol table. Struct/enum declarations are fully
	// resolved and defined as they're encountered (a field or variant
	// payload must already name a type in scope). Function signatures are
	// resolved and defined without checking their bodies, so that every
	// function is callable from every other function's body regardless of
	// source order.
	for _, def := range prog.Definitions {
		switch d := def.(type) {
		case *ast.StructDeclaration:
			c.declareStruct(topScope, d)
		case *ast.EnumDeclaration:
			c.declareEnum(topScope, d)
		case *ast.FunctionDeclaration:
			ft := c.declareFunctionSignature(topScope, d)
			funcs = append(funcs, d)
			funcTypes = append(funcTypes, ft)
		}
	}

	// Pass 2: check each function body. A function's own name is shadowed
	// to nil in its own body scope, so it can call any other function
	// (mutual recursion between distinct functions is fine) but never
	// itself.
	for i, fn := range funcs {
		c.checkFunctionBody(topScope, fn, funcTypes[i])
	}

	c.table.setTopLevel(topScope.names)
	return c.table, nil
}

func (c *checker) resolveTypeName(scope *Scope, name string, span location.Span) *types.SymbolType {
	t := scope.Lookup(name)
	if t == nil {
		c.fail(fmt.Sprintf("undefined type %q", name), span, "undefined type")
	}
	return t
}

func (c *checker) declareStruct(scope *Scope, d *ast.StructDeclaration) {
	var fields []types.StructField
	offset := 0
	for _, f := range d.Fields {
		ft := c.resolveTypeName(scope, f.TypeName, f.TypeSpan)
		fields = append(fields, types.StructField{Name: f.Name, ValueType: ft, ByteOffset: offset})
		offset += types.SizeOf(ft)
	}
	scope.Define(d.Name, types.NewStruct(d.Name, fields, offset))
}

func (c *checker) declareEnum(scope *Scope, d *ast.EnumDeclaration) {
	var variants []types.EnumVariant
	for _, v := range d.Variants {
		var vt *types.SymbolType
		if v.HasValue {
			vt = c.resolveTypeName(scope, v.ValueType, v.ValueSpan)
		}
		variants = append(variants, types.EnumVariant{Name: v.Name, ValueType: vt})
	}
	scope.Define(d.Name, types.NewEnum(d.Name, variants))
}

func (c *checker) declareFunctionSignature(scope *Scope, d *ast.FunctionDeclaration) *types.SymbolType {
	params := make([]*types.SymbolType, len(d.Params))
	for i, p := range d.Params {
		params[i] = c.resolveTypeName(scope, p.TypeName, p.TypeSpan)
	}
	result := c.resolveTypeName(scope, d.ReturnType, d.ReturnSpan)
	ft := types.NewFunction(params, result)
	scope.Define(d.Name, ft)
	return ft
}

func (c *checker) checkFunctionBody(topScope *Scope, d *ast.FunctionDeclaration, fnType *types.SymbolType) {
	bodyScope := NewScope(topScope)
	bodyScope.Define(d.Name, nil) // shadow self: reject direct recursion
	for i, p := range d.Params {
		c.table.define(p.ID(), fnType.Params[i])
		bodyScope.Define(p.Name, fnType.Params[i])
	}
	c.expectType(bodyScope, d.Body, fnType.Result)
}

// check dispatches on the expression node kind, defining the node's entry
// in the TypeTable before returning its resolved type.
func (c *checker) check(scope *Scope, e ast.Expr) *types.SymbolType {
	switch n := e.(type) {
	case *ast.Identifier:
		return c.checkIdentifier(scope, n)
	case *ast.Literal:
		return c.checkLiteral(n)
	case *ast.BinaryExpression:
		return c.checkBinary(scope, n)
	case *ast.CallExpression:
		return c.checkCall(scope, n)
	case *ast.ExpressionPath:
		return c.checkExpressionPath(scope, n)
	case *ast.BlockExpression:
		return c.checkBlock(scope, n)
	case *ast.VariableDeclaration:
		return c.checkVarDecl(scope, n)
	case *ast.StructConstruction:
		return c.checkStructConstruction(scope, n)
	case *ast.MemberExpression:
		return c.checkMember(scope, n)
	default:
		panic(fmt.Sprintf("checker: unhandled expression node %T", e))
	}
}

// expectType checks e and requires its type to equal expected. On mismatch
// it reports against the last expression of e when e is a non-empty block,
// for a clearer diagnostic location.
func (c *checker) expectType(scope *Scope, e ast.Expr, expected *types.SymbolType) *types.SymbolType {
	actual := c.check(scope, e)
	if types.Equal(actual, expected) {
		return actual
	}
	target := e
	if block, ok := e.(*ast.BlockExpression); ok {
		if last := block.LastExpr(); last != nil {
			target = last
		}
	}
	c.fail(fmt.Sprintf("expected %s, found %s", expected, actual), target.Span(), fmt.Sprintf("expected %s here", expected))
	panic("unreachable")
}

func (c *checker) checkIdentifier(scope *Scope, n *ast.Identifier) *types.SymbolType {
	t := scope.Lookup(n.Name)
	if t == nil {
		c.fail(fmt.Sprintf("undefined name %q", n.Name), n.Span(), "not found in this scope")
	}
	c.table.define(n.ID(), t)
	return t
}

func (c *checker) checkLiteral(n *ast.Literal) *types.SymbolType {
	var t *types.SymbolType
	switch n.Kind {
	case ast.BoolLiteral:
		t = types.BoolType
	case ast.FloatLiteral:
		t = types.F64Type
	default:
		t = types.I32Type
	}
	c.table.define(n.ID(), t)
	return t
}

func (c *checker) checkBinary(scope *Scope, n *ast.BinaryExpression) *types.SymbolType {
	left := c.check(scope, n.Left)
	right := c.check(scope, n.Right)

	var result *types.SymbolType
	switch n.Op {
	case ast.OpAdd, ast.OpMul:
		if !left.IsNumeric() {
			c.fail(fmt.Sprintf("operator %q requires a numeric operand, found %s", n.Op, left), n.Left.Span(), "expected i32 or f64")
		}
		if !right.IsNumeric() {
			c.fail(fmt.Sprintf("operator %q requires a numeric operand, found %s", n.Op, right), n.Right.Span(), "expected i32 or f64")
		}
		if !types.Equal(left, right) {
			c.fail(fmt.Sprintf("mismatched operand types: %s and %s", left, right), n.Span(), "operand types must match")
		}
		result = left
	case ast.OpEq:
		if !left.IsEqualityComparable() {
			c.fail(fmt.Sprintf("type %s is not equality-comparable", left), n.Left.Span(), "not equality-comparable")
		}
		if !right.IsEqualityComparable() {
			c.fail(fmt.Sprintf("type %s is not equality-comparable", right), n.Right.Span(), "not equality-comparable")
		}
		if !types.Equal(left, right) {
			c.fail(fmt.Sprintf("mismatched operand types: %s and %s", left, right), n.Span(), "operand types must match")
		}
		result = types.BoolType
	}
	c.table.define(n.ID(), result)
	return result
}

func (c *checker) checkCall(scope *Scope, n *ast.CallExpression) *types.SymbolType {
	callee := scope.Lookup(n.Callee)
	if callee == nil {
		c.fail(fmt.Sprintf("undefined name %q", n.Callee), n.CalleeSpan, "not found in this scope")
	}
	if callee.Kind != types.Function {
		c.fail(fmt.Sprintf("%q is not callable", n.Callee), n.CalleeSpan, "not a function")
	}
	if len(n.Args) != len(callee.Params) {
		c.fail(fmt.Sprintf("function %q expects %d argument(s), found %d", n.Callee, len(callee.Params), len(n.Args)), n.Span(), "argument count mismatch")
	}
	for i, arg := range n.Args {
		c.expectType(scope, arg, callee.Params[i])
	}
	c.table.define(n.ID(), callee.Result)
	return callee.Result
}

func (c *checker) checkExpressionPath(scope *Scope, n *ast.ExpressionPath) *types.SymbolType {
	enumType := scope.Lookup(n.EnumName)
	if enumType == nil {
		c.fail(fmt.Sprintf("undefined name %q", n.EnumName), n.EnumSpan, "not found in this scope")
	}
	if enumType.Kind != types.Enum {
		c.fail(fmt.Sprintf("%q is not an enum", n.EnumName), n.EnumSpan, "expected an enum type")
	}
	variant, ok := enumType.Variant(n.VariantName)
	if !ok {
		c.fail(fmt.Sprintf("enum %q has no variant %q", n.EnumName, n.VariantName), n.VariantSpan, "unknown variant")
	}

	if variant.ValueType != nil {
		switch {
		case len(n.Args) == 0:
			c.fail(fmt.Sprintf("variant %q requires a value", n.VariantName), n.Span(), "expected a value argument")
		case len(n.Args) > 1:
			extra := location.Union(n.Args[1].Span(), n.Args[len(n.Args)-1].Span())
			c.fail(fmt.Sprintf("Variant %q is not a unit variant. Expected a single value argument, but got %d.", n.VariantName, len(n.Args)), extra, "unexpected extra argument(s)")
		default:
			c.expectType(scope, n.Args[0], variant.ValueType)
		}
	} else if n.IsCall && len(n.Args) > 0 {
		c.fail(fmt.Sprintf("variant %q is a unit variant and does not take arguments", n.VariantName), n.Span(), "unit variant received an argument")
	}

	c.table.define(n.ID(), enumType)
	return enumType
}

func (c *checker) checkBlock(scope *Scope, n *ast.BlockExpression) *types.SymbolType {
	result := types.EmptyType
	for _, child := range n.Children {
		result = c.check(scope, child)
	}
	c.table.define(n.ID(), result)
	return result
}

func (c *checker) checkVarDecl(scope *Scope, n *ast.VariableDeclaration) *types.SymbolType {
	declared := c.resolveTypeName(scope, n.TypeName, n.TypeSpan)
	c.expectType(scope, n.Value, declared)
	scope.Define(n.Name, declared)
	c.table.define(n.ID(), declared)
	return declared
}

func (c *checker) checkStructConstruction(scope *Scope, n *ast.StructConstruction) *types.SymbolType {
	st := scope.Lookup(n.StructName)
	if st == nil {
		c.fail(fmt.Sprintf("undefined name %q", n.StructName), n.NameSpan, "not found in this scope")
	}
	if st.Kind != types.Struct {
		c.fail(fmt.Sprintf("%q is not a struct", n.StructName), n.NameSpan, "expected a struct type")
	}

	provided := make(map[string]bool, len(n.Fields))
	for _, fi := range n.Fields {
		field, ok := st.Field(fi.Name)
		if !ok {
			c.fail(fmt.Sprintf("struct %q has no field %q", st.StructName, fi.Name), fi.NameSpan, "unknown field")
		}
		c.expectType(scope, fi.Value, field.ValueType)
		provided[fi.Name] = true
	}

	var missing []string
	for _, f := range st.Fields {
		if !provided[f.Name] {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		c.fail(fmt.Sprintf("missing field(s) %s in construction of %q", strings.Join(missing, ", "), st.StructName), n.Span(), "missing fields")
	}

	c.table.define(n.ID(), st)
	return st
}

func (c *checker) checkMember(scope *Scope, n *ast.MemberExpression) *types.SymbolType {
	head := c.check(scope, n.Head)
	if head.Kind != types.Struct {
		c.fail(fmt.Sprintf("%s is not a struct", head), n.Head.Span(), "expected a struct")
	}
	field, ok := head.Field(n.FieldName)
	if !ok {
		c.fail(fmt.Sprintf("struct %q has no field %q", head.StructName, n.FieldName), n.FieldSpan, "unknown field")
	}
	c.table.define(n.ID(), field.ValueType)
	return field.ValueType
}

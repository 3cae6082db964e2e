// Package ast defines the Mood abstract syntax tree. Every expression-bearing
// node carries a dense, parser-assigned node-id and a source span; both are
// load-bearing for the checker, layout pass, and emitter that follow.
package ast

import "github.com/mood-lang/mood/internal/location"

// NodeID uniquely identifies an expression-bearing node within one compile.
type NodeID int

// Node is the base interface implemented by every AST node.
type Node interface {
	Span() location.Span
}

// Expr is implemented by every expression-bearing node. Its NodeID is the
// key into the checker's TypeTable.
type Expr interface {
	Node
	ID() NodeID
	exprNode()
}

// Decl is implemented by top-level definitions.
type Decl interface {
	Node
	declNode()
}

// Program is the root of a parsed compilation unit.
type Program struct {
	Definitions []Decl
	span        location.Span
}

func NewProgram(defs []Decl, span location.Span) *Program { return &Program{Definitions: defs, span: span} }
func (p *Program) Span() location.Span                    { return p.span }

// Field is a struct field declaration: `name: Type`.
type Field struct {
	Name       string
	TypeName   string
	TypeSpan   location.Span
	span       location.Span
}

func NewField(name, typeName string, typeSpan, span location.Span) *Field {
	return &Field{Name: name, TypeName: typeName, TypeSpan: typeSpan, span: span}
}
func (f *Field) Span() location.Span { return f.span }

// StructDeclaration declares a struct type and its fields, in declaration order.
type StructDeclaration struct {
	Name   string
	Fields []*Field
	span   location.Span
}

func NewStructDeclaration(name string, fields []*Field, span location.Span) *StructDeclaration {
	return &StructDeclaration{Name: name, Fields: fields, span: span}
}
func (s *StructDeclaration) Span() location.Span { return s.span }
func (s *StructDeclaration) declNode()           {}

// Variant is one arm of an enum: a bare name, or a name with a single
// parenthesized payload type.
type Variant struct {
	Name         string
	HasValue     bool
	ValueType    string
	ValueSpan    location.Span
	span         location.Span
}

func NewVariant(name string, hasValue bool, valueType string, valueSpan, span location.Span) *Variant {
	return &Variant{Name: name, HasValue: hasValue, ValueType: valueType, ValueSpan: valueSpan, span: span}
}
func (v *Variant) Span() location.Span { return v.span }

// EnumDeclaration declares an enum type and its variants, in declaration order.
type EnumDeclaration struct {
	Name     string
	Variants []*Variant
	span     location.Span
}

func NewEnumDeclaration(name string, variants []*Variant, span location.Span) *EnumDeclaration {
	return &EnumDeclaration{Name: name, Variants: variants, span: span}
}
func (e *EnumDeclaration) Span() location.Span { return e.span }
func (e *EnumDeclaration) declNode()           {}

// Parameter is a single function parameter.
type Parameter struct {
	id       NodeID
	Name     string
	TypeName string
	TypeSpan location.Span
	span     location.Span
}

func NewParameter(id NodeID, name, typeName string, typeSpan, span location.Span) *Parameter {
	return &Parameter{id: id, Name: name, TypeName: typeName, TypeSpan: typeSpan, span: span}
}
func (p *Parameter) ID() NodeID          { return p.id }
func (p *Parameter) Span() location.Span { return p.span }
func (p *Parameter) exprNode()           {}

// FunctionDeclaration declares a function, its parameters, return type, and body.
type FunctionDeclaration struct {
	Name         string
	IsPublic     bool
	Params       []*Parameter
	ReturnType   string
	ReturnSpan   location.Span
	Body         *BlockExpression
	span         location.Span
}

func NewFunctionDeclaration(name string, isPublic bool, params []*Parameter, returnType string, returnSpan location.Span, body *BlockExpression, span location.Span) *FunctionDeclaration {
	return &FunctionDeclaration{Name: name, IsPublic: isPublic, Params: params, ReturnType: returnType, ReturnSpan: returnSpan, Body: body, span: span}
}
func (f *FunctionDeclaration) Span() location.Span { return f.span }
func (f *FunctionDeclaration) declNode()           {}

// Identifier references a name in scope.
type Identifier struct {
	id   NodeID
	Name string
	span location.Span
}

func NewIdentifier(id NodeID, name string, span location.Span) *Identifier {
	return &Identifier{id: id, Name: name, span: span}
}
func (i *Identifier) ID() NodeID          { return i.id }
func (i *Identifier) Span() location.Span { return i.span }
func (i *Identifier) exprNode()           {}

// LiteralKind distinguishes the surface form of a Literal.
type LiteralKind int

const (
	IntLiteral LiteralKind = iota
	FloatLiteral
	BoolLiteral
)

// Literal is a numeric literal with an explicit `_i32`/`_f64` suffix, or a
// bare `true`/`false`.
type Literal struct {
	id         NodeID
	Kind       LiteralKind
	Text       string // the digits (and optional '.') as written; empty for bool literals
	Annotation string // "i32", "f64", or "bool"
	BoolValue  bool
	span       location.Span
}

func NewLiteral(id NodeID, kind LiteralKind, text, annotation string, boolValue bool, span location.Span) *Literal {
	return &Literal{id: id, Kind: kind, Text: text, Annotation: annotation, BoolValue: boolValue, span: span}
}
func (l *Literal) ID() NodeID          { return l.id }
func (l *Literal) Span() location.Span { return l.span }
func (l *Literal) exprNode()           {}

// BinaryOp identifies an infix operator.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpMul
	OpEq
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpMul:
		return "*"
	case OpEq:
		return "=="
	default:
		return "?"
	}
}

// BinaryExpression is an infix operator application.
type BinaryExpression struct {
	id    NodeID
	Op    BinaryOp
	Left  Expr
	Right Expr
	span  location.Span
}

func NewBinaryExpression(id NodeID, op BinaryOp, left, right Expr, span location.Span) *BinaryExpression {
	return &BinaryExpression{id: id, Op: op, Left: left, Right: right, span: span}
}
func (b *BinaryExpression) ID() NodeID          { return b.id }
func (b *BinaryExpression) Span() location.Span { return b.span }
func (b *BinaryExpression) exprNode()           {}

// CallExpression is a function call `callee(args...)`.
type CallExpression struct {
	id       NodeID
	Callee   string
	CalleeSpan location.Span
	Args     []Expr
	span     location.Span
}

func NewCallExpression(id NodeID, callee string, calleeSpan location.Span, args []Expr, span location.Span) *CallExpression {
	return &CallExpression{id: id, Callee: callee, CalleeSpan: calleeSpan, Args: args, span: span}
}
func (c *CallExpression) ID() NodeID          { return c.id }
func (c *CallExpression) Span() location.Span { return c.span }
func (c *CallExpression) exprNode()           {}

// ExpressionPath is an enum-variant reference: `Enum::Variant` or
// `Enum::Variant(value)`.
type ExpressionPath struct {
	id          NodeID
	EnumName    string
	EnumSpan    location.Span
	VariantName string
	VariantSpan location.Span
	IsCall      bool
	Args        []Expr
	span        location.Span
}

func NewExpressionPath(id NodeID, enumName string, enumSpan location.Span, variantName string, variantSpan location.Span, isCall bool, args []Expr, span location.Span) *ExpressionPath {
	return &ExpressionPath{id: id, EnumName: enumName, EnumSpan: enumSpan, VariantName: variantName, VariantSpan: variantSpan, IsCall: isCall, Args: args, span: span}
}
func (e *ExpressionPath) ID() NodeID          { return e.id }
func (e *ExpressionPath) Span() location.Span { return e.span }
func (e *ExpressionPath) exprNode()           {}

// BlockExpression is a `{ expr; expr; ... }` sequence; its type is the type
// of its last child, or `empty` if it has none.
type BlockExpression struct {
	id       NodeID
	Children []Expr
	span     location.Span
}

func NewBlockExpression(id NodeID, children []Expr, span location.Span) *BlockExpression {
	return &BlockExpression{id: id, Children: children, span: span}
}
func (b *BlockExpression) ID() NodeID          { return b.id }
func (b *BlockExpression) Span() location.Span { return b.span }
func (b *BlockExpression) exprNode()           {}

// LastExpr returns the block's final child, or nil if the block is empty.
func (b *BlockExpression) LastExpr() Expr {
	if len(b.Children) == 0 {
		return nil
	}
	return b.Children[len(b.Children)-1]
}

// VariableDeclaration is a `let name: Type = expr` binding.
type VariableDeclaration struct {
	id       NodeID
	Name     string
	TypeName string
	TypeSpan location.Span
	Value    Expr
	span     location.Span
}

func NewVariableDeclaration(id NodeID, name, typeName string, typeSpan location.Span, value Expr, span location.Span) *VariableDeclaration {
	return &VariableDeclaration{id: id, Name: name, TypeName: typeName, TypeSpan: typeSpan, Value: value, span: span}
}
func (v *VariableDeclaration) ID() NodeID          { return v.id }
func (v *VariableDeclaration) Span() location.Span { return v.span }
func (v *VariableDeclaration) exprNode()           {}

// FieldInit is a single `name: value` pair inside a struct construction.
type FieldInit struct {
	Name     string
	NameSpan location.Span
	Value    Expr
}

// StructConstruction builds a struct value: `Name { field: value, ... }`.
type StructConstruction struct {
	id         NodeID
	StructName string
	NameSpan   location.Span
	Fields     []FieldInit
	span       location.Span
}

func NewStructConstruction(id NodeID, structName string, nameSpan location.Span, fields []FieldInit, span location.Span) *StructConstruction {
	return &StructConstruction{id: id, StructName: structName, NameSpan: nameSpan, Fields: fields, span: span}
}
func (s *StructConstruction) ID() NodeID          { return s.id }
func (s *StructConstruction) Span() location.Span { return s.span }
func (s *StructConstruction) exprNode()           {}

// MemberExpression accesses a struct field: `head.field`.
type MemberExpression struct {
	id        NodeID
	Head      Expr
	FieldName string
	FieldSpan location.Span
	span      location.Span
}

func NewMemberExpression(id NodeID, head Expr, fieldName string, fieldSpan location.Span, span location.Span) *MemberExpression {
	return &MemberExpression{id: id, Head: head, FieldName: fieldName, FieldSpan: fieldSpan, span: span}
}
func (m *MemberExpression) ID() NodeID          { return m.id }
func (m *MemberExpression) Span() location.Span { return m.span }
func (m *MemberExpression) exprNode()           {}

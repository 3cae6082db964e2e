// Package types defines Mood's closed SymbolType sum and the byte-size
// rules the layout pass and emitter share.
package types

import "strings"

// Kind discriminates the variant of a SymbolType. SymbolType is a closed sum
// over these kinds; every consumer is expected to switch exhaustively.
type Kind int

const (
	I32 Kind = iota
	F64
	Bool
	Nil
	Empty
	Function
	Struct
	Enum
)

func (k Kind) String() string {
	switch k {
	case I32:
		return "i32"
	case F64:
		return "f64"
	case Bool:
		return "bool"
	case Nil:
		return "nil"
	case Empty:
		return "empty"
	case Function:
		return "function"
	case Struct:
		return "struct"
	case Enum:
		return "enum"
	default:
		return "unknown"
	}
}

// StructField is a single field of a struct type, in declaration order.
type StructField struct {
	Name       string
	ValueType  *SymbolType
	ByteOffset int
}

// EnumVariant is a single variant of an enum type. ValueType is nil for a
// unit variant.
type EnumVariant struct {
	Name      string
	ValueType *SymbolType
}

// SymbolType is Mood's closed type sum:
// i32 | f64 | bool | nil | empty | function{...} | struct{...} | enum{...}.
type SymbolType struct {
	Kind Kind

	// Function
	Params []*SymbolType
	Result *SymbolType

	// Struct
	StructName string
	Fields     []StructField
	Size       int

	// Enum
	EnumName string
	Variants []EnumVariant
}

var (
	I32Type   = &SymbolType{Kind: I32}
	F64Type   = &SymbolType{Kind: F64}
	BoolType  = &SymbolType{Kind: Bool}
	NilType   = &SymbolType{Kind: Nil}
	EmptyType = &SymbolType{Kind: Empty}
)

// NewFunction builds a function SymbolType.
func NewFunction(params []*SymbolType, result *SymbolType) *SymbolType {
	return &SymbolType{Kind: Function, Params: params, Result: result}
}

// NewStruct builds a struct SymbolType with fields already laid out (offsets
// computed by the checker as running sums of field sizes in declaration order).
func NewStruct(name string, fields []StructField, size int) *SymbolType {
	return &SymbolType{Kind: Struct, StructName: name, Fields: fields, Size: size}
}

// NewEnum builds an enum SymbolType.
func NewEnum(name string, variants []EnumVariant) *SymbolType {
	size := 0
	for _, v := range variants {
		if v.ValueType != nil {
			if s := SizeOf(v.ValueType); s > size {
				size = s
			}
		}
	}
	return &SymbolType{Kind: Enum, EnumName: name, Variants: variants, Size: size + 4}
}

// Field looks up a struct field by name.
func (t *SymbolType) Field(name string) (StructField, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return StructField{}, false
}

// VariantIndex returns the declaration-order index of a variant, or -1.
func (t *SymbolType) VariantIndex(name string) int {
	for i, v := range t.Variants {
		if v.Name == name {
			return i
		}
	}
	return -1
}

// Variant looks up an enum variant by name.
func (t *SymbolType) Variant(name string) (EnumVariant, bool) {
	for _, v := range t.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return EnumVariant{}, false
}

// IsNumeric reports whether t is i32 or f64.
func (t *SymbolType) IsNumeric() bool {
	return t != nil && (t.Kind == I32 || t.Kind == F64)
}

// IsEqualityComparable reports whether t may appear on either side of `==`.
func (t *SymbolType) IsEqualityComparable() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case I32, F64, Bool, Enum, Struct:
		return true
	default:
		return false
	}
}

// IsAggregate reports whether values of t live in linear memory rather than
// a single Wasm value-slot.
func (t *SymbolType) IsAggregate() bool {
	return t != nil && (t.Kind == Struct || t.Kind == Enum)
}

// Equal performs structural equality: same kind, and (for struct/enum) same
// name, since Mood has no structural typing for aggregates.
func Equal(a, b *SymbolType) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Struct:
		return a.StructName == b.StructName
	case Enum:
		return a.EnumName == b.EnumName
	case Function:
		if len(a.Params) != len(b.Params) || !Equal(a.Result, b.Result) {
			return false
		}
		for i := range a.Params {
			if !Equal(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// SizeOf returns a type's byte footprint in linear memory / the shadow
// stack: bool and i32 are 4 bytes, f64 is 8, struct is the sum of its
// fields, enum is its largest variant payload plus a 4-byte tag. function,
// nil, and empty have no representation and SizeOf panics if asked.
func SizeOf(t *SymbolType) int {
	if t == nil {
		panic("types: SizeOf(nil)")
	}
	switch t.Kind {
	case I32, Bool:
		return 4
	case F64:
		return 8
	case Struct:
		return t.Size
	case Enum:
		return t.Size
	default:
		panic("types: " + t.Kind.String() + " has no linear-memory representation")
	}
}

// String renders a SymbolType for diagnostics.
func (t *SymbolType) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case Function:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		result := "empty"
		if t.Result != nil {
			result = t.Result.String()
		}
		return "fn(" + strings.Join(parts, ", ") + "): " + result
	case Struct:
		return t.StructName
	case Enum:
		return t.EnumName
	default:
		return t.Kind.String()
	}
}

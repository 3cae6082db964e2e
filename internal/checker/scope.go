package checker

import "github.com/mood-lang/mood/internal/types"

// Scope is one level of Mood's SymbolTable: a mapping from name to
// SymbolType, chained to a parent scope. Lookup walks the parent chain;
// Define only ever writes the current scope, which is what lets an inner
// scope shadow an outer one.
type Scope struct {
	parent *Scope
	names  map[string]*types.SymbolType
}

// NewScope creates a scope with an optional parent. A nil parent marks the
// root (built-in) scope.
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, names: make(map[string]*types.SymbolType)}
}

// Define binds name to t in the current scope, overwriting any existing
// binding of the same name in this scope (shadowing across scope
// boundaries is permitted; redefinition within one scope is caller's
// business — Mood's grammar never re-declares an identifier twice in the
// same block).
func (s *Scope) Define(name string, t *types.SymbolType) {
	s.names[name] = t
}

// Lookup walks from this scope to the root, returning the first binding of
// name found, or nil if none exists.
func (s *Scope) Lookup(name string) *types.SymbolType {
	for scope := s; scope != nil; scope = scope.parent {
		if t, ok := scope.names[name]; ok {
			return t
		}
	}
	return nil
}

// LookupLocal looks up name only in this scope, ignoring parents.
func (s *Scope) LookupLocal(name string) (*types.SymbolType, bool) {
	t, ok := s.names[name]
	return t, ok
}

// NewBuiltinScope returns the root scope with bool, true, false, i32, f64
// pre-defined as type symbols.
func NewBuiltinScope() *Scope {
	root := NewScope(nil)
	root.Define("bool", types.BoolType)
	root.Define("i32", types.I32Type)
	root.Define("f64", types.F64Type)
	root.Define("true", types.BoolType)
	root.Define("false", types.BoolType)
	return root
}

package checker

import (
	"github.com/mood-lang/mood/internal/ast"
	"github.com/mood-lang/mood/internal/types"
)

// TypeTable is a dense mapping from node-id to resolved SymbolType,
// populated by the type checker and consumed by the layout pass and the
// Wasm emitter. Neither of those ever re-derives a type: every relevant
// node-id is guaranteed to have an entry once Check succeeds.
type TypeTable struct {
	entries  map[ast.NodeID]*types.SymbolType
	topLevel map[string]*types.SymbolType
}

func newTypeTable() *TypeTable {
	return &TypeTable{entries: make(map[ast.NodeID]*types.SymbolType)}
}

func (t *TypeTable) define(id ast.NodeID, ty *types.SymbolType) {
	t.entries[id] = ty
}

// setTopLevel records the fully-resolved struct/enum/function signatures
// built during the checker's first pass, so later passes (layout, emitter)
// can resolve a declaration's own type without re-deriving it.
func (t *TypeTable) setTopLevel(names map[string]*types.SymbolType) {
	t.topLevel = names
}

// Lookup returns the resolved SymbolType of a top-level struct, enum, or
// function declaration by name, or nil if none exists.
func (t *TypeTable) Lookup(name string) *types.SymbolType {
	return t.topLevel[name]
}

// Get returns the resolved type for a node-id, or nil if none was recorded.
func (t *TypeTable) Get(id ast.NodeID) *types.SymbolType {
	return t.entries[id]
}

// TypeOf returns the resolved type of any expression node.
func (t *TypeTable) TypeOf(e ast.Expr) *types.SymbolType {
	return t.entries[e.ID()]
}

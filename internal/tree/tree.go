// Package tree defines the node contract consumed by the rewrite combinators
// and the layout engine. The parser that produces concrete nodes lives
// elsewhere; everything here is interface-only.
package tree

import (
	"reweave/internal/entity"
	"reweave/internal/source"
)

// Node is a single immutable syntax-tree node.
type Node interface {
	// Span locates the node in its source file. The span kind decides
	// whether layout machinery may descend into this node.
	Span() source.Span

	// Children returns the node's direct children in source order.
	Children() []Node

	// MapChildren rebuilds the node with every direct child passed through
	// fn. It fails as a whole if fn fails on any child; a partially rebuilt
	// node is never produced. Leaf nodes succeed with themselves unchanged.
	MapChildren(fn func(Node) (Node, bool)) (Node, bool)
}

// Decl is a node that declares a named entity.
type Decl interface {
	Node

	// Entity returns the stable reference for the declared name.
	// References compare with ==.
	Entity() entity.Ref

	// DeclName returns the declared name as written.
	DeclName() string
}

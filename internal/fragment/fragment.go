// Package fragment models the layout of parsed source as a tree of atomic
// units: literal original text, synthesized text, connective layout, and
// scopes grouping ordered children.
//
// A fragment tree is built once per partition pass over a read-only syntax
// tree, extended with layout leaves before rendering, and discarded after.
package fragment

import (
	"reweave/internal/source"
	"reweave/internal/tree"
)

// Requisite is connective text that must appear at a fragment boundary.
// If the source already has Match in place, nothing is inserted; otherwise
// Write is inserted. Application is idempotent.
type Requisite struct {
	Match string
	Write string
}

// Req is shorthand for a requisite whose match and write text coincide.
func Req(text string) Requisite {
	return Requisite{Match: text, Write: text}
}

// Anchors holds the requisites attached to a fragment's sides.
type Anchors struct {
	Before []Requisite
	After  []Requisite
}

func (a *Anchors) RequireBefore(reqs ...Requisite) {
	a.Before = append(a.Before, reqs...)
}

func (a *Anchors) RequireAfter(reqs ...Requisite) {
	a.After = append(a.After, reqs...)
}

// Fragment is one atomic unit of the layout model.
type Fragment interface {
	// Span locates the fragment. Synthetic fragments carry an insertion
	// point rather than a text range.
	Span() source.Span

	// Anchor exposes the fragment's requisite anchors.
	Anchor() *Anchors
}

// Scope owns an ordered sequence of child fragments.
type Scope struct {
	Anchors
	SpanAt   source.Span
	Indent   int // measured in columns
	Children []Fragment
	Node     tree.Node // tag, may be nil

	// Coincident counts how many times the scope was re-opened for a node
	// whose span coincides with it. Opening and closing stay balanced
	// without ever stacking two scopes over the same text.
	Coincident int
}

// NewScope creates an empty scope covering sp, tagged with n when the scope
// itself stands for a syntax node.
func NewScope(sp source.Span, n tree.Node) *Scope {
	return &Scope{SpanAt: sp, Node: n}
}

func (s *Scope) Span() source.Span { return s.SpanAt }
func (s *Scope) Anchor() *Anchors  { return &s.Anchors }

// Synthetic reports whether the scope did not exist verbatim in source.
func (s *Scope) Synthetic() bool { return s.SpanAt.IsSynthetic() }

// Append adds a child fragment. Children must be appended in source order.
func (s *Scope) Append(f Fragment) {
	s.Children = append(s.Children, f)
}

// Last returns the most recently appended child, or nil.
func (s *Scope) Last() Fragment {
	if len(s.Children) == 0 {
		return nil
	}
	return s.Children[len(s.Children)-1]
}

// SourceLeaf references a literal span of original text, or carries
// synthesized text when its span is synthetic. A tagged leaf remembers the
// syntax node it represents; untagged leaves hold synthesized content with
// no node of their own.
type SourceLeaf struct {
	Anchors
	SpanAt source.Span
	Node   tree.Node // tag, nil for untagged synthesized content
	Text   string    // emitted when the span is synthetic
}

func (l *SourceLeaf) Span() source.Span { return l.SpanAt }
func (l *SourceLeaf) Anchor() *Anchors  { return &l.Anchors }

// LayoutLeaf holds the original whitespace/comment text between two adjacent
// fragments. It is only created for non-degenerate gaps.
type LayoutLeaf struct {
	Anchors
	SpanAt source.Span
	Text   string
}

func (l *LayoutLeaf) Span() source.Span { return l.SpanAt }
func (l *LayoutLeaf) Anchor() *Anchors  { return &l.Anchors }

// FlagLeaf is one modifier/annotation token. A flag with a range span emits
// its original text; a synthetic flag emits its logical Text value.
type FlagLeaf struct {
	Anchors
	SpanAt source.Span
	Text   string
	Node   tree.Node // tag, may be nil
}

func (l *FlagLeaf) Span() source.Span { return l.SpanAt }
func (l *FlagLeaf) Anchor() *Anchors  { return &l.Anchors }

// Package syntax defines the weave-language syntax tree. Nodes are immutable
// after parsing; rewrites rebuild the spine above any change and leave
// untouched subtrees shared by pointer.
package syntax

import (
	"reweave/internal/entity"
	"reweave/internal/source"
	"reweave/internal/token"
	"reweave/internal/tree"
)

// Name is a declared or referenced name with the span it was written at.
type Name struct {
	Text string
	Span source.Span
}

// Valid reports whether the name is present.
func (n Name) Valid() bool { return n.Text != "" }

// mapNodes passes every element through fn, reusing the input slice when no
// element actually changed. The second result reports change, the third
// success.
func mapNodes[T tree.Node](xs []T, fn func(tree.Node) (tree.Node, bool)) ([]T, bool, bool) {
	var out []T
	changed := false
	for i, x := range xs {
		mapped, ok := fn(x)
		if !ok {
			return nil, false, false
		}
		typed, ok := mapped.(T)
		if !ok {
			// A child of the wrong shape cannot be spliced back.
			return nil, false, false
		}
		if tree.Node(typed) != tree.Node(x) && !changed {
			changed = true
			out = make([]T, len(xs))
			copy(out, xs[:i])
		}
		if changed {
			out[i] = typed
		}
	}
	if !changed {
		return xs, false, true
	}
	return out, true, true
}

// mapNode maps a single optional child.
func mapNode[T tree.Node](x T, fn func(tree.Node) (tree.Node, bool)) (T, bool, bool) {
	var zero T
	if tree.Node(x) == nil {
		return x, false, true
	}
	mapped, ok := fn(x)
	if !ok {
		return zero, false, false
	}
	typed, ok := mapped.(T)
	if !ok {
		return zero, false, false
	}
	return typed, tree.Node(typed) != tree.Node(x), true
}

// File is one parsed source file.
type File struct {
	span  source.Span
	Items []tree.Node
}

func NewFile(span source.Span, items []tree.Node) *File {
	return &File{span: span, Items: items}
}

func (f *File) Span() source.Span { return f.span }

func (f *File) Children() []tree.Node { return f.Items }

func (f *File) MapChildren(fn func(tree.Node) (tree.Node, bool)) (tree.Node, bool) {
	items, changed, ok := mapNodes(f.Items, fn)
	if !ok {
		return nil, false
	}
	if !changed {
		return f, true
	}
	return &File{span: f.span, Items: items}, true
}

// Attr is one @attribute modifier.
type Attr struct {
	span source.Span
	Name string
}

func NewAttr(span source.Span, name string) *Attr {
	return &Attr{span: span, Name: name}
}

func (a *Attr) Span() source.Span     { return a.span }
func (a *Attr) Children() []tree.Node { return nil }

func (a *Attr) MapChildren(func(tree.Node) (tree.Node, bool)) (tree.Node, bool) {
	return a, true
}

// Param is one function or constructor parameter, optionally typed.
type Param struct {
	span source.Span
	Name Name
	Type Name // zero value when untyped
}

func NewParam(span source.Span, name, typ Name) *Param {
	return &Param{span: span, Name: name, Type: typ}
}

func (p *Param) Span() source.Span     { return p.span }
func (p *Param) Children() []tree.Node { return nil }

func (p *Param) MapChildren(func(tree.Node) (tree.Node, bool)) (tree.Node, bool) {
	return p, true
}

// FnDecl is a function declaration. The body is either a single expression
// (written `= expr;`) or a *Block.
type FnDecl struct {
	span         source.Span
	Attrs        []*Attr
	Name         Name
	Params       []*Param
	ParamsSpan   source.Span // covers the parameter list, parens included when present
	ParamsParens bool        // literal parentheses present in source
	Ret          Name        // zero value when absent
	Body         tree.Node
	ref          entity.Ref
}

func NewFnDecl(span source.Span, attrs []*Attr, name Name, params []*Param, paramsSpan source.Span, parens bool, ret Name, body tree.Node, ref entity.Ref) *FnDecl {
	return &FnDecl{
		span:         span,
		Attrs:        attrs,
		Name:         name,
		Params:       params,
		ParamsSpan:   paramsSpan,
		ParamsParens: parens,
		Ret:          ret,
		Body:         body,
		ref:          ref,
	}
}

func (d *FnDecl) Span() source.Span { return d.span }

func (d *FnDecl) Children() []tree.Node {
	out := make([]tree.Node, 0, len(d.Attrs)+len(d.Params)+1)
	for _, a := range d.Attrs {
		out = append(out, a)
	}
	for _, p := range d.Params {
		out = append(out, p)
	}
	if d.Body != nil {
		out = append(out, d.Body)
	}
	return out
}

func (d *FnDecl) MapChildren(fn func(tree.Node) (tree.Node, bool)) (tree.Node, bool) {
	attrs, aChanged, ok := mapNodes(d.Attrs, fn)
	if !ok {
		return nil, false
	}
	params, pChanged, ok := mapNodes(d.Params, fn)
	if !ok {
		return nil, false
	}
	body, bChanged, ok := mapNode(d.Body, fn)
	if !ok {
		return nil, false
	}
	if !aChanged && !pChanged && !bChanged {
		return d, true
	}
	out := *d
	out.Attrs = attrs
	out.Params = params
	out.Body = body
	return &out, true
}

func (d *FnDecl) Entity() entity.Ref { return d.ref }
func (d *FnDecl) DeclName() string   { return d.Name.Text }

// WithName returns a copy declaring the same entity under a new name.
func (d *FnDecl) WithName(name Name) *FnDecl {
	out := *d
	out.Name = name
	return &out
}

// LetDecl is a value binding.
type LetDecl struct {
	span  source.Span
	Name  Name
	Value tree.Node
	ref   entity.Ref
}

func NewLetDecl(span source.Span, name Name, value tree.Node, ref entity.Ref) *LetDecl {
	return &LetDecl{span: span, Name: name, Value: value, ref: ref}
}

func (d *LetDecl) Span() source.Span { return d.span }

func (d *LetDecl) Children() []tree.Node {
	if d.Value == nil {
		return nil
	}
	return []tree.Node{d.Value}
}

func (d *LetDecl) MapChildren(fn func(tree.Node) (tree.Node, bool)) (tree.Node, bool) {
	value, changed, ok := mapNode(d.Value, fn)
	if !ok {
		return nil, false
	}
	if !changed {
		return d, true
	}
	out := *d
	out.Value = value
	return &out, true
}

func (d *LetDecl) Entity() entity.Ref { return d.ref }
func (d *LetDecl) DeclName() string   { return d.Name.Text }

// WithName returns a copy declaring the same entity under a new name.
func (d *LetDecl) WithName(name Name) *LetDecl {
	out := *d
	out.Name = name
	return &out
}

// TypeDecl is a type declaration with constructor parameters, an optional
// parent application, and body members.
type TypeDecl struct {
	span       source.Span
	Name       Name
	CtorParams []*Param
	CtorSpan   source.Span
	CtorParens bool
	Parent     *Call // optional parent-constructor application
	Members    []tree.Node
	ref        entity.Ref
}

func NewTypeDecl(span source.Span, name Name, ctorParams []*Param, ctorSpan source.Span, ctorParens bool, parent *Call, members []tree.Node, ref entity.Ref) *TypeDecl {
	return &TypeDecl{
		span:       span,
		Name:       name,
		CtorParams: ctorParams,
		CtorSpan:   ctorSpan,
		CtorParens: ctorParens,
		Parent:     parent,
		Members:    members,
		ref:        ref,
	}
}

func (d *TypeDecl) Span() source.Span { return d.span }

func (d *TypeDecl) Children() []tree.Node {
	out := make([]tree.Node, 0, len(d.CtorParams)+len(d.Members)+1)
	for _, p := range d.CtorParams {
		out = append(out, p)
	}
	if d.Parent != nil {
		out = append(out, d.Parent)
	}
	out = append(out, d.Members...)
	return out
}

func (d *TypeDecl) MapChildren(fn func(tree.Node) (tree.Node, bool)) (tree.Node, bool) {
	params, pChanged, ok := mapNodes(d.CtorParams, fn)
	if !ok {
		return nil, false
	}
	parent := d.Parent
	parChanged := false
	if d.Parent != nil {
		parent, parChanged, ok = mapNode(d.Parent, fn)
		if !ok {
			return nil, false
		}
	}
	members, mChanged, ok := mapNodes(d.Members, fn)
	if !ok {
		return nil, false
	}
	if !pChanged && !parChanged && !mChanged {
		return d, true
	}
	out := *d
	out.CtorParams = params
	out.Parent = parent
	out.Members = members
	return &out, true
}

func (d *TypeDecl) Entity() entity.Ref { return d.ref }
func (d *TypeDecl) DeclName() string   { return d.Name.Text }

// WithName returns a copy declaring the same entity under a new name.
func (d *TypeDecl) WithName(name Name) *TypeDecl {
	out := *d
	out.Name = name
	return &out
}

// Ident is a name reference in expression position.
type Ident struct {
	span source.Span
	Name string
}

func NewIdent(span source.Span, name string) *Ident {
	return &Ident{span: span, Name: name}
}

func (e *Ident) Span() source.Span     { return e.span }
func (e *Ident) Children() []tree.Node { return nil }

func (e *Ident) MapChildren(func(tree.Node) (tree.Node, bool)) (tree.Node, bool) {
	return e, true
}

// IntLit is an integer literal; Text preserves the written form.
type IntLit struct {
	span source.Span
	Text string
}

func NewIntLit(span source.Span, text string) *IntLit {
	return &IntLit{span: span, Text: text}
}

func (e *IntLit) Span() source.Span     { return e.span }
func (e *IntLit) Children() []tree.Node { return nil }

func (e *IntLit) MapChildren(func(tree.Node) (tree.Node, bool)) (tree.Node, bool) {
	return e, true
}

// StringLit is a string literal; Text includes the quotes as written.
type StringLit struct {
	span source.Span
	Text string
}

func NewStringLit(span source.Span, text string) *StringLit {
	return &StringLit{span: span, Text: text}
}

func (e *StringLit) Span() source.Span     { return e.span }
func (e *StringLit) Children() []tree.Node { return nil }

func (e *StringLit) MapChildren(func(tree.Node) (tree.Node, bool)) (tree.Node, bool) {
	return e, true
}

// List is a bracketed sequence literal.
type List struct {
	span  source.Span
	Elems []tree.Node
}

func NewList(span source.Span, elems []tree.Node) *List {
	return &List{span: span, Elems: elems}
}

func (e *List) Span() source.Span     { return e.span }
func (e *List) Children() []tree.Node { return e.Elems }

func (e *List) MapChildren(fn func(tree.Node) (tree.Node, bool)) (tree.Node, bool) {
	elems, changed, ok := mapNodes(e.Elems, fn)
	if !ok {
		return nil, false
	}
	if !changed {
		return e, true
	}
	return &List{span: e.span, Elems: elems}, true
}

// WithElems returns a copy of the list carrying the same span.
func (e *List) WithElems(elems []tree.Node) *List {
	return &List{span: e.span, Elems: elems}
}

// Call is a function or constructor application.
type Call struct {
	span     source.Span
	Fun      tree.Node
	Args     []tree.Node
	ArgsSpan source.Span // covers the argument list, parens included
}

func NewCall(span source.Span, fun tree.Node, args []tree.Node, argsSpan source.Span) *Call {
	return &Call{span: span, Fun: fun, Args: args, ArgsSpan: argsSpan}
}

func (e *Call) Span() source.Span { return e.span }

func (e *Call) Children() []tree.Node {
	out := make([]tree.Node, 0, len(e.Args)+1)
	if e.Fun != nil {
		out = append(out, e.Fun)
	}
	out = append(out, e.Args...)
	return out
}

func (e *Call) MapChildren(fn func(tree.Node) (tree.Node, bool)) (tree.Node, bool) {
	fun, fChanged, ok := mapNode(e.Fun, fn)
	if !ok {
		return nil, false
	}
	args, aChanged, ok := mapNodes(e.Args, fn)
	if !ok {
		return nil, false
	}
	if !fChanged && !aChanged {
		return e, true
	}
	out := *e
	out.Fun = fun
	out.Args = args
	return &out, true
}

// Binary is an infix operation.
type Binary struct {
	span   source.Span
	Op     token.Kind
	OpText string
	OpSpan source.Span
	Left   tree.Node
	Right  tree.Node
}

func NewBinary(span source.Span, op token.Kind, opText string, opSpan source.Span, left, right tree.Node) *Binary {
	return &Binary{span: span, Op: op, OpText: opText, OpSpan: opSpan, Left: left, Right: right}
}

func (e *Binary) Span() source.Span { return e.span }

func (e *Binary) Children() []tree.Node {
	return []tree.Node{e.Left, e.Right}
}

func (e *Binary) MapChildren(fn func(tree.Node) (tree.Node, bool)) (tree.Node, bool) {
	left, lChanged, ok := mapNode(e.Left, fn)
	if !ok {
		return nil, false
	}
	right, rChanged, ok := mapNode(e.Right, fn)
	if !ok {
		return nil, false
	}
	if !lChanged && !rChanged {
		return e, true
	}
	out := *e
	out.Left = left
	out.Right = right
	return &out, true
}

// Select is a member selection on a receiver.
type Select struct {
	span source.Span
	Recv tree.Node
	Sel  Name
}

func NewSelect(span source.Span, recv tree.Node, sel Name) *Select {
	return &Select{span: span, Recv: recv, Sel: sel}
}

func (e *Select) Span() source.Span { return e.span }

func (e *Select) Children() []tree.Node {
	return []tree.Node{e.Recv}
}

func (e *Select) MapChildren(fn func(tree.Node) (tree.Node, bool)) (tree.Node, bool) {
	recv, changed, ok := mapNode(e.Recv, fn)
	if !ok {
		return nil, false
	}
	if !changed {
		return e, true
	}
	out := *e
	out.Recv = recv
	return &out, true
}

// Block is a braced statement sequence.
type Block struct {
	span  source.Span
	Stmts []tree.Node
}

func NewBlock(span source.Span, stmts []tree.Node) *Block {
	return &Block{span: span, Stmts: stmts}
}

func (e *Block) Span() source.Span     { return e.span }
func (e *Block) Children() []tree.Node { return e.Stmts }

func (e *Block) MapChildren(fn func(tree.Node) (tree.Node, bool)) (tree.Node, bool) {
	stmts, changed, ok := mapNodes(e.Stmts, fn)
	if !ok {
		return nil, false
	}
	if !changed {
		return e, true
	}
	return &Block{span: e.span, Stmts: stmts}, true
}

var (
	_ tree.Decl = (*FnDecl)(nil)
	_ tree.Decl = (*LetDecl)(nil)
	_ tree.Decl = (*TypeDecl)(nil)
	_ tree.Node = (*File)(nil)
	_ tree.Node = (*Select)(nil)
)

package partition

import (
	"reweave/internal/fragment"
	"reweave/internal/source"
	"reweave/internal/tree"
)

// Visit is one unit of work for the handler chain: a node seen under a
// particular role.
type Visit struct {
	Node tree.Node
	Role Role
}

// Next forwards a visit to the remainder of the handler chain. A handler
// that does not fully consume a visit calls next so later handlers get a
// chance; a handler that produced all fragments for the visit simply
// returns without calling it.
type Next func(v Visit)

// Handler contributes fragments for a subset of node types and roles.
type Handler interface {
	Contribute(ctx *Context, v Visit, next Next)
}

// Context owns the traversal state: the open scope stack and the set of
// before-requisites waiting for the next emitted fragment. Handlers never
// touch fragments directly once emitted; all mutation funnels through the
// context so ordering stays walk-linear.
type Context struct {
	file     *source.File
	handlers []Handler

	stack   []*fragment.Scope
	root    *fragment.Scope
	pending []fragment.Requisite
}

// Partition walks root and builds the fragment tree for it. The handler
// chain is consulted in order for every visited node; the default chain
// (see Handlers) understands the full surface syntax and falls back to a
// structural descent for anything it does not recognize.
func Partition(file *source.File, root tree.Node, handlers []Handler) *fragment.Scope {
	ctx := &Context{file: file, handlers: handlers}
	ctx.Visit(root, RoleItself)
	if ctx.root == nil {
		// Root produced nothing visible; synthesize an empty file scope
		// so callers always get a tree.
		ctx.root = fragment.NewScope(root.Span(), root)
	}
	if len(ctx.pending) > 0 {
		// Trailing requisites with no fragment left to carry them attach
		// to the far side of the whole partition.
		ctx.root.RequireAfter(ctx.pending...)
		ctx.pending = nil
	}
	return ctx.root
}

// File reports the source file being partitioned.
func (ctx *Context) File() *source.File { return ctx.file }

// Visit dispatches a node through the handler chain. Nodes whose span is
// neither a source range nor synthetic are skipped entirely: they are not
// descended into and contribute nothing.
func (ctx *Context) Visit(n tree.Node, role Role) {
	if n == nil || !n.Span().IsLayoutRelevant() {
		return
	}
	ctx.run(0, Visit{Node: n, Role: role})
}

func (ctx *Context) run(i int, v Visit) {
	if i >= len(ctx.handlers) {
		return
	}
	ctx.handlers[i].Contribute(ctx, v, func(v Visit) { ctx.run(i + 1, v) })
}

// Emit appends a completed fragment to the current scope. Any pending
// before-requisites are flushed onto it first.
func (ctx *Context) Emit(f fragment.Fragment) {
	ctx.flushPending(f)
	if top := ctx.top(); top != nil {
		top.Append(f)
	}
}

// RequireBefore records requisites that will attach to the before side of
// the next emitted fragment. Repeated calls before the next emission
// accumulate into the same pending set.
func (ctx *Context) RequireBefore(reqs ...fragment.Requisite) {
	ctx.pending = append(ctx.pending, reqs...)
}

// RequireAfter attaches requisites to the after side of the most recently
// emitted fragment in the current scope. If the scope has no children yet
// the requisites downgrade to pending before-requisites, so they still
// land next to the position the caller meant.
func (ctx *Context) RequireAfter(reqs ...fragment.Requisite) {
	if top := ctx.top(); top != nil {
		if last := top.Last(); last != nil {
			last.Anchor().RequireAfter(reqs...)
			return
		}
	}
	ctx.pending = append(ctx.pending, reqs...)
}

// OpenScope starts a nested scope covering sp. When the current scope
// already covers exactly the same span the existing scope is reused
// instead of stacking a duplicate; the caller still pairs the call with
// CloseScope either way.
func (ctx *Context) OpenScope(sp source.Span, n tree.Node) *fragment.Scope {
	if top := ctx.top(); top != nil && top.SpanAt == sp {
		top.Coincident++
		return top
	}
	sc := fragment.NewScope(sp, n)
	sc.Indent = ctx.scopeIndent(sp)
	ctx.flushPending(sc)
	if top := ctx.top(); top != nil {
		top.Append(sc)
	}
	ctx.stack = append(ctx.stack, sc)
	if ctx.root == nil {
		ctx.root = sc
	}
	return sc
}

// CloseScope ends the innermost open scope.
func (ctx *Context) CloseScope() {
	top := ctx.top()
	if top == nil {
		return
	}
	if top.Coincident > 0 {
		top.Coincident--
		return
	}
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
}

func (ctx *Context) top() *fragment.Scope {
	if len(ctx.stack) == 0 {
		return nil
	}
	return ctx.stack[len(ctx.stack)-1]
}

func (ctx *Context) flushPending(f fragment.Fragment) {
	if len(ctx.pending) == 0 {
		return
	}
	f.Anchor().RequireBefore(ctx.pending...)
	ctx.pending = nil
}

func (ctx *Context) scopeIndent(sp source.Span) int {
	parent := 0
	if top := ctx.top(); top != nil {
		parent = top.Indent
	}
	if sp.IsSynthetic() {
		return parent + indentStep
	}
	return measureIndent(ctx.file, sp.Start, parent)
}

package partition

import (
	"reweave/internal/fragment"
	"reweave/internal/source"
	"reweave/internal/syntax"
	"reweave/internal/tree"
)

// Handlers returns the default contribution chain for weave syntax:
// declarations first, then expressions, then a structural fallback that
// descends into anything the first two do not recognize.
func Handlers() []Handler {
	return []Handler{declHandler{}, exprHandler{}, fallbackHandler{}}
}

var (
	reqComma  = fragment.Req(",")
	reqColon  = fragment.Requisite{Match: ":", Write: ": "}
	reqArrow  = fragment.Requisite{Match: "->", Write: " -> "}
	reqEquals = fragment.Requisite{Match: "=", Write: " = "}
	reqSemi   = fragment.Req(";")
)

// declHandler contributes fragments for file and declaration nodes.
type declHandler struct{}

func (declHandler) Contribute(ctx *Context, v Visit, next Next) {
	switch n := v.Node.(type) {
	case *syntax.File:
		ctx.OpenScope(n.Span(), n)
		for _, item := range n.Items {
			ctx.Visit(item, RoleItself)
		}
		ctx.CloseScope()

	case *syntax.FnDecl:
		switch v.Role {
		case RoleItself:
			openDeclScope(ctx, n.Span())
			ctx.Visit(n, RoleModifiers)
			ctx.Visit(n, RoleName)
			ctx.Visit(n, RoleParams)
			ctx.Visit(n, RoleReturnType)
			ctx.Visit(n, RoleBody)
			ctx.CloseScope()
		case RoleModifiers:
			for _, attr := range n.Attrs {
				ctx.Visit(attr, RoleItself)
			}
		case RoleName:
			// The keyword rides as a requisite on the name leaf: its
			// preceding layout always carries "fn" when the declaration
			// came from source, so only synthesized declarations write it.
			ctx.RequireBefore(fragment.Requisite{Match: "fn", Write: "fn "})
			ctx.Emit(&fragment.SourceLeaf{SpanAt: n.Name.Span, Node: n, Text: n.Name.Text})
		case RoleParams:
			contributeParams(ctx, n.Params, n.ParamsSpan, n.ParamsParens)
		case RoleReturnType:
			if n.Ret.Text != "" {
				ctx.RequireBefore(reqArrow)
				ctx.Emit(&fragment.SourceLeaf{SpanAt: n.Ret.Span, Text: n.Ret.Text})
			}
		case RoleBody:
			contributeBody(ctx, n.Body)
		}

	case *syntax.LetDecl:
		openDeclScope(ctx, n.Span())
		ctx.RequireBefore(fragment.Requisite{Match: "let", Write: "let "})
		ctx.Emit(&fragment.SourceLeaf{SpanAt: n.Name.Span, Node: n, Text: n.Name.Text})
		ctx.RequireBefore(reqEquals)
		ctx.Visit(n.Value, RoleItself)
		ctx.RequireAfter(reqSemi)
		ctx.CloseScope()

	case *syntax.TypeDecl:
		switch v.Role {
		case RoleItself:
			openDeclScope(ctx, n.Span())
			ctx.RequireBefore(fragment.Requisite{Match: "type", Write: "type "})
			ctx.Emit(&fragment.SourceLeaf{SpanAt: n.Name.Span, Node: n, Text: n.Name.Text})
			ctx.Visit(n, RoleCtorParams)
			ctx.Visit(n, RoleParentApply)
			ctx.Visit(n, RoleMembers)
			ctx.CloseScope()
		case RoleCtorParams:
			contributeParams(ctx, n.CtorParams, n.CtorSpan, n.CtorParens)
		case RoleParentApply:
			if n.Parent != nil {
				ctx.RequireBefore(reqColon)
				ctx.Visit(n.Parent, RoleItself)
			}
		case RoleMembers:
			for _, m := range n.Members {
				ctx.Visit(m, RoleItself)
			}
		}

	case *syntax.Attr:
		f := &fragment.FlagLeaf{SpanAt: n.Span(), Text: "@" + n.Name, Node: n}
		if n.Span().IsSynthetic() {
			f.RequireAfter(fragment.Requisite{Match: " ", Write: " "})
		}
		ctx.Emit(f)

	case *syntax.Param:
		ctx.Emit(&fragment.SourceLeaf{SpanAt: n.Name.Span, Node: n, Text: n.Name.Text})
		if n.Type.Text != "" {
			ctx.RequireBefore(reqColon)
			ctx.Emit(&fragment.SourceLeaf{SpanAt: n.Type.Span, Text: n.Type.Text})
		}

	default:
		next(v)
	}
}

// openDeclScope starts a declaration's scope. Declarations synthesized by
// a rewrite additionally require a line break before them, so insertions
// between existing items never glue onto the previous line; declarations
// from source find the break in their surrounding layout.
func openDeclScope(ctx *Context, sp source.Span) *fragment.Scope {
	sc := ctx.OpenScope(sp, nil)
	if sc.Synthetic() {
		sc.RequireBefore(fragment.Req("\n"))
	}
	return sc
}

// contributeParams emits a parameter list scope. Surrounding-parenthesis
// requisites are attached only when the original source has no literal
// parentheses around the list; lists that came from parenthesized source
// carry their delimiters in layout. Declarations with neither parameters
// nor parentheses contribute nothing here.
func contributeParams(ctx *Context, params []*syntax.Param, span source.Span, parens bool) {
	if len(params) == 0 && !parens {
		return
	}
	sc := ctx.OpenScope(span, nil)
	if !parens {
		sc.RequireBefore(fragment.Req("("))
		sc.RequireAfter(fragment.Req(")"))
	}
	for i, p := range params {
		if i > 0 {
			ctx.RequireBefore(reqComma)
		}
		ctx.Visit(p, RoleItself)
	}
	ctx.CloseScope()
}

func contributeBody(ctx *Context, body tree.Node) {
	if body == nil {
		return
	}
	if blk, ok := body.(*syntax.Block); ok {
		ctx.Visit(blk, RoleItself)
		return
	}
	ctx.RequireBefore(reqEquals)
	ctx.Visit(body, RoleItself)
	ctx.RequireAfter(reqSemi)
}

// exprHandler contributes fragments for expression nodes.
type exprHandler struct{}

func (exprHandler) Contribute(ctx *Context, v Visit, next Next) {
	switch n := v.Node.(type) {
	case *syntax.Ident:
		ctx.Emit(&fragment.SourceLeaf{SpanAt: n.Span(), Node: n, Text: n.Name})

	case *syntax.IntLit:
		ctx.Emit(&fragment.SourceLeaf{SpanAt: n.Span(), Node: n, Text: n.Text})

	case *syntax.StringLit:
		ctx.Emit(&fragment.SourceLeaf{SpanAt: n.Span(), Node: n, Text: n.Text})

	case *syntax.List:
		sc := ctx.OpenScope(n.Span(), n)
		if sc.Synthetic() {
			sc.RequireBefore(fragment.Req("["))
			sc.RequireAfter(fragment.Req("]"))
		}
		for i, el := range n.Elems {
			if i > 0 {
				ctx.RequireBefore(reqComma)
			}
			ctx.Visit(el, RoleItself)
		}
		ctx.CloseScope()

	case *syntax.Call:
		ctx.OpenScope(n.Span(), n)
		ctx.Visit(n.Fun, RoleItself)
		// A bare application has no argument list in source and renders
		// without one; everything else gets an argument scope, with
		// parenthesis requisites when the list is synthesized.
		if len(n.Args) > 0 || !n.ArgsSpan.IsSynthetic() {
			args := ctx.OpenScope(n.ArgsSpan, nil)
			if args.Synthetic() {
				args.RequireBefore(fragment.Req("("))
				args.RequireAfter(fragment.Req(")"))
			}
			for i, a := range n.Args {
				if i > 0 {
					ctx.RequireBefore(reqComma)
				}
				ctx.Visit(a, RoleItself)
			}
			ctx.CloseScope()
		}
		ctx.CloseScope()

	case *syntax.Binary:
		ctx.OpenScope(n.Span(), n)
		ctx.Visit(n.Left, RoleItself)
		op := &fragment.SourceLeaf{SpanAt: n.OpSpan, Text: n.OpText}
		if n.OpSpan.IsSynthetic() {
			op.RequireBefore(fragment.Requisite{Match: " ", Write: " "})
			op.RequireAfter(fragment.Requisite{Match: " ", Write: " "})
		}
		ctx.Emit(op)
		ctx.Visit(n.Right, RoleItself)
		ctx.CloseScope()

	case *syntax.Select:
		ctx.OpenScope(n.Span(), nil)
		ctx.Visit(n.Recv, RoleItself)
		sel := clipSelection(ctx, n)
		ctx.Emit(&fragment.SourceLeaf{SpanAt: sel, Node: n, Text: n.Sel.Text})
		ctx.CloseScope()

	case *syntax.Block:
		sc := ctx.OpenScope(n.Span(), n)
		if sc.Synthetic() {
			sc.RequireBefore(fragment.Requisite{Match: "{", Write: "{ "})
			sc.RequireAfter(fragment.Requisite{Match: "}", Write: " }"})
		}
		for _, st := range n.Stmts {
			ctx.Visit(st, RoleItself)
			if _, isDecl := st.(tree.Decl); !isDecl {
				// Declarations terminate themselves; bare expression
				// statements need the terminator anchored here.
				ctx.RequireAfter(fragment.Requisite{Match: ";", Write: "; "})
			}
		}
		ctx.CloseScope()

	default:
		next(v)
	}
}

// fallbackHandler descends structurally into nodes no earlier handler
// recognized so their visible descendants still reach the tree.
type fallbackHandler struct{}

func (fallbackHandler) Contribute(ctx *Context, v Visit, next Next) {
	for _, child := range v.Node.Children() {
		ctx.Visit(child, RoleItself)
	}
}

// Package refactor provides ready-made source transformations built on the
// rewrite combinators: renaming, list element replacement, and declaration
// name case normalization. Every transform preserves the spans of nodes it
// replaces so regeneration keeps the surrounding layout intact.
package refactor

import (
	"reweave/internal/rewrite"
	"reweave/internal/syntax"
	"reweave/internal/tree"
)

// Rename returns a transform that renames every declaration and identifier
// reference whose name is from. Replacement nodes keep the original name's
// span, so the new name lands exactly where the old one was. The transform
// always succeeds; trees without a matching name come back unchanged with
// their node identities intact.
func Rename(from, to string) rewrite.Transform[tree.Node] {
	step := rewrite.From(func(n tree.Node) (tree.Node, bool) {
		switch n := n.(type) {
		case *syntax.Ident:
			if n.Name == from {
				return syntax.NewIdent(n.Span(), to), true
			}
		case *syntax.FnDecl:
			if n.Name.Text == from {
				return n.WithName(syntax.Name{Text: to, Span: n.Name.Span}), true
			}
		case *syntax.LetDecl:
			if n.Name.Text == from {
				return n.WithName(syntax.Name{Text: to, Span: n.Name.Span}), true
			}
		case *syntax.TypeDecl:
			if n.Name.Text == from {
				return n.WithName(syntax.Name{Text: to, Span: n.Name.Span}), true
			}
		case *syntax.Param:
			if n.Name.Text == from {
				return syntax.NewParam(n.Span(), syntax.Name{Text: to, Span: n.Name.Span}, n.Type), true
			}
		}
		return nil, false
	})
	return rewrite.TopDown(step.OrElse(rewrite.Succeed[tree.Node]()))
}

package refactor

import (
	"strings"

	"reweave/internal/rewrite"
	"reweave/internal/source"
	"reweave/internal/syntax"
	"reweave/internal/tree"
)

// ReplaceListElement returns a transform that rewrites list literals,
// replacing every element whose written form equals from with the given
// replacement elements. One match may expand into several elements. The
// first replacement inherits the matched element's span; the rest are
// synthesized at its end, so separators materialize from requisites while
// all untouched elements keep their original layout. Lists without a match
// come back unchanged, node identity included.
func ReplaceListElement(from string, to []string) rewrite.Transform[tree.Node] {
	step := rewrite.From(func(n tree.Node) (tree.Node, bool) {
		list, ok := n.(*syntax.List)
		if !ok {
			return nil, false
		}
		out := make([]tree.Node, 0, len(list.Elems)+len(to))
		hit := false
		for _, el := range list.Elems {
			if ElementText(el) != from {
				out = append(out, el)
				continue
			}
			hit = true
			out = append(out, spliceElements(el.Span(), to)...)
		}
		if !hit {
			return n, true
		}
		return list.WithElems(out), true
	})
	return rewrite.TopDown(step.OrElse(rewrite.Succeed[tree.Node]()))
}

// ElementText reports the written form of a leaf element, or "" for
// elements that are not literals or identifiers.
func ElementText(n tree.Node) string {
	switch n := n.(type) {
	case *syntax.IntLit:
		return n.Text
	case *syntax.StringLit:
		return n.Text
	case *syntax.Ident:
		return n.Name
	}
	return ""
}

func spliceElements(old source.Span, texts []string) []tree.Node {
	out := make([]tree.Node, 0, len(texts))
	for i, text := range texts {
		sp := old
		if i > 0 || !old.IsRange() {
			sp = source.NewSynthetic(old.File, old.End)
		}
		out = append(out, newElement(sp, text))
	}
	return out
}

// newElement builds a leaf node for a written element value.
func newElement(sp source.Span, text string) tree.Node {
	if text == "" {
		return syntax.NewIdent(sp, text)
	}
	if strings.HasPrefix(text, `"`) {
		return syntax.NewStringLit(sp, text)
	}
	digits := true
	for _, r := range text {
		if r < '0' || r > '9' {
			digits = false
			break
		}
	}
	if digits {
		return syntax.NewIntLit(sp, text)
	}
	return syntax.NewIdent(sp, text)
}

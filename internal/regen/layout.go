// Package regen turns a fragment tree back into source text. Regeneration
// runs in two steps: layout fill copies the fragment tree and inserts
// layout leaves for the original text between adjacent fragments, then
// render folds the filled tree into a string, emitting original text for
// untouched regions and printed text plus materialized requisites for
// everything else.
package regen

import (
	"reweave/internal/fragment"
	"reweave/internal/source"
)

// FillLayout copies the fragment tree, inserting a layout leaf for every
// non-degenerate gap between consecutive source positions: before the first
// child of a scope, between siblings, and after the last child. Gap extents
// follow a cursor over range spans, so synthetic fragments in the middle of
// a scope do not lose the text that follows them.
func FillLayout(s *fragment.Scope, file *source.File) *fragment.Scope {
	out := &fragment.Scope{
		Anchors: s.Anchors,
		SpanAt:  s.SpanAt,
		Indent:  s.Indent,
		Node:    s.Node,
	}

	cursor := s.SpanAt.Start
	tracking := s.SpanAt.IsRange()

	for _, child := range s.Children {
		sp := child.Span()
		if tracking && sp.IsRange() && sp.Start > cursor {
			out.Append(layoutLeaf(file, sp.File, cursor, sp.Start))
		}
		if sub, ok := child.(*fragment.Scope); ok {
			out.Append(FillLayout(sub, file))
		} else {
			out.Append(child)
		}
		if sp.IsRange() && (!tracking || sp.End > cursor) {
			cursor = sp.End
		}
	}

	if tracking && cursor < s.SpanAt.End {
		out.Append(layoutLeaf(file, s.SpanAt.File, cursor, s.SpanAt.End))
	}
	return out
}

func layoutLeaf(file *source.File, id source.FileID, start, end uint32) *fragment.LayoutLeaf {
	sp := source.NewRange(id, start, end)
	return &fragment.LayoutLeaf{SpanAt: sp, Text: file.Text(sp)}
}

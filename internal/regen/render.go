package regen

import (
	"strings"

	"reweave/internal/diag"
	"reweave/internal/fragment"
	"reweave/internal/partition"
	"reweave/internal/source"
	"reweave/internal/tree"
)

// Render produces the text of the edited tree while preserving the layout
// of everything the edit did not touch. The original fragment tree supplies
// the set of known node tags; the edited tree is partitioned afresh, layout
// is filled in from file, and the fold below decides leaf by leaf whether
// to copy original bytes or print replacement text.
func Render(orig *fragment.Scope, edited tree.Node, file *source.File, bag *diag.Bag) string {
	tags := fragment.CollectTags(orig)
	part := partition.Partition(file, edited, partition.Handlers())
	filled := FillLayout(part, file)
	r := renderer{file: file, tags: tags, bag: bag}
	return r.scope(filled)
}

// RenderPartitioned is Render for callers that already hold the edited
// tree's filled fragment tree, such as tests exercising fill and fold
// separately.
func RenderPartitioned(orig, filled *fragment.Scope, file *source.File, bag *diag.Bag) string {
	r := renderer{file: file, tags: fragment.CollectTags(orig), bag: bag}
	return r.scope(filled)
}

type renderer struct {
	file *source.File
	tags map[any]fragment.Fragment
	bag  *diag.Bag
}

func (r *renderer) scope(s *fragment.Scope) string {
	var b strings.Builder
	for i, child := range s.Children {
		if ll, ok := child.(*fragment.LayoutLeaf); ok {
			b.WriteString(ll.Text)
			continue
		}
		content := r.fragment(child)
		before := neighborLayout(s.Children, i, -1) + leadingLayout(child)
		after := trailingLayout(child) + neighborLayout(s.Children, i, +1)
		b.WriteString(materialize(child.Anchor().Before, before))
		b.WriteString(content)
		b.WriteString(materialize(child.Anchor().After, after))
	}
	return b.String()
}

func (r *renderer) fragment(f fragment.Fragment) string {
	switch f := f.(type) {
	case *fragment.Scope:
		content := r.scope(f)
		if f.Synthetic() {
			content = reindent(content, f.Indent)
		}
		return content
	case *fragment.SourceLeaf:
		return r.leafText(f.SpanAt, f.Node, f.Text)
	case *fragment.FlagLeaf:
		return r.leafText(f.SpanAt, f.Node, f.Text)
	case *fragment.LayoutLeaf:
		return f.Text
	}
	return ""
}

// leafText picks between original source bytes and printed text. Original
// bytes win whenever the leaf's node was part of the original tree and the
// span still addresses real text; everything rebuilt or synthesized falls
// back to the printed form.
func (r *renderer) leafText(sp source.Span, node tree.Node, printed string) string {
	known := node == nil || r.tags[node] != nil
	if sp.IsRange() && known {
		if text := r.file.Text(sp); text != "" || sp.Empty() {
			return text
		}
		if r.bag != nil {
			r.bag.Add(diag.NewError(diag.RegenRoundTripMismatch, sp,
				"source text unavailable for fragment"))
		}
		return printed
	}
	return printed
}

// materialize applies requisites against the layout actually adjacent to a
// fragment. A requisite whose match text is already present in the adjacent
// layout, or was written by an earlier requisite at the same anchor, writes
// nothing; application is idempotent.
func materialize(reqs []fragment.Requisite, adjacent string) string {
	if len(reqs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, req := range reqs {
		if req.Match != "" && strings.Contains(adjacent, req.Match) {
			continue
		}
		if req.Match != "" && strings.Contains(b.String(), req.Match) {
			continue
		}
		b.WriteString(req.Write)
	}
	return b.String()
}

// neighborLayout returns the text of the layout leaf directly next to
// child i in the given direction, or "".
func neighborLayout(children []fragment.Fragment, i, dir int) string {
	j := i + dir
	if j < 0 || j >= len(children) {
		return ""
	}
	if ll, ok := children[j].(*fragment.LayoutLeaf); ok {
		return ll.Text
	}
	return ""
}

// leadingLayout returns the layout text at the very start of a scope
// fragment; for a declaration scope this is where its keyword lives.
func leadingLayout(f fragment.Fragment) string {
	s, ok := f.(*fragment.Scope)
	if !ok || len(s.Children) == 0 {
		return ""
	}
	if ll, ok := s.Children[0].(*fragment.LayoutLeaf); ok {
		return ll.Text
	}
	return ""
}

func trailingLayout(f fragment.Fragment) string {
	s, ok := f.(*fragment.Scope)
	if !ok || len(s.Children) == 0 {
		return ""
	}
	if ll, ok := s.Children[len(s.Children)-1].(*fragment.LayoutLeaf); ok {
		return ll.Text
	}
	return ""
}

// reindent shifts the continuation lines of synthesized multi-line content
// to the scope's indentation column.
func reindent(s string, width int) string {
	if width <= 0 || !strings.Contains(s, "\n") {
		return s
	}
	pad := strings.Repeat(" ", width)
	return strings.ReplaceAll(s, "\n", "\n"+pad)
}

package fragment

import (
	"fmt"
)

// Validate runs the structural invariants on a fragment tree:
// sibling spans are strictly source-ordered and non-overlapping, and every
// child's range span is contained in its parent scope's span.
func Validate(s *Scope) error {
	if s == nil {
		return fmt.Errorf("nil scope")
	}
	var prevEnd uint32
	var havePrev bool

	for i, child := range s.Children {
		sp := child.Span()
		if !sp.IsLayoutRelevant() {
			return fmt.Errorf("child %d carries a transparent span %v", i, sp)
		}
		if sp.IsRange() {
			if !s.SpanAt.IsSynthetic() && !s.SpanAt.Contains(sp) {
				return fmt.Errorf("child %d span %v escapes scope span %v", i, sp, s.SpanAt)
			}
			if havePrev && sp.Start < prevEnd {
				return fmt.Errorf("child %d span %v overlaps previous sibling ending at %d", i, sp, prevEnd)
			}
			prevEnd = sp.End
			havePrev = true
		}
		if sub, ok := child.(*Scope); ok {
			if err := Validate(sub); err != nil {
				return fmt.Errorf("scope %v: %w", sub.SpanAt, err)
			}
		}
	}
	return nil
}

// CollectTags walks the tree and returns every node-tagged fragment keyed by
// its node. Each syntax node with a real span is represented by exactly one
// tagged fragment per partition pass.
func CollectTags(s *Scope) map[any]Fragment {
	tags := make(map[any]Fragment)
	collectTags(s, tags)
	return tags
}

func collectTags(s *Scope, tags map[any]Fragment) {
	if s.Node != nil {
		tags[s.Node] = s
	}
	for _, child := range s.Children {
		switch f := child.(type) {
		case *Scope:
			collectTags(f, tags)
		case *SourceLeaf:
			if f.Node != nil {
				tags[f.Node] = f
			}
		case *FlagLeaf:
			if f.Node != nil {
				tags[f.Node] = f
			}
		}
	}
}

// Package testkit holds structural checks shared by parser and partition
// tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"reweave/internal/source"
	"reweave/internal/tree"
)

// CheckSpanInvariants walks a parsed tree and verifies its spans:
// 1) every range span is within the file's content bounds and non-reversed
// 2) every range span points at the checked file
// 3) a range child is contained in its closest range ancestor
func CheckSpanInvariants(root tree.Node, sf *source.File) error {
	if root == nil || sf == nil {
		return fmt.Errorf("nil root or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	return checkNode(root, sf, lenContent, source.Span{})
}

func checkNode(n tree.Node, sf *source.File, lenContent uint32, enclosing source.Span) error {
	sp := n.Span()
	if sp.IsRange() {
		if sp.End < sp.Start {
			return fmt.Errorf("reversed span: %v", sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("span file mismatch: got=%d want=%d", sp.File, sf.ID)
		}
		if sp.End > lenContent {
			return fmt.Errorf("span end beyond content: %d > %d", sp.End, lenContent)
		}
		if enclosing.IsRange() && !enclosing.Contains(sp) {
			return fmt.Errorf("child span %v outside enclosing span %v", sp, enclosing)
		}
		enclosing = sp
	}
	for _, child := range n.Children() {
		if child == nil {
			return fmt.Errorf("nil child under span %v", sp)
		}
		if err := checkNode(child, sf, lenContent, enclosing); err != nil {
			return err
		}
	}
	return nil
}

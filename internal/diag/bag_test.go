package diag

import (
	"testing"

	"reweave/internal/source"
)

func TestBagCapAndErrors(t *testing.T) {
	b := NewBag(2)
	if !b.Add(NewWarning(SynInfo, source.Span{}, "w")) {
		t.Fatal("first add must succeed")
	}
	if !b.Add(NewError(SynUnexpectedToken, source.Span{}, "e")) {
		t.Fatal("second add must succeed")
	}
	if b.Add(NewError(SynExpectExpression, source.Span{}, "over cap")) {
		t.Fatal("add past cap must be rejected")
	}
	if b.Len() != 2 {
		t.Fatalf("len = %d, want 2", b.Len())
	}
	if !b.HasErrors() {
		t.Fatal("bag contains an error")
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(8)
	b.Add(NewError(SynUnexpectedToken, source.NewRange(0, 10, 12), "later"))
	b.Add(NewError(SynExpectIdentifier, source.NewRange(0, 2, 4), "earlier"))
	b.Add(NewError(SynUnexpectedToken, source.NewRange(0, 10, 12), "later again"))

	b.Sort()
	b.Dedup()

	items := b.Items()
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2 after dedup", len(items))
	}
	if items[0].Primary.Start != 2 || items[1].Primary.Start != 10 {
		t.Fatalf("unexpected order: %v", items)
	}
}

func TestBagMergeGrowsCap(t *testing.T) {
	a := NewBag(1)
	a.Add(NewError(SynUnexpectedToken, source.Span{}, "a"))
	b := NewBag(1)
	b.Add(NewError(SynExpectIdentifier, source.Span{}, "b"))

	a.Merge(b)
	if a.Len() != 2 {
		t.Fatalf("len = %d, want 2", a.Len())
	}
}

func TestCodeID(t *testing.T) {
	if got := SynExpectExpression.ID(); got != "RW2003" {
		t.Fatalf("ID = %q, want RW2003", got)
	}
}

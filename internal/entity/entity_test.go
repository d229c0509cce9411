package entity

import "testing"

func TestDeclareDistinctRefs(t *testing.T) {
	tbl := NewTable()
	a := tbl.Declare("x")
	b := tbl.Declare("x")

	if !a.IsValid() || !b.IsValid() {
		t.Fatal("declared refs must be valid")
	}
	if a == b {
		t.Fatal("same name must still get distinct refs")
	}
	if tbl.Name(a) != "x" || tbl.Name(b) != "x" {
		t.Fatalf("names = %q, %q", tbl.Name(a), tbl.Name(b))
	}
}

func TestNoRef(t *testing.T) {
	tbl := NewTable()
	if NoRef.IsValid() {
		t.Fatal("NoRef must be invalid")
	}
	if tbl.Name(NoRef) != "" {
		t.Fatalf("NoRef name = %q", tbl.Name(NoRef))
	}
	if got := NoRef.String(); got != "entity(none)" {
		t.Fatalf("String = %q", got)
	}
}

func TestNameOutOfRange(t *testing.T) {
	tbl := NewTable()
	other := NewTable()
	for i := 0; i < 3; i++ {
		other.Declare("y")
	}
	stray := other.Declare("z")
	if tbl.Name(stray) != "" {
		t.Fatal("foreign ref must resolve to empty name")
	}
}

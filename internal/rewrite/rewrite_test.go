package rewrite

import (
	"testing"
)

// testNode is a minimal tree with the ChildMapper capability.
type testNode struct {
	val  int
	kids []*testNode
}

func leaf(v int) *testNode { return &testNode{val: v} }

func node(v int, kids ...*testNode) *testNode {
	return &testNode{val: v, kids: kids}
}

func (n *testNode) MapChildren(fn func(*testNode) (*testNode, bool)) (*testNode, bool) {
	if len(n.kids) == 0 {
		return n, true
	}
	out := make([]*testNode, len(n.kids))
	for i, k := range n.kids {
		nk, ok := fn(k)
		if !ok {
			return nil, false
		}
		out[i] = nk
	}
	return &testNode{val: n.val, kids: out}, true
}

func (n *testNode) equal(other *testNode) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.val != other.val || len(n.kids) != len(other.kids) {
		return false
	}
	for i := range n.kids {
		if !n.kids[i].equal(other.kids[i]) {
			return false
		}
	}
	return true
}

// addIfEven succeeds only on even values.
func addIfEven(delta int) Transform[*testNode] {
	return From(func(n *testNode) (*testNode, bool) {
		if n.val%2 != 0 {
			return nil, false
		}
		return &testNode{val: n.val + delta, kids: n.kids}, true
	})
}

// always increments the value unconditionally.
func always(delta int) Transform[*testNode] {
	return From(func(n *testNode) (*testNode, bool) {
		return &testNode{val: n.val + delta, kids: n.kids}, true
	})
}

func TestAndThen_ShortCircuits(t *testing.T) {
	invoked := false
	spy := From(func(n *testNode) (*testNode, bool) {
		invoked = true
		return n, true
	})

	_, ok := addIfEven(1).AndThen(spy)(leaf(3))
	if ok {
		t.Error("expected failure when first transform fails")
	}
	if invoked {
		t.Error("second transform must not run after first fails")
	}
}

func TestAndThen_Associativity(t *testing.T) {
	t1, t2, t3 := always(1), addIfEven(10), always(100)
	inputs := []*testNode{leaf(1), leaf(2), leaf(7), node(4, leaf(5))}

	for _, in := range inputs {
		left, lok := t1.AndThen(t2).AndThen(t3)(in)
		right, rok := t1.AndThen(t2.AndThen(t3))(in)
		if lok != rok {
			t.Fatalf("val=%d: associativity broke success: %v vs %v", in.val, lok, rok)
		}
		if lok && !left.equal(right) {
			t.Errorf("val=%d: results differ: %+v vs %+v", in.val, left, right)
		}
	}
}

func TestIdentityLaws(t *testing.T) {
	tr := addIfEven(5)
	inputs := []*testNode{leaf(2), leaf(3), node(0, leaf(1), leaf(2))}

	laws := []struct {
		name string
		lhs  Transform[*testNode]
	}{
		{"succeed andThen t", Succeed[*testNode]().AndThen(tr)},
		{"t andThen succeed", tr.AndThen(Succeed[*testNode]())},
		{"fail orElse t", Fail[*testNode]().OrElse(tr)},
		{"t orElse fail", tr.OrElse(Fail[*testNode]())},
	}

	for _, law := range laws {
		t.Run(law.name, func(t *testing.T) {
			for _, in := range inputs {
				want, wok := tr(in)
				got, gok := law.lhs(in)
				if wok != gok {
					t.Fatalf("val=%d: success mismatch: %v vs %v", in.val, gok, wok)
				}
				if wok && !got.equal(want) {
					t.Errorf("val=%d: result mismatch", in.val)
				}
			}
		})
	}
}

func TestOrElse_UsesOriginalInput(t *testing.T) {
	// First transform fails on odd inputs; alternative must see the
	// untouched original.
	var seen int
	alt := From(func(n *testNode) (*testNode, bool) {
		seen = n.val
		return n, true
	})

	in := leaf(7)
	_, ok := addIfEven(1).OrElse(alt)(in)
	if !ok {
		t.Fatal("expected alternative to succeed")
	}
	if seen != 7 {
		t.Errorf("alternative saw %d, want original 7", seen)
	}
}

func TestNot(t *testing.T) {
	tests := []struct {
		name     string
		input    *testNode
		expected bool
	}{
		{"inverts failure into success", leaf(3), true},
		{"inverts success into failure", leaf(2), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Not(addIfEven(1))(tt.input)
			if ok != tt.expected {
				t.Fatalf("Not() success = %v, want %v", ok, tt.expected)
			}
			if ok && got != tt.input {
				t.Error("Not must return the original input on success")
			}
		})
	}
}

func TestPredicate(t *testing.T) {
	// Defined only for non-negative values; true only for even ones.
	evenNonNegative := Predicate(func(n *testNode) (bool, bool) {
		if n.val < 0 {
			return false, false
		}
		return n.val%2 == 0, true
	})

	tests := []struct {
		name     string
		input    *testNode
		expected bool
	}{
		{"defined and true", leaf(4), true},
		{"defined and false", leaf(3), false},
		{"undefined", leaf(-2), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := evenNonNegative(tt.input)
			if ok != tt.expected {
				t.Fatalf("success = %v, want %v", ok, tt.expected)
			}
			if ok && got != tt.input {
				t.Error("Predicate must return its input unchanged")
			}
		})
	}
}

func TestConstant(t *testing.T) {
	c := leaf(42)
	got, ok := Constant(c)(leaf(1))
	if !ok || got != c {
		t.Errorf("Constant() = (%+v, %v), want (%+v, true)", got, ok, c)
	}
}

func TestForAllChildren_AllOrNothing(t *testing.T) {
	tests := []struct {
		name     string
		input    *testNode
		expected *testNode
		ok       bool
	}{
		{
			name:     "all children even - rebuilds all",
			input:    node(1, leaf(2), leaf(4), leaf(6)),
			expected: node(1, leaf(3), leaf(5), leaf(7)),
			ok:       true,
		},
		{
			name:  "one odd child - fails entirely",
			input: node(1, leaf(2), leaf(3), leaf(4)),
			ok:    false,
		},
		{
			name:     "leaf has no children - succeeds unchanged",
			input:    leaf(9),
			expected: leaf(9),
			ok:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ForAllChildren(addIfEven(1))(tt.input)
			if ok != tt.ok {
				t.Fatalf("success = %v, want %v", ok, tt.ok)
			}
			if ok && !got.equal(tt.expected) {
				t.Errorf("result = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestForAnyChild_NeverFails(t *testing.T) {
	tests := []struct {
		name     string
		input    *testNode
		expected *testNode
	}{
		{
			name:     "failing children kept unchanged",
			input:    node(1, leaf(2), leaf(3), leaf(4)),
			expected: node(1, leaf(3), leaf(3), leaf(5)),
		},
		{
			name:     "no child matches",
			input:    node(1, leaf(3), leaf(5)),
			expected: node(1, leaf(3), leaf(5)),
		},
		{
			name:     "leaf",
			input:    leaf(3),
			expected: leaf(3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ForAnyChild(addIfEven(1))(tt.input)
			if !ok {
				t.Fatal("ForAnyChild must never fail")
			}
			if !got.equal(tt.expected) {
				t.Errorf("result = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestTopDown_ChildrenSeeNewParent(t *testing.T) {
	// Increment every node; children are transformed after their parent.
	in := node(0, node(2, leaf(4)), leaf(6))
	want := node(1, node(3, leaf(5)), leaf(7))

	got, ok := TopDown(always(1))(in)
	if !ok {
		t.Fatal("expected success")
	}
	if !got.equal(want) {
		t.Errorf("result = %+v, want %+v", got, want)
	}
}

func TestTopDown_FailsWhenRootFails(t *testing.T) {
	_, ok := TopDown(addIfEven(1))(node(1, leaf(2)))
	if ok {
		t.Error("expected failure when root application fails")
	}
}

func TestBottomUp(t *testing.T) {
	// Children are rebuilt first; the parent sees transformed children.
	var parentSawChild int
	record := From(func(n *testNode) (*testNode, bool) {
		if len(n.kids) > 0 {
			parentSawChild = n.kids[0].val
		}
		return &testNode{val: n.val + 1, kids: n.kids}, true
	})

	in := node(0, leaf(10))
	got, ok := BottomUp(record)(in)
	if !ok {
		t.Fatal("expected success")
	}
	if parentSawChild != 11 {
		t.Errorf("parent saw child value %d, want 11 (post-transform)", parentSawChild)
	}
	if !got.equal(node(1, leaf(11))) {
		t.Errorf("result = %+v", got)
	}
}

func TestBottomUp_FailurePropagates(t *testing.T) {
	_, ok := BottomUp(addIfEven(1))(node(2, leaf(3)))
	if ok {
		t.Error("expected failure when a child application fails")
	}
}

func TestFoldRecursively(t *testing.T) {
	// Sum each node's subtree into its value, flattening children away.
	sum := FoldRecursively(func(self Transform[*testNode], n *testNode) (*testNode, bool) {
		total := n.val
		for _, k := range n.kids {
			folded, ok := self(k)
			if !ok {
				return nil, false
			}
			total += folded.val
		}
		return leaf(total), true
	})

	got, ok := sum(node(1, leaf(2), node(3, leaf(4))))
	if !ok {
		t.Fatal("expected success")
	}
	if got.val != 10 || len(got.kids) != 0 {
		t.Errorf("fold = %+v, want leaf(10)", got)
	}
}

package partition

import (
	"strings"
	"testing"

	"reweave/internal/diag"
	"reweave/internal/fragment"
	"reweave/internal/parser"
	"reweave/internal/source"
	"reweave/internal/syntax"
)

func partitionSource(t *testing.T, src string) (*fragment.Scope, *source.File, *syntax.File) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.wv", []byte(src))
	file := fs.Get(id)
	bag := diag.NewBag(16)
	res := parser.New(file, bag).ParseFile()
	if bag.HasErrors() {
		t.Fatalf("parse errors in %q: %v", src, bag.Items())
	}
	return Partition(file, res.File, Handlers()), file, res.File
}

func TestPartition_Valid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"let with list", "let x = [1,2,3];\n"},
		{"fn expr body", "fn add(a, b) = a + b;\n"},
		{"fn block body", "fn main() {\n    let x = 1;\n    print(x);\n}\n"},
		{"typed fn", "fn inc(x: int) -> int = x + 1;\n"},
		{"attributes", "@pure @total fn id(x) = x;\n"},
		{"type decl", "type Circle(r) : Shape(r) {\n    fn area() = r * r;\n}\n"},
		{"member access", "let n = xs.length;\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frag, _, _ := partitionSource(t, tt.src)
			if err := fragment.Validate(frag); err != nil {
				t.Fatalf("invalid fragment tree: %v", err)
			}
		})
	}
}

func TestPartition_TagsCoverLeaves(t *testing.T) {
	frag, _, root := partitionSource(t, "fn add(a, b) = a + b;\n")
	tags := fragment.CollectTags(frag)

	var decl *syntax.FnDecl
	for _, item := range root.Items {
		if d, ok := item.(*syntax.FnDecl); ok {
			decl = d
		}
	}
	if decl == nil {
		t.Fatal("no function declaration parsed")
	}
	if tags[decl] == nil {
		t.Fatal("declaration has no tagged fragment")
	}
	for _, p := range decl.Params {
		if tags[p] == nil {
			t.Fatalf("parameter %s has no tagged fragment", p.Name.Text)
		}
	}
}

func TestPartition_SeparatorRequisites(t *testing.T) {
	frag, _, _ := partitionSource(t, "let x = [1,2,3];\n")

	var list *fragment.Scope
	var walk func(s *fragment.Scope)
	walk = func(s *fragment.Scope) {
		if _, ok := s.Node.(*syntax.List); ok {
			list = s
		}
		for _, child := range s.Children {
			if sub, ok := child.(*fragment.Scope); ok {
				walk(sub)
			}
		}
	}
	walk(frag)
	if list == nil {
		t.Fatal("no list scope produced")
	}
	if len(list.Children) != 3 {
		t.Fatalf("want 3 element fragments, got %d", len(list.Children))
	}
	for i, child := range list.Children {
		before := child.Anchor().Before
		if i == 0 && len(before) != 0 {
			t.Fatal("first element must not carry a separator requisite")
		}
		if i > 0 && (len(before) != 1 || before[0].Match != ",") {
			t.Fatalf("element %d missing separator requisite: %+v", i, before)
		}
	}
}

func TestPartition_KeywordRequisite(t *testing.T) {
	frag, _, _ := partitionSource(t, "let x = 1;\n")

	var nameLeaf *fragment.SourceLeaf
	var walk func(s *fragment.Scope)
	walk = func(s *fragment.Scope) {
		for _, child := range s.Children {
			switch f := child.(type) {
			case *fragment.Scope:
				walk(f)
			case *fragment.SourceLeaf:
				if nameLeaf == nil && f.Node != nil {
					nameLeaf = f
				}
			}
		}
	}
	walk(frag)
	if nameLeaf == nil {
		t.Fatal("no tagged leaf produced")
	}
	if len(nameLeaf.Before) == 0 || nameLeaf.Before[0].Match != "let" {
		t.Fatalf("declaration name must carry the keyword requisite, got %+v", nameLeaf.Before)
	}
}

func TestPartition_BlockIndent(t *testing.T) {
	frag, _, _ := partitionSource(t, "fn main() {\n    let x = 1;\n}\n")

	found := false
	var walk func(s *fragment.Scope)
	walk = func(s *fragment.Scope) {
		for _, child := range s.Children {
			if sub, ok := child.(*fragment.Scope); ok {
				if sub.Indent == 4 {
					found = true
				}
				walk(sub)
			}
		}
	}
	walk(frag)
	if !found {
		t.Fatal("indented statement scope not measured")
	}
}

func TestMeasureIndent(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.wv", []byte("a\n    b\n\tc\n  mid d\n"))
	file := fs.Get(id)

	tests := []struct {
		name   string
		off    uint32
		parent int
		want   int
	}{
		{"start of file", 0, 0, 0},
		{"four spaces", 6, 0, 4},
		{"tab", 9, 0, 4},
		{"mid-line inherits parent", 17, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := measureIndent(file, tt.off, tt.parent); got != tt.want {
				t.Fatalf("measureIndent(%d) = %d, want %d", tt.off, got, tt.want)
			}
		})
	}
}

func TestClipSelection(t *testing.T) {
	_, file, root := partitionSource(t, "let n = xs.length;\n")

	letDecl := root.Items[0].(*syntax.LetDecl)
	sel := letDecl.Value.(*syntax.Select)

	// Rebuild the access with a member span that covers the receiver, the
	// shape a desugaring pass can produce.
	wide := syntax.NewSelect(sel.Span(), sel.Recv,
		syntax.Name{Text: sel.Sel.Text, Span: sel.Span()})

	ctx := &Context{file: file}
	got := clipSelection(ctx, wide)
	if text := file.Text(got); text != "length" {
		t.Fatalf("clipped selection reads %q, want %q", text, "length")
	}
}

func TestDump(t *testing.T) {
	frag, file, _ := partitionSource(t, "let x = [1,2];\n")
	out := Dump(frag, file)
	if !strings.Contains(out, "scope") || !strings.Contains(out, "source") {
		t.Fatalf("dump output incomplete:\n%s", out)
	}
}

package regen

import (
	"strings"
	"testing"

	"reweave/internal/diag"
	"reweave/internal/entity"
	"reweave/internal/fragment"
	"reweave/internal/parser"
	"reweave/internal/partition"
	"reweave/internal/refactor"
	"reweave/internal/source"
	"reweave/internal/syntax"
	"reweave/internal/tree"
)

type parsed struct {
	file *source.File
	root *syntax.File
	frag *fragment.Scope
}

func setup(t *testing.T, src string) parsed {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.wv", []byte(src))
	file := fs.Get(id)
	bag := diag.NewBag(16)
	res := parser.New(file, bag).ParseFile()
	if bag.HasErrors() {
		t.Fatalf("parse errors in %q: %v", src, bag.Items())
	}
	frag := partition.Partition(file, res.File, partition.Handlers())
	if err := fragment.Validate(frag); err != nil {
		t.Fatalf("invalid fragment tree for %q: %v", src, err)
	}
	return parsed{file: file, root: res.File, frag: frag}
}

func render(t *testing.T, p parsed, root tree.Node) string {
	t.Helper()
	bag := diag.NewBag(16)
	out := Render(p.frag, root, p.file, bag)
	if bag.HasErrors() {
		t.Fatalf("render errors: %v", bag.Items())
	}
	return out
}

func TestRender_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"let with list", "let x = [1,2,3,4,5];\n"},
		{"fn with expr body", "fn add(a, b) = a + b;\n"},
		{"fn with block body", "fn main() {\n    let x = 1;\n    print(x);\n}\n"},
		{"fn with return type", "fn inc(x: int) -> int = x + 1;\n"},
		{"attributed fn", "@pure fn id(x) = x;\n"},
		{"type with ctor", "type Point(x, y);\n"},
		{"type with parent", "type Circle(r) : Shape(r);\n"},
		{"type with bare parent", "type Special : Base;\n"},
		{"type with members", "type Pair(a, b) {\n    fn first() = a;\n}\n"},
		{"member access", "let n = xs.length;\n"},
		{"call chain", "let y = f(1, 2).g(3);\n"},
		{"comments survive", "// header\nlet x = 1; // trailing\n"},
		{"odd spacing", "let   x   =   [ 1 ,  2 ];\n"},
		{"two decls", "let a = 1;\nlet b = 2;\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := setup(t, tt.src)
			got := render(t, p, p.root)
			if got != tt.src {
				t.Fatalf("round trip mismatch:\n got: %q\nwant: %q", got, tt.src)
			}
		})
	}
}

func TestRender_ReplaceListElement(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   []string
		want string
	}{
		{"middle element", "2", []string{"6"}, "let x = [1,6,3,4,5];\n"},
		{"first element", "1", []string{"6"}, "let x = [6,2,3,4,5];\n"},
		{"splice at end", "5", []string{"6", "7"}, "let x = [1,2,3,4,6,7];\n"},
		{"no match leaves input unchanged", "6", []string{"1"}, "let x = [1,2,3,4,5];\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := setup(t, "let x = [1,2,3,4,5];\n")
			edited, ok := refactor.ReplaceListElement(tt.from, tt.to)(tree.Node(p.root))
			if !ok {
				t.Fatal("transform failed")
			}
			got := render(t, p, edited)
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_UnchangedTreeKeepsIdentity(t *testing.T) {
	p := setup(t, "let x = [1,2,3,4,5];\n")
	edited, ok := refactor.ReplaceListElement("6", []string{"1"})(tree.Node(p.root))
	if !ok {
		t.Fatal("transform failed")
	}
	if edited != tree.Node(p.root) {
		t.Fatal("no-op transform should return the original root")
	}
}

func TestRender_Rename(t *testing.T) {
	tests := []struct {
		name string
		src  string
		from string
		to   string
		want string
	}{
		{
			"fn and references",
			"fn add(a, b) = a + b;\nlet s = add(1, 2);\n",
			"add", "sum",
			"fn sum(a, b) = a + b;\nlet s = sum(1, 2);\n",
		},
		{
			"param and body uses",
			"fn add(a, b) = a + b;\n",
			"a", "left",
			"fn add(left, b) = left + b;\n",
		},
		{
			"layout survives",
			"let   value   =   1;\n",
			"value", "v",
			"let   v   =   1;\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := setup(t, tt.src)
			edited, ok := refactor.Rename(tt.from, tt.to)(tree.Node(p.root))
			if !ok {
				t.Fatal("transform failed")
			}
			got := render(t, p, edited)
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_InsertedDeclaration(t *testing.T) {
	src := "let x = 1;\n"
	p := setup(t, src)

	end := uint32(len(src))
	table := entity.NewTable()
	value := syntax.NewIntLit(source.NewSynthetic(p.file.ID, end), "2")
	decl := syntax.NewLetDecl(
		source.NewSynthetic(p.file.ID, end),
		syntax.Name{Text: "y", Span: source.NewSynthetic(p.file.ID, end)},
		value,
		table.Declare("y"),
	)
	edited := syntax.NewFile(p.root.Span(), append(append([]tree.Node{}, p.root.Items...), decl))

	got := render(t, p, edited)
	if !strings.HasPrefix(got, "let x = 1;") {
		t.Fatalf("existing declaration disturbed: %q", got)
	}
	if !strings.Contains(got, "let y = 2;") {
		t.Fatalf("inserted declaration missing or malformed: %q", got)
	}
}

func TestRender_NormalizeDeclNames(t *testing.T) {
	p := setup(t, "fn Add(a, b) = a + b;\nlet Total = Add(1, 2);\n")
	edited, ok := refactor.NormalizeDeclNames(refactor.CaseLower)(tree.Node(p.root))
	if !ok {
		t.Fatal("transform failed")
	}
	got := render(t, p, edited)
	want := "fn add(a, b) = a + b;\nlet total = Add(1, 2);\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRender_Idempotent(t *testing.T) {
	p := setup(t, "let x = [1,2,3,4,5];\n")
	edited, ok := refactor.ReplaceListElement("5", []string{"6", "7"})(tree.Node(p.root))
	if !ok {
		t.Fatal("transform failed")
	}
	first := render(t, p, edited)
	second := render(t, p, edited)
	if first != second {
		t.Fatalf("render is not deterministic: %q vs %q", first, second)
	}
}

func TestFillLayout_GapsCoverScope(t *testing.T) {
	p := setup(t, "let x = [1,2,3];\n")
	filled := FillLayout(p.frag, p.file)

	var total int
	var walk func(s *fragment.Scope)
	walk = func(s *fragment.Scope) {
		for _, child := range s.Children {
			switch f := child.(type) {
			case *fragment.Scope:
				walk(f)
			case *fragment.LayoutLeaf:
				total += len(f.Text)
				if f.Text == "" {
					t.Fatal("degenerate layout leaf emitted")
				}
			}
		}
	}
	walk(filled)
	if total == 0 {
		t.Fatal("no layout captured")
	}
}

func TestRender_ComposedTransforms(t *testing.T) {
	p := setup(t, "let xs = [1,2,3];\n")
	transform := refactor.ReplaceListElement("2", []string{"9"}).
		AndThen(refactor.Rename("xs", "values"))
	edited, ok := transform(tree.Node(p.root))
	if !ok {
		t.Fatal("composed transform failed")
	}
	got := render(t, p, edited)
	want := "let values = [1,9,3];\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

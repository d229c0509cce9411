package parser

import (
	"testing"

	"reweave/internal/diag"
	"reweave/internal/source"
	"reweave/internal/syntax"
	"reweave/internal/testkit"
	"reweave/internal/tree"
)

func parseSource(t *testing.T, src string) (Result, *diag.Bag, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.wv", []byte(src))
	file := fs.Get(id)
	bag := diag.NewBag(16)
	res := New(file, bag).ParseFile()
	return res, bag, file
}

func TestParseFile_Decls(t *testing.T) {
	src := `let greeting = "hello";

@pure
fn double(x) -> int = x + x;

type Point(x, y);
`
	res, bag, _ := parseSource(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if len(res.File.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(res.File.Items))
	}

	let, ok := res.File.Items[0].(*syntax.LetDecl)
	if !ok || let.DeclName() != "greeting" {
		t.Fatalf("item 0 = %T %v", res.File.Items[0], res.File.Items[0])
	}
	fn, ok := res.File.Items[1].(*syntax.FnDecl)
	if !ok || fn.DeclName() != "double" {
		t.Fatalf("item 1 = %T", res.File.Items[1])
	}
	if len(fn.Attrs) != 1 || fn.Attrs[0].Name != "pure" {
		t.Fatalf("fn attrs = %v", fn.Attrs)
	}
	if fn.Ret.Text != "int" {
		t.Fatalf("fn ret = %q", fn.Ret.Text)
	}
	typ, ok := res.File.Items[2].(*syntax.TypeDecl)
	if !ok || typ.DeclName() != "Point" || len(typ.CtorParams) != 2 {
		t.Fatalf("item 2 = %T", res.File.Items[2])
	}

	if !let.Entity().IsValid() || !fn.Entity().IsValid() {
		t.Fatal("declarations must carry valid entity refs")
	}
	if let.Entity() == fn.Entity() {
		t.Fatal("distinct declarations must get distinct refs")
	}
	if res.Entities.Name(fn.Entity()) != "double" {
		t.Fatalf("entity table name = %q", res.Entities.Name(fn.Entity()))
	}
}

func TestParseFile_SpanInvariants(t *testing.T) {
	sources := []string{
		"let x = [1,2,3,4,5];\n",
		"fn inc(x) = x + 1;\n",
		"fn main() {\n    let y = 2;\n    f(y);\n}\n",
		"@pure\n@inline\nfn id(v: int) -> int = v;\n",
		"type Circle(r) : Shape(r) { let area = r * r; }\n",
		"let s = \"a.b\".length;\n",
	}
	for _, src := range sources {
		res, bag, file := parseSource(t, src)
		if bag.HasErrors() {
			t.Errorf("%q: unexpected diagnostics: %v", src, bag.Items())
			continue
		}
		if err := testkit.CheckSpanInvariants(res.File, file); err != nil {
			t.Errorf("%q: %v", src, err)
		}
	}
}

func TestParseParams_NoList(t *testing.T) {
	res, bag, _ := parseSource(t, "fn zero = 0;\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	fn := res.File.Items[0].(*syntax.FnDecl)
	if len(fn.Params) != 0 || fn.ParamsParens {
		t.Fatalf("params = %v, parens = %v", fn.Params, fn.ParamsParens)
	}
	if !fn.ParamsSpan.IsSynthetic() {
		t.Fatalf("missing list must get a synthetic span, got %v", fn.ParamsSpan)
	}
}

func TestParseTypeDecl_TrailingSemicolon(t *testing.T) {
	res, bag, _ := parseSource(t, "type Point(x, y);\nlet z = 1;\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if len(res.File.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(res.File.Items))
	}
	if _, ok := res.File.Items[1].(*syntax.LetDecl); !ok {
		t.Fatalf("item 1 = %T, want *syntax.LetDecl", res.File.Items[1])
	}
}

func TestParseFile_Errors(t *testing.T) {
	cases := []struct {
		src  string
		code diag.Code
	}{
		{"fn = 1;\n", diag.SynExpectIdentifier},
		{"fn f(x = 1;\n", diag.SynUnclosedParen},
		{"fn f(x);\n", diag.SynExpectFnBody},
		{"let x 1;\n", diag.SynUnexpectedToken},
		{"1 + 2;\n", diag.SynUnexpectedTopItem},
	}
	for _, tc := range cases {
		_, bag, _ := parseSource(t, tc.src)
		if !bag.HasErrors() {
			t.Errorf("%q: expected diagnostics", tc.src)
			continue
		}
		found := false
		for _, d := range bag.Items() {
			if d.Code == tc.code {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("%q: missing code %v in %v", tc.src, tc.code, bag.Items())
		}
	}
}

func TestParseFile_Recovery(t *testing.T) {
	res, bag, _ := parseSource(t, "let broken ;\nlet ok = 1;\n")
	if !bag.HasErrors() {
		t.Fatal("expected diagnostics for the broken item")
	}
	var names []string
	for _, item := range res.File.Items {
		if d, ok := item.(tree.Decl); ok {
			names = append(names, d.DeclName())
		}
	}
	if len(names) != 1 || names[0] != "ok" {
		t.Fatalf("recovered decls = %v, want [ok]", names)
	}
}

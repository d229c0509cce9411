package project

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAndLoad(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig("demo")
	path, err := Write(dir, cfg)
	if err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if filepath.Base(path) != ManifestName {
		t.Fatalf("unexpected manifest path %q", path)
	}

	m, ok, err := Load(dir)
	if err != nil || !ok {
		t.Fatalf("load manifest: ok=%v err=%v", ok, err)
	}
	if m.Config.Package.Name != "demo" {
		t.Fatalf("package name round trip failed: %q", m.Config.Package.Name)
	}
	if m.Root != dir {
		t.Fatalf("root = %q, want %q", m.Root, dir)
	}
}

func TestWriteRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	if _, err := Write(dir, DefaultConfig("a")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if _, err := Write(dir, DefaultConfig("b")); err == nil {
		t.Fatal("second write must fail")
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := Write(root, DefaultConfig("demo")); err != nil {
		t.Fatal(err)
	}

	path, ok, err := FindManifest(nested)
	if err != nil || !ok {
		t.Fatalf("find: ok=%v err=%v", ok, err)
	}
	if filepath.Dir(path) != root {
		t.Fatalf("found %q, want under %q", path, root)
	}
}

func TestLoadMissing(t *testing.T) {
	_, ok, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("manifest must not be found in an empty directory")
	}
}

func TestCombineDeterministic(t *testing.T) {
	a := HashBytes([]byte("a"))
	b := HashBytes([]byte("b"))
	if Combine(a, b) != Combine(a, b) {
		t.Fatal("combine must be deterministic")
	}
	if Combine(a, b) == Combine(b, a) {
		t.Fatal("combine must be order-sensitive")
	}
	if !(Digest{}).Zero() || a.Zero() {
		t.Fatal("zero detection broken")
	}
}

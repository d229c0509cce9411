package fix

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestApply_WritesAndBacksUp(t *testing.T) {
	path := writeTempFile(t, "a.wv", "let x = 1;\n")

	res, err := Apply([]FileChange{
		{Path: path, OldText: "let x = 1;\n", NewText: "let y = 1;\n"},
	}, Options{Backup: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Written) != 1 || len(res.Skipped) != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "let y = 1;\n" {
		t.Fatalf("file content = %q", got)
	}
	bak, err := os.ReadFile(path + BackupExt)
	if err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if string(bak) != "let x = 1;\n" {
		t.Fatalf("backup content = %q", bak)
	}
}

func TestApply_DryRun(t *testing.T) {
	path := writeTempFile(t, "a.wv", "let x = 1;\n")

	res, err := Apply([]FileChange{
		{Path: path, OldText: "let x = 1;\n", NewText: "let y = 1;\n"},
	}, Options{DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Written) != 1 {
		t.Fatalf("dry run must still report the file: %+v", res)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "let x = 1;\n" {
		t.Fatalf("dry run must not write, got %q", got)
	}
}

func TestApply_SkipsStaleFile(t *testing.T) {
	path := writeTempFile(t, "a.wv", "let x = 2;\n")

	res, err := Apply([]FileChange{
		{Path: path, OldText: "let x = 1;\n", NewText: "let y = 1;\n"},
	}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Written) != 0 || len(res.Skipped) != 1 {
		t.Fatalf("stale file must be skipped: %+v", res)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "let x = 2;\n" {
		t.Fatalf("stale file must stay untouched, got %q", got)
	}
}

func TestApply_SkipsNoChange(t *testing.T) {
	path := writeTempFile(t, "a.wv", "let x = 1;\n")

	res, err := Apply([]FileChange{
		{Path: path, OldText: "let x = 1;\n", NewText: "let x = 1;\n"},
	}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "no change" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

package driver

import (
	"path/filepath"
	"testing"

	"reweave/internal/project"
)

func TestCheckCache_RoundTrip(t *testing.T) {
	cache, err := OpenCheckCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}

	key := project.HashBytes([]byte("let x = 1;\n"))
	if _, hit := cache.Get(key); hit {
		t.Fatal("empty cache must miss")
	}

	cache.Put(key, Verdict{Clean: true})
	v, hit := cache.Get(key)
	if !hit || !v.Clean {
		t.Fatalf("want clean hit, got hit=%v verdict=%+v", hit, v)
	}

	other := project.HashBytes([]byte("let y = 2;\n"))
	if _, hit := cache.Get(other); hit {
		t.Fatal("different content must miss")
	}
}

func TestCheckCache_NilIsNoop(t *testing.T) {
	var cache *CheckCache
	key := project.HashBytes([]byte("x"))
	cache.Put(key, Verdict{Clean: true})
	if _, hit := cache.Get(key); hit {
		t.Fatal("nil cache must never hit")
	}
	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
}

func TestCheckCache_DropAll(t *testing.T) {
	cache, err := OpenCheckCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	key := project.HashBytes([]byte("content"))
	cache.Put(key, Verdict{Clean: false})
	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if _, hit := cache.Get(key); hit {
		t.Fatal("dropped cache must miss")
	}
}

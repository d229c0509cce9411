package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"reweave/internal/project"
)

// Increment when the Verdict format changes.
const checkCacheSchemaVersion uint16 = 1

// Verdict is the cached outcome of verifying one file.
type Verdict struct {
	Clean bool
}

// verdictPayload is the on-disk form of a verdict.
type verdictPayload struct {
	Schema  uint16
	Clean   bool
	Written int64 // unix seconds, informational
}

// CheckCache persists round-trip verdicts keyed by file content digest, so
// repeated check runs skip files whose bytes have not changed. Safe for
// concurrent use; a nil cache is a no-op.
type CheckCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenCheckCache initializes the cache at the standard user cache location.
func OpenCheckCache(app string) (*CheckCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenCheckCacheAt(filepath.Join(base, app))
}

// OpenCheckCacheAt initializes the cache in an explicit directory.
func OpenCheckCacheAt(dir string) (*CheckCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &CheckCache{dir: dir}, nil
}

func (c *CheckCache) pathFor(key project.Digest) string {
	// Subdirectory keeps verdicts apart from anything else under the app dir.
	return filepath.Join(c.dir, "verdicts", hex.EncodeToString(key[:])+".mp")
}

// Put records a verdict for the given content digest. Errors are reported
// but a failed write never breaks the run.
func (c *CheckCache) Put(key project.Digest, v Verdict) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return
	}
	defer func() {
		if err := os.Remove(f.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "failed to remove temp file: %v\n", err)
		}
	}()

	payload := verdictPayload{
		Schema:  checkCacheSchemaVersion,
		Clean:   v.Clean,
		Written: time.Now().Unix(),
	}
	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return
	}
	if err := f.Close(); err != nil {
		return
	}
	// Atomic replace.
	_ = os.Rename(f.Name(), p)
}

// Get looks up a verdict for the given content digest.
func (c *CheckCache) Get(key project.Digest) (Verdict, bool) {
	if c == nil {
		return Verdict{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		return Verdict{}, false
	}
	defer f.Close()

	var payload verdictPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return Verdict{}, false
	}
	if payload.Schema != checkCacheSchemaVersion {
		return Verdict{}, false
	}
	return Verdict{Clean: payload.Clean}, true
}

// DropAll invalidates the whole cache, useful after a format change.
func (c *CheckCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

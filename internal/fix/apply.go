// Package fix writes regenerated file content back to disk. It guards
// against applying stale output, supports dry runs, and can leave a backup
// of every file it touches.
package fix

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileChange is one pending rewrite of a file on disk.
type FileChange struct {
	Path    string
	OldText string // content the file is expected to still have
	NewText string
}

// Options control how changes are written.
type Options struct {
	DryRun bool
	Backup bool // keep a .bak copy of the original
}

// Result summarizes an apply run.
type Result struct {
	Written []string
	Skipped []SkippedChange
}

// SkippedChange names a change that was not applied and why.
type SkippedChange struct {
	Path   string
	Reason string
}

// BackupExt is appended to the original path for backups.
const BackupExt = ".bak"

// Apply writes every change whose file still matches its expected content.
// A file modified since the change was computed is skipped, never
// overwritten. In dry-run mode nothing is written but the result reports
// what would happen.
func Apply(changes []FileChange, opts Options) (*Result, error) {
	res := &Result{}
	for _, ch := range changes {
		current, err := os.ReadFile(ch.Path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				res.Skipped = append(res.Skipped, SkippedChange{Path: ch.Path, Reason: "file no longer exists"})
				continue
			}
			return res, fmt.Errorf("read %s: %w", ch.Path, err)
		}
		if string(current) != ch.OldText {
			res.Skipped = append(res.Skipped, SkippedChange{Path: ch.Path, Reason: "file changed on disk since it was read"})
			continue
		}
		if ch.NewText == ch.OldText {
			res.Skipped = append(res.Skipped, SkippedChange{Path: ch.Path, Reason: "no change"})
			continue
		}
		if opts.DryRun {
			res.Written = append(res.Written, ch.Path)
			continue
		}
		if opts.Backup {
			if err := os.WriteFile(ch.Path+BackupExt, current, 0o644); err != nil {
				return res, fmt.Errorf("backup %s: %w", ch.Path, err)
			}
		}
		if err := writeAtomic(ch.Path, []byte(ch.NewText)); err != nil {
			return res, fmt.Errorf("write %s: %w", ch.Path, err)
		}
		res.Written = append(res.Written, ch.Path)
	}
	return res, nil
}

// writeAtomic replaces path's content via a temp file and rename, so a
// crash mid-write never leaves a truncated source file.
func writeAtomic(path string, content []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "reweave-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, info.Mode()); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

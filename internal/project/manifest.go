// Package project locates and loads the reweave.toml manifest that scopes a
// directory tree of weave sources, and provides the digests used by the
// verification cache.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file that marks a project root.
const ManifestName = "reweave.toml"

// Manifest is a loaded project manifest.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the TOML structure of reweave.toml.
type Config struct {
	Package PackageConfig `toml:"package"`
	Check   CheckConfig   `toml:"check"`
	Apply   ApplyConfig   `toml:"apply"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type CheckConfig struct {
	Jobs           int `toml:"jobs"`
	MaxDiagnostics int `toml:"max_diagnostics"`
}

type ApplyConfig struct {
	Backup bool `toml:"backup"`
}

// DefaultConfig returns the configuration used when no manifest is present
// and as the basis for a freshly initialized one.
func DefaultConfig(name string) Config {
	return Config{
		Package: PackageConfig{Name: name},
		Check:   CheckConfig{Jobs: 0, MaxDiagnostics: 64},
		Apply:   ApplyConfig{Backup: true},
	}
}

// FindManifest walks up from startDir to locate reweave.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads the manifest governing startDir, if any.
func Load(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	var cfg Config
	if _, err := toml.DecodeFile(manifestPath, &cfg); err != nil {
		return nil, true, fmt.Errorf("%s: failed to parse TOML: %w", manifestPath, err)
	}
	if cfg.Check.MaxDiagnostics <= 0 {
		cfg.Check.MaxDiagnostics = 64
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// Write creates a manifest file at dir with the given configuration. It
// refuses to overwrite an existing manifest.
func Write(dir string, cfg Config) (string, error) {
	path := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	enc := toml.NewEncoder(f)
	if err := enc.Encode(cfg); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

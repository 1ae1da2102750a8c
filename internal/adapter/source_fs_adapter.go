// Package adapter contains filesystem, process and parsing adapters for gnaw.
package adapter

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	m "gnaw.dev/pkg/gnaw/internal/model"
)

// Directories never worth visiting or duplicating: VCS metadata, vendored
// JS trees, and gnaw's own report/copy output.
var skipDirNames = map[string]struct{}{
	".git":          {},
	".hg":           {},
	"node_modules":  {},
	".gnaw-reports": {},
}

// Directories the root module's build never compiles. Walk must not surface
// files from them or every mutant placed there would trivially survive, but
// trial copies still carry them: builds read vendored dependencies and tests
// read their fixture trees.
var skipWalkDirNames = map[string]struct{}{
	"vendor":   {},
	"testdata": {},
}

// SourceFSAdapter abstracts filesystem operations the domain layer relies on
// when scanning user trees and materializing isolated copies. It hides direct
// `os` access so orchestration logic can be tested without touching disk.
type SourceFSAdapter interface {
	// Walk traverses root depth-first, calling fn for every regular file
	// the root module's build compiles. VCS metadata, vendored trees, test
	// fixture directories and nested modules are not descended into.
	Walk(root m.Path, fn func(path m.Path, info os.FileInfo) error) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// HashFile returns a stable fingerprint (SHA-256) for the file at path.
	HashFile(path m.Path) (string, error)

	// FileInfo returns metadata for a path.
	FileInfo(path m.Path) (os.FileInfo, error)

	// FindModuleRoot searches for go.mod walking up the directory tree.
	FindModuleRoot(startPath m.Path) (m.Path, error)

	// CreateTempDir creates a scoped temporary directory for one trial.
	CreateTempDir(pattern string) (m.Path, error)

	// RemoveAll removes a directory and all its contents.
	RemoveAll(path m.Path) error

	// CopyTree duplicates the source tree byte-for-byte into dst, skipping
	// directories the build tool regenerates or never reads.
	CopyTree(src, dst m.Path) error

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// LocalSourceFSAdapter is the concrete implementation backed by os and
// path/filepath.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Walk iterates over regular files under root in lexical order.
func (a *LocalSourceFSAdapter) Walk(root m.Path, fn func(path m.Path, info os.FileInfo) error) error {
	return filepath.Walk(string(root), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path == string(root) {
				return nil
			}

			if _, skip := skipDirNames[info.Name()]; skip {
				return filepath.SkipDir
			}

			if _, skip := skipWalkDirNames[info.Name()]; skip {
				return filepath.SkipDir
			}

			// A go.mod below the root starts a separate module the root
			// build never reaches.
			if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
				return filepath.SkipDir
			}

			return nil
		}

		return fn(m.Path(path), info)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// HashFile returns the SHA-256 hash of the file at the provided path.
func (a *LocalSourceFSAdapter) HashFile(path m.Path) (string, error) {
	f, err := os.Open(string(path))
	if err != nil {
		return "", err
	}

	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// FindModuleRoot searches for go.mod walking up the directory tree.
func (a *LocalSourceFSAdapter) FindModuleRoot(startPath m.Path) (m.Path, error) {
	dir := string(startPath)
	if info, err := os.Stat(dir); err != nil {
		return "", err
	} else if !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return m.Path(dir), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found in any parent directory of %s", startPath)
		}

		dir = parent
	}
}

// CreateTempDir creates a temporary directory for one trial copy.
func (a *LocalSourceFSAdapter) CreateTempDir(pattern string) (m.Path, error) {
	tmpDir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return "", err
	}

	return m.Path(tmpDir), nil
}

// RemoveAll removes a directory and all its contents.
func (a *LocalSourceFSAdapter) RemoveAll(path m.Path) error {
	return os.RemoveAll(string(path))
}

// CopyTree recursively copies a directory tree. Source files, manifests and
// configuration are copied byte-for-byte; VCS metadata and gnaw's own output
// directories are skipped because the copy only exists to be built and
// tested once. vendor and testdata are carried: trial builds and tests
// read them.
func (a *LocalSourceFSAdapter) CopyTree(src, dst m.Path) error {
	return filepath.Walk(string(src), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(string(src), path)
		if err != nil {
			return err
		}

		if info.IsDir() {
			if _, skip := skipDirNames[info.Name()]; skip && path != string(src) {
				return filepath.SkipDir
			}

			return os.MkdirAll(filepath.Join(string(dst), relPath), info.Mode())
		}

		// Rotating log files in the tree root are regenerated, not source.
		if strings.HasPrefix(info.Name(), ".gnaw.log") {
			return nil
		}

		return a.copyFile(path, filepath.Join(string(dst), relPath), info.Mode())
	})
}

// copyFile copies a single file preserving its mode.
func (a *LocalSourceFSAdapter) copyFile(src, dst string, mode os.FileMode) error {
	// #nosec G304 - src is an internal project file path, not user input
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}

	defer func() { _ = sourceFile.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}

	// #nosec G304 - dst is an internal destination path, not user input
	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	defer func() { _ = destFile.Close() }()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return os.Chmod(dst, mode)
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// RelPath returns the relative path from base to target.
func (a *LocalSourceFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}

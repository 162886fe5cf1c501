// Package adapter contains infrastructure adapters for the sema CLI: the
// unit-file walker, the YAML unit decoder and the report store.
package adapter

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	m "cnext.dev/pkg/sema/internal/model"
)

// UnitExt is the extension the parser uses for serialized compilation units.
const UnitExt = ".unit.yaml"

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type into the domain.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// UnitFSAdapter abstracts the filesystem operations the workflow relies on
// when scanning for compilation units, so the domain logic can be tested
// without touching the disk.
type UnitFSAdapter interface {
	// Walk traverses the provided root path. When recursive is false the
	// implementation limits itself to the root directory itself.
	Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// HashFile returns a stable fingerprint for the file at path.
	HashFile(path m.Path) (string, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// MkdirAll creates a directory tree if it does not exist yet.
	MkdirAll(path m.Path, perm os.FileMode) error
}

// LocalUnitFSAdapter backs UnitFSAdapter with the local filesystem.
type LocalUnitFSAdapter struct{}

// NewLocalUnitFSAdapter constructs a LocalUnitFSAdapter.
func NewLocalUnitFSAdapter() *LocalUnitFSAdapter {
	return &LocalUnitFSAdapter{}
}

// Walk iterates over files under root, optionally descending into
// subdirectories.
func (a *LocalUnitFSAdapter) Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && !recursive && path != rootStr {
			return filepath.SkipDir
		}

		return fn(path, info, nil)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalUnitFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// HashFile returns the SHA-256 hash of the file at the provided path.
func (a *LocalUnitFSAdapter) HashFile(path m.Path) (string, error) {
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

// WriteFile writes content to a file with the given permissions.
func (a *LocalUnitFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// MkdirAll creates a directory tree if it does not exist yet.
func (a *LocalUnitFSAdapter) MkdirAll(path m.Path, perm os.FileMode) error {
	return os.MkdirAll(string(path), perm)
}

// IsUnitFile reports whether path names a serialized compilation unit.
func IsUnitFile(path string) bool {
	return strings.HasSuffix(path, UnitExt)
}

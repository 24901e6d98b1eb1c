package adapter

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"

	m "github.com/oxmut/oxmut/internal/model"
)

// SourceFSAdapter abstracts filesystem-specific operations that the domain
// layer relies on when scanning user crates. It intentionally hides direct
// `os` access so the workflow logic can be tested without touching the disk.
//
//nolint:interfacebloat // A richer interface keeps workflow logic decoupled from os/fs.
type SourceFSAdapter interface {
	// Walk traverses the provided root path. When recursive is false the
	// implementation should limit itself to the root directory (no sub-dirs).
	Walk(ctx context.Context, root m.Path, recursive bool, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(ctx context.Context, path m.Path) ([]byte, error)

	// HashFile returns a stable fingerprint (SHA-256) for the file at path.
	HashFile(ctx context.Context, path m.Path) (string, error)

	// FindCrateRoot searches for a Cargo.toml walking up the directory tree.
	FindCrateRoot(ctx context.Context, startPath m.Path) (m.Path, error)

	// CreateTempDir creates a temporary directory for mutation testing.
	CreateTempDir(ctx context.Context, pattern string) (m.Path, error)

	// RemoveAll removes a directory and all its contents.
	RemoveAll(ctx context.Context, path m.Path) error

	// CopyDir recursively copies a crate tree, skipping build artifacts.
	CopyDir(ctx context.Context, src, dst m.Path) error

	// WriteFile writes content to a file with the given permissions.
	WriteFile(ctx context.Context, path m.Path, content []byte, perm os.FileMode) error

	// RelPath returns the relative path from base to target.
	RelPath(ctx context.Context, base, target m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(ctx context.Context, elem ...string) m.Path
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalSourceFSAdapter is the concrete implementation backing the
// SourceFSAdapter interface with direct disk access.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter ready to be
// wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Walk iterates over files under root, optionally descending into subdirectories.
func (a *LocalSourceFSAdapter) Walk(ctx context.Context, root m.Path, recursive bool, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if info.IsDir() && !recursive && path != rootStr {
			// Surface the directory entry itself, but don't descend.
			if err := fn(path, info, nil); err != nil {
				return err
			}

			return filepath.SkipDir
		}

		return fn(path, info, nil)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(_ context.Context, path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// HashFile returns the SHA-256 hash of the file at the provided path.
func (a *LocalSourceFSAdapter) HashFile(_ context.Context, path m.Path) (string, error) {
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

// FindCrateRoot searches for a Cargo.toml walking up the directory tree.
func (a *LocalSourceFSAdapter) FindCrateRoot(_ context.Context, startPath m.Path) (m.Path, error) {
	dir := string(startPath)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		manifest := filepath.Join(dir, "Cargo.toml")
		if _, err := os.Stat(manifest); err == nil {
			return m.Path(dir), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("Cargo.toml not found in any parent directory of %s", startPath)
		}

		dir = parent
	}
}

// CreateTempDir creates a temporary directory for mutation testing.
func (a *LocalSourceFSAdapter) CreateTempDir(_ context.Context, pattern string) (m.Path, error) {
	tmpDir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return "", err
	}

	return m.Path(tmpDir), nil
}

// RemoveAll removes a directory and all its contents.
func (a *LocalSourceFSAdapter) RemoveAll(_ context.Context, path m.Path) error {
	return os.RemoveAll(string(path))
}

// CopyDir recursively copies a crate tree, skipping directories that a
// fresh cargo invocation will recreate.
func (a *LocalSourceFSAdapter) CopyDir(ctx context.Context, src, dst m.Path) error {
	return filepath.Walk(string(src), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		relPath, err := filepath.Rel(string(src), path)
		if err != nil {
			return err
		}

		if info.IsDir() {
			baseName := filepath.Base(path)
			if baseName == ".git" || baseName == "target" || baseName == "node_modules" {
				return filepath.SkipDir
			}
		}

		targetPath := filepath.Join(string(dst), relPath)

		if info.IsDir() {
			return os.MkdirAll(targetPath, info.Mode())
		}

		return a.copyFile(path, targetPath, info.Mode())
	})
}

// copyFile copies a single file.
func (a *LocalSourceFSAdapter) copyFile(src, dst string, mode os.FileMode) error {
	// #nosec G304 - src is internal project file path, not user input
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}

	defer func() { _ = sourceFile.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}

	// #nosec G304 - dst is internal destination path, not user input
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
func (a *LocalSourceFSAdapter) WriteFile(_ context.Context, path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// RelPath returns the relative path from base to target.
func (a *LocalSourceFSAdapter) RelPath(_ context.Context, base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(_ context.Context, elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}

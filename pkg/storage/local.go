package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/agropazar/agropazar-backend/pkg/errors"
)

// Local is a disk-backed file store jailed to a single uploads root. All
// relative paths pass through Resolve, which is the only place the
// traversal-safety invariant is enforced.
type Local struct {
	root string
}

// NewLocal canonicalizes the root directory, creating it if absent.
func NewLocal(root string) (*Local, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("uploads root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving uploads root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads root: %w", err)
	}
	return &Local{root: abs}, nil
}

// Root returns the canonical uploads root.
func (l *Local) Root() string {
	return l.root
}

// Resolve maps a relative path onto the uploads root. Any path that
// normalizes outside the root is rejected with a forbidden error before any
// filesystem access happens.
func (l *Local) Resolve(rel string) (string, error) {
	cleaned := filepath.Clean(strings.TrimSpace(rel))
	if cleaned == "" || cleaned == "." || filepath.IsAbs(cleaned) {
		return "", pkgerrors.New(pkgerrors.CodeForbidden, "invalid file path")
	}
	abs := filepath.Join(l.root, cleaned)
	if !strings.HasPrefix(abs, l.root+string(filepath.Separator)) {
		return "", pkgerrors.New(pkgerrors.CodeForbidden, "path escapes upload root")
	}
	return abs, nil
}

// Open returns a reader over the stored file. Missing or non-regular targets
// map to not-found.
func (l *Local) Open(rel string) (*os.File, os.FileInfo, error) {
	abs, err := l.Resolve(rel)
	if err != nil {
		return nil, nil, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "file not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stat file")
	}
	if !info.Mode().IsRegular() {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "file not found")
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open file")
	}
	return f, info, nil
}

// Save writes the reader's content to the relative path, creating parent
// directories on demand. Returns the number of bytes written.
func (l *Local) Save(rel string, r io.Reader) (int64, error) {
	abs, err := l.Resolve(rel)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create upload directory")
	}

	f, err := os.Create(abs)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create file")
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write file")
	}
	return written, nil
}

// Remove deletes the stored file. Missing files are not an error; removal is
// used in cleanup paths that must be idempotent.
func (l *Local) Remove(rel string) error {
	abs, err := l.Resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove file")
	}
	return nil
}

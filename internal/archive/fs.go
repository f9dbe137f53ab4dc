package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to the archive root
}

// Verify *FS satisfies Provider at compile time.
var _ Provider = (*FS)(nil)

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("archive: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("archive: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("archive: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// safePath resolves a relative path against the archive root and rejects
// any result that escapes it (directory traversal).
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return f.root, nil
	}
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("archive: absolute paths not allowed: %s", rel)
	}
	joined := filepath.Join(f.root, cleaned)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("archive: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("archive: path escapes archive root: %s", rel)
	}
	return abs, nil
}

// EnsurePath creates (or finds) the folder chain for segments and returns
// its root-relative path.
func (f *FS) EnsurePath(segments []string) (string, error) {
	if len(segments) == 0 {
		return "", fmt.Errorf("archive: no path segments")
	}
	for _, seg := range segments {
		if seg == "" || strings.ContainsAny(seg, `/\`) {
			return "", fmt.Errorf("archive: bad path segment %q", seg)
		}
	}
	rel := filepath.Join(segments...)
	abs, err := f.safePath(rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("archive: ensure %s: %w", rel, err)
	}
	return rel, nil
}

// ListChildren returns the names of the direct children of a folder.
func (f *FS) ListChildren(rel string) ([]string, error) {
	abs, err := f.safePath(rel)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("archive: list %s: %w", rel, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

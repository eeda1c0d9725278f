package scratch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrTooLarge is returned when a write exceeds the configured limit.
var ErrTooLarge = errors.New("file too large")

// Dir hands out request-scoped temporary files and directories under a single root.
// Callers own what they get back and must remove it.
type Dir struct {
	root     string
	maxBytes int64
}

// New prepares root (os.TempDir() when empty). maxBytes <= 0 disables the size bound.
func New(root string, maxBytes int64) (*Dir, error) {
	if root == "" {
		root = os.TempDir()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("prepare scratch dir: %w", err)
	}
	return &Dir{root: root, maxBytes: maxBytes}, nil
}

func (d *Dir) Root() string { return d.root }

// MaxBytes is the per-file limit, 0 when unbounded.
func (d *Dir) MaxBytes() int64 { return d.maxBytes }

// Save writes r into a new uniquely named file that keeps the extension of name.
// Nothing is left behind when Save fails.
func (d *Dir) Save(name string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	dst := filepath.Join(d.root, "upload-"+uuid.NewString()+ext)
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if err := CopyAtMost(f, r, d.maxBytes); err != nil {
		f.Close()
		os.Remove(dst)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return dst, nil
}

// MkdirTemp creates a fresh directory under the root.
func (d *Dir) MkdirTemp(prefix string) (string, error) {
	dir, err := os.MkdirTemp(d.root, prefix+"-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	return dir, nil
}

// Remove deletes a file or directory tree created by this Dir. Missing paths are not an error.
func (d *Dir) Remove(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// CopyAtMost copies src into dst, failing with ErrTooLarge once more than max bytes arrive.
func CopyAtMost(dst io.Writer, src io.Reader, max int64) error {
	if max <= 0 {
		if _, err := io.Copy(dst, src); err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		return nil
	}
	n, err := io.Copy(dst, io.LimitReader(src, max+1))
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if n > max {
		return fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, max)
	}
	return nil
}

// Package fsutil holds the file writing primitives shared by everything that
// publishes into the output tree.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Permissions of published directories and files.
const (
	DirMode  = 0o755
	FileMode = 0o644
)

// WriteAtomic creates parent directories, writes through a temporary file in
// the target directory and renames it into place. Readers never observe a
// partially written file. Errors from fill are returned as *os.PathError for path.
func WriteAtomic(path string, fill func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	// MkdirAll tolerates concurrent callers creating the same parents.
	if err := os.MkdirAll(dir, DirMode); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := fill(tmp); err != nil {
		_ = tmp.Close()
		return &os.PathError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &os.PathError{Op: "write", Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, FileMode); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

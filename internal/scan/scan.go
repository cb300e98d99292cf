// Package scan reads one level of the source tree into typed entries.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// DescriptorName is the reserved file name that marks a directory as a collection.
const DescriptorName = "index.md"

var (
	// ErrDirectoryRead indicates the base directory could not be opened or listed.
	ErrDirectoryRead = errors.New("failed to open directory")

	// ErrEntryRead indicates the metadata of a single entry could not be read.
	ErrEntryRead = errors.New("failed to read entry metadata")

	// ErrPathEncoding indicates an entry name is not valid UTF-8.
	ErrPathEncoding = errors.New("entry name is not valid UTF-8")
)

var imageExtensions = map[string]struct{}{
	"webp": {},
	"jpeg": {},
	"png":  {},
	"jpg":  {},
}

// Entry is one child of a scanned directory.
type Entry struct {
	Name  string // path relative to the scanned base (a single component)
	Path  string // base joined with Name
	IsDir bool
}

// IsImage reports whether the entry has one of the recognised image extensions.
func (e Entry) IsImage() bool {
	_, ext := SplitExt(e.Name)
	if ext == "" {
		return false
	}
	_, ok := imageExtensions[strings.ToLower(ext)]
	return ok
}

// IsDescriptor reports whether the entry is the collection descriptor file.
func (e Entry) IsDescriptor() bool {
	return !e.IsDir && e.Name == DescriptorName
}

func (e Entry) String() string { return e.Path }

// ReadDir lists base non-recursively. Entries are returned in name order and
// symlinks are followed when deciding whether an entry is a directory. A
// dangling symlink is reported as a non-directory entry.
func ReadDir(base string) ([]Entry, error) {
	children, err := os.ReadDir(base)
	if err != nil {
		return nil, &fs.PathError{Op: "readdir", Path: base, Err: fmt.Errorf("%w: %w", ErrDirectoryRead, unwrapPathError(err))}
	}

	entries := make([]Entry, 0, len(children))
	for _, child := range children {
		name := child.Name()
		full := filepath.Join(base, name)
		if !utf8.ValidString(name) {
			return nil, &fs.PathError{Op: "decode", Path: full, Err: ErrPathEncoding}
		}

		info, err := os.Stat(full)
		if errors.Is(err, fs.ErrNotExist) && child.Type()&fs.ModeSymlink != 0 {
			info, err = child.Info()
		}
		if err != nil {
			return nil, &fs.PathError{Op: "stat", Path: full, Err: fmt.Errorf("%w: %w", ErrEntryRead, unwrapPathError(err))}
		}

		entries = append(entries, Entry{
			Name:  name,
			Path:  full,
			IsDir: info.IsDir(),
		})
	}
	return entries, nil
}

// SplitExt splits a file name into stem and extension (without the dot).
// A leading dot does not start an extension, so ".hidden" has none.
func SplitExt(name string) (stem, ext string) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return name, ""
	}
	return name[:i], name[i+1:]
}

// unwrapPathError drops the os-level *fs.PathError so the path is not reported twice.
func unwrapPathError(err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}

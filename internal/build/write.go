package build

import (
	"bytes"
	"io"
	"os"

	"git.home.luguber.info/inful/gallerybuilder/internal/fsutil"
	"git.home.luguber.info/inful/gallerybuilder/internal/thumbnail"
)

// writeIfChanged writes content to path unless the file already holds exactly
// content. Leaving identical files untouched keeps their modification time stable
// across runs.
func writeIfChanged(path string, content []byte) (bool, error) {
	// #nosec G304 -- path is inside the configured output root.
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, content) {
		return false, nil
	}
	if err := fsutil.WriteAtomic(path, func(w io.Writer) error {
		_, err := w.Write(content)
		return err
	}); err != nil {
		return false, err
	}
	return true, nil
}

// copyIfStale copies src to dst when dst is missing or older than src.
func copyIfStale(src, dst string) (bool, error) {
	if !thumbnail.NeedsUpdate(src, dst) {
		return false, nil
	}
	// #nosec G304 -- src comes from scanning the configured input tree.
	in, err := os.Open(src)
	if err != nil {
		return false, err
	}
	defer func() { _ = in.Close() }()

	if err := fsutil.WriteAtomic(dst, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	}); err != nil {
		return false, err
	}
	return true, nil
}

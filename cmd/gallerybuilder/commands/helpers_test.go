package commands

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/gallerybuilder/internal/foundation/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	img := image.NewNRGBA(image.Rect(0, 0, 32, 24))
	for y := range 24 {
		for x := range 32 {
			img.Set(x, y, color.NRGBA{R: uint8(x * 8), G: uint8(y * 10), B: 40, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

// workspace switches into an empty directory so no configuration or .env
// file from the repository is picked up, and returns a source tree in it.
func workspace(t *testing.T) (src, out string) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	src = filepath.Join(dir, "photos")
	writePNG(t, filepath.Join(src, "Fuji, Japan", "Summit.png"))
	writePNG(t, filepath.Join(src, "Fuji, Japan", "Valley.png"))
	writeFile(t, filepath.Join(src, "Fuji, Japan", "index.md"),
		"---\ntitle: Fuji, Japan\ndate: 2021-01-01\nfeatured: [Summit]\n---\nA long climb.\n")
	writePNG(t, filepath.Join(src, "Alps", "Ridge Line.png"))
	writeFile(t, filepath.Join(src, "Alps", "index.md"), "---\ntitle: Alps\ndate: 2019-07-14\n---\n")
	return src, filepath.Join(dir, "public")
}

// run parses args and executes the selected command, returning its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cli := &CLI{}
	parser, err := NewParser(cli, kong.Exit(func(code int) { t.Fatalf("unexpected exit %d", code) }))
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)

	var out bytes.Buffer
	err = kctx.Run(&Global{Out: &out}, cli)
	return out.String(), err
}

// categoryOf returns the foundation category of a classified error.
func categoryOf(t *testing.T, err error) ferrors.ErrorCategory {
	t.Helper()
	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok, "error is not classified: %v", err)
	return classified.Category()
}

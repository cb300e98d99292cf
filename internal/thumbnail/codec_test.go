package thumbnail

import (
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/gallerybuilder/internal/fsutil"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestImagingCodec_FitsWithinBounds(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "wide.png")
	writePNG(t, src, 800, 200)
	out := filepath.Join(dir, "thumbs", "nested", "wide.jpg")

	err := NewImagingCodec().Generate(context.Background(), Job{Source: src, Output: out})
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := jpeg.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 100, cfg.Height)

	leftovers, err := filepath.Glob(filepath.Join(dir, "thumbs", "nested", ".tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)

	// Thumbnail directories get the same permissions as the rest of the published tree.
	ref := filepath.Join(dir, "ref")
	require.NoError(t, os.Mkdir(ref, fsutil.DirMode))
	want, err := os.Stat(ref)
	require.NoError(t, err)
	got, err := os.Stat(filepath.Dir(out))
	require.NoError(t, err)
	assert.Equal(t, want.Mode().Perm(), got.Mode().Perm())
}

func TestImagingCodec_DoesNotUpscale(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "small.png")
	writePNG(t, src, 120, 80)
	out := filepath.Join(dir, "small.jpg")

	require.NoError(t, NewImagingCodec().Generate(context.Background(), Job{Source: src, Output: out}))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := jpeg.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Width)
	assert.Equal(t, 80, cfg.Height)
}

func TestImagingCodec_CorruptSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.jpg")
	require.NoError(t, os.WriteFile(src, []byte("not an image"), 0o600))
	out := filepath.Join(dir, "broken-thumb.jpg")

	err := NewImagingCodec().Generate(context.Background(), Job{Source: src, Output: out})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCodec)
	assert.NoFileExists(t, out)
}

func TestImagingCodec_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := NewImagingCodec().Generate(context.Background(), Job{
		Source: filepath.Join(dir, "missing.jpg"),
		Output: filepath.Join(dir, "out.jpg"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NotErrorIs(t, err, ErrCodec)
}

func TestImagingCodec_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewImagingCodec().Generate(ctx, Job{Source: "unused", Output: "unused"})
	assert.ErrorIs(t, err, context.Canceled)
}

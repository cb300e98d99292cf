package build

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/gallerybuilder/internal/config"
	"git.home.luguber.info/inful/gallerybuilder/internal/gallery"
	"git.home.luguber.info/inful/gallerybuilder/internal/render"
	"git.home.luguber.info/inful/gallerybuilder/internal/thumbnail"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	img := image.NewNRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 5), B: 90, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

// sourceTree creates two collections and one scratch directory.
func sourceTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "Fuji, Japan", "Valley.png"))
	writePNG(t, filepath.Join(root, "Fuji, Japan", "Summit.png"))
	writeFile(t, filepath.Join(root, "Fuji, Japan", "index.md"),
		"---\ntitle: Fuji, Japan\ndate: 2021-01-01\nfeatured: [Summit]\n---\nA long climb.\n")
	writePNG(t, filepath.Join(root, "Alps", "Ridge Line.png"))
	writeFile(t, filepath.Join(root, "Alps", "index.md"), "---\ntitle: Alps\ndate: 2019-07-14\n---\n")
	writePNG(t, filepath.Join(root, "scratch", "loose.png"))
	return root
}

func assemble(t *testing.T, root string) *gallery.Gallery {
	t.Helper()
	g, err := gallery.Assemble(root)
	require.NoError(t, err)
	return g
}

func testConfig(input, output string, policy config.BuildPolicy) *config.Config {
	cfg := &config.Config{Input: input, Output: output}
	cfg.Build.Policy = policy
	cfg.Build.Workers = 2
	config.ApplyDefaults(cfg)
	return cfg
}

func templates(t *testing.T) *render.Templates {
	t.Helper()
	tpl, err := render.Load("")
	require.NoError(t, err)
	return tpl
}

// fakeCodec writes a marker file per job and fails for images named in failOn.
type fakeCodec struct {
	mu       sync.Mutex
	failOn   map[string]bool
	attempts []string
}

func (f *fakeCodec) Generate(ctx context.Context, job thumbnail.Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	f.attempts = append(f.attempts, job.Image)
	f.mu.Unlock()
	if f.failOn[job.Image] {
		return thumbnail.ErrCodec
	}
	if err := os.MkdirAll(filepath.Dir(job.Output), 0o750); err != nil {
		return err
	}
	return os.WriteFile(job.Output, []byte("thumb:"+job.Image), 0o600)
}

func (f *fakeCodec) Attempts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.attempts...)
}

// readTree returns every .html file under root keyed by relative path.
func readHTML(t *testing.T, root string) map[string][]byte {
	t.Helper()
	out := map[string][]byte{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".html") {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		out[filepath.ToSlash(rel)] = content
		return nil
	})
	require.NoError(t, err)
	return out
}

package scan

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDir(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "Valley"), 0o750))
	for _, name := range []string{"Summit.webp", "index.md", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(base, name), []byte("x"), 0o600))
	}

	entries, err := ReadDir(base)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	byName := map[string]Entry{}
	for _, e := range entries {
		byName[e.Name] = e
		assert.Equal(t, filepath.Join(base, e.Name), e.Path)
	}

	assert.True(t, byName["Valley"].IsDir)
	assert.False(t, byName["Summit.webp"].IsDir)
	assert.True(t, byName["Summit.webp"].IsImage())
	assert.True(t, byName["index.md"].IsDescriptor())
	assert.False(t, byName["notes.txt"].IsImage())
	assert.False(t, byName["notes.txt"].IsDescriptor())
}

func TestReadDir_NonRecursive(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "a", "b"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(base, "a", "b", "deep.jpg"), []byte("x"), 0o600))

	entries, err := ReadDir(base)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].Name)
}

func TestReadDir_FollowsSymlinks(t *testing.T) {
	base := t.TempDir()
	target := t.TempDir()
	if err := os.Symlink(target, filepath.Join(base, "linked")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	entries, err := ReadDir(base)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsDir)
}

func TestReadDir_Errors(t *testing.T) {
	t.Run("missing base", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "nope")
		_, err := ReadDir(missing)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDirectoryRead)
		assert.ErrorIs(t, err, fs.ErrNotExist)

		var pe *fs.PathError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, missing, pe.Path)
	})
}

func TestReadDir_DanglingSymlink(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "Summit.jpg"), []byte("x"), 0o600))
	if err := os.Symlink(filepath.Join(base, "gone"), filepath.Join(base, ".DS_link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	entries, err := ReadDir(base)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ".DS_link", entries[0].Name)
	assert.False(t, entries[0].IsDir)
	assert.False(t, entries[0].IsImage())
	assert.Equal(t, "Summit.jpg", entries[1].Name)
}

func TestEntryPredicates(t *testing.T) {
	tests := []struct {
		name       string
		entry      Entry
		image      bool
		descriptor bool
	}{
		{"webp", Entry{Name: "a.webp"}, true, false},
		{"upper case jpg", Entry{Name: "IMG_0001.JPG"}, true, false},
		{"mixed case jpeg", Entry{Name: "b.JpEg"}, true, false},
		{"png", Entry{Name: "c.png"}, true, false},
		{"gif not supported", Entry{Name: "d.gif"}, false, false},
		{"no extension", Entry{Name: "jpg"}, false, false},
		{"dot file", Entry{Name: ".jpg"}, false, false},
		{"descriptor", Entry{Name: "index.md"}, false, true},
		{"descriptor name on a directory", Entry{Name: "index.md", IsDir: true}, false, false},
		{"other markdown", Entry{Name: "README.md"}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.image, tt.entry.IsImage())
			assert.Equal(t, tt.descriptor, tt.entry.IsDescriptor())
		})
	}
}

func TestSplitExt(t *testing.T) {
	cases := map[string][2]string{
		"Summit.webp":    {"Summit", "webp"},
		"archive.tar.gz": {"archive.tar", "gz"},
		".hidden":        {".hidden", ""},
		"plain":          {"plain", ""},
		"trailing.":      {"trailing", ""},
	}
	for in, want := range cases {
		stem, ext := SplitExt(in)
		assert.Equal(t, want[0], stem, in)
		assert.Equal(t, want[1], ext, in)
	}
}

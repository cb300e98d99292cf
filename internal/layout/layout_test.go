package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/gallerybuilder/internal/slug"
)

func TestPaths(t *testing.T) {
	page, err := CollectionPage("Fuji, Japan")
	require.NoError(t, err)
	assert.Equal(t, "collection/fuji-japan.html", page)

	album, err := Album("Fuji, Japan", "Summit Ridge.webp")
	require.NoError(t, err)
	assert.Equal(t, "data/albums/fuji-japan/Summit Ridge.webp", album)

	thumb, err := Thumbnail("Fuji, Japan", "Summit Ridge.webp")
	require.NoError(t, err)
	assert.Equal(t, "data/thumbnails/fuji-japan/summit-ridge.jpg", thumb)
}

func TestThumbnail_ForcesJPEGExtension(t *testing.T) {
	for _, name := range []string{"a.png", "a.PNG", "a.jpeg", "a.jpg", "a.webp"} {
		thumb, err := Thumbnail("c", name)
		require.NoError(t, err)
		assert.Equal(t, "data/thumbnails/c/a.jpg", thumb, name)
	}
}

func TestPaths_RejectBadComponents(t *testing.T) {
	_, err := CollectionPage("a/b")
	assert.ErrorIs(t, err, slug.ErrInvalidPathShape)

	_, err = Album("c", "../escape.jpg")
	assert.ErrorIs(t, err, slug.ErrInvalidPathShape)

	_, err = Album("c", "")
	assert.ErrorIs(t, err, slug.ErrInvalidPathShape)

	_, err = Thumbnail("c", "x/y.jpg")
	assert.ErrorIs(t, err, slug.ErrInvalidPathShape)
}

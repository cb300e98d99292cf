// Package layout names the files a build writes, relative to the output root.
//
// All returned paths use forward slashes so they can be used both as URLs in
// rendered pages and, after filepath.FromSlash, as filesystem paths.
package layout

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/gallerybuilder/internal/scan"
	"git.home.luguber.info/inful/gallerybuilder/internal/slug"
)

const (
	GalleryPage     = "gallery.html"
	CollectionsPage = "collections.html"
	CollectionDir   = "collection"
	AlbumsDir       = "data/albums"
	ThumbnailsDir   = "data/thumbnails"

	// ThumbnailExt is forced on every thumbnail regardless of the source format.
	ThumbnailExt = "jpg"
)

// CollectionPage returns collection/<slug>.html.
func CollectionPage(collectionPath string) (string, error) {
	s, err := slug.ToWebPath(collectionPath)
	if err != nil {
		return "", err
	}
	return path.Join(CollectionDir, s+".html"), nil
}

// Album returns data/albums/<slug>/<fileName>. The original file name is kept.
func Album(collectionPath, fileName string) (string, error) {
	s, err := slug.ToWebPath(collectionPath)
	if err != nil {
		return "", err
	}
	if err := singleComponent(fileName); err != nil {
		return "", err
	}
	return path.Join(AlbumsDir, s, fileName), nil
}

// Thumbnail returns data/thumbnails/<slug>/<slug(stem)>.jpg.
func Thumbnail(collectionPath, fileName string) (string, error) {
	dir, err := slug.ToWebPath(collectionPath)
	if err != nil {
		return "", err
	}
	name, err := slug.ToWebPath(fileName)
	if err != nil {
		return "", err
	}
	stem, _ := scan.SplitExt(name)
	return path.Join(ThumbnailsDir, dir, stem+"."+ThumbnailExt), nil
}

func singleComponent(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		return &fs.PathError{Op: "layout", Path: name, Err: slug.ErrInvalidPathShape}
	}
	return nil
}

// Package gallery builds the in-memory model of a photo gallery from a source tree.
//
// The input root's immediate subdirectories are candidate collections. A directory
// is a collection only if it holds a descriptor (scan.DescriptorName); everything
// else is skipped without error.
package gallery

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"git.home.luguber.info/inful/gallerybuilder/internal/descriptor"
	"git.home.luguber.info/inful/gallerybuilder/internal/logfields"
	"git.home.luguber.info/inful/gallerybuilder/internal/scan"
	"git.home.luguber.info/inful/gallerybuilder/internal/slug"
)

var (
	// ErrMetadataParse indicates a descriptor was present but could not be loaded.
	ErrMetadataParse = errors.New("failed to parse collection descriptor")

	// ErrStemDecode indicates an image file name has no usable stem.
	ErrStemDecode = errors.New("failed to decode image name")
)

// Gallery is the ordered set of collections found under one input root.
type Gallery struct {
	Root        string
	Collections []*Collection
}

// Collection is one photo set.
type Collection struct {
	Path           string // single directory name under the input root
	Dir            string // full source directory
	Title          string
	Date           descriptor.Date
	Images         []Image
	Featured       []string
	Description    string
	DescriptorPath string
	Fingerprint    string
}

// Image is one source photograph inside a collection.
type Image struct {
	Name     string // file name without extension
	FileName string // file name including extension
	Path     string // full source path
}

// NewImage builds an Image from its file name and full path.
func NewImage(fileName, path string) (Image, error) {
	if !utf8.ValidString(fileName) {
		return Image{}, fmt.Errorf("%w: %q is not valid UTF-8", ErrStemDecode, fileName)
	}
	stem, _ := scan.SplitExt(fileName)
	if stem == "" {
		return Image{}, fmt.Errorf("%w: %q has an empty stem", ErrStemDecode, fileName)
	}
	return Image{Name: stem, FileName: fileName, Path: path}, nil
}

// BuildCollection turns the entries of one candidate directory into a Collection.
// It returns nil, nil when the directory has no descriptor.
func BuildCollection(dirName string, entries []scan.Entry) (*Collection, error) {
	var (
		desc   *scan.Entry
		images []Image
	)
	for i := range entries {
		e := entries[i]
		switch {
		case e.IsDir:
			continue
		case e.IsDescriptor():
			desc = &entries[i]
		case e.IsImage():
			img, err := NewImage(e.Name, e.Path)
			if err != nil {
				return nil, err
			}
			images = append(images, img)
		}
	}
	if desc == nil {
		return nil, nil
	}

	d, err := descriptor.Load(desc.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMetadataParse, err)
	}

	sortImages(images)
	if images == nil {
		images = []Image{}
	}

	return &Collection{
		Path:           dirName,
		Dir:            filepath.Dir(desc.Path),
		Title:          d.Title,
		Date:           d.Date,
		Images:         images,
		Featured:       filterFeatured(dirName, d.Featured, images),
		Description:    d.Description,
		DescriptorPath: desc.Path,
		Fingerprint:    d.Fingerprint,
	}, nil
}

// Assemble scans root and returns every collection below it, most recent first.
func Assemble(root string) (*Gallery, error) {
	top, err := scan.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var collections []*Collection
	for _, child := range top {
		if !child.IsDir {
			continue
		}
		entries, err := scan.ReadDir(child.Path)
		if err != nil {
			return nil, fmt.Errorf("collection %s: %w", child.Name, err)
		}
		c, err := BuildCollection(child.Name, entries)
		if err != nil {
			return nil, fmt.Errorf("collection %s: %w", child.Name, err)
		}
		if c == nil {
			slog.Debug("Skipping directory without descriptor", logfields.Path(child.Path))
			continue
		}
		collections = append(collections, c)
	}

	sortCollections(collections)
	return &Gallery{Root: root, Collections: collections}, nil
}

// Slug returns the URL segment of the collection.
func (c *Collection) Slug() (string, error) {
	return slug.ToWebPath(c.Path)
}

// Image returns the image with the given name.
func (c *Collection) Image(name string) (Image, bool) {
	for _, img := range c.Images {
		if img.Name == name {
			return img, true
		}
	}
	return Image{}, false
}

// FeaturedImages returns the featured images in the order the descriptor lists them.
func (c *Collection) FeaturedImages() []Image {
	out := make([]Image, 0, len(c.Featured))
	for _, name := range c.Featured {
		if img, ok := c.Image(name); ok {
			out = append(out, img)
		}
	}
	return out
}

func sortImages(images []Image) {
	slices.SortStableFunc(images, func(a, b Image) int {
		if n := strings.Compare(a.Name, b.Name); n != 0 {
			return n
		}
		return strings.Compare(a.FileName, b.FileName)
	})
}

func sortCollections(collections []*Collection) {
	slices.SortStableFunc(collections, func(a, b *Collection) int {
		if n := b.Date.Compare(a.Date); n != 0 {
			return n
		}
		return strings.Compare(a.Path, b.Path)
	})
}

func filterFeatured(dirName string, featured []string, images []Image) []string {
	out := make([]string, 0, len(featured))
	seen := make(map[string]struct{}, len(featured))
	for _, name := range featured {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if !slices.ContainsFunc(images, func(img Image) bool { return img.Name == name }) {
			slog.Warn("Featured image not found in collection",
				logfields.Collection(dirName),
				logfields.Image(name))
			continue
		}
		out = append(out, name)
	}
	return out
}

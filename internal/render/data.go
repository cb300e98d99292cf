package render

import (
	"html/template"
	"net/url"
	"strings"

	"git.home.luguber.info/inful/gallerybuilder/internal/gallery"
	"git.home.luguber.info/inful/gallerybuilder/internal/layout"
	"git.home.luguber.info/inful/gallerybuilder/internal/slug"
)

// ImageData describes one image. Every link is relative to the page it is rendered on.
type ImageData struct {
	Name       string
	Collection string
	FileName   string // link to the copied original
	Thumbnail  string
	Link       string // collection page, anchored at this image
	Anchor     string
}

// CollectionData describes one collection.
type CollectionData struct {
	Title       string // empty when it would only repeat the single image's name
	Date        string
	HumanDate   string
	Description template.HTML
	Images      []ImageData
	Cover       *ImageData
	URL         string
	Fingerprint string
}

// GalleryData feeds gallery.html and collections.html.
type GalleryData struct {
	Root        string
	SiteTitle   string
	PageTitle   string
	Collections []CollectionData
	Featured    []ImageData
}

// CollectionPageData feeds collection/<slug>.html.
type CollectionPageData struct {
	Root       string
	SiteTitle  string
	PageTitle  string
	Collection CollectionData
}

// NewGalleryData projects g for a page at the output root.
func NewGalleryData(siteTitle, pageTitle string, g *gallery.Gallery) (GalleryData, error) {
	data := GalleryData{
		SiteTitle:   siteTitle,
		PageTitle:   pageTitle,
		Collections: make([]CollectionData, 0, len(g.Collections)),
	}
	for _, c := range g.Collections {
		cd, err := newCollectionData(c, "")
		if err != nil {
			return GalleryData{}, err
		}
		data.Collections = append(data.Collections, cd)
		for _, img := range c.FeaturedImages() {
			id, err := newImageData(c, img, "")
			if err != nil {
				return GalleryData{}, err
			}
			data.Featured = append(data.Featured, id)
		}
	}
	return data, nil
}

// NewCollectionPageData projects c for its own page one level below the output root.
func NewCollectionPageData(siteTitle string, c *gallery.Collection) (CollectionPageData, error) {
	const root = "../"
	cd, err := newCollectionData(c, root)
	if err != nil {
		return CollectionPageData{}, err
	}
	title := cd.Title
	if title == "" {
		title = c.Title
	}
	return CollectionPageData{
		Root:       root,
		SiteTitle:  siteTitle,
		PageTitle:  title + " - " + siteTitle,
		Collection: cd,
	}, nil
}

func newCollectionData(c *gallery.Collection, root string) (CollectionData, error) {
	page, err := layout.CollectionPage(c.Path)
	if err != nil {
		return CollectionData{}, err
	}
	cd := CollectionData{
		Title:       displayTitle(c),
		Date:        c.Date.String(),
		HumanDate:   c.Date.Human(),
		Description: template.HTML(c.Description), // #nosec G203 -- goldmark output with raw HTML disabled
		Images:      make([]ImageData, 0, len(c.Images)),
		URL:         root + escapePath(page),
		Fingerprint: c.Fingerprint,
	}
	for _, img := range c.Images {
		id, err := newImageData(c, img, root)
		if err != nil {
			return CollectionData{}, err
		}
		cd.Images = append(cd.Images, id)
	}
	if featured := c.FeaturedImages(); len(featured) > 0 {
		cover, err := newImageData(c, featured[0], root)
		if err != nil {
			return CollectionData{}, err
		}
		cd.Cover = &cover
	} else if len(cd.Images) > 0 {
		cover := cd.Images[0]
		cd.Cover = &cover
	}
	return cd, nil
}

func newImageData(c *gallery.Collection, img gallery.Image, root string) (ImageData, error) {
	album, err := layout.Album(c.Path, img.FileName)
	if err != nil {
		return ImageData{}, err
	}
	thumb, err := layout.Thumbnail(c.Path, img.FileName)
	if err != nil {
		return ImageData{}, err
	}
	page, err := layout.CollectionPage(c.Path)
	if err != nil {
		return ImageData{}, err
	}
	anchor := slug.Slugify(img.Name)
	return ImageData{
		Name:       img.Name,
		Collection: c.Title,
		FileName:   root + escapePath(album),
		Thumbnail:  root + escapePath(thumb),
		Link:       root + escapePath(page) + "#" + anchor,
		Anchor:     anchor,
	}, nil
}

// displayTitle drops the title when the collection is a single image of the same name.
func displayTitle(c *gallery.Collection) string {
	if len(c.Images) == 1 && c.Images[0].Name == c.Title {
		return ""
	}
	return c.Title
}

// escapePath percent-encodes each segment of a slash-separated relative path.
func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

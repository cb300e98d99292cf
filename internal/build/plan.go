package build

import (
	"path/filepath"

	"git.home.luguber.info/inful/gallerybuilder/internal/gallery"
	"git.home.luguber.info/inful/gallerybuilder/internal/layout"
	"git.home.luguber.info/inful/gallerybuilder/internal/thumbnail"
)

// CopyJob copies one source file into the album directory.
type CopyJob struct {
	Source string
	Output string
}

// CollectionPlan is everything a build would write for one collection.
type CollectionPlan struct {
	Collection *gallery.Collection
	Page       string // output path of the collection page
	Thumbnails []thumbnail.Job
	Copies     []CopyJob // every original plus the descriptor
}

// PlanCollection computes output paths for c under outputRoot and the stale thumbnails.
func PlanCollection(c *gallery.Collection, outputRoot string) (*CollectionPlan, error) {
	page, err := layout.CollectionPage(c.Path)
	if err != nil {
		return nil, err
	}
	jobs, err := thumbnail.Plan(c, outputRoot)
	if err != nil {
		return nil, err
	}

	p := &CollectionPlan{
		Collection: c,
		Page:       filepath.Join(outputRoot, filepath.FromSlash(page)),
		Thumbnails: jobs,
		Copies:     make([]CopyJob, 0, len(c.Images)+1),
	}
	for _, img := range c.Images {
		dst, err := layout.Album(c.Path, img.FileName)
		if err != nil {
			return nil, err
		}
		p.Copies = append(p.Copies, CopyJob{Source: img.Path, Output: filepath.Join(outputRoot, filepath.FromSlash(dst))})
	}
	if c.DescriptorPath != "" {
		dst, err := layout.Album(c.Path, filepath.Base(c.DescriptorPath))
		if err != nil {
			return nil, err
		}
		p.Copies = append(p.Copies, CopyJob{Source: c.DescriptorPath, Output: filepath.Join(outputRoot, filepath.FromSlash(dst))})
	}
	return p, nil
}

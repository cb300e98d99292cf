// Package thumbnail decides which thumbnails are stale and regenerates them.
package thumbnail

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/gallerybuilder/internal/gallery"
	"git.home.luguber.info/inful/gallerybuilder/internal/layout"
)

// Job pairs a source image with the thumbnail that should be written for it.
type Job struct {
	Collection string
	Image      string
	Source     string
	Output     string
}

// Plan returns a job for every image of c whose thumbnail under outputRoot is
// missing or older than the source. The only error is a path that cannot be slugified.
func Plan(c *gallery.Collection, outputRoot string) ([]Job, error) {
	jobs := make([]Job, 0, len(c.Images))
	for _, img := range c.Images {
		rel, err := layout.Thumbnail(c.Path, img.FileName)
		if err != nil {
			return nil, err
		}
		out := filepath.Join(outputRoot, filepath.FromSlash(rel))
		if !NeedsUpdate(img.Path, out) {
			continue
		}
		jobs = append(jobs, Job{
			Collection: c.Path,
			Image:      img.Name,
			Source:     img.Path,
			Output:     out,
		})
	}
	return jobs, nil
}

// NeedsUpdate reports whether output must be (re)generated from source.
//
// A missing output always needs an update. When either modification time cannot
// be read the answer is true. Otherwise output is stale only if source is strictly
// newer.
func NeedsUpdate(source, output string) bool {
	out, err := os.Stat(output)
	if err != nil {
		return true
	}
	src, err := os.Stat(source)
	if err != nil {
		return true
	}
	return src.ModTime().After(out.ModTime())
}

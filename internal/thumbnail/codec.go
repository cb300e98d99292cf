package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register the webp decoder

	"git.home.luguber.info/inful/gallerybuilder/internal/fsutil"
)

// ErrCodec indicates a source image could not be decoded or a thumbnail encoded.
var ErrCodec = errors.New("image codec failure")

// Defaults for generated thumbnails.
const (
	DefaultMaxWidth  = 400
	DefaultMaxHeight = 400
	DefaultQuality   = 40
)

// Codec materialises thumbnail jobs.
type Codec interface {
	Generate(ctx context.Context, job Job) error
}

// ImagingCodec resizes with disintegration/imaging and writes JPEG output.
type ImagingCodec struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

// NewImagingCodec returns a codec with the default bounds and quality.
func NewImagingCodec() *ImagingCodec {
	return &ImagingCodec{
		MaxWidth:  DefaultMaxWidth,
		MaxHeight: DefaultMaxHeight,
		Quality:   DefaultQuality,
	}
}

// Generate decodes job.Source, fits it within the configured bounds preserving
// aspect ratio and writes it to job.Output. The output is replaced atomically.
func (c *ImagingCodec) Generate(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// #nosec G304 -- source comes from scanning the configured input tree.
	f, err := os.Open(job.Source)
	if err != nil {
		return err
	}
	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	_ = f.Close()
	if err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrCodec, job.Source, err)
	}

	thumb := imaging.Fit(img, c.MaxWidth, c.MaxHeight, imaging.Lanczos)

	return fsutil.WriteAtomic(job.Output, func(w io.Writer) error {
		if err := imaging.Encode(w, thumb, imaging.JPEG, imaging.JPEGQuality(c.Quality)); err != nil {
			return fmt.Errorf("%w: encode: %w", ErrCodec, err)
		}
		return nil
	})
}

package commands

import (
	"context"
	"errors"
	"io/fs"

	"git.home.luguber.info/inful/gallerybuilder/internal/config"
	"git.home.luguber.info/inful/gallerybuilder/internal/descriptor"
	ferrors "git.home.luguber.info/inful/gallerybuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/gallerybuilder/internal/gallery"
	"git.home.luguber.info/inful/gallerybuilder/internal/render"
	"git.home.luguber.info/inful/gallerybuilder/internal/scan"
	"git.home.luguber.info/inful/gallerybuilder/internal/slug"
	"git.home.luguber.info/inful/gallerybuilder/internal/thumbnail"
)

var errInvalidUsage = errors.New("invalid usage")

type classification struct {
	build    func(message string) *ferrors.ErrorBuilder
	message  string
	sentinel []error
}

// An interrupted run is reported, not treated as a failure of the tool.
func interrupted(message string) *ferrors.ErrorBuilder {
	return ferrors.RuntimeError(message).Warning()
}

// Checked in order: a best_effort build joins several failures and the first
// matching class decides the exit code.
var classes = []classification{
	{ferrors.ValidationError, "cannot run command", []error{errInvalidUsage}},
	{ferrors.ConfigError, "cannot load configuration", []error{config.ErrNotFound, config.ErrInvalid}},
	{ferrors.MetadataError, "cannot read gallery", []error{gallery.ErrMetadataParse, descriptor.ErrInvalid}},
	{ferrors.PathError, "cannot read gallery", []error{
		scan.ErrDirectoryRead, scan.ErrEntryRead, scan.ErrPathEncoding,
		slug.ErrInvalidPathShape, slug.ErrEncoding, gallery.ErrStemDecode,
	}},
	{ferrors.CodecError, "build failed", []error{thumbnail.ErrCodec}},
	{ferrors.RenderError, "build failed", []error{render.ErrRender}},
	{interrupted, "interrupted", []error{context.Canceled, context.DeadlineExceeded}},
}

// Classify attaches a foundation category to err so the CLI adapter can pick
// an exit code. Errors that already carry a category keep it.
func Classify(err error) error {
	if err == nil {
		return err
	}
	if c, ok := ferrors.AsClassified(err); ok {
		if error(c) == err {
			return err
		}
		return ferrors.WrapError(err, c.Category(), "command failed").WithSeverity(c.Severity()).Build()
	}
	for _, c := range classes {
		for _, s := range c.sentinel {
			if errors.Is(err, s) {
				return c.build(c.message).WithCause(err).Build()
			}
		}
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return ferrors.FileSystemError("filesystem operation failed").WithCause(err).
			WithContext("path", pathErr.Path).Build()
	}
	return ferrors.InternalError("unexpected failure").WithCause(err).Build()
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/gallerybuilder/internal/config"
	ferrors "git.home.luguber.info/inful/gallerybuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/gallerybuilder/internal/gallery"
	"git.home.luguber.info/inful/gallerybuilder/internal/render"
	"git.home.luguber.info/inful/gallerybuilder/internal/scan"
	"git.home.luguber.info/inful/gallerybuilder/internal/thumbnail"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category ferrors.ErrorCategory
		severity ferrors.ErrorSeverity
		exit     int
	}{
		{"usage", fmt.Errorf("%w: input is required", errInvalidUsage), ferrors.CategoryValidation, ferrors.SeverityFatal, 2},
		{"config", config.ErrNotFound, ferrors.CategoryConfig, ferrors.SeverityFatal, 7},
		{"descriptor", fmt.Errorf("collection a: %w", gallery.ErrMetadataParse), ferrors.CategoryMetadata, ferrors.SeverityError, 3},
		{"source tree", scan.ErrPathEncoding, ferrors.CategoryPath, ferrors.SeverityError, 3},
		{"codec", thumbnail.ErrCodec, ferrors.CategoryCodec, ferrors.SeverityError, 11},
		{"render", render.ErrRender, ferrors.CategoryRender, ferrors.SeverityError, 11},
		{"interrupted", context.Canceled, ferrors.CategoryRuntime, ferrors.SeverityWarning, 12},
		{"output", &fs.PathError{Op: "write", Path: "/out/x", Err: fs.ErrPermission}, ferrors.CategoryFileSystem, ferrors.SeverityError, 11},
		{"unknown", errors.New("boom"), ferrors.CategoryInternal, ferrors.SeverityFatal, 10},
	}
	adapter := ferrors.NewCLIErrorAdapter(false, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified, ok := ferrors.AsClassified(Classify(tt.err))
			require.True(t, ok)
			assert.Equal(t, tt.category, classified.Category())
			assert.Equal(t, tt.severity, classified.Severity())
			assert.ErrorIs(t, classified, tt.err)
			assert.Equal(t, tt.exit, adapter.ExitCodeFor(classified))
		})
	}
}

func TestClassify_KeepsExistingCategory(t *testing.T) {
	assert.NoError(t, Classify(nil))

	inner := ferrors.HistoryError("locked").Build()
	assert.Same(t, inner, Classify(inner))

	wrapped := Classify(fmt.Errorf("record build: %w", inner))
	classified, ok := ferrors.AsClassified(wrapped)
	require.True(t, ok)
	assert.Equal(t, ferrors.CategoryHistory, classified.Category())
	assert.Equal(t, "command failed", classified.Message())
}

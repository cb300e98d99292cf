package errors

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"validation", ValidationError("bad flag").Build(), 2},
		{"path", PathError("unreadable").Build(), 3},
		{"metadata", MetadataError("bad descriptor").Build(), 3},
		{"config", ConfigError("bad config").Build(), 7},
		{"codec", CodecError("decode failed").Build(), 11},
		{"render", RenderError("missing field").Build(), 11},
		{"internal", InternalError("bug").Build(), 10},
		{"unclassified", errors.New("unknown error"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	cause := errors.New("no such file")
	err := WrapError(cause, CategoryPath, "failed to open directory").
		WithContext("path", "/photos").
		Build()

	quiet := NewCLIErrorAdapter(false, slog.Default()).FormatError(err)
	if quiet != "Error: failed to open directory: no such file" {
		t.Errorf("unexpected non-verbose message %q", quiet)
	}

	verbose := NewCLIErrorAdapter(true, slog.Default()).FormatError(err)
	if !strings.Contains(verbose, "path=/photos") {
		t.Errorf("expected verbose message to include context, got %q", verbose)
	}

	if got := NewCLIErrorAdapter(false, nil).FormatError(nil); got != "" {
		t.Errorf("expected empty string for nil error, got %q", got)
	}
}

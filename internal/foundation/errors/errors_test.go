package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "gallerybuilder.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}

		if file := err.Context()["file"]; file != "gallerybuilder.yaml" {
			t.Errorf("expected context file=gallerybuilder.yaml, got %v", file)
		}
	})

	t.Run("Error string carries context and cause", func(t *testing.T) {
		cause := errors.New("unexpected key \"colour\"")
		err := WrapError(cause, CategoryMetadata, "invalid collection descriptor").
			WithContext("collection", "fuji").
			Build()

		want := "[metadata] invalid collection descriptor collection=fuji: unexpected key \"colour\""
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		err := fmt.Errorf("build: %w", RenderError("template failed").Build())

		classified, ok := AsClassified(err)
		if !ok {
			t.Fatal("expected wrapped error to be classified")
		}
		if classified.Category() != CategoryRender {
			t.Errorf("expected render category, got %s", classified.Category())
		}
		if _, ok := AsClassified(errors.New("plain")); ok {
			t.Error("expected plain errors to be unclassified")
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Wrapping keeps the cause reachable", func(t *testing.T) {
		originalErr := errors.New("permission denied")
		err := WrapError(originalErr, CategoryFileSystem, "write failed").
			Warning().
			WithContext("path", "/tmp/out").
			Build()

		if err.Severity() != SeverityWarning {
			t.Errorf("expected severity %s, got %s", SeverityWarning, err.Severity())
		}
		if !errors.Is(err, originalErr) {
			t.Error("expected error to wrap original error")
		}
	})

	t.Run("Convenience constructors", func(t *testing.T) {
		tests := []struct {
			name     string
			builder  *ErrorBuilder
			category ErrorCategory
			severity ErrorSeverity
		}{
			{"ConfigError", ConfigError("test"), CategoryConfig, SeverityFatal},
			{"ValidationError", ValidationError("test"), CategoryValidation, SeverityFatal},
			{"PathError", PathError("test"), CategoryPath, SeverityError},
			{"MetadataError", MetadataError("test"), CategoryMetadata, SeverityError},
			{"CodecError", CodecError("test"), CategoryCodec, SeverityError},
			{"RenderError", RenderError("test"), CategoryRender, SeverityError},
			{"FileSystemError", FileSystemError("test"), CategoryFileSystem, SeverityError},
			{"InternalError", InternalError("test"), CategoryInternal, SeverityFatal},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.builder.Build()
				if err.Category() != tt.category {
					t.Errorf("expected category %s, got %s", tt.category, err.Category())
				}
				if err.Severity() != tt.severity {
					t.Errorf("expected severity %s, got %s", tt.severity, err.Severity())
				}
			})
		}
	})
}

func TestErrorContext(t *testing.T) {
	var ctx ErrorContext
	ctx = ctx.Set("key", "value").Set("key", "overridden")
	if len(ctx) != 1 || ctx["key"] != "overridden" {
		t.Errorf("expected a single overridden key, got %v", ctx)
	}
}

func TestWithCause(t *testing.T) {
	cause := errors.New("database is locked")
	err := HistoryError("failed to append build event").
		WithCause(cause).
		WithContext("build_id", "b-1").
		Build()

	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be reachable via errors.Is")
	}
	if err.Category() != CategoryHistory {
		t.Errorf("expected category %s, got %s", CategoryHistory, err.Category())
	}
	if err.Severity() == SeverityFatal {
		t.Errorf("history errors should not be fatal by default")
	}
	if RuntimeError("watcher failed").Build().Category() != CategoryRuntime {
		t.Errorf("expected runtime category")
	}
}

// Package errors provides the classified error primitives used across the gallery builder.
//
// Domain packages keep their own sentinel errors (for errors.Is matching); the
// command layer lifts them into ClassifiedError values so that the CLI can pick
// an exit code and a log level per category.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryMetadata, "invalid collection descriptor").
//		WithContext("collection", "2021-01-01 Fuji").
//		Build()
package errors

// Package errors defines error types for process-backed streams.
//
// Every failure that ends a stream is reported as one of the structured
// types in this package. All error types support error unwrapping and can be
// checked using errors.Is, errors.As, and errors.AsType.
package errors

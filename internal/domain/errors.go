package domain

import "errors"

var (
	// ErrModelNotFound signals a missing model artifact for a variant.
	ErrModelNotFound = errors.New("model not found")
	// ErrModelCorrupt signals an unreadable model artifact.
	ErrModelCorrupt = errors.New("model corrupt")
	// ErrKeyNotFound signals a missing key in the embedding store.
	ErrKeyNotFound = errors.New("key not found")
	// ErrMetadataNotFound signals a missing article metadata record.
	ErrMetadataNotFound = errors.New("metadata not found")
	// ErrEmptyQuery signals a request without the required query argument.
	ErrEmptyQuery = errors.New("empty query")
	// ErrUnknownCategory signals an unrecognized result category name.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrDimMismatch signals a vector of the wrong dimensionality.
	ErrDimMismatch = errors.New("vector dimension mismatch")
)

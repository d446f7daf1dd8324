package abi

import "errors"

// Container and metadata errors.
var (
	// ErrMalformedContainer is returned when the object-code container fails
	// structural validation (bad ELF header, section table out of bounds,
	// section or note data past the end of the buffer).
	ErrMalformedContainer = errors.New("abi: malformed object-code container")

	// ErrMissingMetadata is returned when the container has no metadata note.
	ErrMissingMetadata = errors.New("abi: missing pipeline metadata")

	// ErrMalformedMetadata is returned when the metadata stream cannot be
	// decoded or a known field has the wrong type.
	ErrMalformedMetadata = errors.New("abi: malformed pipeline metadata")
)

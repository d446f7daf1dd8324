package gfxpipe

import (
	"errors"

	"github.com/gogpu/gfxpipe/abi"
	"github.com/gogpu/gfxpipe/platform"
)

// Ingestion errors. Errors returned by Init match exactly one of these with
// errors.Is, except failures of the HardwareInitializer, which are returned
// unchanged.
var (
	// ErrInvalidInput is returned when the pipeline binary is missing or
	// empty, or when no CreateInfo is given.
	ErrInvalidInput = errors.New("gfxpipe: invalid input")

	// ErrOutOfMemory is returned when the binary copy cannot be allocated.
	ErrOutOfMemory = platform.ErrOutOfMemory

	// ErrMalformedContainer is returned when the pipeline ELF is invalid.
	ErrMalformedContainer = abi.ErrMalformedContainer

	// ErrMissingMetadata is returned when the pipeline ELF has no metadata.
	ErrMissingMetadata = abi.ErrMissingMetadata

	// ErrMalformedMetadata is returned when the metadata cannot be decoded.
	ErrMalformedMetadata = abi.ErrMalformedMetadata

	// ErrAlreadyInitialized is returned by a second call to Init.
	ErrAlreadyInitialized = errors.New("gfxpipe: pipeline already initialized")
)

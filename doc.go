// Package gfxpipe ingests compiled graphics pipeline binaries.
//
// # Overview
//
// A pipeline binary is an ELF object-code container produced by the shader
// compiler. It carries machine code for each hardware stage and a msgpack
// metadata note describing the pipeline. gfxpipe copies the binary, checks
// the container, decodes the metadata and merges it with the client's
// creation parameters into an immutable [Descriptor]. The descriptor is
// handed to a device-specific [HardwareInitializer], which programs the
// hardware.
//
// # Quick Start
//
//	p := gfxpipe.NewGraphicsPipeline(gfxpipe.WithHardwareInitializer(dev))
//	defer p.Destroy()
//
//	err := p.Init(&gfxpipe.CreateInfo{PipelineBinary: elfBytes}, nil)
//	if err != nil {
//	    return err
//	}
//	desc, _ := p.Descriptor()
//
// # Ingestion
//
// Init is a strict linear sequence with no retries:
//
//	Uninitialized -> BinaryOwned -> ContainerValidated -> MetadataDecoded
//	  -> DescriptorDerived -> HandedToDeviceInit -> Ready | Failed
//
// The first error stops the sequence. Errors match [ErrInvalidInput],
// [ErrOutOfMemory], [ErrMalformedContainer], [ErrMissingMetadata] or
// [ErrMalformedMetadata] with errors.Is; hardware initializer errors are
// returned unchanged.
//
// # Architecture
//
// The library is organized into:
//   - gfxpipe: pipeline object, creation parameters, descriptor derivation
//   - abi: ELF container reader and metadata decoder
//   - platform: budgeted allocator with category tags
//   - layers: call identifiers used by instrumentation layers
//
// # Concurrency
//
// Independent pipelines may be ingested concurrently; they share nothing
// but the allocator, which is safe for concurrent use. A derived
// Descriptor is a plain value and may be read from any goroutine.
package gfxpipe

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)

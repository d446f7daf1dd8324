package gfxpipe

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/gogpu/gfxpipe/abi"
	"github.com/gogpu/gfxpipe/platform"
)

// HardwareInitializer programs device state from an ingested pipeline.
//
// InitHardware runs once, after the descriptor is derived and before the
// pipeline becomes ready. The reader and metadata stay valid for the life
// of the pipeline; info is only valid during the call. A non-nil error
// fails Init and is returned to the caller unchanged.
type HardwareInitializer interface {
	InitHardware(info *CreateInfo, reader *abi.Reader, md *abi.CodeObjectMetadata, desc Descriptor) error
}

// HardwareInitializerFunc adapts a function to HardwareInitializer.
type HardwareInitializerFunc func(info *CreateInfo, reader *abi.Reader, md *abi.CodeObjectMetadata, desc Descriptor) error

// InitHardware calls f.
func (f HardwareInitializerFunc) InitHardware(info *CreateInfo, reader *abi.Reader, md *abi.CodeObjectMetadata, desc Descriptor) error {
	return f(info, reader, md, desc)
}

// nopInitializer accepts every pipeline.
type nopInitializer struct{}

func (nopInitializer) InitHardware(*CreateInfo, *abi.Reader, *abi.CodeObjectMetadata, Descriptor) error {
	return nil
}

// GraphicsPipeline owns a pipeline binary and the descriptor derived from it.
//
// Init ingests the binary in one synchronous call. A GraphicsPipeline must
// not be initialized or destroyed concurrently with other use, but once
// Init has succeeded the Descriptor may be read from any goroutine.
type GraphicsPipeline struct {
	allocator platform.Allocator
	hwInit    HardwareInitializer
	internal  bool

	binary []byte
	state  IngestState
	desc   Descriptor

	destroyed bool
}

// NewGraphicsPipeline creates an uninitialized pipeline.
func NewGraphicsPipeline(opts ...Option) *GraphicsPipeline {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.allocator == nil {
		o.allocator = platform.Default()
	}
	if o.hwInit == nil {
		o.hwInit = nopInitializer{}
	}
	return &GraphicsPipeline{
		allocator: o.allocator,
		hwInit:    o.hwInit,
		internal:  o.internal,
	}
}

// Init copies the pipeline binary, validates it, decodes its metadata,
// derives the descriptor and hands everything to the hardware initializer.
//
// The first failure aborts ingestion and moves the pipeline to StateFailed;
// no descriptor is exposed. A binary copied before the failure stays owned
// by the pipeline until Destroy. internal may be nil.
func (p *GraphicsPipeline) Init(info *CreateInfo, internal *InternalCreateInfo) error {
	if p.state != StateUninitialized || p.destroyed {
		return ErrAlreadyInitialized
	}

	if err := p.ingest(info, internal); err != nil {
		Logger().Warn("gfxpipe: pipeline ingestion failed",
			"state", p.state.String(),
			"err", err)
		p.state = StateFailed
		return err
	}

	p.state = StateReady
	Logger().Info("gfxpipe: pipeline ready",
		"name", p.desc.Name,
		"color_targets", p.desc.NumColorTargets,
		"binary_bytes", len(p.binary))
	return nil
}

func (p *GraphicsPipeline) ingest(info *CreateInfo, internal *InternalCreateInfo) error {
	if info == nil {
		return fmt.Errorf("%w: nil create info", ErrInvalidInput)
	}
	if internal == nil {
		internal = &InternalCreateInfo{}
	}

	if err := p.ownBinary(info.PipelineBinary); err != nil {
		return err
	}
	p.advance(StateBinaryOwned)

	reader, err := abi.NewReader(p.binary)
	if err != nil {
		return err
	}
	p.advance(StateContainerValidated)

	md, err := reader.DecodeMetadata()
	if err != nil {
		return err
	}
	p.advance(StateMetadataDecoded)

	desc := deriveDescriptor(&md, info, internal)
	p.advance(StateDescriptorDerived)

	p.advance(StateHandedToDeviceInit)
	if err := p.hwInit.InitHardware(info, reader, &md, desc); err != nil {
		return err
	}

	p.desc = desc
	return nil
}

func (p *GraphicsPipeline) advance(s IngestState) {
	p.state = s
	Logger().Debug("gfxpipe: ingestion", "state", s.String())
}

// ownBinary copies src into memory obtained from the pipeline's allocator.
// Nothing is allocated for an empty src, and nothing is retained on failure.
func (p *GraphicsPipeline) ownBinary(src []byte) error {
	if len(src) == 0 {
		return fmt.Errorf("%w: empty pipeline binary", ErrInvalidInput)
	}

	buf, err := p.allocator.Alloc(len(src), platform.AllocInternal)
	switch {
	case errors.Is(err, ErrOutOfMemory):
		return fmt.Errorf("gfxpipe: copy pipeline binary: %w", err)
	case err != nil:
		return fmt.Errorf("%w: copy pipeline binary: %v", ErrOutOfMemory, err)
	case len(buf) != len(src):
		p.allocator.Free(buf)
		return fmt.Errorf("%w: allocator returned %d bytes, want %d", ErrOutOfMemory, len(buf), len(src))
	}

	copy(buf, src)
	p.binary = buf
	return nil
}

// State returns the ingestion state.
func (p *GraphicsPipeline) State() IngestState { return p.state }

// Descriptor returns the derived descriptor. ok is false unless Init
// succeeded and the pipeline has not been destroyed.
func (p *GraphicsPipeline) Descriptor() (desc Descriptor, ok bool) {
	if p.state != StateReady || p.destroyed {
		return Descriptor{}, false
	}
	return p.desc, true
}

// Name returns the pipeline name, or "" before Init succeeds.
func (p *GraphicsPipeline) Name() string {
	if p.state != StateReady {
		return ""
	}
	return p.desc.Name
}

// Binary returns a copy of the pipeline's private binary, or nil if the
// pipeline owns none.
func (p *GraphicsPipeline) Binary() []byte {
	if p.binary == nil {
		return nil
	}
	return bytes.Clone(p.binary)
}

// BinarySize returns the length of the owned binary.
func (p *GraphicsPipeline) BinarySize() int { return len(p.binary) }

// IsInternal reports whether the pipeline was created WithInternal.
func (p *GraphicsPipeline) IsInternal() bool { return p.internal }

// Destroy releases the pipeline's binary. It is safe to call more than once.
func (p *GraphicsPipeline) Destroy() {
	if p.binary != nil {
		p.allocator.Free(p.binary)
		p.binary = nil
	}
	p.destroyed = true
}

package gfxpipe

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/gfxpipe/abi"
)

// Flags are the capability bits derived for a pipeline.
type Flags struct {
	// GsEnabled is set when the geometry stage has a shader.
	GsEnabled bool

	// TessEnabled is set when both hull and domain stages have shaders.
	TessEnabled bool

	// VportArrayIdx mirrors the pipeline's viewport array index usage.
	VportArrayIdx bool

	// Pixel stage resource usage, copied from its metadata record.
	PsUsesUAVs          bool
	PsUsesROVs          bool
	PsWritesUAVs        bool
	PsWritesDepth       bool
	PsUsesAppendConsume bool

	PerpLineEndCaps  bool
	LateAllocVsLimit bool

	// Internal pipeline kinds.
	FastClearElim    bool
	FmaskDecompress  bool
	DccDecompress    bool
	ResolveFixedFunc bool
}

// Descriptor is the immutable summary of a graphics pipeline produced by
// Init and consumed by the hardware initializer.
type Descriptor struct {
	// Name is the pipeline name from metadata, or "unnamed".
	Name string

	LogicOp           LogicOp
	BinningOverride   BinningOverride
	LateAllocVsLimit  uint32
	VertexBufferCount uint32

	TargetFormats    [MaxColorTargets]SwizzledFormat
	TargetWriteMasks [MaxColorTargets]gputypes.ColorWriteMask

	// NumColorTargets is one past the highest slot with a defined format or
	// a non-zero write mask. Empty slots below it are not filled in.
	NumColorTargets uint32

	ViewInstancing ViewInstancingDesc

	Flags Flags
}

// deriveDescriptor merges decoded metadata with the creation parameters.
func deriveDescriptor(md *abi.CodeObjectMetadata, info *CreateInfo, internal *InternalCreateInfo) Descriptor {
	d := Descriptor{
		Name:              md.Pipeline.DisplayName(),
		LogicOp:           info.ColorBlend.LogicOp,
		BinningOverride:   info.Raster.BinningOverride,
		LateAllocVsLimit:  info.LateAllocVsLimit,
		VertexBufferCount: info.InputAssembly.VertexBufferCount,
		ViewInstancing:    info.ViewInstancing,
	}

	d.Flags.PerpLineEndCaps = info.Raster.PerpLineEndCapsEnable
	d.Flags.LateAllocVsLimit = info.UseLateAllocVsLimit
	d.Flags.FastClearElim = internal.Flags.FastClearElim
	d.Flags.FmaskDecompress = internal.Flags.FmaskDecompress
	d.Flags.DccDecompress = internal.Flags.DccDecompress
	d.Flags.ResolveFixedFunc = internal.Flags.ResolveFixedFunc

	for i := range info.ColorBlend.Targets {
		t := &info.ColorBlend.Targets[i]
		d.TargetFormats[i] = t.SwizzledFormat
		d.TargetWriteMasks[i] = t.ChannelWriteMask
		if !t.SwizzledFormat.IsUndefined() || t.ChannelWriteMask != gputypes.ColorWriteMaskNone {
			d.NumColorTargets = uint32(i + 1)
		}
	}

	d.ViewInstancing.ViewInstanceCount = max(d.ViewInstancing.ViewInstanceCount, 1)

	p := &md.Pipeline
	d.Flags.GsEnabled = p.Stage(abi.HardwareStageGeometry).Hash.IsNonZero()
	d.Flags.TessEnabled = p.Stage(abi.HardwareStageHull).Hash.IsNonZero() &&
		p.Stage(abi.HardwareStageDomain).Hash.IsNonZero()
	d.Flags.VportArrayIdx = p.Flags.UsesViewportArrayIndex

	ps := p.Stage(abi.HardwareStagePixel).Flags
	d.Flags.PsUsesUAVs = ps.UsesUAVs
	d.Flags.PsUsesROVs = ps.UsesROVs
	d.Flags.PsWritesUAVs = ps.WritesUAVs
	d.Flags.PsWritesDepth = ps.WritesDepth
	d.Flags.PsUsesAppendConsume = ps.UsesAppendConsume

	return d
}

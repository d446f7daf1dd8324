package gfxpipe

import "github.com/gogpu/gputypes"

// Fixed array bounds of the creation parameters.
const (
	// MaxColorTargets is the number of color target slots.
	MaxColorTargets = 8

	// MaxViewInstanceCount is the number of view instances a pipeline may
	// render in one pass.
	MaxViewInstanceCount = 6
)

// LogicOp is the raster operation applied to color target writes.
type LogicOp uint8

// Logic operations.
const (
	LogicOpCopy LogicOp = iota
	LogicOpClear
	LogicOpAnd
	LogicOpAndReverse
	LogicOpAndInverted
	LogicOpNoop
	LogicOpXor
	LogicOpOr
	LogicOpNor
	LogicOpEquiv
	LogicOpInvert
	LogicOpOrReverse
	LogicOpCopyInverted
	LogicOpOrInverted
	LogicOpNand
	LogicOpSet
)

// BinningOverride forces primitive binning on or off for a pipeline.
type BinningOverride uint8

// Binning overrides.
const (
	// BinningOverrideDefault leaves the decision to the device.
	BinningOverrideDefault BinningOverride = iota
	BinningOverrideDisable
	BinningOverrideEnable
)

// ChannelSwizzle selects the source of one output channel.
type ChannelSwizzle uint8

// Channel swizzles.
const (
	ChannelSwizzleZero ChannelSwizzle = iota
	ChannelSwizzleOne
	ChannelSwizzleX
	ChannelSwizzleY
	ChannelSwizzleZ
	ChannelSwizzleW
)

// ChannelMapping is the per-channel swizzle of a format.
type ChannelMapping struct {
	R, G, B, A ChannelSwizzle
}

// SwizzledFormat is a texture format plus channel swizzle.
type SwizzledFormat struct {
	Format  gputypes.TextureFormat
	Swizzle ChannelMapping
}

// IsUndefined reports whether the format is gputypes.TextureFormatUndefined.
func (f SwizzledFormat) IsUndefined() bool {
	return f.Format == gputypes.TextureFormatUndefined
}

// ColorTarget describes one color target slot.
type ColorTarget struct {
	SwizzledFormat   SwizzledFormat
	ChannelWriteMask gputypes.ColorWriteMask
}

// ColorBlendState holds color target state.
type ColorBlendState struct {
	LogicOp LogicOp
	Targets [MaxColorTargets]ColorTarget
}

// RasterState holds rasterizer state relevant to ingestion.
type RasterState struct {
	BinningOverride       BinningOverride
	PerpLineEndCapsEnable bool
}

// InputAssemblyState holds input assembly state.
type InputAssemblyState struct {
	VertexBufferCount uint32
}

// ViewInstancingDesc describes multi-view rendering.
type ViewInstancingDesc struct {
	// ViewInstanceCount is the number of views. Zero is stored as one.
	ViewInstanceCount    uint32
	ViewID               [MaxViewInstanceCount]uint32
	RenderTargetArrayIdx [MaxViewInstanceCount]uint32
	ViewportArrayIdx     [MaxViewInstanceCount]uint32
	EnableMasking        bool
}

// CreateInfo holds the client-supplied parameters of a graphics pipeline.
type CreateInfo struct {
	// PipelineBinary is the compiled pipeline ELF. It is borrowed for the
	// duration of Init only; the pipeline keeps its own copy.
	PipelineBinary []byte

	ColorBlend    ColorBlendState
	Raster        RasterState
	InputAssembly InputAssemblyState

	UseLateAllocVsLimit bool
	LateAllocVsLimit    uint32

	ViewInstancing ViewInstancingDesc
}

// InternalFlags mark pipelines the driver creates for its own blits.
type InternalFlags struct {
	FastClearElim    bool
	FmaskDecompress  bool
	DccDecompress    bool
	ResolveFixedFunc bool
}

// InternalCreateInfo holds driver-internal creation parameters.
type InternalCreateInfo struct {
	Flags InternalFlags
}

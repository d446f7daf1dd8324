package gfxpipe

import "github.com/gogpu/gfxpipe/platform"

// Option configures a GraphicsPipeline during creation.
//
// Example:
//
//	heap := platform.NewHeap(platform.HeapConfig{MaxMemoryMB: 64})
//	p := gfxpipe.NewGraphicsPipeline(
//	    gfxpipe.WithAllocator(heap),
//	    gfxpipe.WithHardwareInitializer(device),
//	)
type Option func(*options)

// options holds optional configuration for pipeline creation.
type options struct {
	allocator platform.Allocator
	hwInit    HardwareInitializer
	internal  bool
}

// defaultOptions returns the default pipeline options.
func defaultOptions() options {
	return options{
		allocator: nil, // Will be set to platform.Default() if nil
		hwInit:    nil, // Will be set to a no-op initializer if nil
	}
}

// WithAllocator sets the allocator that holds the pipeline's binary copy.
// The allocator must outlive the pipeline.
func WithAllocator(a platform.Allocator) Option {
	return func(o *options) {
		o.allocator = a
	}
}

// WithHardwareInitializer sets the device-specific initializer that runs
// after the descriptor is derived.
func WithHardwareInitializer(h HardwareInitializer) Option {
	return func(o *options) {
		o.hwInit = h
	}
}

// WithInternal marks the pipeline as created by the driver for its own use.
func WithInternal() Option {
	return func(o *options) {
		o.internal = true
	}
}

package platform

import (
	"errors"
	"fmt"
	"sync"
)

// Allocation errors.
var (
	// ErrOutOfMemory is returned when an allocation cannot be satisfied.
	ErrOutOfMemory = errors.New("platform: out of memory")

	// ErrInvalidSize is returned for allocations of zero or negative size.
	ErrInvalidSize = errors.New("platform: invalid allocation size")

	// ErrHeapClosed is returned when allocating from a closed heap.
	ErrHeapClosed = errors.New("platform: heap closed")
)

// Default heap limits.
const (
	// DefaultMaxMemoryMB is the default heap budget (256 MB).
	DefaultMaxMemoryMB = 256

	// MinMemoryMB is the smallest budget a heap accepts (1 MB).
	MinMemoryMB = 1
)

// Category tags an allocation with the subsystem that owns it.
type Category uint8

// Allocation categories.
const (
	// AllocInternal is memory the driver keeps for its own bookkeeping,
	// such as the private copy of a pipeline binary.
	AllocInternal Category = iota

	// AllocObject backs API objects created on behalf of the client.
	AllocObject

	// AllocInternalTemp is short-lived scratch memory.
	AllocInternalTemp

	// CategoryCount is the number of categories.
	CategoryCount
)

var categoryNames = [...]string{
	"Internal",
	"Object",
	"InternalTemp",
}

var _ = [1]struct{}{}[len(categoryNames)-int(CategoryCount)]

// String returns the category name.
func (c Category) String() string {
	if c < CategoryCount {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

// Allocator provides raw memory with category tagging.
//
// Implementations must be safe for concurrent use. Free must accept any
// slice previously returned by Alloc exactly once; freeing anything else is
// a no-op.
type Allocator interface {
	Alloc(size int, category Category) ([]byte, error)
	Free(buf []byte)
}

// Stats contains heap usage statistics.
type Stats struct {
	// TotalBytes is the heap budget in bytes.
	TotalBytes uint64

	// UsedBytes is the currently allocated memory in bytes.
	UsedBytes uint64

	// AvailableBytes is the remaining budget.
	AvailableBytes uint64

	// Allocations is the number of live allocations.
	Allocations int

	// ByCategory is the number of live bytes per category.
	ByCategory [CategoryCount]uint64

	// Failures counts allocations rejected for lack of budget.
	Failures uint64
}

// String returns a human-readable summary.
func (s Stats) String() string {
	return fmt.Sprintf("Heap[%d/%d bytes, %d allocations, %d failures]",
		s.UsedBytes, s.TotalBytes, s.Allocations, s.Failures)
}

// HeapConfig holds configuration for creating a Heap.
type HeapConfig struct {
	// MaxMemoryMB is the heap budget in megabytes.
	// Defaults to DefaultMaxMemoryMB if < MinMemoryMB.
	MaxMemoryMB int
}

type heapEntry struct {
	size     uint64
	category Category
}

// Heap is a budgeted Allocator backed by the Go heap. It tracks every live
// allocation so usage can be reported per category.
//
// Heap is safe for concurrent use.
type Heap struct {
	mu sync.Mutex

	budgetBytes uint64
	usedBytes   uint64
	byCategory  [CategoryCount]uint64
	failures    uint64

	// Keyed by the first byte of each allocation; sizes are always > 0.
	live map[*byte]heapEntry

	closed bool
}

// NewHeap creates a heap with the given budget.
func NewHeap(config HeapConfig) *Heap {
	maxMB := config.MaxMemoryMB
	if maxMB < MinMemoryMB {
		maxMB = DefaultMaxMemoryMB
	}

	//nolint:gosec // G115: maxMB is bounded by MinMemoryMB minimum
	return &Heap{
		budgetBytes: uint64(maxMB) * 1024 * 1024,
		live:        make(map[*byte]heapEntry),
	}
}

var (
	defaultHeapOnce sync.Once
	defaultHeap     *Heap
)

// Default returns the process-wide heap used when no allocator is configured.
func Default() *Heap {
	defaultHeapOnce.Do(func() {
		defaultHeap = NewHeap(HeapConfig{})
	})
	return defaultHeap
}

// Alloc returns a zeroed buffer of size bytes tagged with category.
// It fails with ErrOutOfMemory when the request does not fit the budget.
func (h *Heap) Alloc(size int, category Category) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if category >= CategoryCount {
		category = AllocInternal
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHeapClosed
	}

	//nolint:gosec // G115: size checked positive above
	need := uint64(size)
	if need > h.budgetBytes-h.usedBytes {
		h.failures++
		return nil, fmt.Errorf("%w: need %d bytes, have %d bytes available",
			ErrOutOfMemory, need, h.budgetBytes-h.usedBytes)
	}

	buf := make([]byte, size)
	h.live[&buf[0]] = heapEntry{size: need, category: category}
	h.usedBytes += need
	h.byCategory[category] += need
	return buf, nil
}

// Free releases a buffer returned by Alloc. Unknown buffers are ignored.
func (h *Heap) Free(buf []byte) {
	if len(buf) == 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	entry, ok := h.live[&buf[0]]
	if !ok {
		return
	}
	delete(h.live, &buf[0])
	h.usedBytes -= entry.size
	h.byCategory[entry.category] -= entry.size
}

// Stats returns current usage statistics.
func (h *Heap) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()

	return Stats{
		TotalBytes:     h.budgetBytes,
		UsedBytes:      h.usedBytes,
		AvailableBytes: h.budgetBytes - h.usedBytes,
		Allocations:    len(h.live),
		ByCategory:     h.byCategory,
		Failures:       h.failures,
	}
}

// Close drops all tracking. Later allocations fail with ErrHeapClosed;
// later frees are no-ops.
func (h *Heap) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.live = nil
	h.usedBytes = 0
	h.byCategory = [CategoryCount]uint64{}
	h.closed = true
}

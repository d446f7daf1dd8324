package gfxpipe

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gfxpipe/abi"
	"github.com/gogpu/gfxpipe/internal/abitest"
	"github.com/gogpu/gfxpipe/platform"
)

// recordingAllocator counts calls and can be told to fail or to return a
// short buffer.
type recordingAllocator struct {
	mu     sync.Mutex
	allocs int
	frees  int
	live   int
	err    error
	short  bool
}

func newRecordingAllocator() *recordingAllocator { return &recordingAllocator{} }

func (a *recordingAllocator) Alloc(size int, _ platform.Category) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.allocs++
	if a.err != nil {
		return nil, a.err
	}
	a.live++
	if a.short {
		return make([]byte, size-1), nil
	}
	return make([]byte, size), nil
}

func (a *recordingAllocator) Free([]byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.frees++
	a.live--
}

func gfxPipeline() abitest.Pipeline {
	return abitest.Pipeline{
		Name: "gfx",
		Stages: map[abi.HardwareStage]abitest.Stage{
			abi.HardwareStageVertex: {Hash: abi.ShaderHash{Lower: 0xa1}, Code: []byte{1, 2, 3, 4}},
			abi.HardwareStagePixel: {
				Hash:  abi.ShaderHash{Lower: 0xb2},
				Flags: abi.StageFlags{WritesDepth: true},
				Code:  []byte{5, 6, 7, 8},
			},
		},
	}
}

func gfxBinary() []byte {
	return abitest.ELF(abitest.Container{Pipeline: gfxPipeline()})
}

func TestInitReady(t *testing.T) {
	alloc := newRecordingAllocator()
	p := NewGraphicsPipeline(WithAllocator(alloc))

	src := gfxBinary()
	want := bytes.Clone(src)
	info := &CreateInfo{PipelineBinary: src}
	info.ColorBlend.Targets[0].SwizzledFormat.Format = gputypes.TextureFormatBGRA8Unorm

	if err := p.Init(info, nil); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if p.State() != StateReady {
		t.Errorf("State() = %v, want Ready", p.State())
	}
	if p.Name() != "gfx" {
		t.Errorf("Name() = %q, want %q", p.Name(), "gfx")
	}

	d, ok := p.Descriptor()
	if !ok {
		t.Fatal("Descriptor() ok = false after successful Init")
	}
	if d.NumColorTargets != 1 || !d.Flags.PsWritesDepth || d.Flags.GsEnabled {
		t.Errorf("Descriptor() = %+v", d)
	}

	// The pipeline keeps its own copy; the caller's buffer may be reused.
	for i := range src {
		src[i] = 0
	}
	if got := p.Binary(); !bytes.Equal(got, want) {
		t.Error("Binary() changed after the caller's buffer was overwritten")
	}
	if p.BinarySize() != len(want) {
		t.Errorf("BinarySize() = %d, want %d", p.BinarySize(), len(want))
	}
	if alloc.allocs != 1 {
		t.Errorf("allocations = %d, want 1", alloc.allocs)
	}
}

func TestInitBinaryIsCopied(t *testing.T) {
	p := NewGraphicsPipeline(WithAllocator(newRecordingAllocator()))
	if err := p.Init(&CreateInfo{PipelineBinary: gfxBinary()}, nil); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	b := p.Binary()
	b[0] = 0
	if p.Binary()[0] != 0x7f {
		t.Error("Binary() returned the pipeline's private buffer")
	}
}

func TestInitInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		info *CreateInfo
	}{
		{"nil create info", nil},
		{"nil binary", &CreateInfo{}},
		{"empty binary", &CreateInfo{PipelineBinary: []byte{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alloc := newRecordingAllocator()
			p := NewGraphicsPipeline(WithAllocator(alloc))

			err := p.Init(tt.info, nil)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("Init() error = %v, want ErrInvalidInput", err)
			}
			if alloc.allocs != 0 {
				t.Errorf("allocations = %d, want 0", alloc.allocs)
			}
			if p.State() != StateFailed {
				t.Errorf("State() = %v, want Failed", p.State())
			}
		})
	}
}

func TestInitOutOfMemory(t *testing.T) {
	tests := []struct {
		name  string
		alloc *recordingAllocator
	}{
		{"out of memory", &recordingAllocator{err: platform.ErrOutOfMemory}},
		{"other allocator error", &recordingAllocator{err: platform.ErrHeapClosed}},
		{"short buffer", &recordingAllocator{short: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewGraphicsPipeline(WithAllocator(tt.alloc))

			err := p.Init(&CreateInfo{PipelineBinary: gfxBinary()}, nil)
			if !errors.Is(err, ErrOutOfMemory) {
				t.Fatalf("Init() error = %v, want ErrOutOfMemory", err)
			}
			if p.BinarySize() != 0 || p.Binary() != nil {
				t.Error("pipeline retained a binary after allocation failure")
			}
			if tt.alloc.live != 0 {
				t.Errorf("live allocations = %d, want 0", tt.alloc.live)
			}
			if _, ok := p.Descriptor(); ok {
				t.Error("Descriptor() ok = true after failure")
			}
		})
	}
}

func TestInitHeapBudget(t *testing.T) {
	heap := platform.NewHeap(platform.HeapConfig{MaxMemoryMB: platform.MinMemoryMB})
	big := make([]byte, 2*1024*1024)
	big[0] = 0x7f

	p := NewGraphicsPipeline(WithAllocator(heap))
	if err := p.Init(&CreateInfo{PipelineBinary: big}, nil); !errors.Is(err, ErrOutOfMemory) {
		t.Fatalf("Init() error = %v, want ErrOutOfMemory", err)
	}
	if s := heap.Stats(); s.UsedBytes != 0 || s.Failures != 1 {
		t.Errorf("heap stats = %v, want nothing used and one failure", s)
	}
}

func TestInitContainerErrors(t *testing.T) {
	tests := []struct {
		name    string
		binary  []byte
		wantErr error
	}{
		{"not elf", []byte("definitely not an ELF object"), ErrMalformedContainer},
		{"missing metadata", abitest.ELF(abitest.Container{Pipeline: gfxPipeline(), OmitMetadata: true}), ErrMissingMetadata},
		{"truncated metadata", abitest.ELF(abitest.Container{Metadata: abitest.Metadata(gfxPipeline())[:20]}), ErrMalformedMetadata},
		{"metadata not a map", abitest.ELF(abitest.Container{Metadata: []byte{0x93, 1, 2, 3}}), ErrMalformedMetadata},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alloc := newRecordingAllocator()
			called := false
			hw := HardwareInitializerFunc(func(*CreateInfo, *abi.Reader, *abi.CodeObjectMetadata, Descriptor) error {
				called = true
				return nil
			})
			p := NewGraphicsPipeline(WithAllocator(alloc), WithHardwareInitializer(hw))

			err := p.Init(&CreateInfo{PipelineBinary: tt.binary}, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Init() error = %v, want %v", err, tt.wantErr)
			}
			if called {
				t.Error("hardware initializer ran after a failed ingestion")
			}
			if p.State() != StateFailed {
				t.Errorf("State() = %v, want Failed", p.State())
			}
			if _, ok := p.Descriptor(); ok {
				t.Error("Descriptor() ok = true after failure")
			}
			if p.Name() != "" {
				t.Errorf("Name() = %q, want empty", p.Name())
			}

			// The copy taken before the failure is released by Destroy.
			if p.BinarySize() != len(tt.binary) {
				t.Errorf("BinarySize() = %d, want %d", p.BinarySize(), len(tt.binary))
			}
			p.Destroy()
			if alloc.live != 0 {
				t.Errorf("live allocations after Destroy = %d, want 0", alloc.live)
			}
		})
	}
}

func TestInitHardwareInitializer(t *testing.T) {
	var (
		gotDesc Descriptor
		gotVS   []byte
		gotInfo *CreateInfo
	)
	hw := HardwareInitializerFunc(func(info *CreateInfo, r *abi.Reader, md *abi.CodeObjectMetadata, d Descriptor) error {
		gotInfo = info
		gotDesc = d
		gotVS, _ = r.StageCode(abi.HardwareStageVertex)
		if md.Pipeline.Name != "gfx" {
			return fmt.Errorf("metadata name %q", md.Pipeline.Name)
		}
		return nil
	})

	p := NewGraphicsPipeline(WithAllocator(newRecordingAllocator()), WithHardwareInitializer(hw))
	info := &CreateInfo{PipelineBinary: gfxBinary(), LateAllocVsLimit: 9}
	if err := p.Init(info, nil); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	if gotInfo != info {
		t.Error("hardware initializer did not receive the caller's CreateInfo")
	}
	if !bytes.Equal(gotVS, []byte{1, 2, 3, 4}) {
		t.Errorf("vertex code = %x, want 01020304", gotVS)
	}
	d, _ := p.Descriptor()
	if gotDesc != d {
		t.Error("hardware initializer saw a different descriptor than Descriptor() returns")
	}
}

func TestInitHardwareInitializerError(t *testing.T) {
	errDevice := errors.New("device lost")
	hw := HardwareInitializerFunc(func(*CreateInfo, *abi.Reader, *abi.CodeObjectMetadata, Descriptor) error {
		return errDevice
	})

	p := NewGraphicsPipeline(WithAllocator(newRecordingAllocator()), WithHardwareInitializer(hw))
	err := p.Init(&CreateInfo{PipelineBinary: gfxBinary()}, nil)
	if err != errDevice {
		t.Fatalf("Init() error = %v, want %v unchanged", err, errDevice)
	}
	if p.State() != StateFailed {
		t.Errorf("State() = %v, want Failed", p.State())
	}
	if _, ok := p.Descriptor(); ok {
		t.Error("Descriptor() ok = true after hardware initializer failure")
	}
}

func TestInitInternalFlags(t *testing.T) {
	p := NewGraphicsPipeline(WithAllocator(newRecordingAllocator()), WithInternal())
	internal := &InternalCreateInfo{Flags: InternalFlags{FastClearElim: true, DccDecompress: true}}
	if err := p.Init(&CreateInfo{PipelineBinary: gfxBinary()}, internal); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if !p.IsInternal() {
		t.Error("IsInternal() = false, want true")
	}
	d, _ := p.Descriptor()
	if !d.Flags.FastClearElim || !d.Flags.DccDecompress || d.Flags.FmaskDecompress || d.Flags.ResolveFixedFunc {
		t.Errorf("internal flags = %+v", d.Flags)
	}
}

func TestInitTwice(t *testing.T) {
	p := NewGraphicsPipeline(WithAllocator(newRecordingAllocator()))
	if err := p.Init(&CreateInfo{PipelineBinary: gfxBinary()}, nil); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := p.Init(&CreateInfo{PipelineBinary: gfxBinary()}, nil); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("second Init() error = %v, want ErrAlreadyInitialized", err)
	}
	if p.State() != StateReady {
		t.Errorf("State() = %v, want Ready", p.State())
	}

	failed := NewGraphicsPipeline(WithAllocator(newRecordingAllocator()))
	_ = failed.Init(nil, nil)
	if err := failed.Init(&CreateInfo{PipelineBinary: gfxBinary()}, nil); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("Init() after failure error = %v, want ErrAlreadyInitialized", err)
	}
}

func TestDestroy(t *testing.T) {
	alloc := newRecordingAllocator()
	p := NewGraphicsPipeline(WithAllocator(alloc))
	if err := p.Init(&CreateInfo{PipelineBinary: gfxBinary()}, nil); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	p.Destroy()
	p.Destroy()

	if alloc.frees != 1 {
		t.Errorf("frees = %d, want 1", alloc.frees)
	}
	if p.Binary() != nil || p.BinarySize() != 0 {
		t.Error("binary still owned after Destroy")
	}
	if _, ok := p.Descriptor(); ok {
		t.Error("Descriptor() ok = true after Destroy")
	}
	if err := p.Init(&CreateInfo{PipelineBinary: gfxBinary()}, nil); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("Init() after Destroy error = %v, want ErrAlreadyInitialized", err)
	}

	fresh := NewGraphicsPipeline(WithAllocator(alloc))
	fresh.Destroy()
	if alloc.frees != 1 {
		t.Errorf("Destroy of an uninitialized pipeline freed memory")
	}
}

func TestInitConcurrent(t *testing.T) {
	heap := platform.NewHeap(platform.HeapConfig{MaxMemoryMB: 8})
	binary := gfxBinary()

	const n = 16
	pipelines := make([]*GraphicsPipeline, n)
	var wg sync.WaitGroup
	for i := range pipelines {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := NewGraphicsPipeline(WithAllocator(heap))
			info := &CreateInfo{PipelineBinary: binary}
			info.InputAssembly.VertexBufferCount = uint32(i)
			if err := p.Init(info, nil); err != nil {
				t.Errorf("Init() error = %v", err)
				return
			}
			pipelines[i] = p
		}(i)
	}
	wg.Wait()

	for i, p := range pipelines {
		if p == nil {
			continue
		}
		d, ok := p.Descriptor()
		if !ok || d.VertexBufferCount != uint32(i) || d.Name != "gfx" {
			t.Errorf("pipeline %d descriptor = %+v, ok = %v", i, d, ok)
		}
	}
	if got := heap.Stats().Allocations; got != n {
		t.Errorf("heap allocations = %d, want %d", got, n)
	}
	for _, p := range pipelines {
		if p != nil {
			p.Destroy()
		}
	}
	if got := heap.Stats().UsedBytes; got != 0 {
		t.Errorf("heap used after Destroy = %d, want 0", got)
	}
}

func TestIngestStateString(t *testing.T) {
	tests := []struct {
		s    IngestState
		want string
	}{
		{StateUninitialized, "Uninitialized"},
		{StateHandedToDeviceInit, "HandedToDeviceInit"},
		{StateReady, "Ready"},
		{StateFailed, "Failed"},
		{IngestState(42), "IngestState(42)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

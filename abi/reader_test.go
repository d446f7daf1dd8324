package abi_test

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gogpu/gfxpipe/abi"
	"github.com/gogpu/gfxpipe/internal/abitest"
)

var (
	vsCode = []byte{0xbf, 0x81, 0x00, 0x00, 0x01, 0x02}
	psCode = []byte{0xbf, 0x81, 0x00, 0x00, 0xaa, 0xbb, 0xcc, 0xdd}
)

func containerWithCode() abitest.Container {
	p := fullPipeline()
	vs := p.Stages[abi.HardwareStageVertex]
	vs.Code = vsCode
	p.Stages[abi.HardwareStageVertex] = vs
	ps := p.Stages[abi.HardwareStagePixel]
	ps.Code = psCode
	p.Stages[abi.HardwareStagePixel] = ps
	return abitest.Container{Pipeline: p}
}

func TestNewReader(t *testing.T) {
	raw := abitest.ELF(containerWithCode())
	r, err := abi.NewReader(raw)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}

	if got := r.Header().Machine; got != elf.EM_AMDGPU {
		t.Errorf("Machine = %v, want EM_AMDGPU", got)
	}
	if len(r.Metadata()) == 0 {
		t.Error("Metadata() is empty")
	}

	md, err := r.DecodeMetadata()
	if err != nil {
		t.Fatalf("DecodeMetadata() error = %v", err)
	}
	if md.Pipeline.Name != "main_gfx" {
		t.Errorf("Name = %q, want %q", md.Pipeline.Name, "main_gfx")
	}

	wantSections := []string{".text", ".note", ".symtab", ".strtab", ".shstrtab"}
	got := r.SectionNames()
	if len(got) != len(wantSections) {
		t.Fatalf("SectionNames() = %v, want %v", got, wantSections)
	}
	for i := range got {
		if got[i] != wantSections[i] {
			t.Errorf("SectionNames()[%d] = %q, want %q", i, got[i], wantSections[i])
		}
	}
}

func TestReaderViewsAliasBuffer(t *testing.T) {
	raw := abitest.ELF(containerWithCode())
	r, err := abi.NewReader(raw)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}

	text, ok := r.Section(".text")
	if !ok || len(text) == 0 {
		t.Fatal("Section(.text) missing")
	}
	textOff := binary.LittleEndian.Uint64(raw[abitest.SectionHeaderOffset(raw, abitest.SectionText)+24:])
	if &text[0] != &raw[textOff] {
		t.Error("Section(.text) does not alias the container buffer")
	}
	if &r.Raw()[0] != &raw[0] {
		t.Error("Raw() does not alias the container buffer")
	}
}

func TestReaderStageCode(t *testing.T) {
	r, err := abi.NewReader(abitest.ELF(containerWithCode()))
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}

	tests := []struct {
		stage abi.HardwareStage
		want  []byte
	}{
		{abi.HardwareStageVertex, vsCode},
		{abi.HardwareStagePixel, psCode},
		{abi.HardwareStageGeometry, nil},
		{abi.HardwareStageCount, nil},
	}
	for _, tt := range tests {
		t.Run(tt.stage.String(), func(t *testing.T) {
			got, ok := r.StageCode(tt.stage)
			if ok != (tt.want != nil) {
				t.Fatalf("StageCode() ok = %v, want %v", ok, tt.want != nil)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("StageCode() = %x, want %x", got, tt.want)
			}
		})
	}
}

func TestNewReaderErrors(t *testing.T) {
	tests := []struct {
		name    string
		build   func() []byte
		wantErr error
	}{
		{
			name:    "empty",
			build:   func() []byte { return nil },
			wantErr: abi.ErrMalformedContainer,
		},
		{
			name: "bad magic",
			build: func() []byte {
				raw := abitest.ELF(abitest.Container{Pipeline: fullPipeline()})
				raw[1] = 'X'
				return raw
			},
			wantErr: abi.ErrMalformedContainer,
		},
		{
			name: "truncated section table",
			build: func() []byte {
				raw := abitest.ELF(abitest.Container{Pipeline: fullPipeline()})
				return raw[:len(raw)-10]
			},
			wantErr: abi.ErrMalformedContainer,
		},
		{
			name: "wrong machine",
			build: func() []byte {
				return abitest.ELF(abitest.Container{Pipeline: fullPipeline(), Machine: elf.EM_X86_64})
			},
			wantErr: abi.ErrMalformedContainer,
		},
		{
			name: "section past end",
			build: func() []byte {
				raw := abitest.ELF(abitest.Container{Pipeline: fullPipeline()})
				abitest.SetSectionOffset(raw, abitest.SectionText, uint64(len(raw)))
				abitest.SetSectionSize(raw, abitest.SectionText, 16)
				return raw
			},
			wantErr: abi.ErrMalformedContainer,
		},
		{
			name: "section size overflows",
			build: func() []byte {
				raw := abitest.ELF(abitest.Container{Pipeline: fullPipeline()})
				abitest.SetSectionSize(raw, abitest.SectionNote, 1<<62)
				return raw
			},
			wantErr: abi.ErrMalformedContainer,
		},
		{
			name: "note cut mid-record",
			build: func() []byte {
				raw := abitest.ELF(abitest.Container{Pipeline: fullPipeline()})
				abitest.SetSectionSize(raw, abitest.SectionNote, 16)
				return raw
			},
			wantErr: abi.ErrMalformedContainer,
		},
		{
			name: "missing metadata",
			build: func() []byte {
				return abitest.ELF(abitest.Container{Pipeline: fullPipeline(), OmitMetadata: true})
			},
			wantErr: abi.ErrMissingMetadata,
		},
		{
			name: "duplicate metadata",
			build: func() []byte {
				return abitest.ELF(abitest.Container{Pipeline: fullPipeline(), DuplicateMetadata: true})
			},
			wantErr: abi.ErrMalformedContainer,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := abi.NewReader(tt.build())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewReader() error = %v, want %v", err, tt.wantErr)
			}
			if r != nil {
				t.Error("NewReader() returned a reader on failure")
			}
		})
	}
}

func TestNewReaderMetadataNotDecoded(t *testing.T) {
	// The reader only locates metadata; a garbage blob is the decoder's
	// problem.
	raw := abitest.ELF(abitest.Container{Metadata: []byte{0x81, 0xa1}})
	r, err := abi.NewReader(raw)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	if _, err := r.DecodeMetadata(); !errors.Is(err, abi.ErrMalformedMetadata) {
		t.Errorf("DecodeMetadata() error = %v, want ErrMalformedMetadata", err)
	}
}

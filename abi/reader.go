package abi

import (
	"bytes"
	"debug/elf"
	"errors"
	"fmt"
)

// Reader is a read-only view over a validated pipeline ELF.
//
// Every slice a Reader hands out aliases the buffer passed to NewReader.
// The Reader never copies or modifies that buffer, so it must not outlive
// it, and callers must treat the returned slices as read-only.
type Reader struct {
	raw       []byte
	header    elf.FileHeader
	sections  map[string][]byte
	names     []string
	metadata  []byte
	stageCode [HardwareStageCount][]byte
}

// NewReader validates raw as a pipeline ELF and indexes its sections.
//
// It fails with ErrMalformedContainer when the ELF header or section table
// is invalid, when the file is not a 64-bit little-endian AMDGPU object,
// when a section or stage symbol extends past its bounds, or when more than
// one metadata note is present. It fails with ErrMissingMetadata when no
// metadata note exists.
func NewReader(raw []byte) (*Reader, error) {
	f, err := elf.NewFile(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedContainer, err)
	}
	defer f.Close()

	if f.Class != elf.ELFCLASS64 || f.Data != elf.ELFDATA2LSB {
		return nil, fmt.Errorf("%w: want ELFCLASS64/ELFDATA2LSB, got %v/%v",
			ErrMalformedContainer, f.Class, f.Data)
	}
	if f.Machine != elf.EM_AMDGPU {
		return nil, fmt.Errorf("%w: machine %v", ErrMalformedContainer, f.Machine)
	}

	r := &Reader{
		raw:      raw,
		header:   f.FileHeader,
		sections: make(map[string][]byte, len(f.Sections)),
	}

	for i, s := range f.Sections {
		if s.Type == elf.SHT_NULL || s.Type == elf.SHT_NOBITS {
			continue
		}
		data, err := r.slice(s.Offset, s.FileSize)
		if err != nil {
			return nil, fmt.Errorf("%w: section %d (%q): %v", ErrMalformedContainer, i, s.Name, err)
		}
		if _, dup := r.sections[s.Name]; !dup {
			r.sections[s.Name] = data
			r.names = append(r.names, s.Name)
		}
		if s.Type == elf.SHT_NOTE {
			if err := r.scanNotes(s, data); err != nil {
				return nil, err
			}
		}
	}

	if r.metadata == nil {
		return nil, ErrMissingMetadata
	}

	if err := r.indexStages(f); err != nil {
		return nil, err
	}

	slogger().Debug("abi: container validated",
		"bytes", len(raw),
		"sections", len(r.names),
		"metadata_bytes", len(r.metadata))
	return r, nil
}

// slice returns raw[off:off+size] after checking the range.
func (r *Reader) slice(off, size uint64) ([]byte, error) {
	end := off + size
	if end < off || end > uint64(len(r.raw)) {
		return nil, fmt.Errorf("range [%d, %d) exceeds %d-byte buffer", off, end, len(r.raw))
	}
	return r.raw[off:end:end], nil
}

func (r *Reader) scanNotes(s *elf.Section, data []byte) error {
	notes, err := parseNotes(data, r.header.ByteOrder)
	if err != nil {
		return fmt.Errorf("%w: section %q: %v", ErrMalformedContainer, s.Name, err)
	}
	for _, n := range notes {
		if n.name != NoteName || n.typ != NoteTypeMetadata {
			continue
		}
		if r.metadata != nil {
			return fmt.Errorf("%w: duplicate metadata note in %q", ErrMalformedContainer, s.Name)
		}
		r.metadata = n.desc
	}
	return nil
}

// indexStages locates per-stage entry points through the symbol table.
// A container without a symbol table is valid and exposes no stage code.
func (r *Reader) indexStages(f *elf.File) error {
	syms, err := f.Symbols()
	if errors.Is(err, elf.ErrNoSymbols) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: symbols: %v", ErrMalformedContainer, err)
	}

	for _, sym := range syms {
		for stage := HardwareStage(0); stage < HardwareStageCount; stage++ {
			if sym.Name != stage.SymbolName() {
				continue
			}
			code, err := r.symbolData(f, sym)
			if err != nil {
				return fmt.Errorf("%w: symbol %q: %v", ErrMalformedContainer, sym.Name, err)
			}
			r.stageCode[stage] = code
		}
	}
	return nil
}

func (r *Reader) symbolData(f *elf.File, sym elf.Symbol) ([]byte, error) {
	idx := int(sym.Section)
	if idx <= 0 || idx >= len(f.Sections) {
		return nil, fmt.Errorf("section index %d out of range", idx)
	}
	s := f.Sections[idx]
	if s.Type == elf.SHT_NOBITS || s.Flags&elf.SHF_COMPRESSED != 0 {
		return nil, fmt.Errorf("section %q has no directly addressable data", s.Name)
	}
	if sym.Value < s.Addr {
		return nil, fmt.Errorf("value %#x below section address %#x", sym.Value, s.Addr)
	}
	off := sym.Value - s.Addr
	end := off + sym.Size
	if end < off || end > s.FileSize {
		return nil, fmt.Errorf("range [%d, %d) exceeds %d-byte section %q", off, end, s.FileSize, s.Name)
	}
	return r.slice(s.Offset+off, sym.Size)
}

// Raw returns the whole container.
func (r *Reader) Raw() []byte { return r.raw }

// Header returns the ELF file header.
func (r *Reader) Header() elf.FileHeader { return r.header }

// Metadata returns the msgpack metadata blob.
func (r *Reader) Metadata() []byte { return r.metadata }

// Section returns the contents of the first section called name.
func (r *Reader) Section(name string) ([]byte, bool) {
	b, ok := r.sections[name]
	return b, ok
}

// SectionNames returns the names of all sections with file data, in
// section-table order.
func (r *Reader) SectionNames() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// StageCode returns the machine code of a hardware stage's entry point.
func (r *Reader) StageCode(stage HardwareStage) ([]byte, bool) {
	if stage >= HardwareStageCount || r.stageCode[stage] == nil {
		return nil, false
	}
	return r.stageCode[stage], true
}

// DecodeMetadata decodes the container's metadata note.
func (r *Reader) DecodeMetadata() (CodeObjectMetadata, error) {
	return DecodeMetadata(r.metadata)
}

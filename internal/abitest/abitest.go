// Package abitest builds pipeline ELF containers and metadata streams for
// tests.
package abitest

import (
	"debug/elf"
	"encoding/binary"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/gogpu/gfxpipe/abi"
)

// Stage describes one hardware stage of a fixture pipeline.
type Stage struct {
	Hash  abi.ShaderHash
	Flags abi.StageFlags

	// Code is placed in .text behind the stage's entry symbol. Nil means
	// no symbol is emitted.
	Code []byte
}

// Pipeline describes the metadata of a fixture pipeline.
type Pipeline struct {
	// Name is emitted as ".name" when non-empty.
	Name string

	UsesViewportArrayIndex bool

	Stages map[abi.HardwareStage]Stage

	// Extra keys are merged into the pipeline record as-is.
	Extra map[string]any
}

// Metadata encodes p as a metadata stream.
func Metadata(p Pipeline) []byte {
	b, err := msgpack.Marshal(MetadataMap(p))
	if err != nil {
		panic(err)
	}
	return b
}

// MetadataMap returns the generic map that Metadata encodes, so tests can
// tweak individual keys before marshaling.
func MetadataMap(p Pipeline) map[string]any {
	pipeline := map[string]any{
		abi.KeyUsesViewportArrayIndex: p.UsesViewportArrayIndex,
	}
	if p.Name != "" {
		pipeline[abi.KeyPipelineName] = p.Name
	}

	stages := map[string]any{}
	for stage, s := range p.Stages {
		stages[stage.MetadataKey()] = map[string]any{
			abi.KeyShaderHash:        []uint32{s.Hash.Lower, s.Hash.Upper},
			abi.KeyUsesUAVs:          s.Flags.UsesUAVs,
			abi.KeyUsesROVs:          s.Flags.UsesROVs,
			abi.KeyWritesUAVs:        s.Flags.WritesUAVs,
			abi.KeyWritesDepth:       s.Flags.WritesDepth,
			abi.KeyUsesAppendConsume: s.Flags.UsesAppendConsume,
		}
	}
	pipeline[abi.KeyHardwareStages] = stages

	for k, v := range p.Extra {
		pipeline[k] = v
	}

	return map[string]any{
		abi.KeyVersion:   []uint32{2, 6},
		abi.KeyPipelines: []any{pipeline},
	}
}

// Container controls how ELF builds the object-code container.
type Container struct {
	Pipeline Pipeline

	// Metadata replaces the encoded Pipeline when non-nil.
	Metadata []byte

	// OmitMetadata leaves the metadata note out entirely.
	OmitMetadata bool

	// DuplicateMetadata emits the metadata note twice.
	DuplicateMetadata bool

	// Machine defaults to EM_AMDGPU.
	Machine elf.Machine
}

// Section header indices produced by ELF.
const (
	SectionText     = 1
	SectionNote     = 2
	SectionSymtab   = 3
	SectionStrtab   = 4
	SectionShstrtab = 5

	sectionCount = 6
)

const (
	ehdrSize = 64
	shdrSize = 64
	symSize  = 24
)

// ELF returns a complete 64-bit little-endian pipeline container.
func ELF(c Container) []byte {
	md := c.Metadata
	if md == nil {
		md = Metadata(c.Pipeline)
	}
	machine := c.Machine
	if machine == 0 {
		machine = elf.EM_AMDGPU
	}

	// .text and symbols, in stage order for a stable layout.
	var text, strtab []byte
	symtab := make([]byte, symSize) // null symbol
	strtab = append(strtab, 0)
	for stage := abi.HardwareStage(0); stage < abi.HardwareStageCount; stage++ {
		s, ok := c.Pipeline.Stages[stage]
		if !ok || s.Code == nil {
			continue
		}
		for len(text)%4 != 0 {
			text = append(text, 0)
		}
		sym := make([]byte, symSize)
		le.PutUint32(sym[0:], uint32(len(strtab)))
		sym[4] = byte(elf.STB_GLOBAL)<<4 | byte(elf.STT_FUNC)
		le.PutUint16(sym[6:], SectionText)
		le.PutUint64(sym[8:], uint64(len(text)))
		le.PutUint64(sym[16:], uint64(len(s.Code)))
		symtab = append(symtab, sym...)
		strtab = append(append(strtab, stage.SymbolName()...), 0)
		text = append(text, s.Code...)
	}

	var notes []byte
	if !c.OmitMetadata {
		notes = appendNote(notes, abi.NoteName, abi.NoteTypeMetadata, md)
		if c.DuplicateMetadata {
			notes = appendNote(notes, abi.NoteName, abi.NoteTypeMetadata, md)
		}
	}
	// An unrelated note keeps the section non-empty and exercises skipping.
	notes = appendNote(notes, abi.NoteName, 1, []byte{1, 0, 0, 0})

	names := []string{"", ".text", ".note", ".symtab", ".strtab", ".shstrtab"}
	var shstrtab []byte
	nameOff := make([]uint32, len(names))
	for i, n := range names {
		nameOff[i] = uint32(len(shstrtab))
		shstrtab = append(append(shstrtab, n...), 0)
	}

	out := make([]byte, ehdrSize)
	type placed struct{ off, size uint64 }
	place := func(b []byte) placed {
		for len(out)%8 != 0 {
			out = append(out, 0)
		}
		p := placed{uint64(len(out)), uint64(len(b))}
		out = append(out, b...)
		return p
	}
	pText := place(text)
	pNote := place(notes)
	pSym := place(symtab)
	pStr := place(strtab)
	pShstr := place(shstrtab)
	for len(out)%8 != 0 {
		out = append(out, 0)
	}
	shoff := uint64(len(out))

	type shdr struct {
		typ     elf.SectionType
		flags   elf.SectionFlag
		p       placed
		link    uint32
		info    uint32
		align   uint64
		entsize uint64
	}
	hdrs := [sectionCount]shdr{
		{},
		{typ: elf.SHT_PROGBITS, flags: elf.SHF_ALLOC | elf.SHF_EXECINSTR, p: pText, align: 256},
		{typ: elf.SHT_NOTE, p: pNote, align: 4},
		{typ: elf.SHT_SYMTAB, p: pSym, link: SectionStrtab, info: 1, align: 8, entsize: symSize},
		{typ: elf.SHT_STRTAB, p: pStr, align: 1},
		{typ: elf.SHT_STRTAB, p: pShstr, align: 1},
	}
	for i, h := range hdrs {
		b := make([]byte, shdrSize)
		le.PutUint32(b[0:], nameOff[i])
		le.PutUint32(b[4:], uint32(h.typ))
		le.PutUint64(b[8:], uint64(h.flags))
		le.PutUint64(b[24:], h.p.off)
		le.PutUint64(b[32:], h.p.size)
		le.PutUint32(b[40:], h.link)
		le.PutUint32(b[44:], h.info)
		le.PutUint64(b[48:], h.align)
		le.PutUint64(b[56:], h.entsize)
		out = append(out, b...)
	}

	copy(out[0:], elf.ELFMAG)
	out[elf.EI_CLASS] = byte(elf.ELFCLASS64)
	out[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	out[elf.EI_VERSION] = byte(elf.EV_CURRENT)
	out[elf.EI_OSABI] = OSABIAMDGPUPAL
	le.PutUint16(out[16:], uint16(elf.ET_REL))
	le.PutUint16(out[18:], uint16(machine))
	le.PutUint32(out[20:], uint32(elf.EV_CURRENT))
	le.PutUint64(out[40:], shoff)
	le.PutUint16(out[52:], ehdrSize)
	le.PutUint16(out[58:], shdrSize)
	le.PutUint16(out[60:], sectionCount)
	le.PutUint16(out[62:], SectionShstrtab)
	return out
}

// OSABIAMDGPUPAL is the ELF OS/ABI value of PAL pipeline binaries.
const OSABIAMDGPUPAL = 65

var le = binary.LittleEndian

func appendNote(b []byte, name string, typ uint32, desc []byte) []byte {
	var hdr [12]byte
	le.PutUint32(hdr[0:], uint32(len(name)+1))
	le.PutUint32(hdr[4:], uint32(len(desc)))
	le.PutUint32(hdr[8:], typ)
	b = append(b, hdr[:]...)
	b = append(append(b, name...), 0)
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	b = append(b, desc...)
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}

// SectionHeaderOffset returns the file offset of section header idx in a
// container produced by ELF.
func SectionHeaderOffset(raw []byte, idx int) int {
	return int(le.Uint64(raw[40:])) + idx*shdrSize
}

// SetSectionOffset overwrites sh_offset of section idx.
func SetSectionOffset(raw []byte, idx int, off uint64) {
	le.PutUint64(raw[SectionHeaderOffset(raw, idx)+24:], off)
}

// SetSectionSize overwrites sh_size of section idx.
func SetSectionSize(raw []byte, idx int, size uint64) {
	le.PutUint64(raw[SectionHeaderOffset(raw, idx)+32:], size)
}

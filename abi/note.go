package abi

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// Metadata note identification.
const (
	// NoteName is the owner name of AMDGPU notes.
	NoteName = "AMDGPU"

	// NoteTypeMetadata (NT_AMDGPU_METADATA) marks the msgpack metadata note.
	NoteTypeMetadata uint32 = 32
)

const noteHeaderLen = 12

var (
	errShortNoteHeader = errors.New("short note header")
	errShortNoteData   = errors.New("note name or descriptor past section end")
)

// note is one entry of an SHT_NOTE section. desc aliases the section bytes.
type note struct {
	name string
	typ  uint32
	desc []byte
}

func align4(n uint64) uint64 { return (n + 3) &^ 3 }

// parseNotes splits a note section into entries. Name and descriptor are
// each padded to four bytes; the final entry may omit its trailing padding.
func parseNotes(b []byte, order binary.ByteOrder) ([]note, error) {
	var notes []note
	for off := uint64(0); off < uint64(len(b)); {
		if uint64(len(b))-off < noteHeaderLen {
			return nil, fmt.Errorf("note at %d: %w", off, errShortNoteHeader)
		}
		namesz := uint64(order.Uint32(b[off:]))
		descsz := uint64(order.Uint32(b[off+4:]))
		typ := order.Uint32(b[off+8:])
		off += noteHeaderLen

		nameEnd := off + namesz
		descStart := off + align4(namesz)
		descEnd := descStart + descsz
		if descEnd > uint64(len(b)) {
			return nil, fmt.Errorf("note at %d: %w", off-noteHeaderLen, errShortNoteData)
		}

		notes = append(notes, note{
			name: strings.TrimRight(string(b[off:nameEnd]), "\x00"),
			typ:  typ,
			desc: b[descStart:descEnd:descEnd],
		})
		off = align4(descEnd)
	}
	return notes, nil
}

// Package abi reads pipeline ELF containers and decodes their metadata.
//
// [NewReader] validates the container and exposes its sections, the
// metadata note and per-stage machine code as views into the caller's
// buffer. [DecodeMetadata] turns the msgpack metadata stream into a
// [CodeObjectMetadata] whose per-stage table is indexed by [HardwareStage].
package abi

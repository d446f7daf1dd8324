package gfxpipe

import "fmt"

// IngestState is the position of a pipeline in the ingestion sequence.
// States only move forward; any failure moves to StateFailed.
type IngestState uint8

// Ingestion states.
const (
	StateUninitialized IngestState = iota
	StateBinaryOwned
	StateContainerValidated
	StateMetadataDecoded
	StateDescriptorDerived
	StateHandedToDeviceInit
	StateReady
	StateFailed
)

var ingestStateNames = [...]string{
	"Uninitialized",
	"BinaryOwned",
	"ContainerValidated",
	"MetadataDecoded",
	"DescriptorDerived",
	"HandedToDeviceInit",
	"Ready",
	"Failed",
}

var _ = [1]struct{}{}[len(ingestStateNames)-int(StateFailed+1)]

// String returns the state name.
func (s IngestState) String() string {
	if int(s) < len(ingestStateNames) {
		return ingestStateNames[s]
	}
	return fmt.Sprintf("IngestState(%d)", uint8(s))
}

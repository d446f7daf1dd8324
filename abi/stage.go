package abi

import "fmt"

// HardwareStage identifies one fixed hardware shader stage a pipeline
// binary may target. Values index [PipelineMetadata.HardwareStages].
type HardwareStage uint32

// Hardware stages.
const (
	// HardwareStageVertex runs the vertex shader.
	HardwareStageVertex HardwareStage = iota

	// HardwareStageHull runs the tessellation control (hull) shader.
	HardwareStageHull

	// HardwareStageDomain runs the tessellation evaluation (domain) shader.
	HardwareStageDomain

	// HardwareStageGeometry runs the geometry shader.
	HardwareStageGeometry

	// HardwareStagePixel runs the pixel (fragment) shader.
	HardwareStagePixel

	// HardwareStageCompute runs compute work attached to the pipeline.
	HardwareStageCompute

	// HardwareStageCount is the number of hardware stages.
	HardwareStageCount
)

// Per-stage tables. Every table is indexed by HardwareStage and must have
// exactly HardwareStageCount entries; the assertions below fail to compile
// when a stage is added without updating a table.
var (
	hardwareStageNames = [...]string{
		"Vertex",
		"Hull",
		"Domain",
		"Geometry",
		"Pixel",
		"Compute",
	}

	// hardwareStageKeys are the metadata map keys under ".hardware_stages".
	hardwareStageKeys = [...]string{
		".vs",
		".hs",
		".ds",
		".gs",
		".ps",
		".cs",
	}

	// hardwareStageSymbols name the entry point of each stage in .text.
	hardwareStageSymbols = [...]string{
		"_amdgpu_vs_main",
		"_amdgpu_hs_main",
		"_amdgpu_ds_main",
		"_amdgpu_gs_main",
		"_amdgpu_ps_main",
		"_amdgpu_cs_main",
	}
)

var (
	_ = [1]struct{}{}[len(hardwareStageNames)-int(HardwareStageCount)]
	_ = [1]struct{}{}[len(hardwareStageKeys)-int(HardwareStageCount)]
	_ = [1]struct{}{}[len(hardwareStageSymbols)-int(HardwareStageCount)]
)

// String returns the stage name.
func (s HardwareStage) String() string {
	if s < HardwareStageCount {
		return hardwareStageNames[s]
	}
	return fmt.Sprintf("HardwareStage(%d)", uint32(s))
}

// MetadataKey returns the key identifying this stage in the metadata stream.
func (s HardwareStage) MetadataKey() string {
	if s < HardwareStageCount {
		return hardwareStageKeys[s]
	}
	return ""
}

// SymbolName returns the ELF symbol naming this stage's entry point.
func (s HardwareStage) SymbolName() string {
	if s < HardwareStageCount {
		return hardwareStageSymbols[s]
	}
	return ""
}

// stageForKey maps a metadata key back to its stage.
func stageForKey(key string) (HardwareStage, bool) {
	for i, k := range hardwareStageKeys {
		if k == key {
			return HardwareStage(i), true
		}
	}
	return 0, false
}

// ShaderHash is the 64-bit identity of a compiled shader, stored as two
// 32-bit halves. The zero hash means the stage is not used.
type ShaderHash struct {
	Lower uint32
	Upper uint32
}

// IsNonZero reports whether either half of the hash is set.
func (h ShaderHash) IsNonZero() bool {
	return h.Lower != 0 || h.Upper != 0
}

// Uint64 returns the hash as a single value with Upper in the high bits.
func (h ShaderHash) Uint64() uint64 {
	return uint64(h.Upper)<<32 | uint64(h.Lower)
}

// String formats the hash as 16 hex digits.
func (h ShaderHash) String() string {
	return fmt.Sprintf("0x%016x", h.Uint64())
}

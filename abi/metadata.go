package abi

// Metadata keys recognized by DecodeMetadata.
const (
	KeyVersion   = "amdpal.version"
	KeyPipelines = "amdpal.pipelines"

	KeyPipelineName           = ".name"
	KeyUsesViewportArrayIndex = ".uses_viewport_array_index"
	KeyHardwareStages         = ".hardware_stages"

	KeyShaderHash        = ".shader_hash"
	KeyUsesUAVs          = ".uses_uavs"
	KeyUsesROVs          = ".uses_rovs"
	KeyWritesUAVs        = ".writes_uavs"
	KeyWritesDepth       = ".writes_depth"
	KeyUsesAppendConsume = ".uses_append_consume"
)

// Version is the metadata format version declared by the producer.
type Version struct {
	Major uint32
	Minor uint32
}

// CodeObjectMetadata is the decoded metadata note of a pipeline binary.
type CodeObjectMetadata struct {
	// Version is zero when the stream does not declare one.
	Version Version

	// Pipeline holds the first pipeline record of the stream.
	Pipeline PipelineMetadata
}

// PipelineMetadata describes pipeline-level properties.
type PipelineMetadata struct {
	// Name is the pipeline name. Only meaningful when HasName is set.
	Name string

	// HasName reports whether the stream carried a name.
	HasName bool

	// Flags are the pipeline-level feature flags.
	Flags PipelineFlags

	// HardwareStages is indexed by HardwareStage. Stages absent from the
	// stream are present here as zero records.
	HardwareStages [HardwareStageCount]HardwareStageMetadata
}

// PipelineFlags are pipeline-level feature flags.
type PipelineFlags struct {
	UsesViewportArrayIndex bool
}

// HardwareStageMetadata describes one hardware stage.
type HardwareStageMetadata struct {
	Hash  ShaderHash
	Flags StageFlags
}

// StageFlags are resource usage flags reported for a hardware stage.
type StageFlags struct {
	UsesUAVs          bool
	UsesROVs          bool
	WritesUAVs        bool
	WritesDepth       bool
	UsesAppendConsume bool
}

// Stage returns the record for s. Out-of-range stages yield a zero record.
func (p *PipelineMetadata) Stage(s HardwareStage) HardwareStageMetadata {
	if s >= HardwareStageCount {
		return HardwareStageMetadata{}
	}
	return p.HardwareStages[s]
}

// DisplayName returns the pipeline name, or "unnamed" when none was given.
func (p *PipelineMetadata) DisplayName() string {
	if !p.HasName {
		return "unnamed"
	}
	return p.Name
}

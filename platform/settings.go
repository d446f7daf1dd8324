package platform

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// fileSettings is the on-disk layout of a heap settings file:
//
//	[heap]
//	max_memory_mb = 64
type fileSettings struct {
	Heap struct {
		MaxMemoryMB int `toml:"max_memory_mb"`
	} `toml:"heap"`
}

// LoadHeapConfig reads a TOML settings file. Keys missing from the file
// keep their HeapConfig defaults.
func LoadHeapConfig(path string) (HeapConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return HeapConfig{}, fmt.Errorf("platform: load settings (%s): %w", path, err)
	}
	return ParseHeapConfig(data)
}

// ParseHeapConfig decodes TOML heap settings.
func ParseHeapConfig(data []byte) (HeapConfig, error) {
	cfg := HeapConfig{MaxMemoryMB: DefaultMaxMemoryMB}

	var raw fileSettings
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return HeapConfig{}, fmt.Errorf("platform: parse settings: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return HeapConfig{}, fmt.Errorf("platform: unknown setting %q", undecoded[0].String())
	}

	if meta.IsDefined("heap", "max_memory_mb") {
		if raw.Heap.MaxMemoryMB < MinMemoryMB {
			return HeapConfig{}, fmt.Errorf("platform: heap.max_memory_mb %d below minimum %d",
				raw.Heap.MaxMemoryMB, MinMemoryMB)
		}
		cfg.MaxMemoryMB = raw.Heap.MaxMemoryMB
	}
	return cfg, nil
}

package config

import (
	"encoding/json"
	"fmt"

	"github.com/banshee-data/vrtypes/internal/chunk"
	"github.com/banshee-data/vrtypes/internal/fsutil"
)

// DefaultConfigPath is the path to the canonical codec defaults file.
const DefaultConfigPath = "config/codec.defaults.json"

const maxFileSize = 1 * 1024 * 1024 // 1MB

// CodecConfig controls how chunks are built and encoded. Fields omitted
// from the JSON keep their defaults through the Get* accessors.
type CodecConfig struct {
	Compression       *string `json:"compression,omitempty"` // none, lz4 or zstd
	CheckedAllocator  *bool   `json:"checked_allocator,omitempty"`
	BlueprintTimeline *string `json:"blueprint_timeline,omitempty"`
	MaxRowsPerChunk   *int    `json:"max_rows_per_chunk,omitempty"`
}

func ptrBool(v bool) *bool       { return &v }
func ptrString(v string) *string { return &v }
func ptrInt(v int) *int          { return &v }

// EmptyCodecConfig returns a CodecConfig with all fields set to nil.
func EmptyCodecConfig() *CodecConfig {
	return &CodecConfig{}
}

// DefaultCodecConfig returns a CodecConfig with every field set to its
// default.
func DefaultCodecConfig() *CodecConfig {
	return &CodecConfig{
		Compression:       ptrString(string(chunk.CompressionNone)),
		CheckedAllocator:  ptrBool(false),
		BlueprintTimeline: ptrString("blueprint"),
		MaxRowsPerChunk:   ptrInt(4096),
	}
}

// LoadCodecConfig loads a CodecConfig from a JSON file. The file must have
// a .json extension and be under 1MB.
func LoadCodecConfig(fsys fsutil.FileSystem, path string) (*CodecConfig, error) {
	data, err := fsutil.ReadLimited(fsys, path, maxFileSize, ".json")
	if err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}

	cfg := EmptyCodecConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *CodecConfig) Validate() error {
	if c.Compression != nil {
		if _, err := chunk.ParseCompression(*c.Compression); err != nil {
			return err
		}
	}
	if c.BlueprintTimeline != nil && *c.BlueprintTimeline == "" {
		return fmt.Errorf("blueprint_timeline must not be empty")
	}
	if c.BlueprintTimeline != nil && *c.BlueprintTimeline == chunk.RowIDColumn {
		return fmt.Errorf("blueprint_timeline %q is reserved", *c.BlueprintTimeline)
	}
	if c.MaxRowsPerChunk != nil && *c.MaxRowsPerChunk < 0 {
		return fmt.Errorf("max_rows_per_chunk must be non-negative, got %d", *c.MaxRowsPerChunk)
	}
	return nil
}

// GetCompression returns the compression or the default (none).
func (c *CodecConfig) GetCompression() chunk.Compression {
	if c.Compression == nil {
		return chunk.CompressionNone
	}
	comp, err := chunk.ParseCompression(*c.Compression)
	if err != nil {
		return chunk.CompressionNone // default on parse error
	}
	return comp
}

// GetCheckedAllocator returns the checked_allocator value or the default.
func (c *CodecConfig) GetCheckedAllocator() bool {
	if c.CheckedAllocator == nil {
		return false
	}
	return *c.CheckedAllocator
}

// GetBlueprintTimeline returns the blueprint_timeline value or the default.
func (c *CodecConfig) GetBlueprintTimeline() string {
	if c.BlueprintTimeline == nil || *c.BlueprintTimeline == "" {
		return "blueprint"
	}
	return *c.BlueprintTimeline
}

// GetMaxRowsPerChunk returns the max_rows_per_chunk value or the default.
// Zero means unlimited.
func (c *CodecConfig) GetMaxRowsPerChunk() int {
	if c.MaxRowsPerChunk == nil {
		return 4096
	}
	return *c.MaxRowsPerChunk
}

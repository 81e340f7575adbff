// Package config loads pipeline configuration for the LMD import/export
// tools. Fields are pointers so a partial JSON file only overrides what it
// names; the Get* accessors supply defaults for the rest.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Defaults applied by the Get* accessors.
const (
	DefaultPrecision         = 3
	DefaultSwitchOrientation = true
	DefaultTransformKind     = "affine"
	DefaultCatalogPath       = "lmdkit.db"
)

// PipelineConfig is the root configuration for import/export runs. The
// schema is shared between on-disk config files and tool flags.
type PipelineConfig struct {
	// Precision is the decimal rounding of estimated transform matrices.
	Precision *int `json:"precision,omitempty"`

	// SwitchOrientation toggles the diagonal mirror applied after the
	// calibration transform on import.
	SwitchOrientation *bool `json:"switch_orientation,omitempty"`

	// TransformKind selects the fitted transform family: "affine" or
	// "similarity".
	TransformKind *string `json:"transform_kind,omitempty"`

	// Overwrite allows exports to replace existing files.
	Overwrite *bool `json:"overwrite,omitempty"`

	// CatalogPath locates the SQLite slide catalog.
	CatalogPath *string `json:"catalog_path,omitempty"`
}

// EmptyPipelineConfig returns a config with every field unset.
func EmptyPipelineConfig() *PipelineConfig {
	return &PipelineConfig{}
}

// LoadPipelineConfig loads a PipelineConfig from a JSON file. Fields
// omitted from the file keep their defaults, so partial configs are safe.
func LoadPipelineConfig(path string) (*PipelineConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Guard against reading something that is clearly not a config file.
	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyPipelineConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that configured values are usable.
func (c *PipelineConfig) Validate() error {
	if c.Precision != nil && *c.Precision < 0 {
		return fmt.Errorf("precision must be non-negative, got %d", *c.Precision)
	}
	if c.TransformKind != nil {
		switch *c.TransformKind {
		case "affine", "similarity":
		default:
			return fmt.Errorf("transform_kind must be \"affine\" or \"similarity\", got %q", *c.TransformKind)
		}
	}
	if c.CatalogPath != nil && *c.CatalogPath == "" {
		return fmt.Errorf("catalog_path must not be empty when set")
	}
	return nil
}

// GetPrecision returns the configured precision or the default.
func (c *PipelineConfig) GetPrecision() int {
	if c.Precision != nil {
		return *c.Precision
	}
	return DefaultPrecision
}

// GetSwitchOrientation returns the configured switch or the default.
func (c *PipelineConfig) GetSwitchOrientation() bool {
	if c.SwitchOrientation != nil {
		return *c.SwitchOrientation
	}
	return DefaultSwitchOrientation
}

// GetTransformKind returns the configured transform family or the default.
func (c *PipelineConfig) GetTransformKind() string {
	if c.TransformKind != nil {
		return *c.TransformKind
	}
	return DefaultTransformKind
}

// GetOverwrite returns the configured overwrite policy; exports refuse to
// replace files by default.
func (c *PipelineConfig) GetOverwrite() bool {
	if c.Overwrite != nil {
		return *c.Overwrite
	}
	return false
}

// GetCatalogPath returns the configured catalog location or the default.
func (c *PipelineConfig) GetCatalogPath() string {
	if c.CatalogPath != nil {
		return *c.CatalogPath
	}
	return DefaultCatalogPath
}

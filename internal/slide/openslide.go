package slide

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dvp-tools/lmdkit/internal/fsutil"
)

// OpenSlide property keys for the fields this adapter derives.
const (
	osPropMPPX           = "openslide.mpp-x"
	osPropMPPY           = "openslide.mpp-y"
	osPropObjectivePower = "openslide.objective-power"
	osPropVendor         = "openslide.vendor"
)

// micron converts the micron-denominated OpenSlide MPP properties to the
// meters-per-pixel convention used across this module.
const micron = 1e-6

var _ Metadata = (*OpenSlideMetadata)(nil)

// OpenSlideMetadata derives acquisition parameters from an OpenSlide
// property map. OpenSlide slides are RGBA rasters, so the channel list is
// fixed; Z resolution is never recorded.
type OpenSlideMetadata struct {
	props map[string]string
}

// NewOpenSlideMetadata wraps an OpenSlide property map.
func NewOpenSlideMetadata(props map[string]string) *OpenSlideMetadata {
	return &OpenSlideMetadata{props: props}
}

// LoadOpenSlideMetadata reads a property map stored as a flat JSON object,
// the common dump format for OpenSlide properties.
func LoadOpenSlideMetadata(fsys fsutil.FileSystem, path string) (*OpenSlideMetadata, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	props := map[string]string{}
	if err := json.Unmarshal(data, &props); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return NewOpenSlideMetadata(props), nil
}

// ImageType returns the OpenSlide vendor tag (for example "mirax"), or
// "openslide" when the property is absent.
func (m *OpenSlideMetadata) ImageType() string {
	if v, ok := m.props[osPropVendor]; ok && v != "" {
		return v
	}
	return "openslide"
}

// Magnification returns the nominal objective power, or nil when absent.
func (m *OpenSlideMetadata) Magnification() *float64 {
	return m.propFloat(osPropObjectivePower, 1)
}

// MPPX returns the x pixel size in meters per pixel.
func (m *OpenSlideMetadata) MPPX() *float64 {
	return m.propFloat(osPropMPPX, micron)
}

// MPPY returns the y pixel size in meters per pixel.
func (m *OpenSlideMetadata) MPPY() *float64 {
	return m.propFloat(osPropMPPY, micron)
}

// MPPZ always returns nil: OpenSlide formats are single-plane.
func (m *OpenSlideMetadata) MPPZ() *float64 { return nil }

// ChannelNames returns the fixed RGBA channel layout.
func (m *OpenSlideMetadata) ChannelNames() []string {
	return []string{"R", "G", "B", "A"}
}

func (m *OpenSlideMetadata) propFloat(key string, scale float64) *float64 {
	raw, ok := m.props[key]
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	v *= scale
	return &v
}

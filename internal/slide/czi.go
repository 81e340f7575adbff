package slide

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dvp-tools/lmdkit/internal/fsutil"
)

// CZIMetadata reads acquisition parameters from the Zeiss CZI metadata
// document (the XML segment embedded in a .czi container, or an exported
// sidecar of it). The document is kept as a nested dictionary and all
// derived fields are resolved lazily via path lookups, so schema variations
// degrade to explicit unknowns instead of parse failures.
type CZIMetadata struct {
	root map[string]any
}

var _ Metadata = (*CZIMetadata)(nil)

// ParseCZIMetadata decodes a CZI metadata XML document.
func ParseCZIMetadata(data []byte) (*CZIMetadata, error) {
	root, err := xmlToTree(data)
	if err != nil {
		return nil, fmt.Errorf("parsing CZI metadata: %w", err)
	}
	return &CZIMetadata{root: root}, nil
}

// LoadCZIMetadata reads and parses a CZI metadata document from a file.
func LoadCZIMetadata(fsys fsutil.FileSystem, path string) (*CZIMetadata, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseCZIMetadata(data)
}

// ImageType identifies the vendor format.
func (m *CZIMetadata) ImageType() string { return "czi" }

// Magnification returns the nominal objective magnification, or nil when
// the instrument block does not record one.
func (m *CZIMetadata) Magnification() *float64 {
	objectives := nestedList(m.root, "Metadata", "Information", "Instrument", "Objectives", "Objective")
	for _, obj := range objectives {
		if v := nestedFloat(obj, "NominalMagnification"); v != nil {
			return v
		}
	}
	return nil
}

// MPPX returns the x pixel size in meters per pixel.
func (m *CZIMetadata) MPPX() *float64 { return m.scalingDistance("X") }

// MPPY returns the y pixel size in meters per pixel.
func (m *CZIMetadata) MPPY() *float64 { return m.scalingDistance("Y") }

// MPPZ returns the z step size in meters, or nil for 2D acquisitions.
func (m *CZIMetadata) MPPZ() *float64 { return m.scalingDistance("Z") }

// scalingDistance resolves Metadata>Scaling>Items>Distance[Id=axis]>Value.
func (m *CZIMetadata) scalingDistance(axis string) *float64 {
	for _, item := range nestedList(m.root, "Metadata", "Scaling", "Items", "Distance") {
		if nestedString(item, "Id") != axis {
			continue
		}
		return nestedFloat(item, "Value")
	}
	return nil
}

// ChannelNames lists the acquisition channels. A channel without a Name
// attribute falls back to its positional index, matching the vendor
// reader's behaviour for unnamed channels.
func (m *CZIMetadata) ChannelNames() []string {
	channels := nestedList(m.root, "Metadata", "Information", "Image", "Dimensions", "Channels", "Channel")
	if len(channels) == 0 {
		return nil
	}
	names := make([]string, len(channels))
	for i, ch := range channels {
		if name := nestedString(ch, "Name"); name != "" {
			names[i] = name
		} else {
			names[i] = strconv.Itoa(i)
		}
	}
	return names
}

// ChannelIDs lists the channel Id attributes in channel order.
func (m *CZIMetadata) ChannelIDs() []string {
	channels := nestedList(m.root, "Metadata", "Information", "Image", "Dimensions", "Channels", "Channel")
	if len(channels) == 0 {
		return nil
	}
	ids := make([]string, len(channels))
	for i, ch := range channels {
		ids[i] = nestedString(ch, "Id")
	}
	return ids
}

// nestedList resolves a path like NestedValue but normalises the result to
// a list: a repeated element yields its slice, a single element a one-item
// list, a missing path nil.
func nestedList(root any, path ...string) []any {
	switch v := NestedValue(root, path, nil).(type) {
	case []any:
		return v
	case nil:
		return nil
	default:
		return []any{v}
	}
}

// xmlToTree converts an XML document into nested string-keyed maps, rooted
// at the document element's content (the root element name itself is
// dropped, so lookups start at "Metadata" regardless of container naming).
// Attributes and child elements become map entries; repeated child names
// collapse into a []any in document order; childless elements become their
// trimmed text content.
func xmlToTree(data []byte) (map[string]any, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			node, err := decodeElement(dec, start)
			if err != nil {
				return nil, err
			}
			if m, ok := node.(map[string]any); ok {
				return m, nil
			}
			return map[string]any{}, nil
		}
	}
}

func decodeElement(dec *xml.Decoder, start xml.StartElement) (any, error) {
	m := map[string]any{}
	for _, attr := range start.Attr {
		m[attr.Name.Local] = attr.Value
	}

	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeElement(dec, t)
			if err != nil {
				return nil, err
			}
			addChild(m, t.Name.Local, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			content := strings.TrimSpace(text.String())
			if len(m) == 0 {
				return content, nil
			}
			if content != "" {
				m["#text"] = content
			}
			return m, nil
		}
	}
}

func addChild(m map[string]any, name string, child any) {
	existing, ok := m[name]
	if !ok {
		m[name] = child
		return
	}
	if list, ok := existing.([]any); ok {
		m[name] = append(list, child)
		return
	}
	m[name] = []any{existing, child}
}

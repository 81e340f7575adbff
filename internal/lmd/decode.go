package lmd

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dvp-tools/lmdkit/internal/geometry"
	"github.com/dvp-tools/lmdkit/internal/shapes"
)

// Parse decodes an LMD exchange document. It accepts any inter-element
// whitespace and any ordering of the X/Y calibration elements, but requires
// the 1-based index sequences to be dense.
func Parse(data []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	root, err := nextStartElement(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if root.Name.Local != "ImageData" {
		return nil, fmt.Errorf("%w: root element is %q, want ImageData", ErrMalformed, root.Name.Local)
	}

	doc := &Document{GlobalCoordinates: 1}
	calX := map[int]float64{}
	calY := map[int]float64{}
	shapeByIndex := map[int]shapes.Shape{}
	shapeCount := -1

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		name := start.Name.Local

		switch {
		case name == "GlobalCoordinates":
			v, err := elementInt(dec, name)
			if err != nil {
				return nil, err
			}
			doc.GlobalCoordinates = v

		case name == "ShapeCount":
			v, err := elementInt(dec, name)
			if err != nil {
				return nil, err
			}
			shapeCount = v

		case strings.HasPrefix(name, "X_CalibrationPoint_"):
			idx, v, err := indexedFloat(dec, name, "X_CalibrationPoint_")
			if err != nil {
				return nil, err
			}
			calX[idx] = v

		case strings.HasPrefix(name, "Y_CalibrationPoint_"):
			idx, v, err := indexedFloat(dec, name, "Y_CalibrationPoint_")
			if err != nil {
				return nil, err
			}
			calY[idx] = v

		case strings.HasPrefix(name, "Shape_"):
			idx, err := strconv.Atoi(strings.TrimPrefix(name, "Shape_"))
			if err != nil {
				return nil, fmt.Errorf("%w: bad shape element %q", ErrMalformed, name)
			}
			s, err := parseShape(dec, &start)
			if err != nil {
				return nil, err
			}
			shapeByIndex[idx] = s

		default:
			// Unknown siblings (instrument metadata) are skipped.
			if err := dec.Skip(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
		}
	}

	if len(calX) != len(calY) {
		return nil, fmt.Errorf("%w: %d X vs %d Y calibration coordinates", ErrMalformed, len(calX), len(calY))
	}
	for i := 1; i <= len(calX); i++ {
		x, okX := calX[i]
		y, okY := calY[i]
		if !okX || !okY {
			return nil, fmt.Errorf("%w: calibration point %d is incomplete", ErrMalformed, i)
		}
		doc.Calibration = append(doc.Calibration, geometry.Point{X: x, Y: y})
	}

	if shapeCount >= 0 && shapeCount != len(shapeByIndex) {
		return nil, fmt.Errorf("%w: ShapeCount is %d but %d shapes present", ErrMalformed, shapeCount, len(shapeByIndex))
	}
	for i := 1; i <= len(shapeByIndex); i++ {
		s, ok := shapeByIndex[i]
		if !ok {
			return nil, fmt.Errorf("%w: shape index %d missing", ErrMalformed, i)
		}
		doc.Collection.Shapes = append(doc.Collection.Shapes, s)
	}

	return doc, nil
}

// parseShape decodes one Shape_N subtree. The decoder is positioned just
// after the shape's start element.
func parseShape(dec *xml.Decoder, start *xml.StartElement) (shapes.Shape, error) {
	var s shapes.Shape
	xs := map[int]float64{}
	ys := map[int]float64{}
	pointCount := -1

	for {
		tok, err := dec.Token()
		if err != nil {
			return s, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		if end, ok := tok.(xml.EndElement); ok && end.Name.Local == start.Name.Local {
			break
		}

		child, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		name := child.Name.Local

		switch {
		case name == "PointCount":
			v, err := elementInt(dec, name)
			if err != nil {
				return s, err
			}
			pointCount = v

		case name == "TransferID":
			v, err := elementText(dec, name)
			if err != nil {
				return s, err
			}
			s.Name = v

		case name == "CapID":
			v, err := elementText(dec, name)
			if err != nil {
				return s, err
			}
			s.Well = v

		case strings.HasPrefix(name, "X_"):
			idx, v, err := indexedFloat(dec, name, "X_")
			if err != nil {
				return s, err
			}
			xs[idx] = v

		case strings.HasPrefix(name, "Y_"):
			idx, v, err := indexedFloat(dec, name, "Y_")
			if err != nil {
				return s, err
			}
			ys[idx] = v

		default:
			if err := dec.Skip(); err != nil {
				return s, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
		}
	}

	if len(xs) != len(ys) {
		return s, fmt.Errorf("%w: %s has %d X vs %d Y coordinates", ErrMalformed, start.Name.Local, len(xs), len(ys))
	}
	for i := 1; i <= len(xs); i++ {
		x, okX := xs[i]
		y, okY := ys[i]
		if !okX || !okY {
			return s, fmt.Errorf("%w: %s vertex %d is incomplete", ErrMalformed, start.Name.Local, i)
		}
		s.Ring = append(s.Ring, geometry.Point{X: x, Y: y})
	}
	if pointCount >= 0 && pointCount != len(s.Ring) {
		return s, fmt.Errorf("%w: %s PointCount is %d but %d vertices present",
			ErrMalformed, start.Name.Local, pointCount, len(s.Ring))
	}
	return s, nil
}

func nextStartElement(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start, nil
		}
	}
}

// elementText consumes the character data and end tag of the current element.
func elementText(dec *xml.Decoder, name string) (string, error) {
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			return strings.TrimSpace(sb.String()), nil
		case xml.StartElement:
			return "", fmt.Errorf("%w: unexpected child inside %s", ErrMalformed, name)
		}
	}
}

func elementInt(dec *xml.Decoder, name string) (int, error) {
	text, err := elementText(dec, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not an integer: %q", ErrMalformed, name, text)
	}
	return v, nil
}

func indexedFloat(dec *xml.Decoder, name, prefix string) (int, float64, error) {
	idx, err := strconv.Atoi(strings.TrimPrefix(name, prefix))
	if err != nil || idx < 1 {
		return 0, 0, fmt.Errorf("%w: bad element name %q", ErrMalformed, name)
	}
	text, err := elementText(dec, name)
	if err != nil {
		return 0, 0, err
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s is not a number: %q", ErrMalformed, name, text)
	}
	return idx, v, nil
}

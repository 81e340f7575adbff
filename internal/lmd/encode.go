package lmd

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
)

// Encode serialises a document in the instrument's expected layout: fixed
// element order, two-space indentation, one element per line, coordinates
// floored to whole instrument units. The output is deterministic so that
// byte-level round-trip comparisons are meaningful.
func Encode(doc *Document) []byte {
	var b bytes.Buffer

	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<ImageData>\n")
	fmt.Fprintf(&b, "  <GlobalCoordinates>%d</GlobalCoordinates>\n", doc.GlobalCoordinates)

	for i, p := range doc.Calibration {
		fmt.Fprintf(&b, "  <X_CalibrationPoint_%d>%s</X_CalibrationPoint_%d>\n", i+1, formatCoord(p.X), i+1)
		fmt.Fprintf(&b, "  <Y_CalibrationPoint_%d>%s</Y_CalibrationPoint_%d>\n", i+1, formatCoord(p.Y), i+1)
	}

	fmt.Fprintf(&b, "  <ShapeCount>%d</ShapeCount>\n", doc.Collection.Len())

	for i, s := range doc.Collection.Shapes {
		fmt.Fprintf(&b, "  <Shape_%d>\n", i+1)
		fmt.Fprintf(&b, "    <PointCount>%d</PointCount>\n", len(s.Ring))
		if s.Name != "" {
			fmt.Fprintf(&b, "    <TransferID>%s</TransferID>\n", escapeText(s.Name))
		}
		if s.Well != "" {
			fmt.Fprintf(&b, "    <CapID>%s</CapID>\n", escapeText(s.Well))
		}
		for j, p := range s.Ring {
			fmt.Fprintf(&b, "    <X_%d>%s</X_%d>\n", j+1, formatCoord(p.X), j+1)
			fmt.Fprintf(&b, "    <Y_%d>%s</Y_%d>\n", j+1, formatCoord(p.Y), j+1)
		}
		fmt.Fprintf(&b, "  </Shape_%d>\n", i+1)
	}

	b.WriteString("</ImageData>\n")
	return b.Bytes()
}

// formatCoord renders a coordinate the way the instrument writer does:
// floored to an integer. Re-encoding a decoded writer-produced file is
// therefore lossless.
func formatCoord(v float64) string {
	return fmt.Sprintf("%.0f", math.Floor(v))
}

func escapeText(s string) string {
	var b bytes.Buffer
	// EscapeText only fails on a failing writer; bytes.Buffer never does.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

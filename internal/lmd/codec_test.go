package lmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvp-tools/lmdkit/internal/geometry"
	"github.com/dvp-tools/lmdkit/internal/shapes"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<ImageData>
  <GlobalCoordinates>1</GlobalCoordinates>
  <X_CalibrationPoint_1>15</X_CalibrationPoint_1>
  <Y_CalibrationPoint_1>1015</Y_CalibrationPoint_1>
  <X_CalibrationPoint_2>15</X_CalibrationPoint_2>
  <Y_CalibrationPoint_2>205</Y_CalibrationPoint_2>
  <X_CalibrationPoint_3>1015</X_CalibrationPoint_3>
  <Y_CalibrationPoint_3>15</Y_CalibrationPoint_3>
  <ShapeCount>2</ShapeCount>
  <Shape_1>
    <PointCount>4</PointCount>
    <TransferID>001</TransferID>
    <CapID>A1</CapID>
    <X_1>0</X_1>
    <Y_1>0</Y_1>
    <X_2>0</X_2>
    <Y_2>10</Y_2>
    <X_3>10</X_3>
    <Y_3>0</Y_3>
    <X_4>0</X_4>
    <Y_4>0</Y_4>
  </Shape_1>
  <Shape_2>
    <PointCount>3</PointCount>
    <X_1>5</X_1>
    <Y_1>5</Y_1>
    <X_2>6</X_2>
    <Y_2>5</Y_2>
    <X_3>5</X_3>
    <Y_3>6</Y_3>
  </Shape_2>
</ImageData>
`

func TestParseSampleDocument(t *testing.T) {
	doc, err := Parse([]byte(sampleXML))
	require.NoError(t, err)

	assert.Equal(t, 1, doc.GlobalCoordinates)
	assert.Equal(t, geometry.PointSet{{X: 15, Y: 1015}, {X: 15, Y: 205}, {X: 1015, Y: 15}}, doc.Calibration)
	require.Equal(t, 2, doc.Collection.Len())

	s1 := doc.Collection.Shapes[0]
	assert.Equal(t, "001", s1.Name)
	assert.Equal(t, "A1", s1.Well)
	assert.Equal(t, geometry.Polygon{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 0}, {X: 0, Y: 0}}, s1.Ring)

	s2 := doc.Collection.Shapes[1]
	assert.Empty(t, s2.Name)
	assert.Empty(t, s2.Well)
	assert.Len(t, s2.Ring, 3)
}

func TestParseToleratesLayoutVariation(t *testing.T) {
	// Same content, no declaration, collapsed whitespace, unknown sibling.
	compact := `<ImageData><ShapeCount>1</ShapeCount><Vendor>leica</Vendor>` +
		`<Y_CalibrationPoint_1>2</Y_CalibrationPoint_1><X_CalibrationPoint_1>1</X_CalibrationPoint_1>` +
		`<Shape_1><PointCount>1</PointCount><X_1>7</X_1><Y_1>8</Y_1></Shape_1></ImageData>`

	doc, err := Parse([]byte(compact))
	require.NoError(t, err)
	assert.Equal(t, geometry.PointSet{{X: 1, Y: 2}}, doc.Calibration)
	require.Equal(t, 1, doc.Collection.Len())
	assert.Equal(t, geometry.Polygon{{X: 7, Y: 8}}, doc.Collection.Shapes[0].Ring)
}

func TestParseMalformedDocuments(t *testing.T) {
	tests := []struct {
		name string
		xml  string
	}{
		{"wrong root", `<Data></Data>`},
		{"missing Y coordinate", `<ImageData><X_CalibrationPoint_1>1</X_CalibrationPoint_1></ImageData>`},
		{"sparse calibration index", `<ImageData>` +
			`<X_CalibrationPoint_2>1</X_CalibrationPoint_2><Y_CalibrationPoint_2>1</Y_CalibrationPoint_2>` +
			`</ImageData>`},
		{"shape count mismatch", `<ImageData><ShapeCount>2</ShapeCount>` +
			`<Shape_1><PointCount>1</PointCount><X_1>0</X_1><Y_1>0</Y_1></Shape_1></ImageData>`},
		{"point count mismatch", `<ImageData><ShapeCount>1</ShapeCount>` +
			`<Shape_1><PointCount>2</PointCount><X_1>0</X_1><Y_1>0</Y_1></Shape_1></ImageData>`},
		{"non-numeric coordinate", `<ImageData>` +
			`<X_CalibrationPoint_1>abc</X_CalibrationPoint_1><Y_CalibrationPoint_1>1</Y_CalibrationPoint_1>` +
			`</ImageData>`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.xml))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestEncodeGolden(t *testing.T) {
	doc := &Document{
		GlobalCoordinates: 1,
		Calibration:       geometry.PointSet{{X: 15, Y: 1015}, {X: 15, Y: 205}, {X: 1015, Y: 15}},
		Collection: shapes.Collection{Shapes: []shapes.Shape{
			{
				Ring: geometry.Polygon{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 0}, {X: 0, Y: 0}},
				Name: "001",
				Well: "A1",
			},
			{
				Ring: geometry.Polygon{{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 5, Y: 6}},
			},
		}},
	}

	assert.Equal(t, sampleXML, string(Encode(doc)))
}

func TestEncodeFloorsCoordinates(t *testing.T) {
	doc := &Document{
		GlobalCoordinates: 1,
		Calibration:       geometry.PointSet{{X: 1.9, Y: -0.2}},
		Collection: shapes.Collection{Shapes: []shapes.Shape{
			{Ring: geometry.Polygon{{X: 2.999, Y: 3.001}}},
		}},
	}
	out := string(Encode(doc))
	assert.Contains(t, out, "<X_CalibrationPoint_1>1</X_CalibrationPoint_1>")
	assert.Contains(t, out, "<Y_CalibrationPoint_1>-1</Y_CalibrationPoint_1>")
	assert.Contains(t, out, "<X_1>2</X_1>")
	assert.Contains(t, out, "<Y_1>3</Y_1>")
}

func TestEncodeEscapesTags(t *testing.T) {
	doc := &Document{
		GlobalCoordinates: 1,
		Calibration:       geometry.PointSet{{X: 0, Y: 0}},
		Collection: shapes.Collection{Shapes: []shapes.Shape{
			{Ring: geometry.Polygon{{X: 0, Y: 0}}, Name: "a<b&c"},
		}},
	}
	out := string(Encode(doc))
	assert.Contains(t, out, "<TransferID>a&lt;b&amp;c</TransferID>")
}

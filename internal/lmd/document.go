// Package lmd reads and writes the Leica laser-microdissection XML exchange
// format and converts between instrument coordinates and image-pixel
// coordinates via calibration-point matching.
//
// The on-disk schema is a flat ImageData document:
//
//	<ImageData>
//	  <GlobalCoordinates>1</GlobalCoordinates>
//	  <X_CalibrationPoint_1>…</X_CalibrationPoint_1>
//	  <Y_CalibrationPoint_1>…</Y_CalibrationPoint_1>
//	  …
//	  <ShapeCount>N</ShapeCount>
//	  <Shape_1>
//	    <PointCount>M</PointCount>
//	    <TransferID>name</TransferID>   (optional)
//	    <CapID>well</CapID>             (optional)
//	    <X_1>…</X_1><Y_1>…</Y_1> …
//	  </Shape_1>
//	</ImageData>
//
// The writer emits a fixed element order, two-space indentation and floored
// integer coordinates, so a read-then-write cycle of a writer-produced file
// is reproduced line for line.
package lmd

import (
	"errors"

	"github.com/dvp-tools/lmdkit/internal/geometry"
	"github.com/dvp-tools/lmdkit/internal/shapes"
)

var (
	// ErrInsufficientCalibration indicates fewer than three calibration
	// points in a file or an export request.
	ErrInsufficientCalibration = errors.New("lmd: at least 3 calibration points are required")

	// ErrCalibrationMismatch indicates the instrument and image
	// calibration sets differ in length, so no point pairing exists.
	ErrCalibrationMismatch = errors.New("lmd: instrument and image calibration point counts differ")

	// ErrPathExists indicates an export target already exists and
	// overwrite was not requested.
	ErrPathExists = errors.New("lmd: path exists and overwrite is false")

	// ErrMalformed indicates the XML document does not follow the
	// instrument schema.
	ErrMalformed = errors.New("lmd: malformed document")
)

// Document is the in-memory form of one exchange file: the instrument-native
// calibration anchors plus the annotated shapes, both in instrument
// coordinates.
type Document struct {
	// GlobalCoordinates is carried verbatim; the instrument always writes 1.
	GlobalCoordinates int

	// Calibration holds the instrument-native calibration points in file
	// order. Its lifecycle is transient: the import pipeline consumes it
	// immediately and never persists it independently.
	Calibration geometry.PointSet

	// Collection holds the shape annotations.
	Collection shapes.Collection
}

package geometry

import "errors"

// Estimation precondition failures. All are detected synchronously before
// any numeric work and are never retried.
var (
	// ErrPointCountMismatch indicates the query and reference point sets
	// differ in length, so the positional pairing is undefined.
	ErrPointCountMismatch = errors.New("geometry: query and reference point sets differ in length")

	// ErrNotTwoDimensional indicates a point row does not have exactly
	// two coordinates.
	ErrNotTwoDimensional = errors.New("geometry: points must be 2-dimensional")

	// ErrInsufficientPoints indicates fewer than MinCalibrationPoints
	// pairs were supplied. Three points is the minimum determined system
	// for a 6-parameter affine fit; the same floor applies to similarity
	// fits for uniformity.
	ErrInsufficientPoints = errors.New("geometry: at least three point pairs are required")

	// ErrDegeneratePoints indicates the point configuration admits no
	// unique transform (for example all query points coincide).
	ErrDegeneratePoints = errors.New("geometry: degenerate point configuration")
)

// MinCalibrationPoints is the uniform floor on calibration set size.
const MinCalibrationPoints = 3

// Package geometry implements the coordinate-calibration core: best-fit
// affine and similarity transforms between two matched 2D point sets, and
// application of those transforms to polygon vertex rings.
//
// Transforms use the row-vector homogeneous convention: a point (x, y) is
// treated as the row [x y 1] and mapped by right-multiplication with a 3x3
// matrix whose last column is fixed to (0, 0, 1).
package geometry

import "math"

// Point is a position in a 2D coordinate system. It carries no identity
// beyond its coordinates.
type Point struct {
	X float64
	Y float64
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// PointSet is an ordered sequence of points. When used for transform
// estimation, index i of a query set corresponds to index i of the
// reference set; the pairing is positional and is not otherwise checked.
type PointSet []Point

// Polygon is an ordered vertex ring. Whether the first vertex is repeated
// at the end is up to the producer and is preserved through transformation.
type Polygon []Point

// Clone returns an independent copy of the ring.
func (p Polygon) Clone() Polygon {
	out := make(Polygon, len(p))
	copy(out, p)
	return out
}

// Centroid returns the arithmetic mean of the vertices. It returns the
// origin for an empty ring.
func (p Polygon) Centroid() Point {
	if len(p) == 0 {
		return Point{}
	}
	var cx, cy float64
	for _, v := range p {
		cx += v.X
		cy += v.Y
	}
	n := float64(len(p))
	return Point{X: cx / n, Y: cy / n}
}

// PointSetFromRows builds a PointSet from raw coordinate rows, as handed
// over by tabular collaborators. Every row must have exactly two columns;
// anything else is reported as ErrNotTwoDimensional.
func PointSetFromRows(rows [][]float64) (PointSet, error) {
	ps := make(PointSet, 0, len(rows))
	for _, row := range rows {
		if len(row) != 2 {
			return nil, ErrNotTwoDimensional
		}
		ps = append(ps, Point{X: row[0], Y: row[1]})
	}
	return ps, nil
}

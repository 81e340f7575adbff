package geometry

import "math"

// Affine is a 3x3 homogeneous transform in row-vector convention:
//
//	[x' y' 1] = [x y 1] · M
//
// The matrix is stored row-major. For every transform produced by this
// package the last column is (0, 0, 1), the standard affine form.
type Affine [3][3]float64

// Identity returns the identity transform.
func Identity() Affine {
	return Affine{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// AxisSwap returns the permutation transform that exchanges x and y,
// mirroring the plane at the main diagonal. Microdissection instruments
// work in (x, y) while image rasters index (row=y, col=x); applying this
// transform converts between the two conventions.
func AxisSwap() Affine {
	return Affine{
		{0, 1, 0},
		{1, 0, 0},
		{0, 0, 1},
	}
}

// Translation returns a pure translation transform.
func Translation(tx, ty float64) Affine {
	return Affine{
		{1, 0, 0},
		{0, 1, 0},
		{tx, ty, 1},
	}
}

// Scaling returns a pure (possibly anisotropic) scaling transform.
func Scaling(sx, sy float64) Affine {
	return Affine{
		{sx, 0, 0},
		{0, sy, 0},
		{0, 0, 1},
	}
}

// Then composes two transforms. Applying the result is equivalent to
// applying m first and n second. Composition is order-sensitive: an axis
// swap before a calibration transform is not the same as one after it.
func (m Affine) Then(n Affine) Affine {
	var out Affine
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var s float64
			for k := 0; k < 3; k++ {
				s += m[i][k] * n[k][j]
			}
			out[i][j] = s
		}
	}
	return out
}

// Apply maps a single point through the transform.
func (m Affine) Apply(p Point) Point {
	return Point{
		X: p.X*m[0][0] + p.Y*m[1][0] + m[2][0],
		Y: p.X*m[0][1] + p.Y*m[1][1] + m[2][1],
	}
}

// ApplyPolygon maps every vertex of a ring through the transform,
// preserving vertex count and order. The input ring is left untouched.
func (m Affine) ApplyPolygon(ring Polygon) Polygon {
	out := make(Polygon, len(ring))
	for i, p := range ring {
		out[i] = m.Apply(p)
	}
	return out
}

// ApplyPointSet maps an ordered point sequence through the transform.
func (m Affine) ApplyPointSet(ps PointSet) PointSet {
	out := make(PointSet, len(ps))
	for i, p := range ps {
		out[i] = m.Apply(p)
	}
	return out
}

// Linear returns the 2x2 linear part of the transform.
func (m Affine) Linear() [2][2]float64 {
	return [2][2]float64{
		{m[0][0], m[0][1]},
		{m[1][0], m[1][1]},
	}
}

// TranslationPart returns the translation components (tx, ty).
func (m Affine) TranslationPart() (float64, float64) {
	return m[2][0], m[2][1]
}

// Round returns the transform with every entry rounded to the given number
// of decimal digits. Rounding trades exactness for reproducible, human
// comparable exchange files: even an exactly-determined 3-point fit can
// reacquire sub-pixel residual after rounding. Negative digits return the
// transform unchanged.
func (m Affine) Round(digits int) Affine {
	if digits < 0 {
		return m
	}
	scale := math.Pow10(digits)
	var out Affine
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = math.Round(m[i][j]*scale) / scale
		}
	}
	return out
}

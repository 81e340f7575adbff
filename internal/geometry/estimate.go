package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Kind selects the transform family an estimation is constrained to.
type Kind int

const (
	// KindAffine fits a full 6-parameter affine transform (linear part
	// plus translation, shear and anisotropic scale allowed).
	KindAffine Kind = iota

	// KindSimilarity fits a 4-parameter similarity transform: rotation,
	// uniform scale and translation only.
	KindSimilarity
)

// NoRounding disables matrix-entry rounding after estimation.
const NoRounding = -1

// Estimate computes the best-fit transform mapping query points onto
// reference points under positional correspondence (index i of query pairs
// with index i of reference). Both sets must have the same length and hold
// at least MinCalibrationPoints points. For exactly three non-collinear
// pairs the affine solution is exact; for more pairs it is the unique
// least-squares minimiser.
//
// precision rounds every matrix entry to that many decimal digits after
// estimation; pass NoRounding to keep the raw solution. Rounding is a
// deliberate reproducibility trade and can reintroduce sub-pixel residual
// even in the exactly-determined case.
//
// Estimate is a pure function of its inputs.
func Estimate(query, reference PointSet, kind Kind, precision int) (Affine, error) {
	if len(query) != len(reference) {
		return Affine{}, fmt.Errorf("%w: query has %d points, reference has %d",
			ErrPointCountMismatch, len(query), len(reference))
	}
	if len(query) < MinCalibrationPoints {
		return Affine{}, fmt.Errorf("%w: got %d", ErrInsufficientPoints, len(query))
	}

	var (
		m   Affine
		err error
	)
	switch kind {
	case KindSimilarity:
		m, err = estimateSimilarity(query, reference)
	default:
		m, err = estimateAffine(query, reference)
	}
	if err != nil {
		return Affine{}, err
	}
	return m.Round(precision), nil
}

// estimateAffine solves the least-squares system Qh·M = R, where Qh is the
// query matrix with an appended column of ones and R is the reference
// matrix. The 3x2 solution forms the first two columns of the homogeneous
// transform; the last column is fixed to (0, 0, 1).
func estimateAffine(query, reference PointSet) (Affine, error) {
	n := len(query)

	qh := mat.NewDense(n, 3, nil)
	ref := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		qh.Set(i, 0, query[i].X)
		qh.Set(i, 1, query[i].Y)
		qh.Set(i, 2, 1)
		ref.Set(i, 0, reference[i].X)
		ref.Set(i, 1, reference[i].Y)
	}

	var sol mat.Dense
	if err := sol.Solve(qh, ref); err != nil {
		return Affine{}, fmt.Errorf("%w: %v", ErrDegeneratePoints, err)
	}

	var m Affine
	for i := 0; i < 3; i++ {
		m[i][0] = sol.At(i, 0)
		m[i][1] = sol.At(i, 1)
	}
	m[2][2] = 1
	return m, nil
}

// estimateSimilarity computes the closed-form least-squares similarity
// transform (rotation + uniform scale + translation). Centering both sets
// on their centroids reduces the problem to the linear fit of the two
// parameters a = s·cosθ and b = s·sinθ.
func estimateSimilarity(query, reference PointSet) (Affine, error) {
	n := float64(len(query))

	var qcx, qcy, rcx, rcy float64
	for i := range query {
		qcx += query[i].X
		qcy += query[i].Y
		rcx += reference[i].X
		rcy += reference[i].Y
	}
	qcx /= n
	qcy /= n
	rcx /= n
	rcy /= n

	var dot, cross, norm float64
	for i := range query {
		qx, qy := query[i].X-qcx, query[i].Y-qcy
		rx, ry := reference[i].X-rcx, reference[i].Y-rcy
		dot += qx*rx + qy*ry
		cross += qx*ry - qy*rx
		norm += qx*qx + qy*qy
	}
	if norm < 1e-12 {
		return Affine{}, fmt.Errorf("%w: query points are coincident", ErrDegeneratePoints)
	}

	a := dot / norm
	b := cross / norm

	// Row-vector convention: the linear block is the transpose of the
	// column-vector rotation+scale matrix [[a, -b], [b, a]].
	m := Affine{
		{a, b, 0},
		{-b, a, 0},
		{0, 0, 1},
	}
	tx := rcx - (a*qcx - b*qcy)
	ty := rcy - (b*qcx + a*qcy)
	m[2][0] = tx
	m[2][1] = ty
	return m, nil
}

// Residual returns the root-mean-square distance between transformed query
// points and their reference counterparts. Both sets must have equal,
// non-zero length.
func Residual(m Affine, query, reference PointSet) (float64, error) {
	if len(query) != len(reference) {
		return 0, fmt.Errorf("%w: query has %d points, reference has %d",
			ErrPointCountMismatch, len(query), len(reference))
	}
	if len(query) == 0 {
		return 0, fmt.Errorf("%w: got 0", ErrInsufficientPoints)
	}
	var sum float64
	for i := range query {
		p := m.Apply(query[i])
		dx := p.X - reference[i].X
		dy := p.Y - reference[i].Y
		sum += dx*dx + dy*dy
	}
	return math.Sqrt(sum / float64(len(query))), nil
}

package shapes

import (
	"fmt"

	"github.com/dvp-tools/lmdkit/internal/geometry"
)

// DefaultPrecision is the decimal rounding applied to estimated transform
// matrices unless a caller overrides it. Three digits keeps exchange files
// reproducible across runs and platforms.
const DefaultPrecision = 3

// Transform computes the calibration transform from source to target
// coordinates and applies it to every shape in the collection.
//
// The transform is estimated once per call and mapped over all rings, so
// the least-squares solve is amortised across what is typically thousands
// of polygons per slide. The input collection is never mutated; tags and
// attributes pass through unchanged.
func Transform(c Collection, calibrationSource, calibrationTarget geometry.PointSet, kind geometry.Kind, precision int) (Collection, error) {
	if err := validateCalibration(calibrationSource, "source"); err != nil {
		return Collection{}, err
	}
	if err := validateCalibration(calibrationTarget, "target"); err != nil {
		return Collection{}, err
	}

	m, err := geometry.Estimate(calibrationSource, calibrationTarget, kind, precision)
	if err != nil {
		return Collection{}, fmt.Errorf("estimating calibration transform: %w", err)
	}

	out := Apply(c, m)
	if err := out.Validate(); err != nil {
		return Collection{}, err
	}
	return out, nil
}

// Apply maps a fixed transform over every shape of the collection,
// returning a new collection. Use this for convention changes such as the
// axis switch, which are deliberately kept separate from the calibration
// transform.
func Apply(c Collection, m geometry.Affine) Collection {
	out := Collection{Shapes: make([]Shape, len(c.Shapes))}
	for i, s := range c.Shapes {
		ns := s.Clone()
		ns.Ring = m.ApplyPolygon(s.Ring)
		out.Shapes[i] = ns
	}
	return out
}

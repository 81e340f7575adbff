// Package shapes models collections of tagged polygon annotations and the
// calibration-driven transformation between coordinate systems.
package shapes

import (
	"errors"
	"fmt"

	"github.com/dvp-tools/lmdkit/internal/geometry"
)

var (
	// ErrInvalidShape indicates a shape failed structural validation:
	// empty ring or a non-finite vertex coordinate.
	ErrInvalidShape = errors.New("shapes: invalid shape")

	// ErrInvalidCalibration indicates a calibration point set failed
	// structural validation.
	ErrInvalidCalibration = errors.New("shapes: invalid calibration point set")
)

// Shape is one polygon annotation. Name and Well are provenance tags that
// geometric operations pass through unchanged; Attrs carries any further
// columns a collaborator attached.
type Shape struct {
	Ring  geometry.Polygon
	Name  string
	Well  string
	Attrs map[string]string
}

// Clone returns a deep copy of the shape.
func (s Shape) Clone() Shape {
	out := Shape{
		Ring: s.Ring.Clone(),
		Name: s.Name,
		Well: s.Well,
	}
	if s.Attrs != nil {
		out.Attrs = make(map[string]string, len(s.Attrs))
		for k, v := range s.Attrs {
			out.Attrs[k] = v
		}
	}
	return out
}

// Collection is an ordered set of shapes sharing one coordinate system.
type Collection struct {
	Shapes []Shape
}

// Len returns the number of shapes.
func (c Collection) Len() int { return len(c.Shapes) }

// Validate checks every shape structurally: a non-empty vertex ring with
// finite coordinates. Tags are not constrained.
func (c Collection) Validate() error {
	for i, s := range c.Shapes {
		if len(s.Ring) == 0 {
			return fmt.Errorf("%w: shape %d has an empty ring", ErrInvalidShape, i)
		}
		for j, p := range s.Ring {
			if !p.IsFinite() {
				return fmt.Errorf("%w: shape %d vertex %d is not finite", ErrInvalidShape, i, j)
			}
		}
	}
	return nil
}

// validateCalibration checks a calibration point set structurally. Count
// requirements are enforced by the estimator and the exchange adapter, not
// here.
func validateCalibration(ps geometry.PointSet, label string) error {
	for i, p := range ps {
		if !p.IsFinite() {
			return fmt.Errorf("%w: %s point %d is not finite", ErrInvalidCalibration, label, i)
		}
	}
	return nil
}

// Package geom provides the small amount of 2D geometry the stroke engine
// needs: points in canvas coordinate space and midpoint computation.
//
// Points are plain values. Sequences of points (polygon boundaries) are
// owned and mutated by the stroke package; geom itself is side-effect free.
package geom

import (
	"math"

	"github.com/inkbloom/inkbloom/pkg/errors"
)

// Point is an (x, y) position in canvas coordinate space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is a convenience constructor.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Validate checks that p has finite coordinates.
// Non-finite points are a caller error; the stroke engine assumes
// validated input and this is the validation boundary.
func Validate(p Point) error {
	if !p.IsFinite() {
		return errors.New(errors.ErrCodeInvalidGeometry, "point (%v, %v) is not finite", p.X, p.Y)
	}
	return nil
}

// ValidateAll checks every point in pts and reports the first invalid one.
// An empty slice is invalid: a polygon needs at least one vertex.
func ValidateAll(pts []Point) error {
	if len(pts) == 0 {
		return errors.New(errors.ErrCodeInvalidGeometry, "polygon requires at least one vertex")
	}
	for i, p := range pts {
		if !p.IsFinite() {
			return errors.New(errors.ErrCodeInvalidGeometry, "vertex %d (%v, %v) is not finite", i, p.X, p.Y)
		}
	}
	return nil
}

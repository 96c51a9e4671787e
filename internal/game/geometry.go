// Package game implements pepperoni placement, sector balance scoring and the session state machine.
package game

import "math"

// Point is a position in target-local coordinates.
type Point struct {
	X float64
	Y float64
}

// Target describes the pizza surface.
type Target struct {
	Center      Point
	Radius      float64
	InnerRadius float64
}

// Default pizza geometry.
const (
	DefaultCenterX     = 225
	DefaultCenterY     = 225
	DefaultRadius      = 180
	DefaultInnerRadius = 45
)

// DefaultTarget returns the standard pizza geometry.
func DefaultTarget() Target {
	return Target{
		Center:      Point{X: DefaultCenterX, Y: DefaultCenterY},
		Radius:      DefaultRadius,
		InnerRadius: DefaultInnerRadius,
	}
}

// Valid reports whether the geometry can accept placements at all.
func (t Target) Valid() bool {
	if math.IsNaN(t.Radius) || math.IsNaN(t.InnerRadius) {
		return false
	}
	return t.Radius > 0 && t.InnerRadius >= 0 && t.InnerRadius < t.Radius
}

// Contains reports whether p is a valid placement on the target.
func (t Target) Contains(p Point) bool {
	return IsValidPlacement(p, t.Center, t.Radius, t.InnerRadius)
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// IsValidPlacement accepts p iff it lies strictly between the inner and outer radius.
func IsValidPlacement(p, center Point, outerRadius, innerRadius float64) bool {
	d := Distance(p, center)
	return d > innerRadius && d < outerRadius
}

// PolarPoint returns the point at angle degrees and distance r from center.
func PolarPoint(center Point, angle, r float64) Point {
	rad := angle * math.Pi / 180
	return Point{
		X: center.X + math.Cos(rad)*r,
		Y: center.Y + math.Sin(rad)*r,
	}
}

// Package geom holds the coordinate types and pure geometry helpers shared by
// the element handlers, the hit-test dispatcher and the transform engine.
// All angles are in radians, positive clockwise in the y-down screen plane.
package geom

import "math"

// Precision is the number of decimal places numeric element fields keep.
const Precision = 2

var precisionScale = math.Pow(10, Precision)

// XYCoords is a point in either screen or virtual space.
type XYCoords struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p+o.
func (p XYCoords) Add(o XYCoords) XYCoords { return XYCoords{X: p.X + o.X, Y: p.Y + o.Y} }

// Sub returns p-o.
func (p XYCoords) Sub(o XYCoords) XYCoords { return XYCoords{X: p.X - o.X, Y: p.Y - o.Y} }

// BoundingBox is an axis-aligned box in virtual-space units.
type BoundingBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// RotatedBoundingBox is a box rotated about its own center.
type RotatedBoundingBox struct {
	BoundingBox
	Rotate float64 `json:"rotate"`
}

// Contains checks if a point is inside the box, edges included.
func (b BoundingBox) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.W && y >= b.Y && y <= b.Y+b.H
}

// ContainsBox reports whether o lies entirely inside b.
func (b BoundingBox) ContainsBox(o BoundingBox) bool {
	return o.X >= b.X && o.Y >= b.Y && o.X+o.W <= b.X+b.W && o.Y+o.H <= b.Y+b.H
}

// IsEmpty checks if the box has zero or negative area.
func (b BoundingBox) IsEmpty() bool {
	return b.W <= 0 || b.H <= 0
}

// Center returns the center point of the box.
func (b BoundingBox) Center() XYCoords {
	return XYCoords{X: b.X + b.W/2, Y: b.Y + b.H/2}
}

// Union returns the smallest box containing both boxes.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	minX := min(b.X, other.X)
	minY := min(b.Y, other.Y)
	maxX := max(b.X+b.W, other.X+other.W)
	maxY := max(b.Y+b.H, other.Y+other.H)
	return BoundingBox{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// ContainsPoint tests containment after undoing the box rotation.
func (b RotatedBoundingBox) ContainsPoint(p XYCoords) bool {
	c := b.Center()
	x, y := RotatePoint(p.X, p.Y, c.X, c.Y, -b.Rotate)
	return b.Contains(x, y)
}

// Round rounds v to Precision decimal places. Negative zero becomes zero so
// rounded values compare equal with ==.
func Round(v float64) float64 {
	r := math.Round(v*precisionScale) / precisionScale
	if r == 0 {
		return 0
	}
	return r
}

// RoundPoint rounds both axes of p.
func RoundPoint(p XYCoords) XYCoords {
	return XYCoords{X: Round(p.X), Y: Round(p.Y)}
}

// NormalizeAngle maps an angle into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

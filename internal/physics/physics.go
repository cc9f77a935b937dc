// Package physics provides hit-testing and boundary utilities.
package physics

import "math"

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// PointInCircle checks if a point is within radius of a target position.
// Points exactly on the circumference count as inside.
func PointInCircle(px, py, cx, cy, radius float64) bool {
	return DistanceSquared(px, py, cx, cy) <= radius*radius
}

// Clamp limits v to the range [lo, hi]. If the range is empty (lo > hi),
// lo wins, matching max(lo, min(hi, v)).
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Bounds is an axis-aligned rectangle starting at the origin.
type Bounds struct {
	Width, Height float64
}

// Reflect bounces a heading off the edges of b for a circle of radius r at
// (x, y). Crossing the left or right edge mirrors the heading horizontally,
// crossing the top or bottom mirrors it vertically. Both can apply at once
// in a corner.
func (b Bounds) Reflect(x, y, r, angle float64) float64 {
	if x-r < 0 || x+r > b.Width {
		angle = math.Pi - angle
	}
	if y-r < 0 || y+r > b.Height {
		angle = -angle
	}
	return angle
}

// Contain clamps the centre of a circle of radius r so it stays inside b.
func (b Bounds) Contain(x, y, r float64) (float64, float64) {
	return Clamp(x, r, b.Width-r), Clamp(y, r, b.Height-r)
}

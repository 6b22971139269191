// Package physics provides axis-aligned collision and bounds utilities.
package physics

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
// Y grows downward, matching the playfield.
type Rect struct {
	X, Y float64
	W, H float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() (x, y float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Intersects reports whether a and b overlap on both axes.
// Edges that only touch do not count as a collision.
func Intersects(a, b Rect) bool {
	return a.X < b.X+b.W &&
		a.X+a.W > b.X &&
		a.Y < b.Y+b.H &&
		a.Y+a.H > b.Y
}

// ClampX returns x adjusted so that a span of width w stays inside [minX, maxX].
func ClampX(x, w, minX, maxX float64) float64 {
	if x+w > maxX {
		x = maxX - w
	}
	if x < minX {
		x = minX
	}
	return x
}

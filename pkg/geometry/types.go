// Package geometry provides basic integer raster geometry used throughout the application.
package geometry

// PointInt represents a 2D pixel coordinate.
type PointInt struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// RectInt represents an axis-aligned rectangle in pixel coordinates.
// Width and Height count pixels, so the rectangle covers
// [X, X+Width) x [Y, Y+Height).
type RectInt struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewRectInt creates a new RectInt.
func NewRectInt(x, y, width, height int) RectInt {
	return RectInt{X: x, Y: y, Width: width, Height: height}
}

// Empty returns true if the rectangle covers no pixels.
func (r RectInt) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Area returns the number of pixels covered by the rectangle.
func (r RectInt) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

// Contains returns true if the pixel is inside the rectangle.
func (r RectInt) Contains(p PointInt) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Intersects returns true if this rectangle intersects with another.
func (r RectInt) Intersects(other RectInt) bool {
	return r.X < other.X+other.Width && r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height && r.Y+r.Height > other.Y
}

// ExpandToInclude grows the rectangle so it covers the given pixel.
// An empty rectangle becomes the 1x1 rectangle at the pixel.
func (r RectInt) ExpandToInclude(p PointInt) RectInt {
	if r.Empty() {
		return RectInt{X: p.X, Y: p.Y, Width: 1, Height: 1}
	}
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.Width, r.Y+r.Height
	if p.X < x0 {
		x0 = p.X
	}
	if p.X+1 > x1 {
		x1 = p.X + 1
	}
	if p.Y < y0 {
		y0 = p.Y
	}
	if p.Y+1 > y1 {
		y1 = p.Y + 1
	}
	return RectInt{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

package model

import "math"

// Point represents a 2D point.
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// BBox represents an axis-aligned bounding box. X0/Y0 is the top-left
// corner, X1/Y1 the bottom-right corner (top-left origin, Y grows down).
type BBox struct {
	X0, Y0, X1, Y1 float64
}

// NewBBox creates a bounding box, normalizing swapped corners.
func NewBBox(x0, y0, x1, y1 float64) BBox {
	return BBox{
		X0: math.Min(x0, x1),
		Y0: math.Min(y0, y1),
		X1: math.Max(x0, x1),
		Y1: math.Max(y0, y1),
	}
}

// Width returns the horizontal extent of the box.
func (b BBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the vertical extent of the box.
func (b BBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Area returns the area of the bounding box.
func (b BBox) Area() float64 {
	return b.Width() * b.Height()
}

// Center returns the center point.
func (b BBox) Center() Point {
	return Point{
		X: (b.X0 + b.X1) / 2,
		Y: (b.Y0 + b.Y1) / 2,
	}
}

// Contains checks if a point is inside the bounding box.
func (b BBox) Contains(p Point) bool {
	return p.X >= b.X0 && p.X <= b.X1 && p.Y >= b.Y0 && p.Y <= b.Y1
}

// Intersects checks if two bounding boxes intersect.
func (b BBox) Intersects(other BBox) bool {
	return !(b.X1 < other.X0 || b.X0 > other.X1 ||
		b.Y1 < other.Y0 || b.Y0 > other.Y1)
}

// Intersection returns the intersection of two bounding boxes, or the zero
// box when they do not intersect.
func (b BBox) Intersection(other BBox) BBox {
	if !b.Intersects(other) {
		return BBox{}
	}
	return BBox{
		X0: math.Max(b.X0, other.X0),
		Y0: math.Max(b.Y0, other.Y0),
		X1: math.Min(b.X1, other.X1),
		Y1: math.Min(b.Y1, other.Y1),
	}
}

// Union returns the smallest box covering both boxes.
func (b BBox) Union(other BBox) BBox {
	return BBox{
		X0: math.Min(b.X0, other.X0),
		Y0: math.Min(b.Y0, other.Y0),
		X1: math.Max(b.X1, other.X1),
		Y1: math.Max(b.Y1, other.Y1),
	}
}

// OverlapRatio returns the fraction of the receiver's area covered by the
// intersection with other, between 0 and 1. A zero-area receiver yields 0.
func (b BBox) OverlapRatio(other BBox) float64 {
	if !b.Intersects(other) {
		return 0
	}
	area := b.Area()
	if area <= 0 {
		return 0
	}
	return b.Intersection(other).Area() / area
}

// IsEmpty returns true if the bounding box has zero or negative area.
func (b BBox) IsEmpty() bool {
	return b.Width() <= 0 || b.Height() <= 0
}

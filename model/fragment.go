package model

import "math"

// Source tags where a fragment came from.
type Source int

const (
	// SourceDigital marks text extracted directly from the page content.
	SourceDigital Source = iota
	// SourceRecognized marks text produced by an OCR engine.
	SourceRecognized
)

// String returns a string representation of the source tag.
func (s Source) String() string {
	if s == SourceRecognized {
		return "recognized"
	}
	return "digital"
}

// Fragment is a unit of positioned text with font metrics and a source tag.
// Fragments are immutable once created: pipeline stages reorder and copy
// them but never change their fields.
type Fragment struct {
	// Page is the 0-based page index the fragment belongs to.
	Page int

	// BBox is the fragment's bounding box in page coordinates.
	BBox BBox

	// Text is the fragment's text content.
	Text string

	// FontSize is the font size in points. Zero for recognized fragments,
	// which carry no font metrics.
	FontSize float64

	// Bold indicates a bold typeface.
	Bold bool

	// Source tags the fragment as digital or recognized.
	Source Source

	// Confidence is the recognition confidence on a 0-100 scale for
	// recognized fragments. Zero for digital fragments.
	Confidence float64
}

// Orientation classifies a line segment by its dominant axis.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// String returns a string representation of the orientation.
func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// LineSegment is a drawing primitive consumed only by table reconstruction.
type LineSegment struct {
	// Page is the 0-based page index.
	Page int

	// A and B are the segment endpoints.
	A, B Point
}

// Orientation returns the segment's orientation by dominant axis delta.
// A perfectly diagonal segment counts as horizontal.
func (s LineSegment) Orientation() Orientation {
	if math.Abs(s.B.Y-s.A.Y) > math.Abs(s.B.X-s.A.X) {
		return Vertical
	}
	return Horizontal
}

// BBox returns the segment's bounding box.
func (s LineSegment) BBox() BBox {
	return NewBBox(s.A.X, s.A.Y, s.B.X, s.B.Y)
}

// Length returns the segment's length.
func (s LineSegment) Length() float64 {
	return s.A.Distance(s.B)
}

// ImageRef is a reference to an image placed on a page. Image bytes stay
// with the page source; the core only tracks position.
type ImageRef struct {
	Page int
	BBox BBox
}

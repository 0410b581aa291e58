// Package source defines the input contract for the structuring pipeline:
// page sources hand over position-tagged fragments, ruling line segments,
// and image references, one page at a time. The package also carries the
// closed format registry that maps detected document formats to their
// decoder constructors.
package source

import (
	"errors"
	"fmt"

	"github.com/structura-io/structura/model"
)

// ErrPageOutOfRange is returned when a page index is outside the source.
var ErrPageOutOfRange = errors.New("source: page index out of range")

// PageContent is everything a source knows about one page. Fragments are
// digitally extracted text; Recognized holds OCR output for the same page
// when the source ran recognition. Coordinates use a top-left origin with
// Y growing downward, in the page's own units.
type PageContent struct {
	// Number is the 0-based page index.
	Number int

	// Width and Height are the page dimensions.
	Width, Height float64

	// Fragments are the digitally extracted text fragments.
	Fragments []model.Fragment

	// Segments are ruling lines drawn on the page, used for table
	// boundary detection.
	Segments []model.LineSegment

	// Images are references to raster images placed on the page.
	Images []model.ImageRef

	// Recognized are OCR-produced fragments for this page, if any.
	Recognized []model.Fragment
}

// DigitalChars returns the total character count of the page's digital
// fragments.
func (p PageContent) DigitalChars() int {
	n := 0
	for _, f := range p.Fragments {
		n += len([]rune(f.Text))
	}
	return n
}

// PageSource supplies page content to the pipeline. Implementations must
// be safe for concurrent Page calls on distinct indices.
type PageSource interface {
	// PageCount returns the number of pages in the source.
	PageCount() int

	// Page returns the content of the 0-based page index i.
	Page(i int) (PageContent, error)
}

// Engine recognizes text in a rendered page image. Implementations must
// filter out fragments below the recognition confidence floor before
// returning; the pipeline trusts every fragment it is handed.
type Engine interface {
	// RecognizePage returns recognized fragments for the page image.
	RecognizePage(imageData []byte, page int) ([]model.Fragment, error)

	// Close releases engine resources.
	Close() error
}

// SliceSource is a PageSource backed by an in-memory slice of pages.
type SliceSource []PageContent

// PageCount returns the number of pages.
func (s SliceSource) PageCount() int { return len(s) }

// Page returns page i or ErrPageOutOfRange.
func (s SliceSource) Page(i int) (PageContent, error) {
	if i < 0 || i >= len(s) {
		return PageContent{}, fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, i, len(s))
	}
	return s[i], nil
}

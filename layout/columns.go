package layout

import (
	"sort"

	"github.com/structura-io/structura/model"
)

// ColumnBand is a left-to-right horizontal band of the page holding one
// column of text. Left and Right are the band's X extent.
type ColumnBand struct {
	Left  float64
	Right float64
}

// detectBands partitions the page into column bands by analyzing the
// distribution of fragment start positions. A gap between adjacent distinct
// left-x values wider than gapRatio times the reference width flags a
// column break at the gap's midpoint. The reference width is the page width
// when known, otherwise the horizontal extent of the content. Pages with no
// qualifying gap come back as a single band, however ragged the layout.
func detectBands(fragments []model.Fragment, pageWidth, gapRatio float64, maxColumns int) []ColumnBand {
	if len(fragments) == 0 {
		return nil
	}

	xs := distinctLefts(fragments)

	minLeft := xs[0]
	maxRight := fragments[0].BBox.X1
	for _, f := range fragments {
		if f.BBox.X1 > maxRight {
			maxRight = f.BBox.X1
		}
	}

	ref := pageWidth
	if ref <= 0 {
		ref = maxRight - minLeft
	}
	if ref <= 0 {
		return []ColumnBand{{Left: minLeft, Right: maxRight}}
	}

	minGap := gapRatio * ref

	var breaks []float64
	for i := 0; i+1 < len(xs); i++ {
		if xs[i+1]-xs[i] > minGap {
			breaks = append(breaks, (xs[i]+xs[i+1])/2)
		}
	}
	if maxColumns > 0 && len(breaks) >= maxColumns {
		breaks = breaks[:maxColumns-1]
	}

	bands := make([]ColumnBand, 0, len(breaks)+1)
	left := minLeft
	for _, b := range breaks {
		bands = append(bands, ColumnBand{Left: left, Right: b})
		left = b
	}
	bands = append(bands, ColumnBand{Left: left, Right: maxRight})
	return bands
}

// distinctLefts returns the sorted distinct left-x values of the fragments.
func distinctLefts(fragments []model.Fragment) []float64 {
	seen := make(map[float64]struct{}, len(fragments))
	var xs []float64
	for _, f := range fragments {
		if _, ok := seen[f.BBox.X0]; !ok {
			seen[f.BBox.X0] = struct{}{}
			xs = append(xs, f.BBox.X0)
		}
	}
	sort.Float64s(xs)
	return xs
}

// bandIndex returns the index of the band containing x. Values left of the
// first band map to band 0; values past the last band map to the last band.
func bandIndex(bands []ColumnBand, x float64) int {
	for i, b := range bands {
		if x < b.Right || i == len(bands)-1 {
			return i
		}
	}
	return 0
}

// spansBands reports whether a box's horizontal extent covers more than one
// band, which makes its content a full-width separator in reading order.
func spansBands(bands []ColumnBand, box model.BBox) bool {
	if len(bands) < 2 {
		return false
	}
	first := bandIndex(bands, box.X0)
	// The right edge is checked slightly inward so a box ending exactly at
	// a band boundary does not count as entering the next band.
	last := bandIndex(bands, box.X1-1e-9)
	return last > first
}

package layout

import "github.com/structura-io/structura/model"

// ReadingConfig holds the reading-order resolver's tunable parameters. The
// defaults are a starting configuration, not verified constants; callers
// with unusual layouts are expected to recalibrate.
type ReadingConfig struct {
	// LineToleranceFactor scales the median fragment height to obtain the
	// vertical tolerance for grouping fragments into lines.
	// Default: 0.5
	LineToleranceFactor float64

	// ColumnGapRatio is the minimum horizontal gap between fragment start
	// positions, as a fraction of page width, to detect a column break.
	// Default: 0.15
	ColumnGapRatio float64

	// MaxColumns caps the number of detected column bands.
	// Default: 6
	MaxColumns int
}

// DefaultReadingConfig returns the documented default configuration.
func DefaultReadingConfig() ReadingConfig {
	return ReadingConfig{
		LineToleranceFactor: 0.5,
		ColumnGapRatio:      0.15,
		MaxColumns:          6,
	}
}

// Resolver produces a total reading order over one page's fragments.
type Resolver struct {
	config ReadingConfig
}

// NewResolver creates a resolver with default configuration.
func NewResolver() *Resolver {
	return &Resolver{config: DefaultReadingConfig()}
}

// NewResolverWithConfig creates a resolver with custom configuration.
func NewResolverWithConfig(config ReadingConfig) *Resolver {
	return &Resolver{config: config}
}

// Resolve returns the page's fragments as a permutation in reading order.
// The result is deterministic: identical input always yields the identical
// permutation, with positional ties broken by extraction order.
func (r *Resolver) Resolve(fragments []model.Fragment, pageWidth float64) []model.Fragment {
	lines := r.ResolveLines(fragments, pageWidth)

	ordered := make([]model.Fragment, 0, len(fragments))
	for _, line := range lines {
		ordered = append(ordered, line.Fragments...)
	}
	return ordered
}

// ColumnCount returns the number of column bands the resolver detects for
// the page's fragments. Single-column pages report 1.
func (r *Resolver) ColumnCount(fragments []model.Fragment, pageWidth float64) int {
	bands := detectBands(fragments, pageWidth, r.config.ColumnGapRatio, r.config.MaxColumns)
	if len(bands) == 0 {
		return 1
	}
	return len(bands)
}

// ResolveLines returns the page's visual lines in reading order.
//
// Single-band pages degenerate to top-to-bottom, left-to-right order. On
// multi-column pages, fragments spanning more than one band are full-width
// separators: they split the page into vertical regions, and within a
// region columns are read left to right, top to bottom. Reading crosses
// back to the first column only at a separator.
func (r *Resolver) ResolveLines(fragments []model.Fragment, pageWidth float64) []VisualLine {
	if len(fragments) == 0 {
		return nil
	}

	tolerance := medianHeight(fragments) * r.config.LineToleranceFactor
	bands := detectBands(fragments, pageWidth, r.config.ColumnGapRatio, r.config.MaxColumns)
	if len(bands) <= 1 {
		return clusterLines(fragments, tolerance)
	}

	// Split separator fragments from column content, then cluster lines
	// per band so same-height fragments in different columns never merge.
	var separators []model.Fragment
	byBand := make([][]model.Fragment, len(bands))
	for _, f := range fragments {
		if spansBands(bands, f.BBox) {
			separators = append(separators, f)
			continue
		}
		b := bandIndex(bands, f.BBox.X0)
		byBand[b] = append(byBand[b], f)
	}

	sepLines := clusterLines(separators, tolerance)
	bandLines := make([][]VisualLine, len(bands))
	for b := range bands {
		bandLines[b] = clusterLines(byBand[b], tolerance)
	}

	// Emit region by region: all column lines above a separator, band by
	// band, then the separator itself.
	var ordered []VisualLine
	cursors := make([]int, len(bands))

	emitRegion := func(limit float64, bounded bool) {
		for b := range bands {
			for cursors[b] < len(bandLines[b]) {
				line := bandLines[b][cursors[b]]
				if bounded && line.BBox.Center().Y > limit {
					break
				}
				ordered = append(ordered, line)
				cursors[b]++
			}
		}
	}

	for _, sep := range sepLines {
		emitRegion(sep.BBox.Center().Y, true)
		ordered = append(ordered, sep)
	}
	emitRegion(0, false)

	return ordered
}

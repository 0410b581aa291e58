package layout

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/structura-io/structura/model"
)

// HeadingConfig holds the heading classifier's tunable parameters.
type HeadingConfig struct {
	// FontRatio is the minimum font size relative to the document median
	// for a fragment to be a heading candidate on size alone.
	// Default: 1.2
	FontRatio float64

	// MaxDepth is the maximum displayed heading level; candidate sizes
	// deeper in the size ranking all map to this level.
	// Default: 3
	MaxDepth int
}

// DefaultHeadingConfig returns the documented default configuration.
func DefaultHeadingConfig() HeadingConfig {
	return HeadingConfig{
		FontRatio: 1.2,
		MaxDepth:  3,
	}
}

// FontStats is the immutable document-wide statistics snapshot computed in
// the first pipeline phase and threaded into per-page classification. It is
// never updated after construction.
type FontStats struct {
	// Median is the median font size across all measured fragments.
	Median float64

	// levels maps a candidate font size to its heading level (1-based).
	levels map[float64]int

	config HeadingConfig
}

// ComputeFontStats makes one read-only pass over the document's fragments
// and derives the median font size and the size-to-level ranking. Distinct
// candidate sizes sorted descending map to levels 1..MaxDepth; sizes beyond
// the cap clamp to MaxDepth. Fragments with identical font size always map
// to the identical level.
//
// A document with no font size variance produces a snapshot that classifies
// nothing as a heading: a valid terminal state, not an error.
func ComputeFontStats(fragments []model.Fragment, config HeadingConfig) FontStats {
	fs := FontStats{levels: map[float64]int{}, config: config}

	var sizes []float64
	distinct := map[float64]struct{}{}
	for _, f := range fragments {
		if f.FontSize <= 0 {
			continue
		}
		sizes = append(sizes, f.FontSize)
		distinct[f.FontSize] = struct{}{}
	}
	if len(sizes) == 0 || len(distinct) < 2 {
		return fs
	}

	median, err := stats.Median(sizes)
	if err != nil || median <= 0 {
		return fs
	}
	fs.Median = median

	// Candidate sizes: any size that could satisfy the heading predicate.
	// Bold-only candidacy at or above the median still ranks by size.
	var candidates []float64
	for size := range distinct {
		if size >= median*config.FontRatio || hasBoldAt(fragments, size, median) {
			candidates = append(candidates, size)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(candidates)))

	for i, size := range candidates {
		level := i + 1
		if level > config.MaxDepth {
			level = config.MaxDepth
		}
		fs.levels[size] = level
	}
	return fs
}

// hasBoldAt reports whether any fragment at the given size is bold and at
// or above the median.
func hasBoldAt(fragments []model.Fragment, size, median float64) bool {
	if size < median {
		return false
	}
	for _, f := range fragments {
		if f.FontSize == size && f.Bold {
			return true
		}
	}
	return false
}

// Level returns the heading level for a fragment, 0 for body text. A
// fragment is a heading when its size is at least FontRatio times the
// median, or it is bold at or above the median. Recognized fragments carry
// no font metrics and are always body text.
func (s FontStats) Level(f model.Fragment) int {
	if s.Median <= 0 || f.Source == model.SourceRecognized || f.FontSize <= 0 {
		return 0
	}
	if f.FontSize >= s.Median*s.config.FontRatio || (f.Bold && f.FontSize >= s.Median) {
		return s.levels[f.FontSize]
	}
	return 0
}

// HasHeadings reports whether the snapshot can classify any heading at all.
func (s FontStats) HasHeadings() bool {
	return len(s.levels) > 0
}

// Package hybrid deduplicates two fragment streams for the same page: the
// digital stream from direct content extraction and the recognized stream
// from OCR over a rendered image of the page. Recognized fragments whose
// bounding box mostly overlaps printed text are duplicates and are dropped;
// the survivors are content only the image carries, typically handwriting.
//
// The digital stream is authoritative: merge never drops a digital
// fragment, so the digital set is always a subset of the merged output and
// merging is idempotent.
package hybrid

import (
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/structura-io/structura/model"
)

// Config holds the merge engine's tunable parameters.
type Config struct {
	// DedupThreshold is the overlap fraction of a recognized fragment's
	// box against a digital fragment's box above which the recognized
	// fragment is discarded as a duplicate of printed text.
	// Default: 0.6
	DedupThreshold float64

	// MinDigitalChars and MaxDigitalChars bound the digital text length
	// for a page to be eligible for hybrid processing. Below the minimum
	// the page is effectively scanned; above the maximum it is a normal
	// digital page.
	// Defaults: 50 and 2000
	MinDigitalChars int
	MaxDigitalChars int

	// MaxLabelWords is the exclusive upper bound on the median
	// words-per-line for a page's digital text to look label-like
	// (form-shaped) rather than prose.
	// Default: 5
	MaxLabelWords float64
}

// DefaultConfig returns the documented default configuration.
func DefaultConfig() Config {
	return Config{
		DedupThreshold:  0.6,
		MinDigitalChars: 50,
		MaxDigitalChars: 2000,
		MaxLabelWords:   5,
	}
}

// Merger merges a page's digital and recognized fragment sets.
type Merger struct {
	config Config
}

// NewMerger creates a merger with default configuration.
func NewMerger() *Merger {
	return &Merger{config: DefaultConfig()}
}

// NewMergerWithConfig creates a merger with custom configuration.
func NewMergerWithConfig(config Config) *Merger {
	return &Merger{config: config}
}

// Eligible reports whether a page should go through hybrid processing:
// a moderate amount of digital text shaped like short labels. Pages with
// near-empty digital text are fully scanned (pure OCR territory) and pages
// with long prose lines are normal digital pages; both skip the merge.
func (m *Merger) Eligible(digital []model.Fragment) bool {
	chars := 0
	var wordsPerLine []float64
	for _, f := range digital {
		text := strings.TrimSpace(f.Text)
		if text == "" {
			continue
		}
		chars += len([]rune(text))
		wordsPerLine = append(wordsPerLine, float64(len(strings.Fields(text))))
	}

	if chars < m.config.MinDigitalChars || chars > m.config.MaxDigitalChars {
		return false
	}
	if len(wordsPerLine) == 0 {
		return false
	}

	median, err := stats.Median(wordsPerLine)
	if err != nil {
		return false
	}
	return median < m.config.MaxLabelWords
}

// Merge returns the union of all digital fragments and the recognized
// fragments that do not duplicate printed text. A recognized fragment is a
// duplicate when its maximum overlap fraction against any digital fragment
// exceeds the dedup threshold; on an exact tie at the threshold it is kept,
// and the digital copy is always authoritative either way.
func (m *Merger) Merge(digital, recognized []model.Fragment) []model.Fragment {
	merged := make([]model.Fragment, 0, len(digital)+len(recognized))
	merged = append(merged, digital...)

	for _, rec := range recognized {
		best := 0.0
		for _, dig := range digital {
			if ov := rec.BBox.OverlapRatio(dig.BBox); ov > best {
				best = ov
			}
		}
		if best > m.config.DedupThreshold {
			continue
		}
		rec.Source = model.SourceRecognized
		merged = append(merged, rec)
	}

	return merged
}

// IsScannedPage reports whether a page with the given digital text length
// and image count is a fully scanned page that should go straight to OCR
// rather than through hybrid merge.
func (m *Merger) IsScannedPage(digitalChars, imageCount int) bool {
	return digitalChars < m.config.MinDigitalChars && imageCount > 0
}

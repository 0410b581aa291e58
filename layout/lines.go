package layout

import (
	"sort"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/structura-io/structura/model"
)

// VisualLine is a horizontal band of fragments whose vertical centers fall
// within the line tolerance of each other.
type VisualLine struct {
	// BBox is the union of the fragment boxes.
	BBox model.BBox

	// Fragments in within-line reading order (left to right, or right to
	// left for RTL-dominant lines).
	Fragments []model.Fragment

	// Direction is the dominant text direction of the line.
	Direction Direction
}

// Text returns the line's fragments joined by single spaces.
func (l VisualLine) Text() string {
	parts := make([]string, len(l.Fragments))
	for i, f := range l.Fragments {
		parts[i] = f.Text
	}
	return strings.Join(parts, " ")
}

// indexed pairs a fragment with its original extraction position so that
// positional ties break deterministically.
type indexed struct {
	frag  model.Fragment
	index int
}

// medianHeight returns the median fragment height, or 0 for no fragments.
func medianHeight(fragments []model.Fragment) float64 {
	if len(fragments) == 0 {
		return 0
	}
	heights := make([]float64, len(fragments))
	for i, f := range fragments {
		heights[i] = f.BBox.Height()
	}
	m, err := stats.Median(heights)
	if err != nil {
		return 0
	}
	return m
}

// clusterLines groups fragments into visual lines. Fragments are processed
// in order of vertical center (ties by extraction order); a fragment joins
// the current line when its center is within tolerance of the line's mean
// center, otherwise it starts a new line.
func clusterLines(fragments []model.Fragment, tolerance float64) []VisualLine {
	if len(fragments) == 0 {
		return nil
	}
	if tolerance <= 0 {
		tolerance = 1.0
	}

	ordered := make([]indexed, len(fragments))
	for i, f := range fragments {
		ordered[i] = indexed{frag: f, index: i}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		ci := ordered[i].frag.BBox.Center().Y
		cj := ordered[j].frag.BBox.Center().Y
		if ci != cj {
			return ci < cj
		}
		return ordered[i].index < ordered[j].index
	})

	var lines [][]indexed
	current := []indexed{ordered[0]}
	centerSum := ordered[0].frag.BBox.Center().Y

	for _, item := range ordered[1:] {
		mean := centerSum / float64(len(current))
		c := item.frag.BBox.Center().Y
		if c-mean <= tolerance {
			current = append(current, item)
			centerSum += c
		} else {
			lines = append(lines, current)
			current = []indexed{item}
			centerSum = c
		}
	}
	lines = append(lines, current)

	result := make([]VisualLine, 0, len(lines))
	for _, members := range lines {
		result = append(result, buildLine(members))
	}
	return result
}

// buildLine orders a line's members horizontally and assembles the line.
// RTL-dominant lines are ordered right to left.
func buildLine(members []indexed) VisualLine {
	dir := lineDirection(members)

	sort.SliceStable(members, func(i, j int) bool {
		xi := members[i].frag.BBox.X0
		xj := members[j].frag.BBox.X0
		if xi != xj {
			if dir == RTL {
				return xi > xj
			}
			return xi < xj
		}
		return members[i].index < members[j].index
	})

	line := VisualLine{Direction: dir}
	for i, m := range members {
		if i == 0 {
			line.BBox = m.frag.BBox
		} else {
			line.BBox = line.BBox.Union(m.frag.BBox)
		}
		line.Fragments = append(line.Fragments, m.frag)
	}
	return line
}

// lineDirection returns the majority direction across a line's fragments.
func lineDirection(members []indexed) Direction {
	ltr, rtl := 0, 0
	for _, m := range members {
		switch DetectDirection(m.frag.Text) {
		case LTR:
			ltr++
		case RTL:
			rtl++
		}
	}
	if rtl > ltr {
		return RTL
	}
	return LTR
}

package tables

import (
	"math"
	"sort"

	"github.com/structura-io/structura/model"
)

// Config holds table reconstruction parameters. The thresholds are tunable
// heuristics with documented defaults, not verified constants.
type Config struct {
	// SnapTolerance is the distance within which near-collinear segments
	// snap to one boundary, and the bin width of the spatial fallback.
	// Default: 3.0
	SnapTolerance float64

	// MinCellOverlap is the overlap fraction a fragment's bounding box
	// must exceed with its best cell to be assigned to the table.
	// Default: 0.5
	MinCellOverlap float64

	// MaxLineSegments caps the line-based path's input. Pages with more
	// segments skip straight to the spatial fallback.
	// Default: 500
	MaxLineSegments int

	// MinOccupancy is the minimum fraction of filled cells for the
	// spatial fallback to accept a candidate grid.
	// Default: 0.5
	MinOccupancy float64
}

// DefaultConfig returns the documented default configuration.
func DefaultConfig() Config {
	return Config{
		SnapTolerance:   3.0,
		MinCellOverlap:  0.5,
		MaxLineSegments: 500,
		MinOccupancy:    0.5,
	}
}

// Result is the outcome of table reconstruction on one page.
type Result struct {
	// Table is the promoted table, or nil when the page has none.
	Table *model.Table

	// Consumed marks the indices (into the input fragment slice) of
	// fragments assigned to table cells. Unassigned fragments remain
	// normal page fragments.
	Consumed map[int]bool

	// CapExceeded is true when the segment cap forced the fallback path.
	CapExceeded bool

	// Discarded is true when a candidate grid was found but failed the
	// minimum shape invariants and was thrown away.
	Discarded bool
}

// Builder reconstructs tables from line geometry and fragment positions.
type Builder struct {
	config Config
}

// NewBuilder creates a builder with default configuration.
func NewBuilder() *Builder {
	return &Builder{config: DefaultConfig()}
}

// NewBuilderWithConfig creates a builder with custom configuration.
func NewBuilderWithConfig(config Config) *Builder {
	return &Builder{config: config}
}

// Build reconstructs at most one table from a page's ordered fragments and
// line segments. Fragments must already be in reading order; cell text
// concatenates in that order. When headerOverride is non-nil it replaces
// the first grid row as the header row and all grid rows become data.
//
// multiColumn reports that the page's text flows in multiple column bands.
// The spatial fallback is skipped on such pages: prose lines that happen to
// align vertically across columns are indistinguishable from a borderless
// grid, and swallowing them would destroy column reading order. Ruled
// tables are unaffected; the line-based path always runs.
func (b *Builder) Build(page int, fragments []model.Fragment, segments []model.LineSegment, headerOverride []string, multiColumn bool) *Result {
	res := &Result{Consumed: map[int]bool{}}

	if len(segments) > b.config.MaxLineSegments {
		res.CapExceeded = true
		if !multiColumn {
			b.buildSpatial(page, fragments, headerOverride, res)
		}
		return res
	}

	if len(segments) > 0 {
		b.buildFromLines(page, fragments, segments, headerOverride, res)
		if res.Table != nil {
			return res
		}
	}

	if !multiColumn {
		b.buildSpatial(page, fragments, headerOverride, res)
	}
	if res.Table != nil {
		// A line-path discard is moot once the fallback promoted a table.
		res.Discarded = false
	}
	return res
}

// boundary is a snapped grid boundary: its position on the snap axis and
// its extent along the perpendicular axis.
type boundary struct {
	pos      float64
	min, max float64
}

// buildFromLines runs the line-based reconstruction path.
func (b *Builder) buildFromLines(page int, fragments []model.Fragment, segments []model.LineSegment, headerOverride []string, res *Result) {
	var horizontal, vertical []model.LineSegment
	for _, s := range segments {
		if s.Orientation() == model.Horizontal {
			horizontal = append(horizontal, s)
		} else {
			vertical = append(vertical, s)
		}
	}

	rows := b.snapBoundaries(horizontal, true)
	cols := b.snapBoundaries(vertical, false)

	// Keep only boundaries whose segments actually cross at least two of
	// the perpendicular set; stray rules are not grid lines.
	rows = b.filterIntersecting(rows, cols)
	cols = b.filterIntersecting(cols, rows)

	if len(rows) < 2 || len(cols) < 2 {
		return
	}
	if len(rows) < model.MinTableRows+1 || len(cols) < model.MinTableCols+1 {
		res.Discarded = true
		return
	}

	rowPos := positions(rows)
	colPos := positions(cols)

	grid, consumed := b.assignToGrid(fragments, rowPos, colPos)
	grid, rowPos, colPos = trimEmptyBoundaries(grid, rowPos, colPos)

	if len(grid) < model.MinTableRows || len(grid) == 0 || len(grid[0]) < model.MinTableCols {
		res.Discarded = true
		return
	}

	res.Table = promote(page, grid, headerOverride, model.NewBBox(colPos[0], rowPos[0], colPos[len(colPos)-1], rowPos[len(rowPos)-1]))
	res.Consumed = consumed
}

// snapBoundaries clusters near-collinear segments into grid boundaries.
// For horizontal segments the snap axis is Y; for vertical segments it is X.
func (b *Builder) snapBoundaries(segments []model.LineSegment, horizontal bool) []boundary {
	if len(segments) == 0 {
		return nil
	}

	type located struct {
		pos      float64
		min, max float64
	}
	items := make([]located, len(segments))
	for i, s := range segments {
		if horizontal {
			items[i] = located{
				pos: (s.A.Y + s.B.Y) / 2,
				min: math.Min(s.A.X, s.B.X),
				max: math.Max(s.A.X, s.B.X),
			}
		} else {
			items[i] = located{
				pos: (s.A.X + s.B.X) / 2,
				min: math.Min(s.A.Y, s.B.Y),
				max: math.Max(s.A.Y, s.B.Y),
			}
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].pos < items[j].pos })

	var out []boundary
	sum := items[0].pos
	count := 1
	current := boundary{min: items[0].min, max: items[0].max}

	flush := func() {
		current.pos = sum / float64(count)
		out = append(out, current)
	}

	for _, it := range items[1:] {
		if it.pos-sum/float64(count) <= b.config.SnapTolerance {
			sum += it.pos
			count++
			current.min = math.Min(current.min, it.min)
			current.max = math.Max(current.max, it.max)
		} else {
			flush()
			sum = it.pos
			count = 1
			current = boundary{min: it.min, max: it.max}
		}
	}
	flush()
	return out
}

// filterIntersecting keeps boundaries crossed by at least two boundaries of
// the perpendicular set, within the snap tolerance.
func (b *Builder) filterIntersecting(own, perp []boundary) []boundary {
	if len(perp) == 0 {
		return nil
	}
	tol := b.config.SnapTolerance

	var out []boundary
	for _, o := range own {
		crossings := 0
		for _, p := range perp {
			// o runs along [o.min,o.max] at position o.pos; p crosses it
			// when each lies within the other's extent.
			if p.pos >= o.min-tol && p.pos <= o.max+tol &&
				o.pos >= p.min-tol && o.pos <= p.max+tol {
				crossings++
			}
		}
		if crossings >= 2 {
			out = append(out, o)
		}
	}
	return out
}

// positions extracts sorted boundary positions.
func positions(bs []boundary) []float64 {
	out := make([]float64, len(bs))
	for i, b := range bs {
		out[i] = b.pos
	}
	sort.Float64s(out)
	return out
}

// assignToGrid places each fragment into the cell its bounding box overlaps
// most, requiring the overlap fraction to exceed MinCellOverlap. Fragments
// with no qualifying cell stay out of the table.
func (b *Builder) assignToGrid(fragments []model.Fragment, rowPos, colPos []float64) ([][]string, map[int]bool) {
	nRows := len(rowPos) - 1
	nCols := len(colPos) - 1
	grid := make([][]string, nRows)
	for i := range grid {
		grid[i] = make([]string, nCols)
	}
	consumed := map[int]bool{}

	for idx, f := range fragments {
		bestRow, bestCol := -1, -1
		best := 0.0
		for r := 0; r < nRows; r++ {
			for c := 0; c < nCols; c++ {
				cell := model.NewBBox(colPos[c], rowPos[r], colPos[c+1], rowPos[r+1])
				if ov := f.BBox.OverlapRatio(cell); ov > best {
					best = ov
					bestRow, bestCol = r, c
				}
			}
		}
		if bestRow < 0 || best <= b.config.MinCellOverlap {
			continue
		}
		if grid[bestRow][bestCol] != "" {
			grid[bestRow][bestCol] += " "
		}
		grid[bestRow][bestCol] += f.Text
		consumed[idx] = true
	}

	return grid, consumed
}

// trimEmptyBoundaries drops empty leading/trailing rows and columns, which
// arise from boundary lines enclosing whitespace margins.
func trimEmptyBoundaries(grid [][]string, rowPos, colPos []float64) ([][]string, []float64, []float64) {
	rowEmpty := func(r int) bool {
		for _, cell := range grid[r] {
			if cell != "" {
				return false
			}
		}
		return true
	}
	for len(grid) > 0 && rowEmpty(0) {
		grid = grid[1:]
		rowPos = rowPos[1:]
	}
	for len(grid) > 0 && rowEmpty(len(grid)-1) {
		grid = grid[:len(grid)-1]
		rowPos = rowPos[:len(rowPos)-1]
	}

	colEmpty := func(c int) bool {
		for r := range grid {
			if grid[r][c] != "" {
				return false
			}
		}
		return true
	}
	for len(grid) > 0 && len(grid[0]) > 0 && colEmpty(0) {
		for r := range grid {
			grid[r] = grid[r][1:]
		}
		colPos = colPos[1:]
	}
	for len(grid) > 0 && len(grid[0]) > 0 && colEmpty(len(grid[0])-1) {
		for r := range grid {
			grid[r] = grid[r][:len(grid[r])-1]
		}
		colPos = colPos[:len(colPos)-1]
	}

	return grid, rowPos, colPos
}

// promote turns an accepted grid into a Table, taking the first grid row as
// headers unless an override is supplied.
func promote(page int, grid [][]string, headerOverride []string, bbox model.BBox) *model.Table {
	t := &model.Table{Page: page, BBox: bbox}
	if headerOverride != nil {
		t.Headers = append([]string(nil), headerOverride...)
		t.Rows = grid
	} else {
		t.Headers = grid[0]
		t.Rows = grid[1:]
	}
	return t
}

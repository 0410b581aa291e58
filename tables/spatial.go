package tables

import (
	"math"
	"sort"

	"github.com/structura-io/structura/model"
)

// buildSpatial runs the clustering fallback for borderless tables: bin
// fragment left-x values into candidate columns and top-y values into
// candidate rows, then accept the grid only when the occupancy pattern is
// consistent across the grid.
func (b *Builder) buildSpatial(page int, fragments []model.Fragment, headerOverride []string, res *Result) {
	if len(fragments) < model.MinTableRows*model.MinTableCols {
		return
	}

	var xs, ys []float64
	for _, f := range fragments {
		xs = append(xs, f.BBox.X0)
		ys = append(ys, f.BBox.Y0)
	}
	colCenters := clusterValues(xs, b.config.SnapTolerance)
	rowCenters := clusterValues(ys, b.config.SnapTolerance)

	if len(colCenters) < model.MinTableCols || len(rowCenters) < model.MinTableRows {
		return
	}

	// Map fragments to (row, col) by nearest cluster center.
	type cellRef struct{ row, col int }
	placed := make(map[int]cellRef, len(fragments))
	colRows := make([]map[int]bool, len(colCenters))
	rowCols := make([]map[int]bool, len(rowCenters))
	for i := range colRows {
		colRows[i] = map[int]bool{}
	}
	for i := range rowCols {
		rowCols[i] = map[int]bool{}
	}

	for idx, f := range fragments {
		col := nearest(colCenters, f.BBox.X0)
		row := nearest(rowCenters, f.BBox.Y0)
		placed[idx] = cellRef{row: row, col: col}
		colRows[col][row] = true
		rowCols[row][col] = true
	}

	// A column occupied in only one row (or a row in only one column) is
	// coincidental alignment, not tabular structure.
	validCol := make([]bool, len(colCenters))
	validRow := make([]bool, len(rowCenters))
	nCols, nRows := 0, 0
	for i, rows := range colRows {
		if len(rows) >= 2 {
			validCol[i] = true
			nCols++
		}
	}
	for i, cols := range rowCols {
		if len(cols) >= 2 {
			validRow[i] = true
			nRows++
		}
	}
	if nCols < model.MinTableCols || nRows < model.MinTableRows {
		return
	}

	colIdx := reindex(validCol)
	rowIdx := reindex(validRow)

	grid := make([][]string, nRows)
	for i := range grid {
		grid[i] = make([]string, nCols)
	}
	consumed := map[int]bool{}
	filled := map[cellRef]bool{}
	var bbox model.BBox
	first := true

	for idx, f := range fragments {
		ref := placed[idx]
		if !validRow[ref.row] || !validCol[ref.col] {
			continue
		}
		r, c := rowIdx[ref.row], colIdx[ref.col]
		if grid[r][c] != "" {
			grid[r][c] += " "
		}
		grid[r][c] += f.Text
		consumed[idx] = true
		filled[cellRef{r, c}] = true
		if first {
			bbox = f.BBox
			first = false
		} else {
			bbox = bbox.Union(f.BBox)
		}
	}

	if float64(len(filled)) < b.config.MinOccupancy*float64(nRows*nCols) {
		res.Discarded = true
		return
	}

	res.Table = promote(page, grid, headerOverride, bbox)
	res.Consumed = consumed
}

// clusterValues sorts values and groups runs closer than the tolerance,
// returning cluster centers.
func clusterValues(values []float64, tolerance float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var centers []float64
	sum := sorted[0]
	count := 1
	last := sorted[0]

	for _, v := range sorted[1:] {
		if v-last <= tolerance {
			sum += v
			count++
		} else {
			centers = append(centers, sum/float64(count))
			sum = v
			count = 1
		}
		last = v
	}
	centers = append(centers, sum/float64(count))
	return centers
}

// nearest returns the index of the closest cluster center.
func nearest(centers []float64, v float64) int {
	best := 0
	bestDist := math.Abs(v - centers[0])
	for i, c := range centers[1:] {
		if d := math.Abs(v - c); d < bestDist {
			bestDist = d
			best = i + 1
		}
	}
	return best
}

// reindex maps original cluster indices to compacted grid indices.
func reindex(valid []bool) []int {
	out := make([]int, len(valid))
	next := 0
	for i, ok := range valid {
		if ok {
			out[i] = next
			next++
		} else {
			out[i] = -1
		}
	}
	return out
}

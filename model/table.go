package model

import "strings"

// Table represents a reconstructed table. A table is only ever promoted
// from a candidate grid when it has at least MinTableRows data+header rows
// and MinTableCols columns; smaller grids are discarded by the builder.
type Table struct {
	// Page is the 0-based page index the table was found on.
	Page int

	// BBox is the table's bounding box on the page.
	BBox BBox

	// Headers is the header row.
	Headers []string

	// Rows are the data rows. Every row has len(Headers) cells.
	Rows [][]string
}

// Minimum shape for a candidate grid to be promoted to a Table.
const (
	MinTableRows = 2
	MinTableCols = 2
)

// RowCount returns the number of data rows (headers excluded).
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the number of columns.
func (t *Table) ColCount() int {
	return len(t.Headers)
}

// ToMarkdown renders the table in pipe-delimited markdown: a header row, a
// separator row, then one line per data row. Cell newlines are flattened to
// spaces so each table row stays on one output line.
func (t *Table) ToMarkdown() string {
	if len(t.Headers) == 0 {
		return ""
	}

	var sb strings.Builder

	writeRow := func(cells []string) {
		sb.WriteString("|")
		for i := 0; i < len(t.Headers); i++ {
			cell := ""
			if i < len(cells) {
				cell = strings.ReplaceAll(cells[i], "\n", " ")
			}
			sb.WriteString(" ")
			sb.WriteString(cell)
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	writeRow(t.Headers)

	sb.WriteString("|")
	for range t.Headers {
		sb.WriteString(" --- |")
	}
	sb.WriteString("\n")

	for _, row := range t.Rows {
		writeRow(row)
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

// PlainText renders the table as tab-separated rows, header first.
func (t *Table) PlainText() string {
	var sb strings.Builder
	sb.WriteString(strings.Join(t.Headers, "\t"))
	for _, row := range t.Rows {
		sb.WriteString("\n")
		sb.WriteString(strings.Join(row, "\t"))
	}
	return sb.String()
}

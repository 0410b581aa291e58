// Package layout resolves the reading order of positioned text fragments
// and classifies headings from document-wide font statistics.
//
// Reading order resolution clusters fragments into visual lines using a
// tolerance derived from the median fragment height, partitions the page
// into column bands by analyzing gaps between line start positions, and
// emits fragments column by column, top to bottom. Lines spanning multiple
// bands act as full-width separators that flush column order back to the
// first column.
//
// Heading classification is a two-phase design: ComputeFontStats makes one
// read-only pass over the whole document's fragments and returns an
// immutable FontStats snapshot; the snapshot then tags fragments with
// heading levels page by page without any shared mutable state.
package layout

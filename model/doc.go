// Package model defines the shared data model for document structuring:
// geometric primitives, positioned text fragments, line segments, tables,
// sections, pages, and the final structured document.
//
// Everything in this package is a plain data type with no behavior beyond
// geometry and serialization helpers. Fragments and line segments are
// produced once per page by a page source or an OCR engine and consumed
// read-only by the structuring pipeline; sections and tables are built once
// during structuring and never mutated afterward.
//
// Coordinates use a top-left origin: X grows to the right, Y grows downward.
// This matches the coordinate system both collaborators emit.
package model

// Package tables reconstructs table grids from page geometry.
//
// Two paths are tried in order per page. The line-based path snaps
// near-collinear drawing segments into row and column boundaries, keeps
// boundaries that actually intersect the perpendicular set, and assigns
// fragments to the cartesian grid of cells by greatest bounding-box
// overlap. The spatial-clustering path is the fallback for borderless
// tables: it bins fragment start coordinates into candidate columns and
// rows and accepts the result only when the occupancy pattern is
// consistent enough to rule out coincidental alignment.
//
// A hard cap on the number of input line segments bounds the line-based
// path's cost; pages exceeding it skip straight to the fallback.
package tables

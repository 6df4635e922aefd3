// Package region implements the axis-aligned cuboid region used by bulk
// edits, plus the composite regions derived from it (faces, walls). A region
// is a set of block positions; iteration yields every position exactly once.
package region

import "voxedit.dev/internal/geom"

// DefaultMaxY is the vertical clamp applied when a region has no height
// provider.
const DefaultMaxY = 255

// HeightProvider supplies the maximum vertical coordinate of the enclosing
// world. Corner Y values are clamped into [0, MaxY] on every bounds
// recalculation.
type HeightProvider interface {
	MaxY() int
}

// Iterator is a single-pass cursor over a region's points. Cursors are
// independent: creating one never mutates the region, and concurrent cursors
// over the same region do not interfere.
type Iterator interface {
	Next() (geom.Vec3, bool)
}

// Region is the capability set shared by cuboids and composites.
type Region interface {
	MinimumPoint() geom.Vec3
	MaximumPoint() geom.Vec3
	Contains(p geom.Vec3) bool
	// Points iterates in the default (chunk-grouped) order.
	Points() Iterator
	PointsOrder(o Order) Iterator
	Volume() int
}

// Order selects a traversal strategy at iterator construction time.
type Order int

const (
	// OrderChunk visits all points of one chunk column before the next,
	// minimizing distinct chunk lookups in downstream consumers. Default.
	OrderChunk Order = iota
	// OrderScan is the plain nested scan: X fastest, then Y, then Z.
	OrderScan
)

func (o Order) String() string {
	switch o {
	case OrderChunk:
		return "chunk"
	case OrderScan:
		return "scan"
	default:
		return "unknown"
	}
}

// Package chunk defines the chunk addressing constants used by the region
// engine and the block store. A chunk is a 16x16 column footprint; chunk
// coordinates are block coordinates arithmetically shifted right by Shift,
// which rounds toward negative infinity for negative blocks.
package chunk

const (
	Shift = 4
	Size  = 1 << Shift
	Mask  = Size - 1
)

// At converts a block coordinate to a chunk coordinate.
func At(block int) int { return block >> Shift }

// Base converts a chunk coordinate to its minimum block coordinate.
func Base(c int) int { return c << Shift }

// Local converts a block coordinate to its offset within the chunk.
func Local(block int) int { return block & Mask }

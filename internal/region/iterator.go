package region

import (
	"voxedit.dev/internal/chunk"
	"voxedit.dev/internal/geom"
)

// scanCursor walks the plain nested order: X fastest, then Y, then Z.
// Exhaustion is an explicit flag, never a sentinel coordinate.
type scanCursor struct {
	min, max geom.Vec3
	x, y, z  int
	done     bool
}

func newScanCursor(mn, mx geom.Vec3) *scanCursor {
	c := &scanCursor{min: mn, max: mx, x: mn.X, y: mn.Y, z: mn.Z}
	if mn.X > mx.X || mn.Y > mx.Y || mn.Z > mx.Z {
		c.done = true
	}
	return c
}

func (c *scanCursor) Next() (geom.Vec3, bool) {
	if c.done {
		return geom.Vec3{}, false
	}
	p := geom.Vec3{X: c.x, Y: c.y, Z: c.z}
	c.x++
	if c.x > c.max.X {
		c.x = c.min.X
		c.y++
		if c.y > c.max.Y {
			c.y = c.min.Y
			c.z++
			if c.z > c.max.Z {
				c.done = true
			}
		}
	}
	return p, true
}

// chunkCursor visits every point of one chunk column before touching the
// next: X within the chunk-clamped window, then Z within the same window,
// then the full region Y range. Chunk columns advance in X first, wrapping
// to the next chunk row in Z. The clamped window is recomputed on every
// chunk transition so partial boundary chunks never overrun the region.
type chunkCursor struct {
	bx, by, bz int // region minimum
	tx, ty, tz int // region maximum
	x, y, z    int

	// Current chunk's window, clamped to the region.
	cbx, cbz int
	ctx, ctz int

	done bool
}

func newChunkCursor(mn, mx geom.Vec3) *chunkCursor {
	c := &chunkCursor{
		bx: mn.X, by: mn.Y, bz: mn.Z,
		tx: mx.X, ty: mx.Y, tz: mx.Z,
		x: mn.X, y: mn.Y, z: mn.Z,
	}
	if mn.X > mx.X || mn.Y > mx.Y || mn.Z > mx.Z {
		c.done = true
		return c
	}
	c.rewindow()
	return c
}

// rewindow clamps the chunk containing (x, z) to the region bounds.
func (c *chunkCursor) rewindow() {
	cx := chunk.At(c.x)
	cz := chunk.At(c.z)
	c.cbx = max(c.bx, chunk.Base(cx))
	c.cbz = max(c.bz, chunk.Base(cz))
	c.ctx = min(c.tx, chunk.Base(cx)+chunk.Mask)
	c.ctz = min(c.tz, chunk.Base(cz)+chunk.Mask)
}

func (c *chunkCursor) Next() (geom.Vec3, bool) {
	if c.done {
		return geom.Vec3{}, false
	}
	p := geom.Vec3{X: c.x, Y: c.y, Z: c.z}
	c.advance()
	return p, true
}

func (c *chunkCursor) advance() {
	c.x++
	if c.x <= c.ctx {
		return
	}
	c.z++
	if c.z <= c.ctz {
		c.x = c.cbx
		return
	}
	c.y++
	if c.y <= c.ty {
		c.x = c.cbx
		c.z = c.cbz
		return
	}
	// Chunk column exhausted; move to the next chunk, X direction first.
	c.y = c.by
	if c.x > c.tx {
		c.x = c.bx
		if c.z > c.tz {
			c.done = true
			return
		}
		// z already sits in the next chunk row.
	} else {
		c.z = c.cbz
	}
	c.rewindow()
}

// ColumnIterator yields the distinct (X,Z) columns of a box, X fastest.
type ColumnIterator struct {
	minX, maxX int
	maxZ       int
	x, z       int
	done       bool
}

func newColumnIterator(mn, mx geom.Vec3) *ColumnIterator {
	c := &ColumnIterator{minX: mn.X, maxX: mx.X, maxZ: mx.Z, x: mn.X, z: mn.Z}
	if mn.X > mx.X || mn.Z > mx.Z {
		c.done = true
	}
	return c
}

func (c *ColumnIterator) Next() (geom.Vec2, bool) {
	if c.done {
		return geom.Vec2{}, false
	}
	p := geom.Vec2{X: c.x, Z: c.z}
	c.x++
	if c.x > c.maxX {
		c.x = c.minX
		c.z++
		if c.z > c.maxZ {
			c.done = true
		}
	}
	return p, true
}

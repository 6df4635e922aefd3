package region

import (
	"fmt"

	"voxedit.dev/internal/chunk"
	"voxedit.dev/internal/geom"
)

// Cuboid is an axis-aligned box defined by two corners. The corners are not
// normalized: pos1 need not be the minimum corner, and resize operations
// deliberately move a *named* corner, so corner identity survives Expand,
// Contract and Shift.
//
// The six min/max bounds are cached and recomputed after every corner
// mutation; Contains reads only the cache. Mutating a cuboid while another
// goroutine reads it is not safe without external synchronization.
type Cuboid struct {
	pos1, pos2 geom.Vec3
	height     HeightProvider // nil means DefaultMaxY

	minX, minY, minZ int
	maxX, maxY, maxZ int
}

// NewCuboid makes a cuboid from two opposite corners with the default height
// clamp.
func NewCuboid(pos1, pos2 geom.Vec3) *Cuboid {
	return NewCuboidIn(nil, pos1, pos2)
}

// NewCuboidIn makes a cuboid clamped to the given height provider. A nil
// provider falls back to DefaultMaxY.
func NewCuboidIn(h HeightProvider, pos1, pos2 geom.Vec3) *Cuboid {
	c := &Cuboid{pos1: pos1, pos2: pos2, height: h}
	c.recalculate()
	return c
}

// FromCenter makes the cube of side 2*apothem+1 centered on origin. A zero
// apothem yields a single-block region.
func FromCenter(origin geom.Vec3, apothem int) (*Cuboid, error) {
	if apothem < 0 {
		return nil, fmt.Errorf("apothem must be >= 0, got %d", apothem)
	}
	size := geom.Vec3{X: 1, Y: 1, Z: 1}.Mul(apothem)
	return NewCuboid(origin.Sub(size), origin.Add(size)), nil
}

// Bounding makes the smallest cuboid covering r.
func Bounding(r Region) (*Cuboid, error) {
	if r == nil {
		return nil, fmt.Errorf("bounding: nil region")
	}
	return NewCuboid(r.MinimumPoint(), r.MaximumPoint()), nil
}

func (c *Cuboid) Pos1() geom.Vec3 { return c.pos1 }
func (c *Cuboid) Pos2() geom.Vec3 { return c.pos2 }

func (c *Cuboid) SetPos1(p geom.Vec3) {
	c.pos1 = p
	c.recalculate()
}

func (c *Cuboid) SetPos2(p geom.Vec3) {
	c.pos2 = p
	c.recalculate()
}

// recalculate clamps both corners to the world height range and refreshes
// the cached bounds. Must run after every corner mutation.
func (c *Cuboid) recalculate() {
	top := DefaultMaxY
	if c.height != nil {
		top = c.height.MaxY()
	}
	c.pos1 = c.pos1.ClampY(0, top)
	c.pos2 = c.pos2.ClampY(0, top)

	mn := geom.Min(c.pos1, c.pos2)
	mx := geom.Max(c.pos1, c.pos2)
	c.minX, c.minY, c.minZ = mn.X, mn.Y, mn.Z
	c.maxX, c.maxY, c.maxZ = mx.X, mx.Y, mx.Z
}

// MinimumPoint recomputes from the live corners rather than the cache, so it
// reflects the latest corner values even mid-mutation.
func (c *Cuboid) MinimumPoint() geom.Vec3 { return geom.Min(c.pos1, c.pos2) }

func (c *Cuboid) MaximumPoint() geom.Vec3 { return geom.Max(c.pos1, c.pos2) }

func (c *Cuboid) MinimumY() int { return min(c.pos1.Y, c.pos2.Y) }
func (c *Cuboid) MaximumY() int { return max(c.pos1.Y, c.pos2.Y) }

// Contains reports whether p lies inside the cuboid, using the cached
// bounds.
func (c *Cuboid) Contains(p geom.Vec3) bool {
	return p.X >= c.minX && p.X <= c.maxX &&
		p.Z >= c.minZ && p.Z <= c.maxZ &&
		p.Y >= c.minY && p.Y <= c.maxY
}

// Dimensions returns the side lengths in blocks.
func (c *Cuboid) Dimensions() geom.Vec3 {
	return c.MaximumPoint().Sub(c.MinimumPoint()).Add(geom.Vec3{X: 1, Y: 1, Z: 1})
}

func (c *Cuboid) Volume() int {
	d := c.Dimensions()
	return d.X * d.Y * d.Z
}

const (
	axisX = iota
	axisY
	axisZ
)

func axisOf(v geom.Vec3, axis int) int {
	switch axis {
	case axisX:
		return v.X
	case axisY:
		return v.Y
	default:
		return v.Z
	}
}

func addAxis(v geom.Vec3, axis, d int) geom.Vec3 {
	switch axis {
	case axisX:
		v.X += d
	case axisY:
		v.Y += d
	default:
		v.Z += d
	}
	return v
}

// moveCorner adds d on one axis to whichever named corner currently holds
// the maximum (toMax) or minimum value on that axis. When the corners tie on
// the axis, pos1 moves.
func (c *Cuboid) moveCorner(axis, d int, toMax bool) {
	a1, a2 := axisOf(c.pos1, axis), axisOf(c.pos2, axis)
	pickPos1 := a1 >= a2
	if !toMax {
		pickPos1 = a1 <= a2
	}
	if pickPos1 {
		c.pos1 = addAxis(c.pos1, axis, d)
	} else {
		c.pos2 = addAxis(c.pos2, axis, d)
	}
}

// Expand grows the cuboid. A positive axis delta pushes the maximum boundary
// outward; a negative delta pushes the minimum boundary further negative.
// Deltas are applied in order, each re-resolving which corner is the
// boundary after the previous one.
func (c *Cuboid) Expand(changes ...geom.Vec3) {
	for _, ch := range changes {
		c.moveCorner(axisX, ch.X, ch.X > 0)
		c.moveCorner(axisY, ch.Y, ch.Y > 0)
		c.moveCorner(axisZ, ch.Z, ch.Z > 0)
	}
	c.recalculate()
}

// Contract shrinks the cuboid: the mirror of Expand. A negative axis delta
// pulls the maximum boundary inward, a positive delta pulls the minimum
// boundary up.
func (c *Cuboid) Contract(changes ...geom.Vec3) {
	for _, ch := range changes {
		c.moveCorner(axisX, ch.X, ch.X < 0)
		c.moveCorner(axisY, ch.Y, ch.Y < 0)
		c.moveCorner(axisZ, ch.Z, ch.Z < 0)
	}
	c.recalculate()
}

// Shift translates both corners by each delta in turn.
func (c *Cuboid) Shift(changes ...geom.Vec3) {
	for _, ch := range changes {
		c.pos1 = c.pos1.Add(ch)
		c.pos2 = c.pos2.Add(ch)
	}
	c.recalculate()
}

// Faces returns the six sides of the box as a union of one-block-thick
// cuboids. The result snapshots the current bounds; later mutation of c does
// not affect it.
func (c *Cuboid) Faces() *Union {
	mn := c.MinimumPoint()
	mx := c.MaximumPoint()

	return NewUnion(
		// Project to the Z-Y plane.
		NewCuboidIn(c.height, c.pos1.WithX(mn.X), c.pos2.WithX(mn.X)),
		NewCuboidIn(c.height, c.pos1.WithX(mx.X), c.pos2.WithX(mx.X)),

		// Project to the X-Y plane.
		NewCuboidIn(c.height, c.pos1.WithZ(mn.Z), c.pos2.WithZ(mn.Z)),
		NewCuboidIn(c.height, c.pos1.WithZ(mx.Z), c.pos2.WithZ(mx.Z)),

		// Project to the X-Z plane.
		NewCuboidIn(c.height, c.pos1.WithY(mn.Y), c.pos2.WithY(mn.Y)),
		NewCuboidIn(c.height, c.pos1.WithY(mx.Y), c.pos2.WithY(mx.Y)),
	)
}

// Walls returns the four vertical sides (Faces minus the top and bottom
// Y-planes).
func (c *Cuboid) Walls() *Union {
	mn := c.MinimumPoint()
	mx := c.MaximumPoint()

	return NewUnion(
		NewCuboidIn(c.height, c.pos1.WithX(mn.X), c.pos2.WithX(mn.X)),
		NewCuboidIn(c.height, c.pos1.WithX(mx.X), c.pos2.WithX(mx.X)),
		NewCuboidIn(c.height, c.pos1.WithZ(mn.Z), c.pos2.WithZ(mn.Z)),
		NewCuboidIn(c.height, c.pos1.WithZ(mx.Z), c.pos2.WithZ(mx.Z)),
	)
}

// Chunks returns the distinct chunk columns the cuboid overlaps, descending
// on both axes.
func (c *Cuboid) Chunks() []geom.Vec2 {
	mn := c.MinimumPoint()
	mx := c.MaximumPoint()

	nx := chunk.At(mx.X) - chunk.At(mn.X) + 1
	nz := chunk.At(mx.Z) - chunk.At(mn.Z) + 1
	out := make([]geom.Vec2, 0, nx*nz)
	for x := chunk.At(mx.X); x >= chunk.At(mn.X); x-- {
		for z := chunk.At(mx.Z); z >= chunk.At(mn.Z); z-- {
			out = append(out, geom.Vec2{X: x, Z: z})
		}
	}
	return out
}

// ChunkCubes returns the distinct chunk-sized cubes the cuboid overlaps,
// descending on all axes.
func (c *Cuboid) ChunkCubes() []geom.Vec3 {
	mn := c.MinimumPoint()
	mx := c.MaximumPoint()

	var out []geom.Vec3
	for x := chunk.At(mx.X); x >= chunk.At(mn.X); x-- {
		for z := chunk.At(mx.Z); z >= chunk.At(mn.Z); z-- {
			for y := chunk.At(mx.Y); y >= chunk.At(mn.Y); y-- {
				out = append(out, geom.Vec3{X: x, Y: y, Z: z})
			}
		}
	}
	return out
}

func (c *Cuboid) Points() Iterator { return c.PointsOrder(OrderChunk) }

func (c *Cuboid) PointsOrder(o Order) Iterator {
	mn := c.MinimumPoint()
	mx := c.MaximumPoint()
	if o == OrderScan {
		return newScanCursor(mn, mx)
	}
	return newChunkCursor(mn, mx)
}

// Columns iterates the distinct (X,Z) columns of the cuboid, X fastest.
func (c *Cuboid) Columns() *ColumnIterator {
	return newColumnIterator(c.MinimumPoint(), c.MaximumPoint())
}

func (c *Cuboid) String() string {
	return fmt.Sprintf("%v - %v", c.MinimumPoint(), c.MaximumPoint())
}

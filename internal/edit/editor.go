// Package edit applies bulk block operations over regions. Each operation
// walks the region's lazy point sequence, optionally pre-loading the chunk
// columns it will touch, and emits one journal record.
package edit

import (
	"log"
	"time"

	"voxedit.dev/internal/geom"
	"voxedit.dev/internal/region"
	"voxedit.dev/internal/world"
)

// Recorder persists one journal record per operation. Implemented in
// internal/persistence/journal; may be nil.
type Recorder interface {
	Write(v any) error
}

// Record is the journal line written after every block operation. Pos1/Pos2
// are the source cuboid's bounds, so a replay can rebuild the region and
// re-derive faces or walls from it.
type Record struct {
	Op      string `json:"op"`
	Pos1    [3]int `json:"pos1"`
	Pos2    [3]int `json:"pos2"`
	Block   uint16 `json:"block,omitempty"`
	From    uint16 `json:"from,omitempty"`
	To      uint16 `json:"to,omitempty"`
	Order   string `json:"order"`
	Volume  int    `json:"volume"`
	Changed int    `json:"changed"`
	TookUs  int64  `json:"took_us"`
	At      string `json:"at"`
}

type Config struct {
	Order   region.Order
	Preload bool
	Rec     Recorder    // optional
	Logger  *log.Logger // optional
}

type Editor struct {
	store *world.Store
	cfg   Config
}

func NewEditor(store *world.Store, cfg Config) *Editor {
	return &Editor{store: store, cfg: cfg}
}

// Store returns the block store this editor mutates.
func (e *Editor) Store() *world.Store { return e.store }

// Order returns the editor's traversal order.
func (e *Editor) Order() region.Order { return e.cfg.Order }

// WithOrder returns a copy of the editor that traverses in o. The copy
// shares the store and recorder.
func (e *Editor) WithOrder(o region.Order) *Editor {
	cp := *e
	cp.cfg.Order = o
	return &cp
}

// Cuboid builds a cuboid clamped to this editor's world height.
func (e *Editor) Cuboid(pos1, pos2 geom.Vec3) *region.Cuboid {
	return region.NewCuboidIn(e.store, pos1, pos2)
}

func (e *Editor) preload(r region.Region) {
	if !e.cfg.Preload {
		return
	}
	if cr, ok := r.(interface{ Chunks() []geom.Vec2 }); ok {
		e.store.Ensure(cr.Chunks())
	}
}

// Fill sets every block of r, returning the number actually changed.
func (e *Editor) Fill(r region.Region, block uint16) (int, error) {
	return e.run("fill", r, r, Record{Block: block}, e.setStep(block))
}

// Replace swaps every block of r equal to from with to.
func (e *Editor) Replace(r region.Region, from, to uint16) (int, error) {
	return e.run("replace", r, r, Record{From: from, To: to}, func(p geom.Vec3) bool {
		if e.store.GetBlock(p) != from {
			return false
		}
		e.store.SetBlock(p, to)
		return true
	})
}

// Outline fills the six faces of c, leaving the interior untouched.
func (e *Editor) Outline(c *region.Cuboid, block uint16) (int, error) {
	return e.run("outline", c, c.Faces(), Record{Block: block}, e.setStep(block))
}

// Walls fills the four vertical sides of c.
func (e *Editor) Walls(c *region.Cuboid, block uint16) (int, error) {
	return e.run("walls", c, c.Walls(), Record{Block: block}, e.setStep(block))
}

// Hollow clears every non-boundary block of c to air.
func (e *Editor) Hollow(c *region.Cuboid) (int, error) {
	mn := c.MinimumPoint()
	mx := c.MaximumPoint()
	interior := func(p geom.Vec3) bool {
		return p.X > mn.X && p.X < mx.X &&
			p.Y > mn.Y && p.Y < mx.Y &&
			p.Z > mn.Z && p.Z < mx.Z
	}
	return e.run("hollow", c, c, Record{}, func(p geom.Vec3) bool {
		if !interior(p) || e.store.GetBlock(p) == world.Air {
			return false
		}
		e.store.SetBlock(p, world.Air)
		return true
	})
}

func (e *Editor) setStep(block uint16) func(p geom.Vec3) bool {
	return func(p geom.Vec3) bool {
		if e.store.GetBlock(p) == block {
			return false
		}
		e.store.SetBlock(p, block)
		return true
	}
}

// run walks target in the configured order, applying step per point, then
// logs and journals the outcome against src's bounds.
func (e *Editor) run(op string, src, target region.Region, rec Record, step func(p geom.Vec3) bool) (int, error) {
	start := time.Now()
	e.preload(target)

	changed := 0
	it := target.PointsOrder(e.cfg.Order)
	for p, ok := it.Next(); ok; p, ok = it.Next() {
		if step(p) {
			changed++
		}
	}

	mn, mx := src.MinimumPoint(), src.MaximumPoint()
	rec.Op = op
	rec.Pos1 = [3]int{mn.X, mn.Y, mn.Z}
	rec.Pos2 = [3]int{mx.X, mx.Y, mx.Z}
	rec.Order = e.cfg.Order.String()
	rec.Volume = target.Volume()
	rec.Changed = changed
	rec.TookUs = time.Since(start).Microseconds()
	rec.At = start.UTC().Format(time.RFC3339Nano)

	if e.cfg.Logger != nil {
		e.cfg.Logger.Printf("%s %v-%v changed=%d took=%dus", op, mn, mx, changed, rec.TookUs)
	}
	if e.cfg.Rec != nil {
		if err := e.cfg.Rec.Write(rec); err != nil {
			return changed, err
		}
	}
	return changed, nil
}

// Apply re-runs a journal record against this editor's world. Used by the
// replay tool.
func (e *Editor) Apply(rec Record) (int, error) {
	p1 := geom.Vec3{X: rec.Pos1[0], Y: rec.Pos1[1], Z: rec.Pos1[2]}
	p2 := geom.Vec3{X: rec.Pos2[0], Y: rec.Pos2[1], Z: rec.Pos2[2]}
	c := e.Cuboid(p1, p2)
	switch rec.Op {
	case "fill":
		return e.Fill(c, rec.Block)
	case "replace":
		return e.Replace(c, rec.From, rec.To)
	case "outline":
		return e.Outline(c, rec.Block)
	case "walls":
		return e.Walls(c, rec.Block)
	case "hollow":
		return e.Hollow(c)
	default:
		return 0, &UnknownOpError{Op: rec.Op}
	}
}

type UnknownOpError struct {
	Op string
}

func (e *UnknownOpError) Error() string { return "unknown edit op " + e.Op }

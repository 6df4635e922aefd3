package region

import "voxedit.dev/internal/geom"

// Union is a composite region: the set union of its children. Faces and
// Walls return one; callers can also build their own. Children overlap at
// box edges, so iteration deduplicates points.
type Union struct {
	children []Region
}

func NewUnion(children ...Region) *Union {
	return &Union{children: children}
}

func (u *Union) Regions() []Region { return u.children }

func (u *Union) MinimumPoint() geom.Vec3 {
	if len(u.children) == 0 {
		return geom.Vec3{}
	}
	mn := u.children[0].MinimumPoint()
	for _, r := range u.children[1:] {
		mn = geom.Min(mn, r.MinimumPoint())
	}
	return mn
}

func (u *Union) MaximumPoint() geom.Vec3 {
	if len(u.children) == 0 {
		return geom.Vec3{}
	}
	mx := u.children[0].MaximumPoint()
	for _, r := range u.children[1:] {
		mx = geom.Max(mx, r.MaximumPoint())
	}
	return mx
}

func (u *Union) Contains(p geom.Vec3) bool {
	for _, r := range u.children {
		if r.Contains(p) {
			return true
		}
	}
	return false
}

// Volume counts distinct points. O(total child volume): children overlap,
// so there is no cheaper closed form.
func (u *Union) Volume() int {
	n := 0
	it := u.Points()
	for _, ok := it.Next(); ok; _, ok = it.Next() {
		n++
	}
	return n
}

// Chunks returns the distinct chunk columns overlapped by any child.
func (u *Union) Chunks() []geom.Vec2 {
	seen := map[geom.Vec2]struct{}{}
	var out []geom.Vec2
	for _, r := range u.children {
		cr, ok := r.(interface{ Chunks() []geom.Vec2 })
		if !ok {
			continue
		}
		for _, k := range cr.Chunks() {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}

func (u *Union) Points() Iterator { return u.PointsOrder(OrderChunk) }

func (u *Union) PointsOrder(o Order) Iterator {
	return &unionCursor{union: u, order: o, seen: make(map[geom.Vec3]struct{})}
}

// unionCursor concatenates the child sequences, skipping points an earlier
// child already produced.
type unionCursor struct {
	union *Union
	order Order
	next  int
	cur   Iterator
	seen  map[geom.Vec3]struct{}
}

func (c *unionCursor) Next() (geom.Vec3, bool) {
	for {
		if c.cur == nil {
			if c.next >= len(c.union.children) {
				return geom.Vec3{}, false
			}
			c.cur = c.union.children[c.next].PointsOrder(c.order)
			c.next++
		}
		p, ok := c.cur.Next()
		if !ok {
			c.cur = nil
			continue
		}
		if _, dup := c.seen[p]; dup {
			continue
		}
		c.seen[p] = struct{}{}
		return p, true
	}
}

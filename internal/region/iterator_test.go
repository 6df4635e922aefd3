package region

import (
	"testing"

	"voxedit.dev/internal/chunk"
	"voxedit.dev/internal/geom"
)

func collect(t *testing.T, it Iterator) []geom.Vec3 {
	t.Helper()
	var out []geom.Vec3
	for p, ok := it.Next(); ok; p, ok = it.Next() {
		out = append(out, p)
	}
	return out
}

func toSet(t *testing.T, pts []geom.Vec3) map[geom.Vec3]struct{} {
	t.Helper()
	set := make(map[geom.Vec3]struct{}, len(pts))
	for _, p := range pts {
		if _, dup := set[p]; dup {
			t.Fatalf("duplicate point %v", p)
		}
		set[p] = struct{}{}
	}
	return set
}

func TestIterators_SameSetBothOrders(t *testing.T) {
	cases := []struct {
		name       string
		pos1, pos2 geom.Vec3
	}{
		{"unit", geom.Vec3{}, geom.Vec3{X: 1, Y: 1, Z: 1}},
		{"single", geom.Vec3{X: 7, Y: 7, Z: 7}, geom.Vec3{X: 7, Y: 7, Z: 7}},
		{"flat", geom.Vec3{X: 0, Y: 3, Z: 0}, geom.Vec3{X: 9, Y: 3, Z: 9}},
		{"multichunk", geom.Vec3{X: -5, Y: 0, Z: -21}, geom.Vec3{X: 20, Y: 3, Z: 12}},
		{"chunk_aligned", geom.Vec3{X: 0, Y: 0, Z: 0}, geom.Vec3{X: 31, Y: 1, Z: 15}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCuboid(tc.pos1, tc.pos2)
			chunked := toSet(t, collect(t, c.PointsOrder(OrderChunk)))
			scanned := toSet(t, collect(t, c.PointsOrder(OrderScan)))

			if len(chunked) != c.Volume() {
				t.Fatalf("chunk order yielded %d points, volume is %d", len(chunked), c.Volume())
			}
			if len(scanned) != c.Volume() {
				t.Fatalf("scan order yielded %d points, volume is %d", len(scanned), c.Volume())
			}
			for p := range scanned {
				if _, ok := chunked[p]; !ok {
					t.Fatalf("chunk order missed %v", p)
				}
				if !c.Contains(p) {
					t.Fatalf("iterated point %v outside region", p)
				}
			}
		})
	}
}

func TestScanOrder_XFastest(t *testing.T) {
	c := NewCuboid(geom.Vec3{}, geom.Vec3{X: 1, Y: 1, Z: 1})
	got := collect(t, c.PointsOrder(OrderScan))
	want := []geom.Vec3{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1},
		{X: 0, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d points, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equals(want[i]) {
			t.Fatalf("point %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestChunkOrder_GroupsByChunkColumn(t *testing.T) {
	// Spans 3 chunk columns in X and 3 in Z, with partial boundary chunks.
	c := NewCuboid(geom.Vec3{X: -9, Y: 0, Z: -2}, geom.Vec3{X: 22, Y: 4, Z: 33})
	pts := collect(t, c.PointsOrder(OrderChunk))
	if len(pts) != c.Volume() {
		t.Fatalf("yielded %d points, volume is %d", len(pts), c.Volume())
	}

	// Every chunk column must be one contiguous run: once the cursor leaves
	// a column it must never come back.
	visited := map[geom.Vec2]bool{}
	cur := geom.Vec2{X: chunk.At(pts[0].X), Z: chunk.At(pts[0].Z)}
	for _, p := range pts[1:] {
		key := geom.Vec2{X: chunk.At(p.X), Z: chunk.At(p.Z)}
		if key == cur {
			continue
		}
		visited[cur] = true
		if visited[key] {
			t.Fatalf("chunk column %v revisited", key)
		}
		cur = key
	}
}

func TestChunkOrder_FullYBeforeNextColumn(t *testing.T) {
	c := NewCuboid(geom.Vec3{X: 0, Y: 0, Z: 0}, geom.Vec3{X: 17, Y: 9, Z: 3})
	pts := collect(t, c.PointsOrder(OrderChunk))

	// Within the first chunk column, all ten Y layers appear before any
	// point of the second column.
	firstColumn := 16 * 4 * 10
	for i, p := range pts {
		inFirst := chunk.At(p.X) == 0
		if i < firstColumn && !inFirst {
			t.Fatalf("point %d (%v) left the first chunk column early", i, p)
		}
		if i >= firstColumn && inFirst {
			t.Fatalf("point %d (%v) returned to the first chunk column", i, p)
		}
	}
}

func TestIterators_Restartable(t *testing.T) {
	c := NewCuboid(geom.Vec3{}, geom.Vec3{X: 3, Y: 3, Z: 3})
	a := c.Points()
	b := c.Points()
	// Drain a fully; b must be unaffected.
	n := 0
	for _, ok := a.Next(); ok; _, ok = a.Next() {
		n++
	}
	m := 0
	for _, ok := b.Next(); ok; _, ok = b.Next() {
		m++
	}
	if n != c.Volume() || m != c.Volume() {
		t.Fatalf("cursors interfered: %d and %d points, volume %d", n, m, c.Volume())
	}
	// Exhausted cursor stays exhausted.
	if _, ok := a.Next(); ok {
		t.Fatalf("exhausted cursor produced a point")
	}
}

func TestColumns(t *testing.T) {
	c := NewCuboid(geom.Vec3{X: 2, Y: 0, Z: 5}, geom.Vec3{X: 4, Y: 9, Z: 6})
	it := c.Columns()
	var got []geom.Vec2
	for p, ok := it.Next(); ok; p, ok = it.Next() {
		got = append(got, p)
	}
	want := []geom.Vec2{
		{X: 2, Z: 5}, {X: 3, Z: 5}, {X: 4, Z: 5},
		{X: 2, Z: 6}, {X: 3, Z: 6}, {X: 4, Z: 6},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d columns, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("column %d = %v, want %v", i, got[i], want[i])
		}
	}
}

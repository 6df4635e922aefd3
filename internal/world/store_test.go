package world

import (
	"testing"

	"voxedit.dev/internal/geom"
)

func TestStore_GetSetAcrossChunkBoundary(t *testing.T) {
	s := NewStore(Gen{Height: 64, Ground: 3})

	pts := []geom.Vec3{
		{X: 0, Y: 10, Z: 0},
		{X: 15, Y: 10, Z: 15},
		{X: 16, Y: 10, Z: 16},
		{X: -1, Y: 10, Z: -1},
		{X: -17, Y: 0, Z: 40},
	}
	for i, p := range pts {
		s.SetBlock(p, uint16(100+i))
	}
	for i, p := range pts {
		if got := s.GetBlock(p); got != uint16(100+i) {
			t.Fatalf("GetBlock(%v) = %d, want %d", p, got, 100+i)
		}
	}
	if got := len(s.LoadedChunkKeys()); got != 4 {
		t.Fatalf("loaded %d chunks, want 4", got)
	}
}

func TestStore_FlatWorldgen(t *testing.T) {
	s := NewStore(Gen{Height: 32, Ground: 4})
	if got := s.GetBlock(geom.Vec3{X: 5, Y: 4, Z: 5}); got != Stone {
		t.Fatalf("ground block = %d, want stone", got)
	}
	if got := s.GetBlock(geom.Vec3{X: 5, Y: 5, Z: 5}); got != Air {
		t.Fatalf("above ground = %d, want air", got)
	}
}

func TestStore_HeightBounds(t *testing.T) {
	s := NewStore(Gen{Height: 16})
	if got := s.MaxY(); got != 15 {
		t.Fatalf("MaxY = %d, want 15", got)
	}
	// Out-of-range writes are dropped silently.
	s.SetBlock(geom.Vec3{X: 0, Y: 16, Z: 0}, Stone)
	s.SetBlock(geom.Vec3{X: 0, Y: -1, Z: 0}, Stone)
	if got := s.GetBlock(geom.Vec3{X: 0, Y: 16, Z: 0}); got != Air {
		t.Fatalf("read above world = %d, want air", got)
	}
}

func TestStore_DigestTracksEdits(t *testing.T) {
	a := NewStore(Gen{Height: 32, Ground: 2})
	b := NewStore(Gen{Height: 32, Ground: 2})
	a.Ensure([]geom.Vec2{{X: 0, Z: 0}})
	b.Ensure([]geom.Vec2{{X: 0, Z: 0}})
	if a.Digest() != b.Digest() {
		t.Fatalf("fresh identical worlds digest differently")
	}
	a.SetBlock(geom.Vec3{X: 1, Y: 10, Z: 1}, Stone)
	if a.Digest() == b.Digest() {
		t.Fatalf("edit did not change digest")
	}
	b.SetBlock(geom.Vec3{X: 1, Y: 10, Z: 1}, Stone)
	if a.Digest() != b.Digest() {
		t.Fatalf("same edits, different digests")
	}
}

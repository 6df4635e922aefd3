package snapshot

import (
	"path/filepath"
	"testing"

	"voxedit.dev/internal/geom"
	"voxedit.dev/internal/world"
)

func TestSnapshotRoundTrip(t *testing.T) {
	s := world.NewStore(world.Gen{Height: 32, Ground: 3})
	s.SetBlock(geom.Vec3{X: 1, Y: 10, Z: 1}, 7)
	s.SetBlock(geom.Vec3{X: -20, Y: 5, Z: 40}, 9)

	path := filepath.Join(t.TempDir(), "snapshots", "world.snap.zst")
	snap := Capture("world_1", 42, s)
	if err := WriteSnapshot(path, snap); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Header.WorldID != "world_1" || got.Header.Edits != 42 {
		t.Fatalf("bad header: %+v", got.Header)
	}

	restored := got.Restore()
	if restored.MaxY() != s.MaxY() {
		t.Fatalf("height mismatch: %d vs %d", restored.MaxY(), s.MaxY())
	}
	if restored.Digest() != s.Digest() {
		t.Fatalf("restored world diverges from source")
	}
	if b := restored.GetBlock(geom.Vec3{X: -20, Y: 5, Z: 40}); b != 9 {
		t.Fatalf("restored block = %d, want 9", b)
	}
}

func TestPeekHeader(t *testing.T) {
	s := world.NewStore(world.Gen{Height: 16})
	path := filepath.Join(t.TempDir(), "w.snap.zst")
	if err := WriteSnapshot(path, Capture("w", 7, s)); err != nil {
		t.Fatalf("write: %v", err)
	}
	h, err := PeekHeader(path)
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if h.Version != 1 || h.WorldID != "w" || h.Edits != 7 {
		t.Fatalf("header = %+v", h)
	}
}

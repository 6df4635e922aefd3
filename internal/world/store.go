// Package world holds the chunked block store that bulk edits run against.
// Blocks live in 16x16 column chunks spanning the full world height. The
// store is single-threaded: callers serialize access, matching the edit
// session model.
package world

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"

	"voxedit.dev/internal/chunk"
	"voxedit.dev/internal/geom"
)

// Core block ids. Anything else is caller-defined palette space.
const (
	Air   uint16 = 0
	Stone uint16 = 1
)

type ChunkKey struct {
	CX int
	CZ int
}

// Chunk is one 16x16 column of blocks across the full world height.
// Index order is x fastest, then z, then y.
type Chunk struct {
	CX, CZ int
	Height int
	Blocks []uint16 // len = 16*16*Height

	dirty bool
	hash  [32]byte
}

func (c *Chunk) index(x, y, z int) int {
	return x + z*chunk.Size + y*chunk.Size*chunk.Size
}

func (c *Chunk) Get(x, y, z int) uint16 {
	return c.Blocks[c.index(x, y, z)]
}

func (c *Chunk) Set(x, y, z int, b uint16) {
	i := c.index(x, y, z)
	if c.Blocks[i] == b {
		return
	}
	c.Blocks[i] = b
	c.dirty = true
}

// Digest hashes the block array deterministically, caching until the next
// mutation.
func (c *Chunk) Digest() [32]byte {
	if c.dirty || c.hash == ([32]byte{}) {
		h := sha256.New()
		var tmp [2]byte
		for _, v := range c.Blocks {
			binary.LittleEndian.PutUint16(tmp[:], v)
			h.Write(tmp[:])
		}
		copy(c.hash[:], h.Sum(nil))
		c.dirty = false
	}
	return c.hash
}

// Gen describes the deterministic flat worldgen used for fresh chunks.
type Gen struct {
	Height int // world height in blocks; MaxY is Height-1
	Ground int // y of the highest solid layer; below it is Stone
}

type Store struct {
	gen    Gen
	chunks map[ChunkKey]*Chunk
}

func NewStore(gen Gen) *Store {
	if gen.Height <= 0 {
		gen.Height = 256
	}
	return &Store{
		gen:    gen,
		chunks: map[ChunkKey]*Chunk{},
	}
}

// MaxY implements region.HeightProvider.
func (s *Store) MaxY() int { return s.gen.Height - 1 }

func (s *Store) inBounds(pos geom.Vec3) bool {
	return pos.Y >= 0 && pos.Y < s.gen.Height
}

func (s *Store) GetBlock(pos geom.Vec3) uint16 {
	if !s.inBounds(pos) {
		return Air
	}
	ch := s.getOrGenChunk(chunk.At(pos.X), chunk.At(pos.Z))
	return ch.Get(chunk.Local(pos.X), pos.Y, chunk.Local(pos.Z))
}

// SetBlock writes b at pos. Writes outside the height range are dropped,
// not rejected.
func (s *Store) SetBlock(pos geom.Vec3, b uint16) {
	if !s.inBounds(pos) {
		return
	}
	ch := s.getOrGenChunk(chunk.At(pos.X), chunk.At(pos.Z))
	ch.Set(chunk.Local(pos.X), pos.Y, chunk.Local(pos.Z), b)
}

// Ensure loads (generating if needed) the given chunk columns. Bulk edits
// call this with the region's chunk set before iterating so each block write
// hits a resident chunk.
func (s *Store) Ensure(keys []geom.Vec2) {
	for _, k := range keys {
		s.getOrGenChunk(k.X, k.Z)
	}
}

func (s *Store) LoadedChunkKeys() []ChunkKey {
	keys := make([]ChunkKey, 0, len(s.chunks))
	for k := range s.chunks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CX != keys[j].CX {
			return keys[i].CX < keys[j].CX
		}
		return keys[i].CZ < keys[j].CZ
	})
	return keys
}

func (s *Store) ChunkAt(k ChunkKey) *Chunk { return s.chunks[k] }

// Gen returns the worldgen parameters the store was created with.
func (s *Store) Gen() Gen { return s.gen }

// RestoreChunk installs a chunk's block array verbatim, bypassing worldgen.
// Used by snapshot load; blocks must be 16*16*Height long.
func (s *Store) RestoreChunk(cx, cz int, blocks []uint16) {
	s.chunks[ChunkKey{CX: cx, CZ: cz}] = &Chunk{
		CX:     cx,
		CZ:     cz,
		Height: s.gen.Height,
		Blocks: blocks,
	}
}

func (s *Store) getOrGenChunk(cx, cz int) *Chunk {
	k := ChunkKey{CX: cx, CZ: cz}
	if ch, ok := s.chunks[k]; ok {
		return ch
	}
	ch := &Chunk{
		CX:     cx,
		CZ:     cz,
		Height: s.gen.Height,
		Blocks: make([]uint16, chunk.Size*chunk.Size*s.gen.Height),
	}
	for y := 0; y <= s.gen.Ground && y < s.gen.Height; y++ {
		for z := 0; z < chunk.Size; z++ {
			for x := 0; x < chunk.Size; x++ {
				ch.Blocks[ch.index(x, y, z)] = Stone
			}
		}
	}
	s.chunks[k] = ch
	return ch
}

// Digest folds every loaded chunk's digest into one value, in key order.
// Used by the replay tool to compare worlds.
func (s *Store) Digest() [32]byte {
	h := sha256.New()
	for _, k := range s.LoadedChunkKeys() {
		d := s.chunks[k].Digest()
		var kb [16]byte
		binary.LittleEndian.PutUint64(kb[:8], uint64(int64(k.CX)))
		binary.LittleEndian.PutUint64(kb[8:], uint64(int64(k.CZ)))
		h.Write(kb[:])
		h.Write(d[:])
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Package snapshot saves and restores the block store: a JSON header line
// followed by a gob body, zstd-compressed. The header line lets tools peek
// at a snapshot without decoding the world.
package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"voxedit.dev/internal/world"
)

type Header struct {
	Version int    `json:"version"`
	WorldID string `json:"world_id"`
	Edits   uint64 `json:"edits"`
}

type SnapshotV1 struct {
	Header Header `json:"header"`

	Height int `json:"height"`
	Ground int `json:"ground"`

	Chunks []ChunkV1 `json:"chunks"`
}

type ChunkV1 struct {
	CX     int      `json:"cx"`
	CZ     int      `json:"cz"`
	Blocks []uint16 `json:"blocks"`
}

// Capture copies every loaded chunk of s into a snapshot document.
func Capture(worldID string, edits uint64, s *world.Store) SnapshotV1 {
	snap := SnapshotV1{
		Header: Header{Version: 1, WorldID: worldID, Edits: edits},
		Height: s.Gen().Height,
		Ground: s.Gen().Ground,
	}
	for _, k := range s.LoadedChunkKeys() {
		ch := s.ChunkAt(k)
		blocks := make([]uint16, len(ch.Blocks))
		copy(blocks, ch.Blocks)
		snap.Chunks = append(snap.Chunks, ChunkV1{CX: k.CX, CZ: k.CZ, Blocks: blocks})
	}
	return snap
}

// Restore builds a store with the snapshot's worldgen parameters and
// installs its chunks.
func (snap SnapshotV1) Restore() *world.Store {
	s := world.NewStore(world.Gen{Height: snap.Height, Ground: snap.Ground})
	for _, ch := range snap.Chunks {
		blocks := make([]uint16, len(ch.Blocks))
		copy(blocks, ch.Blocks)
		s.RestoreChunk(ch.CX, ch.CZ, blocks)
	}
	return s
}

func WriteSnapshot(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	write := func() error {
		enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return err
		}
		bw := bufio.NewWriterSize(enc, 256*1024)

		hb, _ := json.Marshal(snap.Header)
		if _, err := bw.Write(hb); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
			return fmt.Errorf("gob encode: %w", err)
		}
		if err := bw.Flush(); err != nil {
			return err
		}
		return enc.Close()
	}

	if err := write(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func ReadSnapshot(path string) (SnapshotV1, error) {
	var snap SnapshotV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// Header line is informational; the gob body repeats it.
	_, _ = br.ReadBytes('\n')

	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	return snap, nil
}

// PeekHeader decodes only the JSON header line.
func PeekHeader(path string) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer dec.Close()

	line, err := bufio.NewReaderSize(dec, 64*1024).ReadBytes('\n')
	if err != nil {
		return h, err
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, err
	}
	return h, nil
}

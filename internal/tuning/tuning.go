// Package tuning loads the operator-editable engine settings.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"voxedit.dev/internal/region"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	WorldHeight int `yaml:"world_height"`
	GroundLevel int `yaml:"ground_level"`

	// "chunk" (default) or "scan". The default traversal order handed to
	// the editor; EDIT requests may override per operation.
	IterationOrder string `yaml:"iteration_order"`

	// Pre-load a region's chunk columns before iterating it.
	PreloadChunks bool `yaml:"preload_chunks"`

	JournalDir         string `yaml:"journal_dir"`
	SnapshotEveryEdits int    `yaml:"snapshot_every_edits"`
}

func Defaults() Tuning {
	return Tuning{
		WorldHeight:        256,
		GroundLevel:        63,
		IterationOrder:     "chunk",
		PreloadChunks:      true,
		JournalDir:         "./data/journal",
		SnapshotEveryEdits: 256,
	}
}

func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if _, err := t.Order(); err != nil {
		return t, err
	}
	if t.WorldHeight <= 0 {
		return t, fmt.Errorf("tuning.yaml: world_height must be positive, got %d", t.WorldHeight)
	}
	return t, nil
}

// Order resolves the configured iteration order.
func (t Tuning) Order() (region.Order, error) {
	return ParseOrder(t.IterationOrder)
}

func ParseOrder(s string) (region.Order, error) {
	switch s {
	case "", "chunk":
		return region.OrderChunk, nil
	case "scan":
		return region.OrderScan, nil
	default:
		return region.OrderChunk, fmt.Errorf("unknown iteration order %q", s)
	}
}

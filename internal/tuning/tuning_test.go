package tuning

import (
	"os"
	"path/filepath"
	"testing"

	"voxedit.dev/internal/region"
)

func writeTemp(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoad(t *testing.T) {
	p := writeTemp(t, `
world_height: 128
ground_level: 20
iteration_order: scan
preload_chunks: false
`)
	tn, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tn.WorldHeight != 128 || tn.GroundLevel != 20 {
		t.Fatalf("unexpected tuning: %+v", tn)
	}
	o, err := tn.Order()
	if err != nil || o != region.OrderScan {
		t.Fatalf("order = %v, %v", o, err)
	}
}

func TestLoad_RejectsBadOrder(t *testing.T) {
	p := writeTemp(t, "iteration_order: spiral\n")
	if _, err := Load(p); err == nil {
		t.Fatalf("accepted unknown iteration order")
	}
}

func TestParseOrder_DefaultIsChunk(t *testing.T) {
	o, err := ParseOrder("")
	if err != nil || o != region.OrderChunk {
		t.Fatalf("ParseOrder(\"\") = %v, %v", o, err)
	}
}

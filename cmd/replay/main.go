package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"voxedit.dev/internal/edit"
	"voxedit.dev/internal/persistence/journal"
	"voxedit.dev/internal/persistence/snapshot"
	"voxedit.dev/internal/tuning"
	"voxedit.dev/internal/world"
)

func main() {
	var (
		journalDir = flag.String("journal", "", "journal dir containing edits-*.jsonl.zst")
		configDir  = flag.String("configs", "./configs", "config directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		snapPath   = flag.String("snapshot", "", "snapshot to start from (optional; otherwise a fresh world)")
		verifyPath = flag.String("verify", "", "snapshot whose restored digest the replay must match (optional)")
	)
	flag.Parse()

	if *journalDir == "" {
		fmt.Fprintln(os.Stderr, "missing -journal")
		os.Exit(2)
	}

	var store *world.Store
	var skip uint64
	if *snapPath != "" {
		snap, err := snapshot.ReadSnapshot(*snapPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read snapshot:", err)
			os.Exit(1)
		}
		store = snap.Restore()
		skip = snap.Header.Edits
		fmt.Printf("snapshot v%d world=%s edits=%d height=%d chunks=%d\n",
			snap.Header.Version, snap.Header.WorldID, snap.Header.Edits, snap.Height, len(snap.Chunks))
	} else {
		tp := strings.TrimSpace(*tuningPath)
		if tp == "" {
			tp = filepath.Join(*configDir, "tuning.yaml")
		}
		tune, err := tuning.Load(tp)
		if err != nil {
			if !os.IsNotExist(err) {
				fmt.Fprintln(os.Stderr, "load tuning:", err)
				os.Exit(1)
			}
			tune = tuning.Defaults()
		}
		store = world.NewStore(world.Gen{Height: tune.WorldHeight, Ground: tune.GroundLevel})
	}

	ed := edit.NewEditor(store, edit.Config{})

	var seen, applied, changed uint64
	byOp := map[string]uint64{}
	err := journal.ReadAll(*journalDir, "edits", func(line []byte) error {
		var rec edit.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		seen++
		if seen <= skip {
			return nil
		}
		n, err := ed.Apply(rec)
		if err != nil {
			return fmt.Errorf("apply %s at record %d: %w", rec.Op, seen, err)
		}
		applied++
		changed += uint64(n)
		byOp[rec.Op]++
		return nil
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "replay:", err)
		os.Exit(1)
	}

	digest := store.Digest()
	ops := make([]string, 0, len(byOp))
	for op := range byOp {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	for _, op := range ops {
		fmt.Printf("  %-9s %d\n", op, byOp[op])
	}
	fmt.Printf("replay ok: records=%d applied=%d blocks_changed=%d chunks=%d digest=%s\n",
		seen, applied, changed, len(store.LoadedChunkKeys()), hex.EncodeToString(digest[:8]))

	if *verifyPath != "" {
		snap, err := snapshot.ReadSnapshot(*verifyPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read verify snapshot:", err)
			os.Exit(1)
		}
		want := snap.Restore().Digest()
		if want != digest {
			fmt.Fprintf(os.Stderr, "digest mismatch: got=%s want=%s\n",
				hex.EncodeToString(digest[:8]), hex.EncodeToString(want[:8]))
			os.Exit(1)
		}
		fmt.Println("verify ok: digest matches", filepath.Base(*verifyPath))
	}
}

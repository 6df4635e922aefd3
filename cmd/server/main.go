package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"voxedit.dev/internal/edit"
	"voxedit.dev/internal/persistence/indexdb"
	"voxedit.dev/internal/persistence/journal"
	"voxedit.dev/internal/persistence/snapshot"
	"voxedit.dev/internal/transport/ws"
	"voxedit.dev/internal/tuning"
	"voxedit.dev/internal/world"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		worldID    = flag.String("world", "world_1", "world id")
		configDir  = flag.String("configs", "./configs", "config directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite edit index")

		snapPath   = flag.String("snapshot", "", "path to snapshot to load (optional)")
		loadLatest = flag.Bool("load_latest_snapshot", true, "load latest snapshot from data dir if present (when -snapshot is empty)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	worldDir := filepath.Join(*dataDir, "worlds", *worldID)
	_ = os.MkdirAll(worldDir, 0o755)

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("tuning not found (%s); using defaults", tp)
			tune = tuning.Defaults()
		} else {
			logger.Fatalf("load tuning: %v", err)
		}
	}
	order, err := tune.Order()
	if err != nil {
		logger.Fatalf("tuning: %v", err)
	}

	// World store: fresh or resumed from snapshot.
	var store *world.Store
	var resumedEdits uint64
	snapshotToLoad := strings.TrimSpace(*snapPath)
	if snapshotToLoad == "" && *loadLatest {
		snapshotToLoad = latestSnapshot(worldDir)
	}
	if snapshotToLoad != "" {
		snap, err := snapshot.ReadSnapshot(snapshotToLoad)
		if err != nil {
			logger.Fatalf("read snapshot: %v", err)
		}
		if snap.Header.WorldID != "" && snap.Header.WorldID != *worldID {
			logger.Fatalf("snapshot world id mismatch: flag=%s snap=%s", *worldID, snap.Header.WorldID)
		}
		store = snap.Restore()
		resumedEdits = snap.Header.Edits
		logger.Printf("resumed from snapshot=%s edits=%d chunks=%d",
			filepath.Base(snapshotToLoad), snap.Header.Edits, len(snap.Chunks))
	} else {
		store = world.NewStore(world.Gen{Height: tune.WorldHeight, Ground: tune.GroundLevel})
	}

	// Edit recorders: journal is the source of truth, the sqlite index and
	// the snapshotter are best-effort secondaries.
	journalDir := strings.TrimSpace(tune.JournalDir)
	if journalDir == "" {
		journalDir = filepath.Join(worldDir, "journal")
	}
	jw := journal.NewWriter(journalDir, "edits")
	defer jw.Close()

	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(worldDir, "index.db"))
		if err != nil {
			logger.Fatalf("open edit index: %v", err)
		}
		defer idx.Close()
	}

	snapper := &snapshotter{
		store:   store,
		worldID: *worldID,
		dir:     filepath.Join(worldDir, "snapshots"),
		every:   tune.SnapshotEveryEdits,
		log:     logger,
	}
	snapper.edits.Store(resumedEdits)

	recs := []edit.Recorder{jw, snapper}
	if idx != nil {
		recs = append(recs, idx)
	}

	editor := edit.NewEditor(store, edit.Config{
		Order:   order,
		Preload: tune.PreloadChunks,
		Rec:     multiRecorder{recs: recs},
		Logger:  logger,
	})

	ctx, cancel := signalContext()
	defer cancel()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/admin/v1/state", func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		resp := struct {
			WorldID string `json:"world_id"`
			Edits   uint64 `json:"edits"`
			Order   string `json:"iteration_order"`
		}{
			WorldID: *worldID,
			Edits:   snapper.edits.Load(),
			Order:   order.String(),
		}
		_ = json.NewEncoder(rw).Encode(resp)
	})
	if envBool("VE_ENABLE_PPROF_HTTP", false) {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	mux.HandleFunc("/v1/ws", ws.NewServer(editor, ws.Params(tune), logger).Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s (world=%s height=%d order=%s)", *addr, *worldID, tune.WorldHeight, order)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}

	// Final snapshot on clean shutdown so a restart resumes without replay.
	if idx != nil {
		idx.Sync()
	}
	edits := snapper.edits.Load()
	if edits > resumedEdits {
		path := filepath.Join(worldDir, "snapshots", fmt.Sprintf("%d.snap.zst", edits))
		if err := snapshot.WriteSnapshot(path, snapshot.Capture(*worldID, edits, store)); err != nil {
			logger.Printf("final snapshot: %v", err)
		} else {
			logger.Printf("saved final snapshot %s", filepath.Base(path))
		}
	}
}

// multiRecorder fans one edit record out to every sink. Sinks never fail the
// edit itself.
type multiRecorder struct {
	recs []edit.Recorder
}

func (m multiRecorder) Write(v any) error {
	for _, r := range m.recs {
		_ = r.Write(v)
	}
	return nil
}

// snapshotter counts applied edits and writes a snapshot every N of them.
// It runs inside the edit path, where the store is quiescent.
type snapshotter struct {
	store   *world.Store
	worldID string
	dir     string
	every   int
	edits   atomic.Uint64
	log     *log.Logger
}

func (s *snapshotter) Write(v any) error {
	if _, ok := v.(edit.Record); !ok {
		return nil
	}
	n := s.edits.Add(1)
	if s.every <= 0 || n%uint64(s.every) != 0 {
		return nil
	}
	path := filepath.Join(s.dir, fmt.Sprintf("%d.snap.zst", n))
	if err := snapshot.WriteSnapshot(path, snapshot.Capture(s.worldID, n, s.store)); err != nil {
		s.log.Printf("snapshot write: %v", err)
		return nil
	}
	s.log.Printf("snapshot saved %s", filepath.Base(path))
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

func latestSnapshot(worldDir string) string {
	dir := filepath.Join(worldDir, "snapshots")
	ents, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var best string
	var bestEdits uint64
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".snap.zst") {
			continue
		}
		base := strings.TrimSuffix(name, ".snap.zst")
		edits, err := strconv.ParseUint(base, 10, 64)
		if err != nil {
			continue
		}
		if best == "" || edits > bestEdits {
			bestEdits = edits
			best = filepath.Join(dir, name)
		}
	}
	return best
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func envBool(name string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

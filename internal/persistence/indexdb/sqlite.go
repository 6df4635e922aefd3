// Package indexdb keeps a queryable SQLite index of edit history. It is a
// secondary index: the zstd journal remains the source of truth, so writes
// are buffered and dropped rather than ever stalling an edit.
package indexdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	_ "modernc.org/sqlite"

	"voxedit.dev/internal/edit"
)

type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

type reqKind int

const (
	reqEdit reqKind = iota + 1
	reqSync
)

type req struct {
	kind reqKind
	edit edit.Record
	done chan struct{}
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan req, 65536),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL is much faster for append-style workloads.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS edits (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			op TEXT NOT NULL,
			min_x INTEGER NOT NULL,
			min_y INTEGER NOT NULL,
			min_z INTEGER NOT NULL,
			max_x INTEGER NOT NULL,
			max_y INTEGER NOT NULL,
			max_z INTEGER NOT NULL,
			block INTEGER NOT NULL,
			from_block INTEGER NOT NULL,
			to_block INTEGER NOT NULL,
			iter_order TEXT NOT NULL,
			volume INTEGER NOT NULL,
			changed INTEGER NOT NULL,
			took_us INTEGER NOT NULL,
			at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_edits_op_at ON edits(op, at);`,
		`CREATE INDEX IF NOT EXISTS idx_edits_pos ON edits(min_x, min_z, max_x, max_z);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// Write queues an edit record for indexing. Implements edit.Recorder;
// records are dropped if the indexer falls behind.
func (s *SQLiteIndex) Write(v any) error {
	if s == nil || s.closed.Load() {
		return nil
	}
	rec, ok := v.(edit.Record)
	if !ok {
		return fmt.Errorf("indexdb: unexpected record type %T", v)
	}
	select {
	case s.ch <- req{kind: reqEdit, edit: rec}:
	default:
	}
	return nil
}

// Sync blocks until every previously queued record has been committed.
func (s *SQLiteIndex) Sync() {
	if s == nil || s.closed.Load() {
		return
	}
	done := make(chan struct{})
	s.ch <- req{kind: reqSync, done: done}
	<-done
}

func (s *SQLiteIndex) loop() {
	for r := range s.ch {
		switch r.kind {
		case reqEdit:
			s.insertEdit(r.edit)
		case reqSync:
			close(r.done)
		}
	}
}

func (s *SQLiteIndex) insertEdit(rec edit.Record) {
	// Best effort: the journal holds the durable copy.
	_, _ = s.db.Exec(`INSERT INTO edits
		(op, min_x, min_y, min_z, max_x, max_y, max_z,
		 block, from_block, to_block, iter_order, volume, changed, took_us, at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.Op,
		rec.Pos1[0], rec.Pos1[1], rec.Pos1[2],
		rec.Pos2[0], rec.Pos2[1], rec.Pos2[2],
		rec.Block, rec.From, rec.To,
		rec.Order, rec.Volume, rec.Changed, rec.TookUs, rec.At)
}

// EditRow is one indexed edit, newest first from RecentEdits.
type EditRow struct {
	Seq     int64
	Op      string
	Min     [3]int
	Max     [3]int
	Volume  int
	Changed int
	At      string
}

func (s *SQLiteIndex) RecentEdits(limit int) ([]EditRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`SELECT seq, op, min_x, min_y, min_z, max_x, max_y, max_z, volume, changed, at
		FROM edits ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EditRow
	for rows.Next() {
		var r EditRow
		if err := rows.Scan(&r.Seq, &r.Op,
			&r.Min[0], &r.Min[1], &r.Min[2],
			&r.Max[0], &r.Max[1], &r.Max[2],
			&r.Volume, &r.Changed, &r.At); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountByOp aggregates indexed edits per operation.
func (s *SQLiteIndex) CountByOp() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT op, COUNT(*) FROM edits GROUP BY op`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var op string
		var n int
		if err := rows.Scan(&op, &n); err != nil {
			return nil, err
		}
		out[op] = n
	}
	return out, rows.Err()
}

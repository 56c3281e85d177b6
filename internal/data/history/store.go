package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// Snapshot is one recorded analysis run: the corpus content hash plus the
// summary counts, enough to compare runs over time without storing the
// corpus itself.
type Snapshot struct {
	RunID            string
	CorpusHash       string
	Label            string
	NodeCount        int
	EdgeCount        int
	ComponentCount   int
	OrphanCount      int
	LargestComponent int
	WarningCount     int
	CreatedAt        time.Time
}

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record persists one snapshot. A missing run id or timestamp is filled in.
func (s *Store) Record(ctx context.Context, snap Snapshot) (Snapshot, error) {
	if s == nil || s.db == nil {
		return Snapshot{}, fmt.Errorf("history store is not open")
	}
	if snap.RunID == "" {
		snap.RunID = uuid.NewString()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
INSERT INTO runs (
  run_id, corpus_hash, label, node_count, edge_count, component_count,
  orphan_count, largest_component, warning_count, created_at_utc
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.RunID, snap.CorpusHash, snap.Label,
		snap.NodeCount, snap.EdgeCount, snap.ComponentCount,
		snap.OrphanCount, snap.LargestComponent, snap.WarningCount,
		snap.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}
	return snap, nil
}

// Recent returns the latest snapshots, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Snapshot, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("history store is not open")
	}
	if limit <= 0 {
		limit = 20
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
SELECT run_id, corpus_hash, label, node_count, edge_count, component_count,
       orphan_count, largest_component, warning_count, created_at_utc
FROM runs
ORDER BY created_at_utc DESC, run_id DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// ForHash returns every snapshot recorded for one corpus hash, newest first.
func (s *Store) ForHash(ctx context.Context, corpusHash string) ([]Snapshot, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("history store is not open")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
SELECT run_id, corpus_hash, label, node_count, edge_count, component_count,
       orphan_count, largest_component, warning_count, created_at_utc
FROM runs
WHERE corpus_hash = ?
ORDER BY created_at_utc DESC, run_id DESC`, corpusHash)
	if err != nil {
		return nil, fmt.Errorf("query snapshots by hash: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

func scanSnapshots(rows *sql.Rows) ([]Snapshot, error) {
	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var created string
		if err := rows.Scan(
			&snap.RunID, &snap.CorpusHash, &snap.Label,
			&snap.NodeCount, &snap.EdgeCount, &snap.ComponentCount,
			&snap.OrphanCount, &snap.LargestComponent, &snap.WarningCount,
			&created,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("parse snapshot timestamp %q: %w", created, err)
		}
		snap.CreatedAt = ts
		out = append(out, snap)
	}
	return out, rows.Err()
}

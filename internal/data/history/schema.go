package history

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS runs (
  run_id            TEXT    PRIMARY KEY,
  corpus_hash       TEXT    NOT NULL,
  label             TEXT    NOT NULL DEFAULT '',
  node_count        INTEGER NOT NULL,
  edge_count        INTEGER NOT NULL,
  component_count   INTEGER NOT NULL,
  orphan_count      INTEGER NOT NULL,
  largest_component INTEGER NOT NULL,
  warning_count     INTEGER NOT NULL,
  created_at_utc    TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_corpus_hash ON runs(corpus_hash);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at_utc);
`,
	},
}

// EnsureSchema applies pending migrations, tracked via PRAGMA user_version.
func EnsureSchema(db *sql.DB) error {
	var current int
	if err := db.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if _, err := db.Exec(m.sql); err != nil {
			return fmt.Errorf("apply migration %d: %w", m.version, err)
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			return fmt.Errorf("bump schema version to %d: %w", m.version, err)
		}
	}
	return nil
}

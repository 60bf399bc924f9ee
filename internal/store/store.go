// Package store persists a finished analysis run as a SQLite snapshot.
// Analysis itself is in-memory; the snapshot is a write-once export so
// results can be diffed, queried with sql, or fed to other tooling.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/treeline-dev/treeline/internal/record"
)

// Store is the SQLite access layer for analysis snapshots.
type Store struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at dbPath with WAL mode.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the snapshot tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS runs (
  id              INTEGER PRIMARY KEY,
  root            TEXT NOT NULL,
  created_at      TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS files (
  id              INTEGER PRIMARY KEY,
  run_id          INTEGER NOT NULL REFERENCES runs(id),
  path            TEXT NOT NULL,
  module          TEXT NOT NULL,
  language        TEXT NOT NULL,
  status          TEXT NOT NULL,
  fail_reason     TEXT
);

CREATE TABLE IF NOT EXISTS exports (
  id              INTEGER PRIMARY KEY,
  file_id         INTEGER NOT NULL REFERENCES files(id),
  name            TEXT NOT NULL,
  kind            TEXT NOT NULL,
  signature       TEXT,
  doc             TEXT,
  start_line      INTEGER,
  end_line        INTEGER
);

CREATE TABLE IF NOT EXISTS imports (
  id              INTEGER PRIMARY KEY,
  file_id         INTEGER NOT NULL REFERENCES files(id),
  specifier       TEXT NOT NULL,
  names           TEXT,
  state           TEXT NOT NULL,
  target          TEXT
);

CREATE TABLE IF NOT EXISTS edges (
  id              INTEGER PRIMARY KEY,
  run_id          INTEGER NOT NULL REFERENCES runs(id),
  source          TEXT NOT NULL,
  target          TEXT NOT NULL,
  symbols         TEXT
);

CREATE TABLE IF NOT EXISTS gaps (
  id              INTEGER PRIMARY KEY,
  run_id          INTEGER NOT NULL REFERENCES runs(id),
  kind            TEXT NOT NULL,
  module          TEXT NOT NULL,
  export          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_files_run ON files(run_id);
CREATE INDEX IF NOT EXISTS idx_files_module ON files(module);
CREATE INDEX IF NOT EXISTS idx_exports_file ON exports(file_id);
CREATE INDEX IF NOT EXISTS idx_exports_name ON exports(name);
CREATE INDEX IF NOT EXISTS idx_imports_file ON imports(file_id);
CREATE INDEX IF NOT EXISTS idx_edges_run ON edges(run_id);
CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source);
CREATE INDEX IF NOT EXISTS idx_gaps_run ON gaps(run_id);
`

// Snapshot is everything one run writes.
type Snapshot struct {
	Root    string
	Records []record.FileRecord
	Graph   *record.ModuleGraph
	Gaps    []record.Gap
	// ModuleID maps record paths to their assigned module ids.
	ModuleID func(path string) (string, bool)
}

// SaveRun writes a complete snapshot in a single transaction and
// returns the new run id. A failed write leaves the database unchanged.
func (s *Store) SaveRun(snap Snapshot) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("INSERT INTO runs (root, created_at) VALUES (?, ?)", snap.Root, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	for _, rec := range snap.Records {
		module := rec.Path
		if snap.ModuleID != nil {
			if id, ok := snap.ModuleID(rec.Path); ok {
				module = id
			}
		}
		res, err := tx.Exec(
			"INSERT INTO files (run_id, path, module, language, status, fail_reason) VALUES (?, ?, ?, ?, ?, ?)",
			runID, rec.Path, module, rec.Language, string(rec.Status), rec.FailReason,
		)
		if err != nil {
			return 0, fmt.Errorf("insert file %s: %w", rec.Path, err)
		}
		fileID, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("file id: %w", err)
		}

		for _, exp := range rec.Exports {
			if _, err := tx.Exec(
				"INSERT INTO exports (file_id, name, kind, signature, doc, start_line, end_line) VALUES (?, ?, ?, ?, ?, ?, ?)",
				fileID, exp.Name, exp.Kind, exp.Signature, exp.Doc, exp.Span.StartLine, exp.Span.EndLine,
			); err != nil {
				return 0, fmt.Errorf("insert export %s: %w", exp.Name, err)
			}
		}
		for _, imp := range rec.Imports {
			if _, err := tx.Exec(
				"INSERT INTO imports (file_id, specifier, names, state, target) VALUES (?, ?, ?, ?, ?)",
				fileID, imp.Specifier, joinNames(imp.Names), string(imp.Resolution.State), imp.Resolution.Target,
			); err != nil {
				return 0, fmt.Errorf("insert import %s: %w", imp.Specifier, err)
			}
		}
	}

	if snap.Graph != nil {
		for _, edge := range snap.Graph.Edges {
			if _, err := tx.Exec(
				"INSERT INTO edges (run_id, source, target, symbols) VALUES (?, ?, ?, ?)",
				runID, edge.Source, edge.Target, joinNames(edge.Symbols),
			); err != nil {
				return 0, fmt.Errorf("insert edge %s -> %s: %w", edge.Source, edge.Target, err)
			}
		}
	}

	for _, gap := range snap.Gaps {
		if _, err := tx.Exec(
			"INSERT INTO gaps (run_id, kind, module, export) VALUES (?, ?, ?, ?)",
			runID, string(gap.Kind), gap.Module, gap.Export,
		); err != nil {
			return 0, fmt.Errorf("insert gap %s: %w", gap, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}

// Gaps reads back the persisted gaps for a run, ordered as written.
func (s *Store) Gaps(runID int64) ([]record.Gap, error) {
	rows, err := s.db.Query("SELECT kind, module, export FROM gaps WHERE run_id = ? ORDER BY id", runID)
	if err != nil {
		return nil, fmt.Errorf("query gaps: %w", err)
	}
	defer rows.Close()

	var gaps []record.Gap
	for rows.Next() {
		var kind, module, export string
		if err := rows.Scan(&kind, &module, &export); err != nil {
			return nil, fmt.Errorf("scan gap: %w", err)
		}
		gaps = append(gaps, record.Gap{Kind: record.GapKind(kind), Module: module, Export: export})
	}
	return gaps, rows.Err()
}

// Edges reads back the persisted dependency edges for a run.
func (s *Store) Edges(runID int64) ([]record.DependencyEdge, error) {
	rows, err := s.db.Query("SELECT source, target, symbols FROM edges WHERE run_id = ? ORDER BY source, target", runID)
	if err != nil {
		return nil, fmt.Errorf("query edges: %w", err)
	}
	defer rows.Close()

	var edges []record.DependencyEdge
	for rows.Next() {
		var source, target, symbols string
		if err := rows.Scan(&source, &target, &symbols); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		edges = append(edges, record.DependencyEdge{Source: source, Target: target, Symbols: splitNames(symbols)})
	}
	return edges, rows.Err()
}

// CountGaps returns the number of persisted gaps for a run, by kind.
func (s *Store) CountGaps(runID int64, kind record.GapKind) (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM gaps WHERE run_id = ? AND kind = ?", runID, string(kind)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count gaps: %w", err)
	}
	return n, nil
}

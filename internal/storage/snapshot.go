// Package storage persists the reduced result of a scan as a SQLite
// snapshot, so later runs can be diffed against it.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"versioner/internal/errors"
	"versioner/internal/logging"
	"versioner/internal/report"
)

// Snapshot is one persisted scan result.
type Snapshot struct {
	conn   *sql.DB
	logger *logging.Logger
	path   string
}

const schema = `
CREATE TABLE IF NOT EXISTS snapshot_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS symbols (
	name         TEXT PRIMARY KEY,
	kind         TEXT NOT NULL,
	availability TEXT NOT NULL,
	conflict     INTEGER NOT NULL,
	suppressed   INTEGER NOT NULL,
	detail       TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS declarations (
	symbol           TEXT NOT NULL,
	location         TEXT NOT NULL,
	extern           INTEGER NOT NULL,
	definition       INTEGER NOT NULL,
	compilation_type TEXT NOT NULL,
	availability     TEXT NOT NULL,
	PRIMARY KEY (symbol, location, compilation_type)
);
CREATE TABLE IF NOT EXISTS headers (
	path        TEXT PRIMARY KEY,
	fingerprint TEXT NOT NULL
);
`

// Create opens (or creates) a snapshot database and initializes its schema.
func Create(path string, logger *logging.Logger) (*Snapshot, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot %s: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("setting pragma: %w", err)
		}
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing snapshot schema: %w", err)
	}
	return &Snapshot{conn: conn, logger: logger, path: path}, nil
}

// Open opens an existing snapshot; missing files are an error.
func Open(path string, logger *logging.Logger) (*Snapshot, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(errors.SnapshotMissing, fmt.Sprintf("snapshot %s", path), err)
	}
	return Create(path, logger)
}

// Close closes the underlying database.
func (s *Snapshot) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// withTx runs fn inside a transaction, rolling back on error.
func (s *Snapshot) withTx(fn func(*sql.Tx) error) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// WriteReport replaces the snapshot's content with one scan's result.
// headers are fingerprinted so a diff can tell whether availability changed
// because the headers did.
func (s *Snapshot) WriteReport(r *report.Report, headers []string) error {
	return s.withTx(func(tx *sql.Tx) error {
		for _, table := range []string{"snapshot_meta", "symbols", "declarations", "headers"} {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("clearing %s: %w", table, err)
			}
		}

		if _, err := tx.Exec("INSERT INTO snapshot_meta (key, value) VALUES ('created_at', ?)",
			time.Now().UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("writing metadata: %w", err)
		}

		for _, sr := range r.Symbols {
			if _, err := tx.Exec(
				"INSERT INTO symbols (name, kind, availability, conflict, suppressed, detail) VALUES (?, ?, ?, ?, ?, ?)",
				sr.Name, sr.Kind, sr.Availability, boolInt(sr.Conflict), boolInt(sr.Suppressed), sr.ConflictDetail,
			); err != nil {
				return fmt.Errorf("writing symbol %s: %w", sr.Name, err)
			}
			for _, dr := range sr.Declarations {
				for _, ca := range dr.Availability {
					if _, err := tx.Exec(
						"INSERT INTO declarations (symbol, location, extern, definition, compilation_type, availability) VALUES (?, ?, ?, ?, ?, ?)",
						sr.Name, dr.Location, boolInt(dr.Extern), boolInt(dr.Definition), ca.Type, ca.Values,
					); err != nil {
						return fmt.Errorf("writing declaration of %s: %w", sr.Name, err)
					}
				}
			}
		}

		for _, header := range headers {
			fingerprint, err := fingerprintFile(header)
			if err != nil {
				return err
			}
			if _, err := tx.Exec("INSERT INTO headers (path, fingerprint) VALUES (?, ?)", header, fingerprint); err != nil {
				return fmt.Errorf("writing header %s: %w", header, err)
			}
		}
		return nil
	})
}

// Symbols loads the snapshot's symbol table keyed by name.
func (s *Snapshot) Symbols() (map[string]SymbolRow, error) {
	rows, err := s.conn.Query("SELECT name, kind, availability, conflict FROM symbols")
	if err != nil {
		return nil, fmt.Errorf("reading symbols: %w", err)
	}
	defer rows.Close()

	symbols := make(map[string]SymbolRow)
	for rows.Next() {
		var row SymbolRow
		var conflict int
		if err := rows.Scan(&row.Name, &row.Kind, &row.Availability, &conflict); err != nil {
			return nil, err
		}
		row.Conflict = conflict != 0
		symbols[row.Name] = row
	}
	return symbols, rows.Err()
}

// SymbolRow is one persisted symbol result.
type SymbolRow struct {
	Name         string
	Kind         string
	Availability string
	Conflict     bool
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// fingerprintFile hashes a header's content with BLAKE2b-256.
func fingerprintFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("fingerprinting %s: %w", path, err)
	}
	sum := blake2b.Sum256(data)
	return fmt.Sprintf("%x", sum), nil
}

// Package store persists the annotation graph in SQLite.
//
// Writes go through one open transaction at a time: every mutating call
// joins the current transaction (opening one if needed) and Commit flushes
// it, so a batch of mutations becomes visible to readers all at once. This
// is the flush/commit contract the slicing core relies on.
package store

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection holding the annotation graph.
type DB struct {
	db     *sql.DB
	tx     *sql.Tx
	logger *zap.Logger
}

// Open opens or creates the annotation database at path and ensures the
// schema exists. Use ":memory:" for an in-memory database.
func Open(path string, logger *zap.Logger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// The open-transaction write model assumes a single connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	d := &DB{db: db, logger: logger}
	if err := d.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return d, nil
}

// Close rolls back any uncommitted writes and closes the connection.
func (d *DB) Close() error {
	if d.tx != nil {
		d.tx.Rollback()
		d.tx = nil
	}
	return d.db.Close()
}

// Commit flushes all writes issued since the last commit. A no-op when
// nothing is pending.
func (d *DB) Commit() error {
	if d.tx == nil {
		return nil
	}
	err := d.tx.Commit()
	d.tx = nil
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// exec runs a statement inside the current transaction, opening one if
// needed.
func (d *DB) exec(query string, args ...any) (sql.Result, error) {
	if d.tx == nil {
		tx, err := d.db.Begin()
		if err != nil {
			return nil, fmt.Errorf("begin: %w", err)
		}
		d.tx = tx
	}
	return d.tx.Exec(query, args...)
}

// query reads through the open transaction when one exists, so uncommitted
// writes from the same unit of work stay visible.
func (d *DB) query(query string, args ...any) (*sql.Rows, error) {
	if d.tx != nil {
		return d.tx.Query(query, args...)
	}
	return d.db.Query(query, args...)
}

func (d *DB) queryRow(query string, args ...any) *sql.Row {
	if d.tx != nil {
		return d.tx.QueryRow(query, args...)
	}
	return d.db.QueryRow(query, args...)
}

func (d *DB) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS genome (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			species TEXT,
			accession TEXT,
			version TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS coordinate (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			genome_id INTEGER NOT NULL REFERENCES genome(id),
			seqid TEXT NOT NULL,
			start INTEGER NOT NULL CHECK (start >= 0),
			"end" INTEGER NOT NULL CHECK ("end" >= start),
			sequence TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS coordinate_set (
			coordinate_id INTEGER PRIMARY KEY REFERENCES coordinate(id),
			processing_set TEXT NOT NULL
				CHECK (processing_set IN ('train', 'dev', 'test'))
		)`,
		`CREATE TABLE IF NOT EXISTS super_locus (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			genome_id INTEGER NOT NULL REFERENCES genome(id),
			given_name TEXT,
			type TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS transcript (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			given_name TEXT,
			type TEXT,
			super_locus_id INTEGER NOT NULL REFERENCES super_locus(id)
		)`,
		`CREATE TABLE IF NOT EXISTS transcript_piece (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			given_name TEXT,
			position INTEGER NOT NULL,
			transcript_id INTEGER NOT NULL REFERENCES transcript(id)
		)`,
		`CREATE TABLE IF NOT EXISTS feature (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			given_name TEXT,
			type TEXT NOT NULL,
			start INTEGER NOT NULL,
			"end" INTEGER NOT NULL,
			is_plus_strand BOOLEAN NOT NULL,
			start_is_biological_start BOOLEAN NOT NULL DEFAULT 1,
			end_is_biological_end BOOLEAN NOT NULL DEFAULT 1,
			score REAL,
			source TEXT,
			coordinate_id INTEGER NOT NULL REFERENCES coordinate(id)
		)`,
		`CREATE TABLE IF NOT EXISTS association_transcript_piece_to_feature (
			transcript_piece_id INTEGER NOT NULL REFERENCES transcript_piece(id),
			feature_id INTEGER NOT NULL REFERENCES feature(id),
			PRIMARY KEY (transcript_piece_id, feature_id)
		)`,
		`CREATE TABLE IF NOT EXISTS mer (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			coordinate_id INTEGER NOT NULL REFERENCES coordinate(id),
			mer_sequence TEXT NOT NULL,
			count INTEGER NOT NULL,
			length INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_feature_coordinate
			ON feature(coordinate_id)`,
		`CREATE INDEX IF NOT EXISTS idx_piece_transcript
			ON transcript_piece(transcript_id)`,
	}
	for _, stmt := range stmts {
		if _, err := d.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

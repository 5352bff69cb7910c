package export

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"

	goduckdb "github.com/marcboeker/go-duckdb"
)

// Store manages the DuckDB database holding exported training chunks.
// Chunks are append-only and queried analytically, never mutated.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path. Use an empty
// string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS training_chunks (
		run_id VARCHAR,
		species VARCHAR,
		seqid VARCHAR,
		start BIGINT,
		"end" BIGINT,
		processing_set VARCHAR,
		x BLOB,
		y BLOB,
		sample_weights BLOB,
		PRIMARY KEY (species, seqid, start, "end")
	)`)
	return err
}

// WriteChunks batch-inserts chunks using the DuckDB Appender API.
func (s *Store) WriteChunks(runID, species string, chunks []*Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "training_chunks")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, c := range chunks {
		if err := appender.AppendRow(
			runID, species, c.Seqid, c.Start, c.End, string(c.Set),
			c.X, c.Y, c.SampleWeights,
		); err != nil {
			return fmt.Errorf("append chunk %s:[%d, %d): %w", c.Seqid, c.Start, c.End, err)
		}
	}
	return appender.Flush()
}

// SetSummary is the chunk and base-pair tally for one processing set.
type SetSummary struct {
	Set       string
	Chunks    int64
	BasePairs int64
}

// Summarize tallies exported chunks per processing set for a species.
func (s *Store) Summarize(species string) ([]SetSummary, error) {
	rows, err := s.db.Query(
		`SELECT processing_set, count(*), sum("end" - start)
		 FROM training_chunks
		 WHERE species = ?
		 GROUP BY processing_set
		 ORDER BY processing_set`, species)
	if err != nil {
		return nil, fmt.Errorf("query chunk summary: %w", err)
	}
	defer rows.Close()

	var out []SetSummary
	for rows.Next() {
		var sum SetSummary
		if err := rows.Scan(&sum.Set, &sum.Chunks, &sum.BasePairs); err != nil {
			return nil, fmt.Errorf("scan chunk summary: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Package fasta reads genome sequences from FASTA files.
package fasta

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Sequence is one FASTA record. The ID is the header token before the first
// whitespace; Description holds the rest.
type Sequence struct {
	ID          string
	Description string
	Seq         string
}

// ReadFile reads all sequences from a FASTA file, transparently handling
// gzip compression by file extension.
func ReadFile(path string) ([]Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fasta: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}
	return Read(reader)
}

// Read parses FASTA records from r.
func Read(r io.Reader) ([]Sequence, error) {
	scanner := bufio.NewScanner(r)
	// Chromosome-scale lines can exceed the default token size.
	scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)

	var (
		seqs    []Sequence
		current *Sequence
		body    strings.Builder
	)
	flush := func() {
		if current == nil {
			return
		}
		current.Seq = body.String()
		seqs = append(seqs, *current)
		body.Reset()
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			flush()
			header := strings.TrimPrefix(line, ">")
			id, desc, _ := strings.Cut(header, " ")
			if id == "" {
				return nil, fmt.Errorf("fasta record %d has an empty header", len(seqs)+1)
			}
			current = &Sequence{ID: id, Description: desc}
			continue
		}
		if current == nil {
			return nil, fmt.Errorf("sequence data before first fasta header")
		}
		body.WriteString(strings.ToUpper(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read fasta: %w", err)
	}
	flush()
	return seqs, nil
}

// Package gff imports GFF3 gene annotations into the annotation store.
package gff

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Record is one parsed GFF3 line.
type Record struct {
	Seqid      string
	Source     string
	Type       string
	Start      int64 // 1-based inclusive, as in the file
	End        int64 // 1-based inclusive
	Score      float64
	HasScore   bool
	Strand     string
	Phase      string
	Attributes map[string]string
}

// PyRange returns the record's interval as 0-based half-open [start, end).
func (r *Record) PyRange() (int64, int64) {
	return r.Start - 1, r.End
}

// IsPlusStrand reports the strand; features without strand default to plus.
func (r *Record) IsPlusStrand() bool {
	return r.Strand != "-"
}

// ID returns the record's ID attribute.
func (r *Record) ID() string { return r.Attributes["ID"] }

// Parent returns the record's Parent attribute (first parent when multiple).
func (r *Record) Parent() string {
	parent := r.Attributes["Parent"]
	if i := strings.IndexByte(parent, ','); i >= 0 {
		return parent[:i]
	}
	return parent
}

// ParseFile parses all records from a GFF3 file, transparently handling gzip
// compression by file extension.
func ParseFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gff: %w", err)
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
	return Parse(reader)
}

// Parse parses GFF3 records from r. Comment and pragma lines are skipped.
func Parse(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var records []Record
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rec, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("gff line %d: %w", lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read gff: %w", err)
	}
	return records, nil
}

func parseLine(line string) (Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 9 {
		return Record{}, fmt.Errorf("expected 9 columns, got %d", len(fields))
	}
	start, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("bad start %q: %w", fields[3], err)
	}
	end, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("bad end %q: %w", fields[4], err)
	}
	if start < 1 || end < start {
		return Record{}, fmt.Errorf("invalid interval [%d, %d]", start, end)
	}

	rec := Record{
		Seqid:      fields[0],
		Source:     fields[1],
		Type:       fields[2],
		Start:      start,
		End:        end,
		Strand:     fields[6],
		Phase:      fields[7],
		Attributes: parseAttributes(fields[8]),
	}
	if fields[5] != "." {
		score, err := strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return Record{}, fmt.Errorf("bad score %q: %w", fields[5], err)
		}
		rec.Score = score
		rec.HasScore = true
	}
	return rec, nil
}

func parseAttributes(s string) map[string]string {
	attrs := make(map[string]string)
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if k, v, ok := strings.Cut(part, "="); ok {
			attrs[k] = v
		}
	}
	return attrs
}

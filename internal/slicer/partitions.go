package slicer

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"

	"github.com/weberlab-hhu/helixer/internal/annotation"
)

// Partition cuts a full-sequence coordinate into consecutive sub-coordinates
// of at most chunkSize base pairs, covering [coord.Start, coord.End) exactly.
// The returned coordinates are not yet persisted.
func Partition(coord *annotation.Coordinate, chunkSize int64) ([]*annotation.Coordinate, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	var slices []*annotation.Coordinate
	for start := coord.Start; start < coord.End; start += chunkSize {
		end := start + chunkSize
		if end > coord.End {
			end = coord.End
		}
		slices = append(slices, &annotation.Coordinate{
			GenomeID: coord.GenomeID,
			Seqid:    coord.Seqid,
			Start:    start,
			End:      end,
		})
	}
	return slices, nil
}

// ChooseSet deterministically assigns a sequence to train, dev or test. The
// choice hashes the sequence id together with a seed string, so re-running
// with the same seed reproduces the same split; don't change the seed without
// cause. Assignment is per sequence, not per slice, so slices of one sequence
// never land in different sets.
func ChooseSet(seqid, seed string, devFraction, testFraction float64) annotation.ProcessingSet {
	sum := md5.Sum([]byte(seqid + seed))
	u := binary.BigEndian.Uint64(sum[:8])
	v := float64(u>>11) / float64(uint64(1)<<53)
	switch {
	case v < devFraction:
		return annotation.SetDev
	case v < devFraction+testFraction:
		return annotation.SetTest
	}
	return annotation.SetTrain
}

// Package mers counts canonical k-mers over genome sequences.
package mers

import (
	"fmt"
	"strings"
)

// complement maps a base to its complement; ambiguity codes stay as-is
// except N, which complements to itself.
var complement = map[byte]byte{
	'A': 'T', 'T': 'A', 'C': 'G', 'G': 'C', 'N': 'N',
}

// ReverseComplement returns the reverse complement of a DNA sequence.
// Unknown characters are preserved unchanged.
func ReverseComplement(seq string) string {
	out := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		b := seq[len(seq)-1-i]
		if c, ok := complement[b]; ok {
			out[i] = c
		} else {
			out[i] = b
		}
	}
	return string(out)
}

// canonical returns the lexicographically smaller of a mer and its reverse
// complement, so a mer and its opposite-strand reading count as one.
func canonical(mer string) string {
	rc := ReverseComplement(mer)
	if rc < mer {
		return rc
	}
	return mer
}

// Counter counts k-mers of a single length over successive sequence input.
// Windows containing any non-ACGT character are skipped.
type Counter struct {
	K      int
	counts map[string]int64
}

// NewCounter creates a counter for k-mers of length k.
func NewCounter(k int) (*Counter, error) {
	if k < 1 {
		return nil, fmt.Errorf("mer length must be at least 1, got %d", k)
	}
	return &Counter{K: k, counts: make(map[string]int64)}, nil
}

// AddSequence counts all k-mer windows of seq. Case-insensitive.
func (c *Counter) AddSequence(seq string) {
	seq = strings.ToUpper(seq)
	for i := 0; i+c.K <= len(seq); i++ {
		window := seq[i : i+c.K]
		if !allBases(window) {
			continue
		}
		c.counts[window]++
	}
}

// Export merges the raw counts into canonical form.
func (c *Counter) Export() map[string]int64 {
	out := make(map[string]int64, len(c.counts))
	for mer, n := range c.counts {
		out[canonical(mer)] += n
	}
	return out
}

func allBases(window string) bool {
	for i := 0; i < len(window); i++ {
		switch window[i] {
		case 'A', 'C', 'G', 'T':
		default:
			return false
		}
	}
	return true
}

// CountRange builds counters for every k in [minK, maxK] over one sequence.
func CountRange(seq string, minK, maxK int) ([]*Counter, error) {
	if minK > maxK {
		return nil, fmt.Errorf("min mer length %d exceeds max %d", minK, maxK)
	}
	var counters []*Counter
	for k := minK; k <= maxK; k++ {
		counter, err := NewCounter(k)
		if err != nil {
			return nil, err
		}
		counter.AddSequence(seq)
		counters = append(counters, counter)
	}
	return counters, nil
}

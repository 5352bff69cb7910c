package slicer

import (
	"fmt"
	"sort"

	"github.com/weberlab-hhu/helixer/internal/annotation"
)

// Index is a spatial index of features keyed by sequence id. Intervals are
// half-open, strand-adjusted [start, end). Built lazily per super-locus scope
// rather than globally, so memory stays bounded by the locus under work.
//
// Each per-seqid tree is a sorted slice with a suffix-max array giving
// O(log n + k) overlap queries; inserts mark the tree dirty and the next
// query re-sorts.
type Index struct {
	trees map[string]*seqidTree
}

type seqidTree struct {
	entries []indexEntry
	maxEnd  []int64 // maxEnd[i] = max(end) over entries[i:]
	dirty   bool
}

type indexEntry struct {
	start, end int64
	feature    *annotation.Feature
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{trees: make(map[string]*seqidTree)}
}

// Insert adds a feature under seqid covering the half-open [start, end).
// Negative or empty intervals are rejected with a descriptive error.
func (ix *Index) Insert(seqid string, start, end int64, f *annotation.Feature) error {
	if start < 0 || end <= start {
		return fmt.Errorf("refusing to index feature %d: invalid interval [%d, %d) on %s",
			f.ID, start, end, seqid)
	}
	tree, ok := ix.trees[seqid]
	if !ok {
		tree = &seqidTree{}
		ix.trees[seqid] = tree
	}
	tree.entries = append(tree.entries, indexEntry{start: start, end: end, feature: f})
	tree.dirty = true
	return nil
}

// InsertFeature indexes a feature under its coordinate's seqid using its
// strand-adjusted range.
func (ix *Index) InsertFeature(f *annotation.Feature) error {
	start, end := f.StrandAdjustedRange()
	return ix.Insert(f.Coordinate.Seqid, start, end, f)
}

// Query returns every feature on seqid whose interval overlaps the half-open
// [start, end). A point query is Query(seqid, p, p+1).
func (ix *Index) Query(seqid string, start, end int64) []*annotation.Feature {
	tree, ok := ix.trees[seqid]
	if !ok {
		return nil
	}
	tree.build()
	if len(tree.entries) == 0 {
		return nil
	}

	// Candidates must start before the query end.
	hi := sort.Search(len(tree.entries), func(i int) bool {
		return tree.entries[i].start >= end
	})

	var result []*annotation.Feature
	for i := hi - 1; i >= 0; i-- {
		// No entry in entries[:i+1] can reach past start anymore.
		if tree.maxEnd[i] <= start {
			break
		}
		if tree.entries[i].end > start {
			result = append(result, tree.entries[i].feature)
		}
	}
	return result
}

// Len returns the number of indexed intervals across all seqids.
func (ix *Index) Len() int {
	n := 0
	for _, tree := range ix.trees {
		n += len(tree.entries)
	}
	return n
}

func (t *seqidTree) build() {
	if !t.dirty || len(t.entries) == 0 {
		t.dirty = false
		return
	}
	sort.Slice(t.entries, func(i, j int) bool {
		return t.entries[i].start < t.entries[j].start
	})
	t.maxEnd = make([]int64, len(t.entries))
	t.maxEnd[len(t.entries)-1] = t.entries[len(t.entries)-1].end
	for i := len(t.entries) - 2; i >= 0; i-- {
		t.maxEnd[i] = t.entries[i].end
		if t.maxEnd[i+1] > t.maxEnd[i] {
			t.maxEnd[i] = t.maxEnd[i+1]
		}
	}
	t.dirty = false
}

package slicer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weberlab-hhu/helixer/internal/annotation"
)

func chrCoord(seqid string, start, end int64) *annotation.Coordinate {
	return &annotation.Coordinate{Seqid: seqid, Start: start, End: end}
}

func plusFeature(coord *annotation.Coordinate, start, end int64) *annotation.Feature {
	return &annotation.Feature{
		Start: start, End: end, IsPlusStrand: true,
		StartIsBiologicalStart: true, EndIsBiologicalEnd: true,
		Coordinate: coord,
	}
}

// minusFeature covers the plus-sense half-open [low, high); biologically its
// start is high-1 and its end is low-1.
func minusFeature(coord *annotation.Coordinate, low, high int64) *annotation.Feature {
	return &annotation.Feature{
		Start: high - 1, End: low - 1, IsPlusStrand: false,
		StartIsBiologicalStart: true, EndIsBiologicalEnd: true,
		Coordinate: coord,
	}
}

func TestClassify_PlusStrand(t *testing.T) {
	orig := chrCoord("chr1", 0, 1000)
	slice := chrCoord("chr1", 200, 600)

	tests := []struct {
		name       string
		start, end int64
		want       Relation
	}{
		{"contained", 300, 400, Contained},
		{"contained at slice start", 200, 300, Contained},
		{"contained touching slice end", 500, 600, Contained},
		{"upstream", 0, 100, Upstream},
		{"upstream touching slice start", 100, 200, Upstream},
		{"downstream", 700, 900, Downstream},
		{"downstream starting at slice end", 600, 700, Downstream},
		{"overlaps upstream", 100, 300, OverlapsUpstream},
		{"overlaps downstream", 500, 700, OverlapsDownstream},
		{"spans whole slice", 100, 700, OverlapsUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := plusFeature(orig, tt.start, tt.end)
			got, err := Classify(f, slice, true)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_MinusStrand(t *testing.T) {
	orig := chrCoord("chr1", 0, 1000)

	// Raw [100, 200) occupied by a minus-strand feature: biological
	// start 199, end 99, adjusted back to [100, 200).
	f := minusFeature(orig, 100, 200)
	assert.Equal(t, int64(199), f.Start)
	assert.Equal(t, int64(99), f.End)
	start, end := f.StrandAdjustedRange()
	assert.Equal(t, int64(100), start)
	assert.Equal(t, int64(200), end)

	tests := []struct {
		name             string
		sliceStart, sEnd int64
		want             Relation
	}{
		// On the minus strand travel is high->low, so a slice covering
		// lower positions is downstream of the feature.
		{"overlaps downstream border", 150, 250, OverlapsDownstream},
		{"overlaps upstream border", 50, 150, OverlapsUpstream},
		{"contained", 100, 200, Contained},
		// A slice at higher positions comes earlier in travel, so the
		// feature lies downstream of it; at lower positions, upstream.
		{"feature downstream of higher slice", 200, 400, Downstream},
		{"feature upstream of lower slice", 0, 100, Upstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(f, chrCoord("chr1", tt.sliceStart, tt.sEnd), false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_Detached(t *testing.T) {
	orig := chrCoord("chr1", 0, 1000)
	slice := chrCoord("chr1", 0, 400)

	otherSeq := plusFeature(chrCoord("chr2", 0, 1000), 100, 200)
	got, err := Classify(otherSeq, slice, true)
	require.NoError(t, err)
	assert.Equal(t, Detached, got)

	wrongStrand := plusFeature(orig, 100, 200)
	got, err = Classify(wrongStrand, slice, false)
	require.NoError(t, err)
	assert.Equal(t, Detached, got)
}

func TestClassify_RejectsDegenerateIntervals(t *testing.T) {
	orig := chrCoord("chr1", 0, 1000)
	slice := chrCoord("chr1", 0, 400)

	zeroLength := plusFeature(orig, 100, 100)
	_, err := Classify(zeroLength, slice, true)
	require.Error(t, err)
	var cerr *ConsistencyError
	assert.ErrorAs(t, err, &cerr)

	inverted := plusFeature(orig, 200, 100)
	_, err = Classify(inverted, slice, true)
	assert.ErrorAs(t, err, &cerr)
}

func TestRelation_String(t *testing.T) {
	assert.Equal(t, "contained", Contained.String())
	assert.Equal(t, "overlaps_downstream", OverlapsDownstream.String())
	assert.Equal(t, "detached", Detached.String())
}

package mers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverseComplement(t *testing.T) {
	assert.Equal(t, "", ReverseComplement(""))
	assert.Equal(t, "T", ReverseComplement("A"))
	assert.Equal(t, "CAT", ReverseComplement("ATG"))
	assert.Equal(t, "ACGT", ReverseComplement("ACGT"), "palindrome")
	assert.Equal(t, "NAT", ReverseComplement("ATN"))
	assert.Equal(t, "TXA", ReverseComplement("TXA"), "unknown characters pass through")
}

func TestCounter_SingleBase(t *testing.T) {
	c, err := NewCounter(1)
	require.NoError(t, err)
	c.AddSequence("AACCG")

	out := c.Export()
	// A/T and C/G merge canonically: A counts as A, C as C, G folds into C.
	assert.Equal(t, int64(2), out["A"])
	assert.Equal(t, int64(3), out["C"])
	assert.NotContains(t, out, "G")
	assert.NotContains(t, out, "T")
}

func TestCounter_CanonicalMerge(t *testing.T) {
	c, err := NewCounter(2)
	require.NoError(t, err)
	// AC appears once; GT is its reverse complement and folds into it.
	c.AddSequence("ACGT")

	out := c.Export()
	assert.Equal(t, int64(2), out["AC"])
	assert.Equal(t, int64(1), out["CG"], "CG is its own reverse complement")
	assert.NotContains(t, out, "GT")
}

func TestCounter_SkipsAmbiguousWindows(t *testing.T) {
	c, err := NewCounter(3)
	require.NoError(t, err)
	c.AddSequence("ACGNACG")

	out := c.Export()
	var total int64
	for _, n := range out {
		total += n
	}
	// Windows 0 and 4 are clean; 1 through 3 contain the N.
	assert.Equal(t, int64(2), total)
}

func TestCounter_CaseInsensitive(t *testing.T) {
	c, err := NewCounter(2)
	require.NoError(t, err)
	c.AddSequence("acgt")
	c.AddSequence("ACGT")

	out := c.Export()
	assert.Equal(t, int64(4), out["AC"])
}

func TestCounter_ShortSequence(t *testing.T) {
	c, err := NewCounter(5)
	require.NoError(t, err)
	c.AddSequence("ACG")
	assert.Empty(t, c.Export())
}

func TestNewCounter_RejectsBadLength(t *testing.T) {
	_, err := NewCounter(0)
	assert.Error(t, err)
	_, err = NewCounter(-2)
	assert.Error(t, err)
}

func TestCountRange(t *testing.T) {
	counters, err := CountRange("ACGTACGT", 1, 3)
	require.NoError(t, err)
	require.Len(t, counters, 3)
	assert.Equal(t, 1, counters[0].K)
	assert.Equal(t, 3, counters[2].K)

	out := counters[0].Export()
	assert.Equal(t, int64(4), out["A"])
	assert.Equal(t, int64(4), out["C"])
}

func TestCountRange_RejectsInvertedRange(t *testing.T) {
	_, err := CountRange("ACGT", 3, 2)
	assert.Error(t, err)
}

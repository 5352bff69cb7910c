package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weberlab-hhu/helixer/internal/annotation"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testChunk(seqid string, start, end int64, set annotation.ProcessingSet) *Chunk {
	n := end - start
	c := &Chunk{
		Seqid: seqid, Start: start, End: end, Set: set,
		X:             make([]byte, n*BaseColumns),
		Y:             make([]byte, n*LabelColumns),
		SampleWeights: make([]byte, n),
	}
	for i := range c.SampleWeights {
		c.SampleWeights[i] = 1
	}
	return c
}

func TestWriteChunksAndSummarize(t *testing.T) {
	s := openInMemory(t)

	chunks := []*Chunk{
		testChunk("chr1", 0, 100, annotation.SetTrain),
		testChunk("chr1", 100, 200, annotation.SetTrain),
		testChunk("chr2", 0, 50, annotation.SetDev),
	}
	require.NoError(t, s.WriteChunks("run-1", "test_species", chunks))

	summary, err := s.Summarize("test_species")
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, SetSummary{Set: "dev", Chunks: 1, BasePairs: 50}, summary[0])
	assert.Equal(t, SetSummary{Set: "train", Chunks: 2, BasePairs: 200}, summary[1])
}

func TestWriteChunks_Empty(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteChunks("run-1", "test_species", nil))

	summary, err := s.Summarize("test_species")
	require.NoError(t, err)
	assert.Empty(t, summary)
}

func TestSummarize_OtherSpeciesExcluded(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteChunks("run-1", "species_a",
		[]*Chunk{testChunk("chr1", 0, 100, annotation.SetTrain)}))

	summary, err := s.Summarize("species_b")
	require.NoError(t, err)
	assert.Empty(t, summary)
}

func TestWriteChunks_RoundTripsBlobs(t *testing.T) {
	s := openInMemory(t)

	chunk := testChunk("chr1", 0, 4, annotation.SetTest)
	copy(chunk.X, EncodeBases("CATG"))
	chunk.Y[0*LabelColumns+LabelTranscript] = 1
	chunk.SampleWeights[3] = 0
	require.NoError(t, s.WriteChunks("run-1", "test_species", []*Chunk{chunk}))

	var x, y, weights []byte
	row := s.db.QueryRow(
		`SELECT x, y, sample_weights FROM training_chunks WHERE seqid = ?`, "chr1")
	require.NoError(t, row.Scan(&x, &y, &weights))
	assert.Equal(t, chunk.X, x)
	assert.Equal(t, chunk.Y, y)
	assert.Equal(t, []byte{1, 1, 1, 0}, weights)
}

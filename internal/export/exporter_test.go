package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weberlab-hhu/helixer/internal/annotation"
	"github.com/weberlab-hhu/helixer/internal/store"
)

// seedSlicedGenome persists a 20 bp genome already cut into two slices with a
// transcript span on the first.
func seedSlicedGenome(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	g := &annotation.Genome{Species: "test_species"}
	require.NoError(t, db.CreateGenome(g))

	full := &annotation.Coordinate{
		GenomeID: g.ID, Seqid: "chr1", Start: 0, End: 20,
		Sequence: "CACGTGCATGCACGTGCATG",
	}
	require.NoError(t, db.CreateCoordinate(full))

	first := &annotation.Coordinate{GenomeID: g.ID, Seqid: "chr1", Start: 0, End: 10}
	second := &annotation.Coordinate{GenomeID: g.ID, Seqid: "chr1", Start: 10, End: 20}
	for _, slice := range []*annotation.Coordinate{first, second} {
		require.NoError(t, db.CreateCoordinate(slice))
		require.NoError(t, db.SetProcessingSet(slice.ID, annotation.SetTrain))
	}

	sl := &annotation.SuperLocus{GivenName: "gene.1", Type: "gene"}
	require.NoError(t, db.CreateSuperLocus(g.ID, sl))
	tr := &annotation.Transcript{GivenName: "mRNA.1", SuperLocusID: sl.ID}
	require.NoError(t, db.CreateTranscript(tr))
	piece := &annotation.TranscribedPiece{Position: 0, TranscriptID: tr.ID}
	require.NoError(t, db.CreatePiece(piece))

	f := &annotation.Feature{
		Type: annotation.FeatureTranscript, Start: 2, End: 8,
		IsPlusStrand: true, StartIsBiologicalStart: true, EndIsBiologicalEnd: true,
		Coordinate: first,
	}
	f.AddPiece(piece)
	require.NoError(t, db.CreateFeature(f))
	require.NoError(t, db.Commit())
	return db
}

func TestExporter_Run(t *testing.T) {
	db := seedSlicedGenome(t)
	out := openInMemory(t)

	exporter := NewExporter(db, out, nil)
	require.NoError(t, exporter.Run("test_species", false, "puma"))

	summary, err := out.Summarize("test_species")
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, SetSummary{Set: "train", Chunks: 2, BasePairs: 20}, summary[0])

	// The first chunk carries the transcript labels at [2, 8).
	var y []byte
	row := out.db.QueryRow(
		`SELECT y FROM training_chunks WHERE seqid = ? AND start = ?`, "chr1", 0)
	require.NoError(t, row.Scan(&y))
	require.Len(t, y, 10*LabelColumns)
	assert.Equal(t, byte(0), y[1*LabelColumns+LabelTranscript])
	assert.Equal(t, byte(1), y[2*LabelColumns+LabelTranscript])
	assert.Equal(t, byte(1), y[7*LabelColumns+LabelTranscript])
	assert.Equal(t, byte(0), y[8*LabelColumns+LabelTranscript])

	// The second chunk is unlabeled.
	row = out.db.QueryRow(
		`SELECT y FROM training_chunks WHERE seqid = ? AND start = ?`, "chr1", 10)
	require.NoError(t, row.Scan(&y))
	for _, v := range y {
		assert.Zero(t, v)
	}
}

func TestExporter_Run_UnknownSpecies(t *testing.T) {
	db := seedSlicedGenome(t)
	out := openInMemory(t)

	exporter := NewExporter(db, out, nil)
	assert.Error(t, exporter.Run("zea_mays", false, "puma"))
}

func TestExporter_Run_NoSlices(t *testing.T) {
	db, err := store.Open(":memory:", nil)
	require.NoError(t, err)
	defer db.Close()
	g := &annotation.Genome{Species: "unsliced"}
	require.NoError(t, db.CreateGenome(g))
	require.NoError(t, db.Commit())

	out := openInMemory(t)
	err = NewExporter(db, out, nil).Run("unsliced", false, "puma")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no slice coordinates")
}

package export

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/weberlab-hhu/helixer/internal/annotation"
	"github.com/weberlab-hhu/helixer/internal/slicer"
	"github.com/weberlab-hhu/helixer/internal/store"
)

// Exporter encodes a genome's slice coordinates into training chunks and
// writes them out.
type Exporter struct {
	db     *store.DB
	out    *Store
	logger *zap.Logger
}

// NewExporter creates an exporter reading from db and writing to out.
func NewExporter(db *store.DB, out *Store, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{db: db, out: out, logger: logger}
}

// Run exports every slice coordinate of the species' genome. With shuffle
// set, chunk write order is permuted deterministically from seed.
func (e *Exporter) Run(species string, shuffle bool, seed string) error {
	genome, err := e.db.GenomeBySpecies(species)
	if err != nil {
		return err
	}
	slices, sets, err := e.db.SliceCoordinates(genome.ID)
	if err != nil {
		return err
	}
	if len(slices) == 0 {
		return fmt.Errorf("genome %q has no slice coordinates; run slicing first", species)
	}

	runID := uuid.NewString()
	var chunks []*Chunk
	var (
		currentSeqid string
		seq          string
		index        *slicer.Index
	)
	for _, slice := range slices {
		if slice.Seqid != currentSeqid {
			currentSeqid = slice.Seqid
			if seq, err = e.db.SequenceFor(genome.ID, currentSeqid); err != nil {
				return err
			}
			if index, err = e.featureIndex(genome.ID, currentSeqid); err != nil {
				return err
			}
		}
		set, ok := sets[slice.ID]
		if !ok {
			return fmt.Errorf("slice coordinate %d has no processing set", slice.ID)
		}
		features := index.Query(slice.Seqid, slice.Start, slice.End)
		chunk, err := EncodeChunk(slice, set, seq, features)
		if err != nil {
			return err
		}
		chunks = append(chunks, chunk)
	}

	if shuffle {
		rng := rand.New(rand.NewSource(seedToInt(seed)))
		rng.Shuffle(len(chunks), func(i, j int) {
			chunks[i], chunks[j] = chunks[j], chunks[i]
		})
	}

	if err := e.out.WriteChunks(runID, species, chunks); err != nil {
		return err
	}
	e.logger.Info("exported training chunks",
		zap.String("run", runID),
		zap.String("species", species),
		zap.Int("chunks", len(chunks)),
		zap.Bool("shuffled", shuffle))
	return nil
}

// featureIndex indexes every feature of the loci on one sequence.
func (e *Exporter) featureIndex(genomeID int64, seqid string) (*slicer.Index, error) {
	loci, err := e.db.SuperLociBySeqid(genomeID, seqid)
	if err != nil {
		return nil, err
	}
	index := slicer.NewIndex()
	seen := make(map[*annotation.Feature]bool)
	for _, sl := range loci {
		for _, tr := range sl.Transcripts {
			for _, piece := range tr.Pieces {
				for _, f := range piece.Features {
					if seen[f] {
						continue
					}
					seen[f] = true
					if err := index.InsertFeature(f); err != nil {
						return nil, err
					}
				}
			}
		}
	}
	return index, nil
}

func seedToInt(seed string) int64 {
	sum := md5.Sum([]byte(seed))
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

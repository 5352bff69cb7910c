package slicer

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/weberlab-hhu/helixer/internal/annotation"
)

// GraphStore extends Store with the operations a full slicing pass needs
// beyond per-transcript trimming.
type GraphStore interface {
	Store
	// CreateCoordinate persists a slice coordinate and assigns its ID.
	CreateCoordinate(c *annotation.Coordinate) error
	// SetProcessingSet assigns a coordinate to train, dev or test.
	SetProcessingSet(coordinateID int64, set annotation.ProcessingSet) error
	// DeletePiece removes a piece and its (empty) associations.
	DeletePiece(pieceID int64) error
}

// Options configures a slicing pass.
type Options struct {
	ChunkSize    int64
	Seed         string
	DevFraction  float64
	TestFraction float64
}

// DefaultOptions match the historical export defaults.
func DefaultOptions() Options {
	return Options{
		ChunkSize:    2_000_000,
		Seed:         "puma",
		DevFraction:  0.1,
		TestFraction: 0.1,
	}
}

// Slicer runs full slicing passes: partitioning sequences into training
// chunks, assigning processing sets, and trimming every transcript across
// each new slice border.
type Slicer struct {
	store   GraphStore
	trimmer *Trimmer
	queue   *CoreQueue
	logger  *zap.Logger
	runID   string
}

// New creates a slicer writing through store.
func New(store GraphStore, logger *zap.Logger) *Slicer {
	if logger == nil {
		logger = zap.NewNop()
	}
	queue := NewCoreQueue(store)
	return &Slicer{
		store:   store,
		queue:   queue,
		trimmer: NewTrimmer(store, queue, logger),
		logger:  logger,
		runID:   uuid.NewString(),
	}
}

// RunID identifies this slicing pass.
func (s *Slicer) RunID() string { return s.runID }

// SliceCoordinate partitions one full-sequence coordinate into chunk slices,
// persists them with a processing-set assignment, and trims every overlapping
// transcript across each slice border on both strands. Slices are processed
// in the strand's direction of travel, so each trimming call only ever meets
// upstream work that an earlier slice already handled.
//
// Returns the persisted slice coordinates.
func (s *Slicer) SliceCoordinate(coord *annotation.Coordinate, superLoci []*annotation.SuperLocus, opts Options) ([]*annotation.Coordinate, error) {
	slices, err := Partition(coord, opts.ChunkSize)
	if err != nil {
		return nil, err
	}
	set := ChooseSet(coord.Seqid, opts.Seed, opts.DevFraction, opts.TestFraction)
	for _, sl := range slices {
		if err := s.store.CreateCoordinate(sl); err != nil {
			return nil, fmt.Errorf("create slice coordinate: %w", err)
		}
		if err := s.store.SetProcessingSet(sl.ID, set); err != nil {
			return nil, fmt.Errorf("assign processing set: %w", err)
		}
	}
	if err := s.store.Commit(); err != nil {
		return nil, err
	}
	s.logger.Info("partitioned coordinate",
		zap.String("run", s.runID),
		zap.String("seqid", coord.Seqid),
		zap.Int("slices", len(slices)),
		zap.String("set", string(set)))

	// Index every feature of the loci on this sequence, and remember which
	// super-locus each belongs to so slice queries map back to loci.
	index := NewIndex()
	locusOf := make(map[*annotation.Feature]*annotation.SuperLocus)
	for _, sl := range superLoci {
		for _, tr := range sl.Transcripts {
			for _, piece := range tr.Pieces {
				for _, f := range piece.Features {
					if _, seen := locusOf[f]; seen {
						continue
					}
					locusOf[f] = sl
					if err := index.InsertFeature(f); err != nil {
						return nil, err
					}
				}
			}
		}
	}

	for _, isPlusStrand := range []bool{true, false} {
		ordered := slices
		if !isPlusStrand {
			// Minus strand travels high->low.
			ordered = make([]*annotation.Coordinate, len(slices))
			for i, sl := range slices {
				ordered[len(slices)-1-i] = sl
			}
		}
		for _, sl := range ordered {
			if err := s.modifySliceLoci(sl, isPlusStrand, index, locusOf); err != nil {
				return nil, err
			}
		}
	}

	for _, sl := range superLoci {
		for _, tr := range sl.Transcripts {
			if err := s.cleanupEmptyPieces(tr); err != nil {
				return nil, err
			}
		}
	}
	return slices, s.store.Commit()
}

// modifySliceLoci trims every transcript of every super-locus overlapping the
// slice, one strand at a time.
func (s *Slicer) modifySliceLoci(slice *annotation.Coordinate, isPlusStrand bool, index *Index, locusOf map[*annotation.Feature]*annotation.SuperLocus) error {
	hits := index.Query(slice.Seqid, slice.Start, slice.End)
	seen := make(map[int64]bool)
	var loci []*annotation.SuperLocus
	for _, f := range hits {
		sl, ok := locusOf[f]
		if !ok || seen[sl.ID] {
			continue
		}
		seen[sl.ID] = true
		loci = append(loci, sl)
	}
	sort.Slice(loci, func(i, j int) bool { return loci[i].ID < loci[j].ID })

	for _, locus := range loci {
		for _, transcript := range locus.Transcripts {
			err := s.trimmer.ModifyForNewSlice(transcript, slice, isPlusStrand, index)
			if errors.Is(err, ErrNoFeaturesInSlice) {
				// The locus overlaps but this transcript may not; double
				// check before treating it as a normal skip.
				if verr := verifyNoOverlap(transcript, slice, isPlusStrand); verr != nil {
					return verr
				}
				s.logger.Debug("transcript does not intersect slice",
					zap.Int64("transcript", transcript.ID),
					zap.Int64("slice_start", slice.Start),
					zap.Int64("slice_end", slice.End))
				continue
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// verifyNoOverlap proves that a transcript reported as not intersecting a
// slice really has no same-strand feature starting inside it. A hit here
// means the trimmer missed an overlapping feature, which is a logic-error
// escalation rather than a normal skip.
func verifyNoOverlap(transcript *annotation.Transcript, slice *annotation.Coordinate, isPlusStrand bool) error {
	for _, piece := range transcript.Pieces {
		for _, f := range piece.Features {
			if f.IsPlusStrand != isPlusStrand {
				continue
			}
			inside := false
			if isPlusStrand {
				inside = slice.Start <= f.Start && f.Start < slice.End
			} else {
				inside = slice.Start-1 <= f.Start && f.Start < slice.End-1
			}
			if inside {
				return consistencyErrorf(
					"feature %d overlaps slice [%d, %d) but transcript %d reported no features in slice",
					f.ID, slice.Start, slice.End, transcript.ID)
			}
		}
	}
	return nil
}

// cleanupEmptyPieces deletes pieces left without features after a slicing
// pass and renumbers the remainder densely.
func (s *Slicer) cleanupEmptyPieces(transcript *annotation.Transcript) error {
	kept := transcript.Pieces[:0]
	for _, piece := range transcript.Pieces {
		if len(piece.Features) == 0 {
			if err := s.store.DeletePiece(piece.ID); err != nil {
				return fmt.Errorf("delete empty piece %d: %w", piece.ID, err)
			}
			continue
		}
		kept = append(kept, piece)
	}
	transcript.Pieces = kept
	sort.SliceStable(transcript.Pieces, func(i, j int) bool {
		return transcript.Pieces[i].Position < transcript.Pieces[j].Position
	})
	var renumbered []*annotation.TranscribedPiece
	for i, piece := range transcript.Pieces {
		if piece.Position != i {
			piece.Position = i
			renumbered = append(renumbered, piece)
		}
	}
	if len(renumbered) == 0 {
		return nil
	}
	return s.store.UpdatePiecePositions(renumbered)
}

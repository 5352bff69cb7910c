package slicer

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/weberlab-hhu/helixer/internal/annotation"
)

// Trimmer crops pre-cleaned, explicit transcripts to what fits inside a new
// slice coordinate. The portion falling inside the slice is retained under
// the slice's coordinate; the remainder is preserved under the original
// coordinate as a separate downstream continuation on a new piece.
//
// One transcript is trimmed at a time, to one slice at a time. Callers must
// serialize trimming of the same transcript.
type Trimmer struct {
	store  Store
	queue  *CoreQueue
	logger *zap.Logger
}

// NewTrimmer creates a trimmer writing through store and batching mutations
// on queue.
func NewTrimmer(store Store, queue *CoreQueue, logger *zap.Logger) *Trimmer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Trimmer{store: store, queue: queue, logger: logger}
}

// trimRun holds all per-call state. It is local to one ModifyForNewSlice
// invocation, so nothing leaks between slices when a Trimmer is reused.
type trimRun struct {
	slice        *annotation.Coordinate
	isPlusStrand bool
	index        *Index

	// downstreamPiece is created lazily, at most once per call, when the
	// first group crossing the trailing border is reached.
	downstreamPiece *annotation.TranscribedPiece
	pieceAtBorder   *annotation.TranscribedPiece
	seenOverlap     bool
	// pastLeadingEdge flips once a contained or border group has been seen;
	// upstream groups arriving after that point break the 5'->3' ordering
	// contract.
	pastLeadingEdge bool
}

func (run *trimRun) downstream(store Store, transcript *annotation.Transcript, piece *annotation.TranscribedPiece) (*annotation.TranscribedPiece, error) {
	if run.downstreamPiece == nil {
		p, err := SplitAfter(store, transcript, piece)
		if err != nil {
			return nil, fmt.Errorf("split piece %d: %w", piece.ID, err)
		}
		run.downstreamPiece = p
	}
	return run.downstreamPiece, nil
}

// ModifyForNewSlice adjusts the transcript's features and pieces so it is
// artificially split across the new slice coordinate. Newly created
// downstream features are inserted into index for later overlap queries.
//
// Returns ErrNoFeaturesInSlice when no group is contained in or crosses into
// the slice; callers should double-check for a missed overlap before
// treating that as a normal skip. Any *ConsistencyError is fatal for this
// transcript and must abort its trimming.
func (t *Trimmer) ModifyForNewSlice(transcript *annotation.Transcript, slice *annotation.Coordinate, isPlusStrand bool, index *Index) error {
	t.logger.Debug("trimming transcript for new slice",
		zap.Int64("transcript", transcript.ID),
		zap.String("given_name", transcript.GivenName),
		zap.String("seqid", slice.Seqid),
		zap.Int64("start", slice.Start),
		zap.Int64("end", slice.End),
		zap.Bool("plus_strand", isPlusStrand))

	run := &trimRun{slice: slice, isPlusStrand: isPlusStrand, index: index}

	for _, group := range WalkTranscript(transcript) {
		// Aligned features share one interval; classify via the first.
		relation, err := Classify(group.Features[0], slice, isPlusStrand)
		if err != nil {
			return err
		}

		switch relation {
		case Detached:
			// Other sequence or strand, good as-is.

		case Upstream, OverlapsUpstream:
			// Handled by an earlier slice on this strand. The walk is
			// 5'->3', so these may only appear before the leading edge.
			if run.pastLeadingEdge {
				return consistencyErrorf(
					"%s group (feature %d) after the slice leading edge in transcript %d",
					relation, group.Features[0].ID, transcript.ID)
			}

		case Contained:
			run.seenOverlap = true
			run.pastLeadingEdge = true
			for _, f := range group.Features {
				t.queue.QueueCoordSwap(f, slice)
			}

		case OverlapsDownstream:
			// The group straddles the trailing edge: split here.
			run.seenOverlap = true
			run.pastLeadingEdge = true
			run.pieceAtBorder = group.Piece
			newPiece, err := run.downstream(t.store, transcript, group.Piece)
			if err != nil {
				return err
			}
			// The border split must see all earlier swaps applied, and
			// later piece swaps need the new piece's persisted identity.
			if err := t.queue.Flush(); err != nil {
				return err
			}
			for _, f := range group.Features {
				if err := t.splitAtDownstreamBorder(run, f, group.Piece, newPiece); err != nil {
					return err
				}
			}

		case Downstream:
			if run.pieceAtBorder != nil && group.Piece == run.pieceAtBorder {
				for _, f := range group.Features {
					t.queue.QueuePieceSwap(f, run.pieceAtBorder, run.downstreamPiece)
				}
			}

		default:
			return consistencyErrorf("unhandled relation %s for feature %d",
				relation, group.Features[0].ID)
		}
	}

	if !run.seenOverlap {
		return fmt.Errorf("%w: transcript %d (%s) vs %s:[%d, %d)",
			ErrNoFeaturesInSlice, transcript.ID, transcript.GivenName,
			slice.Seqid, slice.Start, slice.End)
	}
	return t.queue.Flush()
}

// splitAtDownstreamBorder truncates template at the slice's trailing edge and
// creates a downstream copy, under the original coordinate and on newPiece,
// covering the remainder. Both mutations persist together.
func (t *Trimmer) splitAtDownstreamBorder(run *trimRun, template *annotation.Feature, oldPiece, newPiece *annotation.TranscribedPiece) error {
	// The cut point. On the minus strand -1 keeps the exclusive close
	// aligned with the +1 shift used by the strand adjustment.
	var downAt int64
	if run.isPlusStrand {
		downAt = run.slice.End
	} else {
		downAt = run.slice.Start - 1
	}

	attached := false
	for _, p := range template.Pieces {
		if p == oldPiece {
			attached = true
			break
		}
	}
	if !attached {
		return consistencyErrorf("border piece %d not among feature %d's pieces",
			oldPiece.ID, template.ID)
	}

	// The downstream copy marks the second half of the template, outside the
	// new slice: it keeps the original coordinate and takes the border piece's
	// place in the associations.
	downstreamPieces := make([]*annotation.TranscribedPiece, len(template.Pieces))
	copy(downstreamPieces, template.Pieces)
	for i, p := range downstreamPieces {
		if p == oldPiece {
			downstreamPieces[i] = newPiece
		}
	}
	downstream := &annotation.Feature{
		GivenName:              uuid.NewString(),
		Type:                   template.Type,
		Start:                  downAt,
		End:                    template.End,
		IsPlusStrand:           template.IsPlusStrand,
		StartIsBiologicalStart: false,
		EndIsBiologicalEnd:     template.EndIsBiologicalEnd,
		Score:                  template.Score,
		Source:                 template.Source,
		Coordinate:             template.Coordinate,
		Pieces:                 downstreamPieces,
	}
	if err := t.store.CreateFeature(downstream); err != nil {
		return fmt.Errorf("create downstream feature: %w", err)
	}
	for _, p := range downstream.Pieces {
		p.Features = append(p.Features, downstream)
	}
	if run.index != nil {
		if err := run.index.InsertFeature(downstream); err != nil {
			return err
		}
	}

	// The template is truncated until it fits the new slice.
	template.End = downAt
	template.EndIsBiologicalEnd = false
	template.Coordinate = run.slice
	if err := t.store.UpdateFeature(template); err != nil {
		return fmt.Errorf("truncate feature %d: %w", template.ID, err)
	}
	return t.store.Commit()
}

package slicer

import (
	"github.com/weberlab-hhu/helixer/internal/annotation"
)

// CoordSwap records a pending reassignment of a feature to a new coordinate.
type CoordSwap struct {
	Feature       *annotation.Feature
	NewCoordinate *annotation.Coordinate
}

// PieceSwap records a pending move of a feature from one piece to another.
type PieceSwap struct {
	Feature  *annotation.Feature
	OldPiece *annotation.TranscribedPiece
	NewPiece *annotation.TranscribedPiece
}

// CoreQueue accumulates mutation records without applying them. Flush applies
// everything accumulated so far as one consistent update, both to the store
// and to the in-memory graph, then clears the queue.
//
// Per-feature immediate writes would be far slower and would expose
// half-updated transcripts to concurrent readers; batching bounds the window
// of inconsistency to whole transcripts between explicit flush points.
type CoreQueue struct {
	store      Store
	coordSwaps []CoordSwap
	pieceSwaps []PieceSwap
}

// NewCoreQueue creates a queue flushing through the given store.
func NewCoreQueue(store Store) *CoreQueue {
	return &CoreQueue{store: store}
}

// QueueCoordSwap defers reassigning f to coord.
func (q *CoreQueue) QueueCoordSwap(f *annotation.Feature, coord *annotation.Coordinate) {
	q.coordSwaps = append(q.coordSwaps, CoordSwap{Feature: f, NewCoordinate: coord})
}

// QueuePieceSwap defers moving f from oldPiece to newPiece.
func (q *CoreQueue) QueuePieceSwap(f *annotation.Feature, oldPiece, newPiece *annotation.TranscribedPiece) {
	q.pieceSwaps = append(q.pieceSwaps, PieceSwap{Feature: f, OldPiece: oldPiece, NewPiece: newPiece})
}

// Pending returns the number of unapplied mutation records.
func (q *CoreQueue) Pending() int {
	return len(q.coordSwaps) + len(q.pieceSwaps)
}

// Flush applies all accumulated records and commits. The queue is cleared
// only on success; a failed flush leaves it intact for inspection.
func (q *CoreQueue) Flush() error {
	for _, swap := range q.coordSwaps {
		if err := q.store.SwapFeatureCoordinate(swap.Feature.ID, swap.NewCoordinate.ID); err != nil {
			return err
		}
	}
	for _, swap := range q.pieceSwaps {
		if err := q.store.SwapFeaturePiece(swap.Feature.ID, swap.OldPiece.ID, swap.NewPiece.ID); err != nil {
			return err
		}
	}
	if err := q.store.Commit(); err != nil {
		return err
	}
	// Mirror the committed state onto the in-memory graph.
	for _, swap := range q.coordSwaps {
		swap.Feature.Coordinate = swap.NewCoordinate
	}
	for _, swap := range q.pieceSwaps {
		if !swap.Feature.ReplacePiece(swap.OldPiece, swap.NewPiece) {
			return consistencyErrorf("feature %d is not attached to piece %d",
				swap.Feature.ID, swap.OldPiece.ID)
		}
	}
	q.coordSwaps = q.coordSwaps[:0]
	q.pieceSwaps = q.pieceSwaps[:0]
	return nil
}

package slicer

import (
	"github.com/weberlab-hhu/helixer/internal/annotation"
)

// Store is the persistence surface the slicing core writes through. The
// concrete implementation lives in internal/store; tests substitute fakes.
//
// Commit must guarantee that subsequent reads observe everything written
// before it. The trimmer commits once after a border split (later piece
// swaps reference the new piece's persisted identity) and once at the end of
// each trimming call via the batch queue.
type Store interface {
	// CreatePiece persists a new piece and assigns its ID.
	CreatePiece(p *annotation.TranscribedPiece) error
	// UpdatePiecePositions writes the order keys of the given pieces.
	UpdatePiecePositions(pieces []*annotation.TranscribedPiece) error
	// CreateFeature persists a new feature, its piece associations
	// included, and assigns its ID.
	CreateFeature(f *annotation.Feature) error
	// UpdateFeature writes a feature's interval, flags and coordinate.
	UpdateFeature(f *annotation.Feature) error
	// SwapFeatureCoordinate re-points a feature at a new coordinate.
	SwapFeatureCoordinate(featureID, newCoordinateID int64) error
	// SwapFeaturePiece moves a feature's association from one piece to
	// another.
	SwapFeaturePiece(featureID, oldPieceID, newPieceID int64) error
	// Commit flushes all writes issued so far.
	Commit() error
}

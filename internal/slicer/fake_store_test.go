package slicer

import (
	"github.com/weberlab-hhu/helixer/internal/annotation"
)

// fakeStore records mutations and assigns IDs, standing in for the SQLite
// store in core tests.
type fakeStore struct {
	nextID int64

	createdPieces   []*annotation.TranscribedPiece
	createdFeatures []*annotation.Feature
	createdCoords   []*annotation.Coordinate
	deletedPieces   []int64
	positionWrites  int
	featureWrites   int
	coordSwaps      [][2]int64 // feature id, new coordinate id
	pieceSwaps      [][3]int64 // feature id, old piece id, new piece id
	sets            map[int64]annotation.ProcessingSet
	commits         int

	failCommit error
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1000, sets: make(map[int64]annotation.ProcessingSet)}
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) CreatePiece(p *annotation.TranscribedPiece) error {
	p.ID = s.id()
	s.createdPieces = append(s.createdPieces, p)
	return nil
}

func (s *fakeStore) UpdatePiecePositions(pieces []*annotation.TranscribedPiece) error {
	s.positionWrites += len(pieces)
	return nil
}

func (s *fakeStore) CreateFeature(f *annotation.Feature) error {
	f.ID = s.id()
	s.createdFeatures = append(s.createdFeatures, f)
	return nil
}

func (s *fakeStore) UpdateFeature(f *annotation.Feature) error {
	s.featureWrites++
	return nil
}

func (s *fakeStore) SwapFeatureCoordinate(featureID, newCoordinateID int64) error {
	s.coordSwaps = append(s.coordSwaps, [2]int64{featureID, newCoordinateID})
	return nil
}

func (s *fakeStore) SwapFeaturePiece(featureID, oldPieceID, newPieceID int64) error {
	s.pieceSwaps = append(s.pieceSwaps, [3]int64{featureID, oldPieceID, newPieceID})
	return nil
}

func (s *fakeStore) Commit() error {
	if s.failCommit != nil {
		return s.failCommit
	}
	s.commits++
	return nil
}

func (s *fakeStore) CreateCoordinate(c *annotation.Coordinate) error {
	c.ID = s.id()
	s.createdCoords = append(s.createdCoords, c)
	return nil
}

func (s *fakeStore) SetProcessingSet(coordinateID int64, set annotation.ProcessingSet) error {
	s.sets[coordinateID] = set
	return nil
}

func (s *fakeStore) DeletePiece(pieceID int64) error {
	s.deletedPieces = append(s.deletedPieces, pieceID)
	return nil
}

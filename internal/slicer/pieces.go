package slicer

import (
	"sort"

	"github.com/google/uuid"

	"github.com/weberlab-hhu/helixer/internal/annotation"
)

// SplitAfter inserts a new, empty piece immediately after the given piece in
// the transcript's ordering: every piece with a higher position is shifted up
// by one, then the new piece takes position+1. The renumbering and the insert
// persist and commit together, so no two pieces of the transcript ever hold
// the same position once this returns.
//
// Callers must serialize trimming of the same transcript; the renumbering
// assumes exclusive access.
func SplitAfter(store Store, transcript *annotation.Transcript, piece *annotation.TranscribedPiece) (*annotation.TranscribedPiece, error) {
	var shifted []*annotation.TranscribedPiece
	for _, p := range transcript.Pieces {
		if p.Position > piece.Position {
			p.Position++
			shifted = append(shifted, p)
		}
	}

	newPiece := &annotation.TranscribedPiece{
		GivenName:    uuid.NewString(),
		Position:     piece.Position + 1,
		TranscriptID: transcript.ID,
	}
	if err := store.UpdatePiecePositions(shifted); err != nil {
		return nil, err
	}
	if err := store.CreatePiece(newPiece); err != nil {
		return nil, err
	}
	if err := store.Commit(); err != nil {
		return nil, err
	}

	transcript.Pieces = append(transcript.Pieces, newPiece)
	sort.SliceStable(transcript.Pieces, func(i, j int) bool {
		return transcript.Pieces[i].Position < transcript.Pieces[j].Position
	})
	return newPiece, nil
}

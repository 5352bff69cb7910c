package slicer

import (
	"sort"

	"github.com/weberlab-hhu/helixer/internal/annotation"
)

// FeatureGroup is a set of aligned features (identical interval, strand and
// coordinate) within one piece. Aligned features always move together during
// trimming, so the trimmer classifies the group once via its first member.
type FeatureGroup struct {
	Features []*annotation.Feature
	Piece    *annotation.TranscribedPiece
}

// WalkTranscript materializes the transcript's feature groups in strict
// 5'->3' order: pieces by ascending position, features within a piece by
// their position along the strand's direction of travel. The result is
// finite and consumed once per trimming call.
func WalkTranscript(transcript *annotation.Transcript) []FeatureGroup {
	pieces := make([]*annotation.TranscribedPiece, len(transcript.Pieces))
	copy(pieces, transcript.Pieces)
	sort.SliceStable(pieces, func(i, j int) bool {
		return pieces[i].Position < pieces[j].Position
	})

	var groups []FeatureGroup
	for _, piece := range pieces {
		feats := make([]*annotation.Feature, len(piece.Features))
		copy(feats, piece.Features)
		sort.SliceStable(feats, func(i, j int) bool {
			return travelKey(feats[i]) < travelKey(feats[j])
		})
		for _, f := range feats {
			if n := len(groups); n > 0 && groups[n-1].Piece == piece && aligned(groups[n-1].Features[0], f) {
				groups[n-1].Features = append(groups[n-1].Features, f)
				continue
			}
			groups = append(groups, FeatureGroup{Features: []*annotation.Feature{f}, Piece: piece})
		}
	}
	return groups
}

// travelKey orders features 5'->3': ascending raw start on the plus strand,
// descending on the minus strand.
func travelKey(f *annotation.Feature) int64 {
	if f.IsPlusStrand {
		return f.Start
	}
	return -f.Start
}

func aligned(a, b *annotation.Feature) bool {
	return a.Start == b.Start && a.End == b.End &&
		a.IsPlusStrand == b.IsPlusStrand && a.Coordinate == b.Coordinate
}

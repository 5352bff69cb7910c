package slicer

import (
	"github.com/weberlab-hhu/helixer/internal/annotation"
)

// Relation classifies a feature's position relative to a candidate slice, in
// the strand's direction of travel. Exactly one relation applies to any
// well-formed feature/slice pair.
type Relation int

const (
	// Detached means the feature lives on another sequence or the opposite
	// strand of the slicing context.
	Detached Relation = iota
	// Upstream features lie entirely before the slice (5' of it).
	Upstream
	// Downstream features lie entirely after the slice (3' of it).
	Downstream
	// Contained features fall fully inside the slice.
	Contained
	// OverlapsUpstream features straddle the slice's leading (5') border.
	OverlapsUpstream
	// OverlapsDownstream features straddle the slice's trailing (3') border.
	OverlapsDownstream
)

func (r Relation) String() string {
	switch r {
	case Detached:
		return "detached"
	case Upstream:
		return "upstream"
	case Downstream:
		return "downstream"
	case Contained:
		return "contained"
	case OverlapsUpstream:
		return "overlaps_upstream"
	case OverlapsDownstream:
		return "overlaps_downstream"
	}
	return "unknown"
}

// Classify positions feature relative to slice for a trimming pass running on
// the given strand. Comparisons use strand-adjusted half-open intervals so
// plus- and minus-strand features share one arithmetic.
//
// A zero-length or inverted adjusted interval is a ConsistencyError, never
// silently classified.
func Classify(feature *annotation.Feature, slice *annotation.Coordinate, isPlusStrand bool) (Relation, error) {
	// Strand or sequence mismatch: no interval comparison is meaningful.
	if feature.Coordinate == nil || feature.Coordinate.Seqid != slice.Seqid {
		return Detached, nil
	}
	if feature.IsPlusStrand != isPlusStrand {
		return Detached, nil
	}

	// Adjust to the uniform low->high sense. The sense of the adjustment
	// follows the strand of the pass, which at this point equals the
	// feature's own strand.
	var start, end int64
	if isPlusStrand {
		start, end = feature.Start, feature.End
	} else {
		start, end = feature.End+1, feature.Start+1
	}
	if start >= end {
		return 0, consistencyErrorf(
			"feature %d has empty or inverted adjusted interval [%d, %d)",
			feature.ID, start, end)
	}

	lower := end <= slice.Start
	higher := start >= slice.End
	overlapsLower := start < slice.Start && slice.Start < end
	overlapsHigher := start < slice.End && slice.End < end
	contained := slice.Start <= start && start < slice.End &&
		slice.Start < end && end <= slice.End

	switch {
	case contained:
		return Contained, nil
	case isPlusStrand && lower, !isPlusStrand && higher:
		return Upstream, nil
	case isPlusStrand && higher, !isPlusStrand && lower:
		return Downstream, nil
	case isPlusStrand && overlapsLower, !isPlusStrand && overlapsHigher:
		return OverlapsUpstream, nil
	case isPlusStrand && overlapsHigher, !isPlusStrand && overlapsLower:
		return OverlapsDownstream, nil
	}
	// Unreachable for a well-formed slice; kept as a hard failure so a
	// degenerate slice surfaces instead of being silently skipped.
	return 0, consistencyErrorf(
		"feature %d [%d, %d) is unclassifiable against slice %s:[%d, %d)",
		feature.ID, start, end, slice.Seqid, slice.Start, slice.End)
}

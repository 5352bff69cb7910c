package slicer

import (
	"errors"
	"fmt"
)

// ErrNoFeaturesInSlice signals that a transcript has no feature contained in
// or crossing into the slice being processed. Callers are expected to
// double-check for a missed overlap (see Slicer.verifyNoOverlap) and then
// treat it as a normal skip.
var ErrNoFeaturesInSlice = errors.New("no features in slice")

// ConsistencyError reports a malformed annotation graph or an internal logic
// defect. It is fatal for the transcript being processed: continuing would
// silently corrupt the graph.
type ConsistencyError struct {
	Reason string
}

func (e *ConsistencyError) Error() string {
	return "annotation graph inconsistency: " + e.Reason
}

func consistencyErrorf(format string, args ...any) error {
	return &ConsistencyError{Reason: fmt.Sprintf(format, args...)}
}

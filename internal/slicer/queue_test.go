package slicer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weberlab-hhu/helixer/internal/annotation"
)

func TestCoreQueue_FlushAppliesAndClears(t *testing.T) {
	store := newFakeStore()
	queue := NewCoreQueue(store)

	oldCoord := chrCoord("chr1", 0, 1000)
	oldCoord.ID = 1
	newCoord := chrCoord("chr1", 0, 400)
	newCoord.ID = 2

	oldPiece := &annotation.TranscribedPiece{ID: 10}
	newPiece := &annotation.TranscribedPiece{ID: 11}

	f := plusFeature(oldCoord, 100, 200)
	f.ID = 50
	f.AddPiece(oldPiece)

	queue.QueueCoordSwap(f, newCoord)
	queue.QueuePieceSwap(f, oldPiece, newPiece)
	assert.Equal(t, 2, queue.Pending())
	assert.Empty(t, store.coordSwaps, "nothing written before flush")

	require.NoError(t, queue.Flush())
	assert.Equal(t, 0, queue.Pending())
	assert.Equal(t, [][2]int64{{50, 2}}, store.coordSwaps)
	assert.Equal(t, [][3]int64{{50, 10, 11}}, store.pieceSwaps)
	assert.Equal(t, 1, store.commits)

	// The in-memory graph mirrors the committed state.
	assert.Same(t, newCoord, f.Coordinate)
	assert.Equal(t, []*annotation.TranscribedPiece{newPiece}, f.Pieces)
	assert.Empty(t, oldPiece.Features)
	assert.Equal(t, []*annotation.Feature{f}, newPiece.Features)
}

func TestCoreQueue_FlushEmptyCommitsOnly(t *testing.T) {
	store := newFakeStore()
	queue := NewCoreQueue(store)
	require.NoError(t, queue.Flush())
	assert.Equal(t, 1, store.commits)
}

func TestCoreQueue_FailedCommitKeepsRecords(t *testing.T) {
	store := newFakeStore()
	store.failCommit = errors.New("disk full")
	queue := NewCoreQueue(store)

	coord := chrCoord("chr1", 0, 400)
	coord.ID = 2
	f := plusFeature(chrCoord("chr1", 0, 1000), 100, 200)
	f.ID = 50

	queue.QueueCoordSwap(f, coord)
	err := queue.Flush()
	require.Error(t, err)
	assert.Equal(t, 1, queue.Pending(), "queue intact after a failed flush")
	assert.NotSame(t, coord, f.Coordinate, "graph untouched without a commit")

	store.failCommit = nil
	require.NoError(t, queue.Flush())
	assert.Same(t, coord, f.Coordinate)
	assert.Equal(t, 0, queue.Pending())
}

func TestCoreQueue_PieceSwapOnDetachedFeature(t *testing.T) {
	store := newFakeStore()
	queue := NewCoreQueue(store)

	f := plusFeature(chrCoord("chr1", 0, 1000), 100, 200)
	f.ID = 50
	oldPiece := &annotation.TranscribedPiece{ID: 10}
	newPiece := &annotation.TranscribedPiece{ID: 11}
	// f never attached to oldPiece.

	queue.QueuePieceSwap(f, oldPiece, newPiece)
	err := queue.Flush()
	require.Error(t, err)
	var cerr *ConsistencyError
	assert.ErrorAs(t, err, &cerr)
}

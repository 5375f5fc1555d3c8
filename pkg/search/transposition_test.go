package search_test

import (
	"context"
	"testing"

	"github.com/nullmove/corvid/pkg/board"
	"github.com/nullmove/corvid/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestTranspositionTableStoreAndProbe(t *testing.T) {
	tt := search.NewTranspositionTable(context.Background(), 4)

	pos := board.NewStartPosition()
	move := board.Move{From: board.E2, To: board.E4}

	tt.Store(pos.Hash(), search.PVBound, 6, 35, move)

	bound, depth, score, got, ok := tt.Probe(pos.Hash())
	assert.True(t, ok)
	assert.Equal(t, search.PVBound, bound)
	assert.Equal(t, 6, depth)
	assert.Equal(t, board.Score(35), score)
	assert.Equal(t, move, got)
}

func TestTranspositionTableProbeMissOnHashMismatch(t *testing.T) {
	tt := search.NewTranspositionTable(context.Background(), 4)

	_, _, _, _, ok := tt.Probe(board.ZobristHash(0x1234))
	assert.False(t, ok)
}

func TestTranspositionTableClearEmptiesAllSlots(t *testing.T) {
	tt := search.NewTranspositionTable(context.Background(), 4)

	pos := board.NewStartPosition()
	tt.Store(pos.Hash(), search.PVBound, 1, 0, board.Move{})
	tt.Clear()

	_, _, _, _, ok := tt.Probe(pos.Hash())
	assert.False(t, ok)
}

func TestUsableBound(t *testing.T) {
	cases := []struct {
		name                  string
		bound                 search.Bound
		storedDepth, needed   int
		score, alpha, beta    board.Score
		want                  bool
	}{
		{"insufficient depth", search.PVBound, 2, 5, 0, -10, 10, false},
		{"exact always usable", search.PVBound, 5, 5, 0, -10, 10, true},
		{"all-node usable below alpha", search.ALLBound, 5, 5, -20, -10, 10, true},
		{"all-node not usable above alpha", search.ALLBound, 5, 5, 0, -10, 10, false},
		{"cut-node usable at or above beta", search.CUTBound, 5, 5, 15, -10, 10, true},
		{"cut-node not usable below beta", search.CUTBound, 5, 5, 0, -10, 10, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := search.Usable(tc.bound, tc.storedDepth, tc.needed, tc.score, tc.alpha, tc.beta)
			assert.Equal(t, tc.want, got)
		})
	}
}

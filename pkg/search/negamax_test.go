package search_test

import (
	"context"
	"testing"
	"time"

	"github.com/nullmove/corvid/pkg/board"
	"github.com/nullmove/corvid/pkg/board/fen"
	"github.com/nullmove/corvid/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine() *search.Engine {
	tt := search.NewTranspositionTable(context.Background(), 16)
	return search.NewEngine(tt, nil)
}

func TestRunFindsMateInOne(t *testing.T) {
	pos := mustDecode(t, "6k1/5ppp/8/8/8/8/8/R3K2R w KQ - 0 1")

	e := newEngine()
	results := e.Run(pos, search.Options{MaxDepth: 3}, nil)

	require.NotEmpty(t, results)
	best := results[0]
	assert.True(t, board.IsMateScore(best.Line.Eval))
	assert.Equal(t, board.Mate(2), best.Line.Eval)
}

func TestRunReportsNoLineForStalemate(t *testing.T) {
	// Black to move, no legal moves, not in check.
	pos := mustDecode(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")

	e := newEngine()
	results := e.Run(pos, search.Options{MaxDepth: 2}, nil)

	assert.Empty(t, results)
}

func TestRunReturnsLegalMoveFromStartPosition(t *testing.T) {
	pos, _, _, _, err := fen.Decode("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)

	e := newEngine()
	results := e.Run(pos, search.Options{MaxDepth: 4}, nil)

	require.NotEmpty(t, results)
	moves := results[0].Moves()
	require.NotEmpty(t, moves)

	from := moves[0].From
	assert.True(t, pos.Occupancy(board.White).IsSet(from))
}

func TestRunRespectsDeadline(t *testing.T) {
	pos := board.NewStartPosition()

	e := newEngine()
	deadline := time.Now().Add(20 * time.Millisecond)
	start := time.Now()
	results := e.Run(pos, search.Options{MaxDepth: 64, Deadline: deadline}, nil)
	elapsed := time.Since(start)

	require.NotEmpty(t, results)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestRunEmitsMultiPVInDescendingOrder(t *testing.T) {
	pos := board.NewStartPosition()

	e := newEngine()
	results := e.Run(pos, search.Options{MaxDepth: 3, NumPVs: 3}, nil)

	require.Len(t, results, 3)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Line.Eval, results[i].Line.Eval)
	}
}

func TestStopHaltsSearchPromptly(t *testing.T) {
	pos := board.NewStartPosition()

	e := newEngine()
	done := make(chan struct{})
	go func() {
		e.Run(pos, search.Options{MaxDepth: 64}, nil)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	e.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("search did not stop after Stop()")
	}
}

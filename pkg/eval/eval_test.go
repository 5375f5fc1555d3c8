package eval_test

import (
	"testing"

	"github.com/nullmove/corvid/pkg/board"
	"github.com/nullmove/corvid/pkg/eval"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateSymmetricStartPosition(t *testing.T) {
	pos := board.NewStartPosition()
	assert.Equal(t, eval.Tempo, int(eval.Evaluate(pos)))
}

func TestEvaluateFavorsMaterial(t *testing.T) {
	pos, err := board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.A8, Color: board.Black, Piece: board.King},
		{Square: board.D4, Color: board.White, Piece: board.Queen},
	}, board.White, board.NoCastlingRights, board.ZeroSquare)
	assert.NoError(t, err)

	assert.Greater(t, int(eval.Evaluate(pos)), int(board.QueenValueMG))
}

func TestEvaluateFlipsSignBySideToMove(t *testing.T) {
	white, err := board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.A8, Color: board.Black, Piece: board.King},
		{Square: board.D4, Color: board.White, Piece: board.Rook},
	}, board.White, board.NoCastlingRights, board.ZeroSquare)
	assert.NoError(t, err)

	black, err := board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.A8, Color: board.Black, Piece: board.King},
		{Square: board.D4, Color: board.White, Piece: board.Rook},
	}, board.Black, board.NoCastlingRights, board.ZeroSquare)
	assert.NoError(t, err)

	assert.Greater(t, int(eval.Evaluate(white)), 0)
	assert.Less(t, int(eval.Evaluate(black)), 0)
}

package board_test

import (
	"sort"
	"strings"
	"testing"

	"github.com/nullmove/corvid/pkg/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func printMoves(ms []board.Move) string {
	list := make([]string, 0, len(ms))
	for _, m := range ms {
		list = append(list, m.String())
	}
	sort.Strings(list)
	return strings.Join(list, " ")
}

func TestStartPositionGenerate(t *testing.T) {
	pos := board.NewStartPosition()
	moves := pos.Generate(nil, false)
	assert.Len(t, moves, 20) // 16 pawn moves + 4 knight moves

	pos.AssertHashConsistent()
}

func TestPawnPromotionEmitsFourMoves(t *testing.T) {
	pos, err := board.NewPosition([]board.Placement{
		{Square: board.D7, Color: board.White, Piece: board.Pawn},
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.A8, Color: board.Black, Piece: board.King},
	}, board.White, board.NoCastlingRights, board.ZeroSquare)
	require.NoError(t, err)

	moves := pos.Generate(nil, false)
	promos := 0
	for _, m := range moves {
		if m.From == board.D7 && m.To == board.D8 {
			promos++
			assert.True(t, m.IsPromotion)
		}
	}
	assert.Equal(t, 4, promos)
}

func TestEnPassantCapture(t *testing.T) {
	pos, err := board.NewPosition([]board.Placement{
		{Square: board.E5, Color: board.White, Piece: board.Pawn},
		{Square: board.D5, Color: board.Black, Piece: board.Pawn},
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.A8, Color: board.Black, Piece: board.King},
	}, board.White, board.NoCastlingRights, board.D6)
	require.NoError(t, err)

	found := false
	for _, m := range pos.Generate(nil, false) {
		if m.IsEnPassant {
			found = true
			assert.Equal(t, board.E5, m.From)
			assert.Equal(t, board.D6, m.To)
		}
	}
	assert.True(t, found)

	for _, m := range pos.Generate(nil, false) {
		if m.IsEnPassant {
			pos.Apply(m)
			assert.True(t, pos.IsEmpty(board.D5))
			pos.AssertHashConsistent()
			return
		}
	}
}

func TestCastlingRequiresEmptyAndUnattackedSquares(t *testing.T) {
	pos, err := board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.H1, Color: board.White, Piece: board.Rook},
		{Square: board.A1, Color: board.White, Piece: board.Rook},
		{Square: board.A8, Color: board.Black, Piece: board.King},
	}, board.White, board.FullCastlingRights, board.ZeroSquare)
	require.NoError(t, err)

	castles := 0
	for _, m := range pos.Generate(nil, false) {
		if m.IsCastle {
			castles++
		}
	}
	assert.Equal(t, 2, castles)

	// Now attack f1 so short castling is no longer legal.
	pos2, err := board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.H1, Color: board.White, Piece: board.Rook},
		{Square: board.A1, Color: board.White, Piece: board.Rook},
		{Square: board.F8, Color: board.Black, Piece: board.Rook},
		{Square: board.A8, Color: board.Black, Piece: board.King},
	}, board.White, board.FullCastlingRights, board.ZeroSquare)
	require.NoError(t, err)

	short, long := false, false
	for _, m := range pos2.Generate(nil, false) {
		if m.IsCastle {
			if m.To == board.G1 {
				short = true
			}
			if m.To == board.C1 {
				long = true
			}
		}
	}
	assert.False(t, short)
	assert.True(t, long)
}

func TestApplyMaintainsHashInvariant(t *testing.T) {
	pos := board.NewStartPosition()
	for _, pair := range []struct{ from, to board.Square }{
		{board.E2, board.E4},
		{board.E7, board.E5},
		{board.G1, board.F3},
		{board.B8, board.C6},
	} {
		for _, m := range pos.Generate(nil, false) {
			if m.From == pair.from && m.To == pair.to {
				pos.Apply(m)
				pos.AssertHashConsistent()
				break
			}
		}
	}
}

func TestInCheck(t *testing.T) {
	pos, err := board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.E8, Color: board.Black, Piece: board.Rook},
		{Square: board.A1, Color: board.Black, Piece: board.King},
	}, board.White, board.NoCastlingRights, board.ZeroSquare)
	require.NoError(t, err)

	assert.True(t, pos.InCheck(board.White))
	assert.False(t, pos.InCheck(board.Black))
}

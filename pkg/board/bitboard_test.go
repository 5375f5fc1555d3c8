package board_test

import (
	"testing"

	"github.com/nullmove/corvid/pkg/board"
	"github.com/stretchr/testify/assert"
)

func TestBitboard(t *testing.T) {
	t.Run("popcount", func(t *testing.T) {
		tests := []struct {
			bb       board.Bitboard
			expected int
		}{
			{board.EmptyBitboard, 0},
			{board.BitMask(board.G4), 1},
			{board.BitMask(board.G3) | board.BitMask(board.G4), 2},
		}

		for _, tt := range tests {
			assert.Equal(t, tt.expected, tt.bb.PopCount())
		}
	})

	t.Run("knight corners", func(t *testing.T) {
		assert.Equal(t, 2, board.KnightAttackboard(board.A1).PopCount())
		assert.Equal(t, 2, board.KnightAttackboard(board.H8).PopCount())
		assert.Equal(t, 8, board.KnightAttackboard(board.D5).PopCount())
	})

	t.Run("king corners", func(t *testing.T) {
		assert.Equal(t, 3, board.KingAttackboard(board.A1).PopCount())
		assert.Equal(t, 8, board.KingAttackboard(board.D5).PopCount())
	})

	t.Run("rook on open board", func(t *testing.T) {
		bb := board.RookAttackboard(board.EmptyBitboard, board.A1)
		assert.Equal(t, 14, bb.PopCount())
		assert.True(t, bb.IsSet(board.A8))
		assert.True(t, bb.IsSet(board.H1))
	})

	t.Run("rook blocked by own occupancy still attacks the blocker", func(t *testing.T) {
		occ := board.BitMask(board.A3)
		bb := board.RookAttackboard(occ, board.A1)
		assert.True(t, bb.IsSet(board.A2))
		assert.True(t, bb.IsSet(board.A3))
		assert.False(t, bb.IsSet(board.A4))
	})

	t.Run("bishop on open board", func(t *testing.T) {
		bb := board.BishopAttackboard(board.EmptyBitboard, board.D4)
		assert.Equal(t, 13, bb.PopCount())
	})

	t.Run("pawn attacks", func(t *testing.T) {
		assert.Equal(t, 2, board.PawnAttackboard(board.White, board.E4).PopCount())
		assert.True(t, board.PawnAttackboard(board.White, board.E4).IsSet(board.D5))
		assert.True(t, board.PawnAttackboard(board.White, board.E4).IsSet(board.F5))
		assert.True(t, board.PawnAttackboard(board.Black, board.E4).IsSet(board.D3))
	})
}

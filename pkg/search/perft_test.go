package search_test

import (
	"testing"

	"github.com/nullmove/corvid/pkg/board"
	"github.com/nullmove/corvid/pkg/board/fen"
	"github.com/nullmove/corvid/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, f string) *board.Position {
	t.Helper()
	pos, _, _, _, err := fen.Decode(f)
	require.NoError(t, err)
	return pos
}

func assertPerft(t *testing.T, pos *board.Position, depth int, want search.PerftResult) {
	t.Helper()
	got := search.Perft(pos, depth)
	assert.Equal(t, want, got)
}

func TestPerftStartPosition(t *testing.T) {
	pos := board.NewStartPosition()

	assertPerft(t, pos, 1, search.PerftResult{Nodes: 20})
	assertPerft(t, pos, 2, search.PerftResult{Nodes: 400})
	assertPerft(t, pos, 3, search.PerftResult{Nodes: 8902, Captures: 34, Checks: 12})
	assertPerft(t, pos, 4, search.PerftResult{Nodes: 197281, Captures: 1576, Checks: 469, Mates: 8})
	assertPerft(t, pos, 5, search.PerftResult{
		Nodes: 4865609, Captures: 82719, EnPassants: 258, Castles: 0, Promotions: 0, Checks: 27351, Mates: 8,
	})
}

func TestPerftKiwipete(t *testing.T) {
	pos := mustDecode(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")

	assertPerft(t, pos, 4, search.PerftResult{
		Nodes: 4085603, Captures: 757163, EnPassants: 1929, Castles: 128013, Promotions: 15172, Checks: 25523, Mates: 1,
	})
}

func TestPerftEndgamePosition(t *testing.T) {
	pos := mustDecode(t, "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")

	assertPerft(t, pos, 6, search.PerftResult{
		Nodes: 11030083, Captures: 940350, EnPassants: 33325, Castles: 0, Promotions: 7552, Checks: 452473, Mates: 0,
	})
}

func TestPerftPromotionHeavyPosition(t *testing.T) {
	pos := mustDecode(t, "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1")

	assertPerft(t, pos, 5, search.PerftResult{
		Nodes: 15833292, Captures: 2046173, EnPassants: 6512, Castles: 0, Promotions: 329464, Checks: 200568, Mates: 5,
	})
}

func TestPerftZeroDepthIsNoOp(t *testing.T) {
	pos := board.NewStartPosition()
	assertPerft(t, pos, 0, search.PerftResult{Nodes: 1})
}

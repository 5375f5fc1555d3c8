package search

import "github.com/nullmove/corvid/pkg/board"

// PerftResult accumulates classification counters for Perft. Mates counts checkmated
// positions one ply above the leaves (they have no leaf below them); the other counters
// classify the leaves themselves or the moves that reach them.
type PerftResult struct {
	Nodes      uint64
	Captures   uint64
	EnPassants uint64
	Castles    uint64
	Promotions uint64
	Checks     uint64
	Mates      uint64
}

// Perft counts leaf positions reached after exactly depth plies from pos, classifying them
// for regression testing; checkmates are counted among the positions at depth-1 plies. It ignores the transposition table and the evaluator entirely,
// and runs single-threaded: it exists to validate the move generator, not to play chess.
func Perft(pos *board.Position, depth int) PerftResult {
	var result PerftResult
	perft(pos, depth, &result)
	return result
}

func perft(pos *board.Position, depth int, result *PerftResult) uint64 {
	if depth == 0 {
		if pos.InCheck(pos.Turn()) {
			result.Checks++
		}
		result.Nodes++
		return 1
	}

	var moveBuf [board.MaxMoves]board.Move
	moves := pos.Generate(moveBuf[:0], false)

	foundLegal := false
	var nodes uint64

	for _, m := range moves {
		saved := pos.Copy()
		pos.Apply(m)

		if pos.InCheck(pos.Turn().Opponent()) {
			*pos = saved
			continue
		}
		foundLegal = true

		if depth == 1 {
			if m.IsPromotion {
				result.Promotions++
			}
			if m.IsCapture {
				result.Captures++
			}
			if m.IsCastle {
				result.Castles++
			}
			if m.IsEnPassant {
				result.EnPassants++
			}
		}

		nodes += perft(pos, depth-1, result)
		*pos = saved
	}

	if depth == 1 && !foundLegal && pos.InCheck(pos.Turn()) {
		result.Mates++
	}

	return nodes
}

// Divide runs Perft one ply at a time from the root, returning the node count contributed
// by each legal root move. Useful for isolating a move-generator discrepancy against a
// reference perft tool.
func Divide(pos *board.Position, depth int) map[string]uint64 {
	out := make(map[string]uint64)
	if depth == 0 {
		return out
	}

	var moveBuf [board.MaxMoves]board.Move
	moves := pos.Generate(moveBuf[:0], false)

	for _, m := range moves {
		saved := pos.Copy()
		pos.Apply(m)

		if pos.InCheck(pos.Turn().Opponent()) {
			*pos = saved
			continue
		}

		var result PerftResult
		out[m.String()] = perft(pos, depth-1, &result)
		*pos = saved
	}
	return out
}

// Package eval implements the static position evaluator.
package eval

import "github.com/nullmove/corvid/pkg/board"

type Color = board.Color

// Tuning constants for the non-material evaluation terms. Material and piece-square
// values come from board.material.go, which is shared with move ordering.
const (
	Tempo             = 10
	MobilityFactor    = 2
	ScopeFactor       = 1
	KingSafetyFactor  = 3
)

// Evaluate scores position from the perspective of the side to move: positive favors
// the side to move. It is a pure function of the position (piece placement, side to
// move, castling rights, en-passant target) and reads no hidden state.
func Evaluate(pos *board.Position) board.Score {
	side := pos.Turn()
	opp := side.Opponent()
	phase := board.Phase(pos, side)

	score := 0

	// Material, middle-game/end-game blended per piece.
	score += materialBalance(pos, side, phase)

	// Tempo: a flat bonus for being on the move.
	score += Tempo

	// Mobility and scope.
	score += MobilityFactor * (pos.Mobility(side).PopCount() - pos.Mobility(opp).PopCount())
	score += ScopeFactor * (pos.Scope(side) - pos.Scope(opp))

	// Piece-square tables, blended by phase.
	score += pstBalance(pos, side, phase)

	// King safety: the more empty squares a king can "see" along sliding rays, the more
	// exposed it is.
	score -= int(float64(KingSafetyFactor) * (1 - phase) * float64(kingOpenness(pos, side)))
	score += int(float64(KingSafetyFactor) * (1 - phase) * float64(kingOpenness(pos, opp)))

	return board.Score(score)
}

func materialBalance(pos *board.Position, side Color, phase float64) int {
	opp := side.Opponent()
	mg, eg := 0, 0
	for piece := board.Pawn; piece <= board.Queen; piece++ {
		count := pos.PieceCount(side, piece) - pos.PieceCount(opp, piece)
		mg += count * board.MaterialMG(piece)
		eg += count * board.MaterialEG(piece)
	}
	return int(float64(mg)*(1-phase) + float64(eg)*phase)
}

func pstBalance(pos *board.Position, side Color, phase float64) int {
	opp := side.Opponent()
	total := 0
	for piece := board.Pawn; piece <= board.King; piece++ {
		for _, sq := range pos.PieceSquares(side, piece) {
			total += board.PSTValue(side, piece, sq, phase)
		}
		for _, sq := range pos.PieceSquares(opp, piece) {
			total -= board.PSTValue(opp, piece, sq, phase)
		}
	}
	return total
}

// kingOpenness counts empty squares seen by side's king along the 8 ray directions,
// stopping at (but not including) the first occupied square.
func kingOpenness(pos *board.Position, side Color) int {
	king, ok := pos.KingSquare(side)
	if !ok {
		return 0
	}
	combined := pos.Occupancy(board.White) | pos.Occupancy(board.Black)

	count := 0
	dirs := append(append([][2]int{}, board.RookDeltas[:]...), board.BishopDeltas[:]...)
	for _, d := range dirs {
		count += countEmptyRay(combined, king, d[0], d[1])
	}
	return count
}

func countEmptyRay(combined board.Bitboard, sq board.Square, df, dr int) int {
	f, r := int(sq.File()), int(sq.Rank())
	n := 0
	for {
		f, r = f+df, r+dr
		if f < 0 || f > 7 || r < 0 || r > 7 {
			break
		}
		s := board.NewSquare(board.File(f), board.Rank(r))
		if combined.IsSet(s) {
			break
		}
		n++
	}
	return n
}

package board

import "sort"

// Ordering bonuses used by EstimateMoveValue and Sort. Values are tuned heuristics, not
// material values: they only need to separate move classes, not price them exactly.
const (
	CaptureBonus  = 10
	CastleBonus   = 60
	TTMoveBonus   = 10000
	HistoryMin    = -300
	HistoryMax    = 300
)

// HistoryTable is the move-ordering history heuristic: a per-side, per-(from,to) score
// bounded to [HistoryMin, HistoryMax], consulted during Sort and cleared once per
// iterative-deepening iteration.
type HistoryTable struct {
	score [NumColors][NumSquares][NumSquares]int
}

// NewHistoryTable returns a zeroed history table.
func NewHistoryTable() *HistoryTable {
	return &HistoryTable{}
}

// Clear resets every entry to zero, as done at the start of each iterative-deepening
// iteration.
func (h *HistoryTable) Clear() {
	*h = HistoryTable{}
}

func (h *HistoryTable) Get(side Color, m Move) int {
	return h.score[side][m.From][m.To]
}

// Update applies the gravity-scaled bonus/malus rule used on a beta cutoff: the bumped
// entry gets bonus after first being pulled towards zero in proportion to its current
// magnitude, and each earlier quiet move tried at the node is pushed the other way.
func (h *HistoryTable) Update(side Color, cutoff Move, quietsTriedBefore []Move, bonus int) {
	h.bump(side, cutoff, bonus)
	malus := -bonus / 10
	for _, m := range quietsTriedBefore {
		h.bump(side, m, malus)
	}
}

func (h *HistoryTable) bump(side Color, m Move, delta int) {
	cell := &h.score[side][m.From][m.To]
	*cell -= *cell * abs(delta) / HistoryMax
	*cell += delta
	if *cell > HistoryMax {
		*cell = HistoryMax
	}
	if *cell < HistoryMin {
		*cell = HistoryMin
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// EstimateMoveValue scores a pseudo-legal move for ordering purposes: capture/castle/
// en-passant bonuses, the blended piece-square-table delta of the mover, the value of
// anything captured, a penalty if the destination is already attacked by the opponent,
// and the value of any promotion piece.
func (p *Position) EstimateMoveValue(m Move) int {
	side := p.turn
	opp := side.Opponent()
	phase := Phase(p, side)

	score := 0
	if m.IsCapture {
		score += CaptureBonus
	}
	if m.IsCastle {
		score += CastleBonus
	}
	if m.IsEnPassant {
		score += PawnValueMG
	}

	mover := p.pieceAt(side, m.From)
	score += PSTValue(side, mover, m.To, phase) - PSTValue(side, mover, m.From, phase)

	if m.IsCapture {
		var captured Piece
		if m.IsEnPassant {
			captured = Pawn
		} else {
			captured = p.pieceAt(opp, m.To)
		}
		score += MaterialMG(captured)
	}

	if p.mobility[opp].IsSet(m.To) {
		score -= MaterialMG(mover)
	}

	if m.IsPromotion {
		score += MaterialMG(m.Promotion)
	}

	return score
}

type scoredMove struct {
	move  Move
	score int
}

// Sort orders moves descending by estimated value, promoting ttMove (if present among
// them) and consulting the history table (if non-nil) for quiet moves.
func (p *Position) Sort(moves []Move, ttMove Move, history *HistoryTable) {
	side := p.turn
	scored := make([]scoredMove, len(moves))
	for i, m := range moves {
		s := p.EstimateMoveValue(m)
		if m.Equals(ttMove) {
			s += TTMoveBonus
		}
		if history != nil && !m.IsCapture && !m.IsPromotion {
			s += history.Get(side, m)
		}
		scored[i] = scoredMove{m, s}
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	for i, sm := range scored {
		moves[i] = sm.move
	}
}

package search

import (
	"time"

	"github.com/nullmove/corvid/pkg/board"
	"go.uber.org/atomic"
)

// Engine runs iterative-deepening negamax search against a board.Position. One Engine is
// meant to be driven by one goroutine at a time; Stop may be called concurrently to
// request cooperative cancellation.
type Engine struct {
	TT      *TranspositionTable
	History *board.HistoryTable

	cancel atomic.Bool
}

// NewEngine returns an Engine backed by tt. If history is nil, a fresh table is allocated.
func NewEngine(tt *TranspositionTable, history *board.HistoryTable) *Engine {
	if history == nil {
		history = board.NewHistoryTable()
	}
	return &Engine{TT: tt, History: history}
}

// Stop requests cooperative cancellation of any in-progress search. Idempotent.
func (e *Engine) Stop() {
	e.cancel.Store(true)
}

// run carries the mutable state of a single iterative-deepening iteration: node counts,
// the deadline, the quiescence depth cap for this iteration, and the PV table being
// assembled.
type run struct {
	e *Engine

	pv *pvTable

	numPvs          int
	quiesceMaxDepth int

	deadline time.Time
	timedOut bool

	nodes, branches uint64
	selDepth        int
}

func (r *run) cancelled() bool {
	return r.e.cancel.Load()
}

// negamax implements the recursive search described for depth-first, alpha-beta-pruned
// negamax with TT lookups, null-move reduction, late-move reduction and check extension.
// It returns a score from the perspective of the side to move at pos.
func (r *run) negamax(pos *board.Position, alpha, beta board.Score, maxDepth, depth int) board.Score {
	if r.cancelled() {
		return board.NegInf
	}
	r.pv.clearDepth(depth)

	var ttMove board.Move
	if bound, storedDepth, score, move, ok := r.e.TT.Probe(pos.Hash()); ok {
		ttMove = move
		if Usable(bound, storedDepth, maxDepth-depth, score, alpha, beta) {
			return score
		}
	}

	if depth == maxDepth {
		if !r.timedOut && !r.deadline.IsZero() && !time.Now().Before(r.deadline) {
			r.timedOut = true
			r.e.Stop()
		}
		score := r.quiesce(pos, alpha, beta, depth)
		r.e.TT.Store(pos.Hash(), PVBound, 0, score, board.Move{})
		return score
	}

	r.nodes++
	r.branches++

	inCheck := pos.InCheck(pos.Turn())
	if depth == maxDepth-1 && inCheck && maxDepth < board.MaxDepth-2 {
		maxDepth += 2
	}

	if depth+3 < maxDepth && !inCheck && pos.Ply() < EndgameCutoff {
		result := r.nullMove(pos, alpha, beta, depth, maxDepth)
		if result.raise {
			maxDepth = result.newMaxDepth
			if result.cut {
				r.e.TT.Store(pos.Hash(), CUTBound, maxDepth-depth, beta, board.Move{})
				return beta
			}
		}
	}

	var moves [board.MaxMoves]board.Move
	candidates := pos.Generate(moves[:0], false)
	pos.Sort(candidates, ttMove, r.e.History)

	foundLegal := false
	bestScore := board.NegInf
	bestMove := board.Move{}
	raisedAlpha := false
	movesSearched := 0

	var quietsTried []board.Move

	for _, m := range candidates {
		saved := pos.Copy()
		pos.Apply(m)

		if pos.InCheck(pos.Turn().Opponent()) {
			*pos = saved
			continue
		}

		var score board.Score
		if depth > 0 && pos.IsRepetition(pos.Hash()) {
			if depth%2 == 0 {
				score = -DrawThreshold
			} else {
				score = 0
			}
		} else {
			pos.PushRepetition(pos.Hash())
			foundLegal = true
			movesSearched++

			givesCheck := pos.InCheck(pos.Turn())

			newDepth := maxDepth
			reduced := false
			if !inCheck && !m.IsCapture && !givesCheck {
				newDepth = reducePolicy(depth, maxDepth, movesSearched)
				reduced = newDepth != maxDepth
			}

			score = -r.negamax(pos, -beta, -alpha, newDepth, depth+1)
			if reduced && score > alpha {
				score = -r.negamax(pos, -beta, -alpha, maxDepth, depth+1)
			}
		}

		*pos = saved

		if score >= beta {
			r.e.TT.Store(pos.Hash(), CUTBound, maxDepth-depth, beta, m)
			if !m.IsCapture {
				bonus := (maxDepth - depth) * (maxDepth - depth)
				r.e.History.Update(pos.Turn(), m, quietsTried, bonus)
			}
			return score
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if !m.IsCapture {
			quietsTried = append(quietsTried, m)
		}

		prevAlpha := alpha
		r.pv.update(r.numPvs, depth, m, score)
		if depth == 0 && r.numPvs > 1 {
			if score > prevAlpha {
				raisedAlpha = true
			}
			alpha = r.pv.rootAlpha(r.numPvs)
		} else if score > alpha {
			alpha = score
			raisedAlpha = true
		}
	}

	if !foundLegal {
		if inCheck {
			bestScore = -board.Mate(depth + 1)
		} else {
			bestScore = 0
		}
	}

	bound := ALLBound
	if raisedAlpha {
		bound = PVBound
	}
	r.e.TT.Store(pos.Hash(), bound, maxDepth-depth, bestScore, bestMove)
	return bestScore
}

type nullMoveResult struct {
	raise       bool
	cut         bool
	newMaxDepth int
}

// nullMove performs the null-move-reduction probe: flip side to move without making a
// move, clear both en-passant targets, and search to a reduced depth with the window
// (-beta, -alpha). If that search still fails high, the caller either reduces maxDepth
// further or, past the reduction point, treats the position as a cutoff.
func (r *run) nullMove(pos *board.Position, alpha, beta board.Score, depth, maxDepth int) nullMoveResult {
	reducedDepth := depth + 3

	saved := pos.Copy()
	pos.ApplyNull()
	score := -r.negamax(pos, -beta, -alpha, reducedDepth, depth+1)
	*pos = saved

	if score < beta {
		return nullMoveResult{}
	}
	if depth < reduce1(maxDepth) {
		return nullMoveResult{raise: true, newMaxDepth: reduce1(maxDepth)}
	}
	return nullMoveResult{raise: true, cut: true, newMaxDepth: maxDepth}
}

// reducePolicy implements the late-move-reduction depth schedule: moves searched beyond
// LateMoveCutoff get a shallower new_depth, and beyond LateMoveCutoff2 a shallower one
// still.
func reducePolicy(depth, maxDepth, movesSearched int) int {
	if movesSearched > LateMoveCutoff2 {
		if depth < reduce2(maxDepth) {
			return reduce2(maxDepth)
		}
		return maxDepth - 1
	}
	if movesSearched > LateMoveCutoff {
		if depth < reduce1(maxDepth) {
			return reduce1(maxDepth)
		}
		return maxDepth - 1
	}
	return maxDepth
}

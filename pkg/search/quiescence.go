package search

import (
	"github.com/nullmove/corvid/pkg/board"
	"github.com/nullmove/corvid/pkg/eval"
)

// quiesce resolves captures beyond the main search horizon so the static evaluation is
// never taken in the middle of a tactical exchange. It returns a score from the
// perspective of the side to move at pos.
func (r *run) quiesce(pos *board.Position, alpha, beta board.Score, depth int) board.Score {
	if depth > r.selDepth {
		r.selDepth = depth
	}

	standPat := eval.Evaluate(pos)
	if depth == r.quiesceMaxDepth {
		return standPat
	}
	if standPat >= beta {
		return standPat
	}
	if standPat > alpha {
		alpha = standPat
	}

	r.nodes++

	var moves [board.MaxMoves]board.Move
	candidates := pos.Generate(moves[:0], true)
	pos.Sort(candidates, board.Move{}, nil)

	best := standPat
	for _, m := range candidates {
		saved := pos.Copy()
		pos.Apply(m)

		if pos.InCheck(pos.Turn().Opponent()) {
			*pos = saved
			continue
		}

		score := -r.quiesce(pos, -beta, -alpha, depth+1)
		*pos = saved

		if score >= beta {
			return score
		}
		if score > alpha {
			alpha = score
		}
		if score > best {
			best = score
		}
	}

	return best
}

package search

import (
	"time"

	"github.com/nullmove/corvid/pkg/board"
)

// Result is one principal variation reported to the caller: either a completed
// iterative-deepening iteration, or the final answer after a search stops.
type Result struct {
	Depth    int
	SelDepth int
	MultiPV  int // 1-based slot index
	Nodes    uint64
	Time     time.Duration
	Line     Line
}

func (r Result) Moves() []board.Move {
	return r.Line.tail(0)
}

// Options configures one call to Run.
type Options struct {
	// MaxDepth bounds iterative deepening; 0 means board.MaxDepth-1.
	MaxDepth int
	// NumPVs is the number of principal variations to track (UCI MultiPV), clamped to
	// [1, MaxPVs].
	NumPVs int
	// Deadline is the wall-clock time after which the search must stop; the zero value
	// means no deadline (search only stops on depth exhaustion, forced mate, or Stop()).
	Deadline time.Time
}

// Run performs iterative deepening from pos (which is mutated and restored in place) and
// returns the result of the last fully completed iteration. emit, if non-nil, is called
// once per principal-variation slot after each completed iteration -- never for a
// partially searched, cancelled iteration.
func (e *Engine) Run(pos *board.Position, opt Options, emit func(Result)) []Result {
	e.cancel.Store(false)

	maxDepth := opt.MaxDepth
	if maxDepth <= 0 || maxDepth > board.MaxDepth-1 {
		maxDepth = board.MaxDepth - 1
	}
	numPvs := opt.NumPVs
	if numPvs < 1 {
		numPvs = 1
	}
	if numPvs > MaxPVs {
		numPvs = MaxPVs
	}

	pvt := newPVTable()

	var last []Result
	eval := board.Score(0)
	alpha, beta := board.NegInf, board.Inf

	for depth := 1; depth <= maxDepth; depth++ {
		if e.cancel.Load() {
			break
		}

		r := &run{
			e:               e,
			pv:              pvt,
			numPvs:          numPvs,
			quiesceMaxDepth: minInt(2*depth, board.MaxDepth-1),
			deadline:        opt.Deadline,
		}
		pvt.resetIteration()
		e.History.Clear()

		start := time.Now()

		// Aspiration-window search: a narrow window around the previous iteration's
		// score, widening on fail-high/fail-low, falling back to the full window after
		// two failed retries.
		retries := 1
		for {
			if retries > 2 {
				alpha, beta = board.NegInf, board.Inf
			} else {
				if eval >= beta {
					beta = board.MinScoreOf(board.MaxScore, beta+AspirationDelta*board.Score(retries))
				}
				if eval <= alpha {
					alpha = board.MaxScoreOf(board.MinScore, alpha-AspirationDelta*board.Score(retries))
				}
			}
			eval = r.negamax(pos, alpha, beta, depth, 0)
			retries++
			if e.cancel.Load() || !(eval > beta || eval < alpha) {
				break
			}
		}

		if e.cancel.Load() {
			break
		}

		pvt.commit()

		elapsed := time.Since(start)
		iterResults := make([]Result, 0, numPvs)
		for slot := 0; slot < numPvs; slot++ {
			line := pvt.best[slot]
			if !line.Moves[0].IsValid() {
				continue
			}
			res := Result{
				Depth:    depth,
				SelDepth: r.selDepth,
				MultiPV:  slot + 1,
				Nodes:    r.nodes,
				Time:     elapsed,
				Line:     line,
			}
			iterResults = append(iterResults, res)
			if emit != nil {
				emit(res)
			}
		}
		if len(iterResults) > 0 {
			last = iterResults
		}

		alpha = board.Crop(eval - AspirationStart)
		beta = board.Crop(eval + AspirationStart)

		if board.IsMateScore(eval) {
			break
		}
	}

	return last
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

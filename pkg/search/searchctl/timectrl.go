// Package searchctl drives the search.Engine as a cancellable background task: deriving a
// time budget from UCI "go" parameters and running iterative deepening on a goroutine that
// the caller can Halt() at any time.
package searchctl

import (
	"fmt"
	"time"

	"github.com/nullmove/corvid/pkg/board"
	"github.com/nullmove/corvid/pkg/search"
)

// TimeControl carries the "go" command's wtime/btime/winc/binc parameters.
type TimeControl struct {
	White, Black       time.Duration
	WhiteInc, BlackInc time.Duration
}

func (t TimeControl) String() string {
	return fmt.Sprintf("%.1f(+%.1f)<>%.1f(+%.1f)", t.White.Seconds(), t.WhiteInc.Seconds(), t.Black.Seconds(), t.BlackInc.Seconds())
}

// Budget derives the search deadline for turn from the "go" command's time parameters:
// an explicit movetime wins outright, "infinite" disables the deadline, and otherwise the
// budget is time_left/50 plus increment, minus a fixed buffer to leave room for I/O.
func Budget(now time.Time, turn board.Color, moveTime time.Duration, infinite bool, tc TimeControl) (time.Time, bool) {
	if moveTime > 0 {
		return now.Add(moveTime), true
	}
	if infinite {
		return time.Time{}, false
	}

	remainder, inc := tc.White, tc.WhiteInc
	if turn == board.Black {
		remainder, inc = tc.Black, tc.BlackInc
	}
	if remainder <= 0 {
		return time.Time{}, false
	}

	budget := remainder/50 + inc - search.TimeBuffer
	if budget < 0 {
		budget = 0
	}
	return now.Add(budget), true
}

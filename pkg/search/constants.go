package search

import "time"

// Search-tuning constants. Numeric values are carried over from the reference engine's
// defines, which the specification does not otherwise pin down.
const (
	// AspirationStart is the half-width of the aspiration window on non-first iterations.
	AspirationStart = 35
	// AspirationDelta widens a failed aspiration window, scaled by retry count.
	AspirationDelta = 25
	// EndgameCutoff proxies "opponent still has non-pawn material": below this applied-ply
	// count, null-move reduction is attempted.
	EndgameCutoff = 60
	// DrawThreshold is the contempt value assigned to a detected repetition at an even ply.
	DrawThreshold = 60
	// LateMoveCutoff and LateMoveCutoff2 gate the two late-move-reduction tiers.
	LateMoveCutoff  = 2
	LateMoveCutoff2 = 4
	// TimeBuffer is subtracted from a derived time budget to leave room for I/O and GC.
	TimeBuffer = 100 * time.Millisecond
)

// reduce1 and reduce2 implement REDUCE1/REDUCE2: progressively shallower re-search depths
// used by both null-move reduction and late-move reduction.
func reduce1(maxDepth int) int { return maxDepth * 3 / 4 }
func reduce2(maxDepth int) int { return maxDepth * 2 / 3 }

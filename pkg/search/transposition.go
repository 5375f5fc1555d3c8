// Package search implements iterative-deepening negamax search over a board.Position.
package search

import (
	"context"
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/nullmove/corvid/pkg/board"
	"github.com/seekerror/logw"
)

// Bound classifies the precision of a stored search score.
type Bound uint8

const (
	// PVBound is an exact score: the node's value was fully resolved within its window.
	PVBound Bound = iota
	// CUTBound is a lower bound: the score is at least this value (a beta cutoff occurred).
	CUTBound
	// ALLBound is an upper bound: no move improved alpha.
	ALLBound
)

func (b Bound) String() string {
	switch b {
	case PVBound:
		return "PV"
	case CUTBound:
		return "CUT"
	case ALLBound:
		return "ALL"
	default:
		return "?"
	}
}

// DefaultTableBits is the default log2 entry count (2^22 entries) for a TranspositionTable.
const DefaultTableBits = 22

// entry is a packed transposition-table slot. The hash is stored in full and compared on
// probe to guard against index collisions; everything else is ordering/value metadata.
type entry struct {
	hash  board.ZobristHash
	score board.Score
	from  board.Square
	to    board.Square
	promo board.Piece
	depth int16
	bound Bound
}

// TranspositionTable is a fixed-size, always-replace hash table keyed by Zobrist hash.
// Capacity is a power of two; the index is the low bits of the hash, and a collision at
// an index is simply overwritten -- there is no bucketing or aging.
type TranspositionTable struct {
	entries []unsafe.Pointer // *entry
	mask    uint64
}

// NewTranspositionTable allocates a table with 2^bits entries.
func NewTranspositionTable(ctx context.Context, bits int) *TranspositionTable {
	n := uint64(1) << uint(bits)
	logw.Infof(ctx, "Allocating transposition table with %v entries", n)
	return &TranspositionTable{
		entries: make([]unsafe.Pointer, n),
		mask:    n - 1,
	}
}

// Clear empties every slot. Engine.NewGame ("ucinewgame") does not call it; it allocates
// a fresh table instead.
func (t *TranspositionTable) Clear() {
	for i := range t.entries {
		atomic.StorePointer(&t.entries[i], nil)
	}
}

// Probe returns the stored entry for hash, if the slot's full hash matches.
func (t *TranspositionTable) Probe(hash board.ZobristHash) (bound Bound, depth int, score board.Score, move board.Move, ok bool) {
	idx := uint64(hash) & t.mask
	e := (*entry)(atomic.LoadPointer(&t.entries[idx]))
	if e == nil || e.hash != hash {
		return 0, 0, 0, board.Move{}, false
	}
	move = board.Move{From: e.from, To: e.to, Promotion: e.promo, IsPromotion: e.promo != board.NoPiece}
	return e.bound, int(e.depth), e.score, move, true
}

// Store writes an entry unconditionally. Collisions always replace.
func (t *TranspositionTable) Store(hash board.ZobristHash, bound Bound, depth int, score board.Score, move board.Move) {
	idx := uint64(hash) & t.mask
	e := &entry{
		hash:  hash,
		score: score,
		from:  move.From,
		to:    move.To,
		promo: move.Promotion,
		depth: int16(depth),
		bound: bound,
	}
	atomic.StorePointer(&t.entries[idx], unsafe.Pointer(e))
}

// Usable reports whether a probed entry resolves the window (alpha, beta) at the
// requested remaining depth: the stored remaining-depth must be at least as deep as what
// the caller needs, and the bound must actually prove the score one way or the other.
func Usable(bound Bound, storedDepth, neededDepth int, score, alpha, beta board.Score) bool {
	if storedDepth < neededDepth {
		return false
	}
	switch bound {
	case PVBound:
		return true
	case ALLBound:
		return score < alpha
	case CUTBound:
		return score >= beta
	default:
		return false
	}
}

func (t *TranspositionTable) String() string {
	return fmt.Sprintf("TT[%v entries]", len(t.entries))
}

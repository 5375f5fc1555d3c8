// Package engine ties together a Position, a search.Engine and its transposition table
// into the single stateful object a protocol driver (uci.Driver) talks to.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/nullmove/corvid/pkg/board"
	"github.com/nullmove/corvid/pkg/board/fen"
	"github.com/nullmove/corvid/pkg/search"
	"github.com/nullmove/corvid/pkg/search/searchctl"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
)

var version = build.NewVersion(0, 1, 0)

// Options are engine creation options.
type Options struct {
	// Hash is the transposition table size in MB.
	Hash uint
	// NumPVs is the default MultiPV setting; overridden per-search by setoption.
	NumPVs int
}

func (o Options) String() string {
	return fmt.Sprintf("{hash=%vMB, multipv=%v}", o.Hash, o.NumPVs)
}

const bytesPerTTEntry = 24 // size of one search.entry struct; the 8-byte pointer slot per entry is not counted.

func ttBitsForHashMB(mb uint) int {
	if mb == 0 {
		return search.DefaultTableBits
	}
	entries := uint64(mb) << 20 / bytesPerTTEntry
	bits := 1
	for uint64(1)<<uint(bits) < entries && bits < 26 {
		bits++
	}
	return bits
}

// Engine is the stateful glue between the UCI driver and the search: it owns the current
// Position, the transposition table and history heuristic, and whatever search is active.
type Engine struct {
	name, author string
	opts         Options

	mu      sync.Mutex
	pos     *board.Position
	history *board.HistoryTable
	tt      *search.TranspositionTable
	se      *search.Engine
	active  searchctl.Handle
}

func New(ctx context.Context, name, author string, opts Options) *Engine {
	if opts.NumPVs < 1 {
		opts.NumPVs = 1
	}
	e := &Engine{name: name, author: author, opts: opts}
	e.NewGame(ctx)

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts
}

// SetNumPVs clamps n to [1,5] and stores it as the default MultiPV count.
func (e *Engine) SetNumPVs(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if n < 1 {
		n = 1
	}
	if n > search.MaxPVs {
		n = search.MaxPVs
	}
	e.opts.NumPVs = n
}

// NewGame resets the board to the start position, clears the transposition table and
// history heuristic. Corresponds to "ucinewgame".
func (e *Engine) NewGame(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltSearchIfActiveLocked(ctx)

	e.pos = board.NewStartPosition()
	e.history = board.NewHistoryTable()
	e.tt = search.NewTranspositionTable(ctx, ttBitsForHashMB(e.opts.Hash))
	e.se = search.NewEngine(e.tt, e.history)
}

// SetPosition replaces the current position from a FEN string (or fen.Initial for
// "startpos") and replays the given moves in coordinate notation.
func (e *Engine) SetPosition(ctx context.Context, position string, moves []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltSearchIfActiveLocked(ctx)

	pos, _, _, _, err := fen.Decode(position)
	if err != nil {
		return fmt.Errorf("invalid position: %w", err)
	}
	e.pos = pos

	for _, text := range moves {
		if err := e.applyMoveLocked(text); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) applyMoveLocked(text string) error {
	candidate, err := board.ParseMove(text)
	if err != nil {
		return fmt.Errorf("invalid move %q: %w", text, err)
	}

	var buf [board.MaxMoves]board.Move
	for _, m := range e.pos.Generate(buf[:0], false) {
		if m.From != candidate.From || m.To != candidate.To || m.Promotion != candidate.Promotion {
			continue
		}

		saved := e.pos.Copy()
		e.pos.Apply(m)
		if e.pos.InCheck(e.pos.Turn().Opponent()) {
			*e.pos = saved
			return fmt.Errorf("illegal move %q leaves king in check", text)
		}
		e.pos.PushRepetition(e.pos.Hash())
		return nil
	}
	return fmt.Errorf("illegal move %q in current position", text)
}

// Position returns the current position in FEN format.
func (e *Engine) Position(ctx context.Context) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return fen.Encode(e.pos, e.pos.Turn(), 0, e.pos.Ply()/2+1)
}

// Result reports whether the current position is checkmate, stalemate, or still
// undecided. It does not track repetition or the fifty-move rule across the game; a
// UCI GUI is responsible for those and never queries an engine for them directly.
func (e *Engine) Result(ctx context.Context) board.Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot := e.pos.Copy()
	return board.Adjudicate(&snapshot)
}

// Analyze launches a search on a private copy of the current position; the caller must
// Halt it (directly or via a subsequent NewGame/SetPosition/Analyze call) before the
// position may be read or mutated again.
func (e *Engine) Analyze(ctx context.Context, opt searchctl.Options) (<-chan []search.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active != nil {
		return nil, fmt.Errorf("search already active")
	}

	if opt.NumPVs < 1 {
		opt.NumPVs = e.opts.NumPVs
	}

	logw.Infof(ctx, "Analyze %v, opt=%v", e.pos, opt)

	snapshot := e.pos.Copy()
	handle, out := searchctl.Launch(ctx, e.se, &snapshot, opt)
	e.active = handle
	return out, nil
}

// Halt halts the active search and returns its results, if any.
func (e *Engine) Halt(ctx context.Context) []search.Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.haltSearchIfActiveLocked(ctx)
}

func (e *Engine) haltSearchIfActiveLocked(ctx context.Context) []search.Result {
	if e.active == nil {
		return nil
	}
	results := e.active.Halt()
	logw.Infof(ctx, "Search halted: %v results", len(results))
	e.active = nil
	return results
}

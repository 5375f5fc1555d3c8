// Package uci contains a driver for using the engine under the UCI protocol.
//
// See: http://wbec-ridderkerk.nl/html/UCIProtocol.html
// See: https://en.wikipedia.org/wiki/Universal_Chess_Interface
package uci

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nullmove/corvid/pkg/board"
	"github.com/nullmove/corvid/pkg/board/fen"
	"github.com/nullmove/corvid/pkg/engine"
	"github.com/nullmove/corvid/pkg/search"
	"github.com/nullmove/corvid/pkg/search/searchctl"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"go.uber.org/atomic"
)

const ProtocolName = "uci"

// Driver implements a UCI driver for an engine. It is activated if sent "uci".
type Driver struct {
	e *engine.Engine

	out chan<- string

	debug atomic.Bool

	active  atomic.Bool // a "go" is outstanding and a bestmove is owed
	results <-chan []search.Result

	quit   chan struct{}
	closed atomic.Bool
}

func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		e:    e,
		out:  out,
		quit: make(chan struct{}),
	}
	go d.process(ctx, in)
	return d, out
}

func (d *Driver) Close() {
	if d.closed.CAS(false, true) {
		close(d.quit)
	}
}

func (d *Driver) Closed() <-chan struct{} {
	return d.quit
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	// * uci
	//
	//	Tell the engine to use the UCI protocol. This is sent once as the first command
	//	after program boot. The engine must reply with "id name …", "id author …", its
	//	"option" announcements, and finally "uciok".

	logw.Infof(ctx, "UCI protocol initialized")

	d.out <- fmt.Sprintf("id name %v", d.e.Name())
	d.out <- fmt.Sprintf("id author %v", d.e.Author())
	d.out <- fmt.Sprintf("option name MultiPV type spin default %v min 1 max %v", d.e.Options().NumPVs, search.MaxPVs)
	d.out <- "uciok"

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}
			if d.debug.Load() {
				d.out <- fmt.Sprintf("info string received: %v", line)
			}
			if !d.dispatch(ctx, line) {
				return
			}

		case results, ok := <-d.results:
			if !ok {
				// The search exhausted its depth limit or deadline on its own, without an
				// explicit "stop": still owed a bestmove.
				d.results = nil
				if d.active.CAS(true, false) {
					d.out <- printBestMove(d.e.Halt(ctx))
				}
				break
			}
			if d.active.Load() {
				for _, r := range results {
					d.out <- printResult(r)
				}
			}

		case <-d.quit:
			d.e.Halt(ctx)
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

// dispatch handles one input line. It returns false if the driver should exit.
func (d *Driver) dispatch(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "isready":
		// Must answer "readyok" synchronously, even mid-search.
		d.out <- "readyok"

	case "debug":
		// * debug [ on | off ]
		if len(args) > 0 && args[0] == "on" {
			d.debug.Store(true)
		} else {
			d.debug.Store(false)
		}

	case "setoption":
		d.handleSetOption(args)

	case "ucinewgame":
		d.ensureInactive(ctx)
		d.e.NewGame(ctx)

	case "position":
		d.handlePosition(ctx, line, args)

	case "go":
		d.handleGo(ctx, line, args)

	case "stop":
		// Signal cancellation; the in-flight search must still emit a bestmove promptly.
		d.finishActiveSearch(ctx)

	case "perft":
		d.handlePerft(ctx, args)

	case "ponderhit", "register":
		// Accepted but not meaningfully implemented.

	case "quit":
		return false

	default:
		logw.Warningf(ctx, "Unknown command %q: %v", cmd, args)
	}
	return true
}

func (d *Driver) handleSetOption(args []string) {
	// "setoption name <id> [value <x>]"
	var name, value string
	if len(args) > 1 {
		name = args[1]
	}
	if len(args) > 3 {
		value = strings.Join(args[3:], " ")
	}

	switch name {
	case "MultiPV":
		if n, err := strconv.Atoi(value); err == nil {
			d.e.SetNumPVs(n)
		}
	}
}

func (d *Driver) handlePosition(ctx context.Context, line string, args []string) {
	d.ensureInactive(ctx)

	// The GUI always resends the full move list from the game start, so the position and
	// its repetition history are rebuilt from scratch on every call rather than patched
	// incrementally.

	position := fen.Initial
	rest := args
	if len(args) > 0 && args[0] == "fen" {
		if len(args) < 7 {
			logw.Errorf(ctx, "Malformed fen in position command: %v", line)
			return
		}
		position = strings.Join(args[1:7], " ")
		rest = args[7:]
	} else if len(args) > 0 && args[0] == "startpos" {
		rest = args[1:]
	}

	var moves []string
	if len(rest) > 0 && rest[0] == "moves" {
		moves = rest[1:]
	}

	if err := d.e.SetPosition(ctx, position, moves); err != nil {
		logw.Errorf(ctx, "Invalid position %q: %v", line, err)
		return
	}

	if result := d.e.Result(ctx); result != board.Undecided {
		logw.Infof(ctx, "Position is terminal: %v", result)
	}
}

func (d *Driver) handleGo(ctx context.Context, line string, args []string) {
	d.ensureInactive(ctx)

	var opt searchctl.Options
	var tc searchctl.TimeControl
	var moveTime time.Duration
	infinite := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth", "movetime", "wtime", "btime", "winc", "binc", "movestogo", "nodes", "mate":
			cmd := args[i]
			i++
			if i == len(args) {
				logw.Errorf(ctx, "No argument for %v: %v", cmd, line)
				return
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				logw.Errorf(ctx, "Invalid argument for %v: %v", line, err)
				return
			}
			switch cmd {
			case "depth":
				opt.DepthLimit = lang.Some(n)
			case "movetime":
				moveTime = time.Duration(n) * time.Millisecond
			case "wtime":
				tc.White = time.Duration(n) * time.Millisecond
			case "btime":
				tc.Black = time.Duration(n) * time.Millisecond
			case "winc":
				tc.WhiteInc = time.Duration(n) * time.Millisecond
			case "binc":
				tc.BlackInc = time.Duration(n) * time.Millisecond
			}
			// movestogo, nodes, mate: accepted, not used by the time model.

		case "infinite":
			infinite = true

		default:
			// searchmoves, ponder, and anything else: silently ignored.
		}
	}

	turn := board.White
	if _, activeColor, _, _, err := fen.Decode(d.e.Position(ctx)); err == nil {
		turn = activeColor
	}

	if deadline, ok := searchctl.Budget(nowFunc(), turn, moveTime, infinite, tc); ok {
		opt.Deadline = lang.Some(deadline)
	}

	out, err := d.e.Analyze(ctx, opt)
	if err != nil {
		logw.Errorf(ctx, "Analyze failed: %v", err)
		return
	}
	d.results = out
	d.active.Store(true)
}

func (d *Driver) handlePerft(ctx context.Context, args []string) {
	depth := 4
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			depth = n
		}
	}

	pos, _, _, _, err := fen.Decode(d.e.Position(ctx))
	if err != nil {
		logw.Errorf(ctx, "Perft: invalid current position: %v", err)
		return
	}

	start := time.Now()
	result := search.Perft(pos, depth)
	elapsed := time.Since(start)

	d.out <- fmt.Sprintf("info string perft depth %v nodes %v captures %v enpassants %v castles %v promotions %v checks %v mates %v time %v",
		depth, result.Nodes, result.Captures, result.EnPassants, result.Castles, result.Promotions, result.Checks, result.Mates, elapsed.Milliseconds())
}

// ensureInactive halts any in-flight search without emitting a final bestmove; used before
// starting a new search or tearing down the position.
func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	d.e.Halt(ctx)
}

// finishActiveSearch halts the in-flight search and, if one was owed, emits its bestmove.
func (d *Driver) finishActiveSearch(ctx context.Context) {
	results := d.e.Halt(ctx)
	if d.active.CAS(true, false) {
		d.out <- printBestMove(results)
	}
}

func printResult(r search.Result) string {
	// "info score cp <n>|mate <n> depth <d> seldepth <sd> nodes <N> time <ms> nps <rate> multipv <k> pv m1 m2 …"
	parts := []string{"info"}

	if board.IsMateScore(r.Line.Eval) {
		parts = append(parts, "score", "mate", strconv.Itoa(mateDistance(r.Line.Eval)))
	} else {
		parts = append(parts, "score", "cp", strconv.Itoa(int(r.Line.Eval)))
	}
	parts = append(parts, "depth", strconv.Itoa(r.Depth), "seldepth", strconv.Itoa(r.SelDepth))

	ms := r.Time.Milliseconds()
	parts = append(parts, "nodes", strconv.FormatUint(r.Nodes, 10), "time", strconv.FormatInt(ms, 10))
	if r.Time > 0 {
		parts = append(parts, "nps", strconv.FormatUint(uint64(float64(r.Nodes)/r.Time.Seconds()), 10))
	}
	parts = append(parts, "multipv", strconv.Itoa(r.MultiPV))

	moves := r.Moves()
	if len(moves) > 0 {
		parts = append(parts, "pv", board.FormatMoves(moves))
	}
	return strings.Join(parts, " ")
}

// mateDistance converts a mate score (ScoreKingValue minus one more than the ply count to
// the mated position) into the UCI "mate n" convention: full moves, signed by who
// delivers the mate.
func mateDistance(score board.Score) int {
	plies := int(board.ScoreKingValue - abs(score))
	moves := plies / 2
	if score < 0 {
		return -moves
	}
	return moves
}

func abs(s board.Score) board.Score {
	if s < 0 {
		return -s
	}
	return s
}

func printBestMove(results []search.Result) string {
	// "bestmove <move>"
	//
	// Always owed after a "go", even on stalemate/checkmate where no PV exists.
	if len(results) == 0 {
		return "bestmove 0000"
	}
	moves := results[0].Moves()
	if len(moves) == 0 {
		return "bestmove 0000"
	}
	return fmt.Sprintf("bestmove %v", moves[0])
}

var nowFunc = time.Now

package searchctl

import (
	"context"
	"sync"
	"time"

	"github.com/nullmove/corvid/pkg/board"
	"github.com/nullmove/corvid/pkg/search"
	"github.com/seekerror/logw"
	"go.uber.org/atomic"
)

// Handle lets the caller manage one in-flight search: wait for it to finish, or halt it
// early and collect whatever the last fully completed iteration produced.
type Handle interface {
	// Halt stops the search, if running, and returns the best results found so far.
	// Idempotent.
	Halt() []search.Result
}

// Launch starts iterative deepening on pos in a background goroutine. pos is exclusively
// owned by the search until the goroutine exits; the caller must not touch it until then.
// The returned channel receives the completed iteration's MultiPV results gathered so far,
// once after each principal-variation slot is reported (a newer slate replaces an unread
// older one, so the last slate of an iteration is the full one), and is closed when the search exhausts its depth limit, finds a forced mate, or is halted.
func Launch(ctx context.Context, e *search.Engine, pos *board.Position, opt Options) (Handle, <-chan []search.Result) {
	out := make(chan []search.Result, 1)
	h := &handle{
		e:    e,
		init: make(chan struct{}),
	}
	go h.run(ctx, pos, opt, out)
	return h, out
}

type handle struct {
	e    *search.Engine
	init chan struct{}

	initOnce atomic.Bool
	done     atomic.Bool

	mu      sync.Mutex
	results []search.Result
}

func (h *handle) run(ctx context.Context, pos *board.Position, opt Options, out chan []search.Result) {
	defer h.markInitialized()
	defer close(out)

	searchOpt := search.Options{NumPVs: opt.NumPVs}
	if depth, ok := opt.DepthLimit.V(); ok {
		searchOpt.MaxDepth = depth
	}
	if deadline, ok := opt.Deadline.V(); ok {
		searchOpt.Deadline = deadline
		timer := time.AfterFunc(time.Until(deadline), func() { h.Halt() })
		defer timer.Stop()
	}

	var perIteration []search.Result
	lastDepth := 0

	final := h.e.Run(pos, searchOpt, func(r search.Result) {
		if r.Depth != lastDepth {
			perIteration = nil
			lastDepth = r.Depth
		}
		perIteration = append(perIteration, r)

		snapshot := append([]search.Result(nil), perIteration...)

		h.mu.Lock()
		h.results = snapshot
		h.mu.Unlock()

		h.markInitialized()

		select {
		case <-out:
		default:
		}
		out <- snapshot

		logw.Debugf(ctx, "searched depth=%v multipv=%v: %v", r.Depth, r.MultiPV, r.Line)
	})

	h.mu.Lock()
	if len(final) > 0 {
		h.results = final
	}
	h.mu.Unlock()
}

func (h *handle) Halt() []search.Result {
	<-h.init
	if h.done.CAS(false, true) {
		h.e.Stop()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.results
}

func (h *handle) markInitialized() {
	if h.initOnce.CAS(false, true) {
		close(h.init)
	}
}

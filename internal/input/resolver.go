package input

import (
	"sync"
	"time"

	"github.com/dshills/termflow/internal/event"
)

// DefaultEscapeTimeout is how long the resolver waits after a bare ESC (or
// any unfinished sequence prefix) before resolving it. Terminals emit the
// bytes of a real sequence back-to-back, so tens of milliseconds is enough
// to rule one out without a human noticing latency on the Escape key.
const DefaultEscapeTimeout = 50 * time.Millisecond

// Resolver wraps a Parser with the one timing decision in the decoder:
// whether a buffered prefix is a finished keystroke (a lone Escape, an
// Alt-prefixed key) or the start of a sequence whose remainder is still in
// flight. Feed passes bytes through; if the parser is left mid-sequence, a
// timer is armed that expires the prefix and hands the resulting events to
// the sink. A byte arriving first disarms it, so real sequences pay nothing.
//
// Resolver serializes Feed against the timer; the sink may be called from
// the timer's goroutine.
type Resolver struct {
	mu      sync.Mutex
	parser  *Parser
	timeout time.Duration
	sink    func([]event.Event)

	timer *time.Timer
	gen   uint64 // invalidates stale timer fires
}

// NewResolver creates a resolver delivering expired events to sink.
// A zero timeout means DefaultEscapeTimeout.
func NewResolver(p *Parser, timeout time.Duration, sink func([]event.Event)) *Resolver {
	if timeout <= 0 {
		timeout = DefaultEscapeTimeout
	}
	return &Resolver{parser: p, timeout: timeout, sink: sink}
}

// Feed decodes newly arrived bytes and returns the completed events,
// arming or disarming the ambiguity timer as needed.
func (r *Resolver) Feed(data []byte) []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.disarm()
	evs := r.parser.Feed(data)
	if r.parser.Pending() {
		r.arm()
	}

	// Copy out: the parser reuses its result slice.
	out := make([]event.Event, len(evs))
	copy(out, evs)
	return out
}

// ExpectReport marks a device status request as outstanding, so the
// matching response bytes decode as a report event instead of keystrokes.
// It is safe to call concurrently with Feed.
func (r *Resolver) ExpectReport() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parser.ExpectReport()
}

// Drain expires any buffered prefix immediately and returns the salvaged
// events. Used when the input stream has ended and no more bytes can
// arrive to complete a sequence.
func (r *Resolver) Drain() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disarm()
	evs := r.parser.Expire()
	out := make([]event.Event, len(evs))
	copy(out, evs)
	return out
}

// Stop cancels any armed timer. It does not reset the parser.
func (r *Resolver) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disarm()
}

// arm schedules expiry for the current generation. Caller holds mu.
func (r *Resolver) arm() {
	gen := r.gen
	r.timer = time.AfterFunc(r.timeout, func() {
		r.expire(gen)
	})
}

// disarm cancels the pending timer, if any. Caller holds mu.
func (r *Resolver) disarm() {
	r.gen++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// expire resolves the buffered prefix. The generation check makes a timer
// that lost the race with Feed a no-op, so each armed wait fires at most
// once and never after new bytes arrived.
func (r *Resolver) expire(gen uint64) {
	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return
	}
	r.timer = nil
	evs := r.parser.Expire()
	out := make([]event.Event, len(evs))
	copy(out, evs)
	r.mu.Unlock()

	if len(out) > 0 && r.sink != nil {
		r.sink(out)
	}
}

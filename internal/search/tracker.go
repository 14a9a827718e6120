package search

import (
	"context"
	"sync"
	"sync/atomic"
)

// Tracker orders the submissions of one search screen so a slow, stale response never replaces a newer one.
type Tracker struct {
	ctx    context.Context
	leave  context.CancelFunc
	latest atomic.Uint64

	mu     sync.Mutex
	cancel context.CancelFunc // cancels the latest ticket's request
}

// Ticket identifies one submission.
type Ticket struct {
	seq     uint64
	ctx     context.Context
	tracker *Tracker
}

// NewTracker returns a tracker whose tickets derive from parent.
func NewTracker(parent context.Context) *Tracker {
	ctx, cancel := context.WithCancel(parent)
	return &Tracker{ctx: ctx, leave: cancel}
}

// Begin issues the next ticket and cancels the request of the previous one.
func (t *Tracker) Begin() *Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	ctx, cancel := context.WithCancel(t.ctx)
	t.cancel = cancel
	return &Ticket{seq: t.latest.Add(1), ctx: ctx, tracker: t}
}

// Leave abandons the screen: every in-flight ticket is cancelled and none may apply afterwards.
func (t *Tracker) Leave() {
	t.leave()
}

// Latest returns the sequence number of the most recent ticket.
func (t *Tracker) Latest() uint64 {
	return t.latest.Load()
}

// Context carries the ticket's cancellation to the request.
func (tk *Ticket) Context() context.Context { return tk.ctx }

// Seq returns the ticket's sequence number.
func (tk *Ticket) Seq() uint64 { return tk.seq }

// Current reports whether the ticket is still the latest and the screen has not been left.
func (tk *Ticket) Current() bool {
	return tk.tracker.ctx.Err() == nil && tk.tracker.latest.Load() == tk.seq
}

// Apply runs fn only if the ticket is current, and reports whether it ran.
//
// Holding the tracker lock keeps a concurrent Begin from slipping between the check and fn.
func (tk *Ticket) Apply(fn func()) bool {
	tk.tracker.mu.Lock()
	defer tk.tracker.mu.Unlock()

	if !tk.Current() {
		return false
	}
	fn()
	return true
}

// Package delayguard postpones an action until calls to it have been quiet
// for a fixed period. Only the most recent call runs.
package delayguard

import (
	"sync"
	"time"
)

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the call
	// stopped the timer before it fired.
	Stop() bool
}

// Scheduler runs f once after d has elapsed.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(d time.Duration, f func()) Timer

// AfterFunc calls fn(d, f).
func (fn SchedulerFunc) AfterFunc(d time.Duration, f func()) Timer {
	return fn(d, f)
}

// Realtime schedules on the wall clock.
var Realtime Scheduler = SchedulerFunc(func(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
})

// Option configures a Guard.
type Option func(*options)

type options struct {
	scheduler Scheduler
}

// WithScheduler replaces the wall clock scheduler.
func WithScheduler(s Scheduler) Option {
	return func(o *options) {
		if s != nil {
			o.scheduler = s
		}
	}
}

// handle identifies one scheduled invocation.
type handle struct {
	timer Timer
}

// Guard wraps an action so that it runs only after delay has passed without
// another call. A Guard is safe for concurrent use.
type Guard[T any] struct {
	mu        sync.Mutex
	delay     time.Duration
	action    func(T)
	scheduler Scheduler
	pending   *handle
}

// New returns a Guard around action.
func New[T any](delay time.Duration, action func(T), opts ...Option) *Guard[T] {
	o := options{scheduler: Realtime}
	for _, opt := range opts {
		opt(&o)
	}
	return &Guard[T]{
		delay:     delay,
		action:    action,
		scheduler: o.scheduler,
	}
}

// Wrap returns a function with the same signature as action that delays it
// through a new Guard.
func Wrap[T any](delay time.Duration, action func(T), opts ...Option) func(T) {
	return New(delay, action, opts...).Call
}

// Call supersedes any pending invocation and schedules action(arg) to run
// once the delay has elapsed.
func (g *Guard[T]) Call(arg T) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.stopLocked()

	h := &handle{}
	g.pending = h
	h.timer = g.scheduler.AfterFunc(g.delay, func() {
		g.fire(h, arg)
	})
}

// Cancel drops the pending invocation, if any.
func (g *Guard[T]) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopLocked()
}

// Pending reports whether an invocation is scheduled.
func (g *Guard[T]) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending != nil
}

// stopLocked must be called with mu held.
func (g *Guard[T]) stopLocked() {
	if g.pending == nil {
		return
	}
	if g.pending.timer != nil {
		g.pending.timer.Stop()
	}
	g.pending = nil
}

// fire runs the action unless h was superseded after its timer went off.
func (g *Guard[T]) fire(h *handle, arg T) {
	g.mu.Lock()
	if g.pending != h {
		g.mu.Unlock()
		return
	}
	g.pending = nil
	g.mu.Unlock()

	g.action(arg)
}

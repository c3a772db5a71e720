// Package clock implements the L0 cooperative scheduler and virtual clock
//. Tasks run as goroutines that behave like fibers: the
// Scheduler hands exactly one task the "baton" at a time via a rendezvous
// channel pair, so no two tasks ever execute concurrently and virtual
// time only advances when every runnable task has parked on a
// suspension point (Timeout, mailbox Get/Put, resource Acquire).
package clock

import (
	"container/heap"
	"fmt"
)

// Proc is a cooperative task handle — the fiber identity a task uses to
// park itself and be woken again by the scheduler.
type Proc struct {
	resume  chan struct{}
	yielded chan struct{}
	name    string
}

type event struct {
	at  float64
	seq uint64
	fn  func()
}

type eventHeap []*event

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}
func (h eventHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x interface{}) { *h = append(*h, x.(*event)) }
func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Scheduler is the single-threaded discrete-event loop over virtual time.
type Scheduler struct {
	now   float64
	seq   uint64
	heap  eventHeap
	err   error
	errAt *string
}

// New creates a scheduler starting at virtual time 0.
func New() *Scheduler {
	s := &Scheduler{}
	heap.Init(&s.heap)
	return s
}

// Now returns the current virtual time.
func (s *Scheduler) Now() float64 { return s.now }

// Schedule queues a plain callback (not bound to a Proc) to run at the
// given virtual time. Used for events that don't need a fiber of their
// own — e.g. the event injector's edge-spike and server up/down
// transitions, which mutate shared maps directly.
func (s *Scheduler) Schedule(at float64, fn func()) {
	s.seq++
	heap.Push(&s.heap, &event{at: at, seq: s.seq, fn: fn})
}

// Spawn creates a new fiber running fn. The fiber does not start
// executing until the caller schedules its first wake (see SpawnAt).
func (s *Scheduler) Spawn(name string, fn func(p *Proc)) *Proc {
	p := &Proc{resume: make(chan struct{}), yielded: make(chan struct{}), name: name}
	go func() {
		<-p.resume
		fn(p)
		close(p.yielded)
	}()
	return p
}

// SpawnAt spawns fn as a fiber and schedules its first turn at t. This
// is the non-blocking "fire-and-forget" primitive EdgeRuntime.Transport
// and the server dispatch loop build on.
func (s *Scheduler) SpawnAt(t float64, name string, fn func(p *Proc)) *Proc {
	p := s.Spawn(name, fn)
	s.Schedule(t, func() { s.wake(p) })
	return p
}

// wake hands the baton to p and blocks until p parks again or finishes.
func (s *Scheduler) wake(p *Proc) {
	p.resume <- struct{}{}
	<-p.yielded
}

// Park suspends the calling fiber. Callers must have already arranged
// for something to call Resume(p) (directly or via Schedule) before
// calling Park, or the fiber parks forever.
func Park(p *Proc) {
	p.yielded <- struct{}{}
	<-p.resume
}

// Resume schedules p to run its next turn at time t. Used by resource
// primitives (CPU bucket, RAM reservoir, mailbox) to wake a waiter.
func (s *Scheduler) Resume(at float64, p *Proc) {
	s.Schedule(at, func() { s.wake(p) })
}

// Timeout parks the calling fiber for d virtual seconds.
func (s *Scheduler) Timeout(p *Proc, d float64) {
	s.Resume(s.now+d, p)
	Park(p)
}

// Fail aborts the run with a diagnostic carrying task identity, an
// optional request id, and the current virtual time.
func (s *Scheduler) Fail(task string, requestID *uint64, cause error) {
	msg := fmt.Sprintf("task %q failed at t=%g", task, s.now)
	if requestID != nil {
		msg = fmt.Sprintf("%s (request %d)", msg, *requestID)
	}
	s.err = fmt.Errorf("%s: %w", msg, cause)
}

// Err returns the abort diagnostic, if any task failed during the run.
func (s *Scheduler) Err() error { return s.err }

// RunUntil pops events in (time, seq) order, dispatching each, until the
// queue drains or the next event would occur after tEnd. Equal-time
// events execute in scheduling order (FIFO).
func (s *Scheduler) RunUntil(tEnd float64) error {
	for s.heap.Len() > 0 {
		if s.err != nil {
			return s.err
		}
		next := s.heap[0]
		if next.at > tEnd {
			break
		}
		ev := heap.Pop(&s.heap).(*event)
		s.now = ev.at
		ev.fn()
	}
	return s.err
}

// Package actor implements the bounded/unbounded FIFO mailbox, the only
// channel through which actors exchange state.
package actor

import "github.com/asyncflow-sim/asyncflow/pkg/clock"

type getWaiter[T any] struct {
	proc   *clock.Proc
	result T
}

type putWaiter[T any] struct {
	proc *clock.Proc
	msg  T
}

// Mailbox is a FIFO message queue between exactly one consuming actor
// and any number of producers. Capacity 0 means unbounded: Put never
// blocks. A positive capacity blocks Put once the queue is full.
type Mailbox[T any] struct {
	sched      *clock.Scheduler
	cap        int
	q          []T
	getWaiters []*getWaiter[T]
	putWaiters []*putWaiter[T]
}

// New creates a Mailbox with the given capacity (0 = unbounded).
func New[T any](sched *clock.Scheduler, capacity int) *Mailbox[T] {
	return &Mailbox[T]{sched: sched, cap: capacity}
}

// Get blocks the calling fiber until a message is available, then
// returns it. Time only advances via the scheduler.
func (m *Mailbox[T]) Get(p *clock.Proc) T {
	if len(m.q) > 0 {
		msg := m.q[0]
		m.q = m.q[1:]
		m.wakeNextPutter()
		return msg
	}
	w := &getWaiter[T]{proc: p}
	m.getWaiters = append(m.getWaiters, w)
	clock.Park(p)
	return w.result
}

// Put enqueues msg, blocking the calling fiber if the mailbox is bounded
// and full. If a getter is already waiting, the message is handed off
// directly without touching the backing queue. p may be nil when called
// from a plain (non-fiber) callback on an unbounded mailbox, since the
// call can never reach the blocking path in that case.
func (m *Mailbox[T]) Put(p *clock.Proc, msg T) {
	if len(m.getWaiters) > 0 {
		w := m.getWaiters[0]
		m.getWaiters = m.getWaiters[1:]
		w.result = msg
		m.sched.Resume(m.sched.Now(), w.proc)
		return
	}
	if m.cap > 0 && len(m.q) >= m.cap {
		pw := &putWaiter[T]{proc: p, msg: msg}
		m.putWaiters = append(m.putWaiters, pw)
		clock.Park(p)
		return
	}
	m.q = append(m.q, msg)
}

func (m *Mailbox[T]) wakeNextPutter() {
	if m.cap <= 0 || len(m.putWaiters) == 0 || len(m.q) >= m.cap {
		return
	}
	pw := m.putWaiters[0]
	m.putWaiters = m.putWaiters[1:]
	m.q = append(m.q, pw.msg)
	m.sched.Resume(m.sched.Now(), pw.proc)
}

// Len reports the number of messages currently queued (not counting
// waiters parked on a full mailbox).
func (m *Mailbox[T]) Len() int { return len(m.q) }

// Package resource implements the L1 counting-semaphore CPU token
// bucket and divisible RAM reservoir, both with strict FIFO release
// ordering, built on the scheduler's fiber park/resume primitives.
package resource

import "github.com/asyncflow-sim/asyncflow/pkg/clock"

type cpuWaiter struct {
	proc *clock.Proc
	n    int
}

// CPUBucket is a counting semaphore initialized to cpu_cores. Only
// Acquire(1)/Release(1) are used in practice, but the
// bucket supports arbitrary n.
type CPUBucket struct {
	sched    *clock.Scheduler
	capacity int
	tokens   int
	waiters  []*cpuWaiter
}

// NewCPUBucket creates a bucket with the given number of cores.
func NewCPUBucket(sched *clock.Scheduler, cores int) *CPUBucket {
	return &CPUBucket{sched: sched, capacity: cores, tokens: cores}
}

// Acquire blocks the calling fiber until n tokens are available, then
// consumes them. Grants happen immediately (no suspension) only when no
// earlier waiter is already queued, preserving FIFO fairness.
func (b *CPUBucket) Acquire(p *clock.Proc, n int) {
	if len(b.waiters) == 0 && b.tokens >= n {
		b.tokens -= n
		return
	}
	w := &cpuWaiter{proc: p, n: n}
	b.waiters = append(b.waiters, w)
	clock.Park(p)
}

// Release returns n tokens to the bucket and wakes FIFO waiters whose
// request can now be satisfied.
func (b *CPUBucket) Release(n int) {
	b.tokens += n
	for len(b.waiters) > 0 {
		head := b.waiters[0]
		if head.n > b.tokens {
			break
		}
		b.waiters = b.waiters[1:]
		b.tokens -= head.n
		b.sched.Resume(b.sched.Now(), head.proc)
	}
}

// Available reports the current free token count.
func (b *CPUBucket) Available() int { return b.tokens }

// Capacity reports cpu_cores.
func (b *CPUBucket) Capacity() int { return b.capacity }

package resource

import "github.com/asyncflow-sim/asyncflow/pkg/clock"

type ramWaiter struct {
	proc   *clock.Proc
	amount int
}

// RAMReservoir is a divisible resource with an integer level capped at
// capacity. Release only ever wakes from the head of the queue — a later waiter
// whose smaller request could be satisfied still waits behind a head
// waiter that can't yet be satisfied, which is intentional head-of-line
// FIFO, not a bug.
type RAMReservoir struct {
	sched    *clock.Scheduler
	capacity int
	level    int
	waiters  []*ramWaiter
}

// NewRAMReservoir creates a reservoir with the given capacity (ram_mb),
// starting fully available.
func NewRAMReservoir(sched *clock.Scheduler, ramMb int) *RAMReservoir {
	return &RAMReservoir{sched: sched, capacity: ramMb, level: ramMb}
}

// Acquire blocks until level >= amount, then subtracts it.
func (r *RAMReservoir) Acquire(p *clock.Proc, amount int) {
	if len(r.waiters) == 0 && r.level >= amount {
		r.level -= amount
		return
	}
	w := &ramWaiter{proc: p, amount: amount}
	r.waiters = append(r.waiters, w)
	clock.Park(p)
}

// Release adds amount back to the reservoir and wakes waiters in FIFO
// order for as long as the current head's request can be satisfied.
func (r *RAMReservoir) Release(amount int) {
	r.level += amount
	for len(r.waiters) > 0 {
		head := r.waiters[0]
		if head.amount > r.level {
			break
		}
		r.waiters = r.waiters[1:]
		r.level -= head.amount
		r.sched.Resume(r.sched.Now(), head.proc)
	}
}

// Available reports the current free level.
func (r *RAMReservoir) Available() int { return r.level }

// Capacity reports ram_mb.
func (r *RAMReservoir) Capacity() int { return r.capacity }

// Package runtime implements the L3 edge/server/load-balancer/client
// actors, plus the generator actor that drives the workload sampler
// onto the first edge.
package runtime

import (
	"github.com/asyncflow-sim/asyncflow/pkg/actor"
	"github.com/asyncflow-sim/asyncflow/pkg/clock"
	"github.com/asyncflow-sim/asyncflow/pkg/inject"
	"github.com/asyncflow-sim/asyncflow/pkg/rng"
	"github.com/asyncflow-sim/asyncflow/pkg/topology"
)

// EdgeRuntime models a directed network link. It
// satisfies topology.EdgeHandle so the load balancer and event injector
// can observe it without importing this package.
type EdgeRuntime struct {
	cfg    topology.EdgeConfig
	sched  *clock.Scheduler
	rng    *rng.Stream
	inj    *inject.Injector
	target *actor.Mailbox[*topology.RequestState]

	concurrentConnections int
}

// NewEdgeRuntime builds an edge delivering to target's mailbox. inj may
// be nil for edges never named by a spike event.
func NewEdgeRuntime(cfg topology.EdgeConfig, sched *clock.Scheduler, stream *rng.Stream, inj *inject.Injector, target *actor.Mailbox[*topology.RequestState]) *EdgeRuntime {
	return &EdgeRuntime{cfg: cfg, sched: sched, rng: stream, inj: inj, target: target}
}

// EdgeID implements topology.EdgeHandle.
func (e *EdgeRuntime) EdgeID() string { return e.cfg.ID }

// ConcurrentConnections implements topology.EdgeHandle.
func (e *EdgeRuntime) ConcurrentConnections() int { return e.concurrentConnections }

// Transport is non-blocking for the caller: it spawns a fire-and-forget
// delivery fiber bound to state.
func (e *EdgeRuntime) Transport(state *topology.RequestState) {
	e.sched.SpawnAt(e.sched.Now(), "edge-deliver:"+e.cfg.ID, func(p *clock.Proc) {
		e.deliver(p, state)
	})
}

func (e *EdgeRuntime) deliver(p *clock.Proc, state *topology.RequestState) {
	e.concurrentConnections++

	if e.rng.Uniform() < e.cfg.DropoutRate {
		state.Finish(e.sched.Now())
		e.concurrentConnections--
		return
	}

	base := e.cfg.Latency.Sample(e.rng)
	effective := base
	if e.inj != nil && e.inj.IsAffected(e.cfg.ID) {
		effective = base + e.inj.SpikeFor(e.cfg.ID) // read at scheduling time
	}

	e.sched.Timeout(p, effective)

	e.target.Put(p, state)
	e.concurrentConnections--
}

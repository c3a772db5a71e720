package runtime

import (
	"github.com/asyncflow-sim/asyncflow/pkg/actor"
	"github.com/asyncflow-sim/asyncflow/pkg/clock"
	"github.com/asyncflow-sim/asyncflow/pkg/common"
	"github.com/asyncflow-sim/asyncflow/pkg/topology"
)

// LoadBalancerRuntime selects a live server edge for each incoming
// request. It never blocks waiting for a server to come
// back up: an empty live set at selection time is a configuration
// defect (the scenario validator is supposed to rule this out), so it
// aborts the run rather than queuing or retrying.
type LoadBalancerRuntime struct {
	id        string
	sched     *clock.Scheduler
	algorithm topology.LBAlgorithm
	live      *topology.LiveEdgeSet
	log       *common.Logger

	inbox   *actor.Mailbox[*topology.RequestState]
	rrIndex int
}

// NewLoadBalancerRuntime builds a load balancer reading live for its
// server-bound edges.
func NewLoadBalancerRuntime(cfg topology.LoadBalancerConfig, sched *clock.Scheduler, live *topology.LiveEdgeSet, inbox *actor.Mailbox[*topology.RequestState], log *common.Logger) *LoadBalancerRuntime {
	return &LoadBalancerRuntime{id: cfg.ID, sched: sched, algorithm: cfg.Algorithm, live: live, inbox: inbox, log: log}
}

// Start spawns the dispatch fiber.
func (lb *LoadBalancerRuntime) Start() {
	lb.sched.SpawnAt(lb.sched.Now(), "load-balancer:"+lb.id, lb.run)
}

func (lb *LoadBalancerRuntime) run(p *clock.Proc) {
	for {
		req := lb.inbox.Get(p)
		lb.dispatch(req)
	}
}

func (lb *LoadBalancerRuntime) dispatch(req *topology.RequestState) {
	h := lb.pick()
	if h == nil {
		lb.sched.Fail("load-balancer:"+lb.id, &req.ID, common.Wrapf(common.KindConfiguration, lb.id, "no live edges to select from"))
		return
	}

	req.AddHop(topology.KindLoadBalancer, lb.id, lb.sched.Now(), topology.PhaseOutbound)

	t, ok := h.(Transporter)
	if !ok {
		lb.sched.Fail("load-balancer:"+lb.id, &req.ID, common.Wrapf(common.KindSimulationConsistency, lb.id, "selected edge %q does not implement Transport", h.EdgeID()))
		return
	}
	t.Transport(req)
}

func (lb *LoadBalancerRuntime) pick() topology.EdgeHandle {
	switch lb.algorithm {
	case topology.AlgorithmLeastConnection:
		return lb.pickLeastConnection()
	default:
		return lb.pickRoundRobin()
	}
}

func (lb *LoadBalancerRuntime) pickRoundRobin() topology.EdgeHandle {
	h, ok := lb.live.At(lb.rrIndex)
	if !ok {
		return nil
	}
	lb.rrIndex++
	return h
}

func (lb *LoadBalancerRuntime) pickLeastConnection() topology.EdgeHandle {
	all := lb.live.All()
	if len(all) == 0 {
		return nil
	}
	best := all[0]
	for _, h := range all[1:] {
		if h.ConcurrentConnections() < best.ConcurrentConnections() {
			best = h
		}
	}
	return best
}

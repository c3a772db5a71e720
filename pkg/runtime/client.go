package runtime

import (
	"github.com/asyncflow-sim/asyncflow/pkg/actor"
	"github.com/asyncflow-sim/asyncflow/pkg/clock"
	"github.com/asyncflow-sim/asyncflow/pkg/common"
	"github.com/asyncflow-sim/asyncflow/pkg/topology"
)

// ClientRuntime is the single declared client node. Its
// only decision is the terminal rule: inspect history[-2] right after
// appending its own hop to tell a fresh request (just handed off by the
// generator) from a response arriving back from a server, and route
// accordingly. That rule is read verbatim from history — never
// shortcut by the additive Phase tag, which exists only to make the
// decision legible after the fact.
type ClientRuntime struct {
	id    string
	sched *clock.Scheduler
	log   *common.Logger

	inbox     *actor.Mailbox[*topology.RequestState]
	firstEdge Transporter // toward the load balancer / first server hop
	onFinish  func(*topology.RequestState)
}

// NewClientRuntime builds a client. onFinish is invoked for every
// request the client terminates, typically wiring the metrics event
// store; it may be nil.
func NewClientRuntime(id string, sched *clock.Scheduler, inbox *actor.Mailbox[*topology.RequestState], firstEdge Transporter, onFinish func(*topology.RequestState), log *common.Logger) *ClientRuntime {
	return &ClientRuntime{id: id, sched: sched, log: log, inbox: inbox, firstEdge: firstEdge, onFinish: onFinish}
}

// Start spawns the dispatch fiber.
func (c *ClientRuntime) Start() {
	c.sched.SpawnAt(c.sched.Now(), "client:"+c.id, c.run)
}

func (c *ClientRuntime) run(p *clock.Proc) {
	for {
		req := c.inbox.Get(p)
		c.handle(req)
	}
}

func (c *ClientRuntime) handle(req *topology.RequestState) {
	now := c.sched.Now()
	req.AddHop(topology.KindClient, c.id, now, topology.PhaseOutbound)

	priorKind, ok := req.SecondToLastKind()
	if ok && priorKind == topology.KindGenerator {
		req.SetLastPhase(topology.PhaseOutbound)
		c.firstEdge.Transport(req)
		return
	}

	req.SetLastPhase(topology.PhaseReturn)
	req.Finish(now)
	if c.onFinish != nil {
		c.onFinish(req)
	}
}

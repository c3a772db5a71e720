package runtime

import (
	"github.com/asyncflow-sim/asyncflow/pkg/clock"
	"github.com/asyncflow-sim/asyncflow/pkg/common"
	"github.com/asyncflow-sim/asyncflow/pkg/topology"
	"github.com/asyncflow-sim/asyncflow/pkg/workload"
)

// GeneratorRuntime drives the workload sampler, minting a fresh
// RequestState at each sampled inter-arrival gap and handing it to the
// edge leading into the client. It owns request identity
// allocation: ids are assigned in arrival order, starting at 1.
type GeneratorRuntime struct {
	id    string
	sched *clock.Scheduler
	log   *common.Logger

	sampler   *workload.Sampler
	firstEdge Transporter

	nextID uint64
}

// NewGeneratorRuntime builds a generator over sampler, emitting onto
// firstEdge.
func NewGeneratorRuntime(id string, sched *clock.Scheduler, sampler *workload.Sampler, firstEdge Transporter, log *common.Logger) *GeneratorRuntime {
	return &GeneratorRuntime{id: id, sched: sched, log: log, sampler: sampler, firstEdge: firstEdge}
}

// Start spawns the generator's driving fiber.
func (g *GeneratorRuntime) Start() {
	g.sched.SpawnAt(0, "generator:"+g.id, g.run)
}

func (g *GeneratorRuntime) run(p *clock.Proc) {
	for {
		delta, ok := g.sampler.Next()
		if !ok {
			return
		}
		g.sched.Timeout(p, delta)

		g.nextID++
		req := topology.NewRequestState(g.nextID, g.id, g.sched.Now())
		g.firstEdge.Transport(req)
	}
}

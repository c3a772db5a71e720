package runtime

import (
	"github.com/asyncflow-sim/asyncflow/pkg/actor"
	"github.com/asyncflow-sim/asyncflow/pkg/clock"
	"github.com/asyncflow-sim/asyncflow/pkg/common"
	"github.com/asyncflow-sim/asyncflow/pkg/resource"
	"github.com/asyncflow-sim/asyncflow/pkg/rng"
	"github.com/asyncflow-sim/asyncflow/pkg/topology"
)

// Transporter is satisfied by EdgeRuntime. Server and load balancer code
// depend on this instead of the concrete edge type so either can be
// swapped for a test double.
type Transporter interface {
	Transport(state *topology.RequestState)
}

// ServerRuntime executes endpoint step chains behind a CPU counting
// semaphore and a RAM reservoir. Each accepted request
// runs in its own handler fiber so independent requests can overlap
// while waiting on resources; the CPU bucket, not the server, enforces
// the cores limit.
type ServerRuntime struct {
	id   string
	sched *clock.Scheduler
	rng   *rng.Stream
	log   *common.Logger

	cpu       *resource.CPUBucket
	ram       *resource.RAMReservoir
	endpoints []topology.Endpoint

	inbox     *actor.Mailbox[*topology.RequestState]
	returnVia Transporter

	ioInFlight int
}

// NewServerRuntime builds a server from its declared config. returnVia
// is the edge the server hands completed requests back to.
func NewServerRuntime(cfg topology.ServerConfig, sched *clock.Scheduler, stream *rng.Stream, inbox *actor.Mailbox[*topology.RequestState], returnVia Transporter, log *common.Logger) *ServerRuntime {
	return &ServerRuntime{
		id:        cfg.ID,
		sched:     sched,
		rng:       stream,
		log:       log,
		cpu:       resource.NewCPUBucket(sched, cfg.CPUCores),
		ram:       resource.NewRAMReservoir(sched, cfg.RAMMb),
		endpoints: cfg.Endpoints,
		inbox:     inbox,
		returnVia: returnVia,
	}
}

// ID returns the server's declared identity.
func (s *ServerRuntime) ID() string { return s.id }

// ReadyQueueLen is the ready_queue_len sample gauge: the number of
// handlers currently holding a CPU token (cpu_cores - tokens available),
// not the count of fibers still waiting for one.
func (s *ServerRuntime) ReadyQueueLen() float64 { return float64(s.cpu.Capacity() - s.cpu.Available()) }

// EventLoopIOSleep is the event_loop_io_sleep sample gauge: handler
// fibers currently parked on an I/O step.
func (s *ServerRuntime) EventLoopIOSleep() float64 { return float64(s.ioInFlight) }

// RAMInUse is the ram_in_use sample gauge.
func (s *ServerRuntime) RAMInUse() float64 { return float64(s.ram.Capacity() - s.ram.Available()) }

// Start spawns the dispatch fiber that pulls from inbox and hands each
// request to its own handler fiber, never blocking the dispatch loop on
// a single request's resource waits.
func (s *ServerRuntime) Start() {
	s.sched.SpawnAt(s.sched.Now(), "server-dispatch:"+s.id, s.dispatch)
}

func (s *ServerRuntime) dispatch(p *clock.Proc) {
	for {
		req := s.inbox.Get(p)
		s.sched.SpawnAt(s.sched.Now(), "server-handle:"+s.id, func(hp *clock.Proc) {
			s.handle(hp, req)
		})
	}
}

func (s *ServerRuntime) handle(p *clock.Proc, req *topology.RequestState) {
	req.AddHop(topology.KindServer, s.id, s.sched.Now(), topology.PhaseOutbound)

	ep := s.endpoints[s.rng.IntN(len(s.endpoints))]

	ramMb := ep.TotalRAMMb()
	if ramMb > 0 {
		s.ram.Acquire(p, ramMb)
	}

	cpuHeld := false
	for _, step := range ep.Steps {
		switch step.Variant {
		case topology.StepCPU:
			if !cpuHeld {
				s.cpu.Acquire(p, 1)
				cpuHeld = true
			}
			s.sched.Timeout(p, step.TimeS)
		case topology.StepIO:
			if cpuHeld {
				s.cpu.Release(1)
				cpuHeld = false
			}
			s.ioInFlight++
			s.sched.Timeout(p, step.TimeS)
			s.ioInFlight--
		case topology.StepRAM:
			// accounted for atomically at handler entry via TotalRAMMb.
		}
	}
	if cpuHeld {
		s.cpu.Release(1)
	}
	if ramMb > 0 {
		s.ram.Release(ramMb)
	}

	s.returnVia.Transport(req)
}

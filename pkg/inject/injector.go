// Package inject implements the L4 event injector: a single centralized
// process driving both edge latency spikes and server up/down
// transitions through two sorted timelines, mutating shared maps that
// other actors read without locking.
package inject

import (
	"sort"

	"github.com/asyncflow-sim/asyncflow/pkg/clock"
	"github.com/asyncflow-sim/asyncflow/pkg/topology"
)

type mark int

const (
	markEnd mark = iota // End sorts before Start at equal t
	markStart
)

type edgeTransition struct {
	at     float64
	m      mark
	eventID string
	edgeID string
	spikeS float64
}

type serverTransition struct {
	at      float64
	m       mark
	eventID string
	serverID string
}

// Injector owns the edge-spike and server-outage timelines and the
// shared mutable state other actors read: edges_spike, edges_affected,
// and (by reference) the load balancer's live edge set.
type Injector struct {
	sched *clock.Scheduler

	edgesSpike    map[string]float64
	edgesAffected map[string]struct{}

	edgeTimeline   []edgeTransition
	serverTimeline []serverTransition

	edgeByServer map[string]topology.EdgeHandle // server_id -> its LB edge handle
	liveEdges    *topology.LiveEdgeSet
}

// New builds an Injector from the scenario's event list. liveEdges is
// the load balancer's live edge set, shared by reference — never
// copied — so server transitions become visible to the LB without
// locking. edgeByServer maps each covered server id to the LB->server
// edge handle the injector will insert/remove.
func New(sched *clock.Scheduler, events []topology.EventInjection, liveEdges *topology.LiveEdgeSet, edgeByServer map[string]topology.EdgeHandle) *Injector {
	inj := &Injector{
		sched:         sched,
		edgesSpike:    make(map[string]float64),
		edgesAffected: make(map[string]struct{}),
		edgeByServer:  edgeByServer,
		liveEdges:     liveEdges,
	}

	for _, ev := range events {
		switch ev.Family {
		case topology.FamilyNetworkSpike:
			inj.edgesAffected[ev.TargetID] = struct{}{}
			inj.edgeTimeline = append(inj.edgeTimeline,
				edgeTransition{at: ev.StartS, m: markStart, eventID: ev.EventID, edgeID: ev.TargetID, spikeS: ev.SpikeS},
				edgeTransition{at: ev.EndS, m: markEnd, eventID: ev.EventID, edgeID: ev.TargetID, spikeS: ev.SpikeS},
			)
		case topology.FamilyServerOutage:
			inj.serverTimeline = append(inj.serverTimeline,
				serverTransition{at: ev.StartS, m: markStart, eventID: ev.EventID, serverID: ev.TargetID},
				serverTransition{at: ev.EndS, m: markEnd, eventID: ev.EventID, serverID: ev.TargetID},
			)
		}
	}

	sort.SliceStable(inj.edgeTimeline, func(i, j int) bool {
		a, b := inj.edgeTimeline[i], inj.edgeTimeline[j]
		if a.at != b.at {
			return a.at < b.at
		}
		if a.m != b.m {
			return a.m < b.m // markEnd(0) before markStart(1)
		}
		return a.eventID < b.eventID
	})
	sort.SliceStable(inj.serverTimeline, func(i, j int) bool {
		a, b := inj.serverTimeline[i], inj.serverTimeline[j]
		if a.at != b.at {
			return a.at < b.at
		}
		if a.m != b.m {
			return a.m < b.m
		}
		return a.eventID < b.eventID
	})

	return inj
}

// SpikeFor returns the current cumulative additive spike for edgeID,
// read at delivery-scheduling time by EdgeRuntime.Transport.
func (inj *Injector) SpikeFor(edgeID string) float64 { return inj.edgesSpike[edgeID] }

// IsAffected reports whether edgeID has ever been targeted by a spike
// event.
func (inj *Injector) IsAffected(edgeID string) bool {
	_, ok := inj.edgesAffected[edgeID]
	return ok
}

// Start spawns the injector's two driving fibers. It must start before
// any other actor, since the live edge set must reflect the topology
// before the first request is routed.
func (inj *Injector) Start() {
	inj.sched.SpawnAt(0, "injector-edges", inj.runEdges)
	inj.sched.SpawnAt(0, "injector-servers", inj.runServers)
}

func (inj *Injector) runEdges(p *clock.Proc) {
	last := 0.0
	for _, t := range inj.edgeTimeline {
		if dt := t.at - last; dt > 0 {
			inj.sched.Timeout(p, dt)
		}
		last = t.at
		if t.m == markStart {
			inj.edgesSpike[t.edgeID] += t.spikeS
		} else {
			inj.edgesSpike[t.edgeID] -= t.spikeS
		}
	}
}

func (inj *Injector) runServers(p *clock.Proc) {
	last := 0.0
	for _, t := range inj.serverTimeline {
		if dt := t.at - last; dt > 0 {
			inj.sched.Timeout(p, dt)
		}
		last = t.at
		if t.m == markStart { // SERVER_DOWN
			if h, ok := inj.edgeByServer[t.serverID]; ok {
				inj.liveEdges.Remove(h.EdgeID())
			}
		} else { // SERVER_UP
			if h, ok := inj.edgeByServer[t.serverID]; ok {
				inj.liveEdges.Insert(h)
				inj.liveEdges.MoveToEnd(h.EdgeID())
			}
		}
	}
}

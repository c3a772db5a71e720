package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asyncflow-sim/asyncflow/pkg/actor"
	"github.com/asyncflow-sim/asyncflow/pkg/clock"
	"github.com/asyncflow-sim/asyncflow/pkg/topology"
)

type fakeEdgeTransporter struct {
	id    string
	conns int
	got   []*topology.RequestState
}

func (f *fakeEdgeTransporter) EdgeID() string             { return f.id }
func (f *fakeEdgeTransporter) ConcurrentConnections() int { return f.conns }
func (f *fakeEdgeTransporter) Transport(state *topology.RequestState) {
	f.got = append(f.got, state)
}

func TestLoadBalancerRuntime_RoundRobinRotatesEvenly(t *testing.T) {
	sched := clock.New()
	inbox := actor.New[*topology.RequestState](sched, 0)
	live := topology.NewLiveEdgeSet()
	a := &fakeEdgeTransporter{id: "a"}
	b := &fakeEdgeTransporter{id: "b"}
	live.Insert(a)
	live.Insert(b)

	lb := NewLoadBalancerRuntime(topology.LoadBalancerConfig{ID: "lb1", Algorithm: topology.AlgorithmRoundRobin}, sched, live, inbox, nil)
	lb.Start()

	for i := uint64(1); i <= 4; i++ {
		inbox.Put(nil, topology.NewRequestState(i, "gen", 0))
	}

	require.NoError(t, sched.RunUntil(5))
	require.Len(t, a.got, 2)
	require.Len(t, b.got, 2)
}

func TestLoadBalancerRuntime_LeastConnectionPicksFewestConnections(t *testing.T) {
	sched := clock.New()
	inbox := actor.New[*topology.RequestState](sched, 0)
	live := topology.NewLiveEdgeSet()
	busy := &fakeEdgeTransporter{id: "busy", conns: 5}
	idle := &fakeEdgeTransporter{id: "idle", conns: 0}
	live.Insert(busy)
	live.Insert(idle)

	lb := NewLoadBalancerRuntime(topology.LoadBalancerConfig{ID: "lb1", Algorithm: topology.AlgorithmLeastConnection}, sched, live, inbox, nil)
	lb.Start()

	inbox.Put(nil, topology.NewRequestState(1, "gen", 0))

	require.NoError(t, sched.RunUntil(5))
	require.Len(t, idle.got, 1)
	require.Len(t, busy.got, 0)
}

func TestLoadBalancerRuntime_EmptyLiveSetAbortsRun(t *testing.T) {
	sched := clock.New()
	inbox := actor.New[*topology.RequestState](sched, 0)
	live := topology.NewLiveEdgeSet()

	lb := NewLoadBalancerRuntime(topology.LoadBalancerConfig{ID: "lb1", Algorithm: topology.AlgorithmRoundRobin}, sched, live, inbox, nil)
	lb.Start()
	inbox.Put(nil, topology.NewRequestState(1, "gen", 0))

	err := sched.RunUntil(5)
	require.Error(t, err)
}

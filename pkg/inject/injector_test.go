package inject

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asyncflow-sim/asyncflow/pkg/clock"
	"github.com/asyncflow-sim/asyncflow/pkg/topology"
)

type fakeEdge struct{ id string }

func (f fakeEdge) EdgeID() string             { return f.id }
func (f fakeEdge) ConcurrentConnections() int { return 0 }

func TestInjector_AdditiveOverlappingSpikes(t *testing.T) {
	sched := clock.New()
	events := []topology.EventInjection{
		{EventID: "e1", Family: topology.FamilyNetworkSpike, TargetID: "edge1", StartS: 2, EndS: 8, SpikeS: 0.005},
		{EventID: "e2", Family: topology.FamilyNetworkSpike, TargetID: "edge1", StartS: 5, EndS: 12, SpikeS: 0.010},
	}
	inj := New(sched, events, topology.NewLiveEdgeSet(), nil)
	inj.Start()

	var at6, at9, at13 float64
	sched.Schedule(6.0, func() { at6 = inj.SpikeFor("edge1") })
	sched.Schedule(9.0, func() { at9 = inj.SpikeFor("edge1") })
	sched.Schedule(13.0, func() { at13 = inj.SpikeFor("edge1") })

	require.NoError(t, sched.RunUntil(20))
	require.InDelta(t, 0.015, at6, 1e-9)
	require.InDelta(t, 0.010, at9, 1e-9)
	require.InDelta(t, 0.0, at13, 1e-9)
}

func TestInjector_ServerOutageRemovesThenReinsertsAtEnd(t *testing.T) {
	sched := clock.New()
	live := topology.NewLiveEdgeSet()
	live.Insert(fakeEdge{"e-srv1"})
	live.Insert(fakeEdge{"e-srv2"})

	events := []topology.EventInjection{
		{EventID: "ev1", Family: topology.FamilyServerOutage, TargetID: "srv1", StartS: 5, EndS: 10},
	}
	edgeByServer := map[string]topology.EdgeHandle{"srv1": fakeEdge{"e-srv1"}}
	inj := New(sched, events, live, edgeByServer)
	inj.Start()

	sched.Schedule(6, func() {
		require.Equal(t, 1, live.Len())
		ids := live.All()
		require.Equal(t, "e-srv2", ids[0].EdgeID())
	})
	sched.Schedule(11, func() {
		require.Equal(t, 2, live.Len())
		ids := live.All()
		require.Equal(t, "e-srv2", ids[0].EdgeID())
		require.Equal(t, "e-srv1", ids[1].EdgeID())
	})
	require.NoError(t, sched.RunUntil(20))
}

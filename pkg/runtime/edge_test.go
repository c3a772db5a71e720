package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asyncflow-sim/asyncflow/pkg/actor"
	"github.com/asyncflow-sim/asyncflow/pkg/clock"
	"github.com/asyncflow-sim/asyncflow/pkg/rng"
	"github.com/asyncflow-sim/asyncflow/pkg/topology"
)

func TestEdgeRuntime_DeliversAfterFixedLatency(t *testing.T) {
	sched := clock.New()
	target := actor.New[*topology.RequestState](sched, 0)

	cfg := topology.EdgeConfig{ID: "e1", Latency: topology.RVConfig{Mean: 0.25}}
	edge := NewEdgeRuntime(cfg, sched, rng.New(1), nil, target)

	var gotAt float64
	req := topology.NewRequestState(1, "gen", 0)
	edge.Transport(req)

	sched.SpawnAt(0, "receiver", func(p *clock.Proc) {
		target.Get(p)
		gotAt = sched.Now()
	})

	require.NoError(t, sched.RunUntil(5))
	require.InDelta(t, 0.25, gotAt, 1e-9)
}

func TestEdgeRuntime_DropoutFinishesRequestWithoutDelivery(t *testing.T) {
	sched := clock.New()
	target := actor.New[*topology.RequestState](sched, 0)

	cfg := topology.EdgeConfig{ID: "e1", DropoutRate: 1.0, Latency: topology.RVConfig{Mean: 1}}
	edge := NewEdgeRuntime(cfg, sched, rng.New(1), nil, target)

	req := topology.NewRequestState(1, "gen", 0)
	edge.Transport(req)

	require.NoError(t, sched.RunUntil(5))
	require.Equal(t, 0, target.Len())
	require.NotNil(t, req.FinishTime)
}

func TestEdgeRuntime_ConcurrentConnectionsTracksInFlight(t *testing.T) {
	sched := clock.New()
	target := actor.New[*topology.RequestState](sched, 0)

	cfg := topology.EdgeConfig{ID: "e1", Latency: topology.RVConfig{Mean: 2}}
	edge := NewEdgeRuntime(cfg, sched, rng.New(1), nil, target)

	edge.Transport(topology.NewRequestState(1, "gen", 0))

	var midFlight int
	sched.Schedule(1, func() { midFlight = edge.ConcurrentConnections() })

	require.NoError(t, sched.RunUntil(10))
	require.Equal(t, 1, midFlight)
	require.Equal(t, 0, edge.ConcurrentConnections())
}

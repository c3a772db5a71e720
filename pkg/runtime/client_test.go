package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asyncflow-sim/asyncflow/pkg/actor"
	"github.com/asyncflow-sim/asyncflow/pkg/clock"
	"github.com/asyncflow-sim/asyncflow/pkg/topology"
)

func TestClientRuntime_FreshRequestRelaysOutbound(t *testing.T) {
	sched := clock.New()
	inbox := actor.New[*topology.RequestState](sched, 0)
	out := &recordingTransporter{}
	var finished []*topology.RequestState

	client := NewClientRuntime("c1", sched, inbox, out, func(r *topology.RequestState) { finished = append(finished, r) }, nil)
	client.Start()

	req := topology.NewRequestState(1, "gen1", 0) // history: [Generator]
	inbox.Put(nil, req)

	require.NoError(t, sched.RunUntil(5))
	require.Len(t, out.got, 1)
	require.Empty(t, finished)
	require.Nil(t, req.FinishTime)

	last, _ := req.LastHop()
	require.Equal(t, topology.KindClient, last.Kind)
	require.Equal(t, topology.PhaseOutbound, last.Phase)
}

func TestClientRuntime_ReturningResponseTerminates(t *testing.T) {
	sched := clock.New()
	inbox := actor.New[*topology.RequestState](sched, 0)
	out := &recordingTransporter{}
	var finished []*topology.RequestState

	client := NewClientRuntime("c1", sched, inbox, out, func(r *topology.RequestState) { finished = append(finished, r) }, nil)
	client.Start()

	req := topology.NewRequestState(1, "gen1", 0)
	req.AddHop(topology.KindClient, "c1", 0, topology.PhaseOutbound)
	req.AddHop(topology.KindLoadBalancer, "lb1", 0, topology.PhaseOutbound)
	req.AddHop(topology.KindServer, "srv1", 1, topology.PhaseOutbound)
	// history: [Generator, Client, LB, Server] -- arriving back at client now.
	inbox.Put(nil, req)

	require.NoError(t, sched.RunUntil(5))
	require.Empty(t, out.got)
	require.Len(t, finished, 1)
	require.NotNil(t, req.FinishTime)

	last, _ := req.LastHop()
	require.Equal(t, topology.PhaseReturn, last.Phase)
}

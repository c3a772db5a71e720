package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asyncflow-sim/asyncflow/pkg/clock"
	"github.com/asyncflow-sim/asyncflow/pkg/rng"
	"github.com/asyncflow-sim/asyncflow/pkg/topology"
	"github.com/asyncflow-sim/asyncflow/pkg/workload"
)

func TestGeneratorRuntime_EmitsRequestsWithSequentialIDs(t *testing.T) {
	sched := clock.New()
	out := &recordingTransporter{}

	cfg := topology.WorkloadConfig{
		AvgActiveUsers:             topology.RVConfig{Distribution: topology.DistPoisson, Mean: 3},
		AvgRequestPerMinutePerUser: topology.RVConfig{Distribution: topology.DistPoisson, Mean: 120},
		UserSamplingWindowS:        10,
	}
	sampler := workload.New(cfg, 5, rng.New(7))
	gen := NewGeneratorRuntime("gen1", sched, sampler, out, nil)
	gen.Start()

	require.NoError(t, sched.RunUntil(5))
	require.Greater(t, len(out.got), 0)
	for i, r := range out.got {
		require.Equal(t, uint64(i+1), r.ID)
		kind, ok := r.SecondToLastKind() // history is [Generator] only, len 1
		_ = kind
		require.False(t, ok)
		require.Equal(t, topology.KindGenerator, r.History[0].Kind)
	}
}

package workload

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asyncflow-sim/asyncflow/pkg/rng"
	"github.com/asyncflow-sim/asyncflow/pkg/topology"
)

func TestSampler_StopsAtHorizon(t *testing.T) {
	cfg := topology.WorkloadConfig{
		AvgActiveUsers:             topology.RVConfig{Distribution: topology.DistPoisson, Mean: 5},
		AvgRequestPerMinutePerUser: topology.RVConfig{Distribution: topology.DistPoisson, Mean: 60},
		UserSamplingWindowS:        10,
	}
	s := New(cfg, 30, rng.New(1))
	var total float64
	count := 0
	for {
		d, ok := s.Next()
		if !ok {
			break
		}
		total += d
		count++
		require.LessOrEqual(t, total, 30.0)
	}
	require.Greater(t, count, 0)
}

func TestSampler_ZeroUsersFastForwards(t *testing.T) {
	cfg := topology.WorkloadConfig{
		AvgActiveUsers:             topology.RVConfig{Distribution: topology.DistPoisson, Mean: 0},
		AvgRequestPerMinutePerUser: topology.RVConfig{Distribution: topology.DistPoisson, Mean: 60},
		UserSamplingWindowS:        5,
	}
	s := New(cfg, 20, rng.New(2))
	_, ok := s.Next()
	require.False(t, ok)
}

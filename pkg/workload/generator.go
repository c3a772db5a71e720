// Package workload implements the L2 hierarchical Poisson–Poisson /
// Normal–Poisson inter-arrival sampler.
package workload

import (
	"math"

	"github.com/asyncflow-sim/asyncflow/pkg/rng"
	"github.com/asyncflow-sim/asyncflow/pkg/topology"
)

// Sampler produces successive inter-arrival gaps. It holds the windowed
// resampling state (T, window_end, Λ) and computes the gap directly as
// -ln(1-u)/Λ rather than going through the generic
// rng.Stream.Exponential helper, to keep the formula literal.
type Sampler struct {
	cfg       topology.WorkloadConfig
	totalTime float64
	rng       *rng.Stream

	t         float64
	windowEnd float64
	lambda    float64
}

// New creates a Sampler for the given workload over [0, totalTime).
func New(cfg topology.WorkloadConfig, totalTime float64, stream *rng.Stream) *Sampler {
	return &Sampler{cfg: cfg, totalTime: totalTime, rng: stream}
}

// Next returns the next inter-arrival gap, fast-forwarding across empty
// windows, or ok=false
// once total_simulation_time is exhausted.
func (s *Sampler) Next() (delta float64, ok bool) {
	for {
		if s.t >= s.totalTime {
			return 0, false
		}
		if s.t >= s.windowEnd {
			s.windowEnd = s.t + s.cfg.UserSamplingWindowS
			u := s.cfg.AvgActiveUsers.Sample(s.rng)
			rpm := s.cfg.AvgRequestPerMinutePerUser.Mean
			s.lambda = u * (rpm / 60.0)
		}
		if s.lambda <= 0 {
			s.t = s.windowEnd
			continue
		}
		u := math.Max(s.rng.Uniform(), 1e-15)
		d := -math.Log(1-u) / s.lambda
		if s.t+d > s.totalTime {
			return 0, false
		}
		if s.t+d >= s.windowEnd {
			s.t = s.windowEnd
			continue
		}
		s.t += d
		return d, true
	}
}

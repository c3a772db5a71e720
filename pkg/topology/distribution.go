package topology

import "github.com/asyncflow-sim/asyncflow/pkg/rng"

// Distribution is the canonical serialized name of a random variable
// family.
type Distribution string

const (
	DistPoisson     Distribution = "poisson"
	DistNormal      Distribution = "normal"
	DistLogNormal   Distribution = "log_normal"
	DistExponential Distribution = "exponential"
	DistUniform     Distribution = "uniform"
)

// RVConfig parameterizes a sampled random variable: edge
// latency, active-user counts, per-user request rate.
type RVConfig struct {
	Distribution Distribution
	Mean         float64
	Variance     float64
}

// Sample draws one value from the configured distribution.
func (rv RVConfig) Sample(s *rng.Stream) float64 {
	switch rv.Distribution {
	case DistPoisson:
		return float64(s.Poisson(rv.Mean))
	case DistNormal:
		return float64(s.NormalTruncatedNonNegative(rv.Mean, rv.Variance))
	case DistLogNormal:
		return s.LogNormal(rv.Mean, rv.Variance)
	case DistExponential:
		return s.Exponential(1.0 / rv.Mean)
	case DistUniform:
		return s.UniformInRange(rv.Mean-rv.Variance, rv.Mean+rv.Variance)
	default:
		return rv.Mean
	}
}

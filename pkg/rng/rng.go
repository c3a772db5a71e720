// Package rng implements the deterministic random stream and the
// distribution samplers (L0 RNG, L2 Samplers).
package rng

import (
	"math"
	"math/rand"

	"github.com/asyncflow-sim/asyncflow/pkg/common"
)

// Stream is a seedable deterministic random source. A scenario seeds
// exactly one Stream; every sampler in the run draws from it, so two
// runs with the same seed are bit-identical.
type Stream struct {
	r *rand.Rand
}

// New creates a Stream seeded with the given value.
func New(seed uint64) *Stream {
	return &Stream{r: rand.New(rand.NewSource(int64(seed)))}
}

// NewDefault seeds from a time-derived source, for callers that don't
// care about reproducibility.
func NewDefault() *Stream {
	return New(common.DefaultSeedSource())
}

// Uniform draws from [epsilon, 1), protecting downstream log(0) calls.
func (s *Stream) Uniform() float64 {
	u := s.r.Float64()
	if u < common.UniformEpsilon {
		return common.UniformEpsilon
	}
	return u
}

// IntN draws a uniform integer in [0, n), used for the server's uniform
// endpoint selection.
func (s *Stream) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return s.r.Intn(n)
}

// UniformInRange draws uniformly from [lo, hi).
func (s *Stream) UniformInRange(lo, hi float64) float64 {
	return lo + s.Uniform()*(hi-lo)
}

// Exponential draws from an exponential distribution with rate lambda,
// via inverse-CDF: -ln(U)/lambda.
func (s *Stream) Exponential(lambda float64) float64 {
	if lambda <= 0 {
		return math.Inf(1)
	}
	return -math.Log(s.Uniform()) / lambda
}

// Poisson draws a non-negative integer from a Poisson distribution with
// the given mean, via Knuth's multiplicative algorithm.
func (s *Stream) Poisson(mean float64) uint32 {
	if mean <= 0 {
		return 0
	}
	l := math.Exp(-mean)
	k := uint32(0)
	p := 1.0
	for {
		k++
		p *= s.r.Float64()
		if p <= l {
			return k - 1
		}
	}
}

// Normal draws from Normal(mean, variance) using the standard library's
// Box-Muller-based generator, rescaled.
func (s *Stream) Normal(mean, variance float64) float64 {
	return mean + s.r.NormFloat64()*math.Sqrt(variance)
}

// NormalTruncatedNonNegative draws a Normal(mean, variance), floors
// negative draws at zero, and casts to a non-negative integer count
//.
func (s *Stream) NormalTruncatedNonNegative(mean, variance float64) uint32 {
	v := s.Normal(mean, variance)
	if v < 0 {
		v = 0
	}
	return uint32(v)
}

// LogNormal draws from a log-normal distribution parameterized by the
// mean and variance of the underlying normal, used for edge latency.
func (s *Stream) LogNormal(mean, variance float64) float64 {
	return math.Exp(s.Normal(mean, variance))
}

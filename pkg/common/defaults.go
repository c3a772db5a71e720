package common

import "time"

// Bounds collects magic numbers as named constants instead of
// scattering them across validators.
const (
	MinUserSamplingWindowS = 1.0
	MaxUserSamplingWindowS = 120.0

	MinSamplePeriodS = 0.001
	MaxSamplePeriodS = 0.1

	MinTotalSimulationTimeS = 5.0

	MinServerRAMMb = 256

	UniformEpsilon = 1e-15
)

// DefaultSeedSource returns a time-derived seed, used only when the
// caller does not supply one via engine.WithSeed.
func DefaultSeedSource() uint64 {
	return uint64(time.Now().UnixNano())
}

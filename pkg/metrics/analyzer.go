package metrics

import (
	"math"
	"sort"
)

// LatencyStats is the post-run summary of rqs_clock durations.
type LatencyStats struct {
	Count   int
	MinS    float64
	MaxS    float64
	MeanS   float64
	StdDevS float64
	P50S    float64
	P95S    float64
	P99S    float64
}

// ThroughputPoint is one windowed completion count.
type ThroughputPoint struct {
	WindowStartS float64
	Count        int
}

// DefaultThroughputWindowS is the bucket width throughput_series uses
// when the caller doesn't pick one.
const DefaultThroughputWindowS = 1.0

// Analyzer computes derived views over a finished run's raw samples and
// records. Never panics on empty input — an analyzer run against a
// degenerate scenario (zero completed requests) is a valid, if boring,
// result, not a crash.
type Analyzer struct {
	store *EventStore
	coll  *SampledCollector

	throughputCache map[float64][]ThroughputPoint
}

// NewAnalyzer builds an Analyzer over a run's event store and collector.
// Either may be nil if the corresponding metric family was disabled.
func NewAnalyzer(store *EventStore, coll *SampledCollector) *Analyzer {
	return &Analyzer{store: store, coll: coll, throughputCache: make(map[float64][]ThroughputPoint)}
}

// LatencyStats summarizes rqs_clock durations across all completed
// requests. Returns the zero value if no requests completed.
func (a *Analyzer) LatencyStats() LatencyStats {
	if a.store == nil {
		return LatencyStats{}
	}
	records := a.store.Records()
	if len(records) == 0 {
		return LatencyStats{}
	}

	durations := make([]float64, len(records))
	for i, r := range records {
		durations[i] = r.DurationS
	}
	sort.Float64s(durations)

	sum := 0.0
	for _, d := range durations {
		sum += d
	}
	mean := sum / float64(len(durations))

	variance := 0.0
	for _, d := range durations {
		diff := d - mean
		variance += diff * diff
	}
	variance /= float64(len(durations))

	return LatencyStats{
		Count:   len(durations),
		MinS:    durations[0],
		MaxS:    durations[len(durations)-1],
		MeanS:   mean,
		StdDevS: math.Sqrt(variance),
		P50S:    percentile(durations, 0.50),
		P95S:    percentile(durations, 0.95),
		P99S:    percentile(durations, 0.99),
	}
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	idx := int(p * float64(len(sorted)-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// ThroughputSeries buckets completed requests into fixed windowS
// intervals measured from t=0. windowS <= 0 picks
// DefaultThroughputWindowS. Each distinct window is computed once and
// cached for the lifetime of the Analyzer.
func (a *Analyzer) ThroughputSeries(windowS float64) []ThroughputPoint {
	if windowS <= 0 {
		windowS = DefaultThroughputWindowS
	}
	if cached, ok := a.throughputCache[windowS]; ok {
		return cached
	}

	if a.store == nil {
		return nil
	}
	records := a.store.Records()
	if len(records) == 0 {
		return nil
	}

	buckets := make(map[int]int)
	maxBucket := 0
	for _, r := range records {
		b := int(r.FinishedAtS / windowS)
		buckets[b]++
		if b > maxBucket {
			maxBucket = b
		}
	}

	out := make([]ThroughputPoint, 0, maxBucket+1)
	for b := 0; b <= maxBucket; b++ {
		out = append(out, ThroughputPoint{WindowStartS: float64(b) * windowS, Count: buckets[b]})
	}
	a.throughputCache[windowS] = out
	return out
}

// SampledMetrics returns the raw gauge observations recorded during the
// run, or nil if sample collection was disabled.
func (a *Analyzer) SampledMetrics() []Sample {
	if a.coll == nil {
		return nil
	}
	return a.coll.Samples()
}

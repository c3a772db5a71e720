package engine

import "github.com/asyncflow-sim/asyncflow/pkg/metrics"

// Results is the external view of a finished run: derived latency
// statistics, a windowed throughput series, and the raw sampled gauge
// readings, each present only if its metric family was enabled.
type Results struct {
	Latency      metrics.LatencyStats
	Throughput   []metrics.ThroughputPoint
	Sampled      []metrics.Sample
	Records      []metrics.RequestRecord
	ServersOrder []string

	RequestsCompleted int
	EndedAtS          float64

	analyzer *metrics.Analyzer
}

// ThroughputSeries re-buckets the run's completions at windowS instead
// of the default window baked into Throughput. windowS <= 0 picks
// metrics.DefaultThroughputWindowS. Returns nil if the run had no
// completions or event recording was disabled.
func (r *Results) ThroughputSeries(windowS float64) []metrics.ThroughputPoint {
	if r.analyzer == nil {
		return nil
	}
	return r.analyzer.ThroughputSeries(windowS)
}

// ListServerIDs returns every server's id in topology declaration order.
func (r *Results) ListServerIDs() []string { return r.ServersOrder }

// GetSeries returns the sampled values for one metric on one entity, in
// the order they were recorded, without requiring the caller to scan
// and filter Sampled itself. Returns nil if no matching sample exists.
func (r *Results) GetSeries(metric, entityID string) []float64 {
	var out []float64
	for _, s := range r.Sampled {
		if s.Metric == metric && s.Component == entityID {
			out = append(out, s.Value)
		}
	}
	return out
}

// ProcessAllMetrics groups every sampled observation by metric name and
// then by entity id, matching the {metric: {entity: [values]}} shape a
// caller would otherwise have to build from Sampled by hand.
func (r *Results) ProcessAllMetrics() map[string]map[string][]float64 {
	out := make(map[string]map[string][]float64)
	for _, s := range r.Sampled {
		byEntity, ok := out[s.Metric]
		if !ok {
			byEntity = make(map[string][]float64)
			out[s.Metric] = byEntity
		}
		byEntity[s.Component] = append(byEntity[s.Component], s.Value)
	}
	return out
}

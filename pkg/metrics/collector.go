// Package metrics implements the L5 observability surface: a periodic
// sampled-gauge collector, an append-only per-request event store, and
// the post-run Analyzer. Collection never influences simulation
// outcomes — every reader here is passive.
package metrics

import "github.com/asyncflow-sim/asyncflow/pkg/clock"

// Gauge is a named instantaneous reading polled at each sample tick.
// Component identifies which server or edge produced it (empty for a
// run-wide gauge).
type Gauge struct {
	Name      string
	Component string
	Value     func() float64
}

// Sample is one (t, metric, component, value) observation.
type Sample struct {
	AtS       float64
	Metric    string
	Component string
	Value     float64
}

// SampledCollector polls a fixed set of gauges every period seconds,
// recording only the metrics named in enabled.
type SampledCollector struct {
	sched   *clock.Scheduler
	period  float64
	enabled map[string]struct{}
	gauges  []Gauge
	samples []Sample
}

// NewSampledCollector builds a collector over gauges, keeping only those
// named in enabled.
func NewSampledCollector(sched *clock.Scheduler, periodS float64, enabled map[string]struct{}, gauges []Gauge) *SampledCollector {
	kept := gauges[:0:0]
	for _, g := range gauges {
		if _, ok := enabled[g.Name]; ok {
			kept = append(kept, g)
		}
	}
	return &SampledCollector{sched: sched, period: periodS, enabled: enabled, gauges: kept}
}

// Start spawns the ticking fiber. It runs for the scheduler's entire
// lifetime — the run horizon is enforced by Scheduler.RunUntil, not by
// the collector itself.
func (c *SampledCollector) Start() {
	if len(c.gauges) == 0 || c.period <= 0 {
		return
	}
	c.sched.SpawnAt(0, "sampled-collector", c.run)
}

func (c *SampledCollector) run(p *clock.Proc) {
	for {
		t := c.sched.Now()
		for _, g := range c.gauges {
			c.samples = append(c.samples, Sample{AtS: t, Metric: g.Name, Component: g.Component, Value: g.Value()})
		}
		c.sched.Timeout(p, c.period)
	}
}

// Samples returns all recorded observations, in recording order.
func (c *SampledCollector) Samples() []Sample { return c.samples }

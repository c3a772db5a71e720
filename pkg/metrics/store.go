package metrics

import "github.com/asyncflow-sim/asyncflow/pkg/topology"

// RequestRecord is the terminal per-request observation the event store
// retains — the rqs_clock metric: total time in system,
// plus enough of the hop history to diagnose it.
type RequestRecord struct {
	RequestID   uint64
	CreatedAtS  float64
	FinishedAtS float64
	DurationS   float64
	HopCount    int
}

// EventStore is the append-only per-request metric store, gated by the
// enabled_event_metrics set the same way SampledCollector is gated by
// enabled_sample_metrics.
type EventStore struct {
	enabled bool
	records []RequestRecord
}

// NewEventStore builds a store recording rqs_clock only if that metric
// name is present in enabled.
func NewEventStore(enabled map[string]struct{}) *EventStore {
	_, on := enabled[topology.MetricRqsClock]
	return &EventStore{enabled: on}
}

// RecordRequest appends a completed request's terminal timing, if the
// rqs_clock metric is enabled and the request actually finished.
func (s *EventStore) RecordRequest(req *topology.RequestState) {
	if !s.enabled || req.FinishTime == nil {
		return
	}
	s.records = append(s.records, RequestRecord{
		RequestID:   req.ID,
		CreatedAtS:  req.InitialTime,
		FinishedAtS: *req.FinishTime,
		DurationS:   *req.FinishTime - req.InitialTime,
		HopCount:    len(req.History),
	})
}

// Records returns all recorded request timings, in completion order.
func (s *EventStore) Records() []RequestRecord { return s.records }

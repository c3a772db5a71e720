package topology

// WorkloadConfig is the traffic-generator sub-object ("Workload
// (RqsGenerator)").
type WorkloadConfig struct {
	ID                          string
	AvgActiveUsers              RVConfig // Poisson or Normal
	AvgRequestPerMinutePerUser  RVConfig // Poisson required
	UserSamplingWindowS         float64  // seconds, in [1,120]
}

// SimulationSettings is the run-control sub-object.
type SimulationSettings struct {
	TotalSimulationTimeS float64
	SamplePeriodS        float64
	EnabledSampleMetrics map[string]struct{}
	EnabledEventMetrics  map[string]struct{}
}

// EventKind is one of the four canonical event-injection kinds
//.
type EventKind string

const (
	EventServerDown        EventKind = "SERVER_DOWN"
	EventServerUp          EventKind = "SERVER_UP"
	EventNetworkSpikeStart EventKind = "NETWORK_SPIKE_START"
	EventNetworkSpikeEnd   EventKind = "NETWORK_SPIKE_END"
)

// EventFamily distinguishes the two event-injection families, each with
// its own target-kind and start/end semantics.
type EventFamily string

const (
	FamilyServerOutage EventFamily = "server_outage"   // SERVER_DOWN / SERVER_UP
	FamilyNetworkSpike EventFamily = "network_spike"    // NETWORK_SPIKE_START / _END
)

// EventInjection is one planned outage/spike window.
// Family determines whether TargetID names a server (outage) or an edge
// (spike); Start/End are paired here into one window rather than four
// separate timeline entries, matching how the validator requires them
// to come in matched pairs (SERVER_DOWN↔SERVER_UP,
// NETWORK_SPIKE_START↔NETWORK_SPIKE_END).
type EventInjection struct {
	EventID  string
	Family   EventFamily
	TargetID string
	StartS   float64
	EndS     float64
	SpikeS   float64 // > 0 for network events only
}

// Scenario is the complete, pre-validated engine input.
type Scenario struct {
	Workload WorkloadConfig
	Topology TopologyGraph
	Settings SimulationSettings
	Events   []EventInjection
}

// Mandatory baseline sample/event metrics.
const (
	MetricReadyQueueLen         = "ready_queue_len"
	MetricEventLoopIOSleep      = "event_loop_io_sleep"
	MetricRAMInUse              = "ram_in_use"
	MetricEdgeConcurrentConn    = "edge_concurrent_connection"
	MetricRqsClock               = "rqs_clock"
)

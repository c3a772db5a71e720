// Package engine wires every lower layer — clock, rng, actor mailboxes,
// resources, topology, workload, event injection, runtime actors, and
// metrics — into the single build→start→run sequence a scenario
// executes under.
package engine

import (
	"github.com/asyncflow-sim/asyncflow/pkg/actor"
	"github.com/asyncflow-sim/asyncflow/pkg/clock"
	"github.com/asyncflow-sim/asyncflow/pkg/common"
	"github.com/asyncflow-sim/asyncflow/pkg/inject"
	"github.com/asyncflow-sim/asyncflow/pkg/metrics"
	"github.com/asyncflow-sim/asyncflow/pkg/rng"
	"github.com/asyncflow-sim/asyncflow/pkg/runtime"
	"github.com/asyncflow-sim/asyncflow/pkg/topology"
	"github.com/asyncflow-sim/asyncflow/pkg/workload"
)

// Option configures a Runner at construction time.
type Option func(*runnerConfig)

type runnerConfig struct {
	seed   *uint64
	logger *common.Logger
}

// WithSeed pins the run's single rng.Stream to a reproducible seed.
// Without it the runner falls back to common.DefaultSeedSource.
func WithSeed(seed uint64) Option {
	return func(c *runnerConfig) { c.seed = &seed }
}

// WithLogger overrides the default logger.
func WithLogger(log *common.Logger) Option {
	return func(c *runnerConfig) { c.logger = log }
}

// Runner builds and executes one scenario.
type Runner struct {
	scenario *topology.Scenario
	cfg      runnerConfig
}

// NewRunner validates sc and returns a Runner ready to Run. Validation
// failures are returned immediately rather than deferred to Run, since
// they are static properties of the scenario, not the execution.
func NewRunner(sc *topology.Scenario, opts ...Option) (*Runner, error) {
	if err := topology.Validate(sc); err != nil {
		return nil, err
	}
	cfg := runnerConfig{logger: common.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Runner{scenario: sc, cfg: cfg}, nil
}

// Run builds the actor graph, starts every fiber, and drives the
// scheduler to the scenario's horizon.
func (r *Runner) Run() (*Results, error) {
	sc := r.scenario
	sched := clock.New()

	seed := common.DefaultSeedSource()
	if r.cfg.seed != nil {
		seed = *r.cfg.seed
	}
	stream := rng.New(seed)

	mailboxes := make(map[string]*actor.Mailbox[*topology.RequestState])
	mailboxes[sc.Topology.Client.ID] = actor.New[*topology.RequestState](sched, 0)
	if sc.Topology.LoadBalancer != nil {
		mailboxes[sc.Topology.LoadBalancer.ID] = actor.New[*topology.RequestState](sched, 0)
	}
	for _, srvCfg := range sc.Topology.Servers {
		mailboxes[srvCfg.ID] = actor.New[*topology.RequestState](sched, 0)
	}

	liveEdges := topology.NewLiveEdgeSet()
	edgeByServer := make(map[string]topology.EdgeHandle)
	injector := inject.New(sched, sc.Events, liveEdges, edgeByServer)

	edgesBySource := make(map[string][]*runtime.EdgeRuntime)
	edgeGauges := make([]metrics.Gauge, 0, len(sc.Topology.Edges))
	lbID := ""
	if sc.Topology.LoadBalancer != nil {
		lbID = sc.Topology.LoadBalancer.ID
	}
	for _, ec := range sc.Topology.Edges {
		target, ok := mailboxes[ec.Target]
		if !ok {
			continue // a validated graph only targets nodes with a mailbox
		}
		edge := runtime.NewEdgeRuntime(ec, sched, stream, injector, target)
		edgesBySource[ec.Source] = append(edgesBySource[ec.Source], edge)
		edgeGauges = append(edgeGauges, metrics.Gauge{
			Name:      topology.MetricEdgeConcurrentConn,
			Component: ec.ID,
			Value:     func() float64 { return float64(edge.ConcurrentConnections()) },
		})
		if lbID != "" && ec.Source == lbID {
			edgeByServer[ec.Target] = edge
			liveEdges.Insert(edge)
		}
	}

	eventStore := metrics.NewEventStore(sc.Settings.EnabledEventMetrics)

	servers := make([]*runtime.ServerRuntime, 0, len(sc.Topology.Servers))
	sampleGauges := append([]metrics.Gauge{}, edgeGauges...)
	for _, srvCfg := range sc.Topology.Servers {
		returnEdges := edgesBySource[srvCfg.ID]
		if len(returnEdges) == 0 {
			continue // unreachable for a validated scenario: every server declares its return edge
		}
		srv := runtime.NewServerRuntime(srvCfg, sched, stream, mailboxes[srvCfg.ID], returnEdges[0], r.cfg.logger)
		servers = append(servers, srv)
		sampleGauges = append(sampleGauges,
			metrics.Gauge{Name: topology.MetricReadyQueueLen, Component: srvCfg.ID, Value: srv.ReadyQueueLen},
			metrics.Gauge{Name: topology.MetricEventLoopIOSleep, Component: srvCfg.ID, Value: srv.EventLoopIOSleep},
			metrics.Gauge{Name: topology.MetricRAMInUse, Component: srvCfg.ID, Value: srv.RAMInUse},
		)
	}

	var lb *runtime.LoadBalancerRuntime
	if sc.Topology.LoadBalancer != nil {
		lb = runtime.NewLoadBalancerRuntime(*sc.Topology.LoadBalancer, sched, liveEdges, mailboxes[sc.Topology.LoadBalancer.ID], r.cfg.logger)
	}

	clientOutEdges := edgesBySource[sc.Topology.Client.ID]
	var clientFirstEdge runtime.Transporter
	if len(clientOutEdges) > 0 {
		clientFirstEdge = clientOutEdges[0]
	}
	client := runtime.NewClientRuntime(sc.Topology.Client.ID, sched, mailboxes[sc.Topology.Client.ID], clientFirstEdge, eventStore.RecordRequest, r.cfg.logger)

	genEdges := edgesBySource[sc.Workload.ID]
	var genFirstEdge runtime.Transporter
	if len(genEdges) > 0 {
		genFirstEdge = genEdges[0]
	}
	sampler := workload.New(sc.Workload, sc.Settings.TotalSimulationTimeS, stream)
	generator := runtime.NewGeneratorRuntime(sc.Workload.ID, sched, sampler, genFirstEdge, r.cfg.logger)

	collector := metrics.NewSampledCollector(sched, sc.Settings.SamplePeriodS, sc.Settings.EnabledSampleMetrics, sampleGauges)
	analyzer := metrics.NewAnalyzer(eventStore, collector)

	injector.Start()
	for _, srv := range servers {
		srv.Start()
	}
	if lb != nil {
		lb.Start()
	}
	client.Start()
	collector.Start()
	generator.Start()

	runErr := sched.RunUntil(sc.Settings.TotalSimulationTimeS)
	if runErr != nil {
		return nil, newRunError(sched.Now(), runErr)
	}

	serversOrder := make([]string, len(sc.Topology.Servers))
	for i, srvCfg := range sc.Topology.Servers {
		serversOrder[i] = srvCfg.ID
	}

	records := eventStore.Records()
	return &Results{
		Latency:           analyzer.LatencyStats(),
		Throughput:        analyzer.ThroughputSeries(metrics.DefaultThroughputWindowS),
		Sampled:           analyzer.SampledMetrics(),
		Records:           records,
		ServersOrder:      serversOrder,
		RequestsCompleted: len(records),
		EndedAtS:          sched.Now(),
		analyzer:          analyzer,
	}, nil
}

package topology

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func baseScenario() *Scenario {
	ep := Endpoint{Name: "/x"}
	step, _ := NewCPUStep(StepKindCPUBound, 0.001)
	ep.Steps = []Step{step}
	return &Scenario{
		Workload: WorkloadConfig{
			ID:                         "gen",
			AvgActiveUsers:             RVConfig{Distribution: DistPoisson, Mean: 1},
			AvgRequestPerMinutePerUser: RVConfig{Distribution: DistPoisson, Mean: 1},
			UserSamplingWindowS:        10,
		},
		Topology: TopologyGraph{
			Client:  ClientConfig{ID: "client"},
			Servers: []ServerConfig{{ID: "srv1", CPUCores: 1, RAMMb: 256, Endpoints: []Endpoint{ep}}},
			Edges: []EdgeConfig{
				{ID: "e1", Source: "gen", Target: "client", Latency: RVConfig{Distribution: DistUniform, Mean: 0.01}},
				{ID: "e2", Source: "client", Target: "srv1", Latency: RVConfig{Distribution: DistUniform, Mean: 0.01}},
				{ID: "e3", Source: "srv1", Target: "client", Latency: RVConfig{Distribution: DistUniform, Mean: 0.01}},
			},
		},
		Settings: SimulationSettings{
			TotalSimulationTimeS: 10,
			SamplePeriodS:        0.01,
			EnabledSampleMetrics: map[string]struct{}{
				MetricReadyQueueLen: {}, MetricEventLoopIOSleep: {}, MetricRAMInUse: {}, MetricEdgeConcurrentConn: {},
			},
			EnabledEventMetrics: map[string]struct{}{MetricRqsClock: {}},
		},
	}
}

func TestValidate_HappyPath(t *testing.T) {
	require.NoError(t, Validate(baseScenario()))
}

func TestValidate_RejectsSelfLoop(t *testing.T) {
	sc := baseScenario()
	sc.Topology.Edges[0].Target = sc.Topology.Edges[0].Source
	require.Error(t, Validate(sc))
}

func TestValidate_RejectsFanOutWithoutLB(t *testing.T) {
	sc := baseScenario()
	sc.Topology.Edges = append(sc.Topology.Edges, EdgeConfig{
		ID: "e4", Source: "client", Target: "srv1", Latency: RVConfig{Distribution: DistUniform, Mean: 0.01},
	})
	require.Error(t, Validate(sc))
}

func TestValidate_RejectsAllServersDown(t *testing.T) {
	sc := baseScenario()
	sc.Events = []EventInjection{
		{EventID: "ev1", Family: FamilyServerOutage, TargetID: "srv1", StartS: 1, EndS: 5},
	}
	require.Error(t, Validate(sc))
}

func TestValidate_RejectsNonPoissonUserRate(t *testing.T) {
	sc := baseScenario()
	sc.Workload.AvgRequestPerMinutePerUser.Distribution = DistNormal
	require.Error(t, Validate(sc))
}

func TestLiveEdgeSet_RoundRobinRejoinGoesToEnd(t *testing.T) {
	s := NewLiveEdgeSet()
	s.Insert(fakeHandle{"a"})
	s.Insert(fakeHandle{"b"})
	s.Remove("a")
	require.Equal(t, 1, s.Len())
	s.Insert(fakeHandle{"a"})
	s.MoveToEnd("a")
	all := s.All()
	require.Equal(t, []string{"b", "a"}, []string{all[0].EdgeID(), all[1].EdgeID()})
}

type fakeHandle struct{ id string }

func (f fakeHandle) EdgeID() string             { return f.id }
func (f fakeHandle) ConcurrentConnections() int { return 0 }

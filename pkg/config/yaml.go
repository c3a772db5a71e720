// Package config loads a YAML scenario document into topology.Scenario,
// the engine's native input shape. Kept as a thin adapter so the engine
// itself never imports a serialization library.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/asyncflow-sim/asyncflow/pkg/common"
	"github.com/asyncflow-sim/asyncflow/pkg/topology"
)

type rvDoc struct {
	Distribution string  `yaml:"distribution"`
	Mean         float64 `yaml:"mean"`
	Variance     float64 `yaml:"variance"`
}

func (d rvDoc) toRVConfig() topology.RVConfig {
	return topology.RVConfig{Distribution: topology.Distribution(d.Distribution), Mean: d.Mean, Variance: d.Variance}
}

type stepDoc struct {
	Kind  string  `yaml:"kind"`
	TimeS float64 `yaml:"time_s"`
	Mb    uint32  `yaml:"mb"`
}

type endpointDoc struct {
	Name  string    `yaml:"name"`
	Steps []stepDoc `yaml:"steps"`
}

type serverDoc struct {
	ID        string        `yaml:"id"`
	CPUCores  int           `yaml:"cpu_cores"`
	RAMMb     int           `yaml:"ram_mb"`
	Endpoints []endpointDoc `yaml:"endpoints"`
}

type loadBalancerDoc struct {
	ID              string   `yaml:"id"`
	Algorithm       string   `yaml:"algorithm"`
	CoveredServers  []string `yaml:"covered_servers"`
}

type edgeDoc struct {
	ID          string  `yaml:"id"`
	Source      string  `yaml:"source"`
	Target      string  `yaml:"target"`
	Latency     rvDoc   `yaml:"latency"`
	DropoutRate float64 `yaml:"dropout_rate"`
}

type eventDoc struct {
	ID       string  `yaml:"id"`
	Family   string  `yaml:"family"`
	TargetID string  `yaml:"target_id"`
	StartS   float64 `yaml:"start_s"`
	EndS     float64 `yaml:"end_s"`
	SpikeS   float64 `yaml:"spike_s"`
}

type scenarioDoc struct {
	Workload struct {
		ID                         string `yaml:"id"`
		AvgActiveUsers             rvDoc  `yaml:"avg_active_users"`
		AvgRequestPerMinutePerUser rvDoc  `yaml:"avg_request_per_minute_per_user"`
		UserSamplingWindowS        float64 `yaml:"user_sampling_window_s"`
	} `yaml:"workload"`

	Topology struct {
		Client struct {
			ID string `yaml:"id"`
		} `yaml:"client"`
		Servers      []serverDoc      `yaml:"servers"`
		LoadBalancer *loadBalancerDoc `yaml:"load_balancer"`
		Edges        []edgeDoc        `yaml:"edges"`
	} `yaml:"topology"`

	Settings struct {
		TotalSimulationTimeS float64  `yaml:"total_simulation_time_s"`
		SamplePeriodS        float64  `yaml:"sample_period_s"`
		EnabledSampleMetrics []string `yaml:"enabled_sample_metrics"`
		EnabledEventMetrics  []string `yaml:"enabled_event_metrics"`
	} `yaml:"settings"`

	Events []eventDoc `yaml:"events"`
}

// Load reads and parses a scenario YAML file. Apart from rejecting
// malformed steps, it performs no semantic validation — callers run
// topology.Validate on the result.
func Load(path string) (*topology.Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, common.Wrap(common.KindConfiguration, path, err)
	}

	var doc scenarioDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, common.Wrap(common.KindConfiguration, path, err)
	}

	return doc.toScenario(path)
}

func (d scenarioDoc) toScenario(path string) (*topology.Scenario, error) {
	sc := &topology.Scenario{
		Workload: topology.WorkloadConfig{
			ID:                         d.Workload.ID,
			AvgActiveUsers:             d.Workload.AvgActiveUsers.toRVConfig(),
			AvgRequestPerMinutePerUser: d.Workload.AvgRequestPerMinutePerUser.toRVConfig(),
			UserSamplingWindowS:        d.Workload.UserSamplingWindowS,
		},
		Settings: topology.SimulationSettings{
			TotalSimulationTimeS: d.Settings.TotalSimulationTimeS,
			SamplePeriodS:        d.Settings.SamplePeriodS,
			EnabledSampleMetrics: toSet(d.Settings.EnabledSampleMetrics),
			EnabledEventMetrics:  toSet(d.Settings.EnabledEventMetrics),
		},
	}

	sc.Topology.Client = topology.ClientConfig{ID: d.Topology.Client.ID}

	for _, s := range d.Topology.Servers {
		eps := make([]topology.Endpoint, 0, len(s.Endpoints))
		for _, ep := range s.Endpoints {
			built, err := toEndpoint(ep)
			if err != nil {
				return nil, common.Wrap(common.KindConfiguration, path, err)
			}
			eps = append(eps, built)
		}
		sc.Topology.Servers = append(sc.Topology.Servers, topology.ServerConfig{
			ID: s.ID, CPUCores: s.CPUCores, RAMMb: s.RAMMb, Endpoints: eps,
		})
	}

	if d.Topology.LoadBalancer != nil {
		lb := d.Topology.LoadBalancer
		covered := make(map[string]struct{}, len(lb.CoveredServers))
		for _, id := range lb.CoveredServers {
			covered[id] = struct{}{}
		}
		sc.Topology.LoadBalancer = &topology.LoadBalancerConfig{
			ID: lb.ID, Algorithm: topology.LBAlgorithm(lb.Algorithm), CoveredServers: covered,
		}
	}

	for _, e := range d.Topology.Edges {
		sc.Topology.Edges = append(sc.Topology.Edges, topology.EdgeConfig{
			ID: e.ID, Source: e.Source, Target: e.Target,
			Latency: e.Latency.toRVConfig(), DropoutRate: e.DropoutRate,
		})
	}

	for _, ev := range d.Events {
		sc.Events = append(sc.Events, topology.EventInjection{
			EventID: ev.ID, Family: topology.EventFamily(ev.Family), TargetID: ev.TargetID,
			StartS: ev.StartS, EndS: ev.EndS, SpikeS: ev.SpikeS,
		})
	}

	return sc, nil
}

// toEndpoint converts an endpoint document into its topology form,
// surfacing the first malformed step as a configuration error rather
// than silently dropping it.
func toEndpoint(ep endpointDoc) (topology.Endpoint, error) {
	steps := make([]topology.Step, 0, len(ep.Steps))
	for _, sd := range ep.Steps {
		var (
			st  topology.Step
			err error
		)
		switch sd.Kind {
		case "ram":
			st, err = topology.NewRAMStep(sd.Mb)
		case "io_llm", "io_wait", "io_db", "io_cache", "io_task_spawn":
			st, err = topology.NewIOStep(topology.StepKind(sd.Kind), sd.TimeS)
		default:
			st, err = topology.NewCPUStep(topology.StepKind(sd.Kind), sd.TimeS)
		}
		if err != nil {
			return topology.Endpoint{}, common.Wrap(common.KindConfiguration, ep.Name, err)
		}
		steps = append(steps, st)
	}
	return topology.Endpoint{Name: ep.Name, Steps: steps}, nil
}

func toSet(names []string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out
}

package topology

import (
	"github.com/asyncflow-sim/asyncflow/pkg/common"
)

// Validate checks the full graph + workload + settings + events
// preconditions, returning the first violation wrapped with
// common.KindValidation. The engine's Runner treats a non-nil return as
// a precondition failure and refuses to build.
func Validate(sc *Scenario) error {
	if err := validateWorkload(sc.Workload); err != nil {
		return err
	}
	if err := validateSettings(sc.Settings); err != nil {
		return err
	}
	if err := validateGraph(sc.Topology); err != nil {
		return err
	}
	if err := validateEvents(sc); err != nil {
		return err
	}
	return nil
}

func validateWorkload(w WorkloadConfig) error {
	if w.AvgRequestPerMinutePerUser.Distribution != DistPoisson {
		return common.Wrapf(common.KindValidation, w.ID,
			"avg_request_per_minute_per_user must be Poisson, got %s", w.AvgRequestPerMinutePerUser.Distribution)
	}
	switch w.AvgActiveUsers.Distribution {
	case DistPoisson, DistNormal:
	default:
		return common.Wrapf(common.KindValidation, w.ID,
			"avg_active_users must be Poisson or Normal, got %s", w.AvgActiveUsers.Distribution)
	}
	if w.UserSamplingWindowS < common.MinUserSamplingWindowS || w.UserSamplingWindowS > common.MaxUserSamplingWindowS {
		return common.Wrapf(common.KindValidation, w.ID,
			"user_sampling_window must be in [%g,%g], got %g",
			common.MinUserSamplingWindowS, common.MaxUserSamplingWindowS, w.UserSamplingWindowS)
	}
	return nil
}

func validateSettings(s SimulationSettings) error {
	if s.TotalSimulationTimeS < common.MinTotalSimulationTimeS {
		return common.Wrapf(common.KindValidation, "settings",
			"total_simulation_time must be >= %g, got %g", common.MinTotalSimulationTimeS, s.TotalSimulationTimeS)
	}
	if s.SamplePeriodS < common.MinSamplePeriodS || s.SamplePeriodS > common.MaxSamplePeriodS {
		return common.Wrapf(common.KindValidation, "settings",
			"sample_period_s must be in [%g,%g], got %g", common.MinSamplePeriodS, common.MaxSamplePeriodS, s.SamplePeriodS)
	}
	required := []string{MetricReadyQueueLen, MetricEventLoopIOSleep, MetricRAMInUse, MetricEdgeConcurrentConn}
	for _, m := range required {
		if _, ok := s.EnabledSampleMetrics[m]; !ok {
			return common.Wrapf(common.KindValidation, "settings", "enabled_sample_metrics missing mandatory metric %q", m)
		}
	}
	if _, ok := s.EnabledEventMetrics[MetricRqsClock]; !ok {
		return common.Wrapf(common.KindValidation, "settings", "enabled_event_metrics missing mandatory metric %q", MetricRqsClock)
	}
	return nil
}

func validateGraph(g TopologyGraph) error {
	if g.Client.ID == "" {
		return common.Wrapf(common.KindValidation, "topology", "nodes.client is required")
	}

	serverIDs := make(map[string]struct{}, len(g.Servers))
	for _, s := range g.Servers {
		if _, dup := serverIDs[s.ID]; dup {
			return common.Wrapf(common.KindValidation, s.ID, "duplicate server id")
		}
		serverIDs[s.ID] = struct{}{}
		if s.CPUCores < 1 {
			return common.Wrapf(common.KindValidation, s.ID, "cpu_cores must be >= 1, got %d", s.CPUCores)
		}
		if s.RAMMb < common.MinServerRAMMb {
			return common.Wrapf(common.KindValidation, s.ID, "ram_mb must be >= %d, got %d", common.MinServerRAMMb, s.RAMMb)
		}
		if len(s.Endpoints) == 0 {
			return common.Wrapf(common.KindValidation, s.ID, "server must declare at least one endpoint")
		}
	}

	declared := make(map[string]struct{}, len(serverIDs)+2)
	for id := range serverIDs {
		declared[id] = struct{}{}
	}
	declared[g.Client.ID] = struct{}{}
	if g.LoadBalancer != nil {
		declared[g.LoadBalancer.ID] = struct{}{}
	}

	edgeIDs := make(map[string]struct{}, len(g.Edges))
	outDegree := make(map[string]int, len(declared))
	for _, e := range g.Edges {
		if _, dup := edgeIDs[e.ID]; dup {
			return common.Wrapf(common.KindValidation, e.ID, "duplicate edge id")
		}
		edgeIDs[e.ID] = struct{}{}

		if e.Source == e.Target {
			return common.Wrapf(common.KindValidation, e.ID, "self-loops are forbidden (%s -> %s)", e.Source, e.Target)
		}
		if _, ok := declared[e.Target]; !ok {
			return common.Wrapf(common.KindValidation, e.ID, "edge target %q is not a declared node", e.Target)
		}
		if e.Latency.Mean <= 0 {
			return common.Wrapf(common.KindValidation, e.ID, "latency mean must be > 0, got %g", e.Latency.Mean)
		}
		if e.DropoutRate < 0 || e.DropoutRate > 1 {
			return common.Wrapf(common.KindValidation, e.ID, "dropout_rate must be in [0,1], got %g", e.DropoutRate)
		}
		if _, ok := declared[e.Source]; ok {
			outDegree[e.Source]++
		}
	}

	for node, n := range outDegree {
		if n <= 1 {
			continue
		}
		if g.LoadBalancer != nil && node == g.LoadBalancer.ID {
			continue
		}
		return common.Wrapf(common.KindValidation, node, "only the load balancer may have more than one outgoing edge, found %d", n)
	}

	if g.LoadBalancer != nil {
		lb := g.LoadBalancer
		lbEdgeTargets := make(map[string]struct{})
		for _, e := range g.Edges {
			if e.Source == lb.ID {
				lbEdgeTargets[e.Target] = struct{}{}
			}
		}
		for covered := range lb.CoveredServers {
			if _, ok := serverIDs[covered]; !ok {
				return common.Wrapf(common.KindValidation, lb.ID, "server_covered references undeclared server %q", covered)
			}
			if _, ok := lbEdgeTargets[covered]; !ok {
				return common.Wrapf(common.KindValidation, lb.ID, "covered server %q has no load-balancer edge", covered)
			}
		}
	}

	return nil
}

func validateEvents(sc *Scenario) error {
	ids := make(map[string]struct{}, len(sc.Events))
	for _, ev := range sc.Events {
		if _, dup := ids[ev.EventID]; dup {
			return common.Wrapf(common.KindValidation, ev.EventID, "duplicate event id")
		}
		ids[ev.EventID] = struct{}{}

		if ev.StartS >= ev.EndS {
			return common.Wrapf(common.KindValidation, ev.EventID, "t_start (%g) must be < t_end (%g)", ev.StartS, ev.EndS)
		}
		if ev.StartS < 0 || ev.StartS > sc.Settings.TotalSimulationTimeS {
			return common.Wrapf(common.KindValidation, ev.EventID, "t_start out of [0, total_simulation_time]")
		}
		if ev.EndS > sc.Settings.TotalSimulationTimeS {
			return common.Wrapf(common.KindValidation, ev.EventID, "t_end exceeds total_simulation_time")
		}

		switch ev.Family {
		case FamilyNetworkSpike:
			if ev.SpikeS <= 0 {
				return common.Wrapf(common.KindValidation, ev.EventID, "spike_s must be > 0 for network spike events")
			}
			if _, ok := edgeExists(sc.Topology, ev.TargetID); !ok {
				return common.Wrapf(common.KindValidation, ev.EventID, "target %q is not a declared edge", ev.TargetID)
			}
		case FamilyServerOutage:
			found := false
			for _, s := range sc.Topology.Servers {
				if s.ID == ev.TargetID {
					found = true
					break
				}
			}
			if !found {
				return common.Wrapf(common.KindValidation, ev.EventID, "target %q is not a declared server", ev.TargetID)
			}
		default:
			return common.Wrapf(common.KindValidation, ev.EventID, "unknown event family %q", ev.Family)
		}
	}

	if allServersDownAt(sc, 0) {
		return common.Wrapf(common.KindValidation, "events", "not all servers may be simultaneously down")
	}
	return validateNoAllDownWindow(sc)
}

func edgeExists(g TopologyGraph, id string) (EdgeConfig, bool) {
	for _, e := range g.Edges {
		if e.ID == id {
			return e, true
		}
	}
	return EdgeConfig{}, false
}

// allServersDownAt is a cheap boundary check; the exhaustive sweep lives
// in validateNoAllDownWindow.
func allServersDownAt(sc *Scenario, t float64) bool {
	if len(sc.Topology.Servers) == 0 {
		return false
	}
	for _, s := range sc.Topology.Servers {
		if !serverDownAt(sc.Events, s.ID, t) {
			return false
		}
	}
	return true
}

func serverDownAt(events []EventInjection, serverID string, t float64) bool {
	for _, ev := range events {
		if ev.Family == FamilyServerOutage && ev.TargetID == serverID && t >= ev.StartS && t < ev.EndS {
			return true
		}
	}
	return false
}

// validateNoAllDownWindow sweeps every outage boundary timestamp — the
// only instants at which the down-set can change — checking that the
// servers' down-intervals never all overlap at once.
func validateNoAllDownWindow(sc *Scenario) error {
	if len(sc.Topology.Servers) == 0 {
		return nil
	}
	boundaries := map[float64]struct{}{0: {}}
	for _, ev := range sc.Events {
		if ev.Family == FamilyServerOutage {
			boundaries[ev.StartS] = struct{}{}
			boundaries[ev.EndS] = struct{}{}
		}
	}
	for t := range boundaries {
		if allServersDownAt(sc, t) {
			return common.Wrapf(common.KindValidation, "events", "all servers are down at t=%g", t)
		}
	}
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asyncflow-sim/asyncflow/pkg/topology"
)

const validScenarioYAML = `
workload:
  id: gen
  avg_active_users:
    distribution: poisson
    mean: 50
  avg_request_per_minute_per_user:
    distribution: poisson
    mean: 2
  user_sampling_window_s: 10

topology:
  client:
    id: client
  servers:
    - id: srv1
      cpu_cores: 2
      ram_mb: 512
      endpoints:
        - name: handle
          steps:
            - kind: cpu_bound_operation
              time_s: 0.05
            - kind: io_db
              time_s: 0.02
  edges:
    - id: e-gen-client
      source: gen
      target: client
      latency:
        distribution: uniform
        mean: 0.001
        variance: 0.0005
      dropout_rate: 0
    - id: e-client-srv1
      source: client
      target: srv1
      latency:
        distribution: uniform
        mean: 0.001
        variance: 0.0005
      dropout_rate: 0
    - id: e-srv1-client
      source: srv1
      target: client
      latency:
        distribution: uniform
        mean: 0.001
        variance: 0.0005
      dropout_rate: 0

settings:
  total_simulation_time_s: 30
  sample_period_s: 0.01
  enabled_sample_metrics:
    - ready_queue_len
    - event_loop_io_sleep
    - ram_in_use
    - edge_concurrent_connection
  enabled_event_metrics:
    - rqs_clock
`

const malformedStepYAML = `
workload:
  id: gen
  avg_active_users:
    distribution: poisson
    mean: 50
  avg_request_per_minute_per_user:
    distribution: poisson
    mean: 2
  user_sampling_window_s: 10

topology:
  client:
    id: client
  servers:
    - id: srv1
      cpu_cores: 2
      ram_mb: 512
      endpoints:
        - name: handle
          steps:
            - kind: cpu_bound_operation
              time_s: 0

settings:
  total_simulation_time_s: 30
  sample_period_s: 0.01
`

func writeTempYAML(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad_ValidScenarioRoundTrips(t *testing.T) {
	path := writeTempYAML(t, validScenarioYAML)

	sc, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, sc)

	require.Equal(t, "gen", sc.Workload.ID)
	require.Equal(t, topology.DistPoisson, sc.Workload.AvgActiveUsers.Distribution)
	require.Equal(t, 50.0, sc.Workload.AvgActiveUsers.Mean)

	require.Equal(t, "client", sc.Topology.Client.ID)
	require.Len(t, sc.Topology.Servers, 1)
	srv := sc.Topology.Servers[0]
	require.Equal(t, "srv1", srv.ID)
	require.Equal(t, 2, srv.CPUCores)
	require.Len(t, srv.Endpoints, 1)
	require.Len(t, srv.Endpoints[0].Steps, 2)
	require.Equal(t, topology.StepCPU, srv.Endpoints[0].Steps[0].Variant)
	require.Equal(t, topology.StepIO, srv.Endpoints[0].Steps[1].Variant)

	require.Len(t, sc.Topology.Edges, 3)
	_, hasRqsClock := sc.Settings.EnabledEventMetrics[topology.MetricRqsClock]
	require.True(t, hasRqsClock)

	require.NoError(t, topology.Validate(sc))
}

func TestLoad_MalformedStepSurfacesConfigurationError(t *testing.T) {
	path := writeTempYAML(t, malformedStepYAML)

	sc, err := Load(path)
	require.Error(t, err)
	require.Nil(t, sc)
}

func TestLoad_MissingFileSurfacesConfigurationError(t *testing.T) {
	sc, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
	require.Nil(t, sc)
}

func TestLoad_InvalidYAMLSurfacesConfigurationError(t *testing.T) {
	path := writeTempYAML(t, "not: [valid: yaml")

	sc, err := Load(path)
	require.Error(t, err)
	require.Nil(t, sc)
}

package topology

// LBAlgorithm selects the load-balancing strategy.
type LBAlgorithm string

const (
	AlgorithmRoundRobin       LBAlgorithm = "round_robin"
	AlgorithmLeastConnection  LBAlgorithm = "least_connection"
)

// ServerConfig is a declared server node.
type ServerConfig struct {
	ID        string
	CPUCores  int
	RAMMb     int
	Endpoints []Endpoint
}

// LoadBalancerConfig is the optional declared load balancer.
type LoadBalancerConfig struct {
	ID             string
	Algorithm      LBAlgorithm
	CoveredServers map[string]struct{}
}

// EdgeConfig is a directed link between two declared nodes.
type EdgeConfig struct {
	ID          string
	Source      string
	Target      string
	Latency     RVConfig
	DropoutRate float64
}

// ClientConfig is the single declared client node.
type ClientConfig struct {
	ID string
}

// TopologyGraph is the nodes/edges half of the scenario.
type TopologyGraph struct {
	Client        ClientConfig
	Servers       []ServerConfig
	LoadBalancer  *LoadBalancerConfig
	Edges         []EdgeConfig
}

// EdgeHandle is the read-only view the load balancer and event injector
// share of a running edge — decoupled from pkg/runtime's concrete
// EdgeRuntime to avoid an import cycle (topology is a leaf package).
type EdgeHandle interface {
	EdgeID() string
	ConcurrentConnections() int
}

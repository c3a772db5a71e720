package topology

import "fmt"

// StepVariant is the discriminant of a Step.
type StepVariant int

const (
	StepCPU StepVariant = iota
	StepRAM
	StepIO
)

// StepKind tags a step for observability; behavior depends only on
// Variant.
type StepKind string

const (
	StepKindInitialParsing StepKind = "initial_parsing"
	StepKindCPUBound       StepKind = "cpu_bound_operation"
	StepKindRAM            StepKind = "ram"
	StepKindIOTaskSpawn    StepKind = "io_task_spawn"
	StepKindIOLLM          StepKind = "io_llm"
	StepKindIOWait         StepKind = "io_wait"
	StepKindIODB           StepKind = "io_db"
	StepKindIOCache        StepKind = "io_cache"
)

// Step is one entry of an Endpoint's step chain.
type Step struct {
	Variant StepVariant
	Kind    StepKind
	TimeS   float64 // Cpu/Io
	Mb      uint32  // Ram
}

// NewCPUStep builds a validated Cpu step (time_s > 0).
func NewCPUStep(kind StepKind, timeS float64) (Step, error) {
	if timeS <= 0 {
		return Step{}, fmt.Errorf("cpu step time_s must be > 0, got %g", timeS)
	}
	return Step{Variant: StepCPU, Kind: kind, TimeS: timeS}, nil
}

// NewIOStep builds a validated Io step (time_s > 0).
func NewIOStep(kind StepKind, timeS float64) (Step, error) {
	if timeS <= 0 {
		return Step{}, fmt.Errorf("io step time_s must be > 0, got %g", timeS)
	}
	return Step{Variant: StepIO, Kind: kind, TimeS: timeS}, nil
}

// NewRAMStep builds a validated Ram step (mb > 0).
func NewRAMStep(mb uint32) (Step, error) {
	if mb == 0 {
		return Step{}, fmt.Errorf("ram step mb must be > 0")
	}
	return Step{Variant: StepRAM, Kind: StepKindRAM, Mb: mb}, nil
}

// Endpoint is an ordered step chain, keyed by a lowercase canonical name.
type Endpoint struct {
	Name  string
	Steps []Step
}

// TotalRAMMb sums the Ram steps' contributions — the amount reserved
// atomically before executing any step.
func (e Endpoint) TotalRAMMb() int {
	total := 0
	for _, s := range e.Steps {
		if s.Variant == StepRAM {
			total += int(s.Mb)
		}
	}
	return total
}

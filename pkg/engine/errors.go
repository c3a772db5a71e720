package engine

import (
	"errors"
	"fmt"

	"github.com/asyncflow-sim/asyncflow/pkg/common"
)

// RunError is the structured diagnostic a failed run returns: the
// error taxonomy kind, the entity that failed, the virtual time it
// failed at, and the underlying cause.
type RunError struct {
	Kind   common.ErrorKind
	Entity string
	AtS    float64
	Cause  error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run failed at t=%g: %s[%s]: %v", e.AtS, e.Kind, e.Entity, e.Cause)
}

func (e *RunError) Unwrap() error { return e.Cause }

// newRunError classifies cause by unwrapping it to a *common.RegistryError
// if possible, falling back to KindSimulationConsistency for causes the
// scheduler raised without a registered kind.
func newRunError(atS float64, cause error) *RunError {
	var reg *common.RegistryError
	if errors.As(cause, &reg) {
		return &RunError{Kind: reg.Kind, Entity: reg.Entity, AtS: atS, Cause: cause}
	}
	return &RunError{Kind: common.KindSimulationConsistency, Entity: "scheduler", AtS: atS, Cause: cause}
}

package common

import "fmt"

// ErrorKind is a classification, not a concrete error type, so callers
// can branch on kind without type assertions into every concrete error
// struct.
type ErrorKind string

const (
	KindValidation           ErrorKind = "validation"
	KindConfiguration        ErrorKind = "configuration"
	KindSimulationConsistency ErrorKind = "simulation_consistency"
	KindSampling             ErrorKind = "sampling"
	KindDelivery             ErrorKind = "delivery"
)

// RegistryError wraps a cause with its taxonomy kind and the entity/field
// it concerns, centralizing sentinel wrapping instead of ad hoc
// fmt.Errorf at every call site.
type RegistryError struct {
	Kind   ErrorKind
	Entity string
	Cause  error
}

func (e *RegistryError) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s[%s]: %v", e.Kind, e.Entity, e.Cause)
}

func (e *RegistryError) Unwrap() error { return e.Cause }

// Wrap builds a RegistryError of the given kind for the named entity.
func Wrap(kind ErrorKind, entity string, cause error) error {
	if cause == nil {
		return nil
	}
	return &RegistryError{Kind: kind, Entity: entity, Cause: cause}
}

// Wrapf is Wrap with a formatted cause.
func Wrapf(kind ErrorKind, entity, format string, args ...interface{}) error {
	return Wrap(kind, entity, fmt.Errorf(format, args...))
}

// Package topology holds the data model — requests, hops, endpoints/steps,
// servers, load balancers, edges, the live edge set — plus the scenario
// aggregate and its graph validation.
package topology

// ComponentKind tags which actor kind recorded a Hop. Only node actors
// append hops; edges deliver without stamping their own entry.
type ComponentKind string

const (
	KindGenerator     ComponentKind = "generator"
	KindClient        ComponentKind = "client"
	KindServer        ComponentKind = "server"
	KindLoadBalancer  ComponentKind = "load_balancer"
)

// Phase is the supplemental explicit tag described in SPEC_FULL.md's
// "Explicit request phase tag" — additive observability alongside the
// original history[-2] rule, which remains authoritative for routing.
type Phase string

const (
	PhaseOutbound Phase = "outbound"
	PhaseReturn   Phase = "return"
)

// Hop is a (component_kind, component_id, timestamp) record appended on
// arrival at each node actor. Kind, ComponentID and Timestamp never
// change after the append; only the latest hop's Phase can be retagged,
// via SetLastPhase.
type Hop struct {
	Kind      ComponentKind
	ComponentID string
	Timestamp float64
	Phase     Phase
}

// RequestState carries a request through the system.
type RequestState struct {
	ID          uint64
	InitialTime float64
	FinishTime  *float64
	History     []Hop
}

// NewRequestState creates a request at creation time t, stamping the
// generator hop as history[0].
func NewRequestState(id uint64, generatorID string, t float64) *RequestState {
	r := &RequestState{ID: id, InitialTime: t}
	r.AddHop(KindGenerator, generatorID, t, PhaseOutbound)
	return r
}

// AddHop appends an immutable hop record.
func (r *RequestState) AddHop(kind ComponentKind, id string, t float64, phase Phase) {
	r.History = append(r.History, Hop{Kind: kind, ComponentID: id, Timestamp: t, Phase: phase})
}

// LastHop returns the most recently recorded hop, or the zero value if
// history is empty.
func (r *RequestState) LastHop() (Hop, bool) {
	if len(r.History) == 0 {
		return Hop{}, false
	}
	return r.History[len(r.History)-1], true
}

// SetLastPhase retags the most recently appended hop's Phase. The
// client runtime uses this to stamp its own just-appended hop Outbound
// or Return once it has inspected the history to decide which — the
// tag is purely additive observability and never feeds back into the
// history[-2] routing decision itself.
func (r *RequestState) SetLastPhase(phase Phase) {
	if len(r.History) == 0 {
		return
	}
	r.History[len(r.History)-1].Phase = phase
}

// SecondToLastKind implements the fragile client terminal rule of
// literally: history[-2].kind, before the hop just appended for the
// current arrival.
func (r *RequestState) SecondToLastKind() (ComponentKind, bool) {
	if len(r.History) < 2 {
		return "", false
	}
	return r.History[len(r.History)-2].Kind, true
}

// Finish marks the request complete at time t (set exactly once).
func (r *RequestState) Finish(t float64) {
	if r.FinishTime != nil {
		return
	}
	ft := t
	r.FinishTime = &ft
}

package topology

import "container/list"

// LiveEdgeSet is the ordered edge_id → EdgeHandle mapping a load
// balancer reads to choose a target. It is mutated only by
// the event injector and shared by reference — never copied — so server
// outages become visible to the load balancer without any locking
//.
type LiveEdgeSet struct {
	order *list.List
	elems map[string]*list.Element
}

// NewLiveEdgeSet creates an empty set.
func NewLiveEdgeSet() *LiveEdgeSet {
	return &LiveEdgeSet{order: list.New(), elems: make(map[string]*list.Element)}
}

// Insert adds edge_id → handle at the back of the order, if not already
// present.
func (s *LiveEdgeSet) Insert(h EdgeHandle) {
	if _, ok := s.elems[h.EdgeID()]; ok {
		return
	}
	el := s.order.PushBack(h)
	s.elems[h.EdgeID()] = el
}

// Remove deletes edge_id from the set, if present. O(1).
func (s *LiveEdgeSet) Remove(edgeID string) {
	el, ok := s.elems[edgeID]
	if !ok {
		return
	}
	s.order.Remove(el)
	delete(s.elems, edgeID)
}

// MoveToEnd repositions edge_id to the back of the order (the position
// of the most recently rejoined edge), if present. O(1).
func (s *LiveEdgeSet) MoveToEnd(edgeID string) {
	el, ok := s.elems[edgeID]
	if !ok {
		return
	}
	s.order.MoveToBack(el)
}

// Len reports the number of live edges.
func (s *LiveEdgeSet) Len() int { return s.order.Len() }

// All returns the live handles in insertion (rotation) order.
func (s *LiveEdgeSet) All() []EdgeHandle {
	out := make([]EdgeHandle, 0, s.order.Len())
	for el := s.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(EdgeHandle))
	}
	return out
}

// At returns the handle at position i, wrapping modulo the set size —
// the round-robin pick. ok is false for an empty set.
func (s *LiveEdgeSet) At(i int) (EdgeHandle, bool) {
	n := s.order.Len()
	if n == 0 {
		return nil, false
	}
	i = ((i % n) + n) % n
	el := s.order.Front()
	for ; i > 0; i-- {
		el = el.Next()
	}
	return el.Value.(EdgeHandle), true
}

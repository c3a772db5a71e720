package actor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asyncflow-sim/asyncflow/pkg/clock"
)

func TestMailbox_GetBlocksUntilPut(t *testing.T) {
	s := clock.New()
	mb := New[int](s, 0)
	var got int
	s.SpawnAt(0, "getter", func(p *clock.Proc) {
		got = mb.Get(p)
	})
	s.Schedule(1.0, func() {
		mb.Put(nil, 99) // unbounded put never blocks: no fiber needed
	})
	require.NoError(t, s.RunUntil(10))
	require.Equal(t, 99, got)
}

func TestMailbox_FIFOOrdering(t *testing.T) {
	s := clock.New()
	mb := New[int](s, 0)
	var order []int
	s.SpawnAt(0, "g1", func(p *clock.Proc) { order = append(order, mb.Get(p)) })
	s.SpawnAt(0, "g2", func(p *clock.Proc) { order = append(order, mb.Get(p)) })
	s.Schedule(1.0, func() {
		mb.Put(nil, 1)
		mb.Put(nil, 2)
	})
	require.NoError(t, s.RunUntil(10))
	require.Equal(t, []int{1, 2}, order)
}

func TestMailbox_BoundedBlocksPutter(t *testing.T) {
	s := clock.New()
	mb := New[int](s, 1)
	var putterDone bool
	s.Schedule(0, func() { mb.Put(nil, 1) }) // fills capacity
	s.SpawnAt(0.1, "putter", func(p *clock.Proc) {
		mb.Put(p, 2) // must block: mailbox full
		putterDone = true
	})
	require.NoError(t, s.RunUntil(1))
	require.False(t, putterDone)
	require.Equal(t, 1, mb.Len())

	var got int
	s.SpawnAt(2, "getter", func(p *clock.Proc) { got = mb.Get(p) })
	require.NoError(t, s.RunUntil(10))
	require.Equal(t, 1, got)
	require.True(t, putterDone)
}

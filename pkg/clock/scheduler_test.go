package clock

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScheduler_OrdersByTimeThenFIFO(t *testing.T) {
	s := New()
	var order []int

	s.Schedule(1.0, func() { order = append(order, 2) })
	s.Schedule(0.5, func() { order = append(order, 1) })
	s.Schedule(1.0, func() { order = append(order, 3) })

	require.NoError(t, s.RunUntil(10))
	require.Equal(t, []int{1, 2, 3}, order)
}

func TestScheduler_RunUntilStopsAtHorizon(t *testing.T) {
	s := New()
	var fired bool
	s.Schedule(5.0, func() { fired = true })

	require.NoError(t, s.RunUntil(4.0))
	require.False(t, fired)
	require.Equal(t, 0.0, s.Now())

	require.NoError(t, s.RunUntil(10.0))
	require.True(t, fired)
	require.Equal(t, 5.0, s.Now())
}

func TestScheduler_FiberTimeoutAdvancesTime(t *testing.T) {
	s := New()
	done := make(chan struct{})
	s.SpawnAt(0, "t1", func(p *Proc) {
		s.Timeout(p, 2.5)
		close(done)
	})
	require.NoError(t, s.RunUntil(10))
	select {
	case <-done:
	default:
		t.Fatal("fiber never completed")
	}
	require.Equal(t, 2.5, s.Now())
}

func TestScheduler_MultipleFibersInterleaveByTime(t *testing.T) {
	s := New()
	var order []string
	s.SpawnAt(0, "slow", func(p *Proc) {
		s.Timeout(p, 3)
		order = append(order, "slow")
	})
	s.SpawnAt(0, "fast", func(p *Proc) {
		s.Timeout(p, 1)
		order = append(order, "fast")
	})
	require.NoError(t, s.RunUntil(10))
	require.Equal(t, []string{"fast", "slow"}, order)
}

func TestScheduler_FailAbortsRun(t *testing.T) {
	s := New()
	s.Schedule(1, func() {
		rid := uint64(42)
		s.Fail("handler", &rid, errBoom)
	})
	s.Schedule(2, func() { t.Fatal("should not run after failure") })
	err := s.RunUntil(10)
	require.Error(t, err)
	require.Contains(t, err.Error(), "request 42")
}

var errBoom = &testErr{"boom"}

type testErr struct{ s string }

func (e *testErr) Error() string { return e.s }

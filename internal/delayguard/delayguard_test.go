package delayguard

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	at  time.Duration
	arg string
}

func recorder(clock *Manual) (*[]call, func(string)) {
	var calls []call
	return &calls, func(arg string) {
		calls = append(calls, call{at: clock.Now(), arg: arg})
	}
}

func TestGuard_OnlyLastCallRuns(t *testing.T) {
	clock := NewManual()
	calls, action := recorder(clock)
	fn := Wrap(300*time.Millisecond, action, WithScheduler(clock))

	fn("A")
	clock.Advance(100 * time.Millisecond)
	fn("B")
	clock.Advance(50 * time.Millisecond)
	fn("C")

	clock.Advance(299 * time.Millisecond)
	assert.Empty(t, *calls, "nothing runs before the quiet period ends")

	clock.Advance(time.Millisecond)
	require.Len(t, *calls, 1)
	assert.Equal(t, call{at: 450 * time.Millisecond, arg: "C"}, (*calls)[0])

	clock.Advance(time.Second)
	assert.Len(t, *calls, 1)
}

func TestGuard_SeparateQuietPeriods(t *testing.T) {
	clock := NewManual()
	calls, action := recorder(clock)
	g := New(300*time.Millisecond, action, WithScheduler(clock))

	g.Call("first")
	clock.Advance(400 * time.Millisecond)
	g.Call("second")
	clock.Advance(300 * time.Millisecond)

	assert.Equal(t, []call{
		{at: 300 * time.Millisecond, arg: "first"},
		{at: 700 * time.Millisecond, arg: "second"},
	}, *calls)
}

func TestGuard_AtMostOnePendingTimer(t *testing.T) {
	clock := NewManual()
	g := New(300*time.Millisecond, func(int) {}, WithScheduler(clock))

	for i := 0; i < 5; i++ {
		g.Call(i)
	}
	assert.Equal(t, 1, clock.Pending())
	assert.True(t, g.Pending())

	clock.Advance(300 * time.Millisecond)
	assert.Equal(t, 0, clock.Pending())
	assert.False(t, g.Pending())
}

func TestGuard_Cancel(t *testing.T) {
	clock := NewManual()
	calls, action := recorder(clock)
	g := New(300*time.Millisecond, action, WithScheduler(clock))

	g.Call("dropped")
	g.Cancel()
	clock.Advance(time.Second)

	assert.Empty(t, *calls)
	assert.False(t, g.Pending())

	// Cancel with nothing pending is a no-op.
	g.Cancel()
}

// A timer that has already fired but whose callback has not yet run must not
// run the action once a newer call superseded it.
func TestGuard_SupersededAfterFiring(t *testing.T) {
	var fired []func()
	sched := SchedulerFunc(func(d time.Duration, f func()) Timer {
		fired = append(fired, f)
		return stubTimer{}
	})

	var got []string
	g := New(time.Millisecond, func(s string) { got = append(got, s) }, WithScheduler(sched))

	g.Call("old")
	g.Call("new")
	require.Len(t, fired, 2)

	fired[0]()
	fired[1]()
	assert.Equal(t, []string{"new"}, got)
}

func TestGuard_Realtime(t *testing.T) {
	var mu sync.Mutex
	var got []int
	done := make(chan struct{})

	fn := Wrap(20*time.Millisecond, func(n int) {
		mu.Lock()
		got = append(got, n)
		mu.Unlock()
		close(done)
	})

	fn(1)
	fn(2)
	fn(3)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced action never ran")
	}

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{3}, got)
}

type stubTimer struct{}

func (stubTimer) Stop() bool { return false }

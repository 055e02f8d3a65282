package pipeline

import (
	"context"
	"testing"
	"time"
)

func newTestScheduler(t *testing.T, cls *scriptedClassifier, interval float64) (*Scheduler, *ResultStore, *memData, context.CancelFunc) {
	t.Helper()

	dataSvc := &memData{}
	svcs := testServices(t, cls, dataSvc, interval)
	store := NewResultStore()
	engine := NewAlertEngine(goodLabel, 10, 5*time.Second)

	alertStream := make(chan AlertData, 100)
	errorStream := make(chan interface{}, 100)
	statsStream := make(chan interface{}, 100)

	sched := NewScheduler(svcs, store, engine, alertStream, errorStream, statsStream)

	canxCtx, canxFn := context.WithCancel(context.Background())
	sched.Start(canxCtx)

	t.Cleanup(func() {
		canxFn()
		select {
		case <-sched.Done():
		case <-time.After(2 * time.Second):
			t.Error("Scheduler worker did not settle after cancellation")
		}
	})

	return sched, store, dataSvc, canxFn
}

// TestTicksAreGatedByInterval verifies two dispatches are always separated
// by at least the configured interval of tick time.
func TestTicksAreGatedByInterval(t *testing.T) {
	cls := &scriptedClassifier{label: goodLabel, started: make(chan struct{}, 10)}
	sched, _, _, _ := newTestScheduler(t, cls, 0.5)

	t0 := time.Unix(1000, 0)
	sched.Tick(testFrame(), t0)
	waitFor(t, cls.started, "first dispatch")

	// Inside the gating interval: all no-ops
	sched.Tick(testFrame(), t0.Add(100*time.Millisecond))
	sched.Tick(testFrame(), t0.Add(499*time.Millisecond))

	// Interval elapsed: dispatches again
	sched.Tick(testFrame(), t0.Add(500*time.Millisecond))
	waitFor(t, cls.started, "second dispatch")

	calls, _ := cls.totals()
	if calls != 2 {
		t.Errorf("Expected 2 classifier calls, got %d", calls)
	}

	stats := sched.Stats()
	if stats.GatedTicks != 2 {
		t.Errorf("Expected 2 gated ticks, got %d", stats.GatedTicks)
	}
}

// TestSingleCallInFlight verifies that while a classifier call is
// outstanding no second call starts, and that eligible ticks arriving in
// the meantime collapse into a single pending frame (latest-wins).
func TestSingleCallInFlight(t *testing.T) {
	cls := &scriptedClassifier{
		label:   goodLabel,
		started: make(chan struct{}, 10),
		release: make(chan struct{}),
	}
	sched, _, _, _ := newTestScheduler(t, cls, 0.5)

	t0 := time.Unix(1000, 0)
	sched.Tick(testFrame(), t0)
	waitFor(t, cls.started, "first dispatch")

	// Two more eligible ticks while the first call is blocked: both are
	// accepted by the gate but only the latest survives as pending
	sched.Tick(testFrame(), t0.Add(time.Second))
	sched.Tick(testFrame(), t0.Add(2*time.Second))

	cls.release <- struct{}{} // finish first call
	waitFor(t, cls.started, "pending dispatch")
	cls.release <- struct{}{} // finish second call

	calls, maxInFlight := cls.totals()
	if maxInFlight != 1 {
		t.Errorf("Expected at most 1 call in flight, saw %d", maxInFlight)
	}
	if calls != 2 {
		t.Errorf("Expected 2 classifier calls (first + latest pending), got %d", calls)
	}

	stats := sched.Stats()
	if stats.ReplacedFrames != 1 {
		t.Errorf("Expected 1 replaced pending frame, got %d", stats.ReplacedFrames)
	}
}

// TestFailuresLeaveStoreUntouched verifies a failing classifier neither
// publishes nor records readings, keeps advancing the gate, and that the
// next success comes through (stale last-known result behavior).
func TestFailuresLeaveStoreUntouched(t *testing.T) {
	cls := &scriptedClassifier{
		label:        goodLabel,
		failuresLeft: 3,
		started:      make(chan struct{}, 10),
	}
	sched, store, dataSvc, _ := newTestScheduler(t, cls, 0.5)

	now := time.Unix(1000, 0)
	for i := 0; i < 3; i++ {
		sched.Tick(testFrame(), now)
		waitFor(t, cls.started, "failing dispatch")
		now = now.Add(time.Second)
	}

	if _, ok := store.Current(); ok {
		t.Fatal("Store must stay empty while every call fails")
	}
	if dataSvc.count() != 0 {
		t.Fatalf("Expected no persisted readings, got %d", dataSvc.count())
	}

	sched.Tick(testFrame(), now)
	waitFor(t, cls.started, "successful dispatch")

	deadline := time.Now().Add(2 * time.Second)
	for {
		if reading, ok := store.Current(); ok {
			if reading.Label != goodLabel {
				t.Errorf("Expected %q, got %q", goodLabel, reading.Label)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Timeout waiting for successful reading to publish")
		}
		time.Sleep(time.Millisecond)
	}

	stats := sched.Stats()
	if stats.Failures != 3 {
		t.Errorf("Expected 3 failures, got %d", stats.Failures)
	}
	if stats.Dispatched != 4 {
		t.Errorf("Expected 4 dispatches, got %d", stats.Dispatched)
	}
}

// TestShutdownSettlesInFlightCall cancels the context while a call is
// blocked and expects the worker to settle within the grace period.
func TestShutdownSettlesInFlightCall(t *testing.T) {
	cls := &scriptedClassifier{
		label:   goodLabel,
		started: make(chan struct{}, 10),
		release: make(chan struct{}),
	}
	sched, _, _, canxFn := newTestScheduler(t, cls, 0.5)

	sched.Tick(testFrame(), time.Unix(1000, 0))
	waitFor(t, cls.started, "dispatch")

	canxFn()

	select {
	case <-sched.Done():
	case <-time.After(time.Second):
		t.Fatal("Worker did not settle within the shutdown grace period")
	}
}

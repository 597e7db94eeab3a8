package poll_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"genvid/internal/api"
	"genvid/internal/logging"
	"genvid/internal/poll"
)

func pendingList() []api.Project {
	return []api.Project{{ID: "p1", Status: api.StatusProcessing}}
}

func settledList() []api.Project {
	return []api.Project{{ID: "p1", Status: api.StatusCompleted}}
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestTimerStartsOnPendingAndStopsWhenSettled(t *testing.T) {
	fetch := func(ctx context.Context) ([]api.Project, error) { return pendingList(), nil }
	c := poll.New(fetch, nil, 10*time.Millisecond, logging.NewNop())
	defer c.Stop()

	c.Update(settledList())
	if c.Active() {
		t.Fatal("timer must stay inactive for settled lists")
	}

	c.Update(pendingList())
	if !c.Active() {
		t.Fatal("timer must start when the list has a pending item")
	}

	c.Update(settledList())
	if c.Active() {
		t.Fatal("timer must cancel when no pending items remain")
	}
}

func TestRepeatedPendingUpdatesReuseOneTimer(t *testing.T) {
	fetch := func(ctx context.Context) ([]api.Project, error) { return pendingList(), nil }
	c := poll.New(fetch, nil, time.Hour, logging.NewNop())
	defer c.Stop()

	for i := 0; i < 5; i++ {
		c.Update(pendingList())
	}
	if got := c.Starts(); got != 1 {
		t.Fatalf("expected exactly one timer start, got %d", got)
	}

	c.Update(settledList())
	c.Update(pendingList())
	if got := c.Starts(); got != 2 {
		t.Fatalf("expected a fresh timer after stop/start, got %d starts", got)
	}
}

func TestLoopStopsItselfWhenFetchReturnsSettledList(t *testing.T) {
	var delivered atomic.Int32
	fetch := func(ctx context.Context) ([]api.Project, error) {
		return settledList(), nil
	}
	onUpdate := func(list []api.Project) { delivered.Add(1) }

	c := poll.New(fetch, onUpdate, 10*time.Millisecond, logging.NewNop())
	defer c.Stop()

	c.Update(pendingList())
	waitFor(t, func() bool { return delivered.Load() >= 1 }, "fetch result never delivered")
	waitFor(t, func() bool { return !c.Active() }, "timer should cancel itself after a settled fetch")
}

func TestFetchFailureKeepsPolling(t *testing.T) {
	var calls atomic.Int32
	fetch := func(ctx context.Context) ([]api.Project, error) {
		calls.Add(1)
		return nil, errors.New("backend unavailable")
	}

	c := poll.New(fetch, nil, 10*time.Millisecond, logging.NewNop())
	defer c.Stop()

	c.Update(pendingList())
	waitFor(t, func() bool { return calls.Load() >= 3 }, "polling stopped after fetch failures")
	if !c.Active() {
		t.Fatal("timer must survive fetch failures")
	}
}

func TestStopIsIdempotentAndFinal(t *testing.T) {
	fetch := func(ctx context.Context) ([]api.Project, error) { return pendingList(), nil }
	c := poll.New(fetch, nil, time.Hour, logging.NewNop())

	c.Update(pendingList())
	c.Stop()
	c.Stop()
	if c.Active() {
		t.Fatal("timer active after Stop")
	}
}

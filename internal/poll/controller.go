package poll

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"genvid/internal/api"
	"genvid/internal/logging"
)

// DefaultInterval matches the dashboard's refresh cadence.
const DefaultInterval = 5 * time.Second

// FetchFunc re-reads the full project list from the backend.
type FetchFunc func(ctx context.Context) ([]api.Project, error)

// Controller keeps a displayed project list eventually consistent with the
// server while any item is queued or processing. Feed every observed list
// through Update; the controller starts its timer when the list contains a
// pending item and cancels it when none remain. At most one timer exists at
// any time, and Stop cancels it regardless of pending state.
type Controller struct {
	fetch    FetchFunc
	onUpdate func([]api.Project)
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	starts int
}

// New builds a controller. onUpdate receives each successfully fetched list;
// the controller re-evaluates its own timer from the same list afterwards.
func New(fetch FetchFunc, onUpdate func([]api.Project), interval time.Duration, logger *slog.Logger) *Controller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Controller{
		fetch:    fetch,
		onUpdate: onUpdate,
		interval: interval,
		logger:   logger.With(logging.String(logging.FieldComponent, "poll")),
	}
}

// Update recomputes the pending predicate for the given list and reconciles
// the timer: started if pending and absent, canceled if idle and present.
func (c *Controller) Update(projects []api.Project) {
	pending := api.AnyPending(projects)

	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case pending && c.cancel == nil:
		ctx, cancel := context.WithCancel(context.Background())
		c.cancel = cancel
		c.starts++
		go c.run(ctx)
	case !pending && c.cancel != nil:
		c.cancel()
		c.cancel = nil
	}
}

// Stop cancels any running timer. Safe to call repeatedly and required on
// teardown so no timer outlives its view.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Active reports whether a timer is currently running.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

// Starts returns how many timers have ever been started. Exposed so tests can
// assert that flapping lists reuse a single timer instead of stacking them.
func (c *Controller) Starts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.starts
}

func (c *Controller) run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			list, err := c.fetch(ctx)
			if err != nil {
				// Polling failures are logged and swallowed; the next tick
				// tries again. No backoff, no retry cap.
				c.logger.Warn("poll fetch failed", logging.Error(err))
				continue
			}
			if c.onUpdate != nil {
				c.onUpdate(list)
			}
			c.Update(list)
		}
	}
}

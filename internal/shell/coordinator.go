package shell

import (
	"context"

	"go.uber.org/zap"

	"github.com/grokdesk/grokdesk/internal/domain"
	"github.com/grokdesk/grokdesk/internal/usecase"
)

// Coordinator runs the single-instance protocol. Exactly one process holds
// the instance lock (the primary) and owns the window; a launch that fails
// to acquire the lock signals the primary and terminates before any
// application logic runs.
//
// A second launch while the primary's window is focused and visible is read
// as "the user wants a clean restart here": the primary captures its current
// URL into the restore store and cedes by quitting. The next launch to win
// the lock resumes from the record. When overlapping launches race for the
// lock the winner is whichever acquires first; the restore record is
// consumed by that winner regardless of launch order.
type Coordinator struct {
	gate        domain.InstanceGate
	controller  *Controller
	store       domain.RestoreStore
	interceptor *usecase.Interceptor
	desktop     domain.Desktop
	logger      *zap.Logger

	// quit requests primary shutdown; injected so tests can observe the
	// hand-off without killing the test process.
	quit func()
}

// NewCoordinator creates the coordinator. quit is invoked when the primary
// cedes its role; it must eventually terminate the process.
func NewCoordinator(
	gate domain.InstanceGate,
	controller *Controller,
	store domain.RestoreStore,
	interceptor *usecase.Interceptor,
	desktop domain.Desktop,
	quit func(),
	logger *zap.Logger,
) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		gate:        gate,
		controller:  controller,
		store:       store,
		interceptor: interceptor,
		desktop:     desktop,
		quit:        quit,
		logger:      logger,
	}
}

// Start attempts lock acquisition and resolves this process's role.
// A secondary must exit promptly without running application logic; its
// acquisition attempt has already signalled the primary.
func (c *Coordinator) Start() (domain.InstanceRole, error) {
	primary, err := c.gate.Acquire()
	if err != nil {
		return "", err
	}
	if !primary {
		c.logger.Info("another instance holds the lock, deferring to it")
		return domain.RoleSecondary, nil
	}
	c.logger.Info("acquired instance lock", zap.String("role", string(domain.RolePrimary)))
	return domain.RolePrimary, nil
}

// Run reacts to second-instance signals until ctx is canceled.
// Only the primary runs this loop.
func (c *Coordinator) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("coordinator stopping")
			return ctx.Err()

		case <-c.gate.SecondInstance():
			c.handleSecondInstance()
		}
	}
}

// handleSecondInstance branches on window visibility:
//
//   - focused, visible, not minimized: capture the current URL (only if it
//     still passes the domain policy) and cede the primary role by quitting;
//   - anything else: surface the existing window instead, with a best-effort
//     notification for window managers that deny programmatic raise.
func (c *Coordinator) handleSecondInstance() {
	url, state, live := c.controller.Snapshot()

	c.logger.Info("second instance detected",
		zap.Bool("window_live", live),
		zap.Bool("focused", state.Focused),
		zap.Bool("visible", state.Visible),
		zap.Bool("minimized", state.Minimized))

	if live && state.Focused && state.Visible && !state.Minimized {
		if c.interceptor.Allowed(url) {
			c.store.Write(url)
			c.logger.Info("captured restore state", zap.String("url", url))
		} else {
			c.logger.Info("current url not allow-listed, capturing nothing",
				zap.String("url", url))
		}
		c.logger.Info("ceding primary role to next launch")
		c.quit()
		return
	}

	c.controller.Present()
	if err := c.desktop.Notify("Grokdesk", "Grokdesk is already running", c.controller.Present); err != nil {
		c.logger.Debug("notification skipped", zap.Error(err))
	}
}

package shell

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/grokdesk/grokdesk/internal/domain"
	"github.com/grokdesk/grokdesk/internal/usecase"
)

// ControllerConfig holds window controller configuration.
type ControllerConfig struct {
	DefaultURL string
	Width      int
	Height     int
}

// DefaultControllerConfig returns the stock window parameters.
func DefaultControllerConfig(defaultURL string) ControllerConfig {
	return ControllerConfig{
		DefaultURL: defaultURL,
		Width:      1200,
		Height:     820,
	}
}

// Controller owns the single shell window: creation, focus, restore-state
// consumption and destruction. The window handle is private, nullable state
// with explicit none -> live -> none transitions; components that need the
// current window query the controller instead of holding their own copy.
type Controller struct {
	config      ControllerConfig
	host        domain.WindowHost
	interceptor *usecase.Interceptor
	store       domain.RestoreStore
	menus       []domain.Menu
	logger      *zap.Logger

	mu  sync.Mutex
	win domain.Window
}

// NewController creates a window controller.
func NewController(
	config ControllerConfig,
	host domain.WindowHost,
	interceptor *usecase.Interceptor,
	store domain.RestoreStore,
	logger *zap.Logger,
) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		config:      config,
		host:        host,
		interceptor: interceptor,
		store:       store,
		menus:       DefaultMenus(),
		logger:      logger,
	}
}

// CreateWindow creates the shell window and starts the initial load.
// A creation request while a window is live is a no-op that focuses the
// existing window instead. Navigation hooks are installed before the first
// load so no request can bypass policy during startup.
func (c *Controller) CreateWindow() error {
	c.mu.Lock()
	if c.win != nil {
		win := c.win
		c.mu.Unlock()
		c.logger.Debug("window already live, focusing instead")
		win.Present()
		return nil
	}
	c.mu.Unlock()

	startURL, restored := c.startupURL()

	// One-shot: the restored record is consumed on the first load
	// completion, success or failure alike.
	var clearOnce sync.Once
	onLoadFinished := func(url string, ok bool) {
		c.logger.Debug("load finished", zap.String("url", url), zap.Bool("ok", ok))
		if restored {
			clearOnce.Do(func() {
				c.store.Clear()
				c.logger.Info("restore state consumed", zap.Bool("load_ok", ok))
			})
		}
	}

	opts := domain.WindowOptions{
		Width:           c.config.Width,
		Height:          c.config.Height,
		ScriptIsolation: true,
		PrivilegedAPI:   false,
		HideMenuBar:     true,
	}

	win, err := c.host.Create(opts, c.menus, c.interceptor.Hooks(onLoadFinished, c.handleClosed))
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}

	c.mu.Lock()
	c.win = win
	c.mu.Unlock()

	c.logger.Info("window created",
		zap.String("start_url", startURL),
		zap.Bool("restored", restored))

	if err := win.LoadURL(startURL); err != nil {
		// The window stays up; the host reports the failure through
		// OnLoadFinished and the restore record is consumed either way.
		c.logger.Warn("initial load failed", zap.String("url", startURL), zap.Error(err))
	}
	return nil
}

// startupURL picks the initial destination: the pending restore record when
// it is present and still passes the domain policy, the fixed default
// otherwise. A record that is unusable or identical to the default is
// cleared immediately (never used).
func (c *Controller) startupURL() (string, bool) {
	url, ok := c.store.Read()
	if !ok {
		return c.config.DefaultURL, false
	}
	if !c.interceptor.Allowed(url) {
		c.logger.Info("discarding restore state", zap.String("url", url))
		c.store.Clear()
		return c.config.DefaultURL, false
	}
	if url == c.config.DefaultURL {
		c.store.Clear()
		return c.config.DefaultURL, false
	}
	return url, true
}

// handleClosed transitions the window handle back to none.
func (c *Controller) handleClosed() {
	c.mu.Lock()
	c.win = nil
	c.mu.Unlock()
	c.logger.Info("window closed")
}

// Snapshot returns the current URL and visibility state of the live window.
// live is false when no window exists.
func (c *Controller) Snapshot() (url string, state domain.WindowState, live bool) {
	c.mu.Lock()
	win := c.win
	c.mu.Unlock()

	if win == nil {
		return "", domain.WindowState{}, false
	}
	return win.CurrentURL(), win.State(), true
}

// Present shows, un-minimizes and focuses the window, if one is live.
func (c *Controller) Present() {
	c.mu.Lock()
	win := c.win
	c.mu.Unlock()

	if win != nil {
		win.Present()
	}
}

// ShowContextMenu pops the standard page context menu at window coordinates.
// Hosts route right-click events here.
func (c *Controller) ShowContextMenu(x, y int) {
	c.mu.Lock()
	win := c.win
	c.mu.Unlock()

	if win != nil {
		win.ShowContextMenu(ContextMenu(), x, y)
	}
}

// HasWindow reports whether a window is currently live.
func (c *Controller) HasWindow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.win != nil
}

// Destroy tears the window down, if one is live.
func (c *Controller) Destroy() {
	c.mu.Lock()
	win := c.win
	c.mu.Unlock()

	if win != nil {
		win.Destroy()
	}
}

// Package headless implements the window host interface without a rendering
// engine: loads are plain HTTP fetches and window state is tracked in
// memory. It is the built-in host; embedding a real engine means
// implementing domain.WindowHost the same way.
package headless

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/grokdesk/grokdesk/internal/domain"
)

// Host creates headless windows.
type Host struct {
	client *http.Client
	logger *zap.Logger
}

// New creates a headless host. client may be nil for http.DefaultClient
// semantics; tests pass a client trusting their fixture server.
func New(client *http.Client, logger *zap.Logger) *Host {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Host{client: client, logger: logger}
}

// Create builds a headless window with the hooks installed before any load.
func (h *Host) Create(opts domain.WindowOptions, menus []domain.Menu, hooks domain.NavigationHooks) (domain.Window, error) {
	_ = menus // nothing renders them here

	w := &Window{
		opts:   opts,
		hooks:  hooks,
		logger: h.logger,
		state:  domain.WindowState{Focused: true, Visible: true},
	}
	w.client = w.buildClient(h.client)
	return w, nil
}

// Window is a headless domain.Window. A load is a GET whose transport runs
// the request filter and whose redirect handling runs the redirect hook,
// mirroring where a real engine consults policy.
type Window struct {
	opts   domain.WindowOptions
	hooks  domain.NavigationHooks
	client *http.Client
	logger *zap.Logger

	mu     sync.Mutex
	url    string
	state  domain.WindowState
	closed bool
}

// errBlocked marks a request canceled by policy.
var errBlocked = fmt.Errorf("request blocked by policy")

// policyTransport runs the outbound request filter on every request,
// subresource semantics included: there is exactly one filter for all
// traffic this window generates.
type policyTransport struct {
	base  http.RoundTripper
	hooks domain.NavigationHooks
}

func (t *policyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.hooks.OnRequest != nil && !t.hooks.OnRequest(req.URL.String()) {
		return nil, errBlocked
	}
	return t.base.RoundTrip(req)
}

func (w *Window) buildClient(base *http.Client) *http.Client {
	transport := http.RoundTripper(http.DefaultTransport)
	var timeout time.Duration
	if base != nil {
		timeout = base.Timeout
		if base.Transport != nil {
			transport = base.Transport
		}
	}
	return &http.Client{
		Transport: &policyTransport{base: transport, hooks: w.hooks},
		Timeout:   timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if w.hooks.OnRedirect != nil && !w.hooks.OnRedirect(req.URL.String()) {
				return errBlocked
			}
			return nil
		},
	}
}

// LoadURL performs a top-level navigation. The navigate hook may cancel it;
// otherwise the fetch runs and load completion fires with the outcome.
func (w *Window) LoadURL(url string) error {
	if w.hooks.OnNavigate != nil && !w.hooks.OnNavigate(url) {
		return nil
	}

	w.mu.Lock()
	w.url = url
	w.mu.Unlock()

	ok := w.fetch(url)
	if w.hooks.OnLoadFinished != nil {
		w.hooks.OnLoadFinished(url, ok)
	}
	return nil
}

func (w *Window) fetch(url string) bool {
	resp, err := w.client.Get(url)
	if err != nil {
		w.logger.Debug("headless load failed", zap.String("url", url), zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	// Redirects already passed the redirect hook; record where we ended up.
	w.mu.Lock()
	w.url = resp.Request.URL.String()
	w.mu.Unlock()

	return resp.StatusCode < 400
}

func (w *Window) CurrentURL() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.url
}

func (w *Window) State() domain.WindowState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// SetState scripts the window state; headless has no real window manager.
func (w *Window) SetState(state domain.WindowState) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = state
}

func (w *Window) Present() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = domain.WindowState{Focused: true, Visible: true, Minimized: false}
}

func (w *Window) ShowContextMenu(menu domain.Menu, x, y int) {}

func (w *Window) Destroy() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()

	if w.hooks.OnClosed != nil {
		w.hooks.OnClosed()
	}
}

var _ domain.WindowHost = (*Host)(nil)
var _ domain.Window = (*Window)(nil)

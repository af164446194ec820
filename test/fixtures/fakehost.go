// Package fixtures provides in-memory collaborator doubles shared by unit
// and integration tests: a scriptable window host, a recording desktop and
// a channel-backed instance gate.
package fixtures

import (
	"sync"

	"github.com/grokdesk/grokdesk/internal/domain"
)

// FakeWindow is a scriptable domain.Window. Loads run the installed hooks
// the way a real engine would: navigation hooks first, then a synchronous
// load-finished event.
type FakeWindow struct {
	mu sync.Mutex

	url       string
	state     domain.WindowState
	hooks     domain.NavigationHooks
	destroyed bool

	// FailLoads makes every load report failure.
	FailLoads bool

	LoadedURLs   []string
	PresentCalls int
	ContextMenus []domain.Menu
}

// LoadURL simulates a top-level navigation: the navigate hook may cancel,
// otherwise the URL becomes current and load completion fires synchronously.
func (w *FakeWindow) LoadURL(url string) error {
	w.mu.Lock()
	hooks := w.hooks
	w.mu.Unlock()

	if hooks.OnNavigate != nil && !hooks.OnNavigate(url) {
		return nil // canceled by policy; no load event
	}

	w.mu.Lock()
	w.url = url
	w.LoadedURLs = append(w.LoadedURLs, url)
	fail := w.FailLoads
	w.mu.Unlock()

	if hooks.OnLoadFinished != nil {
		hooks.OnLoadFinished(url, !fail)
	}
	return nil
}

func (w *FakeWindow) CurrentURL() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.url
}

func (w *FakeWindow) State() domain.WindowState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// SetState scripts the visibility state for a scenario.
func (w *FakeWindow) SetState(state domain.WindowState) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = state
}

func (w *FakeWindow) Present() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.PresentCalls++
	w.state = domain.WindowState{Focused: true, Visible: true, Minimized: false}
}

func (w *FakeWindow) ShowContextMenu(menu domain.Menu, x, y int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ContextMenus = append(w.ContextMenus, menu)
}

func (w *FakeWindow) Destroy() {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return
	}
	w.destroyed = true
	hooks := w.hooks
	w.mu.Unlock()

	if hooks.OnClosed != nil {
		hooks.OnClosed()
	}
}

// Destroyed reports whether Destroy ran.
func (w *FakeWindow) Destroyed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.destroyed
}

// SimulateRequest feeds a subresource request through the request filter,
// returning whether it proceeded.
func (w *FakeWindow) SimulateRequest(url string) bool {
	if w.hooks.OnRequest == nil {
		return true
	}
	return w.hooks.OnRequest(url)
}

// SimulateNavigation feeds a user-initiated top-level navigation through the
// hooks, updating the current URL when it proceeds.
func (w *FakeWindow) SimulateNavigation(url string) bool {
	if w.hooks.OnNavigate != nil && !w.hooks.OnNavigate(url) {
		return false
	}
	w.mu.Lock()
	w.url = url
	w.mu.Unlock()
	return true
}

// SimulateRedirect feeds a redirect target through the redirect hook.
func (w *FakeWindow) SimulateRedirect(url string) bool {
	if w.hooks.OnRedirect == nil {
		return true
	}
	return w.hooks.OnRedirect(url)
}

// SimulateNewWindow feeds a window-open attempt through the hooks.
func (w *FakeWindow) SimulateNewWindow(url string) {
	if w.hooks.OnNewWindow != nil {
		w.hooks.OnNewWindow(url)
	}
}

// FakeHost is a domain.WindowHost producing FakeWindows.
type FakeHost struct {
	mu sync.Mutex

	CreateErr error

	// FailLoads makes every created window fail its loads.
	FailLoads bool

	Windows  []*FakeWindow
	LastOpts domain.WindowOptions
	LastMenu []domain.Menu
}

func (h *FakeHost) Create(opts domain.WindowOptions, menus []domain.Menu, hooks domain.NavigationHooks) (domain.Window, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.CreateErr != nil {
		return nil, h.CreateErr
	}
	win := &FakeWindow{
		hooks:     hooks,
		state:     domain.WindowState{Focused: true, Visible: true},
		FailLoads: h.FailLoads,
	}
	h.Windows = append(h.Windows, win)
	h.LastOpts = opts
	h.LastMenu = menus
	return win, nil
}

// Last returns the most recently created window.
func (h *FakeHost) Last() *FakeWindow {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.Windows) == 0 {
		return nil
	}
	return h.Windows[len(h.Windows)-1]
}

var _ domain.WindowHost = (*FakeHost)(nil)

// FakeDesktop records OS shell calls.
type FakeDesktop struct {
	mu sync.Mutex

	Opened        []string
	Notifications []string
	Clipboard     []string
}

func (d *FakeDesktop) OpenExternal(url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Opened = append(d.Opened, url)
	return nil
}

func (d *FakeDesktop) Notify(title, body string, onActivate func()) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Notifications = append(d.Notifications, title+": "+body)
	return nil
}

func (d *FakeDesktop) WriteClipboard(text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Clipboard = append(d.Clipboard, text)
	return nil
}

// OpenedURLs returns a copy of the externally opened URLs.
func (d *FakeDesktop) OpenedURLs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string{}, d.Opened...)
}

var _ domain.Desktop = (*FakeDesktop)(nil)

// FakeGate is a channel-backed domain.InstanceGate.
type FakeGate struct {
	Primary bool
	Signals chan struct{}
}

func NewFakeGate(primary bool) *FakeGate {
	return &FakeGate{Primary: primary, Signals: make(chan struct{}, 4)}
}

func (g *FakeGate) Acquire() (bool, error)          { return g.Primary, nil }
func (g *FakeGate) SecondInstance() <-chan struct{} { return g.Signals }
func (g *FakeGate) Close() error                    { return nil }

// Signal injects one second-instance signal.
func (g *FakeGate) Signal() { g.Signals <- struct{}{} }

var _ domain.InstanceGate = (*FakeGate)(nil)

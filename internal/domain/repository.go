package domain

// NavigationHooks are the decision callbacks the shell installs on a window
// before any content loads. Boolean hooks return false to cancel.
// All hooks are invoked synchronously by the host's event dispatch; a nil
// hook means "always proceed".
type NavigationHooks struct {
	// OnRequest filters every outbound network request, subresources included.
	OnRequest func(url string) bool

	// OnNavigate filters top-level in-place navigation.
	OnNavigate func(url string) bool

	// OnRedirect filters redirect targets.
	OnRedirect func(url string) bool

	// OnNewWindow is consulted for window-open attempts. In-shell window
	// creation is always denied; the hook decides what happens to the URL.
	OnNewWindow func(url string)

	// OnLoadFinished fires once per top-level load, success or failure.
	OnLoadFinished func(url string, ok bool)

	// OnClosed fires when the window is destroyed.
	OnClosed func()
}

// WindowHost creates shell windows. The rendering engine behind it is an
// external collaborator; implementations adapt a concrete engine to this
// interface.
type WindowHost interface {
	// Create builds a window with hooks installed before the first load.
	Create(opts WindowOptions, menus []Menu, hooks NavigationHooks) (Window, error)
}

// Window is the single live shell window.
type Window interface {
	// LoadURL starts a top-level navigation.
	LoadURL(url string) error

	// CurrentURL returns the URL currently loaded (or being loaded).
	CurrentURL() string

	// State reports focus/visibility/minimized at call time.
	State() WindowState

	// Present shows, un-minimizes and focuses the window. Best effort.
	Present()

	// ShowContextMenu pops a native context menu at window coordinates.
	ShowContextMenu(menu Menu, x, y int)

	// Destroy closes the window and releases engine resources.
	Destroy()
}

// Desktop is the OS shell collaborator: default browser, notifications,
// clipboard. All operations are best-effort, fire-and-forget.
type Desktop interface {
	// OpenExternal opens an http(s) URL in the OS default browser.
	OpenExternal(url string) error

	// Notify shows a system notification. onActivate runs if the user
	// clicks it; implementations that cannot observe clicks ignore it.
	Notify(title, body string, onActivate func()) error

	// WriteClipboard puts text on the system clipboard.
	WriteClipboard(text string) error
}

// RestoreStore persists the one-shot restore record. Every operation is
// failure-tolerant: read errors yield absent, write/clear errors are swallowed.
type RestoreStore interface {
	// Write overwrites the record with the given URL and the current time.
	Write(url string)

	// Read returns the pending restore URL, if any. Reading does not clear.
	Read() (url string, ok bool)

	// Clear deletes the record. Missing records are not an error.
	Clear()
}

// InstanceGate is the process-wide single-instance primitive.
type InstanceGate interface {
	// Acquire attempts to take the instance lock. On success the caller is
	// the primary and must keep the gate open for its lifetime. On failure
	// the attempt itself signals the running primary.
	Acquire() (primary bool, err error)

	// SecondInstance delivers one signal per launch attempt made while this
	// process holds the lock. Only valid on the primary.
	SecondInstance() <-chan struct{}

	// Close releases the signal channel resources. The lock itself is
	// released implicitly at process exit.
	Close() error
}

// AuditLog records non-proceed policy decisions for later inspection.
type AuditLog interface {
	Record(entry AuditEntry) error
	Recent(limit int) ([]AuditEntry, error)
	Close() error
}

// ProcessManager handles OS process liveness checks.
// Implementation: uses gopsutil for cross-platform support.
type ProcessManager interface {
	// IsRunning checks if a PID exists and is running.
	IsRunning(pid int) bool

	// CurrentPID returns the current process PID.
	CurrentPID() int
}

// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

import "time"

// Decision is the outcome of classifying a URL at an interception point.
type Decision string

const (
	// DecisionProceed lets the navigation or request continue in-shell.
	DecisionProceed Decision = "proceed"
	// DecisionOpenExternally cancels the in-shell navigation and hands the
	// URL to the OS default browser.
	DecisionOpenExternally Decision = "open_externally"
	// DecisionBlock cancels the request outright.
	DecisionBlock Decision = "block"
)

// InterceptPoint identifies where in the navigation pipeline a decision was made.
type InterceptPoint string

const (
	PointRequest   InterceptPoint = "request"
	PointNewWindow InterceptPoint = "new_window"
	PointNavigate  InterceptPoint = "navigate"
	PointRedirect  InterceptPoint = "redirect"
)

// InstanceRole identifies a process in the single-instance protocol.
type InstanceRole string

const (
	// RolePrimary holds the instance lock and owns the window.
	RolePrimary InstanceRole = "primary"
	// RoleSecondary failed to acquire the lock; it signals the primary and exits.
	RoleSecondary InstanceRole = "secondary"
)

// RestoreState is the one-shot persisted record used to resume at the same
// location after a primary-cedes-to-secondary hand-off.
type RestoreState struct {
	RestoreURL string `json:"restoreUrl"`
	TS         int64  `json:"ts"`
}

// WindowState captures the visibility of the shell window at a point in time.
type WindowState struct {
	Focused   bool
	Visible   bool
	Minimized bool
}

// WindowOptions are the creation parameters handed to the window host.
type WindowOptions struct {
	Width  int
	Height int

	// ScriptIsolation keeps page scripts out of the host's privileged context.
	ScriptIsolation bool
	// PrivilegedAPI exposes host-process APIs to the page. Always false here.
	PrivilegedAPI bool
	// HideMenuBar hides the menu bar by default.
	HideMenuBar bool
}

// AuditEntry records a single non-proceed policy decision.
type AuditEntry struct {
	ID       int64
	URL      string
	Decision Decision
	Point    InterceptPoint
	At       time.Time
}

// MenuItem is one entry of the static application menu.
// Role names the host-side standard action (reload, quit, zoomIn, ...).
type MenuItem struct {
	Label       string
	Role        string
	Accelerator string
	Separator   bool
}

// Menu is a named top-level menu with its items.
type Menu struct {
	Label string
	Items []MenuItem
}

// Package usecase contains application business logic.
package usecase

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/grokdesk/grokdesk/internal/domain"
	"github.com/grokdesk/grokdesk/internal/policy"
)

// Interceptor wires the domain policy into every point where embedded
// content can cause navigation: outbound requests, top-level navigations,
// redirects and window-open attempts. Decisions are synchronous and made
// without suspension; side effects (external open, audit) are best-effort.
type Interceptor struct {
	allowList atomic.Pointer[policy.AllowList]
	desktop   domain.Desktop
	audit     domain.AuditLog
	logger    *zap.Logger
}

// NewInterceptor creates an interceptor over the given allow-list.
// audit may be nil to disable the persisted decision trail.
func NewInterceptor(allowList *policy.AllowList, desktop domain.Desktop, audit domain.AuditLog, logger *zap.Logger) *Interceptor {
	if logger == nil {
		logger = zap.NewNop()
	}
	i := &Interceptor{
		desktop: desktop,
		audit:   audit,
		logger:  logger,
	}
	i.allowList.Store(allowList)
	return i
}

// SetAllowList swaps the active allow-list (config hot reload). Decisions
// in flight keep the list they started with.
func (i *Interceptor) SetAllowList(allowList *policy.AllowList) {
	i.allowList.Store(allowList)
	i.logger.Info("allow-list updated", zap.Strings("entries", allowList.Entries()))
}

// AllowList returns the active allow-list.
func (i *Interceptor) AllowList() *policy.AllowList {
	return i.allowList.Load()
}

// Allowed reports whether url may render in-shell right now.
func (i *Interceptor) Allowed(url string) bool {
	return i.AllowList().IsAllowed(url)
}

// FilterRequest is the outbound request filter, applied to every request
// including subresources. Non-http(s) schemes always proceed unfiltered;
// http(s) requests proceed only if allow-listed. Returns false to cancel.
func (i *Interceptor) FilterRequest(url string) bool {
	if !policy.IsHTTPURL(url) {
		return true
	}
	if i.Allowed(url) {
		return true
	}

	i.logger.Info("blocked request", zap.String("url", url))
	i.record(url, domain.DecisionBlock, domain.PointRequest)
	return false
}

// HandleNewWindow handles window-open attempts. In-shell window creation is
// always denied by the hook's mere presence; http(s) targets are handed to
// the OS default browser, anything else is discarded silently.
func (i *Interceptor) HandleNewWindow(url string) {
	if !policy.IsHTTPURL(url) {
		i.logger.Debug("discarded non-http window-open target", zap.String("url", url))
		return
	}

	i.openExternal(url, domain.PointNewWindow)
}

// FilterNavigation filters top-level in-place navigation. Disallowed http(s)
// targets are opened externally and the in-shell navigation is canceled.
// Returns false to cancel.
func (i *Interceptor) FilterNavigation(url string) bool {
	return i.filterTopLevel(url, domain.PointNavigate)
}

// FilterRedirect applies the top-level navigation policy to redirect targets.
func (i *Interceptor) FilterRedirect(url string) bool {
	return i.filterTopLevel(url, domain.PointRedirect)
}

func (i *Interceptor) filterTopLevel(url string, point domain.InterceptPoint) bool {
	if !i.AllowList().ShouldOpenExternally(url) {
		return true
	}

	i.openExternal(url, point)
	return false
}

// openExternal hands url to the OS browser and audits the decision.
func (i *Interceptor) openExternal(url string, point domain.InterceptPoint) {
	if err := i.desktop.OpenExternal(url); err != nil {
		i.logger.Warn("failed to open external browser",
			zap.String("url", url),
			zap.Error(err))
	} else {
		i.logger.Info("opened externally",
			zap.String("url", url),
			zap.String("point", string(point)))
	}
	i.record(url, domain.DecisionOpenExternally, point)
}

func (i *Interceptor) record(url string, decision domain.Decision, point domain.InterceptPoint) {
	if i.audit == nil {
		return
	}
	err := i.audit.Record(domain.AuditEntry{
		URL:      url,
		Decision: decision,
		Point:    point,
		At:       time.Now(),
	})
	if err != nil {
		i.logger.Debug("audit record failed", zap.Error(err))
	}
}

// Hooks bundles the interceptor's decision functions into the hook set a
// window host installs before first load. onLoadFinished and onClosed are
// the controller's lifecycle callbacks, passed through untouched.
func (i *Interceptor) Hooks(onLoadFinished func(url string, ok bool), onClosed func()) domain.NavigationHooks {
	return domain.NavigationHooks{
		OnRequest:      i.FilterRequest,
		OnNavigate:     i.FilterNavigation,
		OnRedirect:     i.FilterRedirect,
		OnNewWindow:    i.HandleNewWindow,
		OnLoadFinished: onLoadFinished,
		OnClosed:       onClosed,
	}
}

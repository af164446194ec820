// Package policy classifies URLs against the domain allow-list.
// Everything here is a pure function of its inputs: the same rules are
// consulted for requests, navigations, redirects and window-open attempts.
package policy

import (
	"net/url"
	"strings"

	"github.com/grokdesk/grokdesk/internal/domain"
)

// DefaultURL is the fixed destination loaded on a fresh start.
const DefaultURL = "https://grok.com/"

// AllowList is the set of registered domain suffixes permitted in-shell.
// A candidate hostname matches an entry iff it equals the entry or ends
// with "." + entry. Comparison is case-insensitive and hostname-only;
// entries never carry a scheme or path.
type AllowList struct {
	entries []string
}

// NewAllowList builds an allow-list from the given entries.
// Entries are normalized to lower case; empty entries are dropped.
func NewAllowList(entries ...string) *AllowList {
	a := &AllowList{entries: make([]string, 0, len(entries))}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		e = strings.ToLower(strings.TrimSpace(e))
		e = strings.Trim(e, ".")
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		a.entries = append(a.entries, e)
	}
	return a
}

// DefaultAllowList returns the built-in allow-list for the wrapped site.
func DefaultAllowList() *AllowList {
	return NewAllowList("grok.com", "x.ai")
}

// Extend returns a new allow-list with extra entries appended.
// The receiver is not modified.
func (a *AllowList) Extend(entries ...string) *AllowList {
	return NewAllowList(append(append([]string{}, a.entries...), entries...)...)
}

// Entries returns the normalized entries, for display.
func (a *AllowList) Entries() []string {
	out := make([]string, len(a.entries))
	copy(out, a.entries)
	return out
}

// Matches reports whether hostname equals or is a subdomain of some entry.
func (a *AllowList) Matches(hostname string) bool {
	hostname = strings.ToLower(hostname)
	for _, e := range a.entries {
		if hostname == e || strings.HasSuffix(hostname, "."+e) {
			return true
		}
	}
	return false
}

// IsAllowed reports whether rawURL may render in-shell: it must parse, use
// exactly the https scheme, and have an allow-listed hostname. Any parse
// failure fails closed.
func (a *AllowList) IsAllowed(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "https" {
		return false
	}
	return a.Matches(u.Hostname())
}

// IsHTTPURL reports whether rawURL parses with an http or https scheme.
func IsHTTPURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// ShouldOpenExternally reports whether rawURL belongs in the OS default
// browser: a well-formed http(s) URL that is not allow-listed. Non-http(s)
// schemes (mailto:, file:, ...) are never opened externally.
func (a *AllowList) ShouldOpenExternally(rawURL string) bool {
	return IsHTTPURL(rawURL) && !a.IsAllowed(rawURL)
}

// Classify maps rawURL to a navigation decision.
func (a *AllowList) Classify(rawURL string) domain.Decision {
	if a.IsAllowed(rawURL) {
		return domain.DecisionProceed
	}
	if a.ShouldOpenExternally(rawURL) {
		return domain.DecisionOpenExternally
	}
	return domain.DecisionBlock
}

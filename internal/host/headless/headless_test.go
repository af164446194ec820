package headless

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grokdesk/grokdesk/internal/domain"
	"github.com/grokdesk/grokdesk/internal/policy"
	"github.com/grokdesk/grokdesk/internal/usecase"
	"github.com/grokdesk/grokdesk/test/fixtures"
)

// newTestServer serves a tiny site: / is fine, /redirect bounces to an
// external host, /missing 404s.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>ok</html>"))
	})
	mux.HandleFunc("/redirect", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "https://elsewhere.example/", http.StatusFound)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewTLSServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type loadResult struct {
	url string
	ok  bool
}

func newTestWindow(t *testing.T, srv *httptest.Server, loads *[]loadResult) (*Window, *fixtures.FakeDesktop) {
	t.Helper()

	desktop := &fixtures.FakeDesktop{}
	allow := policy.NewAllowList("127.0.0.1")
	interceptor := usecase.NewInterceptor(allow, desktop, nil, nil)

	host := New(srv.Client(), nil)
	hooks := interceptor.Hooks(func(url string, ok bool) {
		*loads = append(*loads, loadResult{url: url, ok: ok})
	}, nil)

	win, err := host.Create(domain.WindowOptions{ScriptIsolation: true}, nil, hooks)
	require.NoError(t, err)
	return win.(*Window), desktop
}

func TestLoadURL_AllowedLoadSucceeds(t *testing.T) {
	srv := newTestServer(t)
	var loads []loadResult
	win, _ := newTestWindow(t, srv, &loads)

	require.NoError(t, win.LoadURL(srv.URL+"/"))

	require.Len(t, loads, 1)
	assert.True(t, loads[0].ok)
	assert.Equal(t, srv.URL+"/", win.CurrentURL())
}

func TestLoadURL_FailedLoadStillCompletes(t *testing.T) {
	srv := newTestServer(t)
	var loads []loadResult
	win, _ := newTestWindow(t, srv, &loads)

	require.NoError(t, win.LoadURL(srv.URL+"/missing"))

	require.Len(t, loads, 1)
	assert.False(t, loads[0].ok, "4xx reports a failed load")
}

func TestLoadURL_RedirectToDisallowedHostCanceled(t *testing.T) {
	srv := newTestServer(t)
	var loads []loadResult
	win, desktop := newTestWindow(t, srv, &loads)

	require.NoError(t, win.LoadURL(srv.URL+"/redirect"))

	// The redirect target went to the OS browser; the in-shell load failed.
	assert.Equal(t, []string{"https://elsewhere.example/"}, desktop.OpenedURLs())
	require.Len(t, loads, 1)
	assert.False(t, loads[0].ok)
}

func TestLoadURL_NavigationToDisallowedHostNeverFetches(t *testing.T) {
	srv := newTestServer(t)
	var loads []loadResult
	win, desktop := newTestWindow(t, srv, &loads)

	require.NoError(t, win.LoadURL("https://elsewhere.example/"))

	// Canceled before any fetch: no load event, handed to the OS browser.
	assert.Empty(t, loads)
	assert.Equal(t, []string{"https://elsewhere.example/"}, desktop.OpenedURLs())
	assert.Empty(t, win.CurrentURL())
}

func TestWindow_PresentAndDestroy(t *testing.T) {
	srv := newTestServer(t)
	var loads []loadResult
	win, _ := newTestWindow(t, srv, &loads)

	win.SetState(domain.WindowState{Minimized: true})
	win.Present()
	assert.Equal(t, domain.WindowState{Focused: true, Visible: true}, win.State())

	win.Destroy()
	win.Destroy() // idempotent
}

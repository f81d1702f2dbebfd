//go:build e2e

package e2e

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bsv-th/solar-dashboard/internal/guard"
	"github.com/bsv-th/solar-dashboard/internal/poller"
	"github.com/bsv-th/solar-dashboard/internal/session"
	"github.com/bsv-th/solar-dashboard/internal/solarapi"
	"github.com/bsv-th/solar-dashboard/internal/testutil/mocksolar"
	"github.com/bsv-th/solar-dashboard/internal/web"
)

// env is one fully wired gateway plus its mock backend, torn down with the
// test. The HTTP client carries a cookie jar, so it behaves like a browser
// session across redirects.
type env struct {
	Backend *mocksolar.Server
	Gateway *httptest.Server
	Client  *http.Client
	Poller  *poller.Poller
}

func setup(t *testing.T) *env {
	t.Helper()

	backend := mocksolar.New()
	t.Cleanup(backend.Close)

	store := session.NewStore(false)
	client := solarapi.NewClient(backend.URL)
	p := poller.New(client, nil, poller.WithIntervals(25*time.Millisecond, 25*time.Millisecond))

	handler := web.NewHandler(client, store, p, nil)
	g := guard.New(session.NewResolver(store), nil)
	verifier := guard.NewVerifier(client, store, nil)

	gateway := httptest.NewServer(web.NewRouter(handler, g, verifier, nil))
	t.Cleanup(gateway.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &env{
		Backend: backend,
		Gateway: gateway,
		Client:  &http.Client{Jar: jar, Timeout: 5 * time.Second},
		Poller:  p,
	}
}

// get fetches a gateway path, following redirects like a browser.
func (e *env) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := e.Client.Get(e.Gateway.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

// postForm submits a form to a gateway path, following redirects.
func (e *env) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := e.Client.PostForm(e.Gateway.URL+path, form)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

// login walks the real login flow and returns the final page.
func (e *env) login(t *testing.T, username, password, dashboard string) (*http.Response, string) {
	t.Helper()
	return e.postForm(t, "/login", url.Values{
		"username":  {username},
		"password":  {password},
		"dashboard": {dashboard},
	})
}

// setCookie plants a cookie on the gateway origin, the way a stale or forged
// browser state would look.
func (e *env) setCookie(t *testing.T, name, value string) {
	t.Helper()
	u, err := url.Parse(e.Gateway.URL)
	require.NoError(t, err)
	e.Client.Jar.SetCookies(u, []*http.Cookie{{Name: name, Value: value}})
}

// cookie returns the current value of a cookie on the gateway origin.
func (e *env) cookie(t *testing.T, name string) (string, bool) {
	t.Helper()
	u, err := url.Parse(e.Gateway.URL)
	require.NoError(t, err)
	for _, c := range e.Client.Jar.Cookies(u) {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	//nolint:errcheck // Response body close errors are unrecoverable
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionCookieFrom(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no %q cookie in response", name)
	return nil
}

func TestSessionCookie_IssuedOnFirstRequest(t *testing.T) {
	srv := New(DefaultConfig())

	req := httptest.NewRequest("GET", "/session", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	cookie := sessionCookieFrom(t, w.Result(), srv.config.CookieName)
	assert.NotEmpty(t, cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Contains(t, cookie.Value, "-", "names are separator-joined word pairs")

	_, ok := srv.Registry().Get(cookie.Value)
	assert.True(t, ok, "cookie value must resolve to a registered session")
}

func TestSessionCookie_RoundTripResolvesSameSession(t *testing.T) {
	srv := New(DefaultConfig())

	first := httptest.NewRequest("GET", "/session", nil)
	w1 := httptest.NewRecorder()
	srv.Router().ServeHTTP(w1, first)

	cookie := sessionCookieFrom(t, w1.Result(), srv.config.CookieName)
	created, ok := srv.Registry().Get(cookie.Value)
	require.True(t, ok)

	second := httptest.NewRequest("GET", "/session", nil)
	second.AddCookie(cookie)
	w2 := httptest.NewRecorder()
	srv.Router().ServeHTTP(w2, second)

	// No new cookie, no new session, same context as the first request.
	for _, c := range w2.Result().Cookies() {
		assert.NotEqual(t, srv.config.CookieName, c.Name, "follow-up request must not get a new cookie")
	}
	assert.Equal(t, 1, srv.Registry().Len())

	resolved, ok := srv.Registry().Get(cookie.Value)
	require.True(t, ok)
	assert.Same(t, created, resolved)
	assert.Same(t, created.Context(), resolved.Context())
}

func TestSessionCookie_ForgedValueAccepted(t *testing.T) {
	srv := New(DefaultConfig())

	req := httptest.NewRequest("GET", "/session", nil)
	req.AddCookie(&http.Cookie{Name: srv.config.CookieName, Value: "totally-made-up"})
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	s, ok := srv.Registry().Get("totally-made-up")
	require.True(t, ok, "client-supplied identifier mints a session")
	assert.Equal(t, "totally-made-up", s.Context().ID())
}

func TestSessionCookie_RefreshesLastSeen(t *testing.T) {
	srv := New(DefaultConfig())

	req := httptest.NewRequest("POST", "/event/fire", strings.NewReader(`{}`))
	req.AddCookie(&http.Cookie{Name: srv.config.CookieName, Value: "alpha-red"})
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	s, ok := srv.Registry().Get("alpha-red")
	require.True(t, ok)
	firstSeen := s.LastSeen()

	req2 := httptest.NewRequest("POST", "/event/fire", strings.NewReader(`{}`))
	req2.AddCookie(&http.Cookie{Name: srv.config.CookieName, Value: "alpha-red"})
	w2 := httptest.NewRecorder()
	srv.Router().ServeHTTP(w2, req2)

	assert.False(t, s.LastSeen().Before(firstSeen))
	assert.Equal(t, 1, srv.Registry().Len())
}

// ABOUTME: Tests for the session guard and route authorization boundary
// ABOUTME: Drives both against an httptest check-auth endpoint

package session

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/painel-f1/painel/internal/gateway"
	"github.com/painel-f1/painel/internal/tokenstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkAuthServer answers /check-auth with status and body and counts calls.
func checkAuthServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != CheckAuthPath {
			t.Errorf("expected path %s, got %s", CheckAuthPath, r.URL.Path)
		}
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func newGuard(t *testing.T, url string, token string) (*Guard, tokenstore.Store) {
	t.Helper()
	store := tokenstore.NewMemory()
	if token != "" {
		require.NoError(t, store.Set(token))
	}
	return NewGuard(store, gateway.New(url, nil, store, nil)), store
}

func TestVerify_NoTokenShortCircuits(t *testing.T) {
	server, calls := checkAuthServer(t, http.StatusOK, `{"isAuthenticated":true}`)
	guard, _ := newGuard(t, server.URL, "")

	assert.Equal(t, Unauthenticated, guard.Verify(context.Background()))
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestVerify_Authenticated(t *testing.T) {
	server, calls := checkAuthServer(t, http.StatusOK, `{"isAuthenticated":true}`)
	guard, store := newGuard(t, server.URL, "abc123")

	assert.Equal(t, Authenticated, guard.Verify(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	token, ok := store.Get()
	assert.True(t, ok)
	assert.Equal(t, "abc123", token)
}

func TestVerify_RejectionsClearToken(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"not authenticated", http.StatusOK, `{"isAuthenticated":false}`},
		{"server error", http.StatusInternalServerError, `{"isAuthenticated":true}`},
		{"unauthorized", http.StatusUnauthorized, `{}`},
		{"forbidden", http.StatusForbidden, `{}`},
		{"garbage body", http.StatusOK, `<html>`},
		{"missing field", http.StatusOK, `{}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server, _ := checkAuthServer(t, tc.status, tc.body)
			guard, store := newGuard(t, server.URL, "abc123")

			assert.Equal(t, Unauthenticated, guard.Verify(context.Background()))
			_, ok := store.Get()
			assert.False(t, ok)
		})
	}
}

func TestVerify_RejectionKeepsNewerLogin(t *testing.T) {
	store := tokenstore.NewMemory()
	require.NoError(t, store.Set("stale"))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store.Set("abc123")
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)
	guard := NewGuard(store, gateway.New(server.URL, nil, store, nil))

	assert.Equal(t, Unauthenticated, guard.Verify(context.Background()))
	token, ok := store.Get()
	assert.True(t, ok)
	assert.Equal(t, "abc123", token)
}

func TestVerify_TransportFailureFailsClosed(t *testing.T) {
	guard, store := newGuard(t, "http://localhost:99999", "abc123")

	assert.Equal(t, Unauthenticated, guard.Verify(context.Background()))
	_, ok := store.Get()
	assert.False(t, ok)
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "unknown", Unknown.String())
	assert.Equal(t, "authenticated", Authenticated.String())
	assert.Equal(t, "unauthenticated", Unauthenticated.String())
}

// fixedVerifier returns the same verdict and counts calls.
type fixedVerifier struct {
	verdict Verdict
	calls   int
}

func (f *fixedVerifier) Verify(context.Context) Verdict {
	f.calls++
	return f.verdict
}

// recordingNavigator counts in-app redirects.
type recordingNavigator struct {
	routes []string
}

func (n *recordingNavigator) Navigate(route string) {
	n.routes = append(n.routes, route)
}

func TestBoundary_StartsPending(t *testing.T) {
	b := NewBoundary(&fixedVerifier{verdict: Authenticated}, &recordingNavigator{})

	assert.Equal(t, Pending, b.State())
	assert.Equal(t, "Loading...", b.View("Loading...", func() string {
		t.Fatal("content rendered while pending")
		return ""
	}))
}

func TestBoundary_Granted(t *testing.T) {
	verifier := &fixedVerifier{verdict: Authenticated}
	nav := &recordingNavigator{}
	b := NewBoundary(verifier, nav)

	state, changed := b.Resolve(b.Check(context.Background()))
	assert.Equal(t, Granted, state)
	assert.True(t, changed)

	_, changedAgain := b.Resolve(b.Check(context.Background()))
	assert.False(t, changedAgain, "granted content must mount exactly once")

	assert.Equal(t, 1, verifier.calls)
	assert.Empty(t, nav.routes)
	assert.Equal(t, "protected", b.View("Loading...", func() string { return "protected" }))
}

func TestBoundary_DeniedRedirectsOnce(t *testing.T) {
	verifier := &fixedVerifier{verdict: Unauthenticated}
	nav := &recordingNavigator{}
	b := NewBoundary(verifier, nav)

	assert.Equal(t, Denied, b.Evaluate(context.Background()))
	assert.Equal(t, Denied, b.Evaluate(context.Background()))

	assert.Equal(t, 1, verifier.calls)
	assert.Equal(t, []string{LoginRoute}, nav.routes)
	assert.Empty(t, b.View("Loading...", func() string { return "protected" }))
}

func TestBoundary_TerminalStateIsSticky(t *testing.T) {
	b := NewBoundary(&fixedVerifier{verdict: Authenticated}, &recordingNavigator{})
	b.Evaluate(context.Background())

	state, changed := b.Resolve(Unauthenticated)
	assert.Equal(t, Granted, state)
	assert.False(t, changed)
}

func TestBoundary_UnknownStaysPending(t *testing.T) {
	nav := &recordingNavigator{}
	b := NewBoundary(&fixedVerifier{verdict: Unknown}, nav)

	state, changed := b.Resolve(Unknown)
	assert.Equal(t, Pending, state)
	assert.False(t, changed)
	assert.Empty(t, nav.routes)
}

func TestBoundary_NewMountVerifiesAgain(t *testing.T) {
	verifier := &fixedVerifier{verdict: Authenticated}

	NewBoundary(verifier, nil).Evaluate(context.Background())
	NewBoundary(verifier, nil).Evaluate(context.Background())

	assert.Equal(t, 2, verifier.calls)
}

func TestBoundary_NoTokenNeverCallsCheckAuth(t *testing.T) {
	server, calls := checkAuthServer(t, http.StatusOK, `{"isAuthenticated":true}`)
	guard, _ := newGuard(t, server.URL, "")
	nav := &recordingNavigator{}

	b := NewBoundary(guard, nav)

	assert.Equal(t, Denied, b.Evaluate(context.Background()))
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
	assert.Equal(t, []string{LoginRoute}, nav.routes)
}

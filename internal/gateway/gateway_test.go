// ABOUTME: Tests for the authenticated request gateway
// ABOUTME: Uses httptest to check headers, body kinds and forced logout

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/painel-f1/painel/internal/tokenstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingRedirector counts hard redirects.
type recordingRedirector struct {
	routes []string
}

func (r *recordingRedirector) HardRedirect(route string) {
	r.routes = append(r.routes, route)
}

// capture starts a server that records the last request and answers with status.
func capture(t *testing.T, status int, body string) (*httptest.Server, *http.Request, *[]byte) {
	t.Helper()
	var got http.Request
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = *r.Clone(context.Background())
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return server, &got, &gotBody
}

func TestDo_JSONBodySetsContentType(t *testing.T) {
	server, got, gotBody := capture(t, http.StatusCreated, `{}`)
	g := New(server.URL, nil, tokenstore.NewMemory(), nil)

	resp, err := g.Do(context.Background(), "/api/drivers", Options{
		Method: http.MethodPost,
		JSON:   map[string]string{"surname": "Senna"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(*gotBody, &decoded))
	assert.Equal(t, "Senna", decoded["surname"])
}

func TestDo_NoBodyStillDeclaresJSON(t *testing.T) {
	server, got, _ := capture(t, http.StatusOK, `{}`)
	g := New(server.URL, nil, tokenstore.NewMemory(), nil)

	resp, err := g.Do(context.Background(), "/api/views", Options{})
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
}

func TestDo_CallerContentTypeOverriddenForJSON(t *testing.T) {
	server, got, _ := capture(t, http.StatusOK, `{}`)
	g := New(server.URL, nil, tokenstore.NewMemory(), nil)

	resp, err := g.Do(context.Background(), "/api/reports/execute", Options{
		Method: http.MethodPost,
		Header: http.Header{"Content-Type": {"text/plain"}},
		JSON:   map[string]any{"reportId": 1},
	})
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, []string{"application/json"}, got.Header.Values("Content-Type"))
}

func TestDo_BinaryBodyWithoutTypeHasNoContentType(t *testing.T) {
	server, got, gotBody := capture(t, http.StatusOK, `{}`)
	g := New(server.URL, nil, tokenstore.NewMemory(), nil)

	resp, err := g.Do(context.Background(), "/api/upload-drivers", Options{
		Method: http.MethodPost,
		Header: http.Header{"Content-Type": {"application/json"}},
		Binary: &Binary{Body: strings.NewReader("raw-bytes")},
	})
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, got.Header.Values("Content-Type"))
	assert.Equal(t, "raw-bytes", string(*gotBody))
}

func TestDo_MultipartDeclaresOwnBoundary(t *testing.T) {
	var fileContent string
	var contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("expected multipart file: %v", err)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		fileContent = header.Filename + ":" + string(data)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	payload, err := MultipartFile("file", "drivers.csv", strings.NewReader("driverref,code\nsenna,SEN\n"))
	require.NoError(t, err)

	g := New(server.URL, nil, tokenstore.NewMemory(), nil)
	resp, err := g.Do(context.Background(), "/api/upload-drivers", Options{Method: http.MethodPost, Binary: payload})
	require.NoError(t, err)
	resp.Body.Close()

	assert.True(t, strings.HasPrefix(contentType, "multipart/form-data; boundary="), contentType)
	assert.NotContains(t, contentType, "application/json")
	assert.Equal(t, "drivers.csv:driverref,code\nsenna,SEN\n", fileContent)
}

func TestDo_AttachesBearerToken(t *testing.T) {
	server, got, _ := capture(t, http.StatusOK, `{}`)
	store := tokenstore.NewMemory()
	require.NoError(t, store.Set("abc123"))
	g := New(server.URL, nil, store, nil)

	resp, err := g.Do(context.Background(), "/api/user-info", Options{})
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer abc123", got.Header.Get("Authorization"))
	assert.NotEmpty(t, got.Header.Get("X-Request-ID"))
}

func TestDo_NoTokenNoAuthorizationHeader(t *testing.T) {
	server, got, _ := capture(t, http.StatusOK, `{}`)
	g := New(server.URL, nil, tokenstore.NewMemory(), nil)

	resp, err := g.Do(context.Background(), "/check-auth", Options{
		Header: http.Header{"Authorization": {"Bearer stale"}},
	})
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, got.Header.Values("Authorization"))
}

func TestDo_ClearedTokenIsNotAttached(t *testing.T) {
	server, got, _ := capture(t, http.StatusOK, `{}`)
	store := tokenstore.NewMemory()
	require.NoError(t, store.Set("abc123"))
	require.NoError(t, store.Clear())
	g := New(server.URL, nil, store, nil)

	resp, err := g.Do(context.Background(), "/api/views", Options{})
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, got.Header.Get("Authorization"))
}

func TestDo_UnauthorizedForcesLogout(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			server, _, _ := capture(t, status, `{"message":"Unauthorized"}`)
			store := tokenstore.NewMemory()
			require.NoError(t, store.Set("abc123"))
			redirector := &recordingRedirector{}
			g := New(server.URL, nil, store, redirector)

			resp, err := g.Do(context.Background(), "/api/views", Options{})

			assert.Nil(t, resp)
			assert.ErrorIs(t, err, ErrSessionExpired)
			_, ok := store.Get()
			assert.False(t, ok, "token must be cleared before Do returns")
			assert.Equal(t, []string{LoginRoute}, redirector.routes)
		})
	}
}

func TestDo_RejectionOfReplacedTokenKeepsNewSession(t *testing.T) {
	store := tokenstore.NewMemory()
	require.NoError(t, store.Set("stale"))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// a fresh login lands while the old token's request is in flight
		store.Set("abc123")
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)
	redirector := &recordingRedirector{}
	g := New(server.URL, nil, store, redirector)

	resp, err := g.Do(context.Background(), "/check-auth", Options{})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrSessionExpired)
	token, ok := store.Get()
	assert.True(t, ok)
	assert.Equal(t, "abc123", token)
	assert.Empty(t, redirector.routes)
}

func TestDo_UnauthorizedWithoutTokenRedirects(t *testing.T) {
	server, _, _ := capture(t, http.StatusUnauthorized, `{}`)
	redirector := &recordingRedirector{}
	g := New(server.URL, nil, tokenstore.NewMemory(), redirector)

	_, err := g.Do(context.Background(), "/api/views", Options{})

	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, []string{LoginRoute}, redirector.routes)
}

func TestDo_OtherErrorStatusesReturnResponse(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusConflict, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			server, _, _ := capture(t, status, `{"message":"nope"}`)
			store := tokenstore.NewMemory()
			require.NoError(t, store.Set("abc123"))
			redirector := &recordingRedirector{}
			g := New(server.URL, nil, store, redirector)

			resp, err := g.Do(context.Background(), "/api/drivers", Options{Method: http.MethodPost})
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, status, resp.StatusCode)
			token, ok := store.Get()
			assert.True(t, ok)
			assert.Equal(t, "abc123", token)
			assert.Empty(t, redirector.routes)
		})
	}
}

func TestDo_TransportFailureKeepsToken(t *testing.T) {
	store := tokenstore.NewMemory()
	require.NoError(t, store.Set("abc123"))
	redirector := &recordingRedirector{}
	g := New("http://localhost:99999", nil, store, redirector)

	resp, err := g.Do(context.Background(), "/api/views", Options{})

	assert.Nil(t, resp)
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Contains(t, err.Error(), "cannot connect to API")
	_, ok := store.Get()
	assert.True(t, ok)
	assert.Empty(t, redirector.routes)
}

func TestDo_TransportErrorNamesDialledHost(t *testing.T) {
	g := New("http://api.example.com", nil, tokenstore.NewMemory(), nil)

	_, err := g.Do(context.Background(), "http://localhost:99999/api/views?page=1", Options{})

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, "http://localhost:99999", transportErr.URL)
}

func TestDo_CanceledContext(t *testing.T) {
	server, _, _ := capture(t, http.StatusOK, `{}`)
	g := New(server.URL, nil, tokenstore.NewMemory(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Do(ctx, "/api/views", Options{})
	require.Error(t, err)
	assert.Equal(t, "request canceled", err.Error())
}

func TestDo_RejectsTwoBodies(t *testing.T) {
	g := New("http://localhost", nil, tokenstore.NewMemory(), nil)

	_, err := g.Do(context.Background(), "/api/drivers", Options{
		JSON:   map[string]string{},
		Binary: &Binary{Body: strings.NewReader("x")},
	})
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	g := New("http://api.example.com/", nil, tokenstore.NewMemory(), nil)

	tests := []struct {
		target   string
		query    url.Values
		expected string
	}{
		{"/api/views", nil, "http://api.example.com/api/views"},
		{"api/views", nil, "http://api.example.com/api/views"},
		{"https://other.example.com/x", nil, "https://other.example.com/x"},
		{"/api/view/pilotos", url.Values{"page": {"2"}, "limit": {"20"}}, "http://api.example.com/api/view/pilotos?limit=20&page=2"},
		{"/api/search?x=1", url.Values{"surname": {"da Silva"}}, "http://api.example.com/api/search?x=1&surname=da+Silva"},
	}

	for _, tc := range tests {
		t.Run(tc.target, func(t *testing.T) {
			assert.Equal(t, tc.expected, g.resolve(tc.target, tc.query))
		})
	}
}

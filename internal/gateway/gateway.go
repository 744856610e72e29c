// ABOUTME: Authenticated request gateway for the data API
// ABOUTME: Attaches the stored bearer token and forces logout on 401/403 responses

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/painel-f1/painel/internal/tokenstore"
)

// LoginRoute is the entry point a forced logout redirects to.
const LoginRoute = "/login"

// ErrSessionExpired is returned instead of a response when the API answers
// 401 or 403. By then the token has been cleared and the hard redirect issued.
var ErrSessionExpired = errors.New("session expired, please log in again")

// Redirector performs a hard redirect: a navigation that throws away all
// in-memory application state, as opposed to switching screens.
type Redirector interface {
	HardRedirect(route string)
}

// RedirectorFunc adapts a function to Redirector.
type RedirectorFunc func(route string)

func (f RedirectorFunc) HardRedirect(route string) { f(route) }

// Binary is an opaque, already encoded payload such as a multipart upload.
// The gateway sends it untouched and never assigns it a content type; the
// encoder that produced it declares its own (with the multipart boundary).
type Binary struct {
	Body        io.Reader
	ContentType string
}

// Options describe a single request. At most one of JSON and Binary may be set.
type Options struct {
	Method string
	Header http.Header
	Query  url.Values
	JSON   any
	Binary *Binary
}

// TransportError reports a request that never produced a response.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	switch {
	case errors.Is(e.Err, context.Canceled):
		return "request canceled"
	case errors.Is(e.Err, context.DeadlineExceeded):
		return "request timed out"
	default:
		return fmt.Sprintf("cannot connect to API at %s: %v", e.URL, e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// Gateway sends requests on behalf of the logged-in user.
type Gateway struct {
	baseURL    string
	httpClient *http.Client
	store      tokenstore.Store
	redirector Redirector
}

// New creates a gateway. A nil httpClient uses a client with transport
// defaults; a nil redirector makes forced logouts clear the token only.
func New(baseURL string, httpClient *http.Client, store tokenstore.Store, redirector Redirector) *Gateway {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Gateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		store:      store,
		redirector: redirector,
	}
}

// BaseURL returns the API root requests are resolved against.
func (g *Gateway) BaseURL() string {
	return g.baseURL
}

// HTTPClient returns the underlying client for unauthenticated calls.
func (g *Gateway) HTTPClient() *http.Client {
	return g.httpClient
}

// Store returns the token store the gateway reads from.
func (g *Gateway) Store() tokenstore.Store {
	return g.store
}

// Do sends the request described by opts to target (a path relative to the
// base URL, or an absolute URL). On 401/403 it clears the token, issues one
// hard redirect to LoginRoute and returns ErrSessionExpired with no response.
// Every other status is returned to the caller, who must close the body.
// A rejection of a token that has since been replaced by a newer login
// leaves the newer session alone.
func (g *Gateway) Do(ctx context.Context, target string, opts Options) (*http.Response, error) {
	req, token, err := g.newRequest(ctx, target, opts)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	start := time.Now()

	resp, err := g.httpClient.Do(req)
	if err != nil {
		slog.Debug("Request failed",
			"request_id", requestID,
			"method", req.Method,
			"path", req.URL.Path,
			"error", err,
		)
		return nil, &TransportError{URL: origin(req.URL), Err: err}
	}

	slog.Debug("Request completed",
		"request_id", requestID,
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		g.rejected(token, resp.StatusCode, req.URL.Path)
		return nil, ErrSessionExpired
	}

	return resp, nil
}

// newRequest builds the request and returns the token it carries, empty
// when none was attached.
func (g *Gateway) newRequest(ctx context.Context, target string, opts Options) (*http.Request, string, error) {
	if opts.JSON != nil && opts.Binary != nil {
		return nil, "", errors.New("request cannot carry both a JSON and a binary body")
	}

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	switch {
	case opts.Binary != nil:
		body = opts.Binary.Body
	case opts.JSON != nil:
		data, err := json.Marshal(opts.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.resolve(target, opts.Query), body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range opts.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	if opts.Binary != nil {
		req.Header.Del("Content-Type")
		if opts.Binary.ContentType != "" {
			req.Header["Content-Type"] = []string{opts.Binary.ContentType}
		}
	} else {
		req.Header.Set("Content-Type", "application/json")
	}

	// Read the store at call time so a token cleared by a concurrent
	// forced logout is never attached.
	req.Header.Del("Authorization")
	token, ok := g.store.Get()
	if ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, token, nil
}

// rejected ends the session whose token the API refused. If the store
// already holds a different token, the refusal belongs to an older session
// and nothing is cleared or redirected.
func (g *Gateway) rejected(token string, status int, path string) {
	cleared, err := g.store.CompareAndClear(token)
	if err != nil {
		slog.Warn("Cannot compare stored token, clearing it", "error", err)
		if err := g.store.Clear(); err != nil {
			slog.Error("Failed to clear token", "error", err)
		}
		cleared = true
	}
	if !cleared {
		slog.Info("Rejection of a replaced token ignored", "status", status, "path", path)
		return
	}
	slog.Warn("Authorization rejected, ending session", "status", status, "path", path)
	if g.redirector != nil {
		g.redirector.HardRedirect(LoginRoute)
	}
}

// origin is the scheme and host of u, which is what a connection failure is about
func origin(u *url.URL) string {
	return (&url.URL{Scheme: u.Scheme, Host: u.Host}).String()
}

func (g *Gateway) resolve(target string, query url.Values) string {
	u := target
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		if !strings.HasPrefix(target, "/") {
			target = "/" + target
		}
		u = g.baseURL + target
	}
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + query.Encode()
	}
	return u
}

// EndSession clears the token and hard-redirects to LoginRoute.
func (g *Gateway) EndSession() {
	if err := g.store.Clear(); err != nil {
		slog.Error("Failed to clear token", "error", err)
	}
	if g.redirector != nil {
		g.redirector.HardRedirect(LoginRoute)
	}
}

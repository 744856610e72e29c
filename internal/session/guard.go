// ABOUTME: Session guard that decides whether the stored token is still valid
// ABOUTME: Verifies against /check-auth and fails closed on any doubt

package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/painel-f1/painel/internal/gateway"
	"github.com/painel-f1/painel/internal/tokenstore"
)

// CheckAuthPath is the verification endpoint.
const CheckAuthPath = "/check-auth"

// Verdict is the outcome of a session check.
type Verdict int

const (
	Unknown Verdict = iota
	Authenticated
	Unauthenticated
)

func (v Verdict) String() string {
	switch v {
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Verifier yields a verdict for the current session.
type Verifier interface {
	Verify(ctx context.Context) Verdict
}

// Doer is the part of the gateway the guard needs.
type Doer interface {
	Do(ctx context.Context, target string, opts gateway.Options) (*http.Response, error)
}

type checkAuthResponse struct {
	IsAuthenticated bool `json:"isAuthenticated"`
}

// Guard checks the stored token with the API.
type Guard struct {
	store tokenstore.Store
	api   Doer
}

// NewGuard creates a guard reading from store and calling api.
func NewGuard(store tokenstore.Store, api Doer) *Guard {
	return &Guard{store: store, api: api}
}

// Verify returns Authenticated only when the API positively confirms the
// session. Every other outcome clears the token and returns Unauthenticated.
func (g *Guard) Verify(ctx context.Context) Verdict {
	token, ok := g.store.Get()
	if !ok {
		return Unauthenticated
	}

	resp, err := g.api.Do(ctx, CheckAuthPath, gateway.Options{Method: http.MethodGet})
	if err != nil {
		slog.Warn("Session verification failed", "error", err)
		return g.reject(token)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Info("Session rejected", "status", resp.StatusCode)
		return g.reject(token)
	}

	var body checkAuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		slog.Warn("Invalid session verification response", "error", err)
		return g.reject(token)
	}
	if !body.IsAuthenticated {
		return g.reject(token)
	}

	return Authenticated
}

// reject clears the token that failed verification. A token stored since
// by a newer login is not the one that failed and stays.
func (g *Guard) reject(token string) Verdict {
	if _, err := g.store.CompareAndClear(token); err != nil {
		slog.Error("Failed to clear token", "error", err)
	}
	return Unauthenticated
}

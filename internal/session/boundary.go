// ABOUTME: Route authorization boundary state machine for protected screens
// ABOUTME: Pending until the guard answers, then Granted or Denied for the life of the mount

package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNotAuthenticated is reported by callers that were denied by a boundary.
var ErrNotAuthenticated = errors.New("not logged in or session expired; run 'painel login'")

// State of a boundary.
type State int

const (
	Pending State = iota
	Granted
	Denied
)

func (s State) String() string {
	switch s {
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	default:
		return "pending"
	}
}

// Navigator switches routes inside the running application.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// LoginRoute is where denied mounts are sent.
const LoginRoute = "/login"

// Boundary gates one mount of one protected route. Create a new Boundary
// for every mount; a settled boundary never verifies again.
type Boundary struct {
	verifier Verifier
	nav      Navigator

	once    sync.Once
	verdict Verdict

	mu    sync.Mutex
	state State
}

// NewBoundary creates a boundary in the Pending state.
func NewBoundary(verifier Verifier, nav Navigator) *Boundary {
	return &Boundary{verifier: verifier, nav: nav}
}

// State reports the current state.
func (b *Boundary) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Check runs the one verification pass for this mount and returns its
// verdict. It may be called from any goroutine; repeated calls return the
// first verdict without contacting the verifier again.
func (b *Boundary) Check(ctx context.Context) Verdict {
	b.once.Do(func() {
		b.verdict = b.verifier.Verify(ctx)
	})
	return b.verdict
}

// Resolve applies a verdict. The first call moves Pending to Granted or
// Denied and reports true; Denied issues the redirect to LoginRoute exactly
// once. Calls after that change nothing and report false. Unknown leaves the
// boundary Pending.
func (b *Boundary) Resolve(v Verdict) (State, bool) {
	b.mu.Lock()
	if b.state != Pending || v == Unknown {
		state := b.state
		b.mu.Unlock()
		return state, false
	}

	if v == Authenticated {
		b.state = Granted
	} else {
		b.state = Denied
	}
	state := b.state
	b.mu.Unlock()

	if state == Denied && b.nav != nil {
		b.nav.Navigate(LoginRoute)
	}
	return state, true
}

// Evaluate checks and resolves in one step, for callers that can block.
func (b *Boundary) Evaluate(ctx context.Context) State {
	state, _ := b.Resolve(b.Check(ctx))
	return state
}

// View picks what to show: the placeholder while Pending, the protected
// content once Granted, and nothing once Denied.
func (b *Boundary) View(placeholder string, content func() string) string {
	switch b.State() {
	case Granted:
		return content()
	case Denied:
		return ""
	default:
		return placeholder
	}
}

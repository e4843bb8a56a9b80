// Package layoutgate picks between the account dashboard and the login form
// based on whether the request carries a usable customer session.
//
// Resolution failures never surface to the visitor: the gate logs the cause
// and renders the login branch with status 200 at the requested URL.
package layoutgate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/louisbranch/storefront/internal/services/storefront/backend"
)

// ErrNoSession reports that the request has no customer session.
var ErrNoSession = errors.New("no customer session")

// ErrStaleSession reports a session token that is expired, malformed, or
// rejected by the backend. It matches ErrNoSession.
var ErrStaleSession = fmt.Errorf("%w: stale token", ErrNoSession)

// Session is a resolved customer identity with the token used to act on
// the customer's behalf.
type Session struct {
	Token    string
	Customer backend.Customer
}

// Resolver resolves the customer session for a request.
type Resolver func(*http.Request) (Session, error)

// Gate serves Dashboard for signed-in customers and Login otherwise.
type Gate struct {
	Resolve   Resolver
	Dashboard http.Handler
	Login     http.Handler
	// ClearSession drops a stale session cookie; optional.
	ClearSession func(http.ResponseWriter, *http.Request)
}

// ServeHTTP implements http.Handler.
func (g Gate) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session, ok := g.resolve(w, r)
	if !ok {
		serve(g.Login, w, r)
		return
	}
	serve(g.Dashboard, w, r.WithContext(WithSession(r.Context(), session)))
}

func (g Gate) resolve(w http.ResponseWriter, r *http.Request) (Session, bool) {
	if g.Resolve == nil {
		return Session{}, false
	}
	session, err := g.Resolve(r)
	switch {
	case err == nil:
		return session, true
	case errors.Is(err, ErrStaleSession):
		if g.ClearSession != nil {
			g.ClearSession(w, r)
		}
		log.Printf("layout gate: stale session cleared path=%s", r.URL.Path)
	case errors.Is(err, ErrNoSession):
	default:
		log.Printf("layout gate: customer lookup failed, serving login path=%s: %v", r.URL.Path, err)
	}
	return Session{}, false
}

// Wrap gates each dashboard handler with the same resolver and login branch.
func (g Gate) Wrap(dashboard http.Handler) http.Handler {
	gated := g
	gated.Dashboard = dashboard
	return gated
}

func serve(h http.Handler, w http.ResponseWriter, r *http.Request) {
	if h == nil {
		http.NotFound(w, r)
		return
	}
	h.ServeHTTP(w, r)
}

type sessionKey struct{}

// WithSession stores session in ctx.
func WithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the session stored by the gate.
func SessionFromContext(ctx context.Context) (Session, bool) {
	if ctx == nil {
		return Session{}, false
	}
	session, ok := ctx.Value(sessionKey{}).(Session)
	return session, ok
}

package storefront

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/louisbranch/storefront/internal/services/storefront/backend"
	"github.com/louisbranch/storefront/internal/services/storefront/layoutgate"
	apperrors "github.com/louisbranch/storefront/internal/services/storefront/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/sessioncookie"
)

// CustomerClient resolves the customer behind a session token.
type CustomerClient interface {
	RetrieveCustomer(ctx context.Context, token string) (backend.Customer, error)
}

type requestPrincipalState struct {
	sessionOnce sync.Once
	session     layoutgate.Session
	sessionErr  error
}

type requestPrincipalStateKey struct{}

type principalResolver struct {
	customers CustomerClient
	now       func() time.Time
}

func newPrincipalResolver(customers CustomerClient) principalResolver {
	return principalResolver{customers: customers, now: time.Now}
}

func (r principalResolver) resolveSessionUncached(request *http.Request) (layoutgate.Session, error) {
	if request == nil {
		return layoutgate.Session{}, layoutgate.ErrNoSession
	}
	token, ok := sessioncookie.Read(request)
	if !ok {
		return layoutgate.Session{}, layoutgate.ErrNoSession
	}
	if err := checkTokenExpiry(token, r.now()); err != nil {
		return layoutgate.Session{}, fmt.Errorf("%w: %w", layoutgate.ErrStaleSession, err)
	}
	if r.customers == nil {
		return layoutgate.Session{}, layoutgate.ErrNoSession
	}
	customer, err := r.customers.RetrieveCustomer(request.Context(), token)
	if err != nil {
		if apperrors.Is(err, apperrors.KindUnauthorized) {
			return layoutgate.Session{}, fmt.Errorf("%w: %w", layoutgate.ErrStaleSession, err)
		}
		return layoutgate.Session{}, fmt.Errorf("retrieve customer: %w", err)
	}
	return layoutgate.Session{Token: token, Customer: customer}, nil
}

// resolveSession memoizes the lookup for the lifetime of the request.
func (r principalResolver) resolveSession(request *http.Request) (layoutgate.Session, error) {
	if state := requestPrincipalStateFromRequest(request); state != nil {
		state.sessionOnce.Do(func() {
			state.session, state.sessionErr = r.resolveSessionUncached(request)
		})
		return state.session, state.sessionErr
	}
	return r.resolveSessionUncached(request)
}

// checkTokenExpiry reads the token claims without verifying the signature;
// the backend remains the authority on validity.
func checkTokenExpiry(token string, now time.Time) error {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return fmt.Errorf("parse session token: %w", err)
	}
	if claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time) {
		return errors.New("session token expired")
	}
	return nil
}

func withRequestPrincipalState(next http.Handler) http.Handler {
	if next == nil {
		next = http.NotFoundHandler()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), requestPrincipalStateKey{}, &requestPrincipalState{})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestPrincipalStateFromRequest(r *http.Request) *requestPrincipalState {
	if r == nil {
		return nil
	}
	state, _ := r.Context().Value(requestPrincipalStateKey{}).(*requestPrincipalState)
	return state
}

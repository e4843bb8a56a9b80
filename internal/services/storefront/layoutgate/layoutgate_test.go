package layoutgate

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/louisbranch/storefront/internal/services/storefront/backend"
)

func branch(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session, ok := SessionFromContext(r.Context()); ok {
			_, _ = io.WriteString(w, name+":"+session.Customer.Email)
			return
		}
		_, _ = io.WriteString(w, name)
	})
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(previous) })
	return &buf
}

func TestGateServesDashboardForResolvedCustomer(t *testing.T) {
	t.Parallel()

	gate := Gate{
		Resolve: func(*http.Request) (Session, error) {
			return Session{Token: "tok", Customer: backend.Customer{Email: "ada@example.com"}}, nil
		},
		Dashboard: branch("dashboard"),
		Login:     branch("login"),
	}
	rr := httptest.NewRecorder()
	gate.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/it/en/account", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := rr.Body.String(); got != "dashboard:ada@example.com" {
		t.Fatalf("body = %q", got)
	}
}

func TestGateFallsBackToLoginWithoutRedirect(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		logged  string
		cleared bool
	}{
		{name: "no session", err: ErrNoSession},
		{name: "stale session", err: ErrStaleSession, logged: "stale session cleared", cleared: true},
		{name: "network failure", err: errors.New("dial tcp 10.0.0.1:9000: connection refused"), logged: "connection refused"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := captureLog(t)
			cleared := false
			gate := Gate{
				Resolve:      func(*http.Request) (Session, error) { return Session{}, tc.err },
				Dashboard:    branch("dashboard"),
				Login:        branch("login"),
				ClearSession: func(http.ResponseWriter, *http.Request) { cleared = true },
			}
			rr := httptest.NewRecorder()
			gate.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/it/en/account/orders", nil))

			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
			}
			if loc := rr.Header().Get("Location"); loc != "" {
				t.Fatalf("unexpected redirect to %q", loc)
			}
			if got := rr.Body.String(); got != "login" {
				t.Fatalf("body = %q, want login", got)
			}
			if cleared != tc.cleared {
				t.Fatalf("cleared = %v, want %v", cleared, tc.cleared)
			}
			if tc.logged == "" && buf.Len() != 0 {
				t.Fatalf("unexpected log output %q", buf.String())
			}
			if tc.logged != "" && !strings.Contains(buf.String(), tc.logged) {
				t.Fatalf("log = %q, want %q", buf.String(), tc.logged)
			}
		})
	}
}

func TestGateWithoutResolverServesLogin(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	Gate{Dashboard: branch("dashboard"), Login: branch("login")}.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/it/it/account", nil))
	if rr.Body.String() != "login" {
		t.Fatalf("body = %q", rr.Body.String())
	}
}

func TestWrapSharesLoginBranch(t *testing.T) {
	t.Parallel()

	gate := Gate{
		Resolve: func(*http.Request) (Session, error) { return Session{}, ErrNoSession },
		Login:   branch("login"),
	}
	orders := gate.Wrap(branch("orders"))
	rr := httptest.NewRecorder()
	orders.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/it/it/account/orders", nil))
	if rr.Body.String() != "login" {
		t.Fatalf("body = %q", rr.Body.String())
	}
}

func TestStaleSessionMatchesNoSession(t *testing.T) {
	t.Parallel()

	if !errors.Is(ErrStaleSession, ErrNoSession) {
		t.Fatal("ErrStaleSession should match ErrNoSession")
	}
}

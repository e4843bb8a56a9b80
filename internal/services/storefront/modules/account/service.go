package account

import (
	"context"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/storefront/internal/services/storefront/backend"
	module "github.com/louisbranch/storefront/internal/services/storefront/module"
	apperrors "github.com/louisbranch/storefront/internal/services/storefront/platform/errors"
)

const (
	recentLimit = 5
	listLimit   = 50
)

type service struct {
	accounts module.AccountClient
}

type overview struct {
	orders []backend.Order
	quotes []backend.Quote
}

func newService(accounts module.AccountClient) service {
	return service{accounts: accounts}
}

func (s service) login(ctx context.Context, email string, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", apperrors.EK(apperrors.KindInvalidInput, "account.login.required", "email and password are required")
	}
	token, err := s.accounts.Login(ctx, email, password)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(token) == "" {
		return "", apperrors.E(apperrors.KindUnknown, "backend did not return a session token")
	}
	return token, nil
}

// overview loads recent orders and quotes in parallel; each list falls back
// to empty on failure.
func (s service) overview(ctx context.Context, token string) overview {
	var out overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.orders = s.orders(gctx, token, recentLimit)
		return nil
	})
	g.Go(func() error {
		out.quotes = s.quotes(gctx, token, recentLimit)
		return nil
	})
	_ = g.Wait()
	return out
}

func (s service) orders(ctx context.Context, token string, limit int) []backend.Order {
	page, err := s.accounts.ListOrders(ctx, token, limit, 0)
	if err != nil {
		log.Printf("account: list orders failed: %v", err)
		return nil
	}
	return page.Orders
}

func (s service) quotes(ctx context.Context, token string, limit int) []backend.Quote {
	page, err := s.accounts.ListQuotes(ctx, token, limit, 0)
	if err != nil {
		log.Printf("account: list quotes failed: %v", err)
		return nil
	}
	return page.Quotes
}

func (s service) order(ctx context.Context, token string, orderID string) (backend.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return backend.Order{}, apperrors.EK(apperrors.KindNotFound, "error.not_found.title", "order id is required")
	}
	return s.accounts.RetrieveOrder(ctx, token, orderID)
}

func (s service) quote(ctx context.Context, token string, quoteID string) (backend.Quote, error) {
	quoteID = strings.TrimSpace(quoteID)
	if quoteID == "" {
		return backend.Quote{}, apperrors.EK(apperrors.KindNotFound, "error.not_found.title", "quote id is required")
	}
	return s.accounts.RetrieveQuote(ctx, token, quoteID)
}

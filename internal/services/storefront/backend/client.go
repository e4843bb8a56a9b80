// Package backend is the storefront client for the Medusa store API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/storefront/internal/platform/timeouts"
	apperrors "github.com/louisbranch/storefront/internal/services/storefront/platform/errors"
)

const (
	publishableKeyHeader = "x-publishable-api-key"
	tracerName           = "github.com/louisbranch/storefront/internal/services/storefront/backend"
	maxErrorBody         = 4 << 10

	productFields = "*variants.calculated_price,+variants.inventory_quantity,*variants.options,*options.values"
)

// Config configures the backend client.
type Config struct {
	BaseURL        string
	PublishableKey string
	HTTPClient     *http.Client
	Timeout        time.Duration
}

// Client calls the Medusa store API.
type Client struct {
	baseURL        *url.URL
	publishableKey string
	http           *http.Client
	timeout        time.Duration
	tracer         trace.Tracer
}

// New builds a backend client.
func New(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, fmt.Errorf("backend base url is required")
	}
	baseURL, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse backend base url: %w", err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, fmt.Errorf("backend base url must be http or https: %q", raw)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = timeouts.BackendRequest
	}
	return &Client{
		baseURL:        baseURL,
		publishableKey: strings.TrimSpace(cfg.PublishableKey),
		http:           httpClient,
		timeout:        timeout,
		tracer:         otel.Tracer(tracerName),
	}, nil
}

// ListRegions returns every region.
func (c *Client) ListRegions(ctx context.Context) ([]Region, error) {
	var payload struct {
		Regions []wireRegion `json:"regions"`
	}
	if err := c.do(ctx, http.MethodGet, "/store/regions", nil, "", nil, &payload); err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	regions := make([]Region, 0, len(payload.Regions))
	for _, region := range payload.Regions {
		regions = append(regions, region.toRegion())
	}
	return regions, nil
}

// ListProducts returns one page of products priced for the query region.
func (c *Client) ListProducts(ctx context.Context, query ProductQuery) (ProductPage, error) {
	values := url.Values{}
	values.Set("fields", productFields)
	values.Set("limit", strconv.Itoa(query.Limit))
	values.Set("offset", strconv.Itoa(query.Offset))
	if query.RegionID != "" {
		values.Set("region_id", query.RegionID)
	}
	var payload struct {
		Products []wireProduct `json:"products"`
		Count    int           `json:"count"`
		Offset   int           `json:"offset"`
		Limit    int           `json:"limit"`
	}
	if err := c.do(ctx, http.MethodGet, "/store/products", values, "", nil, &payload); err != nil {
		return ProductPage{}, fmt.Errorf("list products: %w", err)
	}
	page := ProductPage{Count: payload.Count, Offset: payload.Offset, Limit: payload.Limit, Products: make([]Product, 0, len(payload.Products))}
	for _, product := range payload.Products {
		page.Products = append(page.Products, product.toProduct())
	}
	return page, nil
}

// GetProductByHandle returns the product with handle priced for regionID.
func (c *Client) GetProductByHandle(ctx context.Context, handle string, regionID string) (Product, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return Product{}, apperrors.E(apperrors.KindNotFound, "product handle is required")
	}
	values := url.Values{}
	values.Set("fields", productFields)
	values.Set("handle", handle)
	values.Set("limit", "1")
	if regionID != "" {
		values.Set("region_id", regionID)
	}
	var payload struct {
		Products []wireProduct `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/store/products", values, "", nil, &payload); err != nil {
		return Product{}, fmt.Errorf("get product %q: %w", handle, err)
	}
	if len(payload.Products) == 0 {
		return Product{}, apperrors.EK(apperrors.KindNotFound, "error.not_found.title", "product not found")
	}
	return payload.Products[0].toProduct(), nil
}

// Login exchanges email and password for a customer token.
func (c *Client) Login(ctx context.Context, email string, password string) (string, error) {
	body := map[string]string{"email": strings.TrimSpace(email), "password": password}
	var payload struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/customer/emailpass", nil, "", body, &payload); err != nil {
		if apperrors.Is(err, apperrors.KindUnauthorized) || apperrors.Is(err, apperrors.KindInvalidInput) {
			return "", apperrors.EK(apperrors.KindUnauthorized, "account.login.failed", "invalid credentials")
		}
		return "", fmt.Errorf("login: %w", err)
	}
	if strings.TrimSpace(payload.Token) == "" {
		return "", apperrors.E(apperrors.KindUnknown, "login response carried no token")
	}
	return payload.Token, nil
}

// RetrieveCustomer returns the customer owning token.
func (c *Client) RetrieveCustomer(ctx context.Context, token string) (Customer, error) {
	var payload struct {
		Customer Customer `json:"customer"`
	}
	if err := c.do(ctx, http.MethodGet, "/store/customers/me", nil, token, nil, &payload); err != nil {
		return Customer{}, fmt.Errorf("retrieve customer: %w", err)
	}
	return payload.Customer, nil
}

// ListOrders returns the customer's orders, newest first.
func (c *Client) ListOrders(ctx context.Context, token string, limit int, offset int) (OrderPage, error) {
	values := pageValues(limit, offset)
	values.Set("order", "-created_at")
	var payload struct {
		Orders []wireOrder `json:"orders"`
		Count  int         `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/store/orders", values, token, nil, &payload); err != nil {
		return OrderPage{}, fmt.Errorf("list orders: %w", err)
	}
	page := OrderPage{Count: payload.Count, Orders: make([]Order, 0, len(payload.Orders))}
	for _, order := range payload.Orders {
		page.Orders = append(page.Orders, order.toOrder())
	}
	return page, nil
}

// RetrieveOrder returns one of the customer's orders.
func (c *Client) RetrieveOrder(ctx context.Context, token string, orderID string) (Order, error) {
	var payload struct {
		Order wireOrder `json:"order"`
	}
	if err := c.do(ctx, http.MethodGet, "/store/orders/"+url.PathEscape(orderID), nil, token, nil, &payload); err != nil {
		return Order{}, fmt.Errorf("retrieve order %q: %w", orderID, err)
	}
	return payload.Order.toOrder(), nil
}

// ListQuotes returns the customer's quotes, newest first.
func (c *Client) ListQuotes(ctx context.Context, token string, limit int, offset int) (QuotePage, error) {
	values := pageValues(limit, offset)
	values.Set("order", "-created_at")
	values.Set("fields", "*draft_order,*draft_order.items")
	var payload struct {
		Quotes []wireQuote `json:"quotes"`
		Count  int         `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/store/quotes", values, token, nil, &payload); err != nil {
		return QuotePage{}, fmt.Errorf("list quotes: %w", err)
	}
	page := QuotePage{Count: payload.Count, Quotes: make([]Quote, 0, len(payload.Quotes))}
	for _, quote := range payload.Quotes {
		page.Quotes = append(page.Quotes, quote.toQuote())
	}
	return page, nil
}

// RetrieveQuote returns one of the customer's quotes.
func (c *Client) RetrieveQuote(ctx context.Context, token string, quoteID string) (Quote, error) {
	values := url.Values{}
	values.Set("fields", "*draft_order,*draft_order.items")
	var payload struct {
		Quote wireQuote `json:"quote"`
	}
	if err := c.do(ctx, http.MethodGet, "/store/quotes/"+url.PathEscape(quoteID), values, token, nil, &payload); err != nil {
		return Quote{}, fmt.Errorf("retrieve quote %q: %w", quoteID, err)
	}
	return payload.Quote.toQuote(), nil
}

// GetCacheVersion returns the backend cache version stamp.
func (c *Client) GetCacheVersion(ctx context.Context) (CacheVersion, error) {
	var payload struct {
		CacheVersion CacheVersion `json:"cache_version"`
	}
	if err := c.do(ctx, http.MethodGet, "/store/cache-version", nil, "", nil, &payload); err != nil {
		return CacheVersion{}, fmt.Errorf("get cache version: %w", err)
	}
	return payload.CacheVersion, nil
}

func pageValues(limit int, offset int) url.Values {
	values := url.Values{}
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		values.Set("offset", strconv.Itoa(offset))
	}
	return values
}

// do performs one JSON request and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, method string, path string, query url.Values, token string, body any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, "backend "+method+" "+path, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	target := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}
	span.SetAttributes(attribute.String("http.request.method", method), attribute.String("url.full", target.Redacted()))

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.publishableKey != "" {
		req.Header.Set(publishableKeyHeader, c.publishableKey)
	}
	if token = strings.TrimSpace(token); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		return apperrors.Wrap(apperrors.KindUnavailable, "backend unreachable", err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, resp.Status)
		return statusError(method, path, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func statusError(method string, path string, resp *http.Response) error {
	kind := apperrors.FromHTTPStatus(resp.StatusCode)
	if resp.StatusCode >= http.StatusInternalServerError {
		kind = apperrors.KindUnavailable
	}
	message := fmt.Sprintf("backend %s %s returned %d", method, path, resp.StatusCode)
	var payload struct {
		Message string `json:"message"`
	}
	if raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)); err == nil && len(raw) > 0 {
		if json.Unmarshal(raw, &payload) == nil && strings.TrimSpace(payload.Message) != "" {
			message += ": " + strings.TrimSpace(payload.Message)
		}
	}
	return apperrors.E(kind, message)
}

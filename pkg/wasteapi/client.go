// Package wasteapi is a typed client for the Waste Reduction REST API.
//
// Every call is a single request: there is no retry, caching or request
// coordination, and the only state held by a Client is its base URL and
// underlying *http.Client. A Client is safe for concurrent use.
package wasteapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	logx "github.com/wastewise/wastewise-core/pkg/logger"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 10 * time.Second

	// maxErrorBody bounds how much of a failure response is read for its detail.
	maxErrorBody = 64 * 1024
)

type Client struct {
	baseURL   string
	http      *http.Client
	timeout   time.Duration
	userAgent string
}

type Option func(*Client)

// WithHTTPClient replaces the default *http.Client. WithTimeout is ignored
// when a client is supplied.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.timeout = d
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		cl.userAgent = strings.TrimSpace(ua)
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("baseURL must not be empty")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid baseURL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid baseURL scheme %q", u.Scheme)
	}

	cl := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
	}
	for _, o := range opts {
		o(cl)
	}
	if cl.http == nil {
		cl.http = &http.Client{Timeout: cl.timeout}
	}
	return cl, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Index lists the endpoints the server exposes.
func (c *Client) Index(ctx context.Context) (APIIndex, error) {
	var out APIIndex
	if err := c.do(ctx, http.MethodGet, "/", nil, &out); err != nil {
		return APIIndex{}, err
	}
	return out, nil
}

func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return HealthResponse{}, err
	}
	return out, nil
}

// ListProducts returns products in the order the server sent them.
func (c *Client) ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error) {
	var out []Product
	if err := c.do(ctx, http.MethodGet, withQuery("/products", filter.query()), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListProductsPage is ListProducts against backends that paginate /products.
func (c *Client) ListProductsPage(ctx context.Context, q ProductPageQuery) (ProductPage, error) {
	var out ProductPage
	if err := c.do(ctx, http.MethodGet, withQuery("/products", q.query()), nil, &out); err != nil {
		return ProductPage{}, err
	}
	return out, nil
}

// DynamicPricing fetches the advisory discount for a product. It changes
// nothing server-side.
func (c *Client) DynamicPricing(ctx context.Context, productID string) (DynamicPricingResponse, error) {
	var out DynamicPricingResponse
	path := "/dynamic_pricing/" + url.PathEscape(productID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return DynamicPricingResponse{}, err
	}
	return out, nil
}

type transactionOptions struct {
	useDynamicPricing bool
}

type TransactionOption func(*transactionOptions)

// WithDynamicPricing selects the pricing mode of a purchase. Dynamic pricing
// is on unless disabled here.
func WithDynamicPricing(enabled bool) TransactionOption {
	return func(o *transactionOptions) {
		o.useDynamicPricing = enabled
	}
}

// CreateTransaction records a purchase. The request body is sent exactly as
// given; quantity is validated by the server only.
func (c *Client) CreateTransaction(ctx context.Context, req TransactionRequest, opts ...TransactionOption) (TransactionResponse, error) {
	o := transactionOptions{useDynamicPricing: true}
	for _, opt := range opts {
		opt(&o)
	}

	var q query
	q.addBool("use_dynamic_pricing", &o.useDynamicPricing)

	var out TransactionResponse
	if err := c.do(ctx, http.MethodPost, withQuery("/transactions", q), req, &out); err != nil {
		return TransactionResponse{}, err
	}
	return out, nil
}

// Recommendations fetches personalised picks for a user. params.N is passed
// through without bounds checks; the server enforces 1..50.
func (c *Client) Recommendations(ctx context.Context, userID string, params RecommendationsParams) (RecommendationsResponse, error) {
	var out RecommendationsResponse
	path := withQuery("/recommendations/"+url.PathEscape(userID), params.query())
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return RecommendationsResponse{}, err
	}
	return out, nil
}

// DeadStockRisk lists items at risk of expiring unsold. An empty category
// means all categories.
func (c *Client) DeadStockRisk(ctx context.Context, category string) ([]DeadStockRiskItem, error) {
	return c.DeadStockRiskQuery(ctx, DeadStockQuery{Category: category})
}

// DeadStockRiskQuery is DeadStockRisk with the risk band and pricing filters.
func (c *Client) DeadStockRiskQuery(ctx context.Context, dq DeadStockQuery) ([]DeadStockRiskItem, error) {
	var out []DeadStockRiskItem
	if err := c.do(ctx, http.MethodGet, withQuery("/dead_stock_risk", dq.query()), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ExpiredProducts(ctx context.Context) (ExpiredProductsResponse, error) {
	var out ExpiredProductsResponse
	if err := c.do(ctx, http.MethodGet, "/expired_products", nil, &out); err != nil {
		return ExpiredProductsResponse{}, err
	}
	return out, nil
}

func (c *Client) Categories(ctx context.Context) (CategoriesResponse, error) {
	var out CategoriesResponse
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &out); err != nil {
		return CategoriesResponse{}, err
	}
	return out, nil
}

func (c *Client) Users(ctx context.Context) (UsersResponse, error) {
	var out UsersResponse
	if err := c.do(ctx, http.MethodGet, "/users", nil, &out); err != nil {
		return UsersResponse{}, err
	}
	return out, nil
}

// RefreshData asks the server to reload its data and retrain its models.
func (c *Client) RefreshData(ctx context.Context) (RefreshDataResponse, error) {
	var out RefreshDataResponse
	if err := c.do(ctx, http.MethodPost, "/refresh_data", nil, &out); err != nil {
		return RefreshDataResponse{}, err
	}
	return out, nil
}

func (c *Client) InventorySummary(ctx context.Context, includeCategoryBreakdown bool) (InventorySummaryResponse, error) {
	var q query
	if includeCategoryBreakdown {
		q.add("include_category_breakdown", "true")
	}
	var out InventorySummaryResponse
	if err := c.do(ctx, http.MethodGet, withQuery("/inventory_summary", q), nil, &out); err != nil {
		return InventorySummaryResponse{}, err
	}
	return out, nil
}

func (c *Client) InventoryAnalytics(ctx context.Context) (InventoryAnalyticsResponse, error) {
	var out InventoryAnalyticsResponse
	if err := c.do(ctx, http.MethodGet, "/inventory_analytics", nil, &out); err != nil {
		return InventoryAnalyticsResponse{}, err
	}
	return out, nil
}

func (c *Client) WeeklyInventory(ctx context.Context, wq WeeklyQuery) (WeeklyInventoryResponse, error) {
	var out WeeklyInventoryResponse
	if err := c.do(ctx, http.MethodGet, withQuery("/weekly_inventory", wq.query()), nil, &out); err != nil {
		return WeeklyInventoryResponse{}, err
	}
	return out, nil
}

func (c *Client) WeeklyExpired(ctx context.Context, wq WeeklyQuery) (WeeklyExpiredResponse, error) {
	var out WeeklyExpiredResponse
	if err := c.do(ctx, http.MethodGet, withQuery("/weekly_expired", wq.query()), nil, &out); err != nil {
		return WeeklyExpiredResponse{}, err
	}
	return out, nil
}

// do sends one request. A nil body sends no payload; a nil out discards the
// response body.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("wasteapi: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logx.Debug().Err(err).Str("method", method).Str("path", path).Msg("wasteapi request failed")
		return err
	}
	defer resp.Body.Close()

	logx.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("wasteapi request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Detail:     parseDetail(b),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("wasteapi: decode %s %s: %w", method, path, err)
	}
	return nil
}

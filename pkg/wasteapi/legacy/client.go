// Package legacy is the untyped client of the first dashboard build. It talks
// to the older endpoint set (/metrics, /update_discounts, n_recommendations)
// and returns decoded JSON without a schema. New code should use package
// wasteapi; the two clients share nothing.
package legacy

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

	logx "github.com/wastewise/wastewise-core/pkg/logger"
)

const (
	DefaultBaseURL = "http://localhost:8000"

	defaultRecommendations = 10
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// StatusError reports a non-2xx response. The body is not inspected.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error: status %d", e.StatusCode)
}

func (c *Client) Get(ctx context.Context, endpoint string) (any, error) {
	return c.send(ctx, http.MethodGet, endpoint, nil)
}

// Post sends data as JSON; nil data sends an empty body.
func (c *Client) Post(ctx context.Context, endpoint string, data any) (any, error) {
	return c.send(ctx, http.MethodPost, endpoint, data)
}

func (c *Client) Metrics(ctx context.Context) (any, error) {
	return c.Get(ctx, "/metrics")
}

// Recommendations uses the n_recommendations parameter of the old API.
// Values below 1 fall back to 10.
func (c *Client) Recommendations(ctx context.Context, userID string, nRecommendations int) (any, error) {
	if nRecommendations < 1 {
		nRecommendations = defaultRecommendations
	}
	endpoint := "/recommendations/" + url.PathEscape(userID) + "?n_recommendations=" + strconv.Itoa(nRecommendations)
	return c.Get(ctx, endpoint)
}

func (c *Client) DeadStockRisk(ctx context.Context) (any, error) {
	return c.Get(ctx, "/dead_stock_risk")
}

func (c *Client) UpdateDiscounts(ctx context.Context) (any, error) {
	return c.Post(ctx, "/update_discounts", nil)
}

func (c *Client) HealthCheck(ctx context.Context) (any, error) {
	return c.Get(ctx, "/health")
}

func (c *Client) send(ctx context.Context, method, endpoint string, data any) (any, error) {
	var body io.Reader
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, err
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logx.Debug().Err(err).Str("method", method).Str("endpoint", endpoint).Msg("legacy request failed")
		return nil, err
	}
	defer resp.Body.Close()

	logx.Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("legacy request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	// json.Number keeps numbers exactly as the server wrote them.
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", method, endpoint, err)
	}
	return out, nil
}

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastewise/wastewise-core/internal/agent/graph"
	"github.com/wastewise/wastewise-core/internal/agent/model"
	"github.com/wastewise/wastewise-core/pkg/wasteapi"
	"github.com/wastewise/wastewise-core/pkg/wasteapi/legacy"
)

type fakeServer struct {
	mu     sync.Mutex
	uris   []string
	bodies []string
}

func (f *fakeServer) lastURI() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.uris) == 0 {
		return ""
	}
	return f.uris[len(f.uris)-1]
}

func (f *fakeServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.uris = append(f.uris, r.Method+" "+r.RequestURI)
		f.bodies = append(f.bodies, string(b))
		f.mu.Unlock()

		switch {
		case r.URL.Path == "/transactions" && strings.Contains(string(b), `"product_id":"P404"`):
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"detail":"Insufficient inventory"}`)
		case r.URL.Path == "/transactions":
			_, _ = io.WriteString(w, `{"transaction_id":7,"user_id":"U0001","product_id":"P0001","quantity":2,"price_paid_per_unit":45.5,"total_price_paid":91,"discount_percent":30,"message":"ok"}`)
		case r.URL.Path == "/products" && r.URL.Query().Has("page"):
			_, _ = io.WriteString(w, `{"products":[],"total_items":0,"total_pages":0,"current_page":2,"page_size":50,"has_next":false,"has_previous":true}`)
		case r.URL.Path == "/products":
			_, _ = io.WriteString(w, `[{"product_id":"P0001","name":"Oat Milk"}]`)
		case r.URL.Path == "/inventory_summary":
			_, _ = io.WriteString(w, `{"total_products_count":50,"at_risk_products_count":7}`)
		case r.URL.Path == "/dead_stock_risk":
			_, _ = io.WriteString(w, `[{"product_id":"P0007","name":"Greek Yogurt","category":"Dairy","risk_score":0.9}]`)
		case r.URL.Path == "/expired_products":
			_, _ = io.WriteString(w, `{"total_expired_products":3,"total_expired_value":41.25,"category_split":{"Dairy":100},"category_details":[]}`)
		case r.URL.Path == "/health":
			_, _ = io.WriteString(w, `{"status":"healthy","model_status":"loaded","database_status":"connected","api_version":"1.0.0"}`)
		default:
			_, _ = io.WriteString(w, `{}`)
		}
	})
}

type harness struct {
	srv    *fakeServer
	deps   Deps
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fs := &fakeServer{}
	ts := httptest.NewServer(fs.handler())
	t.Cleanup(ts.Close)

	api, err := wasteapi.New(ts.URL)
	require.NoError(t, err)

	h := &harness{srv: fs, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	h.deps = Deps{
		API:    api,
		Legacy: legacy.NewClient(ts.URL),
		Stdout: h.stdout,
		Stderr: h.stderr,
		Stdin:  strings.NewReader(""),
	}
	return h
}

func (h *harness) run(args ...string) int {
	h.stdout.Reset()
	h.stderr.Reset()
	return Run(context.Background(), args, h.deps)
}

func TestRunUsage(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, exitUsage, h.run())
	assert.Contains(t, h.stderr.String(), "dead-stock")

	assert.Equal(t, exitOK, h.run("help"))
	assert.Equal(t, exitUsage, h.run("nope"))
	assert.Contains(t, h.stderr.String(), `unknown command "nope"`)

	assert.Equal(t, exitUsage, h.run("products", "--bogus"))
	assert.Equal(t, exitUsage, h.run("buy", "--user", "U0001"))
	assert.Equal(t, exitUsage, h.run("health", "extra"))
	assert.Equal(t, exitOK, h.run("products", "-h"))
}

func TestHealthPrintsJSON(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, exitOK, h.run("health"))
	var got wasteapi.HealthResponse
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &got))
	assert.Equal(t, "healthy", got.Status)
	assert.Equal(t, "GET /health", h.srv.lastURI())
}

func TestProductsOnlySendsGivenFlags(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, exitOK, h.run("products"))
	assert.Equal(t, "GET /products", h.srv.lastURI())

	require.Equal(t, exitOK, h.run("products", "--max-days", "0", "--category", "Dairy"))
	assert.Equal(t, "GET /products?category=Dairy&max_days_until_expiry=0", h.srv.lastURI())

	require.Equal(t, exitOK, h.run("products", "--diet", "vegan", "--page", "2"))
	assert.Equal(t, "GET /products?diet_type=vegan&page=2", h.srv.lastURI())
	assert.Contains(t, h.stdout.String(), `"current_page": 2`)
}

func TestBuy(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, exitOK, h.run("buy", "--user", "U0001", "--product", "P0001", "--quantity", "2"))
	assert.Equal(t, "POST /transactions?use_dynamic_pricing=true", h.srv.lastURI())
	assert.Contains(t, h.stdout.String(), `"transaction_id": 7`)

	require.Equal(t, exitOK, h.run("buy", "--user", "U0001", "--product", "P0001", "--quantity", "-1", "--static"))
	assert.Equal(t, "POST /transactions?use_dynamic_pricing=false", h.srv.lastURI())
	assert.JSONEq(t, `{"user_id":"U0001","product_id":"P0001","quantity":-1}`, h.srv.bodies[len(h.srv.bodies)-1])

	assert.Equal(t, exitError, h.run("buy", "--user", "U0001", "--product", "P404"))
	assert.Equal(t, "error: Insufficient inventory\n", h.stderr.String())
}

func TestRecommendAndPricing(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, exitOK, h.run("recommend", "U0001"))
	assert.Equal(t, "GET /recommendations/U0001", h.srv.lastURI())

	require.Equal(t, exitOK, h.run("recommend", "--user", "U0001", "--n", "5"))
	assert.Equal(t, "GET /recommendations/U0001?n=5", h.srv.lastURI())

	require.Equal(t, exitOK, h.run("recommend", "--n", "5", "--dynamic", "U0001"))
	assert.Equal(t, "GET /recommendations/U0001?n=5&dynamic=true", h.srv.lastURI())

	require.Equal(t, exitOK, h.run("pricing", "P0001"))
	assert.Equal(t, "GET /dynamic_pricing/P0001", h.srv.lastURI())

	assert.Equal(t, exitUsage, h.run("pricing"))
}

func TestSimpleCommands(t *testing.T) {
	h := newHarness(t)

	cases := []struct {
		args []string
		uri  string
	}{
		{[]string{"index"}, "GET /"},
		{[]string{"dead-stock"}, "GET /dead_stock_risk"},
		{[]string{"dead-stock", "--category", "Fresh Produce"}, "GET /dead_stock_risk?category=Fresh+Produce"},
		{[]string{"dead-stock", "--category", "Dairy", "--min-risk", "low", "--dynamic"}, "GET /dead_stock_risk?category=Dairy&min_risk_level=LOW&dynamic=true"},
		{[]string{"dead-stock", "--dynamic=false"}, "GET /dead_stock_risk?dynamic=false"},
		{[]string{"expired"}, "GET /expired_products"},
		{[]string{"categories"}, "GET /categories"},
		{[]string{"users"}, "GET /users"},
		{[]string{"refresh"}, "POST /refresh_data"},
		{[]string{"summary", "--by-category"}, "GET /inventory_summary?include_category_breakdown=true"},
		{[]string{"analytics"}, "GET /inventory_analytics"},
		{[]string{"weekly"}, "GET /weekly_inventory"},
		{[]string{"weekly", "--kind", "expired", "--weeks", "4", "--metric", "cost"}, "GET /weekly_expired?weeks_back=4&metric_type=cost"},
		{[]string{"legacy", "metrics"}, "GET /metrics"},
		{[]string{"legacy", "recommend", "U0001"}, "GET /recommendations/U0001?n_recommendations=10"},
		{[]string{"legacy", "update-discounts"}, "POST /update_discounts"},
	}
	for _, tc := range cases {
		t.Run(strings.Join(tc.args, " "), func(t *testing.T) {
			require.Equal(t, exitOK, h.run(tc.args...), h.stderr.String())
			assert.Equal(t, tc.uri, h.srv.lastURI())
		})
	}

	assert.Equal(t, exitUsage, h.run("weekly", "--kind", "monthly"))
	assert.Equal(t, exitUsage, h.run("dead-stock", "--min-risk", "SEVERE"))
	assert.Equal(t, exitUsage, h.run("legacy", "nope"))
}

func withRedis(t *testing.T, h *harness) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	h.deps.OpenRedis = func(context.Context) (redis.UniversalClient, error) {
		return redis.NewClient(&redis.Options{Addr: mr.Addr()}), nil
	}
	h.deps.Config.Report.KeyPrefix = "test:report"
	return mr
}

func TestReportCommands(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, exitError, h.run("report", "latest"))
	assert.Contains(t, h.stderr.String(), "redis is not configured")

	mr := withRedis(t, h)

	assert.Equal(t, exitError, h.run("report", "latest"))
	assert.Contains(t, h.stderr.String(), "record not found")

	require.Equal(t, exitOK, h.run("report", "collect", "--category", "Dairy", "--publish"), h.stderr.String())
	assert.True(t, mr.Exists("test:report:latest"))
	var published struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &published))

	require.Equal(t, exitOK, h.run("report", "latest", "--text"))
	assert.Contains(t, h.stdout.String(), "Snapshot "+published.ID)
	assert.Contains(t, h.stdout.String(), "Greek Yogurt")

	require.Equal(t, exitOK, h.run("report", "history", "--n", "5"))
	assert.Contains(t, h.stdout.String(), published.ID)

	assert.Equal(t, exitUsage, h.run("report"))
}

type fakeRunner struct {
	inputs []model.QueryInput
	resets []string
}

func (f *fakeRunner) Reset(_ context.Context, conversationID string) (int, error) {
	f.resets = append(f.resets, conversationID)
	return 4, nil
}

func (f *fakeRunner) Invoke(_ context.Context, in model.QueryInput) (*model.Reply, error) {
	f.inputs = append(f.inputs, in)
	id := in.ConversationID
	if id == "" {
		id = "generated"
	}
	return &model.Reply{ConversationID: id, Content: "answer to " + in.Query}, nil
}

func TestAssist(t *testing.T) {
	h := newHarness(t)
	withRedis(t, h)
	runner := &fakeRunner{}
	h.deps.NewAssistant = func(context.Context, redis.Cmdable) (graph.Runner, error) {
		return runner, nil
	}

	require.Equal(t, exitOK, h.run("assist", "--conversation", "c9", "any", "vegan", "deals?"))
	require.Len(t, runner.inputs, 1)
	assert.Equal(t, model.QueryInput{ConversationID: "c9", Query: "any vegan deals?"}, runner.inputs[0])
	assert.Contains(t, h.stdout.String(), `"content": "answer to any vegan deals?"`)

	h.deps.Stdin = strings.NewReader("first\n\nsecond\n")
	require.Equal(t, exitOK, h.run("assist"))
	require.Len(t, runner.inputs, 3)
	assert.Equal(t, "", runner.inputs[1].ConversationID)
	assert.Equal(t, "generated", runner.inputs[2].ConversationID)
	assert.Equal(t, "second", runner.inputs[2].Query)

	require.Equal(t, exitOK, h.run("assist", "--conversation", "c9", "--reset"))
	assert.Equal(t, []string{"c9"}, runner.resets)
	assert.Contains(t, h.stdout.String(), `"cleared_messages": 4`)
	require.Len(t, runner.inputs, 3)

	require.Equal(t, exitOK, h.run("assist", "--conversation", "c9", "--reset", "start", "over"))
	assert.Equal(t, []string{"c9", "c9"}, runner.resets)
	require.Len(t, runner.inputs, 4)
	assert.Equal(t, "start over", runner.inputs[3].Query)

	assert.Equal(t, exitUsage, h.run("assist", "--reset"))
}

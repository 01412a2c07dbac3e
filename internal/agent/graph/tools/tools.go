package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	errx "github.com/wastewise/wastewise-core/internal/core/error"
	"github.com/wastewise/wastewise-core/pkg/wasteapi"
)

const (
	ToolSearchProducts     = "search_products"
	ToolGetDynamicPricing  = "get_dynamic_pricing"
	ToolGetRecommendations = "get_recommendations"
	ToolGetDeadStockRisk   = "get_dead_stock_risk"
	ToolListCategories     = "list_categories"

	defaultMaxResults = 10
	maxMaxResults     = 20
)

// API is the slice of *wasteapi.Client the assistant tools call.
type API interface {
	ListProducts(ctx context.Context, filter wasteapi.ProductFilter) ([]wasteapi.Product, error)
	DynamicPricing(ctx context.Context, productID string) (wasteapi.DynamicPricingResponse, error)
	Recommendations(ctx context.Context, userID string, params wasteapi.RecommendationsParams) (wasteapi.RecommendationsResponse, error)
	DeadStockRisk(ctx context.Context, category string) ([]wasteapi.DeadStockRiskItem, error)
	Categories(ctx context.Context) (wasteapi.CategoriesResponse, error)
}

var _ API = (*wasteapi.Client)(nil)

// Failure is returned to the model in place of a result when the API call
// fails, so the model can explain or try something else.
type Failure struct {
	Error  string `json:"error,omitempty"`
	Status int    `json:"status,omitempty"`
}

// failure converts err into a Failure. Cancellation is passed back as an
// error so the graph stops.
func failure(ctx context.Context, name string, err error) (Failure, error) {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return Failure{}, fmt.Errorf("%s: %w", name, err)
	}
	wrapped := errx.WrapAPI(err)
	return Failure{Error: errx.MessageOf(wrapped), Status: errx.StatusOf(wrapped)}, nil
}

// GetQueryTools returns every assistant tool bound to api.
func GetQueryTools(api API) []tool.BaseTool {
	return []tool.BaseTool{
		createSearchProductsTool(api),
		createDynamicPricingTool(api),
		createRecommendationsTool(api),
		createDeadStockRiskTool(api),
		createListCategoriesTool(api),
	}
}

func GetToolInfos(ctx context.Context, tools []tool.BaseTool) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(tools))
	for _, t := range tools {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("tool info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func limitResults(n int) int {
	if n <= 0 {
		return defaultMaxResults
	}
	if n > maxMaxResults {
		return maxMaxResults
	}
	return n
}

package tools

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/wastewise/wastewise-core/pkg/wasteapi"
)

type SearchProductsInput struct {
	Query              string   `json:"query,omitempty"`
	Category           string   `json:"category,omitempty"`
	DietType           string   `json:"diet_type,omitempty"`
	MinDiscount        *float64 `json:"min_discount,omitempty"`
	MaxDaysUntilExpiry *int     `json:"max_days_until_expiry,omitempty"`
	MaxResults         int      `json:"max_results,omitempty"`
}

// ProductSummary is the subset of a product the model needs to answer
// shoppers.
type ProductSummary struct {
	ProductID              string   `json:"product_id"`
	Name                   string   `json:"name"`
	Brand                  string   `json:"brand"`
	Category               string   `json:"category"`
	DietType               string   `json:"diet_type"`
	Allergens              []string `json:"allergens,omitempty"`
	ExpiryDate             string   `json:"expiry_date"`
	DaysUntilExpiry        int      `json:"days_until_expiry"`
	PriceMRP               float64  `json:"price_mrp"`
	CurrentDiscountPercent float64  `json:"current_discount_percent"`
	InventoryQuantity      int      `json:"inventory_quantity"`
	DeadStockRisk          bool     `json:"dead_stock_risk"`
}

type SearchProductsOutput struct {
	Products []ProductSummary `json:"products"`
	Total    int              `json:"total"`
	Failure
}

func summarize(p wasteapi.Product) ProductSummary {
	return ProductSummary{
		ProductID:              p.ProductID,
		Name:                   p.Name,
		Brand:                  p.Brand,
		Category:               p.Category,
		DietType:               string(p.DietType),
		Allergens:              p.Allergens,
		ExpiryDate:             p.ExpiryDate,
		DaysUntilExpiry:        p.DaysUntilExpiry,
		PriceMRP:               p.PriceMRP,
		CurrentDiscountPercent: p.CurrentDiscountPercent,
		InventoryQuantity:      p.InventoryQuantity,
		DeadStockRisk:          p.AtRisk(),
	}
}

func matchesQuery(p wasteapi.Product, terms []string) bool {
	haystack := strings.ToLower(p.Name + " " + p.Brand + " " + p.Category)
	for _, t := range terms {
		if !strings.Contains(haystack, t) {
			return false
		}
	}
	return true
}

func createSearchProductsTool(api API) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolSearchProducts,
			Desc: "Search the store inventory. Filters are applied by the store; the query keywords are matched against product name, brand and category. Returns product IDs, prices, discounts and days until expiry. Use this whenever the shopper asks about products, deals or what is expiring soon.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type: "string",
					Desc: "Keywords such as milk, bread or a brand name. Leave empty to list by filters only.",
				},
				"category": {
					Type: "string",
					Desc: "Exact category name as returned by list_categories.",
				},
				"diet_type": {
					Type: "string",
					Desc: "Diet filter.",
					Enum: []string{
						string(wasteapi.DietVegan),
						string(wasteapi.DietVegetarian),
						string(wasteapi.DietEggs),
						string(wasteapi.DietNonVegetarian),
					},
				},
				"min_discount": {
					Type: "number",
					Desc: "Only products discounted by at least this percentage.",
				},
				"max_days_until_expiry": {
					Type: "integer",
					Desc: "Only products expiring within this many days.",
				},
				"max_results": {
					Type: "integer",
					Desc: "Maximum number of products to return (default 10, max 20).",
				},
			}),
		},
		func(ctx context.Context, in *SearchProductsInput) (*SearchProductsOutput, error) {
			var filter wasteapi.ProductFilter
			if in.Category != "" {
				filter.Category = wasteapi.Ptr(in.Category)
			}
			if in.DietType != "" {
				filter.DietType = wasteapi.Ptr(in.DietType)
			}
			filter.MinDiscount = in.MinDiscount
			filter.MaxDaysUntilExpiry = in.MaxDaysUntilExpiry

			products, err := api.ListProducts(ctx, filter)
			if err != nil {
				f, err := failure(ctx, ToolSearchProducts, err)
				if err != nil {
					return nil, err
				}
				return &SearchProductsOutput{Products: []ProductSummary{}, Failure: f}, nil
			}

			terms := strings.Fields(strings.ToLower(in.Query))
			limit := limitResults(in.MaxResults)
			out := &SearchProductsOutput{Products: []ProductSummary{}}
			for _, p := range products {
				if !matchesQuery(p, terms) {
					continue
				}
				out.Total++
				if len(out.Products) < limit {
					out.Products = append(out.Products, summarize(p))
				}
			}
			return out, nil
		},
	)
}

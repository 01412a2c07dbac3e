package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/wastewise/wastewise-core/pkg/wasteapi"
)

type DynamicPricingInput struct {
	ProductID string `json:"product_id"`
}

type DynamicPricingOutput struct {
	Pricing *wasteapi.DynamicPricingResponse `json:"pricing,omitempty"`
	Failure
}

func createDynamicPricingTool(api API) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolGetDynamicPricing,
			Desc: "Get the recommended expiry-driven discount for one product, with the current and recommended price and the reasoning. Advisory only: it does not change the price.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_id": {
					Type:     "string",
					Desc:     "Exact product ID from search_products results (e.g. P0001).",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *DynamicPricingInput) (*DynamicPricingOutput, error) {
			if in.ProductID == "" {
				return &DynamicPricingOutput{Failure: Failure{Error: "product_id is required", Status: 400}}, nil
			}
			resp, err := api.DynamicPricing(ctx, in.ProductID)
			if err != nil {
				f, err := failure(ctx, ToolGetDynamicPricing, err)
				if err != nil {
					return nil, err
				}
				return &DynamicPricingOutput{Failure: f}, nil
			}
			return &DynamicPricingOutput{Pricing: &resp}, nil
		},
	)
}

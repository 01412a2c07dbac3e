package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/wastewise/wastewise-core/pkg/wasteapi"
)

type DeadStockRiskInput struct {
	Category   string `json:"category,omitempty"`
	MaxResults int    `json:"max_results,omitempty"`
}

type DeadStockRiskOutput struct {
	Items []wasteapi.DeadStockRiskItem `json:"items"`
	Total int                          `json:"total"`
	Failure
}

func createDeadStockRiskTool(api API) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolGetDeadStockRisk,
			Desc: "List products likely to expire unsold, most at risk first as ranked by the store. Good for suggesting bargains that also reduce waste.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"category": {
					Type: "string",
					Desc: "Optional category name to narrow the list.",
				},
				"max_results": {
					Type: "integer",
					Desc: "Maximum number of items to return (default 10, max 20).",
				},
			}),
		},
		func(ctx context.Context, in *DeadStockRiskInput) (*DeadStockRiskOutput, error) {
			items, err := api.DeadStockRisk(ctx, in.Category)
			if err != nil {
				f, err := failure(ctx, ToolGetDeadStockRisk, err)
				if err != nil {
					return nil, err
				}
				return &DeadStockRiskOutput{Items: []wasteapi.DeadStockRiskItem{}, Failure: f}, nil
			}
			out := &DeadStockRiskOutput{Items: []wasteapi.DeadStockRiskItem{}, Total: len(items)}
			if limit := limitResults(in.MaxResults); len(items) > limit {
				items = items[:limit]
			}
			out.Items = append(out.Items, items...)
			return out, nil
		},
	)
}

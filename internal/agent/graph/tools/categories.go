package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

type ListCategoriesInput struct{}

type ListCategoriesOutput struct {
	Categories []string `json:"categories"`
	Failure
}

func createListCategoriesTool(api API) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name:        ToolListCategories,
			Desc:        "List the product categories the store carries. Use it before filtering search_products or get_dead_stock_risk by category.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		func(ctx context.Context, _ *ListCategoriesInput) (*ListCategoriesOutput, error) {
			resp, err := api.Categories(ctx)
			if err != nil {
				f, err := failure(ctx, ToolListCategories, err)
				if err != nil {
					return nil, err
				}
				return &ListCategoriesOutput{Categories: []string{}, Failure: f}, nil
			}
			cats := resp.Categories
			if cats == nil {
				cats = []string{}
			}
			return &ListCategoriesOutput{Categories: cats}, nil
		},
	)
}

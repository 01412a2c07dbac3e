package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/wastewise/wastewise-core/pkg/wasteapi"
)

type RecommendationsInput struct {
	UserID     string `json:"user_id"`
	MaxResults int    `json:"max_results,omitempty"`
}

type RecommendationsOutput struct {
	UserID          string                    `json:"user_id,omitempty"`
	Recommendations []wasteapi.Recommendation `json:"recommendations"`
	Failure
}

func createRecommendationsTool(api API) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolGetRecommendations,
			Desc: "Get personalised product picks for a registered shopper. Picks respect the shopper's diet and allergies and favour discounted items close to expiry.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"user_id": {
					Type:     "string",
					Desc:     "Shopper ID (e.g. U0001).",
					Required: true,
				},
				"max_results": {
					Type: "integer",
					Desc: "Number of picks (default 10, max 20).",
				},
			}),
		},
		func(ctx context.Context, in *RecommendationsInput) (*RecommendationsOutput, error) {
			if in.UserID == "" {
				return &RecommendationsOutput{
					Recommendations: []wasteapi.Recommendation{},
					Failure:         Failure{Error: "user_id is required", Status: 400},
				}, nil
			}
			resp, err := api.Recommendations(ctx, in.UserID, wasteapi.RecommendationsParams{N: limitResults(in.MaxResults)})
			if err != nil {
				f, err := failure(ctx, ToolGetRecommendations, err)
				if err != nil {
					return nil, err
				}
				return &RecommendationsOutput{Recommendations: []wasteapi.Recommendation{}, Failure: f}, nil
			}
			recs := resp.Recommendations
			if recs == nil {
				recs = []wasteapi.Recommendation{}
			}
			return &RecommendationsOutput{UserID: resp.UserID, Recommendations: recs}, nil
		},
	)
}

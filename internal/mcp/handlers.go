package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tmaasen/apple-dev-mcp-sub004/internal/service"
)

// Handlers return service validation errors directly: the SDK surfaces them
// as tool errors the calling agent can read and correct. Internal failures
// never reach this layer; the service degrades through its fallback chain
// instead.

// makeSearchGuidelinesHandler creates the search_guidelines tool handler.
func makeSearchGuidelinesHandler(svc *service.Service) func(
	context.Context, *mcp.CallToolRequest, SearchGuidelinesInput,
) (*mcp.CallToolResult, SearchGuidelinesOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchGuidelinesInput) (
		*mcp.CallToolResult, SearchGuidelinesOutput, error,
	) {
		resp, err := svc.SearchGuidelines(ctx, input.Query, input.Platform, input.Category, input.Limit)
		if err != nil {
			return nil, SearchGuidelinesOutput{}, err
		}

		out := SearchGuidelinesOutput{
			Results: resp.Results,
			Total:   resp.Total,
			Query:   resp.Query,
			Filters: resp.Filters,
		}
		if out.Total == 0 && out.Query != "" {
			out.Message = "No matching guidelines found. Try broader terms or drop the platform and category filters."
		}
		return nil, out, nil
	}
}

// makeSearchUnifiedHandler creates the search_unified tool handler.
// Omitted include flags default to true so a bare query searches both
// corpora.
func makeSearchUnifiedHandler(svc *service.Service) func(
	context.Context, *mcp.CallToolRequest, SearchUnifiedInput,
) (*mcp.CallToolResult, SearchUnifiedOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchUnifiedInput) (
		*mcp.CallToolResult, SearchUnifiedOutput, error,
	) {
		opts := service.UnifiedOptions{
			Platform:         input.Platform,
			IncludeDesign:    boolOrDefault(input.IncludeDesign, true),
			IncludeTechnical: boolOrDefault(input.IncludeTechnical, true),
			MaxResults:       input.MaxResults,
		}
		unified, err := svc.SearchUnified(ctx, input.Query, opts)
		if err != nil {
			return nil, SearchUnifiedOutput{}, err
		}
		return nil, *unified, nil
	}
}

// makeComponentSpecHandler creates the get_component_spec tool handler.
// An unknown component is a Found=false response, not an error.
func makeComponentSpecHandler(svc *service.Service) func(
	context.Context, *mcp.CallToolRequest, GetComponentSpecInput,
) (*mcp.CallToolResult, GetComponentSpecOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetComponentSpecInput) (
		*mcp.CallToolResult, GetComponentSpecOutput, error,
	) {
		resp, err := svc.GetComponentSpec(ctx, input.Component, input.Platform)
		if err != nil {
			return nil, GetComponentSpecOutput{}, err
		}
		return nil, *resp, nil
	}
}

// makeAccessibilityHandler creates the get_accessibility_requirements tool
// handler.
func makeAccessibilityHandler(svc *service.Service) func(
	context.Context, *mcp.CallToolRequest, GetAccessibilityInput,
) (*mcp.CallToolResult, GetAccessibilityOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetAccessibilityInput) (
		*mcp.CallToolResult, GetAccessibilityOutput, error,
	) {
		resp, err := svc.GetAccessibilityRequirements(ctx, input.Component, input.Platform)
		if err != nil {
			return nil, GetAccessibilityOutput{}, err
		}
		return nil, *resp, nil
	}
}

// makeComparePlatformsHandler creates the compare_platforms tool handler.
func makeComparePlatformsHandler(svc *service.Service) func(
	context.Context, *mcp.CallToolRequest, ComparePlatformsInput,
) (*mcp.CallToolResult, ComparePlatformsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ComparePlatformsInput) (
		*mcp.CallToolResult, ComparePlatformsOutput, error,
	) {
		resp, err := svc.ComparePlatforms(ctx, input.Component, input.Platforms)
		if err != nil {
			return nil, ComparePlatformsOutput{}, err
		}
		return nil, *resp, nil
	}
}

// boolOrDefault resolves an optional flag, treating absence as def.
func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

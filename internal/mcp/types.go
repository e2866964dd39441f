// Package mcp exposes the guideline query service over the Model Context
// Protocol.
package mcp

import (
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/fusion"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/hig"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/service"
)

// SearchGuidelinesInput defines the input parameters for the
// search_guidelines tool.
type SearchGuidelinesInput struct {
	// Query is the search text.
	Query string `json:"query" jsonschema:"required,description=Search terms such as 'button accessibility' or 'navigation patterns'"`
	// Platform restricts results to one Apple platform.
	Platform string `json:"platform,omitempty" jsonschema:"description=Filter by platform: iOS macOS watchOS tvOS visionOS or universal"`
	// Category restricts results to one guideline topic area.
	Category string `json:"category,omitempty" jsonschema:"description=Filter by category such as foundations layout navigation or visual-design"`
	// Limit caps the number of results.
	Limit int `json:"limit,omitempty" jsonschema:"minimum=1,maximum=50,default=10,description=Maximum number of results to return"`
}

// SearchGuidelinesOutput contains ranked guideline sections.
type SearchGuidelinesOutput struct {
	// Results is the ranked list of matching sections.
	Results []hig.SearchResult `json:"results"`
	// Total is the number of results returned.
	Total int `json:"total"`
	// Query echoes the search text after trimming.
	Query string `json:"query"`
	// Filters echoes the parsed platform and category filters.
	Filters service.Filters `json:"filters"`
	// Message provides guidance when nothing matched.
	Message string `json:"message,omitempty"`
}

// SearchUnifiedInput defines the input parameters for the search_unified
// tool.
type SearchUnifiedInput struct {
	// Query is the search text.
	Query string `json:"query" jsonschema:"required,description=Search terms matched against design guidelines and API symbols"`
	// Platform restricts design results to one Apple platform.
	Platform string `json:"platform,omitempty" jsonschema:"description=Filter design results by platform: iOS macOS watchOS tvOS visionOS or universal"`
	// IncludeDesign toggles the design-guideline corpus. Defaults to true.
	IncludeDesign *bool `json:"includeDesign,omitempty" jsonschema:"default=true,description=Include Human Interface Guidelines sections"`
	// IncludeTechnical toggles the technical corpus. Defaults to true.
	IncludeTechnical *bool `json:"includeTechnical,omitempty" jsonschema:"default=true,description=Include technical documentation symbols"`
	// MaxResults caps the fused result list.
	MaxResults int `json:"maxResults,omitempty" jsonschema:"minimum=1,maximum=50,default=10,description=Maximum number of fused results"`
}

// SearchUnifiedOutput is the fused result set returned by search_unified:
// merged entries, the per-source lists they came from, and design-to-API
// cross-references.
type SearchUnifiedOutput = fusion.Unified

// GetComponentSpecInput defines the input parameters for the
// get_component_spec tool.
type GetComponentSpecInput struct {
	// Component is the UI component name.
	Component string `json:"component" jsonschema:"required,description=Component name such as button toggle or navigation bar"`
	// Platform selects the platform variant of the spec.
	Platform string `json:"platform,omitempty" jsonschema:"description=Platform variant: iOS macOS watchOS tvOS visionOS or universal"`
}

// GetComponentSpecOutput is the component specification, with Found=false
// when no section documents the component.
type GetComponentSpecOutput = service.ComponentSpecResponse

// GetAccessibilityInput defines the input parameters for the
// get_accessibility_requirements tool.
type GetAccessibilityInput struct {
	// Component is the UI component name.
	Component string `json:"component" jsonschema:"required,description=Component name such as button toggle or text field"`
	// Platform adjusts input-target requirements for the platform.
	Platform string `json:"platform,omitempty" jsonschema:"description=Platform: iOS macOS watchOS tvOS visionOS or universal"`
}

// GetAccessibilityOutput lists the accessibility requirements for a
// component on a platform.
type GetAccessibilityOutput = service.AccessibilityResponse

// ComparePlatformsInput defines the input parameters for the
// compare_platforms tool.
type ComparePlatformsInput struct {
	// Component is the UI component name.
	Component string `json:"component" jsonschema:"required,description=Component name such as button toggle or navigation bar"`
	// Platforms lists the platforms to compare, two to six entries.
	Platforms []string `json:"platforms" jsonschema:"required,description=Platforms to compare such as [\"iOS\", \"macOS\"]"`
}

// ComparePlatformsOutput contains per-platform guidance plus the shared and
// platform-specific guideline split.
type ComparePlatformsOutput = service.ComparisonResponse

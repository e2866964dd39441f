package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tmaasen/apple-dev-mcp-sub004/internal/service"
)

const serverVersion = "v2.0.0"

// Server wraps the MCP server around the guideline query service.
type Server struct {
	server *mcp.Server
	svc    *service.Service
}

// NewServer creates a configured MCP server with all five tools registered.
func NewServer(svc *service.Service) *Server {
	impl := &mcp.Implementation{
		Name:    "apple-dev-mcp",
		Version: serverVersion,
	}

	server := mcp.NewServer(impl, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_guidelines",
		Description: "Search Apple Human Interface Guidelines by keyword. Supports platform and category filters. Returns ranked sections with snippets and links to developer.apple.com.",
	}, makeSearchGuidelinesHandler(svc))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_unified",
		Description: "Search design guidelines and technical documentation together. Returns a fused ranked list plus cross-references linking design sections to the API symbols that implement them.",
	}, makeSearchUnifiedHandler(svc))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_component_spec",
		Description: "Get the specification for a UI component: overview, design guidelines, dimensional specifications, and related concepts.",
	}, makeComponentSpecHandler(svc))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_accessibility_requirements",
		Description: "Get accessibility requirements for a component on a platform: minimum touch target, contrast ratio, VoiceOver traits, keyboard navigation, and WCAG level.",
	}, makeAccessibilityHandler(svc))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compare_platforms",
		Description: "Compare a component's design guidance across Apple platforms, separating guidelines shared by every platform from platform-specific differences.",
	}, makeComparePlatformsHandler(svc))

	return &Server{server: server, svc: svc}
}

// Run starts the server with stdio transport (blocks until the client
// disconnects).
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server instance.
// Used by transport handlers that need to wrap the server.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}

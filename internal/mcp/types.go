// Package mcp exposes the planning operations as Model Context Protocol tools.
package mcp

import (
	"context"

	"plannerd/internal/planner"
)

// Server identity reported to MCP clients.
const (
	DefaultServerName    = "GeminiPlanningAssistant"
	DefaultServerVersion = "0.1.1"
)

// Tool names and argument keys.
const (
	ToolCreateRFC     = "create_rfc"
	ToolGenerateTasks = "generate_tasks"

	ArgFeatureDescription = "feature_description"
	ArgRFCContent         = "rfc_content"
	ArgRulesID            = "rules_id"
)

// Transport kinds.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
	TransportHTTP  = "http"
)

// Planner is the service the tools delegate to.
type Planner interface {
	CreateRFC(ctx context.Context, feature, rulesID string) (string, error)
	GenerateTasks(ctx context.Context, rfc, rulesID string) (planner.TasksResult, error)
}

// Info identifies the server.
type Info struct {
	Name    string
	Version string
}

// TransportConfig selects and configures the wire binding.
type TransportConfig struct {
	Kind    string // stdio, sse, http
	Addr    string // listen address for sse and http
	BaseURL string // public base URL advertised by sse; derived from Addr when empty
}

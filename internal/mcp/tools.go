package mcp

import (
	"context"
	"errors"

	"plannerd/internal/logging"
	"plannerd/internal/planner"

	"github.com/google/uuid"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
)

// RFCTool handles create_rfc.
type RFCTool struct {
	planner Planner
}

// NewRFCTool creates the create_rfc tool.
func NewRFCTool(p Planner) *RFCTool {
	return &RFCTool{planner: p}
}

// Definition returns the MCP tool definition for registration.
func (t *RFCTool) Definition() mcpgo.Tool {
	return mcpgo.NewTool(ToolCreateRFC,
		mcpgo.WithDescription("Generates an RFC (Request for Comments) document for a feature using Gemini, "+
			"shaped by the team rules document named by rules_id."),
		mcpgo.WithString(ArgFeatureDescription,
			mcpgo.Required(),
			mcpgo.Description("Free-text description of the feature to design."),
		),
		mcpgo.WithString(ArgRulesID,
			mcpgo.Description("Rules document to apply (file name without .yaml)."),
			mcpgo.DefaultString(planner.DefaultRulesID),
		),
	)
}

// Handle processes a create_rfc call.
func (t *RFCTool) Handle(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	feature, err := req.RequireString(ArgFeatureDescription)
	if err != nil {
		return invalidArgument(err), nil
	}
	rulesID := req.GetString(ArgRulesID, planner.DefaultRulesID)

	log := requestLogger(ToolCreateRFC, rulesID)
	log.Info("create_rfc: feature_len=%d", len(feature))

	text, err := t.planner.CreateRFC(ctx, feature, rulesID)
	if err != nil {
		return failure(log, err)
	}
	log.Info("create_rfc: done, response_len=%d", len(text))
	return mcpgo.NewToolResultText(text), nil
}

// TasksTool handles generate_tasks.
type TasksTool struct {
	planner Planner
}

// NewTasksTool creates the generate_tasks tool.
func NewTasksTool(p Planner) *TasksTool {
	return &TasksTool{planner: p}
}

// Definition returns the MCP tool definition for registration.
func (t *TasksTool) Definition() mcpgo.Tool {
	return mcpgo.NewTool(ToolGenerateTasks,
		mcpgo.WithDescription("Generates a task list in JSON format from an RFC using Gemini. "+
			"Each task has name, description and priority (High, Medium or Low)."),
		mcpgo.WithString(ArgRFCContent,
			mcpgo.Required(),
			mcpgo.Description("The RFC text to break down into tasks."),
		),
		mcpgo.WithString(ArgRulesID,
			mcpgo.Description("Rules document to apply (file name without .yaml)."),
			mcpgo.DefaultString(planner.DefaultRulesID),
		),
	)
}

// Handle processes a generate_tasks call. A response that is not valid JSON
// is still returned as a normal result.
func (t *TasksTool) Handle(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	rfc, err := req.RequireString(ArgRFCContent)
	if err != nil {
		return invalidArgument(err), nil
	}
	rulesID := req.GetString(ArgRulesID, planner.DefaultRulesID)

	log := requestLogger(ToolGenerateTasks, rulesID)
	log.Info("generate_tasks: rfc_len=%d", len(rfc))

	res, err := t.planner.GenerateTasks(ctx, rfc, rulesID)
	if err != nil {
		return failure(log, err)
	}
	if !res.ValidJSON {
		log.Warn("generate_tasks: response is not valid JSON, returned as raw text")
	}
	return mcpgo.NewToolResultText(res.Text), nil
}

func requestLogger(tool, rulesID string) *logging.RequestLogger {
	return logging.WithRequestID(logging.CategoryTools, uuid.NewString()).
		WithField("tool", tool).
		WithField("rules_id", rulesID)
}

func invalidArgument(err error) *mcpgo.CallToolResult {
	logging.ToolsWarn("rejected call: %v", err)
	return mcpgo.NewToolResultError("invalid argument: " + err.Error())
}

// failure maps service errors onto tool results. The two expected failure
// kinds become tool errors the model can read; anything else is a protocol
// error.
func failure(log *logging.RequestLogger, err error) (*mcpgo.CallToolResult, error) {
	switch {
	case errors.Is(err, planner.ErrRulesNotFound):
		log.Warn("%v", err)
		return mcpgo.NewToolResultError("invalid argument: " + err.Error()), nil
	case errors.Is(err, planner.ErrUnavailable):
		log.Error("%v", err)
		return mcpgo.NewToolResultError("unavailable: " + err.Error()), nil
	default:
		logging.ToolsError("internal error: %v", err)
		return nil, err
	}
}

package mcp

import (
	"context"

	"plannerd/internal/logging"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server wires the planning tools into an MCP server.
type Server struct {
	mcp   *server.MCPServer
	info  Info
	tools []string
}

// NewServer creates the MCP server and registers both tools. Empty fields of
// info fall back to the defaults.
func NewServer(p Planner, info Info) *Server {
	if info.Name == "" {
		info.Name = DefaultServerName
	}
	if info.Version == "" {
		info.Version = DefaultServerVersion
	}

	s := &Server{
		mcp: server.NewMCPServer(
			info.Name,
			info.Version,
			server.WithToolCapabilities(true),
			server.WithRecovery(),
			server.WithInstructions(instructions),
		),
		info: info,
	}

	s.addTool(NewRFCTool(p))
	s.addTool(NewTasksTool(p))

	return s
}

type tool interface {
	Definition() mcpgo.Tool
	Handle(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error)
}

func (s *Server) addTool(t tool) {
	def := t.Definition()
	s.mcp.AddTool(def, t.Handle)
	s.tools = append(s.tools, def.Name)
	logging.Tools("registered tool %s", def.Name)
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer { return s.mcp }

// Info returns the advertised identity.
func (s *Server) Info() Info { return s.info }

// Tools returns registered tool names in registration order.
func (s *Server) Tools() []string {
	return append([]string(nil), s.tools...)
}

const instructions = `plannerd drafts design documents with Gemini.
Call create_rfc with a feature description to get an RFC in Markdown.
Pass the RFC to generate_tasks to get a JSON array of tasks.
Both tools accept an optional rules_id naming the team rules document to apply.`

// Package mcpserver exposes the layout engine to AI agents over the Model
// Context Protocol, so an agent can inspect and edit page layouts with the
// same validation the UI goes through.
package mcpserver

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"pageforge/internal/domain"
	"pageforge/internal/service"
)

// Server is the MCP server for the layout editor.
type Server struct {
	mcp       *server.MCPServer
	emitter   service.EventEmitter
	layouts   *service.LayoutService
	snapshots *service.SnapshotService

	// Active page context (set by the set_active_page tool)
	mu        sync.Mutex
	activeKey *domain.LayoutKey
}

// Deps holds the dependencies passed from the App layer.
type Deps struct {
	Emitter   service.EventEmitter
	Layouts   *service.LayoutService
	Snapshots *service.SnapshotService
}

// New creates and configures an MCP server with all layout tools.
func New(deps Deps) *Server {
	s := &Server{
		emitter:   deps.Emitter,
		layouts:   deps.Layouts,
		snapshots: deps.Snapshots,
	}

	s.mcp = server.NewMCPServer(
		"pageforge-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerLayoutTools()
	s.registerSnapshotTools()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// ── Active page context ────────────────────────────────────

func (s *Server) setActiveKey(key domain.LayoutKey) {
	s.mu.Lock()
	s.activeKey = &key
	s.mu.Unlock()
}

// resolveKey builds the layout key from tool args, falling back to the
// active page for any missing part.
func (s *Server) resolveKey(args map[string]any) (domain.LayoutKey, error) {
	s.mu.Lock()
	active := s.activeKey
	s.mu.Unlock()

	var key domain.LayoutKey
	if active != nil {
		key = *active
	}
	if v, ok := args["bookKey"].(string); ok && v != "" {
		key.BookKey = v
	}
	if v, ok := args["pageIndex"].(float64); ok {
		key.PageIndex = int(v)
	}
	if v, ok := args["side"].(string); ok && v != "" {
		key.Side = domain.PageSide(v)
	}
	if key.BookKey == "" {
		return key, fmt.Errorf("no active page; call set_active_page or pass bookKey")
	}
	if key.Side == "" {
		key.Side = domain.SideFront
	}
	if !domain.KnownPageSide(key.Side) {
		return key, fmt.Errorf("unknown side %q", key.Side)
	}
	return key, nil
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// getFloat reads a numeric arg with a default.
func getFloat(args map[string]any, key string, def float64) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return def
}

func boolPtr(v bool) *bool { return &v }

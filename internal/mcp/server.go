package mcp

import (
	"context"
	"time"

	"wfdash/internal/dashboard"
	"wfdash/internal/ingest"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

const (
	serverName    = "wfdash"
	serverVersion = "0.1.0"
)

// Server exposes the dashboard state as MCP tools.
type Server struct {
	state               *dashboard.State
	defaults            ingest.Files
	enableMermaidCharts bool
	clock               func() time.Time
}

// NewServer creates a new MCP server. defaults are used by load_dataset for any file the
// caller leaves out.
func NewServer(state *dashboard.State, defaults ingest.Files, enableMermaidCharts bool) *Server {
	return &Server{
		state:               state,
		defaults:            defaults,
		enableMermaidCharts: enableMermaidCharts,
		clock:               time.Now,
	}
}

// MCPServer builds the protocol server with every tool registered.
func (s *Server) MCPServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	s.registerTools(server)
	return server
}

// Serve runs the protocol loop over stdio until the client disconnects or ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	log.Info().Str("version", serverVersion).Msg("MCP server listening on stdio")
	return s.MCPServer().Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) now() time.Time {
	return s.clock()
}

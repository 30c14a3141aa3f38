package commands

import (
	"context"
	"time"

	"wfdash/internal/mcp"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard analysis to MCP clients over stdio",
	Long: `Starts the MCP server on stdin/stdout. When input files are configured they are loaded
before the first request; otherwise clients call load_dataset.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	now := time.Now()
	state, cleanup := newState(now)
	defer cleanup()

	files := inputFiles()
	if files.Cases != "" && files.Actions != "" {
		if _, err := state.Load(ctx, files, now); err != nil {
			// The server still starts so a client can fix the paths with load_dataset.
			log.Warn().Err(err).Msg("Initial dataset load failed")
		}
	}

	return mcp.NewServer(state, files, cfg.EnableMermaidCharts).Serve(ctx)
}

package main

import (
	"context"

	"github.com/spf13/cobra"

	"dialogprep/internal/logging"
	mcpserver "dialogprep/internal/mcp"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio",
	Long: `Starts an MCP server over stdin/stdout exposing acquire_dataset,
verify_dataset, and dataset_status tools.

The server monitors for parent process death. When the MCP host disconnects,
the server self-terminates to prevent zombie processes.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		settings, err := resolveSettings()
		if err != nil {
			return err
		}

		srv := mcpserver.NewServer(settings)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		mcpserver.WatchParent(ctx, cancel)

		logging.New("mcp").Info("starting dialogprep MCP server over stdio", "data_dir", settings.DataDir)
		return srv.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
	},
}

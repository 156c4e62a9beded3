package cli

import (
	"context"

	"github.com/spf13/cobra"

	"journal-ai/internal/app"
	"journal-ai/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the journal tools over MCP stdio",
		Long: `Start a Model Context Protocol server on stdin/stdout exposing the
ask_journal, add_record and list_records tools. Logs go to stderr.

Client configuration:
  {
    "mcpServers": {
      "journal": {
        "command": "/path/to/journalctl",
        "args": ["mcp"]
      }
    }
  }`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				return mcp.NewServer(a.Service).Serve()
			})
		},
	}
}

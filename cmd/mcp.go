package cmd

import (
	"context"
	"fmt"

	"linkmcp/internal/app"

	"github.com/spf13/cobra"
)

// mcpCmd starts the stdio MCP server for AI assistant integration.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server on stdio",
	Long: `Starts the MCP server over stdio transport, exposing the LinkedIn
operations (profiles, posts, invitations) as tools for AI assistants.

Authentication reuses the credential stored by the REST server's OAuth
flow. When no credential is stored, the linkedin_get_auth_url tool
returns the login URL to complete in a browser.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	application, err := app.New(ctx, app.Options{
		ConfigPath: configPath,
		LogLevel:   logLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer application.Close()

	return application.ServeMCP(ctx, GetVersion())
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"linkmcp/internal/app"

	"github.com/spf13/cobra"
)

// serveCmd starts the HTTP REST server: the OAuth login flow under
// /auth/* and the LinkedIn resource endpoints under /api/*.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP REST API server",
	Long: `Starts the HTTP server exposing the browser-based LinkedIn OAuth login
flow (/auth/login, /auth/callback) and the REST resource endpoints
(/api/profiles, /api/posts, /api/invitations).

The server runs until interrupted (Ctrl+C) and shuts down gracefully.

Configuration comes from environment variables (LINKEDIN_CLIENT_ID,
LINKEDIN_CLIENT_SECRET, ...), an optional .env file in the working
directory, or a YAML file given with --config.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, app.Options{
		ConfigPath: configPath,
		LogLevel:   logLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer application.Close()

	return application.ServeHTTP(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

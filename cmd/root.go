package cmd

import (
	"errors"
	"os"

	"linkmcp/internal/oauth"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error.
	ExitCodeError = 1
	// ExitCodeAuthRequired indicates no stored credential was available.
	ExitCodeAuthRequired = 2
)

// rootCmd is the base command for the linkmcp application.
var rootCmd = &cobra.Command{
	Use:   "linkmcp",
	Short: "LinkedIn API server with OAuth login, REST API, and MCP tools",
	Long: `linkmcp exposes the LinkedIn REST API (profiles, posts, connection
invitations) through two surfaces: an HTTP REST API with a browser-based
OAuth login flow, and an MCP stdio server that makes the same operations
available as tools for AI assistants.`,
	// SilenceUsage prevents Cobra from printing the usage message on
	// errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command. Called from main to
// inject the build-time version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the root command. Called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "linkmcp version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode maps error types to semantic exit codes for scripting.
func getExitCode(err error) int {
	var notAuth *oauth.NotAuthenticatedError
	if errors.As(err, &notAuth) || errors.Is(err, oauth.ErrNoRefreshToken) {
		return ExitCodeAuthRequired
	}
	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default: environment variables only)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: info)")
}

// configPath and logLevel are shared by the serve and mcp commands.
var (
	configPath string
	logLevel   string
)

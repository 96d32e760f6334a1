package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"linkmcp/internal/config"
	"linkmcp/internal/mcpserver"
	"linkmcp/internal/oauth"
	"linkmcp/internal/server"
	"linkmcp/internal/store"
	"linkmcp/pkg/logging"
)

// Application owns the wired collaborators: configuration, credential
// store, OAuth state store, and authenticator. It is built once by New
// and torn down by Close.
type Application struct {
	Config *config.Config
	Auth   *oauth.Authenticator

	states   *oauth.StateStore
	sqlStore *store.SQLStore
}

// Options control application bootstrap.
type Options struct {
	// ConfigPath is an optional YAML config file. Empty means defaults
	// plus environment variables only.
	ConfigPath string

	// LogLevel overrides the configured log level when non-empty.
	LogLevel string
}

// New loads configuration, initializes logging, opens the credential
// store (Postgres when a database URL is configured, a JSON file
// otherwise), and wires the authenticator.
func New(ctx context.Context, opts Options) (*Application, error) {
	loaded, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	cfg := &loaded

	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logging.Init(logging.ParseLevel(level), os.Stderr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &Application{
		Config: cfg,
		states: oauth.NewStateStore(),
	}

	var credStore store.Store
	if cfg.DatabaseURL != "" {
		sqlStore, err := store.OpenSQLStore(ctx, cfg.DatabaseURL)
		if err != nil {
			app.states.Stop()
			return nil, fmt.Errorf("open credential database: %w", err)
		}
		app.sqlStore = sqlStore
		credStore = sqlStore
		logging.Info("Bootstrap", "Using Postgres credential store")
	} else {
		credStore = store.NewFileStore(cfg.TokenFile)
		logging.Info("Bootstrap", "Using file credential store at %s", cfg.TokenFile)
	}

	app.Auth = oauth.NewAuthenticator(cfg, credStore, app.states)
	return app, nil
}

// ServeHTTP runs the REST API server until the context is cancelled,
// then shuts it down gracefully.
func (a *Application) ServeHTTP(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              a.Config.ListenAddr,
		Handler:           server.NewServer(a.Config, a.Auth).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Bootstrap", "HTTP server listening on %s", a.Config.ListenAddr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// ServeMCP runs the stdio MCP server until the client disconnects.
func (a *Application) ServeMCP(ctx context.Context, version string) error {
	logging.Info("Bootstrap", "Starting MCP server on stdio")
	return mcpserver.NewMCPServer(a.Config, a.Auth, version).Start(ctx)
}

// Close releases background resources: the state store cleanup goroutine
// and the database connection when one is open.
func (a *Application) Close() error {
	a.states.Stop()
	if a.sqlStore != nil {
		return a.sqlStore.Close()
	}
	return nil
}

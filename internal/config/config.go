package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"linkmcp/pkg/logging"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults for the LinkedIn OAuth endpoints and API surface.
const (
	DefaultAuthorizationURL = "https://www.linkedin.com/oauth/v2/authorization"
	DefaultTokenURL         = "https://www.linkedin.com/oauth/v2/accessToken"
	DefaultAPIBaseURL       = "https://api.linkedin.com"
	DefaultAPIVersion       = "202601"
	DefaultRedirectURI      = "http://localhost:8000/auth/callback"
	DefaultScopes           = "openid profile email w_member_social"
	DefaultListenAddr       = ":8000"
	DefaultTokenFile        = "token_store.json"
)

// Config holds the static application configuration. It is loaded once at
// process start and passed by reference into every component; no package
// holds it as a mutable global.
type Config struct {
	// LinkedIn OAuth application credentials.
	ClientID     string `yaml:"clientID"`
	ClientSecret string `yaml:"clientSecret"`

	// RedirectURI is the OAuth2 callback URL registered with LinkedIn.
	RedirectURI string `yaml:"redirectURI"`

	// Scopes is the space-separated OAuth2 scope list.
	Scopes string `yaml:"scopes"`

	// AuthorizationURL and TokenURL are the provider endpoints. Overridable
	// for tests against a stub provider.
	AuthorizationURL string `yaml:"authorizationURL"`
	TokenURL         string `yaml:"tokenURL"`

	// APIBaseURL is the LinkedIn REST API origin.
	APIBaseURL string `yaml:"apiBaseURL"`

	// APIVersion is the LinkedIn-Version header value (YYYYMM).
	APIVersion string `yaml:"apiVersion"`

	// ListenAddr is the HTTP listen address for the REST surface.
	ListenAddr string `yaml:"listenAddr"`

	// TokenFile is the path of the single-user JSON credential file.
	TokenFile string `yaml:"tokenFile"`

	// DatabaseURL, when set, selects the Postgres-backed multi-user
	// credential store instead of the file store.
	DatabaseURL string `yaml:"databaseURL"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel"`
}

// ScopeList returns the configured scopes as a slice.
func (c *Config) ScopeList() []string {
	return strings.Fields(c.Scopes)
}

// Validate checks that the fields required for the OAuth flow are present.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("clientID is required (set LINKEDIN_CLIENT_ID or clientID in the config file)")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("clientSecret is required (set LINKEDIN_CLIENT_SECRET or clientSecret in the config file)")
	}
	if c.RedirectURI == "" {
		return fmt.Errorf("redirectURI is required")
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		RedirectURI:      DefaultRedirectURI,
		Scopes:           DefaultScopes,
		AuthorizationURL: DefaultAuthorizationURL,
		TokenURL:         DefaultTokenURL,
		APIBaseURL:       DefaultAPIBaseURL,
		APIVersion:       DefaultAPIVersion,
		ListenAddr:       DefaultListenAddr,
		TokenFile:        DefaultTokenFile,
		LogLevel:         "info",
	}
}

// Load builds the configuration from, in order of increasing precedence:
// built-in defaults, an optional YAML config file, and environment
// variables. A .env file in the working directory is loaded first when
// present so that local deployments can keep secrets out of the shell.
func Load(configPath string) (Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("error reading config from %s: %w", configPath, err)
			}
			logging.Info("Config", "No config file at %s, using defaults", configPath)
		} else {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("error loading config from %s: %w", configPath, err)
			}
			logging.Info("Config", "Loaded configuration from %s", configPath)
		}
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.ClientID, "LINKEDIN_CLIENT_ID")
	overrideString(&cfg.ClientSecret, "LINKEDIN_CLIENT_SECRET")
	overrideString(&cfg.RedirectURI, "LINKEDIN_REDIRECT_URI")
	overrideString(&cfg.Scopes, "LINKEDIN_SCOPES")
	overrideString(&cfg.AuthorizationURL, "LINKEDIN_AUTHORIZATION_URL")
	overrideString(&cfg.TokenURL, "LINKEDIN_TOKEN_URL")
	overrideString(&cfg.APIBaseURL, "LINKEDIN_API_BASE_URL")
	overrideString(&cfg.APIVersion, "LINKEDIN_API_VERSION")
	overrideString(&cfg.ListenAddr, "LISTEN_ADDR")
	overrideString(&cfg.TokenFile, "TOKEN_STORE_PATH")
	overrideString(&cfg.DatabaseURL, "DATABASE_URL")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")
}

func overrideString(target *string, envName string) {
	if value := strings.TrimSpace(os.Getenv(envName)); value != "" {
		*target = value
	}
}

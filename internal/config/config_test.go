package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultAuthorizationURL, cfg.AuthorizationURL)
	assert.Equal(t, DefaultTokenURL, cfg.TokenURL)
	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, DefaultAPIVersion, cfg.APIVersion)
	assert.Equal(t, DefaultTokenFile, cfg.TokenFile)
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
clientID: client-abc
clientSecret: secret-xyz
redirectURI: http://localhost:9000/auth/callback
scopes: openid profile
apiVersion: "202512"
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "client-abc", cfg.ClientID)
	assert.Equal(t, "secret-xyz", cfg.ClientSecret)
	assert.Equal(t, "http://localhost:9000/auth/callback", cfg.RedirectURI)
	assert.Equal(t, []string{"openid", "profile"}, cfg.ScopeList())
	assert.Equal(t, "202512", cfg.APIVersion)
	// Unset fields keep defaults.
	assert.Equal(t, DefaultTokenURL, cfg.TokenURL)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultScopes, cfg.Scopes)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("clientID: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LINKEDIN_CLIENT_ID", "env-client")
	t.Setenv("LINKEDIN_API_VERSION", "202603")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env-client", cfg.ClientID)
	assert.Equal(t, "202603", cfg.APIVersion)
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	assert.Error(t, cfg.Validate())

	cfg.ClientID = "id"
	assert.Error(t, cfg.Validate())

	cfg.ClientSecret = "secret"
	assert.NoError(t, cfg.Validate())
}

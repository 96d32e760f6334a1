package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithFileStore(t *testing.T) {
	t.Setenv("LINKEDIN_CLIENT_ID", "client-id")
	t.Setenv("LINKEDIN_CLIENT_SECRET", "client-secret")
	t.Setenv("TOKEN_STORE_PATH", filepath.Join(t.TempDir(), "token_store.json"))
	t.Setenv("DATABASE_URL", "")

	application, err := New(context.Background(), Options{})
	require.NoError(t, err)
	defer application.Close()

	assert.NotNil(t, application.Auth)
	assert.Nil(t, application.sqlStore)
	assert.False(t, application.Auth.IsAuthenticated(context.Background()))
}

func TestNewRequiresClientCredentials(t *testing.T) {
	t.Setenv("LINKEDIN_CLIENT_ID", "")
	t.Setenv("LINKEDIN_CLIENT_SECRET", "")

	_, err := New(context.Background(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clientID")
}

func TestCloseIsSafeWithoutDatabase(t *testing.T) {
	t.Setenv("LINKEDIN_CLIENT_ID", "client-id")
	t.Setenv("LINKEDIN_CLIENT_SECRET", "client-secret")
	t.Setenv("TOKEN_STORE_PATH", filepath.Join(t.TempDir(), "token_store.json"))
	t.Setenv("DATABASE_URL", "")

	application, err := New(context.Background(), Options{})
	require.NoError(t, err)
	assert.NoError(t, application.Close())
}

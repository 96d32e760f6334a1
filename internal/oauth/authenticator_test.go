package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"linkmcp/internal/config"
	"linkmcp/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider is a fake OAuth token endpoint. It records every request
// and serves a configurable JSON response.
type stubProvider struct {
	server   *httptest.Server
	calls    atomic.Int64
	status   int
	response map[string]any
	lastForm url.Values
}

func newStubProvider(t *testing.T) *stubProvider {
	t.Helper()
	sp := &stubProvider{status: http.StatusOK}
	sp.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sp.calls.Add(1)
		require.NoError(t, r.ParseForm())
		sp.lastForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(sp.status)
		_ = json.NewEncoder(w).Encode(sp.response)
	}))
	t.Cleanup(sp.server.Close)
	return sp
}

func newTestAuthenticator(t *testing.T, sp *stubProvider) (*Authenticator, store.Store) {
	t.Helper()

	cfg := &config.Config{
		ClientID:         "client-id",
		ClientSecret:     "client-secret",
		RedirectURI:      "http://localhost:8000/auth/callback",
		Scopes:           "openid profile email w_member_social",
		AuthorizationURL: sp.server.URL + "/authorize",
		TokenURL:         sp.server.URL + "/token",
	}

	credStore := store.NewFileStore(filepath.Join(t.TempDir(), "token_store.json"))
	states := NewStateStore()
	t.Cleanup(states.Stop)

	return NewAuthenticator(cfg, credStore, states), credStore
}

func TestAuthorizationURL(t *testing.T) {
	sp := newStubProvider(t)
	auth, _ := newTestAuthenticator(t, sp)

	rawURL, err := auth.AuthorizationURL()
	require.NoError(t, err)

	parsed, err := url.Parse(rawURL)
	require.NoError(t, err)

	q := parsed.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "http://localhost:8000/auth/callback", q.Get("redirect_uri"))
	assert.Equal(t, "openid profile email w_member_social", q.Get("scope"))
	assert.NotEmpty(t, q.Get("state"))

	// A second URL gets a fresh state.
	secondURL, err := auth.AuthorizationURL()
	require.NoError(t, err)
	second, err := url.Parse(secondURL)
	require.NoError(t, err)
	assert.NotEqual(t, q.Get("state"), second.Query().Get("state"))
}

func TestConsumeStateSingleUse(t *testing.T) {
	sp := newStubProvider(t)
	auth, _ := newTestAuthenticator(t, sp)

	rawURL, err := auth.AuthorizationURL()
	require.NoError(t, err)
	parsed, err := url.Parse(rawURL)
	require.NoError(t, err)
	state := parsed.Query().Get("state")

	require.NoError(t, auth.ConsumeState(state))
	assert.ErrorIs(t, auth.ConsumeState(state), ErrStateMismatch, "states must be single-use")
	assert.ErrorIs(t, auth.ConsumeState("forged-state"), ErrStateMismatch)
	assert.ErrorIs(t, auth.ConsumeState(""), ErrStateMismatch)
}

func TestExchangeCodeStoresCredential(t *testing.T) {
	ctx := context.Background()
	sp := newStubProvider(t)
	sp.response = map[string]any{
		"access_token":  "AT1",
		"expires_in":    3600,
		"refresh_token": "RT1",
		"scope":         "openid profile",
	}
	auth, credStore := newTestAuthenticator(t, sp)

	resp, err := auth.ExchangeCode(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "AT1", resp.AccessToken)
	assert.Equal(t, "RT1", resp.RefreshToken)
	assert.InDelta(t, 3600, resp.ExpiresIn, 5)

	assert.Equal(t, "authorization_code", sp.lastForm.Get("grant_type"))
	assert.Equal(t, "abc", sp.lastForm.Get("code"))
	assert.Equal(t, "client-id", sp.lastForm.Get("client_id"))
	assert.Equal(t, "client-secret", sp.lastForm.Get("client_secret"))
	assert.Equal(t, "http://localhost:8000/auth/callback", sp.lastForm.Get("redirect_uri"))

	assert.True(t, auth.IsAuthenticated(ctx))
	token, err := auth.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AT1", token)

	cred, err := credStore.Load(ctx, "")
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Equal(t, "RT1", cred.RefreshToken)
	assert.Equal(t, "openid profile", cred.Scope)
	require.NotNil(t, cred.ExpiresAt)
}

func TestExchangeCodeDefaultsExpiry(t *testing.T) {
	ctx := context.Background()
	sp := newStubProvider(t)
	sp.response = map[string]any{"access_token": "AT1"}
	auth, credStore := newTestAuthenticator(t, sp)

	resp, err := auth.ExchangeCode(ctx, "abc")
	require.NoError(t, err)
	assert.InDelta(t, DefaultExpiresIn, resp.ExpiresIn, 5)

	cred, err := credStore.Load(ctx, "")
	require.NoError(t, err)
	require.NotNil(t, cred.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(DefaultExpiresIn*time.Second), *cred.ExpiresAt, time.Minute)
}

func TestExchangeCodeProviderError(t *testing.T) {
	ctx := context.Background()
	sp := newStubProvider(t)
	sp.status = http.StatusUnauthorized
	sp.response = map[string]any{"error": "invalid_grant"}
	auth, credStore := newTestAuthenticator(t, sp)

	_, err := auth.ExchangeCode(ctx, "bad-code")
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusUnauthorized, provErr.StatusCode)
	assert.Contains(t, provErr.Body, "invalid_grant")
	assert.False(t, IsPrecondition(err))

	cred, loadErr := credStore.Load(ctx, "")
	require.NoError(t, loadErr)
	assert.Nil(t, cred, "a failed exchange must not write to the store")
}

func TestRefreshKeepsRefreshTokenWhenOmitted(t *testing.T) {
	ctx := context.Background()
	sp := newStubProvider(t)
	auth, credStore := newTestAuthenticator(t, sp)

	require.NoError(t, credStore.Save(ctx, &store.Credential{
		AccessToken:  "AT1",
		RefreshToken: "RT1",
		CreatedAt:    time.Now(),
	}))

	sp.response = map[string]any{"access_token": "AT2", "expires_in": 3600}
	resp, err := auth.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AT2", resp.AccessToken)
	assert.Equal(t, "refresh_token", sp.lastForm.Get("grant_type"))
	assert.Equal(t, "RT1", sp.lastForm.Get("refresh_token"))

	cred, err := credStore.Load(ctx, "")
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Equal(t, "AT2", cred.AccessToken)
	assert.Equal(t, "RT1", cred.RefreshToken, "rotation-less response must keep the stored refresh token")
}

func TestRefreshRotatesRefreshToken(t *testing.T) {
	ctx := context.Background()
	sp := newStubProvider(t)
	auth, credStore := newTestAuthenticator(t, sp)

	require.NoError(t, credStore.Save(ctx, &store.Credential{
		AccessToken:  "AT1",
		RefreshToken: "RT1",
		CreatedAt:    time.Now(),
	}))

	sp.response = map[string]any{
		"access_token":             "AT2",
		"expires_in":               3600,
		"refresh_token":            "RT2",
		"refresh_token_expires_in": 86400,
	}
	resp, err := auth.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "RT2", resp.RefreshToken)
	assert.Equal(t, int64(86400), resp.RefreshTokenExpiresIn)

	cred, err := credStore.Load(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "RT2", cred.RefreshToken)
	require.NotNil(t, cred.RefreshTokenExpiresAt)
}

func TestRefreshWithoutRefreshTokenIsLocal(t *testing.T) {
	ctx := context.Background()
	sp := newStubProvider(t)
	auth, _ := newTestAuthenticator(t, sp)

	_, err := auth.Refresh(ctx)
	assert.ErrorIs(t, err, ErrNoRefreshToken)
	assert.True(t, IsPrecondition(err))
	assert.Equal(t, int64(0), sp.calls.Load(), "precondition failure must not hit the network")
}

func TestRefreshProviderErrorLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	sp := newStubProvider(t)
	auth, credStore := newTestAuthenticator(t, sp)

	require.NoError(t, credStore.Save(ctx, &store.Credential{
		AccessToken:  "AT1",
		RefreshToken: "RT1",
		CreatedAt:    time.Now(),
	}))

	sp.status = http.StatusBadRequest
	sp.response = map[string]any{"error": "invalid_grant"}

	_, err := auth.Refresh(ctx)
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusBadRequest, provErr.StatusCode)

	cred, loadErr := credStore.Load(ctx, "")
	require.NoError(t, loadErr)
	require.NotNil(t, cred)
	assert.Equal(t, "AT1", cred.AccessToken, "failed refresh must not overwrite the credential")
	assert.Equal(t, "RT1", cred.RefreshToken)
}

func TestAccessTokenTransparentRefresh(t *testing.T) {
	ctx := context.Background()
	sp := newStubProvider(t)
	auth, credStore := newTestAuthenticator(t, sp)

	expired := time.Now().Add(-time.Minute)
	require.NoError(t, credStore.Save(ctx, &store.Credential{
		AccessToken:  "AT1",
		RefreshToken: "RT1",
		ExpiresAt:    &expired,
		CreatedAt:    time.Now(),
	}))

	sp.response = map[string]any{"access_token": "AT2", "expires_in": 3600}
	token, err := auth.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AT2", token)
	assert.Equal(t, int64(1), sp.calls.Load())
}

func TestAccessTokenExpiredWithoutRefreshToken(t *testing.T) {
	ctx := context.Background()
	sp := newStubProvider(t)
	auth, credStore := newTestAuthenticator(t, sp)

	expired := time.Now().Add(-time.Minute)
	require.NoError(t, credStore.Save(ctx, &store.Credential{
		AccessToken: "AT1",
		ExpiresAt:   &expired,
		CreatedAt:   time.Now(),
	}))

	_, err := auth.AccessToken(ctx)
	var notAuth *NotAuthenticatedError
	require.ErrorAs(t, err, &notAuth)
	assert.Equal(t, int64(0), sp.calls.Load())
}

func TestAccessTokenNotAuthenticated(t *testing.T) {
	ctx := context.Background()
	sp := newStubProvider(t)
	auth, _ := newTestAuthenticator(t, sp)

	_, err := auth.AccessToken(ctx)
	var notAuth *NotAuthenticatedError
	require.ErrorAs(t, err, &notAuth)
	assert.True(t, IsPrecondition(err))
	assert.Contains(t, err.Error(), "/auth/login", "the error must point at the login entry point")
}

func TestLogoutIdempotent(t *testing.T) {
	ctx := context.Background()
	sp := newStubProvider(t)
	auth, credStore := newTestAuthenticator(t, sp)

	// Logout with no credential ever stored.
	require.NoError(t, auth.Logout(ctx))
	assert.False(t, auth.IsAuthenticated(ctx))

	require.NoError(t, credStore.Save(ctx, &store.Credential{AccessToken: "AT1", CreatedAt: time.Now()}))
	assert.True(t, auth.IsAuthenticated(ctx))

	require.NoError(t, auth.Logout(ctx))
	require.NoError(t, auth.Logout(ctx))
	assert.False(t, auth.IsAuthenticated(ctx))
}

func TestForUserKeysCredentials(t *testing.T) {
	ctx := context.Background()
	sp := newStubProvider(t)
	sp.response = map[string]any{"access_token": "AT1", "expires_in": 3600}

	cfg := &config.Config{
		ClientID:         "client-id",
		ClientSecret:     "client-secret",
		RedirectURI:      "http://localhost:8000/auth/callback",
		Scopes:           "openid",
		AuthorizationURL: sp.server.URL + "/authorize",
		TokenURL:         sp.server.URL + "/token",
	}

	credStore := store.NewFileStore(filepath.Join(t.TempDir(), "token_store.json"))
	states := NewStateStore()
	t.Cleanup(states.Stop)

	base := NewAuthenticator(cfg, credStore, states)
	alice := base.ForUser("alice")

	_, err := alice.ExchangeCode(ctx, "abc")
	require.NoError(t, err)

	cred, err := credStore.Load(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Equal(t, "alice", cred.UserID)
}

func TestProviderErrorMessage(t *testing.T) {
	err := &ProviderError{StatusCode: 404, Body: `{"message":"not found"}`}
	assert.True(t, strings.Contains(err.Error(), "404"))
}

package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"linkmcp/internal/config"
	"linkmcp/internal/oauth"
	"linkmcp/internal/store"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, api http.HandlerFunc) (*MCPServer, *store.FileStore) {
	t.Helper()

	if api == nil {
		api = func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}
	}
	apiServer := httptest.NewServer(api)
	t.Cleanup(apiServer.Close)

	cfg := &config.Config{
		ClientID:         "client-id",
		ClientSecret:     "client-secret",
		RedirectURI:      "http://localhost:8000/auth/callback",
		Scopes:           "openid profile",
		AuthorizationURL: "https://provider.example.com/authorization",
		TokenURL:         "https://provider.example.com/accessToken",
		APIBaseURL:       apiServer.URL,
		APIVersion:       "202601",
	}

	credStore := store.NewFileStore(filepath.Join(t.TempDir(), "token_store.json"))
	states := oauth.NewStateStore()
	t.Cleanup(states.Stop)

	auth := oauth.NewAuthenticator(cfg, credStore, states)
	return NewMCPServer(cfg, auth, "test"), credStore
}

func seedCredential(t *testing.T, credStore *store.FileStore) {
	t.Helper()
	expires := time.Now().Add(time.Hour)
	err := credStore.Save(context.Background(), &store.Credential{
		AccessToken: "seeded-token",
		ExpiresAt:   &expires,
		CreatedAt:   time.Now(),
	})
	require.NoError(t, err)
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: args},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return text.Text
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &parsed))
	return parsed
}

func TestAuthStatusTool(t *testing.T) {
	m, credStore := newTestServer(t, nil)

	result, err := m.handleAuthStatus(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.Equal(t, false, resultJSON(t, result)["authenticated"])

	seedCredential(t, credStore)

	result, err = m.handleAuthStatus(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.Equal(t, true, resultJSON(t, result)["authenticated"])
}

func TestGetAuthURLTool(t *testing.T) {
	m, _ := newTestServer(t, nil)

	result, err := m.handleGetAuthURL(context.Background(), callRequest(nil))
	require.NoError(t, err)

	parsed := resultJSON(t, result)
	authURL, _ := parsed["auth_url"].(string)
	assert.Contains(t, authURL, "https://provider.example.com/authorization")
	assert.Contains(t, authURL, "state=")
}

func TestProfileToolRequiresAuthentication(t *testing.T) {
	m, _ := newTestServer(t, nil)

	result, err := m.handleGetMyProfile(context.Background(), callRequest(nil))
	require.NoError(t, err)
	require.True(t, result.IsError)

	parsed := resultJSON(t, result)
	assert.Equal(t, "not_authenticated", parsed["kind"])
	assert.Contains(t, parsed["hint"], "linkedin_get_auth_url")
}

func TestProfileToolReturnsProfile(t *testing.T) {
	m, credStore := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"sub":"abc","name":"Test User"}`))
	})
	seedCredential(t, credStore)

	result, err := m.handleGetMyProfile(context.Background(), callRequest(nil))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, "Test User", resultJSON(t, result)["name"])
}

func TestGetProfileToolRequiresPersonID(t *testing.T) {
	m, _ := newTestServer(t, nil)

	result, err := m.handleGetProfile(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "person_id")
}

func TestUpstreamErrorIsStructured(t *testing.T) {
	m, credStore := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found"}`))
	})
	seedCredential(t, credStore)

	result, err := m.handleGetPost(context.Background(), callRequest(map[string]any{
		"post_urn": "urn:li:share:999",
	}))
	require.NoError(t, err)
	require.True(t, result.IsError)

	parsed := resultJSON(t, result)
	assert.Equal(t, "linkedin_api", parsed["kind"])
	assert.Equal(t, float64(http.StatusNotFound), parsed["status"])
}

func TestCreatePostTool(t *testing.T) {
	var postedBody map[string]any
	m, credStore := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/userinfo":
			_, _ = w.Write([]byte(`{"sub":"abc"}`))
		case "/rest/posts":
			_ = json.NewDecoder(r.Body).Decode(&postedBody)
			w.Header().Set("x-restli-id", "urn:li:share:1")
			w.WriteHeader(http.StatusCreated)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	seedCredential(t, credStore)

	result, err := m.handleCreatePost(context.Background(), callRequest(map[string]any{
		"text": "hello world",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	parsed := resultJSON(t, result)
	assert.Equal(t, "urn:li:share:1", parsed["id"])
	assert.Equal(t, "hello world", postedBody["commentary"])
	assert.Equal(t, "urn:li:person:abc", postedBody["author"])
	assert.Equal(t, "PUBLIC", postedBody["visibility"])
}

func TestSendInvitationTool(t *testing.T) {
	var body map[string]any
	m, credStore := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("x-restli-id", "urn:li:invitation:7")
		w.WriteHeader(http.StatusCreated)
	})
	seedCredential(t, credStore)

	result, err := m.handleSendInvitation(context.Background(), callRequest(map[string]any{
		"person_id": "abc",
		"message":   "let's connect",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	assert.Equal(t, "urn:li:invitation:7", resultJSON(t, result)["id"])
	assert.Equal(t, "urn:li:person:abc", body["invitee"])
}

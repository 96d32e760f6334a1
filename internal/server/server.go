package server

import (
	"context"
	"net/http"

	"linkmcp/internal/config"
	"linkmcp/internal/linkedin"
	"linkmcp/internal/oauth"
)

// Server exposes the OAuth flow and the LinkedIn resource operations over
// HTTP. It is constructed once with its collaborators and keeps no other
// state.
type Server struct {
	cfg  *config.Config
	auth *oauth.Authenticator
}

// NewServer builds the HTTP server around an authenticator.
func NewServer(cfg *config.Config, auth *oauth.Authenticator) *Server {
	return &Server{cfg: cfg, auth: auth}
}

// Handler returns the routed HTTP handler with logging and panic recovery
// applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /auth/login", s.handleLogin)
	mux.HandleFunc("GET /auth/callback", s.handleCallback)
	mux.HandleFunc("GET /auth/status", s.handleAuthStatus)
	mux.HandleFunc("POST /auth/logout", s.handleLogout)

	mux.HandleFunc("GET /api/profiles/me", s.handleMyProfile)
	mux.HandleFunc("GET /api/profiles/me/details", s.handleMyProfileDetails)
	mux.HandleFunc("GET /api/profiles/me/network", s.handleNetworkInfo)
	mux.HandleFunc("GET /api/profiles/{id}", s.handleProfileByID)
	mux.HandleFunc("GET /api/connections", s.handleConnections)
	mux.HandleFunc("GET /api/connections/search", s.handleSearchConnections)
	mux.HandleFunc("GET /api/people/search", s.handleSearchPeople)

	mux.HandleFunc("POST /api/posts", s.handleCreatePost)
	mux.HandleFunc("POST /api/posts/reshare", s.handleResharePost)
	mux.HandleFunc("GET /api/posts", s.handleMyPosts)
	mux.HandleFunc("GET /api/posts/{urn}", s.handleGetPost)
	mux.HandleFunc("DELETE /api/posts/{urn}", s.handleDeletePost)

	mux.HandleFunc("POST /api/invitations", s.handleSendInvitation)
	mux.HandleFunc("GET /api/invitations/received", s.handleReceivedInvitations)
	mux.HandleFunc("GET /api/invitations/sent", s.handleSentInvitations)
	mux.HandleFunc("POST /api/invitations/{urn}/accept", s.invitationAction("accept"))
	mux.HandleFunc("POST /api/invitations/{urn}/ignore", s.invitationAction("ignore"))
	mux.HandleFunc("POST /api/invitations/{urn}/withdraw", s.invitationAction("withdraw"))

	return recoverPanic(logRequest(mux))
}

// apiClient resolves the current access token (refreshing transparently
// when expired) and builds a LinkedIn client around it.
func (s *Server) apiClient(ctx context.Context) (*linkedin.Client, error) {
	token, err := s.auth.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	return linkedin.NewClient(s.cfg, token), nil
}

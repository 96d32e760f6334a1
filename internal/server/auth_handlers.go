package server

import (
	"errors"
	"fmt"
	"net/http"

	"linkmcp/internal/oauth"
	"linkmcp/pkg/logging"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	authenticated := s.auth.IsAuthenticated(r.Context())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if authenticated {
		fmt.Fprint(w, `<html><body>
<h1>LinkedIn API server</h1>
<p>Status: authenticated</p>
<form method="post" action="/auth/logout"><button type="submit">Log out</button></form>
</body></html>`)
		return
	}
	fmt.Fprint(w, `<html><body>
<h1>LinkedIn API server</h1>
<p>Status: not authenticated</p>
<p><a href="/auth/login">Log in with LinkedIn</a></p>
</body></html>`)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	authURL, err := s.auth.AuthorizationURL()
	if err != nil {
		logging.Error("HTTP", err, "Failed to build authorization URL")
		writeError(w, http.StatusInternalServerError, "failed to build authorization URL")
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		desc := query.Get("error_description")
		logging.Warn("HTTP", "OAuth callback returned error=%q description=%q", errParam, desc)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("authorization failed: %s: %s", errParam, desc))
		return
	}

	if err := s.auth.ConsumeState(query.Get("state")); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	code := query.Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	if _, err := s.auth.ExchangeCode(r.Context(), code); err != nil {
		var providerErr *oauth.ProviderError
		if errors.As(err, &providerErr) {
			writeError(w, http.StatusBadGateway, providerErr.Error())
			return
		}
		writeAPIError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<html><body>
<h1>Authentication successful</h1>
<p>You can close this window.</p>
</body></html>`)
}

func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": s.auth.IsAuthenticated(r.Context()),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(r.Context()); err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"logged_out": true})
}

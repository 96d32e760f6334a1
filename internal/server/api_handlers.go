package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"linkmcp/internal/linkedin"
)

const maxRequestBody = 1 << 20

func intQuery(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (s *Server) handleMyProfile(w http.ResponseWriter, r *http.Request) {
	client, err := s.apiClient(r.Context())
	if err != nil {
		writeAPIError(w, err)
		return
	}
	profile, err := client.Profiles.Me(r.Context())
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleMyProfileDetails(w http.ResponseWriter, r *http.Request) {
	client, err := s.apiClient(r.Context())
	if err != nil {
		writeAPIError(w, err)
		return
	}
	details, err := client.Profiles.MeDetails(r.Context())
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (s *Server) handleNetworkInfo(w http.ResponseWriter, r *http.Request) {
	client, err := s.apiClient(r.Context())
	if err != nil {
		writeAPIError(w, err)
		return
	}
	info, err := client.Profiles.NetworkInfo(r.Context())
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleProfileByID(w http.ResponseWriter, r *http.Request) {
	client, err := s.apiClient(r.Context())
	if err != nil {
		writeAPIError(w, err)
		return
	}
	profile, err := client.Profiles.ByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleConnections(w http.ResponseWriter, r *http.Request) {
	client, err := s.apiClient(r.Context())
	if err != nil {
		writeAPIError(w, err)
		return
	}
	connections, err := client.Profiles.Connections(r.Context(), intQuery(r, "start", 0), intQuery(r, "count", 10))
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, connections)
}

func (s *Server) handleSearchConnections(w http.ResponseWriter, r *http.Request) {
	client, err := s.apiClient(r.Context())
	if err != nil {
		writeAPIError(w, err)
		return
	}
	results, err := client.Profiles.SearchConnections(r.Context(), r.URL.Query().Get("keywords"), intQuery(r, "start", 0), intQuery(r, "count", 10))
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleSearchPeople(w http.ResponseWriter, r *http.Request) {
	keywords := r.URL.Query().Get("keywords")
	if keywords == "" {
		writeError(w, http.StatusBadRequest, "keywords query parameter is required")
		return
	}
	client, err := s.apiClient(r.Context())
	if err != nil {
		writeAPIError(w, err)
		return
	}
	results, err := client.Profiles.SearchByKeyword(r.Context(), keywords, intQuery(r, "start", 0), intQuery(r, "count", 10))
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

type createPostRequest struct {
	Text       string `json:"text"`
	Visibility string `json:"visibility"`

	// Optional article attachment.
	LinkURL         string `json:"link_url"`
	LinkTitle       string `json:"link_title"`
	LinkDescription string `json:"link_description"`
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	client, err := s.apiClient(r.Context())
	if err != nil {
		writeAPIError(w, err)
		return
	}

	opts := &linkedin.PostOptions{Visibility: req.Visibility}
	var result *linkedin.PostResult
	if req.LinkURL != "" {
		link := linkedin.Link{URL: req.LinkURL, Title: req.LinkTitle, Description: req.LinkDescription}
		result, err = client.Posts.CreateWithLink(r.Context(), req.Text, link, opts)
	} else {
		result, err = client.Posts.CreateText(r.Context(), req.Text, opts)
	}
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": result.ID, "post": result.Body})
}

type resharePostRequest struct {
	PostURN    string `json:"post_urn"`
	Text       string `json:"text"`
	Visibility string `json:"visibility"`
}

func (s *Server) handleResharePost(w http.ResponseWriter, r *http.Request) {
	var req resharePostRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PostURN == "" {
		writeError(w, http.StatusBadRequest, "post_urn is required")
		return
	}

	client, err := s.apiClient(r.Context())
	if err != nil {
		writeAPIError(w, err)
		return
	}
	result, err := client.Posts.Reshare(r.Context(), req.PostURN, req.Text, &linkedin.PostOptions{Visibility: req.Visibility})
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": result.ID, "post": result.Body})
}

func (s *Server) handleMyPosts(w http.ResponseWriter, r *http.Request) {
	client, err := s.apiClient(r.Context())
	if err != nil {
		writeAPIError(w, err)
		return
	}
	posts, err := client.Posts.Mine(r.Context(), intQuery(r, "count", 10), nil)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	client, err := s.apiClient(r.Context())
	if err != nil {
		writeAPIError(w, err)
		return
	}
	post, err := client.Posts.Get(r.Context(), r.PathValue("urn"))
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	client, err := s.apiClient(r.Context())
	if err != nil {
		writeAPIError(w, err)
		return
	}
	if _, err := client.Posts.Delete(r.Context(), r.PathValue("urn")); err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

type sendInvitationRequest struct {
	PersonID  string `json:"person_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Message   string `json:"message"`
}

func (s *Server) handleSendInvitation(w http.ResponseWriter, r *http.Request) {
	var req sendInvitationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PersonID == "" && req.Email == "" {
		writeError(w, http.StatusBadRequest, "person_id or email is required")
		return
	}

	client, err := s.apiClient(r.Context())
	if err != nil {
		writeAPIError(w, err)
		return
	}

	var result *linkedin.PostResult
	if req.PersonID != "" {
		result, err = client.Invitations.Send(r.Context(), req.PersonID, req.Message)
	} else {
		result, err = client.Invitations.SendByEmail(r.Context(), req.Email, req.FirstName, req.LastName, req.Message)
	}
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": result.ID, "invitation": result.Body})
}

func (s *Server) handleReceivedInvitations(w http.ResponseWriter, r *http.Request) {
	client, err := s.apiClient(r.Context())
	if err != nil {
		writeAPIError(w, err)
		return
	}
	invitations, err := client.Invitations.Received(r.Context(), intQuery(r, "start", 0), intQuery(r, "count", 10))
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invitations)
}

func (s *Server) handleSentInvitations(w http.ResponseWriter, r *http.Request) {
	client, err := s.apiClient(r.Context())
	if err != nil {
		writeAPIError(w, err)
		return
	}
	invitations, err := client.Invitations.Sent(r.Context(), intQuery(r, "start", 0), intQuery(r, "count", 10))
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invitations)
}

func (s *Server) invitationAction(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client, err := s.apiClient(r.Context())
		if err != nil {
			writeAPIError(w, err)
			return
		}

		urn := r.PathValue("urn")
		var result *linkedin.PostResult
		switch action {
		case "accept":
			result, err = client.Invitations.Accept(r.Context(), urn)
		case "ignore":
			result, err = client.Invitations.Ignore(r.Context(), urn)
		default:
			result, err = client.Invitations.Withdraw(r.Context(), urn)
		}
		if err != nil {
			writeAPIError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": result.ID, "result": result.Body})
	}
}

package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"linkmcp/internal/linkedin"
	"linkmcp/internal/oauth"
	"linkmcp/pkg/logging"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("HTTP", err, "Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

// writeAPIError maps the error taxonomy onto HTTP statuses: local
// precondition failures become 401 with the login hint, upstream LinkedIn
// errors keep their own status code and detail payload, provider token
// endpoint failures become 502, anything else 500.
func writeAPIError(w http.ResponseWriter, err error) {
	if oauth.IsPrecondition(err) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"error": err.Error(),
			"login": "/auth/login",
		})
		return
	}

	var apiErr *linkedin.APIError
	if errors.As(err, &apiErr) {
		writeJSON(w, apiErr.StatusCode, map[string]any{
			"error":   apiErr.Message,
			"details": apiErr.Details,
		})
		return
	}

	var providerErr *oauth.ProviderError
	if errors.As(err, &providerErr) {
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": providerErr.Error()})
		return
	}

	logging.Error("HTTP", err, "Unhandled error")
	writeError(w, http.StatusInternalServerError, "internal server error")
}

package oauth

import (
	"errors"
	"fmt"
)

// NotAuthenticatedError is a local precondition failure: an operation that
// needs a stored access token found none. It carries the concrete next
// action for the user.
type NotAuthenticatedError struct {
	// LoginPath is the entry point of the login flow.
	LoginPath string
}

func (e *NotAuthenticatedError) Error() string {
	path := e.LoginPath
	if path == "" {
		path = "/auth/login"
	}
	return fmt.Sprintf("not authenticated: visit %s to start the OAuth flow", path)
}

// ErrNoRefreshToken is a local precondition failure: a refresh was
// requested but no refresh token is stored. No network call is made.
var ErrNoRefreshToken = errors.New("no refresh token available, re-authenticate via the OAuth flow")

// ErrStateMismatch is returned when a callback presents a state value that
// is unknown, expired, or already consumed.
var ErrStateMismatch = errors.New("oauth state mismatch: unknown, expired, or reused state parameter")

// ProviderError is an upstream failure from the OAuth provider's token
// endpoint. It carries the HTTP status and the raw response body.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("token endpoint returned %d: %s", e.StatusCode, e.Body)
}

// IsPrecondition reports whether err is a local precondition failure
// (raised without any network call), as opposed to an upstream provider
// error. Surfaces use this to present "log in first" guidance instead of
// relaying a provider failure.
func IsPrecondition(err error) bool {
	var notAuth *NotAuthenticatedError
	return errors.As(err, &notAuth) ||
		errors.Is(err, ErrNoRefreshToken) ||
		errors.Is(err, ErrStateMismatch)
}

package oauth

import "time"

// DefaultExpiresIn is the access token lifetime assumed when the provider
// omits expires_in from a token response. LinkedIn tokens live 60 days.
const DefaultExpiresIn = 5184000

// tokenExpiryMargin is the margin used when checking token expiration.
// It accounts for clock skew and network latency.
const tokenExpiryMargin = 30 * time.Second

// TokenResponse is the provider's token endpoint response surfaced to
// callers of ExchangeCode and Refresh.
type TokenResponse struct {
	AccessToken string `json:"access_token"`

	// ExpiresIn is the access token lifetime in seconds. Defaulted to
	// DefaultExpiresIn when the provider omits it.
	ExpiresIn int64 `json:"expires_in"`

	RefreshToken          string `json:"refresh_token,omitempty"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in,omitempty"`
	Scope                 string `json:"scope,omitempty"`
}

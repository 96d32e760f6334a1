package store

import (
	"context"
	"time"
)

// Credential represents one user's OAuth grant. Records are always written
// wholesale: a reader never observes fields from two different grants.
type Credential struct {
	// UserID identifies the owning user. Empty in single-user deployments.
	UserID string `json:"user_id,omitempty"`

	// AccessToken is the opaque bearer token. A record with an empty
	// access token is equivalent to no record at all.
	AccessToken string `json:"access_token"`

	// RefreshToken is the opaque refresh token, if the provider issued one.
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the absolute access token expiry. Nil means the token
	// is treated as non-expiring.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	// RefreshTokenExpiresAt is the absolute refresh token expiry, if known.
	RefreshTokenExpiresAt *time.Time `json:"refresh_token_expires_at,omitempty"`

	// Scope is the granted scope string as returned by the provider.
	Scope string `json:"scope,omitempty"`

	// CreatedAt is when this record was stored.
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the access token is past its expiry, with the
// given margin for clock skew. Credentials without an expiry never expire.
func (c *Credential) Expired(margin time.Duration) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return time.Now().Add(margin).After(*c.ExpiresAt)
}

// Store is durable storage for Credential records. Implementations must
// treat a corrupted or missing backing medium as "no data" on reads rather
// than surfacing an error, so callers correctly report "not authenticated"
// instead of failing.
type Store interface {
	// Save durably persists the record, replacing any existing record for
	// the same user. The write is a whole-record replace.
	Save(ctx context.Context, cred *Credential) error

	// Load returns the record for the given user, or (nil, nil) if none
	// was ever stored or it was cleared.
	Load(ctx context.Context, userID string) (*Credential, error)

	// LoadMostRecent returns the record with the greatest CreatedAt, or
	// (nil, nil) when the store is empty. Ties are broken arbitrarily.
	LoadMostRecent(ctx context.Context) (*Credential, error)

	// Delete removes the record for the given user. Deleting a record
	// that does not exist is not an error.
	Delete(ctx context.Context, userID string) error

	// IsAuthenticated reports whether a record with a non-empty access
	// token exists for the given user. It does not check expiry.
	IsAuthenticated(ctx context.Context, userID string) bool
}

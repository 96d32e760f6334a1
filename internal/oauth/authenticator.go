package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"linkmcp/internal/config"
	"linkmcp/internal/store"
	"linkmcp/pkg/logging"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// Authenticator drives the 3-legged OAuth2 authorization-code flow against
// LinkedIn and owns the credential store. It is safe for concurrent use.
type Authenticator struct {
	oauthCfg   *oauth2.Config
	store      store.Store
	states     *StateStore
	httpClient *http.Client

	// userID keys the credential in the store. Empty in single-user mode.
	userID string

	// refreshGroup collapses concurrent refreshes for the same user so
	// racing callers cannot overwrite each other's stored credential.
	refreshGroup *singleflight.Group
}

// Option configures the Authenticator.
type Option func(*Authenticator)

// WithUserID keys all store operations by the given user identity.
// Without it the authenticator operates in single-user mode.
func WithUserID(userID string) Option {
	return func(a *Authenticator) {
		a.userID = userID
	}
}

// WithHTTPClient sets the HTTP client used for token endpoint calls.
// Primarily useful in tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(a *Authenticator) {
		a.httpClient = httpClient
	}
}

// NewAuthenticator builds an Authenticator from the application config, a
// credential store, and a state store. All collaborators are passed in
// explicitly; the package keeps no process-wide state.
func NewAuthenticator(cfg *config.Config, credStore store.Store, states *StateStore, opts ...Option) *Authenticator {
	a := &Authenticator{
		oauthCfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       cfg.ScopeList(),
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthorizationURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		store:        credStore,
		states:       states,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		refreshGroup: &singleflight.Group{},
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// ForUser returns a copy of the authenticator keyed to the given user.
// The copy shares the store, state store, and refresh coordination, so
// concurrent refreshes for the same user are still collapsed.
func (a *Authenticator) ForUser(userID string) *Authenticator {
	clone := *a
	clone.userID = userID
	return &clone
}

// AuthorizationURL generates a fresh state value and builds the provider
// authorization URL containing response_type=code, the client id, the
// redirect URI, the state, and the scope list.
func (a *Authenticator) AuthorizationURL() (string, error) {
	state, err := a.states.Generate()
	if err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return a.oauthCfg.AuthCodeURL(state), nil
}

// ConsumeState validates the state parameter returned by the provider
// callback. Each state is single-use; unknown, reused, or expired states
// yield ErrStateMismatch.
func (a *Authenticator) ConsumeState(state string) error {
	if !a.states.Consume(state) {
		return ErrStateMismatch
	}
	return nil
}

// ExchangeCode exchanges an authorization code for tokens and persists the
// resulting credential as a whole-record replace. On an upstream error the
// store is left untouched.
func (a *Authenticator) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	tok, err := a.oauthCfg.Exchange(a.withHTTPClient(ctx), code)
	if err != nil {
		return nil, providerError(err)
	}

	resp, err := a.storeToken(ctx, tok)
	if err != nil {
		return nil, err
	}

	logging.Info("OAuth", "Exchanged authorization code for user=%q (expires in %ds)", a.userID, resp.ExpiresIn)
	return resp, nil
}

// Refresh obtains a new access token using the stored refresh token.
// It fails with ErrNoRefreshToken, making no network call, when none is
// stored. When the provider response omits a refresh token, the existing
// one is carried over into the new credential. Concurrent refreshes for
// the same user are collapsed into a single token endpoint call.
func (a *Authenticator) Refresh(ctx context.Context) (*TokenResponse, error) {
	cred, err := a.store.Load(ctx, a.userID)
	if err != nil {
		return nil, err
	}
	if cred == nil || cred.RefreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	result, err, _ := a.refreshGroup.Do(a.userID, func() (interface{}, error) {
		src := a.oauthCfg.TokenSource(a.withHTTPClient(ctx), &oauth2.Token{
			RefreshToken: cred.RefreshToken,
		})
		tok, err := src.Token()
		if err != nil {
			return nil, providerError(err)
		}

		// golang.org/x/oauth2 substitutes the request's refresh token when
		// the provider response omits one, so rotation-less responses keep
		// the stored value.
		return a.storeToken(ctx, tok)
	})
	if err != nil {
		return nil, err
	}

	logging.Info("OAuth", "Refreshed access token for user=%q", a.userID)
	return result.(*TokenResponse), nil
}

// AccessToken returns the stored bearer token. An expired token with a
// stored refresh token triggers a transparent refresh; without one, or
// with no credential at all, it fails with NotAuthenticatedError.
func (a *Authenticator) AccessToken(ctx context.Context) (string, error) {
	cred, err := a.store.Load(ctx, a.userID)
	if err != nil {
		return "", err
	}
	if cred == nil || cred.AccessToken == "" {
		return "", &NotAuthenticatedError{LoginPath: "/auth/login"}
	}

	if !cred.Expired(tokenExpiryMargin) {
		return cred.AccessToken, nil
	}

	if cred.RefreshToken == "" {
		logging.Warn("OAuth", "Stored token for user=%q expired and no refresh token available", a.userID)
		return "", &NotAuthenticatedError{LoginPath: "/auth/login"}
	}

	logging.Debug("OAuth", "Stored token for user=%q expired, refreshing", a.userID)
	resp, err := a.Refresh(ctx)
	if err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// IsAuthenticated reports whether a credential with an access token is
// stored. It performs no network call and does not check expiry.
func (a *Authenticator) IsAuthenticated(ctx context.Context) bool {
	return a.store.IsAuthenticated(ctx, a.userID)
}

// Logout clears the stored credential. Always succeeds, even when no
// credential ever existed.
func (a *Authenticator) Logout(ctx context.Context) error {
	if err := a.store.Delete(ctx, a.userID); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	logging.Info("OAuth", "Logged out user=%q", a.userID)
	return nil
}

// storeToken persists the token as a whole credential record and returns
// the wire-shaped response.
func (a *Authenticator) storeToken(ctx context.Context, tok *oauth2.Token) (*TokenResponse, error) {
	now := time.Now().UTC()

	expiresAt := tok.Expiry
	if expiresAt.IsZero() {
		expiresAt = now.Add(DefaultExpiresIn * time.Second)
	}
	expiresIn := int64(time.Until(expiresAt).Round(time.Second).Seconds())

	resp := &TokenResponse{
		AccessToken:           tok.AccessToken,
		ExpiresIn:             expiresIn,
		RefreshToken:          tok.RefreshToken,
		RefreshTokenExpiresIn: extraInt64(tok, "refresh_token_expires_in"),
		Scope:                 extraString(tok, "scope"),
	}

	cred := &store.Credential{
		UserID:       a.userID,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    &expiresAt,
		Scope:        resp.Scope,
		CreatedAt:    now,
	}
	if resp.RefreshTokenExpiresIn > 0 {
		refreshExpiry := now.Add(time.Duration(resp.RefreshTokenExpiresIn) * time.Second)
		cred.RefreshTokenExpiresAt = &refreshExpiry
	}

	if err := a.store.Save(ctx, cred); err != nil {
		logging.Error("OAuth", err, "Failed to persist credential for user=%q", a.userID)
		return nil, fmt.Errorf("persist credential: %w", err)
	}
	return resp, nil
}

func (a *Authenticator) withHTTPClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
}

// providerError converts oauth2 retrieval failures into ProviderError,
// preserving the upstream status code and body. Transport failures pass
// through unchanged.
func providerError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		status := 0
		if retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		return &ProviderError{StatusCode: status, Body: string(retrieveErr.Body)}
	}
	return err
}

func extraInt64(tok *oauth2.Token, key string) int64 {
	switch v := tok.Extra(key).(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}

func extraString(tok *oauth2.Token, key string) string {
	if v, ok := tok.Extra(key).(string); ok {
		return v
	}
	return ""
}

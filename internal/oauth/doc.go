// Package oauth implements the 3-legged OAuth2 authorization-code flow
// against LinkedIn and owns the credential lifecycle.
//
// # Flow
//
//  1. AuthorizationURL generates a single-use state value and builds the
//     provider authorization URL the user is redirected to.
//  2. The provider redirects back with a code and the state. ConsumeState
//     rejects unknown, reused, or expired states; ExchangeCode then trades
//     the code for tokens and persists them as one credential record.
//  3. AccessToken returns the stored bearer token, transparently
//     refreshing it when expired and a refresh token is available.
//
// # Error taxonomy
//
// Local precondition failures (NotAuthenticatedError, ErrNoRefreshToken,
// ErrStateMismatch) are raised without any network call and carry the next
// action for the user. Upstream failures from the provider's token
// endpoint are surfaced as ProviderError with status code and body; they
// are never retried here, and a failed exchange or refresh leaves the
// stored credential untouched.
package oauth

// Package linkedin is the authenticated dispatcher for the LinkedIn REST
// API plus the resource operations built on it (profiles, posts,
// connection invitations).
//
// The Client is constructed per access token and handles the fixed header
// set (bearer authorization, REST-li protocol version, LinkedIn-Version,
// JSON content type), URN percent-encoding, uniform error handling, and
// pagination parameters. Any response with status >= 400 surfaces as an
// *APIError carrying the status code and the upstream error body; no
// retries are performed.
package linkedin

// Package app bootstraps the application: it loads configuration, opens
// the credential store, wires the OAuth authenticator, and runs either
// the HTTP REST server or the stdio MCP server. All collaborators are
// constructed here and passed down explicitly.
package app

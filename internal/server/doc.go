// Package server exposes the OAuth login flow and the LinkedIn resource
// operations as an HTTP REST API.
//
// Routes fall into three groups: the landing page and health check, the
// /auth/* flow (login redirect, provider callback with state validation,
// status, logout), and the /api/* resource endpoints that proxy to the
// LinkedIn REST API using the stored credential. Upstream API errors keep
// their status code; missing or expired credentials map to 401 with a
// pointer to /auth/login.
package server

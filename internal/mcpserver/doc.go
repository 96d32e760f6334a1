// Package mcpserver exposes the LinkedIn resource operations as MCP tools
// over stdio transport, so AI assistants can check authentication, read
// profiles and connections, publish posts, and manage connection
// invitations through the standard MCP protocol.
//
// Tool results are pretty-printed JSON text. Errors are structured JSON
// distinguishing missing authentication (kind "not_authenticated") from
// upstream LinkedIn API failures (kind "linkedin_api" with the upstream
// status code).
package mcpserver

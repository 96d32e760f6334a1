package mcpserver

import (
	"encoding/json"
	"errors"
	"fmt"

	"linkmcp/internal/linkedin"
	"linkmcp/internal/oauth"

	"github.com/mark3labs/mcp-go/mcp"
)

// jsonResult renders a successful tool result as pretty-printed JSON text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// toolError renders an error as a structured JSON tool error. Local
// precondition failures (no stored credential) are distinguished from
// upstream LinkedIn API failures so assistants can react appropriately.
func toolError(err error) (*mcp.CallToolResult, error) {
	payload := map[string]any{"error": err.Error()}

	var apiErr *linkedin.APIError
	switch {
	case oauth.IsPrecondition(err):
		payload["kind"] = "not_authenticated"
		payload["hint"] = "Call linkedin_get_auth_url and complete the login flow in a browser"
	case errors.As(err, &apiErr):
		payload["kind"] = "linkedin_api"
		payload["status"] = apiErr.StatusCode
		if apiErr.Details != nil {
			payload["details"] = apiErr.Details
		}
	default:
		payload["kind"] = "internal"
	}

	data, marshalErr := json.Marshal(payload)
	if marshalErr != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultError(string(data)), nil
}

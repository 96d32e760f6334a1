package mcpserver

import (
	"context"

	"linkmcp/internal/linkedin"

	"github.com/mark3labs/mcp-go/mcp"
)

func (m *MCPServer) handleAuthStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]any{
		"authenticated": m.auth.IsAuthenticated(ctx),
	})
}

func (m *MCPServer) handleGetAuthURL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	authURL, err := m.auth.AuthorizationURL()
	if err != nil {
		return toolError(err)
	}
	return jsonResult(map[string]any{
		"auth_url":     authURL,
		"instructions": "Open this URL in a browser and complete the LinkedIn login",
	})
}

func (m *MCPServer) handleGetMyProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, err := m.apiClient(ctx)
	if err != nil {
		return toolError(err)
	}
	profile, err := client.Profiles.Me(ctx)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(profile)
}

func (m *MCPServer) handleGetMyProfileDetails(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, err := m.apiClient(ctx)
	if err != nil {
		return toolError(err)
	}
	details, err := client.Profiles.MeDetails(ctx)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(details)
}

func (m *MCPServer) handleGetProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	personID, err := request.RequireString("person_id")
	if err != nil {
		return mcp.NewToolResultError("person_id argument is required"), nil
	}

	client, err := m.apiClient(ctx)
	if err != nil {
		return toolError(err)
	}
	profile, err := client.Profiles.ByID(ctx, personID)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(profile)
}

func (m *MCPServer) handleGetConnections(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, err := m.apiClient(ctx)
	if err != nil {
		return toolError(err)
	}
	connections, err := client.Profiles.Connections(ctx, request.GetInt("start", 0), request.GetInt("count", 10))
	if err != nil {
		return toolError(err)
	}
	return jsonResult(connections)
}

func (m *MCPServer) handleSearchPeople(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keywords, err := request.RequireString("keywords")
	if err != nil {
		return mcp.NewToolResultError("keywords argument is required"), nil
	}

	client, err := m.apiClient(ctx)
	if err != nil {
		return toolError(err)
	}
	results, err := client.Profiles.SearchByKeyword(ctx, keywords, request.GetInt("start", 0), request.GetInt("count", 10))
	if err != nil {
		return toolError(err)
	}
	return jsonResult(results)
}

func (m *MCPServer) handleSearchConnections(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, err := m.apiClient(ctx)
	if err != nil {
		return toolError(err)
	}
	results, err := client.Profiles.SearchConnections(ctx, request.GetString("keywords", ""), request.GetInt("start", 0), request.GetInt("count", 10))
	if err != nil {
		return toolError(err)
	}
	return jsonResult(results)
}

func postResultJSON(result *linkedin.PostResult) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]any{
		"id":   result.ID,
		"post": result.Body,
	})
}

func (m *MCPServer) handleCreatePost(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required"), nil
	}

	client, err := m.apiClient(ctx)
	if err != nil {
		return toolError(err)
	}
	opts := &linkedin.PostOptions{Visibility: request.GetString("visibility", "")}
	result, err := client.Posts.CreateText(ctx, text, opts)
	if err != nil {
		return toolError(err)
	}
	return postResultJSON(result)
}

func (m *MCPServer) handleCreateLinkPost(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required"), nil
	}
	linkURL, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url argument is required"), nil
	}

	client, err := m.apiClient(ctx)
	if err != nil {
		return toolError(err)
	}
	link := linkedin.Link{
		URL:         linkURL,
		Title:       request.GetString("title", ""),
		Description: request.GetString("description", ""),
	}
	opts := &linkedin.PostOptions{Visibility: request.GetString("visibility", "")}
	result, err := client.Posts.CreateWithLink(ctx, text, link, opts)
	if err != nil {
		return toolError(err)
	}
	return postResultJSON(result)
}

func (m *MCPServer) handleCreateImagePost(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required"), nil
	}
	imagePath, err := request.RequireString("image_path")
	if err != nil {
		return mcp.NewToolResultError("image_path argument is required"), nil
	}

	client, err := m.apiClient(ctx)
	if err != nil {
		return toolError(err)
	}
	opts := &linkedin.PostOptions{Visibility: request.GetString("visibility", "")}
	result, err := client.Posts.CreateWithImage(ctx, text, imagePath, request.GetString("alt_text", ""), opts)
	if err != nil {
		return toolError(err)
	}
	return postResultJSON(result)
}

func (m *MCPServer) handleResharePost(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	postURN, err := request.RequireString("post_urn")
	if err != nil {
		return mcp.NewToolResultError("post_urn argument is required"), nil
	}

	client, err := m.apiClient(ctx)
	if err != nil {
		return toolError(err)
	}
	opts := &linkedin.PostOptions{Visibility: request.GetString("visibility", "")}
	result, err := client.Posts.Reshare(ctx, postURN, request.GetString("text", ""), opts)
	if err != nil {
		return toolError(err)
	}
	return postResultJSON(result)
}

func (m *MCPServer) handleGetPost(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	postURN, err := request.RequireString("post_urn")
	if err != nil {
		return mcp.NewToolResultError("post_urn argument is required"), nil
	}

	client, err := m.apiClient(ctx)
	if err != nil {
		return toolError(err)
	}
	post, err := client.Posts.Get(ctx, postURN)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(post)
}

func (m *MCPServer) handleGetMyPosts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, err := m.apiClient(ctx)
	if err != nil {
		return toolError(err)
	}
	posts, err := client.Posts.Mine(ctx, request.GetInt("count", 10), nil)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(posts)
}

func (m *MCPServer) handleDeletePost(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	postURN, err := request.RequireString("post_urn")
	if err != nil {
		return mcp.NewToolResultError("post_urn argument is required"), nil
	}

	client, err := m.apiClient(ctx)
	if err != nil {
		return toolError(err)
	}
	if _, err := client.Posts.Delete(ctx, postURN); err != nil {
		return toolError(err)
	}
	return jsonResult(map[string]any{"deleted": true, "post_urn": postURN})
}

func (m *MCPServer) handleSendInvitation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	personID, err := request.RequireString("person_id")
	if err != nil {
		return mcp.NewToolResultError("person_id argument is required"), nil
	}

	client, err := m.apiClient(ctx)
	if err != nil {
		return toolError(err)
	}
	result, err := client.Invitations.Send(ctx, personID, request.GetString("message", ""))
	if err != nil {
		return toolError(err)
	}
	return jsonResult(map[string]any{"id": result.ID, "invitation": result.Body})
}

func (m *MCPServer) handleSendInvitationByEmail(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	email, err := request.RequireString("email")
	if err != nil {
		return mcp.NewToolResultError("email argument is required"), nil
	}

	client, err := m.apiClient(ctx)
	if err != nil {
		return toolError(err)
	}
	result, err := client.Invitations.SendByEmail(ctx, email,
		request.GetString("first_name", ""),
		request.GetString("last_name", ""),
		request.GetString("message", ""))
	if err != nil {
		return toolError(err)
	}
	return jsonResult(map[string]any{"id": result.ID, "invitation": result.Body})
}

func (m *MCPServer) handleGetReceivedInvitations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, err := m.apiClient(ctx)
	if err != nil {
		return toolError(err)
	}
	invitations, err := client.Invitations.Received(ctx, request.GetInt("start", 0), request.GetInt("count", 10))
	if err != nil {
		return toolError(err)
	}
	return jsonResult(invitations)
}

func (m *MCPServer) handleGetSentInvitations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, err := m.apiClient(ctx)
	if err != nil {
		return toolError(err)
	}
	invitations, err := client.Invitations.Sent(ctx, request.GetInt("start", 0), request.GetInt("count", 10))
	if err != nil {
		return toolError(err)
	}
	return jsonResult(invitations)
}

func (m *MCPServer) handleAcceptInvitation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.invitationAction(ctx, request, "accept")
}

func (m *MCPServer) handleIgnoreInvitation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.invitationAction(ctx, request, "ignore")
}

func (m *MCPServer) handleWithdrawInvitation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.invitationAction(ctx, request, "withdraw")
}

func (m *MCPServer) invitationAction(ctx context.Context, request mcp.CallToolRequest, action string) (*mcp.CallToolResult, error) {
	urn, err := request.RequireString("invitation_urn")
	if err != nil {
		return mcp.NewToolResultError("invitation_urn argument is required"), nil
	}

	client, err := m.apiClient(ctx)
	if err != nil {
		return toolError(err)
	}

	var result *linkedin.PostResult
	switch action {
	case "accept":
		result, err = client.Invitations.Accept(ctx, urn)
	case "ignore":
		result, err = client.Invitations.Ignore(ctx, urn)
	default:
		result, err = client.Invitations.Withdraw(ctx, urn)
	}
	if err != nil {
		return toolError(err)
	}
	return jsonResult(map[string]any{"id": result.ID, "result": result.Body})
}

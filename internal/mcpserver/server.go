package mcpserver

import (
	"context"

	"linkmcp/internal/config"
	"linkmcp/internal/linkedin"
	"linkmcp/internal/oauth"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer exposes the LinkedIn resource operations as MCP tools over
// stdio, so AI assistants can read profiles, publish posts, and manage
// invitations through the standard MCP protocol.
type MCPServer struct {
	cfg       *config.Config
	auth      *oauth.Authenticator
	mcpServer *server.MCPServer
}

// NewMCPServer creates the MCP server and registers all LinkedIn tools.
func NewMCPServer(cfg *config.Config, auth *oauth.Authenticator, version string) *MCPServer {
	mcpServer := server.NewMCPServer(
		"linkmcp",
		version,
		server.WithToolCapabilities(false),
	)

	m := &MCPServer{
		cfg:       cfg,
		auth:      auth,
		mcpServer: mcpServer,
	}
	m.registerTools()

	return m
}

// Start serves the MCP protocol over stdio. It blocks until the client
// closes the connection.
func (m *MCPServer) Start(ctx context.Context) error {
	return server.ServeStdio(m.mcpServer)
}

// apiClient resolves the current access token (refreshing transparently
// when expired) and builds a LinkedIn client around it.
func (m *MCPServer) apiClient(ctx context.Context) (*linkedin.Client, error) {
	token, err := m.auth.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	return linkedin.NewClient(m.cfg, token), nil
}

func (m *MCPServer) registerTools() {
	m.registerAuthTools()
	m.registerProfileTools()
	m.registerPostTools()
	m.registerInvitationTools()
}

func (m *MCPServer) registerAuthTools() {
	m.mcpServer.AddTool(mcp.NewTool("linkedin_auth_status",
		mcp.WithDescription("Check whether a LinkedIn credential is stored"),
	), m.handleAuthStatus)

	m.mcpServer.AddTool(mcp.NewTool("linkedin_get_auth_url",
		mcp.WithDescription("Get the LinkedIn OAuth authorization URL to open in a browser"),
	), m.handleGetAuthURL)
}

func (m *MCPServer) registerProfileTools() {
	m.mcpServer.AddTool(mcp.NewTool("linkedin_get_my_profile",
		mcp.WithDescription("Get the authenticated user's profile (name, email, picture)"),
	), m.handleGetMyProfile)

	m.mcpServer.AddTool(mcp.NewTool("linkedin_get_my_profile_details",
		mcp.WithDescription("Get the authenticated user's detailed profile including the member id"),
	), m.handleGetMyProfileDetails)

	m.mcpServer.AddTool(mcp.NewTool("linkedin_get_profile",
		mcp.WithDescription("Get a LinkedIn profile by person id"),
		mcp.WithString("person_id",
			mcp.Required(),
			mcp.Description("The person id (the id part of urn:li:person:{id})"),
		),
	), m.handleGetProfile)

	m.mcpServer.AddTool(mcp.NewTool("linkedin_get_connections",
		mcp.WithDescription("List the authenticated user's 1st-degree connections"),
		mcp.WithNumber("start",
			mcp.Description("Pagination offset (default 0)"),
		),
		mcp.WithNumber("count",
			mcp.Description("Page size, capped at 50 (default 10)"),
		),
	), m.handleGetConnections)

	m.mcpServer.AddTool(mcp.NewTool("linkedin_search_people",
		mcp.WithDescription("Search for people by keywords"),
		mcp.WithString("keywords",
			mcp.Required(),
			mcp.Description("Search keywords"),
		),
		mcp.WithNumber("start",
			mcp.Description("Pagination offset (default 0)"),
		),
		mcp.WithNumber("count",
			mcp.Description("Page size, capped at 50 (default 10)"),
		),
	), m.handleSearchPeople)

	m.mcpServer.AddTool(mcp.NewTool("linkedin_search_connections",
		mcp.WithDescription("Browse 1st-degree connections with an optional keyword filter"),
		mcp.WithString("keywords",
			mcp.Description("Optional keyword filter"),
		),
		mcp.WithNumber("start",
			mcp.Description("Pagination offset (default 0)"),
		),
		mcp.WithNumber("count",
			mcp.Description("Page size, capped at 50 (default 10)"),
		),
	), m.handleSearchConnections)
}

func (m *MCPServer) registerPostTools() {
	m.mcpServer.AddTool(mcp.NewTool("linkedin_create_post",
		mcp.WithDescription("Publish a text post. Supports hashtags and @[Name](urn:li:person:{id}) mentions"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The post text"),
		),
		mcp.WithString("visibility",
			mcp.Description("PUBLIC, CONNECTIONS, or LOGGED_IN (default PUBLIC)"),
		),
	), m.handleCreatePost)

	m.mcpServer.AddTool(mcp.NewTool("linkedin_create_link_post",
		mcp.WithDescription("Publish a post with an article/link attachment"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The post text"),
		),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The article URL"),
		),
		mcp.WithString("title",
			mcp.Description("Optional article title"),
		),
		mcp.WithString("description",
			mcp.Description("Optional article description"),
		),
		mcp.WithString("visibility",
			mcp.Description("PUBLIC, CONNECTIONS, or LOGGED_IN (default PUBLIC)"),
		),
	), m.handleCreateLinkPost)

	m.mcpServer.AddTool(mcp.NewTool("linkedin_create_image_post",
		mcp.WithDescription("Publish a post with an image attachment from a local file"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The post text"),
		),
		mcp.WithString("image_path",
			mcp.Required(),
			mcp.Description("Path to the image file on disk"),
		),
		mcp.WithString("alt_text",
			mcp.Description("Accessibility alt text for the image"),
		),
		mcp.WithString("visibility",
			mcp.Description("PUBLIC, CONNECTIONS, or LOGGED_IN (default PUBLIC)"),
		),
	), m.handleCreateImagePost)

	m.mcpServer.AddTool(mcp.NewTool("linkedin_reshare_post",
		mcp.WithDescription("Reshare an existing post with optional commentary"),
		mcp.WithString("post_urn",
			mcp.Required(),
			mcp.Description("URN of the post to reshare (urn:li:share:{id} or urn:li:ugcPost:{id})"),
		),
		mcp.WithString("text",
			mcp.Description("Optional commentary"),
		),
		mcp.WithString("visibility",
			mcp.Description("PUBLIC, CONNECTIONS, or LOGGED_IN (default PUBLIC)"),
		),
	), m.handleResharePost)

	m.mcpServer.AddTool(mcp.NewTool("linkedin_get_post",
		mcp.WithDescription("Get a post by its URN"),
		mcp.WithString("post_urn",
			mcp.Required(),
			mcp.Description("URN of the post"),
		),
	), m.handleGetPost)

	m.mcpServer.AddTool(mcp.NewTool("linkedin_get_my_posts",
		mcp.WithDescription("List the authenticated user's posts, newest modifications first"),
		mcp.WithNumber("count",
			mcp.Description("Number of posts to return (default 10)"),
		),
	), m.handleGetMyPosts)

	m.mcpServer.AddTool(mcp.NewTool("linkedin_delete_post",
		mcp.WithDescription("Delete a post by its URN"),
		mcp.WithString("post_urn",
			mcp.Required(),
			mcp.Description("URN of the post to delete"),
		),
	), m.handleDeletePost)
}

func (m *MCPServer) registerInvitationTools() {
	m.mcpServer.AddTool(mcp.NewTool("linkedin_send_invitation",
		mcp.WithDescription("Send a connection invitation to a member by person id"),
		mcp.WithString("person_id",
			mcp.Required(),
			mcp.Description("The person id of the member to invite"),
		),
		mcp.WithString("message",
			mcp.Description("Optional personalized message (max 300 characters)"),
		),
	), m.handleSendInvitation)

	m.mcpServer.AddTool(mcp.NewTool("linkedin_send_invitation_by_email",
		mcp.WithDescription("Send a connection invitation using an email address"),
		mcp.WithString("email",
			mcp.Required(),
			mcp.Description("Email address of the member to invite"),
		),
		mcp.WithString("first_name",
			mcp.Description("Optional first name"),
		),
		mcp.WithString("last_name",
			mcp.Description("Optional last name"),
		),
		mcp.WithString("message",
			mcp.Description("Optional personalized message (max 300 characters)"),
		),
	), m.handleSendInvitationByEmail)

	m.mcpServer.AddTool(mcp.NewTool("linkedin_get_received_invitations",
		mcp.WithDescription("List pending received connection invitations"),
		mcp.WithNumber("start",
			mcp.Description("Pagination offset (default 0)"),
		),
		mcp.WithNumber("count",
			mcp.Description("Page size, capped at 50 (default 10)"),
		),
	), m.handleGetReceivedInvitations)

	m.mcpServer.AddTool(mcp.NewTool("linkedin_get_sent_invitations",
		mcp.WithDescription("List sent connection invitations and their status"),
		mcp.WithNumber("start",
			mcp.Description("Pagination offset (default 0)"),
		),
		mcp.WithNumber("count",
			mcp.Description("Page size, capped at 50 (default 10)"),
		),
	), m.handleGetSentInvitations)

	m.mcpServer.AddTool(mcp.NewTool("linkedin_accept_invitation",
		mcp.WithDescription("Accept a received connection invitation"),
		mcp.WithString("invitation_urn",
			mcp.Required(),
			mcp.Description("URN of the invitation (urn:li:invitation:{id})"),
		),
	), m.handleAcceptInvitation)

	m.mcpServer.AddTool(mcp.NewTool("linkedin_ignore_invitation",
		mcp.WithDescription("Ignore a received connection invitation"),
		mcp.WithString("invitation_urn",
			mcp.Required(),
			mcp.Description("URN of the invitation to ignore"),
		),
	), m.handleIgnoreInvitation)

	m.mcpServer.AddTool(mcp.NewTool("linkedin_withdraw_invitation",
		mcp.WithDescription("Withdraw a sent connection invitation"),
		mcp.WithString("invitation_urn",
			mcp.Required(),
			mcp.Description("URN of the invitation to withdraw"),
		),
	), m.handleWithdrawInvitation)
}

package linkedin

import (
	"context"
	"net/url"
	"strconv"
)

// maxInvitationMessage is the LinkedIn limit for invitation messages.
const maxInvitationMessage = 300

// InvitationsService provides connection invitation operations.
type InvitationsService struct {
	client *Client
}

// Send sends a connection invitation to a member by person id, with an
// optional personalized message (truncated to 300 characters; omitted
// entirely when empty).
func (s *InvitationsService) Send(ctx context.Context, personID, message string) (*PostResult, error) {
	body := map[string]any{
		"invitee": "urn:li:person:" + personID,
	}
	if message != "" {
		body["message"] = map[string]any{"text": truncateMessage(message)}
	}
	return s.client.Post(ctx, "/v2/invitations", body, nil)
}

// SendByEmail sends a connection invitation using an email address, for
// members whose LinkedIn id is unknown.
func (s *InvitationsService) SendByEmail(ctx context.Context, email, firstName, lastName, message string) (*PostResult, error) {
	body := map[string]any{
		"invitee": map[string]any{
			"com.linkedin.voyager.growth.invitation.InviteeProfile": map[string]any{
				"profileId": email,
			},
		},
	}
	if message != "" {
		body["message"] = map[string]any{"text": truncateMessage(message)}
	}
	return s.client.Post(ctx, "/v2/invitations", body, nil)
}

// Received returns pending received invitations, paginated (count capped
// at 50).
func (s *InvitationsService) Received(ctx context.Context, start, count int) (map[string]any, error) {
	return s.list(ctx, "received", start, count)
}

// Sent returns sent invitations with their status, paginated (count
// capped at 50).
func (s *InvitationsService) Sent(ctx context.Context, start, count int) (map[string]any, error) {
	return s.list(ctx, "sent", start, count)
}

func (s *InvitationsService) list(ctx context.Context, q string, start, count int) (map[string]any, error) {
	return s.client.Get(ctx, "/v2/invitations", url.Values{
		"q":     {q},
		"start": {strconv.Itoa(start)},
		"count": {strconv.Itoa(capCount(count))},
	})
}

// Accept accepts a received invitation by URN (urn:li:invitation:{id}).
func (s *InvitationsService) Accept(ctx context.Context, invitationURN string) (*PostResult, error) {
	return s.action(ctx, invitationURN, "accept")
}

// Ignore rejects a received invitation by URN.
func (s *InvitationsService) Ignore(ctx context.Context, invitationURN string) (*PostResult, error) {
	return s.action(ctx, invitationURN, "ignore")
}

// Withdraw withdraws a sent invitation that has not been accepted yet.
func (s *InvitationsService) Withdraw(ctx context.Context, invitationURN string) (*PostResult, error) {
	return s.action(ctx, invitationURN, "withdraw")
}

func (s *InvitationsService) action(ctx context.Context, invitationURN, action string) (*PostResult, error) {
	encoded := s.client.EncodeURN(invitationURN)
	return s.client.Post(ctx, "/v2/invitations/"+encoded+"?action="+action, map[string]any{}, nil)
}

// truncateMessage caps the message at maxInvitationMessage characters.
// The limit counts runes, not bytes, so multibyte text is never cut
// mid-rune.
func truncateMessage(message string) string {
	runes := []rune(message)
	if len(runes) > maxInvitationMessage {
		return string(runes[:maxInvitationMessage])
	}
	return message
}

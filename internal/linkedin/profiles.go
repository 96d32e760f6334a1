package linkedin

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// maxPageSize is the LinkedIn maximum for paginated collection reads.
const maxPageSize = 50

// ProfilesService provides profile search and retrieval operations.
type ProfilesService struct {
	client *Client
}

// Me returns the authenticated user's profile from the OpenID Connect
// userinfo endpoint: name, email, picture, and locale.
func (s *ProfilesService) Me(ctx context.Context) (map[string]any, error) {
	return s.client.Get(ctx, "/v2/userinfo", nil)
}

// MeDetails returns the authenticated user's detailed profile from /v2/me:
// localized names, member id, and profile picture data.
func (s *ProfilesService) MeDetails(ctx context.Context) (map[string]any, error) {
	return s.client.Get(ctx, "/v2/me", nil)
}

// ByID returns a profile by person id (the id part of urn:li:person:{id}).
func (s *ProfilesService) ByID(ctx context.Context, personID string) (map[string]any, error) {
	path := fmt.Sprintf("/rest/people/(id:%s)", personID)
	return s.client.Get(ctx, path, nil)
}

// Connections returns the authenticated user's 1st-degree connections,
// paginated. count is capped at the LinkedIn maximum of 50.
func (s *ProfilesService) Connections(ctx context.Context, start, count int) (map[string]any, error) {
	return s.client.Get(ctx, "/v2/connections", url.Values{
		"q":     {"viewer"},
		"start": {strconv.Itoa(start)},
		"count": {strconv.Itoa(capCount(count))},
	})
}

// SearchByKeyword searches for people using keywords via the Community
// Management API. Requires the r_member_social scope.
func (s *ProfilesService) SearchByKeyword(ctx context.Context, keywords string, start, count int) (map[string]any, error) {
	return s.client.Get(ctx, "/rest/people", url.Values{
		"q":       {"keyword"},
		"keyword": {keywords},
		"start":   {strconv.Itoa(start)},
		"count":   {strconv.Itoa(capCount(count))},
	})
}

// SearchConnections browses 1st-degree connections with an optional
// keyword filter.
func (s *ProfilesService) SearchConnections(ctx context.Context, keywords string, start, count int) (map[string]any, error) {
	params := url.Values{
		"q":     {"viewer"},
		"start": {strconv.Itoa(start)},
		"count": {strconv.Itoa(capCount(count))},
	}
	if keywords != "" {
		params.Set("keywords", keywords)
	}
	return s.client.Get(ctx, "/v2/connections", params)
}

// NetworkInfo returns network size information for the authenticated user.
func (s *ProfilesService) NetworkInfo(ctx context.Context) (map[string]any, error) {
	personID, err := s.client.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	urn := s.client.EncodeURN("urn:li:person:" + personID)
	return s.client.Get(ctx, "/v2/networkSizes/"+urn, url.Values{
		"edgeType": {"CompanyFollowedByMember"},
	})
}

func capCount(count int) int {
	if count > maxPageSize {
		return maxPageSize
	}
	return count
}

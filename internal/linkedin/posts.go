package linkedin

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
)

// PostsService provides post publishing and management operations.
type PostsService struct {
	client *Client
}

// PostOptions are the shared options for post creation calls.
type PostOptions struct {
	// Visibility is PUBLIC, CONNECTIONS, or LOGGED_IN. Defaults to PUBLIC.
	Visibility string

	// AuthorURN identifies the post author (urn:li:person:{id}). When
	// empty, the authenticated user is used.
	AuthorURN string
}

func (o *PostOptions) visibility() string {
	if o == nil || o.Visibility == "" {
		return "PUBLIC"
	}
	return o.Visibility
}

// resolveAuthor returns the author URN, defaulting to the current user.
func (s *PostsService) resolveAuthor(ctx context.Context, opts *PostOptions) (string, error) {
	if opts != nil && opts.AuthorURN != "" {
		return opts.AuthorURN, nil
	}
	personID, err := s.client.CurrentUserID(ctx)
	if err != nil {
		return "", err
	}
	return "urn:li:person:" + personID, nil
}

func basePostBody(author, commentary, visibility string) map[string]any {
	return map[string]any{
		"author":     author,
		"commentary": commentary,
		"visibility": visibility,
		"distribution": map[string]any{
			"feedDistribution":               "MAIN_FEED",
			"targetEntities":                 []any{},
			"thirdPartyDistributionChannels": []any{},
		},
		"lifecycleState":            "PUBLISHED",
		"isReshareDisabledByAuthor": false,
	}
}

// CreateText publishes a text-only post. The text supports hashtags and
// @[Name](urn:li:person:{id}) mentions.
func (s *PostsService) CreateText(ctx context.Context, text string, opts *PostOptions) (*PostResult, error) {
	author, err := s.resolveAuthor(ctx, opts)
	if err != nil {
		return nil, err
	}
	body := basePostBody(author, text, opts.visibility())
	return s.client.Post(ctx, "/rest/posts", body, nil)
}

// Link describes an article attachment for CreateWithLink.
type Link struct {
	URL         string
	Title       string
	Description string
}

// CreateWithLink publishes a post with an article/link attachment.
func (s *PostsService) CreateWithLink(ctx context.Context, text string, link Link, opts *PostOptions) (*PostResult, error) {
	author, err := s.resolveAuthor(ctx, opts)
	if err != nil {
		return nil, err
	}

	article := map[string]any{"source": link.URL}
	if link.Title != "" {
		article["title"] = link.Title
	}
	if link.Description != "" {
		article["description"] = link.Description
	}

	body := basePostBody(author, text, opts.visibility())
	body["content"] = map[string]any{"article": article}
	return s.client.Post(ctx, "/rest/posts", body, nil)
}

// CreateWithImage publishes a post with an image attachment. Three steps:
// initialize the upload to obtain an upload URL and image URN, PUT the
// image bytes, then create the post referencing the image URN.
func (s *PostsService) CreateWithImage(ctx context.Context, text, imagePath, altText string, opts *PostOptions) (*PostResult, error) {
	author, err := s.resolveAuthor(ctx, opts)
	if err != nil {
		return nil, err
	}

	initBody := map[string]any{
		"initializeUploadRequest": map[string]any{"owner": author},
	}
	initResp, err := s.client.Post(ctx, "/rest/images?action=initializeUpload", initBody, nil)
	if err != nil {
		return nil, err
	}
	value, ok := initResp.Body["value"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("initializeUpload response missing value")
	}
	uploadURL, _ := value["uploadUrl"].(string)
	imageURN, _ := value["image"].(string)
	if uploadURL == "" || imageURN == "" {
		return nil, fmt.Errorf("initializeUpload response missing uploadUrl or image")
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", imagePath, err)
	}
	if err := s.client.upload(ctx, uploadURL, data); err != nil {
		return nil, err
	}

	body := basePostBody(author, text, opts.visibility())
	body["content"] = map[string]any{
		"media": map[string]any{
			"altText": altText,
			"id":      imageURN,
		},
	}
	return s.client.Post(ctx, "/rest/posts", body, nil)
}

// Reshare publishes a reshare of an existing post with optional commentary.
func (s *PostsService) Reshare(ctx context.Context, originalPostURN, text string, opts *PostOptions) (*PostResult, error) {
	author, err := s.resolveAuthor(ctx, opts)
	if err != nil {
		return nil, err
	}

	body := basePostBody(author, text, opts.visibility())
	delete(body, "isReshareDisabledByAuthor")
	body["reshareContext"] = map[string]any{"parent": originalPostURN}
	return s.client.Post(ctx, "/rest/posts", body, nil)
}

// Get returns a post by its URN (urn:li:share:{id} or urn:li:ugcPost:{id}).
func (s *PostsService) Get(ctx context.Context, postURN string) (map[string]any, error) {
	encoded := s.client.EncodeURN(postURN)
	return s.client.Get(ctx, "/rest/posts/"+encoded, url.Values{
		"viewContext": {"AUTHOR"},
	})
}

// Mine returns posts authored by the authenticated user (or the given
// author), newest modifications first.
func (s *PostsService) Mine(ctx context.Context, count int, opts *PostOptions) (map[string]any, error) {
	author, err := s.resolveAuthor(ctx, opts)
	if err != nil {
		return nil, err
	}

	return s.client.Get(ctx, "/rest/posts", url.Values{
		"q":      {"author"},
		"author": {s.client.EncodeURN(author)},
		"count":  {strconv.Itoa(count)},
		"sortBy": {"LAST_MODIFIED"},
	})
}

// Delete removes a post by its URN.
func (s *PostsService) Delete(ctx context.Context, postURN string) (bool, error) {
	encoded := s.client.EncodeURN(postURN)
	return s.client.Delete(ctx, "/rest/posts/"+encoded)
}

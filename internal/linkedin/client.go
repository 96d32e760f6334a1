package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"linkmcp/internal/config"
	"linkmcp/pkg/logging"
)

const (
	// restliProtocolVersion is sent on every request.
	restliProtocolVersion = "2.0.0"

	// RestliIDKey is the reserved key under which the x-restli-id header
	// value is merged into POST results.
	RestliIDKey = "_restli_id"

	// requestTimeout bounds JSON API calls; uploadTimeout bounds binary
	// upload calls, which move more data.
	requestTimeout = 30 * time.Second
	uploadTimeout  = 60 * time.Second
)

// Client is the authenticated dispatcher for the LinkedIn REST API. It is
// constructed per access token and holds no mutable state across calls.
//
// Resource operations are grouped on service fields:
//
//	client.Profiles.Me(ctx)
//	client.Posts.CreateText(ctx, ...)
//	client.Invitations.Send(ctx, ...)
type Client struct {
	httpClient   *http.Client
	uploadClient *http.Client
	baseURL      string
	apiVersion   string
	accessToken  string

	Profiles    *ProfilesService
	Posts       *PostsService
	Invitations *InvitationsService
}

// NewClient builds a dispatcher for the given bearer token.
func NewClient(cfg *config.Config, accessToken string) *Client {
	c := &Client{
		httpClient:   &http.Client{Timeout: requestTimeout},
		uploadClient: &http.Client{Timeout: uploadTimeout},
		baseURL:      cfg.APIBaseURL,
		apiVersion:   cfg.APIVersion,
		accessToken:  accessToken,
	}
	c.Profiles = &ProfilesService{client: c}
	c.Posts = &PostsService{client: c}
	c.Invitations = &InvitationsService{client: c}
	return c
}

// EncodeURN percent-encodes a LinkedIn URN (colon-delimited opaque string)
// for use in URL paths and query parameters. Callers never hand-encode.
func (c *Client) EncodeURN(urn string) string {
	return url.QueryEscape(urn)
}

// PostResult is the tagged outcome of a POST request. ID carries the
// x-restli-id resource identifier when the API returned one; Body holds
// the parsed response body (with ID merged under RestliIDKey when set).
type PostResult struct {
	ID   string
	Body map[string]any
}

func (c *Client) defaultHeaders() http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+c.accessToken)
	h.Set("X-Restli-Protocol-Version", restliProtocolVersion)
	h.Set("LinkedIn-Version", c.apiVersion)
	h.Set("Content-Type", "application/json")
	return h
}

// do issues one authenticated request and returns the response status,
// headers, and fully-read body. Responses with status >= 400 are converted
// to *APIError; no retries are attempted.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, jsonBody any, extraHeaders map[string]string) (*http.Response, []byte, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, nil, fmt.Errorf("build request URL: %w", err)
	}
	if len(params) > 0 {
		q := u.Query()
		for key, values := range params {
			for _, value := range values {
				q.Add(key, value)
			}
		}
		u.RawQuery = q.Encode()
	}

	var bodyReader io.Reader
	if jsonBody != nil {
		data, err := json.Marshal(jsonBody)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bodyReader)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header = c.defaultHeaders()
	for key, value := range extraHeaders {
		req.Header.Set(key, value)
	}

	logging.Debug("LinkedIn", "%s %s", method, path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var details any
		if err := json.Unmarshal(data, &details); err != nil {
			details = string(data)
		}
		logging.Warn("LinkedIn", "%s %s failed with status %d", method, path, resp.StatusCode)
		return nil, nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s %s failed", method, path),
			Details:    details,
		}
	}

	return resp, data, nil
}

// Get issues a GET request. A 204 response yields an empty map; otherwise
// the JSON body is returned as parsed.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (map[string]any, error) {
	resp, data, err := c.do(ctx, http.MethodGet, path, params, nil, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNoContent {
		return map[string]any{}, nil
	}

	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("decode GET %s response: %w", path, err)
	}
	return body, nil
}

// Post issues a POST request. For 201 Created and 204 No Content the
// x-restli-id header is surfaced in the result; a 201 JSON body is
// returned with the id merged under RestliIDKey. Other 2xx responses
// return the parsed body, or an empty map when the body is not JSON.
func (c *Client) Post(ctx context.Context, path string, jsonBody any, extraHeaders map[string]string) (*PostResult, error) {
	resp, data, err := c.do(ctx, http.MethodPost, path, nil, jsonBody, extraHeaders)
	if err != nil {
		return nil, err
	}

	restliID := resp.Header.Get("x-restli-id")
	result := &PostResult{ID: restliID, Body: map[string]any{}}

	switch resp.StatusCode {
	case http.StatusCreated:
		var body map[string]any
		if err := json.Unmarshal(data, &body); err == nil {
			result.Body = body
		}
		if restliID != "" {
			result.Body[RestliIDKey] = restliID
		}
	case http.StatusNoContent:
		if restliID != "" {
			result.Body[RestliIDKey] = restliID
		}
	default:
		result.ID = ""
		var body map[string]any
		if err := json.Unmarshal(data, &body); err == nil {
			result.Body = body
		}
	}

	return result, nil
}

// Delete issues a DELETE request. The response body is not inspected;
// any 2xx status reports success.
func (c *Client) Delete(ctx context.Context, path string) (bool, error) {
	if _, _, err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return false, err
	}
	return true, nil
}

// CurrentUser returns the authenticated member's profile from the OpenID
// Connect userinfo endpoint.
func (c *Client) CurrentUser(ctx context.Context) (map[string]any, error) {
	return c.Get(ctx, "/v2/userinfo", nil)
}

// CurrentUserID returns the authenticated member's person id (the
// userinfo "sub" claim), used to default author/owner URNs.
func (c *Client) CurrentUserID(ctx context.Context) (string, error) {
	info, err := c.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	sub, ok := info["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("userinfo response missing sub claim")
	}
	return sub, nil
}

// upload PUTs raw bytes to an absolute upload URL with the bearer token.
// Used by the image post flow; runs on the longer upload timeout.
func (c *Client) upload(ctx context.Context, uploadURL string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    "PUT upload failed",
			Details:    string(body),
		}
	}
	return nil
}

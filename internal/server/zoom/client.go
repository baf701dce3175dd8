package zoom

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/centrinote/centrinote/internal/common"
	"golang.org/x/oauth2"
)

const maxResponseBytes = 1 << 20

// Observer receives the latency and outcome of every API call.
type Observer func(operation, outcome string, d time.Duration)

// Client is a minimal Zoom REST API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     oauth2.TokenSource
	observe    Observer
}

type ClientOption func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithObserver installs a latency observer.
func WithObserver(o Observer) ClientOption {
	return func(c *Client) { c.observe = o }
}

// NewClient builds a client for baseURL (e.g. https://api.zoom.us/v2) that
// authenticates every request with a bearer token from tokens.
func NewClient(baseURL string, tokens oauth2.TokenSource, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		tokens:     tokens,
		observe:    func(string, string, time.Duration) {},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// CreateMeeting schedules a meeting for userID ("me" for the token owner).
func (c *Client) CreateMeeting(ctx context.Context, userID string, req CreateMeetingRequest) (*APIMeeting, error) {
	if req.Type == 0 {
		req.Type = MeetingTypeScheduled
	}
	var out APIMeeting
	if err := c.do(ctx, "create_meeting", http.MethodPost, "/users/"+url.PathEscape(userID)+"/meetings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMeeting deletes a meeting. A meeting that no longer exists counts as deleted.
func (c *Client) DeleteMeeting(ctx context.Context, meetingID string) error {
	err := c.do(ctx, "delete_meeting", http.MethodDelete, "/meetings/"+url.PathEscape(meetingID), nil, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return nil
	}
	return err
}

// GetUser fetches a user profile; "me" resolves to the token owner.
func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	var out User
	if err := c.do(ctx, "get_user", http.MethodGet, "/users/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) (err error) {
	start := time.Now()
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		c.observe(op, outcome, time.Since(start))
	}()

	tok, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("%w: %s: token: %v", common.ErrRemoteAPI, op, err)
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	tok.SetAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", common.ErrRemoteAPI, op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: %s: read response: %v", common.ErrRemoteAPI, op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(raw, apiErr) != nil {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s: decode response: %v", common.ErrRemoteAPI, op, err)
	}
	return nil
}

// Package api is the CLI's client for the Centrinote server HTTP API.
package api

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
	"github.com/centrinote/centrinote/internal/server/models"
	"github.com/centrinote/centrinote/internal/server/zoom"
	"golang.org/x/oauth2"
)

type Client struct {
	baseURL string
	hc      *http.Client
}

// NewClient builds a client for baseURL. Requests carry a bearer token from
// tokens; a nil tokens makes unauthenticated requests only.
func NewClient(baseURL string, tokens oauth2.TokenSource, timeout time.Duration) *Client {
	hc := &http.Client{Timeout: timeout}
	if tokens != nil {
		hc.Transport = &oauth2.Transport{Source: tokens, Base: http.DefaultTransport}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), hc: hc}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		// Token source failures (not logged in, refresh rejected) surface as is.
		if errors.Is(err, common.ErrorUnauthorized) || errors.Is(err, common.ErrTokenExpired) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}
		_ = json.Unmarshal(data, apiErr)
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// Health calls the unauthenticated liveness probe.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) AuthStatus(ctx context.Context) (*AuthStatus, error) {
	var out AuthStatus
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ZoomConfig(ctx context.Context) (*ZoomConfig, error) {
	var out ZoomConfig
	if err := c.do(ctx, http.MethodGet, "/api/v1/zoom/config", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Signature(ctx context.Context, meetingNumber string, role zoom.Role) (*Signature, error) {
	in := map[string]any{"meeting_number": meetingNumber, "role": role}
	var out Signature
	if err := c.do(ctx, http.MethodPost, "/api/v1/zoom/signature", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Connection returns the active connection or nil.
func (c *Client) Connection(ctx context.Context) (*models.Connection, error) {
	var out struct {
		Connection *models.Connection `json:"connection"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/zoom/connection", nil, &out); err != nil {
		return nil, err
	}
	return out.Connection, nil
}

func (c *Client) Connect(ctx context.Context, in ConnectRequest) (*models.Connection, error) {
	var out struct {
		Connection *models.Connection `json:"connection"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/zoom/connection", in, &out); err != nil {
		return nil, err
	}
	return out.Connection, nil
}

func (c *Client) Disconnect(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/zoom/connection", nil, nil)
}

func (c *Client) ConnectionState(ctx context.Context) (models.ConnectionState, error) {
	var out struct {
		State models.ConnectionState `json:"state"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/zoom/connection/state", nil, &out); err != nil {
		return "", err
	}
	return out.State, nil
}

func (c *Client) ListMeetings(ctx context.Context) ([]*models.Meeting, error) {
	var out struct {
		Meetings []*models.Meeting `json:"meetings"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/meetings", nil, &out); err != nil {
		return nil, err
	}
	return out.Meetings, nil
}

func (c *Client) CreateMeeting(ctx context.Context, in CreateMeetingRequest) (*models.Meeting, error) {
	var out models.Meeting
	if err := c.do(ctx, http.MethodPost, "/api/v1/meetings", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetMeeting(ctx context.Context, id string) (*models.Meeting, error) {
	var out models.Meeting
	if err := c.do(ctx, http.MethodGet, "/api/v1/meetings/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteMeeting(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/meetings/"+url.PathEscape(id), nil, nil)
}

func (c *Client) BulkDeleteMeetings(ctx context.Context, ids []string) (*BulkDeleteReport, error) {
	var out BulkDeleteReport
	in := map[string][]string{"ids": ids}
	if err := c.do(ctx, http.MethodPost, "/api/v1/meetings/bulk-delete", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RecordingUploadURL(ctx context.Context, meetingID string) (*PresignedURL, error) {
	var out PresignedURL
	path := "/api/v1/meetings/" + url.PathEscape(meetingID) + "/recording/upload-url"
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RecordingDownloadURL(ctx context.Context, meetingID string) (*PresignedURL, error) {
	var out PresignedURL
	path := "/api/v1/meetings/" + url.PathEscape(meetingID) + "/recording/download-url"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/centrinote/centrinote/internal/common"
	"github.com/centrinote/centrinote/internal/server/models"
	"github.com/centrinote/centrinote/internal/server/zoom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func static(tok string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"})
}

type failingSource struct{ err error }

func (f failingSource) Token() (*oauth2.Token, error) { return nil, f.err }

func newTestServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_SendsBearerAndDecodes(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/api/v1/meetings":
			if r.Method == http.MethodPost {
				var in CreateMeetingRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
				writeJSON(w, http.StatusCreated, models.Meeting{ID: "m1", Topic: in.Topic, Source: models.SourceFallback})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"meetings": []models.Meeting{{ID: "m1"}, {ID: "m0"}}})
		case "/api/v1/zoom/connection/state":
			writeJSON(w, http.StatusOK, map[string]string{"state": "connected"})
		case "/api/v1/meetings/bulk-delete":
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"ids":["a","b"]}`, string(body))
			writeJSON(w, http.StatusOK, BulkDeleteReport{SuccessCount: 1, ErrorCount: 1,
				Results: []DeleteResult{{ID: "a", Status: "success"}, {ID: "b", Status: "error", Error: "not found"}}})
		case "/api/v1/zoom/signature":
			var in map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, "1234567890", in["meeting_number"])
			assert.EqualValues(t, 1, in["role"])
			writeJSON(w, http.StatusOK, Signature{Signature: "sig", MeetingNumber: "1234567890", Role: zoom.RoleHost})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	c := NewClient(srv.URL+"/", static("tok-1"), 5*time.Second)
	ctx := context.Background()

	m, err := c.CreateMeeting(ctx, CreateMeetingRequest{Topic: "Algebra"})
	require.NoError(t, err)
	assert.Equal(t, "Algebra", m.Topic)
	assert.True(t, m.IsFallback())

	list, err := c.ListMeetings(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	state, err := c.ConnectionState(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StateConnected, state)

	rep, err := c.BulkDeleteMeetings(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.SuccessCount)
	assert.Equal(t, "not found", rep.Results[1].Error)

	sig, err := c.Signature(ctx, "1234567890", zoom.RoleHost)
	require.NoError(t, err)
	assert.Equal(t, "sig", sig.Signature)
}

func TestClient_ErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		code   string
		want   error
	}{
		{http.StatusBadRequest, "VALIDATION_ERROR", common.ErrorValidation},
		{http.StatusUnauthorized, "UNAUTHORIZED", common.ErrorUnauthorized},
		{http.StatusUnauthorized, "TOKEN_EXPIRED", common.ErrTokenExpired},
		{http.StatusNotFound, "NOT_FOUND", common.ErrorNotFound},
		{http.StatusServiceUnavailable, "NOT_CONFIGURED", common.ErrNotConfigured},
		{http.StatusBadGateway, "PERSISTENCE_ERROR", common.ErrPersistence},
		{http.StatusBadGateway, "REMOTE_API_ERROR", common.ErrRemoteAPI},
		{http.StatusInternalServerError, "INTERNAL_ERROR", common.ErrorInternal},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tc.status, map[string]string{"error_code": tc.code, "error_message": "nope"})
			})
			_, err := NewClient(srv.URL, static("t"), time.Second).GetMeeting(context.Background(), "m1")
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, "nope (", apiErr.Error()[:6])
		})
	}
}

func TestClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewClient(url, nil, time.Second).Health(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_TokenSourceFailure(t *testing.T) {
	called := false
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	_, err := NewClient(srv.URL, failingSource{err: common.ErrorUnauthorized}, time.Second).AuthStatus(context.Background())
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.False(t, called)
}

func TestClient_NullConnectionAndNoContent(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"connection":null}`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	c := NewClient(srv.URL, static("t"), time.Second)

	conn, err := c.Connection(context.Background())
	require.NoError(t, err)
	assert.Nil(t, conn)

	assert.NoError(t, c.Disconnect(context.Background()))
}

func TestClient_PathEscaping(t *testing.T) {
	var got string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.EscapedPath()
		writeJSON(w, http.StatusOK, PresignedURL{Key: "k"})
	})

	_, err := NewClient(srv.URL, static("t"), time.Second).RecordingUploadURL(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/meetings/a%2Fb/recording/upload-url", got)
}

package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/centrinote/centrinote/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignInWithPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "hunter2" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "at",
			"refresh_token": "rt",
			"token_type":    "bearer",
			"expires_in":    3600,
			"expires_at":    1792137600,
			"user":          map[string]string{"id": "u1", "email": body["email"]},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "anon-key", srv.Client())

	s, err := c.SignInWithPassword(context.Background(), "ada@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "at", s.AccessToken)
	assert.Equal(t, "rt", s.RefreshToken)
	assert.Equal(t, "u1", s.UserID)
	assert.Equal(t, "ada@example.com", s.Email)
	assert.Equal(t, time.Unix(1792137600, 0), s.ExpiresAt)

	tok := s.Token()
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.Equal(t, s.ExpiresAt, tok.Expiry)

	_, err = c.SignInWithPassword(context.Background(), "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.ErrorContains(t, err, "Invalid login credentials")

	_, err = c.SignInWithPassword(context.Background(), " ", "x")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestRefresh_UsesExpiresInWhenNoExpiresAt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "at2", "refresh_token": "rt2", "expires_in": 60,
			"user": map[string]string{"id": "u1"},
		})
	}))
	defer srv.Close()

	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	c := NewClient(srv.URL, "anon", srv.Client())
	c.now = func() time.Time { return now }

	s, err := c.Refresh(context.Background(), "rt")
	require.NoError(t, err)
	assert.Equal(t, "at2", s.AccessToken)
	assert.Equal(t, now.Add(time.Minute), s.ExpiresAt)

	_, err = c.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestToken_ServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"code":500,"error_code":"unexpected_failure","msg":"database down"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "anon", srv.Client()).SignInWithPassword(context.Background(), "a@b.c", "p")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorContains(t, err, "database down")
}

func TestSignOut(t *testing.T) {
	status := http.StatusNoContent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/logout", r.URL.Path)
		assert.Equal(t, "Bearer at", r.Header.Get("Authorization"))
		w.WriteHeader(status)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon", srv.Client())
	assert.NoError(t, c.SignOut(context.Background(), "at"))

	status = http.StatusUnauthorized
	assert.NoError(t, c.SignOut(context.Background(), "at"), "expired session is fine")

	status = http.StatusBadGateway
	assert.Error(t, c.SignOut(context.Background(), "at"))
}

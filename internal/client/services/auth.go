// Package services contains the CLI's application services: session
// handling on top of the local prefs store and meeting workflows on top of
// the server API.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/centrinote/centrinote/internal/client/prefs"
	"github.com/centrinote/centrinote/internal/client/supabase"
	"github.com/centrinote/centrinote/internal/common"
	"github.com/centrinote/centrinote/internal/logging"
	"golang.org/x/oauth2"
)

// ErrNotLoggedIn means no session is stored locally.
var ErrNotLoggedIn = fmt.Errorf("%w: not logged in", common.ErrorUnauthorized)

// refreshLeeway refreshes tokens slightly before they expire.
const refreshLeeway = 30 * time.Second

// SessionStore is the part of prefs.Store the auth service needs.
type SessionStore interface {
	Get(ctx context.Context, name string) (string, error)
	SetMany(ctx context.Context, values map[string]string) error
	PurgeNamespace(ctx context.Context, ns prefs.Namespace) (int, error)
}

// Authenticator is the part of supabase.Client the auth service needs.
type Authenticator interface {
	SignInWithPassword(ctx context.Context, email, password string) (*supabase.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*supabase.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// AuthService owns the locally stored Supabase session.
type AuthService struct {
	store  SessionStore
	auth   Authenticator
	logger logging.Logger
	now    func() time.Time
	mu     sync.Mutex
}

func NewAuthService(store SessionStore, auth Authenticator, logger logging.Logger) *AuthService {
	return &AuthService{
		store:  store,
		auth:   auth,
		logger: logger.With("module", "auth"),
		now:    time.Now,
	}
}

// Login signs in with email and password and stores the session.
func (a *AuthService) Login(ctx context.Context, email, password string) (*supabase.Session, error) {
	s, err := a.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := a.save(ctx, s); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	a.logger.Debug(ctx, "logged in", "user_id", s.UserID)
	return s, nil
}

// Logout revokes the session remotely when possible and always purges the
// local session namespace.
func (a *AuthService) Logout(ctx context.Context) error {
	if tok, err := a.store.Get(ctx, prefs.KeyAccessToken); err == nil && tok != "" {
		if err := a.auth.SignOut(ctx, tok); err != nil {
			a.logger.Warn(ctx, "remote sign-out failed", "error", err)
		}
	}
	if _, err := a.store.PurgeNamespace(ctx, prefs.NamespaceSession); err != nil {
		return fmt.Errorf("session purge error: %w", err)
	}
	return nil
}

// Session returns the stored session without refreshing it.
func (a *AuthService) Session(ctx context.Context) (*supabase.Session, error) {
	get := func(k string) (string, error) { return a.store.Get(ctx, k) }

	access, err := get(prefs.KeyAccessToken)
	if err != nil {
		return nil, err
	}
	if access == "" {
		return nil, ErrNotLoggedIn
	}

	s := &supabase.Session{AccessToken: access}
	if s.RefreshToken, err = get(prefs.KeyRefreshToken); err != nil {
		return nil, err
	}
	if s.UserID, err = get(prefs.KeyUserID); err != nil {
		return nil, err
	}
	exp, err := get(prefs.KeyExpiresAt)
	if err != nil {
		return nil, err
	}
	if exp != "" {
		if s.ExpiresAt, err = time.Parse(time.RFC3339, exp); err != nil {
			return nil, fmt.Errorf("stored session expiry: %w", err)
		}
	}
	return s, nil
}

// Token returns a valid access token, refreshing and persisting the
// session when it is about to expire.
func (a *AuthService) Token(ctx context.Context) (*oauth2.Token, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.Session(ctx)
	if err != nil {
		return nil, err
	}
	if s.ExpiresAt.IsZero() || a.now().Add(refreshLeeway).Before(s.ExpiresAt) {
		return s.Token(), nil
	}

	if s.RefreshToken == "" {
		return nil, common.ErrTokenExpired
	}
	fresh, err := a.auth.Refresh(ctx, s.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: refresh failed: %v", common.ErrTokenExpired, err)
	}
	if err := a.save(ctx, fresh); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	a.logger.Debug(ctx, "session refreshed", "user_id", fresh.UserID)
	return fresh.Token(), nil
}

// TokenSource adapts Token for oauth2 transports.
func (a *AuthService) TokenSource(ctx context.Context) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(nil, tokenSourceFunc(func() (*oauth2.Token, error) {
		return a.Token(ctx)
	}))
}

type tokenSourceFunc func() (*oauth2.Token, error)

func (f tokenSourceFunc) Token() (*oauth2.Token, error) { return f() }

func (a *AuthService) save(ctx context.Context, s *supabase.Session) error {
	return a.store.SetMany(ctx, map[string]string{
		prefs.KeyAccessToken:  s.AccessToken,
		prefs.KeyRefreshToken: s.RefreshToken,
		prefs.KeyUserID:       s.UserID,
		prefs.KeyExpiresAt:    s.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

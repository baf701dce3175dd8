package zoom

import (
	"fmt"
	"time"

	"github.com/centrinote/centrinote/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Role is the meeting role encoded into a join signature.
type Role int

const (
	RoleParticipant Role = 0
	RoleHost        Role = 1
)

// Valid reports whether r is a role Zoom accepts.
func (r Role) Valid() bool {
	return r == RoleParticipant || r == RoleHost
}

const (
	// TokenTTL is how long a signature stays valid after its issued-at time.
	TokenTTL = 2 * time.Hour
	// issuedAtSkew backdates iat to tolerate clock drift on Zoom's side.
	issuedAtSkew    = 30 * time.Second
	defaultAudience = "zoom"
)

// ErrMissingSecret is returned when the signer has no key or secret.
var ErrMissingSecret = fmt.Errorf("zoom signer: key or secret missing: %w", common.ErrNotConfigured)

// Claims is the payload of both meeting and API tokens. Meeting-only fields
// are empty in API tokens.
type Claims struct {
	SDKKey        string `json:"sdkKey,omitempty"`
	AppKey        string `json:"appKey,omitempty"`
	MeetingNumber string `json:"mn,omitempty"`
	Role          Role   `json:"role"`
	TokenExp      int64  `json:"tokenExp,omitempty"`
	jwt.RegisteredClaims
}

// Signer produces HS256 tokens for a single key/secret pair.
type Signer struct {
	key      string
	secret   []byte
	audience string
	now      func() time.Time
}

type SignerOption func(*Signer)

// WithClock overrides the time source.
func WithClock(now func() time.Time) SignerOption {
	return func(s *Signer) { s.now = now }
}

// WithAudience overrides the "aud" claim of API tokens.
func WithAudience(aud string) SignerOption {
	return func(s *Signer) { s.audience = aud }
}

func NewSigner(key, secret string, opts ...SignerOption) *Signer {
	s := &Signer{
		key:      key,
		secret:   []byte(secret),
		audience: defaultAudience,
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Key returns the public key the signer issues tokens for.
func (s *Signer) Key() string {
	return s.key
}

func (s *Signer) window() (iat, exp time.Time) {
	iat = s.now().Add(-issuedAtSkew)
	return iat, iat.Add(TokenTTL)
}

// MeetingSignature signs a join (role 0) or host (role 1) token for the
// given numeric meeting number.
func (s *Signer) MeetingSignature(meetingNumber string, role Role) (string, error) {
	if s.key == "" || len(s.secret) == 0 {
		return "", ErrMissingSecret
	}
	if !isNumeric(meetingNumber) {
		return "", fmt.Errorf("%w: meeting number must be numeric", common.ErrorValidation)
	}
	if !role.Valid() {
		return "", fmt.Errorf("%w: role must be 0 or 1, got %d", common.ErrorValidation, role)
	}

	iat, exp := s.window()
	claims := Claims{
		SDKKey:        s.key,
		AppKey:        s.key,
		MeetingNumber: meetingNumber,
		Role:          role,
		TokenExp:      exp.Unix(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	return s.sign(claims)
}

// APIToken signs a legacy JWT app token for REST API access.
func (s *Signer) APIToken() (string, error) {
	if s.key == "" || len(s.secret) == 0 {
		return "", ErrMissingSecret
	}

	iat, exp := s.window()
	claims := jwt.MapClaims{
		"iss": s.key,
		"aud": s.audience,
		"iat": iat.Unix(),
		"exp": exp.Unix(),
	}
	return s.sign(claims)
}

func (s *Signer) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// DecodeClaims reads the payload of a token without verifying its signature.
func DecodeClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	return claims, nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

package zoom

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// NewOAuthTokenSource returns a cached token source for Zoom server-to-server
// OAuth. Zoom expects grant_type=account_credentials with the account id as
// an extra parameter and the client credentials in a Basic auth header.
func NewOAuthTokenSource(ctx context.Context, accountID, clientID, clientSecret, tokenURL string, hc *http.Client) oauth2.TokenSource {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
		EndpointParams: url.Values{
			"grant_type": {"account_credentials"},
			"account_id": {accountID},
		},
	}
	if hc != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, hc)
	}
	return cfg.TokenSource(ctx)
}

// NewJWTTokenSource adapts a legacy JWT app signer to oauth2.TokenSource.
// Tokens are reused until shortly before they expire.
func NewJWTTokenSource(s *Signer) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(nil, &jwtTokenSource{signer: s})
}

type jwtTokenSource struct {
	signer *Signer
}

func (j *jwtTokenSource) Token() (*oauth2.Token, error) {
	tok, err := j.signer.APIToken()
	if err != nil {
		return nil, err
	}
	claims, err := DecodeClaims(tok)
	if err != nil {
		return nil, fmt.Errorf("decode api token: %w", err)
	}

	expiry := time.Time{}
	if claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}
	return &oauth2.Token{AccessToken: tok, TokenType: "Bearer", Expiry: expiry}, nil
}

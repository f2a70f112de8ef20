package client

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const DigitalPurchasesScope = "https://www.googleapis.com/auth/actions.purchases.digital"

type CredentialProvider interface {
	GetAccessToken(ctx context.Context) (string, error)
}

// AuthError reports a failure to obtain an access token.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("get access token: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

type serviceAccountProvider struct {
	tokenSource oauth2.TokenSource
}

// NewServiceAccountProvider builds a provider from a service account JSON key.
// Tokens are cached and refreshed shortly before expiry.
func NewServiceAccountProvider(ctx context.Context, serviceAccountJSON []byte) (CredentialProvider, error) {
	jwtCfg, err := google.JWTConfigFromJSON(serviceAccountJSON, DigitalPurchasesScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account: %w", err)
	}

	return &serviceAccountProvider{
		tokenSource: jwtCfg.TokenSource(ctx),
	}, nil
}

func (p *serviceAccountProvider) GetAccessToken(ctx context.Context) (string, error) {
	token, err := p.tokenSource.Token()
	if err != nil {
		return "", &AuthError{Err: err}
	}
	if token.AccessToken == "" {
		return "", &AuthError{Err: errors.New("empty access token")}
	}
	return token.AccessToken, nil
}

type staticTokenProvider struct {
	token string
}

func NewStaticTokenProvider(token string) CredentialProvider {
	return &staticTokenProvider{token: token}
}

func (p *staticTokenProvider) GetAccessToken(ctx context.Context) (string, error) {
	if p.token == "" {
		return "", &AuthError{Err: errors.New("no access token configured")}
	}
	return p.token, nil
}

package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/leadcache/internal/core/domain"
	"github.com/custodia-labs/leadcache/internal/core/ports/driven"
)

// Ensure OAuthTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*OAuthTokenProvider)(nil)

// OAuthTokenProvider provides OAuth access tokens with automatic refresh
// through an oauth2.TokenSource. The source carries the refresh token;
// refreshed tokens are cached and handed back until near expiry.
type OAuthTokenProvider struct {
	mu     sync.Mutex
	source oauth2.TokenSource
	latest *oauth2.Token
}

// NewOAuthTokenProvider creates a token provider backed by the given
// OAuth client config and an initial token (which may be expired, as
// long as it carries a refresh token).
func NewOAuthTokenProvider(cfg *oauth2.Config, initial *oauth2.Token) *OAuthTokenProvider {
	return &OAuthTokenProvider{
		source: cfg.TokenSource(context.Background(), initial),
		latest: initial,
	}
}

// NewOAuthTokenProviderFromSource wraps an existing token source, for
// callers that already hold one (tests, alternate grant flows).
func NewOAuthTokenProviderFromSource(source oauth2.TokenSource) *OAuthTokenProvider {
	return &OAuthTokenProvider{source: source}
}

// GetToken returns a valid access token, refreshing through the source
// when the cached one is stale.
func (p *OAuthTokenProvider) GetToken(_ context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.latest != nil && p.latest.Valid() {
		return p.latest.AccessToken, nil
	}

	token, err := p.source.Token()
	if err != nil {
		return "", fmt.Errorf("%w: refresh token: %w", domain.ErrAuthExpired, err)
	}
	p.latest = token
	return token.AccessToken, nil
}

// IsAuthenticated returns true if a usable token is held or refreshable.
func (p *OAuthTokenProvider) IsAuthenticated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.latest == nil {
		return p.source != nil
	}
	return p.latest.Valid() || p.latest.RefreshToken != ""
}

// Expiry reports when the current cached token expires, for status output.
func (p *OAuthTokenProvider) Expiry() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.latest == nil {
		return time.Time{}
	}
	return p.latest.Expiry
}

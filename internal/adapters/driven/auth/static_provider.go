package auth

import (
	"context"

	"github.com/custodia-labs/leadcache/internal/core/domain"
	"github.com/custodia-labs/leadcache/internal/core/ports/driven"
)

// Ensure StaticTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*StaticTokenProvider)(nil)

// StaticTokenProvider serves a fixed token, typically a personal access
// token from configuration. Static tokens don't expire and don't refresh.
type StaticTokenProvider struct {
	token string
}

// NewStaticTokenProvider creates a token provider around a fixed token.
func NewStaticTokenProvider(token string) *StaticTokenProvider {
	return &StaticTokenProvider{token: token}
}

// GetToken returns the configured token.
func (p *StaticTokenProvider) GetToken(_ context.Context) (string, error) {
	if p.token == "" {
		return "", domain.ErrAuthRequired
	}
	return p.token, nil
}

// IsAuthenticated returns true if a token is configured.
func (p *StaticTokenProvider) IsAuthenticated() bool {
	return p.token != ""
}

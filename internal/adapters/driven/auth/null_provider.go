package auth

import (
	"context"

	"github.com/custodia-labs/leadcache/internal/core/ports/driven"
)

// Ensure NullTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*NullTokenProvider)(nil)

// NullTokenProvider is for endpoints that require no authentication,
// such as a local development API.
type NullTokenProvider struct{}

// NewNullTokenProvider creates a token provider for no-auth endpoints.
func NewNullTokenProvider() *NullTokenProvider {
	return &NullTokenProvider{}
}

// GetToken returns an empty string since no authentication is needed.
func (p *NullTokenProvider) GetToken(_ context.Context) (string, error) {
	return "", nil
}

// IsAuthenticated always returns false so callers skip the Authorization
// header entirely.
func (p *NullTokenProvider) IsAuthenticated() bool {
	return false
}

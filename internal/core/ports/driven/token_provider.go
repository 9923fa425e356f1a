package driven

import "context"

// TokenProvider provides access tokens for authenticated API calls.
// Implementations handle token refresh transparently; the core owns no
// retry logic around authentication.
type TokenProvider interface {
	// GetToken returns a valid access token.
	// If the current token is expired, it will be refreshed automatically.
	// Returns domain.ErrAuthRequired when the caller is unauthenticated.
	GetToken(ctx context.Context) (string, error)

	// IsAuthenticated returns true if valid authentication is available.
	// Always true for no-auth endpoints (NullTokenProvider).
	IsAuthenticated() bool
}

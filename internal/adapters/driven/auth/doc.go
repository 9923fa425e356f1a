// Package auth provides TokenProvider implementations for the remote
// APIs. Token refresh is handled here so the core never sees an expired
// token as anything other than a failed request.
package auth

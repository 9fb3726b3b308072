// Package auth resolves bearer tokens to an authenticated principal.
//
// Token issuance belongs to the identity service; this package only
// verifies. The rest of the system consumes a Principal as an opaque
// "caller with a role" capability.
package auth

import (
	"context"
	"net/http"
	"strings"
)

// Roles recognized by the publishing platform.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleAuthor = "author"
	RoleReader = "reader"
)

// Principal is an authenticated caller.
type Principal struct {
	Subject string
	Role    string
}

// Verifier resolves a bearer token to a Principal.
type Verifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}

// BearerToken extracts the bearer token from r's Authorization header.
// Returns "" when no bearer credentials are attached.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}

package auth

import (
	"context"
)

// Identity is the authenticated user behind a session token.
type Identity struct {
	UserID int64
	Email  string
}

type contextKey string

const (
	contextKeyIdentity contextKey = "identity"
	contextKeyToken    contextKey = "session_token"
)

// WithIdentity adds the authenticated identity to the context
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKeyIdentity, id)
}

// IdentityFromContext retrieves the authenticated identity from the context
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKeyIdentity).(Identity)
	return id, ok
}

// WithSessionToken adds the raw bearer token to the context
func WithSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, contextKeyToken, token)
}

// SessionTokenFromContext retrieves the raw bearer token from the context
func SessionTokenFromContext(ctx context.Context) (string, bool) {
	tok, ok := ctx.Value(contextKeyToken).(string)
	return tok, ok && tok != ""
}

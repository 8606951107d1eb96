package auth

import (
	"net/http"
	"strings"

	apperrors "github.com/chainsafe/token-wallet/pkg/app/errors"
	apphttp "github.com/chainsafe/token-wallet/pkg/app/http"
)

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Middleware stores the bearer token in the request context. When required is
// set, requests without a valid token are rejected with 401 and the verified
// identity is added to the context.
func Middleware(sessions *SessionManager, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			ctx := r.Context()
			if token != "" {
				ctx = WithSessionToken(ctx, token)
			}
			if required {
				id, err := sessions.Verify(token)
				if err != nil {
					apphttp.DefaultErrorHandler(w, apperrors.UnAuthorizedError(err, "Invalid or expired session"))
					return
				}
				ctx = WithIdentity(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package middleware

import (
	"context"
	"net/http"

	"github.com/bookloom/backend/token"
)

// CookieName is where the session token travels.
const CookieName = "token"

type contextKey string

const identityKey contextKey = "identity"

// Identity is the verified caller, as asserted by the session token.
type Identity struct {
	Email string
}

// Session rejects requests without a valid session cookie and attaches the
// verified identity to the request context. Missing cookie, bad signature
// and expiry all answer the same way so the response leaks nothing about
// which check failed.
func Session(tokens *token.Service) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(CookieName)
			if err != nil || c.Value == "" {
				http.Error(w, `{"message":"unauthorized access"}`, http.StatusUnauthorized)
				return
			}
			claims, err := tokens.Verify(c.Value)
			if err != nil {
				http.Error(w, `{"message":"unauthorized access"}`, http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, Identity{Email: claims.Email})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

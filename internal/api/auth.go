package api

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth"
)

type ctxKey struct{}

// NewTokenAuth builds the HS256 verifier for bearer tokens. Tokens are issued
// elsewhere; the subject claim carries the user id.
func NewTokenAuth(secret string) *jwtauth.JWTAuth {
	return jwtauth.New("HS256", []byte(secret), nil)
}

// requireUser rejects requests without a verified token or subject and puts
// the subject in the request context. It must run after jwtauth.Verifier.
func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			writeError(w, http.StatusUnauthorized, "token has no subject")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, sub)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

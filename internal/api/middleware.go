package api

import (
	"net/http"
	"strings"

	"gateway/internal/token"
)

// BearerAuth validates the Authorization header and attaches the decoded
// principal to the request context.
//
// Expected header:
// - Authorization: Bearer <JWT>
func BearerAuth(decoder token.Decoder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := strings.TrimSpace(r.Header.Get("Authorization"))
			if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				WriteError(w, NotAuthenticated("missing bearer token"))
				return
			}

			p, err := decoder.Decode(strings.TrimSpace(authz[7:]))
			if err != nil {
				WriteError(w, NotAuthenticated("invalid bearer token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// ServiceKeyAuth enforces the x-functions-key header when a key is
// configured. This is service-to-service trust, separate from end-user auth.
func ServiceKeyAuth(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("x-functions-key") != key {
				WriteError(w, NotAuthenticated("missing or invalid service key"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

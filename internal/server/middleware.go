package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// bearerAuth guards the /api subtree. A missing or malformed header is
// 401; a well-formed header with the wrong token is 403.
func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				respondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			presented := strings.TrimPrefix(header, "Bearer ")
			if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				respondError(w, http.StatusForbidden, "invalid token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

package v1

import (
	"net/http"
	"strings"

	"github.com/VerteraIO/hostpulse/internal/security/runtoken"
)

// requireRunToken rejects requests without a valid bearer run token.
// With an empty secret it lets every request through.
func requireRunToken(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(secret) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="hostpulse"`)
				writeError(w, http.StatusUnauthorized, "unauthorized", "bearer token required")
				return
			}
			if _, err := runtoken.VerifyToken(secret, strings.TrimSpace(raw)); err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="hostpulse", error="invalid_token"`)
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token: "+err.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

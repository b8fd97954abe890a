package handlers

import (
	"net/http"

	"github.com/couplestry/storefront/internal/platform/httpx"
	"github.com/couplestry/storefront/internal/platform/session"
)

// RequireSession extracts the bearer credential from the Authorization header
// and stores it on the request context. Requests without one are rejected with
// 401 and, when configured, the login URL the client should redirect to.
func RequireSession(loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromBearer(r.Header.Get("Authorization"))
			if !ok {
				err := httpx.NewError("unauthenticated", "authentication required", http.StatusUnauthorized)
				if loginURL != "" {
					err = err.WithDetails(map[string]any{"login_url": loginURL})
				}
				httpx.WriteError(r.Context(), w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
		})
	}
}

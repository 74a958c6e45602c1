package auth

import (
	"net/http"
	"strings"

	"github.com/georgemunganga/localmarket/internal/httpx"
	"github.com/georgemunganga/localmarket/internal/middleware"
)

// RequireUser rejects requests without a valid bearer token and stores the
// token's user ID in the request context.
func RequireUser(tokens *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			parts := strings.Fields(header)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				httpx.Error(w, http.StatusUnauthorized, "Authentication credentials were not provided")
				return
			}

			userID, err := tokens.Verify(parts[1])
			if err != nil {
				httpx.Error(w, http.StatusUnauthorized, ErrInvalidToken.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), userID)))
		})
	}
}

// OptionalUser stores the user ID when a valid bearer token is present and
// otherwise lets the request through anonymously.
func OptionalUser(tokens *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			parts := strings.Fields(r.Header.Get("Authorization"))
			if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				if userID, err := tokens.Verify(parts[1]); err == nil {
					r = r.WithContext(middleware.WithUserID(r.Context(), userID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

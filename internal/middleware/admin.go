package middleware

import (
	"net/http"
	"strings"

	"github.com/elhabassi/portfolio-api/internal/pkg/jwt"
	"github.com/elhabassi/portfolio-api/internal/pkg/response"
)

// RequireAdmin gates a route behind a valid admin session token. This is a
// convenience gate for the site's single trusted operator, not a security
// boundary: the password behind it is a shared literal.
func RequireAdmin(jwtService *jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				response.Unauthorized(w, "Missing authorization header")
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			if _, err := jwtService.ValidateAdminToken(parts[1]); err != nil {
				if err == jwt.ErrExpiredToken {
					response.Unauthorized(w, "Session expired, log in again")
					return
				}
				response.Unauthorized(w, "Invalid session token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

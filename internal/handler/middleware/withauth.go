package middleware

import (
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"

	"github.com/TheRmarkable/Common-Component-Backend/internal/config"
	"github.com/TheRmarkable/Common-Component-Backend/pkg/logger"
)

const (
	UserIDHeader   = "User-ID"
	UserRoleHeader = "User-Role"
)

// WithAuth resolves the caller's principal from the bearer token and passes
// it downstream via the User-ID and User-Role headers. Configured public
// paths skip the check.
func WithAuth(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, ignore := range cfg.AuthDisabledURLs {
				if strings.HasSuffix(r.URL.Path, ignore) {
					r.Header.Del(UserIDHeader)
					r.Header.Del(UserRoleHeader)
					next.ServeHTTP(w, r)

					return
				}
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				logger.Log.Warn("unauthorized request", logger.String("url", r.RequestURI))
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			claims := jwt.MapClaims{}
			_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				return []byte(cfg.PrivateKey), nil
			})
			if err != nil {
				logger.Log.Warn("unauthorized request", logger.String("url", r.RequestURI), logger.Error(err))
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			sub, _ := claims["sub"].(string)
			role, _ := claims["role"].(string)
			if sub == "" {
				logger.Log.Warn("token without subject", logger.String("url", r.RequestURI))
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			r.Header.Set(UserIDHeader, sub)
			r.Header.Set(UserRoleHeader, role)

			next.ServeHTTP(w, r)
		})
	}
}

package middlewares

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"spendtrack/pkg/utils"
)

func JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("Bearer")
		if err != nil {
			utils.WriteError(w, "Unauthorized: Missing Bearer token", http.StatusUnauthorized)
			return
		}

		token := strings.TrimPrefix(cookie.Value, "Bearer ")

		jwtSecret := os.Getenv("JWT_SECRET")

		parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
			return []byte(jwtSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				utils.WriteError(w, "token expired", http.StatusUnauthorized)
				return
			}
			utils.WriteError(w, "invalid login token", http.StatusUnauthorized)
			return
		}

		if !parsedToken.Valid {
			utils.WriteError(w, "invalid login token", http.StatusUnauthorized)
			return
		}

		claims, ok := parsedToken.Claims.(jwt.MapClaims)
		if !ok {
			utils.WriteError(w, "invalid login token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), utils.ContextKey("userId"), claims["uid"])
		ctx = context.WithValue(ctx, utils.ContextKey("username"), claims["user"])
		ctx = context.WithValue(ctx, utils.ContextKey("expiresAt"), claims["exp"])

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// MiddlewaresExcludePaths applies mw to everything except the listed path
// prefixes (login/signup and other pre-auth endpoints).
func MiddlewaresExcludePaths(mw func(http.Handler) http.Handler, excluded ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		wrapped := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, path := range excluded {
				if strings.HasPrefix(r.URL.Path, path) {
					next.ServeHTTP(w, r)
					return
				}
			}
			wrapped.ServeHTTP(w, r)
		})
	}
}

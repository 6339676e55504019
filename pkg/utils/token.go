package utils

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SignToken issues the HS256 login token carried in the Bearer cookie.
// Expiry defaults to 24h, overridable via JWT_EXP_HOURS.
func SignToken(userID int, username string) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET is not set")
	}

	expHours := 24
	if v := os.Getenv("JWT_EXP_HOURS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			expHours = parsed
		}
	}

	claims := jwt.MapClaims{
		"uid":  userID,
		"user": username,
		"exp":  time.Now().Add(time.Duration(expHours) * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenValid reports whether token may still be presented to the backend.
// The signature is the backend's business; only the exp claim is checked
// here. Opaque tokens and JWTs without exp are treated as valid.
func tokenValid(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return now.Before(claims.ExpiresAt.Time)
}

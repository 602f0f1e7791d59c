package auth

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Secret returns the JWT signing key. The fallback matches local dev
// setups without a .env file; production must set JWT_SECRET.
func Secret() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("supersecretjwtkey")
}

// IssueToken signs a short-lived session token carrying the user id
// and role.
func IssueToken(userID int64, role string) (string, error) {
	claims := jwt.MapClaims{
		"id":   userID,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(Secret())
}

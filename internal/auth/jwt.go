package auth

import (
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// platformClaims is the registered claim set issued by the AeThex platform
type platformClaims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

// ParseBearerToken validates a platform-issued JWT and returns claims
func ParseBearerToken(tokenStr string) (*JWTClaims, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET not configured")
	}

	var claims platformClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid bearer token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid bearer token")
	}

	return &JWTClaims{
		SubjectID: claims.Subject,
		AdminFlag: claims.Admin,
	}, nil
}

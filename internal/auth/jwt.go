package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"banktech/internal/models"
)

// Claims identifies the operator behind a request.
type Claims struct {
	UserID   int64
	Username string
	Role     models.Role
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

func GenerateToken(secret string, claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	tc := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(claims.UserID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Username: claims.Username,
		Role:     claims.Role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("GenerateToken: %w", err)
	}
	return signed, nil
}

func ParseToken(secret, tokenString string) (Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("ParseToken: %w", err)
	}
	tc, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return Claims{}, fmt.Errorf("ParseToken: invalid token claims")
	}
	userID, err := strconv.ParseInt(tc.Subject, 10, 64)
	if err != nil {
		return Claims{}, fmt.Errorf("ParseToken: invalid subject: %w", err)
	}
	if !tc.Role.Valid() {
		return Claims{}, fmt.Errorf("ParseToken: unknown role %q", tc.Role)
	}
	return Claims{UserID: userID, Username: tc.Username, Role: tc.Role}, nil
}

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"banktech/internal/models"
)

const testSecret = "test-jwt-secret"

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hash)
	assert.True(t, CheckPassword(hash, "admin123"))
	assert.False(t, CheckPassword(hash, "admin124"))
	assert.False(t, CheckPassword("not-a-hash", "admin123"))
}

func TestGenerateAndParseToken(t *testing.T) {
	in := Claims{UserID: 7, Username: "ana", Role: models.RoleTeller}

	token, err := GenerateToken(testSecret, in, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	out, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestParseTokenRejects(t *testing.T) {
	claims := Claims{UserID: 1, Username: "admin", Role: models.RoleManager}
	valid, err := GenerateToken(testSecret, claims, time.Hour)
	require.NoError(t, err)
	expired, err := GenerateToken(testSecret, claims, -time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name      string
		token     string
		secret    string
		wantErrIs error
	}{
		{"expired token", expired, testSecret, jwt.ErrTokenExpired},
		{"wrong secret", valid, "wrong-secret", jwt.ErrTokenSignatureInvalid},
		{"malformed token", "not.a.valid.jwt", testSecret, jwt.ErrTokenMalformed},
		{"empty token", "", testSecret, jwt.ErrTokenMalformed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseToken(tc.secret, tc.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErrIs)
		})
	}
}

func TestParseTokenRejectsNoneAlgorithm(t *testing.T) {
	tc := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Username: "admin",
		Role:     models.RoleManager,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, tc).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, signed)
	require.Error(t, err)
}

func TestParseTokenRejectsUnknownRole(t *testing.T) {
	token, err := GenerateToken(testSecret, Claims{UserID: 1, Username: "x", Role: "AUDITOR"}, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	require.Error(t, err)
}

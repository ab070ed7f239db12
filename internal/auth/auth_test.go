package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345"

func TestGenerateToken(t *testing.T) {
	t.Run("Successfully generate token", func(t *testing.T) {
		token, err := GenerateToken("user@example.com", testSecret)

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("Fail with empty secret", func(t *testing.T) {
		token, err := GenerateToken("user@example.com", "")

		assert.Equal(t, ErrEmptyJWTSecret, err)
		assert.Empty(t, token)
	})

	t.Run("Fail with empty email", func(t *testing.T) {
		token, err := GenerateToken("   ", testSecret)

		assert.Equal(t, ErrEmptyEmail, err)
		assert.Empty(t, token)
	})

	t.Run("Email is normalized to lowercase", func(t *testing.T) {
		token, err := GenerateToken(" User@Example.COM ", testSecret)
		require.NoError(t, err)

		claims, err := ValidateToken(token, testSecret)
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", claims.Email)
	})
}

func TestValidateToken(t *testing.T) {
	email := "test@example.com"

	t.Run("Successfully validate valid token", func(t *testing.T) {
		token, _ := GenerateToken(email, testSecret)

		claims, err := ValidateToken(token, testSecret)

		assert.NoError(t, err)
		assert.Equal(t, email, claims.Email)
		assert.Equal(t, jwtIssuer, claims.Issuer)
		assert.Contains(t, claims.Audience, jwtAudience)
	})

	t.Run("Fail with empty secret", func(t *testing.T) {
		token, _ := GenerateToken(email, testSecret)

		claims, err := ValidateToken(token, "")

		assert.Equal(t, ErrEmptyJWTSecret, err)
		assert.Nil(t, claims)
	})

	t.Run("Fail with wrong secret", func(t *testing.T) {
		token, _ := GenerateToken(email, testSecret)

		claims, err := ValidateToken(token, "wrong-secret")

		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("Fail with invalid token format", func(t *testing.T) {
		claims, err := ValidateToken("invalid.token.format", testSecret)

		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("Fail with expired token", func(t *testing.T) {
		pastTime := time.Now().Add(-time.Hour)
		claims := &JWTClaims{
			Email: email,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    jwtIssuer,
				Audience:  []string{jwtAudience},
				ExpiresAt: jwt.NewNumericDate(pastTime),
				IssuedAt:  jwt.NewNumericDate(pastTime.Add(-TokenTTL)),
			},
		}
		tokenString, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))

		validated, err := ValidateToken(tokenString, testSecret)

		assert.Equal(t, ErrTokenExpired, err)
		assert.Nil(t, validated)
	})

	t.Run("Fail without email claim", func(t *testing.T) {
		claims := &JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    jwtIssuer,
				Audience:  []string{jwtAudience},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		tokenString, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))

		validated, err := ValidateToken(tokenString, testSecret)

		assert.Equal(t, ErrInvalidToken, err)
		assert.Nil(t, validated)
	})
}

func TestTokenExpiration(t *testing.T) {
	token, err := GenerateToken("user@example.com", testSecret)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)

	expectedExpiry := time.Now().Add(7 * 24 * time.Hour)
	diff := claims.ExpiresAt.Time.Sub(expectedExpiry).Abs()
	assert.Less(t, diff, 2*time.Second)
}

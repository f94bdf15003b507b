package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute)

	token, err := m.GenerateAccessToken("user-1", "ravi@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ravi@example.com", claims.Email)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "farmconnect", claims.Issuer)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	m := NewJWTManager("secret-a", time.Minute)
	other := NewJWTManager("secret-b", time.Minute)

	token, err := m.GenerateAccessToken("user-1", "ravi@example.com")
	require.NoError(t, err)

	_, err = other.ParseAndValidate(token)
	assert.Error(t, err)
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)

	token, err := m.GenerateAccessToken("user-1", "ravi@example.com")
	require.NoError(t, err)

	_, err = m.ParseAndValidate(token)
	assert.Error(t, err)
}

func TestJWTRejectsGarbage(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute)

	_, err := m.ParseAndValidate("not.a.jwt")
	assert.Error(t, err)
}

// signFor builds a token with arbitrary claims using the manager's secret.
func signFor(t *testing.T, method jwt.SigningMethod, claims *Claims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestJWTRejectsForeignIssuer(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute)

	token := signFor(t, jwt.SigningMethodHS256, &Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})

	_, err := m.ParseAndValidate(token)
	assert.Error(t, err, "token from another issuer must not validate")
}

func TestJWTRejectsUnexpectedAlgorithm(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute)

	// Correct secret and issuer, but HS512 instead of HS256.
	token := signFor(t, jwt.SigningMethodHS512, &Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "farmconnect",
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})

	_, err := m.ParseAndValidate(token)
	assert.Error(t, err)
}

func TestJWTRequiresExpiry(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute)

	token := signFor(t, jwt.SigningMethodHS256, &Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:  "farmconnect",
			Subject: "user-1",
		},
	})

	_, err := m.ParseAndValidate(token)
	assert.Error(t, err, "tokens without exp must not validate")
}

package helpers

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMockClerkJWT(t *testing.T) {
	tokenString, err := GenerateMockClerkJWT("user_test_abc")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte("test-secret-key-for-testing-only"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "user_test_abc", claims["sub"])
	assert.Equal(t, "https://clerk.test", claims["iss"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.False(t, exp.Time.IsZero())
}

func TestGenerateMockClerkJWT_RejectsWrongKey(t *testing.T) {
	tokenString, err := GenerateMockClerkJWT("user_test_abc")
	require.NoError(t, err)

	_, err = jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte("a-different-secret"), nil
	})
	assert.Error(t, err)
}

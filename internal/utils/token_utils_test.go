package utils_test

import (
	"testing"
	"time"

	"github.com/corebank/banking_backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJWT_RoundTrip(t *testing.T) {
	token, expiresAt, err := utils.GenerateJWT(42, 7, "test-secret", time.Hour, "banking_backend")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := utils.ParseAndValidateJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, int64(7), claims.CustomerID)
	assert.Equal(t, "banking_backend", claims.Issuer)
}

func TestParseAndValidateJWT_WrongSecret(t *testing.T) {
	token, _, err := utils.GenerateJWT(42, 7, "test-secret", time.Hour, "banking_backend")
	require.NoError(t, err)

	claims, err := utils.ParseAndValidateJWT(token, "other-secret")
	require.Error(t, err)
	assert.Nil(t, claims)
}

func TestParseAndValidateJWT_Expired(t *testing.T) {
	token, _, err := utils.GenerateJWT(42, 7, "test-secret", -time.Minute, "banking_backend")
	require.NoError(t, err)

	claims, err := utils.ParseAndValidateJWT(token, "test-secret")
	require.Error(t, err)
	assert.Nil(t, claims)
}

func TestParseAndValidateJWT_Garbage(t *testing.T) {
	claims, err := utils.ParseAndValidateJWT("not.a.token", "test-secret")
	require.Error(t, err)
	assert.Nil(t, claims)
}

// internal/utils/jwt_test.go
package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	SetJWTSecret("unit-test-secret")

	userID := uuid.New()
	token, err := GenerateJWT(userID, "customer", "09123456789", 1)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "customer", claims.Role)
	assert.Equal(t, "09123456789", claims.Contact)
	assert.Equal(t, "shopyar", claims.Issuer)
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	SetJWTSecret("secret-a")
	token, err := GenerateJWT(uuid.New(), "admin", "a@b.ir", 1)
	require.NoError(t, err)

	SetJWTSecret("secret-b")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	SetJWTSecret("unit-test-secret")
	_, err := ValidateJWT("not.a.token")
	assert.Error(t, err)
}

package jwt_test

import (
	"testing"

	"github.com/madxrebel/MStock/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	userID := uuid.New()

	token, err := jwt.GenerateToken(userID, "admin@example.com", "Test Admin", "v1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwt.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "Test Admin", claims.Name)
	assert.Equal(t, "v1", claims.TokenVersion)
	assert.Equal(t, "mstock-api", claims.Issuer)
}

func TestValidateTokenRejectsMalformedInput(t *testing.T) {
	_, err := jwt.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	_, err = jwt.ValidateToken("")
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestValidateTokenRejectsTamperedSignature(t *testing.T) {
	token, err := jwt.GenerateToken(uuid.New(), "admin@example.com", "Test Admin", "v1")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = jwt.ValidateToken(tampered)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

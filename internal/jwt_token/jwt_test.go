package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "zoopito/pkg/domain"
	dErrors "zoopito/pkg/domain-errors"
)

var jwtService = NewJWTService("test-signing-key", "zoopito-test")
var userID = id.NewUserID()
var expiresIn = time.Hour

func Test_GenerateAccessToken(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(userID, id.RoleSales, expiresIn)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, string(id.RoleSales), claims.Role)
	assert.WithinDuration(t, time.Now().Add(expiresIn), claims.ExpiresAt.Time, time.Minute)
}

func Test_GenerateAccessToken_RejectsUnknownRole(t *testing.T) {
	_, err := jwtService.GenerateAccessToken(userID, id.Role("OWNER"), expiresIn)
	require.Error(t, err)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Equal(t, "invalid token", err.Error())
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(userID, id.RoleAdmin, -time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Equal(t, "token has expired", err.Error())
}

func Test_ValidateToken_WrongKeyOrIssuer(t *testing.T) {
	token, err := NewJWTService("other-key", "zoopito-test").GenerateAccessToken(userID, id.RoleAdmin, expiresIn)
	require.NoError(t, err)
	_, err = jwtService.ValidateToken(token)
	require.Error(t, err)

	token, err = NewJWTService("test-signing-key", "someone-else").GenerateAccessToken(userID, id.RoleAdmin, expiresIn)
	require.NoError(t, err)
	_, err = jwtService.ValidateToken(token)
	require.Error(t, err)
}

func Test_Adapter(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(userID, id.RoleParavet, expiresIn)
	require.NoError(t, err)
	claims, err := NewJWTServiceAdapter(jwtService).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "PARAVET", claims.Role)
}

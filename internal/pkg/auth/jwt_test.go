package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adelekeoti/edusiastic-backend/internal/app/models"
)

func testJWTService(accessExp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "edusiastic-test",
	})
}

func testUser() *models.User {
	return &models.User{
		ID:       42,
		Email:    "teacher@example.com",
		RoleType: models.RoleTeacher,
	}
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := testJWTService(time.Hour)

	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := svc.GenerateTokenPair(testUser())
	require.NoError(t, err)

	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)
	assert.Equal(t, 3600, expiresIn)
	assert.Equal(t, 86400, refreshExpiresIn)

	claims, err := svc.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "teacher@example.com", claims.Email)
	assert.Equal(t, string(models.RoleTeacher), claims.RoleType)
	assert.Equal(t, "edusiastic-test", claims.Issuer)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := testJWTService(-time.Minute)

	accessToken, _, _, _, err := svc.GenerateTokenPair(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(accessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	svc := testJWTService(time.Hour)
	other := NewJWTService(JWTConfig{
		SecretKey:       "different-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
	})

	accessToken, _, _, _, err := svc.GenerateTokenPair(testUser())
	require.NoError(t, err)

	_, err = other.ValidateToken(accessToken)
	assert.Error(t, err)
}

func TestValidateAndExtractClaims(t *testing.T) {
	svc := testJWTService(time.Hour)

	_, err := svc.ValidateAndExtractClaims("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateAndExtractClaims("garbage")
	assert.Error(t, err)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	for _, header := range []string{"", "abc.def.ghi", "Basic dXNlcjpwYXNz", "bearer abc"} {
		_, err := ExtractBearerToken(header)
		assert.ErrorIs(t, err, ErrInvalidFormat, "header=%q", header)
	}
}

func TestPasswordHashing(t *testing.T) {
	hashed, err := HashPassword("Passw0rd1")
	require.NoError(t, err)
	assert.NotEqual(t, "Passw0rd1", hashed)

	assert.True(t, CheckPassword(hashed, "Passw0rd1"))
	assert.False(t, CheckPassword(hashed, "Passw0rd2"))
	assert.False(t, CheckPassword("not-a-hash", "Passw0rd1"))
}

package services

import (
	"testing"
	"time"

	"github.com/craterhub/crater-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupJWTService() *JWTService {
	return NewJWTService("test-secret", 15*time.Minute, 168*time.Hour)
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := setupJWTService()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(userID, "user@example.com", models.RoleUser, models.DefaultScopes)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int64((15 * time.Minute).Seconds()), pair.ExpiresIn)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.Equal(t, models.DefaultScopes, claims.Scopes)
}

func TestJWTService_ValidateAccessToken_WrongSecret(t *testing.T) {
	svc := setupJWTService()
	other := NewJWTService("different-secret", 15*time.Minute, 168*time.Hour)

	pair, err := svc.GenerateTokenPair(uuid.New(), "user@example.com", models.RoleUser, models.DefaultScopes)
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestJWTService_ValidateAccessToken_Garbage(t *testing.T) {
	svc := setupJWTService()

	_, err := svc.ValidateAccessToken("not-a-token")

	assert.Error(t, err)
}

func TestJWTService_ValidateAccessToken_Expired(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute, 168*time.Hour)

	pair, err := svc.GenerateTokenPair(uuid.New(), "user@example.com", models.RoleUser, models.DefaultScopes)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestJWTService_ValidateRefreshToken(t *testing.T) {
	svc := setupJWTService()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(userID, "user@example.com", models.RoleUser, models.DefaultScopes)
	require.NoError(t, err)

	got, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestJWTService_ScopesSurviveRoundTrip(t *testing.T) {
	svc := setupJWTService()
	scopes := models.ScopeCollectionRead | models.ScopeCollectionWrite

	pair, err := svc.GenerateTokenPair(uuid.New(), "user@example.com", models.RoleUser, scopes)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.Scopes.Has(models.ScopeCollectionRead))
	assert.True(t, claims.Scopes.Has(models.ScopeCollectionWrite))
	assert.False(t, claims.Scopes.Has(models.ScopeCollectionDelete))
}

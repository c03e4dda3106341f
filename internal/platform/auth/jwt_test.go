package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, time.Hour)
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID, "ana@example.com", RoleAdmin)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestJWTManager_RejectsForeignSecretAndExpiry(t *testing.T) {
	issuer := NewJWTManager("one", time.Minute, time.Hour)
	token, err := issuer.GenerateAccessToken(uuid.New(), "x@example.com", RoleGuest)
	require.NoError(t, err)

	_, err = NewJWTManager("two", time.Minute, time.Hour).ValidateToken(token)
	assert.Error(t, err)

	expired := NewJWTManager("one", -time.Minute, time.Hour)
	token, err = expired.GenerateAccessToken(uuid.New(), "x@example.com", RoleGuest)
	require.NoError(t, err)
	_, err = expired.ValidateToken(token)
	assert.Error(t, err)
}

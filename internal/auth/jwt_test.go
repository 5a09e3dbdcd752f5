package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", 15*time.Minute)
	userID := uuid.New()

	token, err := manager.Generate(userID, RoleRenter)
	require.NoError(t, err)

	claims, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, RoleRenter, claims.Role)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestJWTManager_RejectsWrongSecret(t *testing.T) {
	signer := NewJWTManager("secret-a", 15*time.Minute)
	verifier := NewJWTManager("secret-b", 15*time.Minute)

	token, err := signer.Generate(uuid.New(), RoleStaff)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestJWTManager_RejectsExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute)

	token, err := manager.Generate(uuid.New(), RoleRenter)
	require.NoError(t, err)

	_, err = manager.Verify(token)
	require.Error(t, err)
}

func TestJWTManager_RejectsGarbage(t *testing.T) {
	manager := NewJWTManager("test-secret", 15*time.Minute)

	_, err := manager.Verify("not-a-token")
	require.Error(t, err)
}

func TestJWTManager_RejectsUnknownRole(t *testing.T) {
	manager := NewJWTManager("test-secret", 15*time.Minute)

	token, err := manager.Generate(uuid.New(), Role("courier"))
	require.NoError(t, err)

	_, err = manager.Verify(token)
	require.Error(t, err)
}

func TestRole_IsStaff(t *testing.T) {
	assert.True(t, RoleStaff.IsStaff())
	assert.True(t, RoleAdmin.IsStaff())
	assert.False(t, RoleRenter.IsStaff())
}

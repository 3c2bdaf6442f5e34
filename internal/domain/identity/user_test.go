package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates active user with hashed password", func(t *testing.T) {
		user, err := NewUser("Jane@Example.com", "s3cret-password", "Jane")
		require.NoError(t, err)

		assert.Equal(t, "jane@example.com", user.Email)
		assert.True(t, user.IsActive)
		assert.NotEqual(t, "s3cret-password", user.PasswordHash)
		assert.True(t, user.VerifyPassword("s3cret-password"))
		assert.False(t, user.VerifyPassword("wrong"))
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		_, err := NewUser("not-an-email", "s3cret-password", "")
		require.Error(t, err)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("jane@example.com", "short", "")
		require.Error(t, err)
	})
}

func TestUser_ChangePassword(t *testing.T) {
	user, err := NewUser("jane@example.com", "s3cret-password", "Jane")
	require.NoError(t, err)

	t.Run("rejects wrong current password", func(t *testing.T) {
		err := user.ChangePassword("wrong", "another-password")
		require.Error(t, err)
		assert.True(t, user.VerifyPassword("s3cret-password"))
	})

	t.Run("replaces password when current matches", func(t *testing.T) {
		require.NoError(t, user.ChangePassword("s3cret-password", "another-password"))
		assert.True(t, user.VerifyPassword("another-password"))
		assert.False(t, user.VerifyPassword("s3cret-password"))
	})
}

func TestUser_RecordLogin(t *testing.T) {
	user, err := NewUser("jane@example.com", "s3cret-password", "Jane")
	require.NoError(t, err)
	require.Nil(t, user.LastLoginAt)

	at := time.Now()
	user.RecordLogin(at)
	require.NotNil(t, user.LastLoginAt)
	assert.WithinDuration(t, at, *user.LastLoginAt, time.Second)
}

func TestNewTenantMembership(t *testing.T) {
	userID := uuid.New()
	tenantID := uuid.New()

	t.Run("creates membership with valid role", func(t *testing.T) {
		m, err := NewTenantMembership(userID, tenantID, MemberRoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, userID, m.UserID)
		assert.Equal(t, tenantID, m.TenantID)
		assert.Equal(t, MemberRoleAdmin, m.Role)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewTenantMembership(userID, tenantID, MemberRole("superuser"))
		require.Error(t, err)
	})
}

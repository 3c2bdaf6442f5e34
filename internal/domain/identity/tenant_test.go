package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTenant(t *testing.T) {
	t.Run("creates active tenant with explicit slug", func(t *testing.T) {
		tenant, err := NewTenant("Acme Agency", "acme")
		require.NoError(t, err)

		assert.Equal(t, "Acme Agency", tenant.Name)
		assert.Equal(t, "acme", tenant.Slug)
		assert.True(t, tenant.IsActive)
		assert.Nil(t, tenant.ArchivedAt)
		assert.NotEqual(t, tenant.ID.String(), "00000000-0000-0000-0000-000000000000")
		assert.Len(t, tenant.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeTenantCreated, tenant.GetDomainEvents()[0].EventType())
	})

	t.Run("derives slug from name when omitted", func(t *testing.T) {
		tenant, err := NewTenant("North & South Media", "")
		require.NoError(t, err)
		assert.Equal(t, "north-south-media", tenant.Slug)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewTenant("", "acme")
		require.Error(t, err)
	})

	t.Run("rejects invalid slug", func(t *testing.T) {
		_, err := NewTenant("Acme", "Not A Slug!")
		require.Error(t, err)
	})
}

func TestTenant_ArchiveRestore(t *testing.T) {
	tenant, err := NewTenant("Acme Agency", "acme")
	require.NoError(t, err)
	tenant.ClearDomainEvents()

	t.Run("archive marks inactive and stamps time", func(t *testing.T) {
		require.NoError(t, tenant.Archive())
		assert.True(t, tenant.IsArchived())
		assert.False(t, tenant.IsActive)
		require.NotNil(t, tenant.ArchivedAt)
	})

	t.Run("archiving twice fails", func(t *testing.T) {
		err := tenant.Archive()
		require.Error(t, err)
	})

	t.Run("restore reactivates", func(t *testing.T) {
		require.NoError(t, tenant.Restore())
		assert.False(t, tenant.IsArchived())
		assert.True(t, tenant.IsActive)
	})

	t.Run("restoring a live tenant fails", func(t *testing.T) {
		err := tenant.Restore()
		require.Error(t, err)
	})
}

func TestTenant_Rename(t *testing.T) {
	tenant, err := NewTenant("Acme Agency", "acme")
	require.NoError(t, err)
	before := tenant.GetVersion()

	require.NoError(t, tenant.Rename("Acme Media Group"))
	assert.Equal(t, "Acme Media Group", tenant.Name)
	assert.Greater(t, tenant.GetVersion(), before)

	require.Error(t, tenant.Rename(""))
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Acme Agency":        "acme-agency",
		"  spaced  out  ":    "spaced-out",
		"Already-Slugged":    "already-slugged",
		"Symbols & Co. 2024": "symbols-co-2024",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}

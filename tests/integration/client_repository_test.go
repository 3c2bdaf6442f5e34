package integration

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse/backend/internal/domain/portfolio"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/pulse/backend/internal/infrastructure/persistence"
)

func skipWithoutDocker(t *testing.T) {
	t.Helper()
	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("set TEST_INTEGRATION=1 to run container-backed tests")
	}
}

func TestGormClientRepository(t *testing.T) {
	skipWithoutDocker(t)

	tdb := NewSharedTestDB(t)
	repo := persistence.NewGormClientRepository(tdb.DB)
	ctx := context.Background()

	t.Run("save and find by id", func(t *testing.T) {
		tenantID := uuid.New()
		tdb.CreateTestTenantWithUUID(tenantID)

		client, err := portfolio.NewClient(tenantID, "Acme Retail")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, client))

		found, err := repo.FindByID(ctx, tenantID, client.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Retail", found.Name)
		assert.Equal(t, tenantID, found.TenantID)
	})

	t.Run("not found in other tenant", func(t *testing.T) {
		tenantID := uuid.New()
		tdb.CreateTestTenantWithUUID(tenantID)

		client, err := portfolio.NewClient(tenantID, "Isolated")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, client))

		_, err = repo.FindByID(ctx, uuid.New(), client.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("exists by name is case insensitive", func(t *testing.T) {
		tenantID := uuid.New()
		tdb.CreateTestTenantWithUUID(tenantID)

		client, err := portfolio.NewClient(tenantID, "CasedName")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, client))

		exists, err := repo.ExistsByName(ctx, tenantID, "casedname")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByName(ctx, tenantID, "other")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("find all excludes archived by default", func(t *testing.T) {
		tenantID := uuid.New()
		tdb.CreateTestTenantWithUUID(tenantID)

		active, err := portfolio.NewClient(tenantID, "Active Co")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, active))

		archived, err := portfolio.NewClient(tenantID, "Archived Co")
		require.NoError(t, err)
		require.NoError(t, archived.Archive())
		require.NoError(t, repo.Save(ctx, archived))

		clients, err := repo.FindAll(ctx, tenantID, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, clients, 1)
		assert.Equal(t, "Active Co", clients[0].Name)

		withArchived := shared.DefaultFilter()
		withArchived.Filters["include_archived"] = true
		clients, err = repo.FindAll(ctx, tenantID, withArchived)
		require.NoError(t, err)
		assert.Len(t, clients, 2)
	})

	t.Run("delete removes the row", func(t *testing.T) {
		tenantID := uuid.New()
		tdb.CreateTestTenantWithUUID(tenantID)

		client, err := portfolio.NewClient(tenantID, "Short Lived")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, client))

		require.NoError(t, repo.Delete(ctx, tenantID, client.ID))

		_, err = repo.FindByID(ctx, tenantID, client.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		assert.ErrorIs(t, repo.Delete(ctx, tenantID, client.ID), shared.ErrNotFound)
	})
}

func TestMain(m *testing.M) {
	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}

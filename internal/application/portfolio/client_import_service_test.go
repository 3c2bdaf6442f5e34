package portfolio

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pulse/backend/internal/domain/portfolio"
	"github.com/pulse/backend/internal/domain/shared"
)

type fakeClientRepo struct {
	clients map[uuid.UUID]*portfolio.Client
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: make(map[uuid.UUID]*portfolio.Client)}
}

func (r *fakeClientRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*portfolio.Client, error) {
	if c, ok := r.clients[id]; ok && c.TenantID == tenantID {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeClientRepo) FindAll(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]portfolio.Client, error) {
	var out []portfolio.Client
	for _, c := range r.clients {
		if c.TenantID == tenantID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeClientRepo) FindByIDs(_ context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]portfolio.Client, error) {
	var out []portfolio.Client
	for _, id := range ids {
		if c, ok := r.clients[id]; ok && c.TenantID == tenantID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeClientRepo) FindActive(_ context.Context, tenantID uuid.UUID) ([]portfolio.Client, error) {
	var out []portfolio.Client
	for _, c := range r.clients {
		if c.TenantID == tenantID && c.IsActive {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeClientRepo) Save(_ context.Context, client *portfolio.Client) error {
	copied := *client
	r.clients[client.ID] = &copied
	return nil
}

func (r *fakeClientRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	delete(r.clients, id)
	return nil
}

func (r *fakeClientRepo) Count(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, c := range r.clients {
		if c.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (r *fakeClientRepo) ExistsByName(_ context.Context, tenantID uuid.UUID, name string) (bool, error) {
	for _, c := range r.clients {
		if c.TenantID == tenantID && c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

type fakeGroupRepo struct {
	groups map[uuid.UUID]*portfolio.ClientGroup
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: make(map[uuid.UUID]*portfolio.ClientGroup)}
}

func (r *fakeGroupRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*portfolio.ClientGroup, error) {
	if g, ok := r.groups[id]; ok && g.TenantID == tenantID {
		return g, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeGroupRepo) FindAll(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]portfolio.ClientGroup, error) {
	var out []portfolio.ClientGroup
	for _, g := range r.groups {
		if g.TenantID == tenantID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *fakeGroupRepo) FindByCategory(_ context.Context, tenantID uuid.UUID, category portfolio.GroupCategory, value string) (*portfolio.ClientGroup, error) {
	for _, g := range r.groups {
		if g.TenantID == tenantID && g.CategoryType == category && g.CategoryValue == value {
			return g, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeGroupRepo) Save(_ context.Context, group *portfolio.ClientGroup) error {
	copied := *group
	r.groups[group.ID] = &copied
	return nil
}

func (r *fakeGroupRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	delete(r.groups, id)
	return nil
}

func (r *fakeGroupRepo) Count(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	return int64(len(r.groups)), nil
}

func newImportFixture() (*ClientImportService, *fakeClientRepo) {
	clientRepo := newFakeClientRepo()
	groupRepo := newFakeGroupRepo()
	clientService := NewClientService(clientRepo, groupRepo, zap.NewNop())
	importService := NewClientImportService(clientService, clientRepo, zap.NewNop())
	return importService, clientRepo
}

func TestClientImportService_ImportCSV(t *testing.T) {
	ctx := context.Background()

	t.Run("imports valid rows", func(t *testing.T) {
		svc, repo := newImportFixture()
		tenantID := uuid.New()

		csv := "name,website,industry\nAcme,https://acme.example,retail\nBolt,https://bolt.example,technology"
		result, err := svc.ImportCSV(ctx, tenantID, uuid.New(), "clients.csv", strings.NewReader(csv), int64(len(csv)), false)

		require.NoError(t, err)
		assert.Equal(t, 2, result.TotalRows)
		assert.Equal(t, 2, result.Imported)
		assert.Equal(t, 0, result.Skipped)
		assert.Empty(t, result.Errors)

		exists, _ := repo.ExistsByName(ctx, tenantID, "Acme")
		assert.True(t, exists)
		exists, _ = repo.ExistsByName(ctx, tenantID, "Bolt")
		assert.True(t, exists)
	})

	t.Run("dry run validates without creating", func(t *testing.T) {
		svc, repo := newImportFixture()
		tenantID := uuid.New()

		csv := "name,website\nAcme,https://acme.example"
		result, err := svc.ImportCSV(ctx, tenantID, uuid.New(), "clients.csv", strings.NewReader(csv), int64(len(csv)), true)

		require.NoError(t, err)
		assert.True(t, result.DryRun)
		assert.Equal(t, 1, result.TotalRows)
		assert.Equal(t, 0, result.Imported)

		exists, _ := repo.ExistsByName(ctx, tenantID, "Acme")
		assert.False(t, exists)
	})

	t.Run("skips names that already exist", func(t *testing.T) {
		svc, repo := newImportFixture()
		tenantID := uuid.New()

		existing, err := portfolio.NewClient(tenantID, "Acme")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, existing))

		csv := "name\nAcme\nBolt"
		result, err := svc.ImportCSV(ctx, tenantID, uuid.New(), "clients.csv", strings.NewReader(csv), int64(len(csv)), false)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Imported)
		assert.Equal(t, 1, result.Skipped)
		require.NotEmpty(t, result.Errors)
		assert.Equal(t, 2, result.Errors[0].Row)
	})

	t.Run("skips duplicate names within the file", func(t *testing.T) {
		svc, _ := newImportFixture()
		tenantID := uuid.New()

		csv := "name\nAcme\nAcme"
		result, err := svc.ImportCSV(ctx, tenantID, uuid.New(), "clients.csv", strings.NewReader(csv), int64(len(csv)), false)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Imported)
		assert.Equal(t, 1, result.Skipped)
	})

	t.Run("rejects file without name column", func(t *testing.T) {
		svc, _ := newImportFixture()

		csv := "website,industry\nhttps://acme.example,retail"
		_, err := svc.ImportCSV(ctx, uuid.New(), uuid.New(), "clients.csv", strings.NewReader(csv), int64(len(csv)), false)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "MISSING_COLUMNS", domainErr.Code)
	})

	t.Run("rejects empty file", func(t *testing.T) {
		svc, _ := newImportFixture()

		csv := "name,website\n"
		_, err := svc.ImportCSV(ctx, uuid.New(), uuid.New(), "clients.csv", strings.NewReader(csv), int64(len(csv)), false)

		require.Error(t, err)
	})

	t.Run("reports rows the profile validation rejects", func(t *testing.T) {
		svc, _ := newImportFixture()
		tenantID := uuid.New()

		csv := "name,industry\nAcme,not_a_vertical"
		result, err := svc.ImportCSV(ctx, tenantID, uuid.New(), "clients.csv", strings.NewReader(csv), int64(len(csv)), false)

		require.NoError(t, err)
		assert.Equal(t, 0, result.Imported)
		assert.Equal(t, 1, result.Skipped)
		assert.NotEmpty(t, result.Errors)
	})

	t.Run("rejects oversized files", func(t *testing.T) {
		svc, _ := newImportFixture()

		_, err := svc.ImportCSV(ctx, uuid.New(), uuid.New(), "clients.csv", strings.NewReader("name\nAcme"), MaxImportFileSize+1, false)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "FILE_TOO_LARGE", domainErr.Code)
	})
}

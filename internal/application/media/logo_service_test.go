package media

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pulse/backend/internal/domain/identity"
	"github.com/pulse/backend/internal/domain/portfolio"
	"github.com/pulse/backend/internal/domain/shared"
)

type fakeTenantRepo struct {
	tenants map[uuid.UUID]*identity.Tenant
	saved   *identity.Tenant
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{tenants: make(map[uuid.UUID]*identity.Tenant)}
}

func (r *fakeTenantRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.Tenant, error) {
	if t, ok := r.tenants[id]; ok {
		return t, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTenantRepo) FindBySlug(context.Context, string) (*identity.Tenant, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeTenantRepo) FindAll(context.Context, shared.Filter) ([]identity.Tenant, error) {
	return nil, nil
}

func (r *fakeTenantRepo) FindByIDs(context.Context, []uuid.UUID) ([]identity.Tenant, error) {
	return nil, nil
}

func (r *fakeTenantRepo) Save(_ context.Context, tenant *identity.Tenant) error {
	r.saved = tenant
	r.tenants[tenant.ID] = tenant
	return nil
}

func (r *fakeTenantRepo) Delete(context.Context, uuid.UUID) error { return nil }

func (r *fakeTenantRepo) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }

func (r *fakeTenantRepo) ExistsBySlug(context.Context, string) (bool, error) { return false, nil }

type fakeClientRepo struct {
	clients map[uuid.UUID]*portfolio.Client
	saved   *portfolio.Client
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

func (r *fakeClientRepo) FindAll(context.Context, uuid.UUID, shared.Filter) ([]portfolio.Client, error) {
	return nil, nil
}

func (r *fakeClientRepo) FindByIDs(context.Context, uuid.UUID, []uuid.UUID) ([]portfolio.Client, error) {
	return nil, nil
}

func (r *fakeClientRepo) FindActive(context.Context, uuid.UUID) ([]portfolio.Client, error) {
	return nil, nil
}

func (r *fakeClientRepo) Save(_ context.Context, client *portfolio.Client) error {
	r.saved = client
	r.clients[client.ID] = client
	return nil
}

func (r *fakeClientRepo) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (r *fakeClientRepo) Count(context.Context, uuid.UUID, shared.Filter) (int64, error) {
	return 0, nil
}

func (r *fakeClientRepo) ExistsByName(context.Context, uuid.UUID, string) (bool, error) {
	return false, nil
}

// fakeStorage records presign calls and lets tests control object existence
type fakeStorage struct {
	exists     bool
	presignKey string
}

func (s *fakeStorage) GenerateUploadURL(_ context.Context, storageKey, _ string, expiresIn time.Duration) (string, time.Time, error) {
	s.presignKey = storageKey
	return "https://storage.test/upload/" + storageKey, time.Now().Add(expiresIn), nil
}

func (s *fakeStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://storage.test/download/" + storageKey, time.Now().Add(expiresIn), nil
}

func (s *fakeStorage) DeleteObject(context.Context, string) error { return nil }

func (s *fakeStorage) ObjectExists(context.Context, string) (bool, error) {
	return s.exists, nil
}

func newTestLogoService(t *testing.T) (*LogoService, *fakeTenantRepo, *fakeClientRepo, *fakeStorage) {
	t.Helper()
	tenantRepo := newFakeTenantRepo()
	clientRepo := newFakeClientRepo()
	storage := &fakeStorage{exists: true}
	svc := NewLogoService(tenantRepo, clientRepo, storage, LogoServiceConfig{
		UploadURLExpiry: 10 * time.Minute,
		PublicBaseURL:   "https://cdn.test/",
	}, zap.NewNop())
	return svc, tenantRepo, clientRepo, storage
}

func TestLogoService_InitiateTenantLogoUpload(t *testing.T) {
	svc, tenantRepo, _, storage := newTestLogoService(t)

	tenant, err := identity.NewTenant("Acme Agency", "acme")
	require.NoError(t, err)
	tenantRepo.tenants[tenant.ID] = tenant

	dto, err := svc.InitiateTenantLogoUpload(context.Background(), tenant.ID, "image/png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(dto.StorageKey, "tenants/"+tenant.ID.String()+"/logos/"))
	assert.True(t, strings.HasSuffix(dto.StorageKey, ".png"))
	assert.Equal(t, dto.StorageKey, storage.presignKey)
	assert.Contains(t, dto.UploadURL, dto.StorageKey)
	assert.True(t, dto.ExpiresAt.After(time.Now()))
}

func TestLogoService_InitiateTenantLogoUpload_RejectsContentTypes(t *testing.T) {
	svc, tenantRepo, _, _ := newTestLogoService(t)

	tenant, err := identity.NewTenant("Acme Agency", "acme")
	require.NoError(t, err)
	tenantRepo.tenants[tenant.ID] = tenant

	for _, contentType := range []string{"image/svg+xml", "application/pdf", "text/html", ""} {
		_, err := svc.InitiateTenantLogoUpload(context.Background(), tenant.ID, contentType)
		require.Error(t, err, "content type %q should be rejected", contentType)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNSUPPORTED_CONTENT_TYPE", domainErr.Code)
	}
}

func TestLogoService_InitiateTenantLogoUpload_TenantNotFound(t *testing.T) {
	svc, _, _, _ := newTestLogoService(t)

	_, err := svc.InitiateTenantLogoUpload(context.Background(), uuid.New(), "image/png")
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "TENANT_NOT_FOUND", domainErr.Code)
}

func TestLogoService_ConfirmTenantLogoUpload(t *testing.T) {
	svc, tenantRepo, _, _ := newTestLogoService(t)

	tenant, err := identity.NewTenant("Acme Agency", "acme")
	require.NoError(t, err)
	tenantRepo.tenants[tenant.ID] = tenant

	key := "tenants/" + tenant.ID.String() + "/logos/abc.png"
	url, err := svc.ConfirmTenantLogoUpload(context.Background(), tenant.ID, key)
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.test/"+key, url)
	require.NotNil(t, tenantRepo.saved)
	assert.Equal(t, url, tenantRepo.saved.LogoURL)
}

func TestLogoService_ConfirmTenantLogoUpload_WrongTenantKey(t *testing.T) {
	svc, tenantRepo, _, _ := newTestLogoService(t)

	tenant, err := identity.NewTenant("Acme Agency", "acme")
	require.NoError(t, err)
	tenantRepo.tenants[tenant.ID] = tenant

	otherKey := "tenants/" + uuid.New().String() + "/logos/abc.png"
	_, err = svc.ConfirmTenantLogoUpload(context.Background(), tenant.ID, otherKey)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STORAGE_KEY", domainErr.Code)
}

func TestLogoService_ConfirmTenantLogoUpload_MissingObject(t *testing.T) {
	svc, tenantRepo, _, storage := newTestLogoService(t)
	storage.exists = false

	tenant, err := identity.NewTenant("Acme Agency", "acme")
	require.NoError(t, err)
	tenantRepo.tenants[tenant.ID] = tenant

	key := "tenants/" + tenant.ID.String() + "/logos/abc.png"
	_, err = svc.ConfirmTenantLogoUpload(context.Background(), tenant.ID, key)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UPLOAD_NOT_FOUND", domainErr.Code)
}

func TestLogoService_ClientLogoFlow(t *testing.T) {
	svc, _, clientRepo, _ := newTestLogoService(t)

	tenantID := uuid.New()
	client, err := portfolio.NewClient(tenantID, "Globex")
	require.NoError(t, err)
	clientRepo.clients[client.ID] = client

	dto, err := svc.InitiateClientLogoUpload(context.Background(), tenantID, client.ID, "image/webp")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dto.StorageKey,
		"tenants/"+tenantID.String()+"/clients/"+client.ID.String()+"/logos/"))
	assert.True(t, strings.HasSuffix(dto.StorageKey, ".webp"))

	url, err := svc.ConfirmClientLogoUpload(context.Background(), tenantID, client.ID, dto.StorageKey)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/"+dto.StorageKey, url)
	require.NotNil(t, clientRepo.saved)
	assert.Equal(t, url, clientRepo.saved.LogoURL)
}

func TestLogoService_ClientLogoUpload_ClientNotFound(t *testing.T) {
	svc, _, _, _ := newTestLogoService(t)

	_, err := svc.InitiateClientLogoUpload(context.Background(), uuid.New(), uuid.New(), "image/png")
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CLIENT_NOT_FOUND", domainErr.Code)
}

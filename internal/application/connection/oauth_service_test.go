package connection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pulse/backend/internal/domain/connection"
	"github.com/pulse/backend/internal/domain/shared"
)

// fakePlatform implements connection.AdsPlatform with overridable hooks so
// each test controls only the calls it cares about.
type fakePlatform struct {
	code            connection.PlatformCode
	refreshFn       func(ctx context.Context, refreshToken string) (*connection.OAuthToken, error)
	listCustomersFn func(ctx context.Context, accessToken string) ([]string, error)
	accountInfoFn   func(ctx context.Context, accessToken, customerID string) (*connection.AccountInfo, error)
	childAccountsFn func(ctx context.Context, accessToken, managerID string) ([]connection.AccountInfo, error)
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{code: connection.PlatformGoogleAds}
}

func (p *fakePlatform) Code() connection.PlatformCode { return p.code }

func (p *fakePlatform) AuthCodeURL(state string) string {
	return "https://accounts.example.test/authorize?state=" + state
}

func (p *fakePlatform) ExchangeCode(_ context.Context, _ string) (*connection.OAuthToken, error) {
	return &connection.OAuthToken{AccessToken: "exchanged", RefreshToken: "refresh"}, nil
}

func (p *fakePlatform) Refresh(ctx context.Context, refreshToken string) (*connection.OAuthToken, error) {
	if p.refreshFn != nil {
		return p.refreshFn(ctx, refreshToken)
	}
	return &connection.OAuthToken{AccessToken: "refreshed", Expiry: time.Now().Add(time.Hour)}, nil
}

func (p *fakePlatform) Revoke(_ context.Context, _ string) error { return nil }

func (p *fakePlatform) AccountEmail(_ context.Context, _ *connection.OAuthToken) (string, error) {
	return "ops@agency.test", nil
}

func (p *fakePlatform) ListAccessibleCustomers(ctx context.Context, accessToken string) ([]string, error) {
	if p.listCustomersFn != nil {
		return p.listCustomersFn(ctx, accessToken)
	}
	return nil, nil
}

func (p *fakePlatform) GetAccountInfo(ctx context.Context, accessToken, customerID string) (*connection.AccountInfo, error) {
	if p.accountInfoFn != nil {
		return p.accountInfoFn(ctx, accessToken, customerID)
	}
	return &connection.AccountInfo{CustomerID: customerID, Name: "Account " + customerID}, nil
}

func (p *fakePlatform) ListChildAccounts(ctx context.Context, accessToken, managerID string) ([]connection.AccountInfo, error) {
	if p.childAccountsFn != nil {
		return p.childAccountsFn(ctx, accessToken, managerID)
	}
	return nil, nil
}

func (p *fakePlatform) FetchCampaigns(_ context.Context, _, _ string, _ connection.DateRange) ([]connection.CampaignSnapshot, error) {
	return nil, nil
}

func (p *fakePlatform) FetchAdGroups(_ context.Context, _, _ string) ([]connection.AdGroupInfo, error) {
	return nil, nil
}

func (p *fakePlatform) FetchDailyMetrics(_ context.Context, _, _ string, _, _ time.Time) ([]connection.DailyMetrics, error) {
	return nil, nil
}

type fakeConnectionRepo struct {
	connections map[uuid.UUID]*connection.PlatformConnection
}

func newFakeConnectionRepo() *fakeConnectionRepo {
	return &fakeConnectionRepo{connections: make(map[uuid.UUID]*connection.PlatformConnection)}
}

func (r *fakeConnectionRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*connection.PlatformConnection, error) {
	if c, ok := r.connections[id]; ok && c.TenantID == tenantID {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeConnectionRepo) FindByTenant(_ context.Context, tenantID uuid.UUID) ([]connection.PlatformConnection, error) {
	var out []connection.PlatformConnection
	for _, c := range r.connections {
		if c.TenantID == tenantID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeConnectionRepo) FindByAccount(_ context.Context, tenantID uuid.UUID, code connection.PlatformCode, accountEmail string) (*connection.PlatformConnection, error) {
	for _, c := range r.connections {
		if c.TenantID == tenantID && c.PlatformCode == code && c.AccountEmail == accountEmail {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeConnectionRepo) FindActiveByPlatform(_ context.Context, tenantID uuid.UUID, code connection.PlatformCode) ([]connection.PlatformConnection, error) {
	var out []connection.PlatformConnection
	for _, c := range r.connections {
		if c.TenantID == tenantID && c.PlatformCode == code && c.Status == connection.StatusActive {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeConnectionRepo) FindAllSyncable(_ context.Context) ([]connection.PlatformConnection, error) {
	var out []connection.PlatformConnection
	for _, c := range r.connections {
		if c.CanSync() {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeConnectionRepo) Save(_ context.Context, conn *connection.PlatformConnection) error {
	copied := *conn
	r.connections[conn.ID] = &copied
	return nil
}

func (r *fakeConnectionRepo) Delete(_ context.Context, _, id uuid.UUID) error {
	delete(r.connections, id)
	return nil
}

type stubPlatformTypeRepo struct{}

func (r *stubPlatformTypeRepo) FindAll(_ context.Context) ([]connection.PlatformType, error) {
	return nil, nil
}

func (r *stubPlatformTypeRepo) FindByCode(_ context.Context, _ connection.PlatformCode) (*connection.PlatformType, error) {
	return nil, shared.ErrNotFound
}

func (r *stubPlatformTypeRepo) Save(_ context.Context, _ *connection.PlatformType) error { return nil }

type memoryStateStore struct {
	states map[string]StatePayload
}

func newMemoryStateStore() *memoryStateStore {
	return &memoryStateStore{states: make(map[string]StatePayload)}
}

func (s *memoryStateStore) Put(_ context.Context, state string, payload StatePayload, _ time.Duration) error {
	s.states[state] = payload
	return nil
}

func (s *memoryStateStore) Take(_ context.Context, state string) (*StatePayload, error) {
	payload, ok := s.states[state]
	if !ok {
		return nil, shared.ErrNotFound
	}
	delete(s.states, state)
	return &payload, nil
}

func newOAuthServiceForTest(platform *fakePlatform, connRepo *fakeConnectionRepo) *OAuthService {
	registry := connection.NewPlatformRegistry()
	registry.Register(platform)
	return NewOAuthService(registry, connRepo, &stubPlatformTypeRepo{}, newMemoryStateStore(), zap.NewNop())
}

// expiringConnection builds an active connection whose access token is past
// its expiry, so every use forces a refresh.
func expiringConnection(t *testing.T, tenantID uuid.UUID) *connection.PlatformConnection {
	t.Helper()
	conn, err := connection.NewPlatformConnection(tenantID, connection.PlatformGoogleAds, "ops@agency.test", connection.OAuthToken{
		AccessToken:  "stale-token",
		RefreshToken: "refresh-token",
		Expiry:       time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
	return conn
}

func TestOAuthService_EnsureFreshToken(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("refreshes an expiring token", func(t *testing.T) {
		platform := newFakePlatform()
		connRepo := newFakeConnectionRepo()
		svc := newOAuthServiceForTest(platform, connRepo)

		conn := expiringConnection(t, tenantID)
		require.NoError(t, connRepo.Save(ctx, conn))

		token, err := svc.EnsureFreshToken(ctx, conn)
		require.NoError(t, err)
		assert.Equal(t, "refreshed", token)
		assert.Equal(t, connection.StatusActive, conn.Status)

		saved, err := connRepo.FindByID(ctx, tenantID, conn.ID)
		require.NoError(t, err)
		assert.Equal(t, "refreshed", saved.AccessToken)
	})

	t.Run("returns the current token when not near expiry", func(t *testing.T) {
		platform := newFakePlatform()
		platform.refreshFn = func(_ context.Context, _ string) (*connection.OAuthToken, error) {
			t.Fatal("refresh must not be called for a fresh token")
			return nil, nil
		}
		svc := newOAuthServiceForTest(platform, newFakeConnectionRepo())

		conn, err := connection.NewPlatformConnection(tenantID, connection.PlatformGoogleAds, "ops@agency.test", connection.OAuthToken{
			AccessToken:  "fresh-token",
			RefreshToken: "refresh-token",
			Expiry:       time.Now().Add(time.Hour),
		})
		require.NoError(t, err)

		token, err := svc.EnsureFreshToken(ctx, conn)
		require.NoError(t, err)
		assert.Equal(t, "fresh-token", token)
	})

	t.Run("marks the connection errored when refresh fails", func(t *testing.T) {
		platform := newFakePlatform()
		platform.refreshFn = func(_ context.Context, _ string) (*connection.OAuthToken, error) {
			return nil, errors.New("invalid_grant")
		}
		connRepo := newFakeConnectionRepo()
		svc := newOAuthServiceForTest(platform, connRepo)

		conn := expiringConnection(t, tenantID)
		require.NoError(t, connRepo.Save(ctx, conn))

		_, err := svc.EnsureFreshToken(ctx, conn)
		require.ErrorIs(t, err, shared.ErrTokenExpired)

		assert.Equal(t, connection.StatusError, conn.Status)
		assert.Contains(t, conn.StatusMessage, "invalid_grant")

		saved, findErr := connRepo.FindByID(ctx, tenantID, conn.ID)
		require.NoError(t, findErr)
		assert.Equal(t, connection.StatusError, saved.Status)
	})

	t.Run("refuses a disconnected connection", func(t *testing.T) {
		platform := newFakePlatform()
		svc := newOAuthServiceForTest(platform, newFakeConnectionRepo())

		conn := expiringConnection(t, tenantID)
		conn.Disconnect()

		_, err := svc.EnsureFreshToken(ctx, conn)
		require.ErrorIs(t, err, shared.ErrNotConnected)
	})
}

func TestOAuthService_HandleCallback(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()

	platform := newFakePlatform()
	connRepo := newFakeConnectionRepo()
	svc := newOAuthServiceForTest(platform, connRepo)

	auth, err := svc.Authorize(ctx, tenantID, userID, string(connection.PlatformGoogleAds))
	require.NoError(t, err)
	require.NotEmpty(t, auth.State)
	assert.Contains(t, auth.AuthorizationURL, auth.State)

	dto, err := svc.HandleCallback(ctx, CallbackInput{State: auth.State, Code: "auth-code"})
	require.NoError(t, err)
	assert.Equal(t, "ops@agency.test", dto.AccountEmail)
	assert.Equal(t, string(connection.StatusActive), dto.Status)

	// the connection records who connected it
	saved, err := connRepo.FindByAccount(ctx, tenantID, connection.PlatformGoogleAds, "ops@agency.test")
	require.NoError(t, err)
	require.NotNil(t, saved.CreatedBy)
	assert.Equal(t, userID, *saved.CreatedBy)

	// a state token is single use
	_, err = svc.HandleCallback(ctx, CallbackInput{State: auth.State, Code: "auth-code"})
	require.Error(t, err)
}

package ads

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appconnection "github.com/pulse/backend/internal/application/connection"
	"github.com/pulse/backend/internal/domain/ads"
	"github.com/pulse/backend/internal/domain/connection"
	"github.com/pulse/backend/internal/domain/shared"
)

// syncPlatform implements connection.AdsPlatform with hooks for the fetch
// calls the sync exercises.
type syncPlatform struct {
	fetchCampaignsFn func(ctx context.Context, accessToken, customerID string, rng connection.DateRange) ([]connection.CampaignSnapshot, error)
	fetchDailyFn     func(ctx context.Context, accessToken, customerID string, from, to time.Time) ([]connection.DailyMetrics, error)
	campaignCalls    int
}

func (p *syncPlatform) Code() connection.PlatformCode { return connection.PlatformGoogleAds }

func (p *syncPlatform) AuthCodeURL(state string) string { return "https://example.test?state=" + state }

func (p *syncPlatform) ExchangeCode(_ context.Context, _ string) (*connection.OAuthToken, error) {
	return nil, errors.New("not used")
}

func (p *syncPlatform) Refresh(_ context.Context, _ string) (*connection.OAuthToken, error) {
	return nil, errors.New("not used")
}

func (p *syncPlatform) Revoke(_ context.Context, _ string) error { return nil }

func (p *syncPlatform) AccountEmail(_ context.Context, _ *connection.OAuthToken) (string, error) {
	return "ops@agency.test", nil
}

func (p *syncPlatform) ListAccessibleCustomers(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

func (p *syncPlatform) GetAccountInfo(_ context.Context, _, _ string) (*connection.AccountInfo, error) {
	return nil, shared.ErrNotFound
}

func (p *syncPlatform) ListChildAccounts(_ context.Context, _, _ string) ([]connection.AccountInfo, error) {
	return nil, nil
}

func (p *syncPlatform) FetchCampaigns(ctx context.Context, accessToken, customerID string, rng connection.DateRange) ([]connection.CampaignSnapshot, error) {
	p.campaignCalls++
	if p.fetchCampaignsFn != nil {
		return p.fetchCampaignsFn(ctx, accessToken, customerID, rng)
	}
	return nil, nil
}

func (p *syncPlatform) FetchAdGroups(_ context.Context, _, _ string) ([]connection.AdGroupInfo, error) {
	return nil, nil
}

func (p *syncPlatform) FetchDailyMetrics(ctx context.Context, accessToken, customerID string, from, to time.Time) ([]connection.DailyMetrics, error) {
	if p.fetchDailyFn != nil {
		return p.fetchDailyFn(ctx, accessToken, customerID, from, to)
	}
	return nil, nil
}

type syncConnRepo struct {
	connections map[uuid.UUID]*connection.PlatformConnection
}

func (r *syncConnRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*connection.PlatformConnection, error) {
	if c, ok := r.connections[id]; ok && c.TenantID == tenantID {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (r *syncConnRepo) FindByTenant(_ context.Context, _ uuid.UUID) ([]connection.PlatformConnection, error) {
	return nil, nil
}

func (r *syncConnRepo) FindByAccount(_ context.Context, _ uuid.UUID, _ connection.PlatformCode, _ string) (*connection.PlatformConnection, error) {
	return nil, shared.ErrNotFound
}

func (r *syncConnRepo) FindActiveByPlatform(_ context.Context, _ uuid.UUID, _ connection.PlatformCode) ([]connection.PlatformConnection, error) {
	return nil, nil
}

func (r *syncConnRepo) FindAllSyncable(_ context.Context) ([]connection.PlatformConnection, error) {
	var out []connection.PlatformConnection
	for _, c := range r.connections {
		if c.CanSync() {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *syncConnRepo) Save(_ context.Context, conn *connection.PlatformConnection) error {
	copied := *conn
	r.connections[conn.ID] = &copied
	return nil
}

func (r *syncConnRepo) Delete(_ context.Context, _, id uuid.UUID) error {
	delete(r.connections, id)
	return nil
}

type platformCatalogStub struct{}

func (r *platformCatalogStub) FindAll(_ context.Context) ([]connection.PlatformType, error) {
	return nil, nil
}

func (r *platformCatalogStub) FindByCode(_ context.Context, _ connection.PlatformCode) (*connection.PlatformType, error) {
	return nil, shared.ErrNotFound
}

func (r *platformCatalogStub) Save(_ context.Context, _ *connection.PlatformType) error { return nil }

type stateStoreStub struct{}

func (s *stateStoreStub) Put(_ context.Context, _ string, _ appconnection.StatePayload, _ time.Duration) error {
	return nil
}

func (s *stateStoreStub) Take(_ context.Context, _ string) (*appconnection.StatePayload, error) {
	return nil, shared.ErrNotFound
}

type campaignStore struct {
	campaigns map[uuid.UUID]*ads.Campaign
}

func newCampaignStore() *campaignStore {
	return &campaignStore{campaigns: make(map[uuid.UUID]*ads.Campaign)}
}

func (r *campaignStore) FindByID(_ context.Context, tenantID, id uuid.UUID) (*ads.Campaign, error) {
	if c, ok := r.campaigns[id]; ok && c.TenantID == tenantID {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (r *campaignStore) FindByAccount(_ context.Context, tenantID, clientAccountID uuid.UUID, _ shared.Filter) ([]ads.Campaign, error) {
	var out []ads.Campaign
	for _, c := range r.campaigns {
		if c.TenantID == tenantID && c.ClientAccountID == clientAccountID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *campaignStore) FindByAccounts(_ context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]ads.Campaign, error) {
	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []ads.Campaign
	for _, c := range r.campaigns {
		if c.TenantID == tenantID && wanted[c.ClientAccountID] {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *campaignStore) FindByPlatformID(_ context.Context, tenantID, clientAccountID uuid.UUID, platformCampaignID string) (*ads.Campaign, error) {
	for _, c := range r.campaigns {
		if c.TenantID == tenantID && c.ClientAccountID == clientAccountID && c.PlatformCampaignID == platformCampaignID {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *campaignStore) Save(_ context.Context, c *ads.Campaign) error {
	copied := *c
	r.campaigns[c.ID] = &copied
	return nil
}

func (r *campaignStore) Count(_ context.Context, _, _ uuid.UUID) (int64, error) {
	return int64(len(r.campaigns)), nil
}

type adGroupStoreStub struct{}

func (r *adGroupStoreStub) FindByCampaign(_ context.Context, _, _ uuid.UUID) ([]ads.AdGroup, error) {
	return nil, nil
}

func (r *adGroupStoreStub) FindByPlatformID(_ context.Context, _, _ uuid.UUID, _ string) (*ads.AdGroup, error) {
	return nil, shared.ErrNotFound
}

func (r *adGroupStoreStub) Save(_ context.Context, _ *ads.AdGroup) error { return nil }

type snapshotStore struct {
	snapshots map[string]*ads.MetricSnapshot // campaignID + range
}

func newSnapshotStore() *snapshotStore {
	return &snapshotStore{snapshots: make(map[string]*ads.MetricSnapshot)}
}

func snapKey(campaignID uuid.UUID, rng connection.DateRange) string {
	return campaignID.String() + "|" + string(rng)
}

func (r *snapshotStore) Find(_ context.Context, tenantID, campaignID uuid.UUID, rng connection.DateRange) (*ads.MetricSnapshot, error) {
	if s, ok := r.snapshots[snapKey(campaignID, rng)]; ok && s.TenantID == tenantID {
		return s, nil
	}
	return nil, shared.ErrNotFound
}

func (r *snapshotStore) FindByCampaigns(_ context.Context, tenantID uuid.UUID, campaignIDs []uuid.UUID, rng connection.DateRange) ([]ads.MetricSnapshot, error) {
	var out []ads.MetricSnapshot
	for _, id := range campaignIDs {
		if s, ok := r.snapshots[snapKey(id, rng)]; ok && s.TenantID == tenantID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *snapshotStore) Save(_ context.Context, s *ads.MetricSnapshot) error {
	copied := *s
	r.snapshots[snapKey(s.CampaignID, s.Range)] = &copied
	return nil
}

type dailyStore struct {
	rows []ads.DailyMetric
}

func (r *dailyStore) Find(_ context.Context, tenantID, campaignID uuid.UUID, date time.Time) (*ads.DailyMetric, error) {
	for i := range r.rows {
		row := &r.rows[i]
		if row.TenantID == tenantID && row.CampaignID == campaignID && row.Date.Equal(date) {
			return row, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *dailyStore) FindRange(_ context.Context, _ uuid.UUID, _ []uuid.UUID, _, _ time.Time) ([]ads.DailyMetric, error) {
	return nil, nil
}

func (r *dailyStore) Save(_ context.Context, m *ads.DailyMetric) error {
	r.rows = append(r.rows, *m)
	return nil
}

func (r *dailyStore) SaveAll(_ context.Context, metrics []*ads.DailyMetric) error {
	for _, m := range metrics {
		r.rows = append(r.rows, *m)
	}
	return nil
}

func (r *dailyStore) SumCost(_ context.Context, _ uuid.UUID, _ []uuid.UUID, _, _ time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (r *dailyStore) SumCostByDay(_ context.Context, _ uuid.UUID, _ []uuid.UUID, _, _ time.Time) ([]ads.DailySpend, error) {
	return nil, nil
}

type freshnessStore struct {
	rows map[string]*ads.DataFreshness // accountID + range
}

func newFreshnessStore() *freshnessStore {
	return &freshnessStore{rows: make(map[string]*ads.DataFreshness)}
}

func freshKey(accountID uuid.UUID, rng connection.DateRange) string {
	return accountID.String() + "|" + string(rng)
}

func (r *freshnessStore) Find(_ context.Context, tenantID, clientAccountID uuid.UUID, rng connection.DateRange) (*ads.DataFreshness, error) {
	if f, ok := r.rows[freshKey(clientAccountID, rng)]; ok && f.TenantID == tenantID {
		return f, nil
	}
	return nil, shared.ErrNotFound
}

func (r *freshnessStore) FindByTenant(_ context.Context, tenantID uuid.UUID) ([]ads.DataFreshness, error) {
	var out []ads.DataFreshness
	for _, f := range r.rows {
		if f.TenantID == tenantID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *freshnessStore) Save(_ context.Context, f *ads.DataFreshness) error {
	copied := *f
	r.rows[freshKey(f.ClientAccountID, f.Range)] = &copied
	return nil
}

type syncFixture struct {
	service   *SyncService
	platform  *syncPlatform
	campaigns *campaignStore
	snapshots *snapshotStore
	daily     *dailyStore
	freshness *freshnessStore
	links     *fakeClientAccountRepo
	tenantID  uuid.UUID
	linkID    uuid.UUID
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()

	platform := &syncPlatform{}
	registry := connection.NewPlatformRegistry()
	registry.Register(platform)

	tenantID := uuid.New()
	conn, err := connection.NewPlatformConnection(tenantID, connection.PlatformGoogleAds, "ops@agency.test", connection.OAuthToken{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		Expiry:       time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	connRepo := &syncConnRepo{connections: map[uuid.UUID]*connection.PlatformConnection{}}
	require.NoError(t, connRepo.Save(context.Background(), conn))

	link, err := connection.NewClientAccount(tenantID, uuid.New(), conn.ID, "1234567890", "Acme Search")
	require.NoError(t, err)
	links := newFakeClientAccountRepo()
	require.NoError(t, links.Save(context.Background(), link))

	oauth := appconnection.NewOAuthService(registry, connRepo, &platformCatalogStub{}, &stateStoreStub{}, zap.NewNop())

	f := &syncFixture{
		platform:  platform,
		campaigns: newCampaignStore(),
		snapshots: newSnapshotStore(),
		daily:     &dailyStore{},
		freshness: newFreshnessStore(),
		links:     links,
		tenantID:  tenantID,
		linkID:    link.ID,
	}
	f.service = NewSyncService(oauth, registry, connRepo, links, f.campaigns, &adGroupStoreStub{}, f.snapshots, f.daily, f.freshness, time.Hour, zap.NewNop())
	return f
}

func campaignRow(id, name string, cost string) connection.CampaignSnapshot {
	return connection.CampaignSnapshot{
		CampaignID:  id,
		Name:        name,
		Status:      "ENABLED",
		Impressions: 1000,
		Clicks:      100,
		Cost:        decimal.RequireFromString(cost),
		Conversions: decimal.RequireFromString("5"),
	}
}

func TestSyncService_SyncClientAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("counts distinct campaigns across windows", func(t *testing.T) {
		f := newSyncFixture(t)
		f.platform.fetchCampaignsFn = func(_ context.Context, _, _ string, rng connection.DateRange) ([]connection.CampaignSnapshot, error) {
			switch rng {
			case connection.RangeLast7Days:
				return []connection.CampaignSnapshot{campaignRow("101", "Brand", "10"), campaignRow("102", "Promo", "20")}, nil
			case connection.RangeLast30Days:
				return []connection.CampaignSnapshot{campaignRow("101", "Brand", "40"), campaignRow("102", "Promo", "80"), campaignRow("103", "Shopping", "60")}, nil
			default:
				return []connection.CampaignSnapshot{campaignRow("101", "Brand", "120")}, nil
			}
		}

		result, err := f.service.SyncClientAccount(ctx, f.tenantID, f.linkID, false)
		require.NoError(t, err)

		assert.False(t, result.Skipped)
		assert.Equal(t, 3, result.Campaigns, "the same campaign in several windows counts once")
		assert.Equal(t, 6, result.Snapshots)
		assert.Empty(t, result.Error)
		assert.Len(t, f.campaigns.campaigns, 3)
	})

	t.Run("skips fresh accounts unless forced", func(t *testing.T) {
		f := newSyncFixture(t)
		f.platform.fetchCampaignsFn = func(_ context.Context, _, _ string, _ connection.DateRange) ([]connection.CampaignSnapshot, error) {
			return []connection.CampaignSnapshot{campaignRow("101", "Brand", "10")}, nil
		}

		first, err := f.service.SyncClientAccount(ctx, f.tenantID, f.linkID, false)
		require.NoError(t, err)
		require.False(t, first.Skipped)
		callsAfterFirst := f.platform.campaignCalls

		second, err := f.service.SyncClientAccount(ctx, f.tenantID, f.linkID, false)
		require.NoError(t, err)
		assert.True(t, second.Skipped)
		assert.Equal(t, callsAfterFirst, f.platform.campaignCalls, "a fresh account must not hit the platform")

		forced, err := f.service.SyncClientAccount(ctx, f.tenantID, f.linkID, true)
		require.NoError(t, err)
		assert.False(t, forced.Skipped)
		assert.Greater(t, f.platform.campaignCalls, callsAfterFirst)
	})

	t.Run("keeps previous snapshots when a fetch fails", func(t *testing.T) {
		f := newSyncFixture(t)
		f.platform.fetchCampaignsFn = func(_ context.Context, _, _ string, _ connection.DateRange) ([]connection.CampaignSnapshot, error) {
			return []connection.CampaignSnapshot{campaignRow("101", "Brand", "50")}, nil
		}

		_, err := f.service.SyncClientAccount(ctx, f.tenantID, f.linkID, false)
		require.NoError(t, err)

		campaign, err := f.campaigns.FindByPlatformID(ctx, f.tenantID, f.linkID, "101")
		require.NoError(t, err)
		before, err := f.snapshots.Find(ctx, f.tenantID, campaign.ID, connection.RangeLast7Days)
		require.NoError(t, err)
		require.True(t, decimal.RequireFromString("50").Equal(before.Cost))

		f.platform.fetchCampaignsFn = func(_ context.Context, _, _ string, _ connection.DateRange) ([]connection.CampaignSnapshot, error) {
			return nil, errors.New("quota exceeded")
		}

		result, err := f.service.SyncClientAccount(ctx, f.tenantID, f.linkID, true)
		require.NoError(t, err)
		assert.Contains(t, result.Error, "quota exceeded")
		assert.Equal(t, 0, result.Snapshots)

		after, err := f.snapshots.Find(ctx, f.tenantID, campaign.ID, connection.RangeLast7Days)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("50").Equal(after.Cost), "a failed pull must not overwrite stored numbers")

		// the failure lands in freshness so the next run is not skipped
		fresh, err := f.freshness.Find(ctx, f.tenantID, f.linkID, connection.RangeLast7Days)
		require.NoError(t, err)
		assert.Equal(t, "quota exceeded", fresh.LastError)

		retry, err := f.service.SyncClientAccount(ctx, f.tenantID, f.linkID, false)
		require.NoError(t, err)
		assert.False(t, retry.Skipped)
	})

	t.Run("rejects an inactive link", func(t *testing.T) {
		f := newSyncFixture(t)
		link, err := f.links.FindByID(ctx, f.tenantID, f.linkID)
		require.NoError(t, err)
		require.NoError(t, link.Deactivate())
		require.NoError(t, f.links.Save(ctx, link))

		_, err = f.service.SyncClientAccount(ctx, f.tenantID, f.linkID, false)
		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "LINK_INACTIVE", domainErr.Code)
	})

	t.Run("unknown link", func(t *testing.T) {
		f := newSyncFixture(t)
		_, err := f.service.SyncClientAccount(ctx, f.tenantID, uuid.New(), false)
		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "LINK_NOT_FOUND", domainErr.Code)
	})
}

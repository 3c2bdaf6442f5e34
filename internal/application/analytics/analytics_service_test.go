package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pulse/backend/internal/domain/ads"
	"github.com/pulse/backend/internal/domain/budget"
	"github.com/pulse/backend/internal/domain/connection"
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
	return r.FindActive(context.Background(), tenantID)
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
		if c.TenantID == tenantID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeClientRepo) Save(_ context.Context, c *portfolio.Client) error {
	copied := *c
	r.clients[c.ID] = &copied
	return nil
}

func (r *fakeClientRepo) Delete(_ context.Context, _, id uuid.UUID) error {
	delete(r.clients, id)
	return nil
}

func (r *fakeClientRepo) Count(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	rows, _ := r.FindActive(context.Background(), tenantID)
	return int64(len(rows)), nil
}

func (r *fakeClientRepo) ExistsByName(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
	return false, nil
}

type stubGoalRepo struct{}

func (r *stubGoalRepo) FindByClient(_ context.Context, _, _ uuid.UUID) (*portfolio.PerformanceGoal, error) {
	return nil, shared.ErrNotFound
}

func (r *stubGoalRepo) FindTenantDefaults(_ context.Context, _ uuid.UUID) (*portfolio.TenantGoalDefaults, error) {
	return nil, shared.ErrNotFound
}

func (r *stubGoalRepo) SaveGoal(_ context.Context, _ *portfolio.PerformanceGoal) error { return nil }

func (r *stubGoalRepo) SaveTenantDefaults(_ context.Context, _ *portfolio.TenantGoalDefaults) error {
	return nil
}

func (r *stubGoalRepo) DeleteGoal(_ context.Context, _, _ uuid.UUID) error { return nil }

type fakeClientAcctRepo struct {
	accounts map[uuid.UUID]*connection.ClientAccount
}

func newFakeClientAcctRepo() *fakeClientAcctRepo {
	return &fakeClientAcctRepo{accounts: make(map[uuid.UUID]*connection.ClientAccount)}
}

func (r *fakeClientAcctRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*connection.ClientAccount, error) {
	if a, ok := r.accounts[id]; ok && a.TenantID == tenantID {
		return a, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeClientAcctRepo) FindByClient(_ context.Context, tenantID, clientID uuid.UUID, _ bool) ([]connection.ClientAccount, error) {
	var out []connection.ClientAccount
	for _, a := range r.accounts {
		if a.TenantID == tenantID && a.ClientID == clientID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeClientAcctRepo) FindByConnection(_ context.Context, tenantID, connectionID uuid.UUID) ([]connection.ClientAccount, error) {
	var out []connection.ClientAccount
	for _, a := range r.accounts {
		if a.TenantID == tenantID && a.ConnectionID == connectionID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeClientAcctRepo) FindActiveForTenant(_ context.Context, tenantID uuid.UUID) ([]connection.ClientAccount, error) {
	var out []connection.ClientAccount
	for _, a := range r.accounts {
		if a.TenantID == tenantID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeClientAcctRepo) Find(_ context.Context, _, _, _ uuid.UUID, _ string) (*connection.ClientAccount, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeClientAcctRepo) Save(_ context.Context, a *connection.ClientAccount) error {
	copied := *a
	r.accounts[a.ID] = &copied
	return nil
}

func (r *fakeClientAcctRepo) Delete(_ context.Context, _, id uuid.UUID) error {
	delete(r.accounts, id)
	return nil
}

type fakeCampaignRepo struct {
	campaigns map[uuid.UUID]*ads.Campaign
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{campaigns: make(map[uuid.UUID]*ads.Campaign)}
}

func (r *fakeCampaignRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*ads.Campaign, error) {
	if c, ok := r.campaigns[id]; ok && c.TenantID == tenantID {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCampaignRepo) FindByAccount(_ context.Context, tenantID, clientAccountID uuid.UUID, _ shared.Filter) ([]ads.Campaign, error) {
	var out []ads.Campaign
	for _, c := range r.campaigns {
		if c.TenantID == tenantID && c.ClientAccountID == clientAccountID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCampaignRepo) FindByAccounts(_ context.Context, tenantID uuid.UUID, clientAccountIDs []uuid.UUID) ([]ads.Campaign, error) {
	wanted := make(map[uuid.UUID]bool, len(clientAccountIDs))
	for _, id := range clientAccountIDs {
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

func (r *fakeCampaignRepo) FindByPlatformID(_ context.Context, _, _ uuid.UUID, _ string) (*ads.Campaign, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeCampaignRepo) Save(_ context.Context, c *ads.Campaign) error {
	copied := *c
	r.campaigns[c.ID] = &copied
	return nil
}

func (r *fakeCampaignRepo) Count(_ context.Context, _, _ uuid.UUID) (int64, error) {
	return int64(len(r.campaigns)), nil
}

type fakeSnapshotRepo struct {
	snapshots []ads.MetricSnapshot
}

func (r *fakeSnapshotRepo) Find(_ context.Context, tenantID, campaignID uuid.UUID, rng connection.DateRange) (*ads.MetricSnapshot, error) {
	for i := range r.snapshots {
		s := &r.snapshots[i]
		if s.TenantID == tenantID && s.CampaignID == campaignID && s.Range == rng {
			return s, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSnapshotRepo) FindByCampaigns(_ context.Context, tenantID uuid.UUID, campaignIDs []uuid.UUID, rng connection.DateRange) ([]ads.MetricSnapshot, error) {
	wanted := make(map[uuid.UUID]bool, len(campaignIDs))
	for _, id := range campaignIDs {
		wanted[id] = true
	}
	var out []ads.MetricSnapshot
	for _, s := range r.snapshots {
		if s.TenantID == tenantID && s.Range == rng && wanted[s.CampaignID] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSnapshotRepo) Save(_ context.Context, s *ads.MetricSnapshot) error {
	r.snapshots = append(r.snapshots, *s)
	return nil
}

type fakeDailyRepo struct {
	rows []ads.DailyMetric
}

func (r *fakeDailyRepo) Find(_ context.Context, tenantID, campaignID uuid.UUID, date time.Time) (*ads.DailyMetric, error) {
	for i := range r.rows {
		row := &r.rows[i]
		if row.TenantID == tenantID && row.CampaignID == campaignID && row.Date.Equal(date) {
			return row, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeDailyRepo) FindRange(_ context.Context, tenantID uuid.UUID, campaignIDs []uuid.UUID, from, to time.Time) ([]ads.DailyMetric, error) {
	wanted := make(map[uuid.UUID]bool, len(campaignIDs))
	for _, id := range campaignIDs {
		wanted[id] = true
	}
	var out []ads.DailyMetric
	for _, row := range r.rows {
		if row.TenantID == tenantID && wanted[row.CampaignID] && !row.Date.Before(from) && !row.Date.After(to) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeDailyRepo) Save(_ context.Context, m *ads.DailyMetric) error {
	r.rows = append(r.rows, *m)
	return nil
}

func (r *fakeDailyRepo) SaveAll(_ context.Context, metrics []*ads.DailyMetric) error {
	for _, m := range metrics {
		r.rows = append(r.rows, *m)
	}
	return nil
}

func (r *fakeDailyRepo) SumCost(ctx context.Context, tenantID uuid.UUID, campaignIDs []uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	rows, _ := r.FindRange(ctx, tenantID, campaignIDs, from, to)
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Cost)
	}
	return total, nil
}

func (r *fakeDailyRepo) SumCostByDay(ctx context.Context, tenantID uuid.UUID, campaignIDs []uuid.UUID, from, to time.Time) ([]ads.DailySpend, error) {
	rows, _ := r.FindRange(ctx, tenantID, campaignIDs, from, to)
	byDay := make(map[time.Time]decimal.Decimal)
	for _, row := range rows {
		byDay[row.Date] = byDay[row.Date].Add(row.Cost)
	}
	var out []ads.DailySpend
	for day, cost := range byDay {
		out = append(out, ads.DailySpend{Date: day, Cost: cost})
	}
	return out, nil
}

type stubAlertRepo struct {
	open []budget.BudgetAlert
}

func (r *stubAlertRepo) FindByID(_ context.Context, _, _ uuid.UUID) (*budget.BudgetAlert, error) {
	return nil, shared.ErrNotFound
}

func (r *stubAlertRepo) FindOpen(_ context.Context, _ uuid.UUID) ([]budget.BudgetAlert, error) {
	return r.open, nil
}

func (r *stubAlertRepo) FindOpenByBudget(_ context.Context, _, _ uuid.UUID, _ budget.AlertType) (*budget.BudgetAlert, error) {
	return nil, shared.ErrNotFound
}

func (r *stubAlertRepo) Save(_ context.Context, _ *budget.BudgetAlert) error { return nil }

type analyticsFixture struct {
	service      *AnalyticsService
	clientRepo   *fakeClientRepo
	acctRepo     *fakeClientAcctRepo
	campaignRepo *fakeCampaignRepo
	snapshotRepo *fakeSnapshotRepo
	dailyRepo    *fakeDailyRepo
}

func newAnalyticsFixture() *analyticsFixture {
	f := &analyticsFixture{
		clientRepo:   newFakeClientRepo(),
		acctRepo:     newFakeClientAcctRepo(),
		campaignRepo: newFakeCampaignRepo(),
		snapshotRepo: &fakeSnapshotRepo{},
		dailyRepo:    &fakeDailyRepo{},
	}
	f.service = NewAnalyticsService(
		f.clientRepo,
		&stubGoalRepo{},
		f.acctRepo,
		f.campaignRepo,
		f.snapshotRepo,
		f.dailyRepo,
		&stubAlertRepo{},
		zap.NewNop(),
	)
	return f
}

// seedClient creates a client with one linked account and returns both ids
func (f *analyticsFixture) seedClient(t *testing.T, tenantID uuid.UUID, name, customerID string) (uuid.UUID, uuid.UUID) {
	t.Helper()
	client, err := portfolio.NewClient(tenantID, name)
	require.NoError(t, err)
	require.NoError(t, f.clientRepo.Save(context.Background(), client))

	account, err := connection.NewClientAccount(tenantID, client.ID, uuid.New(), customerID, name)
	require.NoError(t, err)
	require.NoError(t, f.acctRepo.Save(context.Background(), account))
	return client.ID, account.ID
}

func (f *analyticsFixture) seedCampaign(t *testing.T, tenantID, accountID uuid.UUID, platformID, name string) uuid.UUID {
	t.Helper()
	campaign, err := ads.NewCampaign(tenantID, accountID, platformID, name)
	require.NoError(t, err)
	require.NoError(t, f.campaignRepo.Save(context.Background(), campaign))
	return campaign.ID
}

func (f *analyticsFixture) seedSnapshot(t *testing.T, tenantID, campaignID uuid.UUID, rng connection.DateRange, impressions, clicks int64, cost, conversions string) {
	t.Helper()
	snap, err := ads.NewMetricSnapshot(tenantID, campaignID, rng, impressions, clicks,
		decimal.RequireFromString(cost), decimal.RequireFromString(conversions))
	require.NoError(t, err)
	require.NoError(t, f.snapshotRepo.Save(context.Background(), snap))
}

func (f *analyticsFixture) seedDaily(t *testing.T, tenantID, campaignID uuid.UUID, daysAgo int, impressions, clicks int64, cost, conversions string) {
	t.Helper()
	date := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -daysAgo)
	row := ads.NewDailyMetric(tenantID, campaignID, date, impressions, clicks,
		decimal.RequireFromString(cost), decimal.RequireFromString(conversions))
	require.NoError(t, f.dailyRepo.Save(context.Background(), row))
}

func TestAnalyticsService_ClientPerformance(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("sums snapshots and compares against the preceding window", func(t *testing.T) {
		f := newAnalyticsFixture()
		clientID, accountID := f.seedClient(t, tenantID, "Acme Retail", "123-456-7890")
		c1 := f.seedCampaign(t, tenantID, accountID, "101", "Search - Brand")
		c2 := f.seedCampaign(t, tenantID, accountID, "102", "Display - Promo")

		f.seedSnapshot(t, tenantID, c1, connection.RangeLast7Days, 1000, 100, "150", "10")
		f.seedSnapshot(t, tenantID, c2, connection.RangeLast7Days, 500, 50, "50", "5")

		// preceding window: cost 100, clicks 100, impressions 1000, conversions 30
		f.seedDaily(t, tenantID, c1, 10, 1000, 100, "100", "30")

		row, err := f.service.ClientPerformance(ctx, tenantID, clientID, "LAST_7_DAYS")
		require.NoError(t, err)

		assert.Equal(t, "Acme Retail", row.ClientName)
		assert.Equal(t, 1, row.LinkedAccounts)
		assert.Equal(t, 2, row.Campaigns)
		assert.Equal(t, int64(1500), row.Metrics.Impressions)
		assert.Equal(t, int64(150), row.Metrics.Clicks)
		assert.True(t, decimal.RequireFromString("200").Equal(row.Metrics.Cost))
		assert.True(t, decimal.RequireFromString("15").Equal(row.Metrics.Conversions))
		assert.True(t, decimal.RequireFromString("10").Equal(row.Metrics.CTR))

		require.NotNil(t, row.Change)
		assert.True(t, decimal.RequireFromString("100").Equal(row.Change.Cost), "cost doubled: got %s", row.Change.Cost)
		assert.True(t, decimal.RequireFromString("50").Equal(row.Change.Clicks))
		assert.True(t, decimal.RequireFromString("50").Equal(row.Change.Impressions))
		assert.True(t, decimal.RequireFromString("-50").Equal(row.Change.Conversions))
	})

	t.Run("empty preceding window yields zero changes", func(t *testing.T) {
		f := newAnalyticsFixture()
		clientID, accountID := f.seedClient(t, tenantID, "Fresh Client", "222-333-4444")
		c1 := f.seedCampaign(t, tenantID, accountID, "201", "Launch")
		f.seedSnapshot(t, tenantID, c1, connection.RangeLast7Days, 100, 10, "40", "1")

		row, err := f.service.ClientPerformance(ctx, tenantID, clientID, "LAST_7_DAYS")
		require.NoError(t, err)

		require.NotNil(t, row.Change)
		assert.True(t, row.Change.Cost.IsZero())
		assert.True(t, row.Change.Clicks.IsZero())
	})

	t.Run("unknown client", func(t *testing.T) {
		f := newAnalyticsFixture()
		_, err := f.service.ClientPerformance(ctx, tenantID, uuid.New(), "LAST_7_DAYS")
		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "CLIENT_NOT_FOUND", domainErr.Code)
	})

	t.Run("invalid range", func(t *testing.T) {
		f := newAnalyticsFixture()
		_, err := f.service.ClientPerformance(ctx, tenantID, uuid.New(), "LAST_YEAR")
		require.Error(t, err)
	})
}

func TestAnalyticsService_Dashboard(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	f := newAnalyticsFixture()
	_, acct1 := f.seedClient(t, tenantID, "Acme Retail", "123-456-7890")
	_, acct2 := f.seedClient(t, tenantID, "Beta Foods", "987-654-3210")

	c1 := f.seedCampaign(t, tenantID, acct1, "101", "Search - Brand")
	c2 := f.seedCampaign(t, tenantID, acct1, "102", "Display - Promo")
	c3 := f.seedCampaign(t, tenantID, acct2, "103", "Shopping - Core")

	f.seedSnapshot(t, tenantID, c1, connection.RangeLast30Days, 3000, 300, "300", "30")
	f.seedSnapshot(t, tenantID, c2, connection.RangeLast30Days, 1000, 100, "100", "10")
	f.seedSnapshot(t, tenantID, c3, connection.RangeLast30Days, 2000, 200, "200", "20")

	// current window daily spend for the chart
	f.seedDaily(t, tenantID, c1, 2, 100, 10, "25", "1")
	// preceding window: total cost 300 against a current 600
	f.seedDaily(t, tenantID, c1, 40, 1000, 100, "300", "30")

	dashboard, err := f.service.Dashboard(ctx, tenantID, "LAST_30_DAYS")
	require.NoError(t, err)

	assert.Equal(t, 2, dashboard.ActiveClients)
	assert.Equal(t, 2, dashboard.LinkedAccounts)
	assert.Equal(t, 3, dashboard.Campaigns)
	assert.Equal(t, 0, dashboard.OpenAlerts)
	assert.True(t, decimal.RequireFromString("600").Equal(dashboard.Totals.Cost))
	assert.Equal(t, int64(6000), dashboard.Totals.Impressions)

	// spend leaders are ordered by cost, highest first
	require.Len(t, dashboard.TopCampaigns, 3)
	assert.Equal(t, "Search - Brand", dashboard.TopCampaigns[0].Name)
	assert.Equal(t, "Shopping - Core", dashboard.TopCampaigns[1].Name)
	assert.Equal(t, "Display - Promo", dashboard.TopCampaigns[2].Name)
	assert.True(t, decimal.RequireFromString("300").Equal(dashboard.TopCampaigns[0].Cost))

	require.NotNil(t, dashboard.Change)
	assert.True(t, decimal.RequireFromString("100").Equal(dashboard.Change.Cost), "spend doubled: got %s", dashboard.Change.Cost)

	require.Len(t, dashboard.SpendByDay, 1)
	assert.True(t, decimal.RequireFromString("25").Equal(dashboard.SpendByDay[0].Cost))

	// clients sorted by spend
	require.Len(t, dashboard.TopClients, 2)
	assert.Equal(t, "Acme Retail", dashboard.TopClients[0].ClientName)
	assert.Equal(t, "Beta Foods", dashboard.TopClients[1].ClientName)
}

func TestAnalyticsService_DashboardCapsTopCampaigns(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	f := newAnalyticsFixture()
	_, acct := f.seedClient(t, tenantID, "Acme Retail", "123-456-7890")
	for i := 0; i < dashboardClientLimit+2; i++ {
		id := f.seedCampaign(t, tenantID, acct, uuid.NewString(), "Campaign")
		f.seedSnapshot(t, tenantID, id, connection.RangeLast30Days, 100, 10, "10", "1")
	}

	dashboard, err := f.service.Dashboard(ctx, tenantID, "LAST_30_DAYS")
	require.NoError(t, err)
	assert.Len(t, dashboard.TopCampaigns, dashboardClientLimit)
}

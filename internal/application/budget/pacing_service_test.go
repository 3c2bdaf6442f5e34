package budget

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
	"github.com/pulse/backend/internal/domain/shared"
)

type fakeAlertRepo struct {
	alerts map[uuid.UUID]*budget.BudgetAlert
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{alerts: make(map[uuid.UUID]*budget.BudgetAlert)}
}

func (r *fakeAlertRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*budget.BudgetAlert, error) {
	if a, ok := r.alerts[id]; ok && a.TenantID == tenantID {
		return a, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeAlertRepo) FindOpen(_ context.Context, tenantID uuid.UUID) ([]budget.BudgetAlert, error) {
	var out []budget.BudgetAlert
	for _, a := range r.alerts {
		if a.TenantID == tenantID && a.IsOpen() {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAlertRepo) FindOpenByBudget(_ context.Context, tenantID, budgetID uuid.UUID, alertType budget.AlertType) (*budget.BudgetAlert, error) {
	for _, a := range r.alerts {
		if a.TenantID == tenantID && a.BudgetID == budgetID && a.Type == alertType && a.IsOpen() {
			return a, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeAlertRepo) Save(_ context.Context, a *budget.BudgetAlert) error {
	copied := *a
	r.alerts[a.ID] = &copied
	return nil
}

type fakeSpendSnapRepo struct {
	snapshots map[string]*budget.SpendSnapshot // budget id + day
}

func newFakeSpendSnapRepo() *fakeSpendSnapRepo {
	return &fakeSpendSnapRepo{snapshots: make(map[string]*budget.SpendSnapshot)}
}

func spendSnapKey(budgetID uuid.UUID, date time.Time) string {
	return budgetID.String() + "|" + date.Format("2006-01-02")
}

func (r *fakeSpendSnapRepo) Find(_ context.Context, tenantID, budgetID uuid.UUID, date time.Time) (*budget.SpendSnapshot, error) {
	if s, ok := r.snapshots[spendSnapKey(budgetID, date)]; ok && s.TenantID == tenantID {
		return s, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSpendSnapRepo) FindByBudget(_ context.Context, tenantID, budgetID uuid.UUID, from, to time.Time) ([]budget.SpendSnapshot, error) {
	var out []budget.SpendSnapshot
	for _, s := range r.snapshots {
		if s.TenantID == tenantID && s.BudgetID == budgetID && !s.Date.Before(from) && !s.Date.After(to) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSpendSnapRepo) Save(_ context.Context, s *budget.SpendSnapshot) error {
	copied := *s
	r.snapshots[spendSnapKey(s.BudgetID, s.Date)] = &copied
	return nil
}

// linkRepoStub serves one account link per known client
type linkRepoStub struct {
	links map[uuid.UUID]connection.ClientAccount // keyed by client id
}

func (r *linkRepoStub) FindByID(_ context.Context, _, _ uuid.UUID) (*connection.ClientAccount, error) {
	return nil, shared.ErrNotFound
}

func (r *linkRepoStub) FindByClient(_ context.Context, _, clientID uuid.UUID, _ bool) ([]connection.ClientAccount, error) {
	if link, ok := r.links[clientID]; ok {
		return []connection.ClientAccount{link}, nil
	}
	return nil, nil
}

func (r *linkRepoStub) FindByConnection(_ context.Context, _, _ uuid.UUID) ([]connection.ClientAccount, error) {
	return nil, nil
}

func (r *linkRepoStub) FindActiveForTenant(_ context.Context, _ uuid.UUID) ([]connection.ClientAccount, error) {
	return nil, nil
}

func (r *linkRepoStub) Find(_ context.Context, _, _, _ uuid.UUID, _ string) (*connection.ClientAccount, error) {
	return nil, shared.ErrNotFound
}

func (r *linkRepoStub) Save(_ context.Context, _ *connection.ClientAccount) error { return nil }

func (r *linkRepoStub) Delete(_ context.Context, _, _ uuid.UUID) error { return nil }

// campaignLookupStub answers FindByAccounts with a fixed campaign list
type campaignLookupStub struct {
	campaigns []ads.Campaign
}

func (r *campaignLookupStub) FindByID(_ context.Context, _, _ uuid.UUID) (*ads.Campaign, error) {
	return nil, shared.ErrNotFound
}

func (r *campaignLookupStub) FindByAccount(_ context.Context, _, _ uuid.UUID, _ shared.Filter) ([]ads.Campaign, error) {
	return nil, nil
}

func (r *campaignLookupStub) FindByAccounts(_ context.Context, _ uuid.UUID, accountIDs []uuid.UUID) ([]ads.Campaign, error) {
	wanted := make(map[uuid.UUID]bool, len(accountIDs))
	for _, id := range accountIDs {
		wanted[id] = true
	}
	var out []ads.Campaign
	for _, c := range r.campaigns {
		if wanted[c.ClientAccountID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *campaignLookupStub) FindByPlatformID(_ context.Context, _, _ uuid.UUID, _ string) (*ads.Campaign, error) {
	return nil, shared.ErrNotFound
}

func (r *campaignLookupStub) Save(_ context.Context, _ *ads.Campaign) error { return nil }

func (r *campaignLookupStub) Count(_ context.Context, _, _ uuid.UUID) (int64, error) { return 0, nil }

// dailyCostStub answers SumCost with a fixed total
type dailyCostStub struct {
	total decimal.Decimal
}

func (r *dailyCostStub) Find(_ context.Context, _, _ uuid.UUID, _ time.Time) (*ads.DailyMetric, error) {
	return nil, shared.ErrNotFound
}

func (r *dailyCostStub) FindRange(_ context.Context, _ uuid.UUID, _ []uuid.UUID, _, _ time.Time) ([]ads.DailyMetric, error) {
	return nil, nil
}

func (r *dailyCostStub) Save(_ context.Context, _ *ads.DailyMetric) error { return nil }

func (r *dailyCostStub) SaveAll(_ context.Context, _ []*ads.DailyMetric) error { return nil }

func (r *dailyCostStub) SumCost(_ context.Context, _ uuid.UUID, campaignIDs []uuid.UUID, _, _ time.Time) (decimal.Decimal, error) {
	if len(campaignIDs) == 0 {
		return decimal.Zero, nil
	}
	return r.total, nil
}

func (r *dailyCostStub) SumCostByDay(_ context.Context, _ uuid.UUID, _ []uuid.UUID, _, _ time.Time) ([]ads.DailySpend, error) {
	return nil, nil
}

type pacingFixture struct {
	service   *PacingService
	budgets   *fakeBudgetRepo
	alerts    *fakeAlertRepo
	snapshots *fakeSpendSnapRepo
	daily     *dailyCostStub
	tenantID  uuid.UUID
	clientID  uuid.UUID
}

// newPacingFixture wires one client with one linked account carrying one
// campaign, so every budget scoped to that client resolves to spend.
func newPacingFixture(t *testing.T) *pacingFixture {
	t.Helper()

	tenantID := uuid.New()
	clientID := uuid.New()

	link, err := connection.NewClientAccount(tenantID, clientID, uuid.New(), "1234567890", "Acme Search")
	require.NoError(t, err)

	campaign, err := ads.NewCampaign(tenantID, link.ID, "9001", "Always On")
	require.NoError(t, err)

	f := &pacingFixture{
		budgets:   newFakeBudgetRepo(),
		alerts:    newFakeAlertRepo(),
		snapshots: newFakeSpendSnapRepo(),
		daily:     &dailyCostStub{},
		tenantID:  tenantID,
		clientID:  clientID,
	}
	f.service = NewPacingService(
		f.budgets,
		f.alerts,
		f.snapshots,
		&stubClientRepo{},
		&stubGroupRepo{},
		&linkRepoStub{links: map[uuid.UUID]connection.ClientAccount{clientID: *link}},
		&campaignLookupStub{campaigns: []ads.Campaign{*campaign}},
		f.daily,
		zap.NewNop(),
	)
	return f
}

// seedBudget stores a client-scoped August budget of 3100, 100 per day
func (f *pacingFixture) seedBudget(t *testing.T) *budget.Budget {
	t.Helper()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	b, err := budget.NewBudget(f.tenantID, "Acme August", budget.ScopeClient, budget.PeriodMonthly, decimal.NewFromInt(3100), start, end)
	require.NoError(t, err)
	require.NoError(t, b.ForClient(f.clientID))
	require.NoError(t, f.budgets.Save(context.Background(), b))
	return b
}

func TestPacingService_Evaluate(t *testing.T) {
	ctx := context.Background()
	// day 10 of 31, expected spend 1000
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)

	t.Run("records an on-track snapshot without alerts", func(t *testing.T) {
		f := newPacingFixture(t)
		b := f.seedBudget(t)
		f.daily.total = decimal.NewFromInt(1000)

		dto, err := f.service.Evaluate(ctx, b, now)
		require.NoError(t, err)
		require.NotNil(t, dto)

		assert.Equal(t, string(budget.PacingOnTrack), dto.Status)
		assert.True(t, dto.Expected.Equal(decimal.NewFromInt(1000)))
		assert.True(t, dto.Variance.IsZero())
		assert.Equal(t, 31, dto.DaysInPeriod)
		assert.Equal(t, 10, dto.DaysElapsed)

		day := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
		snap, err := f.snapshots.Find(ctx, f.tenantID, b.ID, day)
		require.NoError(t, err)
		assert.True(t, snap.Spent.Equal(decimal.NewFromInt(1000)))

		open, err := f.alerts.FindOpen(ctx, f.tenantID)
		require.NoError(t, err)
		assert.Empty(t, open)
	})

	t.Run("raises one overspend alert and deduplicates reruns", func(t *testing.T) {
		f := newPacingFixture(t)
		b := f.seedBudget(t)
		f.daily.total = decimal.NewFromInt(1200) // 120% of expected

		dto, err := f.service.Evaluate(ctx, b, now)
		require.NoError(t, err)
		assert.Equal(t, string(budget.PacingOverspend), dto.Status)

		open, err := f.alerts.FindOpen(ctx, f.tenantID)
		require.NoError(t, err)
		require.Len(t, open, 1)
		assert.Equal(t, budget.AlertOverspend, open[0].Type)
		assert.Contains(t, open[0].Message, "Acme August")

		// the open alert suppresses a duplicate on the next run
		_, err = f.service.Evaluate(ctx, b, now)
		require.NoError(t, err)
		open, err = f.alerts.FindOpen(ctx, f.tenantID)
		require.NoError(t, err)
		assert.Len(t, open, 1)
	})

	t.Run("raises an underspend alert below the floor", func(t *testing.T) {
		f := newPacingFixture(t)
		b := f.seedBudget(t)
		f.daily.total = decimal.NewFromInt(700) // 70% of expected

		dto, err := f.service.Evaluate(ctx, b, now)
		require.NoError(t, err)
		assert.Equal(t, string(budget.PacingUnderspend), dto.Status)

		open, err := f.alerts.FindOpen(ctx, f.tenantID)
		require.NoError(t, err)
		require.Len(t, open, 1)
		assert.Equal(t, budget.AlertUnderspend, open[0].Type)
	})

	t.Run("raises a forecast alert while spend is still on track", func(t *testing.T) {
		f := newPacingFixture(t)
		b := f.seedBudget(t)
		// 105% of expected: on track, but the run rate projects 3255 > 3100
		f.daily.total = decimal.NewFromInt(1050)

		dto, err := f.service.Evaluate(ctx, b, now)
		require.NoError(t, err)
		assert.Equal(t, string(budget.PacingOnTrack), dto.Status)
		assert.True(t, dto.ForecastTotal.GreaterThan(dto.Amount))

		open, err := f.alerts.FindOpen(ctx, f.tenantID)
		require.NoError(t, err)
		require.Len(t, open, 1)
		assert.Equal(t, budget.AlertForecast, open[0].Type)
	})

	t.Run("refreshes the same-day snapshot instead of stacking rows", func(t *testing.T) {
		f := newPacingFixture(t)
		b := f.seedBudget(t)

		f.daily.total = decimal.NewFromInt(500)
		_, err := f.service.Evaluate(ctx, b, now)
		require.NoError(t, err)

		f.daily.total = decimal.NewFromInt(900)
		_, err = f.service.Evaluate(ctx, b, now)
		require.NoError(t, err)

		day := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
		rows, err := f.snapshots.FindByBudget(ctx, f.tenantID, b.ID, day, day)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.True(t, rows[0].Spent.Equal(decimal.NewFromInt(900)))
	})

	t.Run("skips budgets outside their interval", func(t *testing.T) {
		f := newPacingFixture(t)
		b := f.seedBudget(t)
		f.daily.total = decimal.NewFromInt(1000)

		dto, err := f.service.Evaluate(ctx, b, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Nil(t, dto)

		rows, err := f.snapshots.FindByBudget(ctx, f.tenantID, b.ID, b.StartDate, b.EndDate.AddDate(0, 1, 0))
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("skips deactivated budgets", func(t *testing.T) {
		f := newPacingFixture(t)
		b := f.seedBudget(t)
		b.Deactivate()

		dto, err := f.service.Evaluate(ctx, b, now)
		require.NoError(t, err)
		assert.Nil(t, dto)
	})
}

func TestPacingService_GetPacing(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown budget", func(t *testing.T) {
		f := newPacingFixture(t)
		_, err := f.service.GetPacing(ctx, f.tenantID, uuid.New())
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "BUDGET_NOT_FOUND", domainErr.Code)
	})
}

func TestPacingService_AcknowledgeAlert(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)

	f := newPacingFixture(t)
	b := f.seedBudget(t)
	f.daily.total = decimal.NewFromInt(1200)

	_, err := f.service.Evaluate(ctx, b, now)
	require.NoError(t, err)

	open, err := f.service.ListAlerts(ctx, f.tenantID)
	require.NoError(t, err)
	require.Len(t, open, 1)

	dto, err := f.service.AcknowledgeAlert(ctx, f.tenantID, open[0].ID)
	require.NoError(t, err)
	assert.NotNil(t, dto.AcknowledgedAt)

	remaining, err := f.service.ListAlerts(ctx, f.tenantID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	_, err = f.service.AcknowledgeAlert(ctx, f.tenantID, uuid.New())
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALERT_NOT_FOUND", domainErr.Code)
}

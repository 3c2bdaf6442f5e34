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

	"github.com/pulse/backend/internal/domain/budget"
	"github.com/pulse/backend/internal/domain/portfolio"
	"github.com/pulse/backend/internal/domain/shared"
)

type fakeBudgetRepo struct {
	budgets map[uuid.UUID]*budget.Budget
}

func newFakeBudgetRepo() *fakeBudgetRepo {
	return &fakeBudgetRepo{budgets: make(map[uuid.UUID]*budget.Budget)}
}

func (r *fakeBudgetRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*budget.Budget, error) {
	if b, ok := r.budgets[id]; ok && b.TenantID == tenantID {
		return b, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBudgetRepo) FindAll(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]budget.Budget, error) {
	var out []budget.Budget
	for _, b := range r.budgets {
		if b.TenantID == tenantID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBudgetRepo) FindActive(_ context.Context, tenantID uuid.UUID) ([]budget.Budget, error) {
	var out []budget.Budget
	for _, b := range r.budgets {
		if b.TenantID == tenantID && b.IsActive {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBudgetRepo) FindActiveByClient(_ context.Context, tenantID, clientID uuid.UUID) ([]budget.Budget, error) {
	var out []budget.Budget
	for _, b := range r.budgets {
		if b.TenantID == tenantID && b.IsActive && b.ClientID != nil && *b.ClientID == clientID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBudgetRepo) FindAllActive(_ context.Context) ([]budget.Budget, error) {
	var out []budget.Budget
	for _, b := range r.budgets {
		if b.IsActive {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBudgetRepo) Save(_ context.Context, b *budget.Budget) error {
	copied := *b
	r.budgets[b.ID] = &copied
	return nil
}

func (r *fakeBudgetRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	delete(r.budgets, id)
	return nil
}

func (r *fakeBudgetRepo) Count(_ context.Context, tenantID uuid.UUID) (int64, error) {
	var n int64
	for _, b := range r.budgets {
		if b.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

type stubClientRepo struct {
	known map[uuid.UUID]uuid.UUID // client id -> tenant id
}

func (r *stubClientRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*portfolio.Client, error) {
	if owner, ok := r.known[id]; ok && owner == tenantID {
		return &portfolio.Client{}, nil
	}
	return nil, shared.ErrNotFound
}

func (r *stubClientRepo) FindAll(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]portfolio.Client, error) {
	return nil, nil
}

func (r *stubClientRepo) FindByIDs(_ context.Context, _ uuid.UUID, _ []uuid.UUID) ([]portfolio.Client, error) {
	return nil, nil
}

func (r *stubClientRepo) FindActive(_ context.Context, _ uuid.UUID) ([]portfolio.Client, error) {
	return nil, nil
}

func (r *stubClientRepo) Save(_ context.Context, _ *portfolio.Client) error { return nil }

func (r *stubClientRepo) Delete(_ context.Context, _, _ uuid.UUID) error { return nil }

func (r *stubClientRepo) Count(_ context.Context, _ uuid.UUID, _ shared.Filter) (int64, error) {
	return 0, nil
}

func (r *stubClientRepo) ExistsByName(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
	return false, nil
}

type stubGroupRepo struct{}

func (r *stubGroupRepo) FindByID(_ context.Context, _, _ uuid.UUID) (*portfolio.ClientGroup, error) {
	return nil, shared.ErrNotFound
}

func (r *stubGroupRepo) FindAll(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]portfolio.ClientGroup, error) {
	return nil, nil
}

func (r *stubGroupRepo) FindByCategory(_ context.Context, _ uuid.UUID, _ portfolio.GroupCategory, _ string) (*portfolio.ClientGroup, error) {
	return nil, shared.ErrNotFound
}

func (r *stubGroupRepo) Save(_ context.Context, _ *portfolio.ClientGroup) error { return nil }

func (r *stubGroupRepo) Delete(_ context.Context, _, _ uuid.UUID) error { return nil }

func (r *stubGroupRepo) Count(_ context.Context, _ uuid.UUID, _ shared.Filter) (int64, error) {
	return 0, nil
}

type fakeAllocationRepo struct {
	allocations map[uuid.UUID]*budget.BudgetAllocation
}

func newFakeAllocationRepo() *fakeAllocationRepo {
	return &fakeAllocationRepo{allocations: make(map[uuid.UUID]*budget.BudgetAllocation)}
}

func (r *fakeAllocationRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*budget.BudgetAllocation, error) {
	if a, ok := r.allocations[id]; ok && a.TenantID == tenantID {
		return a, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeAllocationRepo) FindByBudget(_ context.Context, tenantID, budgetID uuid.UUID) ([]budget.BudgetAllocation, error) {
	var out []budget.BudgetAllocation
	for _, a := range r.allocations {
		if a.TenantID == tenantID && a.BudgetID == budgetID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAllocationRepo) Save(_ context.Context, a *budget.BudgetAllocation) error {
	copied := *a
	r.allocations[a.ID] = &copied
	return nil
}

func (r *fakeAllocationRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	if a, ok := r.allocations[id]; !ok || a.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.allocations, id)
	return nil
}

func newBudgetFixture(clientTenants map[uuid.UUID]uuid.UUID) (*BudgetService, *fakeBudgetRepo) {
	repo := newFakeBudgetRepo()
	svc := NewBudgetService(repo, newFakeAllocationRepo(), &stubClientRepo{known: clientTenants}, &stubGroupRepo{}, zap.NewNop())
	return svc, repo
}

func monthInterval() (time.Time, time.Time) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

func TestBudgetService_Create(t *testing.T) {
	ctx := context.Background()
	start, end := monthInterval()

	t.Run("creates a tenant scoped budget", func(t *testing.T) {
		tenantID := uuid.New()
		svc, repo := newBudgetFixture(nil)

		dto, err := svc.Create(ctx, CreateBudgetInput{
			TenantID:  tenantID,
			Name:      "Agency August",
			Scope:     "tenant",
			Period:    "monthly",
			Amount:    decimal.NewFromInt(50000),
			StartDate: start,
			EndDate:   end,
		})

		require.NoError(t, err)
		assert.Equal(t, "Agency August", dto.Name)
		assert.Equal(t, "tenant", dto.Scope)
		assert.True(t, dto.IsActive)
		assert.Nil(t, dto.ClientID)

		stored, err := repo.FindByID(ctx, tenantID, dto.ID)
		require.NoError(t, err)
		assert.True(t, stored.Amount.Equal(decimal.NewFromInt(50000)))
	})

	t.Run("binds client scoped budget to its client", func(t *testing.T) {
		tenantID := uuid.New()
		clientID := uuid.New()
		svc, _ := newBudgetFixture(map[uuid.UUID]uuid.UUID{clientID: tenantID})

		dto, err := svc.Create(ctx, CreateBudgetInput{
			TenantID:  tenantID,
			Name:      "Acme August",
			Scope:     "client",
			ClientID:  &clientID,
			Period:    "monthly",
			Amount:    decimal.NewFromInt(8000),
			StartDate: start,
			EndDate:   end,
		})

		require.NoError(t, err)
		require.NotNil(t, dto.ClientID)
		assert.Equal(t, clientID, *dto.ClientID)
	})

	t.Run("rejects client scope without client id", func(t *testing.T) {
		svc, _ := newBudgetFixture(nil)

		_, err := svc.Create(ctx, CreateBudgetInput{
			TenantID:  uuid.New(),
			Name:      "Orphan",
			Scope:     "client",
			Period:    "monthly",
			Amount:    decimal.NewFromInt(100),
			StartDate: start,
			EndDate:   end,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_SCOPE", domainErr.Code)
	})

	t.Run("rejects unknown client", func(t *testing.T) {
		clientID := uuid.New()
		svc, _ := newBudgetFixture(nil)

		_, err := svc.Create(ctx, CreateBudgetInput{
			TenantID:  uuid.New(),
			Name:      "Ghost Client",
			Scope:     "client",
			ClientID:  &clientID,
			Period:    "monthly",
			Amount:    decimal.NewFromInt(100),
			StartDate: start,
			EndDate:   end,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CLIENT_NOT_FOUND", domainErr.Code)
	})

	t.Run("rejects non positive amounts", func(t *testing.T) {
		svc, _ := newBudgetFixture(nil)

		_, err := svc.Create(ctx, CreateBudgetInput{
			TenantID:  uuid.New(),
			Name:      "Zero",
			Scope:     "tenant",
			Period:    "monthly",
			Amount:    decimal.Zero,
			StartDate: start,
			EndDate:   end,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_AMOUNT", domainErr.Code)
	})

	t.Run("rejects inverted interval", func(t *testing.T) {
		svc, _ := newBudgetFixture(nil)

		_, err := svc.Create(ctx, CreateBudgetInput{
			TenantID:  uuid.New(),
			Name:      "Backwards",
			Scope:     "tenant",
			Period:    "custom",
			Amount:    decimal.NewFromInt(100),
			StartDate: end,
			EndDate:   start,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INTERVAL", domainErr.Code)
	})
}

func TestBudgetService_Allocations(t *testing.T) {
	ctx := context.Background()
	start, end := monthInterval()
	tenantID := uuid.New()
	svc, _ := newBudgetFixture(nil)

	created, err := svc.Create(ctx, CreateBudgetInput{
		TenantID:  tenantID,
		Name:      "Allocated",
		Scope:     "tenant",
		Period:    "monthly",
		Amount:    decimal.NewFromInt(10000),
		StartDate: start,
		EndDate:   end,
	})
	require.NoError(t, err)

	t.Run("adds a platform allocation", func(t *testing.T) {
		percent := decimal.NewFromInt(60)
		dto, err := svc.AddAllocation(ctx, CreateAllocationInput{
			TenantID: tenantID,
			BudgetID: created.ID,
			Target:   "platform",
			Platform: "google_ads",
			Amount:   decimal.NewFromInt(6000),
			Percent:  &percent,
		})

		require.NoError(t, err)
		assert.Equal(t, "platform", dto.Target)
		assert.Equal(t, "google_ads", dto.Platform)
		require.NotNil(t, dto.Percent)
		assert.True(t, dto.Percent.Equal(percent))
	})

	t.Run("adds a campaign allocation", func(t *testing.T) {
		campaignID := uuid.New()
		dto, err := svc.AddAllocation(ctx, CreateAllocationInput{
			TenantID:   tenantID,
			BudgetID:   created.ID,
			Target:     "campaign",
			CampaignID: &campaignID,
			Amount:     decimal.NewFromInt(3000),
		})

		require.NoError(t, err)
		require.NotNil(t, dto.CampaignID)
		assert.Equal(t, campaignID, *dto.CampaignID)
	})

	t.Run("rejects allocations past the budget amount", func(t *testing.T) {
		_, err := svc.AddAllocation(ctx, CreateAllocationInput{
			TenantID: tenantID,
			BudgetID: created.ID,
			Target:   "platform",
			Platform: "google_ads",
			Amount:   decimal.NewFromInt(2000),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALLOCATION_EXCEEDS_BUDGET", domainErr.Code)
	})

	t.Run("rejects account target without account id", func(t *testing.T) {
		_, err := svc.AddAllocation(ctx, CreateAllocationInput{
			TenantID: tenantID,
			BudgetID: created.ID,
			Target:   "account",
			Amount:   decimal.NewFromInt(100),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TARGET", domainErr.Code)
	})

	t.Run("rejects unknown budget", func(t *testing.T) {
		_, err := svc.AddAllocation(ctx, CreateAllocationInput{
			TenantID: tenantID,
			BudgetID: uuid.New(),
			Target:   "platform",
			Platform: "google_ads",
			Amount:   decimal.NewFromInt(100),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "BUDGET_NOT_FOUND", domainErr.Code)
	})

	t.Run("lists and removes allocations", func(t *testing.T) {
		allocations, err := svc.ListAllocations(ctx, tenantID, created.ID)
		require.NoError(t, err)
		require.Len(t, allocations, 2)

		require.NoError(t, svc.RemoveAllocation(ctx, tenantID, created.ID, allocations[0].ID))

		remaining, err := svc.ListAllocations(ctx, tenantID, created.ID)
		require.NoError(t, err)
		assert.Len(t, remaining, 1)

		err = svc.RemoveAllocation(ctx, tenantID, created.ID, allocations[0].ID)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALLOCATION_NOT_FOUND", domainErr.Code)
	})
}

func TestBudgetService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	start, end := monthInterval()
	tenantID := uuid.New()
	svc, repo := newBudgetFixture(nil)

	created, err := svc.Create(ctx, CreateBudgetInput{
		TenantID:  tenantID,
		Name:      "Lifecycle",
		Scope:     "tenant",
		Period:    "monthly",
		Amount:    decimal.NewFromInt(1000),
		StartDate: start,
		EndDate:   end,
	})
	require.NoError(t, err)

	t.Run("update changes amount and name", func(t *testing.T) {
		updated, err := svc.Update(ctx, UpdateBudgetInput{
			TenantID:  tenantID,
			ID:        created.ID,
			Name:      "Lifecycle v2",
			Amount:    decimal.NewFromInt(1500),
			StartDate: start,
			EndDate:   end,
		})

		require.NoError(t, err)
		assert.Equal(t, "Lifecycle v2", updated.Name)
		assert.True(t, updated.Amount.Equal(decimal.NewFromInt(1500)))
	})

	t.Run("deactivate and reactivate", func(t *testing.T) {
		dto, err := svc.SetActive(ctx, tenantID, created.ID, false)
		require.NoError(t, err)
		assert.False(t, dto.IsActive)

		dto, err = svc.SetActive(ctx, tenantID, created.ID, true)
		require.NoError(t, err)
		assert.True(t, dto.IsActive)
	})

	t.Run("list returns tenant budgets only", func(t *testing.T) {
		budgets, err := svc.List(ctx, tenantID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, budgets, 1)

		budgets, err = svc.List(ctx, uuid.New(), shared.DefaultFilter())
		require.NoError(t, err)
		assert.Empty(t, budgets)
	})

	t.Run("delete removes the budget", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, tenantID, created.ID))

		_, err := repo.FindByID(ctx, tenantID, created.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		err = svc.Delete(ctx, tenantID, created.ID)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "BUDGET_NOT_FOUND", domainErr.Code)
	})
}

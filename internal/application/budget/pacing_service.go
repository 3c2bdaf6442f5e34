package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/ads"
	"github.com/pulse/backend/internal/domain/budget"
	"github.com/pulse/backend/internal/domain/connection"
	"github.com/pulse/backend/internal/domain/portfolio"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PacingService computes budget pacing from synced spend, records daily
// snapshots and raises threshold alerts.
type PacingService struct {
	budgetRepo     budget.BudgetRepository
	alertRepo      budget.AlertRepository
	snapshotRepo   budget.SnapshotRepository
	clientRepo     portfolio.ClientRepository
	groupRepo      portfolio.GroupRepository
	clientAcctRepo connection.ClientAccountRepository
	campaignRepo   ads.CampaignRepository
	dailyRepo      ads.DailyMetricRepository
	logger         *zap.Logger
}

// NewPacingService creates a new pacing service
func NewPacingService(
	budgetRepo budget.BudgetRepository,
	alertRepo budget.AlertRepository,
	snapshotRepo budget.SnapshotRepository,
	clientRepo portfolio.ClientRepository,
	groupRepo portfolio.GroupRepository,
	clientAcctRepo connection.ClientAccountRepository,
	campaignRepo ads.CampaignRepository,
	dailyRepo ads.DailyMetricRepository,
	logger *zap.Logger,
) *PacingService {
	return &PacingService{
		budgetRepo:     budgetRepo,
		alertRepo:      alertRepo,
		snapshotRepo:   snapshotRepo,
		clientRepo:     clientRepo,
		groupRepo:      groupRepo,
		clientAcctRepo: clientAcctRepo,
		campaignRepo:   campaignRepo,
		dailyRepo:      dailyRepo,
		logger:         logger,
	}
}

// GetPacing computes the live pacing picture for one budget
func (s *PacingService) GetPacing(ctx context.Context, tenantID, budgetID uuid.UUID) (*PacingDTO, error) {
	b, err := s.budgetRepo.FindByID(ctx, tenantID, budgetID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("BUDGET_NOT_FOUND", "Budget not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find budget")
	}

	pacing, err := s.computePacing(ctx, b, time.Now())
	if err != nil {
		return nil, err
	}

	dto := toPacingDTO(b.ID, *pacing)
	return &dto, nil
}

// History returns recorded daily snapshots for a budget, oldest first
func (s *PacingService) History(ctx context.Context, tenantID, budgetID uuid.UUID, from, to time.Time) ([]SpendSnapshotDTO, error) {
	if _, err := s.budgetRepo.FindByID(ctx, tenantID, budgetID); err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("BUDGET_NOT_FOUND", "Budget not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find budget")
	}

	snapshots, err := s.snapshotRepo.FindByBudget(ctx, tenantID, budgetID, from, to)
	if err != nil {
		s.logger.Error("Failed to load spend snapshots", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load spend history")
	}

	dtos := make([]SpendSnapshotDTO, len(snapshots))
	for i, snap := range snapshots {
		dtos[i] = SpendSnapshotDTO{
			Date:        snap.Date.Format("2006-01-02"),
			Spent:       snap.Spent,
			Expected:    snap.Expected,
			Variance:    snap.Variance,
			VariancePct: snap.VariancePct,
			Status:      string(snap.Status),
		}
	}
	return dtos, nil
}

// Evaluate recomputes pacing for one budget, writes today's snapshot and
// raises any alerts the pacing warrants. Called by the scheduler and after
// manual syncs.
func (s *PacingService) Evaluate(ctx context.Context, b *budget.Budget, now time.Time) (*PacingDTO, error) {
	if !b.IsActive || !b.Covers(now) {
		return nil, nil
	}

	pacing, err := s.computePacing(ctx, b, now)
	if err != nil {
		return nil, err
	}

	s.writeSnapshot(ctx, b, *pacing, now)
	s.raiseAlerts(ctx, b, *pacing)

	dto := toPacingDTO(b.ID, *pacing)
	return &dto, nil
}

// EvaluateAll runs Evaluate over every active budget of every tenant
func (s *PacingService) EvaluateAll(ctx context.Context, now time.Time) (int, error) {
	budgets, err := s.budgetRepo.FindAllActive(ctx)
	if err != nil {
		s.logger.Error("Failed to list active budgets", zap.Error(err))
		return 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to list budgets")
	}

	evaluated := 0
	for i := range budgets {
		if _, err := s.Evaluate(ctx, &budgets[i], now); err != nil {
			s.logger.Warn("Budget evaluation failed",
				zap.String("budget_id", budgets[i].ID.String()),
				zap.Error(err))
			continue
		}
		evaluated++
	}

	s.logger.Info("Budget pacing evaluated",
		zap.Int("budgets", len(budgets)),
		zap.Int("evaluated", evaluated))
	return evaluated, nil
}

// ListAlerts returns a tenant's open alerts
func (s *PacingService) ListAlerts(ctx context.Context, tenantID uuid.UUID) ([]AlertDTO, error) {
	alerts, err := s.alertRepo.FindOpen(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to list alerts", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list alerts")
	}

	dtos := make([]AlertDTO, len(alerts))
	for i := range alerts {
		dtos[i] = toAlertDTO(&alerts[i])
	}
	return dtos, nil
}

// AcknowledgeAlert marks an alert as seen
func (s *PacingService) AcknowledgeAlert(ctx context.Context, tenantID, alertID uuid.UUID) (*AlertDTO, error) {
	alert, err := s.alertRepo.FindByID(ctx, tenantID, alertID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("ALERT_NOT_FOUND", "Alert not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find alert")
	}

	alert.Acknowledge()

	if err := s.alertRepo.Save(ctx, alert); err != nil {
		s.logger.Error("Failed to save alert", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to acknowledge alert")
	}

	dto := toAlertDTO(alert)
	return &dto, nil
}

// computePacing totals synced spend over the budget's campaigns and interval
func (s *PacingService) computePacing(ctx context.Context, b *budget.Budget, now time.Time) (*budget.Pacing, error) {
	campaignIDs, err := s.resolveCampaigns(ctx, b)
	if err != nil {
		return nil, err
	}

	spent := decimal.Zero
	if len(campaignIDs) > 0 {
		to := now.UTC().Truncate(24 * time.Hour)
		if to.After(b.EndDate) {
			to = b.EndDate
		}
		spent, err = s.dailyRepo.SumCost(ctx, b.TenantID, campaignIDs, b.StartDate, to)
		if err != nil {
			s.logger.Error("Failed to total spend", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to compute spend")
		}
	}

	pacing := budget.ComputePacing(b, spent, now)
	return &pacing, nil
}

// resolveCampaigns maps the budget scope to the campaign ids whose spend counts
func (s *PacingService) resolveCampaigns(ctx context.Context, b *budget.Budget) ([]uuid.UUID, error) {
	var clientIDs []uuid.UUID
	switch b.Scope {
	case budget.ScopeClient:
		if b.ClientID == nil {
			return nil, shared.NewDomainError("INVALID_SCOPE", "Client-scoped budget has no client")
		}
		clientIDs = []uuid.UUID{*b.ClientID}
	case budget.ScopeGroup:
		if b.GroupID == nil {
			return nil, shared.NewDomainError("INVALID_SCOPE", "Group-scoped budget has no group")
		}
		group, err := s.groupRepo.FindByID(ctx, b.TenantID, *b.GroupID)
		if err != nil {
			if err == shared.ErrNotFound {
				return nil, shared.NewDomainError("GROUP_NOT_FOUND", "Client group not found")
			}
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find client group")
		}
		clientIDs = group.ClientIDs
	case budget.ScopeTenant:
		clients, err := s.clientRepo.FindActive(ctx, b.TenantID)
		if err != nil {
			s.logger.Error("Failed to list clients", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list clients")
		}
		clientIDs = make([]uuid.UUID, len(clients))
		for i, c := range clients {
			clientIDs[i] = c.ID
		}
	}

	var accountIDs []uuid.UUID
	for _, clientID := range clientIDs {
		links, err := s.clientAcctRepo.FindByClient(ctx, b.TenantID, clientID, false)
		if err != nil {
			s.logger.Error("Failed to list account links", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list account links")
		}
		for _, link := range links {
			accountIDs = append(accountIDs, link.ID)
		}
	}
	if len(accountIDs) == 0 {
		return nil, nil
	}

	campaigns, err := s.campaignRepo.FindByAccounts(ctx, b.TenantID, accountIDs)
	if err != nil {
		s.logger.Error("Failed to list campaigns", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list campaigns")
	}

	ids := make([]uuid.UUID, len(campaigns))
	for i, c := range campaigns {
		ids[i] = c.ID
	}
	return ids, nil
}

// writeSnapshot upserts today's pacing record
func (s *PacingService) writeSnapshot(ctx context.Context, b *budget.Budget, pacing budget.Pacing, now time.Time) {
	day := now.UTC().Truncate(24 * time.Hour)

	snap, err := s.snapshotRepo.Find(ctx, b.TenantID, b.ID, day)
	if err != nil {
		snap = budget.NewSpendSnapshot(b.TenantID, b.ID, day, pacing)
	} else {
		snap.Refresh(pacing)
	}

	if err := s.snapshotRepo.Save(ctx, snap); err != nil {
		s.logger.Error("Failed to save spend snapshot",
			zap.String("budget_id", b.ID.String()),
			zap.Error(err))
	}
}

// raiseAlerts creates any warranted alerts, skipping types with an open alert
func (s *PacingService) raiseAlerts(ctx context.Context, b *budget.Budget, pacing budget.Pacing) {
	for _, alertType := range budget.EvaluateAlerts(pacing) {
		if existing, err := s.alertRepo.FindOpenByBudget(ctx, b.TenantID, b.ID, alertType); err == nil && existing != nil {
			continue
		} else if err != nil && err != shared.ErrNotFound {
			s.logger.Error("Failed to check open alerts", zap.Error(err))
			continue
		}

		alert := budget.NewBudgetAlert(b.TenantID, b.ID, alertType, alertMessage(b, alertType, pacing), pacing)
		alert.AddDomainEvent(budget.NewBudgetAlertRaisedEvent(alert.ID, b.ID, b.TenantID, string(alertType), pacing.VariancePct))

		if err := s.alertRepo.Save(ctx, alert); err != nil {
			s.logger.Error("Failed to save alert",
				zap.String("budget_id", b.ID.String()),
				zap.Error(err))
			continue
		}

		s.logger.Info("Budget alert raised",
			zap.String("budget_id", b.ID.String()),
			zap.String("type", string(alertType)))
	}
}

func alertMessage(b *budget.Budget, alertType budget.AlertType, pacing budget.Pacing) string {
	switch alertType {
	case budget.AlertOverspend:
		return fmt.Sprintf("Budget %q has spent %s against an expected %s", b.Name, pacing.Spent.StringFixed(2), pacing.Expected.StringFixed(2))
	case budget.AlertUnderspend:
		return fmt.Sprintf("Budget %q has spent %s, under the expected %s", b.Name, pacing.Spent.StringFixed(2), pacing.Expected.StringFixed(2))
	default:
		return fmt.Sprintf("Budget %q is forecast to spend %s against a total of %s", b.Name, pacing.ForecastTotal.StringFixed(2), b.Amount.StringFixed(2))
	}
}

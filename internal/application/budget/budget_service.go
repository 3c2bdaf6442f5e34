package budget

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/budget"
	"github.com/pulse/backend/internal/domain/portfolio"
	"github.com/pulse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BudgetService manages budget definitions
type BudgetService struct {
	budgetRepo     budget.BudgetRepository
	allocationRepo budget.AllocationRepository
	clientRepo     portfolio.ClientRepository
	groupRepo      portfolio.GroupRepository
	logger         *zap.Logger
}

// NewBudgetService creates a new budget service
func NewBudgetService(
	budgetRepo budget.BudgetRepository,
	allocationRepo budget.AllocationRepository,
	clientRepo portfolio.ClientRepository,
	groupRepo portfolio.GroupRepository,
	logger *zap.Logger,
) *BudgetService {
	return &BudgetService{
		budgetRepo:     budgetRepo,
		allocationRepo: allocationRepo,
		clientRepo:     clientRepo,
		groupRepo:      groupRepo,
		logger:         logger,
	}
}

// Create creates a budget bound to its scope target
func (s *BudgetService) Create(ctx context.Context, input CreateBudgetInput) (*BudgetDTO, error) {
	s.logger.Info("Creating budget",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("scope", input.Scope),
		zap.String("name", input.Name))

	b, err := budget.NewBudget(
		input.TenantID,
		input.Name,
		budget.BudgetScope(input.Scope),
		budget.BudgetPeriod(input.Period),
		input.Amount,
		input.StartDate,
		input.EndDate,
	)
	if err != nil {
		return nil, err
	}

	switch b.Scope {
	case budget.ScopeClient:
		if input.ClientID == nil {
			return nil, shared.NewDomainError("INVALID_SCOPE", "Client-scoped budgets require a client id")
		}
		if _, err := s.clientRepo.FindByID(ctx, input.TenantID, *input.ClientID); err != nil {
			if err == shared.ErrNotFound {
				return nil, shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
			}
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find client")
		}
		if err := b.ForClient(*input.ClientID); err != nil {
			return nil, err
		}
	case budget.ScopeGroup:
		if input.GroupID == nil {
			return nil, shared.NewDomainError("INVALID_SCOPE", "Group-scoped budgets require a group id")
		}
		if _, err := s.groupRepo.FindByID(ctx, input.TenantID, *input.GroupID); err != nil {
			if err == shared.ErrNotFound {
				return nil, shared.NewDomainError("GROUP_NOT_FOUND", "Client group not found")
			}
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find client group")
		}
		if err := b.ForGroup(*input.GroupID); err != nil {
			return nil, err
		}
	}

	if err := s.budgetRepo.Save(ctx, b); err != nil {
		s.logger.Error("Failed to save budget", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create budget")
	}

	dto := toBudgetDTO(b)
	return &dto, nil
}

// Get returns one budget
func (s *BudgetService) Get(ctx context.Context, tenantID, id uuid.UUID) (*BudgetDTO, error) {
	b, err := s.findBudget(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	dto := toBudgetDTO(b)
	return &dto, nil
}

// List returns a tenant's budgets
func (s *BudgetService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]BudgetDTO, error) {
	budgets, err := s.budgetRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		s.logger.Error("Failed to list budgets", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list budgets")
	}

	dtos := make([]BudgetDTO, len(budgets))
	for i := range budgets {
		dtos[i] = toBudgetDTO(&budgets[i])
	}
	return dtos, nil
}

// Update changes a budget's name, amount or interval
func (s *BudgetService) Update(ctx context.Context, input UpdateBudgetInput) (*BudgetDTO, error) {
	b, err := s.findBudget(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}

	if err := b.Update(input.Name, input.Amount, input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	if err := s.budgetRepo.Save(ctx, b); err != nil {
		s.logger.Error("Failed to save budget", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update budget")
	}

	dto := toBudgetDTO(b)
	return &dto, nil
}

// SetActive activates or deactivates a budget
func (s *BudgetService) SetActive(ctx context.Context, tenantID, id uuid.UUID, active bool) (*BudgetDTO, error) {
	b, err := s.findBudget(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if active {
		b.Activate()
	} else {
		b.Deactivate()
	}

	if err := s.budgetRepo.Save(ctx, b); err != nil {
		s.logger.Error("Failed to save budget", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update budget")
	}

	dto := toBudgetDTO(b)
	return &dto, nil
}

// Delete removes a budget and its snapshots
func (s *BudgetService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.findBudget(ctx, tenantID, id); err != nil {
		return err
	}

	if err := s.budgetRepo.Delete(ctx, tenantID, id); err != nil {
		s.logger.Error("Failed to delete budget", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete budget")
	}

	s.logger.Info("Budget deleted", zap.String("budget_id", id.String()))
	return nil
}

// AddAllocation earmarks part of a budget for a platform, account or campaign.
// The sum of allocations may not exceed the budget amount.
func (s *BudgetService) AddAllocation(ctx context.Context, input CreateAllocationInput) (*AllocationDTO, error) {
	b, err := s.findBudget(ctx, input.TenantID, input.BudgetID)
	if err != nil {
		return nil, err
	}

	a, err := budget.NewBudgetAllocation(input.TenantID, b.ID, budget.AllocationTarget(input.Target), input.Amount)
	if err != nil {
		return nil, err
	}

	switch a.Target {
	case budget.TargetPlatform:
		if err := a.ForPlatform(input.Platform); err != nil {
			return nil, err
		}
	case budget.TargetAccount:
		if input.ClientAccountID == nil {
			return nil, shared.NewDomainError("INVALID_TARGET", "Account-targeted allocations require a client account id")
		}
		if err := a.ForAccount(*input.ClientAccountID); err != nil {
			return nil, err
		}
	case budget.TargetCampaign:
		if input.CampaignID == nil {
			return nil, shared.NewDomainError("INVALID_TARGET", "Campaign-targeted allocations require a campaign id")
		}
		if err := a.ForCampaign(*input.CampaignID); err != nil {
			return nil, err
		}
	}

	if input.Percent != nil {
		if err := a.SetPercent(*input.Percent); err != nil {
			return nil, err
		}
	}

	existing, err := s.allocationRepo.FindByBudget(ctx, input.TenantID, b.ID)
	if err != nil {
		s.logger.Error("Failed to load allocations", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load allocations")
	}
	total := a.Amount
	for i := range existing {
		total = total.Add(existing[i].Amount)
	}
	if total.GreaterThan(b.Amount) {
		return nil, shared.NewDomainError("ALLOCATION_EXCEEDS_BUDGET", "Allocations exceed the budget amount")
	}

	if err := s.allocationRepo.Save(ctx, a); err != nil {
		s.logger.Error("Failed to save allocation", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create allocation")
	}

	dto := toAllocationDTO(a)
	return &dto, nil
}

// ListAllocations returns a budget's allocations
func (s *BudgetService) ListAllocations(ctx context.Context, tenantID, budgetID uuid.UUID) ([]AllocationDTO, error) {
	if _, err := s.findBudget(ctx, tenantID, budgetID); err != nil {
		return nil, err
	}

	allocations, err := s.allocationRepo.FindByBudget(ctx, tenantID, budgetID)
	if err != nil {
		s.logger.Error("Failed to list allocations", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list allocations")
	}

	dtos := make([]AllocationDTO, len(allocations))
	for i := range allocations {
		dtos[i] = toAllocationDTO(&allocations[i])
	}
	return dtos, nil
}

// RemoveAllocation deletes one allocation from a budget
func (s *BudgetService) RemoveAllocation(ctx context.Context, tenantID, budgetID, allocationID uuid.UUID) error {
	a, err := s.allocationRepo.FindByID(ctx, tenantID, allocationID)
	if err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("ALLOCATION_NOT_FOUND", "Allocation not found")
		}
		s.logger.Error("Failed to find allocation", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to find allocation")
	}
	if a.BudgetID != budgetID {
		return shared.NewDomainError("ALLOCATION_NOT_FOUND", "Allocation not found")
	}

	if err := s.allocationRepo.Delete(ctx, tenantID, allocationID); err != nil {
		s.logger.Error("Failed to delete allocation", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete allocation")
	}
	return nil
}

func (s *BudgetService) findBudget(ctx context.Context, tenantID, id uuid.UUID) (*budget.Budget, error) {
	b, err := s.budgetRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("BUDGET_NOT_FOUND", "Budget not found")
		}
		s.logger.Error("Failed to find budget", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find budget")
	}
	return b, nil
}

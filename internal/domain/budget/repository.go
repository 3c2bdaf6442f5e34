package budget

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/shared"
)

// BudgetRepository defines the interface for budget persistence
type BudgetRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Budget, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Budget, error)
	FindActive(ctx context.Context, tenantID uuid.UUID) ([]Budget, error)
	FindActiveByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]Budget, error)
	// FindAllActive spans tenants; used by the scheduler
	FindAllActive(ctx context.Context) ([]Budget, error)
	Save(ctx context.Context, budget *Budget) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	Count(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// AllocationRepository defines the interface for budget allocations
type AllocationRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*BudgetAllocation, error)
	FindByBudget(ctx context.Context, tenantID, budgetID uuid.UUID) ([]BudgetAllocation, error)
	Save(ctx context.Context, allocation *BudgetAllocation) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// AlertRepository defines the interface for budget alerts
type AlertRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*BudgetAlert, error)
	FindOpen(ctx context.Context, tenantID uuid.UUID) ([]BudgetAlert, error)
	FindOpenByBudget(ctx context.Context, tenantID, budgetID uuid.UUID, alertType AlertType) (*BudgetAlert, error)
	Save(ctx context.Context, alert *BudgetAlert) error
}

// SnapshotRepository defines the interface for daily spend snapshots
type SnapshotRepository interface {
	Find(ctx context.Context, tenantID, budgetID uuid.UUID, date time.Time) (*SpendSnapshot, error)
	FindByBudget(ctx context.Context, tenantID, budgetID uuid.UUID, from, to time.Time) ([]SpendSnapshot, error)
	Save(ctx context.Context, snapshot *SpendSnapshot) error
}

package portfolio

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/shared"
)

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Client, error)
	// FindAll returns clients for a tenant. Archived clients are excluded
	// unless the filter sets Filters["include_archived"] = true.
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Client, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Client, error)
	FindActive(ctx context.Context, tenantID uuid.UUID) ([]Client, error)
	Save(ctx context.Context, client *Client) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error)
}

// CompetitorRepository defines the interface for competitor persistence
type CompetitorRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Competitor, error)
	FindByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]Competitor, error)
	Save(ctx context.Context, competitor *Competitor) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	ExistsByName(ctx context.Context, tenantID, clientID uuid.UUID, name string) (bool, error)
}

// GroupRepository defines the interface for client group persistence
type GroupRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ClientGroup, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ClientGroup, error)
	FindByCategory(ctx context.Context, tenantID uuid.UUID, category GroupCategory, value string) (*ClientGroup, error)
	Save(ctx context.Context, group *ClientGroup) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// GoalRepository defines the interface for performance goal persistence
type GoalRepository interface {
	FindByClient(ctx context.Context, tenantID, clientID uuid.UUID) (*PerformanceGoal, error)
	FindTenantDefaults(ctx context.Context, tenantID uuid.UUID) (*TenantGoalDefaults, error)
	SaveGoal(ctx context.Context, goal *PerformanceGoal) error
	SaveTenantDefaults(ctx context.Context, defaults *TenantGoalDefaults) error
	DeleteGoal(ctx context.Context, tenantID, clientID uuid.UUID) error
}

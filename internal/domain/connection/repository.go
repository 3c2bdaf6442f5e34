package connection

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/shared"
)

// PlatformTypeRepository defines the interface for the platform catalog
type PlatformTypeRepository interface {
	FindAll(ctx context.Context) ([]PlatformType, error)
	FindByCode(ctx context.Context, code PlatformCode) (*PlatformType, error)
	Save(ctx context.Context, platform *PlatformType) error
}

// ConnectionRepository defines the interface for platform connection persistence
type ConnectionRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*PlatformConnection, error)
	FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]PlatformConnection, error)
	FindByAccount(ctx context.Context, tenantID uuid.UUID, code PlatformCode, accountEmail string) (*PlatformConnection, error)
	FindActiveByPlatform(ctx context.Context, tenantID uuid.UUID, code PlatformCode) ([]PlatformConnection, error)
	// FindAllSyncable returns active connections across all tenants, used by
	// the scheduler for nightly pulls.
	FindAllSyncable(ctx context.Context) ([]PlatformConnection, error)
	Save(ctx context.Context, conn *PlatformConnection) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// ClientAccountRepository defines the interface for client account links
type ClientAccountRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ClientAccount, error)
	FindByClient(ctx context.Context, tenantID, clientID uuid.UUID, includeInactive bool) ([]ClientAccount, error)
	FindByConnection(ctx context.Context, tenantID, connectionID uuid.UUID) ([]ClientAccount, error)
	FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]ClientAccount, error)
	Find(ctx context.Context, tenantID, clientID, connectionID uuid.UUID, customerID string) (*ClientAccount, error)
	Save(ctx context.Context, account *ClientAccount) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// AdsAccountRepository defines the interface for the account hierarchy cache
type AdsAccountRepository interface {
	FindByConnection(ctx context.Context, tenantID, connectionID uuid.UUID) ([]AdsAccount, error)
	FindByCustomerID(ctx context.Context, tenantID, connectionID uuid.UUID, customerID string) (*AdsAccount, error)
	FindMetricsEligible(ctx context.Context, tenantID, connectionID uuid.UUID) ([]AdsAccount, error)
	Save(ctx context.Context, account *AdsAccount) error
	SaveAll(ctx context.Context, accounts []*AdsAccount) error
	Count(ctx context.Context, tenantID, connectionID uuid.UUID, filter shared.Filter) (int64, error)
}

// AccountSyncRepository defines the interface for discovery audit rows
type AccountSyncRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*AccountSync, error)
	FindLatest(ctx context.Context, tenantID, connectionID uuid.UUID) (*AccountSync, error)
	FindByConnection(ctx context.Context, tenantID, connectionID uuid.UUID, filter shared.Filter) ([]AccountSync, error)
	Save(ctx context.Context, sync *AccountSync) error
}

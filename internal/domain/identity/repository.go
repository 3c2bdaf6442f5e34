package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/shared"
)

// TenantRepository defines the interface for tenant persistence
type TenantRepository interface {
	// FindByID finds a tenant by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)

	// FindBySlug finds a tenant by its unique slug
	FindBySlug(ctx context.Context, slug string) (*Tenant, error)

	// FindAll finds all tenants matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Tenant, error)

	// FindByIDs finds multiple tenants by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Tenant, error)

	// Save creates or updates a tenant
	Save(ctx context.Context, tenant *Tenant) error

	// Delete deletes a tenant
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts tenants matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsBySlug checks if a tenant with the given slug exists
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, user *User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// MembershipRepository defines the interface for tenant membership persistence
type MembershipRepository interface {
	Find(ctx context.Context, userID, tenantID uuid.UUID) (*TenantMembership, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]TenantMembership, error)
	FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]TenantMembership, error)
	Save(ctx context.Context, membership *TenantMembership) error
	Delete(ctx context.Context, userID, tenantID uuid.UUID) error
}

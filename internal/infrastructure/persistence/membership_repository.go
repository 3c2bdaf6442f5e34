package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/identity"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/pulse/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormMembershipRepository implements MembershipRepository using GORM
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewGormMembershipRepository creates a new GormMembershipRepository
func NewGormMembershipRepository(db *gorm.DB) *GormMembershipRepository {
	return &GormMembershipRepository{db: db}
}

// Find finds a membership for a user in a tenant
func (r *GormMembershipRepository) Find(ctx context.Context, userID, tenantID uuid.UUID) (*identity.TenantMembership, error) {
	var model models.MembershipModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND tenant_id = ?", userID, tenantID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	membership := model.ToDomain()
	return &membership, nil
}

// FindByUser finds all memberships for a user
func (r *GormMembershipRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]identity.TenantMembership, error) {
	var membershipModels []models.MembershipModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&membershipModels).Error; err != nil {
		return nil, err
	}
	memberships := make([]identity.TenantMembership, len(membershipModels))
	for i, model := range membershipModels {
		memberships[i] = model.ToDomain()
	}
	return memberships, nil
}

// FindByTenant finds all memberships within a tenant
func (r *GormMembershipRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]identity.TenantMembership, error) {
	var membershipModels []models.MembershipModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC").
		Find(&membershipModels).Error; err != nil {
		return nil, err
	}
	memberships := make([]identity.TenantMembership, len(membershipModels))
	for i, model := range membershipModels {
		memberships[i] = model.ToDomain()
	}
	return memberships, nil
}

// Save creates or updates a membership
func (r *GormMembershipRepository) Save(ctx context.Context, membership *identity.TenantMembership) error {
	model := &models.MembershipModel{}
	model.FromDomain(*membership)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a user's membership in a tenant
func (r *GormMembershipRepository) Delete(ctx context.Context, userID, tenantID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND tenant_id = ?", userID, tenantID).
		Delete(&models.MembershipModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormMembershipRepository implements MembershipRepository
var _ identity.MembershipRepository = (*GormMembershipRepository)(nil)

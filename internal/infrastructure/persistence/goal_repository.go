package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/portfolio"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/pulse/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormGoalRepository implements GoalRepository using GORM.
// It persists both per-client goals and tenant-wide defaults.
type GormGoalRepository struct {
	db *gorm.DB
}

// NewGormGoalRepository creates a new GormGoalRepository
func NewGormGoalRepository(db *gorm.DB) *GormGoalRepository {
	return &GormGoalRepository{db: db}
}

// FindByClient finds the performance goal for a client
func (r *GormGoalRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID) (*portfolio.PerformanceGoal, error) {
	var model models.GoalModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND client_id = ?", tenantID, clientID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindTenantDefaults finds the tenant-wide goal defaults
func (r *GormGoalRepository) FindTenantDefaults(ctx context.Context, tenantID uuid.UUID) (*portfolio.TenantGoalDefaults, error) {
	var model models.TenantGoalDefaultsModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SaveGoal creates or updates a client's performance goal
func (r *GormGoalRepository) SaveGoal(ctx context.Context, goal *portfolio.PerformanceGoal) error {
	model := &models.GoalModel{}
	model.FromDomain(goal)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveTenantDefaults creates or updates the tenant-wide defaults
func (r *GormGoalRepository) SaveTenantDefaults(ctx context.Context, defaults *portfolio.TenantGoalDefaults) error {
	model := &models.TenantGoalDefaultsModel{}
	model.FromDomain(defaults)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteGoal deletes a client's performance goal
func (r *GormGoalRepository) DeleteGoal(ctx context.Context, tenantID, clientID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND client_id = ?", tenantID, clientID).
		Delete(&models.GoalModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormGoalRepository implements GoalRepository
var _ portfolio.GoalRepository = (*GormGoalRepository)(nil)

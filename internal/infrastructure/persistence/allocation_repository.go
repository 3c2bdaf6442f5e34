package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/budget"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/pulse/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAllocationRepository implements AllocationRepository using GORM
type GormAllocationRepository struct {
	db *gorm.DB
}

// NewGormAllocationRepository creates a new GormAllocationRepository
func NewGormAllocationRepository(db *gorm.DB) *GormAllocationRepository {
	return &GormAllocationRepository{db: db}
}

// FindByID finds an allocation by ID within a tenant
func (r *GormAllocationRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*budget.BudgetAllocation, error) {
	var model models.BudgetAllocationModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBudget finds a budget's allocations, newest first
func (r *GormAllocationRepository) FindByBudget(ctx context.Context, tenantID, budgetID uuid.UUID) ([]budget.BudgetAllocation, error) {
	var allocationModels []models.BudgetAllocationModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND budget_id = ?", tenantID, budgetID).
		Order("created_at DESC").
		Find(&allocationModels).Error; err != nil {
		return nil, err
	}

	allocations := make([]budget.BudgetAllocation, len(allocationModels))
	for i, model := range allocationModels {
		allocations[i] = *model.ToDomain()
	}
	return allocations, nil
}

// Save creates or updates an allocation
func (r *GormAllocationRepository) Save(ctx context.Context, a *budget.BudgetAllocation) error {
	model := &models.BudgetAllocationModel{}
	model.FromDomain(a)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes an allocation within a tenant
func (r *GormAllocationRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BudgetAllocationModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormAllocationRepository implements AllocationRepository
var _ budget.AllocationRepository = (*GormAllocationRepository)(nil)

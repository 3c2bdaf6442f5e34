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

// GormAlertRepository implements AlertRepository using GORM
type GormAlertRepository struct {
	db *gorm.DB
}

// NewGormAlertRepository creates a new GormAlertRepository
func NewGormAlertRepository(db *gorm.DB) *GormAlertRepository {
	return &GormAlertRepository{db: db}
}

// FindByID finds an alert by ID within a tenant
func (r *GormAlertRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*budget.BudgetAlert, error) {
	var model models.BudgetAlertModel
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

// FindOpen finds all unacknowledged alerts for a tenant, newest first
func (r *GormAlertRepository) FindOpen(ctx context.Context, tenantID uuid.UUID) ([]budget.BudgetAlert, error) {
	var alertModels []models.BudgetAlertModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND acknowledged_at IS NULL", tenantID).
		Order("created_at DESC").
		Find(&alertModels).Error; err != nil {
		return nil, err
	}
	alerts := make([]budget.BudgetAlert, len(alertModels))
	for i, model := range alertModels {
		alerts[i] = *model.ToDomain()
	}
	return alerts, nil
}

// FindOpenByBudget finds the open alert of a given type for a budget
func (r *GormAlertRepository) FindOpenByBudget(ctx context.Context, tenantID, budgetID uuid.UUID, alertType budget.AlertType) (*budget.BudgetAlert, error) {
	var model models.BudgetAlertModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND budget_id = ? AND type = ? AND acknowledged_at IS NULL",
			tenantID, budgetID, string(alertType)).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates an alert
func (r *GormAlertRepository) Save(ctx context.Context, alert *budget.BudgetAlert) error {
	model := &models.BudgetAlertModel{}
	model.FromDomain(alert)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormAlertRepository implements AlertRepository
var _ budget.AlertRepository = (*GormAlertRepository)(nil)

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

// GormBudgetRepository implements BudgetRepository using GORM
type GormBudgetRepository struct {
	db *gorm.DB
}

// NewGormBudgetRepository creates a new GormBudgetRepository
func NewGormBudgetRepository(db *gorm.DB) *GormBudgetRepository {
	return &GormBudgetRepository{db: db}
}

// FindByID finds a budget by ID within a tenant
func (r *GormBudgetRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*budget.Budget, error) {
	var model models.BudgetModel
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

// FindAll finds all budgets for a tenant matching the filter
func (r *GormBudgetRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]budget.Budget, error) {
	var budgetModels []models.BudgetModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.BudgetModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&budgetModels).Error; err != nil {
		return nil, err
	}
	return toBudgets(budgetModels), nil
}

// FindActive finds active budgets for a tenant
func (r *GormBudgetRepository) FindActive(ctx context.Context, tenantID uuid.UUID) ([]budget.Budget, error) {
	var budgetModels []models.BudgetModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("start_date DESC").
		Find(&budgetModels).Error; err != nil {
		return nil, err
	}
	return toBudgets(budgetModels), nil
}

// FindActiveByClient finds active client-scoped budgets for a client
func (r *GormBudgetRepository) FindActiveByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]budget.Budget, error) {
	var budgetModels []models.BudgetModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND client_id = ? AND is_active = ?", tenantID, clientID, true).
		Order("start_date DESC").
		Find(&budgetModels).Error; err != nil {
		return nil, err
	}
	return toBudgets(budgetModels), nil
}

// FindAllActive returns active budgets across all tenants
func (r *GormBudgetRepository) FindAllActive(ctx context.Context) ([]budget.Budget, error) {
	var budgetModels []models.BudgetModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("tenant_id, start_date").
		Find(&budgetModels).Error; err != nil {
		return nil, err
	}
	return toBudgets(budgetModels), nil
}

// Save creates or updates a budget
func (r *GormBudgetRepository) Save(ctx context.Context, b *budget.Budget) error {
	model := models.BudgetModelFromDomain(b)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a budget within a tenant
func (r *GormBudgetRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BudgetModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts budgets for a tenant
func (r *GormBudgetRepository) Count(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BudgetModel{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormBudgetRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "scope":
			query = query.Where("scope = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "group_id":
			query = query.Where("group_id = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		}
	}

	sortField := ValidateSortField(filter.OrderBy, BudgetSortFields, "start_date")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

func toBudgets(budgetModels []models.BudgetModel) []budget.Budget {
	budgets := make([]budget.Budget, len(budgetModels))
	for i, model := range budgetModels {
		budgets[i] = *model.ToDomain()
	}
	return budgets
}

// Ensure GormBudgetRepository implements BudgetRepository
var _ budget.BudgetRepository = (*GormBudgetRepository)(nil)

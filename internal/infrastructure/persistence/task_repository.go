package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/pulse/backend/internal/domain/task"
	"github.com/pulse/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTaskRepository implements TaskRepository using GORM
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// FindByID finds a background task by ID within a tenant
func (r *GormTaskRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*task.BackgroundTask, error) {
	var model models.TaskModel
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

// FindAll finds background tasks for a tenant, newest first
func (r *GormTaskRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]task.BackgroundTask, error) {
	var taskModels []models.TaskModel
	query := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Where("tenant_id = ?", tenantID)

	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	sortField := ValidateSortField(filter.OrderBy, TaskSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&taskModels).Error; err != nil {
		return nil, err
	}
	tasks := make([]task.BackgroundTask, len(taskModels))
	for i, model := range taskModels {
		tasks[i] = *model.ToDomain()
	}
	return tasks, nil
}

// FindRunning finds running tasks of a given type for a tenant
func (r *GormTaskRepository) FindRunning(ctx context.Context, tenantID uuid.UUID, taskType task.TaskType) ([]task.BackgroundTask, error) {
	var taskModels []models.TaskModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND type = ? AND status = ?", tenantID, string(taskType), string(task.StatusRunning)).
		Order("created_at DESC").
		Find(&taskModels).Error; err != nil {
		return nil, err
	}
	tasks := make([]task.BackgroundTask, len(taskModels))
	for i, model := range taskModels {
		tasks[i] = *model.ToDomain()
	}
	return tasks, nil
}

// Save creates or updates a background task
func (r *GormTaskRepository) Save(ctx context.Context, t *task.BackgroundTask) error {
	model := &models.TaskModel{}
	model.FromDomain(t)
	return r.db.WithContext(ctx).Save(model).Error
}

// Count counts background tasks for a tenant
func (r *GormTaskRepository) Count(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormTaskRepository implements TaskRepository
var _ task.TaskRepository = (*GormTaskRepository)(nil)

package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/connection"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/pulse/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAccountSyncRepository implements AccountSyncRepository using GORM
type GormAccountSyncRepository struct {
	db *gorm.DB
}

// NewGormAccountSyncRepository creates a new GormAccountSyncRepository
func NewGormAccountSyncRepository(db *gorm.DB) *GormAccountSyncRepository {
	return &GormAccountSyncRepository{db: db}
}

// FindByID finds a discovery run by ID within a tenant
func (r *GormAccountSyncRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*connection.AccountSync, error) {
	var model models.AccountSyncModel
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

// FindLatest finds the most recent discovery run for a connection
func (r *GormAccountSyncRepository) FindLatest(ctx context.Context, tenantID, connectionID uuid.UUID) (*connection.AccountSync, error) {
	var model models.AccountSyncModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND connection_id = ?", tenantID, connectionID).
		Order("started_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByConnection finds discovery runs for a connection, newest first
func (r *GormAccountSyncRepository) FindByConnection(ctx context.Context, tenantID, connectionID uuid.UUID, filter shared.Filter) ([]connection.AccountSync, error) {
	var syncModels []models.AccountSyncModel
	query := r.db.WithContext(ctx).
		Model(&models.AccountSyncModel{}).
		Where("tenant_id = ? AND connection_id = ?", tenantID, connectionID).
		Order("started_at DESC")

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&syncModels).Error; err != nil {
		return nil, err
	}
	syncs := make([]connection.AccountSync, len(syncModels))
	for i, model := range syncModels {
		syncs[i] = *model.ToDomain()
	}
	return syncs, nil
}

// Save creates or updates a discovery run
func (r *GormAccountSyncRepository) Save(ctx context.Context, sync *connection.AccountSync) error {
	model := &models.AccountSyncModel{}
	model.FromDomain(sync)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormAccountSyncRepository implements AccountSyncRepository
var _ connection.AccountSyncRepository = (*GormAccountSyncRepository)(nil)

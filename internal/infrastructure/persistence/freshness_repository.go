package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/ads"
	"github.com/pulse/backend/internal/domain/connection"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/pulse/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormFreshnessRepository implements FreshnessRepository using GORM
type GormFreshnessRepository struct {
	db *gorm.DB
}

// NewGormFreshnessRepository creates a new GormFreshnessRepository
func NewGormFreshnessRepository(db *gorm.DB) *GormFreshnessRepository {
	return &GormFreshnessRepository{db: db}
}

// Find finds the freshness row for a client account and date range
func (r *GormFreshnessRepository) Find(ctx context.Context, tenantID, clientAccountID uuid.UUID, rng connection.DateRange) (*ads.DataFreshness, error) {
	var model models.FreshnessModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND client_account_id = ? AND date_range = ?",
			tenantID, clientAccountID, string(rng)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByTenant finds all freshness rows for a tenant
func (r *GormFreshnessRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]ads.DataFreshness, error) {
	var freshnessModels []models.FreshnessModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("client_account_id, date_range").
		Find(&freshnessModels).Error; err != nil {
		return nil, err
	}
	rows := make([]ads.DataFreshness, len(freshnessModels))
	for i, model := range freshnessModels {
		rows[i] = *model.ToDomain()
	}
	return rows, nil
}

// Save creates or updates a freshness row
func (r *GormFreshnessRepository) Save(ctx context.Context, freshness *ads.DataFreshness) error {
	model := &models.FreshnessModel{}
	model.FromDomain(freshness)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormFreshnessRepository implements FreshnessRepository
var _ ads.FreshnessRepository = (*GormFreshnessRepository)(nil)

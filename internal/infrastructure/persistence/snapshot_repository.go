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

// GormSnapshotRepository implements SnapshotRepository using GORM
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewGormSnapshotRepository creates a new GormSnapshotRepository
func NewGormSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

// Find finds the snapshot for a campaign and date range
func (r *GormSnapshotRepository) Find(ctx context.Context, tenantID, campaignID uuid.UUID, rng connection.DateRange) (*ads.MetricSnapshot, error) {
	var model models.SnapshotModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND campaign_id = ? AND date_range = ?", tenantID, campaignID, string(rng)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCampaigns finds snapshots for multiple campaigns in one range
func (r *GormSnapshotRepository) FindByCampaigns(ctx context.Context, tenantID uuid.UUID, campaignIDs []uuid.UUID, rng connection.DateRange) ([]ads.MetricSnapshot, error) {
	if len(campaignIDs) == 0 {
		return []ads.MetricSnapshot{}, nil
	}
	var snapshotModels []models.SnapshotModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND campaign_id IN ? AND date_range = ?", tenantID, campaignIDs, string(rng)).
		Find(&snapshotModels).Error; err != nil {
		return nil, err
	}
	snapshots := make([]ads.MetricSnapshot, len(snapshotModels))
	for i, model := range snapshotModels {
		snapshots[i] = *model.ToDomain()
	}
	return snapshots, nil
}

// Save creates or updates a snapshot
func (r *GormSnapshotRepository) Save(ctx context.Context, snapshot *ads.MetricSnapshot) error {
	model := &models.SnapshotModel{}
	model.FromDomain(snapshot)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormSnapshotRepository implements SnapshotRepository
var _ ads.SnapshotRepository = (*GormSnapshotRepository)(nil)

package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/ads"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/pulse/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormDailyMetricRepository implements DailyMetricRepository using GORM
type GormDailyMetricRepository struct {
	db *gorm.DB
}

// NewGormDailyMetricRepository creates a new GormDailyMetricRepository
func NewGormDailyMetricRepository(db *gorm.DB) *GormDailyMetricRepository {
	return &GormDailyMetricRepository{db: db}
}

// Find finds a daily metric row for a campaign and date
func (r *GormDailyMetricRepository) Find(ctx context.Context, tenantID, campaignID uuid.UUID, date time.Time) (*ads.DailyMetric, error) {
	var model models.DailyMetricModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND campaign_id = ? AND date = ?", tenantID, campaignID, dateOnly(date)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindRange finds daily metric rows for campaigns within [from, to]
func (r *GormDailyMetricRepository) FindRange(ctx context.Context, tenantID uuid.UUID, campaignIDs []uuid.UUID, from, to time.Time) ([]ads.DailyMetric, error) {
	if len(campaignIDs) == 0 {
		return []ads.DailyMetric{}, nil
	}
	var metricModels []models.DailyMetricModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND campaign_id IN ? AND date >= ? AND date <= ?",
			tenantID, campaignIDs, dateOnly(from), dateOnly(to)).
		Order("date ASC").
		Find(&metricModels).Error; err != nil {
		return nil, err
	}
	metrics := make([]ads.DailyMetric, len(metricModels))
	for i, model := range metricModels {
		metrics[i] = *model.ToDomain()
	}
	return metrics, nil
}

// Save creates or updates a daily metric row
func (r *GormDailyMetricRepository) Save(ctx context.Context, metric *ads.DailyMetric) error {
	model := &models.DailyMetricModel{}
	model.FromDomain(metric)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveAll creates or updates a batch of daily metric rows
func (r *GormDailyMetricRepository) SaveAll(ctx context.Context, metrics []*ads.DailyMetric) error {
	if len(metrics) == 0 {
		return nil
	}
	metricModels := make([]*models.DailyMetricModel, len(metrics))
	for i, metric := range metrics {
		model := &models.DailyMetricModel{}
		model.FromDomain(metric)
		metricModels[i] = model
	}
	return r.db.WithContext(ctx).Save(metricModels).Error
}

// SumCost totals cost over campaigns in [from, to]
func (r *GormDailyMetricRepository) SumCost(ctx context.Context, tenantID uuid.UUID, campaignIDs []uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	if len(campaignIDs) == 0 {
		return decimal.Zero, nil
	}
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.DailyMetricModel{}).
		Select("COALESCE(SUM(cost), 0) AS total").
		Where("tenant_id = ? AND campaign_id IN ? AND date >= ? AND date <= ?",
			tenantID, campaignIDs, dateOnly(from), dateOnly(to)).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// SumCostByDay totals cost per day over campaigns in [from, to]
func (r *GormDailyMetricRepository) SumCostByDay(ctx context.Context, tenantID uuid.UUID, campaignIDs []uuid.UUID, from, to time.Time) ([]ads.DailySpend, error) {
	if len(campaignIDs) == 0 {
		return []ads.DailySpend{}, nil
	}
	var rows []ads.DailySpend
	if err := r.db.WithContext(ctx).
		Model(&models.DailyMetricModel{}).
		Select("date, COALESCE(SUM(cost), 0) AS cost").
		Where("tenant_id = ? AND campaign_id IN ? AND date >= ? AND date <= ?",
			tenantID, campaignIDs, dateOnly(from), dateOnly(to)).
		Group("date").
		Order("date ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []ads.DailySpend{}
	}
	return rows, nil
}

// dateOnly truncates a timestamp to its UTC calendar day
func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Ensure GormDailyMetricRepository implements DailyMetricRepository
var _ ads.DailyMetricRepository = (*GormDailyMetricRepository)(nil)

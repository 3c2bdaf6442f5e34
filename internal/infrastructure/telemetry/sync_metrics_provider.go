// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSyncMetricsProvider implements SyncMetricsProvider using GORM.
// It queries the connection and alert tables directly for aggregated metrics.
type GormSyncMetricsProvider struct {
	db *gorm.DB
}

// NewGormSyncMetricsProvider creates a new GormSyncMetricsProvider.
func NewGormSyncMetricsProvider(db *gorm.DB) *GormSyncMetricsProvider {
	return &GormSyncMetricsProvider{db: db}
}

// GetActiveConnectionCounts returns active connection counts per platform code for a tenant.
func (p *GormSyncMetricsProvider) GetActiveConnectionCounts(ctx context.Context, tenantID uuid.UUID) (map[string]int64, error) {
	type result struct {
		PlatformCode string `gorm:"column:platform_code"`
		Count        int64  `gorm:"column:count"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("platform_connections").
		Select("platform_code, COUNT(*) as count").
		Where("tenant_id = ? AND status = ?", tenantID, "active").
		Group("platform_code").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[string]int64, len(results))
	for _, r := range results {
		m[r.PlatformCode] = r.Count
	}

	return m, nil
}

// GetOpenAlertCount returns the number of unacknowledged pacing alerts for a tenant.
func (p *GormSyncMetricsProvider) GetOpenAlertCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("budget_alerts").
		Where("tenant_id = ? AND acknowledged_at IS NULL", tenantID).
		Count(&count).Error

	return count, err
}

// GormTenantProvider implements TenantProvider using GORM.
type GormTenantProvider struct {
	db *gorm.DB
}

// NewGormTenantProvider creates a new GormTenantProvider.
func NewGormTenantProvider(db *gorm.DB) *GormTenantProvider {
	return &GormTenantProvider{db: db}
}

// GetActiveTenantIDs returns all active tenant IDs.
func (p *GormTenantProvider) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("tenants").
		Select("id").
		Where("is_active = ? AND archived_at IS NULL", true).
		Find(&ids).Error

	return ids, err
}

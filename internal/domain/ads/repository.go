package ads

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/connection"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CampaignRepository defines the interface for campaign persistence
type CampaignRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Campaign, error)
	FindByAccount(ctx context.Context, tenantID, clientAccountID uuid.UUID, filter shared.Filter) ([]Campaign, error)
	FindByAccounts(ctx context.Context, tenantID uuid.UUID, clientAccountIDs []uuid.UUID) ([]Campaign, error)
	FindByPlatformID(ctx context.Context, tenantID, clientAccountID uuid.UUID, platformCampaignID string) (*Campaign, error)
	Save(ctx context.Context, campaign *Campaign) error
	Count(ctx context.Context, tenantID, clientAccountID uuid.UUID) (int64, error)
}

// AdGroupRepository defines the interface for ad group persistence
type AdGroupRepository interface {
	FindByCampaign(ctx context.Context, tenantID, campaignID uuid.UUID) ([]AdGroup, error)
	FindByPlatformID(ctx context.Context, tenantID, campaignID uuid.UUID, platformAdGroupID string) (*AdGroup, error)
	Save(ctx context.Context, adGroup *AdGroup) error
}

// SnapshotRepository defines the interface for metric snapshot persistence
type SnapshotRepository interface {
	Find(ctx context.Context, tenantID, campaignID uuid.UUID, rng connection.DateRange) (*MetricSnapshot, error)
	FindByCampaigns(ctx context.Context, tenantID uuid.UUID, campaignIDs []uuid.UUID, rng connection.DateRange) ([]MetricSnapshot, error)
	Save(ctx context.Context, snapshot *MetricSnapshot) error
}

// DailySpend is an aggregated cost row returned by spend queries
type DailySpend struct {
	Date time.Time
	Cost decimal.Decimal
}

// DailyMetricRepository defines the interface for per-day metric rows
type DailyMetricRepository interface {
	Find(ctx context.Context, tenantID, campaignID uuid.UUID, date time.Time) (*DailyMetric, error)
	FindRange(ctx context.Context, tenantID uuid.UUID, campaignIDs []uuid.UUID, from, to time.Time) ([]DailyMetric, error)
	Save(ctx context.Context, metric *DailyMetric) error
	SaveAll(ctx context.Context, metrics []*DailyMetric) error
	// SumCost totals cost over campaigns in [from, to]
	SumCost(ctx context.Context, tenantID uuid.UUID, campaignIDs []uuid.UUID, from, to time.Time) (decimal.Decimal, error)
	// SumCostByDay totals cost per day over campaigns in [from, to]
	SumCostByDay(ctx context.Context, tenantID uuid.UUID, campaignIDs []uuid.UUID, from, to time.Time) ([]DailySpend, error)
}

// TagRepository defines the interface for campaign tags
type TagRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*CampaignTag, error)
	FindAll(ctx context.Context, tenantID uuid.UUID) ([]CampaignTag, error)
	FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*CampaignTag, error)
	Save(ctx context.Context, tag *CampaignTag) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	Assign(ctx context.Context, assignment *TagAssignment) error
	Unassign(ctx context.Context, tenantID, tagID, campaignID uuid.UUID) error
	FindAssignments(ctx context.Context, tenantID uuid.UUID, campaignIDs []uuid.UUID) ([]TagAssignment, error)
}

// FreshnessRepository defines the interface for sync freshness rows
type FreshnessRepository interface {
	Find(ctx context.Context, tenantID, clientAccountID uuid.UUID, rng connection.DateRange) (*DataFreshness, error)
	FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]DataFreshness, error)
	Save(ctx context.Context, freshness *DataFreshness) error
}

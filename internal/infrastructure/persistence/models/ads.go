package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/ads"
	"github.com/pulse/backend/internal/domain/connection"
	"github.com/shopspring/decimal"
)

// CampaignModel is the persistence model for synced campaigns.
type CampaignModel struct {
	TenantAggregateModel
	ClientAccountID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_campaigns_account_platform,priority:1"`
	PlatformCampaignID string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_campaigns_account_platform,priority:2"`
	Name               string          `gorm:"type:varchar(255);not null"`
	Status             string          `gorm:"type:varchar(20);not null;index"`
	Type               string          `gorm:"type:varchar(50)"`
	DailyBudget        decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	LastSyncedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CampaignModel) TableName() string {
	return "campaigns"
}

// ToDomain converts the persistence model to a domain Campaign entity.
func (m *CampaignModel) ToDomain() *ads.Campaign {
	campaign := &ads.Campaign{
		ClientAccountID:    m.ClientAccountID,
		PlatformCampaignID: m.PlatformCampaignID,
		Name:               m.Name,
		Status:             ads.CampaignStatus(m.Status),
		Type:               m.Type,
		DailyBudget:        m.DailyBudget,
		LastSyncedAt:       m.LastSyncedAt,
	}
	m.PopulateTenantAggregateRoot(&campaign.TenantAggregateRoot)
	return campaign
}

// FromDomain populates the persistence model from a domain Campaign entity.
func (m *CampaignModel) FromDomain(c *ads.Campaign) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.ClientAccountID = c.ClientAccountID
	m.PlatformCampaignID = c.PlatformCampaignID
	m.Name = c.Name
	m.Status = string(c.Status)
	m.Type = c.Type
	m.DailyBudget = c.DailyBudget
	m.LastSyncedAt = c.LastSyncedAt
}

// CampaignModelFromDomain creates a new persistence model from a domain Campaign.
func CampaignModelFromDomain(c *ads.Campaign) *CampaignModel {
	m := &CampaignModel{}
	m.FromDomain(c)
	return m
}

// AdGroupModel is the persistence model for synced ad groups.
type AdGroupModel struct {
	TenantAggregateModel
	CampaignID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ad_groups_campaign_platform,priority:1"`
	PlatformAdGroupID string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_ad_groups_campaign_platform,priority:2"`
	Name              string    `gorm:"type:varchar(255)"`
	Status            string    `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (AdGroupModel) TableName() string {
	return "ad_groups"
}

// ToDomain converts the persistence model to a domain AdGroup entity.
func (m *AdGroupModel) ToDomain() *ads.AdGroup {
	adGroup := &ads.AdGroup{
		CampaignID:        m.CampaignID,
		PlatformAdGroupID: m.PlatformAdGroupID,
		Name:              m.Name,
		Status:            ads.CampaignStatus(m.Status),
	}
	m.PopulateTenantAggregateRoot(&adGroup.TenantAggregateRoot)
	return adGroup
}

// FromDomain populates the persistence model from a domain AdGroup entity.
func (m *AdGroupModel) FromDomain(g *ads.AdGroup) {
	m.FromDomainTenantAggregateRoot(g.TenantAggregateRoot)
	m.CampaignID = g.CampaignID
	m.PlatformAdGroupID = g.PlatformAdGroupID
	m.Name = g.Name
	m.Status = string(g.Status)
}

// SnapshotModel is the persistence model for per-window metric snapshots.
type SnapshotModel struct {
	TenantAggregateModel
	CampaignID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_snapshots_campaign_range,priority:1"`
	DateRange      string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_snapshots_campaign_range,priority:2"`
	Impressions    int64           `gorm:"not null;default:0"`
	Clicks         int64           `gorm:"not null;default:0"`
	Cost           decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	Conversions    decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	CTR            decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	AvgCPC         decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	ConversionRate decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	AvgDailySpend  decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	SyncedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SnapshotModel) TableName() string {
	return "metric_snapshots"
}

// ToDomain converts the persistence model to a domain MetricSnapshot entity.
func (m *SnapshotModel) ToDomain() *ads.MetricSnapshot {
	snapshot := &ads.MetricSnapshot{
		CampaignID:     m.CampaignID,
		Range:          connection.DateRange(m.DateRange),
		Impressions:    m.Impressions,
		Clicks:         m.Clicks,
		Cost:           m.Cost,
		Conversions:    m.Conversions,
		CTR:            m.CTR,
		AvgCPC:         m.AvgCPC,
		ConversionRate: m.ConversionRate,
		AvgDailySpend:  m.AvgDailySpend,
		SyncedAt:       m.SyncedAt,
	}
	m.PopulateTenantAggregateRoot(&snapshot.TenantAggregateRoot)
	return snapshot
}

// FromDomain populates the persistence model from a domain MetricSnapshot entity.
func (m *SnapshotModel) FromDomain(s *ads.MetricSnapshot) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.CampaignID = s.CampaignID
	m.DateRange = string(s.Range)
	m.Impressions = s.Impressions
	m.Clicks = s.Clicks
	m.Cost = s.Cost
	m.Conversions = s.Conversions
	m.CTR = s.CTR
	m.AvgCPC = s.AvgCPC
	m.ConversionRate = s.ConversionRate
	m.AvgDailySpend = s.AvgDailySpend
	m.SyncedAt = s.SyncedAt
}

// DailyMetricModel is the persistence model for per-day metric rows.
type DailyMetricModel struct {
	TenantAggregateModel
	CampaignID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_daily_metrics_campaign_date,priority:1"`
	Date        time.Time       `gorm:"type:date;not null;uniqueIndex:idx_daily_metrics_campaign_date,priority:2;index"`
	Impressions int64           `gorm:"not null;default:0"`
	Clicks      int64           `gorm:"not null;default:0"`
	Cost        decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	Conversions decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	CTR         decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	AvgCPC      decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
}

// TableName returns the table name for GORM
func (DailyMetricModel) TableName() string {
	return "daily_metrics"
}

// ToDomain converts the persistence model to a domain DailyMetric entity.
func (m *DailyMetricModel) ToDomain() *ads.DailyMetric {
	metric := &ads.DailyMetric{
		CampaignID:  m.CampaignID,
		Date:        m.Date.UTC(),
		Impressions: m.Impressions,
		Clicks:      m.Clicks,
		Cost:        m.Cost,
		Conversions: m.Conversions,
		CTR:         m.CTR,
		AvgCPC:      m.AvgCPC,
	}
	m.PopulateTenantAggregateRoot(&metric.TenantAggregateRoot)
	return metric
}

// FromDomain populates the persistence model from a domain DailyMetric entity.
func (m *DailyMetricModel) FromDomain(d *ads.DailyMetric) {
	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	m.CampaignID = d.CampaignID
	m.Date = d.Date
	m.Impressions = d.Impressions
	m.Clicks = d.Clicks
	m.Cost = d.Cost
	m.Conversions = d.Conversions
	m.CTR = d.CTR
	m.AvgCPC = d.AvgCPC
}

// TagModel is the persistence model for campaign tags.
type TagModel struct {
	TenantAggregateModel
	Name  string `gorm:"type:varchar(100);not null;index"`
	Color string `gorm:"type:varchar(7)"`
}

// TableName returns the table name for GORM
func (TagModel) TableName() string {
	return "campaign_tags"
}

// ToDomain converts the persistence model to a domain CampaignTag entity.
func (m *TagModel) ToDomain() *ads.CampaignTag {
	tag := &ads.CampaignTag{
		Name:  m.Name,
		Color: m.Color,
	}
	m.PopulateTenantAggregateRoot(&tag.TenantAggregateRoot)
	return tag
}

// FromDomain populates the persistence model from a domain CampaignTag entity.
func (m *TagModel) FromDomain(t *ads.CampaignTag) {
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	m.Name = t.Name
	m.Color = t.Color
}

// TagAssignmentModel links a tag to a campaign.
type TagAssignmentModel struct {
	TagID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	CampaignID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TagAssignmentModel) TableName() string {
	return "campaign_tag_assignments"
}

// ToDomain converts the persistence model to a domain TagAssignment.
func (m *TagAssignmentModel) ToDomain() ads.TagAssignment {
	return ads.TagAssignment{
		TagID:      m.TagID,
		CampaignID: m.CampaignID,
		TenantID:   m.TenantID,
		CreatedAt:  m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain TagAssignment.
func (m *TagAssignmentModel) FromDomain(a ads.TagAssignment) {
	m.TagID = a.TagID
	m.CampaignID = a.CampaignID
	m.TenantID = a.TenantID
	m.CreatedAt = a.CreatedAt
}

// FreshnessModel is the persistence model for sync freshness rows.
type FreshnessModel struct {
	TenantAggregateModel
	ClientAccountID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_freshness_account_range,priority:1"`
	DateRange       string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_freshness_account_range,priority:2"`
	LastSyncedAt    time.Time `gorm:"not null"`
	LastError       string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (FreshnessModel) TableName() string {
	return "data_freshness"
}

// ToDomain converts the persistence model to a domain DataFreshness entity.
func (m *FreshnessModel) ToDomain() *ads.DataFreshness {
	freshness := &ads.DataFreshness{
		ClientAccountID: m.ClientAccountID,
		Range:           connection.DateRange(m.DateRange),
		LastSyncedAt:    m.LastSyncedAt,
		LastError:       m.LastError,
	}
	m.PopulateTenantAggregateRoot(&freshness.TenantAggregateRoot)
	return freshness
}

// FromDomain populates the persistence model from a domain DataFreshness entity.
func (m *FreshnessModel) FromDomain(f *ads.DataFreshness) {
	m.FromDomainTenantAggregateRoot(f.TenantAggregateRoot)
	m.ClientAccountID = f.ClientAccountID
	m.DateRange = string(f.Range)
	m.LastSyncedAt = f.LastSyncedAt
	m.LastError = f.LastError
}

package ads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CampaignDTO represents a campaign with its metrics for one reporting window
type CampaignDTO struct {
	ID                 uuid.UUID   `json:"id"`
	ClientAccountID    uuid.UUID   `json:"client_account_id"`
	PlatformCampaignID string      `json:"platform_campaign_id"`
	Name               string      `json:"name"`
	Status             string      `json:"status"`
	Type               string      `json:"type,omitempty"`
	DailyBudget        string      `json:"daily_budget"`
	Tags               []TagDTO    `json:"tags"`
	Metrics            *MetricsDTO `json:"metrics,omitempty"`
	LastSyncedAt       time.Time   `json:"last_synced_at"`
}

// MetricsDTO represents aggregate metrics for a reporting window
type MetricsDTO struct {
	Range          string          `json:"range"`
	Impressions    int64           `json:"impressions"`
	Clicks         int64           `json:"clicks"`
	Cost           decimal.Decimal `json:"cost"`
	Conversions    decimal.Decimal `json:"conversions"`
	CTR            decimal.Decimal `json:"ctr"`
	AvgCPC         decimal.Decimal `json:"avg_cpc"`
	ConversionRate decimal.Decimal `json:"conversion_rate"`
	AvgDailySpend  decimal.Decimal `json:"avg_daily_spend"`
	SyncedAt       time.Time       `json:"synced_at"`
}

// DailyMetricDTO represents one day's numbers for charting
type DailyMetricDTO struct {
	Date        string          `json:"date"`
	Impressions int64           `json:"impressions"`
	Clicks      int64           `json:"clicks"`
	Cost        decimal.Decimal `json:"cost"`
	Conversions decimal.Decimal `json:"conversions"`
	CTR         decimal.Decimal `json:"ctr"`
	AvgCPC      decimal.Decimal `json:"avg_cpc"`
}

// AdGroupDTO represents an ad group within a campaign
type AdGroupDTO struct {
	ID                uuid.UUID `json:"id"`
	CampaignID        uuid.UUID `json:"campaign_id"`
	PlatformAdGroupID string    `json:"platform_ad_group_id"`
	Name              string    `json:"name"`
	Status            string    `json:"status"`
}

// TagDTO represents a campaign tag
type TagDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color,omitempty"`
}

// FreshnessDTO reports when an account's data was last pulled
type FreshnessDTO struct {
	ClientAccountID uuid.UUID `json:"client_account_id"`
	Range           string    `json:"range"`
	LastSyncedAt    time.Time `json:"last_synced_at"`
	IsFresh         bool      `json:"is_fresh"`
	LastError       string    `json:"last_error,omitempty"`
}

// SyncResultDTO summarizes one metrics sync run
type SyncResultDTO struct {
	ClientAccountID uuid.UUID `json:"client_account_id"`
	Campaigns       int       `json:"campaigns"`
	Snapshots       int       `json:"snapshots"`
	AdGroups        int       `json:"ad_groups"`
	DailyRows       int       `json:"daily_rows"`
	Skipped         bool      `json:"skipped"`
	Error           string    `json:"error,omitempty"`
}

package analytics

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateDTO is summed metrics with recomputed derived rates
type AggregateDTO struct {
	Range          string          `json:"range"`
	Impressions    int64           `json:"impressions"`
	Clicks         int64           `json:"clicks"`
	Cost           decimal.Decimal `json:"cost"`
	Conversions    decimal.Decimal `json:"conversions"`
	CTR            decimal.Decimal `json:"ctr"`
	AvgCPC         decimal.Decimal `json:"avg_cpc"`
	ConversionRate decimal.Decimal `json:"conversion_rate"`
	CPA            decimal.Decimal `json:"cpa"`
	AvgDailySpend  decimal.Decimal `json:"avg_daily_spend"`
}

// ChangeDTO holds percent changes versus the preceding window of equal length
type ChangeDTO struct {
	Cost        decimal.Decimal `json:"cost"`
	Clicks      decimal.Decimal `json:"clicks"`
	Impressions decimal.Decimal `json:"impressions"`
	Conversions decimal.Decimal `json:"conversions"`
}

// CampaignSummaryDTO is one campaign's totals for the dashboard spend leaders
type CampaignSummaryDTO struct {
	CampaignID  uuid.UUID       `json:"campaign_id"`
	Name        string          `json:"name"`
	Cost        decimal.Decimal `json:"cost"`
	Clicks      int64           `json:"clicks"`
	Impressions int64           `json:"impressions"`
	Conversions decimal.Decimal `json:"conversions"`
	CTR         decimal.Decimal `json:"ctr"`
}

// GoalComparisonDTO is one metric's actual value against its resolved goal
type GoalComparisonDTO struct {
	Metric string           `json:"metric"`
	Actual decimal.Decimal  `json:"actual"`
	Goal   *decimal.Decimal `json:"goal,omitempty"`
	Source string           `json:"goal_source"`
	Status string           `json:"status"`
}

// ClientPerformanceDTO is one client's aggregate performance for a window
type ClientPerformanceDTO struct {
	ClientID       uuid.UUID           `json:"client_id"`
	ClientName     string              `json:"client_name"`
	LinkedAccounts int                 `json:"linked_accounts"`
	Campaigns      int                 `json:"campaigns"`
	Metrics        AggregateDTO        `json:"metrics"`
	Change         *ChangeDTO          `json:"change,omitempty"`
	Goals          []GoalComparisonDTO `json:"goals,omitempty"`
}

// SpendPointDTO is one day of spend for charting
type SpendPointDTO struct {
	Date string          `json:"date"`
	Cost decimal.Decimal `json:"cost"`
}

// DashboardDTO is the tenant-wide overview
type DashboardDTO struct {
	Range           string                 `json:"range"`
	ActiveClients   int                    `json:"active_clients"`
	LinkedAccounts  int                    `json:"linked_accounts"`
	Campaigns       int                    `json:"campaigns"`
	OpenAlerts      int                    `json:"open_alerts"`
	Totals          AggregateDTO           `json:"totals"`
	Change          *ChangeDTO             `json:"change,omitempty"`
	SpendByDay      []SpendPointDTO        `json:"spend_by_day"`
	TopCampaigns    []CampaignSummaryDTO   `json:"top_campaigns"`
	TopClients      []ClientPerformanceDTO `json:"top_clients"`
	AttentionNeeded []ClientPerformanceDTO `json:"attention_needed"`
}

package ads

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/connection"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CTR returns clicks/impressions as a percentage, 0 when there are no impressions
func CTR(clicks, impressions int64) decimal.Decimal {
	if impressions == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(clicks).Div(decimal.NewFromInt(impressions)).Mul(hundred)
}

// AvgCPC returns cost/clicks, 0 when there are no clicks
func AvgCPC(cost decimal.Decimal, clicks int64) decimal.Decimal {
	if clicks == 0 {
		return decimal.Zero
	}
	return cost.Div(decimal.NewFromInt(clicks))
}

// ConversionRate returns conversions/clicks as a percentage, 0 when there are no clicks
func ConversionRate(conversions decimal.Decimal, clicks int64) decimal.Decimal {
	if clicks == 0 {
		return decimal.Zero
	}
	return conversions.Div(decimal.NewFromInt(clicks)).Mul(hundred)
}

// AvgDailySpend returns cost/days, 0 for a zero-day window
func AvgDailySpend(cost decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	return cost.Div(decimal.NewFromInt(int64(days)))
}

// ChangePct returns the percentage change from previous to current.
// A zero previous value yields 0 rather than infinity.
func ChangePct(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred)
}

// MetricSnapshot holds one campaign's aggregate metrics for a named
// reporting window, refreshed on every sync. Derived rates are stored so the
// dashboard reads without recomputation.
type MetricSnapshot struct {
	shared.TenantAggregateRoot
	CampaignID     uuid.UUID
	Range          connection.DateRange
	Impressions    int64
	Clicks         int64
	Cost           decimal.Decimal
	Conversions    decimal.Decimal
	CTR            decimal.Decimal
	AvgCPC         decimal.Decimal
	ConversionRate decimal.Decimal
	AvgDailySpend  decimal.Decimal
	SyncedAt       time.Time
}

// NewMetricSnapshot builds a snapshot and computes the derived rates
func NewMetricSnapshot(tenantID, campaignID uuid.UUID, rng connection.DateRange, impressions, clicks int64, cost, conversions decimal.Decimal) (*MetricSnapshot, error) {
	if !rng.IsValid() {
		return nil, shared.NewDomainError("INVALID_RANGE", "Unknown date range")
	}
	s := &MetricSnapshot{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CampaignID:          campaignID,
		Range:               rng,
		SyncedAt:            time.Now(),
	}
	s.Apply(impressions, clicks, cost, conversions, s.SyncedAt)
	return s, nil
}

// Apply replaces the raw numbers and recomputes derived rates
func (s *MetricSnapshot) Apply(impressions, clicks int64, cost, conversions decimal.Decimal, syncedAt time.Time) {
	s.Impressions = impressions
	s.Clicks = clicks
	s.Cost = cost
	s.Conversions = conversions
	s.CTR = CTR(clicks, impressions)
	s.AvgCPC = AvgCPC(cost, clicks)
	s.ConversionRate = ConversionRate(conversions, clicks)
	s.AvgDailySpend = AvgDailySpend(cost, s.Range.Days())
	s.SyncedAt = syncedAt
	s.UpdatedAt = syncedAt
	s.IncrementVersion()
}

// DailyMetric is one campaign's numbers for a single day.
// (campaign, date) is unique.
type DailyMetric struct {
	shared.TenantAggregateRoot
	CampaignID  uuid.UUID
	Date        time.Time // date only, UTC midnight
	Impressions int64
	Clicks      int64
	Cost        decimal.Decimal
	Conversions decimal.Decimal
	CTR         decimal.Decimal
	AvgCPC      decimal.Decimal
}

// NewDailyMetric builds a daily row and computes the derived rates
func NewDailyMetric(tenantID, campaignID uuid.UUID, date time.Time, impressions, clicks int64, cost, conversions decimal.Decimal) *DailyMetric {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return &DailyMetric{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CampaignID:          campaignID,
		Date:                day,
		Impressions:         impressions,
		Clicks:              clicks,
		Cost:                cost,
		Conversions:         conversions,
		CTR:                 CTR(clicks, impressions),
		AvgCPC:              AvgCPC(cost, clicks),
	}
}

// DataFreshness tracks when a client account was last synced for a reporting
// window so the scheduler can skip accounts that are still fresh.
type DataFreshness struct {
	shared.TenantAggregateRoot
	ClientAccountID uuid.UUID
	Range           connection.DateRange
	LastSyncedAt    time.Time
	LastError       string
}

// NewDataFreshness records a sync completion
func NewDataFreshness(tenantID, clientAccountID uuid.UUID, rng connection.DateRange) *DataFreshness {
	return &DataFreshness{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ClientAccountID:     clientAccountID,
		Range:               rng,
		LastSyncedAt:        time.Now(),
	}
}

// IsFresh reports whether the data is younger than the window
func (f *DataFreshness) IsFresh(now time.Time, window time.Duration) bool {
	return now.Sub(f.LastSyncedAt) < window
}

// RecordSuccess stamps a successful sync
func (f *DataFreshness) RecordSuccess(at time.Time) {
	f.LastSyncedAt = at
	f.LastError = ""
	f.UpdatedAt = at
	f.IncrementVersion()
}

// RecordFailure keeps the old sync time and stores the error
func (f *DataFreshness) RecordFailure(message string) {
	f.LastError = message
	f.UpdatedAt = time.Now()
	f.IncrementVersion()
}

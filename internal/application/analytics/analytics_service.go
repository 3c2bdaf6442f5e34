package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/ads"
	"github.com/pulse/backend/internal/domain/budget"
	"github.com/pulse/backend/internal/domain/connection"
	"github.com/pulse/backend/internal/domain/portfolio"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// dashboard list sizes
const dashboardClientLimit = 5

// AnalyticsService aggregates synced metrics across clients and compares them
// against performance goals.
type AnalyticsService struct {
	clientRepo     portfolio.ClientRepository
	goalRepo       portfolio.GoalRepository
	clientAcctRepo connection.ClientAccountRepository
	campaignRepo   ads.CampaignRepository
	snapshotRepo   ads.SnapshotRepository
	dailyRepo      ads.DailyMetricRepository
	alertRepo      budget.AlertRepository
	logger         *zap.Logger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	clientRepo portfolio.ClientRepository,
	goalRepo portfolio.GoalRepository,
	clientAcctRepo connection.ClientAccountRepository,
	campaignRepo ads.CampaignRepository,
	snapshotRepo ads.SnapshotRepository,
	dailyRepo ads.DailyMetricRepository,
	alertRepo budget.AlertRepository,
	logger *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		clientRepo:     clientRepo,
		goalRepo:       goalRepo,
		clientAcctRepo: clientAcctRepo,
		campaignRepo:   campaignRepo,
		snapshotRepo:   snapshotRepo,
		dailyRepo:      dailyRepo,
		alertRepo:      alertRepo,
		logger:         logger,
	}
}

// ClientPerformance aggregates one client's metrics for a window and compares
// them against the client's resolved goals.
func (s *AnalyticsService) ClientPerformance(ctx context.Context, tenantID, clientID uuid.UUID, rng string) (*ClientPerformanceDTO, error) {
	dateRange, err := parseRange(rng)
	if err != nil {
		return nil, err
	}

	client, err := s.clientRepo.FindByID(ctx, tenantID, clientID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find client")
	}

	dto, err := s.performanceFor(ctx, tenantID, client, dateRange)
	if err != nil {
		return nil, err
	}

	dto.Goals, err = s.compareGoals(ctx, tenantID, clientID, dto.Metrics)
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// PortfolioPerformance aggregates every active client for a window,
// highest spend first
func (s *AnalyticsService) PortfolioPerformance(ctx context.Context, tenantID uuid.UUID, rng string) ([]ClientPerformanceDTO, error) {
	dateRange, err := parseRange(rng)
	if err != nil {
		return nil, err
	}

	clients, err := s.clientRepo.FindActive(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to list clients", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list clients")
	}

	rows := make([]ClientPerformanceDTO, 0, len(clients))
	for i := range clients {
		row, err := s.performanceFor(ctx, tenantID, &clients[i], dateRange)
		if err != nil {
			s.logger.Warn("Skipping client in portfolio aggregation",
				zap.String("client_id", clients[i].ID.String()),
				zap.Error(err))
			continue
		}
		row.Goals, err = s.compareGoals(ctx, tenantID, clients[i].ID, row.Metrics)
		if err != nil {
			return nil, err
		}
		rows = append(rows, *row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Metrics.Cost.GreaterThan(rows[j].Metrics.Cost)
	})
	return rows, nil
}

// Dashboard builds the tenant overview for a window
func (s *AnalyticsService) Dashboard(ctx context.Context, tenantID uuid.UUID, rng string) (*DashboardDTO, error) {
	dateRange, err := parseRange(rng)
	if err != nil {
		return nil, err
	}

	rows, err := s.PortfolioPerformance(ctx, tenantID, string(dateRange))
	if err != nil {
		return nil, err
	}

	totals := AggregateDTO{Range: string(dateRange), Cost: decimal.Zero, Conversions: decimal.Zero}
	accounts, campaigns := 0, 0
	var campaignIDs []uuid.UUID
	for _, row := range rows {
		totals.Impressions += row.Metrics.Impressions
		totals.Clicks += row.Metrics.Clicks
		totals.Cost = totals.Cost.Add(row.Metrics.Cost)
		totals.Conversions = totals.Conversions.Add(row.Metrics.Conversions)
		accounts += row.LinkedAccounts
		campaigns += row.Campaigns
	}
	fillDerived(&totals, dateRange.Days())

	campaignNames := make(map[uuid.UUID]string)
	links, err := s.clientAcctRepo.FindActiveForTenant(ctx, tenantID)
	if err == nil {
		accountIDs := make([]uuid.UUID, len(links))
		for i, l := range links {
			accountIDs[i] = l.ID
		}
		if all, err := s.campaignRepo.FindByAccounts(ctx, tenantID, accountIDs); err == nil {
			for _, c := range all {
				campaignIDs = append(campaignIDs, c.ID)
				campaignNames[c.ID] = c.Name
			}
		}
	}

	spendByDay, err := s.spendSeries(ctx, tenantID, campaignIDs, dateRange)
	if err != nil {
		return nil, err
	}

	topCampaigns, err := s.topCampaigns(ctx, tenantID, campaignIDs, campaignNames, dateRange)
	if err != nil {
		return nil, err
	}

	alerts, err := s.alertRepo.FindOpen(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to count alerts", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load alerts")
	}

	dashboard := &DashboardDTO{
		Range:           string(dateRange),
		ActiveClients:   len(rows),
		LinkedAccounts:  accounts,
		Campaigns:       campaigns,
		OpenAlerts:      len(alerts),
		Totals:          totals,
		SpendByDay:      spendByDay,
		TopCampaigns:    topCampaigns,
		TopClients:      headOf(rows, dashboardClientLimit),
		AttentionNeeded: attentionNeeded(rows, dashboardClientLimit),
	}

	prev, err := s.previousTotals(ctx, tenantID, campaignIDs, dateRange.Days())
	if err != nil {
		s.logger.Warn("Failed to load comparison window", zap.Error(err))
	} else {
		dashboard.Change = changeFrom(totals, prev)
	}
	return dashboard, nil
}

// topCampaigns picks the highest-spend campaigns for the window
func (s *AnalyticsService) topCampaigns(ctx context.Context, tenantID uuid.UUID, campaignIDs []uuid.UUID, names map[uuid.UUID]string, rng connection.DateRange) ([]CampaignSummaryDTO, error) {
	if len(campaignIDs) == 0 {
		return []CampaignSummaryDTO{}, nil
	}

	snapshots, err := s.snapshotRepo.FindByCampaigns(ctx, tenantID, campaignIDs, rng)
	if err != nil {
		s.logger.Error("Failed to load campaign snapshots", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load metrics")
	}

	summaries := make([]CampaignSummaryDTO, 0, len(snapshots))
	for _, snap := range snapshots {
		summaries = append(summaries, CampaignSummaryDTO{
			CampaignID:  snap.CampaignID,
			Name:        names[snap.CampaignID],
			Cost:        snap.Cost,
			Clicks:      snap.Clicks,
			Impressions: snap.Impressions,
			Conversions: snap.Conversions,
			CTR:         snap.CTR,
		})
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Cost.GreaterThan(summaries[j].Cost)
	})
	if len(summaries) > dashboardClientLimit {
		summaries = summaries[:dashboardClientLimit]
	}
	return summaries, nil
}

// performanceFor sums a client's snapshots for one window
func (s *AnalyticsService) performanceFor(ctx context.Context, tenantID uuid.UUID, client *portfolio.Client, rng connection.DateRange) (*ClientPerformanceDTO, error) {
	links, err := s.clientAcctRepo.FindByClient(ctx, tenantID, client.ID, false)
	if err != nil {
		s.logger.Error("Failed to list account links", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list account links")
	}

	accountIDs := make([]uuid.UUID, len(links))
	for i, l := range links {
		accountIDs[i] = l.ID
	}

	agg := AggregateDTO{Range: string(rng), Cost: decimal.Zero, Conversions: decimal.Zero}
	var campaignIDs []uuid.UUID

	if len(accountIDs) > 0 {
		campaigns, err := s.campaignRepo.FindByAccounts(ctx, tenantID, accountIDs)
		if err != nil {
			s.logger.Error("Failed to list campaigns", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list campaigns")
		}

		campaignIDs = make([]uuid.UUID, len(campaigns))
		for i, c := range campaigns {
			campaignIDs[i] = c.ID
		}

		snapshots, err := s.snapshotRepo.FindByCampaigns(ctx, tenantID, campaignIDs, rng)
		if err != nil {
			s.logger.Error("Failed to load snapshots", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load metrics")
		}
		for _, snap := range snapshots {
			agg.Impressions += snap.Impressions
			agg.Clicks += snap.Clicks
			agg.Cost = agg.Cost.Add(snap.Cost)
			agg.Conversions = agg.Conversions.Add(snap.Conversions)
		}
	}

	fillDerived(&agg, rng.Days())

	row := &ClientPerformanceDTO{
		ClientID:       client.ID,
		ClientName:     client.Name,
		LinkedAccounts: len(links),
		Campaigns:      len(campaignIDs),
		Metrics:        agg,
	}

	prev, err := s.previousTotals(ctx, tenantID, campaignIDs, rng.Days())
	if err != nil {
		s.logger.Warn("Failed to load comparison window",
			zap.String("client_id", client.ID.String()),
			zap.Error(err))
	} else {
		row.Change = changeFrom(agg, prev)
	}
	return row, nil
}

// previousTotals sums the daily rows for the window immediately before the
// current one, so change percentages compare equal-length periods.
func (s *AnalyticsService) previousTotals(ctx context.Context, tenantID uuid.UUID, campaignIDs []uuid.UUID, days int) (AggregateDTO, error) {
	prev := AggregateDTO{Cost: decimal.Zero, Conversions: decimal.Zero}
	if len(campaignIDs) == 0 {
		return prev, nil
	}

	to := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -days)
	from := to.AddDate(0, 0, -days)

	rows, err := s.dailyRepo.FindRange(ctx, tenantID, campaignIDs, from, to)
	if err != nil {
		return prev, err
	}
	for _, row := range rows {
		prev.Impressions += row.Impressions
		prev.Clicks += row.Clicks
		prev.Cost = prev.Cost.Add(row.Cost)
		prev.Conversions = prev.Conversions.Add(row.Conversions)
	}
	return prev, nil
}

// changeFrom computes the period-over-period percent deltas
func changeFrom(current, previous AggregateDTO) *ChangeDTO {
	return &ChangeDTO{
		Cost:        ads.ChangePct(current.Cost, previous.Cost),
		Clicks:      ads.ChangePct(decimal.NewFromInt(current.Clicks), decimal.NewFromInt(previous.Clicks)),
		Impressions: ads.ChangePct(decimal.NewFromInt(current.Impressions), decimal.NewFromInt(previous.Impressions)),
		Conversions: ads.ChangePct(current.Conversions, previous.Conversions),
	}
}

// compareGoals classifies the aggregate against the client's resolved goals
func (s *AnalyticsService) compareGoals(ctx context.Context, tenantID, clientID uuid.UUID, agg AggregateDTO) ([]GoalComparisonDTO, error) {
	clientGoal, err := s.goalRepo.FindByClient(ctx, tenantID, clientID)
	if err != nil && err != shared.ErrNotFound {
		s.logger.Error("Failed to load client goals", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load goals")
	}
	defaults, err := s.goalRepo.FindTenantDefaults(ctx, tenantID)
	if err != nil && err != shared.ErrNotFound {
		s.logger.Error("Failed to load tenant goal defaults", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load goals")
	}

	actuals := map[portfolio.GoalMetric]decimal.Decimal{
		portfolio.GoalMetricCTR:            agg.CTR,
		portfolio.GoalMetricConversionRate: agg.ConversionRate,
		portfolio.GoalMetricCPC:            agg.AvgCPC,
		portfolio.GoalMetricCPA:            agg.CPA,
	}

	metrics := []portfolio.GoalMetric{
		portfolio.GoalMetricCTR,
		portfolio.GoalMetricConversionRate,
		portfolio.GoalMetricCPC,
		portfolio.GoalMetricCPA,
	}

	comparisons := make([]GoalComparisonDTO, 0, len(metrics))
	for _, metric := range metrics {
		resolved := portfolio.ResolveGoal(metric, clientGoal, defaults)
		actual := actuals[metric]
		dto := GoalComparisonDTO{
			Metric: string(metric),
			Actual: actual,
			Source: string(resolved.Source),
			Status: string(portfolio.ClassifyGoal(metric, actual, resolved)),
		}
		if resolved.Source != portfolio.GoalSourceNone {
			value := resolved.Value
			dto.Goal = &value
		}
		comparisons = append(comparisons, dto)
	}
	return comparisons, nil
}

// spendSeries loads the per-day spend chart for the window
func (s *AnalyticsService) spendSeries(ctx context.Context, tenantID uuid.UUID, campaignIDs []uuid.UUID, rng connection.DateRange) ([]SpendPointDTO, error) {
	if len(campaignIDs) == 0 {
		return []SpendPointDTO{}, nil
	}

	to := time.Now().UTC().Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -rng.Days())

	rows, err := s.dailyRepo.SumCostByDay(ctx, tenantID, campaignIDs, from, to)
	if err != nil {
		s.logger.Error("Failed to load daily spend", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load daily spend")
	}

	points := make([]SpendPointDTO, len(rows))
	for i, row := range rows {
		points[i] = SpendPointDTO{Date: row.Date.Format("2006-01-02"), Cost: row.Cost}
	}
	return points, nil
}

// fillDerived recomputes the rate fields from the summed raw numbers
func fillDerived(agg *AggregateDTO, days int) {
	agg.CTR = ads.CTR(agg.Clicks, agg.Impressions)
	agg.AvgCPC = ads.AvgCPC(agg.Cost, agg.Clicks)
	agg.ConversionRate = ads.ConversionRate(agg.Conversions, agg.Clicks)
	agg.AvgDailySpend = ads.AvgDailySpend(agg.Cost, days)
	if agg.Conversions.IsZero() {
		agg.CPA = decimal.Zero
	} else {
		agg.CPA = agg.Cost.Div(agg.Conversions)
	}
}

func parseRange(rng string) (connection.DateRange, error) {
	if rng == "" {
		return connection.RangeLast30Days, nil
	}
	dateRange := connection.DateRange(rng)
	if !dateRange.IsValid() {
		return "", shared.NewDomainError("INVALID_RANGE", "Unknown date range")
	}
	return dateRange, nil
}

func headOf(rows []ClientPerformanceDTO, n int) []ClientPerformanceDTO {
	if len(rows) < n {
		n = len(rows)
	}
	out := make([]ClientPerformanceDTO, n)
	copy(out, rows[:n])
	return out
}

// attentionNeeded picks clients with any poor goal status, worst spenders first
func attentionNeeded(rows []ClientPerformanceDTO, n int) []ClientPerformanceDTO {
	var flagged []ClientPerformanceDTO
	for _, row := range rows {
		for _, goal := range row.Goals {
			if goal.Status == string(portfolio.GoalStatusPoor) {
				flagged = append(flagged, row)
				break
			}
		}
	}
	return headOf(flagged, n)
}

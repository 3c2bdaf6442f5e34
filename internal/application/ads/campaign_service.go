package ads

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/ads"
	"github.com/pulse/backend/internal/domain/connection"
	"github.com/pulse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CampaignService reads synced campaigns and their metrics
type CampaignService struct {
	campaignRepo   ads.CampaignRepository
	adGroupRepo    ads.AdGroupRepository
	snapshotRepo   ads.SnapshotRepository
	dailyRepo      ads.DailyMetricRepository
	tagRepo        ads.TagRepository
	clientAcctRepo connection.ClientAccountRepository
	logger         *zap.Logger
}

// NewCampaignService creates a new campaign read service
func NewCampaignService(
	campaignRepo ads.CampaignRepository,
	adGroupRepo ads.AdGroupRepository,
	snapshotRepo ads.SnapshotRepository,
	dailyRepo ads.DailyMetricRepository,
	tagRepo ads.TagRepository,
	clientAcctRepo connection.ClientAccountRepository,
	logger *zap.Logger,
) *CampaignService {
	return &CampaignService{
		campaignRepo:   campaignRepo,
		adGroupRepo:    adGroupRepo,
		snapshotRepo:   snapshotRepo,
		dailyRepo:      dailyRepo,
		tagRepo:        tagRepo,
		clientAcctRepo: clientAcctRepo,
		logger:         logger,
	}
}

// ListByAccount returns an account's campaigns with metrics for one window
func (s *CampaignService) ListByAccount(ctx context.Context, tenantID, clientAccountID uuid.UUID, rng string, filter shared.Filter) ([]CampaignDTO, error) {
	dateRange := connection.DateRange(rng)
	if rng == "" {
		dateRange = connection.RangeLast30Days
	}
	if !dateRange.IsValid() {
		return nil, shared.NewDomainError("INVALID_RANGE", "Unknown date range")
	}

	if _, err := s.clientAcctRepo.FindByID(ctx, tenantID, clientAccountID); err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("LINK_NOT_FOUND", "Account link not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find account link")
	}

	campaigns, err := s.campaignRepo.FindByAccount(ctx, tenantID, clientAccountID, filter)
	if err != nil {
		s.logger.Error("Failed to list campaigns", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list campaigns")
	}

	ids := make([]uuid.UUID, len(campaigns))
	for i, c := range campaigns {
		ids[i] = c.ID
	}

	snapshots, err := s.snapshotRepo.FindByCampaigns(ctx, tenantID, ids, dateRange)
	if err != nil {
		s.logger.Error("Failed to load snapshots", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load metrics")
	}
	byCampaign := make(map[uuid.UUID]*ads.MetricSnapshot, len(snapshots))
	for i := range snapshots {
		byCampaign[snapshots[i].CampaignID] = &snapshots[i]
	}

	tags, err := s.tagsByCampaign(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}

	dtos := make([]CampaignDTO, len(campaigns))
	for i, c := range campaigns {
		dtos[i] = toCampaignDTO(&c, byCampaign[c.ID], tags[c.ID])
	}
	return dtos, nil
}

// Get returns one campaign with metrics for every reporting window
func (s *CampaignService) Get(ctx context.Context, tenantID, campaignID uuid.UUID) (*CampaignDTO, []MetricsDTO, error) {
	campaign, err := s.campaignRepo.FindByID(ctx, tenantID, campaignID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, nil, shared.NewDomainError("CAMPAIGN_NOT_FOUND", "Campaign not found")
		}
		return nil, nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find campaign")
	}

	tags, err := s.tagsByCampaign(ctx, tenantID, []uuid.UUID{campaignID})
	if err != nil {
		return nil, nil, err
	}

	metrics := make([]MetricsDTO, 0, 3)
	for _, rng := range connection.AllDateRanges() {
		snap, err := s.snapshotRepo.Find(ctx, tenantID, campaignID, rng)
		if err != nil {
			if err == shared.ErrNotFound {
				continue
			}
			s.logger.Error("Failed to load snapshot", zap.Error(err))
			return nil, nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load metrics")
		}
		metrics = append(metrics, toMetricsDTO(snap))
	}

	dto := toCampaignDTO(campaign, nil, tags[campaignID])
	return &dto, metrics, nil
}

// ListAdGroups returns a campaign's ad groups, name ascending
func (s *CampaignService) ListAdGroups(ctx context.Context, tenantID, campaignID uuid.UUID) ([]AdGroupDTO, error) {
	if _, err := s.campaignRepo.FindByID(ctx, tenantID, campaignID); err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("CAMPAIGN_NOT_FOUND", "Campaign not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find campaign")
	}

	groups, err := s.adGroupRepo.FindByCampaign(ctx, tenantID, campaignID)
	if err != nil {
		s.logger.Error("Failed to list ad groups", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list ad groups")
	}

	dtos := make([]AdGroupDTO, len(groups))
	for i, g := range groups {
		dtos[i] = AdGroupDTO{
			ID:                g.ID,
			CampaignID:        g.CampaignID,
			PlatformAdGroupID: g.PlatformAdGroupID,
			Name:              g.Name,
			Status:            string(g.Status),
		}
	}
	return dtos, nil
}

// DailySeries returns per-day rows for charting, newest day last
func (s *CampaignService) DailySeries(ctx context.Context, tenantID, campaignID uuid.UUID, days int) ([]DailyMetricDTO, error) {
	if days <= 0 || days > 90 {
		days = 30
	}

	if _, err := s.campaignRepo.FindByID(ctx, tenantID, campaignID); err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("CAMPAIGN_NOT_FOUND", "Campaign not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find campaign")
	}

	to := time.Now().UTC().Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -days)

	rows, err := s.dailyRepo.FindRange(ctx, tenantID, []uuid.UUID{campaignID}, from, to)
	if err != nil {
		s.logger.Error("Failed to load daily metrics", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load daily metrics")
	}

	dtos := make([]DailyMetricDTO, len(rows))
	for i, r := range rows {
		dtos[i] = DailyMetricDTO{
			Date:        r.Date.Format("2006-01-02"),
			Impressions: r.Impressions,
			Clicks:      r.Clicks,
			Cost:        r.Cost,
			Conversions: r.Conversions,
			CTR:         r.CTR,
			AvgCPC:      r.AvgCPC,
		}
	}
	return dtos, nil
}

func (s *CampaignService) tagsByCampaign(ctx context.Context, tenantID uuid.UUID, campaignIDs []uuid.UUID) (map[uuid.UUID][]TagDTO, error) {
	if len(campaignIDs) == 0 {
		return map[uuid.UUID][]TagDTO{}, nil
	}

	assignments, err := s.tagRepo.FindAssignments(ctx, tenantID, campaignIDs)
	if err != nil {
		s.logger.Error("Failed to load tag assignments", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load tags")
	}
	if len(assignments) == 0 {
		return map[uuid.UUID][]TagDTO{}, nil
	}

	all, err := s.tagRepo.FindAll(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to load tags", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load tags")
	}
	byID := make(map[uuid.UUID]*ads.CampaignTag, len(all))
	for i := range all {
		byID[all[i].ID] = &all[i]
	}

	result := make(map[uuid.UUID][]TagDTO)
	for _, a := range assignments {
		tag, ok := byID[a.TagID]
		if !ok {
			continue
		}
		result[a.CampaignID] = append(result[a.CampaignID], toTagDTO(tag))
	}
	return result, nil
}

func toCampaignDTO(c *ads.Campaign, snap *ads.MetricSnapshot, tags []TagDTO) CampaignDTO {
	if tags == nil {
		tags = []TagDTO{}
	}
	dto := CampaignDTO{
		ID:                 c.ID,
		ClientAccountID:    c.ClientAccountID,
		PlatformCampaignID: c.PlatformCampaignID,
		Name:               c.Name,
		Status:             string(c.Status),
		Type:               c.Type,
		DailyBudget:        c.DailyBudget.String(),
		Tags:               tags,
		LastSyncedAt:       c.LastSyncedAt,
	}
	if snap != nil {
		m := toMetricsDTO(snap)
		dto.Metrics = &m
	}
	return dto
}

func toMetricsDTO(s *ads.MetricSnapshot) MetricsDTO {
	return MetricsDTO{
		Range:          string(s.Range),
		Impressions:    s.Impressions,
		Clicks:         s.Clicks,
		Cost:           s.Cost,
		Conversions:    s.Conversions,
		CTR:            s.CTR,
		AvgCPC:         s.AvgCPC,
		ConversionRate: s.ConversionRate,
		AvgDailySpend:  s.AvgDailySpend,
		SyncedAt:       s.SyncedAt,
	}
}

func toTagDTO(t *ads.CampaignTag) TagDTO {
	return TagDTO{ID: t.ID, Name: t.Name, Color: t.Color}
}

package ads

import (
	"context"
	"time"

	"github.com/google/uuid"
	appconnection "github.com/pulse/backend/internal/application/connection"
	"github.com/pulse/backend/internal/domain/ads"
	"github.com/pulse/backend/internal/domain/connection"
	"github.com/pulse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// dailyLookback is how many days of per-day rows each sync pulls
const dailyLookback = 30

// SyncService pulls campaigns and metrics from ad platforms into local
// storage. Failed pulls never write partial or placeholder numbers; the
// previous snapshot stays in place and the failure lands in DataFreshness.
type SyncService struct {
	oauth          *appconnection.OAuthService
	registry       *connection.PlatformRegistry
	connectionRepo connection.ConnectionRepository
	clientAcctRepo connection.ClientAccountRepository
	campaignRepo   ads.CampaignRepository
	adGroupRepo    ads.AdGroupRepository
	snapshotRepo   ads.SnapshotRepository
	dailyRepo      ads.DailyMetricRepository
	freshnessRepo  ads.FreshnessRepository
	window         time.Duration // freshness window
	logger         *zap.Logger
}

// NewSyncService creates a new metrics sync service
func NewSyncService(
	oauth *appconnection.OAuthService,
	registry *connection.PlatformRegistry,
	connectionRepo connection.ConnectionRepository,
	clientAcctRepo connection.ClientAccountRepository,
	campaignRepo ads.CampaignRepository,
	adGroupRepo ads.AdGroupRepository,
	snapshotRepo ads.SnapshotRepository,
	dailyRepo ads.DailyMetricRepository,
	freshnessRepo ads.FreshnessRepository,
	freshnessWindow time.Duration,
	logger *zap.Logger,
) *SyncService {
	return &SyncService{
		oauth:          oauth,
		registry:       registry,
		connectionRepo: connectionRepo,
		clientAcctRepo: clientAcctRepo,
		campaignRepo:   campaignRepo,
		adGroupRepo:    adGroupRepo,
		snapshotRepo:   snapshotRepo,
		dailyRepo:      dailyRepo,
		freshnessRepo:  freshnessRepo,
		window:         freshnessWindow,
		logger:         logger,
	}
}

// SyncClientAccount pulls all reporting windows for one linked account.
// force skips the freshness check.
func (s *SyncService) SyncClientAccount(ctx context.Context, tenantID, clientAccountID uuid.UUID, force bool) (*SyncResultDTO, error) {
	link, err := s.clientAcctRepo.FindByID(ctx, tenantID, clientAccountID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("LINK_NOT_FOUND", "Account link not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find account link")
	}
	if !link.IsActive {
		return nil, shared.NewDomainError("LINK_INACTIVE", "Account link is deactivated")
	}

	conn, err := s.connectionRepo.FindByID(ctx, tenantID, link.ConnectionID)
	if err != nil {
		return nil, shared.NewDomainError("CONNECTION_NOT_FOUND", "Connection not found")
	}
	if !conn.CanSync() {
		return nil, shared.ErrNotConnected
	}

	if !force && s.isFresh(ctx, tenantID, clientAccountID) {
		s.logger.Debug("Account data is fresh, skipping sync",
			zap.String("client_account_id", clientAccountID.String()))
		return &SyncResultDTO{ClientAccountID: clientAccountID, Skipped: true}, nil
	}

	adapter, err := s.registry.Get(conn.PlatformCode)
	if err != nil {
		return nil, shared.NewDomainError("PLATFORM_UNAVAILABLE", "Platform is not supported")
	}

	accessToken, err := s.oauth.EnsureFreshToken(ctx, conn)
	if err != nil {
		s.recordFailure(ctx, tenantID, clientAccountID, err)
		return nil, err
	}

	result := &SyncResultDTO{ClientAccountID: clientAccountID}
	syncedAt := time.Now()
	seenCampaigns := make(map[string]bool)

	for _, rng := range connection.AllDateRanges() {
		snapshots, err := adapter.FetchCampaigns(ctx, accessToken, link.CustomerID, rng)
		if err != nil {
			s.logger.Warn("Campaign fetch failed",
				zap.String("client_account_id", clientAccountID.String()),
				zap.String("range", string(rng)),
				zap.Error(err))
			s.recordRangeFailure(ctx, tenantID, clientAccountID, rng, err)
			result.Error = err.Error()
			continue
		}

		for _, snap := range snapshots {
			seenCampaigns[snap.CampaignID] = true
			campaign, err := s.upsertCampaign(ctx, tenantID, clientAccountID, snap, syncedAt)
			if err != nil {
				s.logger.Error("Failed to upsert campaign",
					zap.String("platform_campaign_id", snap.CampaignID),
					zap.Error(err))
				continue
			}
			if err := s.upsertSnapshot(ctx, tenantID, campaign.ID, rng, snap, syncedAt); err != nil {
				s.logger.Error("Failed to upsert snapshot",
					zap.String("campaign_id", campaign.ID.String()),
					zap.Error(err))
				continue
			}
			result.Snapshots++
		}

		s.recordRangeSuccess(ctx, tenantID, clientAccountID, rng, syncedAt)
	}
	result.Campaigns = len(seenCampaigns)

	adGroups, err := s.syncAdGroups(ctx, tenantID, clientAccountID, adapter, accessToken, link.CustomerID)
	if err != nil {
		s.logger.Warn("Ad group fetch failed",
			zap.String("client_account_id", clientAccountID.String()),
			zap.Error(err))
	}
	result.AdGroups = adGroups

	dailyRows, err := s.syncDaily(ctx, tenantID, clientAccountID, adapter, accessToken, link.CustomerID, syncedAt)
	if err != nil {
		s.logger.Warn("Daily metrics fetch failed",
			zap.String("client_account_id", clientAccountID.String()),
			zap.Error(err))
		if result.Error == "" {
			result.Error = err.Error()
		}
	}
	result.DailyRows = dailyRows

	conn.RecordSync(syncedAt)
	if err := s.connectionRepo.Save(ctx, conn); err != nil {
		s.logger.Error("Failed to record connection sync time", zap.Error(err))
	}

	s.logger.Info("Account metrics synced",
		zap.String("client_account_id", clientAccountID.String()),
		zap.Int("campaigns", result.Campaigns),
		zap.Int("snapshots", result.Snapshots),
		zap.Int("daily_rows", result.DailyRows))

	return result, nil
}

// SyncTenant syncs every active account link of a tenant
func (s *SyncService) SyncTenant(ctx context.Context, tenantID uuid.UUID, force bool) ([]SyncResultDTO, error) {
	links, err := s.clientAcctRepo.FindActiveForTenant(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to list account links", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list account links")
	}

	results := make([]SyncResultDTO, 0, len(links))
	for _, link := range links {
		result, err := s.SyncClientAccount(ctx, tenantID, link.ID, force)
		if err != nil {
			results = append(results, SyncResultDTO{ClientAccountID: link.ID, Error: err.Error()})
			continue
		}
		results = append(results, *result)
	}
	return results, nil
}

// GetFreshness reports sync freshness for every (account, range) of a tenant
func (s *SyncService) GetFreshness(ctx context.Context, tenantID uuid.UUID) ([]FreshnessDTO, error) {
	rows, err := s.freshnessRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to load freshness", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load sync status")
	}

	now := time.Now()
	dtos := make([]FreshnessDTO, len(rows))
	for i, f := range rows {
		dtos[i] = FreshnessDTO{
			ClientAccountID: f.ClientAccountID,
			Range:           string(f.Range),
			LastSyncedAt:    f.LastSyncedAt,
			IsFresh:         f.IsFresh(now, s.window),
			LastError:       f.LastError,
		}
	}
	return dtos, nil
}

func (s *SyncService) upsertCampaign(ctx context.Context, tenantID, clientAccountID uuid.UUID, snap connection.CampaignSnapshot, syncedAt time.Time) (*ads.Campaign, error) {
	campaign, err := s.campaignRepo.FindByPlatformID(ctx, tenantID, clientAccountID, snap.CampaignID)
	if err != nil {
		if err != shared.ErrNotFound {
			return nil, err
		}
		campaign, err = ads.NewCampaign(tenantID, clientAccountID, snap.CampaignID, snap.Name)
		if err != nil {
			return nil, err
		}
	}
	campaign.ApplySync(snap.Name, snap.Status, snap.Type, snap.BudgetAmount, syncedAt)
	if err := s.campaignRepo.Save(ctx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

func (s *SyncService) upsertSnapshot(ctx context.Context, tenantID, campaignID uuid.UUID, rng connection.DateRange, snap connection.CampaignSnapshot, syncedAt time.Time) error {
	existing, err := s.snapshotRepo.Find(ctx, tenantID, campaignID, rng)
	if err != nil {
		if err != shared.ErrNotFound {
			return err
		}
		created, err := ads.NewMetricSnapshot(tenantID, campaignID, rng, snap.Impressions, snap.Clicks, snap.Cost, snap.Conversions)
		if err != nil {
			return err
		}
		return s.snapshotRepo.Save(ctx, created)
	}
	existing.Apply(snap.Impressions, snap.Clicks, snap.Cost, snap.Conversions, syncedAt)
	return s.snapshotRepo.Save(ctx, existing)
}

func (s *SyncService) syncAdGroups(ctx context.Context, tenantID, clientAccountID uuid.UUID, adapter connection.AdsPlatform, accessToken, customerID string) (int, error) {
	rows, err := adapter.FetchAdGroups(ctx, accessToken, customerID)
	if err != nil {
		return 0, err
	}

	saved := 0
	for _, row := range rows {
		campaign, err := s.campaignRepo.FindByPlatformID(ctx, tenantID, clientAccountID, row.CampaignID)
		if err != nil {
			// ad groups of campaigns the aggregate pull never saw are dropped
			continue
		}
		group, err := s.adGroupRepo.FindByPlatformID(ctx, tenantID, campaign.ID, row.AdGroupID)
		if err != nil {
			if err != shared.ErrNotFound {
				continue
			}
			group, err = ads.NewAdGroup(tenantID, campaign.ID, row.AdGroupID, row.Name, row.Status)
			if err != nil {
				continue
			}
		} else {
			group.Name = row.Name
			group.Status = ads.ParseCampaignStatus(row.Status)
			group.UpdatedAt = time.Now()
		}
		if err := s.adGroupRepo.Save(ctx, group); err != nil {
			s.logger.Error("Failed to save ad group",
				zap.String("campaign_id", campaign.ID.String()),
				zap.Error(err))
			continue
		}
		saved++
	}
	return saved, nil
}

func (s *SyncService) syncDaily(ctx context.Context, tenantID, clientAccountID uuid.UUID, adapter connection.AdsPlatform, accessToken, customerID string, syncedAt time.Time) (int, error) {
	to := time.Now().UTC().Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -dailyLookback)

	rows, err := adapter.FetchDailyMetrics(ctx, accessToken, customerID, from, to)
	if err != nil {
		return 0, err
	}

	saved := 0
	for _, row := range rows {
		campaign, err := s.campaignRepo.FindByPlatformID(ctx, tenantID, clientAccountID, row.CampaignID)
		if err != nil {
			// daily rows for campaigns the aggregate pull never saw are dropped
			continue
		}
		metric := ads.NewDailyMetric(tenantID, campaign.ID, row.Date, row.Impressions, row.Clicks, row.Cost, row.Conversions)
		if existing, err := s.dailyRepo.Find(ctx, tenantID, campaign.ID, metric.Date); err == nil {
			metric.ID = existing.ID
			metric.CreatedAt = existing.CreatedAt
		}
		if err := s.dailyRepo.Save(ctx, metric); err != nil {
			s.logger.Error("Failed to save daily metric",
				zap.String("campaign_id", campaign.ID.String()),
				zap.Error(err))
			continue
		}
		saved++
	}
	return saved, nil
}

func (s *SyncService) isFresh(ctx context.Context, tenantID, clientAccountID uuid.UUID) bool {
	now := time.Now()
	for _, rng := range connection.AllDateRanges() {
		f, err := s.freshnessRepo.Find(ctx, tenantID, clientAccountID, rng)
		if err != nil || !f.IsFresh(now, s.window) || f.LastError != "" {
			return false
		}
	}
	return true
}

func (s *SyncService) recordRangeSuccess(ctx context.Context, tenantID, clientAccountID uuid.UUID, rng connection.DateRange, at time.Time) {
	f, err := s.freshnessRepo.Find(ctx, tenantID, clientAccountID, rng)
	if err != nil {
		f = ads.NewDataFreshness(tenantID, clientAccountID, rng)
	}
	f.RecordSuccess(at)
	if err := s.freshnessRepo.Save(ctx, f); err != nil {
		s.logger.Error("Failed to save freshness", zap.Error(err))
	}
}

func (s *SyncService) recordRangeFailure(ctx context.Context, tenantID, clientAccountID uuid.UUID, rng connection.DateRange, cause error) {
	f, err := s.freshnessRepo.Find(ctx, tenantID, clientAccountID, rng)
	if err != nil {
		f = ads.NewDataFreshness(tenantID, clientAccountID, rng)
		// a brand new row has no successful sync to keep
		f.LastSyncedAt = time.Time{}
	}
	f.RecordFailure(cause.Error())
	if err := s.freshnessRepo.Save(ctx, f); err != nil {
		s.logger.Error("Failed to save freshness", zap.Error(err))
	}
}

func (s *SyncService) recordFailure(ctx context.Context, tenantID, clientAccountID uuid.UUID, cause error) {
	for _, rng := range connection.AllDateRanges() {
		s.recordRangeFailure(ctx, tenantID, clientAccountID, rng, cause)
	}
}

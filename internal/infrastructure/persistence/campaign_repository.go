package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/ads"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/pulse/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCampaignRepository implements CampaignRepository using GORM
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewGormCampaignRepository creates a new GormCampaignRepository
func NewGormCampaignRepository(db *gorm.DB) *GormCampaignRepository {
	return &GormCampaignRepository{db: db}
}

// FindByID finds a campaign by ID within a tenant
func (r *GormCampaignRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ads.Campaign, error) {
	var model models.CampaignModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAccount finds campaigns for a client account
func (r *GormCampaignRepository) FindByAccount(ctx context.Context, tenantID, clientAccountID uuid.UUID, filter shared.Filter) ([]ads.Campaign, error) {
	var campaignModels []models.CampaignModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.CampaignModel{}).
			Where("tenant_id = ? AND client_account_id = ?", tenantID, clientAccountID),
		filter,
	)

	if err := query.Find(&campaignModels).Error; err != nil {
		return nil, err
	}
	return toCampaigns(campaignModels), nil
}

// FindByAccounts finds campaigns across multiple client accounts
func (r *GormCampaignRepository) FindByAccounts(ctx context.Context, tenantID uuid.UUID, clientAccountIDs []uuid.UUID) ([]ads.Campaign, error) {
	if len(clientAccountIDs) == 0 {
		return []ads.Campaign{}, nil
	}
	var campaignModels []models.CampaignModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND client_account_id IN ?", tenantID, clientAccountIDs).
		Order("name ASC").
		Find(&campaignModels).Error; err != nil {
		return nil, err
	}
	return toCampaigns(campaignModels), nil
}

// FindByPlatformID finds a campaign by its platform campaign ID
func (r *GormCampaignRepository) FindByPlatformID(ctx context.Context, tenantID, clientAccountID uuid.UUID, platformCampaignID string) (*ads.Campaign, error) {
	var model models.CampaignModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND client_account_id = ? AND platform_campaign_id = ?",
			tenantID, clientAccountID, platformCampaignID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a campaign
func (r *GormCampaignRepository) Save(ctx context.Context, campaign *ads.Campaign) error {
	model := models.CampaignModelFromDomain(campaign)
	return r.db.WithContext(ctx).Save(model).Error
}

// Count counts campaigns for a client account
func (r *GormCampaignRepository) Count(ctx context.Context, tenantID, clientAccountID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CampaignModel{}).
		Where("tenant_id = ? AND client_account_id = ?", tenantID, clientAccountID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormCampaignRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		}
	}

	sortField := ValidateSortField(filter.OrderBy, CampaignSortFields, "name")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	if filter.OrderBy == "" {
		sortOrder = "ASC"
	}
	query = query.Order(sortField + " " + sortOrder)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

func toCampaigns(campaignModels []models.CampaignModel) []ads.Campaign {
	campaigns := make([]ads.Campaign, len(campaignModels))
	for i, model := range campaignModels {
		campaigns[i] = *model.ToDomain()
	}
	return campaigns
}

// Ensure GormCampaignRepository implements CampaignRepository
var _ ads.CampaignRepository = (*GormCampaignRepository)(nil)

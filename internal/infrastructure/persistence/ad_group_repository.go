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

// GormAdGroupRepository implements AdGroupRepository using GORM
type GormAdGroupRepository struct {
	db *gorm.DB
}

// NewGormAdGroupRepository creates a new GormAdGroupRepository
func NewGormAdGroupRepository(db *gorm.DB) *GormAdGroupRepository {
	return &GormAdGroupRepository{db: db}
}

// FindByCampaign finds ad groups belonging to a campaign
func (r *GormAdGroupRepository) FindByCampaign(ctx context.Context, tenantID, campaignID uuid.UUID) ([]ads.AdGroup, error) {
	var adGroupModels []models.AdGroupModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND campaign_id = ?", tenantID, campaignID).
		Order("name ASC").
		Find(&adGroupModels).Error; err != nil {
		return nil, err
	}
	adGroups := make([]ads.AdGroup, len(adGroupModels))
	for i, model := range adGroupModels {
		adGroups[i] = *model.ToDomain()
	}
	return adGroups, nil
}

// FindByPlatformID finds an ad group by its platform ad group ID
func (r *GormAdGroupRepository) FindByPlatformID(ctx context.Context, tenantID, campaignID uuid.UUID, platformAdGroupID string) (*ads.AdGroup, error) {
	var model models.AdGroupModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND campaign_id = ? AND platform_ad_group_id = ?",
			tenantID, campaignID, platformAdGroupID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates an ad group
func (r *GormAdGroupRepository) Save(ctx context.Context, adGroup *ads.AdGroup) error {
	model := &models.AdGroupModel{}
	model.FromDomain(adGroup)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormAdGroupRepository implements AdGroupRepository
var _ ads.AdGroupRepository = (*GormAdGroupRepository)(nil)

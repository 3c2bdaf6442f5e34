package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/connection"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/pulse/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAdsAccountRepository implements AdsAccountRepository using GORM
type GormAdsAccountRepository struct {
	db *gorm.DB
}

// NewGormAdsAccountRepository creates a new GormAdsAccountRepository
func NewGormAdsAccountRepository(db *gorm.DB) *GormAdsAccountRepository {
	return &GormAdsAccountRepository{db: db}
}

// FindByConnection finds all cached accounts for a connection
func (r *GormAdsAccountRepository) FindByConnection(ctx context.Context, tenantID, connectionID uuid.UUID) ([]connection.AdsAccount, error) {
	var accountModels []models.AdsAccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND connection_id = ?", tenantID, connectionID).
		Order("level ASC, name ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}
	return toAdsAccounts(accountModels), nil
}

// FindByCustomerID finds a cached account by its platform customer ID
func (r *GormAdsAccountRepository) FindByCustomerID(ctx context.Context, tenantID, connectionID uuid.UUID, customerID string) (*connection.AdsAccount, error) {
	var model models.AdsAccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND connection_id = ? AND customer_id = ?", tenantID, connectionID, customerID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindMetricsEligible finds active non-manager accounts for a connection
func (r *GormAdsAccountRepository) FindMetricsEligible(ctx context.Context, tenantID, connectionID uuid.UUID) ([]connection.AdsAccount, error) {
	var accountModels []models.AdsAccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND connection_id = ? AND is_manager = ? AND status = ?",
			tenantID, connectionID, false, string(connection.AccountStatusActive)).
		Order("name ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}
	return toAdsAccounts(accountModels), nil
}

// Save creates or updates a cached account
func (r *GormAdsAccountRepository) Save(ctx context.Context, account *connection.AdsAccount) error {
	model := models.AdsAccountModelFromDomain(account)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveAll creates or updates a batch of cached accounts
func (r *GormAdsAccountRepository) SaveAll(ctx context.Context, accounts []*connection.AdsAccount) error {
	if len(accounts) == 0 {
		return nil
	}
	accountModels := make([]*models.AdsAccountModel, len(accounts))
	for i, account := range accounts {
		accountModels[i] = models.AdsAccountModelFromDomain(account)
	}
	return r.db.WithContext(ctx).Save(accountModels).Error
}

// Count counts cached accounts for a connection
func (r *GormAdsAccountRepository) Count(ctx context.Context, tenantID, connectionID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.AdsAccountModel{}).
		Where("tenant_id = ? AND connection_id = ?", tenantID, connectionID)

	for key, value := range filter.Filters {
		switch key {
		case "is_manager":
			query = query.Where("is_manager = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func toAdsAccounts(accountModels []models.AdsAccountModel) []connection.AdsAccount {
	accounts := make([]connection.AdsAccount, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts
}

// Ensure GormAdsAccountRepository implements AdsAccountRepository
var _ connection.AdsAccountRepository = (*GormAdsAccountRepository)(nil)

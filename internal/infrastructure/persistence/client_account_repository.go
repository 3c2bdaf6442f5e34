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

// GormClientAccountRepository implements ClientAccountRepository using GORM
type GormClientAccountRepository struct {
	db *gorm.DB
}

// NewGormClientAccountRepository creates a new GormClientAccountRepository
func NewGormClientAccountRepository(db *gorm.DB) *GormClientAccountRepository {
	return &GormClientAccountRepository{db: db}
}

// FindByID finds a client account link by ID within a tenant
func (r *GormClientAccountRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*connection.ClientAccount, error) {
	var model models.ClientAccountModel
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

// FindByClient finds account links for a client
func (r *GormClientAccountRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID, includeInactive bool) ([]connection.ClientAccount, error) {
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND client_id = ?", tenantID, clientID)
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var accountModels []models.ClientAccountModel
	if err := query.Order("created_at ASC").Find(&accountModels).Error; err != nil {
		return nil, err
	}
	return toClientAccounts(accountModels), nil
}

// FindByConnection finds account links attached to a connection
func (r *GormClientAccountRepository) FindByConnection(ctx context.Context, tenantID, connectionID uuid.UUID) ([]connection.ClientAccount, error) {
	var accountModels []models.ClientAccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND connection_id = ?", tenantID, connectionID).
		Order("created_at ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}
	return toClientAccounts(accountModels), nil
}

// FindActiveForTenant finds all active account links for a tenant
func (r *GormClientAccountRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]connection.ClientAccount, error) {
	var accountModels []models.ClientAccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("created_at ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}
	return toClientAccounts(accountModels), nil
}

// Find finds the link between a client, connection and customer ID
func (r *GormClientAccountRepository) Find(ctx context.Context, tenantID, clientID, connectionID uuid.UUID, customerID string) (*connection.ClientAccount, error) {
	var model models.ClientAccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND client_id = ? AND connection_id = ? AND customer_id = ?",
			tenantID, clientID, connectionID, customerID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a client account link
func (r *GormClientAccountRepository) Save(ctx context.Context, account *connection.ClientAccount) error {
	model := &models.ClientAccountModel{}
	model.FromDomain(account)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a client account link within a tenant
func (r *GormClientAccountRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ClientAccountModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toClientAccounts(accountModels []models.ClientAccountModel) []connection.ClientAccount {
	accounts := make([]connection.ClientAccount, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts
}

// Ensure GormClientAccountRepository implements ClientAccountRepository
var _ connection.ClientAccountRepository = (*GormClientAccountRepository)(nil)

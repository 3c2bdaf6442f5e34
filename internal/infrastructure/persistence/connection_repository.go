package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/connection"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/pulse/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormConnectionRepository implements ConnectionRepository using GORM
type GormConnectionRepository struct {
	db *gorm.DB
}

// NewGormConnectionRepository creates a new GormConnectionRepository
func NewGormConnectionRepository(db *gorm.DB) *GormConnectionRepository {
	return &GormConnectionRepository{db: db}
}

// FindByID finds a connection by ID within a tenant
func (r *GormConnectionRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*connection.PlatformConnection, error) {
	var model models.ConnectionModel
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

// FindByTenant finds all connections for a tenant
func (r *GormConnectionRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]connection.PlatformConnection, error) {
	var connectionModels []models.ConnectionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&connectionModels).Error; err != nil {
		return nil, err
	}
	return toConnections(connectionModels), nil
}

// FindByAccount finds a connection by platform and account email
func (r *GormConnectionRepository) FindByAccount(ctx context.Context, tenantID uuid.UUID, code connection.PlatformCode, accountEmail string) (*connection.PlatformConnection, error) {
	var model models.ConnectionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND platform_code = ? AND account_email = ?",
			tenantID, string(code), strings.ToLower(accountEmail)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByPlatform finds active connections for a platform within a tenant
func (r *GormConnectionRepository) FindActiveByPlatform(ctx context.Context, tenantID uuid.UUID, code connection.PlatformCode) ([]connection.PlatformConnection, error) {
	var connectionModels []models.ConnectionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND platform_code = ? AND status = ?",
			tenantID, string(code), string(connection.StatusActive)).
		Order("created_at DESC").
		Find(&connectionModels).Error; err != nil {
		return nil, err
	}
	return toConnections(connectionModels), nil
}

// FindAllSyncable returns active connections across all tenants
func (r *GormConnectionRepository) FindAllSyncable(ctx context.Context) ([]connection.PlatformConnection, error) {
	var connectionModels []models.ConnectionModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(connection.StatusActive)).
		Order("tenant_id, created_at").
		Find(&connectionModels).Error; err != nil {
		return nil, err
	}
	return toConnections(connectionModels), nil
}

// Save creates or updates a connection
func (r *GormConnectionRepository) Save(ctx context.Context, conn *connection.PlatformConnection) error {
	model := models.ConnectionModelFromDomain(conn)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a connection within a tenant
func (r *GormConnectionRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ConnectionModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toConnections(connectionModels []models.ConnectionModel) []connection.PlatformConnection {
	connections := make([]connection.PlatformConnection, len(connectionModels))
	for i, model := range connectionModels {
		connections[i] = *model.ToDomain()
	}
	return connections
}

// Ensure GormConnectionRepository implements ConnectionRepository
var _ connection.ConnectionRepository = (*GormConnectionRepository)(nil)

package persistence

import (
	"context"
	"errors"

	"github.com/pulse/backend/internal/domain/connection"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/pulse/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPlatformTypeRepository implements PlatformTypeRepository using GORM
type GormPlatformTypeRepository struct {
	db *gorm.DB
}

// NewGormPlatformTypeRepository creates a new GormPlatformTypeRepository
func NewGormPlatformTypeRepository(db *gorm.DB) *GormPlatformTypeRepository {
	return &GormPlatformTypeRepository{db: db}
}

// FindAll returns the platform catalog ordered by position
func (r *GormPlatformTypeRepository) FindAll(ctx context.Context) ([]connection.PlatformType, error) {
	var platformModels []models.PlatformTypeModel
	if err := r.db.WithContext(ctx).
		Order("position ASC, code ASC").
		Find(&platformModels).Error; err != nil {
		return nil, err
	}
	platforms := make([]connection.PlatformType, len(platformModels))
	for i, model := range platformModels {
		platforms[i] = *model.ToDomain()
	}
	return platforms, nil
}

// FindByCode finds a platform type by its code
func (r *GormPlatformTypeRepository) FindByCode(ctx context.Context, code connection.PlatformCode) (*connection.PlatformType, error) {
	var model models.PlatformTypeModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", string(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a platform type
func (r *GormPlatformTypeRepository) Save(ctx context.Context, platform *connection.PlatformType) error {
	model := &models.PlatformTypeModel{}
	model.FromDomain(platform)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormPlatformTypeRepository implements PlatformTypeRepository
var _ connection.PlatformTypeRepository = (*GormPlatformTypeRepository)(nil)

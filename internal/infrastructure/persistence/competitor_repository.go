package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/portfolio"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/pulse/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCompetitorRepository implements CompetitorRepository using GORM
type GormCompetitorRepository struct {
	db *gorm.DB
}

// NewGormCompetitorRepository creates a new GormCompetitorRepository
func NewGormCompetitorRepository(db *gorm.DB) *GormCompetitorRepository {
	return &GormCompetitorRepository{db: db}
}

// FindByID finds a competitor by ID within a tenant
func (r *GormCompetitorRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*portfolio.Competitor, error) {
	var model models.CompetitorModel
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

// FindByClient finds all competitors tracked for a client
func (r *GormCompetitorRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]portfolio.Competitor, error) {
	var competitorModels []models.CompetitorModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND client_id = ?", tenantID, clientID).
		Order("name ASC").
		Find(&competitorModels).Error; err != nil {
		return nil, err
	}
	competitors := make([]portfolio.Competitor, len(competitorModels))
	for i, model := range competitorModels {
		competitors[i] = *model.ToDomain()
	}
	return competitors, nil
}

// Save creates or updates a competitor
func (r *GormCompetitorRepository) Save(ctx context.Context, competitor *portfolio.Competitor) error {
	model := models.CompetitorModelFromDomain(competitor)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a competitor within a tenant
func (r *GormCompetitorRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CompetitorModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByName checks if a competitor with the given name exists for a client
func (r *GormCompetitorRepository) ExistsByName(ctx context.Context, tenantID, clientID uuid.UUID, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CompetitorModel{}).
		Where("tenant_id = ? AND client_id = ? AND LOWER(name) = LOWER(?)", tenantID, clientID, name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormCompetitorRepository implements CompetitorRepository
var _ portfolio.CompetitorRepository = (*GormCompetitorRepository)(nil)

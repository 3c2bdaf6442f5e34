package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/ads"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/pulse/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTagRepository implements TagRepository using GORM
type GormTagRepository struct {
	db *gorm.DB
}

// NewGormTagRepository creates a new GormTagRepository
func NewGormTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

// FindByID finds a tag by ID within a tenant
func (r *GormTagRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ads.CampaignTag, error) {
	var model models.TagModel
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

// FindAll finds all tags for a tenant
func (r *GormTagRepository) FindAll(ctx context.Context, tenantID uuid.UUID) ([]ads.CampaignTag, error) {
	var tagModels []models.TagModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&tagModels).Error; err != nil {
		return nil, err
	}
	tags := make([]ads.CampaignTag, len(tagModels))
	for i, model := range tagModels {
		tags[i] = *model.ToDomain()
	}
	return tags, nil
}

// FindByName finds a tag by name within a tenant
func (r *GormTagRepository) FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*ads.CampaignTag, error) {
	var model models.TagModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND LOWER(name) = ?", tenantID, strings.ToLower(strings.TrimSpace(name))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a tag
func (r *GormTagRepository) Save(ctx context.Context, tag *ads.CampaignTag) error {
	model := &models.TagModel{}
	model.FromDomain(tag)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a tag and its assignments
func (r *GormTagRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND tag_id = ?", tenantID, id).
			Delete(&models.TagAssignmentModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.TagModel{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Assign attaches a tag to a campaign
func (r *GormTagRepository) Assign(ctx context.Context, assignment *ads.TagAssignment) error {
	model := &models.TagAssignmentModel{}
	model.FromDomain(*assignment)
	return r.db.WithContext(ctx).Save(model).Error
}

// Unassign removes a tag from a campaign
func (r *GormTagRepository) Unassign(ctx context.Context, tenantID, tagID, campaignID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND tag_id = ? AND campaign_id = ?", tenantID, tagID, campaignID).
		Delete(&models.TagAssignmentModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindAssignments finds tag assignments for a set of campaigns
func (r *GormTagRepository) FindAssignments(ctx context.Context, tenantID uuid.UUID, campaignIDs []uuid.UUID) ([]ads.TagAssignment, error) {
	if len(campaignIDs) == 0 {
		return []ads.TagAssignment{}, nil
	}
	var assignmentModels []models.TagAssignmentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND campaign_id IN ?", tenantID, campaignIDs).
		Find(&assignmentModels).Error; err != nil {
		return nil, err
	}
	assignments := make([]ads.TagAssignment, len(assignmentModels))
	for i, model := range assignmentModels {
		assignments[i] = model.ToDomain()
	}
	return assignments, nil
}

// Ensure GormTagRepository implements TagRepository
var _ ads.TagRepository = (*GormTagRepository)(nil)

package ads

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/ads"
	"github.com/pulse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TagService manages campaign tags and their assignments
type TagService struct {
	tagRepo      ads.TagRepository
	campaignRepo ads.CampaignRepository
	logger       *zap.Logger
}

// NewTagService creates a new tag service
func NewTagService(tagRepo ads.TagRepository, campaignRepo ads.CampaignRepository, logger *zap.Logger) *TagService {
	return &TagService{tagRepo: tagRepo, campaignRepo: campaignRepo, logger: logger}
}

// Create creates a tag with a unique name per tenant
func (s *TagService) Create(ctx context.Context, tenantID uuid.UUID, name, color string) (*TagDTO, error) {
	s.logger.Info("Creating tag",
		zap.String("tenant_id", tenantID.String()),
		zap.String("name", name))

	if existing, err := s.tagRepo.FindByName(ctx, tenantID, name); err == nil && existing != nil {
		return nil, shared.NewDomainError("TAG_EXISTS", "A tag with this name already exists")
	} else if err != nil && err != shared.ErrNotFound {
		s.logger.Error("Failed to check tag name", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create tag")
	}

	tag, err := ads.NewCampaignTag(tenantID, name, color)
	if err != nil {
		return nil, err
	}

	if err := s.tagRepo.Save(ctx, tag); err != nil {
		s.logger.Error("Failed to save tag", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create tag")
	}

	dto := toTagDTO(tag)
	return &dto, nil
}

// List returns all of a tenant's tags
func (s *TagService) List(ctx context.Context, tenantID uuid.UUID) ([]TagDTO, error) {
	tags, err := s.tagRepo.FindAll(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to list tags", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list tags")
	}

	dtos := make([]TagDTO, len(tags))
	for i := range tags {
		dtos[i] = toTagDTO(&tags[i])
	}
	return dtos, nil
}

// Update renames a tag or changes its color
func (s *TagService) Update(ctx context.Context, tenantID, tagID uuid.UUID, name, color string) (*TagDTO, error) {
	tag, err := s.tagRepo.FindByID(ctx, tenantID, tagID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("TAG_NOT_FOUND", "Tag not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find tag")
	}

	if name != "" && name != tag.Name {
		if existing, err := s.tagRepo.FindByName(ctx, tenantID, name); err == nil && existing != nil && existing.ID != tagID {
			return nil, shared.NewDomainError("TAG_EXISTS", "A tag with this name already exists")
		}
	}

	if name != "" {
		if err := tag.Rename(name); err != nil {
			return nil, err
		}
	}
	if color != "" {
		if err := tag.Recolor(color); err != nil {
			return nil, err
		}
	}

	if err := s.tagRepo.Save(ctx, tag); err != nil {
		s.logger.Error("Failed to save tag", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update tag")
	}

	dto := toTagDTO(tag)
	return &dto, nil
}

// Delete removes a tag and all its assignments
func (s *TagService) Delete(ctx context.Context, tenantID, tagID uuid.UUID) error {
	if _, err := s.tagRepo.FindByID(ctx, tenantID, tagID); err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("TAG_NOT_FOUND", "Tag not found")
		}
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to find tag")
	}

	if err := s.tagRepo.Delete(ctx, tenantID, tagID); err != nil {
		s.logger.Error("Failed to delete tag", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete tag")
	}

	s.logger.Info("Tag deleted", zap.String("tag_id", tagID.String()))
	return nil
}

// Assign attaches a tag to a campaign, idempotently
func (s *TagService) Assign(ctx context.Context, tenantID, tagID, campaignID uuid.UUID) error {
	if _, err := s.tagRepo.FindByID(ctx, tenantID, tagID); err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("TAG_NOT_FOUND", "Tag not found")
		}
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to find tag")
	}
	if _, err := s.campaignRepo.FindByID(ctx, tenantID, campaignID); err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("CAMPAIGN_NOT_FOUND", "Campaign not found")
		}
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to find campaign")
	}

	existing, err := s.tagRepo.FindAssignments(ctx, tenantID, []uuid.UUID{campaignID})
	if err != nil {
		s.logger.Error("Failed to load tag assignments", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to assign tag")
	}
	for _, a := range existing {
		if a.TagID == tagID {
			return nil
		}
	}

	assignment := ads.NewTagAssignment(tenantID, tagID, campaignID)
	if err := s.tagRepo.Assign(ctx, assignment); err != nil {
		s.logger.Error("Failed to assign tag", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to assign tag")
	}
	return nil
}

// Unassign detaches a tag from a campaign
func (s *TagService) Unassign(ctx context.Context, tenantID, tagID, campaignID uuid.UUID) error {
	if err := s.tagRepo.Unassign(ctx, tenantID, tagID, campaignID); err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("ASSIGNMENT_NOT_FOUND", "Tag is not assigned to this campaign")
		}
		s.logger.Error("Failed to unassign tag", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to unassign tag")
	}
	return nil
}

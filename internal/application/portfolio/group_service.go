package portfolio

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/portfolio"
	"github.com/pulse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// GroupService handles client group operations
type GroupService struct {
	groupRepo  portfolio.GroupRepository
	clientRepo portfolio.ClientRepository
	logger     *zap.Logger
}

// NewGroupService creates a new group service
func NewGroupService(
	groupRepo portfolio.GroupRepository,
	clientRepo portfolio.ClientRepository,
	logger *zap.Logger,
) *GroupService {
	return &GroupService{
		groupRepo:  groupRepo,
		clientRepo: clientRepo,
		logger:     logger,
	}
}

// CreateGroupInput contains input for creating a manual group
type CreateGroupInput struct {
	TenantID    uuid.UUID
	Name        string
	Description string
	ClientIDs   []uuid.UUID
}

// Create creates a manual client group
func (s *GroupService) Create(ctx context.Context, input CreateGroupInput) (*GroupDTO, error) {
	group, err := portfolio.NewClientGroup(input.TenantID, input.Name, input.Description)
	if err != nil {
		return nil, err
	}

	for _, clientID := range input.ClientIDs {
		if _, err := s.clientRepo.FindByID(ctx, input.TenantID, clientID); err != nil {
			return nil, shared.NewDomainError("CLIENT_NOT_FOUND", "Group references a client that does not exist")
		}
		if err := group.AddClient(clientID); err != nil {
			return nil, err
		}
	}

	if err := s.groupRepo.Save(ctx, group); err != nil {
		s.logger.Error("Failed to create group", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create group")
	}

	s.logger.Info("Group created",
		zap.String("group_id", group.ID.String()),
		zap.Int("clients", group.ClientCount()))

	return toGroupDTO(group), nil
}

// Get retrieves a group by ID
func (s *GroupService) Get(ctx context.Context, tenantID, id uuid.UUID) (*GroupDTO, error) {
	group, err := s.groupRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("GROUP_NOT_FOUND", "Group not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find group")
	}
	return toGroupDTO(group), nil
}

// List retrieves all groups for a tenant
func (s *GroupService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]GroupDTO, error) {
	groups, err := s.groupRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		s.logger.Error("Failed to list groups", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list groups")
	}

	dtos := make([]GroupDTO, len(groups))
	for i, g := range groups {
		dtos[i] = *toGroupDTO(&g)
	}
	return dtos, nil
}

// Rename renames a manual group
func (s *GroupService) Rename(ctx context.Context, tenantID, id uuid.UUID, name string) (*GroupDTO, error) {
	group, err := s.groupRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("GROUP_NOT_FOUND", "Group not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find group")
	}

	if err := group.Rename(name); err != nil {
		return nil, err
	}

	if err := s.groupRepo.Save(ctx, group); err != nil {
		s.logger.Error("Failed to rename group", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to rename group")
	}
	return toGroupDTO(group), nil
}

// AddClient adds a client to a group
func (s *GroupService) AddClient(ctx context.Context, tenantID, groupID, clientID uuid.UUID) (*GroupDTO, error) {
	group, err := s.groupRepo.FindByID(ctx, tenantID, groupID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("GROUP_NOT_FOUND", "Group not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find group")
	}

	if _, err := s.clientRepo.FindByID(ctx, tenantID, clientID); err != nil {
		return nil, shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
	}

	if err := group.AddClient(clientID); err != nil {
		return nil, err
	}

	if err := s.groupRepo.Save(ctx, group); err != nil {
		s.logger.Error("Failed to add client to group", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update group")
	}

	s.logger.Info("Client added to group",
		zap.String("group_id", groupID.String()),
		zap.String("client_id", clientID.String()))
	return toGroupDTO(group), nil
}

// RemoveClient removes a client from a group
func (s *GroupService) RemoveClient(ctx context.Context, tenantID, groupID, clientID uuid.UUID) (*GroupDTO, error) {
	group, err := s.groupRepo.FindByID(ctx, tenantID, groupID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("GROUP_NOT_FOUND", "Group not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find group")
	}

	if err := group.RemoveClient(clientID); err != nil {
		return nil, err
	}

	if err := s.groupRepo.Save(ctx, group); err != nil {
		s.logger.Error("Failed to remove client from group", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update group")
	}
	return toGroupDTO(group), nil
}

// Delete deletes a manual group. Auto-generated groups cannot be deleted.
func (s *GroupService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	group, err := s.groupRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("GROUP_NOT_FOUND", "Group not found")
		}
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to find group")
	}

	if group.IsAutoGenerated {
		return shared.NewDomainError("GROUP_AUTO_GENERATED", "Auto-generated groups cannot be deleted")
	}

	if err := s.groupRepo.Delete(ctx, tenantID, id); err != nil {
		s.logger.Error("Failed to delete group", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete group")
	}

	s.logger.Info("Group deleted", zap.String("group_id", id.String()))
	return nil
}

// toGroupDTO converts domain ClientGroup to GroupDTO
func toGroupDTO(group *portfolio.ClientGroup) *GroupDTO {
	clientIDs := group.ClientIDs
	if clientIDs == nil {
		clientIDs = []uuid.UUID{}
	}
	return &GroupDTO{
		ID:              group.ID,
		Name:            group.Name,
		Description:     group.Description,
		IsAutoGenerated: group.IsAutoGenerated,
		CategoryType:    string(group.CategoryType),
		CategoryValue:   group.CategoryValue,
		ClientIDs:       clientIDs,
		ClientCount:     group.ClientCount(),
		CreatedAt:       group.CreatedAt,
	}
}

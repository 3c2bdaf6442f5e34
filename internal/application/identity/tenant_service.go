package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/identity"
	"github.com/pulse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TenantService handles workspace management operations
type TenantService struct {
	tenantRepo     identity.TenantRepository
	userRepo       identity.UserRepository
	membershipRepo identity.MembershipRepository
	logger         *zap.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(
	tenantRepo identity.TenantRepository,
	userRepo identity.UserRepository,
	membershipRepo identity.MembershipRepository,
	logger *zap.Logger,
) *TenantService {
	return &TenantService{
		tenantRepo:     tenantRepo,
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		logger:         logger,
	}
}

// TenantDTO represents tenant data in responses
type TenantDTO struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Slug       string     `json:"slug"`
	LogoURL    string     `json:"logo_url,omitempty"`
	IsActive   bool       `json:"is_active"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// MemberDTO represents one member of a tenant
type MemberDTO struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

// UpdateTenantInput contains input for updating a tenant
type UpdateTenantInput struct {
	ID      uuid.UUID
	Name    *string
	LogoURL *string
}

// AddMemberInput contains input for adding a member to a tenant
type AddMemberInput struct {
	TenantID uuid.UUID
	Email    string
	Role     string
}

// Get retrieves a tenant by ID
func (s *TenantService) Get(ctx context.Context, id uuid.UUID) (*TenantDTO, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("TENANT_NOT_FOUND", "Workspace not found")
		}
		s.logger.Error("Failed to find tenant", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find workspace")
	}
	return toTenantDTO(tenant), nil
}

// Update changes a tenant's name or logo
func (s *TenantService) Update(ctx context.Context, input UpdateTenantInput) (*TenantDTO, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, input.ID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("TENANT_NOT_FOUND", "Workspace not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find workspace")
	}

	if input.Name != nil {
		if err := tenant.Rename(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.LogoURL != nil {
		if err := tenant.SetLogoURL(*input.LogoURL); err != nil {
			return nil, err
		}
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		s.logger.Error("Failed to update tenant", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update workspace")
	}

	s.logger.Info("Tenant updated", zap.String("tenant_id", input.ID.String()))
	return toTenantDTO(tenant), nil
}

// Archive archives a tenant. Archived tenants reject logins and API calls but
// keep their data.
func (s *TenantService) Archive(ctx context.Context, id uuid.UUID) (*TenantDTO, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("TENANT_NOT_FOUND", "Workspace not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find workspace")
	}

	if err := tenant.Archive(); err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		s.logger.Error("Failed to archive tenant", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to archive workspace")
	}

	s.logger.Info("Tenant archived", zap.String("tenant_id", id.String()))
	return toTenantDTO(tenant), nil
}

// Restore unarchives a tenant
func (s *TenantService) Restore(ctx context.Context, id uuid.UUID) (*TenantDTO, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("TENANT_NOT_FOUND", "Workspace not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find workspace")
	}

	if err := tenant.Restore(); err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		s.logger.Error("Failed to restore tenant", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to restore workspace")
	}

	s.logger.Info("Tenant restored", zap.String("tenant_id", id.String()))
	return toTenantDTO(tenant), nil
}

// ListMembers returns the members of a tenant with their roles
func (s *TenantService) ListMembers(ctx context.Context, tenantID uuid.UUID) ([]MemberDTO, error) {
	memberships, err := s.membershipRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to list memberships", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list members")
	}

	members := make([]MemberDTO, 0, len(memberships))
	for _, m := range memberships {
		user, err := s.userRepo.FindByID(ctx, m.UserID)
		if err != nil {
			s.logger.Warn("Membership references missing user",
				zap.String("user_id", m.UserID.String()))
			continue
		}
		members = append(members, MemberDTO{
			UserID:      user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Role:        string(m.Role),
			JoinedAt:    m.CreatedAt,
		})
	}
	return members, nil
}

// AddMember adds an existing user to a tenant by email
func (s *TenantService) AddMember(ctx context.Context, input AddMemberInput) (*MemberDTO, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "No account with this email")
	}

	if _, err := s.membershipRepo.Find(ctx, user.ID, input.TenantID); err == nil {
		return nil, shared.NewDomainError("ALREADY_MEMBER", "User is already a member")
	}

	membership, err := identity.NewTenantMembership(user.ID, input.TenantID, identity.MemberRole(input.Role))
	if err != nil {
		return nil, err
	}

	if err := s.membershipRepo.Save(ctx, membership); err != nil {
		s.logger.Error("Failed to add member", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to add member")
	}

	s.logger.Info("Member added",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("role", input.Role))

	return &MemberDTO{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(membership.Role),
		JoinedAt:    membership.CreatedAt,
	}, nil
}

// RemoveMember removes a user from a tenant. The last owner cannot be removed.
func (s *TenantService) RemoveMember(ctx context.Context, tenantID, userID uuid.UUID) error {
	membership, err := s.membershipRepo.Find(ctx, userID, tenantID)
	if err != nil {
		return shared.NewDomainError("NOT_A_MEMBER", "User is not a member")
	}

	if membership.Role == identity.MemberRoleOwner {
		memberships, err := s.membershipRepo.FindByTenant(ctx, tenantID)
		if err != nil {
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to check owners")
		}
		owners := 0
		for _, m := range memberships {
			if m.Role == identity.MemberRoleOwner {
				owners++
			}
		}
		if owners <= 1 {
			return shared.NewDomainError("LAST_OWNER", "Cannot remove the last owner")
		}
	}

	if err := s.membershipRepo.Delete(ctx, userID, tenantID); err != nil {
		s.logger.Error("Failed to remove member", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to remove member")
	}

	s.logger.Info("Member removed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("user_id", userID.String()))
	return nil
}

// toTenantDTO converts domain Tenant to TenantDTO
func toTenantDTO(tenant *identity.Tenant) *TenantDTO {
	return &TenantDTO{
		ID:         tenant.ID,
		Name:       tenant.Name,
		Slug:       tenant.Slug,
		LogoURL:    tenant.LogoURL,
		IsActive:   tenant.IsActive,
		ArchivedAt: tenant.ArchivedAt,
		CreatedAt:  tenant.CreatedAt,
		UpdatedAt:  tenant.UpdatedAt,
	}
}

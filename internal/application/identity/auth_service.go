package identity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/identity"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/pulse/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo       identity.UserRepository
	tenantRepo     identity.TenantRepository
	membershipRepo identity.MembershipRepository
	jwtService     *auth.JWTService
	blacklist      auth.TokenBlacklist
	logger         *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	tenantRepo identity.TenantRepository,
	membershipRepo identity.MembershipRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		tenantRepo:     tenantRepo,
		membershipRepo: membershipRepo,
		jwtService:     jwtService,
		blacklist:      blacklist,
		logger:         logger,
	}
}

// Register creates a user together with their first tenant. The user becomes
// the tenant owner.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	s.logger.Info("Registering user", zap.String("email", email))

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Failed to check email existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email availability")
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_EXISTS", "An account with this email already exists")
	}

	user, err := identity.NewUser(input.Email, input.Password, input.DisplayName)
	if err != nil {
		return nil, err
	}

	tenant, err := identity.NewTenant(input.TenantName, "")
	if err != nil {
		return nil, err
	}

	slugTaken, err := s.tenantRepo.ExistsBySlug(ctx, tenant.Slug)
	if err != nil {
		s.logger.Error("Failed to check slug existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check workspace availability")
	}
	if slugTaken {
		return nil, shared.NewDomainError("SLUG_EXISTS", "A workspace with this name already exists")
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create account")
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		s.logger.Error("Failed to save tenant", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create workspace")
	}

	membership, err := identity.NewTenantMembership(user.ID, tenant.ID, identity.MemberRoleOwner)
	if err != nil {
		return nil, err
	}
	if err := s.membershipRepo.Save(ctx, membership); err != nil {
		s.logger.Error("Failed to save membership", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create workspace membership")
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", tenant.ID.String()))

	return s.issueTokens(user, tenant, membership)
}

// Login authenticates a user and returns tokens bound to one tenant
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	s.logger.Info("Login attempt", zap.String("email", email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("User not found during login", zap.String("email", email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	if !user.IsActive {
		s.logger.Warn("Login attempt for deactivated account", zap.String("email", email))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("email", email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	tenant, membership, err := s.resolveTenant(ctx, user.ID, input.TenantSlug)
	if err != nil {
		return nil, err
	}

	user.RecordLogin(time.Now())
	if err := s.userRepo.Save(ctx, user); err != nil {
		// Login still succeeds
		s.logger.Error("Failed to record login time", zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", tenant.ID.String()))

	return s.issueTokens(user, tenant, membership)
}

// SwitchTenant issues a fresh token pair bound to another tenant the user
// belongs to
func (s *AuthService) SwitchTenant(ctx context.Context, input SwitchTenantInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	if !user.IsActive {
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	tenant, membership, err := s.resolveTenant(ctx, user.ID, input.TenantSlug)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Tenant switched",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", tenant.ID.String()))

	return s.issueTokens(user, tenant, membership)
}

// RefreshToken refreshes the access token using a valid refresh token
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	refreshClaims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	userID, err := refreshClaims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}
	tenantID, err := refreshClaims.GetTenantUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid tenant ID in token")
	}

	if s.blacklist != nil {
		invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, userID.String(), refreshClaims.GetIssuedAtTime())
		if err != nil {
			s.logger.Error("Failed to check token invalidation", zap.Error(err))
		} else if invalidated {
			return nil, shared.NewDomainError("TOKEN_INVALID", "Token has been revoked")
		}
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	if !user.IsActive {
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account is no longer active")
	}

	membership, err := s.membershipRepo.Find(ctx, userID, tenantID)
	if err != nil {
		return nil, shared.NewDomainError("NOT_A_MEMBER", "No longer a member of this workspace")
	}

	pair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, user.Email, string(membership.Role))
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	return &RefreshTokenResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}, nil
}

// Logout revokes the current access token, optionally all of the user's
// sessions
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("User logout",
		zap.String("user_id", input.UserID.String()),
		zap.Bool("all_sessions", input.AllSessions))

	if s.blacklist == nil {
		return nil
	}

	if input.AllSessions {
		ttl := s.jwtService.GetRefreshTokenExpiration()
		if err := s.blacklist.AddUserTokensToBlacklist(ctx, input.UserID.String(), ttl); err != nil {
			s.logger.Error("Failed to invalidate user sessions", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out all sessions")
		}
		return nil
	}

	if input.AccessJTI != "" {
		if err := s.blacklist.AddToBlacklist(ctx, input.AccessJTI, input.AccessTTL); err != nil {
			s.logger.Error("Failed to blacklist token", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out")
		}
	}
	return nil
}

// GetCurrentUser retrieves the current user and their tenant memberships
func (s *AuthService) GetCurrentUser(ctx context.Context, input GetCurrentUserInput) (*CurrentUserResult, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	memberships, err := s.membershipRepo.FindByUser(ctx, user.ID)
	if err != nil {
		s.logger.Error("Failed to load memberships", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load memberships")
	}

	tenantIDs := make([]uuid.UUID, len(memberships))
	roleByTenant := make(map[uuid.UUID]identity.MemberRole, len(memberships))
	for i, m := range memberships {
		tenantIDs[i] = m.TenantID
		roleByTenant[m.TenantID] = m.Role
	}

	tenants, err := s.tenantRepo.FindByIDs(ctx, tenantIDs)
	if err != nil {
		s.logger.Error("Failed to load tenants", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load workspaces")
	}

	result := &CurrentUserResult{
		User: UserInfo{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Role:        string(roleByTenant[input.TenantID]),
		},
		Tenants: make([]TenantInfo, 0, len(tenants)),
	}
	for _, t := range tenants {
		info := TenantInfo{ID: t.ID, Name: t.Name, Slug: t.Slug}
		if t.ID == input.TenantID {
			result.Tenant = info
		}
		result.Tenants = append(result.Tenants, info)
	}

	return result, nil
}

// ChangePassword changes a user's password and revokes other sessions
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to update password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update password")
	}

	if s.blacklist != nil {
		ttl := s.jwtService.GetRefreshTokenExpiration()
		if err := s.blacklist.AddUserTokensToBlacklist(ctx, user.ID.String(), ttl); err != nil {
			s.logger.Error("Failed to revoke sessions after password change", zap.Error(err))
		}
	}

	s.logger.Info("Password changed", zap.String("user_id", input.UserID.String()))
	return nil
}

// resolveTenant picks the tenant for a login or switch. An empty slug falls
// back to the user's first membership.
func (s *AuthService) resolveTenant(ctx context.Context, userID uuid.UUID, slug string) (*identity.Tenant, *identity.TenantMembership, error) {
	if slug != "" {
		tenant, err := s.tenantRepo.FindBySlug(ctx, slug)
		if err != nil {
			return nil, nil, shared.NewDomainError("TENANT_NOT_FOUND", "Workspace not found")
		}
		if tenant.IsArchived() {
			return nil, nil, shared.NewDomainError("TENANT_ARCHIVED", "Workspace has been archived")
		}
		membership, err := s.membershipRepo.Find(ctx, userID, tenant.ID)
		if err != nil {
			return nil, nil, shared.NewDomainError("NOT_A_MEMBER", "Not a member of this workspace")
		}
		return tenant, membership, nil
	}

	memberships, err := s.membershipRepo.FindByUser(ctx, userID)
	if err != nil || len(memberships) == 0 {
		return nil, nil, shared.NewDomainError("NO_WORKSPACE", "User does not belong to any workspace")
	}

	for _, m := range memberships {
		tenant, err := s.tenantRepo.FindByID(ctx, m.TenantID)
		if err != nil {
			continue
		}
		if tenant.IsArchived() {
			continue
		}
		membership := m
		return tenant, &membership, nil
	}
	return nil, nil, shared.NewDomainError("NO_WORKSPACE", "All of the user's workspaces are archived")
}

func (s *AuthService) issueTokens(user *identity.User, tenant *identity.Tenant, membership *identity.TenantMembership) (*LoginResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: tenant.ID,
		UserID:   user.ID,
		Email:    user.Email,
		Role:     string(membership.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User: UserInfo{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Role:        string(membership.Role),
		},
		Tenant: TenantInfo{ID: tenant.ID, Name: tenant.Name, Slug: tenant.Slug},
	}, nil
}

func mapTokenError(err error) error {
	switch err {
	case auth.ErrExpiredToken:
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case auth.ErrInvalidToken:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	case auth.ErrMaxRefreshExceeded:
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "Failed to validate refresh token")
	}
}

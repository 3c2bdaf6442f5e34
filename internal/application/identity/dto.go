package identity

import (
	"time"

	"github.com/google/uuid"
)

// LoginInput contains login request data
type LoginInput struct {
	Email    string
	Password string
	// TenantSlug optionally selects the tenant to log into; defaults to the
	// user's first membership
	TenantSlug string
	IP         string
}

// LoginResult contains successful login response data
type LoginResult struct {
	AccessToken           string     `json:"access_token"`
	RefreshToken          string     `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time  `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time  `json:"refresh_token_expires_at"`
	TokenType             string     `json:"token_type"`
	User                  UserInfo   `json:"user"`
	Tenant                TenantInfo `json:"tenant"`
}

// UserInfo contains user information in responses
type UserInfo struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
}

// TenantInfo identifies the tenant a token is bound to
type TenantInfo struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// RefreshTokenInput contains token refresh request data
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains token refresh response data
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LogoutInput contains logout request data
type LogoutInput struct {
	UserID      uuid.UUID
	TenantID    uuid.UUID
	AccessJTI   string
	AccessTTL   time.Duration
	AllSessions bool
}

// SwitchTenantInput contains tenant switch request data
type SwitchTenantInput struct {
	UserID     uuid.UUID
	TenantSlug string
}

// GetCurrentUserInput identifies the authenticated user
type GetCurrentUserInput struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
}

// CurrentUserResult contains the current user with their memberships
type CurrentUserResult struct {
	User    UserInfo     `json:"user"`
	Tenant  TenantInfo   `json:"tenant"`
	Tenants []TenantInfo `json:"tenants"`
}

// RegisterInput contains signup request data
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	TenantName  string
}

// ChangePasswordInput contains password change request data
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/pulse/backend/internal/application/identity"
)

// RegisterRequest represents the signup request body
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name" binding:"required"`
	TenantName  string `json:"tenant_name" binding:"required"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	TenantSlug string `json:"tenant_slug,omitempty"`
}

// RefreshTokenRequest represents the token refresh request body
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// SwitchTenantRequest represents the tenant switch request body
type SwitchTenantRequest struct {
	TenantSlug string `json:"tenant_slug" binding:"required"`
}

// ChangePasswordRequest represents the password change request body
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// LogoutRequest represents the logout request body
type LogoutRequest struct {
	AllSessions bool `json:"all_sessions,omitempty"`
}

// TokenResponse represents an issued token pair
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// AuthUserResponse represents the authenticated user in responses
type AuthUserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
}

// AuthTenantResponse identifies the tenant a session is bound to
type AuthTenantResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// LoginResponse represents the login response body
type LoginResponse struct {
	Token  TokenResponse      `json:"token"`
	User   AuthUserResponse   `json:"user"`
	Tenant AuthTenantResponse `json:"tenant"`
}

// RefreshTokenResponse represents the token refresh response body
type RefreshTokenResponse struct {
	Token TokenResponse `json:"token"`
}

// CurrentUserResponse represents the current user response body
type CurrentUserResponse struct {
	User    AuthUserResponse     `json:"user"`
	Tenant  AuthTenantResponse   `json:"tenant"`
	Tenants []AuthTenantResponse `json:"tenants"`
}

// LogoutResponse represents the logout response body
type LogoutResponse struct {
	Message string `json:"message"`
}

func toLoginResponse(result *identity.LoginResult) LoginResponse {
	return LoginResponse{
		Token: TokenResponse{
			AccessToken:           result.AccessToken,
			RefreshToken:          result.RefreshToken,
			AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
			TokenType:             result.TokenType,
		},
		User:   toAuthUserResponse(result.User),
		Tenant: toAuthTenantResponse(result.Tenant),
	}
}

func toAuthUserResponse(user identity.UserInfo) AuthUserResponse {
	return AuthUserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
	}
}

func toAuthTenantResponse(tenant identity.TenantInfo) AuthTenantResponse {
	return AuthTenantResponse{
		ID:   tenant.ID,
		Name: tenant.Name,
		Slug: tenant.Slug,
	}
}

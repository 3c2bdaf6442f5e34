package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pulse/backend/internal/application/identity"
	"github.com/pulse/backend/internal/application/media"
)

// UpdateTenantRequest represents the workspace update request body
type UpdateTenantRequest struct {
	Name    *string `json:"name,omitempty"`
	LogoURL *string `json:"logo_url,omitempty"`
}

// AddMemberRequest represents the add member request body
type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

// InitiateLogoUploadRequest represents the logo upload initiation request body
type InitiateLogoUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// ConfirmLogoUploadRequest represents the logo upload confirmation request body
type ConfirmLogoUploadRequest struct {
	StorageKey string `json:"storage_key" binding:"required"`
}

// LogoURLResponse carries the resolved logo URL after a confirmed upload
type LogoURLResponse struct {
	LogoURL string `json:"logo_url"`
}

// TenantHandler handles workspace management HTTP requests
type TenantHandler struct {
	BaseHandler
	tenantService *identity.TenantService
	logoService   *media.LogoService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantService *identity.TenantService, logoService *media.LogoService) *TenantHandler {
	return &TenantHandler{
		tenantService: tenantService,
		logoService:   logoService,
	}
}

// Get returns the current workspace
func (h *TenantHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	tenant, err := h.tenantService.Get(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// Update updates the current workspace's name or logo
func (h *TenantHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	tenant, err := h.tenantService.Update(c.Request.Context(), identity.UpdateTenantInput{
		ID:      tenantID,
		Name:    req.Name,
		LogoURL: req.LogoURL,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// Archive soft deletes the current workspace
func (h *TenantHandler) Archive(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	tenant, err := h.tenantService.Archive(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// Restore reactivates an archived workspace
func (h *TenantHandler) Restore(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	tenant, err := h.tenantService.Restore(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// ListMembers returns all members of the current workspace
func (h *TenantHandler) ListMembers(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	members, err := h.tenantService.ListMembers(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, members)
}

// AddMember adds an existing user to the current workspace
func (h *TenantHandler) AddMember(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.tenantService.AddMember(c.Request.Context(), identity.AddMemberInput{
		TenantID: tenantID,
		Email:    req.Email,
		Role:     req.Role,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, member)
}

// RemoveMember removes a member from the current workspace
func (h *TenantHandler) RemoveMember(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.tenantService.RemoveMember(c.Request.Context(), tenantID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// InitiateLogoUpload issues a presigned URL for uploading the workspace logo
func (h *TenantHandler) InitiateLogoUpload(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req InitiateLogoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	upload, err := h.logoService.InitiateTenantLogoUpload(c.Request.Context(), tenantID, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, upload)
}

// ConfirmLogoUpload verifies the uploaded object and records the logo URL
func (h *TenantHandler) ConfirmLogoUpload(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req ConfirmLogoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	logoURL, err := h.logoService.ConfirmTenantLogoUpload(c.Request.Context(), tenantID, req.StorageKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, LogoURLResponse{LogoURL: logoURL})
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pulse/backend/internal/application/ads"
)

// UpsertTagRequest represents the tag create or update body
type UpsertTagRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color,omitempty"`
}

// TagHandler handles campaign tag HTTP requests
type TagHandler struct {
	BaseHandler
	tagService *ads.TagService
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tagService *ads.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// Create creates a new tag
func (h *TagHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req UpsertTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	tag, err := h.tagService.Create(c.Request.Context(), tenantID, req.Name, req.Color)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, tag)
}

// List returns all tags for the workspace
func (h *TagHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	tags, err := h.tagService.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tags)
}

// Update renames or recolors a tag
func (h *TagHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	tagID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tag ID")
		return
	}

	var req UpsertTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	tag, err := h.tagService.Update(c.Request.Context(), tenantID, tagID, req.Name, req.Color)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tag)
}

// Delete removes a tag and all its campaign assignments
func (h *TagHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	tagID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tag ID")
		return
	}

	if err := h.tagService.Delete(c.Request.Context(), tenantID, tagID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Assign attaches a tag to a campaign
func (h *TagHandler) Assign(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	tagID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tag ID")
		return
	}

	campaignID, err := uuid.Parse(c.Param("campaignId"))
	if err != nil {
		h.BadRequest(c, "Invalid campaign ID")
		return
	}

	if err := h.tagService.Assign(c.Request.Context(), tenantID, tagID, campaignID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "Tag assigned"})
}

// Unassign detaches a tag from a campaign
func (h *TagHandler) Unassign(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	tagID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tag ID")
		return
	}

	campaignID, err := uuid.Parse(c.Param("campaignId"))
	if err != nil {
		h.BadRequest(c, "Invalid campaign ID")
		return
	}

	if err := h.tagService.Unassign(c.Request.Context(), tenantID, tagID, campaignID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pulse/backend/internal/application/portfolio"
	"github.com/pulse/backend/internal/domain/shared"
)

// CreateGroupRequest represents the group creation request body
type CreateGroupRequest struct {
	Name        string      `json:"name" binding:"required"`
	Description string      `json:"description,omitempty"`
	ClientIDs   []uuid.UUID `json:"client_ids,omitempty"`
}

// RenameGroupRequest represents the group rename request body
type RenameGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

// GroupMemberRequest identifies the client added to or removed from a group
type GroupMemberRequest struct {
	ClientID uuid.UUID `json:"client_id" binding:"required"`
}

// GroupHandler handles client group HTTP requests
type GroupHandler struct {
	BaseHandler
	groupService *portfolio.GroupService
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(groupService *portfolio.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// Create creates a new manual client group
func (h *GroupHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	group, err := h.groupService.Create(c.Request.Context(), portfolio.CreateGroupInput{
		TenantID:    tenantID,
		Name:        req.Name,
		Description: req.Description,
		ClientIDs:   req.ClientIDs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, group)
}

// Get returns one group with its members
func (h *GroupHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID")
		return
	}

	group, err := h.groupService.Get(c.Request.Context(), tenantID, groupID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// List returns all groups, both manual and auto generated
func (h *GroupHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	filter := shared.DefaultFilter()
	filter.Page = parseIntQuery(c, "page", 1)
	filter.PageSize = parseIntQuery(c, "page_size", 50)
	filter.Search = c.Query("keyword")

	groups, err := h.groupService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, groups)
}

// Rename renames a manual group
func (h *GroupHandler) Rename(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID")
		return
	}

	var req RenameGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	group, err := h.groupService.Rename(c.Request.Context(), tenantID, groupID, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// Delete removes a manual group
func (h *GroupHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID")
		return
	}

	if err := h.groupService.Delete(c.Request.Context(), tenantID, groupID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AddClient adds a client to a manual group
func (h *GroupHandler) AddClient(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID")
		return
	}

	var req GroupMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	group, err := h.groupService.AddClient(c.Request.Context(), tenantID, groupID, req.ClientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// RemoveClient removes a client from a manual group
func (h *GroupHandler) RemoveClient(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID")
		return
	}

	clientID, err := uuid.Parse(c.Param("clientId"))
	if err != nil {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	group, err := h.groupService.RemoveClient(c.Request.Context(), tenantID, groupID, clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

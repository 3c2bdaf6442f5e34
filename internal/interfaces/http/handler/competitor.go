package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pulse/backend/internal/application/portfolio"
)

// UpsertCompetitorRequest represents the competitor create or update body
type UpsertCompetitorRequest struct {
	Name       string `json:"name" binding:"required"`
	Website    string `json:"website,omitempty"`
	Strength   string `json:"strength,omitempty"`
	Advantages string `json:"advantages,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// CompetitorHandler handles client competitor HTTP requests
type CompetitorHandler struct {
	BaseHandler
	competitorService *portfolio.CompetitorService
}

// NewCompetitorHandler creates a new competitor handler
func NewCompetitorHandler(competitorService *portfolio.CompetitorService) *CompetitorHandler {
	return &CompetitorHandler{competitorService: competitorService}
}

// Create records a competitor for a client
func (h *CompetitorHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	var req UpsertCompetitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	competitor, err := h.competitorService.Create(c.Request.Context(), portfolio.UpsertCompetitorInput{
		TenantID:   tenantID,
		ClientID:   clientID,
		Name:       req.Name,
		Website:    req.Website,
		Strength:   req.Strength,
		Advantages: req.Advantages,
		Notes:      req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, competitor)
}

// ListByClient returns all competitors recorded for a client
func (h *CompetitorHandler) ListByClient(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	competitors, err := h.competitorService.ListByClient(c.Request.Context(), tenantID, clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, competitors)
}

// Update updates a competitor entry
func (h *CompetitorHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	competitorID, err := uuid.Parse(c.Param("competitorId"))
	if err != nil {
		h.BadRequest(c, "Invalid competitor ID")
		return
	}

	var req UpsertCompetitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	competitor, err := h.competitorService.Update(c.Request.Context(), tenantID, competitorID, portfolio.UpsertCompetitorInput{
		TenantID:   tenantID,
		Name:       req.Name,
		Website:    req.Website,
		Strength:   req.Strength,
		Advantages: req.Advantages,
		Notes:      req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, competitor)
}

// Delete removes a competitor entry
func (h *CompetitorHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	competitorID, err := uuid.Parse(c.Param("competitorId"))
	if err != nil {
		h.BadRequest(c, "Invalid competitor ID")
		return
	}

	if err := h.competitorService.Delete(c.Request.Context(), tenantID, competitorID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

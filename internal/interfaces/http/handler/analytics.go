package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pulse/backend/internal/application/analytics"
)

// AnalyticsHandler handles performance analytics HTTP requests
type AnalyticsHandler struct {
	BaseHandler
	analyticsService *analytics.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *analytics.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// ClientPerformance returns one client's aggregate performance against goals
func (h *AnalyticsHandler) ClientPerformance(c *gin.Context) {
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

	rng := c.DefaultQuery("range", "30d")

	performance, err := h.analyticsService.ClientPerformance(c.Request.Context(), tenantID, clientID, rng)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, performance)
}

// PortfolioPerformance returns aggregate performance for every active client
func (h *AnalyticsHandler) PortfolioPerformance(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	rng := c.DefaultQuery("range", "30d")

	performance, err := h.analyticsService.PortfolioPerformance(c.Request.Context(), tenantID, rng)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, performance)
}

// Dashboard returns the workspace-wide overview
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	rng := c.DefaultQuery("range", "30d")

	dashboard, err := h.analyticsService.Dashboard(c.Request.Context(), tenantID, rng)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dashboard)
}

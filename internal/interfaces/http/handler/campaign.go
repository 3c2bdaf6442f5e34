package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pulse/backend/internal/application/ads"
	"github.com/pulse/backend/internal/domain/shared"
)

// CampaignDetailResponse is one campaign with metrics for every window
type CampaignDetailResponse struct {
	Campaign *ads.CampaignDTO `json:"campaign"`
	Metrics  []ads.MetricsDTO `json:"metrics"`
}

// CampaignHandler handles campaign read HTTP requests
type CampaignHandler struct {
	BaseHandler
	campaignService *ads.CampaignService
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignService *ads.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

// ListByAccount returns campaigns for one linked account with metrics for the
// requested range (7d, 30d or 90d)
func (h *CampaignHandler) ListByAccount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	accountID, err := uuid.Parse(c.Param("linkId"))
	if err != nil {
		h.BadRequest(c, "Invalid account link ID")
		return
	}

	rng := normalizeRange(c.DefaultQuery("range", "30d"))

	filter := shared.DefaultFilter()
	filter.Page = parseIntQuery(c, "page", 1)
	filter.PageSize = parseIntQuery(c, "page_size", 50)
	filter.Search = c.Query("keyword")
	filter.OrderBy = c.Query("sort_by")
	filter.OrderDir = c.Query("sort_dir")
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	campaigns, err := h.campaignService.ListByAccount(c.Request.Context(), tenantID, accountID, rng, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, campaigns)
}

// normalizeRange accepts the short query forms alongside the canonical names
func normalizeRange(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "7d":
		return "LAST_7_DAYS"
	case "30d":
		return "LAST_30_DAYS"
	case "90d":
		return "LAST_90_DAYS"
	}
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Get returns one campaign with metrics for all reporting windows
func (h *CampaignHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid campaign ID")
		return
	}

	campaign, metrics, err := h.campaignService.Get(c.Request.Context(), tenantID, campaignID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CampaignDetailResponse{
		Campaign: campaign,
		Metrics:  metrics,
	})
}

// ListAdGroups returns a campaign's synced ad groups
func (h *CampaignHandler) ListAdGroups(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid campaign ID")
		return
	}

	groups, err := h.campaignService.ListAdGroups(c.Request.Context(), tenantID, campaignID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, groups)
}

// DailySeries returns per-day metrics for charting
func (h *CampaignHandler) DailySeries(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid campaign ID")
		return
	}

	days := parseIntQuery(c, "days", 30)

	series, err := h.campaignService.DailySeries(c.Request.Context(), tenantID, campaignID, days)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, series)
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pulse/backend/internal/application/portfolio"
)

// GoalTargetsRequest represents goal targets in requests. Omitted fields are
// left unchanged; explicit nulls clear a target.
type GoalTargetsRequest struct {
	CTRTarget          *float64 `json:"ctr_target"`
	ConversionTarget   *float64 `json:"conversion_rate_target"`
	CPCTarget          *float64 `json:"cpc_target"`
	CPATarget          *float64 `json:"cpa_target"`
	UseTenantFallbacks *bool    `json:"use_tenant_fallbacks,omitempty"`
}

func (r GoalTargetsRequest) toInput() portfolio.GoalTargetsInput {
	return portfolio.GoalTargetsInput{
		CTRTarget:          floatToDecimalPtr(r.CTRTarget),
		ConversionTarget:   floatToDecimalPtr(r.ConversionTarget),
		CPCTarget:          floatToDecimalPtr(r.CPCTarget),
		CPATarget:          floatToDecimalPtr(r.CPATarget),
		UseTenantFallbacks: r.UseTenantFallbacks,
	}
}

func floatToDecimalPtr(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}

// GoalHandler handles performance goal HTTP requests
type GoalHandler struct {
	BaseHandler
	goalService *portfolio.GoalService
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(goalService *portfolio.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// SetClientGoals sets performance targets for one client
func (h *GoalHandler) SetClientGoals(c *gin.Context) {
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

	var req GoalTargetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	goals, err := h.goalService.SetClientGoals(c.Request.Context(), tenantID, clientID, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, goals)
}

// GetClientGoals returns a client's resolved goals including tenant fallbacks
func (h *GoalHandler) GetClientGoals(c *gin.Context) {
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

	goals, err := h.goalService.GetClientGoals(c.Request.Context(), tenantID, clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, goals)
}

// SetTenantDefaults sets workspace-wide default goal targets
func (h *GoalHandler) SetTenantDefaults(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req GoalTargetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	defaults, err := h.goalService.SetTenantDefaults(c.Request.Context(), tenantID, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, defaults)
}

// GetTenantDefaults returns workspace-wide default goal targets
func (h *GoalHandler) GetTenantDefaults(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	defaults, err := h.goalService.GetTenantDefaults(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, defaults)
}

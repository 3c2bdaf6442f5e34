package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appbudget "github.com/pulse/backend/internal/application/budget"
	"github.com/pulse/backend/internal/domain/shared"
)

// CreateBudgetRequest represents the budget creation request body
type CreateBudgetRequest struct {
	Name      string     `json:"name" binding:"required"`
	Scope     string     `json:"scope" binding:"required"`
	ClientID  *uuid.UUID `json:"client_id,omitempty"`
	GroupID   *uuid.UUID `json:"group_id,omitempty"`
	Period    string     `json:"period" binding:"required"`
	Amount    float64    `json:"amount" binding:"required,gt=0"`
	StartDate string     `json:"start_date" binding:"required"`
	EndDate   string     `json:"end_date" binding:"required"`
}

// UpdateBudgetRequest represents the budget update request body
type UpdateBudgetRequest struct {
	Name      string  `json:"name" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	StartDate string  `json:"start_date" binding:"required"`
	EndDate   string  `json:"end_date" binding:"required"`
}

// CreateAllocationRequest represents the allocation creation request body
type CreateAllocationRequest struct {
	Target          string     `json:"target" binding:"required"`
	Platform        string     `json:"platform,omitempty"`
	ClientAccountID *uuid.UUID `json:"client_account_id,omitempty"`
	CampaignID      *uuid.UUID `json:"campaign_id,omitempty"`
	Amount          float64    `json:"amount" binding:"required,gt=0"`
	Percent         *float64   `json:"percent,omitempty"`
}

// SetBudgetActiveRequest represents the budget activation request body
type SetBudgetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// BudgetHandler handles budget and pacing HTTP requests
type BudgetHandler struct {
	BaseHandler
	budgetService *appbudget.BudgetService
	pacingService *appbudget.PacingService
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(budgetService *appbudget.BudgetService, pacingService *appbudget.PacingService) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
		pacingService: pacingService,
	}
}

// Create creates a new budget
func (h *BudgetHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		h.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
		return
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		h.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
		return
	}

	budget, err := h.budgetService.Create(c.Request.Context(), appbudget.CreateBudgetInput{
		TenantID:  tenantID,
		Name:      req.Name,
		Scope:     req.Scope,
		ClientID:  req.ClientID,
		GroupID:   req.GroupID,
		Period:    req.Period,
		Amount:    decimal.NewFromFloat(req.Amount),
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, budget)
}

// Get returns one budget
func (h *BudgetHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid budget ID")
		return
	}

	budget, err := h.budgetService.Get(c.Request.Context(), tenantID, budgetID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, budget)
}

// List returns all budgets for the workspace
func (h *BudgetHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	filter := shared.DefaultFilter()
	filter.Page = parseIntQuery(c, "page", 1)
	filter.PageSize = parseIntQuery(c, "page_size", 50)
	if scope := c.Query("scope"); scope != "" {
		filter.Filters["scope"] = scope
	}
	if c.Query("active_only") == "true" {
		filter.Filters["active_only"] = true
	}

	budgets, err := h.budgetService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, budgets)
}

// Update updates a budget's name, amount or period dates
func (h *BudgetHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid budget ID")
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		h.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
		return
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		h.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
		return
	}

	budget, err := h.budgetService.Update(c.Request.Context(), appbudget.UpdateBudgetInput{
		TenantID:  tenantID,
		ID:        budgetID,
		Name:      req.Name,
		Amount:    decimal.NewFromFloat(req.Amount),
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, budget)
}

// Delete removes a budget along with its allocations and snapshots
func (h *BudgetHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid budget ID")
		return
	}

	if err := h.budgetService.Delete(c.Request.Context(), tenantID, budgetID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// SetActive activates or deactivates a budget
func (h *BudgetHandler) SetActive(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid budget ID")
		return
	}

	var req SetBudgetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	budget, err := h.budgetService.SetActive(c.Request.Context(), tenantID, budgetID, *req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, budget)
}

// AddAllocation adds an allocation to a budget
func (h *BudgetHandler) AddAllocation(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid budget ID")
		return
	}

	var req CreateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	input := appbudget.CreateAllocationInput{
		TenantID:        tenantID,
		BudgetID:        budgetID,
		Target:          req.Target,
		Platform:        req.Platform,
		ClientAccountID: req.ClientAccountID,
		CampaignID:      req.CampaignID,
		Amount:          decimal.NewFromFloat(req.Amount),
	}
	if req.Percent != nil {
		percent := decimal.NewFromFloat(*req.Percent)
		input.Percent = &percent
	}

	allocation, err := h.budgetService.AddAllocation(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, allocation)
}

// ListAllocations returns a budget's allocations
func (h *BudgetHandler) ListAllocations(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid budget ID")
		return
	}

	allocations, err := h.budgetService.ListAllocations(c.Request.Context(), tenantID, budgetID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, allocations)
}

// RemoveAllocation deletes one allocation from a budget
func (h *BudgetHandler) RemoveAllocation(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid budget ID")
		return
	}

	allocationID, err := uuid.Parse(c.Param("allocationId"))
	if err != nil {
		h.BadRequest(c, "Invalid allocation ID")
		return
	}

	if err := h.budgetService.RemoveAllocation(c.Request.Context(), tenantID, budgetID, allocationID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GetPacing returns the live pacing picture of one budget
func (h *BudgetHandler) GetPacing(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid budget ID")
		return
	}

	pacing, err := h.pacingService.GetPacing(c.Request.Context(), tenantID, budgetID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, pacing)
}

// GetPacingHistory returns recorded daily pacing snapshots for one budget
func (h *BudgetHandler) GetPacingHistory(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid budget ID")
		return
	}

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now

	if raw := c.Query("from"); raw != "" {
		from, err = time.Parse("2006-01-02", raw)
		if err != nil {
			h.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
			return
		}
	}
	if raw := c.Query("to"); raw != "" {
		to, err = time.Parse("2006-01-02", raw)
		if err != nil {
			h.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
			return
		}
	}

	history, err := h.pacingService.History(c.Request.Context(), tenantID, budgetID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, history)
}

// ListAlerts returns budget pacing alerts for the workspace
func (h *BudgetHandler) ListAlerts(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	alerts, err := h.pacingService.ListAlerts(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, alerts)
}

// AcknowledgeAlert marks a pacing alert as seen
func (h *BudgetHandler) AcknowledgeAlert(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	alertID, err := uuid.Parse(c.Param("alertId"))
	if err != nil {
		h.BadRequest(c, "Invalid alert ID")
		return
	}

	alert, err := h.pacingService.AcknowledgeAlert(c.Request.Context(), tenantID, alertID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, alert)
}

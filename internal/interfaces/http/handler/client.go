package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pulse/backend/internal/application/media"
	"github.com/pulse/backend/internal/application/portfolio"
)

// CreateClientRequest represents the client creation request body
type CreateClientRequest struct {
	Name              string   `json:"name" binding:"required"`
	Description       string   `json:"description,omitempty"`
	Website           string   `json:"website,omitempty"`
	Industry          string   `json:"industry,omitempty"`
	CompanySize       string   `json:"company_size,omitempty"`
	RevenueRange      string   `json:"revenue_range,omitempty"`
	GeographicFocus   string   `json:"geographic_focus,omitempty"`
	MarketingMaturity string   `json:"marketing_maturity,omitempty"`
	BusinessModels    []string `json:"business_models,omitempty"`
}

// UpdateClientRequest represents the client update request body; absent fields
// are left unchanged
type UpdateClientRequest struct {
	Name              *string  `json:"name,omitempty"`
	Description       *string  `json:"description,omitempty"`
	Website           *string  `json:"website,omitempty"`
	LogoURL           *string  `json:"logo_url,omitempty"`
	Industry          *string  `json:"industry,omitempty"`
	CompanySize       *string  `json:"company_size,omitempty"`
	RevenueRange      *string  `json:"revenue_range,omitempty"`
	GeographicFocus   *string  `json:"geographic_focus,omitempty"`
	MarketingMaturity *string  `json:"marketing_maturity,omitempty"`
	BusinessModels    []string `json:"business_models,omitempty"`
}

// ClientHandler handles advertising client HTTP requests
type ClientHandler struct {
	BaseHandler
	clientService *portfolio.ClientService
	logoService   *media.LogoService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *portfolio.ClientService, logoService *media.LogoService) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		logoService:   logoService,
	}
}

// Create creates a new advertising client
func (h *ClientHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), portfolio.CreateClientInput{
		TenantID:          tenantID,
		Name:              req.Name,
		Description:       req.Description,
		Website:           req.Website,
		Industry:          req.Industry,
		CompanySize:       req.CompanySize,
		RevenueRange:      req.RevenueRange,
		GeographicFocus:   req.GeographicFocus,
		MarketingMaturity: req.MarketingMaturity,
		BusinessModels:    req.BusinessModels,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, client)
}

// Get returns one client by ID
func (h *ClientHandler) Get(c *gin.Context) {
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

	client, err := h.clientService.Get(c.Request.Context(), tenantID, clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, client)
}

// List returns clients with pagination and filtering
func (h *ClientHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	filter := portfolio.ClientFilter{
		Page:            parseIntQuery(c, "page", 1),
		PageSize:        parseIntQuery(c, "page_size", 20),
		SortBy:          c.Query("sort_by"),
		SortDir:         c.Query("sort_dir"),
		Keyword:         c.Query("keyword"),
		Industry:        c.Query("industry"),
		IncludeArchived: c.Query("include_archived") == "true",
	}

	result, err := h.clientService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Clients, result.Total, result.Page, result.PageSize)
}

// Update updates a client's profile fields
func (h *ClientHandler) Update(c *gin.Context) {
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

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), portfolio.UpdateClientInput{
		TenantID:          tenantID,
		ClientID:          clientID,
		Name:              req.Name,
		Description:       req.Description,
		Website:           req.Website,
		LogoURL:           req.LogoURL,
		Industry:          req.Industry,
		CompanySize:       req.CompanySize,
		RevenueRange:      req.RevenueRange,
		GeographicFocus:   req.GeographicFocus,
		MarketingMaturity: req.MarketingMaturity,
		BusinessModels:    req.BusinessModels,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, client)
}

// Archive soft deletes a client; its account links are deactivated
func (h *ClientHandler) Archive(c *gin.Context) {
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

	client, err := h.clientService.Archive(c.Request.Context(), tenantID, clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, client)
}

// Unarchive restores an archived client
func (h *ClientHandler) Unarchive(c *gin.Context) {
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

	client, err := h.clientService.Unarchive(c.Request.Context(), tenantID, clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, client)
}

// InitiateLogoUpload issues a presigned URL for uploading a client logo
func (h *ClientHandler) InitiateLogoUpload(c *gin.Context) {
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

	var req InitiateLogoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	upload, err := h.logoService.InitiateClientLogoUpload(c.Request.Context(), tenantID, clientID, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, upload)
}

// ConfirmLogoUpload verifies the uploaded object and records the client logo URL
func (h *ClientHandler) ConfirmLogoUpload(c *gin.Context) {
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

	var req ConfirmLogoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	logoURL, err := h.logoService.ConfirmClientLogoUpload(c.Request.Context(), tenantID, clientID, req.StorageKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, LogoURLResponse{LogoURL: logoURL})
}

// parseIntQuery reads an integer query parameter with a fallback default
func parseIntQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

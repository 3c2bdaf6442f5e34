package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pulse/backend/internal/application/connection"
)

// AuthorizeConnectionRequest represents the OAuth authorize request body
type AuthorizeConnectionRequest struct {
	Platform string `json:"platform" binding:"required"`
}

// LinkAccountRequest represents the client-to-account link request body
type LinkAccountRequest struct {
	ClientID     uuid.UUID `json:"client_id" binding:"required"`
	ConnectionID uuid.UUID `json:"connection_id" binding:"required"`
	CustomerID   string    `json:"customer_id" binding:"required"`
	AccountName  string    `json:"account_name,omitempty"`
}

// ConnectionHandler handles platform connection and OAuth HTTP requests
type ConnectionHandler struct {
	BaseHandler
	oauthService   *connection.OAuthService
	accountService *connection.AccountService
}

// NewConnectionHandler creates a new connection handler
func NewConnectionHandler(
	oauthService *connection.OAuthService,
	accountService *connection.AccountService,
) *ConnectionHandler {
	return &ConnectionHandler{
		oauthService:   oauthService,
		accountService: accountService,
	}
}

// ListPlatforms returns the supported advertising platforms
func (h *ConnectionHandler) ListPlatforms(c *gin.Context) {
	platforms, err := h.oauthService.ListPlatforms(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, platforms)
}

// Authorize starts the OAuth consent flow for a platform
func (h *ConnectionHandler) Authorize(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req AuthorizeConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.oauthService.Authorize(c.Request.Context(), tenantID, userID, req.Platform)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Callback completes the OAuth flow. The platform redirects the browser here;
// tenant identity comes from the stored state, not from a JWT.
func (h *ConnectionHandler) Callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")

	if errParam := c.Query("error"); errParam != "" {
		h.BadRequest(c, "Authorization was denied: "+errParam)
		return
	}
	if state == "" || code == "" {
		h.BadRequest(c, "Missing state or code parameter")
		return
	}

	conn, err := h.oauthService.HandleCallback(c.Request.Context(), connection.CallbackInput{
		State: state,
		Code:  code,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, conn)
}

// List returns all platform connections for the workspace
func (h *ConnectionHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	connections, err := h.oauthService.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, connections)
}

// Get returns one platform connection
func (h *ConnectionHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	connectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid connection ID")
		return
	}

	conn, err := h.oauthService.Get(c.Request.Context(), tenantID, connectionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, conn)
}

// Disconnect revokes a platform connection
func (h *ConnectionHandler) Disconnect(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	connectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid connection ID")
		return
	}

	conn, err := h.oauthService.Disconnect(c.Request.Context(), tenantID, connectionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, conn)
}

// DiscoverAccounts refreshes the list of ad accounts reachable through a connection
func (h *ConnectionHandler) DiscoverAccounts(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	connectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid connection ID")
		return
	}

	sync, err := h.accountService.DiscoverAccounts(c.Request.Context(), tenantID, connectionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sync)
}

// ListAccounts returns the ad accounts discovered through a connection
func (h *ConnectionHandler) ListAccounts(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	connectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid connection ID")
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), tenantID, connectionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, accounts)
}

// GetLatestSync returns the most recent account discovery run for a connection
func (h *ConnectionHandler) GetLatestSync(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	connectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid connection ID")
		return
	}

	sync, err := h.accountService.GetLatestSync(c.Request.Context(), tenantID, connectionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sync)
}

// LinkAccount links a client to one of the discovered ad accounts
func (h *ConnectionHandler) LinkAccount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req LinkAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	link, err := h.accountService.LinkClientAccount(c.Request.Context(), connection.LinkAccountInput{
		TenantID:     tenantID,
		ClientID:     req.ClientID,
		ConnectionID: req.ConnectionID,
		CustomerID:   req.CustomerID,
		AccountName:  req.AccountName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, link)
}

// UnlinkAccount deactivates a client-to-account link
func (h *ConnectionHandler) UnlinkAccount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	linkID, err := uuid.Parse(c.Param("linkId"))
	if err != nil {
		h.BadRequest(c, "Invalid link ID")
		return
	}

	link, err := h.accountService.UnlinkClientAccount(c.Request.Context(), tenantID, linkID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, link)
}

// ListClientAccounts returns the ad accounts linked to one client
func (h *ConnectionHandler) ListClientAccounts(c *gin.Context) {
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

	includeInactive := c.Query("include_inactive") == "true"

	links, err := h.accountService.ListClientAccounts(c.Request.Context(), tenantID, clientID, includeInactive)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, links)
}

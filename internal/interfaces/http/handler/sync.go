package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pulse/backend/internal/application/ads"
)

// SyncQueue submits background metrics sync jobs. The scheduler implements it.
type SyncQueue interface {
	ScheduleMetricsSync(tenantID uuid.UUID, force bool) error
}

// TriggerSyncRequest represents the manual sync request body
type TriggerSyncRequest struct {
	Force bool `json:"force,omitempty"`
}

// SyncHandler handles metrics sync HTTP requests
type SyncHandler struct {
	BaseHandler
	syncService *ads.SyncService
	queue       SyncQueue
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(syncService *ads.SyncService, queue SyncQueue) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
		queue:       queue,
	}
}

// TriggerTenantSync queues a background metrics sync for the whole workspace
func (h *SyncHandler) TriggerTenantSync(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req TriggerSyncRequest
	_ = c.ShouldBindJSON(&req)

	if h.queue == nil {
		h.Error(c, http.StatusServiceUnavailable, "SYNC_UNAVAILABLE", "Background sync is not enabled")
		return
	}

	if err := h.queue.ScheduleMetricsSync(tenantID, req.Force); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "Sync queued"})
}

// SyncAccount runs a synchronous metrics sync for one linked account
func (h *SyncHandler) SyncAccount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	linkID, err := uuid.Parse(c.Param("linkId"))
	if err != nil {
		h.BadRequest(c, "Invalid account link ID")
		return
	}

	var req TriggerSyncRequest
	_ = c.ShouldBindJSON(&req)

	result, err := h.syncService.SyncClientAccount(c.Request.Context(), tenantID, linkID, req.Force)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetFreshness reports when each linked account's metrics were last pulled
func (h *SyncHandler) GetFreshness(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	freshness, err := h.syncService.GetFreshness(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, freshness)
}

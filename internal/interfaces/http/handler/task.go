package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apptask "github.com/pulse/backend/internal/application/task"
	"github.com/pulse/backend/internal/domain/shared"
)

// TaskHandler handles background task HTTP requests
type TaskHandler struct {
	BaseHandler
	taskService *apptask.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *apptask.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Get returns one background task record
func (h *TaskHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), tenantID, taskID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, task)
}

// List returns background task records with pagination
func (h *TaskHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	filter := shared.DefaultFilter()
	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", 20)
	filter.Page = page
	filter.PageSize = pageSize
	if taskType := c.Query("type"); taskType != "" {
		filter.Filters["type"] = taskType
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	tasks, total, err := h.taskService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, tasks, total, page, pageSize)
}

// Cancel cancels a pending background task
func (h *TaskHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.taskService.Cancel(c.Request.Context(), tenantID, taskID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, task)
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pulse/backend/internal/application/portfolio"
)

// ClientImportHandler handles bulk client CSV import requests
type ClientImportHandler struct {
	BaseHandler
	importService *portfolio.ClientImportService
}

// NewClientImportHandler creates a new client import handler
func NewClientImportHandler(importService *portfolio.ClientImportService) *ClientImportHandler {
	return &ClientImportHandler{importService: importService}
}

// Import imports clients from an uploaded CSV file. With ?dry_run=true the
// file is validated and a summary returned without creating anything.
func (h *ClientImportHandler) Import(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A CSV file is required in the 'file' field")
		return
	}

	if fileHeader.Size > portfolio.MaxImportFileSize {
		h.BadRequest(c, "Import file exceeds the 5MB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Could not read uploaded file")
		return
	}
	defer file.Close()

	dryRun := c.Query("dry_run") == "true"

	result, err := h.importService.ImportCSV(c.Request.Context(), tenantID, userID, fileHeader.Filename, file, fileHeader.Size, dryRun)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

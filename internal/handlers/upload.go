package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/hoangnm/project-board-api/internal/errors"
	"github.com/hoangnm/project-board-api/internal/services"
)

// UploadHandler proxies image uploads to the external asset host.
type UploadHandler struct {
	uploadService *services.UploadService
}

// NewUploadHandler creates a new UploadHandler. uploadService may be nil
// when no upload endpoint is configured.
func NewUploadHandler(uploadService *services.UploadService) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
	}
}

// Upload accepts a multipart file and returns the hosted URL. Any failure
// of the external host surfaces as one generic upload error.
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.uploadService == nil {
		apierrors.ServiceUnavailable(c, "Image uploads are not configured")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apierrors.BadRequest(c, "failed to read file")
		return
	}
	defer file.Close()

	url, err := h.uploadService.Upload(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		apierrors.InternalError(c, "Image upload failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url": url,
	})
}

package handlers

import (
	"net/http"

	"github.com/SiteWright/sitewright-go/internal/infrastructure/media"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/logging"
	"github.com/SiteWright/sitewright-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// EmbedImageRequest represents the request body for image embedding
type EmbedImageRequest struct {
	Data string `json:"data" binding:"required"`
}

// MediaHandlers contains image embedding HTTP handlers
type MediaHandlers struct {
	embedder *media.ImageEmbedder
	logger   *logging.ChanneledLogger
}

// NewMediaHandlers creates media handlers with injected dependencies
func NewMediaHandlers(embedder *media.ImageEmbedder, logger *logging.ChanneledLogger) *MediaHandlers {
	return &MediaHandlers{
		embedder: embedder,
		logger:   logger,
	}
}

// PostEmbed converts an uploaded base64 image into an inline data URI
// suitable for use as an image customization value. Raster formats are
// resized and re-encoded as WebP; SVG passes through unchanged.
func (h *MediaHandlers) PostEmbed(c *gin.Context) {
	var req EmbedImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if len(req.Data) > config.MaxUploadMB*1024*1024 {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds upload size limit"})
		return
	}

	dataURI, err := h.embedder.EmbedBase64Image(req.Data, config.MaxEmbedWidth)
	if err != nil {
		h.logger.Content().Warn("Image embed failed", "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"dataUri": dataURI})
}

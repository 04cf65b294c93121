package handlers

import (
	"net/http"

	"github.com/SiteWright/sitewright-go/internal/application/services"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/logging"
	"github.com/SiteWright/sitewright-go/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// PublishHandlers contains snapshot publishing and serving HTTP handlers
type PublishHandlers struct {
	publishService *services.PublishService
	logger         *logging.ChanneledLogger
}

// NewPublishHandlers creates publish handlers with injected dependencies
func NewPublishHandlers(publishService *services.PublishService, logger *logging.ChanneledLogger) *PublishHandlers {
	return &PublishHandlers{
		publishService: publishService,
		logger:         logger,
	}
}

// PostPublish compiles and publishes a standalone snapshot of a website
func (h *PublishHandlers) PostPublish(c *gin.Context) {
	profile, _ := middleware.GetProfile(c)

	result, err := h.publishService.Publish(c.Param("id"), profile.AccountID)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPublishHistory returns the publish history for a website
func (h *PublishHandlers) GetPublishHistory(c *gin.Context) {
	profile, _ := middleware.GetProfile(c)

	history, err := h.publishService.History(c.Param("id"), profile.AccountID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	// Snapshot bodies are large; history responses carry metadata only.
	type entry struct {
		PublishID    string `json:"publishId"`
		TemplateHash string `json:"templateHash"`
		Created      string `json:"created"`
		Bytes        int    `json:"bytes"`
	}
	entries := make([]entry, 0, len(history))
	for _, p := range history {
		entries = append(entries, entry{
			PublishID:    p.ID,
			TemplateHash: p.TemplateHash,
			Created:      p.Created.Format("2006-01-02T15:04:05Z07:00"),
			Bytes:        len(p.SnapshotHTML),
		})
	}

	c.JSON(http.StatusOK, gin.H{"publishes": entries, "count": len(entries)})
}

// GetPublishedSite serves the latest published snapshot as a standalone HTML
// page. No auth; this is the public face of a website.
func (h *PublishHandlers) GetPublishedSite(c *gin.Context) {
	websiteID := c.Param("id")

	html, etag, err := h.publishService.GetSnapshot(websiteID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if html == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "site not published"})
		return
	}

	if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
		c.Status(http.StatusNotModified)
		return
	}

	c.Header("ETag", etag)
	c.Header("Cache-Control", "public, max-age=60")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

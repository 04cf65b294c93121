package handlers

import (
	"net/http"

	"github.com/SiteWright/sitewright-go/internal/application/services"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/logging"
	"github.com/SiteWright/sitewright-go/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// WebsiteCreateRequest represents the request body for opening a template
type WebsiteCreateRequest struct {
	TemplateID  string `json:"templateId" binding:"required"`
	WebsiteName string `json:"websiteName"`
}

// WebsiteRenameRequest represents the request body for renaming a website
type WebsiteRenameRequest struct {
	WebsiteName string `json:"websiteName" binding:"required"`
}

// WebsiteHandlers contains all website lifecycle HTTP handlers
type WebsiteHandlers struct {
	websiteService *services.WebsiteService
	editorService  *services.EditorService
	logger         *logging.ChanneledLogger
}

// NewWebsiteHandlers creates website handlers with injected dependencies
func NewWebsiteHandlers(websiteService *services.WebsiteService, editorService *services.EditorService, logger *logging.ChanneledLogger) *WebsiteHandlers {
	return &WebsiteHandlers{
		websiteService: websiteService,
		editorService:  editorService,
		logger:         logger,
	}
}

// GetWebsites lists the authenticated user's websites
func (h *WebsiteHandlers) GetWebsites(c *gin.Context) {
	profile, _ := middleware.GetProfile(c)

	websites, err := h.websiteService.ListForUser(profile.AccountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"websites": websites, "count": len(websites)})
}

// PostWebsite opens a template for editing, recovering the user's existing
// website for that template or lazily creating a fresh draft.
func (h *WebsiteHandlers) PostWebsite(c *gin.Context) {
	profile, _ := middleware.GetProfile(c)

	var req WebsiteCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	website, created, err := h.websiteService.GetOrCreate(profile.AccountID, req.TemplateID, req.WebsiteName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, website)
}

// GetWebsiteByID returns one of the user's websites
func (h *WebsiteHandlers) GetWebsiteByID(c *gin.Context) {
	profile, _ := middleware.GetProfile(c)

	website, err := h.websiteService.GetForUser(c.Param("id"), profile.AccountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if website == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "website not found"})
		return
	}

	c.JSON(http.StatusOK, website)
}

// PutWebsite renames a website
func (h *WebsiteHandlers) PutWebsite(c *gin.Context) {
	profile, _ := middleware.GetProfile(c)

	var req WebsiteRenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	website, err := h.websiteService.GetForUser(c.Param("id"), profile.AccountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if website == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "website not found"})
		return
	}

	if err := h.websiteService.Rename(website, req.WebsiteName); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, website)
}

// DeleteWebsite removes a website and evicts its in-memory editor
func (h *WebsiteHandlers) DeleteWebsite(c *gin.Context) {
	profile, _ := middleware.GetProfile(c)
	websiteID := c.Param("id")

	website, err := h.websiteService.GetForUser(websiteID, profile.AccountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if website == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "website not found"})
		return
	}

	if err := h.websiteService.Delete(websiteID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.editorService.DropEditor(websiteID)

	c.JSON(http.StatusOK, gin.H{"deleted": websiteID})
}

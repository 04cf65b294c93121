package handlers

import (
	"net/http"
	"time"

	"github.com/SiteWright/sitewright-go/internal/application/services"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// TemplateUploadRequest represents the request body for template upload
type TemplateUploadRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category"`
	Description string `json:"description"`
	HTML        string `json:"html" binding:"required"`
	PreviewData string `json:"previewData"`
}

// TemplateHandlers contains all template catalog HTTP handlers
type TemplateHandlers struct {
	templateService *services.TemplateService
	logger          *logging.ChanneledLogger
}

// NewTemplateHandlers creates template handlers with injected dependencies
func NewTemplateHandlers(templateService *services.TemplateService, logger *logging.ChanneledLogger) *TemplateHandlers {
	return &TemplateHandlers{
		templateService: templateService,
		logger:          logger,
	}
}

// GetTemplates returns the template catalog, optionally filtered by category
func (h *TemplateHandlers) GetTemplates(c *gin.Context) {
	var err error
	if category := c.Query("category"); category != "" {
		templates, catErr := h.templateService.GetByCategory(category)
		if catErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": catErr.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"templates": templates, "count": len(templates)})
		return
	}

	templates, err := h.templateService.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"templates": templates, "count": len(templates)})
}

// GetTemplateByID returns a specific template
func (h *TemplateHandlers) GetTemplateByID(c *gin.Context) {
	templateID := c.Param("id")
	if templateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "template ID is required"})
		return
	}

	template, err := h.templateService.GetByID(templateID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if template == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
		return
	}

	c.JSON(http.StatusOK, template)
}

// CreateTemplate uploads a new template into the catalog
func (h *TemplateHandlers) CreateTemplate(c *gin.Context) {
	start := time.Now()

	var req TemplateUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	template, err := h.templateService.Create(services.TemplateUpload{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		HTML:        req.HTML,
		PreviewData: req.PreviewData,
	})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	h.logger.Content().Info("Template upload completed", "templateId", template.ID, "duration", time.Since(start))
	c.JSON(http.StatusCreated, template)
}

// DeleteTemplate removes a template from the catalog
func (h *TemplateHandlers) DeleteTemplate(c *gin.Context) {
	templateID := c.Param("id")
	if templateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "template ID is required"})
		return
	}

	if err := h.templateService.Delete(templateID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": templateID})
}

package handlers

import (
	"net/http"

	"github.com/SiteWright/sitewright-go/internal/application/services"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/logging"
	"github.com/SiteWright/sitewright-go/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// ServiceRequest represents the request body for creating or updating a
// priced service
type ServiceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       string `json:"price" binding:"required"`
	PaymentURL  string `json:"paymentUrl"`
}

// ServiceHandlers contains all priced-service catalog HTTP handlers
type ServiceHandlers struct {
	catalogService *services.ServiceCatalogService
	logger         *logging.ChanneledLogger
}

// NewServiceHandlers creates service catalog handlers with injected dependencies
func NewServiceHandlers(catalogService *services.ServiceCatalogService, logger *logging.ChanneledLogger) *ServiceHandlers {
	return &ServiceHandlers{
		catalogService: catalogService,
		logger:         logger,
	}
}

// GetServices lists the authenticated user's priced services
func (h *ServiceHandlers) GetServices(c *gin.Context) {
	profile, _ := middleware.GetProfile(c)

	serviceList, err := h.catalogService.ListForUser(profile.AccountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"services": serviceList, "count": len(serviceList)})
}

// PostService creates a priced service
func (h *ServiceHandlers) PostService(c *gin.Context) {
	profile, _ := middleware.GetProfile(c)

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	service, err := h.catalogService.Create(profile.AccountID, services.ServiceInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		PaymentURL:  req.PaymentURL,
	})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, service)
}

// PutService updates a priced service
func (h *ServiceHandlers) PutService(c *gin.Context) {
	profile, _ := middleware.GetProfile(c)

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	service, err := h.catalogService.GetForUser(c.Param("id"), profile.AccountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if service == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
		return
	}

	if err := h.catalogService.Update(service, services.ServiceInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		PaymentURL:  req.PaymentURL,
	}); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, service)
}

// DeleteService removes a priced service
func (h *ServiceHandlers) DeleteService(c *gin.Context) {
	profile, _ := middleware.GetProfile(c)

	service, err := h.catalogService.GetForUser(c.Param("id"), profile.AccountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if service == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
		return
	}

	if err := h.catalogService.Delete(service.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": service.ID})
}

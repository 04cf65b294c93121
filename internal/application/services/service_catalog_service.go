package services

import (
	"fmt"
	"time"

	"github.com/SiteWright/sitewright-go/internal/domain/entities/content"
	"github.com/SiteWright/sitewright-go/internal/domain/repositories"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/logging"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/security"
)

// ServiceCatalogService manages the priced-service catalog that feeds the
// service block synchronizer.
type ServiceCatalogService struct {
	serviceRepo repositories.ServiceRepository
	logger      *logging.ChanneledLogger
}

// NewServiceCatalogService creates a new service catalog application service
func NewServiceCatalogService(serviceRepo repositories.ServiceRepository, logger *logging.ChanneledLogger) *ServiceCatalogService {
	return &ServiceCatalogService{
		serviceRepo: serviceRepo,
		logger:      logger,
	}
}

// ListForUser returns a user's services in catalog order.
func (s *ServiceCatalogService) ListForUser(userID string) ([]*content.PricedServiceNode, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID cannot be empty")
	}

	services, err := s.serviceRepo.FindByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list services for user %s: %w", userID, err)
	}
	return services, nil
}

// GetForUser returns a service only when the given user owns it.
func (s *ServiceCatalogService) GetForUser(id, userID string) (*content.PricedServiceNode, error) {
	if id == "" {
		return nil, fmt.Errorf("service ID cannot be empty")
	}

	service, err := s.serviceRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get service %s: %w", id, err)
	}
	if service == nil || service.UserID != userID {
		return nil, nil
	}
	return service, nil
}

// ServiceInput carries the editable fields of a catalog entry.
type ServiceInput struct {
	Name        string
	Description string
	Price       string
	PaymentURL  string
}

// Create adds a new catalog entry for a user.
func (s *ServiceCatalogService) Create(userID string, input ServiceInput) (*content.PricedServiceNode, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("service name cannot be empty")
	}
	if input.Price == "" {
		return nil, fmt.Errorf("service price cannot be empty")
	}

	now := time.Now().UTC()
	service := &content.PricedServiceNode{
		ID:          security.GenerateULID(),
		NodeType:    "PricedService",
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		PaymentURL:  input.PaymentURL,
		Created:     now,
		Changed:     &now,
	}

	if err := s.serviceRepo.Store(service); err != nil {
		return nil, fmt.Errorf("failed to store service: %w", err)
	}

	s.logger.Content().Info("Service created", "serviceId", service.ID, "userId", userID)
	return service, nil
}

// Update modifies an existing catalog entry.
func (s *ServiceCatalogService) Update(service *content.PricedServiceNode, input ServiceInput) error {
	if input.Name == "" {
		return fmt.Errorf("service name cannot be empty")
	}
	if input.Price == "" {
		return fmt.Errorf("service price cannot be empty")
	}

	now := time.Now().UTC()
	service.Name = input.Name
	service.Description = input.Description
	service.Price = input.Price
	service.PaymentURL = input.PaymentURL
	service.Changed = &now

	if err := s.serviceRepo.Update(service); err != nil {
		return fmt.Errorf("failed to update service %s: %w", service.ID, err)
	}
	return nil
}

// Delete removes a catalog entry.
func (s *ServiceCatalogService) Delete(id string) error {
	if err := s.serviceRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete service %s: %w", id, err)
	}
	s.logger.Content().Info("Service deleted", "serviceId", id)
	return nil
}

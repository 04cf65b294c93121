package services

import (
	"fmt"
	"time"

	"github.com/SiteWright/sitewright-go/internal/domain/editing"
	"github.com/SiteWright/sitewright-go/internal/domain/entities/content"
	"github.com/SiteWright/sitewright-go/internal/domain/repositories"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/media"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/logging"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/security"
)

// TemplateService orchestrates the template catalog: uploads, listings and
// removal. Template HTML is opaque here; classification happens on demand in
// the editor.
type TemplateService struct {
	templateRepo repositories.TemplateRepository
	embedder     *media.ImageEmbedder
	logger       *logging.ChanneledLogger
}

// NewTemplateService creates a new template application service
func NewTemplateService(templateRepo repositories.TemplateRepository, embedder *media.ImageEmbedder, logger *logging.ChanneledLogger) *TemplateService {
	return &TemplateService{
		templateRepo: templateRepo,
		embedder:     embedder,
		logger:       logger,
	}
}

// GetAll returns all templates (cache-first)
func (s *TemplateService) GetAll() ([]*content.TemplateNode, error) {
	templates, err := s.templateRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get all templates: %w", err)
	}
	return templates, nil
}

// GetByID returns a template by ID (cache-first)
func (s *TemplateService) GetByID(id string) (*content.TemplateNode, error) {
	if id == "" {
		return nil, fmt.Errorf("template ID cannot be empty")
	}

	template, err := s.templateRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get template %s: %w", id, err)
	}
	return template, nil
}

// GetByCategory returns templates filtered by category
func (s *TemplateService) GetByCategory(category string) ([]*content.TemplateNode, error) {
	templates, err := s.templateRepo.FindByCategory(category)
	if err != nil {
		return nil, fmt.Errorf("failed to get templates for category %s: %w", category, err)
	}
	return templates, nil
}

// TemplateUpload carries a new template's fields.
type TemplateUpload struct {
	ID          string
	Name        string
	Category    string
	Description string
	HTML        string
	PreviewData string // optional base64 data URI
}

// Create validates and stores an uploaded template. The HTML must parse and
// classify, otherwise the upload is rejected before anything persists.
func (s *TemplateService) Create(upload TemplateUpload) (*content.TemplateNode, error) {
	if upload.Name == "" {
		return nil, fmt.Errorf("template name cannot be empty")
	}
	if upload.HTML == "" {
		return nil, fmt.Errorf("template HTML cannot be empty")
	}

	descriptors, err := editing.ClassifyHTML(upload.HTML)
	if err != nil {
		return nil, fmt.Errorf("template HTML is not parseable: %w", err)
	}
	if len(descriptors) == 0 {
		s.logger.Content().Warn("Template has no editable elements", "name", upload.Name)
	}

	if upload.ID == "" {
		upload.ID = security.GenerateULID()
	}

	now := time.Now().UTC()
	template := &content.TemplateNode{
		ID:       upload.ID,
		NodeType: "Template",
		Name:     upload.Name,
		Category: upload.Category,
		HTML:     upload.HTML,
		Created:  now,
		Changed:  &now,
	}
	if upload.Description != "" {
		template.Description = &upload.Description
	}

	if upload.PreviewData != "" && s.embedder != nil {
		previewPath, err := s.embedder.SavePreviewImage(upload.PreviewData, template.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to save template preview: %w", err)
		}
		template.PreviewPath = &previewPath
	}

	if err := s.templateRepo.Store(template); err != nil {
		return nil, fmt.Errorf("failed to store template: %w", err)
	}

	s.logger.Content().Info("Template created", "templateId", template.ID, "name", template.Name, "editableElements", len(descriptors))
	return template, nil
}

// Delete removes a template and its preview image.
func (s *TemplateService) Delete(id string) error {
	template, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if template == nil {
		return fmt.Errorf("template %s not found", id)
	}

	if err := s.templateRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete template %s: %w", id, err)
	}

	if template.PreviewPath != nil && s.embedder != nil {
		if err := s.embedder.DeletePreviewImage(*template.PreviewPath); err != nil {
			s.logger.Content().Warn("Failed to remove template preview", "error", err, "templateId", id)
		}
	}

	s.logger.Content().Info("Template deleted", "templateId", id)
	return nil
}

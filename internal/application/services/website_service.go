package services

import (
	"fmt"
	"time"

	"github.com/SiteWright/sitewright-go/internal/domain/editing"
	"github.com/SiteWright/sitewright-go/internal/domain/entities/content"
	"github.com/SiteWright/sitewright-go/internal/domain/repositories"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/logging"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/performance"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/security"
)

// WebsiteService orchestrates website lifecycle: lazy creation on first edit,
// identity recovery, saving and template drift detection.
type WebsiteService struct {
	websiteRepo  repositories.WebsiteRepository
	templateRepo repositories.TemplateRepository
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
}

// NewWebsiteService creates a new website application service
func NewWebsiteService(websiteRepo repositories.WebsiteRepository, templateRepo repositories.TemplateRepository, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *WebsiteService {
	return &WebsiteService{
		websiteRepo:  websiteRepo,
		templateRepo: templateRepo,
		logger:       logger,
		perfTracker:  perfTracker,
	}
}

// GetByID returns a website by ID (cache-first)
func (s *WebsiteService) GetByID(id string) (*content.WebsiteNode, error) {
	if id == "" {
		return nil, fmt.Errorf("website ID cannot be empty")
	}

	website, err := s.websiteRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get website %s: %w", id, err)
	}
	return website, nil
}

// GetForUser returns a website only when the given user owns it.
func (s *WebsiteService) GetForUser(id, userID string) (*content.WebsiteNode, error) {
	website, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if website == nil || website.UserID != userID {
		return nil, nil
	}
	return website, nil
}

// ListForUser returns all of a user's websites.
func (s *WebsiteService) ListForUser(userID string) ([]*content.WebsiteNode, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID cannot be empty")
	}

	websites, err := s.websiteRepo.FindByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list websites for user %s: %w", userID, err)
	}
	return websites, nil
}

// GetOrCreate recovers the user's existing website for a template, or lazily
// creates a fresh draft on first touch. The returned bool reports whether a
// new website was created.
func (s *WebsiteService) GetOrCreate(userID, templateID, websiteName string) (*content.WebsiteNode, bool, error) {
	existing, err := s.websiteRepo.FindByUserAndTemplate(userID, templateID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up website: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	template, err := s.templateRepo.FindByID(templateID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load template %s: %w", templateID, err)
	}
	if template == nil {
		return nil, false, fmt.Errorf("template %s not found", templateID)
	}

	if websiteName == "" {
		websiteName = template.Name
	}

	now := time.Now().UTC()
	website := &content.WebsiteNode{
		ID:             security.GenerateULID(),
		NodeType:       "Website",
		TemplateID:     templateID,
		UserID:         userID,
		WebsiteName:    websiteName,
		Customizations: make(map[string]string),
		TemplateHash:   editing.TemplateHash(template.HTML),
		Status:         content.StatusDraft,
		Created:        now,
		Changed:        &now,
	}

	if err := s.websiteRepo.Store(website); err != nil {
		return nil, false, fmt.Errorf("failed to create website: %w", err)
	}

	s.logger.Content().Info("Website created", "websiteId", website.ID, "templateId", templateID, "userId", userID)
	return website, true, nil
}

// SaveCustomizations persists a committed customization map and refreshes the
// stored template fingerprint.
func (s *WebsiteService) SaveCustomizations(website *content.WebsiteNode, customizations map[string]string, templateHTML string) error {
	marker := s.perfTracker.StartOperation("website_save")
	defer s.perfTracker.CompleteOperation(marker)

	now := time.Now().UTC()
	website.Customizations = customizations
	website.TemplateHash = editing.TemplateHash(templateHTML)
	website.Changed = &now

	if err := s.websiteRepo.Update(website); err != nil {
		marker.SetError(err)
		return fmt.Errorf("failed to save website %s: %w", website.ID, err)
	}

	marker.AddMetadata("keys", len(customizations))
	return nil
}

// Rename updates the display name of a website.
func (s *WebsiteService) Rename(website *content.WebsiteNode, name string) error {
	if name == "" {
		return fmt.Errorf("website name cannot be empty")
	}

	now := time.Now().UTC()
	website.WebsiteName = name
	website.Changed = &now

	if err := s.websiteRepo.Update(website); err != nil {
		return fmt.Errorf("failed to rename website %s: %w", website.ID, err)
	}
	return nil
}

// Delete removes a website.
func (s *WebsiteService) Delete(id string) error {
	if err := s.websiteRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete website %s: %w", id, err)
	}
	s.logger.Content().Info("Website deleted", "websiteId", id)
	return nil
}

// CheckTemplateDrift reports whether the template's HTML changed since the
// website's customizations were last saved. Drift never blocks loading; keys
// that no longer resolve are skipped downstream, so callers surface the flag
// and carry on.
func (s *WebsiteService) CheckTemplateDrift(website *content.WebsiteNode, template *content.TemplateNode) bool {
	if website.TemplateHash == "" {
		return false
	}

	drifted := website.TemplateHash != editing.TemplateHash(template.HTML)
	if drifted {
		s.logger.Editor().Warn("Template drift detected",
			"websiteId", website.ID, "templateId", template.ID)
	}
	return drifted
}

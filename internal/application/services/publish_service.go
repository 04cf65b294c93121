package services

import (
	"fmt"
	"time"

	"github.com/SiteWright/sitewright-go/internal/domain/editing"
	"github.com/SiteWright/sitewright-go/internal/domain/entities/content"
	"github.com/SiteWright/sitewright-go/internal/domain/repositories"
	"github.com/SiteWright/sitewright-go/internal/domain/user"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/caching/interfaces"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/email"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/logging"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/performance"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/security"
)

// PublishService compiles standalone snapshots and manages the published
// history of a website.
type PublishService struct {
	websiteSvc   *WebsiteService
	templateRepo repositories.TemplateRepository
	serviceRepo  repositories.ServiceRepository
	publishRepo  repositories.PublishRepository
	accountRepo  user.AccountRepository
	cache        interfaces.Cache
	emailService email.Service
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
	baseURL      string
}

// NewPublishService creates a new publish application service. emailService
// may be nil when no mail provider is configured.
func NewPublishService(websiteSvc *WebsiteService, templateRepo repositories.TemplateRepository, serviceRepo repositories.ServiceRepository, publishRepo repositories.PublishRepository, accountRepo user.AccountRepository, cache interfaces.Cache, emailService email.Service, logger *logging.ChanneledLogger, perfTracker *performance.Tracker, baseURL string) *PublishService {
	return &PublishService{
		websiteSvc:   websiteSvc,
		templateRepo: templateRepo,
		serviceRepo:  serviceRepo,
		publishRepo:  publishRepo,
		accountRepo:  accountRepo,
		cache:        cache,
		emailService: emailService,
		logger:       logger,
		perfTracker:  perfTracker,
		baseURL:      baseURL,
	}
}

// PublishResult reports the outcome of a publish.
type PublishResult struct {
	PublishID     string `json:"publishId"`
	PublishedURL  string `json:"publishedUrl"`
	TemplateDrift bool   `json:"templateDrift"`
	SnapshotBytes int    `json:"snapshotBytes"`
}

// Publish compiles a fresh snapshot from the website's committed values plus
// the current service catalog, appends it to the publish history, and marks
// the website published. Template drift is flagged, never refused.
func (s *PublishService) Publish(websiteID, userID string) (*PublishResult, error) {
	marker := s.perfTracker.StartOperation("publish")
	defer s.perfTracker.CompleteOperation(marker)

	website, err := s.websiteSvc.GetForUser(websiteID, userID)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}
	if website == nil {
		return nil, fmt.Errorf("website %s not found", websiteID)
	}

	template, err := s.templateRepo.FindByID(website.TemplateID)
	if err != nil {
		marker.SetError(err)
		return nil, fmt.Errorf("failed to load template %s: %w", website.TemplateID, err)
	}
	if template == nil {
		return nil, fmt.Errorf("template %s not found", website.TemplateID)
	}

	drift := s.websiteSvc.CheckTemplateDrift(website, template)

	services, err := s.serviceRepo.FindByUserID(userID)
	if err != nil {
		marker.SetError(err)
		return nil, fmt.Errorf("failed to load services: %w", err)
	}

	snapshot, err := editing.CompileWithServices(template.HTML, website.Customizations, services, s.logger.Compiler())
	if err != nil {
		marker.SetError(err)
		return nil, fmt.Errorf("snapshot compilation failed: %w", err)
	}

	templateHash := editing.TemplateHash(template.HTML)
	publish := &content.PublishNode{
		ID:           security.GenerateULID(),
		NodeType:     "Publish",
		WebsiteID:    websiteID,
		SnapshotHTML: snapshot,
		TemplateHash: templateHash,
		Created:      time.Now().UTC(),
	}

	if err := s.publishRepo.Store(publish); err != nil {
		marker.SetError(err)
		return nil, fmt.Errorf("failed to store publish: %w", err)
	}

	now := time.Now().UTC()
	website.SavedContent = snapshot
	website.TemplateHash = templateHash
	website.Status = content.StatusPublished
	website.Changed = &now
	if err := s.websiteSvc.websiteRepo.Update(website); err != nil {
		marker.SetError(err)
		return nil, fmt.Errorf("failed to mark website published: %w", err)
	}

	s.cache.SetSnapshot(websiteID, templateHash, snapshot, publish.ID)

	publishedURL := fmt.Sprintf("%s/%s", s.baseURL, websiteID)
	s.notifyOwner(userID, website.WebsiteName, publishedURL)

	marker.AddMetadata("snapshotBytes", len(snapshot))
	s.logger.Compiler().Info("Website published",
		"websiteId", websiteID, "publishId", publish.ID, "bytes", len(snapshot), "drift", drift)

	return &PublishResult{
		PublishID:     publish.ID,
		PublishedURL:  publishedURL,
		TemplateDrift: drift,
		SnapshotBytes: len(snapshot),
	}, nil
}

// GetSnapshot returns the latest published snapshot HTML and an ETag for a
// website, serving from cache when the entry is still valid.
func (s *PublishService) GetSnapshot(websiteID string) (string, string, error) {
	marker := s.perfTracker.StartOperation("snapshot_serve")
	defer s.perfTracker.CompleteOperation(marker)

	website, err := s.websiteSvc.GetByID(websiteID)
	if err != nil {
		marker.SetError(err)
		return "", "", err
	}
	if website == nil || website.Status != content.StatusPublished {
		return "", "", nil
	}

	if html, etag, found := s.cache.GetSnapshot(websiteID, website.TemplateHash); found {
		marker.AddCacheHit()
		return html, etag, nil
	}
	marker.AddCacheMiss()

	publish, err := s.publishRepo.FindLatestByWebsiteID(websiteID)
	if err != nil {
		marker.SetError(err)
		return "", "", fmt.Errorf("failed to load publish history: %w", err)
	}
	if publish == nil {
		return "", "", nil
	}

	s.cache.SetSnapshot(websiteID, publish.TemplateHash, publish.SnapshotHTML, publish.ID)
	return publish.SnapshotHTML, publish.ID, nil
}

// History returns the publish history for a website owned by userID.
func (s *PublishService) History(websiteID, userID string) ([]*content.PublishNode, error) {
	website, err := s.websiteSvc.GetForUser(websiteID, userID)
	if err != nil {
		return nil, err
	}
	if website == nil {
		return nil, fmt.Errorf("website %s not found", websiteID)
	}
	return s.publishRepo.FindByWebsiteID(websiteID)
}

func (s *PublishService) notifyOwner(userID, websiteName, publishedURL string) {
	if s.emailService == nil {
		return
	}

	account, err := s.accountRepo.FindByID(userID)
	if err != nil || account == nil {
		s.logger.Compiler().Warn("Could not load account for publish notification", "userId", userID)
		return
	}

	if err := s.emailService.SendPublishNotificationEmail(account.Email, websiteName, publishedURL); err != nil {
		s.logger.Compiler().Warn("Failed to send publish notification", "error", err, "userId", userID)
	}
}

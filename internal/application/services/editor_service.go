package services

import (
	"fmt"
	"sync"

	"github.com/SiteWright/sitewright-go/internal/domain/editing"
	"github.com/SiteWright/sitewright-go/internal/domain/entities/content"
	"github.com/SiteWright/sitewright-go/internal/domain/repositories"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/caching/interfaces"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/messaging"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/logging"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/performance"
)

// editorEntry pairs a live editor with the template fingerprint it was built
// from, so a re-uploaded template forces a rebuild.
type editorEntry struct {
	editor       *editing.Editor
	templateHash string
}

// EditorService owns the live editing engine: one in-memory editor per
// website, the session lifecycle, and preview fanout.
type EditorService struct {
	mu           sync.Mutex
	editors      map[string]*editorEntry
	websiteSvc   *WebsiteService
	templateRepo repositories.TemplateRepository
	serviceRepo  repositories.ServiceRepository
	cache        interfaces.Cache
	broadcaster  messaging.PreviewBroadcaster
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
}

// NewEditorService creates a new editor application service
func NewEditorService(websiteSvc *WebsiteService, templateRepo repositories.TemplateRepository, serviceRepo repositories.ServiceRepository, cache interfaces.Cache, broadcaster messaging.PreviewBroadcaster, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *EditorService {
	return &EditorService{
		editors:      make(map[string]*editorEntry),
		websiteSvc:   websiteSvc,
		templateRepo: templateRepo,
		serviceRepo:  serviceRepo,
		cache:        cache,
		broadcaster:  broadcaster,
		logger:       logger,
		perfTracker:  perfTracker,
	}
}

// EditorState is what the editing UI needs to render its controls.
type EditorState struct {
	WebsiteID     string                      `json:"websiteId"`
	Descriptors   []editing.ElementDescriptor `json:"descriptors"`
	HTML          string                      `json:"html"`
	TemplateDrift bool                        `json:"templateDrift"`
}

// LoadEditor returns the live editor state for a website owned by userID,
// building the in-memory editor on first access.
func (s *EditorService) LoadEditor(websiteID, userID string) (*EditorState, error) {
	marker := s.perfTracker.StartOperation("classification")
	defer s.perfTracker.CompleteOperation(marker)

	website, template, err := s.loadOwned(websiteID, userID)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	drift := s.websiteSvc.CheckTemplateDrift(website, template)

	editor, err := s.getOrBuildEditor(website, template)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	html, err := editor.HTML()
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	return &EditorState{
		WebsiteID:     websiteID,
		Descriptors:   editor.Descriptors(),
		HTML:          html,
		TemplateDrift: drift,
	}, nil
}

// BeginSession opens an edit session scoped to one element key.
func (s *EditorService) BeginSession(websiteID, userID, elementKey string) (map[string]string, error) {
	editor, err := s.editorFor(websiteID, userID)
	if err != nil {
		return nil, err
	}

	session, err := editor.Begin(elementKey)
	if err != nil {
		return nil, err
	}
	return session.TemporaryValues(), nil
}

// StageValue records a temporary value in the open session and pushes a
// preview event to watchers.
func (s *EditorService) StageValue(websiteID, userID, key, value string) error {
	marker := s.perfTracker.StartOperation("session_stage")
	defer s.perfTracker.CompleteOperation(marker)

	editor, err := s.editorFor(websiteID, userID)
	if err != nil {
		marker.SetError(err)
		return err
	}

	session := editor.OpenSession()
	if session == nil {
		return fmt.Errorf("no open edit session for website %s", websiteID)
	}

	if err := session.Stage(key, value); err != nil {
		marker.SetError(err)
		return err
	}

	// Staging fires on every keystroke; skip the push when nobody watches.
	if s.broadcaster.HasViewers(websiteID) {
		s.broadcaster.BroadcastPreviewUpdate(websiteID, "staged", []string{key})
	}
	return nil
}

// CommitSession makes the open session's staged values durable: the merged
// map is saved, the cached snapshot invalidated, and watchers notified.
func (s *EditorService) CommitSession(websiteID, userID string) (map[string]string, error) {
	marker := s.perfTracker.StartOperation("session_commit")
	defer s.perfTracker.CompleteOperation(marker)

	website, template, err := s.loadOwned(websiteID, userID)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	editor, err := s.getOrBuildEditor(website, template)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	session := editor.OpenSession()
	if session == nil {
		return nil, fmt.Errorf("no open edit session for website %s", websiteID)
	}
	elementKey := session.ElementKey()

	committed, err := session.Commit()
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	if err := s.websiteSvc.SaveCustomizations(website, committed, template.HTML); err != nil {
		marker.SetError(err)
		return nil, err
	}

	s.cache.InvalidateSnapshot(websiteID)
	s.broadcaster.BroadcastPreviewUpdate(websiteID, "committed", []string{elementKey})
	s.logger.Editor().Info("Edit session committed", "websiteId", websiteID, "elementKey", elementKey, "totalKeys", len(committed))
	return committed, nil
}

// CancelSession rolls back the open session's preview mutations.
func (s *EditorService) CancelSession(websiteID, userID string) error {
	editor, err := s.editorFor(websiteID, userID)
	if err != nil {
		return err
	}

	session := editor.OpenSession()
	if session == nil {
		return fmt.Errorf("no open edit session for website %s", websiteID)
	}
	elementKey := session.ElementKey()

	if err := session.Rollback(); err != nil {
		return err
	}

	s.broadcaster.BroadcastPreviewUpdate(websiteID, "rolled_back", []string{elementKey})
	return nil
}

// PreviewHTML serializes the website's live working document.
func (s *EditorService) PreviewHTML(websiteID, userID string) (string, error) {
	editor, err := s.editorFor(websiteID, userID)
	if err != nil {
		return "", err
	}
	return editor.HTML()
}

// SyncServices materializes the user's priced-service catalog into the live
// document's service block. Returns the synced card count; found reports
// whether the template has a recognizable block.
func (s *EditorService) SyncServices(websiteID, userID string) (int, bool, error) {
	marker := s.perfTracker.StartOperation("service_sync")
	defer s.perfTracker.CompleteOperation(marker)

	editor, err := s.editorFor(websiteID, userID)
	if err != nil {
		marker.SetError(err)
		return 0, false, err
	}

	services, err := s.serviceRepo.FindByUserID(userID)
	if err != nil {
		marker.SetError(err)
		return 0, false, fmt.Errorf("failed to load services: %w", err)
	}

	count, found := editor.SyncServices(services)
	if found {
		s.broadcaster.BroadcastPreviewUpdate(websiteID, "services_synced", nil)
	}
	marker.AddMetadata("cards", count)
	return count, found, nil
}

// DropEditor evicts a website's in-memory editor, forcing a rebuild on next
// load. Called when the website is deleted.
func (s *EditorService) DropEditor(websiteID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.editors, websiteID)
}

func (s *EditorService) loadOwned(websiteID, userID string) (*content.WebsiteNode, *content.TemplateNode, error) {
	website, err := s.websiteSvc.GetForUser(websiteID, userID)
	if err != nil {
		return nil, nil, err
	}
	if website == nil {
		return nil, nil, fmt.Errorf("website %s not found", websiteID)
	}

	template, err := s.templateRepo.FindByID(website.TemplateID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load template %s: %w", website.TemplateID, err)
	}
	if template == nil {
		return nil, nil, fmt.Errorf("template %s not found", website.TemplateID)
	}
	return website, template, nil
}

func (s *EditorService) editorFor(websiteID, userID string) (*editing.Editor, error) {
	website, template, err := s.loadOwned(websiteID, userID)
	if err != nil {
		return nil, err
	}
	return s.getOrBuildEditor(website, template)
}

func (s *EditorService) getOrBuildEditor(website *content.WebsiteNode, template *content.TemplateNode) (*editing.Editor, error) {
	currentHash := editing.TemplateHash(template.HTML)

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, exists := s.editors[website.ID]; exists && entry.templateHash == currentHash {
		return entry.editor, nil
	}

	editor, err := editing.NewEditor(template.HTML, website.Customizations, s.logger.Editor())
	if err != nil {
		return nil, fmt.Errorf("failed to build editor for website %s: %w", website.ID, err)
	}

	s.editors[website.ID] = &editorEntry{editor: editor, templateHash: currentHash}
	return editor, nil
}

// Package stores provides concrete cache store implementations
package stores

import (
	"time"

	"github.com/SiteWright/sitewright-go/internal/domain/entities/content"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/caching/types"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/logging"
)

// ContentStore implements content caching operations
type ContentStore struct {
	cache  *types.ContentCache
	logger *logging.ChanneledLogger
}

// NewContentStore creates a new content cache store
func NewContentStore(logger *logging.ChanneledLogger) *ContentStore {
	return &ContentStore{
		cache:  newContentCache(),
		logger: logger,
	}
}

func newContentCache() *types.ContentCache {
	return &types.ContentCache{
		Templates:      make(map[string]*content.TemplateNode),
		Websites:       make(map[string]*content.WebsiteNode),
		Services:       make(map[string]*content.PricedServiceNode),
		AllTemplateIDs: make([]string, 0),
		UserToWebsites: make(map[string][]string),
		UserToServices: make(map[string][]string),
		LastUpdated:    time.Now().UTC(),
	}
}

// =============================================================================
// Template Operations
// =============================================================================

func (cs *ContentStore) GetTemplate(id string) (*content.TemplateNode, bool) {
	cs.cache.Mu.RLock()
	defer cs.cache.Mu.RUnlock()
	template, found := cs.cache.Templates[id]
	return template, found
}

func (cs *ContentStore) SetTemplate(template *content.TemplateNode) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	cs.cache.Templates[template.ID] = template
	cs.cache.LastUpdated = time.Now().UTC()
}

func (cs *ContentStore) GetAllTemplateIDs() ([]string, bool) {
	cs.cache.Mu.RLock()
	defer cs.cache.Mu.RUnlock()
	if len(cs.cache.AllTemplateIDs) == 0 {
		return nil, false
	}
	ids := make([]string, len(cs.cache.AllTemplateIDs))
	copy(ids, cs.cache.AllTemplateIDs)
	return ids, true
}

func (cs *ContentStore) SetAllTemplateIDs(ids []string) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	cs.cache.AllTemplateIDs = make([]string, len(ids))
	copy(cs.cache.AllTemplateIDs, ids)
	cs.cache.LastUpdated = time.Now().UTC()
}

func (cs *ContentStore) InvalidateTemplate(id string) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	delete(cs.cache.Templates, id)
	cs.cache.AllTemplateIDs = removeID(cs.cache.AllTemplateIDs, id)
	cs.cache.LastUpdated = time.Now().UTC()
}

// =============================================================================
// Website Operations
// =============================================================================

func (cs *ContentStore) GetWebsite(id string) (*content.WebsiteNode, bool) {
	cs.cache.Mu.RLock()
	defer cs.cache.Mu.RUnlock()
	website, found := cs.cache.Websites[id]
	return website, found
}

func (cs *ContentStore) SetWebsite(website *content.WebsiteNode) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	cs.cache.Websites[website.ID] = website
	cs.cache.LastUpdated = time.Now().UTC()
}

func (cs *ContentStore) GetWebsiteIDsByUser(userID string) ([]string, bool) {
	cs.cache.Mu.RLock()
	defer cs.cache.Mu.RUnlock()
	ids, found := cs.cache.UserToWebsites[userID]
	if !found {
		return nil, false
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out, true
}

func (cs *ContentStore) SetWebsiteIDsByUser(userID string, ids []string) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	stored := make([]string, len(ids))
	copy(stored, ids)
	cs.cache.UserToWebsites[userID] = stored
	cs.cache.LastUpdated = time.Now().UTC()
}

func (cs *ContentStore) InvalidateWebsite(id string) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	if website, found := cs.cache.Websites[id]; found {
		cs.cache.UserToWebsites[website.UserID] = removeID(cs.cache.UserToWebsites[website.UserID], id)
	}
	delete(cs.cache.Websites, id)
	cs.cache.LastUpdated = time.Now().UTC()
}

// =============================================================================
// Service Operations
// =============================================================================

func (cs *ContentStore) GetService(id string) (*content.PricedServiceNode, bool) {
	cs.cache.Mu.RLock()
	defer cs.cache.Mu.RUnlock()
	service, found := cs.cache.Services[id]
	return service, found
}

func (cs *ContentStore) SetService(service *content.PricedServiceNode) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	cs.cache.Services[service.ID] = service
	cs.cache.LastUpdated = time.Now().UTC()
}

func (cs *ContentStore) GetServiceIDsByUser(userID string) ([]string, bool) {
	cs.cache.Mu.RLock()
	defer cs.cache.Mu.RUnlock()
	ids, found := cs.cache.UserToServices[userID]
	if !found {
		return nil, false
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out, true
}

func (cs *ContentStore) SetServiceIDsByUser(userID string, ids []string) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	stored := make([]string, len(ids))
	copy(stored, ids)
	cs.cache.UserToServices[userID] = stored
	cs.cache.LastUpdated = time.Now().UTC()
}

func (cs *ContentStore) InvalidateService(id string) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	if service, found := cs.cache.Services[id]; found {
		cs.cache.UserToServices[service.UserID] = removeID(cs.cache.UserToServices[service.UserID], id)
	}
	delete(cs.cache.Services, id)
	cs.cache.LastUpdated = time.Now().UTC()
}

// =============================================================================
// Invalidation
// =============================================================================

func (cs *ContentStore) InvalidateContentCache() {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	cs.cache.Templates = make(map[string]*content.TemplateNode)
	cs.cache.Websites = make(map[string]*content.WebsiteNode)
	cs.cache.Services = make(map[string]*content.PricedServiceNode)
	cs.cache.AllTemplateIDs = make([]string, 0)
	cs.cache.UserToWebsites = make(map[string][]string)
	cs.cache.UserToServices = make(map[string][]string)
	cs.cache.LastUpdated = time.Now().UTC()

	if cs.logger != nil {
		cs.logger.Cache().Info("Content cache invalidated")
	}
}

// Counts returns entity counts for stats reporting.
func (cs *ContentStore) Counts() (templates, websites, services int) {
	cs.cache.Mu.RLock()
	defer cs.cache.Mu.RUnlock()
	return len(cs.cache.Templates), len(cs.cache.Websites), len(cs.cache.Services)
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

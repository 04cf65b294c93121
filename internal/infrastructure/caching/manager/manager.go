// Package manager provides centralized cache operations by delegating to
// specialized stores.
package manager

import (
	"runtime"
	"sync"
	"time"

	"github.com/SiteWright/sitewright-go/internal/domain/entities/content"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/caching/interfaces"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/caching/stores"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/logging"
)

// Interface assertion to ensure Manager implements the combined cache contract.
var _ interfaces.Cache = (*Manager)(nil)

// Manager provides centralized cache operations by delegating to specialized stores.
type Manager struct {
	mu            sync.RWMutex
	hits          int
	misses        int
	lastAccessed  time.Time
	contentStore  *stores.ContentStore
	snapshotStore *stores.SnapshotStore
	logger        *logging.ChanneledLogger
}

func NewManager(logger *logging.ChanneledLogger) *Manager {
	if logger != nil {
		logger.Cache().Info("Initializing cache manager", "stores", []string{"content", "snapshots"})
	}

	return &Manager{
		lastAccessed:  time.Now().UTC(),
		contentStore:  stores.NewContentStore(logger),
		snapshotStore: stores.NewSnapshotStore(logger),
		logger:        logger,
	}
}

func (m *Manager) track(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.hits++
	} else {
		m.misses++
	}
	m.lastAccessed = time.Now().UTC()
}

// =============================================================================
// ContentCache delegation
// =============================================================================

func (m *Manager) GetTemplate(id string) (*content.TemplateNode, bool) {
	template, found := m.contentStore.GetTemplate(id)
	m.track(found)
	return template, found
}

func (m *Manager) SetTemplate(template *content.TemplateNode) {
	m.contentStore.SetTemplate(template)
}

func (m *Manager) GetAllTemplateIDs() ([]string, bool) {
	ids, found := m.contentStore.GetAllTemplateIDs()
	m.track(found)
	return ids, found
}

func (m *Manager) SetAllTemplateIDs(ids []string) {
	m.contentStore.SetAllTemplateIDs(ids)
}

func (m *Manager) InvalidateTemplate(id string) {
	m.contentStore.InvalidateTemplate(id)
}

func (m *Manager) GetWebsite(id string) (*content.WebsiteNode, bool) {
	website, found := m.contentStore.GetWebsite(id)
	m.track(found)
	return website, found
}

func (m *Manager) SetWebsite(website *content.WebsiteNode) {
	m.contentStore.SetWebsite(website)
}

func (m *Manager) GetWebsiteIDsByUser(userID string) ([]string, bool) {
	ids, found := m.contentStore.GetWebsiteIDsByUser(userID)
	m.track(found)
	return ids, found
}

func (m *Manager) SetWebsiteIDsByUser(userID string, ids []string) {
	m.contentStore.SetWebsiteIDsByUser(userID, ids)
}

func (m *Manager) InvalidateWebsite(id string) {
	m.contentStore.InvalidateWebsite(id)
	m.snapshotStore.InvalidateSnapshot(id)
}

func (m *Manager) GetService(id string) (*content.PricedServiceNode, bool) {
	service, found := m.contentStore.GetService(id)
	m.track(found)
	return service, found
}

func (m *Manager) SetService(service *content.PricedServiceNode) {
	m.contentStore.SetService(service)
}

func (m *Manager) GetServiceIDsByUser(userID string) ([]string, bool) {
	ids, found := m.contentStore.GetServiceIDsByUser(userID)
	m.track(found)
	return ids, found
}

func (m *Manager) SetServiceIDsByUser(userID string, ids []string) {
	m.contentStore.SetServiceIDsByUser(userID, ids)
}

func (m *Manager) InvalidateService(id string) {
	m.contentStore.InvalidateService(id)
}

func (m *Manager) InvalidateContentCache() {
	m.contentStore.InvalidateContentCache()
}

// =============================================================================
// SnapshotCache delegation
// =============================================================================

func (m *Manager) GetSnapshot(websiteID, templateHash string) (string, string, bool) {
	html, etag, found := m.snapshotStore.GetSnapshot(websiteID, templateHash)
	m.track(found)
	return html, etag, found
}

func (m *Manager) SetSnapshot(websiteID, templateHash, html, etag string) {
	m.snapshotStore.SetSnapshot(websiteID, templateHash, html, etag)
}

func (m *Manager) InvalidateSnapshot(websiteID string) {
	m.snapshotStore.InvalidateSnapshot(websiteID)
}

func (m *Manager) InvalidateSnapshotCache() {
	m.snapshotStore.InvalidateSnapshotCache()
}

// =============================================================================
// Stats and health
// =============================================================================

func (m *Manager) GetStats() interfaces.CacheStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	templates, websites, services := m.contentStore.Counts()
	return interfaces.CacheStats{
		Hits:   m.hits,
		Misses: m.misses,
		Size:   int64(templates + websites + services + m.snapshotStore.Count()),
	}
}

func (m *Manager) GetMemoryStats() map[string]any {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	templates, websites, services := m.contentStore.Counts()
	return map[string]any{
		"allocMB":         memStats.Alloc / (1024 * 1024),
		"sysMB":           memStats.Sys / (1024 * 1024),
		"cachedTemplates": templates,
		"cachedWebsites":  websites,
		"cachedServices":  services,
		"cachedSnapshots": m.snapshotStore.Count(),
	}
}

func (m *Manager) InvalidateAll() {
	m.contentStore.InvalidateContentCache()
	m.snapshotStore.InvalidateSnapshotCache()

	if m.logger != nil {
		m.logger.Cache().Warn("All caches invalidated")
	}
}

func (m *Manager) Health() map[string]any {
	m.mu.RLock()
	lastAccessed := m.lastAccessed
	m.mu.RUnlock()

	stats := m.GetStats()
	return map[string]any{
		"status":       "healthy",
		"lastAccessed": lastAccessed,
		"hits":         stats.Hits,
		"misses":       stats.Misses,
		"entries":      stats.Size,
	}
}

package stores

import (
	"time"

	"github.com/SiteWright/sitewright-go/internal/infrastructure/caching/types"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/logging"
)

// SnapshotStore caches compiled website snapshots keyed by website id.
type SnapshotStore struct {
	cache  *types.SnapshotCache
	logger *logging.ChanneledLogger
}

// NewSnapshotStore creates a new snapshot cache store
func NewSnapshotStore(logger *logging.ChanneledLogger) *SnapshotStore {
	return &SnapshotStore{
		cache: &types.SnapshotCache{
			Snapshots: make(map[string]*types.SnapshotEntry),
		},
		logger: logger,
	}
}

// GetSnapshot returns the cached snapshot HTML and ETag for a website. The
// entry only hits when its template hash matches the requested one, so a
// re-uploaded template invalidates stale snapshots implicitly.
func (ss *SnapshotStore) GetSnapshot(websiteID, templateHash string) (string, string, bool) {
	ss.cache.Mu.RLock()
	defer ss.cache.Mu.RUnlock()

	entry, found := ss.cache.Snapshots[websiteID]
	if !found {
		return "", "", false
	}
	if templateHash != "" && entry.TemplateHash != templateHash {
		return "", "", false
	}
	return entry.HTML, entry.ETag, true
}

// SetSnapshot stores a compiled snapshot for a website
func (ss *SnapshotStore) SetSnapshot(websiteID, templateHash, html, etag string) {
	ss.cache.Mu.Lock()
	defer ss.cache.Mu.Unlock()

	ss.cache.Snapshots[websiteID] = &types.SnapshotEntry{
		HTML:         html,
		TemplateHash: templateHash,
		ETag:         etag,
		CreatedAt:    time.Now().UTC(),
	}
}

// InvalidateSnapshot removes one website's cached snapshot
func (ss *SnapshotStore) InvalidateSnapshot(websiteID string) {
	ss.cache.Mu.Lock()
	defer ss.cache.Mu.Unlock()
	delete(ss.cache.Snapshots, websiteID)
}

// InvalidateSnapshotCache removes all cached snapshots
func (ss *SnapshotStore) InvalidateSnapshotCache() {
	ss.cache.Mu.Lock()
	defer ss.cache.Mu.Unlock()
	ss.cache.Snapshots = make(map[string]*types.SnapshotEntry)

	if ss.logger != nil {
		ss.logger.Cache().Info("Snapshot cache invalidated")
	}
}

// Count returns the number of cached snapshots.
func (ss *SnapshotStore) Count() int {
	ss.cache.Mu.RLock()
	defer ss.cache.Mu.RUnlock()
	return len(ss.cache.Snapshots)
}

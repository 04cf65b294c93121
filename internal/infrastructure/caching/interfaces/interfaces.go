// Package interfaces defines cache operation contracts for content management.
package interfaces

import (
	"github.com/SiteWright/sitewright-go/internal/domain/entities/content"
)

// ContentCache defines operations for content caching
type ContentCache interface {
	GetTemplate(id string) (*content.TemplateNode, bool)
	SetTemplate(template *content.TemplateNode)
	GetAllTemplateIDs() ([]string, bool)
	SetAllTemplateIDs(ids []string)
	InvalidateTemplate(id string)

	GetWebsite(id string) (*content.WebsiteNode, bool)
	SetWebsite(website *content.WebsiteNode)
	GetWebsiteIDsByUser(userID string) ([]string, bool)
	SetWebsiteIDsByUser(userID string, ids []string)
	InvalidateWebsite(id string)

	GetService(id string) (*content.PricedServiceNode, bool)
	SetService(service *content.PricedServiceNode)
	GetServiceIDsByUser(userID string) ([]string, bool)
	SetServiceIDsByUser(userID string, ids []string)
	InvalidateService(id string)

	InvalidateContentCache()
}

// SnapshotCache defines operations for compiled snapshot caching
type SnapshotCache interface {
	GetSnapshot(websiteID, templateHash string) (string, string, bool)
	SetSnapshot(websiteID, templateHash, html, etag string)
	InvalidateSnapshot(websiteID string)
	InvalidateSnapshotCache()
}

// Cache is the main interface that combines all cache operations
type Cache interface {
	ContentCache
	SnapshotCache
	GetStats() CacheStats
	GetMemoryStats() map[string]any
	InvalidateAll()
	Health() map[string]any
}

type CacheStats struct {
	Hits   int   `json:"hits"`
	Misses int   `json:"misses"`
	Size   int64 `json:"size"`
}

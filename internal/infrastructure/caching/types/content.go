// Package types defines the in-memory cache structures shared by the cache
// stores and manager.
package types

import (
	"sync"
	"time"

	"github.com/SiteWright/sitewright-go/internal/domain/entities/content"
)

// ContentCache holds the cached content entities. All access goes through Mu.
type ContentCache struct {
	Mu sync.RWMutex

	Templates map[string]*content.TemplateNode
	Websites  map[string]*content.WebsiteNode
	Services  map[string]*content.PricedServiceNode

	AllTemplateIDs []string
	UserToWebsites map[string][]string
	UserToServices map[string][]string

	LastUpdated time.Time
}

// SnapshotEntry is one cached compiled snapshot keyed by website id, kept
// alongside the template hash it was compiled against so drift invalidates it.
type SnapshotEntry struct {
	HTML         string
	TemplateHash string
	ETag         string
	CreatedAt    time.Time
}

// SnapshotCache holds compiled website snapshots.
type SnapshotCache struct {
	Mu        sync.RWMutex
	Snapshots map[string]*SnapshotEntry
}

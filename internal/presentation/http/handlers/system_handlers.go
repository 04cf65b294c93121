package handlers

import (
	"net/http"
	"time"

	"github.com/SiteWright/sitewright-go/internal/infrastructure/caching/interfaces"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/logging"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/performance"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/persistence/database"
	"github.com/gin-gonic/gin"
)

// SystemHandlers contains health and operational HTTP handlers
type SystemHandlers struct {
	db          *database.DB
	cache       interfaces.Cache
	perfTracker *performance.Tracker
	logger      *logging.ChanneledLogger
	startedAt   time.Time
}

// NewSystemHandlers creates system handlers with injected dependencies
func NewSystemHandlers(db *database.DB, cache interfaces.Cache, perfTracker *performance.Tracker, logger *logging.ChanneledLogger) *SystemHandlers {
	return &SystemHandlers{
		db:          db,
		cache:       cache,
		perfTracker: perfTracker,
		logger:      logger,
		startedAt:   time.Now().UTC(),
	}
}

// GetHealth handles GET /health - liveness plus a database round trip
func (h *SystemHandlers) GetHealth(c *gin.Context) {
	log := h.logger.WithOperation(logging.ChannelSystem, "health_check")

	status := http.StatusOK
	dbStatus := "up"
	if err := h.db.Ping(); err != nil {
		log.Error("Database ping failed", "error", err.Error())
		status = http.StatusServiceUnavailable
		dbStatus = "down"
	}

	c.JSON(status, gin.H{
		"status":   dbStatus,
		"database": dbStatus,
		"cache":    h.cache.Health(),
		"uptime":   time.Since(h.startedAt).String(),
	})
}

// GetSystemStats handles GET /api/v1/system/stats - cache, memory and
// operation metrics for the operator dashboard
func (h *SystemHandlers) GetSystemStats(c *gin.Context) {
	marker := h.perfTracker.StartOperation("system_stats_request")
	defer h.perfTracker.CompleteOperation(marker)

	snapshot := h.perfTracker.TakeSnapshot()

	c.JSON(http.StatusOK, gin.H{
		"cache":       h.cache.Health(),
		"memory":      h.cache.GetMemoryStats(),
		"performance": snapshot,
		"operations":  h.perfTracker.GetOverallStats(),
		"alerts":      h.perfTracker.GetAlerts(),
		"connections": h.db.Stats(),
	})
}

// PostCacheInvalidate handles POST /api/v1/system/cache/invalidate - drops
// every cached entity and snapshot so the next reads repopulate from the DB
func (h *SystemHandlers) PostCacheInvalidate(c *gin.Context) {
	h.logger.System().Warn("Cache invalidation requested", "clientIp", c.ClientIP())
	h.cache.InvalidateAll()
	c.JSON(http.StatusOK, gin.H{"invalidated": true})
}

package handlers

import (
	"net/http"
	"time"

	"github.com/SiteWright/sitewright-go/internal/application/services"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/logging"
	"github.com/SiteWright/sitewright-go/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// BeginSessionRequest represents the request body for opening an edit session
type BeginSessionRequest struct {
	ElementKey string `json:"elementKey" binding:"required"`
}

// StageValueRequest represents the request body for staging an edit value
type StageValueRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

// EditorHandlers contains all live editing HTTP handlers
type EditorHandlers struct {
	editorService *services.EditorService
	logger        *logging.ChanneledLogger
}

// NewEditorHandlers creates editor handlers with injected dependencies
func NewEditorHandlers(editorService *services.EditorService, logger *logging.ChanneledLogger) *EditorHandlers {
	return &EditorHandlers{
		editorService: editorService,
		logger:        logger,
	}
}

// GetEditor loads the editor state: classified descriptors, the working
// document and the template drift flag.
func (h *EditorHandlers) GetEditor(c *gin.Context) {
	start := time.Now()
	profile, _ := middleware.GetProfile(c)

	state, err := h.editorService.LoadEditor(c.Param("id"), profile.AccountID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	h.logger.Editor().Info("Editor loaded",
		"websiteId", state.WebsiteID, "descriptors", len(state.Descriptors), "duration", time.Since(start))
	c.JSON(http.StatusOK, state)
}

// PostSession opens an edit session scoped to one element key
func (h *EditorHandlers) PostSession(c *gin.Context) {
	profile, _ := middleware.GetProfile(c)

	var req BeginSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	values, err := h.editorService.BeginSession(c.Param("id"), profile.AccountID, req.ElementKey)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"elementKey": req.ElementKey, "values": values})
}

// PostStage records a temporary value in the open session
func (h *EditorHandlers) PostStage(c *gin.Context) {
	profile, _ := middleware.GetProfile(c)

	var req StageValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := h.editorService.StageValue(c.Param("id"), profile.AccountID, req.Key, req.Value); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"staged": req.Key})
}

// PostCommit makes the open session's staged values durable
func (h *EditorHandlers) PostCommit(c *gin.Context) {
	profile, _ := middleware.GetProfile(c)

	committed, err := h.editorService.CommitSession(c.Param("id"), profile.AccountID)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"customizations": committed, "count": len(committed)})
}

// PostCancel rolls back the open session
func (h *EditorHandlers) PostCancel(c *gin.Context) {
	profile, _ := middleware.GetProfile(c)

	if err := h.editorService.CancelSession(c.Param("id"), profile.AccountID); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}

// GetPreview serves the live working document as HTML
func (h *EditorHandlers) GetPreview(c *gin.Context) {
	profile, _ := middleware.GetProfile(c)

	html, err := h.editorService.PreviewHTML(c.Param("id"), profile.AccountID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// PostSyncServices materializes the user's service catalog into the live
// document's service block
func (h *EditorHandlers) PostSyncServices(c *gin.Context) {
	profile, _ := middleware.GetProfile(c)

	count, found, err := h.editorService.SyncServices(c.Param("id"), profile.AccountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no service block detected in template"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"syncedCards": count})
}

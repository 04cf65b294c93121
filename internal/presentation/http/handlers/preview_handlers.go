package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/SiteWright/sitewright-go/internal/application/services"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/messaging"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/logging"
	"github.com/SiteWright/sitewright-go/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	previewWriteWait = 10 * time.Second
	previewPingWait  = 54 * time.Second
	previewPongWait  = 60 * time.Second
)

// PreviewHandlers contains the WebSocket transport for live preview updates
type PreviewHandlers struct {
	broadcaster    messaging.PreviewBroadcaster
	websiteService *services.WebsiteService
	logger         *logging.ChanneledLogger
	upgrader       websocket.Upgrader
}

// NewPreviewHandlers creates preview handlers with injected dependencies
func NewPreviewHandlers(broadcaster messaging.PreviewBroadcaster, websiteService *services.WebsiteService, logger *logging.ChanneledLogger) *PreviewHandlers {
	return &PreviewHandlers{
		broadcaster:    broadcaster,
		websiteService: websiteService,
		logger:         logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     isAllowedPreviewOrigin,
		},
	}
}

// isAllowedPreviewOrigin mirrors the CORS policy for the upgrade handshake.
func isAllowedPreviewOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, prefix := range []string{"http://localhost:", "http://127.0.0.1:", "http://[::1]:"} {
		if strings.HasPrefix(origin, prefix) {
			return true
		}
	}
	return false
}

// GetPreviewSocket upgrades the connection and streams edit events for one
// website. Browsers cannot set an Authorization header on the upgrade
// request, so the auth middleware also accepts a token query parameter.
func (h *PreviewHandlers) GetPreviewSocket(c *gin.Context) {
	profile, _ := middleware.GetProfile(c)
	websiteID := c.Param("id")

	website, err := h.websiteService.GetForUser(websiteID, profile.AccountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if website == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "website not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Preview().Warn("WebSocket upgrade failed", "websiteId", websiteID, "error", err)
		return
	}

	messages := h.broadcaster.AddClient(websiteID)
	h.logger.Preview().Info("Preview socket opened",
		"websiteId", websiteID, "viewers", h.broadcaster.GetConnectionCount(websiteID))

	go h.writePump(conn, messages, websiteID)
	h.readPump(conn, messages, websiteID)
}

// writePump drains the subscriber channel onto the socket and keeps the
// connection alive with pings.
func (h *PreviewHandlers) writePump(conn *websocket.Conn, messages chan string, websiteID string) {
	ticker := time.NewTicker(previewPingWait)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-messages:
			conn.SetWriteDeadline(time.Now().Add(previewWriteWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(message)); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(previewWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames and unregisters the subscriber when the
// client goes away. Preview sockets are one-directional.
func (h *PreviewHandlers) readPump(conn *websocket.Conn, messages chan string, websiteID string) {
	defer func() {
		h.broadcaster.RemoveClient(messages, websiteID)
		conn.Close()
		h.logger.Preview().Info("Preview socket closed", "websiteId", websiteID)
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(previewPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(previewPongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

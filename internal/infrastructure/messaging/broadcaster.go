// Package messaging provides the concrete implementation of the preview broadcaster.
package messaging

import (
	"encoding/json"
	"sync"

	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/logging"
)

// PreviewHub manages website-scoped preview subscriptions. Each subscriber
// gets a buffered channel; the transport layer pumps it to the socket.
type PreviewHub struct {
	websiteClients map[string][]chan string // websiteId -> []channels
	mu             sync.Mutex
	logger         *logging.ChanneledLogger
}

var (
	globalHub *PreviewHub
	once      sync.Once
)

// NewPreviewHub creates the singleton PreviewHub instance.
func NewPreviewHub(logger *logging.ChanneledLogger) *PreviewHub {
	once.Do(func() {
		globalHub = &PreviewHub{
			websiteClients: make(map[string][]chan string),
			logger:         logger,
		}
	})
	return globalHub
}

// AddClient registers a new preview subscriber for a website.
func (h *PreviewHub) AddClient(websiteID string) chan string {
	ch := make(chan string, 10)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.websiteClients[websiteID] = append(h.websiteClients[websiteID], ch)

	h.logger.Preview().Debug("Preview client registered", "websiteId", websiteID)
	return ch
}

// RemoveClient removes a preview subscriber.
func (h *PreviewHub) RemoveClient(ch chan string, websiteID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, exists := h.websiteClients[websiteID]; exists {
		newClients := make([]chan string, 0, len(clients))
		for _, client := range clients {
			if client != ch {
				newClients = append(newClients, client)
			}
		}
		if len(newClients) == 0 {
			delete(h.websiteClients, websiteID)
		} else {
			h.websiteClients[websiteID] = newClients
		}
	}
	h.logger.Preview().Debug("Preview client unregistered", "websiteId", websiteID)
}

// GetConnectionCount returns the subscriber count for a website.
func (h *PreviewHub) GetConnectionCount(websiteID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.websiteClients[websiteID])
}

// BroadcastPreviewUpdate pushes an edit event to every subscriber of a
// website. Slow subscribers get dropped messages, never a blocked editor.
func (h *PreviewHub) BroadcastPreviewUpdate(websiteID, event string, keys []string) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Preview().Error("Panic recovered in BroadcastPreviewUpdate", "error", r, "websiteId", websiteID)
		}
	}()

	payload, err := json.Marshal(map[string]any{
		"event":     event,
		"websiteId": websiteID,
		"keys":      keys,
	})
	if err != nil {
		h.logger.Preview().Error("Failed to encode preview event", "error", err.Error(), "websiteId", websiteID)
		return
	}
	message := string(payload)

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.websiteClients[websiteID] {
		select {
		case ch <- message:
		default:
			h.logger.Preview().Warn("Preview channel full, message dropped", "websiteId", websiteID)
		}
	}
}

// HasViewers checks whether anyone is watching a website's preview.
func (h *PreviewHub) HasViewers(websiteID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.websiteClients[websiteID]) > 0
}

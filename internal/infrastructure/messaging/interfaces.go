// Package messaging defines interfaces for real-time communication.
package messaging

// PreviewBroadcaster manages live preview subscriptions and pushes edit
// events to everyone watching a website.
type PreviewBroadcaster interface {
	AddClient(websiteID string) chan string
	RemoveClient(ch chan string, websiteID string)
	GetConnectionCount(websiteID string) int
	BroadcastPreviewUpdate(websiteID, event string, keys []string)
	HasViewers(websiteID string) bool
}

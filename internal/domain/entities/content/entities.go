// Package content defines the application's core content-related domain entities.
package content

import "time"

// WebsiteStatus enumerates the lifecycle states of a customized website.
type WebsiteStatus string

const (
	StatusDraft     WebsiteStatus = "draft"
	StatusPublished WebsiteStatus = "published"
)

// TemplateNode is the immutable baseline a website starts from: opaque
// HTML/CSS/JS text plus catalog metadata. Produced by the upload pipeline,
// read-only input to the editing engine.
type TemplateNode struct {
	ID          string     `json:"id"`
	NodeType    string     `json:"nodeType"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Description *string    `json:"description,omitempty"`
	HTML        string     `json:"html"`
	PreviewPath *string    `json:"previewPath,omitempty"`
	Created     time.Time  `json:"created"`
	Changed     *time.Time `json:"changed,omitempty"`
}

// WebsiteNode is the persisted container for one user's customization of one
// template. Customizations is the flat key/value Customization Map; SavedContent
// is the compiled standalone snapshot derived from (template, customizations).
type WebsiteNode struct {
	ID             string            `json:"id"`
	NodeType       string            `json:"nodeType"`
	TemplateID     string            `json:"templateId"`
	UserID         string            `json:"userId"`
	WebsiteName    string            `json:"websiteName"`
	Customizations map[string]string `json:"customizations,omitempty"`
	SavedContent   string            `json:"savedContent,omitempty"`
	TemplateHash   string            `json:"templateHash,omitempty"`
	Status         WebsiteStatus     `json:"status"`
	Created        time.Time         `json:"created"`
	Changed        *time.Time        `json:"changed,omitempty"`
}

// PublishNode is one published snapshot of a website: the compiled standalone
// document plus the template fingerprint it was built against.
type PublishNode struct {
	ID           string    `json:"id"`
	NodeType     string    `json:"nodeType"`
	WebsiteID    string    `json:"websiteId"`
	SnapshotHTML string    `json:"snapshotHtml"`
	TemplateHash string    `json:"templateHash,omitempty"`
	Created      time.Time `json:"created"`
}

// PricedServiceNode is one entry of the external pricing catalog consumed by
// the service block synchronizer. PaymentURL is stored encrypted at rest.
type PricedServiceNode struct {
	ID          string     `json:"id"`
	NodeType    string     `json:"nodeType"`
	UserID      string     `json:"userId"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       string     `json:"price"`
	PaymentURL  string     `json:"paymentUrl,omitempty"`
	Created     time.Time  `json:"created"`
	Changed     *time.Time `json:"changed,omitempty"`
}

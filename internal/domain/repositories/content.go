// Package repositories defines the repository interfaces for content entities.
// These repositories abstract the data persistence details, ensuring the core
// application is clean and decoupled from the database.
package repositories

import (
	"github.com/SiteWright/sitewright-go/internal/domain/entities/content"
)

type TemplateRepository interface {
	FindByID(id string) (*content.TemplateNode, error)
	FindAll() ([]*content.TemplateNode, error)
	FindByIDs(ids []string) ([]*content.TemplateNode, error)
	FindByCategory(category string) ([]*content.TemplateNode, error)
	Store(template *content.TemplateNode) error
	Update(template *content.TemplateNode) error
	Delete(id string) error
}

type WebsiteRepository interface {
	FindByID(id string) (*content.WebsiteNode, error)
	FindByUserID(userID string) ([]*content.WebsiteNode, error)
	FindByUserAndTemplate(userID, templateID string) (*content.WebsiteNode, error)
	FindAll() ([]*content.WebsiteNode, error)
	Store(website *content.WebsiteNode) error
	Update(website *content.WebsiteNode) error
	Delete(id string) error
}

type ServiceRepository interface {
	FindByID(id string) (*content.PricedServiceNode, error)
	FindByUserID(userID string) ([]*content.PricedServiceNode, error)
	Store(service *content.PricedServiceNode) error
	Update(service *content.PricedServiceNode) error
	Delete(id string) error
}

type PublishRepository interface {
	FindLatestByWebsiteID(websiteID string) (*content.PublishNode, error)
	FindByWebsiteID(websiteID string) ([]*content.PublishNode, error)
	Store(publish *content.PublishNode) error
}

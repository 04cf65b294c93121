// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/SiteWright/sitewright-go/internal/application/services"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/caching/manager"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/email"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/media"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/messaging"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/logging"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/performance"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/persistence/content"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/persistence/database"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/persistence/user"
	"github.com/SiteWright/sitewright-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application services (stateless singletons, except EditorService which
	// keeps the in-memory editor table)
	AuthService           *services.AuthService
	TemplateService       *services.TemplateService
	WebsiteService        *services.WebsiteService
	EditorService         *services.EditorService
	ServiceCatalogService *services.ServiceCatalogService
	PublishService        *services.PublishService

	// Infrastructure dependencies
	DB            *database.DB
	CacheManager  *manager.Manager
	PreviewHub    *messaging.PreviewHub
	ImageEmbedder *media.ImageEmbedder
	EmailService  email.Service
	Logger        *logging.ChanneledLogger
	PerfTracker   *performance.Tracker
}

// NewContainer creates and wires all singleton services
func NewContainer(db *database.DB, cacheManager *manager.Manager, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *Container {
	templateRepo := content.NewTemplateRepository(db.DB, cacheManager)
	websiteRepo := content.NewWebsiteRepository(db.DB, cacheManager)
	serviceRepo := content.NewServiceRepository(db.DB, cacheManager, config.AESKey)
	publishRepo := content.NewPublishRepository(db.DB)
	accountRepo := user.NewSQLAccountRepository(db, logger)

	previewHub := messaging.NewPreviewHub(logger)
	embedder := media.NewImageEmbedder(config.MediaPath)

	emailService, err := email.NewService()
	if err != nil {
		logger.System().Warn("Email service disabled", "reason", err.Error())
		emailService = nil
	}

	websiteService := services.NewWebsiteService(websiteRepo, templateRepo, logger, perfTracker)

	return &Container{
		AuthService:           services.NewAuthService(logger, perfTracker, accountRepo, emailService, config.JWTSecret),
		TemplateService:       services.NewTemplateService(templateRepo, embedder, logger),
		WebsiteService:        websiteService,
		EditorService:         services.NewEditorService(websiteService, templateRepo, serviceRepo, cacheManager, previewHub, logger, perfTracker),
		ServiceCatalogService: services.NewServiceCatalogService(serviceRepo, logger),
		PublishService:        services.NewPublishService(websiteService, templateRepo, serviceRepo, publishRepo, accountRepo, cacheManager, emailService, logger, perfTracker, config.PublishBaseURL),

		DB:            db,
		CacheManager:  cacheManager,
		PreviewHub:    previewHub,
		ImageEmbedder: embedder,
		EmailService:  emailService,
		Logger:        logger,
		PerfTracker:   perfTracker,
	}
}

// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/SiteWright/sitewright-go/internal/application/container"
	"github.com/SiteWright/sitewright-go/internal/presentation/http/handlers"
	"github.com/SiteWright/sitewright-go/internal/presentation/http/middleware"
	"github.com/SiteWright/sitewright-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Template preview images are written under the media path on upload.
	r.Static("/media", config.MediaPath)

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger)
	templateHandlers := handlers.NewTemplateHandlers(container.TemplateService, container.Logger)
	websiteHandlers := handlers.NewWebsiteHandlers(container.WebsiteService, container.EditorService, container.Logger)
	editorHandlers := handlers.NewEditorHandlers(container.EditorService, container.Logger)
	serviceHandlers := handlers.NewServiceHandlers(container.ServiceCatalogService, container.Logger)
	mediaHandlers := handlers.NewMediaHandlers(container.ImageEmbedder, container.Logger)
	previewHandlers := handlers.NewPreviewHandlers(container.PreviewHub, container.WebsiteService, container.Logger)
	publishHandlers := handlers.NewPublishHandlers(container.PublishService, container.Logger)
	systemHandlers := handlers.NewSystemHandlers(container.DB, container.CacheManager, container.PerfTracker, container.Logger)

	r.GET("/health", systemHandlers.GetHealth)

	// Published snapshots are the public face of a website and live outside
	// the API prefix.
	r.GET("/sites/:id", publishHandlers.GetPublishedSite)

	api := r.Group("/api/v1")
	{
		// Authentication
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandlers.PostRegister)
			auth.POST("/login", authHandlers.PostLogin)
		}

		// Template catalog reads are public so the picker works before login
		api.GET("/templates", templateHandlers.GetTemplates)
		api.GET("/templates/:id", templateHandlers.GetTemplateByID)

		// Authenticated routes
		authed := api.Group("/")
		authed.Use(middleware.AuthMiddleware(container.AuthService))
		{
			authed.GET("/auth/profile", authHandlers.GetProfile)

			authed.POST("/templates", templateHandlers.CreateTemplate)
			authed.DELETE("/templates/:id", templateHandlers.DeleteTemplate)

			websites := authed.Group("/websites")
			{
				websites.GET("", websiteHandlers.GetWebsites)
				websites.POST("", websiteHandlers.PostWebsite)
				websites.GET("/:id", websiteHandlers.GetWebsiteByID)
				websites.PUT("/:id", websiteHandlers.PutWebsite)
				websites.DELETE("/:id", websiteHandlers.DeleteWebsite)

				// Live editing
				websites.GET("/:id/editor", editorHandlers.GetEditor)
				websites.POST("/:id/editor/session", editorHandlers.PostSession)
				websites.POST("/:id/editor/stage", editorHandlers.PostStage)
				websites.POST("/:id/editor/commit", editorHandlers.PostCommit)
				websites.POST("/:id/editor/cancel", editorHandlers.PostCancel)
				websites.GET("/:id/editor/preview", editorHandlers.GetPreview)
				websites.POST("/:id/editor/sync-services", editorHandlers.PostSyncServices)
				websites.GET("/:id/editor/ws", previewHandlers.GetPreviewSocket)

				// Publishing
				websites.POST("/:id/publish", publishHandlers.PostPublish)
				websites.GET("/:id/publishes", publishHandlers.GetPublishHistory)
			}

			servicesGroup := authed.Group("/services")
			{
				servicesGroup.GET("", serviceHandlers.GetServices)
				servicesGroup.POST("", serviceHandlers.PostService)
				servicesGroup.PUT("/:id", serviceHandlers.PutService)
				servicesGroup.DELETE("/:id", serviceHandlers.DeleteService)
			}

			authed.POST("/media/embed", mediaHandlers.PostEmbed)

			system := authed.Group("/system")
			{
				system.GET("/stats", systemHandlers.GetSystemStats)
				system.POST("/cache/invalidate", systemHandlers.PostCacheInvalidate)
			}
		}
	}

	return r
}

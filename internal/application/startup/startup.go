// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/SiteWright/sitewright-go/internal/application/container"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/caching/manager"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/logging"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/performance"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/persistence/database"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/security"
	"github.com/SiteWright/sitewright-go/internal/presentation/http/server"
	"github.com/SiteWright/sitewright-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// Initialize performs the complete startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	log.Println("\033[32m" + `

  ___ _ _      __    __    _      _   _
 / __(_) |_ __\ \  / /_ __(_) __ | |_| |
 \__ \ | __/ _ \ \/\/ / '__| |/ _' | _| |
 |__/ / | ||  __/\_/\_/| |  | | (_| | |_|
 |___/|_|\__\___|      |_|  |_|\__, |\__|
                               |___/
` + "\033[97m" + `
  your website, built your way
` + "\033[0m")

	// Step 1: Ensure secrets exist before touching anything else. Generated
	// secrets are ephemeral; sessions and encrypted payloads do not survive a
	// restart without JWT_SECRET and AES_KEY set in the environment.
	log.Println("Validating configuration...")
	if config.JWTSecret == "" {
		secret, err := security.GenerateSecureKey(64)
		if err != nil {
			return fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		config.JWTSecret = secret
		log.Println("WARNING: JWT_SECRET not set, generated an ephemeral secret for this run")
	}
	if config.AESKey == "" {
		key, err := security.GenerateSecureKey(64)
		if err != nil {
			return fmt.Errorf("failed to generate AES key: %w", err)
		}
		config.AESKey = key
		log.Println("WARNING: AES_KEY not set, generated an ephemeral key for this run")
	}

	// Step 2: Initialize channeled logging
	log.Println("Initializing logging...")
	loggerConfig := logging.DefaultLoggerConfig()
	loggerConfig.LogDirectory = config.LogDirectory
	loggerConfig.DefaultLevel = parseLogLevel(config.LogLevel)
	logger, err := logging.NewChanneledLogger(loggerConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.Startup().Info("Channeled logging initialized", "directory", config.LogDirectory, "level", config.LogLevel)

	// Step 3: Initialize performance tracking
	perfTracker := performance.NewTracker(nil)
	trackerCtx, stopTracker := context.WithCancel(context.Background())
	defer stopTracker()
	perfTracker.StartCleanupLoop(trackerCtx)
	logger.Startup().Info("Performance tracker initialized")

	// Step 4: Connect to the database
	logger.Startup().Info("Connecting to database...")
	startDBTime := time.Now()

	driverName := "sqlite3"
	dataSourceName := config.SQLitePath
	if config.TursoDatabaseURL != "" {
		if err := database.TestTursoConnectionWithLogger(config.TursoDatabaseURL, config.TursoAuthToken, logger); err != nil {
			return fmt.Errorf("turso connection test failed: %w", err)
		}
		driverName = "libsql"
		dataSourceName = config.TursoDatabaseURL + "?authToken=" + config.TursoAuthToken
	}

	db, err := database.NewConnectionWithLogger(driverName, dataSourceName, logger)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(config.DBMaxOpenConns)
	db.SetMaxIdleConns(config.DBMaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(config.DBConnMaxLifetimeMinutes) * time.Minute)
	db.SetConnMaxIdleTime(time.Duration(config.DBConnMaxIdleMinutes) * time.Minute)

	logger.Startup().Info("Database connected", "driver", driverName, "duration", time.Since(startDBTime))

	// Step 5: Create schema and seed the starter template
	logger.Startup().Info("Ensuring database schema...")
	tableCreator := database.NewTableCreator()
	if err := tableCreator.CreateSchema(db.DB); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}
	if err := tableCreator.SeedInitialContent(db.DB); err != nil {
		return fmt.Errorf("content seeding failed: %w", err)
	}
	logger.Startup().Info("Database schema ready")

	// Step 6: Initialize cache system
	logger.Startup().Info("Initializing cache system...")
	cacheManager := manager.NewManager(logger)

	// Step 7: Create dependency injection container
	logger.Startup().Info("Initializing dependency injection container...")
	appContainer := container.NewContainer(db, cacheManager, logger, perfTracker)
	logger.Startup().Info("Container initialization complete")

	// Step 8: Start HTTP server
	startServerTime := time.Now()
	httpServer := server.New(config.Port, appContainer)
	logger.Startup().Info("HTTP server initialized", "port", config.Port, "duration", time.Since(startServerTime))

	// Step 9: Setup graceful shutdown
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+config.Port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Closing database connection...")
	if err := db.Close(); err != nil {
		logger.Shutdown().Error("Error closing database", "error", err.Error())
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

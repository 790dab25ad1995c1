package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/verdantworks/crm-api/docs"
	"github.com/verdantworks/crm-api/internal/auth"
	"github.com/verdantworks/crm-api/internal/config"
	"github.com/verdantworks/crm-api/internal/database"
	"github.com/verdantworks/crm-api/internal/http/handler"
	"github.com/verdantworks/crm-api/internal/http/middleware"
	"github.com/verdantworks/crm-api/internal/http/router"
	"github.com/verdantworks/crm-api/internal/jobs"
	"github.com/verdantworks/crm-api/internal/logger"
	"github.com/verdantworks/crm-api/internal/pdf"
	"github.com/verdantworks/crm-api/internal/repository"
	"github.com/verdantworks/crm-api/internal/service"
	"github.com/verdantworks/crm-api/internal/storage"
)

// @title Verdant CRM API
// @version 1.0
// @description CRM API for landscaping companies: companies, contacts, deals, proposals with priced line items and PDF export
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@verdantlandscapes.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations
// @Security BearerAuth
// @Security ApiKeyAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "crm-staging.verdantlandscapes.com"
	case "production":
		docs.SwaggerInfo.Host = "crm.verdantlandscapes.com"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize storage
	store, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize repositories
	companyRepo := repository.NewCompanyRepository(db)
	contactRepo := repository.NewContactRepository(db)
	dealRepo := repository.NewDealRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	productRepo := repository.NewProductRepository(db)
	jobRepo := repository.NewJobRepository(db)
	proposalRepo := repository.NewProposalRepository(db)
	proposalItemRepo := repository.NewProposalItemRepository(db)
	fileRepo := repository.NewFileRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// Initialize services
	// Activity service first (most services log into it)
	activityService := service.NewActivityService(activityRepo, log)

	companyService := service.NewCompanyService(companyRepo, activityService, log)
	contactService := service.NewContactService(contactRepo, log)
	dealService := service.NewDealService(dealRepo, activityService, log)
	propertyService := service.NewPropertyService(propertyRepo, log)
	productService := service.NewProductService(productRepo, log)
	jobService := service.NewJobService(jobRepo, activityService, log)
	fileService := service.NewFileService(fileRepo, store, activityService, log)
	artifactService := service.NewArtifactService(store, log)

	renderer := pdf.NewRenderer(pdf.Branding{
		CompanyName: cfg.PDF.CompanyName,
		Tagline:     cfg.PDF.Tagline,
		LogoPath:    cfg.PDF.LogoPath,
		ContactLine: cfg.PDF.ContactLine,
	})

	proposalService := service.NewProposalService(
		proposalRepo,
		proposalItemRepo,
		artifactService,
		activityService,
		renderer,
		log,
		cfg.Artifacts.RetentionCount,
		cfg.Artifacts.SignedURLTTLDuration(),
	)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	companyHandler := handler.NewCompanyHandler(companyService, log)
	contactHandler := handler.NewContactHandler(contactService, log)
	dealHandler := handler.NewDealHandler(dealService, log)
	propertyHandler := handler.NewPropertyHandler(propertyService, log)
	productHandler := handler.NewProductHandler(productService, log)
	jobHandler := handler.NewJobHandler(jobService, log)
	proposalHandler := handler.NewProposalHandler(proposalService, log)
	fileHandler := handler.NewFileHandler(fileService, cfg.Storage.MaxUploadSizeMB, log)
	activityHandler := handler.NewActivityHandler(activityService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		companyHandler,
		contactHandler,
		dealHandler,
		propertyHandler,
		productHandler,
		jobHandler,
		proposalHandler,
		fileHandler,
		activityHandler,
	)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Artifacts.PruneSchedule != "" && cfg.Artifacts.RetentionCount > 0 {
		scheduler = jobs.NewScheduler(log)

		retentionJob := jobs.NewArtifactRetentionJob(proposalService, log, 10*time.Minute)
		if err := scheduler.AddJob(jobs.ArtifactRetentionJobName, cfg.Artifacts.PruneSchedule, retentionJob.Run); err != nil {
			log.Error("Failed to register artifact retention job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with artifact retention job",
				zap.String("cron_expr", cfg.Artifacts.PruneSchedule),
				zap.Int("retention_count", cfg.Artifacts.RetentionCount),
			)
		}
	} else {
		log.Info("Artifact retention job disabled",
			zap.String("prune_schedule", cfg.Artifacts.PruneSchedule),
			zap.Int("retention_count", cfg.Artifacts.RetentionCount),
		)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}

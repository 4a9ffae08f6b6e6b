package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fixline/complaint-api/docs"
	"github.com/fixline/complaint-api/internal/auth"
	"github.com/fixline/complaint-api/internal/config"
	"github.com/fixline/complaint-api/internal/database"
	"github.com/fixline/complaint-api/internal/http/handler"
	"github.com/fixline/complaint-api/internal/http/middleware"
	"github.com/fixline/complaint-api/internal/http/router"
	"github.com/fixline/complaint-api/internal/jobs"
	"github.com/fixline/complaint-api/internal/logger"
	"github.com/fixline/complaint-api/internal/notify"
	"github.com/fixline/complaint-api/internal/repository"
	"github.com/fixline/complaint-api/internal/service"
	"go.uber.org/zap"
)

// @title Fixline Complaint API
// @version 1.0
// @description Consumer repair complaint tracking with lifecycle workflow and notification fan-out

// @contact.name API Support
// @contact.email support@fixline.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

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
		docs.SwaggerInfo.Host = "complaints-staging.fixline.io"
	case "production":
		docs.SwaggerInfo.Host = "api.fixline.io"
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

	// Initialize repositories
	complaintRepo := repository.NewComplaintRepository(db)
	remarkRepo := repository.NewRemarkRepository(db)
	historyRepo := repository.NewForwardHistoryRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)
	reportSequenceRepo := repository.NewReportSequenceRepository(db)

	// Initialize services
	reportNumberService := service.NewReportNumberService(reportSequenceRepo, log)
	dispatcher := service.NewNotificationDispatcher(notificationRepo, userRepo, log)
	complaintService := service.NewComplaintService(
		complaintRepo,
		remarkRepo,
		historyRepo,
		userRepo,
		reportNumberService,
		dispatcher,
		log,
	)
	resolver := notify.NewResolver(notify.DefaultCatalog())
	notificationService := service.NewNotificationService(notificationRepo, resolver, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	complaintHandler := handler.NewComplaintHandler(complaintService, log)
	remarkHandler := handler.NewRemarkHandler(complaintService, log)
	notificationHandler := handler.NewNotificationHandler(notificationService, log)
	authHandler := handler.NewAuthHandler(userRepo, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		complaintHandler,
		remarkHandler,
		notificationHandler,
		authHandler,
	)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.ReminderEnabled {
		scheduler = jobs.NewScheduler(log)

		reminderJob := jobs.NewPendingReminderJob(complaintRepo, dispatcher, log, cfg.Jobs.PendingAge())
		if err := scheduler.AddJob(jobs.PendingReminderJobName, cfg.Jobs.ReminderCron, reminderJob.Run); err != nil {
			log.Error("Failed to register pending reminder job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with pending reminder job",
				zap.String("cron_expr", cfg.Jobs.ReminderCron),
				zap.Int("pending_age_days", cfg.Jobs.PendingAgeDays),
			)
		}
	} else {
		log.Info("Pending reminder job disabled")
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

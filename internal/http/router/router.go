package router

import (
	"encoding/json"
	"net/http"

	"github.com/fixline/complaint-api/internal/auth"
	"github.com/fixline/complaint-api/internal/config"
	"github.com/fixline/complaint-api/internal/database"
	"github.com/fixline/complaint-api/internal/http/handler"
	"github.com/fixline/complaint-api/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/fixline/complaint-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                 *config.Config
	logger              *zap.Logger
	db                  *gorm.DB
	authMiddleware      *auth.Middleware
	rateLimiter         *middleware.RateLimiter
	complaintHandler    *handler.ComplaintHandler
	remarkHandler       *handler.RemarkHandler
	notificationHandler *handler.NotificationHandler
	authHandler         *handler.AuthHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	complaintHandler *handler.ComplaintHandler,
	remarkHandler *handler.RemarkHandler,
	notificationHandler *handler.NotificationHandler,
	authHandler *handler.AuthHandler,
) *Router {
	return &Router{
		cfg:                 cfg,
		logger:              logger,
		db:                  db,
		authMiddleware:      authMiddleware,
		rateLimiter:         rateLimiter,
		complaintHandler:    complaintHandler,
		remarkHandler:       remarkHandler,
		notificationHandler: notificationHandler,
		authHandler:         authHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Combined readiness check
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// All workflow routes require authentication
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			// Current account
			r.Get("/auth/me", rt.authHandler.Me)

			// Complaints
			r.Route("/complaints", func(r chi.Router) {
				r.Get("/", rt.complaintHandler.List)
				r.Post("/", rt.complaintHandler.Create)
				r.Get("/{id}", rt.complaintHandler.GetByID)
				r.Post("/{id}/forward", rt.complaintHandler.Forward)
				r.Put("/{id}/status", rt.complaintHandler.UpdateStatus)
				r.Post("/{id}/cancel", rt.complaintHandler.Cancel)
				r.Get("/{id}/forward-history", rt.complaintHandler.GetForwardHistory)
				r.Get("/{id}/remarks", rt.complaintHandler.ListRemarks)
				r.Post("/{id}/remarks", rt.complaintHandler.AddRemark)
			})

			// Remarks addressed directly
			r.Route("/remarks", func(r chi.Router) {
				r.Put("/{id}", rt.remarkHandler.Update)
				r.Delete("/{id}", rt.remarkHandler.Delete)
			})

			// Notifications
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", rt.notificationHandler.List)
				r.Get("/count", rt.notificationHandler.GetUnreadCount)
				r.Put("/read-all", rt.notificationHandler.MarkAllAsRead)
				r.Get("/{id}", rt.notificationHandler.GetByID)
				r.Put("/{id}/read", rt.notificationHandler.MarkAsRead)
			})
		})
	})

	return r
}

package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/verdantworks/crm-api/internal/auth"
	"github.com/verdantworks/crm-api/internal/config"
	"github.com/verdantworks/crm-api/internal/database"
	"github.com/verdantworks/crm-api/internal/http/handler"
	"github.com/verdantworks/crm-api/internal/http/middleware"

	_ "github.com/verdantworks/crm-api/docs" // generated swagger docs
)

type Router struct {
	cfg             *config.Config
	logger          *zap.Logger
	db              *gorm.DB
	authMiddleware  *auth.Middleware
	rateLimiter     *middleware.RateLimiter
	companyHandler  *handler.CompanyHandler
	contactHandler  *handler.ContactHandler
	dealHandler     *handler.DealHandler
	propertyHandler *handler.PropertyHandler
	productHandler  *handler.ProductHandler
	jobHandler      *handler.JobHandler
	proposalHandler *handler.ProposalHandler
	fileHandler     *handler.FileHandler
	activityHandler *handler.ActivityHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	companyHandler *handler.CompanyHandler,
	contactHandler *handler.ContactHandler,
	dealHandler *handler.DealHandler,
	propertyHandler *handler.PropertyHandler,
	productHandler *handler.ProductHandler,
	jobHandler *handler.JobHandler,
	proposalHandler *handler.ProposalHandler,
	fileHandler *handler.FileHandler,
	activityHandler *handler.ActivityHandler,
) *Router {
	return &Router{
		cfg:             cfg,
		logger:          logger,
		db:              db,
		authMiddleware:  authMiddleware,
		rateLimiter:     rateLimiter,
		companyHandler:  companyHandler,
		contactHandler:  contactHandler,
		dealHandler:     dealHandler,
		propertyHandler: propertyHandler,
		productHandler:  productHandler,
		jobHandler:      jobHandler,
		proposalHandler: proposalHandler,
		fileHandler:     fileHandler,
		activityHandler: activityHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Liveness probe
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Readiness probe with connection pool stats
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
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
		status := "healthy"
		code := http.StatusOK
		if !allHealthy {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)

			// Companies
			r.Route("/companies", func(r chi.Router) {
				r.Get("/", rt.companyHandler.ListCompanies)
				r.Post("/", rt.companyHandler.CreateCompany)
				r.Get("/search", rt.companyHandler.SearchCompanies)
				r.Get("/{id}", rt.companyHandler.GetCompany)
				r.Put("/{id}", rt.companyHandler.UpdateCompany)
				r.Delete("/{id}", rt.companyHandler.DeleteCompany)
			})

			// Contacts
			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", rt.contactHandler.ListContacts)
				r.Post("/", rt.contactHandler.CreateContact)
				r.Get("/search", rt.contactHandler.SearchContacts)
				r.Get("/{id}", rt.contactHandler.GetContact)
				r.Put("/{id}", rt.contactHandler.UpdateContact)
				r.Delete("/{id}", rt.contactHandler.DeleteContact)
			})

			// Deals
			r.Route("/deals", func(r chi.Router) {
				r.Get("/", rt.dealHandler.ListDeals)
				r.Post("/", rt.dealHandler.CreateDeal)
				r.Get("/pipeline-value", rt.dealHandler.GetPipelineValue)
				r.Get("/{id}", rt.dealHandler.GetDeal)
				r.Put("/{id}", rt.dealHandler.UpdateDeal)
				r.Delete("/{id}", rt.dealHandler.DeleteDeal)
			})

			// Properties
			r.Route("/properties", func(r chi.Router) {
				r.Get("/", rt.propertyHandler.ListProperties)
				r.Post("/", rt.propertyHandler.CreateProperty)
				r.Get("/{id}", rt.propertyHandler.GetProperty)
				r.Put("/{id}", rt.propertyHandler.UpdateProperty)
				r.Delete("/{id}", rt.propertyHandler.DeleteProperty)
			})

			// Products
			r.Route("/products", func(r chi.Router) {
				r.Get("/", rt.productHandler.ListProducts)
				r.Post("/", rt.productHandler.CreateProduct)
				r.Get("/search", rt.productHandler.SearchProducts)
				r.Get("/{id}", rt.productHandler.GetProduct)
				r.Put("/{id}", rt.productHandler.UpdateProduct)
				r.Delete("/{id}", rt.productHandler.DeleteProduct)
			})

			// Jobs
			r.Route("/jobs", func(r chi.Router) {
				r.Get("/", rt.jobHandler.ListJobs)
				r.Post("/", rt.jobHandler.CreateJob)
				r.Get("/{id}", rt.jobHandler.GetJob)
				r.Put("/{id}", rt.jobHandler.UpdateJob)
				r.Delete("/{id}", rt.jobHandler.DeleteJob)
			})

			// Proposals
			r.Route("/proposals", func(r chi.Router) {
				r.Get("/", rt.proposalHandler.ListProposals)
				r.Post("/", rt.proposalHandler.CreateProposal)
				r.Get("/search", rt.proposalHandler.SearchProposals)
				r.Get("/{id}", rt.proposalHandler.GetProposal)
				r.Put("/{id}", rt.proposalHandler.UpdateProposal)
				r.Delete("/{id}", rt.proposalHandler.DeleteProposal)

				// Line items
				r.Put("/{id}/items", rt.proposalHandler.SyncItems)

				// Pricing and export
				r.Get("/{id}/pricing", rt.proposalHandler.GetPricing)
				r.Post("/{id}/export", rt.proposalHandler.ExportProposal)

				// Artifacts and attachments
				r.Get("/{id}/artifacts", rt.proposalHandler.ListArtifacts)
				r.Get("/{id}/artifacts/url", rt.proposalHandler.GetArtifactURL)
				r.Get("/{id}/files", rt.fileHandler.ListProposalFiles)
			})

			// Files
			r.Route("/files", func(r chi.Router) {
				r.Post("/", rt.fileHandler.UploadFile)
				r.Get("/{id}", rt.fileHandler.DownloadFile)
				r.Delete("/{id}", rt.fileHandler.DeleteFile)
			})

			// Activities
			r.Route("/activities", func(r chi.Router) {
				r.Get("/", rt.activityHandler.ListRecentActivities)
				r.Post("/", rt.activityHandler.CreateActivity)
				r.Get("/target", rt.activityHandler.ListActivitiesForTarget)
			})
		})
	})

	return r
}

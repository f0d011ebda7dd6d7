package router

import (
	"net/http"

	"github.com/bloomhouse/admin-console/internal/auth"
	"github.com/bloomhouse/admin-console/internal/config"
	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/http/handler"
	"github.com/bloomhouse/admin-console/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/bloomhouse/admin-console/docs" // Import generated swagger docs
)

// Handlers groups the panel handlers mounted by the router
type Handlers struct {
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	Dashboard    *handler.DashboardHandler
	Product      *handler.ProductHandler
	Order        *handler.OrderHandler
	Class        *handler.ClassHandler
	Instructor   *handler.InstructorHandler
	Coupon       *handler.CouponHandler
	Feedback     *handler.FeedbackHandler
	OfficeTiming *handler.OfficeTimingHandler
	EventPricing *handler.EventPricingHandler
	Impact       *handler.ImpactHandler
	PayLater     *handler.PayLaterHandler
	List         *handler.ListHandler
	Upload       *handler.UploadHandler
	Tools        *handler.ToolsHandler
	Audit        *handler.AuditHandler
}

type Router struct {
	cfg             *config.Config
	logger          *zap.Logger
	authMiddleware  *auth.Middleware
	rateLimiter     *middleware.RateLimiter
	auditMiddleware *middleware.AuditMiddleware
	h               Handlers
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	auditMiddleware *middleware.AuditMiddleware,
	handlers Handlers,
) *Router {
	return &Router{
		cfg:             cfg,
		logger:          logger,
		authMiddleware:  authMiddleware,
		rateLimiter:     rateLimiter,
		auditMiddleware: auditMiddleware,
		h:               handlers,
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

	r.Get("/health", rt.h.Health.Live)
	r.Get("/health/db", rt.h.Health.Database)
	r.Get("/health/ready", rt.h.Health.Ready)

	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	adminOnly := rt.authMiddleware.RequireRole(domain.StaffRole(rt.cfg.Auth.AdminRole))

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.With(rt.rateLimiter.LimitLogin).Post("/auth/login", rt.h.Auth.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)
			r.Use(rt.auditMiddleware.Audit)

			r.Get("/auth/me", rt.h.Auth.Me)
			r.Get("/dashboard", rt.h.Dashboard.GetSummary)

			r.Route("/products", func(r chi.Router) {
				r.Get("/", rt.h.Product.List)
				r.Post("/", rt.h.Product.Create)
				r.Get("/{id}", rt.h.Product.Get)
				r.Put("/{id}", rt.h.Product.Update)
				r.With(adminOnly).Delete("/{id}", rt.h.Product.Delete)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", rt.h.Order.List)
				r.Get("/{id}", rt.h.Order.Get)
				r.Patch("/{id}/status", rt.h.Order.UpdateStatus)
				r.With(adminOnly).Delete("/{id}", rt.h.Order.Delete)
			})

			r.Route("/classes", func(r chi.Router) {
				r.Get("/", rt.h.Class.List)
				r.Post("/", rt.h.Class.Create)
				r.Get("/{id}", rt.h.Class.Get)
				r.Put("/{id}", rt.h.Class.Update)
				r.With(adminOnly).Delete("/{id}", rt.h.Class.Delete)
			})

			r.Route("/instructors", func(r chi.Router) {
				r.Get("/", rt.h.Instructor.List)
				r.Post("/", rt.h.Instructor.Create)
				r.Get("/{id}", rt.h.Instructor.Get)
				r.Put("/{id}", rt.h.Instructor.Update)
				r.With(adminOnly).Delete("/{id}", rt.h.Instructor.Delete)
			})

			r.Route("/coupons", func(r chi.Router) {
				r.Get("/", rt.h.Coupon.List)
				r.Post("/", rt.h.Coupon.Create)
				r.Post("/preview", rt.h.Coupon.Preview)
				r.Put("/{id}", rt.h.Coupon.Update)
				r.Post("/{id}/toggle", rt.h.Coupon.Toggle)
				r.With(adminOnly).Delete("/{id}", rt.h.Coupon.Delete)
			})

			r.Route("/feedback", func(r chi.Router) {
				r.Get("/", rt.h.Feedback.List)
				r.Patch("/{id}/approve", rt.h.Feedback.SetApproved)
				r.With(adminOnly).Delete("/{id}", rt.h.Feedback.Delete)
			})

			r.Route("/office-hours", func(r chi.Router) {
				r.Get("/", rt.h.OfficeTiming.List)
				r.Put("/{id}", rt.h.OfficeTiming.Update)
			})

			r.Route("/event-pricing", func(r chi.Router) {
				r.Get("/", rt.h.EventPricing.List)
				r.Post("/", rt.h.EventPricing.Create)
				r.Put("/{id}", rt.h.EventPricing.Update)
				r.With(adminOnly).Delete("/{id}", rt.h.EventPricing.Delete)
			})

			r.Route("/impacts", func(r chi.Router) {
				r.Get("/", rt.h.Impact.List)
				r.Post("/", rt.h.Impact.Create)
				r.Put("/{id}", rt.h.Impact.Update)
				r.With(adminOnly).Delete("/{id}", rt.h.Impact.Delete)
			})

			r.Route("/pay-later", func(r chi.Router) {
				r.Get("/", rt.h.PayLater.List)
				r.Post("/{id}/paid", rt.h.PayLater.MarkPaid)
				r.With(adminOnly).Delete("/{id}", rt.h.PayLater.Delete)
			})

			r.Route("/lists/{kind}", func(r chi.Router) {
				r.Get("/", rt.h.List.List)
				r.Get("/export", rt.h.List.Export)
				r.With(adminOnly).Delete("/{id}", rt.h.List.Delete)
			})

			r.Route("/uploads", func(r chi.Router) {
				r.Get("/", rt.h.Upload.List)
				r.Get("/{id}/download", rt.h.Upload.Download)
				r.With(adminOnly).Delete("/{id}", rt.h.Upload.Delete)
			})

			r.Route("/tools", func(r chi.Router) {
				r.Post("/images/encode", rt.h.Tools.EncodeImage)
				r.Get("/pricing/preview", rt.h.Tools.PricingPreview)
				r.Get("/categories", rt.h.Tools.Categories)
			})

			r.Route("/audit", func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/", rt.h.Audit.List)
				r.Get("/stats", rt.h.Audit.GetStats)
				r.Get("/entity/{entityType}/{entityId}", rt.h.Audit.GetByEntity)
				r.Get("/{id}", rt.h.Audit.GetByID)
			})
		})
	})

	return r
}

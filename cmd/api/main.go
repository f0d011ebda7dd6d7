package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bloomhouse/admin-console/docs"
	"github.com/bloomhouse/admin-console/internal/auth"
	"github.com/bloomhouse/admin-console/internal/config"
	"github.com/bloomhouse/admin-console/internal/database"
	"github.com/bloomhouse/admin-console/internal/http/handler"
	"github.com/bloomhouse/admin-console/internal/http/middleware"
	"github.com/bloomhouse/admin-console/internal/http/router"
	"github.com/bloomhouse/admin-console/internal/imaging"
	"github.com/bloomhouse/admin-console/internal/jobs"
	"github.com/bloomhouse/admin-console/internal/logger"
	"github.com/bloomhouse/admin-console/internal/pricing"
	"github.com/bloomhouse/admin-console/internal/repository"
	"github.com/bloomhouse/admin-console/internal/service"
	"github.com/bloomhouse/admin-console/internal/storage"
	"github.com/bloomhouse/admin-console/internal/upstream"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// @title Bloomhouse Admin Console API
// @version 1.0
// @description Staff console for the flower shop and flower school. Records are owned by the business API; the console validates forms, prepares images and prices, and re-fetches each list after a change.

// @contact.name Bloomhouse Engineering
// @contact.email dev@bloomhouse.in

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Staff JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description Shared key for scripts and automation
// @Security BearerAuth
// @Security ApiKeyAuth

const (
	shutdownGrace   = 30 * time.Second
	auditFlushGrace = 10 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "admin-console:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// logging is configured before secrets so vault access is logged
	base, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log, err := logger.NewLogger(&base.Logging, &base.App)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	docs.SwaggerInfo.Host = os.Getenv("SWAGGER_HOST")
	if docs.SwaggerInfo.Host == "" {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", base.App.Port)
	}

	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("secrets: %w", err)
	}
	log.Info("Console starting",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.String("upstream", cfg.Upstream.BaseURL))

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer closeDB(db)
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	audit := service.NewAuditLogService(repository.NewAuditLogRepository(db), log)
	handlers, err := wire(cfg, db, audit, log)
	if err != nil {
		return err
	}
	auditTrail := middleware.NewAuditMiddleware(audit, nil, log)
	rt := router.NewRouter(cfg, log,
		auth.NewMiddleware(cfg, log),
		middleware.NewRateLimiter(&cfg.RateLimit, log),
		auditTrail,
		handlers)

	if cfg.Jobs.AuditRetentionEnabled {
		scheduler := jobs.NewScheduler(log, cfg.Jobs.JobTimeoutDuration())
		if err := jobs.RegisterAuditRetentionJob(scheduler, audit, log,
			cfg.Jobs.AuditRetentionCron, cfg.Jobs.AuditRetention()); err != nil {
			return fmt.Errorf("audit retention job: %w", err)
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
	}

	err = serve(ctx, &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}, log)

	// audit entries are written after their response, so they can outlive the server
	flushCtx, cancel := context.WithTimeout(context.Background(), auditFlushGrace)
	defer cancel()
	if werr := auditTrail.Wait(flushCtx); werr != nil {
		log.Warn("Audit entries still pending at exit", zap.Error(werr))
	}
	return err
}

// wire builds the upstream client, the panel services and their handlers
func wire(cfg *config.Config, db *gorm.DB, audit *service.AuditLogService, log *zap.Logger) (router.Handlers, error) {
	client, err := upstream.NewClient(&cfg.Upstream, log, upstream.WithTokenFunc(auth.AccessTokenFromContext))
	if err != nil {
		return router.Handlers{}, fmt.Errorf("upstream client: %w", err)
	}
	formatter, err := pricing.NewFormatter(&cfg.Console)
	if err != nil {
		return router.Handlers{}, fmt.Errorf("formatter: %w", err)
	}

	// without an archive images are still encoded, only the originals are not kept
	var (
		archive storage.Storage
		uploads *repository.UploadRepository
	)
	if cfg.Imaging.ArchiveOriginals {
		if archive, err = storage.NewStorage(&cfg.Storage, log); err != nil {
			return router.Handlers{}, fmt.Errorf("storage: %w", err)
		}
		uploads = repository.NewUploadRepository(db)
		log.Info("Original images archived", zap.String("mode", archive.Mode()))
	}
	images := service.NewUploadService(archive, uploads, imaging.Options{
		MaxBytes:  cfg.Storage.MaxUploadSizeMB << 20,
		MaxPixels: cfg.Imaging.MaxPixels,
		MaxWidth:  cfg.Imaging.MaxWidth,
		Quality:   cfg.Imaging.Quality,
		KeepPNG:   cfg.Imaging.KeepPNG,
	}, cfg.Imaging.ArchiveOriginals, log)

	maxMB := cfg.Storage.MaxUploadSizeMB
	return router.Handlers{
		Health:       handler.NewHealthHandler(db, client, log),
		Auth:         handler.NewAuthHandler(service.NewAuthService(client, log), audit, log),
		Dashboard:    handler.NewDashboardHandler(service.NewDashboardService(client, log), log),
		Product:      handler.NewProductHandler(service.NewProductService(client, images, log), formatter, maxMB, log),
		Order:        handler.NewOrderHandler(service.NewOrderService(client, log), formatter, log),
		Class:        handler.NewClassHandler(service.NewClassService(client, images, log), formatter, maxMB, log),
		Instructor:   handler.NewInstructorHandler(service.NewInstructorService(client, images, log), maxMB, log),
		Coupon:       handler.NewCouponHandler(service.NewCouponService(client, formatter, log), formatter, log),
		Feedback:     handler.NewFeedbackHandler(service.NewFeedbackService(client, log), log),
		OfficeTiming: handler.NewOfficeTimingHandler(service.NewOfficeTimingService(client, log), log),
		EventPricing: handler.NewEventPricingHandler(service.NewEventPricingService(client, log), formatter, log),
		Impact:       handler.NewImpactHandler(service.NewImpactService(client, log), log),
		PayLater:     handler.NewPayLaterHandler(service.NewPayLaterService(client, log), formatter, log),
		List:         handler.NewListHandler(service.NewListService(client, formatter, log), audit, log),
		Upload:       handler.NewUploadHandler(images, log),
		Tools:        handler.NewToolsHandler(images, formatter, maxMB, log),
		Audit:        handler.NewAuditHandler(audit, log),
	}, nil
}

// serve runs srv until ctx is cancelled, then drains in-flight requests
func serve(ctx context.Context, srv *http.Server, log *zap.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	log.Info("Stopped")
	return nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

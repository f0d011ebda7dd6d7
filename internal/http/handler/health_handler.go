package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/bloomhouse/admin-console/internal/database"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Pinger checks that a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	db       *gorm.DB
	upstream Pinger
	timeout  time.Duration
	logger   *zap.Logger
}

func NewHealthHandler(db *gorm.DB, upstream Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:       db,
		upstream: upstream,
		timeout:  5 * time.Second,
		logger:   logger,
	}
}

// Live is the basic liveness probe
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Database reports database connectivity with pool statistics
func (h *HealthHandler) Database(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	stats, err := database.HealthCheckWithStats(ctx, h.db)
	if err != nil {
		h.logger.Error("database health check failed", zap.Error(err))
		respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "unhealthy",
			"error":   err.Error(),
			"service": "database",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "database",
		"stats":   stats,
	})
}

// Ready checks every dependency the console needs to serve requests
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	checks := make(map[string]interface{})
	allHealthy := true

	if err := database.HealthCheck(ctx, h.db); err != nil {
		h.logger.Error("database health check failed", zap.Error(err))
		checks["database"] = map[string]interface{}{"status": "unhealthy", "error": err.Error()}
		allHealthy = false
	} else {
		checks["database"] = map[string]interface{}{"status": "healthy"}
	}

	if err := h.upstream.Ping(ctx); err != nil {
		h.logger.Error("upstream health check failed", zap.Error(err))
		checks["upstream"] = map[string]interface{}{"status": "unhealthy", "error": err.Error()}
		allHealthy = false
	} else {
		checks["upstream"] = map[string]interface{}{"status": "healthy"}
	}

	status, label := http.StatusOK, "healthy"
	if !allHealthy {
		status, label = http.StatusServiceUnavailable, "unhealthy"
	}
	respondJSON(w, status, map[string]interface{}{
		"status": label,
		"checks": checks,
	})
}

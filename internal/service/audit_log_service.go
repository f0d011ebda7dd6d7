package service

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bloomhouse/admin-console/internal/auth"
	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuditLogService keeps the console's own trail of who changed what through which panel.
// The upstream API owns the records; this trail only lives in the console database.
type AuditLogService struct {
	auditRepo *repository.AuditLogRepository
	logger    *zap.Logger
}

// NewAuditLogService creates a new audit log service
func NewAuditLogService(auditRepo *repository.AuditLogRepository, logger *zap.Logger) *AuditLogService {
	return &AuditLogService{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// LogEntry is what a caller knows about a mutation; staff and request details are filled in
type LogEntry struct {
	Action     domain.AuditAction
	EntityType string
	EntityID   string
	StatusCode int
	NewValues  interface{}
}

// ActivitySummary counts console activity inside a window
type ActivitySummary struct {
	Since    time.Time        `json:"since"`
	Until    time.Time        `json:"until"`
	Total    int64            `json:"total"`
	ByAction map[string]int64 `json:"byAction"`
	ByPanel  map[string]int64 `json:"byPanel"`
}

// Log records one entry for the staff member in ctx. r may be nil for background work.
func (s *AuditLogService) Log(ctx context.Context, r *http.Request, entry LogEntry) error {
	record := &domain.AuditLog{
		Action:      entry.Action,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		StatusCode:  entry.StatusCode,
		PerformedAt: time.Now().UTC(),
	}

	if staff, ok := auth.FromContext(ctx); ok && staff != nil {
		record.UserID = staff.UserID
		record.UserEmail = staff.Email
		record.UserName = staff.DisplayName
	}

	if r != nil {
		record.Method = r.Method
		record.Path = r.URL.Path
		record.IPAddress = clientAddress(r)
		record.UserAgent = r.UserAgent()
		record.RequestID = r.Header.Get("X-Request-ID")
	}

	if entry.NewValues != nil {
		if raw, err := json.Marshal(entry.NewValues); err == nil {
			record.NewValues = string(raw)
		}
	}

	if err := s.auditRepo.Record(ctx, record); err != nil {
		s.logger.Error("failed to record console activity",
			zap.String("action", string(entry.Action)),
			zap.String("panel", entry.EntityType),
			zap.Error(err))
		return err
	}
	return nil
}

// LogExport records that a list was downloaded as CSV
func (s *AuditLogService) LogExport(ctx context.Context, r *http.Request, entityType string, count int) error {
	return s.Log(ctx, r, LogEntry{
		Action:     domain.AuditActionExport,
		EntityType: entityType,
		StatusCode: http.StatusOK,
		NewValues:  map[string]interface{}{"rows": count, "format": "csv"},
	})
}

// Search pages through recorded activity
func (s *AuditLogService) Search(ctx context.Context, q repository.AuditQuery) ([]domain.AuditLog, int64, error) {
	return s.auditRepo.Search(ctx, q)
}

// Entry returns one recorded entry
func (s *AuditLogService) Entry(ctx context.Context, id uuid.UUID) (*domain.AuditLog, error) {
	return s.auditRepo.Find(ctx, id)
}

// History returns what staff did to a single upstream record
func (s *AuditLogService) History(ctx context.Context, panel, recordID string, limit int) ([]domain.AuditLog, error) {
	return s.auditRepo.History(ctx, panel, recordID, limit)
}

// Breakdown summarises activity per action and per panel
func (s *AuditLogService) Breakdown(ctx context.Context, since, until time.Time) (*ActivitySummary, error) {
	counts, err := s.auditRepo.Breakdown(ctx, since, until)
	if err != nil {
		return nil, err
	}

	summary := &ActivitySummary{
		Since:    since,
		Until:    until,
		ByAction: make(map[string]int64),
		ByPanel:  make(map[string]int64),
	}
	for _, c := range counts {
		summary.Total += c.Count
		summary.ByAction[string(c.Action)] += c.Count
		summary.ByPanel[c.Panel] += c.Count
	}
	return summary, nil
}

// PurgeOlderThan drops entries performed before the cutoff
func (s *AuditLogService) PurgeOlderThan(ctx context.Context, before time.Time) (int64, error) {
	count, err := s.auditRepo.PurgeBefore(ctx, before)
	if err != nil {
		s.logger.Error("failed to purge console activity", zap.Time("before", before), zap.Error(err))
		return 0, err
	}
	if count > 0 {
		s.logger.Info("purged console activity", zap.Int64("deleted_count", count), zap.Time("before", before))
	}
	return count, nil
}

// clientAddress prefers the first forwarded hop, then X-Real-IP, then the socket peer
func clientAddress(r *http.Request) string {
	if first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ","); strings.TrimSpace(first) != "" {
		return strings.TrimSpace(first)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

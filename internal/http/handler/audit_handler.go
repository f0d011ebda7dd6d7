package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/repository"
	"github.com/bloomhouse/admin-console/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultActivityWindow = 30 * 24 * time.Hour
	maxHistoryEntries     = 200
)

// AuditHandler exposes the console activity trail. Routes are admin only.
type AuditHandler struct {
	auditService *service.AuditLogService
	logger       *zap.Logger
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService *service.AuditLogService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		logger:       logger,
	}
}

// AuditLogDTO is one activity entry as shown in the admin activity panel
type AuditLogDTO struct {
	ID          string                 `json:"id"`
	Staff       string                 `json:"staff,omitempty"`
	StaffEmail  string                 `json:"staffEmail,omitempty"`
	Action      string                 `json:"action"`
	Panel       string                 `json:"panel"`
	RecordID    string                 `json:"recordId,omitempty"`
	Method      string                 `json:"method"`
	Path        string                 `json:"path"`
	StatusCode  int                    `json:"statusCode"`
	Changes     map[string]interface{} `json:"changes,omitempty"`
	IPAddress   string                 `json:"ipAddress,omitempty"`
	RequestID   string                 `json:"requestId,omitempty"`
	PerformedAt string                 `json:"performedAt"`
}

// List godoc
// @Summary List console activity
// @Description Returns a page of recorded staff mutations, newest first
// @Tags Audit
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20, max: 100)"
// @Param actor query string false "Staff id or email"
// @Param action query string false "Action" Enums(create, update, delete, login, export)
// @Param panel query string false "Panel record type (e.g. Product, Coupon)"
// @Param recordId query string false "Upstream record ID"
// @Param since query string false "Earliest time (RFC3339)"
// @Param until query string false "Latest time (RFC3339)"
// @Success 200 {object} domain.PaginatedResponse{data=[]AuditLogDTO}
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audit [get]
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	q := repository.AuditQuery{
		Actor:    query.Get("actor"),
		Action:   domain.AuditAction(query.Get("action")),
		Panel:    query.Get("panel"),
		RecordID: query.Get("recordId"),
		Page:     max(parseIntQuery(r, "page", 1), 1),
		PageSize: min(max(parseIntQuery(r, "pageSize", 20), 1), 100),
	}
	if q.Action != "" && !q.Action.IsValid() {
		respondWithError(w, http.StatusBadRequest, "Unknown action "+string(q.Action))
		return
	}

	var err error
	if q.Since, err = parseTimeQuery(r, "since", time.Time{}); err != nil {
		respondWithError(w, http.StatusBadRequest, "since must be an RFC3339 time")
		return
	}
	if q.Until, err = parseTimeQuery(r, "until", time.Time{}); err != nil {
		respondWithError(w, http.StatusBadRequest, "until must be an RFC3339 time")
		return
	}

	entries, total, err := h.auditService.Search(r.Context(), q)
	if err != nil {
		respondFailure(w, h.logger, "load activity", err)
		return
	}

	respondJSON(w, http.StatusOK, domain.NewPage(toAuditDTOs(entries), total, q.Page, q.PageSize))
}

// GetByID godoc
// @Summary Get one activity entry
// @Tags Audit
// @Produce json
// @Param id path string true "Entry ID" format(uuid)
// @Success 200 {object} AuditLogDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audit/{id} [get]
func (h *AuditHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid activity entry ID")
		return
	}

	entry, err := h.auditService.Entry(r.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondWithError(w, http.StatusNotFound, "Activity entry not found")
		return
	}
	if err != nil {
		respondFailure(w, h.logger, "load activity", err)
		return
	}

	respondJSON(w, http.StatusOK, toAuditDTO(*entry))
}

// GetByEntity godoc
// @Summary Get the history of one upstream record
// @Tags Audit
// @Produce json
// @Param entityType path string true "Panel record type (e.g. Product, Coupon)"
// @Param entityId path string true "Upstream record ID"
// @Param limit query int false "Maximum number of entries (default: 50, max: 200)"
// @Success 200 {array} AuditLogDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audit/entity/{entityType}/{entityId} [get]
func (h *AuditHandler) GetByEntity(w http.ResponseWriter, r *http.Request) {
	panel := chi.URLParam(r, "entityType")
	recordID := chi.URLParam(r, "entityId")
	limit := min(max(parseIntQuery(r, "limit", 50), 1), maxHistoryEntries)

	entries, err := h.auditService.History(r.Context(), panel, recordID, limit)
	if err != nil {
		respondFailure(w, h.logger, "load activity", err)
		return
	}

	respondJSON(w, http.StatusOK, toAuditDTOs(entries))
}

// GetStats godoc
// @Summary Summarise console activity
// @Description Counts recorded actions per action and per panel. Defaults to the last 30 days.
// @Tags Audit
// @Produce json
// @Param since query string false "Window start (RFC3339)"
// @Param until query string false "Window end (RFC3339)"
// @Success 200 {object} service.ActivitySummary
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audit/stats [get]
func (h *AuditHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	until, err := parseTimeQuery(r, "until", time.Now().UTC())
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "until must be an RFC3339 time")
		return
	}
	since, err := parseTimeQuery(r, "since", until.Add(-defaultActivityWindow))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "since must be an RFC3339 time")
		return
	}
	if since.After(until) {
		respondWithError(w, http.StatusBadRequest, "since must be before until")
		return
	}

	summary, err := h.auditService.Breakdown(r.Context(), since, until)
	if err != nil {
		respondFailure(w, h.logger, "load activity", err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

func parseTimeQuery(r *http.Request, key string, fallback time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func toAuditDTOs(entries []domain.AuditLog) []AuditLogDTO {
	dtos := make([]AuditLogDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = toAuditDTO(entry)
	}
	return dtos
}

func toAuditDTO(entry domain.AuditLog) AuditLogDTO {
	dto := AuditLogDTO{
		ID:          entry.ID.String(),
		Staff:       entry.UserName,
		StaffEmail:  entry.UserEmail,
		Action:      string(entry.Action),
		Panel:       entry.EntityType,
		RecordID:    entry.EntityID,
		Method:      entry.Method,
		Path:        entry.Path,
		StatusCode:  entry.StatusCode,
		IPAddress:   entry.IPAddress,
		RequestID:   entry.RequestID,
		PerformedAt: entry.PerformedAt.Format(time.RFC3339),
	}

	if entry.NewValues != "" {
		var changes map[string]interface{}
		if err := json.Unmarshal([]byte(entry.NewValues), &changes); err == nil {
			dto.Changes = changes
		}
	}
	return dto
}

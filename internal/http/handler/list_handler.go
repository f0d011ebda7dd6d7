package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ListHandler serves the enrollment, visitor and subscriber lists
type ListHandler struct {
	listService  *service.ListService
	auditService *service.AuditLogService
	logger       *zap.Logger
}

func NewListHandler(listService *service.ListService, auditService *service.AuditLogService, logger *zap.Logger) *ListHandler {
	return &ListHandler{
		listService:  listService,
		auditService: auditService,
		logger:       logger,
	}
}

// List godoc
// @Summary Get a people list
// @Description Returns enrollments, visitors or subscribers. Enrollments can be narrowed to one class.
// @Tags Lists
// @Produce json
// @Param kind path string true "List name" Enums(enrollments, visitors, subscribers)
// @Param classId query string false "Class ID (enrollments only)"
// @Success 200 {object} domain.Envelope
// @Failure 400 {object} domain.APIError
// @Failure 502 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /lists/{kind} [get]
func (h *ListHandler) List(w http.ResponseWriter, r *http.Request) {
	kind, err := service.ParseListKind(chi.URLParam(r, "kind"))
	if err != nil {
		respondFailure(w, h.logger, "load list", err)
		return
	}

	op := fmt.Sprintf("load %s", kind)
	switch kind {
	case service.ListEnrollments:
		items, err := h.listService.Enrollments(r.Context(), domain.ID(r.URL.Query().Get("classId")))
		if err != nil {
			respondFailure(w, h.logger, op, err)
			return
		}
		respondList(w, items)
	case service.ListVisitors:
		items, err := h.listService.Visitors(r.Context())
		if err != nil {
			respondFailure(w, h.logger, op, err)
			return
		}
		respondList(w, items)
	case service.ListSubscribers:
		items, err := h.listService.Subscribers(r.Context())
		if err != nil {
			respondFailure(w, h.logger, op, err)
			return
		}
		respondList(w, items)
	}
}

// Delete godoc
// @Summary Remove a list entry
// @Tags Lists
// @Produce json
// @Param kind path string true "List name" Enums(enrollments, visitors, subscribers)
// @Param id path string true "Entry ID"
// @Success 200 {object} domain.Envelope
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /lists/{kind}/{id} [delete]
func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	kind, err := service.ParseListKind(chi.URLParam(r, "kind"))
	if err != nil {
		respondFailure(w, h.logger, "delete entry", err)
		return
	}

	result, err := h.listService.Delete(r.Context(), kind, idParam(r))
	if err != nil {
		respondFailure(w, h.logger, "delete entry", err)
		return
	}

	env := domain.Envelope{Toast: domain.SuccessToast("Entry deleted")}
	if result.Stale {
		env.Toast = &domain.Toast{Level: domain.ToastWarning, Message: "Entry deleted, refresh to see the latest list"}
	} else {
		env.Items = result.Items
	}
	respondJSON(w, http.StatusOK, env)
}

// Export godoc
// @Summary Export a people list as CSV
// @Tags Lists
// @Produce text/csv
// @Param kind path string true "List name" Enums(enrollments, visitors, subscribers)
// @Success 200 {file} file
// @Failure 400 {object} domain.APIError
// @Failure 502 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /lists/{kind}/export [get]
func (h *ListHandler) Export(w http.ResponseWriter, r *http.Request) {
	kind, err := service.ParseListKind(chi.URLParam(r, "kind"))
	if err != nil {
		respondFailure(w, h.logger, "export list", err)
		return
	}

	// Buffer so a failed fetch can still answer with a JSON error
	var buf bytes.Buffer
	count, err := h.listService.Export(r.Context(), kind, &buf)
	if err != nil {
		respondFailure(w, h.logger, fmt.Sprintf("export %s", kind), err)
		return
	}

	if h.auditService != nil {
		if err := h.auditService.LogExport(r.Context(), r, string(kind), count); err != nil {
			h.logger.Warn("failed to record export", zap.String("list", string(kind)), zap.Error(err))
		}
	}

	filename := fmt.Sprintf("%s-%s.csv", kind, time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UploadHandler serves the archive of original images
type UploadHandler struct {
	uploadService *service.UploadService
	logger        *zap.Logger
}

func NewUploadHandler(uploadService *service.UploadService, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		logger:        logger,
	}
}

// List godoc
// @Summary List archived images
// @Tags Uploads
// @Produce json
// @Param panel query string false "Panel (products, classes, instructors)"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.UploadRecord}
// @Failure 404 {object} domain.APIError "Archive not enabled"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /uploads [get]
func (h *UploadHandler) List(w http.ResponseWriter, r *http.Request) {
	page := max(parseIntQuery(r, "page", 1), 1)
	pageSize := min(max(parseIntQuery(r, "pageSize", 20), 1), 100)

	records, total, err := h.uploadService.List(r.Context(), r.URL.Query().Get("panel"), page, pageSize)
	if err != nil {
		respondFailure(w, h.logger, "load uploads", err)
		return
	}

	respondJSON(w, http.StatusOK, domain.NewPage(records, total, page, pageSize))
}

// Download godoc
// @Summary Download an archived image
// @Tags Uploads
// @Produce octet-stream
// @Param id path string true "Upload ID" format(uuid)
// @Success 200 {file} file
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /uploads/{id}/download [get]
func (h *UploadHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid upload ID")
		return
	}

	record, reader, err := h.uploadService.Download(r.Context(), id)
	if err != nil {
		respondFailure(w, h.logger, "download image", err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", record.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, record.OriginalFilename))
	if record.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(record.SizeBytes, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Error("failed to stream upload", zap.String("upload_id", id.String()), zap.Error(err))
	}
}

// Delete godoc
// @Summary Delete an archived image
// @Tags Uploads
// @Produce json
// @Param id path string true "Upload ID" format(uuid)
// @Success 200 {object} domain.Envelope
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /uploads/{id} [delete]
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid upload ID")
		return
	}

	if err := h.uploadService.Delete(r.Context(), id); err != nil {
		respondFailure(w, h.logger, "delete image", err)
		return
	}

	respondJSON(w, http.StatusOK, domain.Envelope{Toast: domain.SuccessToast("Image deleted")})
}

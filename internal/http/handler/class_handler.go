package handler

import (
	"net/http"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/mapper"
	"github.com/bloomhouse/admin-console/internal/pricing"
	"github.com/bloomhouse/admin-console/internal/service"
	"go.uber.org/zap"
)

// ClassHandler handles HTTP requests for the flower-school classes panel
type ClassHandler struct {
	classService   *service.ClassService
	formatter      *pricing.Formatter
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewClassHandler(classService *service.ClassService, formatter *pricing.Formatter, maxUploadMB int64, logger *zap.Logger) *ClassHandler {
	return &ClassHandler{
		classService:   classService,
		formatter:      formatter,
		maxUploadBytes: maxUploadMB << 20,
		logger:         logger,
	}
}

func (h *ClassHandler) row(c *domain.Class) domain.ClassRow {
	return mapper.ToClassRow(c, h.formatter)
}

// List godoc
// @Summary List classes
// @Tags Classes
// @Produce json
// @Success 200 {object} domain.Envelope{items=[]domain.ClassRow}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /classes [get]
func (h *ClassHandler) List(w http.ResponseWriter, r *http.Request) {
	classes, err := h.classService.List(r.Context())
	if err != nil {
		respondFailure(w, h.logger, "load classes", err)
		return
	}

	respondList(w, mapper.Rows(classes, h.row))
}

// Get godoc
// @Summary Get class
// @Tags Classes
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} domain.Envelope{data=domain.ClassRow}
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /classes/{id} [get]
func (h *ClassHandler) Get(w http.ResponseWriter, r *http.Request) {
	class, err := h.classService.Get(r.Context(), idParam(r))
	if err != nil {
		respondFailure(w, h.logger, "load class", err)
		return
	}

	respondJSON(w, http.StatusOK, domain.Envelope{Data: h.row(class)})
}

// Create godoc
// @Summary Create class
// @Description Accepts JSON, or multipart/form-data with the JSON form in "data" and the cover image in "image".
// @Tags Classes
// @Accept json,mpfd
// @Produce json
// @Param request body domain.ClassRequest true "Class form"
// @Success 201 {object} domain.Envelope{data=domain.ClassRow,items=[]domain.ClassRow}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /classes [post]
func (h *ClassHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.ClassRequest
	form, ok := decodeImageForm(w, r, h.maxUploadBytes, &req, "image")
	if !ok {
		return
	}
	defer form.Close()

	result, err := h.classService.Create(r.Context(), &req, form.first())
	if err != nil {
		respondFailure(w, h.logger, "create class", err)
		return
	}

	respondMutation(w, http.StatusCreated, result, h.row, "Class created")
}

// Update godoc
// @Summary Update class
// @Tags Classes
// @Accept json,mpfd
// @Produce json
// @Param id path string true "Class ID"
// @Param request body domain.ClassRequest true "Class form"
// @Success 200 {object} domain.Envelope{data=domain.ClassRow,items=[]domain.ClassRow}
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /classes/{id} [put]
func (h *ClassHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.ClassRequest
	form, ok := decodeImageForm(w, r, h.maxUploadBytes, &req, "image")
	if !ok {
		return
	}
	defer form.Close()

	result, err := h.classService.Update(r.Context(), idParam(r), &req, form.first())
	if err != nil {
		respondFailure(w, h.logger, "update class", err)
		return
	}

	respondMutation(w, http.StatusOK, result, h.row, "Class updated")
}

// Delete godoc
// @Summary Delete class
// @Tags Classes
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} domain.Envelope{items=[]domain.ClassRow}
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /classes/{id} [delete]
func (h *ClassHandler) Delete(w http.ResponseWriter, r *http.Request) {
	result, err := h.classService.Delete(r.Context(), idParam(r))
	if err != nil {
		respondFailure(w, h.logger, "delete class", err)
		return
	}

	respondMutation(w, http.StatusOK, result, h.row, "Class deleted")
}

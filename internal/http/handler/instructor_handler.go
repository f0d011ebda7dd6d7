package handler

import (
	"net/http"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/service"
	"go.uber.org/zap"
)

// InstructorHandler handles HTTP requests for the instructors panel
type InstructorHandler struct {
	instructorService *service.InstructorService
	maxUploadBytes    int64
	logger            *zap.Logger
}

func NewInstructorHandler(instructorService *service.InstructorService, maxUploadMB int64, logger *zap.Logger) *InstructorHandler {
	return &InstructorHandler{
		instructorService: instructorService,
		maxUploadBytes:    maxUploadMB << 20,
		logger:            logger,
	}
}

// List godoc
// @Summary List instructors
// @Tags Instructors
// @Produce json
// @Success 200 {object} domain.Envelope{items=[]domain.Instructor}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /instructors [get]
func (h *InstructorHandler) List(w http.ResponseWriter, r *http.Request) {
	instructors, err := h.instructorService.List(r.Context())
	if err != nil {
		respondFailure(w, h.logger, "load instructors", err)
		return
	}

	respondList(w, instructors)
}

// Get godoc
// @Summary Get instructor
// @Tags Instructors
// @Produce json
// @Param id path string true "Instructor ID"
// @Success 200 {object} domain.Envelope{data=domain.Instructor}
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /instructors/{id} [get]
func (h *InstructorHandler) Get(w http.ResponseWriter, r *http.Request) {
	instructor, err := h.instructorService.Get(r.Context(), idParam(r))
	if err != nil {
		respondFailure(w, h.logger, "load instructor", err)
		return
	}

	respondJSON(w, http.StatusOK, domain.Envelope{Data: instructor})
}

// Create godoc
// @Summary Create instructor
// @Description Accepts JSON, or multipart/form-data with the JSON form in "data" and the photo in "image".
// @Tags Instructors
// @Accept json,mpfd
// @Produce json
// @Param request body domain.InstructorRequest true "Instructor form"
// @Success 201 {object} domain.Envelope{data=domain.Instructor,items=[]domain.Instructor}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /instructors [post]
func (h *InstructorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.InstructorRequest
	form, ok := decodeImageForm(w, r, h.maxUploadBytes, &req, "image")
	if !ok {
		return
	}
	defer form.Close()

	result, err := h.instructorService.Create(r.Context(), &req, form.first())
	if err != nil {
		respondFailure(w, h.logger, "create instructor", err)
		return
	}

	respondMutation(w, http.StatusCreated, result, identity[domain.Instructor], "Instructor added")
}

// Update godoc
// @Summary Update instructor
// @Tags Instructors
// @Accept json,mpfd
// @Produce json
// @Param id path string true "Instructor ID"
// @Param request body domain.InstructorRequest true "Instructor form"
// @Success 200 {object} domain.Envelope{data=domain.Instructor,items=[]domain.Instructor}
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /instructors/{id} [put]
func (h *InstructorHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.InstructorRequest
	form, ok := decodeImageForm(w, r, h.maxUploadBytes, &req, "image")
	if !ok {
		return
	}
	defer form.Close()

	result, err := h.instructorService.Update(r.Context(), idParam(r), &req, form.first())
	if err != nil {
		respondFailure(w, h.logger, "update instructor", err)
		return
	}

	respondMutation(w, http.StatusOK, result, identity[domain.Instructor], "Instructor updated")
}

// Delete godoc
// @Summary Delete instructor
// @Tags Instructors
// @Produce json
// @Param id path string true "Instructor ID"
// @Success 200 {object} domain.Envelope{items=[]domain.Instructor}
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /instructors/{id} [delete]
func (h *InstructorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	result, err := h.instructorService.Delete(r.Context(), idParam(r))
	if err != nil {
		respondFailure(w, h.logger, "delete instructor", err)
		return
	}

	respondMutation(w, http.StatusOK, result, identity[domain.Instructor], "Instructor removed")
}

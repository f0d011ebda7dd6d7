package handler

import (
	"net/http"
	"strconv"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/service"
	"go.uber.org/zap"
)

// FeedbackHandler handles HTTP requests for the feedback panel
type FeedbackHandler struct {
	feedbackService *service.FeedbackService
	logger          *zap.Logger
}

func NewFeedbackHandler(feedbackService *service.FeedbackService, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService, logger: logger}
}

// List godoc
// @Summary List feedback
// @Tags Feedback
// @Produce json
// @Param approved query bool false "Only approved (true) or pending (false) feedback"
// @Success 200 {object} domain.Envelope{items=[]domain.Feedback}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /feedback [get]
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	var approved *bool
	if v := r.URL.Query().Get("approved"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "approved must be true or false")
			return
		}
		approved = &b
	}

	feedback, err := h.feedbackService.List(r.Context(), approved)
	if err != nil {
		respondFailure(w, h.logger, "load feedback", err)
		return
	}

	respondList(w, feedback)
}

// SetApproved godoc
// @Summary Approve or hide feedback
// @Tags Feedback
// @Accept json
// @Produce json
// @Param id path string true "Feedback ID"
// @Param request body domain.FeedbackApprovalRequest true "Approval"
// @Success 200 {object} domain.Envelope{data=domain.Feedback,items=[]domain.Feedback}
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /feedback/{id}/approve [patch]
func (h *FeedbackHandler) SetApproved(w http.ResponseWriter, r *http.Request) {
	var req domain.FeedbackApprovalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.feedbackService.SetApproved(r.Context(), idParam(r), req.Approved)
	if err != nil {
		respondFailure(w, h.logger, "update feedback", err)
		return
	}

	message := "Feedback hidden"
	if req.Approved {
		message = "Feedback approved"
	}
	respondMutation(w, http.StatusOK, result, identity[domain.Feedback], message)
}

// Delete godoc
// @Summary Delete feedback
// @Tags Feedback
// @Produce json
// @Param id path string true "Feedback ID"
// @Success 200 {object} domain.Envelope{items=[]domain.Feedback}
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /feedback/{id} [delete]
func (h *FeedbackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	result, err := h.feedbackService.Delete(r.Context(), idParam(r))
	if err != nil {
		respondFailure(w, h.logger, "delete feedback", err)
		return
	}

	respondMutation(w, http.StatusOK, result, identity[domain.Feedback], "Feedback deleted")
}

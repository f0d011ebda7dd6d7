package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/bloomhouse/admin-console/internal/catalog"
	"github.com/bloomhouse/admin-console/internal/pricing"
	"github.com/bloomhouse/admin-console/internal/service"
	"go.uber.org/zap"
)

// ToolsHandler exposes the form helpers used while staff fill in a panel
type ToolsHandler struct {
	uploadService  *service.UploadService
	formatter      *pricing.Formatter
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewToolsHandler(uploadService *service.UploadService, formatter *pricing.Formatter, maxUploadMB int64, logger *zap.Logger) *ToolsHandler {
	return &ToolsHandler{
		uploadService:  uploadService,
		formatter:      formatter,
		maxUploadBytes: maxUploadMB << 20,
		logger:         logger,
	}
}

// EncodeImage godoc
// @Summary Encode an image
// @Description Resizes an uploaded image and returns it as a base64 data URL, as it would be sent upstream.
// @Tags Tools
// @Accept mpfd
// @Produce json
// @Param file formData file true "Image file"
// @Param panel formData string false "Panel the image belongs to"
// @Success 200 {object} domain.Envelope{data=domain.EncodedImage}
// @Failure 400 {object} domain.APIError
// @Failure 413 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /tools/images/encode [post]
func (h *ToolsHandler) EncodeImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Upload too large: maximum size is %dMB", h.maxUploadBytes>>20))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	panel := r.FormValue("panel")
	if panel == "" {
		panel = "tools"
	}

	result, err := h.uploadService.Encode(r.Context(), panel, service.ImageUpload{Filename: header.Filename, Data: file})
	if err != nil {
		respondFailure(w, h.logger, "encode image", err)
		return
	}

	respondJSON(w, http.StatusOK, envelopeOf(result.Encoded()))
}

// PricingPreview godoc
// @Summary Preview a discounted price
// @Description sellingPrice = originalPrice - originalPrice * discountPercent / 100
// @Tags Tools
// @Produce json
// @Param originalPrice query number true "Original price"
// @Param discountPercent query number false "Discount percent (0-100)"
// @Success 200 {object} domain.Envelope{data=domain.PricingPreview}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /tools/pricing/preview [get]
func (h *ToolsHandler) PricingPreview(w http.ResponseWriter, r *http.Request) {
	original, err := strconv.ParseFloat(r.URL.Query().Get("originalPrice"), 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "originalPrice must be a number")
		return
	}

	var percent float64
	if raw := r.URL.Query().Get("discountPercent"); raw != "" {
		percent, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "discountPercent must be a number")
			return
		}
	}

	preview, err := pricing.Preview(original, percent, h.formatter)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, envelopeOf(preview))
}

// Categories godoc
// @Summary List product categories
// @Description The nested category table flattened to selectable options.
// @Tags Tools
// @Produce json
// @Success 200 {object} domain.Envelope{items=[]domain.CategoryOption}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /tools/categories [get]
func (h *ToolsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	respondList(w, catalog.Options())
}

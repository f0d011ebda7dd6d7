package handler

import (
	"net/http"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/mapper"
	"github.com/bloomhouse/admin-console/internal/pricing"
	"github.com/bloomhouse/admin-console/internal/service"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for the products panel
type ProductHandler struct {
	productService *service.ProductService
	formatter      *pricing.Formatter
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewProductHandler creates a new product handler instance
func NewProductHandler(productService *service.ProductService, formatter *pricing.Formatter, maxUploadMB int64, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		formatter:      formatter,
		maxUploadBytes: maxUploadMB << 20,
		logger:         logger,
	}
}

func (h *ProductHandler) row(p *domain.Product) domain.ProductRow {
	return mapper.ToProductRow(p, h.formatter)
}

// List godoc
// @Summary List products
// @Tags Products
// @Produce json
// @Param category query string false "Category value, e.g. flowers/roses"
// @Param search query string false "Search text"
// @Success 200 {object} domain.Envelope{items=[]domain.ProductRow}
// @Failure 502 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context(), service.ProductFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	})
	if err != nil {
		respondFailure(w, h.logger, "load products", err)
		return
	}

	respondList(w, mapper.Rows(products, h.row))
}

// Get godoc
// @Summary Get product
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} domain.Envelope{data=domain.ProductRow}
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /products/{id} [get]
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.Get(r.Context(), idParam(r))
	if err != nil {
		respondFailure(w, h.logger, "load product", err)
		return
	}

	respondJSON(w, http.StatusOK, domain.Envelope{Data: h.row(product)})
}

// Create godoc
// @Summary Create product
// @Description Accepts JSON, or multipart/form-data with the JSON form in "data" and image files in "images".
// @Tags Products
// @Accept json,mpfd
// @Produce json
// @Param request body domain.ProductRequest true "Product form"
// @Success 201 {object} domain.Envelope{data=domain.ProductRow,items=[]domain.ProductRow}
// @Failure 400 {object} domain.APIError
// @Failure 502 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.ProductRequest
	form, ok := decodeImageForm(w, r, h.maxUploadBytes, &req, "images")
	if !ok {
		return
	}
	defer form.Close()

	result, err := h.productService.Create(r.Context(), &req, form.uploads)
	if err != nil {
		respondFailure(w, h.logger, "create product", err)
		return
	}

	respondMutation(w, http.StatusCreated, result, h.row, "Product created")
}

// Update godoc
// @Summary Update product
// @Tags Products
// @Accept json,mpfd
// @Produce json
// @Param id path string true "Product ID"
// @Param request body domain.ProductRequest true "Product form"
// @Success 200 {object} domain.Envelope{data=domain.ProductRow,items=[]domain.ProductRow}
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /products/{id} [put]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.ProductRequest
	form, ok := decodeImageForm(w, r, h.maxUploadBytes, &req, "images")
	if !ok {
		return
	}
	defer form.Close()

	result, err := h.productService.Update(r.Context(), idParam(r), &req, form.uploads)
	if err != nil {
		respondFailure(w, h.logger, "update product", err)
		return
	}

	respondMutation(w, http.StatusOK, result, h.row, "Product updated")
}

// Delete godoc
// @Summary Delete product
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} domain.Envelope{items=[]domain.ProductRow}
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	result, err := h.productService.Delete(r.Context(), idParam(r))
	if err != nil {
		respondFailure(w, h.logger, "delete product", err)
		return
	}

	respondMutation(w, http.StatusOK, result, h.row, "Product deleted")
}

package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/bloomhouse/admin-console/internal/catalog"
	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/pricing"
	"github.com/bloomhouse/admin-console/internal/upstream"
	"go.uber.org/zap"
)

// ProductFilter narrows the product list. Both fields are passed to the upstream as-is.
type ProductFilter struct {
	Category string
	Search   string
}

// ProductService manages shop products
type ProductService struct {
	products collection[domain.Product]
	uploads  *UploadService
	logger   *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(client *upstream.Client, uploads *UploadService, logger *zap.Logger) *ProductService {
	return &ProductService{
		products: newCollection[domain.Product](client, upstream.PathProducts, "product", logger),
		uploads:  uploads,
		logger:   logger,
	}
}

// List returns products, optionally filtered
func (s *ProductService) List(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	query := url.Values{}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	return s.products.list(ctx, query)
}

// Get returns one product
func (s *ProductService) Get(ctx context.Context, id domain.ID) (*domain.Product, error) {
	return s.products.get(ctx, id)
}

// Create adds a product. New image files are encoded and appended to req.Images.
func (s *ProductService) Create(ctx context.Context, req *domain.ProductRequest, files []ImageUpload) (*MutationResult[domain.Product], error) {
	payload, err := s.buildPayload(ctx, req, files)
	if err != nil {
		return nil, err
	}

	result, err := s.products.create(ctx, payload)
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("name", payload.Name),
		zap.Int("images", len(payload.Images)))
	return result, nil
}

// Update replaces a product
func (s *ProductService) Update(ctx context.Context, id domain.ID, req *domain.ProductRequest, files []ImageUpload) (*MutationResult[domain.Product], error) {
	payload, err := s.buildPayload(ctx, req, files)
	if err != nil {
		return nil, err
	}

	result, err := s.products.update(ctx, id, payload)
	if err != nil {
		return nil, err
	}

	s.logger.Info("product updated", zap.String("product_id", id.String()))
	return result, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, id domain.ID) (*MutationResult[domain.Product], error) {
	result, err := s.products.delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("product deleted", zap.String("product_id", id.String()))
	return result, nil
}

// productPayload is the body sent to the upstream products endpoint
type productPayload struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Categories      []string `json:"categories"`
	OriginalPrice   float64  `json:"originalPrice"`
	DiscountPercent float64  `json:"discountPercent"`
	SellingPrice    float64  `json:"sellingPrice"`
	Stock           int      `json:"stock"`
	Images          []string `json:"images"`
	IsFeatured      bool     `json:"isFeatured"`
	IsActive        bool     `json:"isActive"`
}

func (s *ProductService) buildPayload(ctx context.Context, req *domain.ProductRequest, files []ImageUpload) (*productPayload, error) {
	selection := catalog.NewSelection(req.Categories...)
	if err := selection.Validate(catalog.Flatten()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	selling, err := pricing.ResolveSellingPrice(req.OriginalPrice, req.DiscountPercent, req.SellingPrice)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	images := make([]string, 0, len(req.Images)+len(files))
	for _, img := range req.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	if len(files) > 0 {
		encoded, err := s.uploads.EncodeAll(ctx, "products", files)
		if err != nil {
			return nil, err
		}
		images = append(images, encoded...)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	return &productPayload{
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		Categories:      selection.Values(),
		OriginalPrice:   req.OriginalPrice,
		DiscountPercent: req.DiscountPercent,
		SellingPrice:    selling,
		Stock:           req.Stock,
		Images:          images,
		IsFeatured:      req.IsFeatured,
		IsActive:        isActive,
	}, nil
}

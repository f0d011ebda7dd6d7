package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/upstream"
	"go.uber.org/zap"
)

// ClassService manages flower-school workshops
type ClassService struct {
	classes collection[domain.Class]
	uploads *UploadService
	logger  *zap.Logger
}

// NewClassService creates a new class service
func NewClassService(client *upstream.Client, uploads *UploadService, logger *zap.Logger) *ClassService {
	return &ClassService{
		classes: newCollection[domain.Class](client, upstream.PathClasses, "class", logger),
		uploads: uploads,
		logger:  logger,
	}
}

// List returns all classes
func (s *ClassService) List(ctx context.Context) ([]domain.Class, error) {
	return s.classes.list(ctx, nil)
}

// Get returns one class
func (s *ClassService) Get(ctx context.Context, id domain.ID) (*domain.Class, error) {
	return s.classes.get(ctx, id)
}

// Create schedules a new class. image replaces req.Image when given.
func (s *ClassService) Create(ctx context.Context, req *domain.ClassRequest, image *ImageUpload) (*MutationResult[domain.Class], error) {
	if err := s.prepare(ctx, req, image); err != nil {
		return nil, err
	}

	result, err := s.classes.create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("class created",
		zap.String("title", req.Title),
		zap.String("date", req.Date))
	return result, nil
}

// Update replaces a class
func (s *ClassService) Update(ctx context.Context, id domain.ID, req *domain.ClassRequest, image *ImageUpload) (*MutationResult[domain.Class], error) {
	if err := s.prepare(ctx, req, image); err != nil {
		return nil, err
	}

	result, err := s.classes.update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("class updated", zap.String("class_id", id.String()))
	return result, nil
}

// Delete removes a class
func (s *ClassService) Delete(ctx context.Context, id domain.ID) (*MutationResult[domain.Class], error) {
	result, err := s.classes.delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("class deleted", zap.String("class_id", id.String()))
	return result, nil
}

func (s *ClassService) prepare(ctx context.Context, req *domain.ClassRequest, image *ImageUpload) error {
	req.Title = strings.TrimSpace(req.Title)

	start, end, err := clockWindow(req.StartTime, req.EndTime)
	if errors.Is(err, errEndNotAfterStart) {
		return fmt.Errorf("%w: end time must be after start time", ErrInvalidInput)
	}
	if err != nil {
		return err
	}
	req.StartTime, req.EndTime = start, end

	if image != nil {
		res, err := s.uploads.Encode(ctx, "classes", *image)
		if err != nil {
			return err
		}
		req.Image = res.DataURL()
	}
	return nil
}

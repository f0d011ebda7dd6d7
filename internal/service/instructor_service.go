package service

import (
	"context"
	"strings"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/upstream"
	"go.uber.org/zap"
)

// InstructorService manages flower-school instructors
type InstructorService struct {
	instructors collection[domain.Instructor]
	uploads     *UploadService
	logger      *zap.Logger
}

// NewInstructorService creates a new instructor service
func NewInstructorService(client *upstream.Client, uploads *UploadService, logger *zap.Logger) *InstructorService {
	return &InstructorService{
		instructors: newCollection[domain.Instructor](client, upstream.PathInstructors, "instructor", logger),
		uploads:     uploads,
		logger:      logger,
	}
}

func (s *InstructorService) List(ctx context.Context) ([]domain.Instructor, error) {
	return s.instructors.list(ctx, nil)
}

func (s *InstructorService) Get(ctx context.Context, id domain.ID) (*domain.Instructor, error) {
	return s.instructors.get(ctx, id)
}

// Create adds an instructor. photo replaces req.Image when given.
func (s *InstructorService) Create(ctx context.Context, req *domain.InstructorRequest, photo *ImageUpload) (*MutationResult[domain.Instructor], error) {
	if err := s.prepare(ctx, req, photo); err != nil {
		return nil, err
	}

	result, err := s.instructors.create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("instructor created", zap.String("name", req.Name))
	return result, nil
}

func (s *InstructorService) Update(ctx context.Context, id domain.ID, req *domain.InstructorRequest, photo *ImageUpload) (*MutationResult[domain.Instructor], error) {
	if err := s.prepare(ctx, req, photo); err != nil {
		return nil, err
	}

	result, err := s.instructors.update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("instructor updated", zap.String("instructor_id", id.String()))
	return result, nil
}

func (s *InstructorService) Delete(ctx context.Context, id domain.ID) (*MutationResult[domain.Instructor], error) {
	result, err := s.instructors.delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("instructor deleted", zap.String("instructor_id", id.String()))
	return result, nil
}

func (s *InstructorService) prepare(ctx context.Context, req *domain.InstructorRequest, photo *ImageUpload) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.IsActive == nil {
		active := true
		req.IsActive = &active
	}

	if photo != nil {
		res, err := s.uploads.Encode(ctx, "instructors", *photo)
		if err != nil {
			return err
		}
		req.Image = res.DataURL()
	}
	return nil
}

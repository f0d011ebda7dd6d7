package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bloomhouse/admin-console/internal/auth"
	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/imaging"
	"github.com/bloomhouse/admin-console/internal/repository"
	"github.com/bloomhouse/admin-console/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ImageUpload is one image file submitted with a form
type ImageUpload struct {
	Filename string
	Data     io.Reader
}

// UploadService prepares form images for the upstream API and, when enabled, archives the
// original file before it is resized.
type UploadService struct {
	storage    storage.Storage
	uploadRepo *repository.UploadRepository
	opts       imaging.Options
	archive    bool
	logger     *zap.Logger
}

// NewUploadService creates an upload service. storage and uploadRepo may be nil, which
// disables archiving.
func NewUploadService(
	store storage.Storage,
	uploadRepo *repository.UploadRepository,
	opts imaging.Options,
	archive bool,
	logger *zap.Logger,
) *UploadService {
	return &UploadService{
		storage:    store,
		uploadRepo: uploadRepo,
		opts:       opts,
		archive:    archive && store != nil && uploadRepo != nil,
		logger:     logger,
	}
}

// ArchiveEnabled reports whether originals are archived
func (s *UploadService) ArchiveEnabled() bool {
	return s.archive
}

// Encode resizes and base64-encodes an image for the given panel
func (s *UploadService) Encode(ctx context.Context, panel string, upload ImageUpload) (*imaging.Result, error) {
	limit := s.opts.MaxBytes
	if limit <= 0 {
		limit = imaging.DefaultMaxBytes
	}

	raw, err := io.ReadAll(io.LimitReader(upload.Data, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", upload.Filename, err)
	}

	result, err := imaging.Process(bytes.NewReader(raw), s.opts)
	if err != nil {
		if errors.Is(err, imaging.ErrTooLarge) || errors.Is(err, imaging.ErrUnsupported) || errors.Is(err, imaging.ErrEmpty) {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidInput, upload.Filename, err)
		}
		return nil, fmt.Errorf("failed to process %s: %w", upload.Filename, err)
	}

	if s.archive {
		if err := s.archiveOriginal(ctx, panel, upload.Filename, raw, result); err != nil {
			// the encoded image is still usable, so the form submission continues
			s.logger.Warn("failed to archive original image",
				zap.String("panel", panel),
				zap.String("filename", upload.Filename),
				zap.Error(err))
		}
	}

	return result, nil
}

// EncodeAll encodes several uploads and returns their data URLs in order
func (s *UploadService) EncodeAll(ctx context.Context, panel string, uploads []ImageUpload) ([]string, error) {
	urls := make([]string, 0, len(uploads))
	for _, u := range uploads {
		res, err := s.Encode(ctx, panel, u)
		if err != nil {
			return nil, err
		}
		urls = append(urls, res.DataURL())
	}
	return urls, nil
}

func (s *UploadService) archiveOriginal(ctx context.Context, panel, filename string, raw []byte, result *imaging.Result) error {
	stored, err := s.storage.Put(ctx, storage.Object{
		Panel:       panel,
		Filename:    filename,
		ContentType: result.SourceType,
		Body:        bytes.NewReader(raw),
	})
	if err != nil {
		return err
	}

	record := &domain.UploadRecord{
		Panel:            panel,
		OriginalFilename: filename,
		ContentType:      result.SourceType,
		SizeBytes:        stored.Size,
		Width:            result.OriginalWidth,
		Height:           result.OriginalHeight,
		StoragePath:      stored.Key,
		StorageMode:      s.storage.Mode(),
	}
	if user, ok := auth.FromContext(ctx); ok {
		record.UploadedBy = user.Email
	}

	if err := s.uploadRepo.Create(ctx, record); err != nil {
		_ = s.storage.Remove(ctx, stored.Key)
		return fmt.Errorf("failed to index upload: %w", err)
	}
	return nil
}

// List returns archived uploads
func (s *UploadService) List(ctx context.Context, panel string, page, pageSize int) ([]domain.UploadRecord, int64, error) {
	if !s.archive {
		return nil, 0, ErrArchiveDisabled
	}
	return s.uploadRepo.List(ctx, panel, page, pageSize)
}

// Download opens an archived original
func (s *UploadService) Download(ctx context.Context, id uuid.UUID) (*domain.UploadRecord, io.ReadCloser, error) {
	record, err := s.get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.storage.Open(ctx, record.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, nil, fmt.Errorf("failed to download upload: %w", err)
	}
	return record, rc, nil
}

// Delete removes an archived original and its index entry
func (s *UploadService) Delete(ctx context.Context, id uuid.UUID) error {
	record, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.storage.Remove(ctx, record.StoragePath); err != nil {
		return fmt.Errorf("failed to delete stored upload: %w", err)
	}
	if err := s.uploadRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete upload record: %w", err)
	}

	s.logger.Info("archived upload deleted",
		zap.String("upload_id", id.String()),
		zap.String("panel", record.Panel))
	return nil
}

func (s *UploadService) get(ctx context.Context, id uuid.UUID) (*domain.UploadRecord, error) {
	if !s.archive {
		return nil, ErrArchiveDisabled
	}
	record, err := s.uploadRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get upload: %w", err)
	}
	return record, nil
}

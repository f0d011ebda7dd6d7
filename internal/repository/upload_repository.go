package repository

import (
	"context"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UploadRepository indexes archived original images
type UploadRepository struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

func (r *UploadRepository) Create(ctx context.Context, record *domain.UploadRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *UploadRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.UploadRecord, error) {
	var record domain.UploadRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns archived uploads newest first, optionally restricted to one panel
func (r *UploadRepository) List(ctx context.Context, panel string, page, pageSize int) ([]domain.UploadRecord, int64, error) {
	var records []domain.UploadRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.UploadRecord{})
	if panel != "" {
		query = query.Where("panel = ?", panel)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&records).Error

	return records, total, err
}

func (r *UploadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.UploadRecord{}, "id = ?", id).Error
}

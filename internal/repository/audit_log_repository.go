package repository

import (
	"context"
	"time"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditQuery selects console activity. Zero values leave a dimension unfiltered.
type AuditQuery struct {
	// Actor matches either the staff id or the staff email
	Actor    string
	Action   domain.AuditAction
	Panel    string
	RecordID string
	Since    time.Time
	Until    time.Time
	Page     int
	PageSize int
}

// ActivityCount is one (panel, action) bucket of the activity breakdown
type ActivityCount struct {
	Panel  string             `gorm:"column:entity_type"`
	Action domain.AuditAction `gorm:"column:action"`
	Count  int64              `gorm:"column:total"`
}

// AuditLogRepository stores the console's own trail of staff mutations
type AuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Record appends an entry. Entries are never updated.
func (r *AuditLogRepository) Record(ctx context.Context, entry *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// Find returns a single entry or gorm.ErrRecordNotFound
func (r *AuditLogRepository) Find(ctx context.Context, id uuid.UUID) (*domain.AuditLog, error) {
	var entry domain.AuditLog
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// Search returns one page of entries matching q, newest first, with the unpaged total
func (r *AuditLogRepository) Search(ctx context.Context, q AuditQuery) ([]domain.AuditLog, int64, error) {
	scoped := r.db.WithContext(ctx).Model(&domain.AuditLog{}).Scopes(
		byActor(q.Actor),
		byColumn("action", string(q.Action)),
		byColumn("entity_type", q.Panel),
		byColumn("entity_id", q.RecordID),
		performedBetween(q.Since, q.Until),
	)

	var total int64
	if err := scoped.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []domain.AuditLog
	err := scoped.Scopes(newestFirst, paginate(q.Page, q.PageSize)).Find(&entries).Error
	return entries, total, err
}

// History returns the latest entries touching one upstream record
func (r *AuditLogRepository) History(ctx context.Context, panel, recordID string, limit int) ([]domain.AuditLog, error) {
	var entries []domain.AuditLog
	err := r.db.WithContext(ctx).
		Scopes(byColumn("entity_type", panel), byColumn("entity_id", recordID), newestFirst).
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// Breakdown counts entries per panel and action inside the window
func (r *AuditLogRepository) Breakdown(ctx context.Context, since, until time.Time) ([]ActivityCount, error) {
	var counts []ActivityCount
	err := r.db.WithContext(ctx).Model(&domain.AuditLog{}).
		Select("entity_type, action, COUNT(*) AS total").
		Scopes(performedBetween(since, until)).
		Group("entity_type, action").
		Order("entity_type, action").
		Scan(&counts).Error
	return counts, err
}

// PurgeBefore deletes entries performed before cutoff and reports how many went
func (r *AuditLogRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("performed_at < ?", cutoff).Delete(&domain.AuditLog{})
	return res.RowsAffected, res.Error
}

func byActor(actor string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if actor == "" {
			return db
		}
		return db.Where("user_id = ? OR user_email = ?", actor, actor)
	}
}

func byColumn(column, value string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if value == "" {
			return db
		}
		return db.Where(column+" = ?", value)
	}
}

func performedBetween(since, until time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !since.IsZero() {
			db = db.Where("performed_at >= ?", since)
		}
		if !until.IsZero() {
			db = db.Where("performed_at <= ?", until)
		}
		return db
	}
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("performed_at DESC")
}

func paginate(page, pageSize int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		if pageSize < 1 {
			pageSize = 20
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

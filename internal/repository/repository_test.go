package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.AuditLog{}, &domain.UploadRecord{}))
	return db
}

func auditEntry(action domain.AuditAction, entityType, entityID string, at time.Time) *domain.AuditLog {
	return &domain.AuditLog{
		UserID:      "7",
		UserEmail:   "staff@example.com",
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Method:      "POST",
		Path:        "/api/v1/" + entityType,
		StatusCode:  201,
		PerformedAt: at.UTC(),
	}
}

func TestAuditLogRepository_RecordAndFind(t *testing.T) {
	repo := repository.NewAuditLogRepository(setupDB(t))
	ctx := context.Background()

	entry := auditEntry(domain.AuditActionCreate, "Product", "12", time.Now())
	require.NoError(t, repo.Record(ctx, entry))
	assert.NotEmpty(t, entry.ID)

	got, err := repo.Find(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Product", got.EntityType)
	assert.Equal(t, "12", got.EntityID)

	_, err = repo.Find(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAuditLogRepository_Search(t *testing.T) {
	repo := repository.NewAuditLogRepository(setupDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Record(ctx, auditEntry(domain.AuditActionCreate, "Product", "1", now.Add(-3*time.Hour))))
	require.NoError(t, repo.Record(ctx, auditEntry(domain.AuditActionUpdate, "Product", "1", now.Add(-2*time.Hour))))
	other := auditEntry(domain.AuditActionDelete, "Coupon", "9", now.Add(-1*time.Hour))
	other.UserID, other.UserEmail = "8", "owner@example.com"
	require.NoError(t, repo.Record(ctx, other))

	all, total, err := repo.Search(ctx, repository.AuditQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, all, 3)
	assert.Equal(t, "Coupon", all[0].EntityType, "newest first")

	updates, total, err := repo.Search(ctx, repository.AuditQuery{Panel: "Product", Action: domain.AuditActionUpdate})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, updates, 1)
	assert.Equal(t, domain.AuditActionUpdate, updates[0].Action)

	byEmail, total, err := repo.Search(ctx, repository.AuditQuery{Actor: "owner@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "9", byEmail[0].EntityID)

	_, total, err = repo.Search(ctx, repository.AuditQuery{Actor: "7"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	recent, total, err := repo.Search(ctx, repository.AuditQuery{Since: now.Add(-150 * time.Minute)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, recent, 2)

	paged, total, err := repo.Search(ctx, repository.AuditQuery{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, paged, 1)

	history, err := repo.History(ctx, "Product", "1", 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestAuditLogRepository_Breakdown(t *testing.T) {
	repo := repository.NewAuditLogRepository(setupDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Record(ctx, auditEntry(domain.AuditActionCreate, "Product", "1", now)))
	require.NoError(t, repo.Record(ctx, auditEntry(domain.AuditActionCreate, "Class", "2", now)))
	require.NoError(t, repo.Record(ctx, auditEntry(domain.AuditActionDelete, "Class", "2", now)))
	require.NoError(t, repo.Record(ctx, auditEntry(domain.AuditActionDelete, "Class", "3", now.AddDate(0, 0, -2))))

	counts, err := repo.Breakdown(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []repository.ActivityCount{
		{Panel: "Class", Action: domain.AuditActionCreate, Count: 1},
		{Panel: "Class", Action: domain.AuditActionDelete, Count: 1},
		{Panel: "Product", Action: domain.AuditActionCreate, Count: 1},
	}, counts)
}

func TestAuditLogRepository_PurgeBefore(t *testing.T) {
	repo := repository.NewAuditLogRepository(setupDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Record(ctx, auditEntry(domain.AuditActionCreate, "Product", "1", now.AddDate(0, 0, -200))))
	require.NoError(t, repo.Record(ctx, auditEntry(domain.AuditActionCreate, "Product", "2", now.AddDate(0, 0, -10))))

	deleted, err := repo.PurgeBefore(ctx, now.AddDate(0, 0, -180))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, total, err := repo.Search(ctx, repository.AuditQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestUploadRepository(t *testing.T) {
	repo := repository.NewUploadRepository(setupDB(t))
	ctx := context.Background()

	product := &domain.UploadRecord{Panel: "products", OriginalFilename: "rose.jpg", StoragePath: "products/a.jpg", CreatedAt: time.Now().Add(-time.Minute)}
	instructor := &domain.UploadRecord{Panel: "instructors", OriginalFilename: "asha.png", StoragePath: "instructors/b.png", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, product))
	require.NoError(t, repo.Create(ctx, instructor))

	got, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "rose.jpg", got.OriginalFilename)

	all, total, err := repo.List(ctx, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "instructors", all[0].Panel)

	onlyProducts, total, err := repo.List(ctx, "products", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, onlyProducts, 1)

	require.NoError(t, repo.Delete(ctx, product.ID))
	_, err = repo.GetByID(ctx, product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

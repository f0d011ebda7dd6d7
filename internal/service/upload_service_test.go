package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/bloomhouse/admin-console/internal/auth"
	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/imaging"
	"github.com/bloomhouse/admin-console/internal/repository"
	"github.com/bloomhouse/admin-console/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newArchivingUploads(t *testing.T) *UploadService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.UploadRecord{}))

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	return NewUploadService(store, repository.NewUploadRepository(db), imaging.Options{MaxWidth: 50}, true, zap.NewNop())
}

func TestUploadService_ArchivesOriginal(t *testing.T) {
	svc := newArchivingUploads(t)
	require.True(t, svc.ArchiveEnabled())

	original := testPNG(t, 200, 100)
	ctx := auth.WithUserContext(context.Background(), &auth.UserContext{UserID: "3", Email: "florist@example.com"})

	result, err := svc.Encode(ctx, "products", ImageUpload{Filename: "peony.png", Data: bytes.NewReader(original)})
	require.NoError(t, err)
	assert.Equal(t, 50, result.Width)
	assert.True(t, result.Resized)

	records, total, err := svc.List(ctx, "products", 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	record := records[0]
	assert.Equal(t, "peony.png", record.OriginalFilename)
	assert.Equal(t, "florist@example.com", record.UploadedBy)
	assert.Equal(t, 200, record.Width)
	assert.Equal(t, storage.ModeLocal, record.StorageMode)
	assert.Equal(t, int64(len(original)), record.SizeBytes)

	got, rc, err := svc.Download(ctx, record.ID)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, original, data, "the archive keeps the unresized file")

	require.NoError(t, svc.Delete(ctx, record.ID))
	_, _, err = svc.Download(ctx, record.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUploadService_ArchiveDisabled(t *testing.T) {
	svc := NewUploadService(nil, nil, imaging.Options{}, true, zap.NewNop())
	assert.False(t, svc.ArchiveEnabled())

	_, err := svc.Encode(context.Background(), "classes", ImageUpload{Filename: "a.png", Data: bytes.NewReader(testPNG(t, 4, 4))})
	require.NoError(t, err)

	_, _, err = svc.List(context.Background(), "", 1, 10)
	assert.ErrorIs(t, err, ErrArchiveDisabled)
	_, _, err = svc.Download(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrArchiveDisabled)
}

func TestUploadService_EncodeAllStopsAtFirstBadFile(t *testing.T) {
	svc := NewUploadService(nil, nil, imaging.Options{}, false, zap.NewNop())

	_, err := svc.EncodeAll(context.Background(), "products", []ImageUpload{
		{Filename: "ok.png", Data: bytes.NewReader(testPNG(t, 2, 2))},
		{Filename: "notes.txt", Data: bytes.NewReader([]byte("plain text"))},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorContains(t, err, "notes.txt")
}

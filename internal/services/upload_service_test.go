package services_test

import (
	"context"
	"io"
	"os"
	"testing"

	"transport_backend/internal/models"
	"transport_backend/internal/repositories"
	"transport_backend/internal/services"
	"transport_backend/internal/services/dto"
	"transport_backend/internal/storage"
	"transport_backend/pkg/apperrors"
	"transport_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// failingMediaRepo отказывает при вставке записи
type failingMediaRepo struct {
	repositories.MediaRepository
}

func (failingMediaRepo) Create(db *gorm.DB, media *models.Media) error {
	return helpers.ErrFake
}

func newUploadService(t *testing.T, repo repositories.MediaRepository, cfg *services.UploadConfig) (services.UploadService, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(storage.Config{BasePath: dir, BaseURL: "/uploads"})
	require.NoError(t, err)
	return services.NewUploadService(repo, store, cfg), dir
}

func TestUploadService_UploadImage(t *testing.T) {
	ctx := context.Background()
	db := helpers.NewTestDB(t)
	uploads, dir := newUploadService(t, repositories.NewMediaRepository(), nil)
	user := helpers.CreateUser(t, db, "uploader@example.com", "secret123")

	resp, err := uploads.Upload(ctx, db, &dto.UploadRequest{
		UserID: user.ID,
		File:   helpers.FileHeader(t, "Truck.PNG", "image/png", helpers.PNG(t, 64, 48)),
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "Truck.PNG", resp.OriginalFilename)
	assert.Equal(t, resp.ID+".png", resp.Filename)
	assert.Equal(t, "/uploads/"+resp.Filename, resp.URL)
	assert.Equal(t, "/uploads/thumb_"+resp.ID+".jpg", resp.ThumbnailURL)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	media, err := repositories.NewMediaRepository().FindByID(db, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MediaTypeImage, media.Type)
	require.NotNil(t, media.UserID)
	assert.Equal(t, user.ID, *media.UserID)

	obj, err := uploads.Open(ctx, resp.Filename)
	require.NoError(t, err)
	defer obj.Body.Close()
	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, helpers.PNG(t, 64, 48), data)
}

func TestUploadService_AnonymousVideoHasNoThumbnail(t *testing.T) {
	ctx := context.Background()
	db := helpers.NewTestDB(t)
	uploads, _ := newUploadService(t, repositories.NewMediaRepository(), nil)

	resp, err := uploads.Upload(ctx, db, &dto.UploadRequest{
		File: helpers.FileHeader(t, "clip.mp4", "video/mp4", []byte("not really a video")),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.ThumbnailURL)

	media, err := repositories.NewMediaRepository().FindByID(db, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MediaTypeVideo, media.Type)
	assert.Nil(t, media.UserID)

	videos, err := uploads.ListVideos(ctx, db, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, videos.Items, 1)
	assert.Equal(t, resp.ID, videos.Items[0].ID)
}

func TestUploadService_MIMEFromExtension(t *testing.T) {
	db := helpers.NewTestDB(t)
	uploads, _ := newUploadService(t, repositories.NewMediaRepository(), nil)

	resp, err := uploads.Upload(context.Background(), db, &dto.UploadRequest{
		File: helpers.FileHeader(t, "invoice.pdf", "application/octet-stream", []byte("%PDF-1.4")),
	})
	require.NoError(t, err)

	media, err := repositories.NewMediaRepository().FindByID(db, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", media.MimeType)
	assert.Equal(t, models.MediaTypeFile, media.Type)
}

func TestUploadService_BrokenImageStillUploads(t *testing.T) {
	db := helpers.NewTestDB(t)
	uploads, _ := newUploadService(t, repositories.NewMediaRepository(), nil)

	resp, err := uploads.Upload(context.Background(), db, &dto.UploadRequest{
		File: helpers.FileHeader(t, "broken.jpg", "image/jpeg", []byte("garbage")),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.ThumbnailURL)
}

func TestUploadService_Rejects(t *testing.T) {
	ctx := context.Background()
	db := helpers.NewTestDB(t)
	cfg := services.DefaultUploadConfig()
	cfg.MaxFileSize = 16
	uploads, dir := newUploadService(t, repositories.NewMediaRepository(), cfg)

	_, err := uploads.Upload(ctx, db, &dto.UploadRequest{})
	assert.ErrorIs(t, err, apperrors.ErrFileRequired)

	_, err = uploads.Upload(ctx, db, &dto.UploadRequest{
		File: helpers.FileHeader(t, "big.pdf", "application/pdf", make([]byte, 17)),
	})
	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)

	_, err = uploads.Upload(ctx, db, &dto.UploadRequest{
		File: helpers.FileHeader(t, "run.sh", "application/x-sh", []byte("echo")),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidFileType)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadService_RemovesFilesWhenRecordFails(t *testing.T) {
	db := helpers.NewTestDB(t)
	uploads, dir := newUploadService(t, failingMediaRepo{repositories.NewMediaRepository()}, nil)

	_, err := uploads.Upload(context.Background(), db, &dto.UploadRequest{
		File: helpers.FileHeader(t, "photo.png", "image/png", helpers.PNG(t, 8, 8)),
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 500, appErr.HTTPCode)

	// ни файла, ни миниатюры
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadService_OpenMissing(t *testing.T) {
	uploads, _ := newUploadService(t, repositories.NewMediaRepository(), nil)

	for _, name := range []string{"missing.png", "../etc/passwd"} {
		_, err := uploads.Open(context.Background(), name)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok, name)
		assert.Equal(t, 404, appErr.HTTPCode, name)
	}
}

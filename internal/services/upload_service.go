package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"transport_backend/internal/imageprocessor"
	"transport_backend/internal/logger"
	"transport_backend/internal/metrics"
	"transport_backend/internal/models"
	"transport_backend/internal/repositories"
	"transport_backend/internal/services/dto"
	"transport_backend/internal/storage"
	"transport_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================================
// UPLOAD SERVICE
// ============================================

type UploadService interface {
	// Upload сохраняет файл и создает запись Media
	Upload(ctx context.Context, db *gorm.DB, req *dto.UploadRequest) (*dto.UploadResponse, error)

	// Open открывает сохраненный файл по имени
	Open(ctx context.Context, filename string) (*storage.Object, error)

	// ResolveMedia возвращает записи Media в порядке ids
	ResolveMedia(ctx context.Context, db *gorm.DB, ids []string) ([]models.Media, error)

	// DeleteMedia удаляет файлы, затем записи. Ошибки хранилища только логируются.
	DeleteMedia(ctx context.Context, db *gorm.DB, ids []string) (int64, error)

	ListVideos(ctx context.Context, db *gorm.DB, page dto.PageRequest) (*dto.Page[models.Media], error)
}

// UploadConfig - ограничения загрузки
type UploadConfig struct {
	MaxFileSize  int64
	AllowedTypes []string
	ImageQuality int
}

func DefaultUploadConfig() *UploadConfig {
	return &UploadConfig{
		MaxFileSize: 10 * 1024 * 1024, // 10MB
		AllowedTypes: []string{
			"image/jpeg", "image/png", "image/gif", "image/webp",
			"video/mp4", "video/quicktime", "video/webm",
			"application/pdf",
		},
		ImageQuality: 85,
	}
}

type uploadService struct {
	mediaRepo repositories.MediaRepository
	storage   storage.Storage
	imageProc *imageprocessor.Processor
	config    *UploadConfig
}

func NewUploadService(
	mediaRepo repositories.MediaRepository,
	storage storage.Storage,
	config *UploadConfig,
) UploadService {
	if config == nil {
		config = DefaultUploadConfig()
	}
	return &uploadService{
		mediaRepo: mediaRepo,
		storage:   storage,
		imageProc: imageprocessor.NewProcessor(config.ImageQuality),
		config:    config,
	}
}

func (s *uploadService) Upload(ctx context.Context, db *gorm.DB, req *dto.UploadRequest) (*dto.UploadResponse, error) {
	if req == nil || req.File == nil {
		return nil, apperrors.ErrFileRequired
	}

	mimeType, err := s.validateFile(req)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(req.File.Filename))
	id := uuid.NewString()
	filename := id + ext

	src, err := req.File.Open()
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to open uploaded file: %w", err))
	}
	defer src.Close()

	if err := s.storage.Save(ctx, filename, src, mimeType); err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to save file to storage: %w", err))
	}

	mediaType := mediaTypeFromMIME(mimeType)

	var thumbURL string
	if mediaType == models.MediaTypeImage {
		thumbURL = s.createThumbnail(ctx, req, filename)
	}

	media := &models.Media{
		BaseModel:    models.BaseModel{ID: id},
		Type:         mediaType,
		URL:          s.storage.URL(filename),
		Filename:     filename,
		OriginalName: req.File.Filename,
		MimeType:     mimeType,
		Size:         req.File.Size,
		ThumbnailURL: thumbURL,
	}
	if req.UserID != "" {
		userID := req.UserID
		media.UserID = &userID
	}

	if err := s.mediaRepo.Create(db.WithContext(ctx), media); err != nil {
		// Компенсация: файл без записи не нужен
		s.removeFiles(ctx, media)
		return nil, apperrors.InternalError(fmt.Errorf("failed to create media record: %w", err))
	}

	metrics.UploadsTotal.WithLabelValues(string(mediaType)).Inc()
	logger.CtxInfo(ctx, "File uploaded", "media_id", media.ID, "type", mediaType, "size", media.Size)

	return &dto.UploadResponse{
		Success:          true,
		OriginalFilename: media.OriginalName,
		Filename:         media.Filename,
		ID:               media.ID,
		URL:              media.URL,
		ThumbnailURL:     media.ThumbnailURL,
		Message:          "File uploaded successfully!",
	}, nil
}

func (s *uploadService) Open(ctx context.Context, filename string) (*storage.Object, error) {
	obj, err := s.storage.Open(ctx, filename)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			return nil, apperrors.NewNotFoundError("upload", "File not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return obj, nil
}

func (s *uploadService) ResolveMedia(ctx context.Context, db *gorm.DB, ids []string) ([]models.Media, error) {
	media, err := s.mediaRepo.FindByIDs(db.WithContext(ctx), ids)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return media, nil
}

func (s *uploadService) DeleteMedia(ctx context.Context, db *gorm.DB, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	db = db.WithContext(ctx)

	media, err := s.mediaRepo.FindByIDs(db, ids)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}

	// Сначала файлы, затем записи
	for i := range media {
		s.removeFiles(ctx, &media[i])
	}

	n, err := s.mediaRepo.DeleteByIDs(db, ids)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return n, nil
}

func (s *uploadService) ListVideos(ctx context.Context, db *gorm.DB, page dto.PageRequest) (*dto.Page[models.Media], error) {
	page = page.Normalize()
	items, total, err := s.mediaRepo.FindByType(db.WithContext(ctx), models.MediaTypeVideo, page.Limit, page.Offset())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.Page[models.Media]{
		Items:      items,
		Pagination: dto.NewPagination(page, total),
	}, nil
}

// ============================================
// ВСПОМОГАТЕЛЬНЫЕ МЕТОДЫ
// ============================================

func (s *uploadService) validateFile(req *dto.UploadRequest) (string, error) {
	if req.File.Size > s.config.MaxFileSize {
		return "", apperrors.ErrFileTooLarge
	}

	mimeType := detectMIME(req.File.Header.Get("Content-Type"), req.File.Filename)
	for _, allowed := range s.config.AllowedTypes {
		if mimeType == allowed {
			return mimeType, nil
		}
	}
	return "", apperrors.ErrInvalidFileType
}

// createThumbnail - best effort, ошибки только логируются
func (s *uploadService) createThumbnail(ctx context.Context, req *dto.UploadRequest, filename string) string {
	src, err := req.File.Open()
	if err != nil {
		logger.CtxWithError(ctx, "thumbnail: failed to reopen upload", err)
		return ""
	}
	defer src.Close()

	data, err := s.imageProc.Thumbnail(src, imageprocessor.SizeThumbnail)
	if err != nil {
		logger.CtxWithError(ctx, "thumbnail: failed to resize", err, "filename", filename)
		return ""
	}

	key := thumbnailKey(filename)
	if err := s.storage.Save(ctx, key, bytes.NewReader(data), "image/jpeg"); err != nil {
		logger.CtxWithError(ctx, "thumbnail: failed to save", err, "filename", key)
		return ""
	}
	return s.storage.URL(key)
}

func (s *uploadService) removeFiles(ctx context.Context, media *models.Media) {
	if err := s.storage.Delete(ctx, media.Filename); err != nil {
		logger.CtxWithError(ctx, "failed to delete stored file", err, "filename", media.Filename)
	}
	if media.ThumbnailURL != "" {
		key := thumbnailKey(media.Filename)
		if err := s.storage.Delete(ctx, key); err != nil {
			logger.CtxWithError(ctx, "failed to delete thumbnail", err, "filename", key)
		}
	}
}

// thumbnailKey: <uuid>.png -> thumb_<uuid>.jpg
func thumbnailKey(filename string) string {
	return "thumb_" + strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
}

func detectMIME(header, filename string) string {
	mimeType := header
	if mimeType == "" || mimeType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
			mimeType = byExt
		}
	}
	if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = parsed
	}
	return strings.ToLower(mimeType)
}

func mediaTypeFromMIME(mimeType string) models.MediaType {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return models.MediaTypeImage
	case strings.HasPrefix(mimeType, "video/"):
		return models.MediaTypeVideo
	default:
		return models.MediaTypeFile
	}
}

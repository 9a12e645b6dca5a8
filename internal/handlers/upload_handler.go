package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"transport_backend/internal/services"
	"transport_backend/internal/services/dto"
	"transport_backend/internal/storage"
	"transport_backend/pkg/apperrors"
	"transport_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	*BaseHandler
	uploadService services.UploadService
	maxSize       int64
}

func NewUploadHandler(base *BaseHandler, uploadService services.UploadService, maxSize int64) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   base,
		uploadService: uploadService,
		maxSize:       maxSize,
	}
}

// RegisterRoutes - rg это /uploads, optionalAuth прикрепляет владельца загрузки
func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup, optionalAuth gin.HandlerFunc) {
	rg.POST("/upload", optionalAuth, h.Upload)
	rg.GET("/:filename", h.ServeFile)
}

// Upload godoc
// @Summary Загрузить файл
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Файл"
// @Success 201 {object} dto.UploadResponse
// @Failure 400 {object} apperrors.ErrorResponse "Нет файла"
// @Failure 413 {object} apperrors.ErrorResponse "Файл слишком большой"
// @Failure 415 {object} apperrors.ErrorResponse "Тип файла не разрешен"
// @Router /uploads/upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	// Запас на служебные части multipart
	if h.maxSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxSize+1<<20)
	}

	file, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.HandleServiceError(c, apperrors.ErrFileTooLarge)
			return
		}
		h.HandleServiceError(c, apperrors.ErrFileRequired)
		return
	}

	req := &dto.UploadRequest{
		UserID: c.GetString(contextkeys.UserIDKey),
		File:   file,
	}

	resp, err := h.uploadService.Upload(c.Request.Context(), h.GetDB(c), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ServeFile отдает сохраненный файл
func (h *UploadHandler) ServeFile(c *gin.Context) {
	obj, err := h.uploadService.Open(c.Request.Context(), c.Param("filename"))
	if err != nil {
		var appErr *apperrors.AppError
		if apperrors.As(err, &appErr) && appErr.HTTPCode == http.StatusNotFound {
			c.JSON(http.StatusNotFound, gin.H{"detail": "File not found"})
			return
		}
		h.HandleServiceError(c, err)
		return
	}
	streamObject(c, obj)
}

// streamObject отдает объект хранилища и закрывает его
func streamObject(c *gin.Context, obj *storage.Object) {
	defer obj.Body.Close()

	if obj.ContentType != "" {
		c.Header("Content-Type", obj.ContentType)
	}
	if obj.Size > 0 {
		c.Header("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	c.Header("Cache-Control", "public, max-age=31536000")
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, obj.Body); err != nil {
		// Заголовки уже отправлены
		_ = c.Error(err)
	}
}

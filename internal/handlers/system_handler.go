package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"transport_backend/internal/metrics"
	"transport_backend/internal/services"
	"transport_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SystemHandler - приветствие, health, метрики, swagger и статика
type SystemHandler struct {
	*BaseHandler
	uploadService services.UploadService
	appName       string
	staticDir     string
}

func NewSystemHandler(base *BaseHandler, uploadService services.UploadService, appName, staticDir string) *SystemHandler {
	return &SystemHandler{
		BaseHandler:   base,
		uploadService: uploadService,
		appName:       appName,
		staticDir:     staticDir,
	}
}

func (h *SystemHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Welcome)
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.NoRoute(h.StaticFallback)
}

func (h *SystemHandler) Welcome(c *gin.Context) {
	RespondMessage(c, http.StatusOK, fmt.Sprintf("Welcome to the %s project", h.appName))
}

// Health пингует БД
func (h *SystemHandler) Health(c *gin.Context) {
	sqlDB, err := h.GetDB(c).DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// StaticFallback для неизвестных GET-путей вне /api отдает сначала
// загруженный файл, затем файл из STATIC_DIR.
func (h *SystemHandler) StaticFallback(c *gin.Context) {
	path := c.Request.URL.Path
	if c.Request.Method == http.MethodGet && !strings.HasPrefix(path, "/api/") {
		if h.serveUpload(c, strings.TrimPrefix(path, "/")) {
			return
		}
		if h.staticDir != "" {
			clean := filepath.Clean("/" + path)
			full := filepath.Join(h.staticDir, filepath.FromSlash(clean))
			if info, err := os.Stat(full); err == nil && !info.IsDir() {
				c.File(full)
				return
			}
		}
	}

	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"message": "Route not found",
		"code":    "NOT_FOUND",
	})
}

// serveUpload возвращает false, если такого загруженного файла нет
func (h *SystemHandler) serveUpload(c *gin.Context, filename string) bool {
	if filename == "" || strings.Contains(filename, "/") {
		return false
	}
	obj, err := h.uploadService.Open(c.Request.Context(), filename)
	if err != nil {
		var appErr *apperrors.AppError
		if apperrors.As(err, &appErr) && appErr.HTTPCode == http.StatusNotFound {
			return false
		}
		h.HandleServiceError(c, err)
		return true
	}
	streamObject(c, obj)
	return true
}

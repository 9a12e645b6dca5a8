package handlers

import (
	"net/http"

	"transport_backend/internal/models"
	"transport_backend/internal/services"
	"transport_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	*BaseHandler
	postService   services.PostService
	uploadService services.UploadService
}

func NewPostHandler(base *BaseHandler, postService services.PostService, uploadService services.UploadService) *PostHandler {
	return &PostHandler{
		BaseHandler:   base,
		postService:   postService,
		uploadService: uploadService,
	}
}

func (h *PostHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/posts", h.ListPosts)
	rg.POST("/posts", h.CreatePost)
	rg.GET("/my-posts", h.ListMyPosts)
	rg.GET("/posts/:id", h.GetPost)
	rg.PUT("/posts/:id", h.UpdatePost)
	rg.DELETE("/posts/:id", h.DeletePost)
	rg.GET("/like-post/:id", h.ToggleLike)
	rg.GET("/videos", h.ListVideos)
}

// ListPosts godoc
// @Summary Лента активных постов
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param page query int false "Страница" default(1)
// @Param limit query int false "Размер страницы" default(10)
// @Success 200 {object} dto.ListResponse[models.Post]
// @Router /api/posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	page, err := h.postService.ListPosts(c.Request.Context(), h.GetDB(c), ParsePagination(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondList(c, "Posts fetched successfully.", page)
}

func (h *PostHandler) ListMyPosts(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, err := h.postService.ListMyPosts(c.Request.Context(), h.GetDB(c), userID, ParsePagination(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondList(c, "Posts fetched successfully.", page)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.postService.GetPost(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, "Post fetched successfully.", post)
}

// CreatePost godoc
// @Summary Создать пост
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePostRequest true "Пост"
// @Success 201 {object} dto.DataResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /api/posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePostRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	post, err := h.postService.CreatePost(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, "Post created successfully.", post)
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdatePostRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	post, err := h.postService.UpdatePost(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, "Post updated successfully.", post)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.postService.DeletePost(c.Request.Context(), h.GetDB(c), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondMessage(c, http.StatusOK, "Post deleted successfully.")
}

func (h *PostHandler) ToggleLike(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	result, err := h.postService.ToggleLike(c.Request.Context(), h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	msg := "Post unliked."
	if result.Liked {
		msg = "Post liked."
	}
	RespondData(c, http.StatusOK, msg, result)
}

func (h *PostHandler) ListVideos(c *gin.Context) {
	page, err := h.uploadService.ListVideos(c.Request.Context(), h.GetDB(c), ParsePagination(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondList[models.Media](c, "Videos fetched successfully.", page)
}

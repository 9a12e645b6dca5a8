package handlers

import (
	"net/http"

	"transport_backend/internal/services"
	"transport_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

// RegisterRoutes - rg уже под AuthMiddleware, admin дополнительно под AdminMiddleware
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, admin gin.HandlerFunc) {
	rg.GET("/me", h.GetMe)
	rg.GET("/users", h.ListUsers)
	rg.POST("/users", admin, h.CreateUser)
	rg.PUT("/users/partial-update/:id", h.PartialUpdate)
}

// GetMe godoc
// @Summary Текущий пользователь
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DataResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /api/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetMe(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	RespondData(c, http.StatusOK, "User fetched successfully.", user)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, err := h.userService.ListUsers(c.Request.Context(), h.GetDB(c), ParsePagination(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	RespondList(c, "Users fetched successfully.", page)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	RespondData(c, http.StatusCreated, "User created successfully.", user)
}

func (h *UserHandler) PartialUpdate(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.PartialUpdateUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.PartialUpdate(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	RespondData(c, http.StatusOK, "User updated successfully.", user)
}

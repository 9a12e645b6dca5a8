package handlers

import (
	"fmt"
	"net/http"

	"transport_backend/internal/services"
	"transport_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
	exposeOTP   bool
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService, exposeOTP bool) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
		exposeOTP:   exposeOTP,
	}
}

// RegisterRoutes регистрирует публичные маршруты аутентификации.
// limiter применяется к отправке кодов и ссылок сброса.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, limiter gin.HandlerFunc) {
	rg.POST("/register", h.Register)
	rg.POST("/signin", h.SignIn)

	rg.POST("/mobile-send-otp", limiter, h.SendMobileOTP)
	rg.POST("/mobile-verify-otp", h.VerifyMobileOTP)
	rg.POST("/email-send-otp", limiter, h.SendEmailOTP)
	rg.POST("/email-verify-otp", h.VerifyEmailOTP)

	rg.POST("/forgot-password", limiter, h.ForgotPassword)
	rg.POST("/reset-password", h.ResetPassword)
}

// Register godoc
// @Summary Регистрация
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Данные регистрации"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse "Email или телефон заняты"
// @Router /api/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// SignIn godoc
// @Summary Вход по email и паролю
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignInRequest true "Учетные данные"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /api/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.SignIn(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SendMobileOTP godoc
// @Summary Отправить OTP на телефон
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.MobileOTPRequest true "Телефон"
// @Success 200 {object} dto.OTPSentResponse
// @Router /api/mobile-send-otp [post]
func (h *AuthHandler) SendMobileOTP(c *gin.Context) {
	var req dto.MobileOTPRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	code, err := h.authService.SendMobileOTP(c.Request.Context(), h.GetDB(c), req.Mobile)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.respondOTPSent(c, req.Mobile, code)
}

// VerifyMobileOTP godoc
// @Summary Подтвердить телефон
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.MobileVerifyRequest true "Телефон и код"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /api/mobile-verify-otp [post]
func (h *AuthHandler) VerifyMobileOTP(c *gin.Context) {
	var req dto.MobileVerifyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.VerifyMobileOTP(c.Request.Context(), h.GetDB(c), req.Mobile, req.OTP); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	RespondMessage(c, http.StatusOK, "OTP verified successfully.")
}

// SendEmailOTP godoc
// @Summary Отправить OTP на email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.EmailOTPRequest true "Email"
// @Success 200 {object} dto.OTPSentResponse
// @Failure 502 {object} apperrors.ErrorResponse "Письмо не отправлено"
// @Router /api/email-send-otp [post]
func (h *AuthHandler) SendEmailOTP(c *gin.Context) {
	var req dto.EmailOTPRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	code, err := h.authService.SendEmailOTP(c.Request.Context(), h.GetDB(c), req.Email)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.respondOTPSent(c, req.Email, code)
}

// VerifyEmailOTP godoc
// @Summary Подтвердить email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.EmailVerifyRequest true "Email и код"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /api/email-verify-otp [post]
func (h *AuthHandler) VerifyEmailOTP(c *gin.Context) {
	var req dto.EmailVerifyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.VerifyEmailOTP(c.Request.Context(), h.GetDB(c), req.Email, req.OTP); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	RespondMessage(c, http.StatusOK, "Email OTP verified successfully.")
}

// ForgotPassword godoc
// @Summary Запросить ссылку сброса пароля
// @Description Ответ одинаков для существующего и несуществующего email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Email"
// @Success 200 {object} dto.MessageResponse
// @Router /api/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	msg := h.authService.ForgotPassword(c.Request.Context(), h.GetDB(c), req.Email)
	RespondMessage(c, http.StatusOK, msg)
}

// ResetPassword godoc
// @Summary Сменить пароль по ссылке
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Токен и новый пароль"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} apperrors.ErrorResponse "Ссылка истекла или недействительна"
// @Failure 404 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse "Ссылка уже использована"
// @Router /api/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	msg, err := h.authService.ResetPassword(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	RespondMessage(c, http.StatusOK, msg)
}

func (h *AuthHandler) respondOTPSent(c *gin.Context, address, code string) {
	resp := dto.OTPSentResponse{
		Success: true,
		Message: fmt.Sprintf("OTP sent to %s.", address),
	}
	if h.exposeOTP {
		resp.OTP = code
	}
	c.JSON(http.StatusOK, resp)
}

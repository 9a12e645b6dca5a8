package dto

// RegisterRequest - запрос регистрации
type RegisterRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	Mobile          string `json:"mobile" validate:"required,is-mobile"`
}

// SignInRequest - запрос входа
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// AuthResponse - ответ с токеном сессии
type AuthResponse struct {
	Success bool     `json:"success"`
	Token   string   `json:"token"`
	User    *UserDTO `json:"user"`
	Message string   `json:"message,omitempty"`
}

type MobileOTPRequest struct {
	Mobile string `json:"mobile" validate:"required,is-mobile"`
}

type MobileVerifyRequest struct {
	Mobile string `json:"mobile" validate:"required,is-mobile"`
	OTP    string `json:"otp" validate:"required,is-otp"`
}

type EmailOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type EmailVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,is-otp"`
}

// OTPSentResponse - otp заполняется только в dev режиме
type OTPSentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OTP     string `json:"otp,omitempty"`
}

// ForgotPasswordRequest - запрос ссылки сброса пароля
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest - смена пароля по reset-токену
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

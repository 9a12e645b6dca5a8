package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные для ошибок бизнес-логики.
Тексты сообщений уходят клиенту как есть.
*/

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// --- Auth ---

// ErrNotAuthenticated - нет заголовка, неверная схема или неверный токен.
var ErrNotAuthenticated = New(
	CodeUnauthorized,
	"auth",
	"Not authenticated",
	http.StatusUnauthorized,
)

// ErrSessionExpired - токен сессии просрочен.
var ErrSessionExpired = New(
	CodeTokenExpired,
	"auth",
	"Session expired. Please sign in again.",
	http.StatusUnauthorized,
)

// ErrAuthUserNotFound - токен валиден, но пользователя больше нет.
var ErrAuthUserNotFound = New(
	CodeUnauthorized,
	"auth",
	"Not authorized, user not found",
	http.StatusUnauthorized,
)

// ErrNotAdmin - операция только для администраторов.
var ErrNotAdmin = New(
	CodeForbidden,
	"auth",
	"Not authorized as an admin",
	http.StatusForbidden,
)

// ErrInvalidCredentials - одинаковый ответ для несуществующего,
// неверифицированного пользователя и неверного пароля.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Incorrect email or password.",
	http.StatusUnauthorized,
)

// ErrEmailOrMobileExists - конфликт при регистрации.
var ErrEmailOrMobileExists = New(
	CodeAlreadyExists,
	"auth",
	"The email or mobile already exists.",
	http.StatusConflict,
)

// ErrPasswordMismatch - пароль и подтверждение не совпадают.
var ErrPasswordMismatch = New(
	CodeValidationFailed,
	"validation",
	"Password not matching with confirm password.",
	http.StatusBadRequest,
)

// --- Password reset ---

var ErrResetTokenUsed = New(
	CodeTokenUsed,
	"password_reset",
	"You've already changed your password.",
	http.StatusConflict,
)

var ErrResetTokenExpired = New(
	CodeTokenExpired,
	"password_reset",
	"You're link has expired. Please request a new one.",
	http.StatusBadRequest,
)

var ErrResetTokenInvalid = New(
	CodeInvalidToken,
	"password_reset",
	"You're link is invalid. Please request a new one.",
	http.StatusBadRequest,
)

var ErrResetUserNotFound = New(
	CodeNotFound,
	"password_reset",
	"User not found.",
	http.StatusNotFound,
)

// --- OTP ---

// ErrOTPNotRequestedMobile / ErrOTPNotRequestedEmail - кода нет или он истек.
var ErrOTPNotRequestedMobile = New(
	CodeOTPNotRequested,
	"otp",
	"OTP not requested for this mobile.",
	http.StatusBadRequest,
)

var ErrOTPNotRequestedEmail = New(
	CodeOTPNotRequested,
	"otp",
	"OTP not requested for this email.",
	http.StatusBadRequest,
)

var ErrOTPInvalid = New(
	CodeOTPInvalid,
	"otp",
	"Invalid OTP.",
	http.StatusBadRequest,
)

// --- Resources ---

var ErrPostNotFound = New(CodeNotFound, "post", "Post not found.", http.StatusNotFound)

var ErrVehicleNotFound = New(CodeNotFound, "vehicle", "Vehicle not found.", http.StatusNotFound)

var ErrVehicleRCExists = New(
	CodeAlreadyExists,
	"vehicle",
	"Vehicle with this RC Number already exists.",
	http.StatusConflict,
)

var ErrBookingNotFound = New(CodeNotFound, "booking", "Booking not found.", http.StatusNotFound)

var ErrNotificationNotFound = New(CodeNotFound, "notification", "Notification not found.", http.StatusNotFound)

var ErrNotificationForbidden = New(
	CodeForbidden,
	"notification",
	"You are not allowed to modify this notification.",
	http.StatusForbidden,
)

var ErrUserNotFound = New(CodeNotFound, "user", "User not found.", http.StatusNotFound)

var ErrUserUpdateForbidden = New(
	CodeForbidden,
	"user",
	"You are not allowed to update this user.",
	http.StatusForbidden,
)

// --- Uploads & Files ---

// ErrFileRequired - в multipart нет поля file.
var ErrFileRequired = New(
	CodeValidationFailed,
	"upload",
	"No file uploaded.",
	http.StatusBadRequest,
)

// ErrFileTooLarge - файл превышает максимальный размер.
var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"upload",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

// ErrInvalidFileType - MIME-тип файла не разрешен.
var ErrInvalidFileType = New(
	CodeValidationFailed,
	"upload",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

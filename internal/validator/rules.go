package validator

import (
	"regexp"

	"transport_backend/internal/logger"
	"transport_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

var (
	otpPattern    = regexp.MustCompile(`^[0-9]{6}$`)
	mobilePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// registerCustomRules регистрирует кастомные функции валидации.
func registerCustomRules(v *validator.Validate) {
	// Если правило не зарегистрировалось, приложение не должно стартовать.
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			logger.Fatal("failed to register custom validation tag", "tag", tag, "error", err)
		}
	}

	mustRegister("is-user-type", validateUserType)
	mustRegister("is-otp", validateOTP)
	mustRegister("is-mobile", validateMobile)
}

func validateUserType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустые значения - забота 'required'
	}
	return models.UserType(value).IsValid()
}

func validateOTP(fl validator.FieldLevel) bool {
	return otpPattern.MatchString(fl.Field().String())
}

func validateMobile(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return mobilePattern.MatchString(value)
}

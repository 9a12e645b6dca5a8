package validator_test

import (
	"testing"

	"transport_backend/internal/services/dto"
	"transport_backend/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegister() dto.RegisterRequest {
	return dto.RegisterRequest{
		Name:            "Alice",
		Email:           "alice@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Mobile:          "+77001234567",
	}
}

func TestValidate_RegisterOK(t *testing.T) {
	req := validRegister()
	assert.NoError(t, validator.New().Validate(&req))
}

func TestValidate_RegisterErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*dto.RegisterRequest)
		field   string
		message string
	}{
		{"missing email", func(r *dto.RegisterRequest) { r.Email = "" }, "email", "Email is required."},
		{"bad email", func(r *dto.RegisterRequest) { r.Email = "nope" }, "email", "Email format is invalid."},
		{"short password", func(r *dto.RegisterRequest) { r.Password, r.ConfirmPassword = "abc", "abc" }, "password", "Password must be at least 6 characters long."},
		{"mismatch", func(r *dto.RegisterRequest) { r.ConfirmPassword = "other12" }, "confirm_password", "Password not matching with confirm password."},
		{"bad mobile", func(r *dto.RegisterRequest) { r.Mobile = "12ab" }, "mobile", "Mobile must be a valid mobile number."},
	}

	v := validator.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegister()
			tt.mutate(&req)

			err := v.Validate(&req)
			require.Error(t, err)

			var vErr *validator.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.message, vErr.Errors[tt.field])
		})
	}
}

func TestValidate_OTPFormat(t *testing.T) {
	v := validator.New()

	ok := dto.MobileVerifyRequest{Mobile: "+77001234567", OTP: "012345"}
	assert.NoError(t, v.Validate(&ok))

	for _, code := range []string{"12345", "1234567", "12a456"} {
		req := dto.MobileVerifyRequest{Mobile: "+77001234567", OTP: code}
		assert.Error(t, v.Validate(&req), "otp %q", code)
	}
}

func TestValidate_CreatePostNeedsImages(t *testing.T) {
	req := dto.CreatePostRequest{Title: "t", Content: "c"}
	err := validator.New().Validate(&req)

	var vErr *validator.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Errors, "imageIds")
}

func TestValidationError_FirstIsStable(t *testing.T) {
	e := &validator.ValidationError{Errors: map[string]string{
		"password": "Password is required.",
		"email":    "Email is required.",
	}}
	assert.Equal(t, "Email is required.", e.First())
	assert.Contains(t, e.Error(), "field 'email'")
}

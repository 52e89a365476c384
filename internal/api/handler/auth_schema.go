package handler

import "github.com/crud-app/records-api/internal/core/domain"

// --- Requests ---

type signUpRequest struct {
	Name     string `json:"name" form:"name" validate:"required,notblank,min=2"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

type verifyEmailRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
	OTP   string `json:"otp" form:"otp" validate:"required,len=6,numeric"`
}

type emailRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

type signInRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// resetPasswordRequest is checked by the auth service so the token, length
// and confirmation errors keep their specific messages.
type resetPasswordRequest struct {
	Token           string `json:"token" form:"token" param:"token"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
}

// --- Responses ---

type messageResponse struct {
	Message string `json:"message"`
}

type signUpResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

type sessionResponse struct {
	Message string              `json:"message"`
	User    *domain.SessionUser `json:"user"`
	Token   string              `json:"token,omitempty"`
}

type forgotPasswordResponse struct {
	Message  string `json:"message"`
	ResetURL string `json:"reset_url,omitempty"`
}

type meResponse struct {
	User *domain.SessionUser `json:"user"`
}

package handler

import "github.com/artisan-avenue/auth-service/internal/core/domain"

type registerRequest struct {
	Role      string `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Username  string `json:"username,omitempty"`
	Address   string `json:"address,omitempty"`
	Password  string `json:"password"`
	Confirm   string `json:"confirm"`

	// customer only
	DOB string `json:"dob,omitempty"`

	// vendor only
	BusinessName string   `json:"businessName,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Website      string   `json:"website,omitempty"`
	Description  string   `json:"description,omitempty"`
	Categories   []string `json:"categories,omitempty"`
}

type loginRequest struct {
	User     string `json:"user" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type verifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type resendRequest struct {
	Email string `json:"email"`
}

type forgotStartRequest struct {
	Email string `json:"email"`
}

type forgotVerifyRequest struct {
	Email string `json:"email" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

type forgotResetRequest struct {
	Email      string `json:"email" validate:"required"`
	ResetToken string `json:"resetToken" validate:"required"`
	Password   string `json:"password" validate:"required"`
	Confirm    string `json:"confirm" validate:"required"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type userResponse struct {
	OK   bool            `json:"ok"`
	User domain.SafeView `json:"user"`
}

type resetTokenResponse struct {
	OK         bool   `json:"ok"`
	ResetToken string `json:"resetToken"`
}

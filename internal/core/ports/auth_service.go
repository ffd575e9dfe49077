package ports

import (
	"context"

	"github.com/artisan-avenue/auth-service/internal/core/domain"
)

// RegisterInput carries the full registration payload. Role-specific fields
// (DOB for customers; business details for vendors) are validated by the
// service, not at bind time.
type RegisterInput struct {
	Role      string
	FirstName string
	LastName  string
	Email     string
	Username  string
	Address   string
	Password  string
	Confirm   string

	// customer only
	DOB string

	// vendor only
	BusinessName string
	Phone        string
	Website      string
	Description  string
	Categories   []string
}

// AuthService is the auth orchestrator: registration, login, session
// introspection, email verification, and the three-step forgot-password flow.
//
// Methods that establish a session return the signed session token alongside
// the safe view; transporting it as a cookie is the HTTP layer's concern.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) error
	Login(ctx context.Context, identifier, password string) (string, domain.SafeView, error)
	Me(ctx context.Context, accountID string) (domain.SafeView, error)

	VerifyEmail(ctx context.Context, email, code string) (string, domain.SafeView, error)
	ResendVerification(ctx context.Context, email string) error

	ForgotStart(ctx context.Context, email string) error
	ForgotVerify(ctx context.Context, email, code string) (string, error)
	ForgotReset(ctx context.Context, email, resetToken, password, confirm string) error
}

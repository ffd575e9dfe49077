package domain

import (
	"errors"
	"time"
)

// Role values an account may hold. Immutable after creation.
const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
)

var ErrRequiredField = errors.New("required field missing")
var ErrInvalidEmail = errors.New("invalid email address")
var ErrInvalidPhone = errors.New("invalid phone number")
var ErrWeakPassword = errors.New("password does not meet strength policy")
var ErrPasswordMismatch = errors.New("passwords do not match")
var ErrEmailTaken = errors.New("email already registered")
var ErrUsernameTaken = errors.New("username already taken")
var ErrAuthFailed = errors.New("invalid credentials")
var ErrAccountNotFound = errors.New("account not found")
var ErrCodeExpired = errors.New("code expired")
var ErrCodeIncorrect = errors.New("incorrect code")
var ErrNoResetSession = errors.New("no open reset session")
var ErrTooManyAttempts = errors.New("too many attempts")
var ErrBadResetToken = errors.New("invalid or expired reset token")
var ErrUnauthenticated = errors.New("not authenticated")
var ErrRateLimited = errors.New("rate limit exceeded")

// VendorProfile carries the vendor-only fields of an account.
type VendorProfile struct {
	BusinessName string   `json:"business_name" bson:"business_name"`
	Phone        string   `json:"phone" bson:"phone"`
	Website      string   `json:"website,omitempty" bson:"website,omitempty"`
	Description  string   `json:"description" bson:"description"`
	Categories   []string `json:"categories" bson:"categories"`
	LogoURL      string   `json:"logo_url,omitempty" bson:"logo_url,omitempty"`
}

// Account is the core aggregate of the auth service.
//
// The verification and reset field pairs (hash + expiry) are always set or
// cleared together; an expiry without a hash, or vice versa, is a bug.
type Account struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Username  string `json:"username,omitempty"`
	Address   string `json:"address,omitempty"`

	PasswordHash string `json:"-"`

	DOB    time.Time      `json:"dob,omitempty"`
	Vendor *VendorProfile `json:"vendor,omitempty"`

	IsVerified            bool      `json:"is_verified"`
	VerifyCodeHash        string    `json:"-"`
	VerifyCodeExpiresAt   time.Time `json:"-"`
	LastVerifyEmailSentAt time.Time `json:"-"`

	ResetCodeHash      string    `json:"-"`
	ResetCodeExpiresAt time.Time `json:"-"`
	ResetCodeAttempts  int       `json:"-"`
	LastResetRequestAt time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasOpenVerifyWindow reports whether an email-verification code is pending.
func (a *Account) HasOpenVerifyWindow() bool {
	return a.VerifyCodeHash != "" && !a.VerifyCodeExpiresAt.IsZero()
}

// HasOpenResetWindow reports whether a password-reset code is pending.
func (a *Account) HasOpenResetWindow() bool {
	return a.ResetCodeHash != "" && !a.ResetCodeExpiresAt.IsZero()
}

// ClearVerifyWindow removes the pending verification code and its expiry.
func (a *Account) ClearVerifyWindow() {
	a.VerifyCodeHash = ""
	a.VerifyCodeExpiresAt = time.Time{}
}

// ClearResetWindow removes the pending reset code, its expiry, and the
// attempt counter.
func (a *Account) ClearResetWindow() {
	a.ResetCodeHash = ""
	a.ResetCodeExpiresAt = time.Time{}
	a.ResetCodeAttempts = 0
}

// SafeView is the subset of Account fields permitted to leave the system in
// any response or token. Password hash and OTP secrets never appear here.
type SafeView struct {
	ID         string `json:"id"`
	Role       string `json:"role"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Username   string `json:"username,omitempty"`
	IsVerified bool   `json:"isVerified"`
}

// ToSafeView projects an Account onto its externally visible fields. It is a
// pure function rather than a method so callers cannot bypass it by touching
// a mutable receiver.
func ToSafeView(a *Account) SafeView {
	return SafeView{
		ID:         a.ID,
		Role:       a.Role,
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		Email:      a.Email,
		Username:   a.Username,
		IsVerified: a.IsVerified,
	}
}

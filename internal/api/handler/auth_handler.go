package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/artisan-avenue/auth-service/internal/api/metrics"
	"github.com/artisan-avenue/auth-service/internal/api/middleware"
	"github.com/artisan-avenue/auth-service/internal/core/domain"
	"github.com/artisan-avenue/auth-service/internal/core/ports"
	"github.com/artisan-avenue/auth-service/internal/pkg/token"
)

// AuthHandler exposes the auth orchestrator over HTTP. Session transport
// (the aa_token cookie) lives here; the service only signs tokens.
type AuthHandler struct {
	authService ports.AuthService
	tokens      *token.Issuer
}

func NewAuthHandler(authService ports.AuthService, tokens *token.Issuer) *AuthHandler {
	return &AuthHandler{authService: authService, tokens: tokens}
}

// Register creates an unverified account and sends the verification code.
//
// @Summary      Register a new customer or vendor account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      200   {object}  okResponse
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrRequiredField
	}

	in := ports.RegisterInput{
		Role:         req.Role,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Username:     req.Username,
		Address:      req.Address,
		Password:     req.Password,
		Confirm:      req.Confirm,
		DOB:          req.DOB,
		BusinessName: req.BusinessName,
		Phone:        req.Phone,
		Website:      req.Website,
		Description:  req.Description,
		Categories:   req.Categories,
	}
	if err := h.authService.Register(c.Request().Context(), in); err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(req.Role).Inc()

	// No session and no user payload: only the acknowledgement that a
	// verification code was sent.
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

// VerifyEmail checks the emailed code and establishes a session on success.
//
// @Summary      Verify an email address with a one-time code
// @Tags         auth
// @Router       /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req verifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrRequiredField
	}

	sessionToken, user, err := h.authService.VerifyEmail(c.Request().Context(), req.Email, req.Code)
	if err != nil {
		metrics.CodeVerificationsTotal.WithLabelValues("verify_email", verificationResult(err)).Inc()
		return err
	}
	metrics.CodeVerificationsTotal.WithLabelValues("verify_email", "ok").Inc()

	c.SetCookie(h.tokens.SessionCookie(sessionToken))
	return c.JSON(http.StatusOK, userResponse{OK: true, User: user})
}

// ResendVerification re-issues a verification code. The response is the same
// generic success whether the email is unknown, already verified, throttled,
// or freshly sent.
//
// @Summary      Resend the email verification code
// @Tags         auth
// @Router       /auth/verify-email/resend [post]
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	var req resendRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrRequiredField
	}

	if err := h.authService.ResendVerification(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

// Login authenticates by email or username and sets the session cookie.
//
// @Summary      Login with email or username
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  userResponse
// @Failure      401   {object}  map[string]any
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrRequiredField
	}
	if err := c.Validate(&req); err != nil {
		return domain.ErrRequiredField
	}

	sessionToken, user, err := h.authService.Login(c.Request().Context(), req.User, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrAuthFailed) {
			metrics.LoginsTotal.WithLabelValues("failed").Inc()
		}
		return err
	}
	metrics.LoginsTotal.WithLabelValues("ok").Inc()

	c.SetCookie(h.tokens.SessionCookie(sessionToken))
	return c.JSON(http.StatusOK, userResponse{OK: true, User: user})
}

// Logout clears the session cookie. Always succeeds.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.tokens.ClearSessionCookie())
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

// Me returns the current account, re-read from the store rather than echoed
// from the token's claims.
//
// @Summary      Current session's account
// @Tags         auth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	accountID, _ := c.Get(middleware.CtxAccountID).(string)
	if accountID == "" {
		return domain.ErrUnauthenticated
	}

	user, err := h.authService.Me(c.Request().Context(), accountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{OK: true, User: user})
}

// ForgotStart opens a password-reset window. Always answers {ok:true} so the
// endpoint reveals nothing about account existence.
//
// @Summary      Start the forgot-password flow
// @Tags         auth
// @Router       /auth/forgot/start [post]
func (h *AuthHandler) ForgotStart(c echo.Context) error {
	var req forgotStartRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrRequiredField
	}

	if err := h.authService.ForgotStart(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

// ForgotVerify checks the reset code and returns the short-lived reset token.
//
// @Summary      Verify the password-reset code
// @Tags         auth
// @Router       /auth/forgot/verify [post]
func (h *AuthHandler) ForgotVerify(c echo.Context) error {
	var req forgotVerifyRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrRequiredField
	}
	if err := c.Validate(&req); err != nil {
		return domain.ErrRequiredField
	}

	resetToken, err := h.authService.ForgotVerify(c.Request().Context(), req.Email, req.Code)
	if err != nil {
		metrics.CodeVerificationsTotal.WithLabelValues("reset", verificationResult(err)).Inc()
		return err
	}
	metrics.CodeVerificationsTotal.WithLabelValues("reset", "ok").Inc()

	return c.JSON(http.StatusOK, resetTokenResponse{OK: true, ResetToken: resetToken})
}

// ForgotReset sets the new password and clears any lingering session cookie
// so the client has to log in again.
//
// @Summary      Complete the forgot-password flow
// @Tags         auth
// @Router       /auth/forgot/reset [post]
func (h *AuthHandler) ForgotReset(c echo.Context) error {
	var req forgotResetRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrRequiredField
	}
	if err := c.Validate(&req); err != nil {
		return domain.ErrRequiredField
	}

	err := h.authService.ForgotReset(c.Request().Context(), req.Email, req.ResetToken, req.Password, req.Confirm)
	if err != nil {
		return err
	}

	c.SetCookie(h.tokens.ClearSessionCookie())
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

func verificationResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrCodeIncorrect):
		return "incorrect"
	case errors.Is(err, domain.ErrCodeExpired):
		return "expired"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "exhausted"
	default:
		return "error"
	}
}

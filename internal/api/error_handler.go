package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/artisan-avenue/auth-service/internal/core/domain"
)

// errorResponse is the canonical failure envelope for all API errors.
type errorResponse struct {
	OK      bool   `json:"ok"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status and machine-readable code.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"ok":false,"code":"ERR_*"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, code, msg := resolveError(err, log, c)
		_ = c.JSON(status, errorResponse{OK: false, Code: code, Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, string) {
	// Echo's own errors (router 404/405, middleware rejections). Middleware
	// passes codes like NO_TOKEN as the message.
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if s, ok := he.Message.(string); ok && isErrorCode(s) {
			return he.Code, s, ""
		}
		return he.Code, statusCode(he.Code), fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic statuses and wire codes.
	switch {
	case errors.Is(err, domain.ErrRequiredField):
		return http.StatusBadRequest, "ERR_REQUIRED", "required field missing"
	case errors.Is(err, domain.ErrInvalidEmail):
		return http.StatusBadRequest, "ERR_INVALID_EMAIL", "invalid email"
	case errors.Is(err, domain.ErrInvalidPhone):
		return http.StatusBadRequest, "ERR_INVALID_PHONE_AU", "invalid AU phone"
	case errors.Is(err, domain.ErrWeakPassword):
		return http.StatusBadRequest, "ERR_PASSWORD_WEAK", "weak password"
	case errors.Is(err, domain.ErrPasswordMismatch):
		return http.StatusBadRequest, "ERR_PASSWORD_MISMATCH", "passwords do not match"
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "ERR_EMAIL_TAKEN", "email already registered"
	case errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusConflict, "ERR_USERNAME_TAKEN", "username already taken"
	case errors.Is(err, domain.ErrAuthFailed):
		return http.StatusUnauthorized, "ERR_AUTH_FAILED", "invalid credentials"
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, "ERR_NO_USER", "user not found"
	case errors.Is(err, domain.ErrCodeExpired):
		return http.StatusBadRequest, "ERR_CODE_EXPIRED", "code expired"
	case errors.Is(err, domain.ErrCodeIncorrect):
		return http.StatusBadRequest, "ERR_CODE_INCORRECT", "incorrect code"
	case errors.Is(err, domain.ErrNoResetSession):
		return http.StatusBadRequest, "ERR_NO_RESET_SESSION", "no reset session"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "ERR_TOO_MANY_TRIES", "too many attempts"
	case errors.Is(err, domain.ErrBadResetToken):
		return http.StatusUnauthorized, "ERR_BAD_RESET_TOKEN", "invalid or expired reset token"
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "BAD_TOKEN", ""
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "ERR_RATE_LIMITED", "too many requests"
	}

	// Unexpected error: log the real cause, return a generic envelope.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "ERR_SERVER", ""
}

// isErrorCode reports whether s already looks like a wire code
// (NO_TOKEN, ERR_RATE_LIMITED, ...).
func isErrorCode(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && r != '_' {
			return false
		}
	}
	return true
}

func statusCode(status int) string {
	text := strings.ReplaceAll(strings.ToUpper(http.StatusText(status)), " ", "_")
	if text == "" {
		return "ERR_SERVER"
	}
	return "ERR_" + text
}

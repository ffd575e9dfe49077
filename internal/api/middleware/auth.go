package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/artisan-avenue/auth-service/internal/pkg/token"
)

// Context keys populated by Session.
const (
	CtxAccountID = "account_id"
	CtxSession   = "session_view"
)

// Session validates the aa_token cookie and injects the session's safe view
// into the request context. A missing cookie and an invalid or expired token
// are distinguished on the wire (NO_TOKEN vs BAD_TOKEN) to match the
// original client contract.
func Session(tokens *token.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(token.CookieName)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "NO_TOKEN")
			}

			view, err := tokens.VerifySession(cookie.Value)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "BAD_TOKEN")
			}

			c.Set(CtxAccountID, view.ID)
			c.Set(CtxSession, view)

			return next(c)
		}
	}
}

// Package token signs and verifies the two JWT kinds the service issues:
// the 7-day session token carried in the aa_token cookie, and the 15-minute
// reset token returned from the forgot-password verify step.
//
// Sessions are checked by signature and expiry only; there is no server-side
// revocation, so a session stays valid for its full lifetime even after a
// password change.
package token

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/artisan-avenue/auth-service/internal/core/domain"
)

// CookieName is the session cookie set on login and verification.
const CookieName = "aa_token"

const (
	// SessionTTL is the session token lifetime.
	SessionTTL = 7 * 24 * time.Hour
	// ResetTTL is the reset token lifetime.
	ResetTTL = 15 * time.Minute

	resetPurpose = "reset"
)

// Issuer signs and verifies session and reset tokens. The reset secret
// falls back to the session secret when not configured separately.
type Issuer struct {
	sessionSecret []byte
	resetSecret   []byte
	secureCookies bool
}

// NewIssuer builds an Issuer. secureCookies should be true in production so
// the cookie carries the Secure attribute.
func NewIssuer(sessionSecret, resetSecret string, secureCookies bool) *Issuer {
	if resetSecret == "" {
		resetSecret = sessionSecret
	}
	return &Issuer{
		sessionSecret: []byte(sessionSecret),
		resetSecret:   []byte(resetSecret),
		secureCookies: secureCookies,
	}
}

// IssueSession signs a session token carrying the safe view of an account.
func (i *Issuer) IssueSession(view domain.SafeView) (string, error) {
	claims := jwt.MapClaims{
		"id":         view.ID,
		"role":       view.Role,
		"firstName":  view.FirstName,
		"lastName":   view.LastName,
		"email":      view.Email,
		"username":   view.Username,
		"isVerified": view.IsVerified,
		"exp":        time.Now().Add(SessionTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.sessionSecret)
}

// VerifySession checks signature and expiry and returns the embedded safe
// view. Any failure maps to domain.ErrUnauthenticated.
func (i *Issuer) VerifySession(token string) (domain.SafeView, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.sessionSecret, nil
	})
	if err != nil || !tkn.Valid {
		return domain.SafeView{}, domain.ErrUnauthenticated
	}

	view := domain.SafeView{
		ID:        str(claims["id"]),
		Role:      str(claims["role"]),
		FirstName: str(claims["firstName"]),
		LastName:  str(claims["lastName"]),
		Email:     str(claims["email"]),
		Username:  str(claims["username"]),
	}
	if v, ok := claims["isVerified"].(bool); ok {
		view.IsVerified = v
	}
	if view.ID == "" {
		return domain.SafeView{}, domain.ErrUnauthenticated
	}
	return view, nil
}

// IssueResetToken signs the short-lived capability that authorizes one
// password change without re-entering the code.
func (i *Issuer) IssueResetToken(accountID, email string) (string, error) {
	claims := jwt.MapClaims{
		"id":      accountID,
		"email":   email,
		"purpose": resetPurpose,
		"exp":     time.Now().Add(ResetTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.resetSecret)
	if err != nil {
		return "", fmt.Errorf("sign reset token: %w", err)
	}
	return signed, nil
}

// VerifyResetToken checks a reset token and returns the account id and email
// it was issued for. Any failure maps to domain.ErrBadResetToken.
func (i *Issuer) VerifyResetToken(token string) (accountID, email string, err error) {
	claims := jwt.MapClaims{}
	tkn, parseErr := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.resetSecret, nil
	})
	if parseErr != nil || !tkn.Valid {
		return "", "", domain.ErrBadResetToken
	}
	if str(claims["purpose"]) != resetPurpose {
		return "", "", domain.ErrBadResetToken
	}
	accountID, email = str(claims["id"]), str(claims["email"])
	if accountID == "" || email == "" {
		return "", "", domain.ErrBadResetToken
	}
	return accountID, email, nil
}

// SessionCookie wraps a signed session token in the aa_token cookie.
func (i *Issuer) SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   i.secureCookies,
	}
}

// ClearSessionCookie returns a cookie that expires aa_token immediately.
// Attributes, including Secure, must match the ones used to set the cookie
// or some clients will not clear it.
func (i *Issuer) ClearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   i.secureCookies,
	}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

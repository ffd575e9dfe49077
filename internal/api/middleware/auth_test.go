package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/artisan-avenue/auth-service/internal/core/domain"
	"github.com/artisan-avenue/auth-service/internal/pkg/token"
)

func sessionTestSetup(t *testing.T, cookie *http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSession_MissingCookie(t *testing.T) {
	tokens := token.NewIssuer("secret", "", false)
	c, _ := sessionTestSetup(t, nil)

	handler := Session(tokens)(func(c echo.Context) error {
		t.Fatalf("next handler must not run")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized || he.Message != "NO_TOKEN" {
		t.Fatalf("expected 401 NO_TOKEN, got %v", err)
	}
}

func TestSession_InvalidToken(t *testing.T) {
	tokens := token.NewIssuer("secret", "", false)
	c, _ := sessionTestSetup(t, &http.Cookie{Name: token.CookieName, Value: "garbage"})

	handler := Session(tokens)(func(c echo.Context) error {
		t.Fatalf("next handler must not run")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized || he.Message != "BAD_TOKEN" {
		t.Fatalf("expected 401 BAD_TOKEN, got %v", err)
	}
}

func TestSession_ValidTokenInjectsView(t *testing.T) {
	tokens := token.NewIssuer("secret", "", false)
	view := domain.SafeView{ID: "acc_1", Role: domain.RoleCustomer, Email: "jane@example.com", IsVerified: true}
	signed, err := tokens.IssueSession(view)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	c, _ := sessionTestSetup(t, &http.Cookie{Name: token.CookieName, Value: signed})

	called := false
	handler := Session(tokens)(func(c echo.Context) error {
		called = true
		if got, _ := c.Get(CtxAccountID).(string); got != "acc_1" {
			t.Errorf("account id not injected, got %q", got)
		}
		if got, ok := c.Get(CtxSession).(domain.SafeView); !ok || got.Email != "jane@example.com" {
			t.Errorf("session view not injected, got %+v", got)
		}
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !called {
		t.Fatalf("next handler not reached")
	}
}

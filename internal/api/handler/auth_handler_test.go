package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/artisan-avenue/auth-service/internal/api/middleware"
	"github.com/artisan-avenue/auth-service/internal/core/domain"
	"github.com/artisan-avenue/auth-service/internal/core/ports"
	"github.com/artisan-avenue/auth-service/internal/pkg/token"
)

// stubAuthService returns canned results so handler tests cover only the HTTP
// layer: binding, cookies, status codes, and response shapes.
type stubAuthService struct {
	registerErr error
	loginErr    error
	verifyErr   error
	resendErr   error
	startErr    error
	fvErr       error
	resetErr    error

	sessionToken string
	resetToken   string
	view         domain.SafeView

	lastRegister ports.RegisterInput
	lastLogin    [2]string
}

func (s *stubAuthService) Register(_ context.Context, in ports.RegisterInput) error {
	s.lastRegister = in
	return s.registerErr
}

func (s *stubAuthService) Login(_ context.Context, identifier, password string) (string, domain.SafeView, error) {
	s.lastLogin = [2]string{identifier, password}
	if s.loginErr != nil {
		return "", domain.SafeView{}, s.loginErr
	}
	return s.sessionToken, s.view, nil
}

func (s *stubAuthService) Me(_ context.Context, _ string) (domain.SafeView, error) {
	return s.view, nil
}

func (s *stubAuthService) VerifyEmail(_ context.Context, _, _ string) (string, domain.SafeView, error) {
	if s.verifyErr != nil {
		return "", domain.SafeView{}, s.verifyErr
	}
	return s.sessionToken, s.view, nil
}

func (s *stubAuthService) ResendVerification(_ context.Context, _ string) error {
	return s.resendErr
}

func (s *stubAuthService) ForgotStart(_ context.Context, _ string) error {
	return s.startErr
}

func (s *stubAuthService) ForgotVerify(_ context.Context, _, _ string) (string, error) {
	if s.fvErr != nil {
		return "", s.fvErr
	}
	return s.resetToken, nil
}

func (s *stubAuthService) ForgotReset(_ context.Context, _, _, _, _ string) error {
	return s.resetErr
}

func newHandlerTest(t *testing.T, svc *stubAuthService, method, path, body string) (*AuthHandler, echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	tokens := token.NewIssuer("test-secret", "", false)
	return NewAuthHandler(svc, tokens), c, rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == token.CookieName {
			return cookie
		}
	}
	return nil
}

func TestRegisterHandler_Success(t *testing.T) {
	svc := &stubAuthService{}
	body := `{"role":"customer","firstName":"Jane","lastName":"Doe","email":"jane@example.com","password":"Passw0rd","confirm":"Passw0rd","dob":"1990-01-01"}`
	h, c, rec := newHandlerTest(t, svc, http.MethodPost, "/auth/register", body)

	if err := h.Register(c); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastRegister.Email != "jane@example.com" || svc.lastRegister.Role != "customer" {
		t.Fatalf("input not forwarded: %+v", svc.lastRegister)
	}

	// Registration never starts a session.
	if sessionCookie(t, rec) != nil {
		t.Fatalf("register must not set a session cookie")
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp["ok"] != true {
		t.Fatalf("expected {ok:true}, got %v", resp)
	}
	if _, leaked := resp["user"]; leaked {
		t.Fatalf("register must not return a user payload")
	}
}

func TestRegisterHandler_ServiceErrorPropagates(t *testing.T) {
	svc := &stubAuthService{registerErr: domain.ErrEmailTaken}
	body := `{"role":"customer","email":"jane@example.com"}`
	h, c, _ := newHandlerTest(t, svc, http.MethodPost, "/auth/register", body)

	if err := h.Register(c); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginHandler_SetsCookieAndReturnsUser(t *testing.T) {
	svc := &stubAuthService{
		sessionToken: "signed-session",
		view:         domain.SafeView{ID: "acc_1", Email: "jane@example.com", Role: domain.RoleCustomer, IsVerified: true},
	}
	body := `{"user":"jane@example.com","password":"Passw0rd"}`
	h, c, rec := newHandlerTest(t, svc, http.MethodPost, "/auth/login", body)

	if err := h.Login(c); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if svc.lastLogin != [2]string{"jane@example.com", "Passw0rd"} {
		t.Fatalf("credentials not forwarded: %v", svc.lastLogin)
	}

	cookie := sessionCookie(t, rec)
	if cookie == nil || cookie.Value != "signed-session" {
		t.Fatalf("session cookie not set: %+v", cookie)
	}
	if !cookie.HttpOnly {
		t.Fatalf("session cookie must be HttpOnly")
	}

	var resp struct {
		OK   bool            `json:"ok"`
		User domain.SafeView `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !resp.OK || resp.User.Email != "jane@example.com" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestLoginHandler_MissingFields(t *testing.T) {
	svc := &stubAuthService{}
	h, c, _ := newHandlerTest(t, svc, http.MethodPost, "/auth/login", `{"user":"jane@example.com"}`)

	if err := h.Login(c); !errors.Is(err, domain.ErrRequiredField) {
		t.Fatalf("expected ErrRequiredField for missing password, got %v", err)
	}
}

func TestLoginHandler_AuthFailed(t *testing.T) {
	svc := &stubAuthService{loginErr: domain.ErrAuthFailed}
	body := `{"user":"jane@example.com","password":"wrong"}`
	h, c, rec := newHandlerTest(t, svc, http.MethodPost, "/auth/login", body)

	if err := h.Login(c); !errors.Is(err, domain.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
	if sessionCookie(t, rec) != nil {
		t.Fatalf("failed login must not set a cookie")
	}
}

func TestVerifyEmailHandler_SetsCookie(t *testing.T) {
	svc := &stubAuthService{
		sessionToken: "signed-session",
		view:         domain.SafeView{ID: "acc_1", Email: "jane@example.com", IsVerified: true},
	}
	body := `{"email":"jane@example.com","code":"ABC123"}`
	h, c, rec := newHandlerTest(t, svc, http.MethodPost, "/auth/verify-email", body)

	if err := h.VerifyEmail(c); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if cookie := sessionCookie(t, rec); cookie == nil || cookie.Value != "signed-session" {
		t.Fatalf("session cookie not set after verification")
	}
}

func TestLogoutHandler_ClearsCookie(t *testing.T) {
	svc := &stubAuthService{}
	h, c, rec := newHandlerTest(t, svc, http.MethodPost, "/auth/logout", "")

	if err := h.Logout(c); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	cookie := sessionCookie(t, rec)
	if cookie == nil || cookie.Value != "" || cookie.MaxAge != -1 {
		t.Fatalf("session cookie not cleared: %+v", cookie)
	}
}

func TestMeHandler(t *testing.T) {
	svc := &stubAuthService{view: domain.SafeView{ID: "acc_1", Email: "jane@example.com"}}
	h, c, rec := newHandlerTest(t, svc, http.MethodGet, "/auth/me", "")
	c.Set(middleware.CtxAccountID, "acc_1")

	if err := h.Me(c); err != nil {
		t.Fatalf("me failed: %v", err)
	}
	var resp struct {
		User domain.SafeView `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.User.ID != "acc_1" {
		t.Fatalf("unexpected user: %+v", resp.User)
	}
}

func TestMeHandler_NoAccountInContext(t *testing.T) {
	svc := &stubAuthService{}
	h, c, _ := newHandlerTest(t, svc, http.MethodGet, "/auth/me", "")

	if err := h.Me(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestForgotVerifyHandler_ReturnsResetToken(t *testing.T) {
	svc := &stubAuthService{resetToken: "signed-reset"}
	body := `{"email":"jane@example.com","code":"ABC123"}`
	h, c, rec := newHandlerTest(t, svc, http.MethodPost, "/auth/forgot/verify", body)

	if err := h.ForgotVerify(c); err != nil {
		t.Fatalf("forgot verify failed: %v", err)
	}
	var resp struct {
		OK         bool   `json:"ok"`
		ResetToken string `json:"resetToken"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !resp.OK || resp.ResetToken != "signed-reset" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestForgotResetHandler_ClearsCookie(t *testing.T) {
	svc := &stubAuthService{}
	body := `{"email":"jane@example.com","resetToken":"signed-reset","password":"NewPassw0rd","confirm":"NewPassw0rd"}`
	h, c, rec := newHandlerTest(t, svc, http.MethodPost, "/auth/forgot/reset", body)

	if err := h.ForgotReset(c); err != nil {
		t.Fatalf("forgot reset failed: %v", err)
	}
	cookie := sessionCookie(t, rec)
	if cookie == nil || cookie.MaxAge != -1 {
		t.Fatalf("lingering session cookie not cleared: %+v", cookie)
	}
}

func TestForgotResetHandler_MissingFields(t *testing.T) {
	svc := &stubAuthService{}
	body := `{"email":"jane@example.com","password":"NewPassw0rd"}`
	h, c, _ := newHandlerTest(t, svc, http.MethodPost, "/auth/forgot/reset", body)

	if err := h.ForgotReset(c); !errors.Is(err, domain.ErrRequiredField) {
		t.Fatalf("expected ErrRequiredField, got %v", err)
	}
}

func TestEnumerationSafeHandlers_AlwaysOK(t *testing.T) {
	svc := &stubAuthService{}

	cases := []struct {
		name string
		path string
		call func(*AuthHandler, echo.Context) error
	}{
		{"resend", "/auth/verify-email/resend", (*AuthHandler).ResendVerification},
		{"forgot start", "/auth/forgot/start", (*AuthHandler).ForgotStart},
	}

	for _, tc := range cases {
		h, c, rec := newHandlerTest(t, svc, http.MethodPost, tc.path, `{"email":"ghost@example.com"}`)
		if err := tc.call(h, c); err != nil {
			t.Fatalf("%s: expected silent success, got %v", tc.name, err)
		}
		var resp map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: bad response body: %v", tc.name, err)
		}
		if resp["ok"] != true {
			t.Fatalf("%s: expected {ok:true}, got %v", tc.name, resp)
		}
	}
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/kissaten/internal/metrics"
	"github.com/hitoshi/kissaten/internal/middleware"
	"github.com/hitoshi/kissaten/internal/model"
)

// mockAuthService はAuthServiceInterfaceのモック。
type mockAuthService struct {
	loginFn          func(ctx context.Context, idToken string) (*model.User, *model.Session, error)
	logoutFn         func(ctx context.Context, sessionID string) error
	getCurrentUserFn func(ctx context.Context, sessionID string) (*model.User, error)
}

func (m *mockAuthService) LoginWithIDToken(ctx context.Context, idToken string) (*model.User, *model.Session, error) {
	return m.loginFn(ctx, idToken)
}
func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	return m.logoutFn(ctx, sessionID)
}
func (m *mockAuthService) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	return m.getCurrentUserFn(ctx, sessionID)
}

func newAuthHandler(service *mockAuthService) *AuthHandler {
	return NewAuthHandler(service, AuthHandlerConfig{
		CookieSecure:  false,
		SessionMaxAge: 86400,
	}, metrics.NopCollector{})
}

func TestLogin_ValidToken_SetsSessionCookie(t *testing.T) {
	service := &mockAuthService{
		loginFn: func(ctx context.Context, idToken string) (*model.User, *model.Session, error) {
			return &model.User{ID: 1, Email: "taro@example.com", Name: "Taro", Role: model.RoleCustomer},
				&model.Session{ID: "session-abc", UserID: 1}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/google",
		strings.NewReader(`{"idToken":"valid-token"}`))
	rec := httptest.NewRecorder()

	newAuthHandler(service).Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	// セッションCookieの検証
	cookies := rec.Result().Cookies()
	var sessionCookie *http.Cookie
	for _, c := range cookies {
		if c.Name == middleware.SessionCookieName {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("expected session cookie to be set")
	}
	if sessionCookie.Value != "session-abc" {
		t.Errorf("cookie value = %q, want session-abc", sessionCookie.Value)
	}
	if !sessionCookie.HttpOnly {
		t.Error("session cookie should be HTTP only")
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["email"] != "taro@example.com" {
		t.Errorf("email = %v, want taro@example.com", body["email"])
	}
	if body["role"] != "customer" {
		t.Errorf("role = %v, want customer", body["role"])
	}
}

func TestLogin_MissingIDToken_Returns400(t *testing.T) {
	service := &mockAuthService{
		loginFn: func(ctx context.Context, idToken string) (*model.User, *model.Session, error) {
			t.Error("LoginWithIDToken should not be called")
			return nil, nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/google", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	newAuthHandler(service).Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLogin_MalformedBody_Returns400(t *testing.T) {
	service := &mockAuthService{}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/google", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()

	newAuthHandler(service).Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLogin_InvalidToken_Returns401(t *testing.T) {
	service := &mockAuthService{
		loginFn: func(ctx context.Context, idToken string) (*model.User, *model.Session, error) {
			return nil, nil, model.NewInvalidTokenError()
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/google",
		strings.NewReader(`{"idToken":"tampered"}`))
	rec := httptest.NewRecorder()

	newAuthHandler(service).Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestLogout_ClearsCookieAndDeletesSession(t *testing.T) {
	var deletedSessionID string
	service := &mockAuthService{
		logoutFn: func(ctx context.Context, sessionID string) error {
			deletedSessionID = sessionID
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "session-abc"})
	rec := httptest.NewRecorder()

	newAuthHandler(service).Logout(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if deletedSessionID != "session-abc" {
		t.Errorf("deleted session = %q, want session-abc", deletedSessionID)
	}

	// Cookieが失効していること
	cookies := rec.Result().Cookies()
	for _, c := range cookies {
		if c.Name == middleware.SessionCookieName && c.MaxAge >= 0 {
			t.Error("session cookie should be expired")
		}
	}
}

// Cookieなしのログアウトも成功する（冪等）。
func TestLogout_NoCookie_Returns204(t *testing.T) {
	service := &mockAuthService{
		logoutFn: func(ctx context.Context, sessionID string) error {
			t.Error("Logout should not be called")
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()

	newAuthHandler(service).Logout(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestMe_ValidSession_ReturnsUser(t *testing.T) {
	service := &mockAuthService{
		getCurrentUserFn: func(ctx context.Context, sessionID string) (*model.User, error) {
			return &model.User{ID: 7, Email: "admin@example.com", Name: "Admin", Role: model.RoleAdmin}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "session-abc"})
	rec := httptest.NewRecorder()

	newAuthHandler(service).Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["role"] != "admin" {
		t.Errorf("role = %v, want admin", body["role"])
	}
}

func TestMe_NoCookie_Returns401(t *testing.T) {
	service := &mockAuthService{}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()

	newAuthHandler(service).Me(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

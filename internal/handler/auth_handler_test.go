package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/IND-Anshuman/BHASHASETU/internal/middleware"
	"github.com/IND-Anshuman/BHASHASETU/internal/model"
)

// --- モック定義 ---

type mockAuthService struct {
	getLoginURLFn    func(state string) string
	handleCallbackFn func(ctx context.Context, code string) (*model.Session, error)
	logoutFn         func(ctx context.Context, sessionID string) error
	getCurrentUserFn func(ctx context.Context, sessionID string) (*model.User, error)
	withdrawFn       func(ctx context.Context, userID string) error
}

func (m *mockAuthService) GetLoginURL(state string) string {
	if m.getLoginURLFn != nil {
		return m.getLoginURLFn(state)
	}
	return ""
}

func (m *mockAuthService) HandleCallback(ctx context.Context, code string) (*model.Session, error) {
	if m.handleCallbackFn != nil {
		return m.handleCallbackFn(ctx, code)
	}
	return nil, nil
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, sessionID)
	}
	return nil
}

func (m *mockAuthService) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if m.getCurrentUserFn != nil {
		return m.getCurrentUserFn(ctx, sessionID)
	}
	return nil, nil
}

func (m *mockAuthService) Withdraw(ctx context.Context, userID string) error {
	if m.withdrawFn != nil {
		return m.withdrawFn(ctx, userID)
	}
	return nil
}

func testAuthConfig() AuthHandlerConfig {
	return AuthHandlerConfig{
		BaseURL:       "http://localhost:3000",
		CookieDomain:  "",
		CookieSecure:  false,
		SessionMaxAge: 86400,
	}
}

// callbackRequest はstate Cookie込みのコールバックリクエストを作る。
func callbackRequest(state, code string) *http.Request {
	target := "/auth/google/callback?state=" + state
	if code != "" {
		target += "&code=" + code
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: state})
	return req
}

// --- テスト ---

func TestAuthHandler_Login_RedirectsToOAuthURL(t *testing.T) {
	svc := &mockAuthService{
		getLoginURLFn: func(state string) string {
			return "https://accounts.google.com/o/oauth2/auth?state=" + state
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/google/login", nil)
	w := httptest.NewRecorder()

	h.Login(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusTemporaryRedirect)
	}
	if loc := resp.Header.Get("Location"); !strings.Contains(loc, "accounts.google.com") {
		t.Errorf("Location = %q, should contain google oauth URL", loc)
	}

	// stateクッキーが設定される
	var stateCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "oauth_state" {
			stateCookie = c
		}
	}
	if stateCookie == nil || stateCookie.Value == "" {
		t.Fatal("oauth_state cookie should be set")
	}
}

func TestAuthHandler_Callback_Success_SetsCookieAndRedirectsWithoutQuery(t *testing.T) {
	svc := &mockAuthService{
		handleCallbackFn: func(ctx context.Context, code string) (*model.Session, error) {
			return &model.Session{
				ID:        "session-id-abc",
				UserID:    "user-id-123",
				ExpiresAt: time.Now().Add(24 * time.Hour),
			}, nil
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	w := httptest.NewRecorder()
	h.Callback(w, callbackRequest("state-1", "auth-code"))

	resp := w.Result()
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusTemporaryRedirect)
	}
	if loc := resp.Header.Get("Location"); loc != "http://localhost:3000/" {
		t.Errorf("Location = %q, want root without query", loc)
	}

	var sessionCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "session_id" {
			sessionCookie = c
		}
	}
	if sessionCookie == nil || sessionCookie.Value != "session-id-abc" {
		t.Fatal("session_id cookie should be set to the new session")
	}
	if !sessionCookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
}

func TestAuthHandler_Callback_ProviderError_RedirectsWithAuthFailed(t *testing.T) {
	svc := &mockAuthService{
		handleCallbackFn: func(ctx context.Context, code string) (*model.Session, error) {
			return nil, errors.New("token exchange failed")
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	w := httptest.NewRecorder()
	h.Callback(w, callbackRequest("state-1", "auth-code"))

	resp := w.Result()
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusTemporaryRedirect)
	}
	if loc := resp.Header.Get("Location"); loc != "http://localhost:3000/?error=auth_failed" {
		t.Errorf("Location = %q, want ?error=auth_failed", loc)
	}

	// セッションCookieは設定されない
	for _, c := range resp.Cookies() {
		if c.Name == "session_id" && c.Value != "" {
			t.Error("session cookie must not be set on failure")
		}
	}
}

func TestAuthHandler_Callback_StateMismatch_RedirectsWithAuthFailed(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=forged&code=x", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "original"})
	w := httptest.NewRecorder()

	h.Callback(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusTemporaryRedirect)
	}
	if loc := resp.Header.Get("Location"); loc != "http://localhost:3000/?error=auth_failed" {
		t.Errorf("Location = %q, want ?error=auth_failed", loc)
	}
}

func TestAuthHandler_Callback_MissingCode_RedirectsWithAuthFailed(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testAuthConfig())

	w := httptest.NewRecorder()
	h.Callback(w, callbackRequest("state-1", ""))

	if loc := w.Result().Header.Get("Location"); loc != "http://localhost:3000/?error=auth_failed" {
		t.Errorf("Location = %q, want ?error=auth_failed", loc)
	}
}

func TestAuthHandler_Callback_Panic_RedirectsWithUnexpectedError(t *testing.T) {
	svc := &mockAuthService{
		handleCallbackFn: func(ctx context.Context, code string) (*model.Session, error) {
			panic("unexpected failure")
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	w := httptest.NewRecorder()
	h.Callback(w, callbackRequest("state-1", "auth-code"))

	resp := w.Result()
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusTemporaryRedirect)
	}
	if loc := resp.Header.Get("Location"); loc != "http://localhost:3000/?error=unexpected_error" {
		t.Errorf("Location = %q, want ?error=unexpected_error", loc)
	}
}

func TestAuthHandler_Logout_AlwaysRedirectsToRoot(t *testing.T) {
	tests := []struct {
		name     string
		logoutFn func(ctx context.Context, sessionID string) error
	}{
		{name: "backend success", logoutFn: nil},
		{name: "backend failure", logoutFn: func(ctx context.Context, sessionID string) error {
			return errors.New("db down")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockAuthService{logoutFn: tt.logoutFn}, testAuthConfig())

			req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
			req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
			w := httptest.NewRecorder()

			h.Logout(w, req)

			resp := w.Result()
			if resp.StatusCode != http.StatusTemporaryRedirect {
				t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusTemporaryRedirect)
			}
			if loc := resp.Header.Get("Location"); loc != "http://localhost:3000/" {
				t.Errorf("Location = %q, want root", loc)
			}

			// Cookieは常にクリアされる
			cleared := false
			for _, c := range resp.Cookies() {
				if c.Name == "session_id" && c.MaxAge < 0 {
					cleared = true
				}
			}
			if !cleared {
				t.Error("session cookie should be cleared")
			}
		})
	}
}

func TestAuthHandler_Me_ReturnsUserJSON(t *testing.T) {
	svc := &mockAuthService{
		getCurrentUserFn: func(ctx context.Context, sessionID string) (*model.User, error) {
			return &model.User{ID: "user-1", Email: "learner@example.com", Name: "Learner"}, nil
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	w := httptest.NewRecorder()

	h.Me(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if body := w.Body.String(); !strings.Contains(body, "learner@example.com") {
		t.Errorf("body = %q, should contain user email", body)
	}
}

func TestAuthHandler_Me_NoSession_Returns401(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()

	h.Me(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestAuthHandler_Withdraw_DeletesUserAndClearsCookie(t *testing.T) {
	var withdrawnUser string
	svc := &mockAuthService{
		withdrawFn: func(ctx context.Context, userID string) error {
			withdrawnUser = userID
			return nil
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	req := httptest.NewRequest(http.MethodDelete, "/api/users/me", nil)
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), "user-9"))
	w := httptest.NewRecorder()

	h.Withdraw(w, req)

	if w.Result().StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusNoContent)
	}
	if withdrawnUser != "user-9" {
		t.Errorf("withdrawn user = %q, want user-9", withdrawnUser)
	}
}

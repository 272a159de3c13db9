package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IND-Anshuman/BHASHASETU/internal/model"
)

// --- モック定義 ---

type mockUserRepo struct {
	findByIDFn           func(ctx context.Context, id string) (*model.User, error)
	createWithIdentityFn func(ctx context.Context, user *model.User, identity *model.Identity) error
	deleteByIDFn         func(ctx context.Context, id string) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) CreateWithIdentity(ctx context.Context, user *model.User, identity *model.Identity) error {
	if m.createWithIdentityFn != nil {
		return m.createWithIdentityFn(ctx, user, identity)
	}
	return nil
}

func (m *mockUserRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

type mockIdentityRepo struct {
	findByProviderFn func(ctx context.Context, provider, providerUserID string) (*model.Identity, error)
}

func (m *mockIdentityRepo) FindByProviderAndProviderUserID(ctx context.Context, provider, providerUserID string) (*model.Identity, error) {
	if m.findByProviderFn != nil {
		return m.findByProviderFn(ctx, provider, providerUserID)
	}
	return nil, nil
}

type mockSessionRepo struct {
	createFn         func(ctx context.Context, session *model.Session) error
	findByIDFn       func(ctx context.Context, id string) (*model.Session, error)
	deleteByIDFn     func(ctx context.Context, id string) error
	deleteByUserIDFn func(ctx context.Context, userID string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

func (m *mockSessionRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if m.deleteByUserIDFn != nil {
		return m.deleteByUserIDFn(ctx, userID)
	}
	return nil
}

type mockOAuthProvider struct {
	getLoginURLFn  func(state string) string
	exchangeCodeFn func(ctx context.Context, code string) (*OAuthUserInfo, error)
}

func (m *mockOAuthProvider) GetLoginURL(state string) string {
	if m.getLoginURLFn != nil {
		return m.getLoginURLFn(state)
	}
	return ""
}

func (m *mockOAuthProvider) ExchangeCode(ctx context.Context, code string) (*OAuthUserInfo, error) {
	if m.exchangeCodeFn != nil {
		return m.exchangeCodeFn(ctx, code)
	}
	return nil, nil
}

// --- テスト ---

func TestService_HandleCallback_NewUser(t *testing.T) {
	var createdUser *model.User
	var createdIdentity *model.Identity
	var createdSession *model.Session

	oauth := &mockOAuthProvider{
		exchangeCodeFn: func(_ context.Context, code string) (*OAuthUserInfo, error) {
			if code != "auth-code" {
				t.Errorf("code = %q, want auth-code", code)
			}
			return &OAuthUserInfo{
				ProviderUserID: "google-123",
				Email:          "learner@example.com",
				Name:           "Learner",
				AvatarURL:      "https://example.com/avatar.png",
				Provider:       "google",
			}, nil
		},
	}
	userRepo := &mockUserRepo{
		createWithIdentityFn: func(_ context.Context, user *model.User, identity *model.Identity) error {
			createdUser = user
			createdIdentity = identity
			return nil
		},
	}
	sessionRepo := &mockSessionRepo{
		createFn: func(_ context.Context, session *model.Session) error {
			createdSession = session
			return nil
		},
	}

	svc := NewService(oauth, userRepo, &mockIdentityRepo{}, sessionRepo, ServiceConfig{SessionMaxAge: 86400})
	session, err := svc.HandleCallback(context.Background(), "auth-code")
	if err != nil {
		t.Fatalf("HandleCallback: %v", err)
	}

	if createdUser == nil {
		t.Fatal("user was not created")
	}
	if createdUser.Email != "learner@example.com" {
		t.Errorf("Email = %q", createdUser.Email)
	}
	if createdUser.AvatarURL != "https://example.com/avatar.png" {
		t.Errorf("AvatarURL = %q", createdUser.AvatarURL)
	}
	if createdIdentity.Provider != "google" || createdIdentity.ProviderUserID != "google-123" {
		t.Errorf("identity = %+v", createdIdentity)
	}
	if createdIdentity.UserID != createdUser.ID {
		t.Errorf("identity.UserID = %q, want %q", createdIdentity.UserID, createdUser.ID)
	}

	if session == nil || createdSession == nil {
		t.Fatal("session was not created")
	}
	if session.UserID != createdUser.ID {
		t.Errorf("session.UserID = %q, want %q", session.UserID, createdUser.ID)
	}
	// セッションIDは256ビットのhex表現
	if len(session.ID) != 64 {
		t.Errorf("len(session.ID) = %d, want 64", len(session.ID))
	}
}

func TestService_HandleCallback_ExistingUser(t *testing.T) {
	oauth := &mockOAuthProvider{
		exchangeCodeFn: func(_ context.Context, _ string) (*OAuthUserInfo, error) {
			return &OAuthUserInfo{ProviderUserID: "google-123", Provider: "google"}, nil
		},
	}
	identRepo := &mockIdentityRepo{
		findByProviderFn: func(_ context.Context, provider, providerUserID string) (*model.Identity, error) {
			return &model.Identity{UserID: "existing-user", Provider: provider, ProviderUserID: providerUserID}, nil
		},
	}
	userRepo := &mockUserRepo{
		createWithIdentityFn: func(_ context.Context, _ *model.User, _ *model.Identity) error {
			t.Error("CreateWithIdentity should not be called for existing user")
			return nil
		},
	}

	svc := NewService(oauth, userRepo, identRepo, &mockSessionRepo{}, ServiceConfig{SessionMaxAge: 86400})
	session, err := svc.HandleCallback(context.Background(), "code")
	if err != nil {
		t.Fatalf("HandleCallback: %v", err)
	}
	if session.UserID != "existing-user" {
		t.Errorf("session.UserID = %q, want existing-user", session.UserID)
	}
}

func TestService_HandleCallback_ExchangeError(t *testing.T) {
	oauth := &mockOAuthProvider{
		exchangeCodeFn: func(_ context.Context, _ string) (*OAuthUserInfo, error) {
			return nil, errors.New("invalid code")
		},
	}

	svc := NewService(oauth, &mockUserRepo{}, &mockIdentityRepo{}, &mockSessionRepo{}, ServiceConfig{})
	if _, err := svc.HandleCallback(context.Background(), "bad-code"); err == nil {
		t.Error("expected error for failed exchange")
	}
}

// トークン交換にはタイムアウト付きコンテキストが渡される
func TestService_HandleCallback_ExchangeTimeout(t *testing.T) {
	oauth := &mockOAuthProvider{
		exchangeCodeFn: func(ctx context.Context, _ string) (*OAuthUserInfo, error) {
			deadline, ok := ctx.Deadline()
			if !ok {
				t.Fatal("exchange context has no deadline")
			}
			if remaining := time.Until(deadline); remaining > 2*time.Second {
				t.Errorf("deadline too far: %v", remaining)
			}
			return &OAuthUserInfo{ProviderUserID: "x", Provider: "google"}, nil
		},
	}

	svc := NewService(oauth, &mockUserRepo{}, &mockIdentityRepo{}, &mockSessionRepo{},
		ServiceConfig{SessionMaxAge: 60, ExchangeTimeout: time.Second})
	if _, err := svc.HandleCallback(context.Background(), "code"); err != nil {
		t.Fatalf("HandleCallback: %v", err)
	}
}

func TestService_GetCurrentUser(t *testing.T) {
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(_ context.Context, id string) (*model.Session, error) {
			return &model.Session{ID: id, UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: func(_ context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Name: "Learner"}, nil
		},
	}

	svc := NewService(&mockOAuthProvider{}, userRepo, &mockIdentityRepo{}, sessionRepo, ServiceConfig{})
	user, err := svc.GetCurrentUser(context.Background(), "session-1")
	if err != nil {
		t.Fatalf("GetCurrentUser: %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("user.ID = %q, want user-1", user.ID)
	}
}

// TTL内の2回目の取得はキャッシュから返され、リポジトリを呼ばない
func TestService_GetCurrentUser_UsesCache(t *testing.T) {
	sessionLookups := 0
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(_ context.Context, id string) (*model.Session, error) {
			sessionLookups++
			return &model.Session{ID: id, UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: func(_ context.Context, id string) (*model.User, error) {
			return &model.User{ID: id}, nil
		},
	}

	svc := NewService(&mockOAuthProvider{}, userRepo, &mockIdentityRepo{}, sessionRepo,
		ServiceConfig{SessionCacheTTL: time.Minute})

	for i := 0; i < 3; i++ {
		if _, err := svc.GetCurrentUser(context.Background(), "session-1"); err != nil {
			t.Fatalf("GetCurrentUser: %v", err)
		}
	}
	if sessionLookups != 1 {
		t.Errorf("session lookups = %d, want 1", sessionLookups)
	}
}

// 無効・期限切れセッションはエラーではなくnilユーザーとして扱う
func TestService_GetCurrentUser_SessionNotFound_ReturnsNil(t *testing.T) {
	svc := NewService(&mockOAuthProvider{}, &mockUserRepo{}, &mockIdentityRepo{}, &mockSessionRepo{}, ServiceConfig{})

	user, err := svc.GetCurrentUser(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetCurrentUser: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil user for missing session, got %+v", user)
	}
}

func TestService_GetCurrentUser_EmptySessionID(t *testing.T) {
	svc := NewService(&mockOAuthProvider{}, &mockUserRepo{}, &mockIdentityRepo{}, &mockSessionRepo{}, ServiceConfig{})

	if _, err := svc.GetCurrentUser(context.Background(), ""); err == nil {
		t.Error("expected error for empty session ID")
	}
}

func TestService_Logout(t *testing.T) {
	deleted := ""
	sessionRepo := &mockSessionRepo{
		deleteByIDFn: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}

	svc := NewService(&mockOAuthProvider{}, &mockUserRepo{}, &mockIdentityRepo{}, sessionRepo, ServiceConfig{})
	if err := svc.Logout(context.Background(), "session-1"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if deleted != "session-1" {
		t.Errorf("deleted = %q, want session-1", deleted)
	}
}

// ログアウト後はキャッシュも無効化される
func TestService_Logout_InvalidatesCache(t *testing.T) {
	sessionLookups := 0
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(_ context.Context, id string) (*model.Session, error) {
			sessionLookups++
			return &model.Session{ID: id, UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: func(_ context.Context, id string) (*model.User, error) {
			return &model.User{ID: id}, nil
		},
	}

	svc := NewService(&mockOAuthProvider{}, userRepo, &mockIdentityRepo{}, sessionRepo,
		ServiceConfig{SessionCacheTTL: time.Minute})

	if _, err := svc.GetCurrentUser(context.Background(), "session-1"); err != nil {
		t.Fatalf("GetCurrentUser: %v", err)
	}
	if err := svc.Logout(context.Background(), "session-1"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.GetCurrentUser(context.Background(), "session-1"); err != nil {
		t.Fatalf("GetCurrentUser: %v", err)
	}

	if sessionLookups != 2 {
		t.Errorf("session lookups = %d, want 2", sessionLookups)
	}
}

func TestService_Withdraw(t *testing.T) {
	deletedSessions := ""
	deletedUser := ""
	sessionRepo := &mockSessionRepo{
		deleteByUserIDFn: func(_ context.Context, userID string) error {
			deletedSessions = userID
			return nil
		},
	}
	userRepo := &mockUserRepo{
		deleteByIDFn: func(_ context.Context, id string) error {
			deletedUser = id
			return nil
		},
	}

	svc := NewService(&mockOAuthProvider{}, userRepo, &mockIdentityRepo{}, sessionRepo, ServiceConfig{})
	if err := svc.Withdraw(context.Background(), "user-1"); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if deletedSessions != "user-1" {
		t.Errorf("deleted sessions for %q, want user-1", deletedSessions)
	}
	if deletedUser != "user-1" {
		t.Errorf("deleted user %q, want user-1", deletedUser)
	}
}

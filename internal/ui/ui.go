// Package ui はサーバーレンダリングの画面レイヤーを提供する。
package ui

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/IND-Anshuman/BHASHASETU/internal/language"
	"github.com/IND-Anshuman/BHASHASETU/internal/model"
)

// 画面の閉じた集合。これ以外の画面名は404。
var screens = map[string]bool{
	"landing":     true,
	"learner":     true,
	"admin":       true,
	"translation": true,
	"voice":       true,
}

// UserResolver はセッションCookieからユーザーを解決するインターフェース。
// auth.Serviceの部分集合。
type UserResolver interface {
	GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error)
}

// MetricsSource は管理画面の集計値を供給するインターフェース。
// dashboard.Serviceの部分集合。nilの場合はゼロ値を表示する。
type MetricsSource interface {
	Metrics(ctx context.Context) (*model.DashboardMetrics, error)
}

// UI は画面のレンダリングとルーティングを担当する。
type UI struct {
	users   UserResolver
	metrics MetricsSource
	logger  *slog.Logger
}

// New はUIハンドラーを生成する。
func New(users UserResolver, metrics MetricsSource, logger *slog.Logger) *UI {
	return &UI{
		users:   users,
		metrics: metrics,
		logger:  logger,
	}
}

// RegisterRoutes は画面ルートを登録する。
// 「/」はlanding、「/{screen}」は閉じた画面集合のみを受け付ける。
func (ui *UI) RegisterRoutes(r chi.Router) {
	r.Get("/", ui.HandleScreen)
	r.Get("/{screen}", ui.HandleScreen)
}

// Handler はスタンドアロンのhttp.Handlerとして画面ルートを返す。
func (ui *UI) Handler() http.Handler {
	r := chi.NewRouter()
	ui.RegisterRoutes(r)
	return r
}

// HandleScreen は1つの画面をマウントする。
// リロード時は常にlandingから始まる（履歴スタックは持たない）。
// 認証済みユーザーのlandingアクセスはlearnerへリダイレクトする（恒常ガード）。
func (ui *UI) HandleScreen(w http.ResponseWriter, r *http.Request) {
	screen := chi.URLParam(r, "screen")
	if screen == "" {
		screen = "landing"
	}

	if !screens[screen] {
		ui.renderNotFound(w, screen)
		return
	}

	user := ui.currentUser(r)

	// 恒常ガード: リクエスト単位で一度だけ評価し、レンダリング中には評価しない
	if screen == "landing" && user != nil {
		http.Redirect(w, r, "/learner", http.StatusTemporaryRedirect)
		return
	}

	data := map[string]any{
		"Screen": screen,
		"User":   user,
	}

	switch screen {
	case "landing":
		// 失敗マーカーは非致命のバナーとして表示する
		data["ErrorBanner"] = errorBanner(r.URL.Query().Get("error"))
	case "admin":
		data["Metrics"] = ui.adminMetrics(r.Context())
	case "translation":
		data["Languages"] = language.All()
	case "voice":
		data["Voices"] = []string{"male", "female"}
	}

	ui.render(w, screen, data)
}

// currentUser はセッションCookieからユーザーを解決する。未認証はnil。
func (ui *UI) currentUser(r *http.Request) *model.User {
	if ui.users == nil {
		return nil
	}
	cookie, err := r.Cookie("session_id")
	if err != nil || cookie.Value == "" {
		return nil
	}
	user, err := ui.users.GetCurrentUser(r.Context(), cookie.Value)
	if err != nil {
		ui.logger.Warn("failed to resolve user for screen", slog.String("error", err.Error()))
		return nil
	}
	return user
}

// adminMetrics はダッシュボード集計を取得する。失敗時はゼロ値。
func (ui *UI) adminMetrics(ctx context.Context) *model.DashboardMetrics {
	if ui.metrics == nil {
		return &model.DashboardMetrics{}
	}
	m, err := ui.metrics.Metrics(ctx)
	if err != nil || m == nil {
		if err != nil {
			ui.logger.Warn("failed to load admin metrics", slog.String("error", err.Error()))
		}
		return &model.DashboardMetrics{}
	}
	return m
}

// errorBanner はコールバック失敗マーカーをユーザー向けメッセージへ変換する。
func errorBanner(marker string) string {
	switch marker {
	case "auth_failed":
		return "Sign-in failed. Please try again."
	case "unexpected_error":
		return "Something went wrong during sign-in. Please try again."
	default:
		return ""
	}
}

// render はレイアウト＋画面テンプレートをレンダリングする。
func (ui *UI) render(w http.ResponseWriter, screen string, data map[string]any) {
	var buf bytes.Buffer
	if err := renderTemplate(&buf, screen, data); err != nil {
		ui.logger.Error("template render failed",
			slog.String("screen", screen),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// renderNotFound は未知の画面名に404ページを返す。
func (ui *UI) renderNotFound(w http.ResponseWriter, screen string) {
	var buf bytes.Buffer
	if err := renderTemplate(&buf, "notfound", map[string]any{"Screen": screen}); err != nil {
		http.Error(w, "404 page not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	buf.WriteTo(w)
}

package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/IND-Anshuman/BHASHASETU/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig
	Logger            *slog.Logger
	StatusObserver    middleware.StatusObserver

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// ドメインサービス
	TranslateService TranslateServiceInterface
	DocumentService  DocumentServiceInterface
	SubtitleService  SubtitleServiceInterface
	SpeechService    SpeechServiceInterface
	FeedbackService  FeedbackServiceInterface
	DashboardService DashboardServiceInterface

	// メタ情報
	ServiceName string
	Version     string

	// アップロードサイズ上限（バイト）
	MaxUploadBytes int64

	// 画面レイヤー（ルート直下にマウント）
	Screens http.Handler

	// Prometheusスクレイプハンドラー
	Metrics http.Handler
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → Logging → CORS → (API: CSRF → Session → RateLimit)
//
// 認証ルート（/auth/*）と公開メタルートはセッションミドルウェアの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.StatusObserver))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	translateHandler := NewTranslateHandler(deps.TranslateService)
	documentHandler := NewDocumentHandler(deps.DocumentService, deps.MaxUploadBytes)
	subtitleHandler := NewSubtitleHandler(deps.SubtitleService, deps.MaxUploadBytes)
	speechHandler := NewSpeechHandler(deps.SpeechService, deps.MaxUploadBytes)
	feedbackHandler := NewFeedbackHandler(deps.FeedbackService)
	dashboardHandler := NewDashboardHandler(deps.DashboardService)
	metaHandler := NewMetaHandler(deps.ServiceName, deps.Version)

	// --- 認証不要のルート ---

	r.Get("/health", metaHandler.Health)
	r.Get("/languages", metaHandler.Languages)
	r.Get("/info", metaHandler.Info)

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	// 認証ルート（OAuthフロー）
	r.Route("/auth", func(r chi.Router) {
		r.Get("/google/login", authHandler.Login)
		r.Get("/google/callback", authHandler.Callback)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	r.Get("/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig).ServeHTTP)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: CSRF → Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		upload := deps.RateLimiter.UploadMiddleware()

		// テキスト翻訳
		r.Route("/api/translate", func(r chi.Router) {
			r.Post("/", translateHandler.Translate)
			r.Post("/batch", translateHandler.TranslateBatch)
			r.Post("/detect", translateHandler.Detect)
			r.Get("/languages", translateHandler.Languages)
		})

		// ドキュメント翻訳（アップロード専用レート制限を追加）
		r.Route("/api/documents", func(r chi.Router) {
			r.With(upload).Post("/translate", documentHandler.Translate)
			r.With(upload).Post("/translate-url", documentHandler.TranslateURL)
			r.Get("/formats", documentHandler.Formats)
		})

		// 字幕翻訳
		r.Route("/api/subtitles", func(r chi.Router) {
			r.With(upload).Post("/translate", subtitleHandler.Translate)
			r.Post("/merge", subtitleHandler.Merge)
		})

		// 音声
		r.Route("/api/speech", func(r chi.Router) {
			r.With(upload).Post("/transcribe", speechHandler.Transcribe)
			r.With(upload).Post("/translate", speechHandler.TranslateSpeech)
		})
		r.Post("/api/tts", speechHandler.Synthesize)

		// フィードバック
		r.Post("/api/feedback", feedbackHandler.Submit)

		// ダッシュボード
		r.Get("/api/dashboard/metrics", dashboardHandler.Metrics)

		// 退会
		r.Delete("/api/users/me", authHandler.Withdraw)
	})

	// --- 画面レイヤー ---
	if deps.Screens != nil {
		r.Mount("/", deps.Screens)
	}

	return r
}

package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/IND-Anshuman/BHASHASETU/internal/auth"
	"github.com/IND-Anshuman/BHASHASETU/internal/bhashini"
	"github.com/IND-Anshuman/BHASHASETU/internal/config"
	"github.com/IND-Anshuman/BHASHASETU/internal/dashboard"
	"github.com/IND-Anshuman/BHASHASETU/internal/database"
	"github.com/IND-Anshuman/BHASHASETU/internal/document"
	"github.com/IND-Anshuman/BHASHASETU/internal/feedback"
	"github.com/IND-Anshuman/BHASHASETU/internal/glossary"
	"github.com/IND-Anshuman/BHASHASETU/internal/handler"
	"github.com/IND-Anshuman/BHASHASETU/internal/logger"
	"github.com/IND-Anshuman/BHASHASETU/internal/metrics"
	"github.com/IND-Anshuman/BHASHASETU/internal/middleware"
	"github.com/IND-Anshuman/BHASHASETU/internal/region"
	"github.com/IND-Anshuman/BHASHASETU/internal/repository"
	"github.com/IND-Anshuman/BHASHASETU/internal/speech"
	"github.com/IND-Anshuman/BHASHASETU/internal/storage"
	"github.com/IND-Anshuman/BHASHASETU/internal/subtitle"
	"github.com/IND-Anshuman/BHASHASETU/internal/translate"
	"github.com/IND-Anshuman/BHASHASETU/internal/ui"
)

const (
	serviceName = "BhashaSetu"
	version     = "1.0.0"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリの初期化
	userRepo := repository.NewPostgresUserRepo(db)
	identRepo := repository.NewPostgresIdentityRepo(db)
	sessionRepo := repository.NewPostgresSessionRepo(db)
	translationRepo := repository.NewPostgresTranslationRepo(db)
	feedbackRepo := repository.NewPostgresFeedbackRepo(db)

	// 3. 成果物ストレージの初期化（S3_BUCKET設定時はS3、未設定時はローカル）
	store, err := newStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	// 4. メトリクスコレクターの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 5. ドメインサービスの初期化
	oauthProvider := auth.NewGoogleOAuthProvider(auth.GoogleOAuthConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	})
	authService := auth.NewService(
		oauthProvider, userRepo, identRepo, sessionRepo,
		auth.ServiceConfig{
			SessionMaxAge:   cfg.SessionMaxAge,
			ExchangeTimeout: cfg.OAuthExchangeTimeout,
			SessionCacheTTL: cfg.SessionCacheTTL,
		},
	)

	glossaries := glossary.NewLoader(cfg.GlossaryDir, cfg.GlossaryTTL, slog.Default())

	regions := region.NewAdapter(slog.Default())
	if cfg.RegionRulesDir != "" {
		if err := regions.LoadDir(cfg.RegionRulesDir); err != nil {
			slog.Warn("failed to load region rules, using built-in rules only",
				slog.String("dir", cfg.RegionRulesDir),
				slog.String("error", err.Error()),
			)
		}
	}

	engine := translate.NewGoogleEngine(translate.GoogleEngineConfig{
		Timeout: cfg.TranslateTimeout,
	})
	translateService := translate.NewService(
		engine, glossaries, regions, translationRepo, cfg.TranslateChunkSize, slog.Default(),
	)
	instrumentedTranslate := newInstrumentedTranslateService(translateService, collector)

	subtitleService := subtitle.NewService(translateService, translationRepo, slog.Default())

	fetcher := document.NewFetcher(cfg.FetchTimeout, cfg.FetchMaxSize)
	documentService := document.NewService(
		translateService, subtitleService, fetcher, store, slog.Default(),
	)

	speechEngine := bhashini.NewClient(bhashini.Config{
		APIURL: cfg.BhashiniAPIURL,
		APIKey: cfg.BhashiniAPIKey,
		UserID: cfg.BhashiniUserID,
	})
	speechService := speech.NewService(
		speechEngine, translateService, store, translationRepo, slog.Default(),
	)

	feedbackService := feedback.NewService(feedbackRepo, translationRepo, slog.Default())
	dashboardService := dashboard.NewService(translationRepo, feedbackRepo, slog.Default())

	// 6. 画面レイヤーの構築
	screens := ui.New(authService, dashboardService, slog.Default())

	// 7. ルーターの構築
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	// configのレート制限はreq/min単位なのでreq/secに変換する
	if cfg.RateLimitGeneral > 0 {
		rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
		rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	}
	if cfg.RateLimitUpload > 0 {
		rateLimiterCfg.UploadRate = rate.Limit(float64(cfg.RateLimitUpload) / 60.0)
		rateLimiterCfg.UploadBurst = cfg.RateLimitUpload
	}
	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	deps := &handler.RouterDeps{
		SessionFinder:     sessionRepo,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		CSRFConfig: middleware.CSRFConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
		},
		Logger: slog.Default(),
		StatusObserver: func(method, path string, statusCode int, duration time.Duration) {
			collector.RecordHTTPStatus(statusCode)
		},

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			BaseURL:       cfg.BaseURL,
			CookieDomain:  cfg.CookieDomain,
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
		},

		TranslateService: instrumentedTranslate,
		DocumentService:  documentService,
		SubtitleService:  subtitleService,
		SpeechService:    speechService,
		FeedbackService:  feedbackService,
		DashboardService: dashboardService,

		ServiceName:    serviceName,
		Version:        version,
		MaxUploadBytes: cfg.UploadMaxSize,

		Screens: screens.Handler(),
		Metrics: metrics.Handler(registry),
	}

	router := handler.NewRouter(deps)

	// 8. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// newStore は設定に応じた成果物ストレージを生成する。
func newStore(cfg *config.Config) (storage.Store, error) {
	if cfg.S3Bucket != "" {
		slog.Info("using S3 storage",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return storage.NewS3Store(context.Background(), cfg.S3Bucket, cfg.S3Region, "outputs")
	}

	slog.Info("using local storage", slog.String("dir", cfg.OutputDir))
	return storage.NewLocalStore(cfg.OutputDir)
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}

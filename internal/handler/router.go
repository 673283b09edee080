package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/kissaten/internal/metrics"
	"github.com/hitoshi/kissaten/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// メニュー
	MenuService MenuServiceInterface

	// レビュー
	ReviewService ReviewServiceInterface

	// チェックアウト
	CheckoutService CheckoutServiceInterface
	CheckoutConfig  CheckoutHandlerConfig

	// メトリクス
	Metrics        metrics.MetricsCollector
	MetricsHandler http.Handler
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → SecurityHeaders → CORS → StatusMetrics
//	→ (認証ルートのみ Session → RateLimit(General))
//
// メニュー閲覧・レビュー閲覧・ヘルスチェックは認証不要の公開ルート。
// メニューの変更操作はセッション必須とし、管理者権限の判定はサービス層で行う。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.Metrics != nil {
		r.Use(middleware.NewStatusMetricsMiddleware(deps.Metrics))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig, deps.Metrics)
	menuHandler := NewMenuHandler(deps.MenuService, deps.Metrics)
	reviewHandler := NewReviewHandler(deps.ReviewService, deps.Metrics)
	checkoutHandler := NewCheckoutHandler(deps.CheckoutService, deps.CheckoutConfig, deps.Metrics)

	// --- 認証不要のルート ---

	r.Get("/api/health", Health)

	// ログインはセッション確立前のためIPベースの専用レート制限を適用
	r.With(deps.RateLimiter.LoginMiddleware()).Post("/api/auth/google", authHandler.Login)

	// ログアウトと現在ユーザー取得はCookieを直接読むため、セッションミドルウェアの外に置く
	r.Post("/api/auth/logout", authHandler.Logout)
	r.Get("/api/auth/me", authHandler.Me)

	// メニューとレビューの閲覧は公開
	r.Get("/api/menu", menuHandler.List)
	r.Get("/api/menu/{id}", menuHandler.Get)
	r.Get("/api/reviews", reviewHandler.List)

	// Prometheusメトリクス
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// メニュー変更（管理者判定はサービス層）
		r.Post("/api/menu", menuHandler.Create)
		r.Put("/api/menu/{id}", menuHandler.Update)
		r.Delete("/api/menu/{id}", menuHandler.Delete)

		// レビュー投稿
		r.Post("/api/reviews", reviewHandler.Create)

		// 注文確定
		r.Post("/api/checkout", checkoutHandler.Checkout)
	})

	return r
}

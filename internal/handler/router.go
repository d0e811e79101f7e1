package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayane/letterdrop/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	AdminToken        string

	// 公開エンドポイント
	SubscriberService SubscriberServiceInterface
	TrackingRecorder  TrackingRecorderInterface
	BaseURL           string

	// 管理エンドポイント
	BroadcastService BroadcastServiceInterface
	OpenCounter      OpenCounterInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → RateLimit(General)
//
// 開封ビーコン（/tracking/open）は常に200で応答する必要があるため、
// レート制限の外に配置する。管理ルート（/admin/*）にはトークン認可を追加する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	subscriberHandler := NewSubscriberHandler(deps.SubscriberService, deps.BaseURL)
	trackingHandler := NewTrackingHandler(deps.TrackingRecorder)
	adminHandler := NewAdminHandler(deps.SubscriberService, deps.BroadcastService, deps.OpenCounter)

	// --- レート制限の外のルート ---

	// 開封ビーコン
	r.Get("/tracking/open", trackingHandler.Open)

	// ヘルスチェック
	r.Get("/health", healthCheck)

	// --- レート制限つきのルート ---
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// POST /subscribe - 購読登録（登録専用レート制限を追加）
		r.With(deps.RateLimiter.SubscribeMiddleware()).Post("/subscribe", subscriberHandler.Subscribe)

		// GET /unsubscribe - メール本文のリンクからの配信停止
		r.Get("/unsubscribe", subscriberHandler.Unsubscribe)

		// 管理ルート
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.NewAdminAuthMiddleware(deps.AdminToken))

			r.Post("/broadcasts", adminHandler.TriggerBroadcast)
			r.Post("/subscribers", adminHandler.AddSubscriber)
			r.Delete("/subscribers/{id}", adminHandler.RemoveSubscriber)
			r.Get("/newsletters/{id}/opens", adminHandler.GetOpenCount)
		})
	})

	return r
}

// healthCheck はロードバランサーのヘルスチェックに応答する。
// GET /health
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

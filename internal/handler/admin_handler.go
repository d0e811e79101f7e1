package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayane/letterdrop/internal/auth"
	"github.com/ayane/letterdrop/internal/broadcast"
	"github.com/ayane/letterdrop/internal/model"
)

// BroadcastServiceInterface は管理ハンドラーが必要とする配信サービスインターフェース。
type BroadcastServiceInterface interface {
	// Send は指定ニュースレターを全アクティブ購読者に配信し、結果集計を返す。
	Send(ctx context.Context, newsletterID string) (*broadcast.Report, error)
}

// OpenCounterInterface は開封集計のインターフェース。
type OpenCounterInterface interface {
	// CountOpens は指定ニュースレターの開封イベント数を返す。
	CountOpens(ctx context.Context, newsletterID string) (int, error)
}

// AdminHandler は管理者操作のHTTPハンドラー。
// 認可はルーティング側のミドルウェアで行われ、認可情報はコンテキスト経由で受け取る。
type AdminHandler struct {
	subscriberService SubscriberServiceInterface
	broadcastService  BroadcastServiceInterface
	openCounter       OpenCounterInterface
}

// NewAdminHandler はAdminHandlerを生成する。
func NewAdminHandler(
	subscriberService SubscriberServiceInterface,
	broadcastService BroadcastServiceInterface,
	openCounter OpenCounterInterface,
) *AdminHandler {
	return &AdminHandler{
		subscriberService: subscriberService,
		broadcastService:  broadcastService,
		openCounter:       openCounter,
	}
}

// broadcastRequest は配信トリガーリクエストのボディ。
type broadcastRequest struct {
	NewsletterID string `json:"newsletter_id"`
}

// broadcastResponse は配信結果のAPIレスポンス。
type broadcastResponse struct {
	Success    bool `json:"success"`
	SentCount  int  `json:"sent_count"`
	ErrorCount int  `json:"error_count"`
}

// TriggerBroadcast は指定ニュースレターの一斉配信を実行する。
// 配信は同期実行のため、レスポンスは配信完了後に返る。
// POST /admin/broadcasts
func (h *AdminHandler) TriggerBroadcast(w http.ResponseWriter, r *http.Request) {
	var req broadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NewsletterID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "newsletter_idを指定してください。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	report, err := h.broadcastService.Send(r.Context(), req.NewsletterID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(broadcastResponse{
		Success:    true,
		SentCount:  report.SentCount,
		ErrorCount: report.ErrorCount,
	})
}

// addSubscriberRequest は購読者手動追加リクエストのボディ。
type addSubscriberRequest struct {
	Email string `json:"email"`
}

// AddSubscriber は管理者が購読者を手動追加する。
// POST /admin/subscribers
func (h *AdminHandler) AddSubscriber(w http.ResponseWriter, r *http.Request) {
	var req addSubscriberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	authCtx := auth.FromContext(r.Context())
	if err := h.subscriberService.AdminAdd(r.Context(), authCtx, req.Email); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// RemoveSubscriber は管理者が購読者を物理削除する。
// DELETE /admin/subscribers/{id}
func (h *AdminHandler) RemoveSubscriber(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	authCtx := auth.FromContext(r.Context())
	if err := h.subscriberService.AdminRemove(r.Context(), authCtx, id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// openCountResponse は開封集計のAPIレスポンス。
type openCountResponse struct {
	NewsletterID string `json:"newsletter_id"`
	OpenCount    int    `json:"open_count"`
}

// GetOpenCount は指定ニュースレターの開封イベント数を返す。
// GET /admin/newsletters/{id}/opens
func (h *AdminHandler) GetOpenCount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	count, err := h.openCounter.CountOpens(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(openCountResponse{
		NewsletterID: id,
		OpenCount:    count,
	})
}

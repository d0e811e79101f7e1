package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/ayane/letterdrop/internal/auth"
	"github.com/ayane/letterdrop/internal/model"
	"github.com/ayane/letterdrop/internal/subscriber"
)

// SubscriberServiceInterface は購読者ハンドラーが必要とするサービスインターフェース。
type SubscriberServiceInterface interface {
	// Subscribe はメールアドレスを購読者レジストリに登録する。
	Subscribe(ctx context.Context, email, source string, segments []string) *subscriber.SubscribeResult
	// UnsubscribeByEmail は指定メールアドレスの購読者を配信停止にする。
	UnsubscribeByEmail(ctx context.Context, email string) error
	// AdminAdd は管理者が購読者を手動追加する。
	AdminAdd(ctx context.Context, authCtx auth.Context, email string) error
	// AdminRemove は管理者が購読者を物理削除する。
	AdminRemove(ctx context.Context, authCtx auth.Context, id string) error
}

// SubscriberHandler は購読登録・解除のHTTPハンドラー。
type SubscriberHandler struct {
	service SubscriberServiceInterface
	baseURL string
}

// NewSubscriberHandler はSubscriberHandlerを生成する。
// baseURLは配信停止後のリダイレクト先の組み立てに使用する。
func NewSubscriberHandler(service SubscriberServiceInterface, baseURL string) *SubscriberHandler {
	return &SubscriberHandler{
		service: service,
		baseURL: baseURL,
	}
}

// subscribeRequest は購読登録リクエストのボディ。
type subscribeRequest struct {
	Email    string   `json:"email"`
	Segments []string `json:"segments,omitempty"`
	Source   string   `json:"source,omitempty"`
}

// subscribeResponse は購読登録のAPIレスポンス。
type subscribeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Subscribe はメールアドレスを購読者レジストリに登録する。
// POST /subscribe
func (h *SubscriberHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	result := h.service.Subscribe(r.Context(), req.Email, req.Source, req.Segments)

	if !result.Success {
		statusCode := http.StatusInternalServerError
		if result.Code == model.ErrCodeInvalidEmail {
			statusCode = http.StatusBadRequest
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(subscribeResponse{
			Success: false,
			Message: result.Message,
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(subscribeResponse{
		Success: true,
		Message: result.Message,
	})
}

// Unsubscribe はメールアドレスを配信停止にし、完了ページへリダイレクトする。
// メール本文のリンクから直接開かれるため、結果はJSONではなく303リダイレクトで返す。
// GET /unsubscribe?email=...
func (h *SubscriberHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		http.Redirect(w, r, h.unsubscribedPageURL(true), http.StatusSeeOther)
		return
	}

	if err := h.service.UnsubscribeByEmail(r.Context(), email); err != nil {
		slog.Error("配信停止の処理に失敗しました", slog.String("error", err.Error()))
		http.Redirect(w, r, h.unsubscribedPageURL(true), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, h.unsubscribedPageURL(false), http.StatusSeeOther)
}

// unsubscribedPageURL は配信停止完了ページのURLを返す。
func (h *SubscriberHandler) unsubscribedPageURL(withError bool) string {
	target := h.baseURL + "/unsubscribed"
	if withError {
		q := url.Values{}
		q.Set("error", "1")
		target += "?" + q.Encode()
	}
	return target
}

// apiErrorResponse はAPIエラーレスポンスの統一フォーマット。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, model.NewInternalError())
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeInvalidEmail:
		return http.StatusBadRequest
	case model.ErrCodeAlreadySubscribed:
		return http.StatusConflict
	case model.ErrCodeSubscriberNotFound, model.ErrCodeNewsletterNotFound:
		return http.StatusNotFound
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

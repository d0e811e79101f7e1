package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ayane/letterdrop/internal/tracking"
)

// TrackingRecorderInterface は開封ビーコンハンドラーが必要とする記録インターフェース。
type TrackingRecorderInterface interface {
	// RecordOpen は開封イベントを記録する。失敗は呼び出し元に返さない。
	RecordOpen(ctx context.Context, newsletterID, subscriberID string)
}

// TrackingHandler は開封計測ビーコンのHTTPハンドラー。
type TrackingHandler struct {
	recorder TrackingRecorderInterface
}

// NewTrackingHandler はTrackingHandlerを生成する。
func NewTrackingHandler(recorder TrackingRecorderInterface) *TrackingHandler {
	return &TrackingHandler{recorder: recorder}
}

// Open は開封ビーコンのリクエストを処理する。
// パラメータの有無や記録の成否にかかわらず、常に200で1x1の透明GIFを返す。
// メールクライアントに壊れた画像を表示させないため、エラーステータスは返さない。
// GET /tracking/open?id=...&sub=...
func (h *TrackingHandler) Open(w http.ResponseWriter, r *http.Request) {
	newsletterID := r.URL.Query().Get("id")
	subscriberID := r.URL.Query().Get("sub")

	h.recorder.RecordOpen(r.Context(), newsletterID, subscriberID)

	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Content-Length", strconv.Itoa(len(tracking.Pixel)))
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.WriteHeader(http.StatusOK)
	w.Write(tracking.Pixel)
}

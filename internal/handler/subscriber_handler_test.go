package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ayane/letterdrop/internal/auth"
	"github.com/ayane/letterdrop/internal/model"
	"github.com/ayane/letterdrop/internal/subscriber"
)

type mockSubscriberService struct {
	subscribeFn   func(ctx context.Context, email, source string, segments []string) *subscriber.SubscribeResult
	unsubscribeFn func(ctx context.Context, email string) error
	adminAddFn    func(ctx context.Context, authCtx auth.Context, email string) error
	adminRemoveFn func(ctx context.Context, authCtx auth.Context, id string) error
}

func (m *mockSubscriberService) Subscribe(ctx context.Context, email, source string, segments []string) *subscriber.SubscribeResult {
	return m.subscribeFn(ctx, email, source, segments)
}

func (m *mockSubscriberService) UnsubscribeByEmail(ctx context.Context, email string) error {
	return m.unsubscribeFn(ctx, email)
}

func (m *mockSubscriberService) AdminAdd(ctx context.Context, authCtx auth.Context, email string) error {
	return m.adminAddFn(ctx, authCtx, email)
}

func (m *mockSubscriberService) AdminRemove(ctx context.Context, authCtx auth.Context, id string) error {
	return m.adminRemoveFn(ctx, authCtx, id)
}

const testBaseURL = "https://letterdrop.example.com"

// 購読登録成功時に200とメッセージが返ることを検証する。
func TestSubscriberHandler_Subscribe_Success(t *testing.T) {
	svc := &mockSubscriberService{
		subscribeFn: func(_ context.Context, email, source string, segments []string) *subscriber.SubscribeResult {
			if email != "reader@example.com" {
				t.Errorf("email = %q, want reader@example.com", email)
			}
			if len(segments) != 1 || segments[0] != "golang" {
				t.Errorf("segments = %v, want [golang]", segments)
			}
			return &subscriber.SubscribeResult{Success: true, Message: "ご登録ありがとうございます。"}
		},
	}
	h := NewSubscriberHandler(svc, testBaseURL)

	body := `{"email":"reader@example.com","segments":["golang"]}`
	req := httptest.NewRequest(http.MethodPost, "/subscribe", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Subscribe(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var resp subscribeResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("success should be true")
	}
	if resp.Message == "" {
		t.Error("message should be set")
	}
}

// 不正なJSONボディは400で拒否されることを検証する。
func TestSubscriberHandler_Subscribe_InvalidBody(t *testing.T) {
	svc := &mockSubscriberService{
		subscribeFn: func(_ context.Context, _, _ string, _ []string) *subscriber.SubscribeResult {
			t.Fatal("service should not be called")
			return nil
		},
	}
	h := NewSubscriberHandler(svc, testBaseURL)

	req := httptest.NewRequest(http.MethodPost, "/subscribe", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	h.Subscribe(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

// メールアドレス形式エラーは400で返ることを検証する。
func TestSubscriberHandler_Subscribe_InvalidEmail(t *testing.T) {
	svc := &mockSubscriberService{
		subscribeFn: func(_ context.Context, _, _ string, _ []string) *subscriber.SubscribeResult {
			return &subscriber.SubscribeResult{
				Success: false,
				Code:    model.ErrCodeInvalidEmail,
				Message: "メールアドレスの形式が正しくありません。",
			}
		},
	}
	h := NewSubscriberHandler(svc, testBaseURL)

	req := httptest.NewRequest(http.MethodPost, "/subscribe", strings.NewReader(`{"email":"bad"}`))
	w := httptest.NewRecorder()

	h.Subscribe(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}

	var resp subscribeResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Success {
		t.Error("success should be false")
	}
}

// ストア障害は500で一般的なメッセージが返ることを検証する。
func TestSubscriberHandler_Subscribe_StoreFailure(t *testing.T) {
	svc := &mockSubscriberService{
		subscribeFn: func(_ context.Context, _, _ string, _ []string) *subscriber.SubscribeResult {
			return &subscriber.SubscribeResult{
				Success: false,
				Code:    model.ErrCodeInternal,
				Message: "処理に失敗しました。しばらく待ってから再度お試しください。",
			}
		},
	}
	h := NewSubscriberHandler(svc, testBaseURL)

	req := httptest.NewRequest(http.MethodPost, "/subscribe", strings.NewReader(`{"email":"reader@example.com"}`))
	w := httptest.NewRecorder()

	h.Subscribe(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

// 配信停止成功時に完了ページへ303リダイレクトされることを検証する。
func TestSubscriberHandler_Unsubscribe_Redirects(t *testing.T) {
	svc := &mockSubscriberService{
		unsubscribeFn: func(_ context.Context, email string) error {
			if email != "reader@example.com" {
				t.Errorf("email = %q, want reader@example.com", email)
			}
			return nil
		},
	}
	h := NewSubscriberHandler(svc, testBaseURL)

	req := httptest.NewRequest(http.MethodGet, "/unsubscribe?email=reader%40example.com", nil)
	w := httptest.NewRecorder()

	h.Unsubscribe(w, req)

	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != testBaseURL+"/unsubscribed" {
		t.Errorf("Location = %q, want %s/unsubscribed", loc, testBaseURL)
	}
}

// email未指定の場合はエラーフラグつきでリダイレクトされることを検証する。
func TestSubscriberHandler_Unsubscribe_MissingEmail(t *testing.T) {
	svc := &mockSubscriberService{
		unsubscribeFn: func(_ context.Context, _ string) error {
			t.Fatal("service should not be called")
			return nil
		},
	}
	h := NewSubscriberHandler(svc, testBaseURL)

	req := httptest.NewRequest(http.MethodGet, "/unsubscribe", nil)
	w := httptest.NewRecorder()

	h.Unsubscribe(w, req)

	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); !strings.Contains(loc, "error=1") {
		t.Errorf("Location = %q, should contain error=1", loc)
	}
}

// ストア障害時もエラーフラグつきでリダイレクトされることを検証する。
func TestSubscriberHandler_Unsubscribe_StoreFailure(t *testing.T) {
	svc := &mockSubscriberService{
		unsubscribeFn: func(_ context.Context, _ string) error {
			return model.NewInternalError()
		},
	}
	h := NewSubscriberHandler(svc, testBaseURL)

	req := httptest.NewRequest(http.MethodGet, "/unsubscribe?email=reader%40example.com", nil)
	w := httptest.NewRecorder()

	h.Unsubscribe(w, req)

	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); !strings.Contains(loc, "error=1") {
		t.Errorf("Location = %q, should contain error=1", loc)
	}
}

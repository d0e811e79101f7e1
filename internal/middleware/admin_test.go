package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayane/letterdrop/internal/auth"
)

// 正しいトークンで認可され、コンテキストにオペレーターが設定されることを検証する。
func TestAdminAuthMiddleware_ValidToken(t *testing.T) {
	var gotAuth auth.Context
	mw := NewAdminAuthMiddleware("secret-token")
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/admin/subscribers", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !gotAuth.Authorized {
		t.Error("auth context should be authorized")
	}
	if gotAuth.Operator == "" {
		t.Error("operator should be set")
	}
}

// 不正なトークンは401で拒否されることを検証する。
func TestAdminAuthMiddleware_InvalidToken(t *testing.T) {
	mw := NewAdminAuthMiddleware("secret-token")
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodPost, "/admin/subscribers", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

// Authorizationヘッダーなしは401で拒否されることを検証する。
func TestAdminAuthMiddleware_MissingHeader(t *testing.T) {
	mw := NewAdminAuthMiddleware("secret-token")
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodPost, "/admin/subscribers", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

// トークン未設定の場合は全ての管理操作が拒否されることを検証する（フェイルクローズ）。
func TestAdminAuthMiddleware_EmptyConfiguredToken(t *testing.T) {
	mw := NewAdminAuthMiddleware("")
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodPost, "/admin/subscribers", nil)
	req.Header.Set("Authorization", "Bearer ")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
